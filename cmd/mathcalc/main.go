// Package main provides the entry point for mathcalc.
//
// mathcalc serves educational math calculators:
// - Web UI with live recalculation and charts
// - JSON API with PNG/SVG chart export
// - MCP server exposing every calculator as a tool
//
// Usage:
//
//	mathcalc                          Start the service (default)
//	mathcalc serve                    Start the service
//	mathcalc eval <calc> [k=v ...]    Evaluate a calculator once
//	mathcalc plot <calc> -o FILE      Render a calculator chart
//	mathcalc mcp                      Start MCP server (stdio mode)
//	mathcalc version                  Show version
//	mathcalc status                   Show service status
//	mathcalc stop                     Stop the running service
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/mathcalc/internal/api"
	"github.com/ternarybob/mathcalc/internal/config"
	"github.com/ternarybob/mathcalc/internal/fileutil"
	"github.com/ternarybob/mathcalc/internal/logger"
	"github.com/ternarybob/mathcalc/internal/mcp"
	"github.com/ternarybob/mathcalc/internal/service"
	"github.com/ternarybob/mathcalc/pkg/calculator"
	"github.com/ternarybob/mathcalc/pkg/chart"
)

// version is set via -ldflags at build time
var version = "dev"

func main() {
	// Set version in API package
	api.SetVersion(version)

	if len(os.Args) < 2 {
		// Default: start service
		if err := cmdServe(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "serve", "start":
		err = cmdServe()
	case "eval":
		err = cmdEval(args, os.Stdout)
	case "plot":
		err = cmdPlot(args, os.Stdout)
	case "init":
		err = cmdInit(args)
	case "version", "-v", "--version":
		cmdVersion()
	case "status":
		err = cmdStatus()
	case "stop":
		err = cmdStop()
	case "mcp", "mcp-server":
		err = cmdMCP()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`mathcalc - Educational math calculators

Usage:
  mathcalc [command]

Commands:
  serve                          Start the service (default)
  eval <calc> [--json] [k=v ...] Evaluate a calculator and print the results
  plot <calc> -o FILE [k=v ...]  Render a chart to FILE (.png or .svg)
  init [FILE]                    Write the default configuration
  mcp                            Start MCP server (stdio mode)
  version                        Show version information
  status                         Show service status
  stop                           Stop the running service
  help                           Show this help

Calculators:
  %s

Environment:
  MATHCALC_CONFIG    Config file path (default %s)

Examples:
  mathcalc eval quadratic a=1 b=-3 c=2
  mathcalc eval base value=ff preset=hex --json
  mathcalc plot log -o log.svg base=10 number=1000
  curl localhost:8430/api/cubic?d=-1
`, strings.Join(calculator.Names(), ", "), config.DefaultConfigPath())
}

func configPath() string {
	if p := os.Getenv("MATHCALC_CONFIG"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func cmdVersion() {
	fmt.Printf("mathcalc version %s\n", version)
}

func cmdServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Check if already running
	if running, pid := service.IsRunning(cfg); running {
		return fmt.Errorf("service already running (PID %d)", pid)
	}

	log := logger.SetupLogger(cfg)
	defer logger.Stop()

	daemon := service.NewDaemon(cfg, configPath(), log)
	if err := daemon.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	fmt.Printf("mathcalc v%s started on %s\n", version, daemon.Addr())
	fmt.Printf("Web UI: http://%s/web/\n", daemon.Addr())
	if cfg.API.Enabled {
		fmt.Printf("API: http://%s/api/calculators\n", daemon.Addr())
	}

	// Wait for shutdown signal
	daemon.Wait()
	return nil
}

func cmdStatus() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	running, pid := service.IsRunning(cfg)
	if running {
		fmt.Printf("mathcalc: running (PID %d)\n", pid)
		fmt.Printf("Address: %s\n", cfg.Address())
	} else {
		fmt.Println("mathcalc: stopped")
	}
	return nil
}

func cmdStop() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	running, pid := service.IsRunning(cfg)
	if !running {
		fmt.Println("mathcalc is not running")
		return nil
	}

	fmt.Printf("Stopping mathcalc (PID %d)...\n", pid)
	if err := service.StopRunning(cfg); err != nil {
		return err
	}

	fmt.Println("mathcalc stopped")
	return nil
}

func cmdInit(args []string) error {
	path := configPath()
	if len(args) > 0 {
		path = args[0]
	}
	if fileutil.Exists(path) {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func cmdMCP() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		cfg = config.DefaultConfig()
	}

	// stdout carries protocol frames; log to file only
	log := logger.SetupStdio(cfg)
	defer logger.Stop()

	h := mcp.NewHandler(log, version, cfg.CalculatorOptions, cfg.Chart.Width, cfg.Chart.Height)
	return h.ServeStdio()
}

// invocation is a parsed eval or plot command line.
type invocation struct {
	calc   calculator.Calculator
	fields calculator.Fields
	json   bool
	output string
}

// parseInvocation reads "<calc> [--json] [-o FILE] [key=value ...]".
func parseInvocation(args []string) (invocation, error) {
	var inv invocation
	if len(args) == 0 {
		return inv, fmt.Errorf("missing calculator name (one of %s)", strings.Join(calculator.Names(), ", "))
	}
	c, ok := calculator.Lookup(args[0])
	if !ok {
		return inv, fmt.Errorf("%w: %s", calculator.ErrUnknown, args[0])
	}
	inv.calc = c
	inv.fields = c.Defaults()

	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		switch {
		case a == "--json":
			inv.json = true
		case a == "-o" || a == "--output":
			if i+1 >= len(rest) {
				return inv, fmt.Errorf("%s needs a file name", a)
			}
			i++
			inv.output = rest[i]
		case strings.Contains(a, "="):
			k, v, _ := strings.Cut(a, "=")
			inv.fields[k] = v
		default:
			return inv, fmt.Errorf("unexpected argument %q (want key=value)", a)
		}
	}
	return inv, nil
}

func cmdEval(args []string, w io.Writer) error {
	inv, err := parseInvocation(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	view := inv.calc.Evaluate(context.Background(), nil, inv.fields, cfg.CalculatorOptions())
	if inv.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return err
		}
	} else {
		printView(w, inv.calc, view)
	}
	if !view.OK() {
		return fmt.Errorf("%s%s", view.Validation, view.Error)
	}
	return nil
}

func printView(w io.Writer, c calculator.Calculator, v calculator.View) {
	if v.Display != nil {
		width := 0
		for _, o := range c.Outputs {
			width = max(width, len(o.Label))
		}
		for _, o := range c.Outputs {
			fmt.Fprintf(w, "%-*s  %s\n", width, o.Label, v.Display[o.Key])
		}
	}
	if v.Steps != nil && v.Steps.Len() > 0 {
		fmt.Fprintln(w, "\nSteps:")
		for _, l := range v.Steps.Lines() {
			fmt.Fprintf(w, "  %s\n", l)
		}
	}
}

func cmdPlot(args []string, w io.Writer) error {
	inv, err := parseInvocation(args)
	if err != nil {
		return err
	}
	if inv.output == "" {
		return fmt.Errorf("missing -o FILE")
	}
	if !inv.calc.Plots {
		return fmt.Errorf("calculator %s has no chart", inv.calc.Name)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	view := inv.calc.Evaluate(context.Background(), nil, inv.fields, cfg.CalculatorOptions())
	if !view.OK() {
		return fmt.Errorf("%s%s", view.Validation, view.Error)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(inv.output)), ".")
	st := chart.NewStatic(format, cfg.Chart.Width, cfg.Chart.Height)

	var buf bytes.Buffer
	if err := st.Render(&buf, *view.Figure); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := fileutil.WriteFile(inv.output, buf.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s (%s)\n", inv.output, st.ContentType())
	return nil
}
