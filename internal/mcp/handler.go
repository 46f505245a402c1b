// Package mcp exposes the calculators as Model Context Protocol tools so
// assistants can evaluate them over stdio or HTTP.
package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/mathcalc/pkg/calculator"
	"github.com/ternarybob/mathcalc/pkg/chart"
)

// ToolNames maps calculator names to their tool names.
var ToolNames = map[string]string{
	"log":       "logarithm",
	"quadratic": "quadratic",
	"cubic":     "cubic",
	"power":     "power",
	"base":      "base_convert",
	"prime":     "prime_info",
	"primes":    "primes_in_range",
}

// OptionsFunc returns the current calculator options.
type OptionsFunc func() calculator.Options

// ToolResult is the JSON text a calculator tool returns.
type ToolResult struct {
	Calculator string            `json:"calculator"`
	Display    map[string]string `json:"display"`
	Steps      []string          `json:"steps,omitempty"`
}

// Handler serves the calculator tools.
type Handler struct {
	logger  arbor.ILogger
	options OptionsFunc
	width   int
	height  int
	server  *server.MCPServer
}

// NewHandler creates the MCP server and registers one tool per calculator
// plus plot and list tools. width and height size plot images.
func NewHandler(logger arbor.ILogger, version string, options OptionsFunc, width, height int) *Handler {
	if options == nil {
		options = calculator.DefaultOptions
	}
	h := &Handler{
		logger:  logger,
		options: options,
		width:   width,
		height:  height,
		server: server.NewMCPServer(
			"mathcalc",
			version,
			server.WithToolCapabilities(true),
		),
	}
	h.registerTools()
	return h
}

// registerTools registers all MCP tools with the server.
func (h *Handler) registerTools() {
	for _, c := range calculator.All() {
		opts := []mcp.ToolOption{mcp.WithDescription(c.Title + ". " + c.Summary)}
		for _, f := range c.Fields {
			desc := f.Label
			if f.Default != "" {
				desc += " (default " + f.Default + ")"
			}
			if len(f.Options) > 0 {
				desc += "; one of " + strings.Join(f.Options[1:], ", ")
			}
			opts = append(opts, mcp.WithString(f.Name, mcp.Description(desc)))
		}
		h.server.AddTool(mcp.NewTool(ToolNames[c.Name], opts...), h.calculatorTool(c))
	}

	h.server.AddTool(
		mcp.NewTool("plot",
			mcp.WithDescription("Render a calculator chart as a PNG image."),
			mcp.WithString("calculator",
				mcp.Required(),
				mcp.Description("Calculator name: log, quadratic or cubic"),
			),
			mcp.WithObject("fields",
				mcp.Description("Calculator inputs by field name"),
			),
		),
		h.handlePlot,
	)

	h.server.AddTool(
		mcp.NewTool("list_calculators",
			mcp.WithDescription("List the calculators with their fields and outputs."),
		),
		h.handleList,
	)
}

// Server returns the underlying MCP server.
func (h *Handler) Server() *server.MCPServer {
	return h.server
}

// HTTPHandler returns the streamable HTTP transport.
func (h *Handler) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(h.server)
}

// ServeStdio serves the tools on stdin and stdout until EOF.
func (h *Handler) ServeStdio() error {
	return server.ServeStdio(h.server)
}

// argText renders one tool argument as field text.
func argText(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("unsupported value %v", v)
}

func toFields(args map[string]any) (calculator.Fields, error) {
	f := make(calculator.Fields, len(args))
	for k, v := range args {
		s, err := argText(v)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", k, err)
		}
		f[k] = s
	}
	return f, nil
}

// evaluate runs c over args laid over its defaults.
func (h *Handler) evaluate(ctx context.Context, c calculator.Calculator, args map[string]any) (calculator.View, error) {
	f, err := toFields(args)
	if err != nil {
		return calculator.View{}, err
	}
	fields := c.Defaults()
	for k, v := range f {
		fields[k] = v
	}
	return c.Evaluate(ctx, h.logger, fields, h.options()), nil
}

func (h *Handler) calculatorTool(c calculator.Calculator) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		view, err := h.evaluate(ctx, c, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !view.OK() {
			msg := view.Validation
			if msg == "" {
				msg = view.Error
			}
			return mcp.NewToolResultError(msg), nil
		}

		result := ToolResult{Calculator: c.Name, Display: view.Display}
		if view.Steps != nil {
			result.Steps = view.Steps.Lines()
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal result failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// handlePlot handles the plot tool.
func (h *Handler) handlePlot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("calculator", "")
	c, ok := calculator.Lookup(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown calculator %q", name)), nil
	}

	args, _ := request.GetArguments()["fields"].(map[string]any)
	view, err := h.evaluate(ctx, c, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !view.OK() {
		return mcp.NewToolResultError(view.Validation + view.Error), nil
	}
	if view.Figure == nil {
		return mcp.NewToolResultError(fmt.Sprintf("calculator %q has no chart", name)), nil
	}

	var buf bytes.Buffer
	if err := chart.NewStatic(chart.FormatPNG, h.width, h.height).Render(&buf, *view.Figure); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return mcp.NewToolResultImage(view.Figure.Title, base64.StdEncoding.EncodeToString(buf.Bytes()), "image/png"), nil
}

// handleList handles the list_calculators tool.
func (h *Handler) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type entry struct {
		Tool    string              `json:"tool"`
		Name    string              `json:"name"`
		Title   string              `json:"title"`
		Fields  []calculator.Field  `json:"fields"`
		Outputs []calculator.Output `json:"outputs"`
	}
	var out []entry
	for _, c := range calculator.All() {
		out = append(out, entry{ToolNames[c.Name], c.Name, c.Title, c.Fields, c.Outputs})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal calculators failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
