package settings

import (
	"github.com/ternarybob/mathcalc/pkg/calculator"
	"github.com/ternarybob/mathcalc/pkg/plot"
)

// LogPage is the settings key of the logarithm page.
const LogPage = "log"

// LogSettings is the persisted state of the logarithm page.
type LogSettings struct {
	Base         string
	Number       string
	ToggleLn     bool
	ToggleLog10  bool
	ToggleLogb   bool
	TogglePlotly bool
	AutoX        bool
	XMin         string
	XMax         string
	AutoY        bool
	YMin         string
	YMax         string
}

// LogSettingsOf captures the page state.
func LogSettingsOf(in calculator.LogInput) LogSettings {
	return LogSettings{
		Base:         in.Base,
		Number:       in.Number,
		ToggleLn:     in.ShowLn,
		ToggleLog10:  in.ShowLog10,
		ToggleLogb:   in.ShowLogB,
		TogglePlotly: in.PreferRich,
		AutoX:        in.X.Auto,
		XMin:         in.X.Min,
		XMax:         in.X.Max,
		AutoY:        in.Y.Auto,
		YMin:         in.Y.Min,
		YMax:         in.Y.Max,
	}
}

// Input restores the page state.
func (s LogSettings) Input() calculator.LogInput {
	return calculator.LogInput{
		Base:       s.Base,
		Number:     s.Number,
		ShowLn:     s.ToggleLn,
		ShowLog10:  s.ToggleLog10,
		ShowLogB:   s.ToggleLogb,
		PreferRich: s.TogglePlotly,
		X:          plot.Axis{Auto: s.AutoX, Min: s.XMin, Max: s.XMax},
		Y:          plot.Axis{Auto: s.AutoY, Min: s.YMin, Max: s.YMax},
	}
}

// Record flattens s.
func (s LogSettings) Record() Record {
	return Record{
		"base":         s.Base,
		"number":       s.Number,
		"toggleLn":     s.ToggleLn,
		"toggleLog10":  s.ToggleLog10,
		"toggleLogb":   s.ToggleLogb,
		"togglePlotly": s.TogglePlotly,
		"autoX":        s.AutoX,
		"xMin":         s.XMin,
		"xMax":         s.XMax,
		"autoY":        s.AutoY,
		"yMin":         s.YMin,
		"yMax":         s.YMax,
	}
}

func str(rec Record, k string, dst *string) {
	if v, ok := rec[k].(string); ok {
		*dst = v
	}
}

func flag(rec Record, k string, dst *bool) {
	if v, ok := rec[k].(bool); ok {
		*dst = v
	}
}

// ApplyRecord copies the well-typed fields of rec over def. Missing keys
// and values of the wrong type keep the default.
func ApplyRecord(def LogSettings, rec Record) LogSettings {
	s := def
	str(rec, "base", &s.Base)
	str(rec, "number", &s.Number)
	flag(rec, "toggleLn", &s.ToggleLn)
	flag(rec, "toggleLog10", &s.ToggleLog10)
	flag(rec, "toggleLogb", &s.ToggleLogb)
	flag(rec, "togglePlotly", &s.TogglePlotly)
	flag(rec, "autoX", &s.AutoX)
	str(rec, "xMin", &s.XMin)
	str(rec, "xMax", &s.XMax)
	flag(rec, "autoY", &s.AutoY)
	str(rec, "yMin", &s.YMin)
	str(rec, "yMax", &s.YMax)
	return s
}
