package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/mathcalc/pkg/calculator"
)

// isolate points the commands at an absent config so defaults apply.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MATHCALC_CONFIG", filepath.Join(dir, "config.toml"))
	return dir
}

func TestParseInvocation(t *testing.T) {
	inv, err := parseInvocation([]string{"quadratic", "a=2", "--json", "-o", "out.svg", "c=x=y"})
	require.NoError(t, err)
	assert.Equal(t, "quadratic", inv.calc.Name)
	assert.True(t, inv.json)
	assert.Equal(t, "out.svg", inv.output)
	assert.Equal(t, "2", inv.fields["a"])
	assert.Equal(t, "-3", inv.fields["b"], "defaults fill unset fields")
	assert.Equal(t, "x=y", inv.fields["c"])

	_, err = parseInvocation(nil)
	assert.Error(t, err)

	_, err = parseInvocation([]string{"nope"})
	assert.True(t, errors.Is(err, calculator.ErrUnknown))

	_, err = parseInvocation([]string{"log", "stray"})
	assert.Error(t, err)

	_, err = parseInvocation([]string{"log", "-o"})
	assert.Error(t, err)
}

func TestCmdEval_Text(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	require.NoError(t, cmdEval([]string{"quadratic"}, &out))
	assert.Contains(t, out.String(), "1.000000, 2.000000")
	assert.Contains(t, out.String(), "Steps:")
}

func TestCmdEval_JSON(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	require.NoError(t, cmdEval([]string{"base", "value=ff", "preset=hex", "--json"}, &out))

	var v calculator.View
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	assert.Equal(t, "255", v.Display["converted"])
}

func TestCmdEval_ValidationFails(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	err := cmdEval([]string{"power", "b="}, &out)
	require.Error(t, err)
	assert.Equal(t, "Enter valid numbers for a, b, n.", err.Error())
}

func TestCmdPlot(t *testing.T) {
	dir := isolate(t)
	var out bytes.Buffer

	path := filepath.Join(dir, "log.svg")
	require.NoError(t, cmdPlot([]string{"log", "-o", path, "base=10"}, &out))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, out.String(), "image/svg+xml")

	path = filepath.Join(dir, "cubic.png")
	require.NoError(t, cmdPlot([]string{"cubic", "-o", path}, &out))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))

	assert.Error(t, cmdPlot([]string{"power", "-o", path}, &out), "power has no chart")
	assert.Error(t, cmdPlot([]string{"log"}, &out), "output is required")
	assert.Error(t, cmdPlot([]string{"quadratic", "-o", path, "a=0"}, &out))
}

func TestCmdInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")
	require.NoError(t, cmdInit([]string{path}))
	assert.FileExists(t, path)
	assert.Error(t, cmdInit([]string{path}), "existing files are kept")
}
