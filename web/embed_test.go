package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplates(t *testing.T) {
	tmpl, err := ParseTemplates()
	require.NoError(t, err)
	for _, name := range []string{"index.html", "calculator.html", "calc-body", "recalc", "validation"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestAsset(t *testing.T) {
	data, ct, err := Asset("lite.js")
	require.NoError(t, err)
	assert.Equal(t, "application/javascript", ct)
	assert.NotEmpty(t, data)

	_, ct, err = Asset("styles.css")
	require.NoError(t, err)
	assert.Equal(t, "text/css; charset=utf-8", ct)

	for _, bad := range []string{"", "../embed.go", "/etc/passwd", "missing.js"} {
		_, _, err := Asset(bad)
		assert.Error(t, err, bad)
	}
}
