package steps

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace_Order(t *testing.T) {
	tr := New()
	tr.Add("first")
	tr.Addf("second %d", 2)

	assert.Equal(t, []string{"first", "second 2"}, tr.Lines())
	assert.Equal(t, "• first\n• second 2", tr.String())
}

func TestTrace_LinesIsCopy(t *testing.T) {
	tr := New()
	tr.Add("a")
	lines := tr.Lines()
	lines[0] = "changed"
	assert.Equal(t, "a", tr.Lines()[0])
}

func TestTrace_NilAndEmpty(t *testing.T) {
	var tr *Trace
	assert.Equal(t, 0, tr.Len())
	assert.Nil(t, tr.Lines())

	data, err := json.Marshal(New())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
