package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"ID", "NAME"}, [][]string{
		{"1", "Ada Lovelace"},
		{"22", "Grace"},
	}, "")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[0], "NAME"), strings.Index(lines[2], "Ada"))
	assert.Equal(t, strings.Index(lines[0], "NAME"), strings.Index(lines[3], "Grace"))
}

func TestRenderTable_EmptyMessage(t *testing.T) {
	out := RenderTable([]string{"ID"}, nil, "Nothing here.")
	assert.Contains(t, out, "Nothing here.")

	assert.Empty(t, RenderTable(nil, nil, "x"))
}

func TestRenderTable_ShortRowsArePadded(t *testing.T) {
	out := RenderTable([]string{"A", "B", "C"}, [][]string{{"x"}}, "")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}
