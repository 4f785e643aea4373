package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "heading and emphasis",
			input:    "# Title\n\nHello **world**",
			expected: "<h1>Title</h1>\n<p>Hello <strong>world</strong></p>\n",
		},
		{
			name:     "list",
			input:    "- one\n- two",
			expected: "<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n",
		},
		{
			name:     "empty",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarkdownToHTML(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMarkdownToHTML_RawHTMLOmitted(t *testing.T) {
	got, err := MarkdownToHTML("<script>alert(1)</script>\n\ntext")
	require.NoError(t, err)

	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "<p>text</p>")
}

func TestMarkdownToHTML_Table(t *testing.T) {
	got, err := MarkdownToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)

	assert.Contains(t, got, "<table>")
	assert.Contains(t, got, "<td>1</td>")
}

func TestHTMLToMarkdown(t *testing.T) {
	got, err := HTMLToMarkdown("<h2>Status</h2><p>All <strong>green</strong></p>")
	require.NoError(t, err)

	assert.Contains(t, got, "## Status")
	assert.Contains(t, got, "All **green**")
}

func TestHTMLToMarkdown_Empty(t *testing.T) {
	got, err := HTMLToMarkdown("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
