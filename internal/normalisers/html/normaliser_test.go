package html

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New(5000)
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
	assert.Equal(t, domain.KindHTML, normaliser.Kind())
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "page.html",
		Content:  []byte("<html><head><title>Test Page</title></head><body><p>Hello <b>World</b></p></body></html>"),
	}

	result, err := New(5000).Normalise(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.ContentHTML, result.Type)
	assert.Equal(t, "Hello World", result.Preview)
	assert.False(t, result.Truncated)
	assert.Equal(t, "Test Page", result.Metadata["title"])
	assert.Equal(t, 11, result.Metadata["length"])
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New(5000).Normalise(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_NoTitle(t *testing.T) {
	result, err := New(5000).Normalise(&domain.RawDocument{
		Filename: "fragment.htm",
		Content:  []byte("<p>Just a fragment</p>"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Just a fragment", result.Preview)
	assert.NotContains(t, result.Metadata, "title")
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple paragraph",
			input:    "<p>Hello World</p>",
			expected: "Hello World",
		},
		{
			name:     "nested tags",
			input:    "<div><p><strong>Bold</strong> text</p></div>",
			expected: "Bold text",
		},
		{
			name:     "script removed",
			input:    "<p>Before</p><script>alert('evil');</script><p>After</p>",
			expected: "Before\nAfter",
		},
		{
			name:     "style removed",
			input:    "<style>.foo { color: red; }</style><p>Content</p>",
			expected: "Content",
		},
		{
			name:     "noscript removed",
			input:    "<p>Content</p><noscript>No JS fallback</noscript>",
			expected: "Content",
		},
		{
			name:     "template removed",
			input:    "<p>Shown</p><template><p>Hidden</p></template>",
			expected: "Shown",
		},
		{
			name:     "head removed",
			input:    "<head><meta charset='utf-8'><title>Title</title></head><body>Content</body>",
			expected: "Content",
		},
		{
			name:     "br to newline",
			input:    "Line 1<br>Line 2<br/>Line 3",
			expected: "Line 1\nLine 2\nLine 3",
		},
		{
			name:     "block elements create newlines",
			input:    "<div>Block 1</div><div>Block 2</div>",
			expected: "Block 1\nBlock 2",
		},
		{
			name:     "HTML entities decoded",
			input:    "<p>&lt;tag&gt; &amp; &quot;quotes&quot;</p>",
			expected: "<tag> & \"quotes\"",
		},
		{
			name:     "comments removed",
			input:    "<p>Before</p><!-- comment --><p>After</p>",
			expected: "Before\nAfter",
		},
		{
			name:     "list items",
			input:    "<ul><li>Item 1</li><li>Item 2</li></ul>",
			expected: "Item 1\nItem 2",
		},
		{
			name:     "headings",
			input:    "<h1>Title</h1><h2>Subtitle</h2><p>Content</p>",
			expected: "Title\nSubtitle\nContent",
		},
		{
			name:     "links keep text",
			input:    `<a href="https://example.com">Click here</a>`,
			expected: "Click here",
		},
		{
			name:     "images removed",
			input:    `<p>See <img src="image.png" alt="Image"> here</p>`,
			expected: "See here",
		},
		{
			name:     "table cells separated",
			input:    "<table><tr><td>Cell 1</td><td>Cell 2</td></tr></table>",
			expected: "Cell 1 Cell 2",
		},
		{
			name:     "svg removed",
			input:    `<p>Before</p><svg width="100"><title>icon</title><circle cx="50"/></svg><p>After</p>`,
			expected: "Before\nAfter",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text, _, err := extractText(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, text)
		})
	}
}

func TestExtractText_TitleIgnoresSVG(t *testing.T) {
	_, title, err := extractText(`<title>Page</title><svg><title>icon</title></svg>`)
	require.NoError(t, err)
	assert.Equal(t, "Page", title)
}

func TestNormalise_ComplexHTML(t *testing.T) {
	complexHTML := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Complex   Page</title>
    <style>
        body { font-family: Arial; }
    </style>
</head>
<body>
    <header>
        <h1>Main Title</h1>
        <nav>
            <a href="/home">Home</a>
            <a href="/about">About</a>
        </nav>
    </header>
    <main>
        <article>
            <h2>Article Title</h2>
            <p>This is a <strong>paragraph</strong> with <em>emphasis</em>.</p>
            <ul>
                <li>First item</li>
                <li>Second item</li>
            </ul>
        </article>
    </main>
    <script>
        console.log('This should be removed');
    </script>
    <!-- This is a comment that should be removed -->
    <footer>
        <p>&copy; 2024 Example Corp</p>
    </footer>
</body>
</html>`

	result, err := New(5000).Normalise(&domain.RawDocument{Filename: "complex.html", Content: []byte(complexHTML)})
	require.NoError(t, err)

	assert.Equal(t, "Complex Page", result.Metadata["title"])
	assert.NotContains(t, result.Preview, "<strong>")
	assert.Contains(t, result.Preview, "This is a paragraph with emphasis.")
	assert.NotContains(t, result.Preview, "console.log")
	assert.NotContains(t, result.Preview, "font-family")
	assert.NotContains(t, result.Preview, "<!--")
	assert.Contains(t, result.Preview, "Main Title")
	assert.Contains(t, result.Preview, "First item\nSecond item")
	assert.Contains(t, result.Preview, "© 2024 Example Corp")
}

func TestNormalise_Truncation(t *testing.T) {
	doc := "<p>" + strings.Repeat("z", 400) + "</p>"

	result, err := New(100).Normalise(&domain.RawDocument{Filename: "long.html", Content: []byte(doc)})
	require.NoError(t, err)

	assert.Len(t, result.Preview, 100)
	assert.True(t, result.Truncated)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
