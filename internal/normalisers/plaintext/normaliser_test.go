package plaintext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New(100)
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestKind(t *testing.T) {
	assert.Equal(t, domain.KindText, New(100).Kind())
}

func TestNormalise_Success(t *testing.T) {
	normaliser := New(100)

	raw := &domain.RawDocument{
		Filename: "notes.txt",
		Content:  []byte("line one\nline two\n"),
	}

	result, err := normaliser.Normalise(raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, domain.ContentText, result.Type)
	assert.Equal(t, "line one\nline two\n", result.Preview)
	assert.False(t, result.Truncated)
	assert.Equal(t, 18, result.Metadata["length"])
	assert.Equal(t, 2, result.Metadata["line_count"])
	assert.Equal(t, "plain", result.Metadata["format"])
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New(100).Normalise(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_Truncation(t *testing.T) {
	normaliser := New(5000)

	raw := &domain.RawDocument{
		Filename: "big.txt",
		Content:  []byte(strings.Repeat("a", 12000)),
	}

	result, err := normaliser.Normalise(raw)
	require.NoError(t, err)

	assert.Len(t, result.Preview, 5000)
	assert.True(t, result.Truncated)
	assert.Equal(t, 12000, result.Metadata["length"])
}

func TestNormalise_ExactLimitNotTruncated(t *testing.T) {
	result, err := New(10).Normalise(&domain.RawDocument{
		Filename: "exact.txt",
		Content:  []byte("0123456789"),
	})
	require.NoError(t, err)

	assert.Equal(t, "0123456789", result.Preview)
	assert.False(t, result.Truncated)
}

func TestNormalise_CountsCharactersNotBytes(t *testing.T) {
	result, err := New(3).Normalise(&domain.RawDocument{
		Filename: "accents.txt",
		Content:  []byte("héllo"),
	})
	require.NoError(t, err)

	assert.Equal(t, "hél", result.Preview)
	assert.True(t, result.Truncated)
	assert.Equal(t, 5, result.Metadata["length"])
}

func TestNormalise_InvalidUTF8(t *testing.T) {
	result, err := New(100).Normalise(&domain.RawDocument{
		Filename: "broken.txt",
		Content:  []byte("ok\xffok"),
	})
	require.NoError(t, err)

	assert.Equal(t, "ok�ok", result.Preview)
}

func TestNormalise_Format(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{name: "markdown", filename: "README.md", expected: "markdown"},
		{name: "uppercase markdown", filename: "NOTES.MD", expected: "markdown"},
		{name: "plain text", filename: "notes.txt", expected: "plain"},
		{name: "mapped extension", filename: "app.log", expected: "plain"},
	}

	normaliser := New(100)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := normaliser.Normalise(&domain.RawDocument{
				Filename: tt.filename,
				Content:  []byte("# Title"),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Metadata["format"])
		})
	}
}

func TestNormaliser_InterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
