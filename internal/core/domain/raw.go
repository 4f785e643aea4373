package domain

import (
	"path"
	"strings"
)

// RawDocument represents opaque bytes fetched from a document library.
// It is the Document Processor's only input.
type RawDocument struct {
	// Filename is used only to derive the extension.
	Filename string

	// MIMEType is the declared content type, if Graph reported one.
	// It is a hint and never drives dispatch.
	MIMEType string

	// Content is the raw bytes. May be empty.
	Content []byte
}

// Extension returns the lowercased extension of the filename without the dot.
// Returns an empty string when the filename has no extension.
func (r *RawDocument) Extension() string {
	return ExtensionOf(r.Filename)
}

// ExtensionOf returns the lowercased extension of name without the dot.
func ExtensionOf(name string) string {
	ext := path.Ext(strings.TrimSpace(name))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
