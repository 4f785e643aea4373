// Package html provides a Normaliser implementation for HTML documents.
// It extracts readable text from the token stream, dropping scripts,
// styles and document head content, and turns block elements into line
// breaks.
package html
