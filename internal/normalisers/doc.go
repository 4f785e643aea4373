// Package normalisers provides implementations of the Normaliser interface
// for the document formats the Document Processor understands. Each
// normaliser turns the bytes of one format into a bounded preview.
//
// The helpers in this package are shared by every format: permissive text
// decoding, rune-based truncation and the error variant builder.
package normalisers
