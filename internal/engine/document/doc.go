// Package document provides the line-oriented text store used by the editor.
//
// A Document is an ordered sequence of mutable lines plus a parallel cache
// of line lengths. The cache is kept exact after every mutation:
//
//	doc.LengthOf(i) == utf8.RuneCountInString(doc.TextOf(i))
//
// Lengths and columns are counted in runes. One rune is assumed to occupy
// one display column; wide and combining characters are not supported.
//
// Rows and columns are 0-indexed here. Screen coordinates are the concern
// of the cursor and viewport packages.
//
// Basic usage:
//
//	doc := document.FromText("hello\nworld\n")
//
//	doc.InsertChar(0, 5, '!') // "hello!"
//	doc.Split(0, 2)           // "he", "llo!"
//	doc.MergeWithNext(0)      // "hello!"
//
// Every operation validates its arguments first and returns an error that
// matches ErrOutOfRange instead of clamping. A failed operation never
// modifies the document.
//
// Documents are not safe for concurrent use. The editor session owns its
// document exclusively.
package document
