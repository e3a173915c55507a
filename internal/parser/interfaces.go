package parser

import "io"

// SingleResultParser parses a document that describes exactly one item.
type SingleResultParser[T any] interface {
	ParseHtml(body io.Reader) (T, error)
}
