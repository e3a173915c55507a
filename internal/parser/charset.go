package parser

import (
	"io"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader wraps an io.Reader with automatic character encoding detection and conversion to UTF-8.
// Video pages are served in the page's declared charset, which may not be UTF-8 for older regional pages.
//
// The charset is detected from, in order, contentType (when given), HTML meta
// tags, byte order marks and finally heuristics.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(body, contentType)
}
