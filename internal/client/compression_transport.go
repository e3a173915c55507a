package client

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// acceptEncoding lists the content codings the transport can undo.
const acceptEncoding = "gzip, br, zstd"

// decoders maps a content coding to a function wrapping a body with its decoder.
var decoders = map[string]func(io.Reader) (io.ReadCloser, error){
	"gzip": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	"x-gzip": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	"br": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(brotli.NewReader(r)), nil
	},
	"zstd": func(r io.Reader) (io.ReadCloser, error) {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	},
}

// compressionTransport advertises gzip, brotli and zstd support and
// transparently decodes the response body, including stacked codings such as
// "gzip, br".
type compressionTransport struct {
	transport http.RoundTripper
}

func newCompressionTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &compressionTransport{transport: base}
}

func (t *compressionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// HEAD, 204 and 304 responses have nothing to decode
	if resp.Body == nil || resp.Body == http.NoBody {
		return resp, nil
	}

	codings := parseContentEncoding(resp.Header.Get("Content-Encoding"))
	if len(codings) == 0 {
		return resp, nil
	}
	for _, coding := range codings {
		if _, ok := decoders[coding]; !ok {
			// Leave bodies we cannot fully decode untouched
			return resp, nil
		}
	}

	body := &decodedBody{original: resp.Body}
	var reader io.Reader = resp.Body
	// Codings are listed in the order they were applied; undo them last to first.
	for i := len(codings) - 1; i >= 0; i-- {
		rc, err := decoders[codings[i]](reader)
		if err != nil {
			_ = body.Close()
			return nil, fmt.Errorf("decode %s response body: %w", codings[i], err)
		}
		body.decoders = append(body.decoders, rc)
		reader = rc
	}
	body.reader = reader
	resp.Body = body

	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true

	return resp, nil
}

// decodedBody reads through a decoder chain and closes every decoder and the
// original body.
type decodedBody struct {
	reader   io.Reader
	decoders []io.ReadCloser
	original io.ReadCloser
}

func (d *decodedBody) Read(p []byte) (int, error) {
	return d.reader.Read(p)
}

func (d *decodedBody) Close() error {
	var firstErr error
	for i := len(d.decoders) - 1; i >= 0; i-- {
		if err := d.decoders[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := d.original.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// parseContentEncoding splits a Content-Encoding header into lower-cased
// codings in application order, dropping "identity" and empty entries.
func parseContentEncoding(header string) []string {
	var codings []string
	for _, part := range strings.Split(header, ",") {
		coding := strings.ToLower(strings.TrimSpace(part))
		if coding == "" || coding == "identity" {
			continue
		}
		codings = append(codings, coding)
	}
	return codings
}
