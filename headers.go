package main

import (
	"bytes"
	"compress/gzip"
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Files of these types are gzipped before upload (unless -no-compress).
// The list comes from MaxCDN's gzip compression settings.
var compressibleTypes = map[string]bool{
	"text/plain":               true,
	"text/html":                true,
	"text/javascript":          true,
	"text/css":                 true,
	"text/xml":                 true,
	"application/javascript":   true,
	"application/x-javascript": true,
	"application/xml":          true,
	"text/x-component":         true,
	"application/json":         true,
	"application/xhtml+xml":    true,
	"application/rss+xml":      true,
	"application/atom+xml":     true,
	"app/vdn.ms-fontobject":    true,
	"image/svg+xml":            true,
	"application/x-font-ttf":   true,
	"font/opentype":            true,
	"application/octet-stream": true,
}

// contentTypeFor infers the Content-Type for an object: extension lookup
// first, byte sniffing when the extension says nothing.
func contentTypeFor(key string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(key))); ct != "" {
		return ct
	}

	return mimetype.Detect(data).String()
}

// isCompressible reports whether a content type is worth gzipping. Parameters
// like "; charset=utf-8" are ignored for the lookup.
func isCompressible(contentType string) bool {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}

	return compressibleTypes[strings.TrimSpace(contentType)]
}

// gzipBytes compresses data at best compression.
func gzipBytes(data []byte) ([]byte, error) {
	buf := &bytes.Buffer{}

	gz, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err = gz.Write(data); err != nil {
		return nil, err
	}
	if err = gz.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
