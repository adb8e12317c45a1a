package main

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// archiveEntry is one regular file pulled out of the tarball, ready to be
// turned into an upload job. key already has the prefix applied.
type archiveEntry struct {
	key  string
	data []byte
}

var errSkipEntry = errors.New("entry skipped")

// openArchive wraps r in a tar reader, transparently decompressing gzip
// streams. Detection is by magic bytes, so plain .tar and .tar.gz both work
// without the caller saying which one it has.
func openArchive(r io.Reader) (*tar.Reader, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(2)
	if err != nil {
		return nil, fmt.Errorf("unable to read archive: %w", err)
	}

	if magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("unable to read gzip stream: %w", err)
		}
		return tar.NewReader(gz), nil
	}

	return tar.NewReader(br), nil
}

// entryKey turns a raw tar member name into an object key: cleans the path,
// drops n leading components and joins the result onto prefix. Returns
// errSkipEntry for names that vanish entirely or that would climb out of the
// prefix via "..".
func entryKey(name, prefix string, strip int) (string, error) {
	name = strings.TrimLeft(path.Clean(name), "/")
	if name == "" || name == "." || name == ".." || strings.HasPrefix(name, "../") {
		return "", errSkipEntry
	}

	if strip > 0 {
		parts := strings.Split(name, "/")
		if len(parts) <= strip {
			return "", errSkipEntry
		}
		name = strings.Join(parts[strip:], "/")
	}

	return path.Join(prefix, name), nil
}

// walkTarball iterates the archive and calls fn for every regular file that
// survives stripping. It returns the number of entries dispatched; a non-nil
// error from fn stops the walk early.
func walkTarball(r io.Reader, prefix string, strip int, fn func(*archiveEntry) error) (int, error) {
	tr, err := openArchive(r)
	if err != nil {
		return 0, err
	}

	count := 0
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("unable to read tar archive: %w", err)
		}

		// Ignore directories, links, devices, fifos, etc.
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		key, err := entryKey(hdr.Name, prefix, strip)
		if err != nil {
			say(fmt.Sprintf("Skipping %s (no usable path)", hdr.Name))
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return count, fmt.Errorf("unable to read %s: %w", hdr.Name, err)
		}

		if err := fn(&archiveEntry{key: key, data: data}); err != nil {
			return count, err
		}
		count++
	}
}
