package output

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	gzipExt = ".gz"
	zstExt  = ".zst"
	zstdExt = ".zstd"

	// Stdout is the path that selects standard output.
	Stdout = "-"
)

type chainCloser struct {
	io.Writer
	closers []io.Closer
}

// Close closes the compressor before the file under it.
func (c *chainCloser) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Create opens path for writing, compressing with gzip for ".gz" and zstd
// for ".zst" or ".zstd". Stdout writes uncompressed to standard output.
func Create(path string) (io.WriteCloser, error) {
	if path == Stdout || path == "" {
		return nopCloser{os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := Compress(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Compress wraps dst in the compressor chosen by name's extension. Closing
// the result flushes the compressor and closes dst.
func Compress(dst io.WriteCloser, name string) (io.WriteCloser, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, gzipExt):
		gz := gzip.NewWriter(dst)
		return &chainCloser{Writer: gz, closers: []io.Closer{gz, dst}}, nil
	case strings.HasSuffix(lower, zstExt), strings.HasSuffix(lower, zstdExt):
		zw, err := zstd.NewWriter(dst)
		if err != nil {
			return nil, err
		}
		return &chainCloser{Writer: zw, closers: []io.Closer{zw, dst}}, nil
	default:
		return dst, nil
	}
}
