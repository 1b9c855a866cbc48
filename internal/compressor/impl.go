package compressor

import (
	"bytes"
	"context"
	"path/filepath"
	"unicode/utf8"

	"web-minifier/internal/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ErrInvalidEncoding is returned when a source file is not valid UTF-8.
var ErrInvalidEncoding = errors.New("invalid UTF-8")

// DefaultCompressor is the default implementation of the Compressor interface.
type DefaultCompressor struct {
	fs  afero.Fs
	log *logrus.Logger
}

// NewDefaultCompressor creates a new DefaultCompressor working on fs.
func NewDefaultCompressor(fs afero.Fs, log *logrus.Logger) *DefaultCompressor {
	return &DefaultCompressor{fs: fs, log: log}
}

// Compress minifies the file at path according to its extension and writes
// the result to outputDir. Sizes are taken from the filesystem for both the
// source and the written output.
func (c *DefaultCompressor) Compress(ctx context.Context, path, outputDir string) (CompressionResult, error) {
	src, format, out, err := c.prepare(ctx, path)
	if err != nil {
		return CompressionResult{}, err
	}

	name := src.OutputName(format)
	dst := filepath.Join(outputDir, name)
	if err := afero.WriteFile(c.fs, dst, []byte(out), 0644); err != nil {
		return CompressionResult{}, errors.Wrapf(err, "write %s", dst)
	}
	info, err := c.fs.Stat(dst)
	if err != nil {
		return CompressionResult{}, errors.Wrapf(err, "stat %s", dst)
	}

	res := CompressionResult{
		InputPath:      path,
		OutputPath:     dst,
		OutputName:     name,
		Format:         format.Name,
		OriginalSize:   src.Size,
		CompressedSize: info.Size(),
	}
	logger.WithFileOperation(c.log, path, "compress").WithFields(logrus.Fields{
		"output": dst,
		"format": format.Name,
		"before": res.OriginalSize,
		"after":  res.CompressedSize,
	}).Debug("File written")
	return res, nil
}

// Preview computes what Compress would produce for path without writing.
func (c *DefaultCompressor) Preview(ctx context.Context, path string) (CompressionResult, error) {
	src, format, out, err := c.prepare(ctx, path)
	if err != nil {
		return CompressionResult{}, err
	}
	return CompressionResult{
		InputPath:      path,
		OutputName:     src.OutputName(format),
		Format:         format.Name,
		OriginalSize:   src.Size,
		CompressedSize: int64(len(out)),
	}, nil
}

// prepare reads and minifies the source file.
func (c *DefaultCompressor) prepare(ctx context.Context, path string) (SourceFile, Format, string, error) {
	if err := ctx.Err(); err != nil {
		return SourceFile{}, Format{}, "", err
	}
	info, err := c.fs.Stat(path)
	if err != nil {
		return SourceFile{}, Format{}, "", errors.Wrapf(err, "stat %s", path)
	}
	src := NewSourceFile(path, info.Size())

	text, err := c.readText(path)
	if err != nil {
		return SourceFile{}, Format{}, "", err
	}
	format := FormatFor(src.Extension)
	return src, format, format.Apply(text), nil
}

// readText reads path as UTF-8 text with line endings normalised to "\n".
func (c *DefaultCompressor) readText(path string) (string, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	if !utf8.Valid(data) {
		return "", errors.Wrapf(ErrInvalidEncoding, "decode %s", path)
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	return string(data), nil
}
