package compressor

import (
	"context"
	"path/filepath"
	"strings"

	"web-minifier/internal/minify"
)

// SourceFile describes an input file. It is not modified while processing.
type SourceFile struct {
	Path      string
	Name      string
	Stem      string
	Suffix    string // original case, including the dot
	Extension string // lowercased Suffix
	Size      int64
}

// CompressionResult describes the result of compressing a single file.
type CompressionResult struct {
	InputPath      string
	OutputPath     string
	OutputName     string
	Format         string
	OriginalSize   int64
	CompressedSize int64
}

// Format pairs a minifier with the naming rule for its output file.
type Format struct {
	Name string
	// Minify is nil for files copied verbatim.
	Minify minify.Func
	// Suffixed formats are written as <stem>-min<suffix>.
	Suffixed bool
}

var verbatim = Format{Name: "copy"}

var formats = map[string]Format{
	".css":  {Name: "css", Minify: minify.CSS, Suffixed: true},
	".js":   {Name: "js", Minify: minify.JS, Suffixed: true},
	".html": {Name: "html", Minify: minify.HTML},
}

// FormatFor returns the format registered for a lowercased extension, or the
// verbatim copy format.
func FormatFor(ext string) Format {
	if f, ok := formats[ext]; ok {
		return f
	}
	return verbatim
}

// Apply runs the format's minifier over text.
func (f Format) Apply(text string) string {
	if f.Minify == nil {
		return text
	}
	return f.Minify(text)
}

// Compressor minifies single files.
type Compressor interface {
	// Compress minifies the file at path and writes the result into outputDir.
	Compress(ctx context.Context, path, outputDir string) (CompressionResult, error)
	// Preview computes the result of Compress without writing anything.
	Preview(ctx context.Context, path string) (CompressionResult, error)
}

// NewSourceFile describes the file at path with the given size.
func NewSourceFile(path string, size int64) SourceFile {
	name := filepath.Base(path)
	stem, suffix := splitName(name)
	return SourceFile{
		Path:      path,
		Name:      name,
		Stem:      stem,
		Suffix:    suffix,
		Extension: strings.ToLower(suffix),
		Size:      size,
	}
}

// OutputName returns the name the file is written under for format f.
func (s SourceFile) OutputName(f Format) string {
	if f.Suffixed {
		return s.Stem + "-min" + s.Suffix
	}
	return s.Name
}

// splitName splits a file name at its last dot. Names whose only dot is the
// first or last character (".bashrc", "notes.") have no suffix.
func splitName(name string) (stem, suffix string) {
	i := strings.LastIndexByte(name, '.')
	if i > 0 && i < len(name)-1 {
		return name[:i], name[i:]
	}
	return name, ""
}
