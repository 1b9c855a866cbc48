package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"web-minifier/internal/compressor"
	"web-minifier/internal/config"
	"web-minifier/internal/statistics"

	"github.com/alecthomas/assert/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
)

var fixtures = map[string]string{
	"a.css":  "body {  color: red; }\n/* note */\n",
	"b.js":   "let x = 1; // comment\nlet y = 2;",
	"c.html": "<div>\n  <p>hi</p>\n</div>\n<!-- note -->",
	"d.txt":  "hello",
}

const wantReport = `a.css -> a-min.css: 33 bytes -> 16 bytes (51.52% reduction)
b.js -> b-min.js: 32 bytes -> 16 bytes (50.00% reduction)
c.html -> c.html: 38 bytes -> 20 bytes (47.37% reduction)
d.txt -> d.txt: 5 bytes -> 5 bytes (0.00% reduction)
Total: 108 bytes -> 57 bytes (47.22% reduction)
`

func newTestRunner(t *testing.T, fs afero.Fs, cfg *config.Config) (*Runner, *bytes.Buffer) {
	t.Helper()
	log, _ := test.NewNullLogger()
	var out bytes.Buffer
	c := compressor.NewDefaultCompressor(fs, log)
	return NewRunner(cfg, fs, log, statistics.NewStatistics(), c, &out), &out
}

func seed(t *testing.T, fs afero.Fs, dir string, files map[string]string) {
	t.Helper()
	assert.NoError(t, fs.MkdirAll(dir, 0755))
	for name, content := range files {
		assert.NoError(t, afero.WriteFile(fs, filepath.Join(dir, name), []byte(content), 0644))
	}
}

func listDir(t *testing.T, fs afero.Fs, dir string) map[string]string {
	t.Helper()
	infos, err := afero.ReadDir(fs, dir)
	assert.NoError(t, err)
	got := make(map[string]string, len(infos))
	for _, info := range infos {
		data, err := afero.ReadFile(fs, filepath.Join(dir, info.Name()))
		assert.NoError(t, err)
		got[info.Name()] = string(data)
	}
	return got
}

func TestRun(t *testing.T) {
	t.Run("minifies every file and reports totals", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		cfg := config.DefaultConfig()
		seed(t, fs, cfg.SourceDirectory, fixtures)

		r, out := newTestRunner(t, fs, cfg)
		totals, err := r.Run(context.Background())
		assert.NoError(t, err)

		assert.Equal(t, wantReport, out.String())
		assert.Equal(t, statistics.Totals{Files: 4, OriginalSize: 108, CompressedSize: 57}, totals)
		assert.Equal(t, map[string]string{
			"a-min.css": "body{color:red;}",
			"b-min.js":  "let x=1;let y=2;",
			"c.html":    "<div><p>hi</p></div>",
			"d.txt":     "hello",
		}, listDir(t, fs, cfg.TargetDirectory))
	})

	t.Run("removes leftovers and skips subdirectories", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		cfg := config.DefaultConfig()
		seed(t, fs, cfg.SourceDirectory, map[string]string{"a.css": "a { b: c }"})
		seed(t, fs, filepath.Join(cfg.SourceDirectory, "nested"), map[string]string{"deep.js": "x = 1"})
		seed(t, fs, cfg.TargetDirectory, map[string]string{"stale.js": "old"})
		seed(t, fs, filepath.Join(cfg.TargetDirectory, "old"), map[string]string{"x": "y"})

		r, out := newTestRunner(t, fs, cfg)
		_, err := r.Run(context.Background())
		assert.NoError(t, err)

		assert.Equal(t, map[string]string{"a-min.css": "a{b:c}"}, listDir(t, fs, cfg.TargetDirectory))
		assert.NotContains(t, out.String(), "deep.js")
		assert.Equal(t, int64(1), r.stats.FilesSkipped)
	})

	t.Run("empty source prints nothing", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		cfg := config.DefaultConfig()
		seed(t, fs, cfg.SourceDirectory, nil)

		r, out := newTestRunner(t, fs, cfg)
		totals, err := r.Run(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "", out.String())
		assert.Equal(t, statistics.Totals{}, totals)

		exists, err := afero.DirExists(fs, cfg.TargetDirectory)
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("empty files report zero and no total", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		cfg := config.DefaultConfig()
		seed(t, fs, cfg.SourceDirectory, map[string]string{"e.js": "", "f.txt": ""})

		r, out := newTestRunner(t, fs, cfg)
		_, err := r.Run(context.Background())
		assert.NoError(t, err)
		assert.Equal(t,
			"e.js -> e-min.js: 0 bytes -> 0 bytes (0.00% reduction)\n"+
				"f.txt -> f.txt: 0 bytes -> 0 bytes (0.00% reduction)\n",
			out.String())
	})

	t.Run("second run is identical", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		cfg := config.DefaultConfig()
		seed(t, fs, cfg.SourceDirectory, fixtures)

		first, firstOut := newTestRunner(t, fs, cfg)
		_, err := first.Run(context.Background())
		assert.NoError(t, err)
		firstFiles := listDir(t, fs, cfg.TargetDirectory)

		second, secondOut := newTestRunner(t, fs, cfg)
		_, err = second.Run(context.Background())
		assert.NoError(t, err)

		assert.Equal(t, firstOut.String(), secondOut.String())
		assert.Equal(t, firstFiles, listDir(t, fs, cfg.TargetDirectory))
	})

	t.Run("aborts on the first bad file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		cfg := config.DefaultConfig()
		seed(t, fs, cfg.SourceDirectory, map[string]string{
			"a.css": "a { b: c }",
			"b.js":  "var s = '\xc3\x28';",
			"c.css": "c { d: e }",
		})

		r, out := newTestRunner(t, fs, cfg)
		_, err := r.Run(context.Background())
		assert.True(t, errors.Is(err, compressor.ErrInvalidEncoding))
		assert.Equal(t, "a.css -> a-min.css: 10 bytes -> 6 bytes (40.00% reduction)\n", out.String())
		assert.Equal(t, map[string]string{"a-min.css": "a{b:c}"}, listDir(t, fs, cfg.TargetDirectory))
	})

	t.Run("missing source directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		r, _ := newTestRunner(t, fs, config.DefaultConfig())
		_, err := r.Run(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "read directory KoreaSEL")
	})

	t.Run("stops when cancelled", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		cfg := config.DefaultConfig()
		seed(t, fs, cfg.SourceDirectory, fixtures)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r, out := newTestRunner(t, fs, cfg)
		_, err := r.Run(ctx)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, "", out.String())
	})
}

func TestRunOnDisk(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.SourceDirectory = filepath.Join(root, "site")
	cfg.TargetDirectory = filepath.Join(root, "dist")

	fs := afero.NewOsFs()
	seed(t, fs, cfg.SourceDirectory, fixtures)
	seed(t, fs, filepath.Join(root, "assets"), map[string]string{"linked.css": "x { y: z }"})
	assert.NoError(t, os.Symlink(filepath.Join(root, "assets", "linked.css"), filepath.Join(cfg.SourceDirectory, "e.css")))
	assert.NoError(t, os.Symlink(filepath.Join(root, "assets"), filepath.Join(cfg.SourceDirectory, "f-dir")))
	assert.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(cfg.SourceDirectory, "g.js")))

	r, out := newTestRunner(t, fs, cfg)
	_, err := r.Run(context.Background())
	assert.NoError(t, err)

	names := make([]string, 0)
	for name := range listDir(t, fs, cfg.TargetDirectory) {
		names = append(names, name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"a-min.css", "b-min.js", "c.html", "d.txt", "e-min.css"}, names)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, 6, len(lines))
	assert.Equal(t, "e.css -> e-min.css: 10 bytes -> 6 bytes (40.00% reduction)", lines[4])
	assert.Equal(t, int64(2), r.stats.FilesSkipped)
}

func TestScan(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := config.DefaultConfig()
	seed(t, fs, cfg.SourceDirectory, fixtures)

	r, out := newTestRunner(t, fs, cfg)
	totals, err := r.Scan(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, wantReport, out.String())
	assert.Equal(t, int64(57), totals.CompressedSize)

	exists, err := afero.Exists(fs, cfg.TargetDirectory)
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestResetOutputDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "dist/sub", map[string]string{"a": "1"})
	seed(t, fs, "dist", map[string]string{"b": "2"})

	assert.NoError(t, ResetOutputDir(fs, "dist"))
	assert.Equal(t, map[string]string{}, listDir(t, fs, "dist"))

	assert.NoError(t, ResetOutputDir(fs, "dist"))
	assert.Equal(t, map[string]string{}, listDir(t, fs, "dist"))

	assert.NoError(t, ResetOutputDir(fs, "fresh"))
	exists, err := afero.DirExists(fs, "fresh")
	assert.NoError(t, err)
	assert.True(t, exists)
}
