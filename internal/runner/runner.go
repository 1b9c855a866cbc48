// Package runner drives a minification pass over a source directory: it
// resets the output directory, compresses every regular file found directly
// in the source directory and prints one report line per file followed by a
// total.
//
// Files are processed one at a time in name order. Any error aborts the run;
// lines already printed are left as they are.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"web-minifier/internal/compressor"
	"web-minifier/internal/config"
	"web-minifier/internal/logger"
	"web-minifier/internal/statistics"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Runner minifies the files of one source directory into one target directory.
type Runner struct {
	config     *config.Config
	fs         afero.Fs
	logger     *logrus.Logger
	stats      *statistics.Statistics
	compressor compressor.Compressor
	out        io.Writer
}

// NewRunner returns a Runner that prints its report to out.
func NewRunner(
	cfg *config.Config,
	fs afero.Fs,
	logger *logrus.Logger,
	stats *statistics.Statistics,
	compressor compressor.Compressor,
	out io.Writer,
) *Runner {
	return &Runner{
		config:     cfg,
		fs:         fs,
		logger:     logger,
		stats:      stats,
		compressor: compressor,
		out:        out,
	}
}

// Run wipes and recreates the target directory, then compresses every
// regular file of the source directory into it.
func (r *Runner) Run(ctx context.Context) (statistics.Totals, error) {
	r.logger.Infof("Minifying %s into %s", r.config.SourceDirectory, r.config.TargetDirectory)

	if err := ResetOutputDir(r.fs, r.config.TargetDirectory); err != nil {
		return statistics.Totals{}, err
	}
	logger.WithFile(r.logger, r.config.TargetDirectory).Debug("Output directory reset")

	return r.process(ctx, func(ctx context.Context, path string) (compressor.CompressionResult, error) {
		return r.compressor.Compress(ctx, path, r.config.TargetDirectory)
	})
}

// Scan prints the report Run would print without touching the target
// directory.
func (r *Runner) Scan(ctx context.Context) (statistics.Totals, error) {
	logger.WithOperation(r.logger, "scan").Infof("Scanning %s", r.config.SourceDirectory)
	return r.process(ctx, r.compressor.Preview)
}

type compressFunc func(ctx context.Context, path string) (compressor.CompressionResult, error)

func (r *Runner) process(ctx context.Context, compress compressFunc) (statistics.Totals, error) {
	files, err := r.discoverFiles()
	if err != nil {
		return statistics.Totals{}, err
	}
	r.logger.Debugf("Found %d files to process", len(files))

	var totals statistics.Totals
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return totals, err
		}

		res, err := compress(ctx, file.path)
		if err != nil {
			return totals, err
		}

		totals = totals.Add(res.OriginalSize, res.CompressedSize)
		r.stats.Record(res.Format, totals)
		if _, err := fmt.Fprintln(r.out, statistics.FormatLine(file.name, res.OutputName, res.OriginalSize, res.CompressedSize)); err != nil {
			return totals, errors.Wrap(err, "write report")
		}
	}

	if line, ok := statistics.FormatTotal(totals); ok {
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return totals, errors.Wrap(err, "write report")
		}
	}

	r.stats.Finalize()
	r.logger.Debug(r.stats.GetSummary())
	return totals, nil
}

type sourceEntry struct {
	name string
	path string
}

// discoverFiles lists the regular files directly inside the source
// directory. Symlinks are followed; anything that is not a regular file once
// resolved is skipped, and subdirectories are not entered.
func (r *Runner) discoverFiles() ([]sourceEntry, error) {
	infos, err := afero.ReadDir(r.fs, r.config.SourceDirectory)
	if err != nil {
		return nil, errors.Wrapf(err, "read directory %s", r.config.SourceDirectory)
	}

	files := make([]sourceEntry, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		path := filepath.Join(r.config.SourceDirectory, name)
		if info.Mode()&os.ModeSymlink != 0 {
			resolved, err := r.fs.Stat(path)
			if err != nil {
				r.logger.Warnf("Skipping unresolvable link %s: %v", path, err)
				r.stats.IncrementFilesSkipped()
				continue
			}
			info = resolved
		}
		if !info.Mode().IsRegular() {
			r.logger.Debugf("Skipping non-regular entry: %s", path)
			r.stats.IncrementFilesSkipped()
			continue
		}
		files = append(files, sourceEntry{name: name, path: path})
	}
	return files, nil
}

// ResetOutputDir removes dir and everything under it if it exists, then
// creates it empty. Calling it again yields the same empty directory.
func ResetOutputDir(fs afero.Fs, dir string) error {
	if _, err := fs.Stat(dir); err == nil {
		if err := fs.RemoveAll(dir); err != nil {
			return errors.Wrapf(err, "remove %s", dir)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "stat %s", dir)
	}

	if err := fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	return nil
}
