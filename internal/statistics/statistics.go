package statistics

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Totals is the running sum of original and compressed sizes across a run.
// It is a plain value: the caller owns it and adds to it once per file.
type Totals struct {
	Files          int
	OriginalSize   int64
	CompressedSize int64
}

// Add returns t with one more file of the given sizes accounted for.
func (t Totals) Add(originalSize, compressedSize int64) Totals {
	t.Files++
	t.OriginalSize += originalSize
	t.CompressedSize += compressedSize
	return t
}

// Reduction returns the percentage of bytes saved, or 0 for an empty original.
func Reduction(originalSize, compressedSize int64) float64 {
	if originalSize == 0 {
		return 0
	}
	return (1 - float64(compressedSize)/float64(originalSize)) * 100
}

// FormatLine renders the report line for a single file.
func FormatLine(sourceName, outputName string, originalSize, compressedSize int64) string {
	return fmt.Sprintf("%s -> %s: %s", sourceName, outputName, formatSizes(originalSize, compressedSize))
}

// FormatTotal renders the summary line. ok is false when there is nothing to
// summarise (no bytes were read).
func FormatTotal(t Totals) (line string, ok bool) {
	if t.OriginalSize <= 0 {
		return "", false
	}
	return "Total: " + formatSizes(t.OriginalSize, t.CompressedSize), true
}

func formatSizes(originalSize, compressedSize int64) string {
	return fmt.Sprintf("%d bytes -> %d bytes (%.2f%% reduction)",
		originalSize, compressedSize, Reduction(originalSize, compressedSize))
}

// Statistics collects diagnostics about a run beyond the report totals.
type Statistics struct {
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	FilesSkipped  int64
	FileTypeStats map[string]int64
	Totals        Totals
}

// NewStatistics returns a new Statistics instance.
func NewStatistics() *Statistics {
	return &Statistics{
		StartTime:     time.Now(),
		FileTypeStats: make(map[string]int64),
	}
}

// Record accounts for one processed file of the given format.
func (s *Statistics) Record(format string, totals Totals) {
	s.FileTypeStats[format]++
	s.Totals = totals
}

// IncrementFilesSkipped counts a directory entry that was not a regular file.
func (s *Statistics) IncrementFilesSkipped() {
	s.FilesSkipped++
}

// Finalize stamps the end time and duration.
func (s *Statistics) Finalize() {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
}

// GetSummary returns a formatted summary of the run.
func (s *Statistics) GetSummary() string {
	return fmt.Sprintf(`Minify Statistics Summary:
	Files: %d
	Skipped entries: %d
	Original: %s
	Compressed: %s
	Saved: %s (%.2f%%)
	Duration: %v
%s`,
		s.Totals.Files,
		s.FilesSkipped,
		formatBytes(s.Totals.OriginalSize),
		formatBytes(s.Totals.CompressedSize),
		formatBytes(s.Totals.OriginalSize-s.Totals.CompressedSize),
		Reduction(s.Totals.OriginalSize, s.Totals.CompressedSize),
		s.Duration,
		s.GetFileTypeBreakdown())
}

// GetFileTypeBreakdown returns a formatted breakdown of formats processed.
func (s *Statistics) GetFileTypeBreakdown() string {
	if len(s.FileTypeStats) == 0 {
		return "No file type statistics available"
	}

	types := make([]string, 0, len(s.FileTypeStats))
	for t := range s.FileTypeStats {
		types = append(types, t)
	}
	sort.Strings(types)

	var b strings.Builder
	b.WriteString("File Type Breakdown:\n")
	for _, t := range types {
		fmt.Fprintf(&b, "  %s: %d\n", t, s.FileTypeStats[t])
	}
	return b.String()
}

// formatBytes returns a human-readable string for a byte count.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < 0 {
		return "-" + formatBytes(-bytes)
	}
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
