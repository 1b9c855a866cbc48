package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"web-minifier/internal/compressor"
	"web-minifier/internal/config"
	"web-minifier/internal/logger"
	"web-minifier/internal/runner"
	"web-minifier/internal/statistics"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	sourceDir string
	targetDir string
	verbose   bool
	quiet     bool
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "web-minifier",
	Short: "Minify the CSS, JavaScript and HTML files of a directory",
	Long: `web-minifier reads every file directly inside the source directory
(KoreaSEL by default), writes a minified copy into the target directory
(compressed_KoreaSEL by default) and prints the size reduction per file
and in total.

The target directory is deleted and recreated on every run.

Output names:
- .js   -> <name>-min.js
- .css  -> <name>-min.css
- .html -> unchanged name
- other -> copied unchanged`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMinify(cmd)
	},
}

// scanCmd prints the report without writing anything.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Show the expected size reduction without writing the target directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&sourceDir, "source", "", "source directory (default "+config.DefaultSourceDirectory+")")
	rootCmd.PersistentFlags().StringVar(&targetDir, "target", "", "target directory, wiped on every run (default "+config.DefaultTargetDirectory+")")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-error log output")

	rootCmd.AddCommand(scanCmd)
}

// runMinify executes a full minification pass.
func runMinify(cmd *cobra.Command) error {
	r, err := newRunner(cmd)
	if err != nil {
		return err
	}
	_, err = r.Run(cmd.Context())
	return err
}

// runScan prints the report a full pass would produce.
func runScan(cmd *cobra.Command) error {
	r, err := newRunner(cmd)
	if err != nil {
		return err
	}
	_, err = r.Scan(cmd.Context())
	return err
}

func newRunner(cmd *cobra.Command) (*runner.Runner, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	log := setupLogger(cfg)
	fs := afero.NewOsFs()
	c := compressor.NewDefaultCompressor(fs, log)
	return runner.NewRunner(cfg, fs, log, statistics.NewStatistics(), c, cmd.OutOrStdout()), nil
}

// loadConfig loads configuration and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	if sourceDir != "" {
		cfg.SourceDirectory = sourceDir
	}
	if targetDir != "" {
		cfg.TargetDirectory = targetDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !dirExists(cfg.SourceDirectory) {
		return nil, fmt.Errorf("source directory does not exist: %s", cfg.SourceDirectory)
	}

	return cfg, nil
}

// setupLogger configures and returns a logger.
func setupLogger(cfg *config.Config) *logrus.Logger {
	loggerCfg := logger.LoggerConfig{
		Level:      cfg.Logging.Level,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
		Console:    true,
	}

	if verbose {
		loggerCfg.Level = "debug"
	}
	if quiet {
		loggerCfg.Level = "error"
	}

	log, err := logger.NewLogger(loggerCfg)
	if err != nil {
		log = logrus.New()
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// dirExists returns true if the given path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
