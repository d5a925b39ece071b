// Package cli implements the kdrama command-line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okian/kdrama/internal/adapters/render"
	app "github.com/okian/kdrama/internal/app"
	"github.com/okian/kdrama/internal/config"
	"github.com/okian/kdrama/pkg/logger"
)

// All linker flags will be set at build time.
var (
	version = "dev"
	commit  = "none"
)

// flags holds the raw persistent flag values.
type flags struct {
	dataset    string
	delimiter  string
	format     string
	outputFile string
	logLevel   string
	noColor    bool
}

// session is what every subcommand runs against.
type session struct {
	cfg    *config.Config
	svc    *app.Service
	format render.Format
	out    io.Writer
	errOut io.Writer
	close  func() error
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:                "kdrama",
		Short:              "Explore the top Korean dramas from the terminal.",
		Long:               `kdrama searches drama titles and ranks directors, screenwriters and cast by average rating or drama count.`,
		Version:            fmt.Sprintf("%s (%s)", version, commit),
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if f.noColor {
				color.NoColor = true
			}
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.dataset, "dataset", "", "Path to the dataset CSV (default from config)")
	pf.StringVar(&f.delimiter, "delimiter", "", "Dataset field delimiter (default from config)")
	pf.StringVarP(&f.format, "format", "o", string(render.FormatTable), "Output format: table or json or csv or xlsx")
	pf.StringVar(&f.outputFile, "output-file", "", "Optional path to write output to")
	pf.StringVar(&f.logLevel, "log-level", "error", "Log level for diagnostics on stderr")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable colored notices")

	root.AddCommand(newSearchCommand(f))
	root.AddCommand(newRankCommand(f))
	root.AddCommand(newMetaCommand(f))
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		errorColor.Fprintln(root.ErrOrStderr(), "Error:", err) //nolint:errcheck // best effort on stderr
		return 1
	}
	return 0
}

// open loads configuration, applies flag overrides and starts the service.
// The caller must call close on the returned session.
func open(cmd *cobra.Command, f *flags) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := render.ParseFormat(f.format, render.FormatTable)
	if err != nil {
		return nil, fmt.Errorf("%w: --format: %w", ErrInvalidFlag, err)
	}
	if format.Binary() && f.outputFile == "" {
		return nil, fmt.Errorf("%w (format %s)", ErrBinaryOutput, format)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if f.dataset != "" {
		cfg.DatasetPath = f.dataset
	}
	if f.delimiter != "" {
		cfg.DatasetDelimiter = f.delimiter
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%w: --delimiter: %w", ErrInvalidFlag, err)
		}
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(f.logLevel); err != nil {
		return nil, fmt.Errorf("%w: --log-level: %w", ErrInvalidFlag, err)
	}

	svc := app.New(
		app.WithLogger(logger.Named("cli")),
		app.WithDatasetPath(cfg.DatasetPath),
		app.WithDelimiter(cfg.Delimiter()),
		app.WithTopN(cfg.TopN),
		app.WithMaxLimit(cfg.MaxLimit),
		app.WithSearchDefaultLimit(cfg.SearchDefaultLimit),
		app.WithYearBounds(cfg.YearMin, cfg.YearMax),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		svc:    svc,
		format: format,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		close: func() error {
			svc.Stop()
			return nil
		},
	}

	if f.outputFile != "" {
		file, err := os.Create(f.outputFile)
		if err != nil {
			svc.Stop()
			return nil, fmt.Errorf("could not create output file: %w", err)
		}
		s.out = file
		s.close = func() error {
			svc.Stop()
			return file.Close()
		}
	}

	warnQuarantined(s)
	return s, nil
}

// finish closes the session and reports where file output went.
func finish(s *session, f *flags, runErr error) error {
	closeErr := s.close()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return closeErr
	}
	if f.outputFile != "" {
		infoColor.Fprintf(s.errOut, "Wrote %s output to %s\n", s.format, f.outputFile) //nolint:errcheck // best effort on stderr
	}
	return nil
}
