// Package command implements the reactpack command line.
package command

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/reactpack"
	"github.com/3-lines-studio/reactpack/internal/adapters/configfile"
	"github.com/3-lines-studio/reactpack/internal/logging"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(deps{out: os.Stdout, errOut: os.Stderr})
	if err := cmd.ExecuteContext(ctx); err != nil {
		writeError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

type deps struct {
	out        io.Writer
	errOut     io.Writer
	newBundler func(cfg *reactpack.Config) (reactpack.Bundler, error)
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	optionsFile string
	source      string
	dest        string
	metricsFile string
	logLevel    string
	logFormat   string
	noColor     bool
}

type session struct {
	deps   deps
	flags  globalFlags
	opts   *configfile.Options
	logger zerolog.Logger
}

func newRootCmd(d deps) *cobra.Command {
	s := &session{deps: d, logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "reactpack",
		Short:         "Bundle React entry points and generate their HTML pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.load(cmd)
		},
	}
	cmd.SetOut(d.out)
	cmd.SetErr(d.errOut)

	pf := cmd.PersistentFlags()
	pf.StringVar(&s.flags.optionsFile, "config-file", configfile.DefaultOptionsFile, "reactpack options file")
	pf.StringVar(&s.flags.source, "source", "", "source root (default \"src\")")
	pf.StringVar(&s.flags.dest, "dest", "", "destination root (default \"dist\")")
	pf.StringVar(&s.flags.metricsFile, "metrics-file", "", "write build metrics in Prometheus text format to this file")
	pf.StringVar(&s.flags.logLevel, "log-level", "warn", "log level: trace|debug|info|warn|error|off")
	pf.StringVar(&s.flags.logFormat, "log-format", logging.FormatConsole, "log format: console|json")
	pf.BoolVar(&s.flags.noColor, "no-color", false, "disable colors in logs and build reports")

	cmd.AddCommand(
		s.buildCmd(),
		s.watchCmd(),
		s.cleanCmd(),
		s.initCmd(),
		schemaCmd(),
	)
	return cmd
}

// load reads the options file and sets up logging. The default options file
// is optional; one named explicitly must exist.
func (s *session) load(cmd *cobra.Command) error {
	logger, err := logging.New(logging.Config{
		Level:   s.flags.logLevel,
		Format:  s.flags.logFormat,
		Output:  s.deps.errOut,
		NoColor: s.flags.noColor,
	})
	if err != nil {
		return err
	}
	s.logger = logger

	optional := !cmd.Flags().Changed("config-file")
	opts, err := configfile.LoadOptions(s.flags.optionsFile, optional)
	if err != nil {
		return err
	}
	s.opts = opts
	return nil
}

func (s *session) source() string {
	return firstNonEmpty(s.flags.source, s.opts.Source, "src")
}

func (s *session) dest() string {
	return firstNonEmpty(s.flags.dest, s.opts.Dest, "dist")
}

func (s *session) metricsFile() string {
	return firstNonEmpty(s.flags.metricsFile, s.opts.MetricsFile)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (s *session) compiler(defaults reactpack.BuildOptions) (*reactpack.Compiler, error) {
	opts := []reactpack.Option{
		reactpack.WithOptions(defaults),
		reactpack.WithLogger(s.logger),
		reactpack.WithOutput(s.deps.out, s.deps.errOut),
	}
	if len(s.opts.Include) > 0 {
		opts = append(opts, reactpack.WithInclude(s.opts.Include...))
	}
	if len(s.opts.Clean) > 0 {
		opts = append(opts, reactpack.WithClean(s.opts.Clean...))
	}
	if s.flags.noColor {
		opts = append(opts, reactpack.WithoutColors())
	}
	if s.deps.newBundler != nil {
		opts = append(opts, reactpack.WithBundler(s.deps.newBundler))
	}
	return reactpack.New(s.source(), s.dest(), opts...)
}
