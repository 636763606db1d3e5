package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/randalmurphal/lambda/pkg/lambda"
	"github.com/randalmurphal/lambda/pkg/lambda/config"
)

// Name and Description identify the program in help output.
const (
	Name        = "lambda"
	Description = "Evaluate lambda expressions from the command line."
)

// CLI is the top-level command-line interface.
type CLI struct {
	Config    string `help:"Engine configuration file (YAML or JSON)." short:"c" type:"existingfile"`
	LogLevel  string `help:"Set log level; overrides the configuration file." enum:",debug,info,warn,error" default:""`
	LogFormat string `help:"Set log format; overrides the configuration file." enum:",json,text" default:""`

	Eval  Eval  `cmd:"" help:"Evaluate an expression and print the result."`
	Check Check `cmd:"" help:"Parse an expression and print its canonical form."`
	Bench Bench `cmd:"" help:"Evaluate an expression repeatedly and report timing."`
}

// Env is what commands run against.
type Env struct {
	Engine *lambda.Engine
	Logger *slog.Logger
	// Vars holds the configuration file's vars section.
	Vars   map[string]any
	Out    io.Writer
}

// Run executes the CLI with the given arguments. The exit function is
// called by kong for --help and usage errors.
func Run(
	ctx context.Context,
	stdout, stderr io.Writer,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	parser, err := kong.New(&cli,
		kong.Name(Name),
		kong.Description(Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, stderr),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	env, err := cli.env(stdout, stderr)
	if err != nil {
		return err
	}
	return ktx.Run(env)
}

func (c *CLI) env(stdout, stderr io.Writer) (*Env, error) {
	cfg := config.New(nil)
	if c.Config != "" {
		var err error
		if cfg, err = config.FromFile(c.Config); err != nil {
			return nil, err
		}
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	level := settings.LogLevel
	if c.LogLevel != "" {
		if level, err = config.ParseLevel(c.LogLevel); err != nil {
			return nil, err
		}
	}
	format := c.LogFormat
	if format == "" {
		format = settings.LogFormat
	}
	logger := newLogger(stderr, format, level)

	engine, err := lambda.NewFromConfig(cfg, lambda.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	logger.Debug("engine initialized",
		slog.String("config", c.Config),
		slog.Int("cache_capacity", settings.CacheCapacity),
		slog.Bool("metrics", settings.Metrics),
		slog.Bool("tracing", settings.Tracing),
		slog.Duration("eval_timeout", settings.EvalTimeout),
	)

	return &Env{
		Engine: engine,
		Logger: logger,
		Vars:   settings.Vars,
		Out:    stdout,
	}, nil
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
