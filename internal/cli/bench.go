package cli

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/pkg/profile"

	"github.com/randalmurphal/lambda/pkg/lambda/observability"
)

// profileModes maps --profile values to pkg/profile modes.
var profileModes = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"trace":     profile.TraceProfile,
}

// ProfileModes returns the accepted --profile values.
func ProfileModes() []string {
	return slices.Sorted(maps.Keys(profileModes))
}

// Bench evaluates an expression repeatedly.
type Bench struct {
	Expr       string `arg:"" help:"Expression to evaluate."`
	N          int    `help:"Number of evaluations." short:"n" default:"10000"`
	Profile    string `help:"Write a pprof profile (block, clock, cpu, goroutine, mem, allocs, heap, mutex, trace)." default:""`
	ProfileDir string `help:"Profile output directory." default:"." type:"path"`

	Vars varFlags `embed:""`
}

// Validate implements kong's validation hook.
func (b *Bench) Validate() error {
	if b.N <= 0 {
		return fmt.Errorf("-n must be positive, got %d", b.N)
	}
	if _, ok := profileModes[b.Profile]; b.Profile != "" && !ok {
		return fmt.Errorf("unknown profile mode %q (want one of %s)", b.Profile, strings.Join(ProfileModes(), ", "))
	}
	return nil
}

// Run executes the bench command.
func (b *Bench) Run(ctx context.Context, env *Env) error {
	vars, err := b.Vars.resolve(ctx, env)
	if err != nil {
		return err
	}

	// Compile outside the measured loop so errors surface before profiling.
	if _, err := env.Engine.CompileContext(ctx, b.Expr); err != nil {
		return err
	}

	defer b.startProfile(env.Logger)()

	done := observability.TimedOperation()
	var result any
	for i := 0; i < b.N; i++ {
		if result, err = env.Engine.EvalContext(ctx, b.Expr, vars); err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
	}
	totalMs := done()

	stats := env.Engine.Stats()
	perOp := time.Duration(totalMs * float64(time.Millisecond) / float64(b.N))
	_, err = fmt.Fprintf(env.Out,
		"result:     %s\niterations: %d\ntotal:      %.3fms\nper op:     %s\ncompiles:   %d\ncache hits: %d\n",
		Format(result), b.N, totalMs, perOp, stats.Compiles, stats.Hits)
	return err
}

func (b *Bench) startProfile(logger *slog.Logger) (stop func()) {
	if b.Profile == "" {
		return func() {}
	}

	logger.Debug("pprof start",
		slog.String("mode", b.Profile),
		slog.String("dir", b.ProfileDir),
	)
	p := profile.Start(profileModes[b.Profile], profile.ProfilePath(b.ProfileDir), profile.Quiet, profile.NoShutdownHook)

	return func() {
		p.Stop()
		logger.Debug("pprof stop",
			slog.String("mode", b.Profile),
			slog.String("dir", b.ProfileDir),
		)
	}
}
