package cli

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/randalmurphal/lambda/pkg/lambda"
	"github.com/randalmurphal/lambda/pkg/lambda/config"
)

// varFlags are the variable options shared by commands that evaluate.
type varFlags struct {
	Var      []string `help:"Variable as name=expression; repeatable." short:"v" sep:"none" placeholder:"NAME=EXPR"`
	VarsFile string   `help:"YAML or JSON file of variables." name:"vars" type:"existingfile"`
}

// resolve layers the configuration vars, the vars file and each --var.
func (f varFlags) resolve(ctx context.Context, env *Env) (lambda.MapVars, error) {
	vars := lambda.MapVars{}
	maps.Copy(vars, env.Vars)

	if f.VarsFile != "" {
		cfg, err := config.FromFile(f.VarsFile)
		if err != nil {
			return nil, fmt.Errorf("load vars: %w", err)
		}
		maps.Copy(vars, cfg.Raw())
	}

	for _, assign := range f.Var {
		name, src, ok := strings.Cut(assign, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q: want name=expression", assign)
		}
		v, err := env.Engine.EvalContext(ctx, src, vars)
		if err != nil {
			return nil, fmt.Errorf("--var %s: %w", name, err)
		}
		vars[name] = v
	}
	return vars, nil
}
