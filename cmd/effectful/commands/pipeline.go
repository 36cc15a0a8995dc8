package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"martianoff/effectful/efferr"
	"martianoff/effectful/internal/config"
	"martianoff/effectful/internal/transpiler"
	"martianoff/effectful/internal/transpiler/generator"
	"martianoff/effectful/internal/transpiler/transformer"
)

// session is the configured pipeline for one invocation.
type session struct {
	cfg      *config.Config
	log      *zap.Logger
	pipeline *transpiler.EffectfulTranspiler
}

// newSession loads the configuration for input and builds the pipeline.
func newSession(input string) (*session, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.Load(filepath.Dir(input))
	}
	if err != nil {
		return nil, err
	}
	log, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	r, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	checker, err := cfg.Checker(r)
	if err != nil {
		return nil, err
	}
	p := transpiler.NewEffectfulTranspiler(
		transpiler.NewSourceParser(cfg.Markers.Adapter),
		transformer.NewEffectfulTransformer(cfg.Options(r, log), checker),
		generator.NewSourceGenerator(),
	).WithLogger(log)
	return &session{cfg: cfg, log: log, pipeline: p}, nil
}

func readSource(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(content), nil
}

// inFile attaches path to every rewrite error in err.
func inFile(err error, path string) error {
	var out error
	for _, e := range flatten(err) {
		if re, ok := e.(*efferr.RewriteError); ok {
			e = re.InFile(path)
		} else {
			e = fmt.Errorf("%s: %w", path, e)
		}
		out = multierr.Append(out, e)
	}
	return out
}

func flatten(err error) []error {
	if me, ok := err.(*efferr.MultiError); ok {
		var out []error
		for _, e := range me.Errors {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return multierr.Errors(err)
}

// report prints each error on its own line, colouring the kind on a
// terminal.
func report(w io.Writer, err error) {
	colour := false
	if f, ok := w.(*os.File); ok {
		colour = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, e := range multierr.Errors(err) {
		msg := e.Error()
		if colour && strings.HasPrefix(msg, "[") {
			if end := strings.Index(msg, "]"); end > 0 {
				msg = "\x1b[31m" + msg[:end+1] + "\x1b[0m" + msg[end+1:]
			}
		}
		fmt.Fprintln(w, msg)
	}
}
