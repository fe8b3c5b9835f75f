package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/jqalt/config"
	"github.com/chrisuehlinger/jqalt/dom"
	"github.com/chrisuehlinger/jqalt/js"
	"github.com/chrisuehlinger/jqalt/network"
	"github.com/chrisuehlinger/jqalt/state"
)

// loadPage loads the document named on the command line: "-" for STDIN,
// a path, or a file, data or http(s) URL.
func loadPage(ctx context.Context, env *state.LocalEnv, ref string) (*network.Page, error) {
	if ref == "-" {
		doc, err := dom.ParseReader(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("unable to parse STDIN: %w", err)
		}
		return &network.Page{Doc: doc}, nil
	}
	loader, err := env.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare loader: %w", err)
	}
	page, err := loader.LoadDocument(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("unable to load document: %w", err)
	}
	env.Log.Debug("Document loaded", zap.String("url", page.URL))
	return page, nil
}

func requireArgs(cmd *cli.Command, n int, usage string) error {
	if cmd.Args().Len() < n {
		return fmt.Errorf("malformed command line, expected %s", usage)
	}
	return nil
}

func runQuery(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if err := requireArgs(cmd, 2, "FILE SELECTOR"); err != nil {
		return err
	}

	page, err := loadPage(ctx, env, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	selector := cmd.Args().Get(1)
	doc := page.Doc
	c := env.NewQuery(doc).Select(selector)
	env.Log.Debug("Selector resolved", zap.String("selector", selector), zap.Stringer("resolution", c.Resolution()), zap.Int("members", c.Len()))

	out := os.Stdout
	fmt.Fprintf(out, "# %s, %d element(s)\n", c.Resolution(), c.Len())
	for _, n := range c.All() {
		fmt.Fprintln(out, dom.OuterHTML(n))
	}
	return nil
}

func runScript(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if err := requireArgs(cmd, 2, "FILE SCRIPT"); err != nil {
		return err
	}

	page, err := loadPage(ctx, env, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	doc := page.Doc
	src := cmd.Args().Get(1)
	code, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read script: %w", err)
	}

	rt := js.NewRuntime(env.NewQuery(doc), env.Log)
	defer rt.Close()
	rt.SetOnError(func(e error) {
		env.Log.Warn("Script error", zap.Error(e))
	})
	if cmd.Bool("page-scripts") {
		if err := runPageScripts(ctx, env, rt, page); err != nil {
			return err
		}
	}
	if err := rt.ExecuteScript(string(code), src); err != nil {
		return fmt.Errorf("script '%s' failed: %w", src, err)
	}

	var out io.Writer = os.Stdout
	if fname := cmd.String("out"); len(fname) > 0 {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer func() {
			err = multierr.Append(err, f.Close())
		}()
		out = f
	}
	if err := doc.Render(out); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	env.Log.Debug("Script finished", zap.String("script", src), zap.Int("errors", len(rt.Errors())))
	return nil
}

// runPageScripts executes the document's own scripts in order. Scripts that
// fail to load or throw are logged and skipped.
func runPageScripts(ctx context.Context, env *state.LocalEnv, rt *js.Runtime, page *network.Page) error {
	loader, err := env.NewLoader()
	if err != nil {
		return fmt.Errorf("unable to prepare loader: %w", err)
	}
	scripts, err := loader.PageScripts(ctx, page)
	for _, e := range multierr.Errors(err) {
		env.Log.Warn("Page script skipped", zap.Error(e))
	}
	for _, s := range scripts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := rt.ExecuteScript(s.Code, s.Source); err != nil {
			env.Log.Warn("Page script failed", zap.String("script", s.Source), zap.Error(err))
		}
	}
	return nil
}

func runTree(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if err := requireArgs(cmd, 1, "FILE [SELECTOR]"); err != nil {
		return err
	}

	page, err := loadPage(ctx, env, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	doc := page.Doc
	roots := []*html.Node{doc.Root()}
	if cmd.Args().Len() > 1 {
		roots = env.NewQuery(doc).Select(cmd.Args().Get(1)).Nodes()
	}
	for _, n := range roots {
		fmt.Fprint(os.Stdout, dom.Dump(n))
	}
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		which string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		which = "default"
		data, err = config.Prepare()
	} else {
		which = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Debug("Outputting configuration", zap.String("state", which), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

// isSyncNoise reports errors returned by fsync on terminals and pipes.
func isSyncNoise(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
