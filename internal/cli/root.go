// Package cli is the terminal front end: cobra commands for account
// management, category listing and playing a quiz.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gokatarajesh/triviago/internal/app"
	"github.com/gokatarajesh/triviago/internal/quiz"
)

var errNotLoggedIn = errors.New("you are not logged in, run `triviago login` first")

// Options configures the command tree. Build is called at most once per
// execution, the first time a command needs the application.
type Options struct {
	In    io.Reader
	Out   io.Writer
	Err   io.Writer
	Build func(ctx context.Context) (*app.Application, error)
	// Clock drives the quiz countdown. Nil means wall-clock time.
	Clock quiz.Clock
}

type runner struct {
	opts    Options
	console *console
	app     *app.Application
}

func (r *runner) application(ctx context.Context) (*app.Application, error) {
	if r.app != nil {
		return r.app, nil
	}
	a, err := r.opts.Build(ctx)
	if err != nil {
		return nil, err
	}
	r.app = a
	return a, nil
}

func (r *runner) close() {
	if r.app == nil {
		return
	}
	if err := r.app.Close(); err != nil {
		r.app.Logger.Warn().Err(err).Msg("close application")
	}
}

// Execute runs the CLI with args (usually os.Args[1:]).
func Execute(ctx context.Context, opts Options, args []string) error {
	r := newRunner(opts)
	defer r.close()

	cmd := r.rootCommand()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRunner(opts Options) *runner {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	return &runner{opts: opts, console: newConsole(opts.In, opts.Out)}
}

func (r *runner) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "triviago",
		Short:        "Timed multiple-choice trivia from the Open Trivia DB",
		SilenceUsage: true,
	}
	cmd.SetIn(r.opts.In)
	cmd.SetOut(r.opts.Out)
	cmd.SetErr(r.opts.Err)

	cmd.AddCommand(
		r.registerCommand(),
		r.loginCommand(),
		r.logoutCommand(),
		r.whoamiCommand(),
		r.categoriesCommand(),
		r.playCommand(),
	)
	return cmd
}
