package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gokatarajesh/triviago/internal/app"
	"github.com/gokatarajesh/triviago/internal/question/external"
	"github.com/gokatarajesh/triviago/internal/quiz"
	"github.com/gokatarajesh/triviago/internal/server"
)

type playFlags struct {
	category   int
	difficulty string
	amount     int
	output     string
	resume     bool
	fresh      bool
}

func (r *runner) playCommand() *cobra.Command {
	var f playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Configure and play a timed quiz, or continue an unfinished one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validFormat(f.output); err != nil {
				return err
			}
			if f.resume && f.fresh {
				return errors.New("--resume and --fresh are mutually exclusive")
			}
			a, err := r.application(cmd.Context())
			if err != nil {
				return err
			}
			if f.difficulty == "" {
				f.difficulty = a.Config.Quiz.DefaultDifficulty
			}
			if f.amount == 0 {
				f.amount = a.Config.Quiz.DefaultAmount
			}
			return r.play(cmd.Context(), a, f)
		},
	}
	cmd.Flags().IntVarP(&f.category, "category", "c", 0, "category id (prompted when omitted)")
	cmd.Flags().StringVarP(&f.difficulty, "difficulty", "d", "", "easy, medium or hard (default from config)")
	cmd.Flags().IntVarP(&f.amount, "amount", "n", 0, "number of questions, 1-50 (default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", formatText, "result format: text, json or yaml")
	cmd.Flags().BoolVar(&f.resume, "resume", false, "continue an unfinished quiz without asking")
	cmd.Flags().BoolVar(&f.fresh, "fresh", false, "discard an unfinished quiz without asking")
	return cmd
}

func (r *runner) play(ctx context.Context, a *app.Application, f playFlags) error {
	if _, ok := a.Sessions.Token(ctx); !ok {
		return errNotLoggedIn
	}

	sess, err := r.resume(ctx, a, f)
	if err != nil {
		return err
	}
	if sess == nil {
		if sess, err = r.configure(ctx, a, f); err != nil {
			return err
		}
	}

	res, err := r.run(ctx, a, sess)
	if err != nil {
		return err
	}
	if res == nil {
		fmt.Fprintln(r.opts.Out, "\nQuiz paused. Run `triviago play` to continue.")
		return nil
	}
	fmt.Fprintln(r.opts.Out)
	return renderResult(r.opts.Out, f.output, *res)
}

// resume offers the stored checkpoint when it belongs to the logged-in user.
// A nil session means the user goes on to configure a new quiz.
func (r *runner) resume(ctx context.Context, a *app.Application, f playFlags) (*quiz.Session, error) {
	rec := a.Engine.Reconciler()
	found, err := rec.Check(ctx)
	if err != nil {
		return nil, err
	}
	if !found.Available {
		return nil, nil
	}

	cont := f.resume
	if !f.resume && !f.fresh {
		snap := found.Snapshot
		left := 0
		if snap.TimeLeft != nil {
			left = *snap.TimeLeft
		}
		label := fmt.Sprintf("You have an unfinished quiz (question %d of %d, %s left). Continue? [Y/n]: ",
			snap.CurrentQuestion+1, len(snap.Questions), clock(left))
		if cont, err = r.console.confirm(ctx, label, true); err != nil {
			return nil, err
		}
	}
	if !cont {
		return nil, rec.Clear(ctx)
	}

	sess, err := a.Engine.Resume(ctx)
	if errors.Is(err, quiz.ErrNoQuestions) {
		fmt.Fprintln(r.opts.Out, "The saved quiz could not be restored. Let's set up a new one.")
		return nil, nil
	}
	return sess, err
}

// configure picks the quiz settings and starts a fresh session. Without
// --category the user chooses from the list, and picks again when a category
// has too few questions.
func (r *runner) configure(ctx context.Context, a *app.Application, f playFlags) (*quiz.Session, error) {
	cfg := quiz.Config{CategoryID: f.category, Difficulty: f.difficulty, Amount: f.amount}
	// Check difficulty and amount before prompting for a category.
	check := cfg
	if check.CategoryID == 0 {
		check.CategoryID = 1
	}
	if err := check.Validate(); err != nil {
		return nil, err
	}
	for {
		if f.category == 0 {
			id, err := r.chooseCategory(ctx, a)
			if err != nil {
				return nil, err
			}
			cfg.CategoryID = id
		}
		sess, err := a.Engine.Start(ctx, a.Questions, cfg)
		if err == nil {
			return sess, nil
		}
		if !noQuestions(err) || f.category != 0 {
			return nil, err
		}
		fmt.Fprintln(r.opts.Out, "Not enough questions for that selection. Pick another category.")
	}
}

func noQuestions(err error) bool {
	var code *external.ResponseCodeError
	if errors.As(err, &code) && code.Code == external.CodeNoResults {
		return true
	}
	return errors.Is(err, quiz.ErrNoQuestions)
}

func (r *runner) chooseCategory(ctx context.Context, a *app.Application) (int, error) {
	cats, err := a.Questions.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	if err := renderCategories(r.opts.Out, formatText, cats); err != nil {
		return 0, err
	}
	for {
		answer, err := r.console.prompt(ctx, "Category id: ")
		if err != nil {
			return 0, fmt.Errorf("read category: %w", err)
		}
		id, err := strconv.Atoi(answer)
		if err == nil {
			for _, c := range cats {
				if c.ID == id {
					return id, nil
				}
			}
		}
		fmt.Fprintln(r.opts.Out, "Unknown category, enter one of the ids above.")
	}
}

// run drives the session until it finishes or the user pauses. The quiz loop
// and the optional metrics server share an errgroup; the server stops when
// the loop returns. A nil result means the quiz was paused.
func (r *runner) run(ctx context.Context, a *app.Application, sess *quiz.Session) (*quiz.Result, error) {
	g, gctx := errgroup.WithContext(ctx)
	loopCtx, stop := context.WithCancel(gctx)
	defer stop()

	if srv := a.MetricsServer(); srv != nil {
		g.Go(func() error { return server.Run(loopCtx, srv, a.Logger) })
	}

	var res *quiz.Result
	g.Go(func() error {
		defer stop()
		var err error
		res, err = r.loop(loopCtx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *runner) loop(ctx context.Context, sess *quiz.Session) (*quiz.Result, error) {
	ticks, err := sess.StartTimer(r.opts.Clock)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	out := r.opts.Out
	renderQuestion(out, sess)
	fmt.Fprintln(out, "Enter an option number to select, n for next, q to pause.")
	lines := r.console.lines()

	for {
		select {
		case <-ctx.Done():
			return nil, nil
		case <-ticks:
			ev, err := sess.Tick(ctx)
			if err != nil {
				return nil, err
			}
			if ev.Kind == quiz.TickForcedFinalize {
				fmt.Fprintln(out, "\nTime's up!")
				return ev.Result, nil
			}
			if ev.TimeLeft <= 10 || ev.TimeLeft%30 == 0 {
				fmt.Fprintf(out, "%s left\n", clock(ev.TimeLeft))
			}
		case line, ok := <-lines:
			if !ok {
				return nil, nil
			}
			res, done, err := r.handle(ctx, out, sess, line)
			if err != nil || done {
				return res, err
			}
		}
	}
}

// handle applies one input line. done reports that the loop should end.
func (r *runner) handle(ctx context.Context, out io.Writer, sess *quiz.Session, line string) (*quiz.Result, bool, error) {
	switch strings.ToLower(line) {
	case "q", "quit":
		return nil, true, nil
	case "", "n", "next":
		res, err := sess.Advance(ctx)
		if errors.Is(err, quiz.ErrNoSelection) {
			fmt.Fprintln(out, "Select an answer first.")
			return nil, false, nil
		}
		if err != nil {
			return nil, true, err
		}
		if res != nil {
			return res, true, nil
		}
		renderQuestion(out, sess)
		return nil, false, nil
	}

	n, err := strconv.Atoi(line)
	options := sess.Current().Options
	if err != nil || n < 1 || n > len(options) {
		fmt.Fprintf(out, "Enter 1-%d, n for next or q to pause.\n", len(options))
		return nil, false, nil
	}
	if err := sess.SelectAnswer(ctx, options[n-1]); err != nil {
		return nil, true, err
	}
	label := "next"
	if sess.IsLast() {
		label = "finish"
	}
	fmt.Fprintf(out, "Selected %q. Press n to %s.\n", options[n-1], label)
	return nil, false, nil
}
