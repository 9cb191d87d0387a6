package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gokatarajesh/triviago/internal/auth"
)

func (r *runner) registerCommand() *cobra.Command {
	var req auth.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := r.application(ctx)
			if err != nil {
				return err
			}
			if r.alreadyLoggedIn(ctx, a.Auth) {
				return nil
			}
			if err := r.fill(ctx, &req.Name, "Name"); err != nil {
				return err
			}
			if err := r.fill(ctx, &req.Email, "Email"); err != nil {
				return err
			}
			if err := r.fill(ctx, &req.Password, "Password"); err != nil {
				return err
			}
			if err := a.Auth.Register(ctx, req); err != nil {
				return err
			}
			fmt.Fprintln(r.opts.Out, "Registration successful. Now log in with `triviago login`.")
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	return cmd
}

func (r *runner) loginCommand() *cobra.Command {
	var req auth.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := r.application(ctx)
			if err != nil {
				return err
			}
			if r.alreadyLoggedIn(ctx, a.Auth) {
				return nil
			}
			if err := r.fill(ctx, &req.Email, "Email"); err != nil {
				return err
			}
			if err := r.fill(ctx, &req.Password, "Password"); err != nil {
				return err
			}
			id, err := a.Auth.Login(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(r.opts.Out, "Welcome, %s!\n", displayName(id))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	return cmd
}

func (r *runner) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := r.application(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(r.opts.Out, "Logged out.")
			return nil
		},
	}
}

func (r *runner) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := r.application(cmd.Context())
			if err != nil {
				return err
			}
			id, ok, err := a.Auth.Current(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(r.opts.Out, "Not logged in.")
				return nil
			}
			fmt.Fprintf(r.opts.Out, "%s <%s>\n", displayName(id), id.Email)
			return nil
		},
	}
}

func (r *runner) alreadyLoggedIn(ctx context.Context, svc *auth.Service) bool {
	id, ok, err := svc.Current(ctx)
	if err != nil || !ok {
		return false
	}
	fmt.Fprintf(r.opts.Out, "You are already logged in as %s. Run `triviago logout` to switch accounts.\n", displayName(id))
	return true
}

// fill prompts for a value the flags left empty.
func (r *runner) fill(ctx context.Context, dst *string, field string) error {
	if *dst != "" {
		return nil
	}
	v, err := r.console.prompt(ctx, field+": ")
	if err != nil {
		return fmt.Errorf("read %s: %w", strings.ToLower(field), err)
	}
	*dst = v
	return nil
}

func displayName(id auth.Identity) string {
	if id.DisplayName != "" {
		return id.DisplayName
	}
	return id.Email
}
