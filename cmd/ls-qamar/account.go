package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-qamar/internal/auth"
)

var accountEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and keep the session for the TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIdentity(cmd, func(id auth.IdentityProvider, in *bufio.Reader, out io.Writer) error {
			email, err := promptEmail(in, out)
			if err != nil {
				return err
			}
			password, err := promptPassword(in, out, "Mot de passe: ")
			if err != nil {
				return err
			}
			s, err := id.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Connecté en tant que %s\n", s.User.Email)
			return nil
		})
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIdentity(cmd, func(id auth.IdentityProvider, in *bufio.Reader, out io.Writer) error {
			email, err := promptEmail(in, out)
			if err != nil {
				return err
			}
			password, err := promptPassword(in, out, "Mot de passe: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword(in, out, "Confirmer le mot de passe: ")
			if err != nil {
				return err
			}
			if err := auth.ValidateSignUp(email, password, confirm); err != nil {
				return err
			}

			s, err := id.SignUp(cmd.Context(), email, password)
			switch {
			case errors.Is(err, auth.ErrConfirmationPending):
				fmt.Fprintln(out, "Compte créé ! Vérifiez votre email pour confirmer votre inscription.")
				return nil
			case err != nil:
				return err
			}
			fmt.Fprintf(out, "Compte créé, connecté en tant que %s\n", s.User.Email)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIdentity(cmd, func(id auth.IdentityProvider, _ *bufio.Reader, out io.Writer) error {
			if err := id.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "Déconnecté.")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIdentity(cmd, func(id auth.IdentityProvider, _ *bufio.Reader, out io.Writer) error {
			u, err := auth.Guard(cmd.Context(), id)
			if errors.Is(err, auth.ErrNotAuthenticated) {
				fmt.Fprintln(out, "invité (non connecté)")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s (%s)\n", u.Email, u.ID)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVar(&accountEmail, "email", "", "account email (prompted when empty)")
	}
}

func withIdentity(cmd *cobra.Command, fn func(auth.IdentityProvider, *bufio.Reader, io.Writer) error) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	b, err := a.openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b.identity, bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())
}

func promptEmail(in *bufio.Reader, out io.Writer) (string, error) {
	if accountEmail != "" {
		return accountEmail, nil
	}
	fmt.Fprint(out, "Email: ")
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read email: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo on a terminal, else one line of input.
func promptPassword(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
