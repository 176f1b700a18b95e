package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dosada05/arena-admin/console"
	"github.com/Dosada05/arena-admin/gateway"
	"github.com/Dosada05/arena-admin/models"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Args:  cobra.ExactArgs(0),
	Short: "Sign in and keep the session token",
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Args:  cobra.ExactArgs(0),
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, _args []string) error {
		if err := current.session.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Args:  cobra.ExactArgs(0),
	Short: "Show who the stored token belongs to",
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Args:  cobra.ExactArgs(0),
	Short: "Create an account and sign in with it",
}

func init() {
	p := loginCmd.Flags()
	email := p.StringP("email", "e", "", "account email")
	password := p.StringP("password", "p", "",
		"account password\n(prompted for when empty and ARENA_PASSWORD is unset)")

	loginCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		pw, err := readPassword(*password)
		if err != nil {
			return err
		}
		user, err := current.session.Login(cmd.Context(), *email, pw)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (%s)\n", user.Name, user.Role)
		return nil
	}

	remote := whoamiCmd.Flags().Bool("remote", false, "ask the backend instead of reading the token")
	whoamiCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		out := cmd.OutOrStdout()
		if *remote {
			user, err := current.session.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s <%s> %s\n", user.Name, user.Email, user.Role)
			return nil
		}
		claims, err := current.session.WhoAmI(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%s) id=%s expires %s\n",
			claims.Name, claims.Role, claims.UserID, claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	}

	r := registerCmd.Flags()
	name := r.String("name", "", "display name")
	regEmail := r.String("email", "", "account email")
	phone := r.String("phone", "", "mobile number (optional)")
	role := r.String("role", "", "admin or player (default admin)")
	regPassword := r.String("password", "", "account password (prompted for when empty)")

	registerCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		pw, err := readPassword(*regPassword)
		if err != nil {
			return err
		}
		user, err := current.session.Register(cmd.Context(), models.RegisterInput{
			Name:     *name,
			Email:    *regEmail,
			Password: pw,
			Phone:    *phone,
			Role:     models.UserRole(*role),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", user.Email, user.Role)
		return nil
	}
}

func readPassword(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("ARENA_PASSWORD"); env != "" {
		return env, nil
	}
	fmt.Fprint(os.Stderr, "password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// requireLogin turns an expired session into a hint instead of a bare error.
func requireLogin(err error) error {
	if errors.Is(err, console.ErrLoginRequired) ||
		errors.Is(err, gateway.ErrAuthExpired) ||
		errors.Is(err, gateway.ErrNotLoggedIn) {
		return fmt.Errorf("%w (run `arena-admin login`)", err)
	}
	return err
}
