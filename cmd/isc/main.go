package main

import (
	"fmt"
	"os"

	"github.com/mdouchement/impulsestop/internal/client"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"
)

func main() {
	c := &cobra.Command{
		Use:     "isc",
		Short:   "Impulse buy stop client",
		Version: fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:    cobra.NoArgs,
	}
	c.AddCommand(signupCmd)
	c.AddCommand(loginCmd)
	c.AddCommand(trialCmd)
	c.AddCommand(logoutCmd)
	c.AddCommand(listCmd)
	c.AddCommand(accountCmd)

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var (
	signupCmd = &cobra.Command{
		Use:   "signup",
		Short: "Create an account on the impulsestop server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Register()
		},
	}

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Login to the impulsestop server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Login()
		},
	}

	trialCmd = &cobra.Command{
		Use:   "trial",
		Short: "Browse the read-only sample list without an account",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Trial()
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Logout from an impulsestop server session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Logout()
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Text-based buy list application",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.List()
		},
	}

	accountCmd = &cobra.Command{
		Use:   "account MODE",
		Short: "Account settings (email, password, reset, cancel)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			modes := map[string]client.Mode{
				"email":    client.ModeEmail,
				"password": client.ModePassword,
				"reset":    client.ModePasswordReset,
				"cancel":   client.ModeCancelMembership,
			}

			mode, ok := modes[args[0]]
			if !ok {
				return fmt.Errorf("unknown mode %q (email, password, reset, cancel)", args[0])
			}
			return client.Settings(mode)
		},
	}
)
