package main

import (
	"github.com/spf13/cobra"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
)

func loginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			a.printf("logged in as %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			a.printf("logged out\n")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current role as reported by the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.session.GetRole(cmd.Context())
			switch res.Status {
			case session.RoleAbsent:
				a.printf("not logged in\n")
			case session.RoleOk:
				a.printf("role: %s\n", res.Role)
			default:
				a.printf("role unavailable (%s)\n", res.Reason())
				return res.Err
			}
			return nil
		},
	}
}

func registerCmd(a *app) *cobra.Command {
	var (
		reg  domain.Registration
		role string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg.Role = domain.Role(role)
			user, err := a.session.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			a.printf("registered %s (#%d), now run `storefront login`\n", user.Username, user.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&reg.Username, "username", "", "username")
	f.StringVar(&reg.Email, "email", "", "email address")
	f.StringVar(&reg.Password, "password", "", "password")
	f.StringVar(&reg.Address, "address", "", "delivery address")
	f.StringVar(&role, "role", string(domain.RoleUser), "user or admin")
	return cmd
}
