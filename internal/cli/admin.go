package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator session commands",
	}

	cmd.AddCommand(newAdminLoginCmd())
	cmd.AddCommand(newAdminLogoutCmd())
	cmd.AddCommand(newAdminMeCmd())

	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as the administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result Session

			if err := client.Post(cmd.Context(), "/api/v1/admin/login", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newAdminLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the administrator session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return fmt.Errorf("not signed in")
			}

			if err := client.Post(cmd.Context(), "/api/v1/admin/logout", nil, nil); err != nil {
				return err
			}

			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			newOutput(cmd).PrintMessage("Signed out")
			return nil
		},
	}
}

func newAdminMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Get(cmd.Context(), "/api/v1/admin/me", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}
