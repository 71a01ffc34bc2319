package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/validation"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	Long: `Create a new account using an interactive form.

Depending on how the auth endpoint is configured, you may need to confirm
your email address before the account can sign in.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			email    string
			password string
			confirm  string
			fullName string
		)

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Placeholder("you@example.com").
					Value(&email).
					Validate(func(s string) error {
						_, err := validation.Email(s)
						return err
					}),

				huh.NewInput().
					Title("Full name").
					Description("Shown on your profile (optional)").
					Value(&fullName),

				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Validate(validation.Credential),

				huh.NewInput().
					Title("Confirm password").
					EchoMode(huh.EchoModePassword).
					Value(&confirm).
					Validate(func(s string) error {
						if s != password {
							return fmt.Errorf("passwords do not match")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			FatalError("%v", err)
		}

		sess, err := authClient.SignUp(rootCtx, email, password, fullName)
		if err != nil {
			FatalError("%v", err)
		}
		if sess == nil {
			fmt.Println("Account created. Check your email to confirm it, then run 'gp login'.")
			return
		}
		fmt.Printf("Signed in as %s\n", sess.Identity.Email)
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
}
