package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sidworks/gp/internal/validation"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Long: `Sign in with email and password.

The session is cached locally, so subsequent commands run without
prompting until you run 'gp logout' or the session expires.`,
	Run: func(cmd *cobra.Command, args []string) {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			email = promptLine("Email: ")
		}
		email, err := validation.Email(email)
		if err != nil {
			FatalError("%v", err)
		}

		password := os.Getenv("GP_PASSWORD")
		if password == "" {
			password = promptPassword("Password: ")
		}

		sess, err := authClient.SignIn(rootCtx, email, password)
		if err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("Signed in as %s\n", sess.Identity.Email)
	},
}

// promptLine reads one line from stdin.
func promptLine(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	var line string
	if _, err := fmt.Scanln(&line); err != nil {
		FatalError("reading input: %v", err)
	}
	return strings.TrimSpace(line)
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			FatalError("reading password: %v", err)
		}
		return string(raw)
	}
	var line string
	if _, err := fmt.Scanln(&line); err != nil {
		FatalError("reading password: %v", err)
	}
	return line
}

func init() {
	loginCmd.Flags().StringP("email", "e", "", "Account email (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}
