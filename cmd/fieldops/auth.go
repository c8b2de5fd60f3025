package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fieldops/fieldops/internal/repo"
	"github.com/fieldops/fieldops/internal/session"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		username := loginUsername
		if username == "" {
			fmt.Print("Username: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading username: %w", err)
			}
			username = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password := strings.TrimRight(line, "\r\n")

		auth := repo.NewAuth(client, tokens, store, msgs)
		result := repo.Await(auth.Login(cmd.Context(), username, password))
		if result.Kind == repo.Error {
			return fmt.Errorf("%s", result.Message)
		}

		fmt.Printf("Logged in as %s\n", username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session and cached data",
	RunE: func(cmd *cobra.Command, args []string) error {
		auth := repo.NewAuth(client, tokens, store, msgs)
		if err := auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the stored session is still valid",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := session.Bootstrap(cmd.Context(), tokens, client)

		switch state {
		case session.Authenticated:
			username, _ := tokens.Username()
			fmt.Printf("Session valid (%s)\n", username)
		case session.AuthenticatedOffline:
			fmt.Println("Backend unreachable; proceeding with cached data")
		default:
			fmt.Println("Not logged in")
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username (prompted when omitted)")
	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd)
}
