package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fieldops/fieldops/internal/model"
	"github.com/fieldops/fieldops/internal/repo"
)

var (
	profileFirstName string
	profileLastName  string
	profileEmail     string
	profilePhone     string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the current user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		prof := repo.NewProfile(client, store, msgs)
		result := repo.Await(prof.Current(cmd.Context()))
		if result.Kind == repo.Error {
			return fmt.Errorf("%s", result.Message)
		}

		if result.Stale {
			fmt.Println("(offline: showing cached profile)")
		}
		printUser(result.Data)
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req model.UpdateProfileRequest
		if cmd.Flags().Changed("first-name") {
			req.FirstName = &profileFirstName
		}
		if cmd.Flags().Changed("last-name") {
			req.LastName = &profileLastName
		}
		if cmd.Flags().Changed("email") {
			req.Email = &profileEmail
		}
		if cmd.Flags().Changed("phone") {
			req.PhoneNumber = &profilePhone
		}

		prof := repo.NewProfile(client, store, msgs)
		result := repo.Await(prof.Update(cmd.Context(), req))
		if result.Kind == repo.Error {
			return fmt.Errorf("%s", result.Message)
		}

		fmt.Println("Profile updated")
		printUser(result.Data)
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the account password",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		fmt.Print("Current password: ")
		current, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		fmt.Print("New password: ")
		next, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}

		prof := repo.NewProfile(client, store, msgs)
		result := repo.Await(prof.ChangePassword(
			cmd.Context(),
			strings.TrimRight(current, "\r\n"),
			strings.TrimRight(next, "\r\n"),
		))
		if result.Kind == repo.Error {
			return fmt.Errorf("%s", result.Message)
		}

		fmt.Println("Password changed")
		return nil
	},
}

func printUser(u *model.User) {
	fmt.Printf("%s (%s)\n", u.FullName(), u.Username)
	fmt.Printf("  role:  %s\n", u.Role)
	fmt.Printf("  email: %s\n", u.Email)
	if u.PhoneNumber != "" {
		fmt.Printf("  phone: %s\n", u.PhoneNumber)
	}
	if u.Wilaya != "" {
		fmt.Printf("  wilaya: %s\n", u.Wilaya)
	}
	if u.Group != "" {
		fmt.Printf("  group: %s\n", u.Group)
	}
}

func init() {
	profileUpdateCmd.Flags().StringVar(&profileFirstName, "first-name", "", "first name")
	profileUpdateCmd.Flags().StringVar(&profileLastName, "last-name", "", "last name")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "email address")
	profileUpdateCmd.Flags().StringVar(&profilePhone, "phone", "", "phone number")
	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(profileCmd, passwdCmd)
}
