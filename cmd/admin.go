package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wwjtop/config"
	"wwjtop/core/auth"
	"wwjtop/db"
	"wwjtop/model"
	"wwjtop/repository"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

// adminCreateCmd bootstraps the first admin account. Registration over HTTP
// always yields the user role, so the initial admin has to come from here.
var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := db.ConnectDB(cfg); err != nil {
			return err
		}
		defer db.DB.Close()
		if err := db.InitDB(); err != nil {
			return err
		}

		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			return err
		}

		userRepo := repository.NewMySQLUserRepository(db.DB)
		id, err := userRepo.CreateUser(context.Background(), &model.User{
			Username:     adminUsername,
			Email:        adminEmail,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}

		fmt.Printf("Admin account %q created with ID %d.\n", adminUsername, id)
		return nil
	},
}

// adminPromoteCmd grants the admin role to an existing account. The target's
// live sessions keep their old role until expiry; the change lands on their
// next login.
var adminPromoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Promote an existing account to admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := db.ConnectDB(cfg); err != nil {
			return err
		}
		defer db.DB.Close()

		userRepo := repository.NewMySQLUserRepository(db.DB)
		user, err := userRepo.GetUserByUsername(context.Background(), adminUsername)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("no account named %q", adminUsername)
		}

		if err := userRepo.UpdateUserRole(context.Background(), user.ID, model.RoleAdmin); err != nil {
			return err
		}

		fmt.Printf("Account %q promoted to admin.\n", adminUsername)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	adminCreateCmd.MarkFlagRequired("username")
	adminCreateCmd.MarkFlagRequired("email")
	adminCreateCmd.MarkFlagRequired("password")

	adminPromoteCmd.Flags().StringVar(&adminUsername, "username", "", "account to promote")
	adminPromoteCmd.MarkFlagRequired("username")

	adminCmd.AddCommand(adminCreateCmd)
	adminCmd.AddCommand(adminPromoteCmd)
	rootCmd.AddCommand(adminCmd)
}
