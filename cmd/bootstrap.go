/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/bibliogo/apiserver/config"
	"github.com/bibliogo/apiserver/internal/auth"
	"github.com/bibliogo/apiserver/internal/store"
	"github.com/bibliogo/apiserver/types"
	"github.com/spf13/cobra"
)

// bootstrapCmd represents the bootstrap command. It creates the data
// and image directories, the root administrator, a demo member, a
// sample book on loan to the member, and the revocation database.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Initialize data directories and the root administrator",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		adminPassword := os.Getenv("SUPER_ADMIN_PASSWORD")
		memberPassword := os.Getenv("USER_PASSWORD")
		if adminPassword == "" || memberPassword == "" {
			return errors.New("SUPER_ADMIN_PASSWORD and USER_PASSWORD are required")
		}

		for _, dir := range []string{cfg.DataDir, cfg.ImageDir} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", dir, err)
			}
		}

		users := store.NewUserStore(cfg.UsersPath())
		if err := users.Load(); err != nil {
			return err
		}
		seedUsers := []types.User{
			{ID: "0", Name: "admin", Surname1: "admin", Surname2: "admin",
				Role: types.RoleAdmin, PasswordHash: auth.HashPassword(adminPassword)},
			{ID: "1", Name: "user", Surname1: "user", Surname2: "user",
				Role: types.RoleMember, PasswordHash: auth.HashPassword(memberPassword)},
		}
		for _, u := range seedUsers {
			if err := users.Add(u); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					fmt.Printf("user %s already exists\n", u.ID)
					continue
				}
				return err
			}
		}
		if err := users.Save(); err != nil {
			return err
		}

		books := store.NewBookStore(cfg.BooksPath())
		if err := books.Load(); err != nil {
			return err
		}
		sample := types.Book{
			ISBN:      "978-1491946008",
			Title:     "Fluent Python: Clear, Concise, and Effective Programming",
			Author:    "Luciano Ramalho",
			Publisher: "O'Reilly Media",
			Year:      "2015",
		}
		if err := books.Add(sample); err != nil {
			if !errors.Is(err, store.ErrAlreadyExists) {
				return err
			}
			fmt.Println("sample book already exists")
		}
		if err := books.Save(); err != nil {
			return err
		}

		loans := store.NewLoanStore(cfg.LoansPath())
		if err := loans.Load(); err != nil {
			return err
		}
		if err := loans.AddLoan(sample.ISBN, "1"); err != nil {
			if !errors.Is(err, store.ErrNotAvailable) {
				return err
			}
			fmt.Println("sample book is already on loan")
		}
		if err := loans.Save(); err != nil {
			return err
		}

		revocations, err := store.NewRevocationStore(cfg.RevocationDBPath)
		if err != nil {
			return err
		}
		defer revocations.Close()

		fmt.Println("bootstrap complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}
