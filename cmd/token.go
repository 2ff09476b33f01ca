package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskmaster.app/taskmaster/internal/auth"
	"taskmaster.app/taskmaster/internal/identity"
)

var (
	tokenUserID string
	tokenEmail  string
	tokenName   string
	tokenTTL    time.Duration
)

// tokenCmd mints a session token the way the identity provider would, for
// local development.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if tokenUserID == "" {
			tokenUserID = identity.GenerateID()
		}
		if !identity.IsValidID(tokenUserID) {
			return fmt.Errorf("user id %q is not a valid identifier", tokenUserID)
		}

		token, err := auth.NewVerifier(cfg.JWTSecret, "taskmaster").Issue(tokenUserID, tokenEmail, tokenName, tokenTTL)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id (generated when empty)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "user email")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "display name")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(tokenCmd)
}
