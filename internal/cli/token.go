package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrel-systems/kestrel-collector/pkg/tokens"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Project token management",
	Long:  "Mint and inspect project ingestion tokens",
}

var tokenCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Mint a project ingestion token",
	Long:  "Mint an HS256 token an SDK presents when submitting events for a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetString("project")
		secret, _ := cmd.Flags().GetString("secret")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		if projectID == "" {
			return fmt.Errorf("project ID is required")
		}
		if secret == "" {
			return fmt.Errorf("project secret is required")
		}

		token, err := tokens.Generate(projectID, secret, ttl)
		if err != nil {
			return fmt.Errorf("failed to mint token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

var tokenInspectCmd = &cobra.Command{
	Use:   "inspect <token>",
	Short: "Decode a token's claims",
	Long:  "Decode a project token's claims without verifying the signature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		claims, err := tokens.Inspect(args[0])
		if err != nil {
			return fmt.Errorf("failed to decode token: %w", err)
		}

		fmt.Printf("Project: %s\n", claims.ProjectID)
		if claims.IssuedAt != nil {
			fmt.Printf("Issued:  %s\n", claims.IssuedAt.Format(time.RFC3339))
		}
		if claims.ExpiresAt != nil {
			fmt.Printf("Expires: %s\n", claims.ExpiresAt.Format(time.RFC3339))
		} else {
			fmt.Println("Expires: never")
		}
		return nil
	},
}

func init() {
	tokenCreateCmd.Flags().String("project", "", "project identifier")
	tokenCreateCmd.Flags().String("secret", "", "project signing secret")
	tokenCreateCmd.Flags().Duration("ttl", 0, "token lifetime (0 for no expiry)")

	tokenCmd.AddCommand(tokenCreateCmd)
	tokenCmd.AddCommand(tokenInspectCmd)
}
