package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framespec/pkg/figma"
)

// authCommand creates the auth command with subcommands.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Inspect access token configuration",
		Long: `Inspect the access token framespec would use for API calls.

Tokens are never stored by framespec itself. They are read, in order,
from the --token flag, the FIGMA_TOKEN environment variable, and the
token key in framespec.toml.`,
	}

	cmd.AddCommand(c.authCheckCommand())

	return cmd
}

// authCheckCommand creates the "auth check" subcommand, which verifies the
// resolved token against the live API.
func (c *CLI) authCheckCommand() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the access token against the live API",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := c.resolveToken(token)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			spinner := newSpinnerWithContext(ctx, "Verifying token...")
			spinner.Start()

			client := figma.NewClient(figma.ClientConfig{Token: resolved, Logger: c.Logger})
			me, err := client.Me(ctx)
			if err != nil {
				spinner.StopWithError("Token invalid")
				return describeFailure(err)
			}
			spinner.Stop()

			printSuccess("Token verified")
			if me.Handle != "" {
				printKeyValue("Handle", me.Handle)
			}
			if me.Email != "" {
				printKeyValue("Email", me.Email)
			}
			printKeyValue("User ID", me.ID)
			printKeyValue("Source", c.tokenSource(token))

			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "access token (overrides FIGMA_TOKEN and the config file)")

	return cmd
}

// tokenSource reports where the resolved token came from, mirroring the
// precedence in resolveToken.
func (c *CLI) tokenSource(flagToken string) string {
	if flagToken != "" {
		return "--token flag"
	}
	if os.Getenv("FIGMA_TOKEN") != "" {
		return "FIGMA_TOKEN"
	}
	return configFileName
}
