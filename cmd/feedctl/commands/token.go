package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// visibleTokenEdge is how many characters survive masking on each side.
const visibleTokenEdge = 6

// NewTokenCommand creates the token command.
func NewTokenCommand() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Acquire an access token",
		Long:  "Perform the client-credentials grant and print the resulting bearer token (masked unless --reveal)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(cmd, reveal)
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the full token instead of a masked form")

	return cmd
}

func runToken(cmd *cobra.Command, reveal bool) error {
	apiClient, err := CreateClient()
	if err != nil {
		logError("acquiring token", err)

		return err
	}

	token, err := apiClient.GetToken(context.Background())
	if err != nil {
		logError("acquiring token", err)

		return err
	}

	if reveal {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)

		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), maskToken(token))

	return nil
}

// maskToken keeps a few characters on each end so the operator can tell
// tokens apart without exposing the credential in scrollback.
func maskToken(token string) string {
	if len(token) <= visibleTokenEdge*2 {
		return Masked
	}

	return token[:visibleTokenEdge] + Masked + token[len(token)-visibleTokenEdge:]
}
