package commands

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/auditfeed-io/feedctl/internal/constants"
	"github.com/auditfeed-io/feedctl/pkg/o365"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and update configuration",
		Long:  "Show the loaded credential configuration or update the stored client secret",
	}

	cmd.AddCommand(newConfigViewCommand())
	cmd.AddCommand(newConfigSetSecretCommand())

	return cmd
}

func newConfigViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the loaded configuration",
		Long:  "Display the credential configuration with the client secret masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if used := viper.ConfigFileUsed(); used != "" {
				_, _ = fmt.Fprintf(out, "Config file: %s\n", used)
			}

			_, _ = fmt.Fprintf(out, "Tenant ID:     %s\n", viper.GetString("tenant_id"))
			_, _ = fmt.Fprintf(out, "Client ID:     %s\n", viper.GetString("client_id"))
			_, _ = fmt.Fprintf(out, "Client Secret: %s\n", maskIfSet(viper.GetString("client_secret")))
			_, _ = fmt.Fprintf(out, "Proxy URL:     %s\n", proxyLabel(viper.GetString("proxy_url")))
			_, _ = fmt.Fprintf(out, "Content Type:  %s\n", contentType())

			return nil
		},
	}
}

func newConfigSetSecretCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-secret",
		Short: "Update the stored client secret",
		Long:  "Prompt for a new client secret without echo and write it back to the loaded config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.ConfigFileUsed() == "" {
				return &o365.ConfigError{Message: "updating secret", Err: ErrNoConfigFileLoaded}
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), "New client secret: ")

			secretBytes, err := term.ReadPassword(syscall.Stdin)
			_, _ = fmt.Fprintln(cmd.OutOrStdout())

			if err != nil {
				return fmt.Errorf("reading secret: %w", err)
			}

			secret := strings.TrimSpace(string(secretBytes))
			if secret == "" {
				return ErrSecretEmpty
			}

			viper.Set("client_secret", secret)

			err = viper.WriteConfig()
			if err != nil {
				return fmt.Errorf("writing config file: %w", err)
			}

			// The rewritten file holds the secret; keep it owner-only.
			err = os.Chmod(viper.ConfigFileUsed(), constants.ConfigFilePerm)
			if err != nil {
				return fmt.Errorf("restricting config file permissions: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", viper.ConfigFileUsed())

			return nil
		},
	}
}

func maskIfSet(value string) string {
	if value == "" {
		return ""
	}

	return Masked
}

func proxyLabel(value string) string {
	if value == "" || value == o365.ProxyNone {
		return "direct (no proxy)"
	}

	return value
}
