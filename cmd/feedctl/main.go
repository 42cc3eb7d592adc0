package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/auditfeed-io/feedctl/cmd/feedctl/commands"
	"github.com/auditfeed-io/feedctl/pkg/o365"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "feedctl",
	Short: "Office 365 audit-log subscription CLI",
	Long: `A command-line client for the Office 365 Management Activity API.

feedctl authenticates with OAuth2 client credentials and lets an operator
list, start, and stop audit-log subscriptions for a tenant and retrieve
the available content listing, either as one-shot commands or through an
interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return commands.SetupSession(
			viper.GetBool("log"),
			viper.GetString("log-file"),
			viper.GetBool("debug"),
		)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.feedctl/feedctl.env)")
	rootCmd.PersistentFlags().Bool("debug", false, "echo raw requests and responses")
	rootCmd.PersistentFlags().Bool("log", false, "append timestamped entries to a per-run log file")
	rootCmd.PersistentFlags().String("log-file", "", "session log file path (default feedctl-<timestamp>.log)")
	rootCmd.PersistentFlags().String("output", "text", "output format (text, table, json, yaml)")
	rootCmd.PersistentFlags().String("content-type", "", "audit content type (default "+o365.DefaultContentType+")")
	rootCmd.PersistentFlags().String("proxy", "", "proxy URL for API calls (overrides PROXY_URL)")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("log", rootCmd.PersistentFlags().Lookup("log"))
	_ = viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("content_type", rootCmd.PersistentFlags().Lookup("content-type"))
	_ = viper.BindPFlag("proxy_url", rootCmd.PersistentFlags().Lookup("proxy"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewTokenCommand())
	rootCmd.AddCommand(commands.NewSubscriptionsCommand())
	rootCmd.AddCommand(commands.NewContentCommand())
	rootCmd.AddCommand(commands.NewMenuCommand())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")

	// Read in environment variables that match
	viper.SetEnvPrefix("FEEDCTL")
	viper.AutomaticEnv()

	if cfgFile != "" {
		// Use config file from the flag. An unreadable explicit config is
		// fatal (exit 1) before any network call.
		viper.SetConfigFile(cfgFile)
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
			os.Exit(o365.ExitConfig)
		}

		return
	}

	// Search ~/.feedctl and the working directory for feedctl.env
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".feedctl"))
	}

	viper.AddConfigPath(".")
	viper.SetConfigName("feedctl")
	viper.SetConfigType("env")

	// If a config file is found, read it in; credentials may also come
	// entirely from the environment.
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("debug") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	err := rootCmd.Execute()

	commands.CloseSession()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(o365.ExitCode(err))
	}
}
