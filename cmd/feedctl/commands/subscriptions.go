package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/auditfeed-io/feedctl/internal/client"
	"github.com/auditfeed-io/feedctl/pkg/o365"
)

// startOptions builds the start request body: empty unless a webhook
// registration was requested.
func startOptions(webhookAddress string) *client.StartOptions {
	if webhookAddress == "" {
		return nil
	}

	return &client.StartOptions{Webhook: &o365.Webhook{Address: webhookAddress}}
}

// NewSubscriptionsCommand creates the subscriptions command group.
func NewSubscriptionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subs", "sub"},
		Short:   "Manage audit-log subscriptions",
		Long:    "List, start, and stop Management Activity API subscriptions for the tenant",
	}

	cmd.AddCommand(newSubscriptionsListCommand())
	cmd.AddCommand(newSubscriptionsStartCommand())
	cmd.AddCommand(newSubscriptionsStopCommand())

	return cmd
}

func newSubscriptionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		Long:  "List all audit-log subscriptions with their status and webhook registration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscriptionsList(cmd)
		},
	}
}

func runSubscriptionsList(cmd *cobra.Command) error {
	apiClient, err := CreateClient()
	if err != nil {
		logError("listing subscriptions", err)

		return err
	}

	subscriptions, err := apiClient.Subscriptions().List(context.Background())
	if err != nil {
		logError("listing subscriptions", err)

		return fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return outputSubscriptionsList(cmd, subscriptions)
}

func outputSubscriptionsList(cmd *cobra.Command, subscriptions []o365.Subscription) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return outputJSON(subscriptions)
	case OutputFormatYAML:
		return outputYAML(subscriptions)
	case OutputFormatTable:
		return outputSubscriptionsTable(subscriptions)
	default:
		RenderStatusList(cmd.OutOrStdout(), subscriptions)

		return nil
	}
}

func outputSubscriptionsTable(subscriptions []o365.Subscription) error {
	if len(subscriptions) == 0 {
		_, _ = os.Stdout.WriteString("No subscriptions found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Content Type", "Status", "Webhook")

	for _, sub := range subscriptions {
		_ = table.Append(sub.ContentType, sub.Status, webhookLabel(sub.Webhook))
	}

	_ = table.Render()

	return nil
}

func newSubscriptionsStartCommand() *cobra.Command {
	var webhookAddress string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a subscription",
		Long:  "Enable audit-log collection for the configured content type",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscriptionsStart(cmd, webhookAddress)
		},
	}

	cmd.Flags().StringVar(&webhookAddress, "webhook-address", "", "register a webhook notification endpoint")

	return cmd
}

func runSubscriptionsStart(cmd *cobra.Command, webhookAddress string) error {
	apiClient, err := CreateClient()
	if err != nil {
		logError("starting subscription", err)

		return err
	}

	opts := startOptions(webhookAddress)

	subscription, err := apiClient.Subscriptions().Start(context.Background(), contentType(), opts)
	if err != nil {
		logError("starting subscription", err)

		return fmt.Errorf("failed to start subscription: %w", err)
	}

	switch viper.GetString("output") {
	case OutputFormatJSON:
		return outputJSON(subscription)
	case OutputFormatYAML:
		return outputYAML(subscription)
	default:
		RenderRestartResult(cmd.OutOrStdout(), subscription)

		return nil
	}
}

func newSubscriptionsStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a subscription",
		Long:  "Disable audit-log collection for the configured content type",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscriptionsStop(cmd)
		},
	}
}

func runSubscriptionsStop(cmd *cobra.Command) error {
	apiClient, err := CreateClient()
	if err != nil {
		logError("stopping subscription", err)

		return err
	}

	err = apiClient.Subscriptions().Stop(context.Background(), contentType())
	if err != nil {
		logError("stopping subscription", err)

		return fmt.Errorf("failed to stop subscription: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stopped subscription for %s\n", contentType())

	return nil
}

func outputJSON(value interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode as JSON: %w", err)
	}

	return nil
}

func outputYAML(value interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode as YAML: %w", err)
	}

	return nil
}
