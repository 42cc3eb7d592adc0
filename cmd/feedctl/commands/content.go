package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/auditfeed-io/feedctl/internal/client"
	"github.com/auditfeed-io/feedctl/internal/publish"
	"github.com/auditfeed-io/feedctl/pkg/o365"
)

// NewContentCommand creates the content listing command.
func NewContentCommand() *cobra.Command {
	var (
		startTime      string
		endTime        string
		publishURL     string
		publishSubject string
	)

	cmd := &cobra.Command{
		Use:   "content",
		Short: "List available audit content",
		Long: `List the content blobs currently available for the configured content type.

Without a time window the API returns the last 24 hours. Records can
optionally be fanned out to a NATS subject for downstream collectors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &client.ContentOptions{StartTime: startTime, EndTime: endTime}

			return runContent(cmd, opts, publishURL, publishSubject)
		},
	}

	cmd.Flags().StringVar(&startTime, "start-time", "", "list content created after this time (RFC3339 format)")
	cmd.Flags().StringVar(&endTime, "end-time", "", "list content created before this time (RFC3339 format)")
	cmd.Flags().StringVar(&publishURL, "publish-url", "", "NATS server URL to publish fetched records to")
	cmd.Flags().StringVar(&publishSubject, "publish-subject", publish.DefaultSubject, "NATS subject for published records")

	return cmd
}

func runContent(cmd *cobra.Command, opts *client.ContentOptions, publishURL, publishSubject string) error {
	apiClient, err := CreateClient()
	if err != nil {
		logError("listing content", err)

		return err
	}

	blobs, err := apiClient.Subscriptions().Content(context.Background(), contentType(), opts)
	if err != nil {
		logError("listing content", err)

		return fmt.Errorf("failed to list content: %w", err)
	}

	if publishURL != "" {
		err = publishContent(publishURL, publishSubject, blobs)
		if err != nil {
			logError("publishing content", err)

			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Published %d records to %s\n", len(blobs), publishSubject)
	}

	return outputContentList(cmd, blobs)
}

func publishContent(publishURL, subject string, blobs []o365.ContentBlob) error {
	publisher, err := publish.Connect(publishURL)
	if err != nil {
		return err
	}
	defer func() { _ = publisher.Close() }()

	return publish.Records(publisher, subject, blobs)
}

func outputContentList(cmd *cobra.Command, blobs []o365.ContentBlob) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return outputJSON(blobs)
	case OutputFormatYAML:
		return outputYAML(blobs)
	case OutputFormatTable:
		return outputContentTable(blobs)
	default:
		RenderContentList(cmd.OutOrStdout(), blobs)

		return nil
	}
}

func outputContentTable(blobs []o365.ContentBlob) error {
	if len(blobs) == 0 {
		_, _ = os.Stdout.WriteString("No content available\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Content ID", "Content Type", "Created", "Expiration")

	for _, blob := range blobs {
		_ = table.Append(blob.ContentID, blob.ContentType, blob.ContentCreated, blob.ContentExpiration)
	}

	_ = table.Render()

	return nil
}
