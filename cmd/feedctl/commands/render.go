package commands

import (
	"fmt"
	"io"

	"github.com/auditfeed-io/feedctl/pkg/o365"
)

// The three fixed rendering recipes for subscription API responses. Each
// takes decoded records and prints labeled lines in document order; the
// renderers hold no state, so rendering the same input twice produces
// identical output.

// RenderStatusList prints one block per subscription with content type,
// status, and webhook. An absent webhook renders as "None".
func RenderStatusList(w io.Writer, subscriptions []o365.Subscription) {
	if len(subscriptions) == 0 {
		_, _ = fmt.Fprintln(w, "No subscriptions found")

		return
	}

	for _, sub := range subscriptions {
		_, _ = fmt.Fprintf(w, "Content Type: %s\n", sub.ContentType)
		_, _ = fmt.Fprintf(w, "  Status:  %s\n", sub.Status)
		_, _ = fmt.Fprintf(w, "  Webhook: %s\n", webhookLabel(sub.Webhook))
	}
}

// RenderRestartResult prints the subscription returned by a start call.
func RenderRestartResult(w io.Writer, subscription *o365.Subscription) {
	_, _ = fmt.Fprintln(w, "Subscription started:")
	_, _ = fmt.Fprintf(w, "  Content Type: %s\n", subscription.ContentType)
	_, _ = fmt.Fprintf(w, "  Status:       %s\n", subscription.Status)
	_, _ = fmt.Fprintf(w, "  Webhook:      %s\n", webhookLabel(subscription.Webhook))
}

// RenderContentList prints five labeled lines per content record, in the
// field order the API emits them, with a blank line between records.
func RenderContentList(w io.Writer, blobs []o365.ContentBlob) {
	if len(blobs) == 0 {
		_, _ = fmt.Fprintln(w, "No content available")

		return
	}

	for i, blob := range blobs {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}

		_, _ = fmt.Fprintf(w, "Content URI:        %s\n", blob.ContentURI)
		_, _ = fmt.Fprintf(w, "Content ID:         %s\n", blob.ContentID)
		_, _ = fmt.Fprintf(w, "Content Type:       %s\n", blob.ContentType)
		_, _ = fmt.Fprintf(w, "Content Created:    %s\n", blob.ContentCreated)
		_, _ = fmt.Fprintf(w, "Content Expiration: %s\n", blob.ContentExpiration)
	}
}

// webhookLabel renders a webhook for the status recipes.
func webhookLabel(webhook *o365.Webhook) string {
	if webhook == nil {
		return None
	}

	if webhook.Address == "" {
		if webhook.Status != "" {
			return webhook.Status
		}

		return None
	}

	if webhook.Status != "" {
		return fmt.Sprintf("%s (%s)", webhook.Address, webhook.Status)
	}

	return webhook.Address
}
