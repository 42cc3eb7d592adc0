package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/auditfeed-io/feedctl/internal/client"
	"github.com/auditfeed-io/feedctl/pkg/o365"
)

// SubscriptionAPI is the surface the menu drives. *client.SubscriptionsClient
// satisfies it; tests substitute a fake.
type SubscriptionAPI interface {
	List(ctx context.Context) ([]o365.Subscription, error)
	Start(ctx context.Context, contentType string, opts *client.StartOptions) (*o365.Subscription, error)
	Stop(ctx context.Context, contentType string) error
	Content(ctx context.Context, contentType string, opts *client.ContentOptions) ([]o365.ContentBlob, error)
}

// MenuState is the interactive loop state.
type MenuState int

const (
	// StateAwaitingChoice is the prompt state between actions.
	StateAwaitingChoice MenuState = iota

	// StateExited is the terminal state.
	StateExited
)

// Menu is the interactive controller: a blocking read of one choice per
// iteration, one API call per valid choice, then back to the prompt.
// API failures inside the loop are warnings; authentication failures
// abort the loop and propagate to the caller.
type Menu struct {
	api         SubscriptionAPI
	in          *bufio.Scanner
	out         io.Writer
	contentType string
	logger      o365.Logger
	state       MenuState
	err         error
}

// NewMenu creates a menu reading choices from in and writing to out.
func NewMenu(api SubscriptionAPI, in io.Reader, out io.Writer, contentType string, logger o365.Logger) *Menu {
	return &Menu{
		api:         api,
		in:          bufio.NewScanner(in),
		out:         out,
		contentType: contentType,
		logger:      logger,
		state:       StateAwaitingChoice,
	}
}

// State returns the current loop state.
func (m *Menu) State() MenuState {
	return m.state
}

// Run drives the loop until the operator chooses exit, input ends, or
// token acquisition fails.
func (m *Menu) Run(ctx context.Context) error {
	for m.state == StateAwaitingChoice {
		m.printMenu()

		if !m.in.Scan() {
			m.state = StateExited

			break
		}

		m.dispatch(ctx, strings.TrimSpace(m.in.Text()))
	}

	if m.err != nil {
		return m.err
	}

	if err := m.in.Err(); err != nil {
		return fmt.Errorf("reading menu input: %w", err)
	}

	return nil
}

func (m *Menu) printMenu() {
	_, _ = fmt.Fprintf(m.out, `
Audit subscription menu (%s)
  1) List subscriptions
  2) Stop subscription
  3) Start subscription
  4) List available content
  5) Exit
Choice: `, m.contentType)
}

// dispatch runs one action for one choice. Unrecognized input prints an
// invalid-choice message and issues no API call.
func (m *Menu) dispatch(ctx context.Context, choice string) {
	switch choice {
	case "1":
		m.listSubscriptions(ctx)
	case "2":
		m.stopSubscription(ctx)
	case "3":
		m.startSubscription(ctx)
	case "4":
		m.listContent(ctx)
	case "5":
		m.state = StateExited

		_, _ = fmt.Fprintln(m.out, "Bye")
	default:
		_, _ = fmt.Fprintf(m.out, "Invalid choice %q, enter 1-5\n", choice)
	}
}

func (m *Menu) listSubscriptions(ctx context.Context) {
	subscriptions, err := m.api.List(ctx)
	if err != nil {
		m.warn("listing subscriptions", err)

		return
	}

	RenderStatusList(m.out, subscriptions)
}

func (m *Menu) stopSubscription(ctx context.Context) {
	err := m.api.Stop(ctx, m.contentType)
	if err != nil {
		m.warn("stopping subscription", err)

		return
	}

	_, _ = fmt.Fprintf(m.out, "Stopped subscription for %s\n", m.contentType)
}

func (m *Menu) startSubscription(ctx context.Context) {
	subscription, err := m.api.Start(ctx, m.contentType, nil)
	if err != nil {
		m.warn("starting subscription", err)

		return
	}

	RenderRestartResult(m.out, subscription)
}

func (m *Menu) listContent(ctx context.Context) {
	blobs, err := m.api.Content(ctx, m.contentType, nil)
	if err != nil {
		m.warn("listing content", err)

		return
	}

	RenderContentList(m.out, blobs)
}

// warn handles a per-call failure. API errors print a warning, mirror to
// the session log, and the loop continues. A failed token grant is fatal:
// it is never retried, so the loop stops and the error propagates for the
// exit-status mapping.
func (m *Menu) warn(action string, err error) {
	if m.logger != nil {
		m.logger.Error(action, map[string]interface{}{"error": err.Error()})
	}

	if o365.IsAuthError(err) {
		m.state = StateExited
		m.err = fmt.Errorf("%s: %w", action, err)

		return
	}

	_, _ = fmt.Fprintf(m.out, "[!] %s: %v\n", action, err)
}

// NewMenuCommand creates the interactive menu command.
func NewMenuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive subscription menu",
		Long:  "Run the interactive menu for listing, starting, and stopping subscriptions and fetching content",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := CreateClient()
			if err != nil {
				logError("starting menu", err)

				return err
			}

			menu := NewMenu(apiClient.Subscriptions(), os.Stdin, cmd.OutOrStdout(), contentType(), activeLogger())

			return menu.Run(context.Background())
		},
	}
}
