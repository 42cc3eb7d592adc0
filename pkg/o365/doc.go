// Package o365 provides types, errors, and configuration for working with
// the Office 365 Management Activity API audit-log subscription endpoints.
//
// # Overview
//
// The o365 package defines the domain types (Subscription, Webhook,
// ContentBlob) returned by the activity feed endpoints, the Config used to
// construct a client, and the error taxonomy the CLI maps to process exit
// codes. A concrete client implementation lives in internal/client and is
// wired by the feedctl command; library consumers interact with the types
// and errors exposed here.
//
// # Errors
//
// Failures fall into three categories with distinct exit codes:
//
//	*ConfigError  - credentials missing or unreadable (exit 1)
//	*AuthError    - token acquisition failed (exit 2)
//	*APIError     - the Management Activity API rejected a call (exit 3)
//
// ExitCode maps any error to the matching process status. Helpers such as
// IsAuthError and IsAPIError make it easy to branch on the common cases.
package o365
