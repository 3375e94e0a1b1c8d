// Package notify holds the development implementation of the password
// notifier port. Real delivery (email/SMS transport) is an external
// collaborator wired in at deployment; this implementation only records
// that a delivery was requested.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier logs delivery intent without the plaintext. Useful for local
// development and as a safe default when no transport is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// DeliverNewPassword pretends to deliver. The plaintext is deliberately not
// logged.
func (n *LogNotifier) DeliverNewPassword(_ context.Context, email, name, _ string) error {
	n.log.Info().
		Str("email", email).
		Str("name", name).
		Msg("password reset delivery requested")
	return nil
}
