// Package smtp is the outbound delivery channel: one logical SMTP session
// with a connect/send/disconnect lifecycle. A session is opened once per
// campaign and shared by every message in it; the handshake cost is never
// paid per recipient.
package smtp

import (
	"context"

	"github.com/DanteAgarwal/Applying-sets/internal/models"
)

// Message is one rendered email ready for transmission.
type Message struct {
	FromName string
	From     string
	To       string
	Subject  string
	Body     string
	TraceID  string
}

// Channel is the delivery session abstraction. SendOne fails if no session
// is open. Transport errors from SendOne are not retried here; retry policy
// belongs to the orchestrator. Disconnect is safe to call at any time.
type Channel interface {
	Connect(ctx context.Context, account models.EmailAccount) error
	SendOne(ctx context.Context, msg Message) error
	Disconnect() error
}
