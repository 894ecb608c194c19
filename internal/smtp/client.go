package smtp

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"

	"github.com/DanteAgarwal/Applying-sets/internal/credentials"
	"github.com/DanteAgarwal/Applying-sets/internal/models"
)

// MailClient is the production Channel over an SMTP transport. Credentials
// are resolved through the opaque credential source at connect time.
type MailClient struct {
	creds  credentials.Source
	client *mail.Client
}

func NewMailClient(creds credentials.Source) *MailClient {
	return &MailClient{creds: creds}
}

// Connect resolves credentials for the account, performs the transport
// handshake and auth, and keeps the session open for subsequent sends.
// Any failure here aborts the whole campaign before a single message goes out.
func (c *MailClient) Connect(ctx context.Context, account models.EmailAccount) error {
	cred, ok, err := c.creds.Load(account.EmailAddress)
	if err != nil {
		return &models.ConnectionError{Account: account.EmailAddress, Err: err}
	}
	if !ok {
		return &models.ConnectionError{Account: account.EmailAddress, Err: fmt.Errorf("credentials not found")}
	}

	client, err := mail.NewClient(account.SMTPServer,
		mail.WithPort(account.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cred.Email),
		mail.WithPassword(cred.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return &models.ConnectionError{Account: account.EmailAddress, Err: err}
	}
	if err := client.DialWithContext(ctx); err != nil {
		return &models.ConnectionError{Account: account.EmailAddress, Err: err}
	}
	c.client = client
	return nil
}

// SendOne transmits exactly one message over the open session.
func (c *MailClient) SendOne(ctx context.Context, msg Message) error {
	if c.client == nil {
		return models.ErrNoSession
	}
	m := mail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.From); err != nil {
		return &models.SendError{Recipient: msg.To, Err: err}
	}
	if err := m.To(msg.To); err != nil {
		return &models.SendError{Recipient: msg.To, Err: err}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	if msg.TraceID != "" {
		m.SetGenHeader(mail.Header("X-Jobtrack-Trace"), msg.TraceID)
	}
	if err := c.client.Send(m); err != nil {
		return &models.SendError{Recipient: msg.To, Err: err}
	}
	return nil
}

// Disconnect closes the session. Idempotent no-op when already closed.
func (c *MailClient) Disconnect() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}
