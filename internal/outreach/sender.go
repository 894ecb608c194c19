// Package outreach sequences email delivery across one or many contacts:
// one SMTP session per campaign, retry with exponential backoff per send,
// a rate-limit sleep between recipients, and exactly one EmailLog row per
// logical send. Sending is strictly sequential; one message in flight at a
// time respects the rate limit and the provider's daily cap.
package outreach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DanteAgarwal/Applying-sets/internal/calendar"
	"github.com/DanteAgarwal/Applying-sets/internal/config"
	"github.com/DanteAgarwal/Applying-sets/internal/followup"
	"github.com/DanteAgarwal/Applying-sets/internal/logging"
	"github.com/DanteAgarwal/Applying-sets/internal/models"
	"github.com/DanteAgarwal/Applying-sets/internal/smtp"
	"github.com/DanteAgarwal/Applying-sets/internal/store"
	"github.com/DanteAgarwal/Applying-sets/internal/template"
)

type Sender struct {
	st  *store.Store
	eng *followup.Engine
	ch  smtp.Channel
	cfg *config.Config
	log *logging.Logger

	// injectable clocks for deterministic tests
	sleep func(time.Duration)
	now   func() time.Time
}

func New(st *store.Store, eng *followup.Engine, ch smtp.Channel, cfg *config.Config) *Sender {
	return &Sender{
		st:    st,
		eng:   eng,
		ch:    ch,
		cfg:   cfg,
		log:   logging.New(cfg.Logging.Level).With("module", "outreach"),
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// Outcome is the terminal result of one logical send.
type Outcome struct {
	Delivered bool
	Message   string
	Reminder  *calendar.Reminder
}

// Summary aggregates a campaign.
type Summary struct {
	Sent      int
	Failed    int
	Errors    []string
	Reminders []calendar.Reminder
}

// SendToOne renders and transmits one email over the already-open session,
// retrying transient failures up to maxAttempts with 1s, 2s, 4s... waits.
// Exactly one EmailLog row is written: sent on success, failed after the
// last attempt. Contact state is mutated only on success.
func (s *Sender) SendToOne(ctx context.Context, account models.EmailAccount, contact models.Contact, tmpl models.EmailTemplate, job *models.Job, overrides map[string]string, maxAttempts int) Outcome {
	if maxAttempts <= 0 {
		maxAttempts = s.cfg.Limits.MaxAttempts
	}
	traceID := uuid.NewString()
	locallog := s.log.With("trace_id", traceID, "contact", contact.Email)

	now := s.now().UTC()
	subject, body := template.Render(&tmpl, &contact, job, s.cfg.Sender.Name, overrides, now)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := s.ch.SendOne(ctx, smtp.Message{
			FromName: s.cfg.Sender.Name,
			From:     account.EmailAddress,
			To:       contact.Email,
			Subject:  subject,
			Body:     body,
			TraceID:  traceID,
		})
		if err == nil {
			return s.recordSuccess(ctx, locallog, contact, tmpl, job, subject, body, traceID)
		}
		lastErr = err
		locallog.Warn("send attempt failed", "attempt", attempt+1, "max_attempts", maxAttempts, "err", err)
		if attempt < maxAttempts-1 {
			backoff := time.Duration(1<<attempt) * time.Second
			locallog.Info("retrying after backoff", "wait", backoff)
			s.sleep(backoff)
		}
	}

	msg := fmt.Sprintf("failed after %d attempts: %v", maxAttempts, lastErr)
	failLog := &models.EmailLog{
		ContactID:    contact.ID,
		TemplateID:   &tmpl.ID,
		JobID:        jobID(job),
		Subject:      subject,
		Body:         body,
		SentAt:       s.now().UTC(),
		Status:       models.StatusFailed,
		ErrorMessage: msg,
		TraceID:      traceID,
	}
	if err := s.st.RecordSendFailure(ctx, failLog); err != nil {
		locallog.Error("recording failed send", "err", err)
	}
	return Outcome{Delivered: false, Message: msg}
}

func (s *Sender) recordSuccess(ctx context.Context, locallog *logging.Logger, contact models.Contact, tmpl models.EmailTemplate, job *models.Job, subject, body, traceID string) Outcome {
	sentAt := s.now().UTC()
	needsFollowup, followupDate := followup.TransitionForSend(&tmpl, sentAt)
	sentLog := &models.EmailLog{
		ContactID:    contact.ID,
		TemplateID:   &tmpl.ID,
		JobID:        jobID(job),
		Subject:      subject,
		Body:         body,
		SentAt:       sentAt,
		Status:       models.StatusSent,
		SMTPResponse: "250 OK",
		TraceID:      traceID,
	}
	if err := s.st.RecordSendSuccess(ctx, sentLog, needsFollowup, followupDate); err != nil {
		locallog.Error("recording sent email", "err", err)
		return Outcome{Delivered: false, Message: fmt.Sprintf("delivered but not recorded: %v", err)}
	}
	locallog.Info("email sent", "subject", subject)

	var reminder *calendar.Reminder
	if days := s.eng.ReminderDays(&tmpl); days > 0 {
		r := calendar.NewReminder(contact.Name, contact.CompanyName, days, sentAt)
		reminder = &r
	}
	return Outcome{Delivered: true, Message: "email sent", Reminder: reminder}
}

// SendToMany runs one campaign: a single session opened up front and always
// closed on exit, contacts processed strictly in the order given, a
// rate-limit sleep between contacts (not after the last), per-item failures
// accumulated rather than aborting the batch. A missing contact id is a
// failure that consumes no send attempt. The provider daily cap truncates
// the batch before it starts.
func (s *Sender) SendToMany(ctx context.Context, contactIDs []int64, tmpl models.EmailTemplate, job *models.Job, overrideFn func(models.Contact) map[string]string, rateLimitSeconds int) (Summary, error) {
	var sum Summary

	account, err := s.st.ActiveAccount(ctx)
	if err != nil {
		return sum, fmt.Errorf("no active email account: %w", err)
	}

	sentToday, err := s.st.CountSentToday(ctx)
	if err != nil {
		return sum, &models.StoreError{Op: "count sends", Err: err}
	}
	if sentToday >= s.cfg.Limits.MaxEmailsPerDay {
		return sum, fmt.Errorf("daily send cap reached: %d", sentToday)
	}
	if capLeft := s.cfg.Limits.MaxEmailsPerDay - sentToday; len(contactIDs) > capLeft {
		s.log.Warn("truncating campaign to daily cap", "requested", len(contactIDs), "cap_left", capLeft)
		contactIDs = contactIDs[:capLeft]
	}

	if rateLimitSeconds < 0 {
		rateLimitSeconds = s.cfg.Limits.RateLimitSeconds
	}

	campaignID := uuid.NewString()
	locallog := s.log.With("campaign_id", campaignID, "template", tmpl.Name)
	locallog.Info("starting campaign", "contacts", len(contactIDs))

	// One session per campaign. A connection failure aborts before any
	// send; zero EmailLog rows are written.
	if err := s.ch.Connect(ctx, account); err != nil {
		return sum, err
	}
	defer func() { _ = s.ch.Disconnect() }()

	for i, id := range contactIDs {
		if err := ctx.Err(); err != nil {
			locallog.Warn("campaign cancelled", "processed", i)
			return sum, err
		}
		contact, err := s.st.GetContact(ctx, id)
		if err != nil {
			sum.Failed++
			if errors.Is(err, models.ErrNotFound) {
				sum.Errors = append(sum.Errors, fmt.Sprintf("contact %d not found", id))
			} else {
				sum.Errors = append(sum.Errors, fmt.Sprintf("contact %d: %v", id, err))
			}
			continue
		}

		var overrides map[string]string
		if overrideFn != nil {
			overrides = overrideFn(contact)
		}
		outcome := s.SendToOne(ctx, account, contact, tmpl, job, overrides, s.cfg.Limits.MaxAttempts)
		if outcome.Delivered {
			sum.Sent++
			if outcome.Reminder != nil {
				sum.Reminders = append(sum.Reminders, *outcome.Reminder)
			}
		} else {
			sum.Failed++
			sum.Errors = append(sum.Errors, fmt.Sprintf("%s <%s>: %s", contact.Name, contact.Email, outcome.Message))
		}

		if i < len(contactIDs)-1 && rateLimitSeconds > 0 {
			s.sleep(time.Duration(rateLimitSeconds) * time.Second)
		}
	}

	locallog.Info("campaign finished", "sent", sum.Sent, "failed", sum.Failed)
	return sum, nil
}

func jobID(job *models.Job) *int64 {
	if job == nil {
		return nil
	}
	return &job.ID
}
