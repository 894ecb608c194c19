// Package followup governs each contact's outreach lifecycle: the derived
// contact state, the transitions applied on sends and replies, the
// at-most-once promotion of quiet contacts into the follow-up queue, and the
// actionable-items triage used by dashboards.
package followup

import (
	"context"
	"time"

	"github.com/DanteAgarwal/Applying-sets/internal/config"
	"github.com/DanteAgarwal/Applying-sets/internal/logging"
	"github.com/DanteAgarwal/Applying-sets/internal/models"
	"github.com/DanteAgarwal/Applying-sets/internal/store"
)

// State is derived from stored contact fields, never stored itself.
type State string

const (
	StateNew               State = "NEW"
	StateAwaitingReply     State = "AWAITING_REPLY"
	StateFollowupDue       State = "FOLLOWUP_DUE"
	StateFollowupScheduled State = "FOLLOWUP_SCHEDULED"
	StateStale             State = "STALE"
	StateReplied           State = "REPLIED"
)

type Engine struct {
	st  *store.Store
	cfg *config.Config
	log *logging.Logger
}

func New(st *store.Store, cfg *config.Config) *Engine {
	return &Engine{st: st, cfg: cfg, log: logging.New(cfg.Logging.Level).With("module", "followup")}
}

// StateOf derives the lifecycle state of a contact at the given instant.
// Replied is terminal until a new send resets it; a scheduled follow-up
// outranks staleness.
func (e *Engine) StateOf(c *models.Contact, now time.Time) State {
	if c.Replied {
		return StateReplied
	}
	if c.LastContacted == nil {
		return StateNew
	}
	if c.NeedsFollowup && c.FollowupDate != nil {
		if !dateOf(*c.FollowupDate).After(dateOf(now)) {
			return StateFollowupDue
		}
		return StateFollowupScheduled
	}
	if now.Sub(*c.LastContacted) > time.Duration(e.cfg.Followup.StaleDays)*24*time.Hour {
		return StateStale
	}
	return StateAwaitingReply
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Candidates returns contacts who have gone quiet for thresholdDays and are
// not already flagged, and flags each one needs_followup as a side effect of
// the same transaction. Calling it twice in a row without an intervening
// send or reply yields an empty second result: the promotion is at-most-once.
func (e *Engine) Candidates(ctx context.Context, thresholdDays int) ([]models.Contact, error) {
	if thresholdDays <= 0 {
		thresholdDays = e.cfg.Followup.ThresholdDays
	}
	cutoff := time.Now().UTC().Add(-time.Duration(thresholdDays) * 24 * time.Hour)
	contacts, err := e.st.PromoteFollowupCandidates(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	e.log.Info("promoted followup candidates", "count", len(contacts), "threshold_days", thresholdDays)
	return contacts, nil
}

// Actionable holds the three triage buckets. They are computed from
// independent predicates; a contact may legitimately appear in more than one.
type Actionable struct {
	DueToday      []models.Contact
	RecentReplies []models.Contact
	Stale         []models.Contact
}

// ActionableItems computes the dashboard triage at the given instant:
// follow-ups due today, replies within the recent-reply window, and flagged
// contacts whose last touch is older than the staleness threshold.
func (e *Engine) ActionableItems(ctx context.Context, now time.Time) (Actionable, error) {
	var a Actionable
	var err error
	if a.DueToday, err = e.st.ContactsDueToday(ctx, now.UTC()); err != nil {
		return a, err
	}
	replyCutoff := now.UTC().Add(-time.Duration(e.cfg.Followup.RecentReplyDays) * 24 * time.Hour)
	if a.RecentReplies, err = e.st.ContactsRecentlyReplied(ctx, replyCutoff); err != nil {
		return a, err
	}
	staleCutoff := now.UTC().Add(-time.Duration(e.cfg.Followup.StaleDays) * 24 * time.Hour)
	if a.Stale, err = e.st.ContactsStale(ctx, staleCutoff); err != nil {
		return a, err
	}
	return a, nil
}

// MarkReplied records a reply: replied set, reply_date stamped, follow-up
// scheduling cleared, optional note appended with a timestamp prefix.
// Idempotent on an already-replied contact.
func (e *Engine) MarkReplied(ctx context.Context, contactID int64, note string) error {
	if err := e.st.MarkReplied(ctx, contactID, note, time.Now().UTC()); err != nil {
		return err
	}
	e.log.Info("contact marked as replied", "contact_id", contactID)
	return nil
}

// TransitionForSend computes the contact state change a successful send with
// this template implies. A follow-up template schedules the next touch; a
// cold template resets the clock and clears any prior scheduling.
func TransitionForSend(t *models.EmailTemplate, now time.Time) (needsFollowup bool, followupDate *time.Time) {
	if t.IsFollowup && t.DaysAfterPrevious > 0 {
		d := dateOf(now).AddDate(0, 0, t.DaysAfterPrevious)
		return true, &d
	}
	return false, nil
}

// ReminderDays returns how many days out an advisory reminder should be
// dated for this template, or 0 when no reminder applies. Non-follow-up
// templates that still signal a delay fall back to the configured default.
func (e *Engine) ReminderDays(t *models.EmailTemplate) int {
	if !t.IsFollowup && t.DaysAfterPrevious == 0 {
		return 0
	}
	if t.IsFollowup {
		return t.DaysAfterPrevious
	}
	return e.cfg.Followup.DefaultReminderDays
}
