package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DanteAgarwal/Applying-sets/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(st.Close)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return st
}

func mustCreateContact(t *testing.T, st *Store, c models.Contact) models.Contact {
	t.Helper()
	if c.Email == "" {
		c.Email = "test@example.test"
	}
	if c.Name == "" {
		c.Name = "Test Contact"
	}
	if c.CompanyName == "" {
		c.CompanyName = "Test Co"
	}
	if _, err := st.CreateContact(context.Background(), &c); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	return c
}

func TestGetContactNotFound(t *testing.T) {
	st := newTestStore(t)
	_, err := st.GetContact(context.Background(), 999)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("GetContact(999) err = %v, want ErrNotFound", err)
	}
}

func TestTemplateNameUnique(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first := models.EmailTemplate{Name: "Cold Outreach", Subject: "s", Body: "b"}
	if _, err := st.CreateTemplate(ctx, &first); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	dup := models.EmailTemplate{Name: "Cold Outreach", Subject: "s2", Body: "b2"}
	_, err := st.CreateTemplate(ctx, &dup)
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("duplicate name err = %v, want *models.ValidationError", err)
	}
	if verr.Field != "name" {
		t.Errorf("ValidationError.Field = %q, want %q", verr.Field, "name")
	}
}

func TestSaveAccountKeepsSingleActive(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a := models.EmailAccount{EmailAddress: "a@example.test", SMTPServer: "smtp.a.test", SMTPPort: 587}
	if err := st.SaveAccount(ctx, &a); err != nil {
		t.Fatalf("SaveAccount(a): %v", err)
	}
	b := models.EmailAccount{EmailAddress: "b@example.test", SMTPServer: "smtp.b.test", SMTPPort: 465}
	if err := st.SaveAccount(ctx, &b); err != nil {
		t.Fatalf("SaveAccount(b): %v", err)
	}

	active, err := st.ActiveAccount(ctx)
	if err != nil {
		t.Fatalf("ActiveAccount: %v", err)
	}
	if active.EmailAddress != "b@example.test" {
		t.Errorf("active = %q, want b@example.test", active.EmailAddress)
	}

	var activeCount int
	if err := st.db.QueryRow(`SELECT COUNT(*) FROM email_accounts WHERE is_active = 1`).Scan(&activeCount); err != nil {
		t.Fatalf("count active: %v", err)
	}
	if activeCount != 1 {
		t.Errorf("active accounts = %d, want exactly 1", activeCount)
	}

	// Re-activating an existing address updates in place instead of duplicating.
	a.SMTPPort = 2525
	if err := st.SaveAccount(ctx, &a); err != nil {
		t.Fatalf("SaveAccount(a again): %v", err)
	}
	active, err = st.ActiveAccount(ctx)
	if err != nil {
		t.Fatalf("ActiveAccount: %v", err)
	}
	if active.EmailAddress != "a@example.test" || active.SMTPPort != 2525 {
		t.Errorf("active = %q:%d, want a@example.test:2525", active.EmailAddress, active.SMTPPort)
	}
}

func TestRecordSendSuccessIsAtomic(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	c := mustCreateContact(t, st, models.Contact{})
	if err := st.MarkReplied(ctx, c.ID, "", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("seed reply: %v", err)
	}

	sentAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	followup := sentAt.AddDate(0, 0, 3)
	log := &models.EmailLog{
		ContactID: c.ID,
		Subject:   "subject",
		Body:      "body",
		SentAt:    sentAt,
		Status:    models.StatusSent,
		TraceID:   "trace-1",
	}
	if err := st.RecordSendSuccess(ctx, log, true, &followup); err != nil {
		t.Fatalf("RecordSendSuccess: %v", err)
	}

	got, err := st.GetContact(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if got.LastContacted == nil || !got.LastContacted.Equal(sentAt) {
		t.Errorf("last_contacted = %v, want %v", got.LastContacted, sentAt)
	}
	if !got.NeedsFollowup || got.FollowupDate == nil || !got.FollowupDate.Equal(followup) {
		t.Errorf("followup scheduling = (%v, %v), want (true, %v)", got.NeedsFollowup, got.FollowupDate, followup)
	}
	if got.Replied || got.ReplyDate != nil {
		t.Errorf("a new send must reset the reply flag, got replied=%v reply_date=%v", got.Replied, got.ReplyDate)
	}

	logs, err := st.ListEmailLogs(ctx, &c.ID, 10)
	if err != nil {
		t.Fatalf("ListEmailLogs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logs))
	}
	if logs[0].Status != models.StatusSent || logs[0].TraceID != "trace-1" {
		t.Errorf("log = %+v, want sent with trace-1", logs[0])
	}
}

func TestRecordSendFailureLeavesContactUntouched(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	c := mustCreateContact(t, st, models.Contact{})

	log := &models.EmailLog{
		ContactID:    c.ID,
		Subject:      "s",
		Body:         "b",
		SentAt:       time.Now().UTC(),
		Status:       models.StatusFailed,
		ErrorMessage: "failed after 3 attempts: connection reset",
	}
	if err := st.RecordSendFailure(ctx, log); err != nil {
		t.Fatalf("RecordSendFailure: %v", err)
	}

	got, err := st.GetContact(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if got.LastContacted != nil || got.NeedsFollowup {
		t.Errorf("failed send mutated contact: %+v", got)
	}
	logs, err := st.ListEmailLogs(ctx, &c.ID, 10)
	if err != nil {
		t.Fatalf("ListEmailLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != models.StatusFailed {
		t.Fatalf("logs = %+v, want one failed row", logs)
	}
}

func TestMarkRepliedIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	last := time.Now().UTC().AddDate(0, 0, -3)
	fdate := time.Now().UTC()
	c := mustCreateContact(t, st, models.Contact{})
	if err := st.RecordSendSuccess(ctx, &models.EmailLog{
		ContactID: c.ID, Subject: "s", Body: "b", SentAt: last, Status: models.StatusSent,
	}, true, &fdate); err != nil {
		t.Fatalf("seed send: %v", err)
	}

	now := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	if err := st.MarkReplied(ctx, c.ID, "got a reply, scheduling a call", now); err != nil {
		t.Fatalf("MarkReplied: %v", err)
	}
	// Second call must not stamp a new date or duplicate the note.
	if err := st.MarkReplied(ctx, c.ID, "got a reply, scheduling a call", now.Add(time.Hour)); err != nil {
		t.Fatalf("MarkReplied again: %v", err)
	}

	got, err := st.GetContact(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if !got.Replied || got.ReplyDate == nil || !got.ReplyDate.Equal(now) {
		t.Errorf("replied = (%v, %v), want (true, %v)", got.Replied, got.ReplyDate, now)
	}
	if got.NeedsFollowup || got.FollowupDate != nil {
		t.Errorf("reply must clear followup scheduling, got (%v, %v)", got.NeedsFollowup, got.FollowupDate)
	}
	want := "[2026-03-05 14:30] got a reply, scheduling a call"
	if got.Notes != want {
		t.Errorf("notes = %q, want %q", got.Notes, want)
	}
}

func TestMarkRepliedUnknownContact(t *testing.T) {
	st := newTestStore(t)
	err := st.MarkReplied(context.Background(), 42, "", time.Now().UTC())
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPromoteFollowupCandidatesAtMostOnce(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	quiet := mustCreateContact(t, st, models.Contact{Name: "Quiet", Email: "quiet@x.test"})
	recent := mustCreateContact(t, st, models.Contact{Name: "Recent", Email: "recent@x.test"})
	replied := mustCreateContact(t, st, models.Contact{Name: "Replied", Email: "replied@x.test"})
	mustCreateContact(t, st, models.Contact{Name: "Never", Email: "never@x.test"})

	old := now.AddDate(0, 0, -10)
	fresh := now.AddDate(0, 0, -2)
	for _, seed := range []struct {
		id   int64
		when time.Time
	}{{quiet.ID, old}, {recent.ID, fresh}, {replied.ID, old}} {
		if err := st.RecordSendSuccess(ctx, &models.EmailLog{
			ContactID: seed.id, Subject: "s", Body: "b", SentAt: seed.when, Status: models.StatusSent,
		}, false, nil); err != nil {
			t.Fatalf("seed send: %v", err)
		}
	}
	if err := st.MarkReplied(ctx, replied.ID, "", now); err != nil {
		t.Fatalf("seed reply: %v", err)
	}

	cutoff := now.AddDate(0, 0, -7)
	got, err := st.PromoteFollowupCandidates(ctx, cutoff)
	if err != nil {
		t.Fatalf("PromoteFollowupCandidates: %v", err)
	}
	if len(got) != 1 || got[0].ID != quiet.ID {
		t.Fatalf("candidates = %+v, want just the quiet contact", got)
	}
	if !got[0].NeedsFollowup {
		t.Errorf("returned candidate not flagged")
	}

	// The query flagged the row, so an immediate re-run finds nothing.
	again, err := st.PromoteFollowupCandidates(ctx, cutoff)
	if err != nil {
		t.Fatalf("PromoteFollowupCandidates again: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second promotion = %+v, want empty", again)
	}
}

func TestListEmailLogsNewestFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	c := mustCreateContact(t, st, models.Contact{})

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := st.RecordSendFailure(ctx, &models.EmailLog{
			ContactID: c.ID, Subject: "s", Body: "b",
			SentAt: base.Add(time.Duration(i) * time.Hour), Status: models.StatusFailed,
		}); err != nil {
			t.Fatalf("seed log %d: %v", i, err)
		}
	}
	logs, err := st.ListEmailLogs(ctx, nil, 2)
	if err != nil {
		t.Fatalf("ListEmailLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("limit not applied, logs = %d", len(logs))
	}
	if !logs[0].SentAt.After(logs[1].SentAt) {
		t.Errorf("logs not newest-first: %v then %v", logs[0].SentAt, logs[1].SentAt)
	}
}

func TestContactsDueTodayMatchesStoredTimestamps(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	due := mustCreateContact(t, st, models.Contact{Name: "Due", Email: "due@x.test"})
	later := mustCreateContact(t, st, models.Contact{Name: "Later", Email: "later@x.test"})

	today := now
	tomorrow := now.AddDate(0, 0, 1)
	for _, seed := range []struct {
		id   int64
		date time.Time
	}{{due.ID, today}, {later.ID, tomorrow}} {
		d := seed.date
		if err := st.RecordSendSuccess(ctx, &models.EmailLog{
			ContactID: seed.id, Subject: "s", Body: "b", SentAt: now, Status: models.StatusSent,
		}, true, &d); err != nil {
			t.Fatalf("seed send: %v", err)
		}
	}

	// The date match must hold against timestamps as the driver stores
	// them, not against a reformatted copy.
	got, err := st.ContactsDueToday(ctx, now)
	if err != nil {
		t.Fatalf("ContactsDueToday: %v", err)
	}
	if len(got) != 1 || got[0].ID != due.ID {
		t.Fatalf("due today = %+v, want only the contact dated today", got)
	}
}

func TestCountSentToday(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	c := mustCreateContact(t, st, models.Contact{})

	now := time.Now().UTC()
	if err := st.RecordSendSuccess(ctx, &models.EmailLog{
		ContactID: c.ID, Subject: "s", Body: "b", SentAt: now, Status: models.StatusSent,
	}, false, nil); err != nil {
		t.Fatalf("seed today: %v", err)
	}
	if err := st.RecordSendSuccess(ctx, &models.EmailLog{
		ContactID: c.ID, Subject: "s", Body: "b", SentAt: now.AddDate(0, 0, -2), Status: models.StatusSent,
	}, false, nil); err != nil {
		t.Fatalf("seed past: %v", err)
	}
	if err := st.RecordSendFailure(ctx, &models.EmailLog{
		ContactID: c.ID, Subject: "s", Body: "b", SentAt: now, Status: models.StatusFailed,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	n, err := st.CountSentToday(ctx)
	if err != nil {
		t.Fatalf("CountSentToday: %v", err)
	}
	if n != 1 {
		t.Errorf("CountSentToday = %d, want 1 (failed and past sends excluded)", n)
	}
}
