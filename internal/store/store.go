package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/DanteAgarwal/Applying-sets/internal/models"
)

type Store struct{ db *sql.DB }

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() { _ = s.db.Close() }

func (s *Store) Migrate(ctx context.Context) error {
	stmt := `
CREATE TABLE IF NOT EXISTS jobs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date_applied DATETIME NOT NULL,
	company_name TEXT NOT NULL,
	job_title TEXT NOT NULL,
	location TEXT DEFAULT '',
	job_link TEXT UNIQUE,
	status TEXT NOT NULL DEFAULT 'Applied',
	follow_up_date DATETIME,
	interview_date DATETIME,
	notes TEXT DEFAULT '',
	priority TEXT NOT NULL DEFAULT 'Medium',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	company_name TEXT NOT NULL,
	job_id INTEGER REFERENCES jobs(id) ON DELETE SET NULL,
	contact_type TEXT NOT NULL DEFAULT 'Other',
	phone TEXT DEFAULT '',
	linkedin_url TEXT DEFAULT '',
	last_contacted DATETIME,
	needs_followup INTEGER NOT NULL DEFAULT 0,
	followup_date DATETIME,
	replied INTEGER NOT NULL DEFAULT 0,
	reply_date DATETIME,
	notes TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS email_templates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	subject TEXT NOT NULL,
	body TEXT NOT NULL,
	is_followup INTEGER NOT NULL DEFAULT 0,
	days_after_previous INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS email_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
	template_id INTEGER REFERENCES email_templates(id) ON DELETE SET NULL,
	job_id INTEGER REFERENCES jobs(id) ON DELETE SET NULL,
	subject TEXT NOT NULL,
	body TEXT NOT NULL,
	sent_at DATETIME NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT DEFAULT '',
	smtp_response TEXT DEFAULT '',
	trace_id TEXT DEFAULT ''
);
CREATE TABLE IF NOT EXISTS email_accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email_address TEXT NOT NULL UNIQUE,
	smtp_server TEXT NOT NULL DEFAULT 'smtp.gmail.com',
	smtp_port INTEGER NOT NULL DEFAULT 587,
	is_active INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contacts_followup ON contacts(needs_followup, followup_date);
CREATE INDEX IF NOT EXISTS idx_contacts_last_contacted ON contacts(last_contacted);
CREATE INDEX IF NOT EXISTS idx_email_logs_contact ON email_logs(contact_id, sent_at);
CREATE UNIQUE INDEX IF NOT EXISTS idx_email_accounts_single_active ON email_accounts(is_active) WHERE is_active = 1;
`
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}

// ---------- contacts ----------

func (s *Store) CreateContact(ctx context.Context, c *models.Contact) (int64, error) {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.ContactType == "" {
		c.ContactType = models.ContactOther
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO contacts
		(name, email, company_name, job_id, contact_type, phone, linkedin_url, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Email, c.CompanyName, c.JobID, string(c.ContactType), c.Phone, c.LinkedInURL, c.Notes, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert contact: %w", err)
	}
	id, _ := res.LastInsertId()
	c.ID = id
	return id, nil
}

const contactCols = `id, name, email, company_name, job_id, contact_type, phone, linkedin_url,
	last_contacted, needs_followup, followup_date, replied, reply_date, notes, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (models.Contact, error) {
	var c models.Contact
	var ctype string
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.CompanyName, &c.JobID, &ctype, &c.Phone, &c.LinkedInURL,
		&c.LastContacted, &c.NeedsFollowup, &c.FollowupDate, &c.Replied, &c.ReplyDate, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	c.ContactType = models.ContactType(ctype)
	return c, err
}

func (s *Store) GetContact(ctx context.Context, id int64) (models.Contact, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contactCols+` FROM contacts WHERE id = ?`, id)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("contact %d: %w", id, models.ErrNotFound)
	}
	return c, err
}

func (s *Store) ListContacts(ctx context.Context) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+contactCols+` FROM contacts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("contact %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// ---------- jobs ----------

func (s *Store) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	if j.Status == "" {
		j.Status = models.JobApplied
	}
	if j.Priority == "" {
		j.Priority = models.PriorityMedium
	}
	var link any
	if j.JobLink != "" {
		link = j.JobLink
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO jobs
		(date_applied, company_name, job_title, location, job_link, status, follow_up_date, interview_date, notes, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.DateApplied, j.CompanyName, j.JobTitle, j.Location, link, string(j.Status),
		j.FollowUpDate, j.InterviewDate, j.Notes, string(j.Priority), j.CreatedAt, j.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, &models.ValidationError{Field: "job_link", Msg: "a job with this link already exists"}
		}
		return 0, fmt.Errorf("insert job: %w", err)
	}
	id, _ := res.LastInsertId()
	j.ID = id
	return id, nil
}

func (s *Store) GetJob(ctx context.Context, id int64) (models.Job, error) {
	var j models.Job
	var status, priority string
	var link sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT id, date_applied, company_name, job_title, location, job_link,
		status, follow_up_date, interview_date, notes, priority, created_at, updated_at
		FROM jobs WHERE id = ?`, id).Scan(
		&j.ID, &j.DateApplied, &j.CompanyName, &j.JobTitle, &j.Location, &link,
		&status, &j.FollowUpDate, &j.InterviewDate, &j.Notes, &priority, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return j, fmt.Errorf("job %d: %w", id, models.ErrNotFound)
	}
	j.JobLink = link.String
	j.Status = models.JobStatus(status)
	j.Priority = models.JobPriority(priority)
	return j, err
}

// ---------- templates ----------

func (s *Store) CreateTemplate(ctx context.Context, t *models.EmailTemplate) (int64, error) {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	res, err := s.db.ExecContext(ctx, `INSERT INTO email_templates
		(name, subject, body, is_followup, days_after_previous, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.Subject, t.Body, t.IsFollowup, t.DaysAfterPrevious, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, &models.ValidationError{Field: "name", Msg: fmt.Sprintf("template %q already exists", t.Name)}
		}
		return 0, fmt.Errorf("insert template: %w", err)
	}
	id, _ := res.LastInsertId()
	t.ID = id
	return id, nil
}

func (s *Store) GetTemplate(ctx context.Context, id int64) (models.EmailTemplate, error) {
	var t models.EmailTemplate
	err := s.db.QueryRowContext(ctx, `SELECT id, name, subject, body, is_followup, days_after_previous, created_at, updated_at
		FROM email_templates WHERE id = ?`, id).Scan(
		&t.ID, &t.Name, &t.Subject, &t.Body, &t.IsFollowup, &t.DaysAfterPrevious, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("template %d: %w", id, models.ErrNotFound)
	}
	return t, err
}

func (s *Store) GetTemplateByName(ctx context.Context, name string) (models.EmailTemplate, error) {
	var t models.EmailTemplate
	err := s.db.QueryRowContext(ctx, `SELECT id, name, subject, body, is_followup, days_after_previous, created_at, updated_at
		FROM email_templates WHERE name = ?`, name).Scan(
		&t.ID, &t.Name, &t.Subject, &t.Body, &t.IsFollowup, &t.DaysAfterPrevious, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("template %q: %w", name, models.ErrNotFound)
	}
	return t, err
}

func (s *Store) ListTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, subject, body, is_followup, days_after_previous, created_at, updated_at
		FROM email_templates ORDER BY is_followup, days_after_previous, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.EmailTemplate
	for rows.Next() {
		var t models.EmailTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.IsFollowup, &t.DaysAfterPrevious, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTemplate(ctx context.Context, t *models.EmailTemplate) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `UPDATE email_templates
		SET name = ?, subject = ?, body = ?, is_followup = ?, days_after_previous = ?, updated_at = ?
		WHERE id = ?`,
		t.Name, t.Subject, t.Body, t.IsFollowup, t.DaysAfterPrevious, t.UpdatedAt, t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &models.ValidationError{Field: "name", Msg: fmt.Sprintf("template %q already exists", t.Name)}
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %d: %w", t.ID, models.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteTemplate(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM email_templates WHERE id = ?`, id)
	return err
}

// ---------- accounts ----------

// SaveAccount upserts the account and makes it the single active one.
// Deactivation of the others and activation of this one happen in one
// transaction; the partial unique index backstops the invariant.
func (s *Store) SaveAccount(ctx context.Context, a *models.EmailAccount) error {
	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `UPDATE email_accounts SET is_active = 0, updated_at = ? WHERE is_active = 1`, now); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO email_accounts (email_address, smtp_server, smtp_port, is_active, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(email_address) DO UPDATE SET
		smtp_server = excluded.smtp_server,
		smtp_port = excluded.smtp_port,
		is_active = 1,
		updated_at = excluded.updated_at`,
		a.EmailAddress, a.SMTPServer, a.SMTPPort, now, now); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ActiveAccount(ctx context.Context) (models.EmailAccount, error) {
	var a models.EmailAccount
	err := s.db.QueryRowContext(ctx, `SELECT id, email_address, smtp_server, smtp_port, is_active, created_at, updated_at
		FROM email_accounts WHERE is_active = 1`).Scan(
		&a.ID, &a.EmailAddress, &a.SMTPServer, &a.SMTPPort, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, fmt.Errorf("active email account: %w", models.ErrNotFound)
	}
	return a, err
}

// ---------- email logs ----------

func (s *Store) ListEmailLogs(ctx context.Context, contactID *int64, limit int) ([]models.EmailLog, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, contact_id, template_id, job_id, subject, body, sent_at, status, error_message, smtp_response, trace_id
		FROM email_logs`
	args := []any{}
	if contactID != nil {
		q += ` WHERE contact_id = ?`
		args = append(args, *contactID)
	}
	q += ` ORDER BY sent_at DESC, id DESC LIMIT ?`
	args = append(args, limit)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.EmailLog
	for rows.Next() {
		var l models.EmailLog
		var status string
		if err := rows.Scan(&l.ID, &l.ContactID, &l.TemplateID, &l.JobID, &l.Subject, &l.Body, &l.SentAt, &status, &l.ErrorMessage, &l.SMTPResponse, &l.TraceID); err != nil {
			return nil, err
		}
		l.Status = models.SendStatus(status)
		out = append(out, l)
	}
	return out, rows.Err()
}

// CountSentToday counts sent logs stamped within the local calendar day,
// for the provider-imposed daily cap. Bounds are computed at local midnight
// and bound as UTC instants to match the stored timestamps.
func (s *Store) CountSentToday(ctx context.Context) (int, error) {
	now := time.Now()
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	var c int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_logs
		WHERE status = 'sent' AND sent_at >= ? AND sent_at < ?`,
		start.UTC(), end.UTC()).Scan(&c)
	return c, err
}

// insertEmailLog is shared by the transactional send-recording helpers.
func insertEmailLog(ctx context.Context, tx *sql.Tx, l *models.EmailLog) error {
	res, err := tx.ExecContext(ctx, `INSERT INTO email_logs
		(contact_id, template_id, job_id, subject, body, sent_at, status, error_message, smtp_response, trace_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ContactID, l.TemplateID, l.JobID, l.Subject, l.Body, l.SentAt, string(l.Status), l.ErrorMessage, l.SMTPResponse, l.TraceID)
	if err != nil {
		return err
	}
	l.ID, _ = res.LastInsertId()
	return nil
}

// RecordSendSuccess writes the sent EmailLog and applies the contact state
// transition in a single transaction, so needs_followup and followup_date
// can never disagree.
func (s *Store) RecordSendSuccess(ctx context.Context, log *models.EmailLog, needsFollowup bool, followupDate *time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &models.StoreError{Op: "record send", Err: err}
	}
	defer func() { _ = tx.Rollback() }()
	if err := insertEmailLog(ctx, tx, log); err != nil {
		return &models.StoreError{Op: "record send", Err: err}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE contacts
		SET last_contacted = ?, replied = 0, reply_date = NULL, needs_followup = ?, followup_date = ?, updated_at = ?
		WHERE id = ?`,
		log.SentAt, needsFollowup, followupDate, log.SentAt, log.ContactID); err != nil {
		return &models.StoreError{Op: "record send", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &models.StoreError{Op: "record send", Err: err}
	}
	return nil
}

// RecordSendFailure writes the single failed EmailLog for a send that
// exhausted its attempts. Contact state is left untouched.
func (s *Store) RecordSendFailure(ctx context.Context, log *models.EmailLog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &models.StoreError{Op: "record failure", Err: err}
	}
	defer func() { _ = tx.Rollback() }()
	if err := insertEmailLog(ctx, tx, log); err != nil {
		return &models.StoreError{Op: "record failure", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &models.StoreError{Op: "record failure", Err: err}
	}
	return nil
}

// MarkReplied sets replied/reply_date, clears needs_followup, and appends
// the note with a timestamp prefix. Calling it again on an already-replied
// contact is a no-op, which keeps the note append from duplicating.
func (s *Store) MarkReplied(ctx context.Context, id int64, note string, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &models.StoreError{Op: "mark replied", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	var replied bool
	var notes string
	err = tx.QueryRowContext(ctx, `SELECT replied, notes FROM contacts WHERE id = ?`, id).Scan(&replied, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("contact %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return &models.StoreError{Op: "mark replied", Err: err}
	}
	if replied {
		return nil
	}
	if note != "" {
		if notes != "" {
			notes += "\n"
		}
		notes += fmt.Sprintf("[%s] %s", now.Format("2006-01-02 15:04"), note)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE contacts
		SET replied = 1, reply_date = ?, needs_followup = 0, followup_date = NULL, notes = ?, updated_at = ?
		WHERE id = ?`, now, notes, now, id); err != nil {
		return &models.StoreError{Op: "mark replied", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &models.StoreError{Op: "mark replied", Err: err}
	}
	return nil
}

// PromoteFollowupCandidates selects contacts that went quiet (contacted on
// or before cutoff, not flagged, not replied) and flags them in the same
// transaction. A second immediate call returns nothing: the flag is now set.
func (s *Store) PromoteFollowupCandidates(ctx context.Context, cutoff time.Time) ([]models.Contact, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &models.StoreError{Op: "promote candidates", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT `+contactCols+` FROM contacts
		WHERE last_contacted IS NOT NULL
		  AND last_contacted <= ?
		  AND needs_followup = 0
		  AND replied = 0
		ORDER BY last_contacted`, cutoff)
	if err != nil {
		return nil, &models.StoreError{Op: "promote candidates", Err: err}
	}
	var out []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			rows.Close()
			return nil, &models.StoreError{Op: "promote candidates", Err: err}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, &models.StoreError{Op: "promote candidates", Err: err}
	}
	rows.Close()

	now := time.Now().UTC()
	for i := range out {
		if _, err := tx.ExecContext(ctx, `UPDATE contacts SET needs_followup = 1, updated_at = ? WHERE id = ?`, now, out[i].ID); err != nil {
			return nil, &models.StoreError{Op: "promote candidates", Err: err}
		}
		out[i].NeedsFollowup = true
	}
	if err := tx.Commit(); err != nil {
		return nil, &models.StoreError{Op: "promote candidates", Err: err}
	}
	return out, nil
}

// ContactsDueToday: needs_followup set, followup_date is today, not replied.
// The day is matched as a half-open range of bound timestamps; SQLite's date
// functions cannot parse the driver's time encoding.
func (s *Store) ContactsDueToday(ctx context.Context, today time.Time) ([]models.Contact, error) {
	start, end := dayBounds(today)
	return s.queryContacts(ctx, `SELECT `+contactCols+` FROM contacts
		WHERE needs_followup = 1 AND replied = 0
		  AND followup_date >= ? AND followup_date < ?
		ORDER BY id`, start, end)
}

// dayBounds returns the UTC half-open interval [midnight, next midnight)
// containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// ContactsRecentlyReplied: replied with a reply_date on or after cutoff.
func (s *Store) ContactsRecentlyReplied(ctx context.Context, cutoff time.Time) ([]models.Contact, error) {
	return s.queryContacts(ctx, `SELECT `+contactCols+` FROM contacts
		WHERE replied = 1 AND reply_date >= ?
		ORDER BY reply_date DESC`, cutoff)
}

// ContactsStale: contacted before cutoff, flagged for follow-up, no reply.
func (s *Store) ContactsStale(ctx context.Context, cutoff time.Time) ([]models.Contact, error) {
	return s.queryContacts(ctx, `SELECT `+contactCols+` FROM contacts
		WHERE last_contacted IS NOT NULL AND last_contacted < ?
		  AND replied = 0 AND needs_followup = 1
		ORDER BY last_contacted`, cutoff)
}

func (s *Store) queryContacts(ctx context.Context, q string, args ...any) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
