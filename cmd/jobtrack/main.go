package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DanteAgarwal/Applying-sets/internal/calendar"
	"github.com/DanteAgarwal/Applying-sets/internal/config"
	"github.com/DanteAgarwal/Applying-sets/internal/credentials"
	"github.com/DanteAgarwal/Applying-sets/internal/csvimport"
	"github.com/DanteAgarwal/Applying-sets/internal/followup"
	"github.com/DanteAgarwal/Applying-sets/internal/logging"
	"github.com/DanteAgarwal/Applying-sets/internal/models"
	"github.com/DanteAgarwal/Applying-sets/internal/outreach"
	"github.com/DanteAgarwal/Applying-sets/internal/smtp"
	"github.com/DanteAgarwal/Applying-sets/internal/store"
	"github.com/DanteAgarwal/Applying-sets/internal/template"
)

func main() {
	ctx := context.Background()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to config file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `jobtrack - job application outreach tracker

Usage:
  jobtrack [--config config.yaml] <command> [options]

Commands:
  setup-account [--email E --host H --port P]   Save SMTP account + credentials and verify the connection
  add-contact [--name N --email E --company C]  Add a contact
  add-job [--company C --title T --applied D]   Add a job application
  add-template [--name N --subject S --body B]  Create an email template (validated placeholder set)
  import-contacts --file F                      Import contacts from CSV (partial success)
  import-jobs --file F                          Import jobs from CSV (partial success)
  send --template NAME --contacts 1,2,3         Send one template to a list of contacts
  candidates [--days N]                         Flag quiet contacts for follow-up (mutates state!)
  actionable                                    Show due-today / recent-reply / stale buckets
  mark-replied --contact ID [--note TEXT]       Record a reply from a contact
  logs [--contact ID --limit N]                 Show the email send history
  export-reminders --out F                      Export due follow-ups as an .ics calendar

Examples:
  jobtrack setup-account --email you@gmail.com
  jobtrack send --template "Cold Outreach" --contacts 1,2,3
`)
	}

	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Logging.Level)

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Error("db open failed", "err", err)
		os.Exit(1)
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		log.Error("db migration failed", "err", err)
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	switch cmd {
	case "setup-account":
		err = runSetupAccount(ctx, cfg, st)
	case "add-contact":
		err = runAddContact(ctx, st)
	case "add-job":
		err = runAddJob(ctx, st)
	case "add-template":
		err = runAddTemplate(ctx, st)
	case "import-contacts":
		err = runImport(ctx, st, csvimport.Contacts)
	case "import-jobs":
		err = runImport(ctx, st, csvimport.Jobs)
	case "send":
		err = runSend(ctx, cfg, st)
	case "candidates":
		err = runCandidates(ctx, cfg, st)
	case "actionable":
		err = runActionable(ctx, cfg, st)
	case "mark-replied":
		err = runMarkReplied(ctx, cfg, st)
	case "logs":
		err = runLogs(ctx, st)
	case "export-reminders":
		err = runExportReminders(ctx, cfg, st)
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		log.Error("command failed", "cmd", cmd, "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runSetupAccount(ctx context.Context, cfg *config.Config, st *store.Store) error {
	fs := flag.NewFlagSet("setup-account", flag.ContinueOnError)
	var email, host string
	var port int
	fs.StringVar(&email, "email", "", "Account email address")
	fs.StringVar(&host, "host", "smtp.gmail.com", "SMTP server")
	fs.IntVar(&port, "port", 587, "SMTP port")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	if email == "" {
		return &models.ValidationError{Field: "email", Msg: "required"}
	}
	password := os.Getenv("JOBTRACK_SMTP_PASSWORD")
	if password == "" {
		return &models.ValidationError{Field: "password", Msg: "set JOBTRACK_SMTP_PASSWORD (app password) in the environment"}
	}

	creds, err := credentials.NewFileStore(cfg.Credentials.Path)
	if err != nil {
		return err
	}
	if err := creds.Save(email, password); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	account := models.EmailAccount{EmailAddress: email, SMTPServer: host, SMTPPort: port}
	if err := st.SaveAccount(ctx, &account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	// Verify by doing a real handshake, then hang up.
	ch := smtp.NewMailClient(creds)
	if err := ch.Connect(ctx, account); err != nil {
		return err
	}
	_ = ch.Disconnect()
	fmt.Printf("account %s configured and verified\n", email)
	return nil
}

func runAddContact(ctx context.Context, st *store.Store) error {
	fs := flag.NewFlagSet("add-contact", flag.ContinueOnError)
	var name, email, company, ctype, phone, linkedin string
	var jobID int64
	fs.StringVar(&name, "name", "", "Contact name")
	fs.StringVar(&email, "email", "", "Contact email")
	fs.StringVar(&company, "company", "", "Company name")
	fs.StringVar(&ctype, "type", "Other", "Contact type (Recruiter, HR, Hiring Manager, Networking, Other)")
	fs.StringVar(&phone, "phone", "", "Phone number")
	fs.StringVar(&linkedin, "linkedin", "", "LinkedIn URL")
	fs.Int64Var(&jobID, "job", 0, "Linked job id (optional)")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	if name == "" || email == "" || company == "" {
		return &models.ValidationError{Field: "contact", Msg: "name, email and company are required"}
	}
	if !models.ValidContactType(models.ContactType(ctype)) {
		return &models.ValidationError{Field: "type", Msg: fmt.Sprintf("unknown contact type %q", ctype)}
	}
	c := models.Contact{
		Name:        name,
		Email:       email,
		CompanyName: company,
		ContactType: models.ContactType(ctype),
		Phone:       phone,
		LinkedInURL: linkedin,
	}
	if jobID > 0 {
		if _, err := st.GetJob(ctx, jobID); err != nil {
			return err
		}
		c.JobID = &jobID
	}
	id, err := st.CreateContact(ctx, &c)
	if err != nil {
		return err
	}
	fmt.Printf("contact %d added: %s <%s>\n", id, name, email)
	return nil
}

func runAddJob(ctx context.Context, st *store.Store) error {
	fs := flag.NewFlagSet("add-job", flag.ContinueOnError)
	var company, title, applied, location, link, priority string
	fs.StringVar(&company, "company", "", "Company name")
	fs.StringVar(&title, "title", "", "Job title")
	fs.StringVar(&applied, "applied", time.Now().Format("2006-01-02"), "Date applied (YYYY-MM-DD)")
	fs.StringVar(&location, "location", "", "Location")
	fs.StringVar(&link, "link", "", "Job posting URL")
	fs.StringVar(&priority, "priority", "Medium", "Priority (Low, Medium, High)")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	if company == "" || title == "" {
		return &models.ValidationError{Field: "job", Msg: "company and title are required"}
	}
	date, err := time.Parse("2006-01-02", applied)
	if err != nil {
		return &models.ValidationError{Field: "applied", Msg: "must be YYYY-MM-DD"}
	}
	j := models.Job{
		CompanyName: company,
		JobTitle:    title,
		DateApplied: date,
		Location:    location,
		JobLink:     link,
		Priority:    models.JobPriority(priority),
	}
	id, err := st.CreateJob(ctx, &j)
	if err != nil {
		return err
	}
	fmt.Printf("job %d added: %s at %s\n", id, title, company)
	return nil
}

func runAddTemplate(ctx context.Context, st *store.Store) error {
	fs := flag.NewFlagSet("add-template", flag.ContinueOnError)
	var name, subject, body string
	var isFollowup bool
	var days int
	fs.StringVar(&name, "name", "", "Template name (unique)")
	fs.StringVar(&subject, "subject", "", "Subject line")
	fs.StringVar(&body, "body", "", "Email body")
	fs.BoolVar(&isFollowup, "followup", false, "This is a follow-up template")
	fs.IntVar(&days, "days", 0, "Days after the previous email")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	t := models.EmailTemplate{
		Name:              name,
		Subject:           subject,
		Body:              body,
		IsFollowup:        isFollowup,
		DaysAfterPrevious: days,
	}
	if err := template.Validate(&t); err != nil {
		return fmt.Errorf("%w\nallowed variables: %s", err, strings.Join(template.AllowedVars(), ", "))
	}
	id, err := st.CreateTemplate(ctx, &t)
	if err != nil {
		return err
	}
	fmt.Printf("template %d created: %s\n", id, name)
	return nil
}

func runImport(ctx context.Context, st *store.Store, importFn func(context.Context, *store.Store, io.Reader) (csvimport.Result, error)) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	var path string
	fs.StringVar(&path, "file", "", "CSV file to import")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	if path == "" {
		return &models.ValidationError{Field: "file", Msg: "required"}
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := importFn(ctx, st, f)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d row(s)\n", res.Imported)
	for _, e := range res.Errors {
		fmt.Println("  " + e)
	}
	return nil
}

func runCandidates(ctx context.Context, cfg *config.Config, st *store.Store) error {
	fs := flag.NewFlagSet("candidates", flag.ContinueOnError)
	var days int
	fs.IntVar(&days, "days", cfg.Followup.ThresholdDays, "Quiet-days threshold")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	eng := followup.New(st, cfg)
	contacts, err := eng.Candidates(ctx, days)
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		fmt.Println("no new follow-up candidates")
		return nil
	}
	for _, c := range contacts {
		fmt.Printf("%d\t%s <%s>\t%s\tlast contacted %s\n",
			c.ID, c.Name, c.Email, c.CompanyName, c.LastContacted.Format("2006-01-02"))
	}
	fmt.Printf("%d contact(s) flagged for follow-up\n", len(contacts))
	return nil
}

func runActionable(ctx context.Context, cfg *config.Config, st *store.Store) error {
	eng := followup.New(st, cfg)
	items, err := eng.ActionableItems(ctx, time.Now())
	if err != nil {
		return err
	}
	printBucket := func(title string, contacts []models.Contact) {
		fmt.Printf("%s (%d)\n", title, len(contacts))
		for _, c := range contacts {
			fmt.Printf("  %d\t%s <%s>\t%s\n", c.ID, c.Name, c.Email, c.CompanyName)
		}
	}
	printBucket("Due today", items.DueToday)
	printBucket("Recent replies", items.RecentReplies)
	printBucket("Stale", items.Stale)
	return nil
}

func runMarkReplied(ctx context.Context, cfg *config.Config, st *store.Store) error {
	fs := flag.NewFlagSet("mark-replied", flag.ContinueOnError)
	var contactID int64
	var note string
	fs.Int64Var(&contactID, "contact", 0, "Contact id")
	fs.StringVar(&note, "note", "", "Optional note to append")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	if contactID <= 0 {
		return &models.ValidationError{Field: "contact", Msg: "required"}
	}
	eng := followup.New(st, cfg)
	if err := eng.MarkReplied(ctx, contactID, note); err != nil {
		return err
	}
	fmt.Printf("contact %d marked as replied\n", contactID)
	return nil
}

func runLogs(ctx context.Context, st *store.Store) error {
	fs := flag.NewFlagSet("logs", flag.ContinueOnError)
	var contactID int64
	var limit int
	fs.Int64Var(&contactID, "contact", 0, "Filter by contact id")
	fs.IntVar(&limit, "limit", 50, "Max rows")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	var filter *int64
	if contactID > 0 {
		filter = &contactID
	}
	logs, err := st.ListEmailLogs(ctx, filter, limit)
	if err != nil {
		return err
	}
	for _, l := range logs {
		line := fmt.Sprintf("%s\t%s\tcontact %d\t%s", l.SentAt.Format("2006-01-02 15:04"), l.Status, l.ContactID, l.Subject)
		if l.ErrorMessage != "" {
			line += "\t" + l.ErrorMessage
		}
		fmt.Println(line)
	}
	return nil
}

func runSend(ctx context.Context, cfg *config.Config, st *store.Store) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	var tmplName, contactList, icsPath string
	var jobID int64
	var rate int
	fs.StringVar(&tmplName, "template", "", "Template name")
	fs.StringVar(&contactList, "contacts", "", "Comma-separated contact ids")
	fs.Int64Var(&jobID, "job", 0, "Job id for {job_title}/{company} context (optional)")
	fs.IntVar(&rate, "rate", -1, "Seconds to wait between sends (default from config)")
	fs.StringVar(&icsPath, "ics", "", "Write follow-up reminders to this .ics file")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	if tmplName == "" || contactList == "" {
		return &models.ValidationError{Field: "send", Msg: "--template and --contacts are required"}
	}

	if err := seedTemplatesIfEmpty(ctx, st); err != nil {
		return err
	}
	tmpl, err := st.GetTemplateByName(ctx, tmplName)
	if err != nil {
		return err
	}

	var contactIDs []int64
	for _, part := range strings.Split(contactList, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return &models.ValidationError{Field: "contacts", Msg: fmt.Sprintf("bad contact id %q", part)}
		}
		contactIDs = append(contactIDs, id)
	}

	var job *models.Job
	if jobID > 0 {
		j, err := st.GetJob(ctx, jobID)
		if err != nil {
			return err
		}
		job = &j
	}

	creds, err := credentials.NewFileStore(cfg.Credentials.Path)
	if err != nil {
		return err
	}
	eng := followup.New(st, cfg)
	sender := outreach.New(st, eng, smtp.NewMailClient(creds), cfg)

	sum, err := sender.SendToMany(ctx, contactIDs, tmpl, job, nil, rate)
	if err != nil {
		return err
	}
	fmt.Printf("sent: %d, failed: %d\n", sum.Sent, sum.Failed)
	for i, e := range sum.Errors {
		if i >= 5 {
			fmt.Printf("... and %d more\n", len(sum.Errors)-i)
			break
		}
		fmt.Println("  " + e)
	}
	if icsPath != "" && len(sum.Reminders) > 0 {
		if err := os.WriteFile(icsPath, []byte(calendar.ExportICS(sum.Reminders)), 0o644); err != nil {
			return fmt.Errorf("write ics: %w", err)
		}
		fmt.Printf("%d reminder(s) written to %s\n", len(sum.Reminders), icsPath)
	}
	return nil
}

func runExportReminders(ctx context.Context, cfg *config.Config, st *store.Store) error {
	fs := flag.NewFlagSet("export-reminders", flag.ContinueOnError)
	var out string
	fs.StringVar(&out, "out", "followups.ics", "Output .ics path")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	eng := followup.New(st, cfg)
	items, err := eng.ActionableItems(ctx, time.Now())
	if err != nil {
		return err
	}
	var reminders []calendar.Reminder
	now := time.Now()
	for _, c := range items.DueToday {
		reminders = append(reminders, calendar.NewReminder(c.Name, c.CompanyName, 0, now))
	}
	for _, c := range items.Stale {
		reminders = append(reminders, calendar.NewReminder(c.Name, c.CompanyName, 1, now))
	}
	if len(reminders) == 0 {
		fmt.Println("nothing due for export")
		return nil
	}
	if err := os.WriteFile(out, []byte(calendar.ExportICS(reminders)), 0o644); err != nil {
		return fmt.Errorf("write ics: %w", err)
	}
	fmt.Printf("%d reminder(s) written to %s\n", len(reminders), out)
	return nil
}

func seedTemplatesIfEmpty(ctx context.Context, st *store.Store) error {
	existing, err := st.ListTemplates(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, t := range template.Defaults() {
		t := t
		if err := template.Validate(&t); err != nil {
			return err
		}
		if _, err := st.CreateTemplate(ctx, &t); err != nil {
			return err
		}
	}
	return nil
}
