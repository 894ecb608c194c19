// Package template validates and renders the placeholder vocabulary used in
// outreach email templates. Substitution is a single literal pass: values
// that themselves contain a placeholder token are not re-expanded.
package template

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/DanteAgarwal/Applying-sets/internal/models"
)

// The closed placeholder set. Anything else wrapped in braces is a
// validation error at template create/edit time, never silently ignored.
var allowedVars = map[string]bool{
	"{your_name}":            true,
	"{today}":                true,
	"{name}":                 true,
	"{first_name}":           true,
	"{company}":              true,
	"{job_title}":            true,
	"{contact_role}":         true,
	"{phone}":                true,
	"{linkedin}":             true,
	"{recipient_name}":       true,
	"{recipient_first_name}": true,
	"{recipient_role}":       true,
	"{referral_source}":      true,
	"{mutual_connection}":    true,
	"{recent_news}":          true,
	"{specific_skill}":       true,
	"{personal_note}":        true,
}

var varPattern = regexp.MustCompile(`\{[^{}]+\}`)

// AllowedVars returns the placeholder vocabulary, sorted, for help text.
func AllowedVars() []string {
	out := make([]string, 0, len(allowedVars))
	for v := range allowedVars {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Validate checks a template's subject and body against the allowed
// placeholder set and returns a ValidationError naming the unknown tokens.
func Validate(t *models.EmailTemplate) error {
	var unknown []string
	seen := map[string]bool{}
	for _, tok := range varPattern.FindAllString(t.Subject+" "+t.Body, -1) {
		if !allowedVars[tok] && !seen[tok] {
			seen[tok] = true
			unknown = append(unknown, tok)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &models.ValidationError{
			Field: "template",
			Msg:   "unknown variables: " + strings.Join(unknown, ", "),
		}
	}
	if strings.TrimSpace(t.Name) == "" {
		return &models.ValidationError{Field: "name", Msg: "template name is required"}
	}
	if strings.TrimSpace(t.Subject) == "" {
		return &models.ValidationError{Field: "subject", Msg: "subject is required"}
	}
	if strings.TrimSpace(t.Body) == "" {
		return &models.ValidationError{Field: "body", Msg: "body is required"}
	}
	if t.DaysAfterPrevious < 0 {
		return &models.ValidationError{Field: "days_after_previous", Msg: "must be >= 0"}
	}
	return nil
}

// Render produces the (subject, body) pair for one send. Overrides take
// precedence over the base context for the same key. Pure function of its
// inputs; state mutation happens elsewhere.
func Render(t *models.EmailTemplate, contact *models.Contact, job *models.Job, senderName string, overrides map[string]string, now time.Time) (string, string) {
	ctx := baseContext(contact, job, senderName, now)
	for k, v := range overrides {
		ctx[k] = v
	}
	pairs := make([]string, 0, len(ctx)*2)
	for k, v := range ctx {
		pairs = append(pairs, k, v)
	}
	r := strings.NewReplacer(pairs...)
	return r.Replace(t.Subject), r.Replace(t.Body)
}

func baseContext(contact *models.Contact, job *models.Job, senderName string, now time.Time) map[string]string {
	name := contact.Name
	if name == "" {
		name = "Hiring Team"
	}
	first := firstName(contact.Name)

	company := contact.CompanyName
	if company == "" && job != nil {
		company = job.CompanyName
	}
	jobTitle := ""
	if job != nil {
		jobTitle = job.JobTitle
	}
	role := string(contact.ContactType)
	if role == "" {
		role = "hiring manager"
	}
	phone := contact.Phone
	if phone == "" {
		phone = "[phone not available]"
	}
	linkedin := contact.LinkedInURL
	if linkedin == "" {
		linkedin = "[LinkedIn not provided]"
	}

	return map[string]string{
		"{your_name}":    senderName,
		"{today}":        now.Format("January 2, 2006"),
		"{name}":         name,
		"{first_name}":   first,
		"{company}":      company,
		"{job_title}":    jobTitle,
		"{contact_role}": role,
		"{phone}":        phone,
		"{linkedin}":     linkedin,
	}
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}
