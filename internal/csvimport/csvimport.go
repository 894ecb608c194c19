// Package csvimport loads contacts and jobs from CSV files. Each row is
// validated on its own: a bad row becomes an error string and the import
// continues, so a single typo never loses a whole sheet.
package csvimport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/DanteAgarwal/Applying-sets/internal/models"
	"github.com/DanteAgarwal/Applying-sets/internal/store"
)

// Result summarizes a partial-success import.
type Result struct {
	Imported int
	Errors   []string
}

var contactRequired = []string{"name", "email", "company_name"}
var jobRequired = []string{"company_name", "job_title", "date_applied"}

func headerIndex(header []string, required []string) (map[string]int, error) {
	idx := map[string]int{}
	for i, col := range header {
		idx[strings.TrimSpace(strings.ToLower(col))] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &models.ValidationError{
			Field: "csv",
			Msg:   "missing required columns: " + strings.Join(missing, ", "),
		}
	}
	return idx, nil
}

func field(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Contacts reads contact rows from r and inserts the valid ones.
// Required columns: name, email, company_name. Optional: contact_type,
// phone, linkedin_url.
func Contacts(ctx context.Context, st *store.Store, r io.Reader) (Result, error) {
	var res Result
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return res, fmt.Errorf("read csv header: %w", err)
	}
	idx, err := headerIndex(header, contactRequired)
	if err != nil {
		return res, err
	}

	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		c := models.Contact{
			Name:        field(record, idx, "name"),
			Email:       field(record, idx, "email"),
			CompanyName: field(record, idx, "company_name"),
			ContactType: models.ContactType(field(record, idx, "contact_type")),
			Phone:       field(record, idx, "phone"),
			LinkedInURL: field(record, idx, "linkedin_url"),
		}
		if c.ContactType == "" {
			c.ContactType = models.ContactOther
		}
		if c.Name == "" || c.Email == "" || c.CompanyName == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: name, email and company_name are required", row))
			continue
		}
		if !models.ValidContactType(c.ContactType) {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: unknown contact_type %q", row, c.ContactType))
			continue
		}
		if _, err := st.CreateContact(ctx, &c); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		res.Imported++
	}
	return res, nil
}

// Jobs reads job rows from r and inserts the valid ones. Required columns:
// company_name, job_title, date_applied (YYYY-MM-DD). Optional: status,
// location, job_link, notes, priority.
func Jobs(ctx context.Context, st *store.Store, r io.Reader) (Result, error) {
	var res Result
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return res, fmt.Errorf("read csv header: %w", err)
	}
	idx, err := headerIndex(header, jobRequired)
	if err != nil {
		return res, err
	}

	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		company := field(record, idx, "company_name")
		title := field(record, idx, "job_title")
		applied := field(record, idx, "date_applied")
		if company == "" || title == "" || applied == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: company_name, job_title and date_applied are required", row))
			continue
		}
		date, err := time.Parse("2006-01-02", applied)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: date_applied %q is not YYYY-MM-DD", row, applied))
			continue
		}
		j := models.Job{
			CompanyName: company,
			JobTitle:    title,
			DateApplied: date,
			Location:    field(record, idx, "location"),
			JobLink:     field(record, idx, "job_link"),
			Notes:       field(record, idx, "notes"),
			Status:      models.JobStatus(field(record, idx, "status")),
			Priority:    models.JobPriority(field(record, idx, "priority")),
		}
		if _, err := st.CreateJob(ctx, &j); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		res.Imported++
	}
	return res, nil
}
