package csvimport

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DanteAgarwal/Applying-sets/internal/models"
	"github.com/DanteAgarwal/Applying-sets/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(st.Close)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return st
}

func TestContactsPartialSuccess(t *testing.T) {
	st := newTestStore(t)
	csv := strings.Join([]string{
		"name,email,company_name,contact_type,phone",
		"Jane Smith,jane@acme.test,Acme,Recruiter,555-0100",
		",missing@name.test,Acme,,",
		"Bob Lee,bob@globex.test,Globex,Astronaut,",
		"Ann Wu,ann@initech.test,Initech,,",
	}, "\n")

	res, err := Contacts(context.Background(), st, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Contacts: %v", err)
	}
	if res.Imported != 2 {
		t.Errorf("imported = %d, want 2", res.Imported)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %v, want 2", res.Errors)
	}
	if !strings.HasPrefix(res.Errors[0], "row 3:") {
		t.Errorf("first error = %q, want it keyed to row 3", res.Errors[0])
	}
	if !strings.Contains(res.Errors[1], "Astronaut") {
		t.Errorf("second error = %q, want the bad contact_type named", res.Errors[1])
	}

	contacts, err := st.ListContacts(context.Background())
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("stored contacts = %d, want 2", len(contacts))
	}
	if contacts[1].ContactType != models.ContactOther {
		t.Errorf("blank contact_type = %q, want default Other", contacts[1].ContactType)
	}
}

func TestContactsMissingRequiredColumn(t *testing.T) {
	st := newTestStore(t)
	csv := "name,email\nJane,jane@x.test\n"

	_, err := Contacts(context.Background(), st, strings.NewReader(csv))
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *models.ValidationError", err)
	}
	if !strings.Contains(err.Error(), "company_name") {
		t.Errorf("err = %q, want the missing column named", err)
	}
}

func TestJobsPartialSuccess(t *testing.T) {
	st := newTestStore(t)
	csv := strings.Join([]string{
		"company_name,job_title,date_applied,priority",
		"Acme,Platform Engineer,2026-02-10,High",
		"Globex,SRE,10/02/2026,",
	}, "\n")

	res, err := Jobs(context.Background(), st, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if res.Imported != 1 {
		t.Errorf("imported = %d, want 1", res.Imported)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "YYYY-MM-DD") {
		t.Errorf("errors = %v, want one date-format complaint", res.Errors)
	}

	job, err := st.GetJob(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if job.Priority != models.PriorityHigh || job.JobTitle != "Platform Engineer" {
		t.Errorf("job = %+v", job)
	}
}
