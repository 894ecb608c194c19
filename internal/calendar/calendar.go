// Package calendar turns follow-up reminders into an importable ICS batch.
// Generation is advisory: the engine produces reminder artifacts, their
// consumption (Google/Outlook/Apple import) is external.
package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// Reminder is the advisory artifact returned by a successful follow-up send.
type Reminder struct {
	ContactName string
	CompanyName string
	DaysUntil   int
	Due         time.Time
}

// NewReminder dates a reminder daysUntil days from now.
func NewReminder(contactName, companyName string, daysUntil int, now time.Time) Reminder {
	return Reminder{
		ContactName: contactName,
		CompanyName: companyName,
		DaysUntil:   daysUntil,
		Due:         now.UTC().AddDate(0, 0, daysUntil),
	}
}

func (r Reminder) Summary() string {
	return fmt.Sprintf("Follow up with %s (%s)", r.ContactName, r.CompanyName)
}

// ExportICS serializes a batch of reminders into one VCALENDAR.
func ExportICS(reminders []Reminder) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//jobtrack//outreach//EN")
	for _, r := range reminders {
		ev := cal.AddEvent(uuid.NewString())
		ev.SetCreatedTime(time.Now().UTC())
		ev.SetDtStampTime(time.Now().UTC())
		ev.SetStartAt(r.Due)
		ev.SetEndAt(r.Due.Add(30 * time.Minute))
		ev.SetSummary(r.Summary())
		ev.SetDescription(fmt.Sprintf("Outreach follow-up due %d day(s) after last contact.", r.DaysUntil))
	}
	return cal.Serialize()
}
