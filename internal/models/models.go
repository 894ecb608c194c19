package models

import "time"

type ContactType string

const (
	ContactRecruiter     ContactType = "Recruiter"
	ContactHR            ContactType = "HR"
	ContactHiringManager ContactType = "Hiring Manager"
	ContactNetworking    ContactType = "Networking"
	ContactOther         ContactType = "Other"
)

// ValidContactType reports whether t is one of the known contact types.
func ValidContactType(t ContactType) bool {
	switch t {
	case ContactRecruiter, ContactHR, ContactHiringManager, ContactNetworking, ContactOther:
		return true
	}
	return false
}

type Contact struct {
	ID            int64
	Name          string
	Email         string
	CompanyName   string
	JobID         *int64
	ContactType   ContactType
	Phone         string
	LinkedInURL   string
	LastContacted *time.Time
	NeedsFollowup bool
	FollowupDate  *time.Time
	Replied       bool
	ReplyDate     *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type JobStatus string

const (
	JobApplied            JobStatus = "Applied"
	JobInterviewScheduled JobStatus = "Interview Scheduled"
	JobOfferReceived      JobStatus = "Offer Received"
	JobRejected           JobStatus = "Rejected"
	JobGhosted            JobStatus = "Ghosted"
)

type JobPriority string

const (
	PriorityLow    JobPriority = "Low"
	PriorityMedium JobPriority = "Medium"
	PriorityHigh   JobPriority = "High"
)

type Job struct {
	ID            int64
	DateApplied   time.Time
	CompanyName   string
	JobTitle      string
	Location      string
	JobLink       string
	Status        JobStatus
	FollowUpDate  *time.Time
	InterviewDate *time.Time
	Notes         string
	Priority      JobPriority
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type EmailTemplate struct {
	ID                int64
	Name              string
	Subject           string
	Body              string
	IsFollowup        bool
	DaysAfterPrevious int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type SendStatus string

const (
	StatusSent    SendStatus = "sent"
	StatusFailed  SendStatus = "failed"
	StatusBounced SendStatus = "bounced"
)

// EmailLog is an immutable record of one logical send. Retries within a
// send do not each produce a row; only the terminal outcome does.
type EmailLog struct {
	ID           int64
	ContactID    int64
	TemplateID   *int64
	JobID        *int64
	Subject      string
	Body         string
	SentAt       time.Time
	Status       SendStatus
	ErrorMessage string
	SMTPResponse string
	TraceID      string
}

type EmailAccount struct {
	ID           int64
	EmailAddress string
	SMTPServer   string
	SMTPPort     int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
