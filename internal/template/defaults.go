package template

import "github.com/DanteAgarwal/Applying-sets/internal/models"

// Defaults is the seed sequence created when no templates exist yet:
// one cold email plus two follow-ups spanning a 7-day window.
func Defaults() []models.EmailTemplate {
	return []models.EmailTemplate{
		{
			Name:    "Cold Outreach",
			Subject: "Interest in {job_title} at {company}",
			Body: "Dear {name},\n\nI'm excited about the {job_title} role at {company}. " +
				"With my background in {specific_skill}, I believe I'd be a strong fit.\n\n" +
				"{personal_note}\n\nBest regards,\n{your_name}",
			IsFollowup:        false,
			DaysAfterPrevious: 0,
		},
		{
			Name:    "Follow-up #1 (3 days)",
			Subject: "Following up: {job_title} at {company}",
			Body: "Hi {name},\n\nI hope you're having a productive week. I wanted to gently " +
				"follow up on my application for the {job_title} position at {company}.\n\n" +
				"I remain very enthusiastic about this opportunity.\n\nThank you for your time!\n\n" +
				"Best regards,\n{your_name}",
			IsFollowup:        true,
			DaysAfterPrevious: 3,
		},
		{
			Name:    "Follow-up #2 (4 days)",
			Subject: "Checking in: {job_title} opportunity",
			Body: "Hi {name},\n\nI hope this message finds you well. I'm following up again " +
				"regarding my application for the {job_title} role.\n\n" +
				"I'd welcome any updates on the hiring process.\n\nBest regards,\n{your_name}",
			IsFollowup:        true,
			DaysAfterPrevious: 4,
		},
	}
}
