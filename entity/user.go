package entity

import "time"

// User is the application account looked up when checking access; it is
// written by the teacher/student apps, never by this service.
type User struct {
	Email       string `json:"email" bson:"email"`
	LicenseType string `json:"license_type,omitempty" bson:"license_type,omitempty"`
	TrialID     string `json:"trial_id,omitempty" bson:"trial_id,omitempty"`
}

type UserAccess struct {
	Valid        bool       `json:"valid"`
	LicenseType  string     `json:"license_type"`
	TrialEndDate *time.Time `json:"trial_end_date,omitempty"`
	DaysLeft     *int       `json:"days_remaining,omitempty"`
	SchoolName   string     `json:"school_name,omitempty"`
}
