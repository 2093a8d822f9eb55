package entity

import "time"

const (
	CodeTypeTeacher = "teacher"
	CodeTypeStudent = "student"
)

// AccessCode is a single-use registration code handed to a teacher.
type AccessCode struct {
	ID          string     `json:"_id" bson:"_id"`
	Code        string     `json:"code" bson:"code"`
	Type        string     `json:"type" bson:"type"`
	School      string     `json:"school" bson:"school"`
	Admin       string     `json:"admin" bson:"admin"`
	Used        bool       `json:"used" bson:"used"`
	UsedBy      string     `json:"used_by,omitempty" bson:"used_by,omitempty"`
	UsedAt      *time.Time `json:"used_at,omitempty" bson:"used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at" bson:"expires_at"`
	LicenseType string     `json:"license_type" bson:"license_type"`
	TrialID     string     `json:"trial_id,omitempty" bson:"trial_id,omitempty"`
	EmailSent   bool       `json:"email_sent,omitempty" bson:"email_sent,omitempty"`
	SentTo      string     `json:"sent_to,omitempty" bson:"sent_to,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	SentByAdmin string     `json:"sent_by_admin,omitempty" bson:"sent_by_admin,omitempty"`
}

func (c *AccessCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// CodeUsage is written when a code is consumed.
type CodeUsage struct {
	UsedBy string
	UsedAt time.Time
	// set only when the code was handed out by email
	SentBy string
}

// CodeValidation is returned for a code that can still be redeemed.
type CodeValidation struct {
	Valid       bool      `json:"valid"`
	School      string    `json:"school"`
	Type        string    `json:"type"`
	CodeID      string    `json:"code_id"`
	LicenseType string    `json:"license_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	TrialID     *string   `json:"trial_id"`
}

type CapacityCheck struct {
	Valid             bool   `json:"valid"`
	School            string `json:"school"`
	Type              string `json:"type"`
	RemainingCapacity int    `json:"remaining_capacity"`
}

type CodeConsumption struct {
	Success bool   `json:"success"`
	School  string `json:"school"`
}
