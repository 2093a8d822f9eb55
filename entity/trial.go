package entity

import "time"

type Trial struct {
	ID              string    `json:"id" bson:"_id"`
	SchoolName      string    `json:"school_name" bson:"school_name"`
	DistrictName    string    `json:"district_name" bson:"district_name"`
	AdminEmail      string    `json:"admin_email" bson:"admin_email"`
	AdminName       string    `json:"admin_name" bson:"admin_name"`
	TeacherLicenses int       `json:"teacher_licenses" bson:"teacher_licenses"`
	StudentLicenses int       `json:"student_licenses" bson:"student_licenses"`
	TrialStartDate  time.Time `json:"trial_start_date" bson:"trial_start_date"`
	TrialEndDate    time.Time `json:"trial_end_date" bson:"trial_end_date"`
	IsActive        bool      `json:"is_active" bson:"is_active"`
	LicenseType     string    `json:"license_type" bson:"license_type"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}
