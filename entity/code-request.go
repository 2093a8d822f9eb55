package entity

import (
	"SchoolLicensing/internal/lib/validate"
	"net/http"
)

type CodeRequest struct {
	AccessCode string `json:"access_code" validate:"required"`
}

func (c *CodeRequest) Bind(_ *http.Request) error {
	if err := validate.Struct(c); err != nil {
		return Validation("access_code is required")
	}
	return nil
}

type UseCodeRequest struct {
	CodeID    string `json:"code_id" validate:"required"`
	UserEmail string `json:"user_email" validate:"required,email"`
	UserName  string `json:"user_name" validate:"omitempty"`
}

func (u *UseCodeRequest) Bind(_ *http.Request) error {
	if err := validate.Struct(u); err != nil {
		return Validation("%s", validate.Message(err))
	}
	return nil
}

type UserAccessRequest struct {
	UserEmail string `json:"user_email" validate:"required,email"`
	UserType  string `json:"user_type" validate:"omitempty,oneof=teacher student"`
}

func (u *UserAccessRequest) Bind(_ *http.Request) error {
	if err := validate.Struct(u); err != nil {
		return Validation("%s", validate.Message(err))
	}
	return nil
}
