package entity

import (
	"SchoolLicensing/internal/lib/validate"
	"net/http"
)

// UserAuth is the operator resolved from an API key.
type UserAuth struct {
	Username string `json:"username" bson:"username" validate:"required"`
	Token    string `json:"token" bson:"token" validate:"required,min=1"`
}

type ApiKeyRequest struct {
	Username string `json:"username" validate:"required"`
}

func (a *ApiKeyRequest) Bind(_ *http.Request) error {
	if err := validate.Struct(a); err != nil {
		return Validation("username is required")
	}
	return nil
}
