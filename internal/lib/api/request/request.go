package request

import (
	"SchoolLicensing/entity"
	"net/http"

	"github.com/go-chi/render"
)

// Bind decodes a JSON body into v and runs its validation.
func Bind(r *http.Request, v render.Binder) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return entity.Validation("Invalid request body")
	}
	return v.Bind(r)
}
