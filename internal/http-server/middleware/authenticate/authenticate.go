package authenticate

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/api/cont"
	"SchoolLicensing/internal/lib/api/response"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Authenticate interface {
	AuthenticateByToken(ctx context.Context, token string) (*entity.UserAuth, error)
}

// New guards operator routes with a bearer API key.
func New(log *slog.Logger, auth Authenticate) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.authenticate")
	log.With(mod).Info("authenticate middleware initialized")

	return func(next http.Handler) http.Handler {

		fn := func(w http.ResponseWriter, r *http.Request) {
			logger := log.With(
				mod,
				slog.String("path", r.URL.Path),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			header := r.Header.Get("Authorization")
			if len(header) == 0 {
				logger.With(sl.Err(fmt.Errorf("authorization header not found"))).Warn("unauthorized")
				authFailed(w, r, "Authorization header not found")
				return
			}
			token := ""
			if scheme, value, ok := strings.Cut(header, " "); ok && scheme == "Bearer" {
				token = strings.TrimSpace(value)
			}
			if len(token) == 0 {
				logger.With(sl.Err(fmt.Errorf("token not found"))).Warn("unauthorized")
				authFailed(w, r, "Token not found")
				return
			}
			logger = logger.With(sl.Secret("token", token))

			if auth == nil {
				authFailed(w, r, "Unauthorized: authentication not enabled")
				return
			}

			user, err := auth.AuthenticateByToken(r.Context(), token)
			if err != nil {
				logger.With(sl.Err(err)).Warn("unauthorized")
				authFailed(w, r, "Unauthorized: token not found")
				return
			}

			w.Header().Set("X-User", user.Username)
			next.ServeHTTP(w, r.WithContext(cont.PutUser(r.Context(), user)))
		}

		return http.HandlerFunc(fn)
	}
}

func authFailed(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(message))
}
