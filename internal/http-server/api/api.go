package api

import (
	"SchoolLicensing/internal/config"
	"SchoolLicensing/internal/http-server/handlers/admin"
	"SchoolLicensing/internal/http-server/handlers/checkout"
	"SchoolLicensing/internal/http-server/handlers/code"
	"SchoolLicensing/internal/http-server/handlers/errors"
	"SchoolLicensing/internal/http-server/handlers/operator"
	"SchoolLicensing/internal/http-server/handlers/pages"
	"SchoolLicensing/internal/http-server/handlers/quote"
	"SchoolLicensing/internal/http-server/handlers/trial"
	"SchoolLicensing/internal/http-server/handlers/webhook"
	"SchoolLicensing/internal/http-server/middleware/authenticate"
	"SchoolLicensing/internal/http-server/middleware/reqlog"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	checkout.Core
	webhook.Core
	trial.Core
	code.Core
	admin.Core
	quote.Core
	operator.Core
}

// NewRouter wires every route; handler may be nil while dependencies are
// still coming up, in which case handlers answer 503.
func NewRouter(conf *config.Config, log *slog.Logger, handler Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(reqlog.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(time.Duration(conf.Listen.Timeout) * time.Second))
	router.Use(middleware.SetHeader("Strict-Transport-Security", "max-age=31536000; includeSubDomains"))
	router.Use(middleware.SetHeader("Content-Security-Policy", "upgrade-insecure-requests"))
	router.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   conf.Listen.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Post("/create-checkout-session", checkout.CreateSession(log, handler))
	router.Get("/checkout-session/{id}", checkout.GetSession(log, handler))
	router.Post("/purchase", webhook.Purchase(log, handler))
	router.Post("/create-free-trial", trial.Create(log, handler))

	router.Post("/request-quote", quote.RequestQuote(log, handler))
	router.Post("/send-quote-email", quote.SendEmail(log, handler))

	router.Post("/validate-teacher-code", code.Validate(log, handler))
	router.Post("/use-teacher-code", code.Use(log, handler))
	router.Post("/validate-license-capacity", code.ValidateCapacity(log, handler))
	router.Post("/validate-user-access", code.UserAccess(log, handler))

	router.Route("/admin-portal/{admin_email}", func(r chi.Router) {
		r.Get("/", admin.Portal(log, handler))
		r.Get("/codes.xlsx", admin.ExportCodes(log, handler))
	})
	router.Post("/validate-admin", admin.Validate(log, handler))
	router.Get("/admin-stats/{admin_email}", admin.Stats(log, handler))
	router.Get("/get-next-teacher-code/{admin_email}", admin.NextCode(log, handler))
	router.Post("/send-teacher-code-email", admin.SendCode(log, handler))
	router.Get("/school-licenses/{school_name}", admin.SchoolLicense(log, handler))
	router.Get("/teacher-codes/{school_name}", admin.SchoolCodes(log, handler))
	router.Get("/access-codes/{school_name}", admin.SchoolAccessCodes(log, handler))

	router.Route("/operator", func(r chi.Router) {
		r.Use(authenticate.New(log, handler))
		r.Post("/send-parcel-email", operator.ManualPurchase(log, handler))
		r.Post("/api-key", operator.GenerateKey(log, handler))
	})

	router.Get("/success", pages.Success(log, conf.Links.DistributionURL))
	router.Get("/error", pages.PaymentError(log))
	router.Get("/health", pages.Health(log))

	return router
}

// New serves the API until ctx is cancelled, then drains in-flight requests.
func New(ctx context.Context, conf *config.Config, log *slog.Logger, handler Handler) error {
	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:           NewRouter(conf, log, handler),
		ErrorLog:          httpLog,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.httpServer.Shutdown(shutdownCtx); err != nil {
			server.log.Error("server shutdown", sl.Err(err))
		}
	}()

	err = server.httpServer.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
