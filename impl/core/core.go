package core

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/config"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	InsertLicense(ctx context.Context, license *entity.License) error
	GetActiveLicenseByEmail(ctx context.Context, adminEmail string) (*entity.License, error)
	GetActiveLicenseBySchool(ctx context.Context, schoolName string) (*entity.License, error)
	GetLicenseBySession(ctx context.Context, sessionID string) (*entity.License, error)
	DeactivateLicense(ctx context.Context, id string) error

	InsertTrial(ctx context.Context, trial *entity.Trial) error
	GetActiveTrialByEmail(ctx context.Context, adminEmail string) (*entity.Trial, error)
	GetTrial(ctx context.Context, id string) (*entity.Trial, error)
	DeactivateTrial(ctx context.Context, id string) error

	InsertAccessCodes(ctx context.Context, codes []entity.AccessCode) error
	GetAccessCode(ctx context.Context, code, codeType string) (*entity.AccessCode, error)
	GetAccessCodeByID(ctx context.Context, id string) (*entity.AccessCode, error)
	ConsumeAccessCode(ctx context.Context, id string, usage entity.CodeUsage) (*entity.AccessCode, error)
	ReleaseAccessCode(ctx context.Context, id string, usage entity.CodeUsage) error
	ListTeacherCodes(ctx context.Context, school string, used *bool) ([]entity.AccessCode, error)
	ListAccessCodes(ctx context.Context, school string) ([]entity.AccessCode, error)
	NextUnusedTeacherCode(ctx context.Context, school string) (*entity.AccessCode, error)
	CountTeacherCodes(ctx context.Context, school string) (entity.CodeStats, error)
	ExpireUnusedCodes(ctx context.Context, trialID string, at time.Time) error

	InsertFailedPayment(ctx context.Context, payment *entity.FailedPayment) error
	InsertEmailLog(ctx context.Context, log *entity.EmailLog) error
	RecentEmailLogs(ctx context.Context, adminEmail string, limit int64) ([]entity.EmailLog, error)

	CountUserProfiles(ctx context.Context, school string) (int64, error)
	GetUser(ctx context.Context, email string) (*entity.User, error)

	CheckApiKey(ctx context.Context, key string) (string, error)
	GenerateApiKey(ctx context.Context, username string) (string, error)
}

type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, order *entity.CheckoutOrder) (*entity.CheckoutResult, error)
	GetCheckoutSession(ctx context.Context, id string) (*entity.CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*entity.PaymentEvent, error)
}

type MailService interface {
	Send(ctx context.Context, message *entity.MailMessage) (string, error)
}

// EventGuard remembers webhook event ids already handled.
type EventGuard interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

type Notifier interface {
	SendMessage(msg string)
}

type Links struct {
	BaseURL          string
	DistributionURL  string
	RegistrationURL  string
	TeacherDashboard string
}

type Core struct {
	repo         Repository
	payments     PaymentService
	mailer       MailService
	guard        EventGuard
	notifier     Notifier
	links        Links
	studentPrice decimal.Decimal
	teacherPrice decimal.Decimal
	currency     string
	now          func() time.Time
	log          *slog.Logger
}

func New(conf *config.Config, log *slog.Logger) (*Core, error) {
	studentPrice, err := decimal.NewFromString(conf.Pricing.StudentPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid student price %q: %w", conf.Pricing.StudentPrice, err)
	}
	teacherPrice, err := decimal.NewFromString(conf.Pricing.TeacherPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid teacher price %q: %w", conf.Pricing.TeacherPrice, err)
	}

	return &Core{
		links: Links{
			BaseURL:          strings.TrimRight(conf.Links.BaseURL, "/"),
			DistributionURL:  conf.Links.DistributionURL,
			RegistrationURL:  conf.Links.RegistrationURL,
			TeacherDashboard: conf.Links.TeacherDashboard,
		},
		studentPrice: studentPrice,
		teacherPrice: teacherPrice,
		currency:     conf.Pricing.Currency,
		now:          time.Now,
		log:          log.With(sl.Module("core")),
	}, nil
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetPaymentService(payments PaymentService) {
	c.payments = payments
}

func (c *Core) SetMailService(mailer MailService) {
	c.mailer = mailer
}

func (c *Core) SetEventGuard(guard EventGuard) {
	c.guard = guard
}

func (c *Core) SetNotifier(notifier Notifier) {
	c.notifier = notifier
}

func (c *Core) notify(msg string) {
	if c.notifier == nil {
		return
	}
	c.notifier.SendMessage(msg)
}

// sendMail is used for notifications whose failure must not stop the caller.
func (c *Core) sendMail(ctx context.Context, message *entity.MailMessage) {
	if c.mailer == nil {
		c.log.Warn("mail service is not set")
		return
	}
	if _, err := c.mailer.Send(ctx, message); err != nil {
		c.log.With(
			sl.Email("to", message.To),
			slog.String("subject", message.Subject),
			sl.Err(err),
		).Error("send email")
	}
}

func (c *Core) checkRepository() error {
	if c.repo == nil {
		return fmt.Errorf("repository is not set")
	}
	return nil
}

// adminNameFromEmail uses the local part of the address as a display name.
func adminNameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
