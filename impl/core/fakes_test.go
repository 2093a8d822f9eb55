package core

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/config"
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu             sync.Mutex
	licenses       map[string]*entity.License
	trials         map[string]*entity.Trial
	codes          map[string]*entity.AccessCode
	failedPayments []entity.FailedPayment
	emailLogs      []entity.EmailLog
	profiles       map[string]int64
	users          map[string]*entity.User
	apiKeys        map[string]string
	transactions   int
	failInsertCode error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		licenses: make(map[string]*entity.License),
		trials:   make(map[string]*entity.Trial),
		codes:    make(map[string]*entity.AccessCode),
		profiles: make(map[string]int64),
		users:    make(map[string]*entity.User),
		apiKeys:  make(map[string]string),
	}
}

func (r *fakeRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	r.transactions++
	r.mu.Unlock()
	return fn(ctx)
}

func (r *fakeRepo) InsertLicense(_ context.Context, license *entity.License) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.licenses {
		if l.IsActive && license.IsActive && l.AdminEmail == license.AdminEmail {
			return entity.Conflict("duplicate active license")
		}
	}
	cp := *license
	r.licenses[license.ID] = &cp
	return nil
}

func (r *fakeRepo) findLicense(match func(l *entity.License) bool) *entity.License {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.licenses {
		if match(l) {
			cp := *l
			return &cp
		}
	}
	return nil
}

func (r *fakeRepo) GetActiveLicenseByEmail(_ context.Context, adminEmail string) (*entity.License, error) {
	return r.findLicense(func(l *entity.License) bool { return l.IsActive && l.AdminEmail == adminEmail }), nil
}

func (r *fakeRepo) GetActiveLicenseBySchool(_ context.Context, schoolName string) (*entity.License, error) {
	return r.findLicense(func(l *entity.License) bool { return l.IsActive && l.SchoolName == schoolName }), nil
}

func (r *fakeRepo) GetLicenseBySession(_ context.Context, sessionID string) (*entity.License, error) {
	return r.findLicense(func(l *entity.License) bool { return l.StripeSessionID == sessionID }), nil
}

func (r *fakeRepo) DeactivateLicense(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.licenses[id]; ok {
		l.IsActive = false
	}
	return nil
}

func (r *fakeRepo) InsertTrial(_ context.Context, trial *entity.Trial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.trials {
		if t.IsActive && t.AdminEmail == trial.AdminEmail {
			return entity.Conflict("duplicate active trial")
		}
	}
	cp := *trial
	r.trials[trial.ID] = &cp
	return nil
}

func (r *fakeRepo) GetActiveTrialByEmail(_ context.Context, adminEmail string) (*entity.Trial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.trials {
		if t.IsActive && t.AdminEmail == adminEmail {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetTrial(_ context.Context, id string) (*entity.Trial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.trials[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) DeactivateTrial(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.trials[id]; ok {
		t.IsActive = false
	}
	return nil
}

func (r *fakeRepo) InsertAccessCodes(_ context.Context, codes []entity.AccessCode) error {
	if r.failInsertCode != nil {
		return r.failInsertCode
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range codes {
		cp := codes[i]
		r.codes[cp.ID] = &cp
	}
	return nil
}

func (r *fakeRepo) GetAccessCode(_ context.Context, code, codeType string) (*entity.AccessCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.Code == code && (codeType == "" || c.Type == codeType) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetAccessCodeByID(_ context.Context, id string) (*entity.AccessCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.codes[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) ConsumeAccessCode(_ context.Context, id string, usage entity.CodeUsage) (*entity.AccessCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[id]
	if !ok || c.Used {
		return nil, nil
	}
	at := usage.UsedAt
	c.Used = true
	c.UsedBy = usage.UsedBy
	c.UsedAt = &at
	if usage.SentBy != "" {
		c.EmailSent = true
		c.SentTo = usage.UsedBy
		c.SentAt = &at
		c.SentByAdmin = usage.SentBy
	}
	cp := *c
	return &cp, nil
}

func (r *fakeRepo) ReleaseAccessCode(_ context.Context, id string, usage entity.CodeUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[id]
	if !ok || !c.Used || c.UsedBy != usage.UsedBy || c.UsedAt == nil || !c.UsedAt.Equal(usage.UsedAt) {
		return nil
	}
	c.Used = false
	c.UsedBy = ""
	c.UsedAt = nil
	c.EmailSent = false
	c.SentTo = ""
	c.SentAt = nil
	c.SentByAdmin = ""
	return nil
}

func (r *fakeRepo) teacherCodes(school string, match func(c *entity.AccessCode) bool) []entity.AccessCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	codes := make([]entity.AccessCode, 0)
	for _, c := range r.codes {
		if c.School == school && c.Type == entity.CodeTypeTeacher && match(c) {
			codes = append(codes, *c)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].Code < codes[j].Code })
	return codes
}

func (r *fakeRepo) ListAccessCodes(_ context.Context, school string) ([]entity.AccessCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	codes := make([]entity.AccessCode, 0)
	for _, c := range r.codes {
		if c.School == school {
			codes = append(codes, *c)
		}
	}
	sort.Slice(codes, func(i, j int) bool {
		if codes[i].Type != codes[j].Type {
			return codes[i].Type < codes[j].Type
		}
		return codes[i].Code < codes[j].Code
	})
	return codes, nil
}

func (r *fakeRepo) ListTeacherCodes(_ context.Context, school string, used *bool) ([]entity.AccessCode, error) {
	return r.teacherCodes(school, func(c *entity.AccessCode) bool { return used == nil || c.Used == *used }), nil
}

func (r *fakeRepo) NextUnusedTeacherCode(_ context.Context, school string) (*entity.AccessCode, error) {
	codes := r.teacherCodes(school, func(c *entity.AccessCode) bool { return !c.Used })
	if len(codes) == 0 {
		return nil, nil
	}
	return &codes[0], nil
}

func (r *fakeRepo) CountTeacherCodes(_ context.Context, school string) (entity.CodeStats, error) {
	var stats entity.CodeStats
	for _, c := range r.teacherCodes(school, func(*entity.AccessCode) bool { return true }) {
		stats.Total++
		if c.EmailSent {
			stats.Sent++
		}
		if c.Used {
			stats.Used++
		}
	}
	return stats, nil
}

func (r *fakeRepo) ExpireUnusedCodes(_ context.Context, trialID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.TrialID == trialID && !c.Used && c.ExpiresAt.After(at) {
			c.ExpiresAt = at
		}
	}
	return nil
}

func (r *fakeRepo) InsertFailedPayment(_ context.Context, payment *entity.FailedPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failedPayments = append(r.failedPayments, *payment)
	return nil
}

func (r *fakeRepo) InsertEmailLog(_ context.Context, log *entity.EmailLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emailLogs = append(r.emailLogs, *log)
	return nil
}

func (r *fakeRepo) RecentEmailLogs(_ context.Context, adminEmail string, limit int64) ([]entity.EmailLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	logs := make([]entity.EmailLog, 0)
	for i := len(r.emailLogs) - 1; i >= 0 && int64(len(logs)) < limit; i-- {
		if r.emailLogs[i].AdminEmail == adminEmail {
			logs = append(logs, r.emailLogs[i])
		}
	}
	return logs, nil
}

func (r *fakeRepo) CountUserProfiles(_ context.Context, school string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profiles[school], nil
}

func (r *fakeRepo) GetUser(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[email], nil
}

func (r *fakeRepo) CheckApiKey(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for user, k := range r.apiKeys {
		if k == key {
			return user, nil
		}
	}
	return "", nil
}

func (r *fakeRepo) GenerateApiKey(_ context.Context, username string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, ok := r.apiKeys[username]; ok {
		return k, nil
	}
	k := "key-" + username
	r.apiKeys[username] = k
	return k, nil
}

func (r *fakeRepo) activeLicenses() []entity.License {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.License
	for _, l := range r.licenses {
		if l.IsActive {
			out = append(out, *l)
		}
	}
	return out
}

func (r *fakeRepo) allCodes() []entity.AccessCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.AccessCode
	for _, c := range r.codes {
		out = append(out, *c)
	}
	return out
}

type fakePayments struct {
	sessions  map[string]*entity.CheckoutSession
	events    map[string]*entity.PaymentEvent
	orders    []*entity.CheckoutOrder
	createErr error
	getCalls  int
}

func newFakePayments() *fakePayments {
	return &fakePayments{
		sessions: make(map[string]*entity.CheckoutSession),
		events:   make(map[string]*entity.PaymentEvent),
	}
}

func (p *fakePayments) CreateCheckoutSession(_ context.Context, order *entity.CheckoutOrder) (*entity.CheckoutResult, error) {
	if p.createErr != nil {
		return nil, entity.Upstream(p.createErr)
	}
	p.orders = append(p.orders, order)
	return &entity.CheckoutResult{URL: "https://checkout.test/cs_1", SessionID: "cs_1"}, nil
}

func (p *fakePayments) GetCheckoutSession(_ context.Context, id string) (*entity.CheckoutSession, error) {
	p.getCalls++
	s, ok := p.sessions[id]
	if !ok {
		return nil, entity.NotFound("Checkout session not found")
	}
	return s, nil
}

// ParseWebhook accepts the signature "valid" and looks the event up by payload.
func (p *fakePayments) ParseWebhook(payload []byte, signature string) (*entity.PaymentEvent, error) {
	if signature != "valid" {
		return nil, entity.Authenticity("No signatures found matching the expected signature for payload")
	}
	e, ok := p.events[string(payload)]
	if !ok {
		return nil, errors.New("unknown payload")
	}
	return e, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*entity.MailMessage
	err  error
}

func (m *fakeMailer) Send(_ context.Context, message *entity.MailMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, message)
	return "<msg-id@test>", nil
}

type fakeGuard struct {
	seen map[string]bool
}

func (g *fakeGuard) Seen(_ context.Context, id string) (bool, error) {
	if g.seen[id] {
		return true, nil
	}
	g.seen[id] = true
	return false, nil
}

func (g *fakeGuard) Forget(_ context.Context, id string) error {
	delete(g.seen, id)
	return nil
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) SendMessage(msg string) {
	n.messages = append(n.messages, msg)
}

var testNow = time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	core     *Core
	repo     *fakeRepo
	payments *fakePayments
	mailer   *fakeMailer
	guard    *fakeGuard
	notifier *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conf := &config.Config{}
	conf.Pricing.StudentPrice = "5.00"
	conf.Pricing.TeacherPrice = "20.00"
	conf.Pricing.Currency = "usd"
	conf.Links.BaseURL = "https://shop.test/"
	conf.Links.DistributionURL = "https://distribution.test"
	conf.Links.RegistrationURL = "https://registration.test"
	conf.Links.TeacherDashboard = "https://dashboard.test"

	c, err := New(conf, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	c.now = func() time.Time { return testNow }

	env := &testEnv{
		core:     c,
		repo:     newFakeRepo(),
		payments: newFakePayments(),
		mailer:   &fakeMailer{},
		guard:    &fakeGuard{seen: make(map[string]bool)},
		notifier: &fakeNotifier{},
	}
	c.SetRepository(env.repo)
	c.SetPaymentService(env.payments)
	c.SetMailService(env.mailer)
	c.SetEventGuard(env.guard)
	c.SetNotifier(env.notifier)
	return env
}

// advance moves the core clock.
func (e *testEnv) advance(d time.Duration) {
	at := testNow.Add(d)
	e.core.now = func() time.Time { return at }
}
