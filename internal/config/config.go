package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		AdminId int64  `yaml:"admin_id" env:"TELEGRAM_ADMIN_ID" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"SchoolLicensingBot"`
		Enabled bool   `yaml:"enabled" env:"TELEGRAM_ENABLED" env-default:"false"`
	} `yaml:"telegram"`
	Stripe struct {
		SecretKey      string `yaml:"secret_key" env:"STRIPE_SECRET_KEY" env-required:"true"`
		WebhookSecret  string `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET" env-required:"true"`
		StudentPriceID string `yaml:"student_price_id" env:"STRIPE_STUDENT_PRICE_ID" env-required:"true"`
		TeacherPriceID string `yaml:"teacher_price_id" env:"STRIPE_TEACHER_PRICE_ID" env-required:"true"`
	} `yaml:"stripe"`
	Mongo struct {
		URI          string `yaml:"uri" env:"MONGODB_URI" env-required:"true"`
		Database     string `yaml:"database" env:"MONGODB_DATABASE" env-default:"TrinityCapital"`
		Transactions bool   `yaml:"transactions" env:"MONGODB_TRANSACTIONS" env-default:"false"`
		Timeout      int    `yaml:"timeout" env:"MONGODB_TIMEOUT" env-default:"10"`
	} `yaml:"mongo"`
	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
		Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
		Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
		DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
		EventTTL int    `yaml:"event_ttl_hours" env:"REDIS_EVENT_TTL_HOURS" env-default:"72"`
	} `yaml:"redis"`
	Mail struct {
		Host     string `yaml:"host" env:"EMAIL_HOST" env-default:"smtp.gmail.com"`
		Port     int    `yaml:"port" env:"EMAIL_PORT" env-default:"587"`
		User     string `yaml:"user" env:"EMAIL_USER" env-required:"true"`
		Password string `yaml:"password" env:"EMAIL_PASSWORD" env-required:"true"`
		FromName string `yaml:"from_name" env:"EMAIL_FROM_NAME" env-default:"Trinity Capital Support"`
	} `yaml:"mail"`
	Pricing struct {
		StudentPrice string `yaml:"student_price" env:"PRICE_STUDENT" env-default:"5.00"`
		TeacherPrice string `yaml:"teacher_price" env:"PRICE_TEACHER" env-default:"20.00"`
		Currency     string `yaml:"currency" env:"PRICE_CURRENCY" env-default:"usd"`
	} `yaml:"pricing"`
	Links struct {
		BaseURL          string `yaml:"base_url" env:"BASE_URL" env-required:"true"`
		DistributionURL  string `yaml:"distribution_url" env:"DISTRIBUTION_URL" env-default:"https://license-distribution.trinity-capital.net"`
		RegistrationURL  string `yaml:"registration_url" env:"REGISTRATION_URL" env-default:"https://registration.trinity-capital.net"`
		TeacherDashboard string `yaml:"teacher_dashboard_url" env:"TEACHER_DASHBOARD_URL" env-default:"https://teacher-dashboard.trinity-capital.net"`
	} `yaml:"links"`
	Listen struct {
		BindIP         string   `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port           string   `yaml:"port" env:"PORT" env-default:"3001"`
		Timeout        int      `yaml:"timeout" env:"REQUEST_TIMEOUT" env-default:"30"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:"," env-required:"true"`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	once.Do(func() {
		conf, err := Load(path)
		if err != nil {
			log.Fatal(err)
		}
		instance = conf
	})
	return instance
}

// Load reads the YAML file at path when it exists and overlays the
// environment on top; without a file the environment alone is used.
func Load(path string) (*Config, error) {
	conf := &Config{}

	var err error
	if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
		err = cleanenv.ReadEnv(conf)
	} else {
		err = cleanenv.ReadConfig(path, conf)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("%s; %s", err, desc)
	}

	return conf, nil
}
