package main

import (
	"SchoolLicensing/bot"
	"SchoolLicensing/impl/core"
	"SchoolLicensing/internal/cache"
	"SchoolLicensing/internal/config"
	"SchoolLicensing/internal/database"
	"SchoolLicensing/internal/http-server/api"
	"SchoolLicensing/internal/lib/logger"
	"SchoolLicensing/internal/lib/sl"
	"SchoolLicensing/internal/service/mailer"
	"SchoolLicensing/internal/service/payments"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// operator notifications and error forwarding go through telegram when enabled
	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting school licensing", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := core.New(conf, lg)
	if err != nil {
		lg.Error("core init", sl.Err(err))
		os.Exit(1)
	}
	if tgBot != nil {
		handler.SetNotifier(tgBot)
	}

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.Error("mongo client", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			lg.Error("mongo disconnect", sl.Err(err))
		}
	}()
	indexCtx, cancel := context.WithTimeout(ctx, time.Duration(conf.Mongo.Timeout)*time.Second)
	err = db.EnsureIndexes(indexCtx)
	cancel()
	if err != nil {
		lg.Error("mongo indexes", sl.Err(err))
		os.Exit(1)
	}
	handler.SetRepository(db)
	lg.With(
		slog.String("database", conf.Mongo.Database),
		slog.Bool("transactions", conf.Mongo.Transactions),
	).Info("mongo client initialized")

	guard, err := cache.NewEventGuard(conf, lg)
	if err != nil {
		lg.Warn("redis event guard disabled", sl.Err(err))
	}
	if guard != nil {
		defer func() {
			_ = guard.Close()
		}()
		handler.SetEventGuard(guard)
		lg.With(slog.String("addr", conf.Redis.Addr)).Info("redis event guard initialized")
	}

	handler.SetPaymentService(payments.NewService(conf, lg))
	lg.With(
		sl.Secret("secret_key", conf.Stripe.SecretKey),
	).Info("stripe client initialized")

	mail, err := mailer.NewService(conf, lg)
	if err != nil {
		lg.Error("mail client", sl.Err(err))
		os.Exit(1)
	}
	handler.SetMailService(mail)
	lg.With(
		slog.String("host", conf.Mail.Host),
		slog.Int("port", conf.Mail.Port),
		sl.Email("user", conf.Mail.User),
	).Info("mail client initialized")

	// *** blocking start with http server ***
	err = api.New(ctx, conf, lg, handler)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Info("service stopped")
}
