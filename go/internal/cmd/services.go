package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/stevemarchese/superbowl-squares/go/internal/boards"
	"github.com/stevemarchese/superbowl-squares/go/internal/db"
	"github.com/stevemarchese/superbowl-squares/go/internal/game"
	"github.com/stevemarchese/superbowl-squares/go/internal/livesync"
	"github.com/stevemarchese/superbowl-squares/go/internal/notifications"
	"github.com/stevemarchese/superbowl-squares/go/internal/sports/base"
)

type Services struct {
	Sync   *livesync.Service
	Health *notifications.HealthChecker
	Pool   *notifications.Pool
	Events livesync.EventPublisher

	natsConn *nats.Conn
}

// Close releases the event connection.
func (s *Services) Close() {
	if js, ok := s.Events.(*livesync.JetStreamPublisher); ok {
		if err := js.Close(); err != nil {
			log.Error().Err(err).Msg("close publisher")
		}
	}
}

func setupServices(ctx context.Context, config *Config, database *sql.DB, plugins map[string]base.SportPlugin) (*Services, error) {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → Service layer
	queries := db.New(database)
	clock := clockwork.NewRealClock()

	feed, ok := plugins[config.Sports.Feed]
	if !ok {
		return nil, fmt.Errorf("feed plugin %q is not enabled", config.Sports.Feed)
	}

	// Boards
	boardsApp := boards.NewApp(boards.NewRepository(queries), clock)

	// Game
	gameApp := game.NewApp(game.NewRepository(queries), clock)

	// Notifications
	ledger := notifications.NewApp(notifications.NewRepository(queries), clock)
	mailer, err := setupMailer(ctx, config.Notifications.Transport)
	if err != nil {
		return nil, err
	}
	metrics := notifications.NewCounterMetrics()
	dispatcher := notifications.NewDispatcher(gameApp, boardsApp, ledger, notifications.NewMetricMailer(mailer, metrics))
	pool := notifications.NewPool(dispatcher, config.Notifications.Workers, metrics)

	// Events
	services := &Services{Pool: pool}
	if url := getEnv("NATS_URL", ""); url != "" {
		jsCfg := livesync.DefaultJetStreamConfig()
		jsCfg.URL = url
		publisher, err := livesync.NewJetStreamPublisher(ctx, jsCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream publisher: %w", err)
		}
		services.Events = publisher
		services.natsConn = publisher.Conn()
	} else {
		log.Warn().Msg("NATS_URL not set, quarter events will only be logged")
		services.Events = &livesync.LogPublisher{}
	}

	// Live sync
	syncApp := livesync.NewApp(database, gameApp, feed, ledger, pool, services.Events, clock)
	services.Sync = livesync.NewService(syncApp, adminAuth(getEnv("ADMIN_TOKEN", "")))
	services.Health = notifications.NewHealthChecker(database, ledger, pool, services.natsConn)

	return services, nil
}

func setupMailer(ctx context.Context, transport string) (notifications.Mailer, error) {
	switch transport {
	case "smtp":
		cfg := notifications.SMTPConfig{
			Host:      getEnv("SMTP_HOST", ""),
			Port:      getEnvAsInt("SMTP_PORT", 587),
			Username:  getEnv("SMTP_USERNAME", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			FromEmail: getEnv("MAIL_FROM_EMAIL", ""),
			FromName:  getEnv("MAIL_FROM_NAME", "Super Bowl Squares"),

			SendTimeout: time.Duration(getEnvAsInt("SMTP_SEND_TIMEOUT_SECONDS", 30)) * time.Second,
		}
		if cfg.Host == "" || cfg.FromEmail == "" {
			return nil, fmt.Errorf("SMTP_HOST and MAIL_FROM_EMAIL are required for smtp transport")
		}
		log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("SMTP mailer enabled")
		return notifications.NewSMTPMailer(cfg), nil
	case "ses":
		fromEmail := getEnv("MAIL_FROM_EMAIL", "")
		if fromEmail == "" {
			return nil, fmt.Errorf("MAIL_FROM_EMAIL is required for ses transport")
		}
		return notifications.NewSESMailer(ctx, getEnv("AWS_REGION", "us-east-1"), fromEmail, getEnv("MAIL_FROM_NAME", "Super Bowl Squares"))
	case "log":
		log.Warn().Msg("log mailer enabled, no email will be delivered")
		return notifications.NewLogMailer(), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", transport)
	}
}
