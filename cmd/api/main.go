package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"Club_Hub/internal/config"
	"Club_Hub/internal/handler"
	"Club_Hub/internal/middleware"
	"Club_Hub/internal/pkg"
	miniorepo "Club_Hub/internal/repository/minio"
	"Club_Hub/internal/repository/mysql"
	redisrepo "Club_Hub/internal/repository/redis"
	"Club_Hub/internal/router"
	"Club_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "club-hub",
		Usage: "campus club management API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"CLUB_HUB_CONFIG"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and outbox relay",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update database tables",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func migrate(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	db, err := mysql.InitDB(cfg.MySQL.DSN, cfg.Debug)
	if err != nil {
		return fmt.Errorf("connect mysql: %w", err)
	}
	if err := mysql.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Println("migrations applied")
	return nil
}

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	logger, err := pkg.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := mysql.InitDB(cfg.MySQL.DSN, cfg.Debug)
	if err != nil {
		return fmt.Errorf("connect mysql: %w", err)
	}
	if err := mysql.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb, err := redisrepo.Init(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	metrics := pkg.NewMetrics()
	tokens := pkg.NewTokenIssuer(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	sessions := redisrepo.NewSessionRepository(rdb, tokens.AccessTTL, tokens.RefreshTTL)

	users := &mysql.UserRepository{DB: db}
	clubs := &mysql.ClubRepository{DB: db}
	members := &mysql.MembershipRepository{DB: db}
	events := &mysql.EventRepository{DB: db}
	announcements := &mysql.AnnouncementRepository{DB: db}
	outbox := &mysql.OutboxRepository{DB: db}

	var images service.ImageStore
	mcfg := miniorepo.Config(cfg.Minio)
	if mcfg.Enabled() {
		store, err := miniorepo.NewBannerStore(ctx, mcfg)
		if err != nil {
			return err
		}
		images = store
	} else {
		logger.Warn("minio not configured, banner uploads disabled")
	}

	userSvc := service.NewUserService(users, sessions, tokens, logger)
	clubSvc := service.NewClubService(clubs, users, members, metrics, logger)
	eventSvc := service.NewEventService(events, clubs, logger)
	announcementSvc := service.NewAnnouncementService(announcements, clubs, users, logger)
	bannerSvc := service.NewBannerService(images, clubs, events, logger)

	var sinks []service.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		defer producer.Close()
		sinks = append(sinks, service.Sink{Name: "kafka", Send: service.KafkaSender(producer)})
	} else {
		sinks = append(sinks, service.Sink{Name: "log", Send: service.LogSender(logger)})
	}
	smtp := pkg.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}
	if smtp.Enabled() {
		sinks = append(sinks, service.Sink{Name: "mail", Send: service.NewAnnouncementMailer(clubs, pkg.NewMailer(smtp)).Send})
	}
	relayer := service.NewOutboxRelayer(outbox, sinks, cfg.Outbox.BatchSize, cfg.Outbox.Interval, metrics, logger)

	r := router.InitRouter(router.Deps{
		Log:          logger,
		Metrics:      metrics,
		Tokens:       tokens,
		Sessions:     sessions,
		CORSOrigins:  cfg.CORSOrigins,
		AuthLimiter:  middleware.PerMinute(cfg.AuthRatePerMinute),
		User:         handler.NewUserHandler(userSvc, logger),
		Club:         handler.NewClubHandler(clubSvc, logger),
		Event:        handler.NewEventHandler(eventSvc, logger),
		Announcement: handler.NewAnnouncementHandler(announcementSvc, logger),
		Banner:       handler.NewBannerHandler(bannerSvc, logger),
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relayer.Run(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			stop()
			<-relayDone
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}
	stop()
	<-relayDone
	logger.Info("server stopped")
	return nil
}
