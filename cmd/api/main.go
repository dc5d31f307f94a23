package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	httptransport "github.com/alnasr-it/helpdesk/internal/api/http"
	"github.com/alnasr-it/helpdesk/internal/api/http/handlers"
	"github.com/alnasr-it/helpdesk/internal/clock"
	"github.com/alnasr-it/helpdesk/internal/config"
	"github.com/alnasr-it/helpdesk/internal/events"
	"github.com/alnasr-it/helpdesk/internal/notify"
	"github.com/alnasr-it/helpdesk/internal/observability"
	"github.com/alnasr-it/helpdesk/internal/persistence"
	"github.com/alnasr-it/helpdesk/internal/repository"
	"github.com/alnasr-it/helpdesk/internal/service"
	"github.com/alnasr-it/helpdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(pg.PoolHandle()),
		Dispatcher: dispatcher,
		Sites:      cfg.Sites,
		Clock:      clock.NewSystem(),
		Cache:      redis.ClientHandle(),
		Logger:     logger,
	})

	chatSender := notify.NewSlackSender(cfg.Slack)
	emailSender, err := notify.NewSMTPSender(cfg.SMTP)
	if err != nil {
		logger.Fatal("failed to init smtp sender", zap.Error(err))
	}

	notificationService := service.NewNotificationService(dispatcher, chatSenderOrNil(chatSender), emailSenderOrNil(emailSender), logger)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	engine := html.New("./templates", ".html")
	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Dashboard: handlers.NewDashboardHandler(ticketService),
		Tickets:   handlers.NewTicketsHandler(ticketService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// chatSenderOrNil keeps a typed-nil *SlackSender from masquerading as a
// non-nil ChatSender interface value.
func chatSenderOrNil(s *notify.SlackSender) notify.ChatSender {
	if s == nil {
		return nil
	}
	return s
}

func emailSenderOrNil(s *notify.SMTPSender) notify.EmailSender {
	if s == nil {
		return nil
	}
	return s
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
