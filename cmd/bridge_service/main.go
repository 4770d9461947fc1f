package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/camerodev/wabridge/internal/platform/config"
	"github.com/camerodev/wabridge/internal/platform/database"
	"github.com/camerodev/wabridge/internal/platform/logger"
	"github.com/camerodev/wabridge/internal/platform/messagebroker"

	"github.com/camerodev/wabridge/internal/bridge_service/adapters/filelog"
	"github.com/camerodev/wabridge/internal/bridge_service/adapters/httpadmin"
	"github.com/camerodev/wabridge/internal/bridge_service/adapters/natssession"
	"github.com/camerodev/wabridge/internal/bridge_service/adapters/notion"
	"github.com/camerodev/wabridge/internal/bridge_service/app"
	"github.com/camerodev/wabridge/internal/bridge_service/domain"
	"github.com/camerodev/wabridge/internal/bridge_service/repository/flatfile"
	pgrepo "github.com/camerodev/wabridge/internal/bridge_service/repository/postgres"

	blocklistapp "github.com/camerodev/wabridge/internal/blocklist_service/app"
	blocklistfile "github.com/camerodev/wabridge/internal/blocklist_service/repository/flatfile"
)

const (
	serviceName     = "bridge_service"
	eventQueueGroup = "bridge_processor_group"
	shutdownTimeout = 10 * time.Second
)

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	bootstrapLogger := logger.New(cfg.LogLevel)

	fileStore, err := filelog.NewStore(cfg.DataDir, bootstrapLogger)
	if err != nil {
		bootstrapLogger.Error("Failed to initialize data directory", "error", err)
		os.Exit(1)
	}

	var logWriter io.Writer = os.Stdout
	if cfg.LogToFile {
		logWriter = io.MultiWriter(os.Stdout, filelog.NewDailyLogWriter(fileStore))
	}
	appLogger := logger.NewWithWriter(cfg.LogLevel, logWriter).With("service", serviceName)
	appLogger.Info("Starting service...")

	appLogger.Info("Configuration loaded",
		"log_level", cfg.LogLevel,
		"data_dir", cfg.DataDir,
		"nats_url", cfg.NATSURL,
		"notion_api_key_present", cfg.NotionAPIKey != "",
		"notion_database_id", cfg.NotionDatabaseID,
		"default_project", cfg.DefaultProjectID,
		"file_sink", cfg.FileSinkEnabled,
		"notion_sink", cfg.NotionSinkEnabled,
		"db_sink", cfg.DBSinkEnabled,
		"admin_port", cfg.AdminPort,
	)

	if cfg.NotionSinkEnabled && (cfg.NotionAPIKey == "" || cfg.NotionDatabaseID == "") {
		appLogger.Error("NOTION_API_KEY and NOTION_DATABASE_ID are required while the Notion sink is enabled")
		os.Exit(1)
	}

	// NATS carries the raw event stream and the session command channel.
	nc, err := messagebroker.NewNATSClient(cfg.NATSURL, appLogger, serviceName)
	if err != nil {
		appLogger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	appLogger.Info("NATS connection initialized")

	session := natssession.NewProvider(nc, appLogger)

	// Directories.
	contacts, err := flatfile.NewContactDirectory(cfg.ContactsFile, appLogger)
	if err != nil {
		appLogger.Error("Failed to load contact directory", "error", err, "path", cfg.ContactsFile)
		os.Exit(1)
	}
	groups, err := flatfile.NewGroupProjectDirectory(cfg.GroupProjectFile, appLogger)
	if err != nil {
		appLogger.Error("Failed to load group-project directory", "error", err, "path", cfg.GroupProjectFile)
		os.Exit(1)
	}
	sinkBindings, err := flatfile.NewSinkBindingDirectory(cfg.ProjectSinksFile, appLogger)
	if err != nil {
		appLogger.Error("Failed to load project sink bindings", "error", err, "path", cfg.ProjectSinksFile)
		os.Exit(1)
	}

	// Sinks, in the order deliveries are attempted.
	var sinks []domain.Sink
	if cfg.FileSinkEnabled {
		sinks = append(sinks, filelog.NewSink(fileStore))
	}
	if cfg.NotionSinkEnabled {
		notionClient := notion.NewClient(cfg.NotionBaseURL, appLogger)
		defaultBinding := domain.SinkBinding{
			APIKey:     cfg.NotionAPIKey,
			DatabaseID: cfg.NotionDatabaseID,
		}
		sinks = append(sinks, notion.NewSink(notionClient, sinkBindings, defaultBinding, appLogger))
	}
	if cfg.DBSinkEnabled {
		dbPool, err := database.NewDBPool(mainCtx, cfg.DSN())
		if err != nil {
			appLogger.Error("Failed to initialize database connection pool", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		appLogger.Info("Database connection pool initialized")
		sinks = append(sinks, app.NewRepositorySink(pgrepo.NewPgMessageRepository(dbPool, appLogger)))
	}

	fanout := app.NewFanout(sinks, appLogger)
	resolver := app.NewResolver(
		contacts, groups, session,
		cfg.AccountDisplayName, cfg.AccountNumber, cfg.DefaultProjectID,
		appLogger,
	)
	processor := app.NewProcessor(resolver, fanout, fileStore, appLogger)

	eventsChan := make(chan domain.MessageEvent, 100)
	consumer := app.NewEventConsumer(nc, appLogger, eventsChan)

	// Scheduled block/unblock sweeps.
	blocklistRepo := blocklistfile.NewBlocklistRepository(cfg.BlocklistFile, appLogger)
	scheduler, err := blocklistapp.NewScheduler(blocklistRepo, session, blocklistapp.SchedulerConfig{
		Timezone:       cfg.CronTimezone,
		UnblockMorning: cfg.UnblockMorning,
		BlockNoon:      cfg.BlockNoon,
		UnblockEvening: cfg.UnblockEvening,
		BlockNight:     cfg.BlockNight,
		PacePerContact: time.Duration(cfg.BlocklistPaceMS) * time.Millisecond,
	}, appLogger)
	if err != nil {
		appLogger.Error("Failed to build blocklist scheduler", "error", err)
		os.Exit(1)
	}

	adminServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.AdminPort),
		Handler: httpadmin.NewRouter(serviceName),
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("Starting raw event consumer", "subject", app.RawEventSubjectPattern, "queue_group", eventQueueGroup)
		return consumer.StartConsuming(groupCtx, app.RawEventSubjectPattern, eventQueueGroup)
	})

	g.Go(func() error {
		appLogger.Info("Starting message event processor worker...")
		for {
			select {
			case ev := <-eventsChan:
				if err := processor.Process(groupCtx, &ev); err != nil {
					appLogger.Error("Failed to process message event",
						slog.Any("error", err),
						slog.String("message_id", ev.MessageID),
						slog.String("chat_id", ev.Chat.ID),
					)
				}
			case <-groupCtx.Done():
				appLogger.Info("Message event processor worker shutting down.")
				return groupCtx.Err()
			}
		}
	})

	g.Go(func() error {
		if err := scheduler.Start(groupCtx); err != nil {
			return err
		}
		<-groupCtx.Done()
		scheduler.Stop()
		return groupCtx.Err()
	})

	g.Go(func() error {
		appLogger.Info("Starting admin HTTP server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return adminServer.Shutdown(shutdownCtx)
	})

	appLogger.Info("Service components initialized and workers started. Service is ready.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var groupErr error
	select {
	case sig := <-sigCh:
		appLogger.Info("Received termination signal", "signal", sig.String())
	case groupErr = <-watchGroup(g):
		appLogger.Error("A critical component failed, initiating shutdown", "error", groupErr)
	}

	appLogger.Info("Attempting graceful shutdown...")
	mainCancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		appLogger.Error("Error during graceful shutdown of components", "error", err)
	} else if groupErr != nil && !errors.Is(groupErr, context.Canceled) {
		appLogger.Error("Shutdown initiated due to component error", "error", groupErr)
	}

	appLogger.Info("Service shutdown complete.")
}

// watchGroup monitors an errgroup for early exit.
func watchGroup(g *errgroup.Group) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Wait()
	}()
	return errCh
}
