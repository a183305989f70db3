package main

import (
	"context"
	"log/slog"
	"syscall"

	evbus "github.com/vardius/message-bus"

	"github.com/VictorCainj/doc-forge-audit/internal"
	"github.com/VictorCainj/doc-forge-audit/internal/adapters"
	"github.com/VictorCainj/doc-forge-audit/internal/app/api/core"
	handlersV0 "github.com/VictorCainj/doc-forge-audit/internal/app/api/v0/handlers"
	"github.com/VictorCainj/doc-forge-audit/internal/app/audit"
	"github.com/VictorCainj/doc-forge-audit/internal/app/notify"
	"github.com/VictorCainj/doc-forge-audit/internal/app/security"
	"github.com/VictorCainj/doc-forge-audit/internal/config"
)

func main() {
	ctx := internal.SignalAwareContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.GetConfig()
	internal.AssertNoError(err)

	internal.SetupLogging(cfg.Advanced.LogLevel, cfg.Advanced.LogJson)

	slog.Info("starting audit pipeline", "version", internal.Version)

	rawDb, err := adapters.NewDatabase(cfg.Database)
	internal.AssertNoError(err)

	database, err := adapters.NewSqlRepository(rawDb)
	internal.AssertNoError(err)

	queueSize := 100
	eventBus := evbus.New(queueSize)

	var metrics *adapters.MetricsServer
	if cfg.Statistics.ListeningAddress != "" {
		metrics = adapters.NewMetricsServer(cfg)
		go metrics.Run(ctx)
	}

	recorder, err := audit.NewRecorder(cfg, eventBus, database)
	internal.AssertNoError(err)
	if metrics != nil {
		recorder.WithMetrics(metrics)
	}
	recorder.StartBackgroundJobs(ctx)

	auditManager := audit.NewManager(database)

	var mailer notify.EmailSender
	if cfg.Mail.Host != "" {
		mailer = adapters.NewSmtpMailRepo(cfg.Mail)
	}
	var chat notify.ChatSender
	if c := notify.NewChatClient(cfg.Webhook); c != nil {
		chat = c
	}
	local := notify.NewBusNotifier(eventBus)

	dispatcher, err := notify.NewDispatcher(cfg, mailer, chat, local)
	internal.AssertNoError(err)
	if metrics != nil {
		dispatcher.WithMetrics(metrics)
	}

	alerts := security.NewAlertManager()
	detectors := security.NewDetectors(cfg.Security, database)

	monitor := security.NewMonitor(cfg, eventBus, detectors, alerts, dispatcher, recorder)
	if metrics != nil {
		monitor.WithMetrics(metrics)
	}
	monitor.Start(ctx)

	apiFrontend := handlersV0.NewRestApi(
		handlersV0.NewAuditEndpoint(auditManager),
		handlersV0.NewSecurityEndpoint(monitor),
	)

	webSrv, err := core.NewServer(cfg, apiFrontend)
	internal.AssertNoError(err)

	go webSrv.Run(ctx, cfg.Web.ListeningAddress)

	// wait until context gets cancelled
	<-ctx.Done()

	monitor.Stop()

	slog.Info("stopped audit pipeline")
}
