package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/config"
	"github.com/Ramsey-B/clover/internal/repositories/formstore"
	"github.com/Ramsey-B/clover/internal/repositories/matchhistory"
	"github.com/Ramsey-B/clover/internal/repositories/webhookconfig"
	"github.com/Ramsey-B/clover/pkg/automatch"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/fieldmap"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/middleware"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/payload"
	"github.com/Ramsey-B/clover/pkg/routes/configure"
	"github.com/Ramsey-B/clover/pkg/routes/forms"
	"github.com/Ramsey-B/clover/pkg/routes/generate"
	"github.com/Ramsey-B/clover/pkg/routes/health"
	"github.com/Ramsey-B/clover/pkg/routes/matches"
	"github.com/Ramsey-B/clover/pkg/startup"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/Ramsey-B/clover/pkg/webhook"
)

const version = "1.0.0"

func main() {
	// .env is optional, env vars win either way.
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		log.Fatalf("binding config: %v", err)
	}

	zapLogger, err := newZapLogger(cfg)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger := zapadapter.NewZapEctoLogger(zapLogger, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(cfg.AppName))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	mapper, err := fieldmap.New(cfg.FieldMappingsPath)
	if err != nil {
		logger.WithError(err).Error("Loading field mappings failed")
		os.Exit(1)
	}

	store := formstore.NewRepository(cfg.DataDir, logger)
	webhookConfigs := webhookconfig.NewRepository(cfg.ZapierConfigPath, logger)

	matcher := matching.NewMatcher(matching.Config{
		ConfidentThreshold: cfg.ConfidentMatchThreshold,
	})

	var history *matchhistory.Repository
	if cfg.MatchHistoryEnabled {
		history = matchhistory.NewRepository(cfg.DataDir, logger)
		saved, err := history.Load(ctx)
		if err != nil {
			logger.WithError(err).Error("Loading match history failed")
		}
		matcher.LoadHistory(saved)
	}

	var producer *kafka.Producer
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer func() { _ = producer.Close() }()
	}
	emitter := events.NewEmitter(producer, logger)

	builder := payload.NewBuilder(logger)
	trigger := webhook.NewTrigger(webhookConfigs, builder, logger)

	pipeline := automatch.NewService(matcher, store, history, trigger, emitter, logger, automatch.Config{
		Enabled:   cfg.AutoMatchEnabled,
		Threshold: cfg.AutoMatchThreshold,
	})

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		logger.WithError(err).Error("Creating DI container failed")
		os.Exit(1)
	}
	registerDependencies(logger, container, registrations{
		mapper:         mapper,
		store:          store,
		matcher:        matcher,
		pipeline:       pipeline,
		emitter:        emitter,
		webhookConfigs: webhookConfigs,
	})

	checker := health.NewChecker(store, webhookConfigs, version)
	e := newEcho(cfg, logger, container, checker)

	runner := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	runner.AddDependency(&dependency{
		name: "form-storage",
		start: func(ctx context.Context) error {
			if err := store.EnsureDirs(); err != nil {
				return err
			}
			return reloadStoredForms(ctx, store, mapper, matcher, logger)
		},
	})
	runner.AddDependency(&dependency{
		name:      "http-server",
		dependsOn: []string{"form-storage"},
		start: func(ctx context.Context) error {
			go func() {
				if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
					logger.WithError(err).Info("HTTP server stopped")
				}
			}()
			return nil
		},
		stop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})

	if err := runner.Start(ctx); err != nil {
		logger.WithError(err).Error("Startup failed")
		os.Exit(1)
	}
	checker.SetReady(true)
	logger.WithFields(map[string]any{
		"app":  cfg.AppName,
		"port": cfg.Port,
	}).Info("Service started")

	<-ctx.Done()
	logger.Info("Shutting down")
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := runner.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown failed")
	}
}

func newZapLogger(cfg config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = level
	return zapCfg.Build()
}

func newEcho(cfg config.Config, logger ectologger.Logger, container ectocontainer.DIContainer, checker *health.Checker) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Inject(func(ctx context.Context) context.Context {
		ctx, _ = ectoinject.SetActiveContainer(ctx, container.GetContainerID())
		return ctx
	}))

	g := e.Group("")
	forms.Register(g)
	matches.Register(g)
	generate.Register(g)
	configure.Register(g)

	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

type registrations struct {
	mapper         *fieldmap.Mapper
	store          *formstore.Repository
	matcher        *matching.Matcher
	pipeline       *automatch.Service
	emitter        *events.Emitter
	webhookConfigs *webhookconfig.Repository
}

func registerDependencies(logger ectologger.Logger, container ectocontainer.DIContainer, deps registrations) {
	mustRegister(logger, container, deps.mapper)
	mustRegister(logger, container, deps.store)
	mustRegister(logger, container, deps.matcher)
	mustRegister(logger, container, deps.pipeline)
	mustRegister(logger, container, deps.emitter)
	mustRegister(logger, container, deps.webhookConfigs)
}

func mustRegister[T any](logger ectologger.Logger, container ectocontainer.DIContainer, instance T) {
	if err := ectoinject.RegisterInstance[T](container, instance); err != nil {
		logger.WithError(err).Errorf("Registering %T failed", instance)
		os.Exit(1)
	}
}

// reloadStoredForms feeds every previously stored submission back into
// the matcher so restarts do not lose pending pairings.
func reloadStoredForms(ctx context.Context, store *formstore.Repository, mapper *fieldmap.Mapper, matcher *matching.Matcher, logger ectologger.Logger) error {
	factFinds, err := store.LoadAll(ctx, formstore.FactFind)
	if err != nil {
		return err
	}
	for _, form := range factFinds {
		if _, err := matcher.AddFactFind(models.NewFactFind(form.Raw, mapper)); err != nil {
			logger.WithContext(ctx).WithError(err).WithField("path", form.Path).Error("Skipping stored fact find")
		}
	}

	automationForms, err := store.LoadAll(ctx, formstore.AutomationForm)
	if err != nil {
		return err
	}
	for _, form := range automationForms {
		if _, err := matcher.AddAutomationForm(models.NewAutomationForm(form.Raw, mapper)); err != nil {
			logger.WithContext(ctx).WithError(err).WithField("path", form.Path).Error("Skipping stored automation form")
		}
	}

	stats := matcher.Statistics()
	metrics.StoredFormsGauge.WithLabelValues(string(formstore.FactFind)).Set(float64(stats.TotalFactFinds))
	metrics.StoredFormsGauge.WithLabelValues(string(formstore.AutomationForm)).Set(float64(stats.TotalAutomationForms))

	logger.WithContext(ctx).WithFields(map[string]any{
		"fact_finds":       stats.TotalFactFinds,
		"automation_forms": stats.TotalAutomationForms,
	}).Info("Reloaded stored forms")
	return nil
}

// dependency adapts plain funcs to the startup runner interface.
type dependency struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func (d *dependency) GetName() string     { return d.name }
func (d *dependency) DependsOn() []string { return d.dependsOn }

func (d *dependency) Start(ctx context.Context) error {
	if d.start == nil {
		return nil
	}
	return d.start(ctx)
}

func (d *dependency) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	return d.stop(ctx)
}
