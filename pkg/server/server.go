// Package server assembles the fern API: configuration, logging, tracing,
// storage, cache, broker, dependency container, and the echo routes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/internal/repositories/item"
	"github.com/Ramsey-B/fern/internal/repositories/record"
	"github.com/Ramsey-B/fern/internal/repositories/term"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/evaluators"
	"github.com/Ramsey-B/fern/pkg/ingest"
	"github.com/Ramsey-B/fern/pkg/items"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/logtrail"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/processor"
	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/routes/health"
	"github.com/Ramsey-B/fern/pkg/routes/migration"
	"github.com/Ramsey-B/fern/pkg/routes/parsetest"
	"github.com/Ramsey-B/fern/pkg/routes/recorddelete"
	"github.com/Ramsey-B/fern/pkg/routes/reference"
	"github.com/Ramsey-B/fern/pkg/startup"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type Server struct {
	config  *config.Config
	logger  ectologger.Logger
	echo    *echo.Echo
	health  *health.Checker
	startup *startup.Startup

	db          database.DB
	redisClient *redis.Client
	producer    *kafka.Producer

	shutdownTracing func(context.Context) error
}

// Version is stamped at build time.
var Version = "dev"

func New(cfg *config.Config, logger ectologger.Logger) *Server {
	evaluators.RegisterAll()

	return &Server{
		config:  cfg,
		logger:  logger,
		startup: startup.New(logger, cfg.StartupMaxAttempts),
	}
}

// Start brings the service up: tracing, database (with migrations), redis,
// kafka, the dependency container, and finally the HTTP listener. Blocks
// until the listener exits.
func (s *Server) Start(ctx context.Context) error {
	s.startup.AddDependency(&dependency{
		name:  "tracing",
		start: s.startTracing,
		stop:  s.stopTracing,
	})
	s.startup.AddDependency(&dependency{
		name:  "database",
		start: s.startDatabase,
		stop:  s.stopDatabase,
	})
	s.startup.AddDependency(&dependency{
		name:      "redis",
		dependsOn: []string{"database"},
		start:     s.startRedis,
		stop:      s.stopRedis,
	})
	s.startup.AddDependency(&dependency{
		name:  "kafka",
		start: s.startKafka,
		stop:  s.stopKafka,
	})
	s.startup.AddDependency(&dependency{
		name:      "container",
		dependsOn: []string{"database", "redis", "kafka"},
		start:     s.startContainer,
		stop:      func(context.Context) error { return nil },
	})

	if err := s.startup.Start(ctx); err != nil {
		return err
	}

	s.buildEcho()
	s.health.SetReady(true)

	err := s.echo.Start(fmt.Sprintf(":%d", s.config.Port))
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the listener down and releases dependencies in reverse order.
func (s *Server) Stop(ctx context.Context) error {
	if s.health != nil {
		s.health.SetReady(false)
	}
	if s.echo != nil {
		if err := s.echo.Shutdown(ctx); err != nil {
			s.logger.WithContext(ctx).WithError(err).Error("Failed to shut down http server")
		}
	}
	return s.startup.Stop(ctx)
}

func (s *Server) startTracing(ctx context.Context) error {
	if !s.config.TracingEnabled {
		return nil
	}
	shutdown, err := tracing.Init(ctx, s.config.AppName, tracing.ExporterConfig{
		Endpoint: s.config.TracingOTLPEndpoint,
		Protocol: s.config.TracingOTLPProtocol,
		Insecure: s.config.TracingInsecure,
	})
	if err != nil {
		return err
	}
	s.shutdownTracing = shutdown
	return nil
}

func (s *Server) stopTracing(ctx context.Context) error {
	if s.shutdownTracing == nil {
		return nil
	}
	return s.shutdownTracing(ctx)
}

func (s *Server) startDatabase(ctx context.Context) error {
	db, err := database.Connect(ctx, database.ConnectionConfig{
		Host:            s.config.DatabaseHost,
		Port:            s.config.DatabasePort,
		User:            s.config.DatabaseUserName,
		Password:        s.config.DatabasePassword,
		Name:            s.config.DatabaseName,
		SSLMode:         s.config.DatabaseSSLMode,
		MaxOpenConns:    s.config.DatabaseMaxOpenConns,
		MaxIdleConns:    s.config.DatabaseMaxIdleConns,
		ConnMaxLifetime: s.config.DatabaseConnMaxLifetime,
	}, s.logger)
	if err != nil {
		return err
	}
	s.db = db

	instance, ok := db.(*database.DatabaseInstance)
	if !ok {
		return fmt.Errorf("unexpected database instance type %T", db)
	}
	driver, err := postgres.WithInstance(instance.DB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	migrations := database.NewMigrationService(s.logger, &database.MigrationConfig{
		MigrationFolderPath: s.config.DatabaseMigrationFolderPath,
		Version:             uint(s.config.DatabaseMigrationVersion),
		Force:               s.config.DatabaseMigrationForce,
	})
	return migrations.Migrate(s.config.DatabaseName, driver)
}

func (s *Server) stopDatabase(context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Server) startRedis(context.Context) error {
	client, err := redis.NewClient(redis.Config{
		Host:     s.config.RedisHost,
		Port:     s.config.RedisPort,
		Password: s.config.RedisPassword,
		DB:       s.config.RedisDB,
	}, s.logger)
	if err != nil {
		return err
	}
	s.redisClient = client
	return nil
}

func (s *Server) stopRedis(context.Context) error {
	if s.redisClient == nil {
		return nil
	}
	return s.redisClient.Close()
}

func (s *Server) startKafka(context.Context) error {
	if !s.config.KafkaProducerEnabled {
		return nil
	}
	s.producer = kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      s.config.KafkaBrokers,
		Topic:        s.config.KafkaOutputTopic,
		BatchSize:    s.config.KafkaBatchSize,
		BatchTimeout: time.Duration(s.config.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: s.config.KafkaRequiredAcks,
		Compression:  s.config.KafkaCompression,
	}, s.logger)
	return nil
}

func (s *Server) stopKafka(context.Context) error {
	if s.producer == nil {
		return nil
	}
	return s.producer.Close()
}

func (s *Server) startContainer(context.Context) error {
	recordRepo := record.NewRepository(s.db, s.logger)
	itemRepo := item.NewRepository(s.db, s.logger)
	termRepo := term.NewRepository(s.db, s.logger)

	trail := logtrail.NewWithCap(s.config.IngestLogCap)
	driver := ingest.NewDriver(s.logger)
	newResolver := func() *items.Resolver {
		return items.NewResolver(s.redisClient, s.config.RedisItemTTL, itemRepo, s.logger)
	}

	var publisher processor.BatchPublisher
	if s.producer != nil {
		publisher = s.producer
	}
	proc := processor.NewProcessor(driver, newResolver, recordRepo, publisher, trail, s.logger)

	return registerDependencies(s.logger, recordRepo, itemRepo, termRepo, proc)
}

func (s *Server) buildEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = time.Duration(s.config.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(s.config.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(s.config.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = s.config.MaxHeaderBytes
	e.HTTPErrorHandler = middleware.Error(s.logger)

	e.Use(echomw.Recover())
	if s.config.TracingEnabled {
		e.Use(otelecho.Middleware(s.config.AppName))
	}
	e.Use(middleware.Context())
	e.Use(middleware.Logger(s.logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: s.config.AllowOrigins,
		AllowMethods: s.config.AllowMethods,
	}))
	if s.config.AuthEnabled {
		e.Use(middleware.APIKeyAuth(s.config.AuthAPIKey))
	}

	api := e.Group("/api/v1")
	recorddelete.Register(api.Group("/records/delete"))
	migration.Register(api.Group("/migrations"))
	parsetest.Register(api.Group("/parse/test"))
	reference.Register(api.Group("/reference"))

	s.health = health.NewChecker(s.db, s.redisClient, Version)
	s.health.RegisterRoutes(e)

	s.echo = e
}

type dependency struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func (d *dependency) GetName() string { return d.name }

func (d *dependency) DependsOn() []string { return d.dependsOn }

func (d *dependency) Start(ctx context.Context) error { return d.start(ctx) }

func (d *dependency) Stop(ctx context.Context) error { return d.stop(ctx) }
