package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/commands"
	availabilityapp "github.com/Ishaq74/tetouanluxury-sub001/internal/app/handlers/availability"
	bookingapp "github.com/Ishaq74/tetouanluxury-sub001/internal/app/handlers/booking"
	villasapp "github.com/Ishaq74/tetouanluxury-sub001/internal/app/handlers/villas"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/middleware"
	appoutbox "github.com/Ishaq74/tetouanluxury-sub001/internal/app/outbox"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/policies"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/queries"
	authsvc "github.com/Ishaq74/tetouanluxury-sub001/internal/app/services/auth"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/uow"
	domainpricing "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/pricing"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/money"
	domainuser "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/user"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/infra/broker/kafka"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/infra/config"
	mongostore "github.com/Ishaq74/tetouanluxury-sub001/internal/infra/db/mongo"
	ginserver "github.com/Ishaq74/tetouanluxury-sub001/internal/infra/http/gin"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/infra/notify"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/infra/obs"
	infraoutbox "github.com/Ishaq74/tetouanluxury-sub001/internal/infra/outbox"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/infra/security"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/infra/storage/memory"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: app.ready}, app.handlers)

	fixturesPath := cfg.VillaFixtures
	if fixturesPath == "" {
		fixturesPath = filepath.Join("data", "villas.json")
	}
	if err := app.loadVillaFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("villa fixtures load failed", "error", err, "path", fixturesPath)
	}

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "backend", app.backend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	worker   *infraoutbox.Worker
	backend  string

	uowFactory uow.Factory
	villas     domainvilla.Repository
	currency   string
	producer   *kafka.Producer
	mongo      *mongostore.Client
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	policy, err := ratePolicyFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("rate policy: %w", err)
	}
	calculator := domainpricing.NewSeasonalCalculator(policy)
	pricingPort := policies.CalculatorAdapter{Calculator: calculator}

	app := &application{backend: "memory", currency: cfg.Currency}

	var (
		uowFactory  uow.Factory
		villaRepo   domainvilla.Repository
		userRepo    domainuser.Repository
		outboxStore infraoutbox.Store
	)
	if cfg.UseMongo() {
		client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		app.mongo = client
		app.backend = "mongo"

		users := mongostore.NewUserRepository(client.DB)
		if err := users.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		villaRepo = mongostore.NewVillaRepository(client.DB)
		userRepo = users
		outboxStore = mongostore.NewOutboxStore(client.DB)
		uowFactory = mongostore.Factory{
			DB:          client.DB,
			VillaRepo:   villaRepo,
			BookingRepo: mongostore.NewBookingRepository(client.DB),
			UserRepo:    userRepo,
			PricingSvc:  calculator,
		}
	} else {
		villas := memory.NewVillaRepository()
		bookings := memory.NewBookingRepository()
		users := memory.NewUserRepository()
		villaRepo, userRepo = villas, users
		outboxStore = memory.NewOutboxStore()
		uowFactory = &memory.Factory{
			Villas:   villas,
			Bookings: bookings,
			Users:    users,
			Pricing:  calculator,
		}
	}
	app.uowFactory = uowFactory
	app.villas = villaRepo

	stage := infraoutbox.NewStage(outboxStore)
	encoder := appoutbox.JSONEventEncoder{}
	idempotencyStore := memory.NewIdempotencyStore()
	notifier := notify.LogNotifier{Logger: logger}

	commandBus := commands.NewInMemoryBus()
	requestHandler := &bookingapp.RequestBookingHandler{
		UoWFactory: uowFactory,
		Pricing:    pricingPort,
		Outbox:     stage,
		Encoder:    encoder,
	}
	commands.Register(commandBus, bookingapp.RequestBookingCommand{}.Key(), requestHandler)
	bookingapp.RegisterTransitions(commandBus, &bookingapp.TransitionHandler{
		Outbox:   stage,
		Encoder:  encoder,
		Notifier: notifier,
	})
	villasapp.RegisterManagement(commandBus, &villasapp.ManageHandler{
		Outbox:  stage,
		Encoder: encoder,
	})

	queryBus := queries.NewInMemoryBus()
	queries.Register(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{UoWFactory: uowFactory})
	queries.Register(queryBus, villasapp.CatalogQuery{}.Key(), &villasapp.CatalogHandler{UoWFactory: uowFactory})
	queries.Register(queryBus, villasapp.DetailQuery{}.Key(), &villasapp.DetailHandler{UoWFactory: uowFactory})
	queries.Register(queryBus, bookingapp.GuestBookingsQuery{}.Key(), &bookingapp.GuestBookingsHandler{UoWFactory: uowFactory})
	queries.Register(queryBus, bookingapp.BookingDetailQuery{}.Key(), &bookingapp.BookingDetailHandler{UoWFactory: uowFactory})
	queries.Register(queryBus, bookingapp.AccessCodeQuery{}.Key(), &bookingapp.AccessCodeHandler{UoWFactory: uowFactory})

	commandPipeline := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idempotencyStore, nil),
		middleware.Transaction(uowFactory),
		middleware.OutboxFlush(stage),
	)
	queryPipeline := middleware.ChainQueries(queryBus)

	authService := &authsvc.Service{
		Users:      userRepo,
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	var uploader s3.Uploader = s3.NoopUploader{}
	if cfg.S3Endpoint != "" {
		client, err := s3.NewClient(s3.Options{
			Endpoint:      cfg.S3Endpoint,
			UseSSL:        cfg.S3UseSSL,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("s3: %w", err)
		}
		uploader = client
	}

	if cfg.UseKafka() {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, fmt.Errorf("kafka: %w", err)
		}
		app.producer = producer
		app.worker = &infraoutbox.Worker{
			Store:        outboxStore,
			Publisher:    &kafka.EventPublisher{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix},
			Logger:       logger,
			PollInterval: cfg.OutboxPollInterval,
			RetryBackoff: cfg.RetryBackoff,
		}
	}

	app.handlers = ginserver.Handlers{
		Villa:          ginserver.VillaHandler{Queries: queryPipeline, Logger: logger},
		Availability:   ginserver.AvailabilityHandler{Queries: queryPipeline, Logger: logger},
		Booking:        ginserver.BookingHandler{Commands: commandPipeline, Logger: logger},
		Me:             ginserver.MeHandler{Queries: queryPipeline, Logger: logger},
		Admin:          ginserver.AdminHandler{Commands: commandPipeline, Uploader: uploader, Logger: logger},
		Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}
	return app, nil
}

func (a *application) ready() error {
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return a.mongo.Ping(ctx)
	}
	return nil
}

func (a *application) close(logger *slog.Logger) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := a.mongo.Close(ctx); err != nil {
			logger.Warn("mongo disconnect failed", "error", err)
		}
	}
}

func ratePolicyFromConfig(cfg config.Config) (domainpricing.RatePolicy, error) {
	base := domainpricing.DefaultPolicy(cfg.Currency)
	return domainpricing.NewRatePolicy(
		base.Bands,
		cfg.LongStayNights,
		cfg.LongStayDiscountBP,
		money.Must(cfg.CleaningFeeCents, cfg.Currency),
		cfg.TaxBP,
	)
}

type villaFixture struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	NightlyCents int64    `json:"nightly_cents"`
	Currency     string   `json:"currency"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	MaxGuests    int      `json:"max_guests"`
	HasPool      bool     `json:"has_pool"`
	PhotoURLs    []string `json:"photo_urls"`
}

// loadVillaFixtures seeds the catalog for local and demo runs. Existing
// villas keep their state: a fixture never overwrites a live record.
func (a *application) loadVillaFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("villa fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []villaFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	for _, fx := range fixtures {
		id := fx.ID
		if id == "" {
			id = uuid.NewString()
		}
		if existing, err := a.villas.ByID(ctx, domainvilla.ID(id)); err == nil && existing != nil {
			continue
		}
		if fx.Currency == "" {
			fx.Currency = a.currency
		}
		v, err := domainvilla.New(domainvilla.CreateParams{
			ID:          domainvilla.ID(id),
			Slug:        fx.Slug,
			Name:        fx.Name,
			Description: fx.Description,
			NightlyRate: money.Money{Amount: fx.NightlyCents, Currency: fx.Currency},
			Bedrooms:    fx.Bedrooms,
			Bathrooms:   fx.Bathrooms,
			MaxGuests:   fx.MaxGuests,
			HasPool:     fx.HasPool,
			PhotoURLs:   fx.PhotoURLs,
			Now:         now,
		})
		if err != nil {
			logger.Error("fixture invalid", "villa_id", id, "error", err)
			continue
		}
		v.ClearEvents()
		if err := a.villas.Save(ctx, v); err != nil {
			logger.Error("cannot store fixture villa", "villa_id", id, "error", err)
			continue
		}
		logger.Info("villa fixture imported", "villa_id", v.ID, "slug", v.Slug)
	}
	return nil
}
