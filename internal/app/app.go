package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking-system/internal/domain"
	"github.com/metinatakli/cinema-booking-system/internal/inventory"
	"github.com/metinatakli/cinema-booking-system/internal/payment"
	"github.com/metinatakli/cinema-booking-system/internal/repository"
	appvalidator "github.com/metinatakli/cinema-booking-system/internal/validator"
	"github.com/metinatakli/cinema-booking-system/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/stripe/stripe-go/v82"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var (
	version = vcs.Version()
)

type Application struct {
	config         Config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	sessionManager *scs.SessionManager

	userRepo     domain.UserRepository
	movieRepo    domain.MovieRepository
	hallRepo     domain.HallRepository
	showtimeRepo domain.ShowtimeRepository
	bookingRepo  domain.BookingRepository
	paymentRepo  domain.PaymentRepository
	cascadeRepo  domain.CascadeDeletionRepository

	inventory domain.SeatInventory
	gateway   domain.PaymentGateway
}

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
	Hold             HoldConfig
	Stripe           StripeConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type HoldConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type StripeConfig struct {
	SecretKey string
	Currency  string
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.DurationVar(&cfg.Hold.TTL, "hold-ttl", 10*time.Minute, "Seat hold time-to-live")
	flag.DurationVar(&cfg.Hold.SweepInterval, "hold-sweep-interval", time.Minute, "Interval between expired hold sweeps")

	flag.StringVar(&cfg.Stripe.SecretKey, "stripe-key", "", "Stripe secret key")
	flag.StringVar(&cfg.Stripe.Currency, "stripe-currency", "usd", "Charge currency")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, nil)
	if cfg.OtelCollectorUrl != "" {
		// ship logs to the collector alongside stdout
		handler = NewMultiHandler(handler, otelslog.NewHandler("cinema-booking-api"))
	}
	logger := slog.New(handler)

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	var gateway domain.PaymentGateway
	if cfg.Stripe.SecretKey != "" {
		stripe.Key = cfg.Stripe.SecretKey
		gateway = payment.NewStripeGateway(cfg.Stripe.Currency)
	} else {
		logger.Warn("no stripe key configured, using the mock payment gateway")
		gateway = payment.NewMockGateway()
	}

	app := NewApplication(cfg, logger, db, redisClient, gateway)

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go app.RunHoldSweeper(sweeperCtx)

	return app.serve()
}

// NewApplication wires repositories, seat inventory and session handling on
// top of already-connected pools. The integration suite uses it directly
// with containerized backends and the mock gateway.
func NewApplication(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient *redis.Client,
	gateway domain.PaymentGateway) *Application {

	bookingRepo := repository.NewPostgresBookingRepository(db)
	showtimeRepo := repository.NewPostgresShowtimeRepository(db)
	hallRepo := repository.NewPostgresHallRepository(db)

	return &Application{
		config:         cfg,
		logger:         logger,
		db:             db,
		redis:          redisClient,
		validator:      appvalidator.NewValidator(),
		sessionManager: newSessionManager(redisClient),
		userRepo:       repository.NewPostgresUserRepository(db),
		movieRepo:      repository.NewPostgresMovieRepository(db),
		hallRepo:       hallRepo,
		showtimeRepo:   showtimeRepo,
		bookingRepo:    bookingRepo,
		paymentRepo:    repository.NewPostgresPaymentRepository(db),
		cascadeRepo:    repository.NewPostgresCascadeRepository(db),
		inventory:      inventory.NewRedisSeatInventory(redisClient, showtimeRepo, hallRepo, bookingRepo),
		gateway:        gateway,
	}
}

// SeatInventory exposes the inventory for the integration suite's
// concurrency scenarios.
func (app *Application) SeatInventory() domain.SeatInventory {
	return app.inventory
}

func newSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(otelchi.Middleware("cinema-booking-api", otelchi.WithChiRoutes(r)))
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.addRequestLogger)

	r.Get("/health", app.GetHealth)

	r.Post("/users", app.RegisterUser)
	r.Post("/sessions", app.Login)
	r.Delete("/sessions", app.Logout)

	r.Get("/movies", app.GetMovies)
	r.Get("/movies/{movieId}", app.GetMovie)
	r.Get("/movies/{movieId}/showtimes", app.GetMovieShowtimes)

	r.Get("/showtimes/{showtimeId}/seats", app.GetSeatMapByShowtime)
	r.Post("/showtimes/{showtimeId}/holds", app.CreateHoldHandler)
	r.Delete("/holds/{token}", app.ReleaseHoldHandler)

	r.With(app.requireAuthentication).Post("/checkout", app.CheckoutHandler)

	r.With(app.requireAuthentication).Route("/users/me/bookings", func(r chi.Router) {
		r.Get("/", app.GetUserBookingsHandler)
		r.Get("/{bookingId}", app.GetBookingHandler)
	})

	r.With(app.requireAuthentication).Delete("/bookings/{bookingId}", app.CancelBookingHandler)

	r.With(app.requireAuthentication, app.requireAdmin).Route("/admin", func(r chi.Router) {
		r.Delete("/movies/{movieId}", app.DeleteMovieHandler)
		r.Delete("/halls/{hallId}", app.DeleteHallHandler)
		r.Delete("/showtimes/{showtimeId}", app.DeleteShowtimeHandler)
	})

	return r
}
