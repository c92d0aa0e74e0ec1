// Package server wires configuration, storage, the token machinery and both
// transports into a runnable process, and shuts them down on a signal.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/readlist/internal/logging"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"github.com/dmitrijs2005/readlist/internal/server/config"
	"github.com/dmitrijs2005/readlist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/readlist/internal/server/rest"
	"github.com/dmitrijs2005/readlist/internal/server/services"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/readlist/internal/server/grpc"
)

const (
	redisConnectAttempts = 5
	redisConnectInterval = time.Second
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  redis.UniversalClient
	svc    *serviceSet
}

type serviceSet struct {
	sessions *services.SessionService
	accounts *services.AccountService
	books    *services.BookService
}

// newServiceSet builds the services on top of an open database. rdb may be
// nil, which disables logout.
func newServiceSet(c *config.Config, db *sql.DB, rm repomanager.RepositoryManager, rdb redis.UniversalClient) (*serviceSet, error) {
	codec, err := auth.NewTokenCodec(auth.TokenConfig{
		Secret:    c.SecretKey,
		Algorithm: c.SigningAlgorithm,
		TTL:       c.AccessTokenValidityDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	passwords := auth.NewPasswordPolicy(c.BcryptCost)

	authenticator, err := services.NewAuthenticator(db, rm, passwords)
	if err != nil {
		return nil, fmt.Errorf("authenticator: %w", err)
	}

	var denylist auth.Denylist
	if rdb != nil {
		denylist = auth.NewRedisDenylist(rdb)
	}

	return &serviceSet{
		sessions: services.NewSessionService(db, rm, passwords, authenticator, codec, denylist),
		accounts: services.NewAccountService(db, rm, passwords),
		books:    services.NewBookService(db, rm),
	}, nil
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewApp validates c, connects to PostgreSQL (and Redis when configured),
// applies migrations and builds the services. Logs go to out.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSONLogger(out, c.LogLevel)
	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "signing tokens with the built-in development secret, set SECRET_KEY")
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	var rdb redis.UniversalClient
	if c.RedisURL != "" {
		client, err := auth.ConnectRedis(ctx, c.RedisURL, redisConnectAttempts, redisConnectInterval)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		rdb = client
	} else {
		logger.Warn(ctx, "REDIS_URL not set, logout is disabled")
	}

	svc, err := newServiceSet(c, db, rm, rdb)
	if err != nil {
		_ = db.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, err
	}

	return &App{config: c, logger: logger, db: db, redis: rdb, svc: svc}, nil
}

// notifyContext is a test seam for signal.NotifyContext.
var notifyContext = signal.NotifyContext

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := rest.NewServer(app.config.EndpointAddrHTTP, app.logger, app.svc.sessions, app.svc.accounts, app.svc.books, app.config.ShutdownTimeout)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.svc.sessions, app.svc.accounts, app.svc.books)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return fmt.Errorf("grpc server: %w", err)
	}
	return nil
}

// Run serves HTTP and gRPC until ctx is cancelled, a termination signal
// arrives or either server fails, then releases the database and Redis.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := notifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, start := range []func(context.Context, context.CancelFunc) error{app.startHTTPServer, app.startGRPCServer} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := start(ctx, cancelFunc); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	app.logger.Info(context.Background(), "Servers stopped, releasing resources")
	errs = append(errs, app.Close())
	return errors.Join(errs...)
}

// Close releases the database pool and the Redis client.
func (app *App) Close() error {
	var errs []error
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	return errors.Join(errs...)
}
