package app

import (
	"context"
	"fmt"

	"assetmobile/internal/auth"
	"assetmobile/internal/config"
	"assetmobile/internal/domain"
	"assetmobile/internal/navigation"
	"assetmobile/internal/session"
	"assetmobile/internal/storage"
	"assetmobile/pkg/sdk"

	"github.com/rs/zerolog"
)

type Container struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Session    *session.Store
	Client     *sdk.Client
	Navigation *navigation.Map
	Auth       *auth.Service
}

func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Container, error) {
	kv, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(kv, logger.With().Str("component", "session").Logger())

	client := sdk.NewClient(cfg.PrimaryURL,
		sdk.WithFallbacks(cfg.FallbackURLs...),
		sdk.WithTimeout(cfg.Timeout()),
		sdk.WithHealthPath(cfg.HealthPath),
		sdk.WithDefaultToken(cfg.DefaultToken),
		sdk.WithTokenSource(store),
		sdk.WithLogger(logger.With().Str("component", "sdk").Logger()),
	)

	nav := navigation.NewMap(client, store, logger.With().Str("component", "navigation").Logger())

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Session:    store,
		Client:     client,
		Navigation: nav,
		Auth:       auth.NewService(client, store, nav, logger.With().Str("component", "auth").Logger()),
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (domain.KeyValueStore, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		store, err := storage.NewGormStore(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("could not open session database: %w", err)
		}
		return store, nil
	case config.BackendRedis:
		client, err := storage.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Timeout())
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis: %w", err)
		}
		return storage.NewRedisStore(client, ""), nil
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// RemoteLanguage reads the language the server holds for the signed-in user.
func (c *Container) RemoteLanguage(ctx context.Context) (string, error) {
	user, err := c.Client.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	return domain.UserProfile(user).LanguageCode(), nil
}

// WatchLanguage starts the language poller; it stops with Close.
func (c *Container) WatchLanguage(ctx context.Context, onChange func(string)) (*session.LanguageWatcher, error) {
	return c.Session.WatchLanguage(ctx, session.WatcherOptions{
		Interval: c.Config.PollInterval(),
		Remote:   c.RemoteLanguage,
		OnChange: onChange,
	})
}

func (c *Container) Close() error {
	return c.Session.Close()
}
