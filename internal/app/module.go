package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"chatterm/internal/bus"
	"chatterm/internal/chat"
	"chatterm/internal/config"
	"chatterm/internal/friend"
	"chatterm/internal/identity"
	"chatterm/internal/kv"
	"chatterm/internal/lock"
	"chatterm/internal/logging"
	"chatterm/internal/profile"
	"chatterm/internal/store"
	"chatterm/internal/tui"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	Profile string
}

// Module returns the fx module for the client, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("chatterm",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			provideKV,
			provideStore,
			provideSession,
			provideChat,
			provideFriend,
			provideTUI,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() *config.Config {
	// Missing or unreadable config falls back to defaults.
	cfg, err := config.Load(profile.ConfigPath())
	if err != nil {
		return &config.Config{}
	}
	return cfg
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.Profile), p.Profile)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.Profile))
	l, err := lock.Acquire(profile.Dir(p.Profile))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideKV() kv.Store {
	return kv.NewMemory()
}

func provideStore(logger *zap.Logger) (*store.DB, error) {
	db, err := store.Open(store.InMemory)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	count, err := db.UserCount()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("directory seeded",
		zap.Uint("version", result.Version),
		zap.Int64("users", count))
	return db, nil
}

func provideSession(db *store.DB, slots kv.Store, b *bus.Bus, logger *zap.Logger, cfg *config.Config) *identity.Manager {
	return identity.NewManager(db, slots, b, logger, cfg.Simulation.SignInDelay())
}

func provideChat(db *store.DB, session *identity.Manager, slots kv.Store, b *bus.Bus, logger *zap.Logger, cfg *config.Config) (*chat.Manager, error) {
	contacts, err := seedContacts(db)
	if err != nil {
		return nil, err
	}
	opts := chat.Options{
		ReplyDelayMin: cfg.Simulation.ReplyDelayMin(),
		ReplyDelayMax: cfg.Simulation.ReplyDelayMax(),
		TypingQuiet:   cfg.Simulation.TypingQuiet(),
		Seed:          seedConversations(),
	}
	return chat.NewManager(contacts, session, slots, b, logger, opts), nil
}

func provideFriend(db *store.DB, session *identity.Manager, b *bus.Bus, logger *zap.Logger) (*friend.Manager, error) {
	return friend.NewManager(db, session, b, logger, seedRelationships())
}

func provideTUI(p Params, session *identity.Manager, chats *chat.Manager, friends *friend.Manager, b *bus.Bus, logger *zap.Logger) *tui.App {
	return tui.NewApp(session, chats, friends, b, logger, p.Profile)
}

func registerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, app *tui.App, chats *chat.Manager, friends *friend.Manager, lk *lock.Lock, db *store.DB, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := app.Run(); err != nil {
					logger.Error("tui exited", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			app.Stop()
			chats.Close()
			friends.Close()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
