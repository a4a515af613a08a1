// Package settings caches the last used game configuration and player
// names on the device, with an expiry.
package settings

import (
	"context"
	"database/sql"
	"time"

	"github.com/atang-sp/flying-chess/internal/game"
	"github.com/atang-sp/flying-chess/internal/session"

	"go.uber.org/zap"
)

const (
	configKey = "ludo_game_config"
	playerKey = "ludo_player_settings"
	backupKey = "ludo_game_config_backup"

	// DefaultTTL is how long a saved configuration stays valid.
	DefaultTTL = 365 * 24 * time.Hour
)

// CachedConfig is a saved game configuration. SavedAt is in unix
// milliseconds.
type CachedConfig struct {
	Board      game.BoardShape       `json:"boardConfig"`
	Punishment game.PunishmentConfig `json:"punishmentConfig"`
	Traps      []game.TrapAction     `json:"trapConfig"`
	SavedAt    int64                 `json:"savedAt"`
}

// PlayerSettings is the saved seating.
type PlayerSettings struct {
	PlayerCount int      `json:"playerCount"`
	PlayerNames []string `json:"playerNames"`
}

// Backup is a copy of the cache taken before an import overwrote it.
type Backup struct {
	Config    *CachedConfig   `json:"config,omitempty"`
	Players   *PlayerSettings `json:"players,omitempty"`
	CreatedAt int64           `json:"createdAt"`
}

// Cache reads and writes the saved settings. Storage failures are logged
// and otherwise ignored: a failed save is a no-op and a failed load looks
// like nothing was saved.
type Cache struct {
	configs session.Store[CachedConfig]
	players session.Store[PlayerSettings]
	backups session.Store[Backup]

	TTL    time.Duration
	Now    func() time.Time
	Logger *zap.Logger
}

// New returns a Cache over the given stores.
func New(configs session.Store[CachedConfig], players session.Store[PlayerSettings], backups session.Store[Backup], logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		configs: configs,
		players: players,
		backups: backups,
		TTL:     DefaultTTL,
		Now:     time.Now,
		Logger:  logger,
	}
}

// NewMemory returns a Cache that forgets everything when the process exits.
func NewMemory(logger *zap.Logger) *Cache {
	return New(
		session.NewMemoryStore[CachedConfig](),
		session.NewMemoryStore[PlayerSettings](),
		session.NewMemoryStore[Backup](),
		logger,
	)
}

// NewSQLite returns a Cache persisted in db.
func NewSQLite(ctx context.Context, db *sql.DB, logger *zap.Logger) (*Cache, error) {
	configs, err := session.NewSQLiteStore[CachedConfig](ctx, db, "cached_config")
	if err != nil {
		return nil, err
	}
	players, err := session.NewSQLiteStore[PlayerSettings](ctx, db, "player_settings")
	if err != nil {
		return nil, err
	}
	backups, err := session.NewSQLiteStore[Backup](ctx, db, "config_backup")
	if err != nil {
		return nil, err
	}
	return New(configs, players, backups, logger), nil
}

// SaveConfig stores cfg stamped with the current time.
func (c *Cache) SaveConfig(ctx context.Context, cfg CachedConfig) {
	cfg.SavedAt = c.Now().UnixMilli()
	if err := c.configs.Put(ctx, configKey, cfg); err != nil {
		c.Logger.Warn("save config failed", zap.Error(err))
	}
}

// LoadConfig returns the saved configuration, or nil when there is none, it
// has expired or it cannot be read. Expired entries are removed.
func (c *Cache) LoadConfig(ctx context.Context) *CachedConfig {
	cfg, ok, err := c.configs.Get(ctx, configKey)
	if err != nil {
		c.Logger.Warn("load config failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	age := c.Now().Sub(time.UnixMilli(cfg.SavedAt))
	if age > c.TTL {
		c.Logger.Info("cached config expired", zap.Duration("age", age))
		c.ClearConfig(ctx)
		return nil
	}
	return &cfg
}

// ClearConfig removes the saved configuration.
func (c *Cache) ClearConfig(ctx context.Context) {
	if err := c.configs.Delete(ctx, configKey); err != nil {
		c.Logger.Warn("clear config failed", zap.Error(err))
	}
}

func (c *Cache) SavePlayerSettings(ctx context.Context, ps PlayerSettings) {
	if err := c.players.Put(ctx, playerKey, ps); err != nil {
		c.Logger.Warn("save player settings failed", zap.Error(err))
	}
}

func (c *Cache) LoadPlayerSettings(ctx context.Context) *PlayerSettings {
	ps, ok, err := c.players.Get(ctx, playerKey)
	if err != nil {
		c.Logger.Warn("load player settings failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	return &ps
}

// SaveBackup copies the current configuration and player settings into the
// backup slot. It reports false when there was nothing to back up.
func (c *Cache) SaveBackup(ctx context.Context) bool {
	b := Backup{
		Config:    c.LoadConfig(ctx),
		Players:   c.LoadPlayerSettings(ctx),
		CreatedAt: c.Now().UnixMilli(),
	}
	if b.Config == nil && b.Players == nil {
		return false
	}
	if err := c.backups.Put(ctx, backupKey, b); err != nil {
		c.Logger.Warn("save backup failed", zap.Error(err))
		return false
	}
	return true
}

func (c *Cache) LoadBackup(ctx context.Context) *Backup {
	b, ok, err := c.backups.Get(ctx, backupKey)
	if err != nil {
		c.Logger.Warn("load backup failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	return &b
}

func (c *Cache) ClearBackup(ctx context.Context) {
	if err := c.backups.Delete(ctx, backupKey); err != nil {
		c.Logger.Warn("clear backup failed", zap.Error(err))
	}
}

// Setup overlays whatever is saved onto fallback.
func (c *Cache) Setup(ctx context.Context, fallback game.Setup) game.Setup {
	s := fallback
	if cfg := c.LoadConfig(ctx); cfg != nil {
		s.Board = cfg.Board
		s.Punishment = cfg.Punishment
		s.Traps = cfg.Traps
	}
	if ps := c.LoadPlayerSettings(ctx); ps != nil && len(ps.PlayerNames) > 0 {
		s.Players = ps.PlayerNames
	}
	return s
}

// SaveSetup stores the configuration part of s and its player names.
func (c *Cache) SaveSetup(ctx context.Context, s game.Setup) {
	c.SaveConfig(ctx, CachedConfig{Board: s.Board, Punishment: s.Punishment, Traps: s.Traps})
	c.SavePlayerSettings(ctx, PlayerSettings{PlayerCount: len(s.Players), PlayerNames: s.Players})
}
