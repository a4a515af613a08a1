package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atang-sp/flying-chess/internal/settings"

	"go.uber.org/zap"
)

var (
	ErrInvalidImport = errors.New("import data failed validation")
	ErrNoBackup      = errors.New("no backup found")
)

// ImportOptions controls Import.
type ImportOptions struct {
	// SkipValidation applies the data without ValidateImport.
	SkipValidation bool
	// BackupCurrent copies the current cache to the backup slot first.
	BackupCurrent bool
}

// DefaultImportOptions validates and backs up.
var DefaultImportOptions = ImportOptions{BackupCurrent: true}

// ImportResult reports what an import did. Board is set when the file
// carried a pre-built board; it is not stored in the cache.
type ImportResult struct {
	Data     ExportData    `json:"data"`
	Warnings []string      `json:"warnings"`
	Board    *BoardContent `json:"boardContent,omitempty"`
	BackedUp bool          `json:"backedUp"`
}

// Import validates raw and applies its sections to the cache. Validation
// errors refuse the import; warnings are passed through in the result.
func (t *Transfer) Import(ctx context.Context, raw []byte, opts ImportOptions) (ImportResult, error) {
	var res ImportResult
	if !opts.SkipValidation {
		v := ValidateImport(raw)
		if !v.Valid {
			return res, fmt.Errorf("%w: %s", ErrInvalidImport, strings.Join(v.Errors, ", "))
		}
		res.Warnings = append(res.Warnings, v.Warnings...)
	}
	d, err := DecodeJSON(raw)
	if err != nil {
		return res, err
	}
	res.Data = d

	if opts.BackupCurrent {
		res.BackedUp = t.Cache.SaveBackup(ctx)
	}
	t.apply(ctx, d.Data)

	if d.Data.BoardContent != nil {
		res.Board = d.Data.BoardContent
		res.Warnings = append(res.Warnings, "board layout imported; start a new game to play on it")
	}
	t.Logger.Info("settings imported",
		zap.String("version", d.Version),
		zap.Bool("backedUp", res.BackedUp),
		zap.Int("warnings", len(res.Warnings)))
	return res, nil
}

func (t *Transfer) apply(ctx context.Context, d Data) {
	if d.PlayerSettings != nil {
		t.Cache.SavePlayerSettings(ctx, *d.PlayerSettings)
	}
	if d.PunishmentConfig == nil && d.BoardConfig == nil && d.TrapConfig == nil {
		return
	}
	var cfg settings.CachedConfig
	if cur := t.Cache.LoadConfig(ctx); cur != nil {
		cfg = *cur
	}
	if d.PunishmentConfig != nil {
		cfg.Punishment = *d.PunishmentConfig
	}
	if d.BoardConfig != nil {
		cfg.Board = *d.BoardConfig
	}
	if d.TrapConfig != nil {
		cfg.Traps = d.TrapConfig
	}
	t.Cache.SaveConfig(ctx, cfg)
}

// RestoreBackup puts the backed-up settings back into the cache.
func (t *Transfer) RestoreBackup(ctx context.Context) error {
	b := t.Cache.LoadBackup(ctx)
	if b == nil {
		return ErrNoBackup
	}
	var d Data
	if b.Players != nil {
		d.PlayerSettings = b.Players
	}
	if b.Config != nil {
		p, s := b.Config.Punishment, b.Config.Board
		d.PunishmentConfig, d.BoardConfig, d.TrapConfig = &p, &s, b.Config.Traps
	}
	t.apply(ctx, d)
	t.Logger.Info("settings restored from backup")
	return nil
}
