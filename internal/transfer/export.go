// Package transfer moves game settings and boards between devices as JSON
// files or QR code images.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/atang-sp/flying-chess/internal/game"
	"github.com/atang-sp/flying-chess/internal/settings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Version is written into every export and checked on import.
	Version = "1.0.0"

	gameTitle   = "Flying Chess settings"
	description = "Game configuration export"
)

// ExportOptions selects the sections to export.
type ExportOptions struct {
	PlayerSettings   bool `json:"playerSettings"`
	PunishmentConfig bool `json:"punishmentConfig"`
	BoardConfig      bool `json:"boardConfig"`
	TrapConfig       bool `json:"trapConfig"`
	BoardContent     bool `json:"boardContent"`
}

// AllSections exports everything.
var AllSections = ExportOptions{true, true, true, true, true}

// BoardContent is a pre-built board. GeneratedAt is in unix milliseconds.
type BoardContent struct {
	Seed        string      `json:"seed"`
	Board       []game.Cell `json:"board"`
	GeneratedAt int64       `json:"generatedAt"`
}

// Data holds the exported sections; absent sections are nil.
type Data struct {
	PlayerSettings   *settings.PlayerSettings `json:"playerSettings,omitempty"`
	PunishmentConfig *game.PunishmentConfig   `json:"punishmentConfig,omitempty"`
	BoardConfig      *game.BoardShape         `json:"boardConfig,omitempty"`
	TrapConfig       []game.TrapAction        `json:"trapConfig,omitempty"`
	BoardContent     *BoardContent            `json:"boardContent,omitempty"`
}

// ExportData is the exported document.
type ExportData struct {
	Version     string `json:"version"`
	ExportedAt  string `json:"exportedAt"`
	GameTitle   string `json:"gameTitle"`
	Description string `json:"description,omitempty"`
	Data        Data   `json:"data"`
}

// Transfer exports from and imports into one settings cache.
type Transfer struct {
	Cache  *settings.Cache
	Now    func() time.Time
	Logger *zap.Logger
}

func New(cache *settings.Cache, logger *zap.Logger) *Transfer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transfer{Cache: cache, Now: time.Now, Logger: logger}
}

// Snapshot copies board into a BoardContent with a fresh seed.
func Snapshot(board []game.Cell, now time.Time) *BoardContent {
	// Cells hold only value types, so copying the slice copies everything.
	return &BoardContent{
		Seed:        uuid.NewString(),
		Board:       append([]game.Cell(nil), board...),
		GeneratedAt: now.UnixMilli(),
	}
}

// Collect gathers the selected sections from the cache. The board is only
// included when opts asks for it and board is not empty.
func (t *Transfer) Collect(ctx context.Context, opts ExportOptions, board []game.Cell) ExportData {
	now := t.Now()
	var d Data
	if opts.PlayerSettings {
		d.PlayerSettings = t.Cache.LoadPlayerSettings(ctx)
	}
	if cfg := t.Cache.LoadConfig(ctx); cfg != nil {
		if opts.PunishmentConfig {
			p := cfg.Punishment
			d.PunishmentConfig = &p
		}
		if opts.BoardConfig {
			b := cfg.Board
			d.BoardConfig = &b
		}
		if opts.TrapConfig {
			d.TrapConfig = cfg.Traps
		}
	}
	if opts.BoardContent && len(board) > 0 {
		d.BoardContent = Snapshot(board, now)
	}
	return ExportData{
		Version:     Version,
		ExportedAt:  now.UTC().Format(time.RFC3339),
		GameTitle:   gameTitle,
		Description: description,
		Data:        d,
	}
}

// ParseSections reads a comma separated section list using the same names
// as Filename. An empty list selects everything.
func ParseSections(list string) (ExportOptions, error) {
	list = strings.TrimSpace(list)
	if list == "" || list == "all" {
		return AllSections, nil
	}
	var opts ExportOptions
	for _, name := range strings.Split(list, ",") {
		switch strings.TrimSpace(name) {
		case "players":
			opts.PlayerSettings = true
		case "punishments":
			opts.PunishmentConfig = true
		case "board":
			opts.BoardConfig = true
		case "traps":
			opts.TrapConfig = true
		case "layout":
			opts.BoardContent = true
		default:
			return opts, fmt.Errorf("unknown section %q", name)
		}
	}
	return opts, nil
}

// Filename names an export file after its sections and the time.
func Filename(opts ExportOptions, now time.Time) string {
	var parts []string
	if opts.PlayerSettings {
		parts = append(parts, "players")
	}
	if opts.PunishmentConfig {
		parts = append(parts, "punishments")
	}
	if opts.BoardConfig {
		parts = append(parts, "board")
	}
	if opts.TrapConfig {
		parts = append(parts, "traps")
	}
	if opts.BoardContent {
		parts = append(parts, "layout")
	}
	kind := "config"
	if len(parts) > 0 {
		kind = strings.Join(parts, "-")
	}
	return fmt.Sprintf("flying-chess-%s-%s.json", kind, now.UTC().Format("20060102T150405"))
}

// Stats describes the size of an export.
type Stats struct {
	TotalSize      int `json:"totalSize"`
	CompressedSize int `json:"compressedSize"`
	ItemCount      int `json:"itemCount"`
	// EstimatedQRCodeSize is the QR payload in bytes, or -1 when it does
	// not fit in one code.
	EstimatedQRCodeSize int `json:"estimatedQRCodeSize"`
}

// ComputeStats measures d in indented and compact JSON.
func ComputeStats(d ExportData) (Stats, error) {
	pretty, err := EncodeJSON(d)
	if err != nil {
		return Stats{}, err
	}
	compact, err := json.Marshal(d)
	if err != nil {
		return Stats{}, err
	}
	s := Stats{TotalSize: len(pretty), CompressedSize: len(compact), EstimatedQRCodeSize: len(compact)}
	if len(compact) > QRCapacity {
		s.EstimatedQRCodeSize = -1
	}
	for _, present := range []bool{
		d.Data.PlayerSettings != nil,
		d.Data.PunishmentConfig != nil,
		d.Data.BoardConfig != nil,
		d.Data.TrapConfig != nil,
		d.Data.BoardContent != nil,
	} {
		if present {
			s.ItemCount++
		}
	}
	return s, nil
}

// EncodeJSON writes d as indented JSON.
func EncodeJSON(d ExportData) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// DecodeJSON parses an export without validating it.
func DecodeJSON(b []byte) (ExportData, error) {
	var d ExportData
	if err := json.Unmarshal(b, &d); err != nil {
		return ExportData{}, fmt.Errorf("decode export: %w", err)
	}
	return d, nil
}
