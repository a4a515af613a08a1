package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/atang-sp/flying-chess/internal/boardgen"
	"github.com/atang-sp/flying-chess/internal/game"
	"github.com/atang-sp/flying-chess/internal/settings"
)

func newTransfer(t *testing.T) (*Transfer, *settings.Cache) {
	t.Helper()
	cache := settings.NewMemory(nil)
	tr := New(cache, nil)
	tr.Now = func() time.Time { return time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC) }
	return tr, cache
}

func testBoard(t *testing.T) []game.Cell {
	t.Helper()
	setup := game.DefaultSetup()
	setup.Board.DynamicCells = []game.DynamicCell{
		{Position: 4, Type: game.DynamicDiceMultiplier, Multiplier: 2},
		{Position: 9, Type: game.DynamicOtherPlayerChoice},
	}
	board, err := boardgen.New(game.NewSource(77), nil).Build(&setup)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return board
}

func TestExportImport_BoardRoundTrip(t *testing.T) {
	ctx := context.Background()
	tr, cache := newTransfer(t)
	cache.SaveSetup(ctx, game.DefaultSetup())
	board := testBoard(t)

	data := tr.Collect(ctx, AllSections, board)
	raw, err := EncodeJSON(data)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}

	res, err := tr.Import(ctx, raw, DefaultImportOptions)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Board == nil {
		t.Fatal("Expected the board to come back")
	}
	if !reflect.DeepEqual(board, res.Board.Board) {
		t.Error("Board changed in the export/import round trip")
	}
	if res.Board.Seed == "" || res.Board.GeneratedAt != tr.Now().UnixMilli() {
		t.Errorf("Unexpected snapshot metadata %q %d", res.Board.Seed, res.Board.GeneratedAt)
	}
	if !res.BackedUp {
		t.Error("Expected the current settings to be backed up")
	}
}

func TestCollect_Sections(t *testing.T) {
	ctx := context.Background()
	tr, cache := newTransfer(t)

	empty := tr.Collect(ctx, AllSections, nil)
	if empty.Data.PlayerSettings != nil || empty.Data.PunishmentConfig != nil || empty.Data.BoardContent != nil {
		t.Errorf("Expected no sections from an empty cache, got %+v", empty.Data)
	}
	if empty.Version != Version || empty.ExportedAt != "2026-05-04T10:30:00Z" {
		t.Errorf("Unexpected header %q %q", empty.Version, empty.ExportedAt)
	}

	cache.SaveSetup(ctx, game.DefaultSetup())
	d := tr.Collect(ctx, ExportOptions{PunishmentConfig: true}, testBoard(t))
	if d.Data.PunishmentConfig == nil {
		t.Error("Expected the punishment section")
	}
	if d.Data.BoardConfig != nil || d.Data.PlayerSettings != nil || d.Data.BoardContent != nil {
		t.Errorf("Expected only the punishment section, got %+v", d.Data)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 30, 15, 0, time.UTC)
	got := Filename(ExportOptions{PlayerSettings: true, BoardContent: true}, now)
	if got != "flying-chess-players-layout-20260504T103015.json" {
		t.Errorf("Unexpected filename %q", got)
	}
	if got := Filename(ExportOptions{}, now); got != "flying-chess-config-20260504T103015.json" {
		t.Errorf("Unexpected filename %q", got)
	}
}

func TestComputeStats(t *testing.T) {
	ctx := context.Background()
	tr, cache := newTransfer(t)
	cache.SaveSetup(ctx, game.DefaultSetup())

	small := tr.Collect(ctx, ExportOptions{PlayerSettings: true}, nil)
	s, err := ComputeStats(small)
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}
	if s.ItemCount != 1 {
		t.Errorf("Expected 1 item, got %d", s.ItemCount)
	}
	if s.CompressedSize >= s.TotalSize || s.EstimatedQRCodeSize != s.CompressedSize {
		t.Errorf("Unexpected sizes %+v", s)
	}

	big := tr.Collect(ctx, AllSections, testBoard(t))
	s, err = ComputeStats(big)
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}
	if s.ItemCount != 5 || s.EstimatedQRCodeSize != -1 {
		t.Errorf("Expected a full export to overflow a QR code, got %+v", s)
	}
	if _, err := EncodeQR(big, 256); !errors.Is(err, ErrTooLargeForQR) {
		t.Errorf("Expected ErrTooLargeForQR, got %v", err)
	}
}

func TestQR_RoundTrip(t *testing.T) {
	ctx := context.Background()
	tr, cache := newTransfer(t)
	cache.SavePlayerSettings(ctx, settings.PlayerSettings{PlayerCount: 2, PlayerNames: []string{"Ann", "Bo"}})
	data := tr.Collect(ctx, ExportOptions{PlayerSettings: true}, nil)

	png, err := EncodeQR(data, 512)
	if err != nil {
		t.Fatalf("EncodeQR: %v", err)
	}
	text, err := DecodeQR(png)
	if err != nil {
		t.Fatalf("DecodeQR: %v", err)
	}
	got, err := DecodeJSON(text)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if !reflect.DeepEqual(data, got) {
		t.Errorf("QR round trip changed the data:\nwant %+v\n got %+v", data, got)
	}
}

func TestDecodeQR_NotAnImage(t *testing.T) {
	if _, err := DecodeQR([]byte("plain text")); err == nil {
		t.Error("Expected an error for non-image input")
	}
}

func TestRecoveryLevel(t *testing.T) {
	if recoveryLevel(1600) >= recoveryLevel(1000) || recoveryLevel(1000) >= recoveryLevel(100) {
		t.Error("Expected error correction to drop as the payload grows")
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestValidateImport(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		valid      bool
		wantError  string
		wantWarn   string
		wantSuggst string
	}{
		{"not an object", `[1,2]`, false, "invalid data format", "", ""},
		{"not json", `{`, false, "invalid data format", "", ""},
		{"missing data", `{"version":"1.0.0"}`, false, "missing configuration data", "", ""},
		{"missing version", `{"data":{}}`, true, "", "missing version", ""},
		{"old version", `{"version":"0.9.0","data":{}}`, true, "", "version mismatch", ""},
		{"too many players", `{"version":"1.0.0","data":{"playerSettings":{"playerCount":5,"playerNames":["a","b","c","d","e"]}}}`, false, "between 2 and 4", "", ""},
		{"names mismatch", `{"version":"1.0.0","data":{"playerSettings":{"playerCount":3,"playerNames":["a","b"]}}}`, false, "do not match", "", ""},
		{"small board", `{"version":"1.0.0","data":{"boardConfig":{"totalCells":10}}}`, false, "at least 20", "", ""},
		{"trap without text", `{"version":"1.0.0","data":{"trapConfig":[{"name":"x"}]}}`, false, "no description", "", ""},
		{"unknown section", `{"version":"1.0.0","data":{"playerSetings":{}}}`, true, "", "unknown data section", `did you mean "playerSettings"`},
		{"misspelled effect", `{"version":"1.0.0","data":{"boardContent":{"board":[{"id":1,"type":"special","effect":{"type":"revers","value":2}}]}}}`, false, "unknown effect type", "", `did you mean "reverse"`},
		{"misspelled dynamic", `{"version":"1.0.0","data":{"boardContent":{"board":[{"id":1,"type":"punishment","effect":{"type":"punishment","dynamicType":"next_playr"}}]}}}`, false, "unknown dynamic type", "", `did you mean "next_player"`},
		{"incompatible punishments", `{"version":"1.0.0","data":{"punishmentConfig":{"tools":[{"name":"cane","intensity":9,"weight":1}],"bodyParts":[{"name":"palm","tolerance":5,"weight":1}],"positions":[{"name":"s","weight":1}],"minStrikes":1,"maxStrikes":5,"strikeStep":1}}}`, true, "", "tolerance of at least 9", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateImport([]byte(tt.raw))
			if r.Valid != tt.valid {
				t.Errorf("Expected valid=%v, got %+v", tt.valid, r)
			}
			if tt.wantError != "" && !anyContains(r.Errors, tt.wantError) {
				t.Errorf("Expected an error containing %q, got %v", tt.wantError, r.Errors)
			}
			if tt.wantWarn != "" && !anyContains(r.Warnings, tt.wantWarn) {
				t.Errorf("Expected a warning containing %q, got %v", tt.wantWarn, r.Warnings)
			}
			if tt.wantSuggst != "" && !anyContains(r.Suggestions, tt.wantSuggst) {
				t.Errorf("Expected a suggestion containing %q, got %v", tt.wantSuggst, r.Suggestions)
			}
		})
	}
}

func anyContains(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestImport_RefusesInvalid(t *testing.T) {
	ctx := context.Background()
	tr, cache := newTransfer(t)

	raw := mustJSON(t, map[string]any{
		"version": Version,
		"data": map[string]any{
			"playerSettings": settings.PlayerSettings{PlayerCount: 1, PlayerNames: []string{"solo"}},
		},
	})
	if _, err := tr.Import(ctx, raw, DefaultImportOptions); !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("Expected ErrInvalidImport, got %v", err)
	}
	if cache.LoadPlayerSettings(ctx) != nil {
		t.Error("Expected nothing to be applied")
	}
}

func TestImport_MergesAndRestores(t *testing.T) {
	ctx := context.Background()
	tr, cache := newTransfer(t)
	original := game.DefaultSetup()
	cache.SaveSetup(ctx, original)

	shape := original.Board
	shape.TotalCells = 60
	raw := mustJSON(t, ExportData{
		Version: Version,
		Data: Data{
			BoardConfig:    &shape,
			PlayerSettings: &settings.PlayerSettings{PlayerCount: 3, PlayerNames: []string{"Ann", "Bo", "Cy"}},
		},
	})

	res, err := tr.Import(ctx, raw, DefaultImportOptions)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !res.BackedUp {
		t.Error("Expected a backup")
	}
	cfg := cache.LoadConfig(ctx)
	if cfg.Board.TotalCells != 60 {
		t.Errorf("Expected imported board shape, got %d cells", cfg.Board.TotalCells)
	}
	if len(cfg.Punishment.Tools) != len(original.Punishment.Tools) {
		t.Error("Expected sections missing from the file to be kept")
	}

	if err := tr.RestoreBackup(ctx); err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}
	if cfg := cache.LoadConfig(ctx); cfg.Board.TotalCells != original.Board.TotalCells {
		t.Errorf("Expected the original shape back, got %d cells", cfg.Board.TotalCells)
	}
	if ps := cache.LoadPlayerSettings(ctx); len(ps.PlayerNames) != len(original.Players) {
		t.Errorf("Expected the original players back, got %v", ps.PlayerNames)
	}
}

func TestRestoreBackup_None(t *testing.T) {
	tr, _ := newTransfer(t)
	if err := tr.RestoreBackup(context.Background()); !errors.Is(err, ErrNoBackup) {
		t.Errorf("Expected ErrNoBackup, got %v", err)
	}
}

func TestParseSections(t *testing.T) {
	opts, err := ParseSections("")
	if err != nil || opts != AllSections {
		t.Errorf("Expected all sections for an empty list, got %+v (%v)", opts, err)
	}
	opts, err = ParseSections("players, layout")
	if err != nil {
		t.Fatalf("ParseSections: %v", err)
	}
	want := ExportOptions{PlayerSettings: true, BoardContent: true}
	if opts != want {
		t.Errorf("Expected %+v, got %+v", want, opts)
	}
	if _, err := ParseSections("players,scores"); err == nil {
		t.Error("Expected an error for an unknown section")
	}
}
