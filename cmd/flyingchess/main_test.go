package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atang-sp/flying-chess/internal/game"
	"github.com/atang-sp/flying-chess/internal/transfer"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func lineBoard(n int) []game.Cell {
	board := make([]game.Cell, n)
	for i := range board {
		board[i] = game.Cell{ID: i + 1, Category: game.CategoryNormal, Effect: game.MoveEffect{}}
	}
	board[0].Category, board[0].Effect = game.CategoryBonus, game.MoveEffect{Text: "Start"}
	board[n-1].Category, board[n-1].Effect = game.CategoryBonus, game.MoveEffect{Text: "Finish"}
	return board
}

func TestRenderBoard(t *testing.T) {
	board := lineBoard(10)
	players := []game.Player{{Name: "Ann", Position: 3}, {Name: "Bo", Position: 0}}
	out := renderBoard(board, players, 4)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 rows, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "START") || !strings.Contains(lines[2], "FINISH") {
		t.Errorf("Expected start on the first row and finish on the last:\n%s", out)
	}
	if !strings.Contains(lines[0], " 3  A") {
		t.Error("Expected Ann's marker on the first row")
	}
	// The second row runs right to left.
	if strings.Index(lines[1], " 8") > strings.Index(lines[1], " 5") {
		t.Errorf("Expected row two reversed, got %q", lines[1])
	}
	if renderBoard(nil, nil, 4) != "" {
		t.Error("Expected empty output for an empty board")
	}
}

func TestRenderPunishments(t *testing.T) {
	board := lineBoard(5)
	board[2] = game.Cell{ID: 3, Category: game.CategoryPunishment, Effect: game.PunishmentEffect{Action: game.Action{Combination: game.Combination{Description: "hand on the palm x10"}}}}
	out := renderPunishments(board)
	if !strings.Contains(out, "hand on the palm x10") || strings.Count(out, "\n") != 1 {
		t.Errorf("Unexpected punishment list %q", out)
	}
}

func TestSummarize(t *testing.T) {
	zero, one := 0, 1
	s := summarize([]game.SimulationResult{
		{Turns: 10, Winner: &zero, Punishments: 2, Strikes: 30},
		{Turns: 20, Winner: &one, Punishments: 4, Strikes: 50},
		{Turns: 30},
	}, 2)
	if s.Wins[0] != 1 || s.Wins[1] != 1 || s.Unfinished != 1 {
		t.Errorf("Unexpected wins %+v", s)
	}
	if got := s.avg(s.Turns); got != 20 {
		t.Errorf("Expected 20 turns per game, got %v", got)
	}
	if got := (simSummary{}).avg(5); got != 0 {
		t.Errorf("Expected 0 with no games, got %v", got)
	}
}

func TestCheckSetup(t *testing.T) {
	s := game.DefaultSetup()
	if p := checkSetup(&s); len(p) != 0 {
		t.Errorf("Expected the default setup to pass, got %v", p)
	}
	s.Players = []string{"Ann"}
	s.Traps = nil
	s.Board.TotalCells = 10
	if p := checkSetup(&s); len(p) < 3 {
		t.Errorf("Expected several problems, got %v", p)
	}
}

func TestGenCommand(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "board.pdf")
	jsonPath := filepath.Join(dir, "board.json")

	out, err := execute(t, "gen", "--db", "", "--seed", "3", "--pdf", pdfPath, "--json", jsonPath)
	if err != nil {
		t.Fatalf("gen: %v\n%s", err, out)
	}
	if !strings.Contains(out, "START") {
		t.Errorf("Expected the board in the output:\n%s", out)
	}
	pdfBytes, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Error("Expected a PDF file")
	}
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if v := transfer.ValidateImport(raw); !v.Valid {
		t.Errorf("Expected an importable board, got %v", v.Errors)
	}
}

func TestGenCommand_RejectsIncompatibleConfig(t *testing.T) {
	t.Cleanup(func() { configFile = "" })
	dir := t.TempDir()
	path := filepath.Join(dir, "harsh.yaml")
	yaml := `punishment:
  tools:
    - {name: cane, intensity: 9, weight: 1}
  bodyParts:
    - {name: palm, tolerance: 2, weight: 1}
`
	//nolint:gosec // test file permissions are acceptable
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "gen", "--db", "", "--config", path)
	if !errors.Is(err, errInvalidSetup) {
		t.Fatalf("Expected errInvalidSetup, got %v", err)
	}
	if strings.Contains(out, "START") {
		t.Errorf("Expected no board to be printed:\n%s", out)
	}
	if _, err := buildBoard(nil, &game.Setup{Punishment: game.PunishmentConfig{
		Tools:     []game.Tool{{Name: "cane", Intensity: 9, Weight: 1}},
		BodyParts: []game.BodyPart{{Name: "palm", Tolerance: 2, Weight: 1}},
	}}); !errors.Is(err, errInvalidSetup) {
		t.Errorf("Expected buildBoard to refuse the config, got %v", err)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	//nolint:gosec // test file permissions are acceptable
	if err := os.WriteFile(good, []byte("players: [Ann, Bo]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	//nolint:gosec // test file permissions are acceptable
	if err := os.WriteFile(bad, []byte("players: [Ann]\nboard:\n  totalCells: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if out, err := execute(t, "validate", good); err != nil {
		t.Errorf("Expected %s to pass: %v\n%s", good, err, out)
	}
	out, err := execute(t, "validate", bad)
	if err == nil {
		t.Error("Expected the bad setup to fail")
	}
	if !strings.Contains(out, "error") {
		t.Errorf("Expected errors listed, got:\n%s", out)
	}
}

func TestSimulateCommand(t *testing.T) {
	out, err := execute(t, "simulate", "--db", "", "--seed", "5", "-n", "3", "--max-turns", "500")
	if err != nil {
		t.Fatalf("simulate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "games") || !strings.Contains(out, "Player 1") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestExportImportCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "settings.db")
	file := filepath.Join(dir, "players.json")

	if out, err := execute(t, "export", "--db", db, "--sections", "players", "--out", file); err != nil {
		t.Fatalf("export: %v\n%s", err, out)
	}
	out, err := execute(t, "import", "--db", db, file)
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "imported") {
		t.Errorf("Unexpected import output:\n%s", out)
	}
	if out, err := execute(t, "restore", "--db", db); err != nil {
		t.Errorf("restore: %v\n%s", err, out)
	}
}
