package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrDuplicateName is returned when two items of one pool share a name.
var ErrDuplicateName = errors.New("duplicate name")

// DefaultSetup returns the built-in configuration used when nothing has
// been saved yet.
func DefaultSetup() Setup {
	return Setup{
		Players: []string{"Player 1", "Player 2"},
		Punishment: PunishmentConfig{
			Tools: []Tool{
				{Name: "hand", Intensity: 2, Weight: 30},
				{Name: "ruler", Intensity: 3, Weight: 25},
				{Name: "paddle", Intensity: 3, Weight: 25},
				{Name: "cane", Intensity: 4, Weight: 20},
			},
			BodyParts: []BodyPart{
				{Name: "seat", Tolerance: 10, Weight: 80},
				{Name: "back", Tolerance: 7, Weight: 10},
				{Name: "thighs", Tolerance: 5, Weight: 10},
			},
			Postures: []Posture{
				{Name: "standing", Weight: 25},
				{Name: "hands on the wall", Weight: 25},
				{Name: "leaning over the table", Weight: 25},
				{Name: "kneeling", Weight: 25},
			},
			MinStrikes:         10,
			MaxStrikes:         30,
			StrikeStep:         5,
			MaxTakeoffFailures: 5,
		},
		Board: BoardShape{
			TotalCells:      40,
			PunishmentCells: 28,
			BonusCells:      1,
			ReverseCells:    2,
			RestCells:       1,
			RestartCells:    4,
			TrapCells:       2,
			// Kept below 20 so they fit any valid board. Entries that do
			// not land on a punishment cell are skipped.
			DynamicCells: []DynamicCell{
				{Position: 6, Type: DynamicDiceMultiplier, Multiplier: 2},
				{Position: 11, Type: DynamicPreviousPlayer},
				{Position: 15, Type: DynamicNextPlayer},
				{Position: 18, Type: DynamicOtherPlayerChoice},
			},
		},
		Traps: []TrapAction{
			{Name: "Corner", Description: "Stand in the corner for 5 minutes"},
			{Name: "Payback", Description: "The last punished player picks any tool for one round on the seat"},
		},
	}
}

// LoadSetup loads a game setup from a YAML file. Fields missing from the
// file keep their DefaultSetup values.
func LoadSetup(path string) (*Setup, error) {
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path is cleaned
	if err != nil {
		return nil, err
	}
	s := DefaultSetup()
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", cleanPath, err)
	}
	if err := s.CheckNames(); err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return &s, nil
}

// CheckNames verifies names are unique among the players and within each
// pool.
func (s *Setup) CheckNames() error {
	if err := uniqueNames("player", s.Players, func(n string) string { return n }); err != nil {
		return err
	}
	if err := uniqueNames("tool", s.Punishment.Tools, func(t Tool) string { return t.Name }); err != nil {
		return err
	}
	if err := uniqueNames("body part", s.Punishment.BodyParts, func(b BodyPart) string { return b.Name }); err != nil {
		return err
	}
	if err := uniqueNames("position", s.Punishment.Postures, func(p Posture) string { return p.Name }); err != nil {
		return err
	}
	return uniqueNames("trap", s.Traps, func(t TrapAction) string { return t.Name })
}

func uniqueNames[T any](kind string, items []T, name func(T) string) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		n := name(it)
		if seen[n] {
			return fmt.Errorf("%w: %s %q", ErrDuplicateName, kind, n)
		}
		seen[n] = true
	}
	return nil
}
