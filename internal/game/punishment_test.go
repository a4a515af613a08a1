package game

import (
	"strings"
	"testing"
)

func TestResolveCombination_Compatibility(t *testing.T) {
	cfg := &PunishmentConfig{
		Tools: []Tool{
			{Name: "hand", Intensity: 2, Weight: 50},
			{Name: "cane", Intensity: 8, Weight: 50},
		},
		BodyParts: []BodyPart{
			{Name: "palm", Tolerance: 3, Weight: 50},
			{Name: "seat", Tolerance: 10, Weight: 50},
		},
		Postures: []Posture{{Name: "standing", Weight: 100}},
	}
	src := NewSource(5)

	for i := 0; i < 2000; i++ {
		c, ok := ResolveCombination(src, cfg)
		if !ok {
			t.Fatal("Expected a combination")
		}
		if c.BodyPart.Tolerance < c.Tool.Intensity {
			t.Fatalf("Incompatible pair %s on %s", c.Tool.Name, c.BodyPart.Name)
		}
		if c.Description != Describe(c.Tool, c.BodyPart, c.Posture) {
			t.Fatalf("Unexpected description %q", c.Description)
		}
	}
}

func TestResolveCombination_FallsBackToMostTolerant(t *testing.T) {
	cfg := &PunishmentConfig{
		Tools:     []Tool{{Name: "cane", Intensity: 9, Weight: 100}},
		BodyParts: []BodyPart{{Name: "palm", Tolerance: 2, Weight: 90}, {Name: "back", Tolerance: 5, Weight: 10}},
		Postures:  []Posture{{Name: "kneeling", Weight: 100}},
	}
	for i := 0; i < 100; i++ {
		c, ok := ResolveCombination(NewSource(int64(i+1)), cfg)
		if !ok {
			t.Fatal("Expected a combination")
		}
		if c.BodyPart.Name != "back" {
			t.Fatalf("Expected the most tolerant body part, got %s", c.BodyPart.Name)
		}
	}
}

func TestResolveCombination_EmptyPool(t *testing.T) {
	cfg := &PunishmentConfig{
		Tools:    []Tool{{Name: "hand", Intensity: 1, Weight: 100}},
		Postures: []Posture{{Name: "standing", Weight: 100}},
	}
	if _, ok := ResolveCombination(NewSource(1), cfg); ok {
		t.Error("Expected no combination without body parts")
	}
}

func TestMaterializeStrikeCount(t *testing.T) {
	cfg := &PunishmentConfig{MinStrikes: 10, MaxStrikes: 30, StrikeStep: 5}
	src := NewSource(9)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		n := MaterializeStrikeCount(src, cfg)
		if n < 10 || n > 30 || n%5 != 0 {
			t.Fatalf("Strike count %d outside {10,15,20,25,30}", n)
		}
		seen[n] = true
	}
	if len(seen) != 5 {
		t.Errorf("Expected all 5 counts to appear, got %v", seen)
	}
}

func TestMaterializeStrikeCount_Edges(t *testing.T) {
	tests := []struct {
		name string
		cfg  PunishmentConfig
		want int
	}{
		{"no multiple fits", PunishmentConfig{MinStrikes: 11, MaxStrikes: 14, StrikeStep: 5}, 11},
		{"single value", PunishmentConfig{MinStrikes: 20, MaxStrikes: 20, StrikeStep: 5}, 20},
		{"min rounds up", PunishmentConfig{MinStrikes: 12, MaxStrikes: 16, StrikeStep: 5}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaterializeStrikeCount(NewSource(1), &tt.cfg); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}

	cfg := &PunishmentConfig{MinStrikes: 3, MaxStrikes: 6, StrikeStep: 0}
	for i := 0; i < 200; i++ {
		if n := MaterializeStrikeCount(NewSource(int64(i+1)), cfg); n < 3 || n > 6 {
			t.Fatalf("Expected a step of 1 to be used, got %d", n)
		}
	}
}

func TestRandomPunishment(t *testing.T) {
	a, ok := RandomPunishment(NewSource(3), testConfig())
	if !ok {
		t.Fatal("Expected a punishment")
	}
	if !strings.Contains(a.Description, "hand on the palm x") {
		t.Errorf("Unexpected description %q", a.Description)
	}
	if a.DynamicType != DynamicNone {
		t.Errorf("Expected a static punishment, got %s", a.DynamicType)
	}
}

func TestValidateConfig(t *testing.T) {
	cfg := &PunishmentConfig{
		Tools:     []Tool{{Name: "cane", Intensity: 9, Weight: 100}},
		BodyParts: []BodyPart{{Name: "palm", Tolerance: 5, Weight: 100}},
		Postures:  []Posture{{Name: "standing", Weight: 100}},
	}

	v := ValidateConfig(cfg)
	if v.Valid {
		t.Fatal("Expected config to be invalid")
	}
	if v.RequiredTolerance == nil || *v.RequiredTolerance != 9 {
		t.Errorf("Expected required tolerance 9, got %v", v.RequiredTolerance)
	}
	if !strings.Contains(v.Message, "cane") {
		t.Errorf("Expected the tool to be named, got %q", v.Message)
	}

	cfg.BodyParts = append(cfg.BodyParts, BodyPart{Name: "seat", Tolerance: 10, Weight: 50})
	v = ValidateConfig(cfg)
	if v.Valid {
		t.Error("Expected palm to be reported as having no gentle tool")
	}
	if v.RequiredTolerance != nil {
		t.Error("Expected no required tolerance for a body part problem")
	}

	cfg.Tools = append(cfg.Tools, Tool{Name: "hand", Intensity: 1, Weight: 50})
	if v = ValidateConfig(cfg); !v.Valid {
		t.Errorf("Expected config to be valid, got %q", v.Message)
	}
}

func TestGenerateCombinationPool(t *testing.T) {
	cfg := DefaultSetup().Punishment

	pool := GenerateCombinationPool(NewSource(4), &cfg, 20)
	if len(pool) != 20 {
		t.Fatalf("Expected 20 combinations, got %d", len(pool))
	}
	seen := map[string]bool{}
	for _, c := range pool {
		if c.BodyPart.Tolerance < c.Tool.Intensity {
			t.Errorf("Expected only compatible combinations, got %s", c.Key())
		}
		if seen[c.Key()] {
			t.Errorf("Duplicate combination %s", c.Key())
		}
		seen[c.Key()] = true
	}
}

func TestGenerateCombinationPool_PadsWithRepeats(t *testing.T) {
	cfg := testConfig()
	pool := GenerateCombinationPool(NewSource(4), cfg, 5)
	if len(pool) != 5 {
		t.Fatalf("Expected 5 combinations, got %d", len(pool))
	}
	for _, c := range pool {
		if c.Key() != "hand|palm|standing" {
			t.Errorf("Unexpected combination %s", c.Key())
		}
	}
}

func TestGenerateCombinationPool_ZeroWeights(t *testing.T) {
	cfg := testConfig()
	cfg.Postures[0].Weight = 0
	pool := GenerateCombinationPool(NewSource(4), cfg, 5)
	if pool == nil || len(pool) != 0 {
		t.Errorf("Expected an empty pool, got %v", pool)
	}
	if pool := GenerateCombinationPool(NewSource(4), testConfig(), 0); len(pool) != 0 {
		t.Errorf("Expected an empty pool for count 0, got %d", len(pool))
	}
}

func TestGenerateBalancedPool(t *testing.T) {
	cfg := &PunishmentConfig{
		Tools: []Tool{
			{Name: "hand", Intensity: 1, Weight: 75},
			{Name: "ruler", Intensity: 1, Weight: 25},
		},
		BodyParts: []BodyPart{
			{Name: "palm", Tolerance: 5, Weight: 50},
			{Name: "seat", Tolerance: 5, Weight: 50},
		},
		Postures: []Posture{
			{Name: "p1", Weight: 25}, {Name: "p2", Weight: 25},
			{Name: "p3", Weight: 25}, {Name: "p4", Weight: 25},
		},
	}

	pool := GenerateBalancedPool(NewSource(8), cfg, 8)
	if len(pool) != 8 {
		t.Fatalf("Expected 8 combinations, got %d", len(pool))
	}
	seen := map[string]bool{}
	for _, c := range pool {
		if seen[c.Key()] {
			t.Errorf("Duplicate combination %s", c.Key())
		}
		seen[c.Key()] = true
	}

	all := GenerateBalancedPool(NewSource(8), testConfig(), 10)
	if len(all) != 1 {
		t.Errorf("Expected the single candidate when the pool is small, got %d", len(all))
	}
}

func TestEqualizeWeights(t *testing.T) {
	cfg := DefaultSetup().Punishment
	eq := EqualizeWeights(cfg)

	for _, tool := range eq.Tools {
		if tool.Weight != 25 {
			t.Errorf("Expected tool weight 25, got %v", tool.Weight)
		}
	}
	for _, p := range eq.Postures {
		if p.Weight != 25 {
			t.Errorf("Expected posture weight 25, got %v", p.Weight)
		}
	}
	if cfg.Tools[0].Weight == eq.Tools[0].Weight {
		t.Error("Expected the original config to be left untouched")
	}
}
