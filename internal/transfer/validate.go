package transfer

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/atang-sp/flying-chess/internal/boardgen"
	"github.com/atang-sp/flying-chess/internal/game"
	"github.com/atang-sp/flying-chess/internal/settings"

	"github.com/agnivade/levenshtein"
)

// ValidationResult lists what is wrong with an import. Errors block the
// import; warnings do not.
type ValidationResult struct {
	Valid       bool     `json:"isValid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

func (r *ValidationResult) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// suggest records a "did you mean" hint when got is close to a candidate.
func (r *ValidationResult) suggest(what, got string, candidates []string) {
	if best, ok := closest(got, candidates); ok {
		r.Suggestions = append(r.Suggestions, fmt.Sprintf("%s %q: did you mean %q?", what, got, best))
	}
}

var sections = []string{"playerSettings", "punishmentConfig", "boardConfig", "trapConfig", "boardContent"}

// ValidateImport checks a raw export before anything is applied.
func ValidateImport(raw []byte) (r ValidationResult) {
	r = ValidationResult{Errors: []string{}, Warnings: []string{}, Suggestions: []string{}}
	defer func() { r.Valid = len(r.Errors) == 0 }()

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		r.errorf("invalid data format: expected a JSON object")
		return r
	}

	var version string
	if v, ok := top["version"]; !ok || json.Unmarshal(v, &version) != nil || version == "" {
		r.warnf("missing version information")
	} else if version != Version {
		r.warnf("version mismatch: supported %s, file has %s", Version, version)
	}

	var data map[string]json.RawMessage
	if d, ok := top["data"]; !ok || json.Unmarshal(d, &data) != nil || data == nil {
		r.errorf("missing configuration data")
		return r
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		msg := data[k]
		if string(msg) == "null" {
			continue
		}
		switch k {
		case "playerSettings":
			validatePlayers(&r, msg)
		case "punishmentConfig":
			validatePunishment(&r, msg)
		case "boardConfig":
			validateShape(&r, msg)
		case "trapConfig":
			validateTraps(&r, msg)
		case "boardContent":
			validateBoardContent(&r, msg)
		default:
			r.warnf("unknown data section %q ignored", k)
			r.suggest("section", k, sections)
		}
	}
	return r
}

func validatePlayers(r *ValidationResult, msg json.RawMessage) {
	var ps settings.PlayerSettings
	if err := json.Unmarshal(msg, &ps); err != nil {
		r.errorf("playerSettings: %v", err)
		return
	}
	if ps.PlayerCount < game.MinPlayers || ps.PlayerCount > game.MaxPlayers {
		r.errorf("player count must be between %d and %d", game.MinPlayers, game.MaxPlayers)
	}
	if len(ps.PlayerNames) != ps.PlayerCount {
		r.errorf("player names (%d) do not match the player count (%d)", len(ps.PlayerNames), ps.PlayerCount)
	}
}

func validatePunishment(r *ValidationResult, msg json.RawMessage) {
	var cfg game.PunishmentConfig
	if err := json.Unmarshal(msg, &cfg); err != nil {
		r.errorf("punishmentConfig: %v", err)
		return
	}
	if len(cfg.Tools) == 0 || len(cfg.BodyParts) == 0 || len(cfg.Postures) == 0 {
		r.warnf("punishmentConfig: tools, body parts and positions should not be empty")
	}
	for _, t := range cfg.Tools {
		if t.Weight < 0 {
			r.warnf("punishmentConfig: tool %q has a negative weight", t.Name)
		}
	}
	for _, b := range cfg.BodyParts {
		if b.Weight < 0 {
			r.warnf("punishmentConfig: body part %q has a negative weight", b.Name)
		}
	}
	for _, p := range cfg.Postures {
		if p.Weight < 0 {
			r.warnf("punishmentConfig: position %q has a negative weight", p.Name)
		}
	}
	if cfg.MinStrikes > cfg.MaxStrikes {
		r.warnf("punishmentConfig: minStrikes %d is above maxStrikes %d", cfg.MinStrikes, cfg.MaxStrikes)
	}
	if cfg.StrikeStep <= 0 {
		r.warnf("punishmentConfig: strikeStep should be positive")
	}
	if v := game.ValidateConfig(&cfg); !v.Valid {
		r.warnf("punishmentConfig: %s", v.Message)
	}
}

func validateShape(r *ValidationResult, msg json.RawMessage) {
	var shape game.BoardShape
	if err := json.Unmarshal(msg, &shape); err != nil {
		r.errorf("boardConfig: %v", err)
		return
	}
	v := boardgen.ValidateShape(shape)
	for _, e := range v.Errors {
		r.errorf("boardConfig: %s", e)
	}
	for _, d := range shape.DynamicCells {
		if !d.Type.Valid() {
			r.suggest("dynamic type", string(d.Type), dynamicNames())
		}
	}
}

func validateTraps(r *ValidationResult, msg json.RawMessage) {
	var traps []game.TrapAction
	if err := json.Unmarshal(msg, &traps); err != nil {
		r.errorf("trapConfig: %v", err)
		return
	}
	for i, t := range traps {
		if t.Description == "" {
			r.errorf("trapConfig: trap %d (%q) has no description", i+1, t.Name)
		}
	}
}

// validateBoardContent checks effect tags before decoding so misspelled
// ones can be reported with a suggestion.
func validateBoardContent(r *ValidationResult, msg json.RawMessage) {
	var loose struct {
		Board []struct {
			ID     int `json:"id"`
			Effect *struct {
				Type        string `json:"type"`
				DynamicType string `json:"dynamicType"`
			} `json:"effect"`
		} `json:"board"`
	}
	if err := json.Unmarshal(msg, &loose); err != nil {
		r.errorf("boardContent: %v", err)
		return
	}
	known := effectNames()
	bad := false
	for _, c := range loose.Board {
		if c.Effect == nil {
			continue
		}
		if !contains(known, c.Effect.Type) {
			bad = true
			r.errorf("boardContent: cell %d has unknown effect type %q", c.ID, c.Effect.Type)
			r.suggest("effect type", c.Effect.Type, known)
		}
		if dt := game.DynamicType(c.Effect.DynamicType); !dt.Valid() {
			bad = true
			r.errorf("boardContent: cell %d has unknown dynamic type %q", c.ID, dt)
			r.suggest("dynamic type", string(dt), dynamicNames())
		}
	}
	if bad {
		return
	}

	var bc BoardContent
	if err := json.Unmarshal(msg, &bc); err != nil {
		r.errorf("boardContent: %v", err)
		return
	}
	if len(bc.Board) == 0 {
		r.errorf("boardContent: board is empty")
		return
	}
	for i, c := range bc.Board {
		if c.ID != i+1 {
			r.errorf("boardContent: expected cell %d at index %d, got %d", i+1, i, c.ID)
			return
		}
	}
}

func effectNames() []string {
	out := make([]string, len(game.EffectTypes))
	for i, t := range game.EffectTypes {
		out[i] = string(t)
	}
	return out
}

func dynamicNames() []string {
	out := make([]string, len(game.DynamicTypes))
	for i, t := range game.DynamicTypes {
		out[i] = string(t)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// closest returns the candidate nearest to token when it is within an edit
// distance that grows with the candidate's length.
func closest(token string, candidates []string) (string, bool) {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(token, c)
		if d > levenshteinLimit(len(c)) {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
