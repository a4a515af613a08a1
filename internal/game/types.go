package game

// Tool is an implement used to carry out a punishment. A tool may only be
// paired with body parts whose Tolerance is at least the tool's Intensity.
type Tool struct {
	Name      string  `yaml:"name" json:"name"`
	Intensity int     `yaml:"intensity" json:"intensity"`
	Weight    float64 `yaml:"weight" json:"weight"`
}

// BodyPart is a punishment target with a tolerance rank comparable to
// Tool.Intensity.
type BodyPart struct {
	Name      string  `yaml:"name" json:"name"`
	Tolerance int     `yaml:"tolerance" json:"tolerance"`
	Weight    float64 `yaml:"weight" json:"weight"`
}

// Posture is the position the punished player takes. It has no
// compatibility constraint and is chosen purely by weight.
type Posture struct {
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// PunishmentConfig holds the weighted pools and the strike rules for one game.
type PunishmentConfig struct {
	Tools              []Tool     `yaml:"tools" json:"tools"`
	BodyParts          []BodyPart `yaml:"bodyParts" json:"bodyParts"`
	Postures           []Posture  `yaml:"positions" json:"positions"`
	MinStrikes         int        `yaml:"minStrikes" json:"minStrikes"`
	MaxStrikes         int        `yaml:"maxStrikes" json:"maxStrikes"`
	StrikeStep         int        `yaml:"strikeStep" json:"strikeStep"`
	MaxTakeoffFailures int        `yaml:"maxTakeoffFailures" json:"maxTakeoffFailures"`

	// RandomTrapPunishment makes trap cells also hand out a fresh random
	// punishment when triggered. Off by default: traps are flavor text only.
	RandomTrapPunishment bool `yaml:"randomTrapPunishment,omitempty" json:"randomTrapPunishment,omitempty"`
}

// Combination is a resolved (tool, body part, posture) triple without a
// strike count.
type Combination struct {
	Tool        Tool     `json:"tool"`
	BodyPart    BodyPart `json:"bodyPart"`
	Posture     Posture  `json:"position"`
	Description string   `json:"description"`
}

// Key identifies a combination by the names of its three parts.
func (c Combination) Key() string {
	return c.Tool.Name + "|" + c.BodyPart.Name + "|" + c.Posture.Name
}

// DynamicType marks a punishment whose target or strike count is decided
// when the cell is triggered rather than when the board is generated.
type DynamicType string

const (
	DynamicNone              DynamicType = ""
	DynamicDiceMultiplier    DynamicType = "dice_multiplier"
	DynamicPreviousPlayer    DynamicType = "previous_player"
	DynamicNextPlayer        DynamicType = "next_player"
	DynamicOtherPlayerChoice DynamicType = "other_player_choice"
)

// DynamicTypes lists every non-empty dynamic type.
var DynamicTypes = []DynamicType{
	DynamicDiceMultiplier,
	DynamicPreviousPlayer,
	DynamicNextPlayer,
	DynamicOtherPlayerChoice,
}

// Valid reports whether d is empty or one of DynamicTypes.
func (d DynamicType) Valid() bool {
	if d == DynamicNone {
		return true
	}
	for _, t := range DynamicTypes {
		if t == d {
			return true
		}
	}
	return false
}

// Action is a combination with a concrete strike count and optional
// dynamic metadata.
type Action struct {
	Combination
	Strikes     int         `json:"strikes"`
	DynamicType DynamicType `json:"dynamicType,omitempty"`
	Multiplier  int         `json:"multiplier,omitempty"`
}

// StrikesDecided reports whether the strike count is known. Punishments
// left to the other players' choice are settled outside the engine.
func (a Action) StrikesDecided() bool {
	return a.DynamicType != DynamicOtherPlayerChoice
}

// DynamicCell configures the punishment cell at Position as dynamic.
type DynamicCell struct {
	Position   int         `yaml:"position" json:"position"`
	Type       DynamicType `yaml:"type" json:"type"`
	Multiplier int         `yaml:"multiplier,omitempty" json:"multiplier,omitempty"`
}

// BoardShape sets how many cells of each category a generated board has.
// Start and end cells are reserved on top of the category counts.
type BoardShape struct {
	TotalCells      int `yaml:"totalCells" json:"totalCells"`
	PunishmentCells int `yaml:"punishmentCells" json:"punishmentCells"`
	BonusCells      int `yaml:"bonusCells" json:"bonusCells"`
	ReverseCells    int `yaml:"reverseCells" json:"reverseCells"`
	RestCells       int `yaml:"restCells" json:"restCells"`
	RestartCells    int `yaml:"restartCells" json:"restartCells"`
	TrapCells       int `yaml:"trapCells" json:"trapCells"`

	DynamicCells []DynamicCell `yaml:"dynamicCells,omitempty" json:"dynamicCells,omitempty"`
}

// TrapAction is descriptive flavor text placed on trap cells.
type TrapAction struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Player is one participant. Position 0 means the player has not entered
// the board yet.
type Player struct {
	ID                    int    `json:"id"`
	Name                  string `json:"name"`
	Color                 string `json:"color"`
	Position              int    `json:"position"`
	IsWinner              bool   `json:"isWinner"`
	HasTakenOff           bool   `json:"hasTakenOff"`
	FailedTakeoffAttempts int    `json:"failedTakeoffAttempts"`
	RestTurns             int    `json:"restTurns,omitempty"`
	IsMoving              bool   `json:"isMoving,omitempty"`
}

// Grounded reports whether p still needs to take off.
func (p *Player) Grounded() bool {
	return p.Position == 0 && !p.HasTakenOff
}

// Setup is the complete configuration of one game.
type Setup struct {
	Players    []string         `yaml:"players" json:"players"`
	Punishment PunishmentConfig `yaml:"punishment" json:"punishment"`
	Board      BoardShape       `yaml:"board" json:"board"`
	Traps      []TrapAction     `yaml:"traps" json:"traps"`
}
