package game

import "fmt"

// PlayerColors is the palette handed out in seat order.
var PlayerColors = []string{"#ff6b6b", "#4ecdc4", "#45b7d1", "#96ceb4"}

const (
	MinPlayers = 2
	MaxPlayers = 4
)

// NewPlayers seats one grounded player per name. Empty names become
// "Player N".
func NewPlayers(names []string) []Player {
	players := make([]Player, 0, len(names))
	for i, name := range names {
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		players = append(players, Player{
			ID:    i + 1,
			Name:  name,
			Color: PlayerColors[i%len(PlayerColors)],
		})
	}
	return players
}

// RollDice returns a uniform roll between DiceMin and DiceMax.
func RollDice(src Source) int {
	return DiceMin + intn(src, DiceMax-DiceMin+1)
}
