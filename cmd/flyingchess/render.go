package main

import (
	"fmt"
	"strings"

	"github.com/atang-sp/flying-chess/internal/boardgen"
	"github.com/atang-sp/flying-chess/internal/boardsheet"
	"github.com/atang-sp/flying-chess/internal/game"

	"github.com/charmbracelet/lipgloss"
)

const cellWidth = 10

var (
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	blue    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	bold    = lipgloss.NewStyle().Bold(true)
	box     = lipgloss.NewStyle().Width(cellWidth)
)

func categoryStyle(c game.Category) lipgloss.Style {
	switch c {
	case game.CategoryPunishment:
		return red
	case game.CategoryBonus:
		return green
	case game.CategorySpecial:
		return yellow
	case game.CategoryRestart:
		return magenta
	case game.CategoryTrap:
		return cyan
	default:
		return dim
	}
}

// renderBoard draws board as rows of perRow cells, alternating direction
// like the printed sheet. Players are marked by the first letter of their
// name.
func renderBoard(board []game.Cell, players []game.Player, perRow int) string {
	if len(board) == 0 {
		return ""
	}
	if perRow <= 0 {
		perRow = 8
	}
	at := map[int]string{}
	for _, p := range players {
		if p.Position > 0 && p.Name != "" {
			at[p.Position] += string([]rune(p.Name)[0])
		}
	}

	var b strings.Builder
	for start := 0; start < len(board); start += perRow {
		row := board[start:min(start+perRow, len(board))]
		cells := make([]string, len(row))
		for i, c := range row {
			text := fmt.Sprintf("%2d %s", c.ID, boardsheet.ShortLabel(c))
			if who := at[c.ID]; who != "" {
				text += " " + who
			}
			cells[i] = box.Render(categoryStyle(c.Category).Render(truncate(text, cellWidth-1)))
		}
		if (start/perRow)%2 == 1 {
			for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
				cells[i], cells[j] = cells[j], cells[i]
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteByte('\n')
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func renderStats(s boardgen.BoardStats) string {
	return fmt.Sprintf("%s %d  %s %d  %s %d  %s %d  %s %d  %s %d  %s %d",
		dim.Render("cells"), s.Total,
		red.Render("punishment"), s.Punishment,
		green.Render("bonus"), s.Bonus,
		yellow.Render("reverse"), s.Reverse,
		yellow.Render("rest"), s.Rest,
		magenta.Render("restart"), s.Restart,
		cyan.Render("trap"), s.Trap)
}

// renderPunishments lists the text of every punishment cell.
func renderPunishments(board []game.Cell) string {
	var b strings.Builder
	for _, c := range board {
		e, ok := c.Effect.(game.PunishmentEffect)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", red.Render(fmt.Sprintf("%3d", c.ID)), e.Action.Description)
	}
	return b.String()
}
