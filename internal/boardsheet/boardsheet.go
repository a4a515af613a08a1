// Package boardsheet renders a generated board as a printable PDF: the track
// winds across a parchment page with one glyph per cell category, followed
// by a page listing what every punishment and trap cell asks for.
package boardsheet

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/atang-sp/flying-chess/internal/game"

	"github.com/jung-kurt/gofpdf/v2"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	top       = margin + 48
	legendH   = 70
	fontSize  = 8
	titleSize = 16
	labelSize = 6
)

// Generate returns PDF bytes for board. Players, when given, are drawn as
// colored tokens on their current cells. An empty board yields nil.
func Generate(board []game.Cell, players []game.Player, title string) ([]byte, error) {
	if len(board) == 0 {
		return nil, nil
	}

	perRow := 6
	if len(board) > 48 {
		perRow = 8
	}
	rows := (len(board) + perRow - 1) / perRow
	availW := float64(pageW - 2*margin)
	availH := float64(pageH - top - margin - legendH)
	step := math.Min(availW/float64(perRow), availH/float64(rows))
	size := step * 0.72

	// Snake layout: odd rows run right to left so the track stays continuous.
	centers := make([][2]float64, len(board))
	x0 := float64(margin) + (availW-step*float64(perRow))/2 + step/2
	for i := range board {
		row, col := i/perRow, i%perRow
		if row%2 == 1 {
			col = perRow - 1 - col
		}
		centers[i] = [2]float64{x0 + float64(col)*step, float64(top) + step/2 + float64(row)*step}
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFillColor(245, 235, 210)
	pdf.Rect(0, 0, pageW, pageH, "F")
	drawWavyBorder(pdf)

	pdf.SetTextColor(80, 50, 30)
	pdf.SetFont("Helvetica", "B", titleSize)
	if title == "" {
		title = "Flying Chess"
	}
	pdf.SetXY(margin, margin+4)
	pdf.CellFormat(availW, 18, tr(title), "", 0, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetXY(margin, margin+22)
	pdf.CellFormat(availW, 10, fmt.Sprintf("%d cells", len(board)), "", 0, "C", false, 0, "")

	// Dashed track between cell centers
	pdf.SetDrawColor(180, 40, 40)
	pdf.SetLineWidth(2)
	pdf.SetDashPattern([]float64{8, 5}, 0)
	for i := 0; i < len(centers)-1; i++ {
		pdf.Line(centers[i][0], centers[i][1], centers[i+1][0], centers[i+1][1])
	}
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetLineWidth(1)

	for i, c := range board {
		drawCell(pdf, tr, c, centers[i][0], centers[i][1], size, i == 0 || i == len(board)-1)
	}
	drawTokens(pdf, players, centers, size)
	drawLegend(pdf, float64(pageH-margin-legendH+10))

	drawKey(pdf, tr, board)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type palette struct{ r, g, b int }

var categoryFill = map[game.Category]palette{
	game.CategoryPunishment: {230, 170, 160},
	game.CategoryBonus:      {170, 210, 160},
	game.CategorySpecial:    {170, 190, 225},
	game.CategoryRestart:    {225, 200, 140},
	game.CategoryTrap:       {200, 170, 215},
	game.CategoryNormal:     {250, 245, 230},
}

func drawCell(pdf *gofpdf.Fpdf, tr func(string) string, c game.Cell, x, y, size float64, marker bool) {
	fill, ok := categoryFill[c.Category]
	if !ok || marker {
		fill = palette{240, 220, 150}
	}
	pdf.SetFillColor(fill.r, fill.g, fill.b)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1.2)
	pdf.Rect(x-size/2, y-size/2, size, size, "FD")
	pdf.SetLineWidth(1)

	pdf.SetFont("Helvetica", "B", labelSize)
	pdf.SetTextColor(40, 25, 15)
	pdf.SetXY(x-size/2+2, y-size/2+1)
	pdf.CellFormat(size/2, 7, strconv.Itoa(c.ID), "", 0, "L", false, 0, "")

	r := size / 2
	pdf.SetDrawColor(60, 40, 25)
	switch {
	case marker && c.ID == 1:
		drawFlag(pdf, x, y, r)
	case marker:
		drawStar(pdf, x, y, r)
	default:
		switch c.Effect.(type) {
		case game.PunishmentEffect:
			drawCross(pdf, x, y, r)
		case game.MoveEffect:
			if c.Category == game.CategoryBonus {
				drawArrow(pdf, x, y, r, 1)
			} else {
				pdf.Circle(x, y, 1.5, "D")
			}
		case game.ReverseEffect:
			drawArrow(pdf, x, y, r, -1)
		case game.RestEffect:
			drawRest(pdf, x, y, r)
		case game.RestartEffect:
			drawLoop(pdf, x, y, r)
		case game.TrapEffect:
			drawTriangle(pdf, x, y, r)
		}
	}

	if label := ShortLabel(c); label != "" {
		pdf.SetFont("Helvetica", "", labelSize)
		pdf.SetXY(x-size/2, y+size/2-8)
		pdf.CellFormat(size, 7, tr(label), "", 0, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetTextColor(80, 50, 30)
}

// ShortLabel is the few characters printed inside a cell.
func ShortLabel(c game.Cell) string {
	switch e := c.Effect.(type) {
	case game.PunishmentEffect:
		a := e.Action
		switch a.DynamicType {
		case game.DynamicDiceMultiplier:
			return fmt.Sprintf("dice x%d", max(a.Multiplier, 1))
		case game.DynamicPreviousPlayer:
			return "prev"
		case game.DynamicNextPlayer:
			return "next"
		case game.DynamicOtherPlayerChoice:
			return "vote"
		}
		if a.Strikes > 0 {
			return "x" + strconv.Itoa(a.Strikes)
		}
	case game.MoveEffect:
		if e.Delta > 0 {
			return "+" + strconv.Itoa(e.Delta)
		}
		if e.Text != "" {
			return strings.ToUpper(e.Text)
		}
	case game.ReverseEffect:
		return "-" + strconv.Itoa(e.Steps)
	case game.RestEffect:
		return "rest"
	case game.TrapEffect:
		return e.Trap.Name
	}
	return ""
}

func drawCross(pdf *gofpdf.Fpdf, x, y, r float64) {
	pdf.SetLineWidth(1.5)
	pdf.Line(x-r*0.35, y-r*0.35, x+r*0.35, y+r*0.35)
	pdf.Line(x-r*0.35, y+r*0.35, x+r*0.35, y-r*0.35)
	pdf.SetLineWidth(1)
}

// drawArrow draws a horizontal arrow pointing right for dir > 0, left otherwise.
func drawArrow(pdf *gofpdf.Fpdf, x, y, r float64, dir float64) {
	tip := x + dir*r*0.45
	pdf.SetLineWidth(1.5)
	pdf.Line(x-dir*r*0.45, y, tip, y)
	pdf.Line(tip, y, tip-dir*r*0.2, y-r*0.2)
	pdf.Line(tip, y, tip-dir*r*0.2, y+r*0.2)
	pdf.SetLineWidth(1)
}

func drawRest(pdf *gofpdf.Fpdf, x, y, r float64) {
	pdf.Circle(x, y, r*0.35, "D")
	pdf.Line(x, y, x, y-r*0.25)
	pdf.Line(x, y, x+r*0.18, y)
}

func drawLoop(pdf *gofpdf.Fpdf, x, y, r float64) {
	pdf.Arc(x, y, r*0.35, r*0.35, 0, 30, 330, "D")
	ex := x + r*0.35*math.Cos(30*math.Pi/180)
	ey := y - r*0.35*math.Sin(30*math.Pi/180)
	pdf.Line(ex, ey, ex+r*0.15, ey-r*0.05)
	pdf.Line(ex, ey, ex-r*0.02, ey-r*0.17)
}

func drawTriangle(pdf *gofpdf.Fpdf, x, y, r float64) {
	pdf.Polygon([]gofpdf.PointType{
		{X: x, Y: y - r*0.4},
		{X: x + r*0.4, Y: y + r*0.3},
		{X: x - r*0.4, Y: y + r*0.3},
	}, "D")
	pdf.Line(x, y-r*0.15, x, y+r*0.08)
}

func drawFlag(pdf *gofpdf.Fpdf, x, y, r float64) {
	pdf.Line(x-r*0.25, y+r*0.4, x-r*0.25, y-r*0.4)
	pdf.SetFillColor(180, 40, 40)
	pdf.Polygon([]gofpdf.PointType{
		{X: x - r*0.25, Y: y - r*0.4},
		{X: x + r*0.35, Y: y - r*0.22},
		{X: x - r*0.25, Y: y - r*0.05},
	}, "FD")
}

func drawStar(pdf *gofpdf.Fpdf, x, y, r float64) {
	pts := make([]gofpdf.PointType, 0, 10)
	for i := 0; i < 10; i++ {
		rad := r * 0.4
		if i%2 == 1 {
			rad = r * 0.17
		}
		angle := float64(i)*36*math.Pi/180 - math.Pi/2
		pts = append(pts, gofpdf.PointType{X: x + rad*math.Cos(angle), Y: y + rad*math.Sin(angle)})
	}
	pdf.SetFillColor(220, 170, 40)
	pdf.Polygon(pts, "FD")
}

// drawTokens stacks player tokens along the bottom edge of their cell.
// Grounded players are not drawn.
func drawTokens(pdf *gofpdf.Fpdf, players []game.Player, centers [][2]float64, size float64) {
	perCell := map[int]int{}
	for _, p := range players {
		if p.Position < 1 || p.Position > len(centers) {
			continue
		}
		n := perCell[p.Position]
		perCell[p.Position]++
		r, g, b := hexColor(p.Color)
		pdf.SetFillColor(r, g, b)
		pdf.SetDrawColor(0, 0, 0)
		c := centers[p.Position-1]
		pdf.Circle(c[0]-size/2+6+float64(n)*9, c[1]+size/2-14, 4, "FD")
	}
}

// hexColor parses "#rrggbb", falling back to grey.
func hexColor(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 128, 128, 128
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 128, 128, 128
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func drawLegend(pdf *gofpdf.Fpdf, y float64) {
	items := []struct {
		cat   game.Category
		label string
	}{
		{game.CategoryPunishment, "Punishment"},
		{game.CategoryBonus, "Forward"},
		{game.CategorySpecial, "Back / rest"},
		{game.CategoryRestart, "Restart"},
		{game.CategoryTrap, "Trap"},
		{game.CategoryNormal, "Plain"},
	}
	w := float64(pageW-2*margin) / float64(len(items))
	pdf.SetFont("Helvetica", "", fontSize)
	for i, it := range items {
		x := float64(margin) + float64(i)*w + 6
		f := categoryFill[it.cat]
		pdf.SetFillColor(f.r, f.g, f.b)
		pdf.SetDrawColor(0, 0, 0)
		pdf.Rect(x, y, 12, 12, "FD")
		pdf.SetXY(x+15, y+1)
		pdf.CellFormat(w-20, 10, it.label, "", 0, "L", false, 0, "")
	}
}

// drawKey adds pages listing the full text of every punishment and trap cell.
func drawKey(pdf *gofpdf.Fpdf, tr func(string) string, board []game.Cell) {
	var lines []string
	for _, c := range board {
		switch e := c.Effect.(type) {
		case game.PunishmentEffect:
			lines = append(lines, fmt.Sprintf("%3d  %s", c.ID, e.Action.Description))
		case game.TrapEffect:
			lines = append(lines, fmt.Sprintf("%3d  Trap: %s", c.ID, e.Trap.Description))
		}
	}
	if len(lines) == 0 {
		return
	}
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	pdf.SetTextColor(40, 25, 15)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 16, "Cell key", "", 1, "L", false, 0, "")
	pdf.SetFont("Courier", "", 9)
	for _, l := range lines {
		pdf.MultiCell(0, 12, tr(l), "", "L", false)
	}
}

func drawWavyBorder(pdf *gofpdf.Fpdf) {
	pts := wavyRectPoints(margin/2, margin/2, pageW-margin, pageH-margin, 14, 3)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(2)
	pdf.Polygon(pts, "D")
	pdf.SetLineWidth(1)
}

// wavyRectPoints returns the outline of a rectangle whose sides wobble
// sinusoidally.
func wavyRectPoints(x, y, w, h float64, steps int, amp float64) []gofpdf.PointType {
	pts := make([]gofpdf.PointType, 0, steps*4+1)
	edge := func(fx, fy func(t float64) float64, phase float64) {
		for i := 1; i <= steps; i++ {
			t := float64(i) / float64(steps)
			pts = append(pts, gofpdf.PointType{
				X: fx(t) + amp*math.Sin(float64(i)*phase),
				Y: fy(t) + amp*math.Cos(float64(i)*phase),
			})
		}
	}
	pts = append(pts, gofpdf.PointType{X: x, Y: y})
	edge(func(t float64) float64 { return x + t*w }, func(float64) float64 { return y }, 0.7)
	edge(func(float64) float64 { return x + w }, func(t float64) float64 { return y + t*h }, 0.6)
	edge(func(t float64) float64 { return x + w - t*w }, func(float64) float64 { return y + h }, 0.8)
	edge(func(float64) float64 { return x }, func(t float64) float64 { return y + h - t*h }, 0.5)
	return pts
}
