package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/atang-sp/flying-chess/internal/boardsheet"
	"github.com/atang-sp/flying-chess/internal/transfer"

	"go.uber.org/zap"
)

// GET /api/games/{id}/board.pdf returns a printable sheet of the board
// with the players' current positions.
func (s *Server) handleBoardPDF(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	pdfBytes, err := boardsheet.Generate(g.Board, g.Players, "Flying Chess")
	if err != nil {
		s.logger().Error("board sheet failed", zap.String("id", g.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("could not generate board sheet"))
		return
	}
	if pdfBytes == nil {
		writeError(w, http.StatusNotFound, errors.New("game has no board"))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="flying-chess-board.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	_, _ = w.Write(pdfBytes)
}

// GET /api/games/{id}/export?format=json|qrcode&sections=players,layout
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	if s.Transfer == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("export is not configured"))
		return
	}
	q := r.URL.Query()
	opts, err := transfer.ParseSections(q.Get("sections"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	d := s.Transfer.Collect(r.Context(), opts, g.Board)

	switch q.Get("format") {
	case "", "json":
		b, err := transfer.EncodeJSON(d)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		name := transfer.Filename(opts, s.Transfer.Now())
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		_, _ = w.Write(b)
	case "qrcode":
		size, _ := strconv.Atoi(q.Get("size"))
		png, err := transfer.EncodeQR(d, size)
		if errors.Is(err, transfer.ErrTooLargeForQR) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown format %q", q.Get("format")))
	}
}
