package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/atang-sp/flying-chess/internal/boardgen"
	"github.com/atang-sp/flying-chess/internal/game"
	"github.com/atang-sp/flying-chess/internal/transfer"
)

var errNoSettings = errors.New("settings are not configured")

type validateRequest struct {
	Punishment *game.PunishmentConfig `json:"punishment"`
	Board      *game.BoardShape       `json:"board"`
}

type validateResponse struct {
	Punishment *game.Validation          `json:"punishment,omitempty"`
	Board      *boardgen.ShapeValidation `json:"board,omitempty"`
}

// POST /api/validate checks a punishment config and board shape without
// saving anything.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request body: %w", err))
		return
	}
	var resp validateResponse
	if req.Punishment != nil {
		v := game.ValidateConfig(req.Punishment)
		resp.Punishment = &v
	}
	if req.Board != nil {
		v := boardgen.ValidateShape(*req.Board)
		resp.Board = &v
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/import takes an export as JSON, or as a PNG or JPEG QR code.
// ?backup=false skips the backup of the current settings.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.Transfer == nil {
		writeError(w, http.StatusServiceUnavailable, errNoSettings)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "image/") {
		if raw, err = transfer.DecodeQR(raw); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	opts := transfer.DefaultImportOptions
	if r.URL.Query().Get("backup") == "false" {
		opts.BackupCurrent = false
	}
	res, err := s.Transfer.Import(r.Context(), raw, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/restore
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if s.Transfer == nil {
		writeError(w, http.StatusServiceUnavailable, errNoSettings)
		return
	}
	if err := s.Transfer.RestoreBackup(r.Context()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, transfer.ErrNoBackup) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Settings.Setup(r.Context(), s.Setup))
}

// GET /api/settings returns the saved setup, or the server default.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if s.Settings == nil {
		writeJSON(w, http.StatusOK, s.Setup)
		return
	}
	writeJSON(w, http.StatusOK, s.Settings.Setup(r.Context(), s.Setup))
}

// PUT /api/settings
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	if s.Settings == nil {
		writeError(w, http.StatusServiceUnavailable, errNoSettings)
		return
	}
	setup := s.Settings.Setup(r.Context(), s.Setup)
	if err := decodeBody(r, &setup); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request body: %w", err))
		return
	}
	if err := setup.CheckNames(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if v := game.ValidateConfig(&setup.Punishment); !v.Valid {
		writeJSON(w, http.StatusBadRequest, setupError{Error: v.Message, Punishment: &v})
		return
	}
	if v := boardgen.ValidateShape(setup.Board); !v.Valid {
		writeJSON(w, http.StatusBadRequest, setupError{Error: "invalid board shape", Board: &v})
		return
	}
	s.Settings.SaveSetup(r.Context(), setup)
	writeJSON(w, http.StatusOK, setup)
}
