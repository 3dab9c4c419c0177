// Package handler contains the chi HTTP handlers that translate requests
// to and from the engine. The kiosk front end talks to /plays; everything
// under /admin backs the operator dashboard.
package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/fortuna-totem/engine/internal/directory"
	"github.com/fortuna-totem/engine/internal/model"
	"github.com/fortuna-totem/engine/internal/service"
)

// Handler holds the HTTP surface of the totem.
type Handler struct {
	svc *service.Game
	dir *directory.Directory
	log zerolog.Logger
}

// New constructs a Handler.
func New(svc *service.Game, dir *directory.Directory, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, dir: dir, log: log}
}

// Routes builds the full router, middleware included.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(h.log))

	r.Get("/health", h.Health)
	r.Post("/plays", h.Play)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/history", h.History)
		r.Get("/history.csv", h.HistoryCSV)
		r.Delete("/history", h.ResetHistory)
		r.Get("/stats", h.Stats)
		r.Get("/emergency", h.GetEmergency)
		r.Put("/emergency", h.SetEmergency)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Play handles POST /plays: one play attempt for the given employee id.
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	var req model.PlayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id := strings.TrimSpace(req.EmployeeID)
	if id == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required")
		return
	}

	p, ok := h.dir.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown employee id")
		return
	}

	outcome, err := h.svc.Play(r.Context(), p)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyPlayed):
			writeError(w, http.StatusConflict, "employee already played")
		case errors.Is(err, service.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "play could not be recorded, try again")
		default:
			writeError(w, http.StatusInternalServerError, "play failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// History handles GET /admin/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.History(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "failed to read history")
		return
	}
	if recs == nil {
		recs = []model.PlayRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// HistoryCSV handles GET /admin/history.csv: the dashboard export, same
// columns as the original report.
func (h *Handler) HistoryCSV(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.History(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "failed to read history")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		`attachment; filename="reporte_rifa_`+time.Now().Format("2006-01-02")+`.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Fecha/Hora", "ID Empleado", "Nombre", "Resultado", "Premio"})
	for _, rec := range recs {
		result := "NO GANADOR"
		if rec.Win {
			result = "GANADOR"
		}
		prize := ""
		if rec.Prize != nil {
			prize = *rec.Prize
		}
		_ = cw.Write([]string{
			rec.CreatedAt.Format(time.RFC3339),
			rec.EmployeeID,
			rec.Name,
			result,
			prize,
		})
	}
	cw.Flush()
}

// ResetHistory handles DELETE /admin/history: the administrative reset.
func (h *Handler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetHistory(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "failed to reset history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /admin/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetEmergency handles GET /admin/emergency.
func (h *Handler) GetEmergency(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.EmergencyRequest{Enabled: h.svc.Emergency(r.Context())})
}

// SetEmergency handles PUT /admin/emergency.
func (h *Handler) SetEmergency(w http.ResponseWriter, r *http.Request) {
	var req model.EmergencyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.svc.SetEmergency(r.Context(), req.Enabled); err != nil {
		writeError(w, http.StatusServiceUnavailable, "failed to update emergency mode")
		return
	}
	writeJSON(w, http.StatusOK, req)
}
