// Package handler is the admin HTTP surface. Every route checks the
// shared-secret gate first and answers an opaque 404 on failure so the
// admin surface is indistinguishable from a missing resource.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campreg/internal/admin/gate"
	"campreg/internal/export"
	"campreg/internal/platform/middleware"
	"campreg/internal/registration/models"
	regservice "campreg/internal/registration/service"
	"campreg/internal/transport/shared"
	pkgerrors "campreg/pkg/errors"
)

// Handler handles the gated admin endpoints.
type Handler struct {
	regs   *regservice.Service
	gate   *gate.Gate
	logger *slog.Logger
}

// New creates an admin Handler.
func New(regs *regservice.Service, g *gate.Gate, logger *slog.Logger) *Handler {
	return &Handler{regs: regs, gate: g, logger: logger}
}

// Register wires the admin routes behind the gate middleware.
func (h *Handler) Register(r chi.Router) {
	admin := chi.NewRouter()
	admin.Use(h.requireKey)
	admin.Get("/registrations", h.handleList)
	admin.Patch("/registrations/{id}", h.handleUpdateStatus)
	admin.Get("/registrations/{id}/full", h.handleGetFull)
	admin.Get("/export.csv", h.handleExportCSV)

	r.Mount("/api/admin", admin)
}

// requireKey validates the credential from ?k= or the x-admin-key
// header.
func (h *Handler) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("k")
		if key == "" {
			key = r.Header.Get("x-admin-key")
		}
		if !h.gate.Validate(key) {
			h.logger.WarnContext(r.Context(), "admin gate rejected request",
				"request_id", middleware.GetRequestID(r.Context()),
				"path", r.URL.Path,
			)
			shared.WriteNotFound(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	regs, err := h.regs.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list registrations",
			"request_id", middleware.GetRequestID(r.Context()), "error", err)
		shared.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Erro ao buscar inscrições",
		})
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]interface{}{"registrations": regs})
}

type updateStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": "paymentStatus inválido",
		})
		return
	}

	ok, err := h.regs.UpdateStatus(r.Context(), id, req.PaymentStatus)
	if err != nil && pkgerrors.Is(err, pkgerrors.CodeInvalidInput) {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": "paymentStatus inválido",
		})
		return
	}
	if err != nil && pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		shared.WriteNotFound(w)
		return
	}
	if err != nil || !ok {
		shared.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Erro ao atualizar status",
		})
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleGetFull(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	full, err := h.regs.GetFull(r.Context(), id)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			shared.WriteNotFound(w)
			return
		}
		shared.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Erro ao buscar dados completos",
		})
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]interface{}{"inscricao": full})
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.regs.ExportCSV(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to export CSV",
			"request_id", middleware.GetRequestID(r.Context()), "error", err)
		shared.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Erro ao exportar CSV",
		})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
