// Package handler is the public HTTP surface: form submission, payment
// page reads, and receipt upload/fetch.
package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"campreg/internal/admin/gate"
	"campreg/internal/platform/middleware"
	receiptservice "campreg/internal/receipt/service"
	"campreg/internal/registration/models"
	regservice "campreg/internal/registration/service"
	"campreg/internal/transport/shared"
	pkgerrors "campreg/pkg/errors"
)

// Handler handles the public registration endpoints.
type Handler struct {
	regs     *regservice.Service
	receipts *receiptservice.Service
	gate     *gate.Gate
	pixKey   string
	logger   *slog.Logger
}

// New creates a public registration Handler.
func New(regs *regservice.Service, receipts *receiptservice.Service, g *gate.Gate, pixKey string, logger *slog.Logger) *Handler {
	return &Handler{regs: regs, receipts: receipts, gate: g, pixKey: pixKey, logger: logger}
}

// Register wires the public routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/inscricoes", h.handleSubmit)
	r.Get("/api/inscricoes", h.handleFetch)
	r.Post("/api/comprovante", h.handleUploadReceipt)
	r.Get("/api/receipt/{id}", h.handleFetchReceipt)
	r.Get("/api/pagamento/{id}", h.handlePaymentInfo)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var sub models.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "corpo da requisição inválido"))
		return
	}

	full, err := h.regs.Submit(ctx, &sub)
	if err != nil {
		h.logger.WarnContext(ctx, "submission rejected",
			"request_id", middleware.GetRequestID(ctx), "error", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Inscrição salva com sucesso!",
		"id":      full.ID,
	})
}

// handleFetch serves both the payment page (with ?id=) and the gated
// full listing (without).
func (h *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.URL.Query().Get("id")

	if id == "" {
		// Listing everything exposes personal data; it sits behind the
		// same gate as the admin surface.
		if !h.gate.Validate(adminCredential(r)) {
			shared.WriteNotFound(w)
			return
		}
		regs, err := h.regs.List(ctx)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		shared.WriteJSON(w, http.StatusOK, map[string]interface{}{"inscricoes": regs})
		return
	}

	full, err := h.regs.GetFull(ctx, id)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			shared.WriteJSON(w, http.StatusNotFound, map[string]interface{}{"inscricao": nil})
			return
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]interface{}{"inscricao": full})
}

func (h *Handler) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// One MiB of slack over the receipt ceiling for the other form
	// fields; the service enforces the real limit.
	if err := r.ParseMultipartForm(receiptservice.MaxSize + 1<<20); err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "Dados incompletos"))
		return
	}

	id := r.FormValue("inscricaoId")
	file, header, err := r.FormFile("comprovante")
	if err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "Dados incompletos"))
		return
	}
	defer file.Close()

	// Read one byte past the ceiling so an oversized upload is rejected
	// by the service instead of silently truncated here.
	data, err := io.ReadAll(io.LimitReader(file, receiptservice.MaxSize+1))
	if err != nil {
		shared.WriteError(w, pkgerrors.Wrap(pkgerrors.CodeInternal, "Erro ao salvar comprovante", err))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if err := h.receipts.Store(ctx, id, data, contentType); err != nil {
		h.logger.WarnContext(ctx, "receipt upload rejected",
			"request_id", middleware.GetRequestID(ctx), "id", id, "error", err)
		shared.WriteError(w, err)
		return
	}

	ext := strings.TrimPrefix(path.Ext(header.Filename), ".")
	shared.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Comprovante enviado com sucesso!",
		"arquivo": fmt.Sprintf("%s-%d.%s", id, time.Now().UnixMilli(), ext),
	})
}

func (h *Handler) handleFetchReceipt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dataURL, err := h.receipts.Fetch(r.Context(), id)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			shared.WriteJSON(w, http.StatusNotFound, map[string]interface{}{
				"success": false,
				"message": "Comprovante não encontrado",
			})
			return
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"receiptUrl": dataURL,
	})
}

// handlePaymentInfo feeds the payment confirmation page: the PIX key
// plus the amounts computed at submission time.
func (h *Handler) handlePaymentInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	full, err := h.regs.GetFull(r.Context(), id)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			shared.WriteJSON(w, http.StatusNotFound, map[string]interface{}{"inscricao": nil})
			return
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":             full.ID,
		"chavePix":       h.pixKey,
		"valorInscricao": full.RegistrationFee,
		"valorCamisa":    full.ShirtFee,
		"valorTotal":     full.Total,
	})
}

// adminCredential pulls the shared secret from the ?k= query parameter
// or the x-admin-key header.
func adminCredential(r *http.Request) string {
	if k := r.URL.Query().Get("k"); k != "" {
		return k
	}
	return r.Header.Get("x-admin-key")
}
