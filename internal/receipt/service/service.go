// Package service holds receipt upload/fetch business rules: input
// validation, blob persistence, and the best-effort link back to the
// registration record.
package service

import (
	"context"
	"log/slog"

	"campreg/internal/platform/metrics"
	"campreg/internal/receipt/store"
	pkgerrors "campreg/pkg/errors"
)

// MaxSize is the hard ceiling for an uploaded receipt.
const MaxSize = 5 * 1024 * 1024

// allowedTypes is the receipt content-type allow-list.
var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// RegistrationRef is the one cross-component write the receipt flow
// performs: pointing the summary record at the stored blob.
type RegistrationRef interface {
	SetReceiptRef(ctx context.Context, id string) error
}

// Service validates and persists payment receipts.
type Service struct {
	blobs   store.BlobStore
	regs    RegistrationRef
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a receipt Service.
func New(blobs store.BlobStore, regs RegistrationRef, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{blobs: blobs, regs: regs, logger: logger, metrics: m}
}

// Store validates the upload, persists the blob, and best-effort
// updates the registration's receipt reference. If the reference update
// fails after the blob is durable, the blob stays retrievable by id and
// the admin view simply shows "no receipt" until reconciled.
func (s *Service) Store(ctx context.Context, id string, data []byte, contentType string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "Dados incompletos")
	}
	if len(data) == 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "Dados incompletos")
	}
	if !allowedTypes[contentType] {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "Tipo de arquivo não permitido")
	}
	if len(data) > MaxSize {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "Arquivo muito grande (máx. 5MB)")
	}

	if err := s.blobs.Put(ctx, id, data, contentType); err != nil {
		s.logger.ErrorContext(ctx, "failed to store receipt",
			"op", "receipt_store", "id", id, "error", err)
		return err
	}

	if err := s.regs.SetReceiptRef(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "receipt stored but record reference update failed",
			"op", "receipt_store", "id", id, "error", err)
	}

	if s.metrics != nil {
		s.metrics.ReceiptsUploaded.Inc()
	}
	return nil
}

// Fetch returns the receipt for id as an embeddable data URL.
func (s *Service) Fetch(ctx context.Context, id string) (string, error) {
	data, contentType, err := s.blobs.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return store.EncodeDataURL(data, contentType), nil
}
