// Package service implements the registration workflow: minting ids,
// pricing submissions, projecting summary records, and the admin
// operations over them.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"campreg/internal/export"
	"campreg/internal/platform/metrics"
	"campreg/internal/pricing"
	"campreg/internal/registration/models"
	"campreg/internal/registration/store"
	pkgerrors "campreg/pkg/errors"
)

// Service coordinates the registration repository and the full-record
// cache.
type Service struct {
	store   store.Store
	fulls   store.FullCache
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the submission clock. Tests use it to pin
// pricing-tier boundaries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a registration Service.
func New(st store.Store, fulls store.FullCache, logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Service {
	s := &Service{
		store:   st,
		fulls:   fulls,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// mintID builds a fresh registration id. The epoch-millisecond prefix
// keeps ids roughly sortable; the uuid fragment makes collisions within
// one millisecond irrelevant.
func mintID(now time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("INS-%d-%s", now.UnixMilli(), suffix)
}

func validateSubmission(sub *models.Submission) error {
	if strings.TrimSpace(sub.CamperName) == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "nomeAcampante é obrigatório")
	}
	if strings.TrimSpace(sub.LegalGuardianPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "celularResponsavelLegal é obrigatório")
	}
	if sub.ResponsibleEmail != "" && !govalidator.IsEmail(sub.ResponsibleEmail) {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "emailResponsavel inválido")
	}
	if !govalidator.StringLength(sub.CamperName, "1", "200") {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "nomeAcampante muito longo")
	}
	if sub.WantsShirt && !models.ValidShirtSize(sub.ShirtSize) {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "tamanhoCamisa inválido")
	}
	if !sub.WantsShirt {
		sub.ShirtSize = ""
	}
	return nil
}

// Submit prices and persists a registration. The summary record is the
// primary write: its failure aborts the submission. The index append
// inside Create is best-effort; a full-record write failure also aborts
// because the payment page cannot render without it.
func (s *Service) Submit(ctx context.Context, sub *models.Submission) (*models.FullRegistration, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	now := s.now()
	fee, shirtFee, total := pricing.Quote(now, sub.WantsShirt)

	full := &models.FullRegistration{
		Submission:      *sub,
		RegistrationFee: fee,
		ShirtFee:        shirtFee,
		Total:           total,
		CreatedAt:       now.UTC().Format(time.RFC3339Nano),
		ID:              mintID(now),
	}

	if err := s.store.Create(ctx, full.Summary()); err != nil {
		s.logger.ErrorContext(ctx, "failed to save registration",
			"op", "submit", "id", full.ID, "error", err)
		return nil, err
	}

	if err := s.fulls.Put(ctx, full); err != nil {
		s.logger.ErrorContext(ctx, "failed to save full registration",
			"op", "submit", "id", full.ID, "error", err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RegistrationsCreated.Inc()
	}
	s.logger.InfoContext(ctx, "registration saved", "op", "submit", "id", full.ID, "total", total)
	return full, nil
}

// Get returns the summary record for id.
func (s *Service) Get(ctx context.Context, id string) (*models.Registration, error) {
	return s.store.Get(ctx, id)
}

// GetFull returns the complete record for id. When the full record has
// expired but the summary survives, a partial record projected from the
// summary is returned so the payment page still renders something.
func (s *Service) GetFull(ctx context.Context, id string) (*models.FullRegistration, error) {
	full, err := s.fulls.Get(ctx, id)
	if err == nil {
		return full, nil
	}
	if !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		return nil, err
	}

	reg, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	partial := &models.FullRegistration{
		Submission: models.Submission{
			CamperName:         reg.Name,
			LegalGuardianPhone: reg.Phone,
			CamperAge:          reg.Age,
			ResponsibleCity:    reg.City,
			WantsShirt:         reg.WantsShirt == "true",
			ShirtSize:          reg.ShirtSize,
		},
		CreatedAt: reg.CreatedAt,
		ID:        reg.ID,
	}
	if partial.WantsShirt {
		partial.ShirtFee = pricing.ShirtPrice
	}
	return partial, nil
}

// List returns every registration, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Registration, error) {
	return s.store.ListAll(ctx)
}

// UpdateStatus sets paymentStatus for id. It reports success as a bool
// because this is a retryable admin action; callers only distinguish
// invalid input from everything else.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (bool, error) {
	if !status.Valid() {
		return false, pkgerrors.New(pkgerrors.CodeInvalidInput, "paymentStatus inválido")
	}
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		s.logger.WarnContext(ctx, "failed to update payment status",
			"op", "update_status", "id", id, "status", string(status), "error", err)
		return false, err
	}
	if s.metrics != nil {
		s.metrics.StatusUpdates.WithLabelValues(string(status)).Inc()
	}
	return true, nil
}

// ExportCSV renders the full listing as the admin CSV download.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	regs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return export.CSV(regs)
}
