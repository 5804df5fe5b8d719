package store

import (
	"context"
	"time"

	"campreg/internal/registration/models"
	pkgerrors "campreg/pkg/errors"
)

// Key space shared with the original deployment. Changing these orphans
// existing registrations.
const (
	RegPrefix  = "camp:reg:"
	IndexKey   = "camp:regs"
	FullPrefix = "camp:full:"
)

// FullTTL bounds retention of full records holding personal data.
const FullTTL = 365 * 24 * time.Hour

var (
	// ErrNotFound keeps store-specific 404s consistent across the redis
	// and in-memory implementations.
	ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
)

// Store owns summary records and the creation-ordered id index.
type Store interface {
	// Create writes the record first and then appends the id to the
	// index, so a reader following the index never dereferences a
	// missing record. An index append failure is logged and tolerated.
	Create(ctx context.Context, reg *models.Registration) error

	// Get resolves one record. A stored kv:// receipt reference is
	// rewritten to its fetchable API path before returning.
	Get(ctx context.Context, id string) (*models.Registration, error)

	// ListAll resolves every indexed id, drops ids that fail to
	// resolve, and returns records sorted by createdAt descending.
	ListAll(ctx context.Context) ([]*models.Registration, error)

	// UpdateStatus updates paymentStatus in place. Idempotent.
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) error

	// SetReceiptRef points the record's receiptUrl at the stored
	// receipt blob for id.
	SetReceiptRef(ctx context.Context, id string) error
}

// FullCache owns the complete submitted payloads. Write-once per id;
// records expire after FullTTL.
type FullCache interface {
	Put(ctx context.Context, full *models.FullRegistration) error
	Get(ctx context.Context, id string) (*models.FullRegistration, error)
}
