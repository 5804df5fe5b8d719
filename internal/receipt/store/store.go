// Package store persists payment-proof blobs keyed by registration id.
// The backing medium is pluggable so the blob location can change
// without touching the registration records that reference it.
package store

import (
	"context"
	"time"

	pkgerrors "campreg/pkg/errors"
)

// ReceiptPrefix is the KV key prefix shared with the original
// deployment.
const ReceiptPrefix = "camp:receipt:"

// TTL bounds receipt retention.
const TTL = 365 * 24 * time.Hour

// ErrNotFound is returned when no receipt exists for an id.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "receipt not found")

// BlobStore stores one receipt blob per registration id,
// last-write-wins.
type BlobStore interface {
	Put(ctx context.Context, id string, data []byte, contentType string) error
	Get(ctx context.Context, id string) (data []byte, contentType string, err error)
}
