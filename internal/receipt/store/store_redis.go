package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	pkgerrors "campreg/pkg/errors"
)

// RedisBlobStore keeps each receipt as a self-describing data URL in a
// string key with bounded expiry. This is a storage-engine compromise
// inherited from the original deployment, kept because the KV store is
// the one externally provided backend.
type RedisBlobStore struct {
	client *redis.Client
}

// NewRedisBlobStore constructs a KV-backed receipt store.
func NewRedisBlobStore(client *redis.Client) *RedisBlobStore {
	return &RedisBlobStore{client: client}
}

// Put encodes the blob as a data URL and stores it under the receipt
// key for id, replacing any previous receipt.
func (s *RedisBlobStore) Put(ctx context.Context, id string, data []byte, contentType string) error {
	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
	if err := s.client.Set(ctx, ReceiptPrefix+id, dataURL, TTL).Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to save receipt", err)
	}
	return nil
}

// Get decodes the stored data URL back into raw bytes and content type.
func (s *RedisBlobStore) Get(ctx context.Context, id string) ([]byte, string, error) {
	dataURL, err := s.client.Get(ctx, ReceiptPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to load receipt", err)
	}
	return decodeDataURL(dataURL)
}

// DataURL returns the stored receipt as-is for callers that embed it
// directly (the admin UI renders the data URL in an <img> tag).
func (s *RedisBlobStore) DataURL(ctx context.Context, id string) (string, error) {
	dataURL, err := s.client.Get(ctx, ReceiptPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to load receipt", err)
	}
	return dataURL, nil
}

func decodeDataURL(dataURL string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, "", pkgerrors.New(pkgerrors.CodeInternal, "malformed stored receipt")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", pkgerrors.New(pkgerrors.CodeInternal, "malformed stored receipt")
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, "malformed stored receipt", err)
	}
	return data, contentType, nil
}

// EncodeDataURL builds the embeddable data-URL form of a blob. Shared
// by backends that store raw bytes but serve data URLs upward.
func EncodeDataURL(data []byte, contentType string) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}
