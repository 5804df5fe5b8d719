package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"campreg/internal/platform/metrics"
	"campreg/internal/registration/models"
	pkgerrors "campreg/pkg/errors"
)

// RedisStore is the production Store backed by the remote KV store.
type RedisStore struct {
	client  *redis.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewRedisStore constructs a redis-backed registration store.
func NewRedisStore(client *redis.Client, logger *slog.Logger, m *metrics.Metrics) *RedisStore {
	return &RedisStore{client: client, logger: logger, metrics: m}
}

func (s *RedisStore) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.StoreOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// Create writes the summary hash, then appends the id to the ZSET index
// scored by createdAt epoch-milliseconds. The record write is the
// primary write: its failure aborts the operation. The index append is
// best-effort; a reader tolerates the missing entry.
func (s *RedisStore) Create(ctx context.Context, reg *models.Registration) error {
	defer s.observe("create", time.Now())

	fields := map[string]interface{}{
		"name":          reg.Name,
		"phone":         reg.Phone,
		"age":           reg.Age,
		"church":        reg.Church,
		"city":          reg.City,
		"wantsShirt":    reg.WantsShirt,
		"shirtSize":     reg.ShirtSize,
		"paymentStatus": string(reg.PaymentStatus),
		"receiptUrl":    reg.ReceiptURL,
		"createdAt":     reg.CreatedAt,
	}
	if err := s.client.HSet(ctx, RegPrefix+reg.ID, fields).Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to save registration", err)
	}

	score := float64(reg.CreatedAtTime().UnixMilli())
	err := s.client.ZAdd(ctx, IndexKey, redis.Z{Score: score, Member: reg.ID}).Err()
	if err != nil {
		// Record is durable; the listing just won't see it until the
		// index is reconciled.
		s.logger.WarnContext(ctx, "index append failed after record write",
			"op", "create", "id", reg.ID, "error", err)
	}
	return nil
}

// Get resolves a single summary record.
func (s *RedisStore) Get(ctx context.Context, id string) (*models.Registration, error) {
	defer s.observe("get", time.Now())

	data, err := s.client.HGetAll(ctx, RegPrefix+id).Result()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to load registration", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return hydrate(id, data), nil
}

// hydrate maps a stored hash onto a Registration, normalizing the
// loosely-typed fields the way readers must tolerate them.
func hydrate(id string, data map[string]string) *models.Registration {
	wantsShirt := data["wantsShirt"]
	if wantsShirt != "true" {
		wantsShirt = "false"
	}

	status := models.PaymentStatus(data["paymentStatus"])
	if !status.Valid() {
		status = models.StatusPending
	}

	receiptURL := data["receiptUrl"]
	if strings.HasPrefix(receiptURL, models.ReceiptRefPrefix) {
		receiptURL = "/api/receipt/" + id
	}

	return &models.Registration{
		ID:            id,
		Name:          data["name"],
		Phone:         data["phone"],
		Age:           data["age"],
		Church:        data["church"],
		City:          data["city"],
		WantsShirt:    wantsShirt,
		ShirtSize:     data["shirtSize"],
		PaymentStatus: status,
		ReceiptURL:    receiptURL,
		CreatedAt:     data["createdAt"],
	}
}

// ListAll reads the index, resolves each id, and sorts by createdAt
// descending regardless of the physical order the index returned.
func (s *RedisStore) ListAll(ctx context.Context) ([]*models.Registration, error) {
	defer s.observe("list_all", time.Now())

	ids, err := s.indexIDs(ctx)
	if err != nil {
		return nil, err
	}

	regs := make([]*models.Registration, 0, len(ids))
	for _, id := range ids {
		reg, err := s.Get(ctx, id)
		if err != nil {
			// Tolerate partial writes: an indexed id without a record
			// is "not yet visible", not corruption.
			s.logger.WarnContext(ctx, "skipping unresolvable id in index",
				"op", "list_all", "id", id, "error", err)
			continue
		}
		regs = append(regs, reg)
	}

	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].CreatedAtTime().After(regs[j].CreatedAtTime())
	})
	return regs, nil
}

// indexIDs reads the index. Writes commit to a ZSET, but earlier
// deployments left LIST-shaped indexes behind, so an empty ZSET read
// falls through to LRANGE.
func (s *RedisStore) indexIDs(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRange(ctx, IndexKey, 0, -1).Result()
	if err == nil && len(ids) > 0 {
		return ids, nil
	}
	if err != nil && !isWrongType(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to read registration index", err)
	}

	ids, err = s.client.LRange(ctx, IndexKey, 0, -1).Result()
	if err != nil && !isWrongType(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to read registration index", err)
	}
	return ids, nil
}

func isWrongType(err error) bool {
	return err != nil && strings.Contains(err.Error(), "WRONGTYPE")
}

// UpdateStatus sets paymentStatus in place. The id must already exist;
// writing a lone status field for an unknown id would create a record
// the index never references.
func (s *RedisStore) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	defer s.observe("update_status", time.Now())

	exists, err := s.client.Exists(ctx, RegPrefix+id).Result()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to update status", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	if err := s.client.HSet(ctx, RegPrefix+id, "paymentStatus", string(status)).Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to update status", err)
	}
	return nil
}

// SetReceiptRef records the indirection token pointing at the stored
// receipt blob for id.
func (s *RedisStore) SetReceiptRef(ctx context.Context, id string) error {
	defer s.observe("set_receipt_ref", time.Now())

	ref := models.ReceiptRefPrefix + id
	if err := s.client.HSet(ctx, RegPrefix+id, "receiptUrl", ref).Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to set receipt reference", err)
	}
	return nil
}

// RedisFullCache persists complete submission payloads as JSON strings
// with bounded retention.
type RedisFullCache struct {
	client  *redis.Client
	metrics *metrics.Metrics
}

// NewRedisFullCache constructs a redis-backed full-record cache.
func NewRedisFullCache(client *redis.Client, m *metrics.Metrics) *RedisFullCache {
	return &RedisFullCache{client: client, metrics: m}
}

func (c *RedisFullCache) observe(op string, start time.Time) {
	if c.metrics != nil {
		c.metrics.StoreOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// Put stores the full payload with a one-year expiry.
func (c *RedisFullCache) Put(ctx context.Context, full *models.FullRegistration) error {
	defer c.observe("put_full", time.Now())

	payload, err := json.Marshal(full)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, "failed to encode registration", err)
	}
	if err := c.client.Set(ctx, FullPrefix+full.ID, payload, FullTTL).Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to save full registration", err)
	}
	return nil
}

// Get loads the full payload for id.
func (c *RedisFullCache) Get(ctx context.Context, id string) (*models.FullRegistration, error) {
	defer c.observe("get_full", time.Now())

	payload, err := c.client.Get(ctx, FullPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, "failed to load full registration", err)
	}

	var full models.FullRegistration
	if err := json.Unmarshal([]byte(payload), &full); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "failed to decode full registration", err)
	}
	return &full, nil
}
