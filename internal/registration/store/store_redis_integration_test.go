//go:build integration

package store

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"campreg/internal/registration/models"
	"campreg/pkg/testutil/containers"
	pkgerrors "campreg/pkg/errors"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisStore
	fulls *RedisFullCache
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.store = NewRedisStore(s.redis.Client, logger, nil)
	s.fulls = NewRedisFullCache(s.redis.Client, nil)
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisStoreSuite) reg(id string, createdAt time.Time) *models.Registration {
	return &models.Registration{
		ID:            id,
		Name:          "Camper " + id,
		Phone:         "(19) 99999-0000",
		WantsShirt:    "false",
		PaymentStatus: models.StatusPending,
		CreatedAt:     createdAt.UTC().Format(time.RFC3339Nano),
	}
}

func (s *RedisStoreSuite) TestCreateGetRoundTrip() {
	now := time.Now()
	s.Require().NoError(s.store.Create(s.ctx, s.reg("INS-1", now)))

	got, err := s.store.Get(s.ctx, "INS-1")
	s.Require().NoError(err)
	s.Equal("Camper INS-1", got.Name)
	s.Equal(models.StatusPending, got.PaymentStatus)
}

func (s *RedisStoreSuite) TestGetUnknownID() {
	_, err := s.store.Get(s.ctx, "INS-missing")
	s.True(pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func (s *RedisStoreSuite) TestListAllFromZSetIndex() {
	base := time.Now()
	s.Require().NoError(s.store.Create(s.ctx, s.reg("INS-old", base.Add(-2*time.Hour))))
	s.Require().NoError(s.store.Create(s.ctx, s.reg("INS-new", base)))
	s.Require().NoError(s.store.Create(s.ctx, s.reg("INS-mid", base.Add(-time.Hour))))

	regs, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(regs, 3)
	s.Equal("INS-new", regs[0].ID)
	s.Equal("INS-mid", regs[1].ID)
	s.Equal("INS-old", regs[2].ID)
}

func (s *RedisStoreSuite) TestListAllToleratesListShapedIndex() {
	// A legacy deployment left the index behind as a LIST.
	now := time.Now()
	reg := s.reg("INS-legacy", now)
	fields := map[string]interface{}{
		"name": reg.Name, "phone": reg.Phone, "wantsShirt": reg.WantsShirt,
		"paymentStatus": string(reg.PaymentStatus), "createdAt": reg.CreatedAt,
	}
	s.Require().NoError(s.redis.Client.HSet(s.ctx, RegPrefix+reg.ID, fields).Err())
	s.Require().NoError(s.redis.Client.RPush(s.ctx, IndexKey, reg.ID).Err())

	regs, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(regs, 1)
	s.Equal("INS-legacy", regs[0].ID)
}

func (s *RedisStoreSuite) TestListAllSkipsOrphanedIndexEntries() {
	now := time.Now()
	s.Require().NoError(s.store.Create(s.ctx, s.reg("INS-1", now)))
	s.Require().NoError(s.redis.Client.ZAdd(s.ctx, IndexKey,
		redis.Z{Score: float64(now.UnixMilli()), Member: "INS-ghost"}).Err())

	regs, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(regs, 1)
	s.Equal("INS-1", regs[0].ID)
}

func (s *RedisStoreSuite) TestUpdateStatus() {
	s.Require().NoError(s.store.Create(s.ctx, s.reg("INS-1", time.Now())))

	s.Require().NoError(s.store.UpdateStatus(s.ctx, "INS-1", models.StatusApproved))
	got, err := s.store.Get(s.ctx, "INS-1")
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, got.PaymentStatus)

	err = s.store.UpdateStatus(s.ctx, "INS-missing", models.StatusApproved)
	s.True(pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func (s *RedisStoreSuite) TestReceiptReferenceRewrite() {
	s.Require().NoError(s.store.Create(s.ctx, s.reg("INS-1", time.Now())))
	s.Require().NoError(s.store.SetReceiptRef(s.ctx, "INS-1"))

	// Stored as the kv:// token.
	raw, err := s.redis.Client.HGet(s.ctx, RegPrefix+"INS-1", "receiptUrl").Result()
	s.Require().NoError(err)
	s.Equal(models.ReceiptRefPrefix+"INS-1", raw)

	// Read back as the fetchable API path.
	got, err := s.store.Get(s.ctx, "INS-1")
	s.Require().NoError(err)
	s.Equal("/api/receipt/INS-1", got.ReceiptURL)
}

func (s *RedisStoreSuite) TestFullCacheRoundTripWithTTL() {
	full := &models.FullRegistration{
		Submission: models.Submission{
			CamperName:         "Ana",
			LegalGuardianPhone: "123",
		},
		RegistrationFee: 150,
		Total:           150,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339Nano),
		ID:              "INS-1",
	}
	s.Require().NoError(s.fulls.Put(s.ctx, full))

	got, err := s.fulls.Get(s.ctx, "INS-1")
	s.Require().NoError(err)
	s.Equal("Ana", got.CamperName)
	s.Equal(150, got.Total)

	ttl, err := s.redis.Client.TTL(s.ctx, FullPrefix+"INS-1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0), "full records must carry bounded retention")

	_, err = s.fulls.Get(s.ctx, "INS-missing")
	s.True(pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
