package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"campreg/internal/registration/models"
	pkgerrors "campreg/pkg/errors"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) reg(id, createdAt string) *models.Registration {
	return &models.Registration{
		ID:            id,
		Name:          "Camper " + id,
		Phone:         "123",
		WantsShirt:    "false",
		PaymentStatus: models.StatusPending,
		CreatedAt:     createdAt,
	}
}

func (s *MemoryStoreSuite) TestCreateAndGet() {
	s.Require().NoError(s.store.Create(s.ctx, s.reg("a", "2025-12-20T10:00:00Z")))

	got, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal("Camper a", got.Name)
}

func (s *MemoryStoreSuite) TestGetUnknownID() {
	_, err := s.store.Get(s.ctx, "nope")
	s.True(pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func (s *MemoryStoreSuite) TestGetNormalizesWantsShirt() {
	reg := s.reg("a", "2025-12-20T10:00:00Z")
	reg.WantsShirt = "yes please"
	s.Require().NoError(s.store.Create(s.ctx, reg))

	got, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal("false", got.WantsShirt, "anything but the literal true reads as false")
}

func (s *MemoryStoreSuite) TestGetRewritesReceiptReference() {
	reg := s.reg("a", "2025-12-20T10:00:00Z")
	s.Require().NoError(s.store.Create(s.ctx, reg))
	s.Require().NoError(s.store.SetReceiptRef(s.ctx, "a"))

	got, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal("/api/receipt/a", got.ReceiptURL)
}

func (s *MemoryStoreSuite) TestListAllSortsNewestFirst() {
	// Inserted out of order on purpose; the listing must not depend on
	// the physical index order.
	s.Require().NoError(s.store.Create(s.ctx, s.reg("mid", "2025-12-10T10:00:00Z")))
	s.Require().NoError(s.store.Create(s.ctx, s.reg("new", "2025-12-22T10:00:00Z")))
	s.Require().NoError(s.store.Create(s.ctx, s.reg("old", "2025-12-01T10:00:00Z")))

	regs, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(regs, 3)
	s.Equal("new", regs[0].ID)
	s.Equal("mid", regs[1].ID)
	s.Equal("old", regs[2].ID)
}

func (s *MemoryStoreSuite) TestListAllSkipsOrphanedIndexEntries() {
	s.Require().NoError(s.store.Create(s.ctx, s.reg("a", "2025-12-20T10:00:00Z")))
	s.store.OrphanIndex("ghost")

	regs, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(regs, 1)
	s.Equal("a", regs[0].ID)
}

func (s *MemoryStoreSuite) TestRecordInvisibleToListingAfterLostIndexAppend() {
	s.Require().NoError(s.store.Create(s.ctx, s.reg("a", "2025-12-20T10:00:00Z")))
	s.store.DropFromIndex("a")

	regs, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(regs, "unindexed record is not listed")

	// But it is still reachable directly by id.
	_, err = s.store.Get(s.ctx, "a")
	s.NoError(err)
}

func (s *MemoryStoreSuite) TestUpdateStatus() {
	s.Require().NoError(s.store.Create(s.ctx, s.reg("a", "2025-12-20T10:00:00Z")))

	s.Require().NoError(s.store.UpdateStatus(s.ctx, "a", models.StatusApproved))
	got, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, got.PaymentStatus)

	err = s.store.UpdateStatus(s.ctx, "missing", models.StatusApproved)
	s.True(pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
