package service

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"campreg/internal/receipt/store"
	"campreg/internal/registration/models"
	regstore "campreg/internal/registration/store"
	pkgerrors "campreg/pkg/errors"
)

type ReceiptServiceSuite struct {
	suite.Suite
	blobs *store.MemoryBlobStore
	regs  *regstore.MemoryStore
	svc   *Service
	ctx   context.Context
}

func TestReceiptServiceSuite(t *testing.T) {
	suite.Run(t, new(ReceiptServiceSuite))
}

func (s *ReceiptServiceSuite) SetupTest() {
	s.blobs = store.NewMemoryBlobStore()
	s.regs = regstore.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.svc = New(s.blobs, s.regs, logger, nil)
	s.ctx = context.Background()
}

func (s *ReceiptServiceSuite) seedRegistration(id string) {
	err := s.regs.Create(s.ctx, &models.Registration{
		ID:            id,
		Name:          "João",
		Phone:         "123",
		WantsShirt:    "false",
		PaymentStatus: models.StatusPending,
		CreatedAt:     "2025-12-20T10:00:00Z",
	})
	s.Require().NoError(err)
}

func (s *ReceiptServiceSuite) TestStoreAcceptsLargeAllowedFile() {
	s.seedRegistration("INS-1")

	data := make([]byte, 4*1024*1024)
	err := s.svc.Store(s.ctx, "INS-1", data, "image/png")
	s.Require().NoError(err)

	got, contentType, err := s.blobs.Get(s.ctx, "INS-1")
	s.Require().NoError(err)
	s.Equal("image/png", contentType)
	s.Len(got, len(data))
}

func (s *ReceiptServiceSuite) TestStoreRejectsOversizedFile() {
	s.seedRegistration("INS-1")

	data := make([]byte, 6*1024*1024)
	err := s.svc.Store(s.ctx, "INS-1", data, "image/png")
	s.Require().Error(err)
	s.True(pkgerrors.Is(err, pkgerrors.CodeInvalidInput))

	_, _, err = s.blobs.Get(s.ctx, "INS-1")
	s.True(pkgerrors.Is(err, pkgerrors.CodeNotFound), "rejected upload must not persist")
}

func (s *ReceiptServiceSuite) TestStoreRejectsDisallowedType() {
	s.seedRegistration("INS-1")

	err := s.svc.Store(s.ctx, "INS-1", []byte("plain text"), "text/plain")
	s.Require().Error(err)
	s.True(pkgerrors.Is(err, pkgerrors.CodeInvalidInput))
}

func (s *ReceiptServiceSuite) TestStoreRejectsMissingID() {
	err := s.svc.Store(s.ctx, "", []byte("x"), "image/jpeg")
	s.Require().Error(err)
	s.True(pkgerrors.Is(err, pkgerrors.CodeInvalidInput))
}

func (s *ReceiptServiceSuite) TestStoreSetsReceiptReference() {
	s.seedRegistration("INS-1")

	err := s.svc.Store(s.ctx, "INS-1", []byte("pdf bytes"), "application/pdf")
	s.Require().NoError(err)

	reg, err := s.regs.Get(s.ctx, "INS-1")
	s.Require().NoError(err)
	s.Equal("/api/receipt/INS-1", reg.ReceiptURL,
		"stored kv:// token must read back as the fetchable API path")
}

func (s *ReceiptServiceSuite) TestStoreSurvivesReferenceUpdateFailure() {
	// No registration seeded: the reference update fails, but the blob
	// must still be stored and retrievable by id.
	err := s.svc.Store(s.ctx, "INS-orphan", []byte("img"), "image/webp")
	s.Require().NoError(err)

	_, contentType, err := s.blobs.Get(s.ctx, "INS-orphan")
	s.Require().NoError(err)
	s.Equal("image/webp", contentType)
}

func (s *ReceiptServiceSuite) TestStoreLastWriteWins() {
	s.seedRegistration("INS-1")

	s.Require().NoError(s.svc.Store(s.ctx, "INS-1", []byte("first"), "image/jpeg"))
	s.Require().NoError(s.svc.Store(s.ctx, "INS-1", []byte("second"), "image/png"))

	data, contentType, err := s.blobs.Get(s.ctx, "INS-1")
	s.Require().NoError(err)
	s.Equal("second", string(data))
	s.Equal("image/png", contentType)
}

func (s *ReceiptServiceSuite) TestFetchReturnsDataURL() {
	s.seedRegistration("INS-1")
	s.Require().NoError(s.svc.Store(s.ctx, "INS-1", []byte{0xFF, 0xD8}, "image/jpeg"))

	dataURL, err := s.svc.Fetch(s.ctx, "INS-1")
	s.Require().NoError(err)
	s.True(strings.HasPrefix(dataURL, "data:image/jpeg;base64,"))
}

func (s *ReceiptServiceSuite) TestFetchUnknownID() {
	_, err := s.svc.Fetch(s.ctx, "INS-missing")
	s.True(pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
