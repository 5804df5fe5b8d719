package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"campreg/internal/registration/models"
)

// MemoryStore implements Store in memory. It backs unit tests and local
// development without a redis instance.
type MemoryStore struct {
	mu    sync.RWMutex
	regs  map[string]*models.Registration
	index []string
}

// NewMemoryStore creates an empty in-memory registration store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{regs: make(map[string]*models.Registration)}
}

// Create stores a copy of the record and appends the id to the index.
func (s *MemoryStore) Create(ctx context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *reg
	s.regs[reg.ID] = &cp
	s.index = append(s.index, reg.ID)
	return nil
}

// Get resolves a single record with the same receiptUrl rewrite the
// redis store applies.
func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.regs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *reg
	if strings.HasPrefix(cp.ReceiptURL, models.ReceiptRefPrefix) {
		cp.ReceiptURL = "/api/receipt/" + id
	}
	if cp.WantsShirt != "true" {
		cp.WantsShirt = "false"
	}
	return &cp, nil
}

// ListAll returns all indexed records sorted by createdAt descending.
func (s *MemoryStore) ListAll(ctx context.Context) ([]*models.Registration, error) {
	s.mu.RLock()
	ids := make([]string, len(s.index))
	copy(ids, s.index)
	s.mu.RUnlock()

	regs := make([]*models.Registration, 0, len(ids))
	for _, id := range ids {
		reg, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		regs = append(regs, reg)
	}

	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].CreatedAtTime().After(regs[j].CreatedAtTime())
	})
	return regs, nil
}

// UpdateStatus sets paymentStatus on an existing record.
func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.regs[id]
	if !ok {
		return ErrNotFound
	}
	reg.PaymentStatus = status
	return nil
}

// SetReceiptRef points receiptUrl at the stored blob for id.
func (s *MemoryStore) SetReceiptRef(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.regs[id]
	if !ok {
		return ErrNotFound
	}
	reg.ReceiptURL = models.ReceiptRefPrefix + id
	return nil
}

// DropFromIndex removes an id from the index without deleting the
// record. Tests use it to simulate a lost index append.
func (s *MemoryStore) DropFromIndex(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, v := range s.index {
		if v == id {
			s.index = append(s.index[:i], s.index[i+1:]...)
			return
		}
	}
}

// OrphanIndex appends an id to the index with no backing record. Tests
// use it to simulate a partial write.
func (s *MemoryStore) OrphanIndex(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = append(s.index, id)
}

// MemoryFullCache implements FullCache in memory.
type MemoryFullCache struct {
	mu    sync.RWMutex
	fulls map[string]*models.FullRegistration
}

// NewMemoryFullCache creates an empty in-memory full-record cache.
func NewMemoryFullCache() *MemoryFullCache {
	return &MemoryFullCache{fulls: make(map[string]*models.FullRegistration)}
}

// Put stores a copy of the full payload.
func (c *MemoryFullCache) Put(ctx context.Context, full *models.FullRegistration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := *full
	c.fulls[full.ID] = &cp
	return nil
}

// Get loads the full payload for id.
func (c *MemoryFullCache) Get(ctx context.Context, id string) (*models.FullRegistration, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	full, ok := c.fulls[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *full
	return &cp, nil
}
