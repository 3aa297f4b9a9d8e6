package personas

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/voice-booking-demo/internal/validation"
)

// Customization overrides persona defaults for one business.
type Customization struct {
	CompanyName string `json:"companyName" validate:"required,max=120"`
	Service     string `json:"service" validate:"required,max=240"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=240"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,max=32"`
}

// Trimmed returns c with surrounding whitespace removed from every field.
func (c Customization) Trimmed() Customization {
	return Customization{
		CompanyName: strings.TrimSpace(c.CompanyName),
		Service:     strings.TrimSpace(c.Service),
		Address:     strings.TrimSpace(c.Address),
		PhoneNumber: strings.TrimSpace(c.PhoneNumber),
	}
}

// Identifies reports whether c names a business (company or service). A
// customization that only carries an address or phone is not applied.
func (c *Customization) Identifies() bool {
	return c != nil && (strings.TrimSpace(c.CompanyName) != "" || strings.TrimSpace(c.Service) != "")
}

// Validate checks that both required fields are present.
func (c Customization) Validate() error {
	return validation.Struct(c.Trimmed())
}

// CustomizationStore keeps one customization per (session, persona).
// Get returns nil without error when nothing is stored.
type CustomizationStore interface {
	Get(ctx context.Context, sessionID, personaID string) (*Customization, error)
	Put(ctx context.Context, sessionID, personaID string, c Customization) error
	Delete(ctx context.Context, sessionID, personaID string) error
}

type memoryEntry struct {
	value     Customization
	expiresAt time.Time
}

// MemoryCustomizationStore is the single-process store.
type MemoryCustomizationStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCustomizationStore creates an in-memory store; ttl <= 0 disables expiry.
func NewMemoryCustomizationStore(ttl time.Duration) *MemoryCustomizationStore {
	return &MemoryCustomizationStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryCustomizationStore) Get(_ context.Context, sessionID, personaID string) (*Customization, error) {
	key := customizationKey(sessionID, personaID)
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, nil
	}
	c := entry.value
	return &c, nil
}

func (s *MemoryCustomizationStore) Put(_ context.Context, sessionID, personaID string, c Customization) error {
	entry := memoryEntry{value: c}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.entries[customizationKey(sessionID, personaID)] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryCustomizationStore) Delete(_ context.Context, sessionID, personaID string) error {
	s.mu.Lock()
	delete(s.entries, customizationKey(sessionID, personaID))
	s.mu.Unlock()
	return nil
}

func customizationKey(sessionID, personaID string) string {
	return sessionID + ":" + personaID
}
