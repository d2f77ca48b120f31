package storage

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/spaolacci/murmur3"

	"github.com/eugenenazirov/tank-cascade/internal/calculator"
	"github.com/eugenenazirov/tank-cascade/internal/validation"
)

var (
	// ErrNotFound indicates no tank system is stored under the requested name.
	ErrNotFound = errors.New("tank system not found")
	// ErrInvalidName indicates the name is empty or contains a slash.
	ErrInvalidName = errors.New("tank system name must be non-empty and must not contain '/'")
)

// Storage provides access to the named tank systems served by the API.
type Storage interface {
	Get(name string) (calculator.TankSystem, error)
	Put(name string, system calculator.TankSystem) error
	Delete(name string) error
	Names() ([]string, error)
}

// MemoryStorage keeps tank systems in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu      sync.RWMutex
	systems map[string]calculator.TankSystem
}

// NewMemoryStorage initialises an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		systems: make(map[string]calculator.TankSystem),
	}
}

// Get returns a defensive copy of the named system.
func (s *MemoryStorage) Get(name string) (calculator.TankSystem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	system, ok := s.systems[name]
	if !ok {
		return calculator.TankSystem{}, ErrNotFound
	}
	return clone(system), nil
}

// Put validates and stores a copy of the system, replacing any previous entry.
func (s *MemoryStorage) Put(name string, system calculator.TankSystem) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validation.Validate(system); err != nil {
		return err
	}

	s.mu.Lock()
	s.systems[name] = clone(system)
	s.mu.Unlock()

	return nil
}

// Delete removes the named system.
func (s *MemoryStorage) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.systems[name]; !ok {
		return ErrNotFound
	}
	delete(s.systems, name)
	return nil
}

// Names returns the stored names in ascending order.
func (s *MemoryStorage) Names() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.systems))
	for name := range s.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Fingerprint returns a stable hex digest of the system, suitable as an ETag.
func Fingerprint(system calculator.TankSystem) string {
	buf := make([]byte, 0, 8*(2+len(system.Capacities)))
	buf = binary.BigEndian.AppendUint64(buf, uint64(system.TankCount))
	buf = binary.BigEndian.AppendUint64(buf, uint64(system.InflowRate))
	for _, c := range system.Capacities {
		buf = binary.BigEndian.AppendUint64(buf, uint64(c))
	}

	hi, lo := murmur3.Sum128(buf)
	var sum [16]byte
	binary.BigEndian.PutUint64(sum[:8], hi)
	binary.BigEndian.PutUint64(sum[8:], lo)
	return hex.EncodeToString(sum[:])
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func clone(system calculator.TankSystem) calculator.TankSystem {
	out := system
	out.Capacities = make([]int64, len(system.Capacities))
	copy(out.Capacities, system.Capacities)
	return out
}
