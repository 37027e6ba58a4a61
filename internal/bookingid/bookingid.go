// Package bookingid produces the human-readable reservation identifiers in
// the form "DC-{year}-{4-digit}". The random component has only a few
// thousand values per year, so every candidate is checked against both
// ledgers before it is handed out.
package bookingid

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"decorconnect/internal/entities"
)

const (
	prefix      = "DC"
	maxAttempts = 5

	randomMin = 1000
	randomMax = 9999
)

// LedgerProbe reports whether a booking id is already present in either
// ledger copy.
type LedgerProbe interface {
	BookingIDExists(ctx context.Context, bookingID string) (bool, error)
}

type Generator struct {
	probe LedgerProbe
	now   func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGenerator(probe LedgerProbe) *Generator {
	return &Generator{
		probe: probe,
		now:   time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate returns a booking id that was free in both ledgers at probe time.
// After maxAttempts collisions it fails with ErrIDGenerationExhausted.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := g.candidate()

		exists, err := g.probe.BookingIDExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("probe booking id %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %d attempts", entities.ErrIDGenerationExhausted, maxAttempts)
}

func (g *Generator) candidate() string {
	g.mu.Lock()
	n := randomMin + g.rnd.Intn(randomMax-randomMin+1)
	g.mu.Unlock()

	return fmt.Sprintf("%s-%d-%04d", prefix, g.now().UTC().Year(), n)
}
