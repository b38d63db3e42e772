package inquiry

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

const (
	ReferencePrefix = "LPH-"
	referenceMin    = 100000
	referenceMax    = 999999
)

// ReferenceGenerator produces display-only tracking codes. They are not secrets.
type ReferenceGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewReferenceGenerator draws from src, or from the runtime's shared source when src is nil.
func NewReferenceGenerator(src rand.Source) *ReferenceGenerator {
	g := &ReferenceGenerator{}
	if src != nil {
		g.rng = rand.New(src)
	}
	return g
}

func (g *ReferenceGenerator) Next() string {
	return fmt.Sprintf("%s%d", ReferencePrefix, g.number())
}

func (g *ReferenceGenerator) number() int {
	span := referenceMax - referenceMin + 1
	if g == nil || g.rng == nil {
		return referenceMin + rand.IntN(span)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return referenceMin + g.rng.IntN(span)
}
