// Package secrets abstracts access to API credential pools so services never
// read raw environment variables or embed keys in code.
package secrets

import (
	"errors"
	"strings"
	"sync/atomic"
)

// ErrNoKeys is returned when a provider has no usable credentials.
var ErrNoKeys = errors.New("no api keys configured")

// Provider yields API keys from a rotating pool.
type Provider interface {
	// Next returns the next key in the pool along with its index.
	Next() (key string, index int, err error)
	// Size reports how many keys the pool holds.
	Size() int
}

// KeyPool is a round-robin Provider over a fixed set of keys.
type KeyPool struct {
	keys []string
	pos  atomic.Uint64
}

// NewKeyPool builds a pool from a comma-separated key list. Blank entries
// are skipped.
func NewKeyPool(commaSeparated string) *KeyPool {
	var keys []string
	for _, raw := range strings.Split(commaSeparated, ",") {
		if key := strings.TrimSpace(raw); key != "" {
			keys = append(keys, key)
		}
	}
	return &KeyPool{keys: keys}
}

func (p *KeyPool) Next() (string, int, error) {
	if len(p.keys) == 0 {
		return "", 0, ErrNoKeys
	}
	idx := int((p.pos.Add(1) - 1) % uint64(len(p.keys)))
	return p.keys[idx], idx, nil
}

func (p *KeyPool) Size() int {
	return len(p.keys)
}
