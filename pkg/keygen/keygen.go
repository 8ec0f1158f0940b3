// pkg/keygen/keygen.go
package keygen

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces surrogate keys for flattened rows. Keys carry no
// business meaning; they only guarantee referential uniqueness within a run.
type Generator interface {
	// NewKey returns a key for the given table, parent key and 1-based
	// ordinal of the row within its parent.
	NewKey(table, parentKey string, ordinal int) string
}

// Strategy selects a key generation strategy by name.
type Strategy string

const (
	// StrategyRandom generates random UUIDs. Key values differ run to run.
	StrategyRandom Strategy = "random"
	// StrategyContent derives keys from table/parent/ordinal, so re-running
	// over the same input yields identical keys.
	StrategyContent Strategy = "content"
)

// New returns the generator for a strategy, defaulting to random.
func New(s Strategy) (Generator, error) {
	switch s {
	case StrategyRandom, "":
		return Random{}, nil
	case StrategyContent:
		return Content{}, nil
	default:
		return nil, fmt.Errorf("unknown key strategy %q", s)
	}
}

// Random generates a fresh random UUID per key.
type Random struct{}

// NewKey implements Generator.
func (Random) NewKey(string, string, int) string {
	return uuid.New().String()
}

// rowKeyNamespace scopes content-derived keys to this pipeline.
var rowKeyNamespace = uuid.MustParse("9f2c1d86-55f1-4b05-ae12-3c4f0a6d9b77")

// Content derives a stable UUID from the row coordinates.
type Content struct{}

// NewKey implements Generator.
func (Content) NewKey(table, parentKey string, ordinal int) string {
	name := fmt.Sprintf("%s/%s/%d", table, parentKey, ordinal)
	return uuid.NewSHA1(rowKeyNamespace, []byte(name)).String()
}
