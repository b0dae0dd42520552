package usecase

import (
	"errors"
	"strings"
	"sync"

	"karaoke-browser/domain/model"
	"karaoke-browser/infrastructure/logger"
)

// ErrEmptyCredentialPool is returned when no usable API key is configured.
var ErrEmptyCredentialPool = errors.New("credential pool is empty")

// CredentialPool is the ordered, fixed set of API keys.
type CredentialPool struct {
	keys []string
}

// NewCredentialPool trims the keys and drops blanks. At least one key must remain.
func NewCredentialPool(keys []string) (*CredentialPool, error) {
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrEmptyCredentialPool
	}
	return &CredentialPool{keys: cleaned}, nil
}

func (p *CredentialPool) Size() int {
	return len(p.keys)
}

// Key returns the credential at index i (mod pool size).
func (p *CredentialPool) Key(i int) string {
	return p.keys[((i%len(p.keys))+len(p.keys))%len(p.keys)]
}

// Advance returns the index after from, wrapping at the end of the pool.
func (p *CredentialPool) Advance(from int) int {
	return (from + 1) % len(p.keys)
}

// AttemptKind tells a chain's opening attempt apart from a retry.
type AttemptKind int

const (
	// FreshAttempt uses whatever index is current.
	FreshAttempt AttemptKind = iota
	// RetryWithCredential is forced onto a specific index after a rotation.
	RetryWithCredential
)

// Attempt is one provider call within a fetch chain.
type Attempt struct {
	Kind            AttemptKind
	CredentialIndex int
}

// RotationState holds the process-wide current credential index.
type RotationState struct {
	mu        sync.Mutex
	pool      *CredentialPool
	current   int
	rotations int64
}

func NewRotationState(pool *CredentialPool) *RotationState {
	return &RotationState{pool: pool}
}

func (r *RotationState) Pool() *CredentialPool {
	return r.pool
}

func (r *RotationState) Current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Rotate moves the current index past from and returns the index to retry
// with. When another chain already rotated away from from, the current index
// is left alone.
func (r *RotationState) Rotate(from int) int {
	next := r.pool.Advance(from)

	r.mu.Lock()
	if r.current == from {
		r.current = next
		r.rotations++
	}
	r.mu.Unlock()

	logger.GetLogger().
		WithField("from", from).
		WithField("to", next).
		WithField("poolSize", r.pool.Size()).
		Warn("Rotating credential")
	return next
}

// Status reports the current index and how many rotations happened.
func (r *RotationState) Status() model.RotationStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return model.RotationStatus{
		CurrentIndex: r.current,
		PoolSize:     r.pool.Size(),
		Rotations:    r.rotations,
	}
}
