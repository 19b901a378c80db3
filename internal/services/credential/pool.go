package credential

import (
	"sync"

	"github.com/botornot-chat/botornot/internal/model"
)

// Pool hands out external-service credentials in strict round-robin order so
// request load is spread across every configured key. There is no health
// checking or backoff: a revoked or rate-limited credential simply comes up
// again on its next turn.
type Pool struct {
	mu      sync.Mutex
	secrets []string
	current int
}

// NewPool creates a Pool over the given secrets. An empty list is a
// configuration error, caught at construction rather than at runtime.
func NewPool(secrets []string) (*Pool, error) {
	if len(secrets) == 0 {
		return nil, model.ErrEmptyCredentialPool
	}
	copied := make([]string, len(secrets))
	copy(copied, secrets)
	return &Pool{
		secrets: copied,
		current: -1,
	}, nil
}

// Next returns the next credential in rotation. It never blocks and never
// fails; the first call returns the first configured secret.
func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = (p.current + 1) % len(p.secrets)
	return p.secrets[p.current]
}

// Size returns the number of credentials in the pool
func (p *Pool) Size() int {
	return len(p.secrets)
}
