package credential

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
)

// MaxCredentials caps how many numbered API key environment entries are
// scanned (GEMINI_API_KEY, GEMINI_API_KEY_2 .. GEMINI_API_KEY_10).
const MaxCredentials = 10

// EnvKeyName is the environment variable holding the first API key.
const EnvKeyName = "GEMINI_API_KEY"

// ErrNoCredentials is returned when no API keys are configured. This is a
// fatal configuration error, not a retryable condition.
var ErrNoCredentials = errors.New("no API credentials configured")

// Credential is one access token for the external generative service.
// Credentials are loaded once at process start and never mutated, only
// selected.
type Credential struct {
	ID  int
	Key string
}

// Pool hands out credentials round-robin so concurrent requests spread across
// the configured keys and stay under provider rate limits. The only mutable
// state is the cursor, a single atomic counter, so Acquire is safe for
// concurrent use.
type Pool struct {
	creds  []Credential
	cursor atomic.Uint64
}

// NewPool creates a Pool over the given keys. Keys are assigned IDs in
// order, starting at 1. An empty key list is allowed here so callers can
// surface ErrNoCredentials at dispatch time; Acquire on an empty pool fails.
func NewPool(keys []string) *Pool {
	creds := make([]Credential, 0, len(keys))
	for i, key := range keys {
		if key == "" {
			continue
		}
		creds = append(creds, Credential{ID: i + 1, Key: key})
	}

	return &Pool{creds: creds}
}

// FromEnv builds a Pool from the GEMINI_API_KEY family of environment
// variables. Missing entries are skipped, so a configuration with keys 1, 2
// and 5 yields a three-credential pool.
func FromEnv() *Pool {
	keys := make([]string, 0, MaxCredentials)
	for i := 1; i <= MaxCredentials; i++ {
		name := EnvKeyName
		if i > 1 {
			name = fmt.Sprintf("%s_%d", EnvKeyName, i)
		}
		if v, ok := os.LookupEnv(name); ok && v != "" {
			keys = append(keys, v)
		}
	}

	return NewPool(keys)
}

// Acquire returns the next credential in round-robin order. With K
// credentials and M calls, each credential is handed out either floor(M/K) or
// ceil(M/K) times. Returns ErrNoCredentials when the pool is empty.
func (p *Pool) Acquire() (Credential, error) {
	if len(p.creds) == 0 {
		return Credential{}, ErrNoCredentials
	}

	idx := p.cursor.Add(1) - 1
	return p.creds[idx%uint64(len(p.creds))], nil
}

// Size returns the number of configured credentials.
func (p *Pool) Size() int {
	return len(p.creds)
}

// Credentials returns a copy of the configured credential list.
func (p *Pool) Credentials() []Credential {
	out := make([]Credential, len(p.creds))
	copy(out, p.creds)
	return out
}
