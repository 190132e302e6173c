// Package guard suppresses duplicate side-effecting function calls inside a
// bounded sliding window, so a looping model or an impatient customer cannot
// re-trigger the same side effect.
package guard

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	contractx "github.com/homelocar/sofia/agent/contract"
	statex "github.com/homelocar/sofia/agent/state"
)

const (
	DefaultMaxRepeats = 3
	DefaultWindow     = 60 * time.Second

	ReasonDuplicate = "duplicate"
	ReasonReadOnly  = "read_only"
	ReasonFresh     = "fresh"
)

type Config struct {
	// MaxRepeats is the call-count half of the window: only the last
	// MaxRepeats recent calls are considered.
	MaxRepeats int `envconfig:"MAX_REPEATS" split_words:"true" default:"3"`
	// Window is the time half: entries older than this never match.
	Window time.Duration `envconfig:"WINDOW" split_words:"true" default:"60s"`
}

type Decision struct {
	Allow  bool
	Reason string
	// Hash is the argument hash computed for the call; recorded in context
	// when the call executes.
	Hash string
}

type Guard struct {
	cfg Config
}

func New(cfg Config) *Guard {
	if cfg.MaxRepeats <= 0 {
		cfg.MaxRepeats = DefaultMaxRepeats
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	return &Guard{cfg: cfg}
}

// ShouldExecute decides whether a call may run. Read-only functions are
// always allowed: repeating a search with overlapping arguments is
// legitimate refinement, not a loop. A side-effecting call is a duplicate
// only when the same (name, argument hash) appears among the last
// MaxRepeats calls AND within Window; both limits apply, whichever is more
// restrictive wins.
func (g *Guard) ShouldExecute(
	cctx *statex.ConversationContext,
	call contractx.FunctionCall,
	sideEffecting bool,
	now time.Time,
) Decision {
	hash := ArgumentHash(call.Arguments)

	if !sideEffecting {
		return Decision{Allow: true, Reason: ReasonReadOnly, Hash: hash}
	}

	cutoff := now.UTC().Add(-g.cfg.Window)
	for _, rc := range cctx.RecentWindow(g.cfg.MaxRepeats) {
		if rc.Name != call.Name || rc.ArgumentHash != hash {
			continue
		}
		if rc.ExecutedAt.Before(cutoff) {
			continue
		}
		return Decision{Allow: false, Reason: ReasonDuplicate, Hash: hash}
	}

	return Decision{Allow: true, Reason: ReasonFresh, Hash: hash}
}

// ArgumentHash computes a stable hash of a normalized argument mapping.
// encoding/json sorts map keys, so equal mappings hash equally regardless of
// insertion order.
func ArgumentHash(args map[string]any) string {
	if len(args) == 0 {
		return "empty"
	}
	raw, err := json.Marshal(args)
	if err != nil {
		// Unmarshallable arguments never match anything.
		return "unhashable"
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:16])
}
