package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

// ErrOutputCollision is returned (wrapped) by [CollisionResolver.Claim] when
// a different source already owns the requested output path.
var ErrOutputCollision = errors.New("output collides with another source")

// CollisionResolver tracks final output paths claimed by sources, e.g.
// foo.png and foo.jpg both converting to foo.dds in the same directory.
// First claimant wins; the game only loads foo.dds, so no "- dupN" variant
// is generated. All methods are goroutine-safe.
type CollisionResolver struct {
	mu     sync.Mutex
	owners map[string]string // cleaned output path → source that owns it
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{owners: make(map[string]string)}
}

// Claim registers source as the owner of every path in outputs. Claiming
// paths source already owns is fine. If any output is owned by another
// source, nothing is registered and the error wraps ErrOutputCollision
// naming the owner.
func (cr *CollisionResolver) Claim(source string, outputs ...string) error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	for _, output := range outputs {
		owner, exists := cr.owners[filepath.Clean(output)]
		if exists && owner != source {
			return fmt.Errorf("%w: %s is already produced from %s",
				ErrOutputCollision, filepath.Base(output), filepath.Base(owner))
		}
	}
	for _, output := range outputs {
		cr.owners[filepath.Clean(output)] = source
	}
	return nil
}
