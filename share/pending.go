package share

import (
	"os"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/moyoez/qrshare-go/tool"
)

const (
	// ArtifactTTL is the upper bound on a pending artifact's life; the
	// cache forgets entries after this even if delayed removal never ran.
	ArtifactTTL = 10 * time.Minute

	// DefaultRemovalDelay keeps a downloaded artifact around long enough
	// for slow clients to finish reading the response.
	DefaultRemovalDelay = 5 * time.Second
)

// PendingArtifacts tracks ephemeral zip files owned by the server process
// for best-effort cleanup after download or on shutdown. Artifacts live
// in the OS temp dir, never in a share root: they are streamed directly
// by the archive handler and are not reachable through file lookup.
type PendingArtifacts struct {
	cache *ttlworker.Cache[string, time.Time]
}

func NewPendingArtifacts() *PendingArtifacts {
	return &PendingArtifacts{
		cache: ttlworker.NewCache[string, time.Time](ArtifactTTL),
	}
}

// Register records a freshly created artifact path.
func (p *PendingArtifacts) Register(path string) {
	p.cache.Set(path, time.Now())
	tool.DefaultLogger.Debugf("Registered pending artifact %s", path)
}

// ScheduleRemoval deletes the artifact after delay, tolerating clients
// that are still draining the response body.
func (p *PendingArtifacts) ScheduleRemoval(path string, delay time.Duration) {
	if delay <= 0 {
		delay = DefaultRemovalDelay
	}
	time.AfterFunc(delay, func() {
		p.cache.Delete(path)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			tool.DefaultLogger.Warnf("Failed to remove artifact %s: %v", path, err)
			return
		}
		tool.DefaultLogger.Debugf("Removed pending artifact %s", path)
	})
}

// CleanupAll removes every tracked artifact, called on shutdown.
func (p *PendingArtifacts) CleanupAll() {
	var paths []string
	_ = p.cache.Range(func(path string, _ time.Time) error {
		paths = append(paths, path)
		return nil
	})
	for _, path := range paths {
		p.cache.Delete(path)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			tool.DefaultLogger.Warnf("Failed to remove artifact %s: %v", path, err)
		}
	}
}
