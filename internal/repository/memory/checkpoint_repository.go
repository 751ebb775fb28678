package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"ai-legalcouncil-be/pkg/workflow"
)

// CheckpointRepository keeps the last SessionState per session key so a chat
// turn can resume where the analysis left off. Entries expire after an hour
// of inactivity; chat against an expired session requires re-analysis.
type CheckpointRepository struct {
	cache *cache.Cache
}

func NewCheckpointRepository() *CheckpointRepository {
	// Default expiration 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &CheckpointRepository{
		cache: c,
	}
}

func (r *CheckpointRepository) Save(sessionKey string, state *workflow.SessionState) {
	r.cache.Set(sessionKey, state, cache.DefaultExpiration)
}

func (r *CheckpointRepository) Get(sessionKey string) (*workflow.SessionState, bool) {
	if x, found := r.cache.Get(sessionKey); found {
		return x.(*workflow.SessionState), true
	}
	return nil, false
}

func (r *CheckpointRepository) Delete(sessionKey string) {
	r.cache.Delete(sessionKey)
}
