package catalog

import "strings"

// RecentTargetCapacity bounds the MRU list of relocation target folders.
const RecentTargetCapacity = 20

// RecentTargets is a most-recently-used list of relocation target folder
// paths. It feeds UI suggestions only and is not authoritative catalog
// state.
type RecentTargets struct {
	capacity int
	paths    []string
}

// NewRecentTargets builds an MRU list seeded with previously persisted
// paths, newest first. Seed entries beyond the capacity are dropped.
func NewRecentTargets(seed []string) *RecentTargets {
	r := &RecentTargets{capacity: RecentTargetCapacity}
	for _, path := range seed {
		if len(r.paths) == r.capacity {
			break
		}
		r.paths = append(r.paths, path)
	}
	return r
}

// Add records path as the most recent target, removing any existing
// occurrence first and evicting the oldest entry when full.
func (r *RecentTargets) Add(path string) {
	kept := make([]string, 0, len(r.paths)+1)
	kept = append(kept, path)
	for _, existing := range r.paths {
		if strings.EqualFold(existing, path) {
			continue
		}
		kept = append(kept, existing)
	}
	if len(kept) > r.capacity {
		kept = kept[:r.capacity]
	}
	r.paths = kept
}

// Paths returns the list newest first. The returned slice is a copy.
func (r *RecentTargets) Paths() []string {
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}
