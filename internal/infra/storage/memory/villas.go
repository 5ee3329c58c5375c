package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

// VillaRepository is the in-memory backend used in dev and tests. It applies
// the same optimistic version check as the Mongo repository so concurrency
// bugs show up before hitting a real database.
type VillaRepository struct {
	mu     sync.RWMutex
	villas map[villa.ID]*villa.Villa
}

func NewVillaRepository() *VillaRepository {
	return &VillaRepository{villas: make(map[villa.ID]*villa.Villa)}
}

func (r *VillaRepository) ByID(_ context.Context, id villa.ID) (*villa.Villa, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.villas[id]
	if !ok {
		return nil, villa.ErrNotFound
	}
	return cloneVilla(v), nil
}

func (r *VillaRepository) BySlug(_ context.Context, slug string) (*villa.Villa, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.villas {
		if v.Slug == slug {
			return cloneVilla(v), nil
		}
	}
	return nil, villa.ErrNotFound
}

func (r *VillaRepository) List(_ context.Context, filter villa.ListFilter) ([]*villa.Villa, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*villa.Villa, 0, len(r.villas))
	for _, v := range r.villas {
		if filter.OnlyAvailable && !v.Available {
			continue
		}
		if filter.MinGuests > 0 && v.MaxGuests < filter.MinGuests {
			continue
		}
		if filter.MaxRateCents > 0 && v.NightlyRate.Amount > filter.MaxRateCents {
			continue
		}
		if filter.PoolOnly && !v.HasPool {
			continue
		}
		out = append(out, cloneVilla(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *VillaRepository) Save(_ context.Context, v *villa.Villa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, exists := r.villas[v.ID]
	if exists && current.Version != v.Version {
		return ErrConcurrentUpdate
	}
	saved := cloneVilla(v)
	saved.Version++
	r.villas[v.ID] = saved
	v.Version = saved.Version
	return nil
}

func (r *VillaRepository) Delete(_ context.Context, id villa.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.villas[id]; !ok {
		return villa.ErrNotFound
	}
	delete(r.villas, id)
	return nil
}

func cloneVilla(v *villa.Villa) *villa.Villa {
	out := *v
	out.PhotoURLs = append([]string(nil), v.PhotoURLs...)
	out.ClearEvents()
	return &out
}

var _ villa.Repository = (*VillaRepository)(nil)
