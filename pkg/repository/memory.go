package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/model"
)

// Memory implements Repository with in-process maps. It backs unit tests and
// local development without a Firestore project.
type Memory struct {
	mu        sync.RWMutex
	memorials map[model.MemorialID]*model.Memorial
	responses []*model.ConditionalResponse
	tributes  []*model.Tribute
	links     []*model.SocialLink
}

// NewMemory creates a new in-memory repository
func NewMemory() *Memory {
	return &Memory{
		memorials: make(map[model.MemorialID]*model.Memorial),
	}
}

func (r *Memory) PutMemorial(ctx context.Context, memorial *model.Memorial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *memorial
	r.memorials[memorial.ID] = &copied
	return nil
}

func (r *Memory) GetMemorial(ctx context.Context, id model.MemorialID) (*model.Memorial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	memorial, ok := r.memorials[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "memorial not found", goerr.V("memorial_id", id))
	}
	copied := *memorial
	return &copied, nil
}

func (r *Memory) DeleteMemorial(ctx context.Context, id model.MemorialID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.memorials, id)
	return nil
}

func (r *Memory) PutResponse(ctx context.Context, resp *model.ConditionalResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *resp
	r.responses = append(r.responses, &copied)
	return nil
}

func (r *Memory) DeleteResponse(ctx context.Context, id model.ResponseID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, resp := range r.responses {
		if resp.ID == id {
			r.responses = append(r.responses[:i], r.responses[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *Memory) ListResponses(ctx context.Context, memorialID model.MemorialID) ([]*model.ConditionalResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var responses []*model.ConditionalResponse
	for _, resp := range r.responses {
		if resp.MemorialID == memorialID {
			copied := *resp
			responses = append(responses, &copied)
		}
	}
	// Insertion order already follows creation order; sort keeps the
	// contract explicit when entries carry backdated timestamps.
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].CreatedAt.Before(responses[j].CreatedAt)
	})
	return responses, nil
}

func (r *Memory) PutTribute(ctx context.Context, tribute *model.Tribute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *tribute
	r.tributes = append(r.tributes, &copied)
	return nil
}

func (r *Memory) DeleteTribute(ctx context.Context, id model.TributeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, tribute := range r.tributes {
		if tribute.ID == id {
			r.tributes = append(r.tributes[:i], r.tributes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *Memory) ListTributes(ctx context.Context, memorialID model.MemorialID) ([]*model.Tribute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tributes []*model.Tribute
	for _, tribute := range r.tributes {
		if tribute.MemorialID == memorialID {
			copied := *tribute
			tributes = append(tributes, &copied)
		}
	}
	sort.SliceStable(tributes, func(i, j int) bool {
		return tributes[i].CreatedAt.After(tributes[j].CreatedAt)
	})
	return tributes, nil
}

func (r *Memory) PutSocialLink(ctx context.Context, link *model.SocialLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *link
	r.links = append(r.links, &copied)
	return nil
}

func (r *Memory) DeleteSocialLink(ctx context.Context, id model.LinkID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, link := range r.links {
		if link.ID == id {
			r.links = append(r.links[:i], r.links[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *Memory) ListSocialLinks(ctx context.Context, memorialID model.MemorialID) ([]*model.SocialLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var links []*model.SocialLink
	for _, link := range r.links {
		if link.MemorialID == memorialID {
			copied := *link
			links = append(links, &copied)
		}
	}
	return links, nil
}
