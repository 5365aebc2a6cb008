package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionMemorials   = "memorials"
	collectionResponses   = "conditional_responses"
	collectionTributes    = "tributes"
	collectionSocialLinks = "social_links"
)

// Firestore implements Repository using Firestore
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) PutMemorial(ctx context.Context, memorial *model.Memorial) error {
	doc := r.client.Collection(collectionMemorials).Doc(string(memorial.ID))
	if _, err := doc.Set(ctx, memorial); err != nil {
		return goerr.Wrap(err, "failed to put memorial", goerr.V("memorial_id", memorial.ID))
	}
	return nil
}

func (r *Firestore) GetMemorial(ctx context.Context, id model.MemorialID) (*model.Memorial, error) {
	snap, err := r.client.Collection(collectionMemorials).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "memorial not found", goerr.V("memorial_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get memorial", goerr.V("memorial_id", id))
	}

	var memorial model.Memorial
	if err := snap.DataTo(&memorial); err != nil {
		return nil, goerr.Wrap(err, "failed to decode memorial", goerr.V("memorial_id", id))
	}
	return &memorial, nil
}

func (r *Firestore) DeleteMemorial(ctx context.Context, id model.MemorialID) error {
	if _, err := r.client.Collection(collectionMemorials).Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete memorial", goerr.V("memorial_id", id))
	}
	return nil
}

func (r *Firestore) PutResponse(ctx context.Context, resp *model.ConditionalResponse) error {
	doc := r.client.Collection(collectionResponses).Doc(string(resp.ID))
	if _, err := doc.Set(ctx, resp); err != nil {
		return goerr.Wrap(err, "failed to put response", goerr.V("response_id", resp.ID))
	}
	return nil
}

func (r *Firestore) DeleteResponse(ctx context.Context, id model.ResponseID) error {
	if _, err := r.client.Collection(collectionResponses).Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete response", goerr.V("response_id", id))
	}
	return nil
}

func (r *Firestore) ListResponses(ctx context.Context, memorialID model.MemorialID) ([]*model.ConditionalResponse, error) {
	// Ordering by createdAt keeps first-match-wins deterministic for
	// duplicate keywords.
	iter := r.client.Collection(collectionResponses).
		Where("memorialId", "==", string(memorialID)).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var responses []*model.ConditionalResponse
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate responses", goerr.V("memorial_id", memorialID))
		}

		var resp model.ConditionalResponse
		if err := snap.DataTo(&resp); err != nil {
			return nil, goerr.Wrap(err, "failed to decode response", goerr.V("doc_id", snap.Ref.ID))
		}
		responses = append(responses, &resp)
	}

	return responses, nil
}

func (r *Firestore) PutTribute(ctx context.Context, tribute *model.Tribute) error {
	doc := r.client.Collection(collectionTributes).Doc(string(tribute.ID))
	if _, err := doc.Set(ctx, tribute); err != nil {
		return goerr.Wrap(err, "failed to put tribute", goerr.V("tribute_id", tribute.ID))
	}
	return nil
}

func (r *Firestore) DeleteTribute(ctx context.Context, id model.TributeID) error {
	if _, err := r.client.Collection(collectionTributes).Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete tribute", goerr.V("tribute_id", id))
	}
	return nil
}

func (r *Firestore) ListTributes(ctx context.Context, memorialID model.MemorialID) ([]*model.Tribute, error) {
	iter := r.client.Collection(collectionTributes).
		Where("memorialId", "==", string(memorialID)).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var tributes []*model.Tribute
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate tributes", goerr.V("memorial_id", memorialID))
		}

		var tribute model.Tribute
		if err := snap.DataTo(&tribute); err != nil {
			return nil, goerr.Wrap(err, "failed to decode tribute", goerr.V("doc_id", snap.Ref.ID))
		}
		tributes = append(tributes, &tribute)
	}

	return tributes, nil
}

func (r *Firestore) PutSocialLink(ctx context.Context, link *model.SocialLink) error {
	doc := r.client.Collection(collectionSocialLinks).Doc(string(link.ID))
	if _, err := doc.Set(ctx, link); err != nil {
		return goerr.Wrap(err, "failed to put social link", goerr.V("link_id", link.ID))
	}
	return nil
}

func (r *Firestore) DeleteSocialLink(ctx context.Context, id model.LinkID) error {
	if _, err := r.client.Collection(collectionSocialLinks).Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete social link", goerr.V("link_id", id))
	}
	return nil
}

func (r *Firestore) ListSocialLinks(ctx context.Context, memorialID model.MemorialID) ([]*model.SocialLink, error) {
	iter := r.client.Collection(collectionSocialLinks).
		Where("memorialId", "==", string(memorialID)).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var links []*model.SocialLink
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate social links", goerr.V("memorial_id", memorialID))
		}

		var link model.SocialLink
		if err := snap.DataTo(&link); err != nil {
			return nil, goerr.Wrap(err, "failed to decode social link", goerr.V("doc_id", snap.Ref.ID))
		}
		links = append(links, &link)
	}

	return links, nil
}
