package memorial

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/model"
)

// CreateInput contains parameters for creating a memorial
type CreateInput struct {
	OwnerID string
	Name    string
	Bio     string
}

func (u *UseCase) Create(ctx context.Context, input CreateInput) (*model.Memorial, error) {
	now := time.Now()
	memorial := &model.Memorial{
		ID:        model.NewMemorialID(),
		OwnerID:   input.OwnerID,
		Name:      input.Name,
		Bio:       input.Bio,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := memorial.Validate(); err != nil {
		return nil, err
	}

	if err := u.repo.PutMemorial(ctx, memorial); err != nil {
		return nil, goerr.Wrap(err, "failed to save memorial")
	}

	return memorial, nil
}

func (u *UseCase) Get(ctx context.Context, id model.MemorialID) (*model.Memorial, error) {
	return u.repo.GetMemorial(ctx, id)
}

// UpdateInput contains profile fields a creator can change. Nil fields are
// left as they are.
type UpdateInput struct {
	Name *string
	Bio  *string
}

func (u *UseCase) UpdateProfile(ctx context.Context, id model.MemorialID, input UpdateInput) (*model.Memorial, error) {
	memorial, err := u.repo.GetMemorial(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		memorial.Name = *input.Name
	}
	if input.Bio != nil {
		memorial.Bio = *input.Bio
	}
	memorial.UpdatedAt = time.Now()

	if err := memorial.Validate(); err != nil {
		return nil, err
	}

	if err := u.repo.PutMemorial(ctx, memorial); err != nil {
		return nil, goerr.Wrap(err, "failed to update memorial", goerr.V("memorial_id", id))
	}

	return memorial, nil
}

// Delete removes a memorial together with its conditional responses, social
// links and tributes, whose lifetime is bounded by the memorial's.
func (u *UseCase) Delete(ctx context.Context, id model.MemorialID) error {
	responses, err := u.repo.ListResponses(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to list responses for deletion", goerr.V("memorial_id", id))
	}
	for _, resp := range responses {
		if err := u.repo.DeleteResponse(ctx, resp.ID); err != nil {
			return goerr.Wrap(err, "failed to delete response", goerr.V("response_id", resp.ID))
		}
	}

	links, err := u.repo.ListSocialLinks(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to list social links for deletion", goerr.V("memorial_id", id))
	}
	for _, link := range links {
		if err := u.repo.DeleteSocialLink(ctx, link.ID); err != nil {
			return goerr.Wrap(err, "failed to delete social link", goerr.V("link_id", link.ID))
		}
	}

	tributes, err := u.repo.ListTributes(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to list tributes for deletion", goerr.V("memorial_id", id))
	}
	for _, tribute := range tributes {
		if err := u.repo.DeleteTribute(ctx, tribute.ID); err != nil {
			return goerr.Wrap(err, "failed to delete tribute", goerr.V("tribute_id", tribute.ID))
		}
	}

	if err := u.repo.DeleteMemorial(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete memorial", goerr.V("memorial_id", id))
	}
	return nil
}
