package memorial

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/model"
)

func (u *UseCase) AddSocialLink(ctx context.Context, memorialID model.MemorialID, platform, url string) (*model.SocialLink, error) {
	if _, err := u.repo.GetMemorial(ctx, memorialID); err != nil {
		return nil, err
	}

	link := &model.SocialLink{
		ID:         model.NewLinkID(),
		MemorialID: memorialID,
		Platform:   platform,
		URL:        url,
		CreatedAt:  time.Now(),
	}

	if err := link.Validate(); err != nil {
		return nil, err
	}

	if err := u.repo.PutSocialLink(ctx, link); err != nil {
		return nil, goerr.Wrap(err, "failed to save social link", goerr.V("memorial_id", memorialID))
	}

	return link, nil
}

func (u *UseCase) RemoveSocialLink(ctx context.Context, id model.LinkID) error {
	if err := u.repo.DeleteSocialLink(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete social link", goerr.V("link_id", id))
	}
	return nil
}

func (u *UseCase) ListSocialLinks(ctx context.Context, memorialID model.MemorialID) ([]*model.SocialLink, error) {
	return u.repo.ListSocialLinks(ctx, memorialID)
}
