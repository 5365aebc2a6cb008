package memorial

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/model"
)

// AddResponse registers a keyword-triggered canned reply. There is no
// update: creators delete and recreate to edit.
func (u *UseCase) AddResponse(ctx context.Context, memorialID model.MemorialID, keyword, response string) (*model.ConditionalResponse, error) {
	if _, err := u.repo.GetMemorial(ctx, memorialID); err != nil {
		return nil, err
	}

	resp := &model.ConditionalResponse{
		ID:         model.NewResponseID(),
		MemorialID: memorialID,
		Keyword:    keyword,
		Response:   response,
		CreatedAt:  time.Now(),
	}

	if err := resp.Validate(); err != nil {
		return nil, err
	}

	if err := u.repo.PutResponse(ctx, resp); err != nil {
		return nil, goerr.Wrap(err, "failed to save response", goerr.V("memorial_id", memorialID))
	}

	return resp, nil
}

func (u *UseCase) RemoveResponse(ctx context.Context, id model.ResponseID) error {
	if err := u.repo.DeleteResponse(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete response", goerr.V("response_id", id))
	}
	return nil
}

func (u *UseCase) ListResponses(ctx context.Context, memorialID model.MemorialID) ([]*model.ConditionalResponse, error) {
	return u.repo.ListResponses(ctx, memorialID)
}
