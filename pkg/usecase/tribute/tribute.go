package tribute

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/model"
	"github.com/m-mizutani/ofrenda/pkg/repository"
)

// UseCase provides the tribute wall operations. Tributes are fully
// independent of chat state.
type UseCase struct {
	repo repository.Repository
}

// New creates a new tribute UseCase instance
func New(repo repository.Repository) *UseCase {
	return &UseCase{repo: repo}
}

// Post publishes a tribute to a memorial's wall
func (u *UseCase) Post(ctx context.Context, memorialID model.MemorialID, author, message string) (*model.Tribute, error) {
	if _, err := u.repo.GetMemorial(ctx, memorialID); err != nil {
		return nil, err
	}

	tribute := &model.Tribute{
		ID:         model.NewTributeID(),
		MemorialID: memorialID,
		Author:     author,
		Message:    message,
		CreatedAt:  time.Now(),
	}

	if err := tribute.Validate(); err != nil {
		return nil, err
	}

	if err := u.repo.PutTribute(ctx, tribute); err != nil {
		return nil, goerr.Wrap(err, "failed to save tribute", goerr.V("memorial_id", memorialID))
	}

	return tribute, nil
}

// List returns a memorial's tributes, newest first
func (u *UseCase) List(ctx context.Context, memorialID model.MemorialID) ([]*model.Tribute, error) {
	return u.repo.ListTributes(ctx, memorialID)
}
