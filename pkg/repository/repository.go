package repository

import (
	"context"

	"github.com/m-mizutani/ofrenda/pkg/model"
)

// Repository defines the interface for memorial data persistence
type Repository interface {
	// PutMemorial saves a memorial to the repository
	PutMemorial(ctx context.Context, memorial *model.Memorial) error

	// GetMemorial retrieves a memorial by ID
	GetMemorial(ctx context.Context, id model.MemorialID) (*model.Memorial, error)

	// DeleteMemorial removes a memorial
	DeleteMemorial(ctx context.Context, id model.MemorialID) error

	// PutResponse saves a conditional response
	PutResponse(ctx context.Context, resp *model.ConditionalResponse) error

	// DeleteResponse removes a conditional response by ID
	DeleteResponse(ctx context.Context, id model.ResponseID) error

	// ListResponses retrieves all conditional responses of a memorial in
	// creation order. Matching relies on this ordering being stable.
	ListResponses(ctx context.Context, memorialID model.MemorialID) ([]*model.ConditionalResponse, error)

	// PutTribute saves a tribute
	PutTribute(ctx context.Context, tribute *model.Tribute) error

	// DeleteTribute removes a tribute by ID
	DeleteTribute(ctx context.Context, id model.TributeID) error

	// ListTributes retrieves tributes of a memorial, newest first
	ListTributes(ctx context.Context, memorialID model.MemorialID) ([]*model.Tribute, error)

	// PutSocialLink saves a social link
	PutSocialLink(ctx context.Context, link *model.SocialLink) error

	// DeleteSocialLink removes a social link by ID
	DeleteSocialLink(ctx context.Context, id model.LinkID) error

	// ListSocialLinks retrieves social links of a memorial in creation order
	ListSocialLinks(ctx context.Context, memorialID model.MemorialID) ([]*model.SocialLink, error)
}
