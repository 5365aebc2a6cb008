package memorial

import (
	"github.com/m-mizutani/ofrenda/pkg/adapter"
	"github.com/m-mizutani/ofrenda/pkg/repository"
)

// UseCase provides creator-side operations on memorial profiles
type UseCase struct {
	repo    repository.Repository
	storage adapter.Storage
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithStorage sets the media storage used for photo and audio uploads
func WithStorage(s adapter.Storage) Option {
	return func(uc *UseCase) {
		uc.storage = s
	}
}

// New creates a new memorial UseCase instance
func New(repo repository.Repository, opts ...Option) *UseCase {
	uc := &UseCase{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
