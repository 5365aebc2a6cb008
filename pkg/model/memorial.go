package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrNotFound     = goerr.New("not found")
	ErrInvalidInput = goerr.New("invalid input")
)

type MemorialID string

// NewMemorialID generates a new unique MemorialID
func NewMemorialID() MemorialID {
	return MemorialID(uuid.New().String())
}

// Memorial is a profile built by a creator. Visitors interact with it
// through the chat and tribute surfaces.
type Memorial struct {
	ID       MemorialID `json:"id" firestore:"id"`
	OwnerID  string     `json:"ownerId" firestore:"ownerId"`
	Name     string     `json:"name" firestore:"name"`
	Bio      string     `json:"bio" firestore:"bio"`
	PhotoURL string     `json:"photoUrl" firestore:"photoUrl"`
	AudioURL string     `json:"audioUrl" firestore:"audioUrl"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Validate checks required fields of the memorial
func (m *Memorial) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return goerr.Wrap(ErrInvalidInput, "memorial name is empty")
	}
	return nil
}

type LinkID string

// NewLinkID generates a new unique LinkID
func NewLinkID() LinkID {
	return LinkID(uuid.New().String())
}

// SocialLink is an external profile link attached to a memorial
type SocialLink struct {
	ID         LinkID     `json:"id" firestore:"id"`
	MemorialID MemorialID `json:"memorialId" firestore:"memorialId"`
	Platform   string     `json:"platform" firestore:"platform"`
	URL        string     `json:"url" firestore:"url"`
	CreatedAt  time.Time  `json:"createdAt" firestore:"createdAt"`
}

// Validate checks required fields of the social link
func (l *SocialLink) Validate() error {
	if strings.TrimSpace(l.Platform) == "" {
		return goerr.Wrap(ErrInvalidInput, "social link platform is empty")
	}
	if strings.TrimSpace(l.URL) == "" {
		return goerr.Wrap(ErrInvalidInput, "social link url is empty")
	}
	return nil
}
