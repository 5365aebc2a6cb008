package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type ResponseID string

// NewResponseID generates a new unique ResponseID
func NewResponseID() ResponseID {
	return ResponseID(uuid.New().String())
}

// ConditionalResponse is a creator-authored canned reply, returned verbatim
// when its keyword appears in a visitor message. There is no update operation;
// edits are delete and recreate.
type ConditionalResponse struct {
	ID         ResponseID `json:"id" firestore:"id"`
	MemorialID MemorialID `json:"memorialId" firestore:"memorialId"`
	Keyword    string     `json:"keyword" firestore:"keyword"`
	Response   string     `json:"response" firestore:"response"`

	// CreatedAt orders the registry. Matching is first-match-wins over this
	// ordering, so ties between duplicate keywords go to the earliest entry.
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// Validate rejects entries whose keyword or response is empty after trimming.
// An empty keyword would vacuously match every message.
func (r *ConditionalResponse) Validate() error {
	if strings.TrimSpace(r.Keyword) == "" {
		return goerr.Wrap(ErrInvalidInput, "response keyword is empty")
	}
	if strings.TrimSpace(r.Response) == "" {
		return goerr.Wrap(ErrInvalidInput, "response text is empty")
	}
	return nil
}
