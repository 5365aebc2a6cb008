package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type TributeID string

// NewTributeID generates a new unique TributeID
func NewTributeID() TributeID {
	return TributeID(uuid.New().String())
}

// Tribute is a public message posted to a memorial's tribute wall.
// Tributes never enter chat state.
type Tribute struct {
	ID         TributeID  `json:"id" firestore:"id"`
	MemorialID MemorialID `json:"memorialId" firestore:"memorialId"`
	Author     string     `json:"author" firestore:"author"`
	Message    string     `json:"message" firestore:"message"`
	CreatedAt  time.Time  `json:"createdAt" firestore:"createdAt"`
}

// Validate checks required fields of the tribute
func (t *Tribute) Validate() error {
	if strings.TrimSpace(t.Author) == "" {
		return goerr.Wrap(ErrInvalidInput, "tribute author is empty")
	}
	if strings.TrimSpace(t.Message) == "" {
		return goerr.Wrap(ErrInvalidInput, "tribute message is empty")
	}
	return nil
}
