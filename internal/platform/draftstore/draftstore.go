// Package draftstore persists wizard drafts between steps. Drafts are
// short-lived (default 24h) and keyed by a generated id.
package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("draftstore: draft not found")

// Draft is one in-progress wizard submission. Payload holds the raw
// step data exactly as the client sent it.
type Draft struct {
	ID        string          `json:"draft_id"`
	Etapa     int             `json:"etapa"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (d *Draft) Expired(now time.Time) bool {
	return !d.ExpiresAt.IsZero() && now.After(d.ExpiresAt)
}

type Store interface {
	Put(ctx context.Context, d *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	Delete(ctx context.Context, id string) error
	// SweepExpired drops expired drafts and reports how many went.
	SweepExpired(ctx context.Context) (int, error)
	// Count reports how many live drafts the store holds.
	Count(ctx context.Context) (int, error)
}
