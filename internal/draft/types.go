package draft

import (
	"context"
	"errors"
	"time"

	"github.com/stammerchat/stammer/internal/stutter"
)

var ErrNotFound = errors.New("draft not found")

// Draft is a saved message body plus the settings it was written with,
// so a composer can pick up where they left off.
type Draft struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Name      string              `json:"name"`
	Body      string              `json:"body"`
	Settings  stutter.RawSettings `json:"settings"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Store persists and retrieves drafts.
type Store interface {
	Save(ctx context.Context, d Draft) (Draft, error)
	Get(ctx context.Context, id string) (Draft, error)
	List(ctx context.Context, userID string, limit int) ([]Draft, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
