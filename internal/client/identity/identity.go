// Package identity persists which backend user this installation acts as.
// Only the server-assigned user id is kept; everything else is fetched.
package identity

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/cfreminder/internal/client/models"
	"github.com/dmitrijs2005/cfreminder/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cfreminder/internal/dbx"
)

// Key is the metadata key the user id is stored under.
const Key = "cf_user_id"

// Cell holds at most one user id.
type Cell interface {
	// Load returns the stored id, or ok=false when none is stored.
	Load(ctx context.Context) (id models.UserID, ok bool, err error)
	Store(ctx context.Context, id models.UserID) error
	// Clear removes the stored id and returns what was there.
	Clear(ctx context.Context) (models.UserID, error)
}

// SQLiteCell keeps the id in the local metadata table.
type SQLiteCell struct {
	db   *sql.DB
	repo metadata.Repository
}

func NewSQLiteCell(db *sql.DB) *SQLiteCell {
	return &SQLiteCell{db: db, repo: metadata.NewSQLiteRepository(db)}
}

func (c *SQLiteCell) Load(ctx context.Context) (models.UserID, bool, error) {
	v, ok, err := c.repo.Get(ctx, Key)
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return models.UserID(v), true, nil
}

func (c *SQLiteCell) Store(ctx context.Context, id models.UserID) error {
	return c.repo.Set(ctx, Key, string(id))
}

func (c *SQLiteCell) Clear(ctx context.Context) (models.UserID, error) {
	var prev string
	err := dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		v, _, err := repo.Get(ctx, Key)
		if err != nil {
			return err
		}
		prev = v
		return repo.Delete(ctx, Key)
	})
	if err != nil {
		return "", err
	}
	return models.UserID(prev), nil
}

// MemoryCell is a process-local Cell.
type MemoryCell struct {
	mu sync.Mutex
	id models.UserID
}

func NewMemoryCell() *MemoryCell {
	return &MemoryCell{}
}

func (c *MemoryCell) Load(context.Context) (models.UserID, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id, c.id != "", nil
}

func (c *MemoryCell) Store(_ context.Context, id models.UserID) error {
	c.mu.Lock()
	c.id = id
	c.mu.Unlock()
	return nil
}

func (c *MemoryCell) Clear(context.Context) (models.UserID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.id
	c.id = ""
	return prev, nil
}
