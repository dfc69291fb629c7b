package client

import (
	"context"

	"github.com/dmitrijs2005/cfreminder/internal/client/models"
)

// Client is the transport-agnostic contract of the reminder backend.
type Client interface {
	Ping(ctx context.Context) error
	SaveUser(ctx context.Context, payload models.UserPayload) (*models.User, error)
	GetUser(ctx context.Context, id models.UserID) (*models.User, error)
	ListContests(ctx context.Context, timezone string) ([]models.Contest, error)
	ListSubscriptions(ctx context.Context, id models.UserID) ([]models.Subscription, error)
	ReplaceSubscriptions(ctx context.Context, id models.UserID, contestIDs []int64) error
	PreviewNotifications(ctx context.Context, id models.UserID) ([]models.PreviewEntry, error)
	DispatchNotifications(ctx context.Context, id models.UserID) (*models.DispatchResult, error)
}
