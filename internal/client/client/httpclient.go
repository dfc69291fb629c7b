package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/cfreminder/internal/client/gateway"
	"github.com/dmitrijs2005/cfreminder/internal/client/models"
)

// Caller is the subset of gateway.Gateway used here.
type Caller interface {
	Call(ctx context.Context, req gateway.Request, out any) error
}

// Credentials are the optional Codeforces API key pair forwarded on contest
// listing.
type Credentials struct {
	APIKey    string
	APISecret string
}

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	gw    Caller
	creds Credentials
}

// NewHTTPClient builds a client on top of gw.
func NewHTTPClient(gw Caller, creds Credentials) *HTTPClient {
	return &HTTPClient{gw: gw, creds: creds}
}

func userPath(id models.UserID, suffix string) string {
	return "/users/" + url.PathEscape(string(id)) + suffix
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var h models.Health
	if err := c.gw.Call(ctx, gateway.Request{Path: "/health"}, &h); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if h.Status != "ok" {
		return fmt.Errorf("%w: status %q", ErrUnavailable, h.Status)
	}
	return nil
}

func (c *HTTPClient) SaveUser(ctx context.Context, payload models.UserPayload) (*models.User, error) {
	var u models.User
	if err := c.gw.Call(ctx, gateway.Request{Method: http.MethodPost, Path: "/users", Body: payload}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	var u models.User
	if err := c.gw.Call(ctx, gateway.Request{Path: userPath(id, "")}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListContests lists upcoming contests. A non-empty timezone asks the backend
// to attach a local formatted start time.
func (c *HTTPClient) ListContests(ctx context.Context, timezone string) ([]models.Contest, error) {
	q := url.Values{}
	if timezone != "" {
		q.Set("timezone", timezone)
	}
	if c.creds.APIKey != "" && c.creds.APISecret != "" {
		q.Set("apiKey", c.creds.APIKey)
		q.Set("apiSecret", c.creds.APISecret)
	}

	var out []models.Contest
	if err := c.gw.Call(ctx, gateway.Request{Path: "/contests", Query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListSubscriptions(ctx context.Context, id models.UserID) ([]models.Subscription, error) {
	var out []models.Subscription
	if err := c.gw.Call(ctx, gateway.Request{Path: userPath(id, "/subscriptions")}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceSubscriptions submits the complete desired set of contest ids.
func (c *HTTPClient) ReplaceSubscriptions(ctx context.Context, id models.UserID, contestIDs []int64) error {
	req := gateway.Request{
		Method: http.MethodPost,
		Path:   userPath(id, "/subscriptions"),
		Body:   models.SubscriptionRequest{ContestIDs: contestIDs},
	}
	return c.gw.Call(ctx, req, nil)
}

func (c *HTTPClient) PreviewNotifications(ctx context.Context, id models.UserID) ([]models.PreviewEntry, error) {
	var out []models.PreviewEntry
	if err := c.gw.Call(ctx, gateway.Request{Path: userPath(id, "/notification-preview")}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) DispatchNotifications(ctx context.Context, id models.UserID) (*models.DispatchResult, error) {
	var out models.DispatchResult
	req := gateway.Request{Method: http.MethodPost, Path: userPath(id, "/notifications/dispatch")}
	if err := c.gw.Call(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
