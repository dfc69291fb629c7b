package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cfreminder/internal/client/client"
	"github.com/dmitrijs2005/cfreminder/internal/client/models"
	"github.com/dmitrijs2005/cfreminder/internal/client/render"
	"github.com/dmitrijs2005/cfreminder/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Preview shows the server-computed reminder schedule and triggers dispatch.
type Preview struct {
	api   client.Client
	state *State
	ui    render.Renderer
	guard *Guard
	log   logging.Logger
	calls singleflight.Group
}

func NewPreview(api client.Client, state *State, ui render.Renderer, guard *Guard, log logging.Logger) *Preview {
	return &Preview{api: api, state: state, ui: ui, guard: guard, log: log.With("component", "preview")}
}

// Preview re-renders the whole reminder preview. Without a user it does
// nothing.
func (p *Preview) Preview(ctx context.Context) error {
	id := p.state.UserID()
	if id == "" {
		return nil
	}

	v, err, _ := p.calls.Do(string(id), func() (any, error) {
		return p.api.PreviewNotifications(ctx, id)
	})
	if err != nil {
		p.log.Error(ctx, "preview failed", "user", id, "error", err)
		p.ui.SetStatus(render.RegionDispatch, "Preview error: "+err.Error())
		return fmt.Errorf("preview: %w", err)
	}

	p.ui.RenderPreview(v.([]models.PreviewEntry))
	return nil
}

// Dispatch asks the backend to send due reminders. Per-notification errors
// are appended to the report; they do not make the call fail.
func (p *Preview) Dispatch(ctx context.Context) (*models.DispatchResult, error) {
	id := p.state.UserID()
	if id == "" {
		p.ui.SetStatus(render.RegionDispatch, "Save profile first")
		return nil, ErrNoProfile
	}

	release, ok := p.guard.acquire(actionDispatch)
	if !ok {
		p.ui.SetStatus(render.RegionDispatch, inProgressText(actionDispatch))
		return nil, ErrInProgress
	}
	res, err := p.api.DispatchNotifications(ctx, id)
	release()
	if err != nil {
		p.log.Error(ctx, "dispatch failed", "user", id, "error", err)
		p.ui.SetStatus(render.RegionDispatch, "Dispatch error: "+err.Error())
		return nil, fmt.Errorf("dispatch: %w", err)
	}

	p.log.Info(ctx, "dispatch done", "user", id, "sent", res.SentCount, "errors", len(res.Errors))
	p.ui.SetStatus(render.RegionDispatch, DispatchReport(res))
	return res, nil
}

// DispatchReport formats a dispatch result as one status line.
func DispatchReport(res *models.DispatchResult) string {
	text := fmt.Sprintf("Sent %d notifications.", res.SentCount)
	if len(res.Errors) > 0 {
		text += " Errors: " + strings.Join(res.Errors, "; ")
	}
	return text
}
