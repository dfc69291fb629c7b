package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cfreminder/internal/client/client"
	"github.com/dmitrijs2005/cfreminder/internal/client/gateway"
	"github.com/dmitrijs2005/cfreminder/internal/client/identity"
	"github.com/dmitrijs2005/cfreminder/internal/client/models"
	"github.com/dmitrijs2005/cfreminder/internal/client/render"
	"github.com/dmitrijs2005/cfreminder/internal/logging"
)

// Profile saves and loads the user's notification preferences and owns the
// identity lifecycle.
type Profile struct {
	api     client.Client
	cell    identity.Cell
	state   *State
	ui      render.Renderer
	catalog *Catalog
	preview *Preview
	guard   *Guard
	log     logging.Logger
}

func NewProfile(api client.Client, cell identity.Cell, state *State, ui render.Renderer,
	catalog *Catalog, preview *Preview, guard *Guard, log logging.Logger) *Profile {
	return &Profile{
		api: api, cell: cell, state: state, ui: ui,
		catalog: catalog, preview: preview, guard: guard,
		log: log.With("component", "profile"),
	}
}

// Save submits form and remembers the returned user id. On success the
// catalog and then the preview are reloaded, one after the other.
func (p *Profile) Save(ctx context.Context, form models.ProfileForm) (*models.User, error) {
	payload, err := form.Payload()
	if err != nil {
		p.ui.SetStatus(render.RegionProfile, "Error: "+err.Error())
		return nil, err
	}

	release, ok := p.guard.acquire(actionProfileSave)
	if !ok {
		p.ui.SetStatus(render.RegionProfile, inProgressText(actionProfileSave))
		return nil, ErrInProgress
	}
	user, err := p.api.SaveUser(ctx, payload)
	release()
	if err != nil {
		p.log.Error(ctx, "save profile failed", "error", err)
		p.ui.SetStatus(render.RegionProfile, "Error: "+err.Error())
		return nil, fmt.Errorf("save profile: %w", err)
	}

	p.state.SetUserID(user.ID)
	if err := p.cell.Store(ctx, user.ID); err != nil {
		p.log.Error(ctx, "persist identity failed", "user", user.ID, "error", err)
	}
	p.ui.FillProfile(form)
	p.log.Info(ctx, "profile saved", "user", user.ID)
	p.ui.SetStatus(render.RegionProfile, fmt.Sprintf("Saved user #%s", user.ID))

	_, _ = p.catalog.Load(ctx, p.state.Timezone())
	_ = p.preview.Preview(ctx)
	return user, nil
}

// Load fetches the stored user and fills the profile form. A stored id the
// backend no longer knows is dropped.
func (p *Profile) Load(ctx context.Context) (*models.User, error) {
	id := p.state.UserID()
	if id == "" {
		p.ui.SetStatus(render.RegionProfile, "No user saved yet")
		return nil, ErrNoProfile
	}

	user, err := p.api.GetUser(ctx, id)
	if err != nil {
		p.log.Error(ctx, "load profile failed", "user", id, "error", err)
		p.ui.SetStatus(render.RegionProfile, "Error: "+err.Error())
		if gateway.IsNotFound(err) {
			p.dropStale(ctx, id)
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	p.ui.FillProfile(models.FormFromUser(*user))
	p.ui.SetStatus(render.RegionProfile, fmt.Sprintf("Loaded user #%s", user.ID))
	return user, nil
}

// Forget drops the stored identity. The backend keeps the user.
func (p *Profile) Forget(ctx context.Context) (models.UserID, error) {
	prev, err := p.cell.Clear(ctx)
	if err != nil {
		p.log.Error(ctx, "clear identity failed", "error", err)
		p.ui.SetStatus(render.RegionProfile, "Error: "+err.Error())
		return "", fmt.Errorf("forget: %w", err)
	}
	if prev == "" {
		prev = p.state.UserID()
	}
	p.state.SetUserID("")
	p.ui.FillProfile(models.DefaultProfileForm())

	if prev == "" {
		p.ui.SetStatus(render.RegionProfile, "No user saved yet")
		return "", nil
	}
	p.log.Info(ctx, "identity cleared", "user", prev)
	p.ui.SetStatus(render.RegionProfile, fmt.Sprintf("Forgot user #%s", prev))
	return prev, nil
}

func (p *Profile) dropStale(ctx context.Context, id models.UserID) {
	if _, err := p.cell.Clear(ctx); err != nil {
		p.log.Error(ctx, "clear stale identity failed", "user", id, "error", err)
		return
	}
	p.state.SetUserID("")
	p.log.Warn(ctx, "stale identity dropped", "user", id)
}
