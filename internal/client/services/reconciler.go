package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cfreminder/internal/client/client"
	"github.com/dmitrijs2005/cfreminder/internal/client/render"
	"github.com/dmitrijs2005/cfreminder/internal/logging"
)

// Reconciler keeps the checked rows in agreement with the subscriptions the
// server holds for the current user.
type Reconciler struct {
	api     client.Client
	state   *State
	ui      render.Renderer
	preview *Preview
	guard   *Guard
	log     logging.Logger
}

func NewReconciler(api client.Client, state *State, ui render.Renderer, preview *Preview, guard *Guard, log logging.Logger) *Reconciler {
	return &Reconciler{api: api, state: state, ui: ui, preview: preview, guard: guard, log: log.With("component", "reconciler")}
}

// Precheck sets every rendered row's checked state to whether the user is
// subscribed to it. Without a user it does nothing. A failure leaves the
// rows as they are and is reported in the contests region.
func (r *Reconciler) Precheck(ctx context.Context) error {
	id := r.state.UserID()
	if id == "" {
		return nil
	}

	subs, err := r.api.ListSubscriptions(ctx, id)
	if err != nil {
		r.log.Warn(ctx, "subscription load failed", "user", id, "error", err)
		r.ui.SetStatus(render.RegionContests, "Sub load failed: "+err.Error())
		return fmt.Errorf("precheck: %w", err)
	}

	subscribed := make(map[int64]struct{}, len(subs))
	for _, s := range subs {
		subscribed[s.ContestID] = struct{}{}
	}
	for _, cid := range r.ui.RenderedContestIDs() {
		_, ok := subscribed[cid]
		r.ui.SetChecked(cid, ok)
	}
	return nil
}

// Save replaces the user's subscriptions with contestIDs and refreshes the
// preview. It refuses locally, without a request, when there is no user or
// the selection is empty.
func (r *Reconciler) Save(ctx context.Context, contestIDs []int64) error {
	id := r.state.UserID()
	if id == "" {
		r.ui.SetStatus(render.RegionSubscriptions, "Save profile first")
		return ErrNoProfile
	}
	if len(contestIDs) == 0 {
		r.ui.SetStatus(render.RegionSubscriptions, "Select at least one contest")
		return ErrEmptySelection
	}

	release, ok := r.guard.acquire(actionSubscriptionSave)
	if !ok {
		r.ui.SetStatus(render.RegionSubscriptions, inProgressText(actionSubscriptionSave))
		return ErrInProgress
	}
	err := r.api.ReplaceSubscriptions(ctx, id, contestIDs)
	release()
	if err != nil {
		r.log.Error(ctx, "save subscriptions failed", "user", id, "error", err)
		r.ui.SetStatus(render.RegionSubscriptions, "Error: "+err.Error())
		return fmt.Errorf("save subscriptions: %w", err)
	}

	r.log.Info(ctx, "subscriptions saved", "user", id, "count", len(contestIDs))
	r.ui.SetStatus(render.RegionSubscriptions, "Subscriptions saved")
	_ = r.preview.Preview(ctx)
	return nil
}
