package services

import (
	"context"

	"github.com/dmitrijs2005/cfreminder/internal/client/client"
	"github.com/dmitrijs2005/cfreminder/internal/client/identity"
	"github.com/dmitrijs2005/cfreminder/internal/client/render"
	"github.com/dmitrijs2005/cfreminder/internal/logging"
)

// Workflow wires the components around one State and one Renderer.
type Workflow struct {
	State      *State
	Catalog    *Catalog
	Reconciler *Reconciler
	Preview    *Preview
	Profile    *Profile

	cell identity.Cell
	log  logging.Logger
}

// NewWorkflow builds the components. timezone is the initial catalog
// timezone; it may be empty.
func NewWorkflow(api client.Client, cell identity.Cell, ui render.Renderer, log logging.Logger, timezone string) *Workflow {
	state := NewState(timezone)
	guard := NewGuard()

	preview := NewPreview(api, state, ui, guard, log)
	rec := NewReconciler(api, state, ui, preview, guard, log)
	catalog := NewCatalog(api, state, ui, rec, log)
	profile := NewProfile(api, cell, state, ui, catalog, preview, guard, log)

	return &Workflow{
		State:      state,
		Catalog:    catalog,
		Reconciler: rec,
		Preview:    preview,
		Profile:    profile,
		cell:       cell,
		log:        log,
	}
}

// Restore reads the persisted identity into State. It reports whether one
// was found.
func (w *Workflow) Restore(ctx context.Context) (bool, error) {
	id, ok, err := w.cell.Load(ctx)
	if err != nil {
		w.log.Error(ctx, "read identity failed", "error", err)
		return false, err
	}
	if ok {
		w.State.SetUserID(id)
		w.log.Debug(ctx, "identity restored", "user", id)
	}
	return ok, nil
}
