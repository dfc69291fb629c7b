package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cfreminder/internal/client/client"
	"github.com/dmitrijs2005/cfreminder/internal/client/models"
	"github.com/dmitrijs2005/cfreminder/internal/client/render"
	"github.com/dmitrijs2005/cfreminder/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Catalog owns the upcoming-contest snapshot and the rendered contest rows.
type Catalog struct {
	api   client.Client
	state *State
	ui    render.Renderer
	rec   *Reconciler
	log   logging.Logger
	calls singleflight.Group
}

func NewCatalog(api client.Client, state *State, ui render.Renderer, rec *Reconciler, log logging.Logger) *Catalog {
	return &Catalog{api: api, state: state, ui: ui, rec: rec, log: log.With("component", "catalog")}
}

// Load fetches upcoming contests, localized to timezone when it is set, and
// replaces the snapshot and the rendered rows. Checked states are then
// reconciled with the user's subscriptions. On failure the previous snapshot,
// rows and timezone stay as they were.
func (c *Catalog) Load(ctx context.Context, timezone string) ([]models.Contest, error) {
	c.ui.SetStatus(render.RegionContests, "Loading contests...")

	v, err, shared := c.calls.Do("contests:"+timezone, func() (any, error) {
		return c.api.ListContests(ctx, timezone)
	})
	if err != nil {
		c.log.Error(ctx, "load contests failed", "timezone", timezone, "error", err)
		c.ui.SetStatus(render.RegionContests, "Error: "+err.Error())
		return nil, fmt.Errorf("load contests: %w", err)
	}
	contests := v.([]models.Contest)
	c.log.Debug(ctx, "contests loaded", "count", len(contests), "timezone", timezone, "shared", shared)

	c.state.SetTimezone(timezone)
	c.state.SetContests(contests)
	c.ui.RenderContestList(contests)
	c.ui.SetStatus(render.RegionContests, fmt.Sprintf("Loaded %d upcoming contests", len(contests)))

	_ = c.rec.Precheck(ctx)
	return contests, nil
}

// Selected reads the checked contest ids from the renderer at call time.
func (c *Catalog) Selected() []int64 {
	return c.ui.CheckedContestIDs()
}
