// Package render is the presentation boundary of the client. Services talk
// to a Renderer and never to the terminal directly.
package render

import (
	"github.com/dmitrijs2005/cfreminder/internal/client/models"
)

// Region names an independent status slot.
type Region string

const (
	RegionProfile       Region = "profile"
	RegionContests      Region = "contests"
	RegionSubscriptions Region = "subscriptions"
	RegionDispatch      Region = "dispatch"
)

// Regions lists every status slot in display order.
var Regions = []Region{RegionProfile, RegionContests, RegionSubscriptions, RegionDispatch}

// Renderer is what the workflow needs from a UI.
//
// RenderContestList replaces the rendered rows, all unchecked.
// RenderPreview replaces the whole preview; an empty slice shows a
// placeholder. SetStatus overwrites one region's message.
//
// Selection is read back from the renderer on demand: RenderedContestIDs
// and CheckedContestIDs reflect what is currently shown, in row order.
type Renderer interface {
	RenderContestList(contests []models.Contest)
	RenderPreview(entries []models.PreviewEntry)
	SetStatus(region Region, text string)

	RenderedContestIDs() []int64
	SetChecked(id int64, checked bool)
	CheckedContestIDs() []int64

	FillProfile(form models.ProfileForm)
	ProfileForm() models.ProfileForm
}
