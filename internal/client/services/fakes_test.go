package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/cfreminder/internal/client/models"
	"github.com/dmitrijs2005/cfreminder/internal/client/render"
)

// fakeAPI implements client.Client. It keeps subscriptions in memory and
// records every call in order.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	User    *models.User
	SaveErr error
	GetErr  error

	LastPayload models.UserPayload

	Contests    []models.Contest
	ContestsErr error
	LastTZ      string

	Subs        map[int64]bool
	SubsErr     error
	SaveSubsErr error
	LastSubs    []int64

	PreviewOut []models.PreviewEntry
	PreviewErr error

	DispatchOut *models.DispatchResult
	DispatchErr error

	// block, when set, holds ListContests and DispatchNotifications until
	// it is closed; entered receives one value per blocked call.
	block   chan struct{}
	entered chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{Subs: map[int64]bool{}}
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAPI) wait() {
	if f.block == nil {
		return
	}
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	<-f.block
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Ping(ctx context.Context) error { f.record("Ping"); return nil }

func (f *fakeAPI) SaveUser(ctx context.Context, p models.UserPayload) (*models.User, error) {
	f.record("SaveUser")
	f.LastPayload = p
	return f.User, f.SaveErr
}

func (f *fakeAPI) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	f.record("GetUser")
	return f.User, f.GetErr
}

func (f *fakeAPI) ListContests(ctx context.Context, tz string) ([]models.Contest, error) {
	f.record("ListContests")
	f.wait()
	f.mu.Lock()
	f.LastTZ = tz
	f.mu.Unlock()
	return f.Contests, f.ContestsErr
}

func (f *fakeAPI) ListSubscriptions(ctx context.Context, id models.UserID) ([]models.Subscription, error) {
	f.record("ListSubscriptions")
	if f.SubsErr != nil {
		return nil, f.SubsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Subscription
	for cid, ok := range f.Subs {
		if ok {
			out = append(out, models.Subscription{ContestID: cid})
		}
	}
	return out, nil
}

func (f *fakeAPI) ReplaceSubscriptions(ctx context.Context, id models.UserID, ids []int64) error {
	f.record("ReplaceSubscriptions")
	if f.SaveSubsErr != nil {
		return f.SaveSubsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastSubs = ids
	f.Subs = map[int64]bool{}
	for _, cid := range ids {
		f.Subs[cid] = true
	}
	return nil
}

func (f *fakeAPI) PreviewNotifications(ctx context.Context, id models.UserID) ([]models.PreviewEntry, error) {
	f.record("PreviewNotifications")
	return f.PreviewOut, f.PreviewErr
}

func (f *fakeAPI) DispatchNotifications(ctx context.Context, id models.UserID) (*models.DispatchResult, error) {
	f.record("DispatchNotifications")
	f.wait()
	return f.DispatchOut, f.DispatchErr
}

// fakeUI implements render.Renderer headlessly.
type fakeUI struct {
	mu sync.Mutex

	ids      []int64
	checked  map[int64]bool
	statuses map[render.Region][]string
	form     models.ProfileForm

	listRenders    int
	previewRenders [][]models.PreviewEntry
}

func newFakeUI() *fakeUI {
	return &fakeUI{checked: map[int64]bool{}, statuses: map[render.Region][]string{}}
}

func (u *fakeUI) RenderContestList(cs []models.Contest) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.listRenders++
	u.ids = nil
	u.checked = map[int64]bool{}
	for _, c := range cs {
		u.ids = append(u.ids, c.ID)
	}
}

func (u *fakeUI) RenderPreview(e []models.PreviewEntry) {
	u.mu.Lock()
	u.previewRenders = append(u.previewRenders, e)
	u.mu.Unlock()
}

func (u *fakeUI) SetStatus(r render.Region, text string) {
	u.mu.Lock()
	u.statuses[r] = append(u.statuses[r], text)
	u.mu.Unlock()
}

func (u *fakeUI) RenderedContestIDs() []int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]int64(nil), u.ids...)
}

func (u *fakeUI) SetChecked(id int64, v bool) {
	u.mu.Lock()
	u.checked[id] = v
	u.mu.Unlock()
}

func (u *fakeUI) CheckedContestIDs() []int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	var out []int64
	for _, id := range u.ids {
		if u.checked[id] {
			out = append(out, id)
		}
	}
	return out
}

func (u *fakeUI) FillProfile(f models.ProfileForm) {
	u.mu.Lock()
	u.form = f
	u.mu.Unlock()
}

func (u *fakeUI) ProfileForm() models.ProfileForm {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.form
}

// last returns the latest message of region, or "".
func (u *fakeUI) last(r render.Region) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	h := u.statuses[r]
	if len(h) == 0 {
		return ""
	}
	return h[len(h)-1]
}

func (u *fakeUI) history(r render.Region) []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.statuses[r]...)
}
