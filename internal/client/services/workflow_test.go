package services

import (
	"context"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cfreminder/internal/client/client"
	"github.com/dmitrijs2005/cfreminder/internal/client/gateway"
	"github.com/dmitrijs2005/cfreminder/internal/client/identity"
	"github.com/dmitrijs2005/cfreminder/internal/client/models"
	"github.com/dmitrijs2005/cfreminder/internal/client/render"
	"github.com/dmitrijs2005/cfreminder/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contests(ids ...int64) []models.Contest {
	out := make([]models.Contest, len(ids))
	for i, id := range ids {
		out[i] = models.Contest{ID: id, Name: "Round"}
	}
	return out
}

func newWorkflow(t *testing.T, userID models.UserID) (*Workflow, *fakeAPI, *fakeUI, identity.Cell) {
	t.Helper()
	api := newFakeAPI()
	ui := newFakeUI()
	cell := identity.NewMemoryCell()
	w := NewWorkflow(api, cell, ui, logging.NewNop(), "")
	if userID != "" {
		require.NoError(t, cell.Store(context.Background(), userID))
		_, err := w.Restore(context.Background())
		require.NoError(t, err)
	}
	return w, api, ui, cell
}

func serverError() error {
	return &gateway.Error{Status: http.StatusInternalServerError, Message: "Internal Server Error"}
}

func TestCatalogLoad_RendersAndPrechecks(t *testing.T) {
	w, api, ui, _ := newWorkflow(t, "42")
	api.Contests = contests(2001, 2002, 2003)
	api.Subs = map[int64]bool{2001: true, 2003: true, 9999: true}

	got, err := w.Catalog.Load(context.Background(), "Asia/Kolkata")
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "Asia/Kolkata", api.LastTZ)
	assert.Equal(t, []string{"ListContests", "ListSubscriptions"}, api.Calls())

	assert.Equal(t, []int64{2001, 2003}, w.Catalog.Selected())
	assert.Equal(t, []string{"Loading contests...", "Loaded 3 upcoming contests"}, ui.history(render.RegionContests))
	assert.Equal(t, api.Contests, w.State.Contests())
	assert.Equal(t, "Asia/Kolkata", w.State.Timezone())
}

func TestCatalogLoad_WithoutUserSkipsPrecheck(t *testing.T) {
	w, api, ui, _ := newWorkflow(t, "")
	api.Contests = contests(1, 2)

	_, err := w.Catalog.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ListContests"}, api.Calls())
	assert.Empty(t, ui.CheckedContestIDs())
}

func TestCatalogLoad_FailureKeepsPreviousList(t *testing.T) {
	w, api, ui, _ := newWorkflow(t, "42")
	api.Contests = contests(2001, 2002)
	api.Subs = map[int64]bool{2002: true}
	_, err := w.Catalog.Load(context.Background(), "")
	require.NoError(t, err)

	api.ContestsErr = serverError()
	api.Contests = nil
	_, err = w.Catalog.Load(context.Background(), "")
	require.Error(t, err)

	assert.Equal(t, 1, ui.listRenders)
	assert.Equal(t, []int64{2001, 2002}, ui.RenderedContestIDs())
	assert.Equal(t, []int64{2002}, ui.CheckedContestIDs())
	assert.Len(t, w.State.Contests(), 2)
	assert.Equal(t, "Error: Internal Server Error", ui.last(render.RegionContests))
}

func TestCatalogLoad_FailureKeepsPreviousTimezone(t *testing.T) {
	w, api, _, _ := newWorkflow(t, "")
	api.Contests = contests(1)
	ctx := context.Background()

	_, err := w.Catalog.Load(ctx, "Europe/Riga")
	require.NoError(t, err)

	api.ContestsErr = &gateway.Error{Status: http.StatusBadRequest, Message: "Unknown timezone"}
	_, err = w.Catalog.Load(ctx, "Mars/Olympus")
	require.Error(t, err)
	assert.Equal(t, "Europe/Riga", w.State.Timezone())

	api.ContestsErr = nil
	_, err = w.Catalog.Load(ctx, w.State.Timezone())
	require.NoError(t, err)
	assert.Equal(t, "Europe/Riga", api.LastTZ)
}

func TestPrecheck_FailureIsFailOpen(t *testing.T) {
	w, api, ui, _ := newWorkflow(t, "42")
	api.Contests = contests(1, 2)
	api.SubsErr = serverError()

	_, err := w.Catalog.Load(context.Background(), "")
	require.NoError(t, err, "catalog load succeeds even when precheck fails")

	assert.Equal(t, []int64{1, 2}, ui.RenderedContestIDs())
	assert.Empty(t, ui.CheckedContestIDs())
	assert.Equal(t, "Sub load failed: Internal Server Error", ui.last(render.RegionContests))
}

func TestPrecheck_NoUserIsNoop(t *testing.T) {
	w, api, ui, _ := newWorkflow(t, "")
	ui.RenderContestList(contests(1))

	require.NoError(t, w.Reconciler.Precheck(context.Background()))
	assert.Empty(t, api.Calls())
	assert.Empty(t, ui.statuses)
}

func TestSaveReloadPrecheck_RoundTrip(t *testing.T) {
	w, api, ui, _ := newWorkflow(t, "42")
	api.Contests = contests(2001, 2002, 2003, 2004)
	ctx := context.Background()

	_, err := w.Catalog.Load(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, w.Catalog.Selected())

	ui.SetChecked(2002, true)
	ui.SetChecked(2004, true)
	want := w.Catalog.Selected()
	require.NoError(t, w.Reconciler.Save(ctx, want))
	assert.Equal(t, []int64{2002, 2004}, api.LastSubs)

	_, err = w.Catalog.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, want, w.Catalog.Selected())

	require.NoError(t, w.Reconciler.Precheck(ctx))
	assert.Equal(t, want, w.Catalog.Selected())
}

func TestSaveSubscriptions_Preconditions(t *testing.T) {
	t.Run("empty selection", func(t *testing.T) {
		w, api, ui, _ := newWorkflow(t, "42")
		api.Subs = map[int64]bool{7: true}

		err := w.Reconciler.Save(context.Background(), nil)
		require.ErrorIs(t, err, ErrEmptySelection)
		assert.Empty(t, api.Calls())
		assert.Equal(t, map[int64]bool{7: true}, api.Subs)
		assert.Equal(t, "Select at least one contest", ui.last(render.RegionSubscriptions))
	})

	t.Run("no user", func(t *testing.T) {
		w, api, ui, _ := newWorkflow(t, "")

		err := w.Reconciler.Save(context.Background(), []int64{1, 2})
		require.ErrorIs(t, err, ErrNoProfile)
		assert.Empty(t, api.Calls())
		assert.Equal(t, "Save profile first", ui.last(render.RegionSubscriptions))
	})
}

func TestSaveSubscriptions_ChainsPreview(t *testing.T) {
	w, api, ui, _ := newWorkflow(t, "42")
	api.PreviewOut = []models.PreviewEntry{{ContestID: 1, ContestName: "Round 1"}}

	require.NoError(t, w.Reconciler.Save(context.Background(), []int64{1}))
	assert.Equal(t, []string{"ReplaceSubscriptions", "PreviewNotifications"}, api.Calls())
	assert.Equal(t, "Subscriptions saved", ui.last(render.RegionSubscriptions))
	require.Len(t, ui.previewRenders, 1)
	assert.Equal(t, api.PreviewOut, ui.previewRenders[0])
}

func TestSaveSubscriptions_Failure(t *testing.T) {
	w, api, ui, _ := newWorkflow(t, "42")
	api.SaveSubsErr = &gateway.Error{Status: http.StatusNotFound, Message: "User not found"}

	require.Error(t, w.Reconciler.Save(context.Background(), []int64{1}))
	assert.Equal(t, []string{"ReplaceSubscriptions"}, api.Calls())
	assert.Equal(t, "Error: User not found", ui.last(render.RegionSubscriptions))
}

func TestPreview(t *testing.T) {
	t.Run("no user", func(t *testing.T) {
		w, api, ui, _ := newWorkflow(t, "")
		require.NoError(t, w.Preview.Preview(context.Background()))
		assert.Empty(t, api.Calls())
		assert.Empty(t, ui.previewRenders)
	})

	t.Run("empty renders placeholder", func(t *testing.T) {
		w, _, ui, _ := newWorkflow(t, "42")
		require.NoError(t, w.Preview.Preview(context.Background()))
		require.Len(t, ui.previewRenders, 1)
		assert.Empty(t, ui.previewRenders[0])
	})

	t.Run("error goes to dispatch region", func(t *testing.T) {
		w, api, ui, _ := newWorkflow(t, "42")
		api.PreviewErr = &gateway.Error{Message: "server unavailable", Err: gateway.ErrUnavailable}
		require.Error(t, w.Preview.Preview(context.Background()))
		assert.Equal(t, "Preview error: server unavailable", ui.last(render.RegionDispatch))
		assert.Empty(t, ui.previewRenders)
	})
}

func TestDispatch_PartialSuccessReportsBoth(t *testing.T) {
	w, api, ui, _ := newWorkflow(t, "42")
	api.DispatchOut = &models.DispatchResult{SentCount: 3, Errors: []string{"rate limited: contest 5"}}

	res, err := w.Preview.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.SentCount)

	msg := ui.last(render.RegionDispatch)
	assert.Contains(t, msg, "3")
	assert.Contains(t, msg, "rate limited: contest 5")
	assert.Equal(t, "Sent 3 notifications. Errors: rate limited: contest 5", msg)
}

func TestDispatch_Variants(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		w, api, ui, _ := newWorkflow(t, "42")
		api.DispatchOut = &models.DispatchResult{SentCount: 0}
		_, err := w.Preview.Dispatch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Sent 0 notifications.", ui.last(render.RegionDispatch))
	})

	t.Run("no user", func(t *testing.T) {
		w, api, ui, _ := newWorkflow(t, "")
		_, err := w.Preview.Dispatch(context.Background())
		require.ErrorIs(t, err, ErrNoProfile)
		assert.Empty(t, api.Calls())
		assert.Equal(t, "Save profile first", ui.last(render.RegionDispatch))
	})

	t.Run("failure", func(t *testing.T) {
		w, api, ui, _ := newWorkflow(t, "42")
		api.DispatchErr = serverError()
		_, err := w.Preview.Dispatch(context.Background())
		require.Error(t, err)
		assert.Equal(t, "Dispatch error: Internal Server Error", ui.last(render.RegionDispatch))
	})
}

func TestDispatchReport_MultipleErrors(t *testing.T) {
	assert.Equal(t, "Sent 1 notifications. Errors: a; b",
		DispatchReport(&models.DispatchResult{SentCount: 1, Errors: []string{"a", "b"}}))
}

func TestProfileSave_StoresIdentityThenReloadsInOrder(t *testing.T) {
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	api := newFakeAPI()
	api.User = &models.User{ID: "42", Email: "me@example.com", Timezone: "Asia/Kolkata", ReminderCount: 3}
	api.Contests = contests(2001)
	ui := newFakeUI()
	cell := identity.NewSQLiteCell(db)
	w := NewWorkflow(api, cell, ui, logging.NewNop(), "Asia/Kolkata")

	form := models.DefaultProfileForm()
	form.Email = "me@example.com"
	user, err := w.Profile.Save(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, models.UserID("42"), user.ID)

	stored, ok, err := identity.NewSQLiteCell(db).Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.UserID("42"), stored)
	assert.Equal(t, models.UserID("42"), w.State.UserID())

	assert.Equal(t, []string{"SaveUser", "ListContests", "ListSubscriptions", "PreviewNotifications"}, api.Calls())
	assert.Equal(t, "Asia/Kolkata", api.LastTZ)
	assert.Equal(t, "Saved user #42", ui.last(render.RegionProfile))
	assert.Equal(t, 3, api.LastPayload.ReminderCount)
}

func TestProfileSave_CatalogFailureStillPreviews(t *testing.T) {
	w, api, ui, _ := newWorkflow(t, "")
	api.User = &models.User{ID: "42"}
	api.ContestsErr = serverError()

	_, err := w.Profile.Save(context.Background(), models.DefaultProfileForm())
	require.NoError(t, err)
	assert.Equal(t, []string{"SaveUser", "ListContests", "PreviewNotifications"}, api.Calls())
	assert.Equal(t, "Error: Internal Server Error", ui.last(render.RegionContests))
}

func TestProfileSave_Failures(t *testing.T) {
	t.Run("invalid form", func(t *testing.T) {
		w, api, ui, _ := newWorkflow(t, "")
		form := models.DefaultProfileForm()
		form.ReminderCount = "three"

		_, err := w.Profile.Save(context.Background(), form)
		require.ErrorIs(t, err, models.ErrInvalidForm)
		assert.Empty(t, api.Calls())
		assert.Contains(t, ui.last(render.RegionProfile), "Error: ")
	})

	t.Run("backend rejects", func(t *testing.T) {
		w, api, ui, cell := newWorkflow(t, "")
		api.SaveErr = &gateway.Error{Status: http.StatusUnprocessableEntity, Message: "value is not a valid email address"}

		_, err := w.Profile.Save(context.Background(), models.DefaultProfileForm())
		require.Error(t, err)
		assert.Equal(t, []string{"SaveUser"}, api.Calls())
		assert.Equal(t, "Error: value is not a valid email address", ui.last(render.RegionProfile))

		_, ok, _ := cell.Load(context.Background())
		assert.False(t, ok)
	})
}

func TestProfileLoad(t *testing.T) {
	t.Run("no user", func(t *testing.T) {
		w, api, ui, _ := newWorkflow(t, "")
		_, err := w.Profile.Load(context.Background())
		require.ErrorIs(t, err, ErrNoProfile)
		assert.Empty(t, api.Calls())
		assert.Equal(t, "No user saved yet", ui.last(render.RegionProfile))
	})

	t.Run("fills form", func(t *testing.T) {
		w, api, ui, _ := newWorkflow(t, "42")
		api.User = &models.User{ID: "42", Email: "me@example.com", Timezone: "Europe/Riga",
			ReminderCount: 2, ReminderStartMinutes: 60, ReminderIntervalMinutes: 15}

		_, err := w.Profile.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Loaded user #42", ui.last(render.RegionProfile))
		assert.Equal(t, "Europe/Riga", ui.form.Timezone)
		assert.Equal(t, "60", ui.form.ReminderStartMinutes)
	})

	t.Run("unknown user drops identity", func(t *testing.T) {
		w, api, ui, cell := newWorkflow(t, "42")
		api.GetErr = &gateway.Error{Status: http.StatusNotFound, Message: "User not found"}
		_, err := w.Profile.Load(context.Background())
		require.Error(t, err)
		assert.Equal(t, "Error: User not found", ui.last(render.RegionProfile))
		assert.Empty(t, w.State.UserID())

		_, ok, err := cell.Load(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("server error keeps identity", func(t *testing.T) {
		w, api, ui, cell := newWorkflow(t, "42")
		api.GetErr = serverError()
		_, err := w.Profile.Load(context.Background())
		require.Error(t, err)
		assert.Equal(t, "Error: Internal Server Error", ui.last(render.RegionProfile))
		assert.Equal(t, models.UserID("42"), w.State.UserID())

		id, ok, err := cell.Load(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.UserID("42"), id)
	})
}

func TestProfileForget(t *testing.T) {
	w, api, ui, cell := newWorkflow(t, "42")

	prev, err := w.Profile.Forget(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.UserID("42"), prev)
	assert.Empty(t, w.State.UserID())
	assert.Equal(t, "Forgot user #42", ui.last(render.RegionProfile))
	assert.Equal(t, models.DefaultProfileForm(), ui.form)

	_, ok, _ := cell.Load(context.Background())
	assert.False(t, ok)
	assert.Empty(t, api.Calls())

	prev, err = w.Profile.Forget(context.Background())
	require.NoError(t, err)
	assert.Empty(t, prev)
	assert.Equal(t, "No user saved yet", ui.last(render.RegionProfile))
}

func TestDispatch_SecondTriggerWhileRunningIsRejected(t *testing.T) {
	w, api, ui, _ := newWorkflow(t, "42")
	api.DispatchOut = &models.DispatchResult{SentCount: 1}
	api.block = make(chan struct{})
	api.entered = make(chan struct{}, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = w.Preview.Dispatch(context.Background())
	}()
	<-api.entered

	_, err := w.Preview.Dispatch(context.Background())
	require.ErrorIs(t, err, ErrInProgress)
	assert.Equal(t, "Dispatch already in progress", ui.last(render.RegionDispatch))

	close(api.block)
	wg.Wait()
	assert.Equal(t, []string{"DispatchNotifications"}, api.Calls())

	api.block = nil
	_, err = w.Preview.Dispatch(context.Background())
	require.NoError(t, err, "guard is released after completion")
}

func TestCatalogLoad_ConcurrentLoadsAreCoalesced(t *testing.T) {
	w, api, ui, _ := newWorkflow(t, "")
	api.Contests = contests(1, 2)
	api.block = make(chan struct{})
	api.entered = make(chan struct{}, 2)

	var wg sync.WaitGroup
	results := make([][]models.Contest, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = w.Catalog.Load(context.Background(), "UTC")
		}(i)
		if i == 0 {
			<-api.entered
		}
	}

	require.Eventually(t, func() bool {
		return len(ui.history(render.RegionContests)) == 2
	}, time.Second, time.Millisecond)
	// Let the second caller reach the in-flight call.
	time.Sleep(50 * time.Millisecond)

	close(api.block)
	wg.Wait()
	assert.Equal(t, []string{"ListContests"}, api.Calls())
	assert.Len(t, results[0], 2)
	assert.Len(t, results[1], 2)
}

func TestGuard_AcquireRelease(t *testing.T) {
	g := NewGuard()

	release, ok := g.acquire(actionDispatch)
	require.True(t, ok)

	_, ok = g.acquire(actionDispatch)
	assert.False(t, ok)

	other, ok := g.acquire(actionProfileSave)
	require.True(t, ok, "actions are guarded independently")
	other()

	release()
	again, ok := g.acquire(actionDispatch)
	require.True(t, ok)
	again()
}
