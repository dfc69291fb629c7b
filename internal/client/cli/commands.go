package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cfreminder/internal/client/services"
)

// timezoneHints bounds the alternatives shown for an unknown zone.
const timezoneHints = 5

func (a *App) ShowProfile(ctx context.Context) error {
	a.ui.PrintProfile()
	return nil
}

// EditProfile walks the profile fields interactively. Nothing is sent until
// SaveProfile.
func (a *App) EditProfile(ctx context.Context) error {
	f := a.ui.ProfileForm()
	fields := []struct {
		label string
		value *string
	}{
		{"Email", &f.Email},
		{"Timezone", &f.Timezone},
		{"Codeforces handle", &f.CFHandle},
		{"Reminder count", &f.ReminderCount},
		{"First reminder, minutes before start", &f.ReminderStartMinutes},
		{"Minutes between reminders", &f.ReminderIntervalMinutes},
	}
	for _, fl := range fields {
		v, err := GetWithDefault(a.reader, fl.label, *fl.value, a.out)
		if err != nil {
			return err
		}
		*fl.value = v
	}

	a.ui.FillProfile(f)
	a.hintTimezone(f.Timezone)
	fmt.Fprintln(a.out, "Profile updated locally, type 'saveprofile' to submit.")
	return nil
}

// hintTimezone suggests close matches when zone is not a known name.
func (a *App) hintTimezone(zone string) {
	if zone == "" {
		return
	}
	suggestions := a.matcher.Suggest(zone)
	for _, s := range suggestions {
		if s == zone {
			return
		}
	}
	if len(suggestions) == 0 {
		fmt.Fprintf(a.out, "Timezone %q is not in the known list.\n", zone)
		return
	}
	if len(suggestions) > timezoneHints {
		suggestions = suggestions[:timezoneHints]
	}
	fmt.Fprintf(a.out, "Timezone %q is not in the known list. Did you mean: %s?\n", zone, strings.Join(suggestions, ", "))
}

func (a *App) SaveProfile(ctx context.Context) error {
	if _, err := a.flow.Profile.Save(ctx, a.ui.ProfileForm()); err != nil {
		return err
	}
	a.ui.PrintContests()
	return nil
}

func (a *App) LoadProfile(ctx context.Context) error {
	if _, err := a.flow.Profile.Load(ctx); err != nil {
		return err
	}
	a.ui.PrintProfile()
	return nil
}

// LoadContests reloads the catalog. An empty timezone reuses the last one.
func (a *App) LoadContests(ctx context.Context, timezone string) error {
	if timezone == "" {
		timezone = a.flow.State.Timezone()
	}
	if _, err := a.flow.Catalog.Load(ctx, timezone); err != nil {
		return err
	}
	a.ui.PrintContests()
	return nil
}

func (a *App) ListContests(ctx context.Context) error {
	a.ui.PrintContests()
	return nil
}

// Check sets the checked state of the given rendered contest ids.
func (a *App) Check(ctx context.Context, args []string, checked bool) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: check|uncheck <id> [id...] | all")
		return nil
	}

	rendered := a.ui.RenderedContestIDs()
	if len(args) == 1 && args[0] == "all" {
		for _, id := range rendered {
			a.ui.SetChecked(id, checked)
		}
		return nil
	}

	known := make(map[int64]struct{}, len(rendered))
	for _, id := range rendered {
		known[id] = struct{}{}
	}
	for _, s := range args {
		id, err := strconv.ParseInt(s, 10, 64)
		if _, ok := known[id]; err != nil || !ok {
			fmt.Fprintf(a.out, "Unknown contest: %s\n", s)
			continue
		}
		a.ui.SetChecked(id, checked)
	}
	return nil
}

func (a *App) SaveSubscriptions(ctx context.Context) error {
	return a.flow.Reconciler.Save(ctx, a.flow.Catalog.Selected())
}

func (a *App) ShowPreview(ctx context.Context) error {
	if a.flow.State.UserID() == "" {
		fmt.Fprintln(a.out, "No user saved yet.")
		return services.ErrNoProfile
	}
	return a.flow.Preview.Preview(ctx)
}

// ShowLastPreview prints the most recently rendered preview without a request.
func (a *App) ShowLastPreview(ctx context.Context) error {
	a.ui.PrintPreview()
	return nil
}

func (a *App) Dispatch(ctx context.Context) error {
	_, err := a.flow.Preview.Dispatch(ctx)
	return err
}

func (a *App) SuggestTimezones(ctx context.Context, query string) error {
	zones := a.matcher.Suggest(query)
	if len(zones) == 0 {
		fmt.Fprintln(a.out, "No matching timezones.")
		return nil
	}
	for _, z := range zones {
		fmt.Fprintln(a.out, z)
	}
	return nil
}

func (a *App) ShowStatus(ctx context.Context) error {
	a.ui.PrintStatuses()
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	id := a.flow.State.UserID()
	if id == "" {
		fmt.Fprintln(a.out, "No user saved yet.")
		return nil
	}
	fmt.Fprintf(a.out, "User #%s\n", id)
	return nil
}

func (a *App) Forget(ctx context.Context) error {
	_, err := a.flow.Profile.Forget(ctx)
	return err
}
