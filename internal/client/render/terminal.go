package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/cfreminder/internal/client/models"
)

// DefaultStatusTTL is how long a status message stays before it is cleared.
const DefaultStatusTTL = 4 * time.Second

type row struct {
	contest models.Contest
	checked bool
}

type styles struct {
	title   lipgloss.Style
	id      lipgloss.Style
	faint   lipgloss.Style
	check   lipgloss.Style
	badge   lipgloss.Style
	region  lipgloss.Style
	message lipgloss.Style
}

func newStyles(out io.Writer, plain bool) styles {
	if plain {
		s := lipgloss.NewStyle()
		return styles{title: s, id: s, faint: s, check: s, badge: s, region: s, message: s}
	}
	r := lipgloss.NewRenderer(out)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		id:      r.NewStyle().Foreground(lipgloss.Color("8")),
		faint:   r.NewStyle().Faint(true),
		check:   r.NewStyle().Foreground(lipgloss.Color("10")),
		badge:   r.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8")),
		region:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		message: r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// Terminal renders to a text stream. Rows and the profile form are kept in
// memory; previews and status messages are printed as they arrive.
type Terminal struct {
	mu sync.Mutex

	out    io.Writer
	plain  bool
	ttl    time.Duration
	styles styles

	rows     []row
	preview  []models.PreviewEntry
	statuses map[Region]string
	form     models.ProfileForm

	afterFunc func(time.Duration, func()) *time.Timer
}

// Option customizes a Terminal.
type Option func(*Terminal)

// WithPlain disables styling.
func WithPlain() Option {
	return func(t *Terminal) { t.plain = true }
}

// WithStatusTTL sets the auto-clear delay. Zero or less keeps messages.
func WithStatusTTL(d time.Duration) Option {
	return func(t *Terminal) { t.ttl = d }
}

func NewTerminal(out io.Writer, opts ...Option) *Terminal {
	t := &Terminal{
		out:       out,
		ttl:       DefaultStatusTTL,
		statuses:  make(map[Region]string),
		form:      models.DefaultProfileForm(),
		afterFunc: time.AfterFunc,
	}
	for _, o := range opts {
		o(t)
	}
	t.styles = newStyles(out, t.plain)
	return t
}

func (t *Terminal) RenderContestList(contests []models.Contest) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = make([]row, len(contests))
	for i, c := range contests {
		t.rows[i] = row{contest: c}
	}
}

func (t *Terminal) RenderPreview(entries []models.PreviewEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.preview = append([]models.PreviewEntry(nil), entries...)
	t.writePreview()
}

func (t *Terminal) SetStatus(region Region, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if text == "" {
		delete(t.statuses, region)
		return
	}
	t.statuses[region] = text
	fmt.Fprintln(t.out, t.statusLine(region, text))

	if t.ttl > 0 {
		t.afterFunc(t.ttl, func() { t.expire(region, text) })
	}
}

// expire clears region if it still shows text.
func (t *Terminal) expire(region Region, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.statuses[region] == text {
		delete(t.statuses, region)
	}
}

// Status returns the current message of region.
func (t *Terminal) Status(region Region) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statuses[region]
}

func (t *Terminal) RenderedContestIDs() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]int64, len(t.rows))
	for i, r := range t.rows {
		ids[i] = r.contest.ID
	}
	return ids
}

func (t *Terminal) SetChecked(id int64, checked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.rows {
		if t.rows[i].contest.ID == id {
			t.rows[i].checked = checked
		}
	}
}

func (t *Terminal) CheckedContestIDs() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var ids []int64
	for _, r := range t.rows {
		if r.checked {
			ids = append(ids, r.contest.ID)
		}
	}
	return ids
}

func (t *Terminal) FillProfile(form models.ProfileForm) {
	t.mu.Lock()
	t.form = form
	t.mu.Unlock()
}

func (t *Terminal) ProfileForm() models.ProfileForm {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.form
}

// PrintContests writes the rendered rows with their checked state.
func (t *Terminal) PrintContests() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.rows) == 0 {
		fmt.Fprintln(t.out, t.styles.faint.Render("No contests loaded."))
		return
	}

	fmt.Fprintln(t.out, t.styles.title.Render(fmt.Sprintf("Upcoming contests (%d)", len(t.rows))))
	for _, r := range t.rows {
		box := "[ ]"
		if r.checked {
			box = t.styles.check.Render("[x]")
		}
		fmt.Fprintf(t.out, "%s %s %s\n", box, t.styles.id.Render(fmt.Sprintf("%-6d", r.contest.ID)), r.contest.Name)
		fmt.Fprintln(t.out, t.styles.faint.Render(fmt.Sprintf("      Starts: %s | Duration: %s",
			r.contest.StartsLabel(), r.contest.DurationLabel())))
	}
}

// PrintPreview writes the last rendered preview again.
func (t *Terminal) PrintPreview() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writePreview()
}

// PrintStatuses writes every region that currently holds a message.
func (t *Terminal) PrintStatuses() {
	t.mu.Lock()
	defer t.mu.Unlock()

	shown := false
	for _, r := range Regions {
		if text, ok := t.statuses[r]; ok {
			fmt.Fprintln(t.out, t.statusLine(r, text))
			shown = true
		}
	}
	if !shown {
		fmt.Fprintln(t.out, t.styles.faint.Render("No status messages."))
	}
}

// PrintProfile writes the profile form fields.
func (t *Terminal) PrintProfile() {
	t.mu.Lock()
	defer t.mu.Unlock()

	f := t.form
	for _, kv := range [][2]string{
		{"email", f.Email},
		{"timezone", f.Timezone},
		{"cf_handle", f.CFHandle},
		{"reminder_count", f.ReminderCount},
		{"reminder_start_minutes", f.ReminderStartMinutes},
		{"reminder_interval_minutes", f.ReminderIntervalMinutes},
	} {
		fmt.Fprintf(t.out, "%-26s %s\n", t.styles.faint.Render(kv[0]+":"), kv[1])
	}
}

func (t *Terminal) writePreview() {
	if len(t.preview) == 0 {
		fmt.Fprintln(t.out, t.styles.faint.Render("No previews yet."))
		return
	}

	fmt.Fprintln(t.out, t.styles.title.Render("Reminder preview"))
	for _, p := range t.preview {
		fmt.Fprintln(t.out, p.ContestName)
		fmt.Fprintln(t.out, t.styles.faint.Render("  Starts (UTC): "+p.StartsLabel()))
		badges := make([]string, len(p.RemindersLocalFormatted))
		for i, s := range p.RemindersLocalFormatted {
			badges[i] = t.styles.badge.Render(s)
		}
		if len(badges) > 0 {
			fmt.Fprintln(t.out, "  "+strings.Join(badges, " | "))
		}
	}
}

func (t *Terminal) statusLine(region Region, text string) string {
	return t.styles.region.Render("["+string(region)+"]") + " " + t.styles.message.Render(text)
}
