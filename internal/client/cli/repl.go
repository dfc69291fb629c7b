package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Fprintln

const helpText = `Available commands:
  profile              show the profile form
  edit                 edit the profile form
  saveprofile          save the profile and reload contests and preview
  loadprofile          load the stored user's profile
  contests [tz]        load upcoming contests, optionally in a timezone
  (l)ist               show loaded contests
  check <id...|all>    mark contests
  uncheck <id...|all>  unmark contests
  save                 save marked contests as subscriptions
  preview              show reminder preview
  last                 show the last preview again, offline
  dispatch             send due reminders
  tz [query]           suggest timezones
  status               show current status messages
  whoami               show the stored user
  forget               forget the stored user
  exit | quit          leave the program`

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	ShowProfile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	SaveProfile(ctx context.Context) error
	LoadProfile(ctx context.Context) error
	LoadContests(ctx context.Context, timezone string) error
	ListContests(ctx context.Context) error
	Check(ctx context.Context, args []string, checked bool) error
	SaveSubscriptions(ctx context.Context) error
	ShowPreview(ctx context.Context) error
	ShowLastPreview(ctx context.Context) error
	Dispatch(ctx context.Context) error
	SuggestTimezones(ctx context.Context, query string) error
	ShowStatus(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Forget(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a,
// writing the prompt and its own messages to out. The prompt shows
// statusFn(). The loop exits on EOF or on "exit"/"quit".
//
// Errors returned by command handlers are ignored here: every workflow
// operation has already reported its outcome in its status region, and the
// loop must stay usable after any failure.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		printlnFn(out, fmt.Sprintf("cfr %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(out, helpText)

		case "profile":
			_ = a.ShowProfile(ctx)

		case "edit":
			_ = a.EditProfile(ctx)

		case "saveprofile":
			_ = a.SaveProfile(ctx)

		case "loadprofile":
			_ = a.LoadProfile(ctx)

		case "contests":
			timezone := ""
			if len(args) > 0 {
				timezone = args[0]
			}
			_ = a.LoadContests(ctx, timezone)

		case "l", "list":
			_ = a.ListContests(ctx)

		case "check":
			_ = a.Check(ctx, args, true)

		case "uncheck":
			_ = a.Check(ctx, args, false)

		case "save":
			_ = a.SaveSubscriptions(ctx)

		case "preview":
			_ = a.ShowPreview(ctx)

		case "last":
			_ = a.ShowLastPreview(ctx)

		case "dispatch":
			_ = a.Dispatch(ctx)

		case "tz":
			_ = a.SuggestTimezones(ctx, strings.Join(args, " "))

		case "status":
			_ = a.ShowStatus(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "forget":
			_ = a.Forget(ctx)

		case "exit", "quit":
			printlnFn(out, "Bye!")
			return

		default:
			printlnFn(out, "Unknown command:", cmd)
		}
	}
}
