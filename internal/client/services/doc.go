// Package services holds the client workflow: loading the contest catalog,
// reconciling checkboxes with server subscriptions, saving subscriptions,
// previewing and dispatching reminders, and saving or loading the profile.
//
// Every top-level operation reports its outcome in its own status region of
// the Renderer and also returns the error, so callers may log it. Failures
// never cross regions: a failing preview does not hide a successful save.
package services
