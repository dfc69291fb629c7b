package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidForm is returned when a profile form field cannot be coerced to
// the type the backend expects.
var ErrInvalidForm = errors.New("invalid profile form")

// UserID is the opaque, server-assigned user identifier. The backend emits it
// as a JSON number; it is kept as a string on the client.
type UserID string

// UnmarshalJSON accepts both numeric and string identifiers.
func (id *UserID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("user id must be a number or a string: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// User is the reminder profile as returned by the backend.
type User struct {
	ID                      UserID     `json:"id"`
	Email                   string     `json:"email"`
	Timezone                string     `json:"timezone"`
	CFHandle                string     `json:"cf_handle,omitempty"`
	ReminderCount           int        `json:"reminder_count"`
	ReminderStartMinutes    int        `json:"reminder_start_minutes"`
	ReminderIntervalMinutes int        `json:"reminder_interval_minutes"`
	CreatedAt               *Timestamp `json:"created_at,omitempty"`
}

// UserPayload is the request body of a profile save.
type UserPayload struct {
	Email                   string `json:"email"`
	Timezone                string `json:"timezone"`
	CFHandle                string `json:"cf_handle,omitempty"`
	ReminderCount           int    `json:"reminder_count"`
	ReminderStartMinutes    int    `json:"reminder_start_minutes"`
	ReminderIntervalMinutes int    `json:"reminder_interval_minutes"`
}

// ProfileForm mirrors the editable profile fields as typed by the user.
type ProfileForm struct {
	Email                   string
	Timezone                string
	CFHandle                string
	ReminderCount           string
	ReminderStartMinutes    string
	ReminderIntervalMinutes string
}

// DefaultProfileForm returns the form prefilled with the backend defaults.
func DefaultProfileForm() ProfileForm {
	return ProfileForm{
		Timezone:                "UTC",
		ReminderCount:           "3",
		ReminderStartMinutes:    "30",
		ReminderIntervalMinutes: "10",
	}
}

// FormFromUser fills a form from a fetched profile.
func FormFromUser(u User) ProfileForm {
	return ProfileForm{
		Email:                   u.Email,
		Timezone:                u.Timezone,
		CFHandle:                u.CFHandle,
		ReminderCount:           strconv.Itoa(u.ReminderCount),
		ReminderStartMinutes:    strconv.Itoa(u.ReminderStartMinutes),
		ReminderIntervalMinutes: strconv.Itoa(u.ReminderIntervalMinutes),
	}
}

// Payload coerces the numeric fields and builds the request body.
// reminder_count must be at least 1; the other two are passed through as the
// backend owns their bounds.
func (f ProfileForm) Payload() (UserPayload, error) {
	count, err := atoiField("reminder_count", f.ReminderCount)
	if err != nil {
		return UserPayload{}, err
	}
	if count < 1 {
		return UserPayload{}, fmt.Errorf("%w: reminder_count must be at least 1", ErrInvalidForm)
	}
	start, err := atoiField("reminder_start_minutes", f.ReminderStartMinutes)
	if err != nil {
		return UserPayload{}, err
	}
	interval, err := atoiField("reminder_interval_minutes", f.ReminderIntervalMinutes)
	if err != nil {
		return UserPayload{}, err
	}

	return UserPayload{
		Email:                   strings.TrimSpace(f.Email),
		Timezone:                strings.TrimSpace(f.Timezone),
		CFHandle:                strings.TrimSpace(f.CFHandle),
		ReminderCount:           count,
		ReminderStartMinutes:    start,
		ReminderIntervalMinutes: interval,
	}, nil
}

func atoiField(name, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidForm, name, v)
	}
	return n, nil
}
