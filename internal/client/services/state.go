package services

import (
	"sync"

	"github.com/dmitrijs2005/cfreminder/internal/client/models"
)

// State is the session state shared by the workflow components: the
// current user id, the last loaded contest snapshot and the timezone the
// catalog was last requested in.
type State struct {
	mu       sync.RWMutex
	userID   models.UserID
	contests []models.Contest
	timezone string
}

func NewState(timezone string) *State {
	return &State{timezone: timezone}
}

func (s *State) UserID() models.UserID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *State) SetUserID(id models.UserID) {
	s.mu.Lock()
	s.userID = id
	s.mu.Unlock()
}

// Contests returns the current snapshot. Callers must not modify it.
func (s *State) Contests() []models.Contest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contests
}

// SetContests replaces the snapshot wholesale.
func (s *State) SetContests(c []models.Contest) {
	s.mu.Lock()
	s.contests = c
	s.mu.Unlock()
}

func (s *State) Timezone() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timezone
}

func (s *State) SetTimezone(tz string) {
	s.mu.Lock()
	s.timezone = tz
	s.mu.Unlock()
}
