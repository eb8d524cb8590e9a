// Package memory provides in-memory store implementations (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/clockwise/reporting-engine/calendar"
	"github.com/clockwise/reporting-engine/closing"
	"github.com/clockwise/reporting-engine/oncall"
	"github.com/clockwise/reporting-engine/report"
)

// Store implements every persistence interface of the engine in memory.
// Guarded by a single RWMutex; fine for tests and dev servers.
type Store struct {
	mu sync.RWMutex

	nextID       int64
	users        map[int64]report.User
	userOrder    []int64
	contributors map[int64]report.Contributor
	contribOrder []int64
	entries      map[int64]report.EntryRow
	closings     map[int64]closing.ClosePeriod
	windows      map[int64]oncall.Window
}

func New() *Store {
	return &Store{
		nextID:       1,
		users:        make(map[int64]report.User),
		contributors: make(map[int64]report.Contributor),
		entries:      make(map[int64]report.EntryRow),
		closings:     make(map[int64]closing.ClosePeriod),
		windows:      make(map[int64]oncall.Window),
	}
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// =============================================================================
// USERS (report.UserStore)
// =============================================================================

// Views keep the identically-named Find methods of the per-entity store
// interfaces apart; one view per interface.
func (s *Store) Users() *UserView { return &UserView{s} }

type UserView struct{ s *Store }

func (s *Store) AddUser(u report.User) report.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.allocID()
	}
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)
	return u
}

func (v *UserView) Find(ctx context.Context, id int64) (*report.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if u, ok := v.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (v *UserView) List(ctx context.Context) ([]report.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	users := make([]report.User, 0, len(v.s.userOrder))
	for _, id := range v.s.userOrder {
		users = append(users, v.s.users[id])
	}
	return users, nil
}

// =============================================================================
// CONTRIBUTORS (report.ContributorStore)
// =============================================================================

func (s *Store) Contributors() *ContributorView { return &ContributorView{s} }

type ContributorView struct{ s *Store }

func (s *Store) AddContributor(c report.Contributor) report.Contributor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.allocID()
	}
	s.contributors[c.ID] = c
	s.contribOrder = append(s.contribOrder, c.ID)
	return c
}

func (v *ContributorView) Find(ctx context.Context, id int64) (*report.Contributor, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if c, ok := v.s.contributors[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (v *ContributorView) ListActiveByUser(ctx context.Context, userID int64) ([]report.Contributor, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []report.Contributor
	for _, id := range v.s.contribOrder {
		c := v.s.contributors[id]
		if c.UserID == userID && c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (v *ContributorView) ListActiveByTask(ctx context.Context, taskID int64) ([]report.Contributor, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []report.Contributor
	for _, id := range v.s.contribOrder {
		c := v.s.contributors[id]
		if c.Task.ID == taskID && c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

// =============================================================================
// TIME ENTRIES (report.EntryStore)
// =============================================================================

func (s *Store) Entries() *EntryView { return &EntryView{s} }

type EntryView struct{ s *Store }

func (v *EntryView) Find(ctx context.Context, id int64) (*report.EntryRow, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if row, ok := v.s.entries[id]; ok {
		return &row, nil
	}
	return nil, nil
}

func (v *EntryView) FindByContributor(ctx context.Context, contributorID int64, date calendar.Date) (*report.EntryRow, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, row := range v.s.entries {
		if row.ContributorID == contributorID && row.Date.Equal(date) {
			r := row
			return &r, nil
		}
	}
	return nil, nil
}

func (v *EntryView) ListByUser(ctx context.Context, userID int64, from, to calendar.Date) ([]report.EntryRow, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []report.EntryRow
	for _, row := range v.s.entries {
		if row.UserID == userID && from.BeforeOrEqual(row.Date) && row.Date.BeforeOrEqual(to) {
			out = append(out, row)
		}
	}
	sortRows(out)
	return out, nil
}

func (v *EntryView) ListByTask(ctx context.Context, taskID int64, from, to calendar.Date) ([]report.EntryRow, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []report.EntryRow
	for _, row := range v.s.entries {
		c, ok := v.s.contributors[row.ContributorID]
		if !ok || c.Task.ID != taskID {
			continue
		}
		if from.BeforeOrEqual(row.Date) && row.Date.BeforeOrEqual(to) {
			out = append(out, row)
		}
	}
	sortRows(out)
	return out, nil
}

func (v *EntryView) Create(ctx context.Context, row report.EntryRow) (int64, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	row.ID = v.s.allocID()
	v.s.entries[row.ID] = row
	return row.ID, nil
}

func (v *EntryView) Update(ctx context.Context, row report.EntryRow) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	existing, ok := v.s.entries[row.ID]
	if !ok {
		return nil
	}
	existing.Hours = row.Hours
	v.s.entries[row.ID] = existing
	return nil
}

func (v *EntryView) Delete(ctx context.Context, id int64) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	delete(v.s.entries, id)
	return nil
}

func sortRows(rows []report.EntryRow) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].ID < rows[j].ID
	})
}

// =============================================================================
// CLOSE PERIODS (closing.Store)
// =============================================================================

func (s *Store) Closings() *ClosingView { return &ClosingView{s} }

type ClosingView struct{ s *Store }

func (v *ClosingView) Find(ctx context.Context, userID int64, date calendar.Date) (*closing.ClosePeriod, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	month := closing.MonthOf(date)
	for _, rec := range v.s.closings {
		if rec.UserID == userID && rec.Month() == month {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (v *ClosingView) ListByUser(ctx context.Context, userID int64) ([]closing.ClosePeriod, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []closing.ClosePeriod
	for _, rec := range v.s.closings {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (v *ClosingView) Create(ctx context.Context, rec closing.ClosePeriod) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	// Uniqueness per (user, month): keep the existing record.
	for _, existing := range v.s.closings {
		if existing.UserID == rec.UserID && existing.Month() == rec.Month() {
			return nil
		}
	}
	rec.ID = v.s.allocID()
	v.s.closings[rec.ID] = rec
	return nil
}

func (v *ClosingView) Delete(ctx context.Context, id int64) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	delete(v.s.closings, id)
	return nil
}

// =============================================================================
// ON-CALL WINDOWS (oncall.ConfigStore)
// =============================================================================

func (s *Store) Windows() *WindowView { return &WindowView{s} }

type WindowView struct{ s *Store }

func (s *Store) AddWindow(w oncall.Window) oncall.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == 0 {
		w.ID = s.allocID()
	}
	s.windows[w.ID] = w
	return w
}

func (v *WindowView) Find(ctx context.Context, projectID int64, weekday time.Weekday) (*oncall.Window, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, w := range v.s.windows {
		if w.ProjectID == projectID && w.Weekday == weekday {
			win := w
			return &win, nil
		}
	}
	return nil, nil
}

func (v *WindowView) ListByProject(ctx context.Context, projectID int64) ([]oncall.Window, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []oncall.Window
	for _, w := range v.s.windows {
		if w.ProjectID == projectID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}
