/*
Package sqlite provides the SQLite-backed persistence layer.

PURPOSE:
  Implements every store interface of the reporting engine (entries,
  contributors, users, close periods, on-call windows) over a single
  SQLite database. The same SQL patterns port to PostgreSQL with only
  dialect changes.

INTERFACES IMPLEMENTED (via views):
  Users()        report.UserStore
  Contributors() report.ContributorStore
  Entries()      report.EntryStore
  Closings()     closing.Store
  Windows()      oncall.ConfigStore

KEY TABLES:
  users:          report users
  tasks:          tasks hours are logged against
  contributors:   task-contributor relations with an active flag
  time_entries:   one row per contributor per day, decimal hours as TEXT
  close_periods:  one row per closed (user, month)
  oncall_windows: per-project, per-weekday time windows

MONTH-GRANULARITY LOOKUPS:
  Close-period lookups compare strftime('%Y-%m', date), so any stored day
  within a month matches that month. A unique index on the same expression
  enforces at most one record per (user, month).

WAL MODE:
  The database is opened with WAL so readers do not block each other;
  close/open mutations rely on SQLite's transaction isolation.

USAGE:
  store, err := sqlite.New("./data/reports.db")   // ":memory:" for tests
  defer store.Close()

SEE ALSO:
  - report/store.go, closing/manager.go, oncall/oncall.go: interfaces
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/clockwise/reporting-engine/calendar"
	"github.com/clockwise/reporting-engine/closing"
	"github.com/clockwise/reporting-engine/oncall"
	"github.com/clockwise/reporting-engine/report"
)

// Store implements all persistence interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		project_id INTEGER,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contributors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		task_id INTEGER NOT NULL REFERENCES tasks(id),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contributors_user
		ON contributors(user_id, active);
	CREATE INDEX IF NOT EXISTS idx_contributors_task
		ON contributors(task_id, active);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_contributors_unique
		ON contributors(user_id, task_id);

	-- One entry per contributor per day; hours kept as decimal text.
	CREATE TABLE IF NOT EXISTS time_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contributor_id INTEGER NOT NULL REFERENCES contributors(id),
		user_id INTEGER NOT NULL REFERENCES users(id),
		date TEXT NOT NULL,
		hours TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_contributor_date
		ON time_entries(contributor_id, date);
	CREATE INDEX IF NOT EXISTS idx_entries_user_date
		ON time_entries(user_id, date);

	-- One close record per (user, month); comparison is by year+month.
	CREATE TABLE IF NOT EXISTS close_periods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_close_periods_user_month
		ON close_periods(user_id, strftime('%Y-%m', date));

	CREATE TABLE IF NOT EXISTS oncall_windows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		weekday INTEGER NOT NULL,
		start_time TEXT,
		end_time TEXT,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_oncall_project_weekday
		ON oncall_windows(project_id, weekday);
	`

	_, err := s.db.Exec(schema)
	return err
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// =============================================================================
// USERS (report.UserStore via Users())
// =============================================================================

func (s *Store) Users() *UserStore { return &UserStore{s} }

type UserStore struct{ s *Store }

// SaveUser inserts or updates a user and returns its ID.
func (s *Store) SaveUser(ctx context.Context, u report.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID != 0 {
		_, err := s.db.ExecContext(ctx,
			"UPDATE users SET name = ? WHERE id = ?", u.Name, u.ID)
		return u.ID, err
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (name, created_at) VALUES (?, ?)", u.Name, now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (us *UserStore) Find(ctx context.Context, id int64) (*report.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	var u report.User
	err := us.s.db.QueryRowContext(ctx,
		"SELECT id, name FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (us *UserStore) List(ctx context.Context) ([]report.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	rows, err := us.s.db.QueryContext(ctx, "SELECT id, name FROM users ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []report.User
	for rows.Next() {
		var u report.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// =============================================================================
// TASKS
// =============================================================================

// SaveTask inserts or updates a task and returns its ID.
func (s *Store) SaveTask(ctx context.Context, t report.Task) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID != 0 {
		_, err := s.db.ExecContext(ctx,
			"UPDATE tasks SET name = ? WHERE id = ?", t.Name, t.ID)
		return t.ID, err
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (name, created_at) VALUES (?, ?)", t.Name, now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// =============================================================================
// CONTRIBUTORS (report.ContributorStore via Contributors())
// =============================================================================

func (s *Store) Contributors() *ContributorStore { return &ContributorStore{s} }

type ContributorStore struct{ s *Store }

// SaveContributor inserts or updates a relation and returns its ID.
func (s *Store) SaveContributor(ctx context.Context, c report.Contributor) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID != 0 {
		_, err := s.db.ExecContext(ctx,
			"UPDATE contributors SET active = ? WHERE id = ?", c.Active, c.ID)
		return c.ID, err
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO contributors (user_id, task_id, active, created_at) VALUES (?, ?, ?, ?)",
		c.UserID, c.Task.ID, c.Active, now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const contributorSelect = `
	SELECT c.id, c.user_id, c.active, t.id, t.name
	FROM contributors c
	JOIN tasks t ON t.id = c.task_id
`

func (cs *ContributorStore) Find(ctx context.Context, id int64) (*report.Contributor, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	var c report.Contributor
	err := cs.s.db.QueryRowContext(ctx, contributorSelect+" WHERE c.id = ?", id).
		Scan(&c.ID, &c.UserID, &c.Active, &c.Task.ID, &c.Task.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (cs *ContributorStore) ListActiveByUser(ctx context.Context, userID int64) ([]report.Contributor, error) {
	return cs.list(ctx, contributorSelect+" WHERE c.user_id = ? AND c.active ORDER BY c.id", userID)
}

func (cs *ContributorStore) ListActiveByTask(ctx context.Context, taskID int64) ([]report.Contributor, error) {
	return cs.list(ctx, contributorSelect+" WHERE c.task_id = ? AND c.active ORDER BY c.id", taskID)
}

func (cs *ContributorStore) list(ctx context.Context, query string, args ...any) ([]report.Contributor, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	rows, err := cs.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributors: %w", err)
	}
	defer rows.Close()

	var contributors []report.Contributor
	for rows.Next() {
		var c report.Contributor
		if err := rows.Scan(&c.ID, &c.UserID, &c.Active, &c.Task.ID, &c.Task.Name); err != nil {
			return nil, err
		}
		contributors = append(contributors, c)
	}
	return contributors, rows.Err()
}

// =============================================================================
// TIME ENTRIES (report.EntryStore via Entries())
// =============================================================================

func (s *Store) Entries() *EntryStore { return &EntryStore{s} }

type EntryStore struct{ s *Store }

const entrySelect = `
	SELECT id, contributor_id, user_id, date, hours
	FROM time_entries
`

func (es *EntryStore) Find(ctx context.Context, id int64) (*report.EntryRow, error) {
	es.s.mu.RLock()
	defer es.s.mu.RUnlock()

	row := es.s.db.QueryRowContext(ctx, entrySelect+" WHERE id = ?", id)
	entry, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (es *EntryStore) FindByContributor(ctx context.Context, contributorID int64, date calendar.Date) (*report.EntryRow, error) {
	es.s.mu.RLock()
	defer es.s.mu.RUnlock()

	row := es.s.db.QueryRowContext(ctx,
		entrySelect+" WHERE contributor_id = ? AND date = ?",
		contributorID, date.String())
	entry, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (es *EntryStore) ListByUser(ctx context.Context, userID int64, from, to calendar.Date) ([]report.EntryRow, error) {
	return es.list(ctx,
		entrySelect+" WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date, id",
		userID, from.String(), to.String())
}

func (es *EntryStore) ListByTask(ctx context.Context, taskID int64, from, to calendar.Date) ([]report.EntryRow, error) {
	query := `
		SELECT e.id, e.contributor_id, e.user_id, e.date, e.hours
		FROM time_entries e
		JOIN contributors c ON c.id = e.contributor_id
		WHERE c.task_id = ? AND e.date >= ? AND e.date <= ?
		ORDER BY e.date, e.id
	`
	return es.list(ctx, query, taskID, from.String(), to.String())
}

func (es *EntryStore) list(ctx context.Context, query string, args ...any) ([]report.EntryRow, error) {
	es.s.mu.RLock()
	defer es.s.mu.RUnlock()

	rows, err := es.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []report.EntryRow
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(scan func(...any) error) (report.EntryRow, error) {
	var (
		entry    report.EntryRow
		dateStr  string
		hoursStr string
	)
	if err := scan(&entry.ID, &entry.ContributorID, &entry.UserID, &dateStr, &hoursStr); err != nil {
		return entry, err
	}

	date, err := calendar.ParseDate(dateStr)
	if err != nil {
		return entry, fmt.Errorf("failed to parse entry date %q: %w", dateStr, err)
	}
	hours, err := decimal.NewFromString(hoursStr)
	if err != nil {
		return entry, fmt.Errorf("failed to parse entry hours %q: %w", hoursStr, err)
	}
	entry.Date = date
	entry.Hours = hours
	return entry, nil
}

func (es *EntryStore) Create(ctx context.Context, row report.EntryRow) (int64, error) {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()

	res, err := es.s.db.ExecContext(ctx,
		`INSERT INTO time_entries (contributor_id, user_id, date, hours, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		row.ContributorID, row.UserID, row.Date.String(), row.Hours.String(), now(), now())
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, fmt.Errorf("entry already exists for contributor %d on %s: %w",
				row.ContributorID, row.Date, err)
		}
		return 0, fmt.Errorf("failed to create entry: %w", err)
	}
	return res.LastInsertId()
}

func (es *EntryStore) Update(ctx context.Context, row report.EntryRow) error {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()

	_, err := es.s.db.ExecContext(ctx,
		"UPDATE time_entries SET hours = ?, updated_at = ? WHERE id = ?",
		row.Hours.String(), now(), row.ID)
	return err
}

func (es *EntryStore) Delete(ctx context.Context, id int64) error {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()

	_, err := es.s.db.ExecContext(ctx, "DELETE FROM time_entries WHERE id = ?", id)
	return err
}

// =============================================================================
// CLOSE PERIODS (closing.Store via Closings())
// =============================================================================

func (s *Store) Closings() *ClosingStore { return &ClosingStore{s} }

type ClosingStore struct{ s *Store }

func (cs *ClosingStore) Find(ctx context.Context, userID int64, date calendar.Date) (*closing.ClosePeriod, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	// Month-granularity match: any stored day in the month counts.
	var (
		rec     closing.ClosePeriod
		dateStr string
	)
	err := cs.s.db.QueryRowContext(ctx,
		`SELECT id, user_id, date FROM close_periods
		 WHERE user_id = ? AND strftime('%Y-%m', date) = ?`,
		userID, date.Time.Format("2006-01"),
	).Scan(&rec.ID, &rec.UserID, &dateStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.Date, err = calendar.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse close date %q: %w", dateStr, err)
	}
	return &rec, nil
}

func (cs *ClosingStore) ListByUser(ctx context.Context, userID int64) ([]closing.ClosePeriod, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	rows, err := cs.s.db.QueryContext(ctx,
		"SELECT id, user_id, date FROM close_periods WHERE user_id = ? ORDER BY date",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query close periods: %w", err)
	}
	defer rows.Close()

	var records []closing.ClosePeriod
	for rows.Next() {
		var (
			rec     closing.ClosePeriod
			dateStr string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &dateStr); err != nil {
			return nil, err
		}
		rec.Date, err = calendar.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse close date %q: %w", dateStr, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (cs *ClosingStore) Create(ctx context.Context, rec closing.ClosePeriod) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	_, err := cs.s.db.ExecContext(ctx,
		"INSERT INTO close_periods (user_id, date, created_at) VALUES (?, ?, ?)",
		rec.UserID, rec.Date.String(), now())
	if err != nil && isUniqueConstraintError(err) {
		// The month is already closed; close is idempotent.
		return nil
	}
	return err
}

func (cs *ClosingStore) Delete(ctx context.Context, id int64) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	_, err := cs.s.db.ExecContext(ctx, "DELETE FROM close_periods WHERE id = ?", id)
	return err
}

// =============================================================================
// ON-CALL WINDOWS (oncall.ConfigStore via Windows())
// =============================================================================

func (s *Store) Windows() *WindowStore { return &WindowStore{s} }

type WindowStore struct{ s *Store }

// SaveWindow inserts or replaces a window for (project, weekday).
func (s *Store) SaveWindow(ctx context.Context, w oncall.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO oncall_windows (project_id, weekday, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id, weekday) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time
	`
	_, err := s.db.ExecContext(ctx, query,
		w.ProjectID, int(w.Weekday), timeOfDayString(w.Start), timeOfDayString(w.End), now())
	return err
}

func (ws *WindowStore) Find(ctx context.Context, projectID int64, weekday time.Weekday) (*oncall.Window, error) {
	ws.s.mu.RLock()
	defer ws.s.mu.RUnlock()

	row := ws.s.db.QueryRowContext(ctx,
		`SELECT id, project_id, weekday, start_time, end_time
		 FROM oncall_windows WHERE project_id = ? AND weekday = ?`,
		projectID, int(weekday))
	w, err := scanWindow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (ws *WindowStore) ListByProject(ctx context.Context, projectID int64) ([]oncall.Window, error) {
	ws.s.mu.RLock()
	defer ws.s.mu.RUnlock()

	rows, err := ws.s.db.QueryContext(ctx,
		`SELECT id, project_id, weekday, start_time, end_time
		 FROM oncall_windows WHERE project_id = ? ORDER BY weekday`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query windows: %w", err)
	}
	defer rows.Close()

	var windows []oncall.Window
	for rows.Next() {
		w, err := scanWindow(rows.Scan)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

func scanWindow(scan func(...any) error) (oncall.Window, error) {
	var (
		w          oncall.Window
		weekday    int
		start, end sql.NullString
	)
	if err := scan(&w.ID, &w.ProjectID, &weekday, &start, &end); err != nil {
		return w, err
	}
	w.Weekday = time.Weekday(weekday)

	var err error
	if w.Start, err = parseTimeOfDay(start); err != nil {
		return w, err
	}
	if w.End, err = parseTimeOfDay(end); err != nil {
		return w, err
	}
	return w, nil
}

func parseTimeOfDay(v sql.NullString) (*calendar.TimeOfDay, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := calendar.ParseTimeOfDay(v.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse window time %q: %w", v.String, err)
	}
	return &t, nil
}

func timeOfDayString(t *calendar.TimeOfDay) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.String(), Valid: true}
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"time_entries", "close_periods", "oncall_windows", "contributors", "tasks", "users"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
