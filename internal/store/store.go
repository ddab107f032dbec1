package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/utakatalp/prode/internal/league"
)

var (
	// ErrGroupNotFound is returned when a group id has no row.
	ErrGroupNotFound = errors.New("group not found")
	// ErrMatchNotFound is returned when a match id has no row.
	ErrMatchNotFound = errors.New("match not found")
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store wraps a Postgres connection and provides methods to persist and retrieve prode data.
type Store struct {
	DB *sql.DB
}

// NewStore opens a Postgres connection using the given connection string.
func NewStore(ctx context.Context, connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// verify early
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS groups (
		    id                 SERIAL PRIMARY KEY,
		    name               TEXT    NOT NULL UNIQUE,
		    head_to_head_first BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS teams (
		    id       TEXT NOT NULL,
		    group_id INT  NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		    name     TEXT NOT NULL,
		    seed     INT  NOT NULL,
		    PRIMARY KEY (group_id, id)
		);`,
		`CREATE TABLE IF NOT EXISTS matches (
		    id         SERIAL PRIMARY KEY,
		    group_id   INT  NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		    week       INT  NOT NULL,
		    home_team  TEXT NOT NULL,
		    away_team  TEXT NOT NULL,
		    home_goals INT CHECK (home_goals >= 0),
		    away_goals INT CHECK (away_goals >= 0),
		    FOREIGN KEY (group_id, home_team) REFERENCES teams(group_id, id) ON DELETE CASCADE,
		    FOREIGN KEY (group_id, away_team) REFERENCES teams(group_id, id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS guesses (
		    match_id   INT  NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		    user_id    TEXT NOT NULL,
		    home_goals INT  NOT NULL CHECK (home_goals >= 0),
		    away_goals INT  NOT NULL CHECK (away_goals >= 0),
		    PRIMARY KEY (match_id, user_id)
		);`,
	}
	for _, q := range queries {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// SeedGroup creates a group with its teams and schedule in one transaction.
// Team order becomes the group's seed order, which is the last tiebreak.
func (s *Store) SeedGroup(ctx context.Context, g *league.Group, teams []*league.Team, rounds [][]*league.Fixture) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin SeedGroup tx: %w", err)
	}
	defer tx.Rollback()

	if err := createGroup(ctx, tx, g); err != nil {
		return err
	}
	if err := insertTeams(ctx, tx, g.ID, teams); err != nil {
		return err
	}
	if err := initFixtures(ctx, tx, g.ID, rounds); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit SeedGroup tx: %w", err)
	}
	return nil
}

// CreateGroup inserts a group and sets its ID.
func (s *Store) CreateGroup(ctx context.Context, g *league.Group) error {
	return createGroup(ctx, s.DB, g)
}

func createGroup(ctx context.Context, db execer, g *league.Group) error {
	const q = `
INSERT INTO groups (name, head_to_head_first)
VALUES ($1, $2)
RETURNING id
`
	if err := db.QueryRowContext(ctx, q, g.Name, g.HeadToHeadFirst).Scan(&g.ID); err != nil {
		return fmt.Errorf("creating group %q: %w", g.Name, err)
	}
	return nil
}

// SetHeadToHeadFirst changes the tiebreak setting of a group.
func (s *Store) SetHeadToHeadFirst(ctx context.Context, groupID int64, enabled bool) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE groups SET head_to_head_first = $1 WHERE id = $2`,
		enabled, groupID,
	)
	if err != nil {
		return fmt.Errorf("updating group %d: %w", groupID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating group %d: %w", groupID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrGroupNotFound, groupID)
	}
	return nil
}

// GetGroup loads a group by id.
func (s *Store) GetGroup(ctx context.Context, groupID int64) (*league.Group, error) {
	g := &league.Group{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, name, head_to_head_first FROM groups WHERE id = $1`,
		groupID,
	).Scan(&g.ID, &g.Name, &g.HeadToHeadFirst)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrGroupNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying group %d: %w", groupID, err)
	}
	return g, nil
}

// InsertTeams adds teams to a group. Their order becomes the group's seed
// order, which is the last tiebreak.
func (s *Store) InsertTeams(ctx context.Context, groupID int64, teams []*league.Team) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin InsertTeams tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertTeams(ctx, tx, groupID, teams); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit InsertTeams tx: %w", err)
	}
	return nil
}

func insertTeams(ctx context.Context, db execer, groupID int64, teams []*league.Team) error {
	const q = `
    INSERT INTO teams (id, group_id, name, seed)
    VALUES ($1, $2, $3, $4)
    `
	for i, t := range teams {
		if _, err := db.ExecContext(ctx, q, t.ID, groupID, t.Name, i); err != nil {
			return fmt.Errorf("inserting team %s (%s): %w", t.ID, t.Name, err)
		}
	}
	return nil
}

// LoadTeamIDs returns the ids of a group's teams in seed order.
func (s *Store) LoadTeamIDs(ctx context.Context, groupID int64) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id FROM teams WHERE group_id = $1 ORDER BY seed, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams rows: %w", err)
	}
	return ids, nil
}

// InitFixtures persists a whole schedule for a group.
func (s *Store) InitFixtures(ctx context.Context, groupID int64, rounds [][]*league.Fixture) error {
	return initFixtures(ctx, s.DB, groupID, rounds)
}

func initFixtures(ctx context.Context, db execer, groupID int64, rounds [][]*league.Fixture) error {
	for _, round := range rounds {
		for _, f := range round {
			f.GroupID = groupID
			if err := saveFixture(ctx, db, f); err != nil {
				return fmt.Errorf("saving schedule: %w", err)
			}
		}
	}
	return nil
}

// SaveFixture inserts a fixture, with its result if it has one, and sets its ID.
func (s *Store) SaveFixture(ctx context.Context, f *league.Fixture) error {
	return saveFixture(ctx, s.DB, f)
}

func saveFixture(ctx context.Context, db execer, f *league.Fixture) error {
	const query = `
INSERT INTO matches (group_id, week, home_team, away_team, home_goals, away_goals)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`
	var hg, ag sql.NullInt64
	if f.Result != nil {
		hg = sql.NullInt64{Int64: int64(f.Result.HomeGoals), Valid: true}
		ag = sql.NullInt64{Int64: int64(f.Result.AwayGoals), Valid: true}
	}
	err := db.QueryRowContext(ctx, query, f.GroupID, f.Week, f.Home, f.Away, hg, ag).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("saving match %s vs %s: %w", f.Home, f.Away, err)
	}
	return nil
}

// RecordResult sets the confirmed score of a match.
func (s *Store) RecordResult(ctx context.Context, matchID int64, result league.Outcome) error {
	const query = `UPDATE matches SET home_goals = $1, away_goals = $2 WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, result.HomeGoals, result.AwayGoals, matchID)
	if err != nil {
		return fmt.Errorf("recording result of match %d: %w", matchID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("recording result of match %d: %w", matchID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
	}
	return nil
}

// LoadFixtures fetches every match of a group, played or not.
func (s *Store) LoadFixtures(ctx context.Context, groupID int64) ([]*league.Fixture, error) {
	query := `
SELECT id, week, home_team, away_team, home_goals, away_goals
FROM matches
WHERE group_id = $1
ORDER BY week, id;
`
	rows, err := s.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var fixtures []*league.Fixture
	for rows.Next() {
		f := &league.Fixture{GroupID: groupID}
		var hg, ag sql.NullInt64
		if err := rows.Scan(&f.ID, &f.Week, &f.Home, &f.Away, &hg, &ag); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		if hg.Valid && ag.Valid {
			f.Result = &league.Outcome{HomeGoals: int(hg.Int64), AwayGoals: int(ag.Int64)}
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}

// SaveGuess stores or replaces a user's predicted score for a match.
func (s *Store) SaveGuess(ctx context.Context, g league.Guess) error {
	const query = `
INSERT INTO guesses (match_id, user_id, home_goals, away_goals)
VALUES ($1, $2, $3, $4)
ON CONFLICT (match_id, user_id)
DO UPDATE SET home_goals = EXCLUDED.home_goals, away_goals = EXCLUDED.away_goals
`
	if _, err := s.DB.ExecContext(ctx, query, g.MatchID, g.UserID, g.HomeGoals, g.AwayGoals); err != nil {
		return fmt.Errorf("saving guess of %s for match %d: %w", g.UserID, g.MatchID, err)
	}
	return nil
}

// LoadGuesses fetches one user's guesses for the matches of a group.
func (s *Store) LoadGuesses(ctx context.Context, groupID int64, userID string) ([]league.Guess, error) {
	query := `
SELECT g.match_id, g.home_goals, g.away_goals
FROM guesses g
JOIN matches m ON m.id = g.match_id
WHERE m.group_id = $1 AND g.user_id = $2
ORDER BY g.match_id;
`
	rows, err := s.DB.QueryContext(ctx, query, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying guesses: %w", err)
	}
	defer rows.Close()

	var guesses []league.Guess
	for rows.Next() {
		g := league.Guess{UserID: userID}
		if err := rows.Scan(&g.MatchID, &g.HomeGoals, &g.AwayGoals); err != nil {
			return nil, fmt.Errorf("scanning guess: %w", err)
		}
		guesses = append(guesses, g)
	}
	return guesses, rows.Err()
}

// DeleteGroup removes a group with its teams, matches and guesses.
func (s *Store) DeleteGroup(ctx context.Context, groupID int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("deleting group %d: %w", groupID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting group %d: %w", groupID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrGroupNotFound, groupID)
	}
	return nil
}
