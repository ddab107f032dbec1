//go:build integration
// +build integration

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utakatalp/prode/internal/league"
)

// Integration tests against a real Postgres.
// Run with: PRODE_TEST_DSN=... go test -tags=integration ./...

func openTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	dsn := os.Getenv("PRODE_TEST_DSN")
	if dsn == "" {
		t.Skip("PRODE_TEST_DSN environment variable not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestIntegration_GroupRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	suffix := fmt.Sprint(time.Now().UnixNano())

	g := &league.Group{Name: "group-" + suffix, HeadToHeadFirst: true}
	require.NoError(t, s.CreateGroup(ctx, g))
	t.Cleanup(func() { s.DeleteGroup(ctx, g.ID) })

	teams := []*league.Team{
		{ID: "a-" + suffix, Name: "A"},
		{ID: "b-" + suffix, Name: "B"},
		{ID: "c-" + suffix, Name: "C"},
	}
	require.NoError(t, s.InsertTeams(ctx, g.ID, teams))

	ids, err := s.LoadTeamIDs(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{teams[0].ID, teams[1].ID, teams[2].ID}, ids)

	rounds := league.GenerateSchedule(ids)
	require.NoError(t, s.InitFixtures(ctx, g.ID, rounds))

	fixtures, err := s.LoadFixtures(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, fixtures, 3)
	for _, f := range fixtures {
		assert.Nil(t, f.Result)
	}

	require.NoError(t, s.RecordResult(ctx, fixtures[0].ID, league.Outcome{HomeGoals: 2, AwayGoals: 1}))
	require.NoError(t, s.SaveGuess(ctx, league.Guess{MatchID: fixtures[1].ID, UserID: "u1", HomeGoals: 0, AwayGoals: 0}))
	require.NoError(t, s.SaveGuess(ctx, league.Guess{MatchID: fixtures[1].ID, UserID: "u1", HomeGoals: 3, AwayGoals: 1}))

	fixtures, err = s.LoadFixtures(ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, fixtures[0].Result)
	assert.Equal(t, league.Outcome{HomeGoals: 2, AwayGoals: 1}, *fixtures[0].Result)

	guesses, err := s.LoadGuesses(ctx, g.ID, "u1")
	require.NoError(t, err)
	require.Len(t, guesses, 1)
	assert.Equal(t, 3, guesses[0].HomeGoals)

	got, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, got.HeadToHeadFirst)

	require.NoError(t, s.SetHeadToHeadFirst(ctx, g.ID, false))
	got, err = s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, got.HeadToHeadFirst)
}

func TestIntegration_GroupNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetGroup(context.Background(), -1)
	assert.True(t, errors.Is(err, ErrGroupNotFound))

	err = s.SetHeadToHeadFirst(context.Background(), -1, true)
	assert.True(t, errors.Is(err, ErrGroupNotFound))
}

func TestIntegration_SeedGroupsSharingTeamIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	suffix := fmt.Sprint(time.Now().UnixNano())
	shared := "arg-" + suffix

	seed := func(name string, other string) *league.Group {
		t.Helper()
		g := &league.Group{Name: name + "-" + suffix}
		teams := []*league.Team{{ID: shared, Name: "Argentina"}, {ID: other, Name: other}}
		rounds := league.GenerateSchedule([]string{shared, other})
		require.NoError(t, s.SeedGroup(ctx, g, teams, rounds))
		t.Cleanup(func() { s.DeleteGroup(ctx, g.ID) })
		return g
	}
	a := seed("A", "mex-"+suffix)
	b := seed("B", "pol-"+suffix)

	for _, g := range []*league.Group{a, b} {
		ids, err := s.LoadTeamIDs(ctx, g.ID)
		require.NoError(t, err)
		assert.Len(t, ids, 2)
		assert.Equal(t, shared, ids[0])

		fixtures, err := s.LoadFixtures(ctx, g.ID)
		require.NoError(t, err)
		assert.Len(t, fixtures, 1)
	}
}

func TestIntegration_SeedGroupRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	suffix := fmt.Sprint(time.Now().UnixNano())

	// the fixture references a team outside the group, so the insert fails
	g := &league.Group{Name: "broken-" + suffix}
	teams := []*league.Team{{ID: "a-" + suffix, Name: "A"}, {ID: "b-" + suffix, Name: "B"}}
	rounds := [][]*league.Fixture{{{Week: 1, Home: "a-" + suffix, Away: "zzz-" + suffix}}}
	require.Error(t, s.SeedGroup(ctx, g, teams, rounds))

	var n int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM groups WHERE name = $1`, g.Name).Scan(&n))
	assert.Zero(t, n)
}

func TestIntegration_MissingRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.RecordResult(ctx, -1, league.Outcome{HomeGoals: 1})
	assert.True(t, errors.Is(err, ErrMatchNotFound))

	err = s.DeleteGroup(ctx, -1)
	assert.True(t, errors.Is(err, ErrGroupNotFound))
}
