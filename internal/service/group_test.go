package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utakatalp/prode/internal/league"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	GetGroupFunc     func(groupID int64) (*league.Group, error)
	LoadTeamIDsFunc  func(groupID int64) ([]string, error)
	LoadFixturesFunc func(groupID int64) ([]*league.Fixture, error)
	LoadGuessesFunc  func(groupID int64, userID string) ([]league.Guess, error)
}

func (m *MockRepository) GetGroup(_ context.Context, groupID int64) (*league.Group, error) {
	if m.GetGroupFunc != nil {
		return m.GetGroupFunc(groupID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockRepository) LoadTeamIDs(_ context.Context, groupID int64) ([]string, error) {
	if m.LoadTeamIDsFunc != nil {
		return m.LoadTeamIDsFunc(groupID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockRepository) LoadFixtures(_ context.Context, groupID int64) ([]*league.Fixture, error) {
	if m.LoadFixturesFunc != nil {
		return m.LoadFixturesFunc(groupID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockRepository) LoadGuesses(_ context.Context, groupID int64, userID string) ([]league.Guess, error) {
	if m.LoadGuessesFunc != nil {
		return m.LoadGuessesFunc(groupID, userID)
	}
	return nil, errors.New("not implemented")
}

func result(hg, ag int) *league.Outcome {
	return &league.Outcome{HomeGoals: hg, AwayGoals: ag}
}

// team1 and team4 finish on 6 points; team4 won their meeting 2-1 but
// team1 has the better goal difference.
func newGroupRepo(headToHeadFirst bool) *MockRepository {
	return &MockRepository{
		GetGroupFunc: func(groupID int64) (*league.Group, error) {
			return &league.Group{ID: groupID, Name: "A", HeadToHeadFirst: headToHeadFirst}, nil
		},
		LoadTeamIDsFunc: func(int64) ([]string, error) {
			return []string{"team1", "team2", "team3", "team4"}, nil
		},
		LoadFixturesFunc: func(int64) ([]*league.Fixture, error) {
			return []*league.Fixture{
				{ID: 1, Home: "team1", Away: "team4", Result: result(1, 2)},
				{ID: 2, Home: "team1", Away: "team2", Result: result(3, 0)},
				{ID: 3, Home: "team1", Away: "team3", Result: result(2, 0)},
				{ID: 4, Home: "team4", Away: "team2", Result: result(1, 0)},
				{ID: 5, Home: "team3", Away: "team4", Result: result(3, 0)},
				{ID: 6, Home: "team2", Away: "team3", Result: result(0, 0)},
			}, nil
		},
		LoadGuessesFunc: func(_ int64, userID string) ([]league.Guess, error) {
			// team3 wins everything in the user's mind
			return []league.Guess{
				{MatchID: 3, UserID: userID, HomeGoals: 0, AwayGoals: 1},
				{MatchID: 5, UserID: userID, HomeGoals: 2, AwayGoals: 0},
				{MatchID: 6, UserID: userID, HomeGoals: 0, AwayGoals: 1},
				{MatchID: 1, UserID: userID, HomeGoals: 1, AwayGoals: 0},
			}, nil
		},
	}
}

func teamIDs(table []*league.TableEntry) []string {
	ids := make([]string, len(table))
	for i, e := range table {
		ids[i] = e.TeamID
	}
	return ids
}

func TestGroupService_Table(t *testing.T) {
	logger, _ := test.NewNullLogger()

	svc := NewGroupService(newGroupRepo(false), league.ScoringRules{}, logger)
	standings, err := svc.Table(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), standings.Group.ID)
	assert.Equal(t, []string{"team1", "team4", "team3", "team2"}, teamIDs(standings.Table))

	svc = NewGroupService(newGroupRepo(true), league.ScoringRules{}, logger)
	standings, err = svc.Table(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"team4", "team1", "team3", "team2"}, teamIDs(standings.Table))
}

func TestGroupService_GuessedTable(t *testing.T) {
	logger, _ := test.NewNullLogger()
	svc := NewGroupService(newGroupRepo(false), league.ScoringRules{}, logger)

	standings, err := svc.GuessedTable(context.Background(), 7, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", standings.UserID)
	assert.Equal(t, []string{"team3", "team1", "team2", "team4"}, teamIDs(standings.Table))
}

func TestGroupService_ResolvePosition(t *testing.T) {
	logger, _ := test.NewNullLogger()
	svc := NewGroupService(newGroupRepo(true), league.ScoringRules{}, logger)

	id, err := svc.ResolvePosition(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "team4", id)

	_, err = svc.ResolvePosition(context.Background(), 7, 5)
	assert.ErrorIs(t, err, league.ErrPositionOutOfRange)
}

func TestGroupService_Score(t *testing.T) {
	logger, _ := test.NewNullLogger()
	rules := league.ScoringRules{Qualifiers: 2, ExactPosition: 5, Qualified: 2}
	svc := NewGroupService(newGroupRepo(false), rules, logger)

	score, err := svc.Score(context.Background(), 7, "u1")
	require.NoError(t, err)
	// actual: team1, team4; guessed: team3, team1
	assert.Equal(t, 0, score.ExactPositions)
	assert.Equal(t, 1, score.CorrectQualifiers)
	assert.Equal(t, 2, score.Points)
}

func TestGroupService_ScoreWithoutGuesses(t *testing.T) {
	logger, _ := test.NewNullLogger()
	rules := league.ScoringRules{Qualifiers: 2, ExactPosition: 5, Qualified: 2}
	repo := newGroupRepo(false)
	repo.LoadGuessesFunc = func(int64, string) ([]league.Guess, error) { return nil, nil }
	svc := NewGroupService(repo, rules, logger)

	// seed order puts team1 first, as does the actual table
	score, err := svc.Score(context.Background(), 7, "lurker")
	require.NoError(t, err)
	assert.Zero(t, score.Points)
	assert.Zero(t, score.ExactPositions)
	assert.Equal(t, []string{"team1", "team4"}, score.Actual)
	assert.Empty(t, score.Guessed)
}

func TestGroupService_LogsForeignMatches(t *testing.T) {
	logger, hook := test.NewNullLogger()
	repo := newGroupRepo(false)
	repo.LoadFixturesFunc = func(int64) ([]*league.Fixture, error) {
		return []*league.Fixture{
			{ID: 1, Home: "team1", Away: "team9", Result: result(1, 0)},
		}, nil
	}
	svc := NewGroupService(repo, league.ScoringRules{}, logger)

	standings, err := svc.Table(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, standings.Table, 4)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "team1 1 - 0 team9", hook.LastEntry().Data["match"])
}

func TestGroupService_Errors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	notFound := errors.New("group not found")

	repo := newGroupRepo(false)
	repo.GetGroupFunc = func(int64) (*league.Group, error) { return nil, notFound }
	_, err := NewGroupService(repo, league.ScoringRules{}, logger).Table(context.Background(), 1)
	assert.ErrorIs(t, err, notFound)

	repo = newGroupRepo(false)
	repo.LoadFixturesFunc = func(int64) ([]*league.Fixture, error) {
		return []*league.Fixture{{ID: 1, Home: "team1", Away: "team2", Result: result(-1, 0)}}, nil
	}
	_, err = NewGroupService(repo, league.ScoringRules{}, logger).Table(context.Background(), 1)
	assert.ErrorIs(t, err, league.ErrInvalidMatchOutcome)

	repo = newGroupRepo(false)
	repo.LoadGuessesFunc = nil
	_, err = NewGroupService(repo, league.ScoringRules{}, logger).Score(context.Background(), 1, "u1")
	assert.Error(t, err)
}
