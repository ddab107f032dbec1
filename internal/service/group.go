package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/utakatalp/prode/internal/league"
)

// Repository is the read side of the store the service needs.
type Repository interface {
	GetGroup(ctx context.Context, groupID int64) (*league.Group, error)
	LoadTeamIDs(ctx context.Context, groupID int64) ([]string, error)
	LoadFixtures(ctx context.Context, groupID int64) ([]*league.Fixture, error)
	LoadGuesses(ctx context.Context, groupID int64, userID string) ([]league.Guess, error)
}

// Standings is a computed group table, from results or from one user's guesses.
type Standings struct {
	Group  *league.Group        `json:"group"`
	UserID string               `json:"user_id,omitempty"`
	Table  []*league.TableEntry `json:"table"`
}

// GroupService computes tables, qualifiers and prediction scores for stored groups.
type GroupService struct {
	repo   Repository
	rules  league.ScoringRules
	logger *logrus.Logger
}

func NewGroupService(repo Repository, rules league.ScoringRules, logger *logrus.Logger) *GroupService {
	return &GroupService{repo: repo, rules: rules, logger: logger}
}

type groupData struct {
	group    *league.Group
	teamIDs  []string
	fixtures []*league.Fixture
}

func (s *GroupService) load(ctx context.Context, groupID int64) (*groupData, error) {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	teamIDs, err := s.repo.LoadTeamIDs(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("loading teams of group %d: %w", groupID, err)
	}
	fixtures, err := s.repo.LoadFixtures(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("loading matches of group %d: %w", groupID, err)
	}
	return &groupData{group: group, teamIDs: teamIDs, fixtures: fixtures}, nil
}

func (s *GroupService) calculate(d *groupData, matches []league.Match) ([]*league.TableEntry, error) {
	for _, m := range league.UnknownReferences(d.teamIDs, matches) {
		s.logger.WithFields(logrus.Fields{
			"group_id": d.group.ID,
			"match":    m.ScoreLine(),
		}).Warn("Ignoring match with a team outside the group")
	}

	table, err := league.CalculateTable(d.teamIDs, matches, d.group.HeadToHeadFirst)
	if err != nil {
		return nil, fmt.Errorf("calculating table of group %d: %w", d.group.ID, err)
	}
	return table, nil
}

// Table returns the group table from confirmed results.
func (s *GroupService) Table(ctx context.Context, groupID int64) (*Standings, error) {
	d, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	table, err := s.calculate(d, league.ResultMatches(d.fixtures))
	if err != nil {
		return nil, err
	}
	return &Standings{Group: d.group, Table: table}, nil
}

// GuessedTable returns the group table a user's guesses would produce.
func (s *GroupService) GuessedTable(ctx context.Context, groupID int64, userID string) (*Standings, error) {
	d, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	table, err := s.guessedTable(ctx, d, userID)
	if err != nil {
		return nil, err
	}
	return &Standings{Group: d.group, UserID: userID, Table: table}, nil
}

func (s *GroupService) guessedTable(ctx context.Context, d *groupData, userID string) ([]*league.TableEntry, error) {
	guesses, err := s.repo.LoadGuesses(ctx, d.group.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("loading guesses of %s: %w", userID, err)
	}
	return s.calculate(d, league.GuessMatches(d.fixtures, guesses))
}

// ResolvePosition returns the team currently at a 1-based position of a group.
func (s *GroupService) ResolvePosition(ctx context.Context, groupID int64, position int) (string, error) {
	standings, err := s.Table(ctx, groupID)
	if err != nil {
		return "", err
	}
	return league.Position(standings.Table, position)
}

// Score compares a user's guessed table with the actual one.
func (s *GroupService) Score(ctx context.Context, groupID int64, userID string) (*league.GroupScore, error) {
	d, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	actual, err := s.calculate(d, league.ResultMatches(d.fixtures))
	if err != nil {
		return nil, err
	}
	guessed, err := s.guessedTable(ctx, d, userID)
	if err != nil {
		return nil, err
	}

	score := league.ScoreGroup(actual, guessed, s.rules)
	s.logger.WithFields(logrus.Fields{
		"group_id": groupID,
		"user_id":  userID,
		"points":   score.Points,
	}).Debug("Scored group prediction")
	return &score, nil
}
