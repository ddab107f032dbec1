package league

import "errors"

// Standard football scoring. Swap these to run a different convention;
// the tiebreak cascade only compares the resulting totals.
const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

var (
	// ErrInvalidMatchOutcome is returned when a match carries a negative goal count.
	ErrInvalidMatchOutcome = errors.New("invalid match outcome")
	// ErrDuplicateTeam is returned when a team id is passed more than once.
	ErrDuplicateTeam = errors.New("duplicate team id")
	// ErrPositionOutOfRange is returned when a table position does not exist.
	ErrPositionOutOfRange = errors.New("position out of range")
)

// Team represents a national side or club taking part in a group.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Group is a round-robin group and its tiebreak setting.
type Group struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	HeadToHeadFirst bool   `json:"head_to_head_first"`
}

// Outcome is the final score of a played (or predicted) match.
type Outcome struct {
	HomeGoals int `json:"home_goals"`
	AwayGoals int `json:"away_goals"`
}

// Match is the engine's view of a fixture. A nil Outcome means the match
// has not been played or predicted.
type Match struct {
	Home    string   `json:"home"`
	Away    string   `json:"away"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

// TableEntry holds the standings info for one team.
type TableEntry struct {
	TeamID       string `json:"team_id"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	GoalDiff     int    `json:"goal_difference"`
	Points       int    `json:"points"`
}
