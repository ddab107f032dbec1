package league

import "fmt"

// Position returns the team at the 1-based position of a computed table.
func Position(table []*TableEntry, position int) (string, error) {
	if position < 1 || position > len(table) {
		return "", fmt.Errorf("%w: %d of %d", ErrPositionOutOfRange, position, len(table))
	}
	return table[position-1].TeamID, nil
}

// Qualifiers returns the ids of the top n teams. n larger than the table
// returns every team.
func Qualifiers(table []*TableEntry, n int) []string {
	n = min(max(n, 0), len(table))
	ids := make([]string, 0, n)
	for _, e := range table[:n] {
		ids = append(ids, e.TeamID)
	}
	return ids
}

// ScoringRules awards points for a guessed group order.
type ScoringRules struct {
	// Qualifiers is the number of positions that advance from the group.
	Qualifiers    int `json:"qualifiers" mapstructure:"qualifiers"`
	ExactPosition int `json:"exact_position" mapstructure:"exact_position"`
	Qualified     int `json:"qualified" mapstructure:"qualified"`
}

// GroupScore is the outcome of comparing a guessed table with the actual one.
type GroupScore struct {
	ExactPositions    int      `json:"exact_positions"`
	CorrectQualifiers int      `json:"correct_qualifiers"`
	Points            int      `json:"points"`
	Actual            []string `json:"actual"`
	Guessed           []string `json:"guessed"`
}

// ScoreGroup compares the qualifying positions of a guessed table against
// the actual one. A guessed qualifier in its actual position earns
// ExactPosition, one that qualifies in another position earns Qualified.
// A guessed table built from no guessed matches scores nothing: its order
// is only the seed order.
func ScoreGroup(actual, guessed []*TableEntry, rules ScoringRules) GroupScore {
	score := GroupScore{Actual: Qualifiers(actual, rules.Qualifiers)}
	if !anyPlayed(guessed) {
		return score
	}
	score.Guessed = Qualifiers(guessed, rules.Qualifiers)

	qualified := make(map[string]bool, len(score.Actual))
	for _, id := range score.Actual {
		qualified[id] = true
	}

	for i, id := range score.Guessed {
		switch {
		case i < len(score.Actual) && score.Actual[i] == id:
			score.ExactPositions++
			score.Points += rules.ExactPosition
		case qualified[id]:
			score.CorrectQualifiers++
			score.Points += rules.Qualified
		}
	}
	return score
}

func anyPlayed(table []*TableEntry) bool {
	for _, e := range table {
		if e.Played > 0 {
			return true
		}
	}
	return false
}
