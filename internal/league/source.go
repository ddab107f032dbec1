package league

// Fixture is a scheduled match of a group with its confirmed result, if any.
type Fixture struct {
	ID      int64    `json:"id"`
	GroupID int64    `json:"group_id"`
	Week    int      `json:"week"`
	Home    string   `json:"home"`
	Away    string   `json:"away"`
	Result  *Outcome `json:"result,omitempty"`
}

// Guess is a user's predicted score for a fixture.
type Guess struct {
	MatchID   int64  `json:"match_id"`
	UserID    string `json:"user_id"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
}

// ResultMatches maps fixtures to engine matches using their confirmed results.
func ResultMatches(fixtures []*Fixture) []Match {
	matches := make([]Match, 0, len(fixtures))
	for _, f := range fixtures {
		m := Match{Home: f.Home, Away: f.Away}
		if f.Result != nil {
			res := *f.Result
			m.Outcome = &res
		}
		matches = append(matches, m)
	}
	return matches
}

// GuessMatches maps fixtures to engine matches using one user's guesses.
// Fixtures the user has not guessed carry no outcome, whatever their result.
func GuessMatches(fixtures []*Fixture, guesses []Guess) []Match {
	byMatch := make(map[int64]Guess, len(guesses))
	for _, g := range guesses {
		byMatch[g.MatchID] = g
	}

	matches := make([]Match, 0, len(fixtures))
	for _, f := range fixtures {
		m := Match{Home: f.Home, Away: f.Away}
		if g, ok := byMatch[f.ID]; ok {
			m.Outcome = &Outcome{HomeGoals: g.HomeGoals, AwayGoals: g.AwayGoals}
		}
		matches = append(matches, m)
	}
	return matches
}
