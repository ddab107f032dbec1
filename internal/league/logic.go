// internal/league/logic.go
package league

import (
	"fmt"
	"io"
	"sort"
)

func (m Match) ScoreLine() string {
	if m.Outcome == nil {
		return fmt.Sprintf("%s vs %s", m.Home, m.Away)
	}
	return fmt.Sprintf("%s %d - %d %s",
		m.Home, m.Outcome.HomeGoals,
		m.Outcome.AwayGoals, m.Away,
	)
}

// CalculateTable builds the group table for teamIDs from the given matches,
// best team first. The result always holds exactly one entry per team id.
//
// Teams level on points are separated by, in order: points and goal
// difference in the matches among themselves (only when headToHeadFirst is
// set), overall goal difference, overall goals scored and finally their
// position in teamIDs. Disciplinary points and drawing of lots are not
// modelled.
func CalculateTable(teamIDs []string, matches []Match, headToHeadFirst bool) ([]*TableEntry, error) {
	for _, m := range matches {
		if m.Outcome != nil && (m.Outcome.HomeGoals < 0 || m.Outcome.AwayGoals < 0) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMatchOutcome, m.ScoreLine())
		}
	}

	seed := make(map[string]int, len(teamIDs))
	for i, id := range teamIDs {
		if _, ok := seed[id]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, id)
		}
		seed[id] = i
	}

	t := &tiebreaker{seed: seed, matches: matches, headToHeadFirst: headToHeadFirst}
	entries := aggregate(teamIDs, matches)

	t.order(entries, points)
	for _, block := range partition(entries, tiedOn(points)) {
		if len(block) > 1 {
			t.resolve(block)
		}
	}
	return entries, nil
}

// UnknownReferences returns the matches CalculateTable ignores because one
// of their teams is not in teamIDs.
func UnknownReferences(teamIDs []string, matches []Match) []Match {
	known := make(map[string]bool, len(teamIDs))
	for _, id := range teamIDs {
		known[id] = true
	}
	var unknown []Match
	for _, m := range matches {
		if !known[m.Home] || !known[m.Away] {
			unknown = append(unknown, m)
		}
	}
	return unknown
}

// aggregate returns a fresh entry per team id, in input order, filled from
// the played matches between members of teamIDs.
func aggregate(teamIDs []string, matches []Match) []*TableEntry {
	entries := make([]*TableEntry, len(teamIDs))
	index := make(map[string]*TableEntry, len(teamIDs))
	for i, id := range teamIDs {
		entries[i] = &TableEntry{TeamID: id}
		index[id] = entries[i]
	}

	for _, m := range matches {
		home, away := index[m.Home], index[m.Away]
		if m.Outcome == nil || home == nil || away == nil || home == away {
			continue
		}
		hg, ag := m.Outcome.HomeGoals, m.Outcome.AwayGoals

		home.Played++
		away.Played++
		home.GoalsFor += hg
		home.GoalsAgainst += ag
		away.GoalsFor += ag
		away.GoalsAgainst += hg

		switch {
		case hg > ag:
			home.Wins++
			away.Losses++
			home.Points += PointsWin
			away.Points += PointsLoss
		case hg < ag:
			away.Wins++
			home.Losses++
			away.Points += PointsWin
			home.Points += PointsLoss
		default:
			home.Draws++
			away.Draws++
			home.Points += PointsDraw
			away.Points += PointsDraw
		}
	}

	for _, e := range entries {
		e.GoalDiff = e.GoalsFor - e.GoalsAgainst
	}
	return entries
}

// criterion extracts a ranking key; higher ranks first.
type criterion func(e *TableEntry) int

func points(e *TableEntry) int   { return e.Points }
func goalDiff(e *TableEntry) int { return e.GoalDiff }
func goalsFor(e *TableEntry) int { return e.GoalsFor }

func tiedOn(keys ...criterion) func(a, b *TableEntry) bool {
	return func(a, b *TableEntry) bool {
		for _, key := range keys {
			if key(a) != key(b) {
				return false
			}
		}
		return true
	}
}

// partition splits a sorted slice into maximal runs of tied entries. The
// runs share the backing array, so reordering a run reorders entries.
func partition(entries []*TableEntry, tied func(a, b *TableEntry) bool) [][]*TableEntry {
	var blocks [][]*TableEntry
	start := 0
	for i := 1; i <= len(entries); i++ {
		if i == len(entries) || !tied(entries[start], entries[i]) {
			blocks = append(blocks, entries[start:i])
			start = i
		}
	}
	return blocks
}

type tiebreaker struct {
	seed            map[string]int
	matches         []Match
	headToHeadFirst bool
}

// order sorts block by keys, leaving teams equal on every key in input order.
func (t *tiebreaker) order(block []*TableEntry, keys ...criterion) {
	sort.Slice(block, func(i, j int) bool {
		a, b := block[i], block[j]
		for _, key := range keys {
			if ka, kb := key(a), key(b); ka != kb {
				return ka > kb
			}
		}
		return t.seed[a.TeamID] < t.seed[b.TeamID]
	})
}

// resolve orders a block of teams level on points.
func (t *tiebreaker) resolve(block []*TableEntry) {
	if !t.headToHeadFirst {
		t.order(block, goalDiff, goalsFor)
		return
	}

	ids := make([]string, len(block))
	for i, e := range block {
		ids[i] = e.TeamID
	}
	mini := make(map[string]*TableEntry, len(block))
	for _, e := range aggregate(ids, t.matches) {
		mini[e.TeamID] = e
	}
	miniPoints := func(e *TableEntry) int { return mini[e.TeamID].Points }
	miniGoalDiff := func(e *TableEntry) int { return mini[e.TeamID].GoalDiff }

	t.order(block, miniPoints, miniGoalDiff)
	for _, sub := range partition(block, tiedOn(miniPoints, miniGoalDiff)) {
		if len(sub) > 1 {
			t.order(sub, goalDiff, goalsFor)
		}
	}
}

// WriteTable renders the table as fixed width text.
func WriteTable(w io.Writer, label string, table []*TableEntry) error {
	if _, err := fmt.Fprintln(w, label); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%3s %-10s %2s %2s %2s %2s %3s %3s %3s %3s\n",
		"#", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts"); err != nil {
		return err
	}
	for i, entry := range table {
		if _, err := fmt.Fprintf(w, "%3d %-10s %2d %2d %2d %2d %3d %3d %3d %3d\n",
			i+1,
			entry.TeamID,
			entry.Played,
			entry.Wins,
			entry.Draws,
			entry.Losses,
			entry.GoalsFor,
			entry.GoalsAgainst,
			entry.GoalDiff,
			entry.Points,
		); err != nil {
			return err
		}
	}
	return nil
}
