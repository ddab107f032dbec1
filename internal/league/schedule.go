package league

// GenerateSchedule returns a round-robin schedule for the provided teams.
// It outputs a slice of rounds, each round being a slice of fixtures with
// Week set to the round number. Odd team counts get a bye each round.
func GenerateSchedule(teamIDs []string) [][]*Fixture {
	n := len(teamIDs)
	if n < 2 {
		return nil
	}

	// work on a copy; the rotation below reorders it
	teams := make([]string, n, n+1)
	copy(teams, teamIDs)
	if n%2 != 0 {
		teams = append(teams, "")
		n++
	}

	rounds := make([][]*Fixture, n-1)
	for i := 0; i < n-1; i++ {
		round := make([]*Fixture, 0, n/2)
		for j := 0; j < n/2; j++ {
			home := teams[j]
			away := teams[n-1-j]
			if home != "" && away != "" {
				round = append(round, &Fixture{Home: home, Away: away, Week: i + 1})
			}
		}
		rounds[i] = round

		// rotate everyone except the first team
		last := teams[n-1]
		copy(teams[2:], teams[1:n-1])
		teams[1] = last
	}
	return rounds
}

// GenerateFullSeason returns a double round robin: the single schedule
// followed by the same rounds with home and away swapped.
func GenerateFullSeason(teamIDs []string) [][]*Fixture {
	firstHalf := GenerateSchedule(teamIDs)
	secondHalf := make([][]*Fixture, len(firstHalf))
	for i, rnd := range firstHalf {
		swapped := make([]*Fixture, len(rnd))
		for j, f := range rnd {
			swapped[j] = &Fixture{Home: f.Away, Away: f.Home, Week: i + 1 + len(firstHalf)}
		}
		secondHalf[i] = swapped
	}
	return append(firstHalf, secondHalf...)
}
