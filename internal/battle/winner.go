package battle

// Resolution is the result of a winner check.
type Resolution struct {
	WinnerID string
	Finished bool
}

// Resolve applies the mode-specific winner rule.
//
// fastest: the correct answer with the minimum recorded timeMs wins, across
// all participants and questions. Answers tied on timeMs resolve to the one
// encountered first in stable order (participant join order, then answer
// submission order) — an explicit rule, not an iteration accident. Once any
// correct answer exists the battle is finished, and finished never reverts.
//
// points: the participant with the strictly highest score wins; a tie for the
// maximum leaves the winner unset. Points-mode battles end externally, so
// finished is passed through unchanged.
func Resolve(b *Battle) Resolution {
	if b.Mode == ModePoints {
		return resolvePoints(b)
	}
	return resolveFastest(b)
}

func resolveFastest(b *Battle) Resolution {
	res := Resolution{Finished: b.Finished}

	var bestTime int64
	found := false
	for i := range b.Participants {
		p := &b.Participants[i]
		for _, a := range p.Answers {
			if !a.Correct {
				continue
			}
			// strict < keeps the first-recorded answer on exact ties
			if !found || a.TimeMs < bestTime {
				found = true
				bestTime = a.TimeMs
				res.WinnerID = p.ID
			}
		}
	}
	if found {
		res.Finished = true
	}
	return res
}

func resolvePoints(b *Battle) Resolution {
	res := Resolution{Finished: b.Finished}
	if len(b.Participants) == 0 {
		return res
	}

	max := b.Participants[0].Score
	for i := range b.Participants[1:] {
		if s := b.Participants[i+1].Score; s > max {
			max = s
		}
	}

	leaders := 0
	for i := range b.Participants {
		if b.Participants[i].Score == max {
			leaders++
			res.WinnerID = b.Participants[i].ID
		}
	}
	if leaders != 1 {
		res.WinnerID = ""
	}
	return res
}
