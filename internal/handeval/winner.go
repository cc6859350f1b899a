package handeval

import "pokeraudit/internal/cardset"

type candidate struct {
	pid   string
	score int64
}

// ResolveWinners implements the winner-resolution algorithm: find the
// maximum score across every scored permutation of every non-folded
// player, break ties using the players' hole cards, and de-duplicate by
// player identity so a player with several tied permutations appears
// once.
func ResolveWinners(hands map[string][]ScoredHand, privateByPID map[string][]cardset.Card) []string {
	var best int64
	first := true
	var candidates []candidate
	for pid, perms := range hands {
		for _, h := range perms {
			switch {
			case first || h.Score > best:
				best = h.Score
				first = false
				candidates = candidates[:0]
				candidates = append(candidates, candidate{pid, h.Score})
			case h.Score == best:
				candidates = append(candidates, candidate{pid, h.Score})
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if !allSamePID(candidates) {
		var tieBest int64
		tieFirst := true
		var tieCandidates []candidate
		for _, c := range candidates {
			priv := privateByPID[c.pid]
			if len(priv) < 2 {
				continue
			}
			hi, lo := priv[0].HighValue, priv[1].HighValue
			if lo > hi {
				hi, lo = lo, hi
			}
			tb := int64(hi)*10 + int64(lo)
			switch {
			case tieFirst || tb > tieBest:
				tieBest = tb
				tieFirst = false
				tieCandidates = tieCandidates[:0]
				tieCandidates = append(tieCandidates, candidate{c.pid, tb})
			case tb == tieBest:
				tieCandidates = append(tieCandidates, candidate{c.pid, tb})
			}
		}
		candidates = tieCandidates
	}

	seen := map[string]bool{}
	var winners []string
	for _, c := range candidates {
		if !seen[c.pid] {
			seen[c.pid] = true
			winners = append(winners, c.pid)
		}
	}
	return winners
}

func allSamePID(candidates []candidate) bool {
	if len(candidates) == 0 {
		return true
	}
	first := candidates[0].pid
	for _, c := range candidates[1:] {
		if c.pid != first {
			return false
		}
	}
	return true
}
