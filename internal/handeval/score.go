// Package handeval implements the deterministic 5-card hand scorer and
// winner resolution: every non-folded player's hole and community cards
// are enumerated into 5-card sub-hands, each scored to a single integer,
// and the maximum-scoring hands determine the winner set.
package handeval

import (
	"fmt"

	"pokeraudit/internal/cardset"
)

// ScoredHand is one 5-card sub-hand together with its deterministic
// integer score.
type ScoredHand struct {
	Cards    [5]cardset.Card
	Category Category
	Score    int64
}

// Score evaluates a single 5-card hand. The five cards are assumed
// distinct; the caller (EnumerateAndScore) guarantees this by construction.
func Score(cards [5]cardset.Card) ScoredHand {
	var ranks [5]uint8
	bySuit := map[cardset.Suit]int{}
	byRank := map[uint8][]cardset.Card{}
	for i, c := range cards {
		ranks[i] = c.Rank
		bySuit[c.Suit]++
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}
	isFlush := len(bySuit) == 1
	lowRank := detectStraight(ranks)
	isStraight := lowRank != 0
	isLowAceStraight := lowRank == 1

	var quad, trip []cardset.Card
	var pairs [][]cardset.Card
	for _, group := range byRank {
		switch len(group) {
		case 4:
			quad = group
		case 3:
			trip = group
		case 2:
			pairs = append(pairs, group)
		}
	}
	var pairHi, pairLo []cardset.Card
	if len(pairs) >= 1 {
		pairHi = pairs[0]
	}
	if len(pairs) >= 2 {
		if pairs[1][0].Rank > pairHi[0].Rank {
			pairHi, pairLo = pairs[1], pairs[0]
		} else {
			pairLo = pairs[1]
		}
	}

	switch {
	case isFlush && isStraight:
		if lowRank == 10 {
			return finish(cards, RoyalFlush, straightValue(cards, isLowAceStraight), 0)
		}
		return finish(cards, StraightFlush, straightValue(cards, isLowAceStraight), 0)
	case len(quad) == 4:
		kicker := otherThan(cards[:], quad)
		return finish(cards, FourOfAKind, sumHigh(cards[:]), adjust(FourOfAKind, sumHigh(kicker)))
	case len(trip) == 3 && len(pairHi) == 2:
		return finish(cards, FullHouse, sumHigh(cards[:]), 0)
	case isFlush:
		return finish(cards, Flush, sumHigh(cards[:]), 0)
	case isStraight:
		return finish(cards, Straight, straightValue(cards, isLowAceStraight), 0)
	case len(trip) == 3:
		kickers := otherThan(cards[:], trip)
		return finish(cards, ThreeOfAKind, sumHigh(cards[:]), adjust(ThreeOfAKind, sumHigh(kickers)))
	case len(pairHi) == 2 && len(pairLo) == 2:
		kicker := otherThan(cards[:], append(append([]cardset.Card{}, pairHi...), pairLo...))
		return finish(cards, TwoPair, sumHigh(cards[:]), adjust(TwoPair, sumHigh(kicker)))
	case len(pairHi) == 2:
		kickers := otherThan(cards[:], pairHi)
		return finish(cards, OnePair, sumHigh(cards[:]), adjust(OnePair, sumHigh(kickers)))
	default:
		return finish(cards, HighCard, int64(maxHigh(cards[:])), 0)
	}
}

func finish(cards [5]cardset.Card, cat Category, handValue int64, adj int64) ScoredHand {
	mult := cat.multiplier()
	score := handValue
	if cat != HighCard {
		score = handValue*mult + adj
	}
	return ScoredHand{Cards: cards, Category: cat, Score: score}
}

// adjust implements `adjust = sumKicker*multiplier*(-1) + sumKicker`, the
// correction that reweights kicker cards from the category multiplier down
// to weight 1 within the overall handValue*multiplier score.
func adjust(cat Category, sumKicker int64) int64 {
	mult := cat.multiplier()
	return sumKicker*mult*(-1) + sumKicker
}

func sumHigh(cards []cardset.Card) int64 {
	var sum int64
	for _, c := range cards {
		sum += int64(c.HighValue)
	}
	return sum
}

func maxHigh(cards []cardset.Card) uint8 {
	var max uint8
	for _, c := range cards {
		if c.HighValue > max {
			max = c.HighValue
		}
	}
	return max
}

// straightValue sums the five cards' scoring weight: the low-ace wheel
// (A-2-3-4-5) uses Value so it scores below 2-3-4-5-6; every other
// straight, including the ace-high broadway, uses HighValue.
func straightValue(cards [5]cardset.Card, lowAce bool) int64 {
	var sum int64
	for _, c := range cards {
		if lowAce {
			sum += int64(c.Value)
		} else {
			sum += int64(c.HighValue)
		}
	}
	return sum
}

func otherThan(cards []cardset.Card, exclude []cardset.Card) []cardset.Card {
	excluded := map[string]bool{}
	for _, c := range exclude {
		excluded[c.Mapping] = true
	}
	out := make([]cardset.Card, 0, len(cards)-len(exclude))
	for _, c := range cards {
		if !excluded[c.Mapping] {
			out = append(out, c)
		}
	}
	return out
}

// EnumerateAndScore builds every 5-card sub-hand from the concatenation of
// a player's private (hole) cards and the public (community) cards (all
// C(n,5) combinations, which for n=7 gives the 21 permutations covering
// every 0/1/2-hole-card split, 6 for n=6, and 1 for n=5), and scores each.
func EnumerateAndScore(private, public []cardset.Card) ([]ScoredHand, error) {
	all := make([]cardset.Card, 0, len(private)+len(public))
	all = append(all, private...)
	all = append(all, public...)
	if len(all) < 5 {
		return nil, fmt.Errorf("handeval: need at least 5 cards, got %d", len(all))
	}

	var hands []ScoredHand
	combos := combinations(all, 5)
	for _, combo := range combos {
		var fixed [5]cardset.Card
		copy(fixed[:], combo)
		hands = append(hands, Score(fixed))
	}
	return hands, nil
}

func combinations(cards []cardset.Card, k int) [][]cardset.Card {
	n := len(cards)
	if k > n {
		return nil
	}
	var out [][]cardset.Card
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]cardset.Card, k)
		for i, v := range idx {
			combo[i] = cards[v]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}
