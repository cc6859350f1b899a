package handeval

import (
	"sort"
	"testing"

	"pokeraudit/internal/cardset"
)

func TestResolveWinnersSplitPot(t *testing.T) {
	straightFlush := Score(hand(
		card(cardset.Hearts, 5), card(cardset.Hearts, 6), card(cardset.Hearts, 7),
		card(cardset.Hearts, 8), card(cardset.Hearts, 9),
	))
	hands := map[string][]ScoredHand{
		"P1": {straightFlush},
		"P2": {straightFlush},
	}
	private := map[string][]cardset.Card{
		"P1": {card(cardset.Hearts, 5), card(cardset.Hearts, 6)},
		"P2": {card(cardset.Hearts, 5), card(cardset.Hearts, 6)},
	}

	winners := ResolveWinners(hands, private)
	sort.Strings(winners)
	if len(winners) != 2 || winners[0] != "P1" || winners[1] != "P2" {
		t.Fatalf("expected split pot [P1 P2], got %v", winners)
	}
}

func TestResolveWinnersKickerBreaksTie(t *testing.T) {
	same := Score(hand(
		card(cardset.Clubs, 2), card(cardset.Diamonds, 5), card(cardset.Hearts, 9),
		card(cardset.Spades, 11), card(cardset.Clubs, 13),
	))
	hands := map[string][]ScoredHand{
		"P1": {same},
		"P2": {same},
	}
	private := map[string][]cardset.Card{
		"P1": {card(cardset.Clubs, 1), card(cardset.Diamonds, 2)}, // ace, 2
		"P2": {card(cardset.Hearts, 10), card(cardset.Spades, 9)},
	}
	winners := ResolveWinners(hands, private)
	if len(winners) != 1 || winners[0] != "P1" {
		t.Fatalf("expected P1 to win on hole-card tiebreak, got %v", winners)
	}
}

func TestResolveWinnersNeverEmptyWithOneContender(t *testing.T) {
	h := Score(hand(
		card(cardset.Clubs, 2), card(cardset.Diamonds, 3), card(cardset.Hearts, 4),
		card(cardset.Spades, 8), card(cardset.Clubs, 10),
	))
	hands := map[string][]ScoredHand{"Solo": {h}}
	private := map[string][]cardset.Card{"Solo": {card(cardset.Clubs, 2), card(cardset.Diamonds, 3)}}

	winners := ResolveWinners(hands, private)
	if len(winners) != 1 || winners[0] != "Solo" {
		t.Fatalf("expected [Solo], got %v", winners)
	}
}
