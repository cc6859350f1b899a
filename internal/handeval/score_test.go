package handeval

import (
	"math/rand"
	"testing"

	"pokeraudit/internal/cardset"
)

func card(suit cardset.Suit, rank uint8) cardset.Card {
	value := rank
	highValue := rank
	if rank == 1 {
		highValue = 14
	}
	return cardset.Card{
		Mapping:   cardKey(suit, rank),
		Suit:      suit,
		Rank:      rank,
		Value:     value,
		HighValue: highValue,
	}
}

func cardKey(suit cardset.Suit, rank uint8) string {
	return suit.String() + string([]byte{byte('0' + rank/10), byte('0' + rank%10)})
}

func hand(cards ...cardset.Card) [5]cardset.Card {
	var h [5]cardset.Card
	copy(h[:], cards)
	return h
}

func TestScorePermutationInvariant(t *testing.T) {
	h := hand(
		card(cardset.Clubs, 5),
		card(cardset.Diamonds, 5),
		card(cardset.Hearts, 9),
		card(cardset.Spades, 2),
		card(cardset.Clubs, 11),
	)
	base := Score(h)

	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := h
		rnd.Shuffle(5, func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Score(shuffled)
		if got.Score != base.Score || got.Category != base.Category {
			t.Fatalf("permutation changed score: base=%+v got=%+v", base, got)
		}
	}
}

func TestCategoryMonotonicity(t *testing.T) {
	flush := Score(hand(
		card(cardset.Clubs, 2), card(cardset.Clubs, 5), card(cardset.Clubs, 7),
		card(cardset.Clubs, 9), card(cardset.Clubs, 12),
	))
	straight := Score(hand(
		card(cardset.Clubs, 3), card(cardset.Diamonds, 4), card(cardset.Hearts, 5),
		card(cardset.Spades, 6), card(cardset.Clubs, 7),
	))
	if flush.Score <= straight.Score {
		t.Fatalf("flush (%d) should outrank straight (%d)", flush.Score, straight.Score)
	}
}

func TestLowAceStraightScoresBelowSixHigh(t *testing.T) {
	wheel := Score(hand(
		card(cardset.Clubs, 1), card(cardset.Diamonds, 2), card(cardset.Hearts, 3),
		card(cardset.Spades, 4), card(cardset.Clubs, 5),
	))
	sixHigh := Score(hand(
		card(cardset.Clubs, 2), card(cardset.Diamonds, 3), card(cardset.Hearts, 4),
		card(cardset.Spades, 5), card(cardset.Clubs, 6),
	))
	if wheel.Category != Straight || sixHigh.Category != Straight {
		t.Fatalf("expected both straights: wheel=%v sixHigh=%v", wheel.Category, sixHigh.Category)
	}
	if wheel.Score >= sixHigh.Score {
		t.Fatalf("wheel (%d) should score below 2-3-4-5-6 (%d)", wheel.Score, sixHigh.Score)
	}
}

func TestRoyalFlushOutranksStraightFlush(t *testing.T) {
	royal := Score(hand(
		card(cardset.Spades, 10), card(cardset.Spades, 11), card(cardset.Spades, 12),
		card(cardset.Spades, 13), card(cardset.Spades, 1),
	))
	straightFlush := Score(hand(
		card(cardset.Hearts, 5), card(cardset.Hearts, 6), card(cardset.Hearts, 7),
		card(cardset.Hearts, 8), card(cardset.Hearts, 9),
	))
	if royal.Category != RoyalFlush {
		t.Fatalf("expected RoyalFlush, got %v", royal.Category)
	}
	if royal.Score <= straightFlush.Score {
		t.Fatalf("royal flush (%d) must outrank straight flush (%d)", royal.Score, straightFlush.Score)
	}
}

func TestFourOfAKindKickerBreaksTie(t *testing.T) {
	quadsHighKicker := Score(hand(
		card(cardset.Clubs, 9), card(cardset.Diamonds, 9), card(cardset.Hearts, 9),
		card(cardset.Spades, 9), card(cardset.Clubs, 13),
	))
	quadsLowKicker := Score(hand(
		card(cardset.Clubs, 9), card(cardset.Diamonds, 9), card(cardset.Hearts, 9),
		card(cardset.Spades, 9), card(cardset.Clubs, 2),
	))
	if quadsHighKicker.Category != FourOfAKind || quadsLowKicker.Category != FourOfAKind {
		t.Fatalf("expected FourOfAKind for both")
	}
	if quadsHighKicker.Score <= quadsLowKicker.Score {
		t.Fatalf("higher kicker (%d) should outscore lower kicker (%d)", quadsHighKicker.Score, quadsLowKicker.Score)
	}
}

func TestEnumerateAndScoreCounts(t *testing.T) {
	private := []cardset.Card{card(cardset.Clubs, 2), card(cardset.Diamonds, 3)}
	public5 := []cardset.Card{
		card(cardset.Hearts, 4), card(cardset.Spades, 5), card(cardset.Clubs, 7),
		card(cardset.Diamonds, 9), card(cardset.Hearts, 11),
	}
	hands, err := EnumerateAndScore(private, public5)
	if err != nil {
		t.Fatalf("EnumerateAndScore: %v", err)
	}
	if len(hands) != 21 {
		t.Fatalf("expected 21 permutations for 7 cards, got %d", len(hands))
	}

	hands6, err := EnumerateAndScore(private, public5[:4])
	if err != nil {
		t.Fatalf("EnumerateAndScore(6): %v", err)
	}
	if len(hands6) != 6 {
		t.Fatalf("expected 6 permutations for 6 cards, got %d", len(hands6))
	}

	hands5, err := EnumerateAndScore(private, public5[:3])
	if err != nil {
		t.Fatalf("EnumerateAndScore(5): %v", err)
	}
	if len(hands5) != 1 {
		t.Fatalf("expected 1 permutation for 5 cards, got %d", len(hands5))
	}
}

func TestEnumerateAndScoreTooFewCards(t *testing.T) {
	private := []cardset.Card{card(cardset.Clubs, 2), card(cardset.Diamonds, 3)}
	if _, err := EnumerateAndScore(private, nil); err == nil {
		t.Fatalf("expected error for fewer than 5 cards")
	}
}
