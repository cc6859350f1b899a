package transcript

import "fmt"

// Store is the Analyzer's exclusive, append-only capture of one hand's
// transcript. It is mutated only by event callbacks prior to the
// keychain-commit gate firing; the verifiers read it without locks once
// verification begins, per the single-threaded cooperative model.
type Store struct {
	ownPID string

	dealerPID       string
	plaintextDeck   []string
	snapshots       []DeckSnapshot
	snapshotFromPID map[string]bool

	dealOrder []string // dealer PIDs in first-selection order
	deals     map[string][]DealEntry

	roster map[string]*Player

	analyzing bool // true once the gate has started; blocks further transcript mutation
}

// New creates an empty Store for the given roster and the Analyzer's own
// player ID.
func New(ownPID string, roster []Player) *Store {
	s := &Store{
		ownPID:          ownPID,
		snapshotFromPID: make(map[string]bool),
		deals:           make(map[string][]DealEntry),
		roster:          make(map[string]*Player, len(roster)),
	}
	for i := range roster {
		p := roster[i]
		s.roster[p.PrivateID] = &p
	}
	return s
}

// OwnPID returns the Analyzer's own player ID.
func (s *Store) OwnPID() string { return s.ownPID }

// Players returns a defensive copy of the roster.
func (s *Store) Players() []Player {
	out := make([]Player, 0, len(s.roster))
	for _, p := range s.roster {
		out = append(out, *p)
	}
	return out
}

// RecordDeckGeneration captures the dealer's plaintext mappings. It must be
// called exactly once, before any RecordEncryption call.
func (s *Store) RecordDeckGeneration(dealerPID string, plaintextMappings []string) error {
	if s.analyzing {
		return fmt.Errorf("transcript: cannot record deck generation after gate fired")
	}
	if s.dealerPID != "" {
		return fmt.Errorf("transcript: deck generation already recorded")
	}
	if len(plaintextMappings) == 0 {
		return fmt.Errorf("transcript: empty plaintext deck")
	}
	s.dealerPID = dealerPID
	s.plaintextDeck = copyStrings(plaintextMappings)
	s.snapshots = append(s.snapshots, DeckSnapshot{FromPID: dealerPID, Cards: copyStrings(plaintextMappings)})
	return nil
}

// RecordEncryption appends one DeckSnapshot. Snapshots must strictly grow by
// one per distinct fromPID; no fromPID may contribute an encryption round
// twice. The dealer's generation act (above) is a distinct event and does
// not count against this: the dealer may also re-encrypt with their own
// final key in a later round, the same as any other player, and the deal
// verifier's terminal self-decryption depends on that layer existing.
func (s *Store) RecordEncryption(playerPID string, encryptedDeck []string) error {
	if s.analyzing {
		return fmt.Errorf("transcript: cannot record encryption after gate fired")
	}
	if s.dealerPID == "" {
		return fmt.Errorf("transcript: deck generation not recorded yet")
	}
	if s.snapshotFromPID[playerPID] {
		return fmt.Errorf("transcript: player %s already contributed a deck snapshot", playerPID)
	}
	if len(encryptedDeck) != len(s.plaintextDeck) {
		return fmt.Errorf("transcript: snapshot length %d does not match deck size %d", len(encryptedDeck), len(s.plaintextDeck))
	}
	s.snapshots = append(s.snapshots, DeckSnapshot{FromPID: playerPID, Cards: copyStrings(encryptedDeck)})
	s.snapshotFromPID[playerPID] = true
	return nil
}

// Snapshots returns the ordered DeckSnapshot list, snapshot 0 first.
func (s *Store) Snapshots() []DeckSnapshot {
	out := make([]DeckSnapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}

// RecordSelection appends a {type=select} entry to dealerPID's deal
// sequence. A dealer's deal sequence must always begin with a selection.
func (s *Store) RecordSelection(dealerPID, fromPID string, cards []string, isPrivate bool) error {
	return s.appendDeal(dealerPID, DealEntry{FromPID: fromPID, Type: DealSelect, Private: isPrivate, Cards: copyStrings(cards)})
}

// RecordDecryption appends a {type=decrypt} entry to dealerPID's deal
// sequence.
func (s *Store) RecordDecryption(dealerPID, fromPID string, cards []string, isPrivate bool) error {
	return s.appendDeal(dealerPID, DealEntry{FromPID: fromPID, Type: DealDecrypt, Private: isPrivate, Cards: copyStrings(cards)})
}

func (s *Store) appendDeal(dealerPID string, entry DealEntry) error {
	if s.analyzing {
		return fmt.Errorf("transcript: cannot record deal entry after gate fired")
	}
	existing := s.deals[dealerPID]
	if len(existing) == 0 {
		if entry.Type != DealSelect {
			return fmt.Errorf("transcript: dealer %s's deal sequence must begin with a selection", dealerPID)
		}
		s.dealOrder = append(s.dealOrder, dealerPID)
	}
	s.deals[dealerPID] = append(existing, entry)
	return nil
}

// DealsByDealer returns the captured deal sequences keyed by dealer PID, and
// the dealer PIDs in first-selection (insertion) order.
func (s *Store) DealsByDealer() (order []string, deals map[string][]DealEntry) {
	order = make([]string, len(s.dealOrder))
	copy(order, s.dealOrder)
	deals = make(map[string][]DealEntry, len(s.deals))
	for k, v := range s.deals {
		cp := make([]DealEntry, len(v))
		copy(cp, v)
		deals[k] = cp
	}
	return order, deals
}

// PlaintextDeck returns the dealer's originally published plaintext
// mappings, snapshot 0's contents.
func (s *Store) PlaintextDeck() []string {
	return copyStrings(s.plaintextDeck)
}

// DealerPID returns the PID that generated the deck.
func (s *Store) DealerPID() string { return s.dealerPID }

// closeForAnalysis blocks further transcript mutation. Called by the gate
// when entering the Analyzing phase.
func (s *Store) closeForAnalysis() {
	s.analyzing = true
}
