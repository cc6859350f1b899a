package analyzer

import (
	"pokeraudit/internal/cryptoprim"
	"pokeraudit/internal/transcript"
)

// Event names the Analyzer subscribes to on its Source.
type Event string

const (
	EventCardsEncrypted Event = "cardsEncrypted"
	EventDealSelected    Event = "dealSelected"
	EventDealMessage     Event = "dealMessage"
	EventCardDealt       Event = "cardDealt"
	EventGameDecrypt     Event = "gameDecrypt"
	EventAnalyze         Event = "analyze"
	EventPlayerKeychain  Event = "playerKeychain"
)

// Source is the capability set the Analyzer needs from the game layer: an
// event surface to subscribe to, and the roster/identity needed to seed the
// transcript store. There is no module-level or global game object; every
// Analyzer is constructed against one Source.
type Source interface {
	Subscribe(event Event, handler func(payload any)) (unsubscribe func())
	CurrentPlayers() []transcript.Player
	OwnPID() string
}

// CardsEncryptedEvent is emitted once per deck-encryption round. On the very
// first occurrence PlaintextDeck carries the dealer's face-up mappings; on
// every subsequent occurrence it is nil and Selected carries that player's
// re-encrypted, shuffled deck.
type CardsEncryptedEvent struct {
	Player        string
	Selected      []string
	PlaintextDeck []string
}

// DealSelectedEvent reports the Analyzer's own selection of one or more
// ciphertexts for a deal.
type DealSelectedEvent struct {
	OwnPID   string
	Selected []string
	Private  bool
}

// DealMessageEvent reports another player's selection or partial
// decryption. When From == SourcePID it is a selection; otherwise it is a
// partial decryption. A message whose final plaintext Cards are already
// resolved is reported instead via CardDealtEvent and carries no Selected
// payload here.
type DealMessageEvent struct {
	From      string
	SourcePID string
	Selected  []string
	Cards     []string
	Private   bool
}

// CardDealtEvent reports cards already resolved to concrete faces by the
// game layer, for the Analyzer's own bookkeeping. It is informational: the
// Analyzer's own deal verifier resolves plaintexts independently and never
// trusts this payload for its verdict.
type CardDealtEvent struct {
	OwnPID  string
	Cards   []string
	Private bool
}

// GameDecryptEvent reports the Analyzer's own partial or final decryption
// of a selected deal.
type GameDecryptEvent struct {
	SourcePID string
	OwnPID    string
	Selected  []string
	Private   bool
}

// AnalyzeEvent signals that play has ended and the hand should be audited.
type AnalyzeEvent struct {
	Game any
}

// PlayerKeychainEvent reports one player's committed keychain.
type PlayerKeychainEvent struct {
	Player   string
	Keychain []cryptoprim.Keypair
}
