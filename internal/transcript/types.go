// Package transcript implements the append-only capture of a single hand's
// cryptographic protocol trace and the keychain-commit gate that guards
// entry into verification.
package transcript

import (
	"pokeraudit/internal/cryptoprim"
)

// DealType distinguishes a selection block from a partial-decryption entry
// within one selecting player's deal sequence.
type DealType uint8

const (
	DealSelect DealType = iota
	DealDecrypt
)

func (t DealType) String() string {
	if t == DealSelect {
		return "select"
	}
	return "decrypt"
}

// Player is the Analyzer's own copy of a game-layer player, captured at
// roster time so later mutation by the game layer cannot retroactively alter
// the transcript.
type Player struct {
	PrivateID string
	IsDealer  bool
	HasFolded bool
	Keychain  []cryptoprim.Keypair
}

// FinalKeypair returns the keypair used during the hand: the last one in
// the player's keychain.
func (p Player) FinalKeypair() (cryptoprim.Keypair, bool) {
	if len(p.Keychain) == 0 {
		return cryptoprim.Keypair{}, false
	}
	return p.Keychain[len(p.Keychain)-1], true
}

// DeckSnapshot is one re-encryption/shuffle stage of the committed deck. The
// zeroth snapshot (FromPID == dealer) holds the dealer's plaintext mappings;
// every subsequent snapshot is the prior deck re-encrypted (then shuffled)
// by FromPID under their final keypair.
type DeckSnapshot struct {
	FromPID string
	Cards   []string
}

// DealEntry is one step of a selecting player's deal sequence: either the
// initial selection of ciphertexts, or one player's partial decryption of
// them.
type DealEntry struct {
	FromPID string
	Type    DealType
	Private bool
	Cards   []string
}

// copyStrings returns an owned copy of s so later mutation of the caller's
// slice cannot retroactively alter a captured row.
func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
