// Package auditerr defines the closed error taxonomy the verification
// pipeline can raise. Every kind carries the numeric code from the spec's
// error table so callers that only care about the wire-level code can switch
// on Code() without importing this package's concrete types.
package auditerr

import "fmt"

// KeychainTimeout (code 0): not all players committed their keychain before
// the deadline.
type KeychainTimeout struct{}

func (KeychainTimeout) Error() string { return "keychain commit timeout" }
func (KeychainTimeout) Code() int     { return 0 }

// DeckEncryptionMismatch (code 1): re-encryption replay disagrees with the
// committed snapshot at the given stage.
type DeckEncryptionMismatch struct {
	Stage    int
	Offender string
}

func (e DeckEncryptionMismatch) Error() string {
	return fmt.Sprintf("deck encryption mismatch at stage %d (offender %s)", e.Stage, e.Offender)
}
func (DeckEncryptionMismatch) Code() int { return 1 }

// SelectDuplicate (code 2): a selected ciphertext is not present in the
// remaining encrypted deck pool, or would be drawn twice.
type SelectDuplicate struct {
	Offender string
	Dealer   string
}

func (e SelectDuplicate) Error() string {
	return fmt.Sprintf("selected ciphertext not available in deck pool (offender %s, dealer %s)", e.Offender, e.Dealer)
}
func (SelectDuplicate) Code() int { return 2 }

// ProtocolSequence (code 2): a disallowed transition occurred in a deal
// sequence (e.g. two selects in a row for the same dealer).
type ProtocolSequence struct {
	Dealer string
}

func (e ProtocolSequence) Error() string {
	return fmt.Sprintf("disallowed deal sequence transition (dealer %s)", e.Dealer)
}
func (ProtocolSequence) Code() int { return 2 }

// IntermediateDecryptMismatch (code 2): a partial decryption is inconsistent
// with the prior stage.
type IntermediateDecryptMismatch struct {
	Offender string
	Round    int
}

func (e IntermediateDecryptMismatch) Error() string {
	return fmt.Sprintf("intermediate decrypt mismatch at round %d (offender %s)", e.Round, e.Offender)
}
func (IntermediateDecryptMismatch) Code() int { return 2 }

// NonMappingResult (code 2): a final decryption result does not resolve via
// the card registry.
type NonMappingResult struct {
	Offender string
	Value    string
}

func (e NonMappingResult) Error() string {
	return fmt.Sprintf("decryption result %q does not resolve to a card (offender %s)", e.Value, e.Offender)
}
func (NonMappingResult) Code() int { return 2 }

// Internal wraps a scoring-time invariant violation. Per the spec, this
// should never occur if verification passed; surfacing it distinctly keeps
// it out of the cryptographic-mismatch taxonomy above.
type Internal struct {
	Reason string
}

func (e Internal) Error() string { return fmt.Sprintf("internal invariant violated: %s", e.Reason) }
func (Internal) Code() int       { return 99 }

// Coded is satisfied by every error kind in this package.
type Coded interface {
	error
	Code() int
}
