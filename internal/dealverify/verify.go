// Package dealverify replays each selecting player's selection/decryption
// sequence, resolves the final plaintext cards, and enforces non-duplication
// against the remaining encrypted deck pool.
package dealverify

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"pokeraudit/internal/auditerr"
	"pokeraudit/internal/cardset"
	"pokeraudit/internal/cryptoprim"
	"pokeraudit/internal/multiset"
	"pokeraudit/internal/transcript"
)

// Result holds the resolved cards produced by walking every dealer's deal
// sequence.
type Result struct {
	PrivateByPID map[string][]cardset.Card
	Public       []cardset.Card
}

// Verify walks each selecting player's deal list in insertion order.
// Dealers (selecting players) are processed in dealOrder, but their effects
// on the encrypted deck pool are disjoint and order-independent.
func Verify(
	ctx context.Context,
	prim cryptoprim.Primitive,
	registry *cardset.Registry,
	dealOrder []string,
	deals map[string][]transcript.DealEntry,
	encryptedDeckPool []string,
	keychains map[string][]cryptoprim.Keypair,
) (Result, error) {
	res := Result{PrivateByPID: make(map[string][]cardset.Card)}
	pool := make([]string, len(encryptedDeckPool))
	copy(pool, encryptedDeckPool)

	for _, dealer := range dealOrder {
		list := deals[dealer]
		var err error
		pool, err = verifyOneDealer(ctx, prim, registry, dealer, list, pool, keychains, &res)
		if err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

func verifyOneDealer(
	ctx context.Context,
	prim cryptoprim.Primitive,
	registry *cardset.Registry,
	dealer string,
	list []transcript.DealEntry,
	pool []string,
	keychains map[string][]cryptoprim.Keypair,
	res *Result,
) ([]string, error) {
	if len(list) == 0 {
		return pool, nil
	}
	if list[0].Type != transcript.DealSelect {
		return nil, auditerr.ProtocolSequence{Dealer: dealer}
	}

	finalKeyOf := func(pid string) (cryptoprim.Keypair, error) {
		kc, ok := keychains[pid]
		if !ok || len(kc) == 0 {
			return cryptoprim.Keypair{}, fmt.Errorf("dealverify: no keychain for %s", pid)
		}
		return kc[len(kc)-1], nil
	}

	finalize := func(cards []string, private bool) error {
		kp, err := finalKeyOf(dealer)
		if err != nil {
			return err
		}
		plain, err := batchApply(ctx, prim.Decrypt, cards, kp)
		if err != nil {
			return fmt.Errorf("dealverify: finalize decrypt: %w", err)
		}
		resolved := make([]cardset.Card, len(plain))
		for i, m := range plain {
			c, ok := registry.Resolve(m)
			if !ok {
				return auditerr.NonMappingResult{Offender: dealer, Value: m}
			}
			resolved[i] = c
		}
		if private {
			res.PrivateByPID[dealer] = append(res.PrivateByPID[dealer], resolved...)
		} else {
			res.Public = append(res.Public, resolved...)
		}
		return nil
	}

	var pending []string
	var pendingPrivate bool
	havePending := false

	for j, entry := range list {
		switch entry.Type {
		case transcript.DealSelect:
			if j > 0 {
				prevType := list[j-1].Type
				if prevType == transcript.DealSelect {
					return nil, auditerr.ProtocolSequence{Dealer: dealer}
				}
				// prevType == decrypt: the prior chain closes now; S finalizes it
				// with their own key before this new selection opens.
				if err := finalize(pending, pendingPrivate); err != nil {
					return nil, err
				}
				havePending = false
			}

			newPool, removed := multiset.Remove(pool, entry.Cards)
			if removed != len(entry.Cards) {
				return nil, auditerr.SelectDuplicate{Offender: entry.FromPID, Dealer: dealer}
			}
			pool = newPool
			pending = entry.Cards
			pendingPrivate = entry.Private
			havePending = true

		case transcript.DealDecrypt:
			isLast := j == len(list)-1
			prevType := list[j-1].Type

			if prevType == transcript.DealDecrypt && !isLast {
				kp, err := finalKeyOf(entry.FromPID)
				if err != nil {
					return nil, err
				}
				decrypted, err := batchApply(ctx, prim.Decrypt, pending, kp)
				if err != nil {
					return nil, fmt.Errorf("dealverify: intermediate decrypt: %w", err)
				}
				if !multiset.Equal(decrypted, entry.Cards) {
					return nil, auditerr.IntermediateDecryptMismatch{Offender: entry.FromPID, Round: j}
				}
			}

			pending = entry.Cards
			pendingPrivate = entry.Private
			havePending = true

			if isLast {
				if err := finalize(pending, pendingPrivate); err != nil {
					return nil, err
				}
				havePending = false
			}
		}
	}

	// A deal list that ends immediately after a selection (zero partial
	// decryptions, e.g. no other players were needed) still requires S to
	// self-decrypt the selected ciphertexts.
	if havePending && list[len(list)-1].Type == transcript.DealSelect {
		if err := finalize(pending, pendingPrivate); err != nil {
			return nil, err
		}
	}

	return pool, nil
}

type cryptoOp func(ctx context.Context, value string, kp cryptoprim.Keypair) (string, error)

func batchApply(ctx context.Context, op cryptoOp, values []string, kp cryptoprim.Keypair) ([]string, error) {
	out := make([]string, len(values))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range values {
		i, v := i, v
		g.Go(func() error {
			r, err := op(gctx, v, kp)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
