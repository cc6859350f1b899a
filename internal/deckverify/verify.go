// Package deckverify replays the encryption chain over the plaintext deck
// and proves the final committed deck matches what each player claims to
// have produced.
package deckverify

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"pokeraudit/internal/auditerr"
	"pokeraudit/internal/cryptoprim"
	"pokeraudit/internal/multiset"
	"pokeraudit/internal/transcript"
)

// Verify replays each deck snapshot's re-encryption stage and returns the
// canonical encrypted deck (the final snapshot's contents) on success. The n
// encryptions within a single stage are issued concurrently to prim and
// awaited together before the stage's multiset comparison runs.
func Verify(ctx context.Context, prim cryptoprim.Primitive, snapshots []transcript.DeckSnapshot, keychains map[string][]cryptoprim.Keypair) ([]string, error) {
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("deckverify: no snapshots captured")
	}

	current := snapshots[0].Cards
	for i := 1; i < len(snapshots); i++ {
		stage := snapshots[i]
		kc, ok := keychains[stage.FromPID]
		if !ok || len(kc) == 0 {
			return nil, fmt.Errorf("deckverify: no keychain for %s at stage %d", stage.FromPID, i)
		}
		finalKey := kc[len(kc)-1]

		reencrypted, err := reencryptBatch(ctx, prim, current, finalKey)
		if err != nil {
			return nil, err
		}

		if !multiset.Equal(reencrypted, stage.Cards) {
			return nil, auditerr.DeckEncryptionMismatch{Stage: i, Offender: stage.FromPID}
		}
		current = stage.Cards
	}

	return current, nil
}

func reencryptBatch(ctx context.Context, prim cryptoprim.Primitive, values []string, kp cryptoprim.Keypair) ([]string, error) {
	out := make([]string, len(values))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range values {
		i, v := i, v
		g.Go(func() error {
			ct, err := prim.Encrypt(gctx, v, kp)
			if err != nil {
				return err
			}
			out[i] = ct
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("deckverify: batched encrypt: %w", err)
	}
	return out, nil
}
