package dealverify

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"pokeraudit/internal/auditerr"
	"pokeraudit/internal/cardset"
	"pokeraudit/internal/cryptoprim"
	"pokeraudit/internal/transcript"
)

var testModulus = big.NewInt(104729)

func standardRegistry(t *testing.T) *cardset.Registry {
	t.Helper()
	mappings := make([]string, 52)
	for i := range mappings {
		mappings[i] = fmt.Sprintf("%d", i+1)
	}
	r, err := cardset.NewStandardRegistry(mappings)
	if err != nil {
		t.Fatalf("NewStandardRegistry: %v", err)
	}
	return r
}

func keypairs(t *testing.T, n int) []cryptoprim.Keypair {
	t.Helper()
	out := make([]cryptoprim.Keypair, n)
	for i := range out {
		kp, err := cryptoprim.GenerateKeypair(testModulus)
		if err != nil {
			t.Fatalf("GenerateKeypair: %v", err)
		}
		out[i] = kp
	}
	return out
}

func encryptAll(t *testing.T, value string, kps ...cryptoprim.Keypair) string {
	t.Helper()
	sra := cryptoprim.SRA{}
	v := value
	for _, kp := range kps {
		ct, err := sra.Encrypt(context.Background(), v, kp)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		v = ct
	}
	return v
}

func TestDealVerifyHonestSequence(t *testing.T) {
	reg := standardRegistry(t)
	kps := keypairs(t, 3)
	kpS, kpP2, kpP3 := kps[0], kps[1], kps[2]

	plain := "7"
	c0 := encryptAll(t, plain, kpP2, kpP3, kpS)

	sra := cryptoprim.SRA{}
	c1, err := sra.Decrypt(context.Background(), c0, kpP2)
	if err != nil {
		t.Fatalf("Decrypt P2: %v", err)
	}
	c2, err := sra.Decrypt(context.Background(), c1, kpP3)
	if err != nil {
		t.Fatalf("Decrypt P3: %v", err)
	}

	list := []transcript.DealEntry{
		{FromPID: "S", Type: transcript.DealSelect, Private: true, Cards: []string{c0}},
		{FromPID: "P2", Type: transcript.DealDecrypt, Private: true, Cards: []string{c1}},
		{FromPID: "P3", Type: transcript.DealDecrypt, Private: true, Cards: []string{c2}},
	}
	deals := map[string][]transcript.DealEntry{"S": list}
	keychains := map[string][]cryptoprim.Keypair{
		"S":  {kpS},
		"P2": {kpP2},
		"P3": {kpP3},
	}

	res, err := Verify(context.Background(), sra, reg, []string{"S"}, deals, []string{c0}, keychains)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	got := res.PrivateByPID["S"]
	if len(got) != 1 || got[0].Mapping != plain {
		t.Fatalf("unexpected resolved cards: %+v", got)
	}
}

func TestDealVerifyDoubleSelectDetected(t *testing.T) {
	reg := standardRegistry(t)
	kps := keypairs(t, 1)
	kpS := kps[0]
	sra := cryptoprim.SRA{}

	c0 := encryptAll(t, "3", kpS)

	list := []transcript.DealEntry{
		{FromPID: "S", Type: transcript.DealSelect, Private: true, Cards: []string{c0}},
	}
	deals := map[string][]transcript.DealEntry{"S": list}
	keychains := map[string][]cryptoprim.Keypair{"S": {kpS}}

	// Pool does not contain c0: simulates someone else having already taken it.
	_, err := Verify(context.Background(), sra, reg, []string{"S"}, deals, []string{}, keychains)
	if err == nil {
		t.Fatalf("expected SelectDuplicate, got nil")
	}
	dup, ok := err.(auditerr.SelectDuplicate)
	if !ok {
		t.Fatalf("expected SelectDuplicate, got %T: %v", err, err)
	}
	if dup.Offender != "S" {
		t.Fatalf("unexpected offender: %+v", dup)
	}
}

func TestDealVerifyIntermediateTamperDetected(t *testing.T) {
	reg := standardRegistry(t)
	kps := keypairs(t, 3)
	kpS, kpP2, kpP3 := kps[0], kps[1], kps[2]
	sra := cryptoprim.SRA{}

	plain := "11"
	c0 := encryptAll(t, plain, kpP2, kpP3, kpS)
	c1, err := sra.Decrypt(context.Background(), c0, kpP2)
	if err != nil {
		t.Fatalf("Decrypt P2: %v", err)
	}

	// P3 reports a bogus partial decryption instead of the correct one.
	bogus := "999999"

	list := []transcript.DealEntry{
		{FromPID: "S", Type: transcript.DealSelect, Private: false, Cards: []string{c0}},
		{FromPID: "P2", Type: transcript.DealDecrypt, Private: false, Cards: []string{c1}},
		{FromPID: "P3", Type: transcript.DealDecrypt, Private: false, Cards: []string{bogus}},
		{FromPID: "S", Type: transcript.DealSelect, Private: false, Cards: []string{"unrelated"}},
	}
	deals := map[string][]transcript.DealEntry{"S": list}
	keychains := map[string][]cryptoprim.Keypair{
		"S":  {kpS},
		"P2": {kpP2},
		"P3": {kpP3},
	}

	_, err = Verify(context.Background(), sra, reg, []string{"S"}, deals, []string{c0, "unrelated"}, keychains)
	if err == nil {
		t.Fatalf("expected IntermediateDecryptMismatch, got nil")
	}
	mismatch, ok := err.(auditerr.IntermediateDecryptMismatch)
	if !ok {
		t.Fatalf("expected IntermediateDecryptMismatch, got %T: %v", err, err)
	}
	if mismatch.Offender != "P3" {
		t.Fatalf("unexpected offender: %+v", mismatch)
	}
}
