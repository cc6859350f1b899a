package cryptoprim

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// SRA is a reference implementation of Primitive using plain modular
// exponentiation: E_k(x) = x^e mod p, D_k(x) = x^d mod p. Keys sharing a
// modulus commute because exponentiation in the multiplicative group mod a
// prime is commutative: (x^e1)^e2 = (x^e2)^e1 mod p. It drives the
// verification pipeline's tests end-to-end and is the primitive the auditctl
// command replays transcripts with; it is not the crypto primitive the spec
// treats as an external collaborator in production.
type SRA struct{}

var _ Primitive = SRA{}

func (SRA) Encrypt(_ context.Context, value string, kp Keypair) (string, error) {
	return sraExp(value, kp.EncKey, kp.Modulus)
}

func (SRA) Decrypt(_ context.Context, value string, kp Keypair) (string, error) {
	return sraExp(value, kp.DecKey, kp.Modulus)
}

func sraExp(value, exp, modulus string) (string, error) {
	x, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return "", fmt.Errorf("cryptoprim: invalid value %q", value)
	}
	e, ok := new(big.Int).SetString(exp, 10)
	if !ok {
		return "", fmt.Errorf("cryptoprim: invalid exponent %q", exp)
	}
	p, ok := new(big.Int).SetString(modulus, 10)
	if !ok {
		return "", fmt.Errorf("cryptoprim: invalid modulus %q", modulus)
	}
	return new(big.Int).Exp(x, e, p).String(), nil
}

// GenerateKeypair samples a fresh commutative keypair over the given prime
// modulus p: a random unit e mod (p-1), and its inverse d. Test helper only.
func GenerateKeypair(p *big.Int) (Keypair, error) {
	order := new(big.Int).Sub(p, big.NewInt(1))
	for {
		e, err := rand.Int(rand.Reader, order)
		if err != nil {
			return Keypair{}, fmt.Errorf("cryptoprim: sample exponent: %w", err)
		}
		if e.Sign() == 0 {
			continue
		}
		g := new(big.Int).GCD(nil, nil, e, order)
		if g.Cmp(big.NewInt(1)) != 0 {
			continue
		}
		d := new(big.Int).ModInverse(e, order)
		if d == nil {
			continue
		}
		return Keypair{
			EncKey:  e.String(),
			DecKey:  d.String(),
			Modulus: p.String(),
		}, nil
	}
}
