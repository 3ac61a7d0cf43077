package frost

import (
	"io"
	"sync"

	"github.com/pkg/errors"
)

// SigningCommitments are a signer's public round-one output: D = d·G for
// the hiding nonce and E = e·G for the binding nonce.
type SigningCommitments struct {
	Ciphersuite *Ciphersuite
	Hiding      Point
	Binding     Point
}

// Equal reports whether both commitments match.
func (c *SigningCommitments) Equal(other *SigningCommitments) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Hiding.Equal(other.Hiding) && c.Binding.Equal(other.Binding)
}

// SigningNonces holds a signer's secret round-one nonces. They are single
// use: Sign consumes them and any later attempt fails with ErrStaleNonces.
// The secret values are never exposed.
type SigningNonces struct {
	mu          sync.Mutex
	cs          *Ciphersuite
	hiding      Scalar
	binding     Scalar
	commitments *SigningCommitments
	consumed    bool
}

// Commit runs round one: it samples fresh hiding and binding nonces and
// returns them together with their public commitments.
//
// Each nonce is H3(random32 || signingShare); the message is never an
// input.
func Commit(cs *Ciphersuite, rand io.Reader, signingShare Scalar) (*SigningNonces, *SigningCommitments, error) {
	if signingShare == nil {
		return nil, nil, ErrInvalidScalar.WithDetails("missing signing share")
	}
	if err := cs.requireScalar(signingShare); err != nil {
		return nil, nil, err
	}

	hiding, err := generateNonce(cs, rand, signingShare)
	if err != nil {
		return nil, nil, errors.Wrap(err, "generate hiding nonce")
	}
	binding, err := generateNonce(cs, rand, signingShare)
	if err != nil {
		hiding.Zeroize()
		return nil, nil, errors.Wrap(err, "generate binding nonce")
	}

	g := cs.curve.BasePoint()
	commitments := &SigningCommitments{
		Ciphersuite: cs,
		Hiding:      g.Mul(hiding),
		Binding:     g.Mul(binding),
	}
	return &SigningNonces{
		cs:          cs,
		hiding:      hiding,
		binding:     binding,
		commitments: commitments,
	}, commitments, nil
}

func generateNonce(cs *Ciphersuite, rand io.Reader, secret Scalar) (Scalar, error) {
	randomBytes, err := secureRandom(rand, 32)
	if err != nil {
		return nil, err
	}
	defer ZeroizeBytes(randomBytes)

	secretBytes := secret.Bytes()
	defer ZeroizeBytes(secretBytes)

	input := make([]byte, 0, len(randomBytes)+len(secretBytes))
	input = append(input, randomBytes...)
	input = append(input, secretBytes...)
	defer ZeroizeBytes(input)

	return cs.hasher.H3(input)
}

// Commitments returns the public commitments matching these nonces.
func (n *SigningNonces) Commitments() *SigningCommitments {
	return n.commitments
}

// Consumed reports whether the nonces were already used.
func (n *SigningNonces) Consumed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.consumed
}

// consume hands the secret nonces to exactly one caller, who must zeroize
// them. Every later call fails.
func (n *SigningNonces) consume() (hiding, binding Scalar, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.consumed {
		return nil, nil, ErrStaleNonces.WithCause(ErrNonceReuse)
	}
	n.consumed = true
	hiding, binding = n.hiding, n.binding
	n.hiding, n.binding = nil, nil
	return hiding, binding, nil
}
