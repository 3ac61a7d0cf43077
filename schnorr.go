package frost

import (
	"io"

	"github.com/pkg/errors"
)

// SchnorrProof is a proof of knowledge of the secret behind a commitment,
// bound to the prover's identifier so it cannot be replayed by another
// participant.
type SchnorrProof struct {
	R  Point
	Mu Scalar
}

// NewSchnorrProof proves knowledge of secret for commitment = secret·G.
func NewSchnorrProof(cs *Ciphersuite, rand io.Reader, id Identifier, secret Scalar, commitment Point) (*SchnorrProof, error) {
	// Generate random nonce
	nonce, err := cs.curve.ScalarRandom(rand)
	if err != nil {
		return nil, errors.Wrap(err, "generate proof nonce")
	}
	defer nonce.Zeroize()

	// Compute commitment: R = k·G
	r := cs.curve.BasePoint().Mul(nonce)

	challenge, err := computeSchnorrChallenge(cs, id, commitment, r)
	if err != nil {
		return nil, err
	}

	// Compute response: μ = k + c·a0
	return &SchnorrProof{
		R:  r,
		Mu: nonce.Add(challenge.Mul(secret)),
	}, nil
}

// Verify checks R == μ·G - c·commitment.
func (sp *SchnorrProof) Verify(cs *Ciphersuite, id Identifier, commitment Point) error {
	if sp == nil || sp.R == nil || sp.Mu == nil || commitment == nil {
		return ErrInvalidProof.WithParticipant(id).WithDetails("incomplete proof")
	}

	challenge, err := computeSchnorrChallenge(cs, id, commitment, sp.R)
	if err != nil {
		return err
	}

	expected := cs.curve.BasePoint().Mul(sp.Mu).Sub(commitment.Mul(challenge))
	if !expected.Equal(sp.R) {
		return ErrInvalidProof.WithParticipant(id)
	}
	return nil
}

// computeSchnorrChallenge computes c = HDKG(id || C0 || R).
func computeSchnorrChallenge(cs *Ciphersuite, id Identifier, commitment, r Point) (Scalar, error) {
	transcript := make([]byte, 0, cs.curve.ScalarSize()+2*cs.curve.PointSize())
	transcript = append(transcript, id.Bytes()...)
	transcript = append(transcript, commitment.Bytes()...)
	transcript = append(transcript, r.Bytes()...)

	challenge, err := cs.hasher.HDKG(transcript)
	if err != nil {
		return nil, errors.Wrap(err, "compute proof challenge")
	}
	return challenge, nil
}
