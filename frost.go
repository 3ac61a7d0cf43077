// Package frost implements FROST (Flexible Round-Optimized Schnorr Threshold
// signatures, RFC 9591) over pluggable prime-order groups.
//
// Keys are split with a trusted dealer (GenerateWithDealer, SplitKey) or a
// two-round distributed key generation (KeygenSession). Signing takes two
// rounds: every signer calls Commit and publishes its SigningCommitments,
// then calls Sign over the SigningPackage built from all commitments. The
// coordinator combines the shares with Aggregate, which verifies every share
// and the final signature before returning it.
//
// Only the Ed25519 ciphersuite runs in constant time. The secp256k1 suite
// uses the variable-time point arithmetic of btcec, and the Baby Jubjub
// suite uses math/big scalars and gnark-crypto's variable-time scalar
// multiplication, so both can leak signing shares and nonces through
// timing to an observer on the same host.
package frost

import (
	"fmt"
)

// maxParticipants bounds n so identifiers fit the uint16 index space.
const maxParticipants = 65535

// KeyPackage holds everything one signer needs: its identifier and signing
// share, the matching verifying share and the group verifying key.
type KeyPackage struct {
	Ciphersuite    *Ciphersuite
	Identifier     Identifier
	SigningShare   Scalar
	VerifyingShare Point
	VerifyingKey   Point
	MinSigners     int
}

// Zeroize securely clears the signing share
func (kp *KeyPackage) Zeroize() {
	if kp.SigningShare != nil {
		kp.SigningShare.Zeroize()
	}
}

// PublicKeyPackage is the public output of key generation, consumed by the
// aggregator: the group key and every participant's verifying share.
type PublicKeyPackage struct {
	Ciphersuite     *Ciphersuite
	VerifyingKey    Point
	VerifyingShares map[Identifier]Point
	MinSigners      int
}

// Verify checks a secret share against its commitment and, on success,
// builds the signer's KeyPackage. The KeyPackage owns its own copy of the
// signing share.
func (s *SecretShare) Verify() (*KeyPackage, error) {
	verifyingShare, err := s.verify()
	if err != nil {
		return nil, err
	}
	return &KeyPackage{
		Ciphersuite:    s.Ciphersuite,
		Identifier:     s.Identifier,
		SigningShare:   s.SigningShare.Add(s.Ciphersuite.curve.ScalarZero()),
		VerifyingShare: verifyingShare,
		VerifyingKey:   s.Commitment.VerifyingKey(),
		MinSigners:     len(s.Commitment),
	}, nil
}

// newPublicKeyPackage derives every verifying share from the group commitment.
func newPublicKeyPackage(cs *Ciphersuite, commitment VerifiableSecretSharingCommitment, identifiers []Identifier) (*PublicKeyPackage, error) {
	shares := make(map[Identifier]Point, len(identifiers))
	for _, id := range identifiers {
		x, err := cs.scalar(id)
		if err != nil {
			return nil, err
		}
		shares[id] = commitment.Evaluate(cs.curve, x)
	}
	return &PublicKeyPackage{
		Ciphersuite:     cs,
		VerifyingKey:    commitment.VerifyingKey(),
		VerifyingShares: shares,
		MinSigners:      len(commitment),
	}, nil
}

// Signature represents a FROST threshold signature
type Signature struct {
	Ciphersuite *Ciphersuite
	R           Point  // Commitment point
	Z           Scalar // Signature scalar
}

func (s *Signature) String() string {
	return fmt.Sprintf("Signature{R: %s, Z: %s}", s.R, s.Z)
}
