package frost

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// GenerateWithDealer samples a random group secret and splits it into n
// shares with threshold t, identified 1..n. The dealer learns the secret;
// it is zeroized before returning.
func GenerateWithDealer(cs *Ciphersuite, rand io.Reader, n, t int) (map[Identifier]*SecretShare, *PublicKeyPackage, error) {
	if err := validateThreshold(t, n); err != nil {
		return nil, nil, err
	}

	secret, err := cs.curve.ScalarRandom(rand)
	if err != nil {
		return nil, nil, errors.Wrap(err, "sample group secret")
	}
	defer secret.Zeroize()

	ids, err := cs.Identifiers(n)
	if err != nil {
		return nil, nil, err
	}
	return SplitKey(cs, rand, secret, t, ids)
}

// SplitKey splits an existing secret into shares for the given identifiers.
func SplitKey(cs *Ciphersuite, rand io.Reader, secret Scalar, t int, identifiers []Identifier) (map[Identifier]*SecretShare, *PublicKeyPackage, error) {
	if secret == nil || secret.IsZero() {
		return nil, nil, ErrInvalidScalar.WithDetails("group secret must be non-zero")
	}

	shares, commitment, err := split(cs, rand, secret, t, identifiers)
	if err != nil {
		return nil, nil, err
	}
	return finishDealer(cs, shares, commitment, identifiers)
}

// splitPolynomial shares out a caller-built polynomial. It lets a
// distributed ceremony be replayed in dealer mode.
func splitPolynomial(cs *Ciphersuite, poly *Polynomial, identifiers []Identifier) (map[Identifier]*SecretShare, *PublicKeyPackage, error) {
	if err := validateThreshold(poly.Degree()+1, len(identifiers)); err != nil {
		return nil, nil, err
	}
	if err := requireDistinct(identifiers); err != nil {
		return nil, nil, err
	}
	shares, commitment, err := evaluateShares(cs, poly, identifiers)
	if err != nil {
		return nil, nil, err
	}
	return finishDealer(cs, shares, commitment, identifiers)
}

func finishDealer(cs *Ciphersuite, shares map[Identifier]*SecretShare, commitment VerifiableSecretSharingCommitment, identifiers []Identifier) (map[Identifier]*SecretShare, *PublicKeyPackage, error) {
	pub, err := newPublicKeyPackage(cs, commitment, identifiers)
	if err != nil {
		return nil, nil, err
	}

	logger().Debug("dealer key generation complete",
		zap.String("ciphersuite", cs.ID()),
		zap.Int("participants", len(identifiers)),
		zap.Int("threshold", len(commitment)),
		zap.Stringer("verifying_key", pub.VerifyingKey),
	)
	emitKeygenComplete(cs, "dealer", pub)
	return shares, pub, nil
}
