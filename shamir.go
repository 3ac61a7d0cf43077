package frost

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// VerifiableSecretSharingCommitment is the Feldman commitment to a sharing
// polynomial: one point coefficient·G per coefficient, constant term first.
type VerifiableSecretSharingCommitment []Point

// VerifyingKey returns the commitment to the constant term.
func (c VerifiableSecretSharingCommitment) VerifyingKey() Point {
	if len(c) == 0 {
		return nil
	}
	return c[0]
}

// Evaluate returns Σ C_k · x^k, the public image of the committed polynomial
// at x.
func (c VerifiableSecretSharingCommitment) Evaluate(curve Curve, x Scalar) Point {
	result := curve.PointIdentity()
	power := curve.ScalarOne()
	for _, coeff := range c {
		result = result.Add(coeff.Mul(power))
		power = power.Mul(x)
	}
	return result
}

// add returns the coefficient-wise sum of two commitments of equal length.
func (c VerifiableSecretSharingCommitment) add(other VerifiableSecretSharingCommitment) VerifiableSecretSharingCommitment {
	sum := make(VerifiableSecretSharingCommitment, len(c))
	for i := range c {
		sum[i] = c[i].Add(other[i])
	}
	return sum
}

// SecretShare is one participant's evaluation of the sharing polynomial,
// together with the commitment it can be checked against.
type SecretShare struct {
	Ciphersuite  *Ciphersuite
	Identifier   Identifier
	SigningShare Scalar
	Commitment   VerifiableSecretSharingCommitment
}

// verify checks SigningShare·G against the commitment evaluated at the
// share's identifier and returns the verifying share.
func (s *SecretShare) verify() (Point, error) {
	cs := s.Ciphersuite
	if cs == nil || s.SigningShare == nil || len(s.Commitment) == 0 {
		return nil, ErrShareMismatch.WithParticipant(s.Identifier).WithDetails("incomplete secret share")
	}
	x, err := cs.scalar(s.Identifier)
	if err != nil {
		return nil, err
	}

	verifyingShare := cs.curve.BasePoint().Mul(s.SigningShare)
	expected := s.Commitment.Evaluate(cs.curve, x)
	if !verifyingShare.Equal(expected) {
		return nil, ErrShareMismatch.WithParticipant(s.Identifier)
	}
	return verifyingShare, nil
}

// Zeroize clears the signing share.
func (s *SecretShare) Zeroize() {
	if s.SigningShare != nil {
		s.SigningShare.Zeroize()
	}
}

// split evaluates a fresh random polynomial with constant term secret at
// every identifier. The caller's secret is copied and left intact.
func split(cs *Ciphersuite, rand io.Reader, secret Scalar, threshold int, identifiers []Identifier) (map[Identifier]*SecretShare, VerifiableSecretSharingCommitment, error) {
	if err := validateThreshold(threshold, len(identifiers)); err != nil {
		return nil, nil, err
	}
	if err := requireDistinct(identifiers); err != nil {
		return nil, nil, err
	}

	poly, err := NewRandomPolynomial(cs.curve, rand, threshold-1, secret.Add(cs.curve.ScalarZero()))
	if err != nil {
		return nil, nil, errors.Wrap(err, "split secret")
	}
	defer poly.Zeroize()

	return evaluateShares(cs, poly, identifiers)
}

// evaluateShares hands out poly(id) to every identifier.
func evaluateShares(cs *Ciphersuite, poly *Polynomial, identifiers []Identifier) (map[Identifier]*SecretShare, VerifiableSecretSharingCommitment, error) {
	commitment := poly.Commit()
	shares := make(map[Identifier]*SecretShare, len(identifiers))
	for _, id := range identifiers {
		x, err := cs.scalar(id)
		if err != nil {
			return nil, nil, err
		}
		shares[id] = &SecretShare{
			Ciphersuite:  cs,
			Identifier:   id,
			SigningShare: poly.Evaluate(x),
			Commitment:   commitment,
		}
	}
	return shares, commitment, nil
}

// LagrangeCoefficient computes λ_id at x = 0 over set:
//
//	λ_id = Π_{j≠id} x_j / (x_j - x_id)
//
// id must be a member of set and set must not repeat identifiers.
func LagrangeCoefficient(cs *Ciphersuite, id Identifier, set []Identifier) (Scalar, error) {
	if err := requireDistinct(set); err != nil {
		return nil, err
	}
	if !containsIdentifier(set, id) {
		return nil, ErrUnknownIdentifier.WithParticipant(id)
	}

	xi, err := cs.scalar(id)
	if err != nil {
		return nil, err
	}
	numerator := cs.curve.ScalarOne()
	denominator := cs.curve.ScalarOne()
	for _, other := range set {
		if other == id {
			continue
		}
		xj, err := cs.scalar(other)
		if err != nil {
			return nil, err
		}
		numerator = numerator.Mul(xj)
		denominator = denominator.Mul(xj.Sub(xi))
	}

	denomInv, err := denominator.Invert()
	if err != nil {
		return nil, errors.Wrap(err, "invert lagrange denominator")
	}
	return numerator.Mul(denomInv), nil
}

// lagrangeCoefficients computes every λ over set with a single inversion.
func lagrangeCoefficients(cs *Ciphersuite, set []Identifier) (map[Identifier]Scalar, error) {
	if err := requireDistinct(set); err != nil {
		return nil, err
	}

	xs := make([]Scalar, len(set))
	for i, id := range set {
		x, err := cs.scalar(id)
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}

	numerators := make([]Scalar, len(set))
	denominators := make([]Scalar, len(set))
	for i := range set {
		numerators[i] = cs.curve.ScalarOne()
		denominators[i] = cs.curve.ScalarOne()
		for j := range set {
			if i == j {
				continue
			}
			numerators[i] = numerators[i].Mul(xs[j])
			denominators[i] = denominators[i].Mul(xs[j].Sub(xs[i]))
		}
	}

	inverses, err := BatchInvert(cs.curve, denominators)
	if err != nil {
		return nil, errors.Wrap(err, "invert lagrange denominators")
	}

	coefficients := make(map[Identifier]Scalar, len(set))
	for i, id := range set {
		coefficients[id] = numerators[i].Mul(inverses[i])
	}
	return coefficients, nil
}

// Reconstruct recovers the shared secret from at least threshold shares by
// interpolating at zero. It exists to check dealer output; signing never
// reconstructs the key.
func Reconstruct(cs *Ciphersuite, shares []*SecretShare) (Scalar, error) {
	if len(shares) == 0 {
		return nil, ErrThresholdNotMet.WithDetails("no shares supplied")
	}
	threshold := len(shares[0].Commitment)
	if len(shares) < threshold {
		return nil, ErrThresholdNotMet.WithDetails(
			fmt.Sprintf("need %d shares, got %d", threshold, len(shares)))
	}

	set := make([]Identifier, len(shares))
	for i, share := range shares {
		if err := cs.requireSame(share.Ciphersuite); err != nil {
			return nil, err
		}
		set[i] = share.Identifier
	}

	lambdas, err := lagrangeCoefficients(cs, set)
	if err != nil {
		return nil, err
	}

	// Lagrange interpolation at x = 0
	secret := cs.curve.ScalarZero()
	for _, share := range shares {
		secret = secret.Add(share.SigningShare.Mul(lambdas[share.Identifier]))
	}
	return secret, nil
}

// validateThreshold enforces 1 ≤ t ≤ n ≤ maxParticipants.
func validateThreshold(threshold, participants int) error {
	if participants < 1 || participants > maxParticipants {
		return ErrInvalidThreshold.WithDetails(fmt.Sprintf("participant count %d out of range", participants))
	}
	if threshold < 1 || threshold > participants {
		return ErrInvalidThreshold.WithDetails(
			fmt.Sprintf("threshold %d must be between 1 and %d", threshold, participants))
	}
	return nil
}

// requireDistinct rejects zero and repeated identifiers.
func requireDistinct(ids []Identifier) error {
	seen := make(map[Identifier]struct{}, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			return ErrInvalidScalar.WithDetails("identifier must be non-zero")
		}
		if _, dup := seen[id]; dup {
			return ErrDuplicateParticipant.WithParticipant(id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func containsIdentifier(ids []Identifier, id Identifier) bool {
	for _, other := range ids {
		if other == id {
			return true
		}
	}
	return false
}
