package frost

import (
	"github.com/pkg/errors"
)

// signingTranscript holds the values every signer and the aggregator derive
// identically from a SigningPackage and the group verifying key.
type signingTranscript struct {
	bindingFactors   map[Identifier]Scalar
	commitmentShares map[Identifier]Point // R_i = D_i + ρ_i·E_i
	groupCommitment  Point
	challenge        Scalar
	lambdas          map[Identifier]Scalar
}

// encodeGroupCommitmentList serializes id || D || E for every signer in
// identifier order.
func encodeGroupCommitmentList(pkg *SigningPackage) []byte {
	curve := pkg.Ciphersuite.curve
	encoded := make([]byte, 0, len(pkg.signers)*(curve.ScalarSize()+2*curve.PointSize()))
	for _, id := range pkg.signers {
		c := pkg.commitments[id]
		encoded = append(encoded, id.Bytes()...)
		encoded = append(encoded, c.Hiding.Bytes()...)
		encoded = append(encoded, c.Binding.Bytes()...)
	}
	return encoded
}

// computeBindingFactors derives ρ_i = H1(PK || H4(msg) || H5(list) || id_i)
// for every signer.
func computeBindingFactors(pkg *SigningPackage, verifyingKey Point) (map[Identifier]Scalar, error) {
	h := pkg.Ciphersuite.hasher

	prefix := append([]byte{}, verifyingKey.Bytes()...)
	prefix = append(prefix, h.H4(pkg.Message)...)
	prefix = append(prefix, h.H5(encodeGroupCommitmentList(pkg))...)

	factors := make(map[Identifier]Scalar, len(pkg.signers))
	for _, id := range pkg.signers {
		input := append(append([]byte{}, prefix...), id.Bytes()...)
		rho, err := h.H1(input)
		if err != nil {
			return nil, errors.Wrap(err, "compute binding factor")
		}
		factors[id] = rho
	}
	return factors, nil
}

// computeGroupCommitment returns every R_i and their sum R.
func computeGroupCommitment(pkg *SigningPackage, bindingFactors map[Identifier]Scalar) (map[Identifier]Point, Point) {
	shares := make(map[Identifier]Point, len(pkg.signers))
	group := pkg.Ciphersuite.curve.PointIdentity()
	for _, id := range pkg.signers {
		c := pkg.commitments[id]
		r := c.Hiding.Add(c.Binding.Mul(bindingFactors[id]))
		shares[id] = r
		group = group.Add(r)
	}
	return shares, group
}

// computeChallenge returns c = H2(R || PK || msg).
func computeChallenge(cs *Ciphersuite, r, verifyingKey Point, message []byte) (Scalar, error) {
	input := make([]byte, 0, 2*cs.curve.PointSize()+len(message))
	input = append(input, r.Bytes()...)
	input = append(input, verifyingKey.Bytes()...)
	input = append(input, message...)

	challenge, err := cs.hasher.H2(input)
	if err != nil {
		return nil, errors.Wrap(err, "compute challenge")
	}
	return challenge, nil
}

// newSigningTranscript runs steps 1 to 3 of round two.
func newSigningTranscript(pkg *SigningPackage, verifyingKey Point) (*signingTranscript, error) {
	factors, err := computeBindingFactors(pkg, verifyingKey)
	if err != nil {
		return nil, err
	}
	shares, group := computeGroupCommitment(pkg, factors)

	challenge, err := computeChallenge(pkg.Ciphersuite, group, verifyingKey, pkg.Message)
	if err != nil {
		return nil, err
	}

	lambdas, err := lagrangeCoefficients(pkg.Ciphersuite, pkg.signers)
	if err != nil {
		return nil, err
	}

	return &signingTranscript{
		bindingFactors:   factors,
		commitmentShares: shares,
		groupCommitment:  group,
		challenge:        challenge,
		lambdas:          lambdas,
	}, nil
}
