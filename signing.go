package frost

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SigningPackage is what the coordinator sends every selected signer for
// round two: the message and the commitments of all signers taking part.
type SigningPackage struct {
	Ciphersuite *Ciphersuite
	Message     []byte

	commitments map[Identifier]*SigningCommitments
	signers     []Identifier
}

// NewSigningPackage validates the commitments and fixes the signer set.
// The message is copied.
func NewSigningPackage(cs *Ciphersuite, message []byte, commitments map[Identifier]*SigningCommitments) (*SigningPackage, error) {
	if len(commitments) == 0 {
		return nil, ErrThresholdNotMet.WithDetails("no signing commitments")
	}
	if len(commitments) > maxParticipants {
		return nil, ErrTooManySigners.WithDetails(fmt.Sprintf("%d commitments", len(commitments)))
	}

	signers := sortedKeys(cs, commitments)
	for _, id := range signers {
		if id.IsZero() {
			return nil, ErrInvalidScalar.WithDetails("identifier must be non-zero")
		}
		c := commitments[id]
		if c == nil || c.Hiding == nil || c.Binding == nil {
			return nil, ErrInvalidCommitment.WithParticipant(id).WithDetails("missing commitment")
		}
		if err := cs.requireSame(c.Ciphersuite); err != nil {
			return nil, err
		}
		if c.Hiding.IsIdentity() || c.Binding.IsIdentity() {
			return nil, ErrInvalidCommitment.WithParticipant(id).WithDetails("commitment is the identity")
		}
	}

	copied := make(map[Identifier]*SigningCommitments, len(commitments))
	for id, c := range commitments {
		copied[id] = c
	}

	return &SigningPackage{
		Ciphersuite: cs,
		Message:     append([]byte{}, message...),
		commitments: copied,
		signers:     signers,
	}, nil
}

// Signers returns the participating identifiers in canonical order.
func (p *SigningPackage) Signers() []Identifier {
	return append([]Identifier(nil), p.signers...)
}

// Commitment returns the commitments published by id.
func (p *SigningPackage) Commitment(id Identifier) (*SigningCommitments, bool) {
	c, ok := p.commitments[id]
	return c, ok
}

// Commitments returns a copy of every signer's commitments.
func (p *SigningPackage) Commitments() map[Identifier]*SigningCommitments {
	out := make(map[Identifier]*SigningCommitments, len(p.commitments))
	for id, c := range p.commitments {
		out[id] = c
	}
	return out
}

// requireSignerCount checks the signer set size against the threshold.
func (p *SigningPackage) requireSignerCount(minSigners int) error {
	switch n := len(p.signers); {
	case n < minSigners:
		return ErrThresholdNotMet.WithDetails(fmt.Sprintf("%d signers, need %d", n, minSigners))
	case n > minSigners:
		return ErrTooManySigners.WithDetails(fmt.Sprintf("%d signers, want exactly %d", n, minSigners))
	}
	return nil
}

// SignatureShare is one signer's round-two output z_i.
type SignatureShare struct {
	Ciphersuite *Ciphersuite
	Share       Scalar
}

// Sign runs round two for the signer holding kp. The nonces are consumed
// whether or not signing succeeds past that point and must not be used
// again.
func Sign(pkg *SigningPackage, nonces *SigningNonces, kp *KeyPackage) (*SignatureShare, error) {
	if pkg == nil || nonces == nil || kp == nil {
		return nil, ErrInvalidState.WithDetails("missing signing package, nonces or key package")
	}
	cs := pkg.Ciphersuite
	if err := cs.requireSame(kp.Ciphersuite); err != nil {
		return nil, err
	}
	if err := cs.requireSame(nonces.cs); err != nil {
		return nil, err
	}

	if err := pkg.requireSignerCount(kp.MinSigners); err != nil {
		return nil, err
	}

	own, ok := pkg.Commitment(kp.Identifier)
	if !ok {
		return nil, ErrParticipantNotFound.WithParticipant(kp.Identifier).
			WithDetails("signer has no commitment in the signing package")
	}
	if !own.Equal(nonces.Commitments()) {
		return nil, ErrInvalidCommitment.WithParticipant(kp.Identifier).
			WithDetails("signing package commitment does not match local nonces")
	}

	hiding, binding, err := nonces.consume()
	if err != nil {
		logger().Error("signing nonces reused", participantField(kp.Identifier))
		return nil, err
	}
	defer hiding.Zeroize()
	defer binding.Zeroize()

	transcript, err := newSigningTranscript(pkg, kp.VerifyingKey)
	if err != nil {
		return nil, errors.Wrap(err, "compute signing transcript")
	}

	// z_i = d_i + e_i·ρ_i + λ_i·s_i·c
	rho := transcript.bindingFactors[kp.Identifier]
	lambda := transcript.lambdas[kp.Identifier]
	z := hiding.
		Add(binding.Mul(rho)).
		Add(lambda.Mul(kp.SigningShare).Mul(transcript.challenge))

	logger().Debug("signature share computed",
		zap.String("ciphersuite", cs.ID()),
		participantField(kp.Identifier),
		zap.Int("signers", len(pkg.signers)),
	)

	return &SignatureShare{Ciphersuite: cs, Share: z}, nil
}
