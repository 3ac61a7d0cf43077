package frost

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Aggregate combines the signature shares of every signer in pkg into a
// group signature. Each share is checked against the signer's verifying
// share first, so a bad share is attributed to its sender; the combined
// signature is verified before it is returned.
func Aggregate(pkg *SigningPackage, shares map[Identifier]*SignatureShare, pub *PublicKeyPackage) (*Signature, error) {
	if pkg == nil || pub == nil {
		return nil, ErrInvalidState.WithDetails("missing signing package or public key package")
	}
	cs := pkg.Ciphersuite
	if err := cs.requireSame(pub.Ciphersuite); err != nil {
		return nil, err
	}

	if len(shares) < pub.MinSigners {
		return nil, ErrThresholdNotMet.WithDetails(fmt.Sprintf("%d shares, need %d", len(shares), pub.MinSigners))
	}
	if err := pkg.requireSignerCount(pub.MinSigners); err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(cs, shares) {
		if _, ok := pkg.Commitment(id); !ok {
			return nil, ErrParticipantNotFound.WithParticipant(id).
				WithDetails("signature share from a signer outside the signing package")
		}
	}
	for _, id := range pkg.signers {
		if _, ok := shares[id]; !ok {
			return nil, ErrParticipantNotFound.WithParticipant(id).WithDetails("missing signature share")
		}
	}

	transcript, err := newSigningTranscript(pkg, pub.VerifyingKey)
	if err != nil {
		return nil, errors.Wrap(err, "compute signing transcript")
	}

	z := cs.curve.ScalarZero()
	for _, id := range pkg.signers {
		if err := verifyShare(cs, transcript, id, shares[id], pub); err != nil {
			reportMisbehavior(cs, ReasonInvalidShare, err)
			return nil, err
		}
		z = z.Add(shares[id].Share)
	}

	sig := &Signature{Ciphersuite: cs, R: transcript.groupCommitment, Z: z}
	if ok, err := VerifySignature(cs, sig, pkg.Message, pub.VerifyingKey); err != nil || !ok {
		failure := ErrVerificationFailed.WithDetails("aggregate signature does not verify")
		if err != nil {
			failure = failure.WithCause(err)
		}
		auditHandler().OnError(NewAuditEventBuilder(AuditEventAggregationFailure, ReasonVerification).
			WithCiphersuite(cs.ID()).
			WithError(failure).
			Build())
		return nil, failure
	}

	logger().Debug("signature aggregated",
		zap.String("ciphersuite", cs.ID()),
		zap.Int("signers", len(pkg.signers)),
		zap.Stringer("signature", sig),
	)
	return sig, nil
}

// VerifySignatureShare checks one signer's share against its verifying
// share:
//
//	z_i·G == R_i + (c·λ_i)·Y_i
func VerifySignatureShare(pkg *SigningPackage, id Identifier, share *SignatureShare, pub *PublicKeyPackage) error {
	if pkg == nil || pub == nil {
		return ErrInvalidState.WithDetails("missing signing package or public key package")
	}
	cs := pkg.Ciphersuite
	if err := cs.requireSame(pub.Ciphersuite); err != nil {
		return err
	}
	if _, ok := pkg.Commitment(id); !ok {
		return ErrParticipantNotFound.WithParticipant(id)
	}

	transcript, err := newSigningTranscript(pkg, pub.VerifyingKey)
	if err != nil {
		return errors.Wrap(err, "compute signing transcript")
	}
	return verifyShare(cs, transcript, id, share, pub)
}

func verifyShare(cs *Ciphersuite, t *signingTranscript, id Identifier, share *SignatureShare, pub *PublicKeyPackage) error {
	if share == nil || share.Share == nil {
		return ErrInvalidShare.WithParticipant(id).WithDetails("missing share")
	}
	if err := cs.requireSame(share.Ciphersuite); err != nil {
		return ErrInvalidShare.WithParticipant(id).WithCause(err)
	}
	verifyingShare, ok := pub.VerifyingShares[id]
	if !ok {
		return ErrUnknownIdentifier.WithParticipant(id).WithDetails("no verifying share")
	}

	lhs := cs.curve.BasePoint().Mul(share.Share)
	rhs := t.commitmentShares[id].Add(verifyingShare.Mul(t.challenge.Mul(t.lambdas[id])))
	if !lhs.Equal(rhs) {
		return ErrInvalidShare.WithParticipant(id)
	}
	return nil
}

// VerifySignature checks a Schnorr signature against a group verifying key.
// The check is cofactored, so it agrees with the batch-verification rule on
// curves with a cofactor:
//
//	[h](z·G) == [h](R + c·PK)
func VerifySignature(cs *Ciphersuite, sig *Signature, message []byte, verifyingKey Point) (bool, error) {
	if sig == nil || sig.R == nil || sig.Z == nil {
		return false, ErrInvalidEncoding.WithDetails("incomplete signature")
	}
	if verifyingKey == nil {
		return false, ErrInvalidEncoding.WithDetails("missing verifying key")
	}
	if sig.Ciphersuite != nil {
		if err := cs.requireSame(sig.Ciphersuite); err != nil {
			return false, err
		}
	}
	for _, p := range []Point{sig.R, verifyingKey} {
		if err := cs.requirePoint(p); err != nil {
			return false, err
		}
	}
	if err := cs.requireScalar(sig.Z); err != nil {
		return false, err
	}

	challenge, err := computeChallenge(cs, sig.R, verifyingKey, message)
	if err != nil {
		return false, err
	}

	lhs := cs.curve.BasePoint().Mul(sig.Z).ClearCofactor()
	rhs := sig.R.Add(verifyingKey.Mul(challenge)).ClearCofactor()
	return lhs.Equal(rhs), nil
}
