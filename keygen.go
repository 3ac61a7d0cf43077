package frost

import (
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// KeygenState is the position of a KeygenSession in the two-round protocol.
type KeygenState int

const (
	// AwaitingRound1 is the initial state: Round1 has to be called and the
	// other participants' Round1Packages processed.
	AwaitingRound1 KeygenState = iota
	// AwaitingRound2 waits for the private Round2Packages.
	AwaitingRound2
	// Complete means the session produced its key packages.
	Complete
	// Failed is terminal: a participant sent invalid data and the ceremony
	// has to be restarted without it.
	Failed
)

func (s KeygenState) String() string {
	switch s {
	case AwaitingRound1:
		return "awaiting_round1"
	case AwaitingRound2:
		return "awaiting_round2"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("KeygenState(%d)", int(s))
	}
}

// Round1Package is broadcast to every participant: the Feldman commitment
// to the sender's polynomial and a proof of knowledge of its constant term.
type Round1Package struct {
	Ciphersuite *Ciphersuite
	Commitment  VerifiableSecretSharingCommitment
	Proof       *SchnorrProof
}

// Round2Package carries the sender's polynomial evaluated at the
// recipient's identifier. It is secret and must be sent privately.
type Round2Package struct {
	Ciphersuite  *Ciphersuite
	SigningShare Scalar
}

// KeygenSession manages one participant's side of a distributed key
// generation. It is safe for concurrent use; each method consumes one
// inbound batch and emits one outbound batch.
type KeygenSession struct {
	mu sync.Mutex

	cs           *Ciphersuite
	rand         io.Reader
	self         Identifier
	participants []Identifier
	threshold    int
	state        KeygenState

	// Session state
	polynomial  *Polynomial
	round1      *Round1Package
	commitments map[Identifier]VerifiableSecretSharingCommitment
	ownShare    Scalar
}

// NewKeygenSession creates a session for self among participants with the
// given threshold. participants must include self.
func NewKeygenSession(
	cs *Ciphersuite,
	rand io.Reader,
	self Identifier,
	participants []Identifier,
	threshold int,
) (*KeygenSession, error) {
	if err := validateThreshold(threshold, len(participants)); err != nil {
		return nil, err
	}
	if err := requireDistinct(participants); err != nil {
		return nil, err
	}
	if !containsIdentifier(participants, self) {
		return nil, ErrUnknownIdentifier.WithParticipant(self).
			WithDetails("session owner is not in the participant list")
	}

	sorted := append([]Identifier(nil), participants...)
	cs.sortIdentifiers(sorted)

	return &KeygenSession{
		cs:           cs,
		rand:         rand,
		self:         self,
		participants: sorted,
		threshold:    threshold,
		state:        AwaitingRound1,
		commitments:  make(map[Identifier]VerifiableSecretSharingCommitment, len(participants)),
	}, nil
}

// State returns the current protocol state.
func (ks *KeygenSession) State() KeygenState {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	return ks.state
}

// Identifier returns the session owner's identifier.
func (ks *KeygenSession) Identifier() Identifier {
	return ks.self
}

// Round1 samples the secret polynomial and returns the package to
// broadcast. Calling it again returns the same package.
func (ks *KeygenSession) Round1() (*Round1Package, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if ks.state != AwaitingRound1 {
		return nil, ErrInvalidState.WithDetails("Round1 called in state " + ks.state.String())
	}
	if ks.round1 != nil {
		return ks.round1, nil
	}

	if ks.polynomial == nil {
		secret, err := ks.cs.curve.ScalarRandom(ks.rand)
		if err != nil {
			return nil, errors.Wrap(err, "sample polynomial secret")
		}
		// Create polynomial with secret as constant term
		polynomial, err := NewRandomPolynomial(ks.cs.curve, ks.rand, ks.threshold-1, secret)
		if err != nil {
			return nil, errors.Wrap(err, "generate polynomial")
		}
		ks.polynomial = polynomial
	}

	commitment := ks.polynomial.Commit()
	proof, err := NewSchnorrProof(ks.cs, ks.rand, ks.self, ks.polynomial.Secret(), commitment.VerifyingKey())
	if err != nil {
		return nil, errors.Wrap(err, "prove knowledge of polynomial secret")
	}

	ks.commitments[ks.self] = commitment
	ks.round1 = &Round1Package{
		Ciphersuite: ks.cs,
		Commitment:  commitment,
		Proof:       proof,
	}
	return ks.round1, nil
}

// ProcessRound1 verifies the Round1Packages of every other participant and
// returns the private Round2Package for each of them, keyed by recipient.
// The session polynomial is zeroized afterwards.
func (ks *KeygenSession) ProcessRound1(received map[Identifier]*Round1Package) (map[Identifier]*Round2Package, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	// Enforce method call order
	if ks.state != AwaitingRound1 || ks.round1 == nil {
		return nil, ErrInvalidState.WithDetails("ProcessRound1 requires Round1 and state awaiting_round1")
	}

	if err := ks.checkSenders(sortedKeys(ks.cs, received)); err != nil {
		return nil, ks.fail(ReasonInvalidProof, err)
	}

	for _, sender := range sortedKeys(ks.cs, received) {
		pkg := received[sender]
		if pkg == nil {
			return nil, ks.fail(ReasonInvalidProof, ErrInvalidProof.WithParticipant(sender).WithDetails("missing package"))
		}
		if err := ks.cs.requireSame(pkg.Ciphersuite); err != nil {
			return nil, ks.fail(ReasonInvalidProof, err)
		}
		if len(pkg.Commitment) != ks.threshold {
			return nil, ks.fail(ReasonInvalidProof, ErrInvalidCommitment.WithParticipant(sender).
				WithDetails(fmt.Sprintf("commitment has %d coefficients, want %d", len(pkg.Commitment), ks.threshold)))
		}
		// Verify proof of knowledge
		if err := pkg.Proof.Verify(ks.cs, sender, pkg.Commitment.VerifyingKey()); err != nil {
			return nil, ks.fail(ReasonInvalidProof, err)
		}
		ks.commitments[sender] = pkg.Commitment
	}

	outgoing := make(map[Identifier]*Round2Package, len(ks.participants)-1)
	for _, id := range ks.participants {
		x, err := ks.cs.scalar(id)
		if err != nil {
			return nil, err
		}
		share := ks.polynomial.Evaluate(x)
		if id == ks.self {
			ks.ownShare = share
			continue
		}
		outgoing[id] = &Round2Package{Ciphersuite: ks.cs, SigningShare: share}
	}

	ks.polynomial.Zeroize()
	ks.polynomial = nil
	ks.state = AwaitingRound2
	return outgoing, nil
}

// ProcessRound2 verifies every received evaluation against its sender's
// commitment and finalizes the key. It returns this participant's
// KeyPackage and the group's PublicKeyPackage.
func (ks *KeygenSession) ProcessRound2(received map[Identifier]*Round2Package) (*KeyPackage, *PublicKeyPackage, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	// Enforce method call order
	if ks.state != AwaitingRound2 {
		return nil, nil, ErrInvalidState.WithDetails("ProcessRound2 called in state " + ks.state.String())
	}

	if err := ks.checkSenders(sortedKeys(ks.cs, received)); err != nil {
		return nil, nil, ks.fail(ReasonShareMismatch, err)
	}

	x, err := ks.cs.scalar(ks.self)
	if err != nil {
		return nil, nil, err
	}

	// The final signing share is the sum of every participant's polynomial
	// evaluated at our identifier, our own included.
	signingShare := ks.ownShare
	g := ks.cs.curve.BasePoint()
	for _, sender := range sortedKeys(ks.cs, received) {
		pkg := received[sender]
		if pkg == nil || pkg.SigningShare == nil {
			return nil, nil, ks.fail(ReasonShareMismatch, ErrShareMismatch.WithParticipant(sender).WithDetails("missing share"))
		}
		if err := ks.cs.requireSame(pkg.Ciphersuite); err != nil {
			return nil, nil, ks.fail(ReasonShareMismatch, err)
		}
		expected := ks.commitments[sender].Evaluate(ks.cs.curve, x)
		if !g.Mul(pkg.SigningShare).Equal(expected) {
			return nil, nil, ks.fail(ReasonShareMismatch, ErrShareMismatch.WithParticipant(sender))
		}
		signingShare = signingShare.Add(pkg.SigningShare)
	}

	// Summing the commitments coefficient-wise commits to the group
	// polynomial, from which every verifying share follows.
	var group VerifiableSecretSharingCommitment
	for _, id := range ks.participants {
		if group == nil {
			group = ks.commitments[id]
			continue
		}
		group = group.add(ks.commitments[id])
	}

	pub, err := newPublicKeyPackage(ks.cs, group, ks.participants)
	if err != nil {
		return nil, nil, err
	}

	verifyingShare := g.Mul(signingShare)
	if !verifyingShare.Equal(pub.VerifyingShares[ks.self]) {
		return nil, nil, ks.fail(ReasonShareMismatch, ErrShareMismatch.WithParticipant(ks.self).
			WithDetails("derived signing share does not match group commitment"))
	}

	ks.ownShare = nil
	ks.state = Complete

	logger().Info("distributed key generation complete",
		zap.String("ciphersuite", ks.cs.ID()),
		participantField(ks.self),
		zap.Int("participants", len(ks.participants)),
		zap.Int("threshold", ks.threshold),
		zap.Stringer("verifying_key", pub.VerifyingKey),
	)
	emitKeygenComplete(ks.cs, "distributed", pub)

	return &KeyPackage{
		Ciphersuite:    ks.cs,
		Identifier:     ks.self,
		SigningShare:   signingShare,
		VerifyingShare: verifyingShare,
		VerifyingKey:   pub.VerifyingKey,
		MinSigners:     ks.threshold,
	}, pub, nil
}

// checkSenders requires exactly one package from every other participant.
func (ks *KeygenSession) checkSenders(senders []Identifier) error {
	for _, sender := range senders {
		if sender == ks.self {
			return ErrDuplicateParticipant.WithParticipant(sender).WithDetails("package from session owner")
		}
		if !containsIdentifier(ks.participants, sender) {
			return ErrUnknownIdentifier.WithParticipant(sender)
		}
	}
	for _, id := range ks.participants {
		if id != ks.self && !containsIdentifier(senders, id) {
			return ErrParticipantNotFound.WithParticipant(id)
		}
	}
	return nil
}

// fail moves the session to the terminal Failed state and wipes secrets.
func (ks *KeygenSession) fail(reason AuditEventReason, err error) error {
	ks.state = Failed
	if ks.polynomial != nil {
		ks.polynomial.Zeroize()
		ks.polynomial = nil
	}
	if ks.ownShare != nil {
		ks.ownShare.Zeroize()
		ks.ownShare = nil
	}
	reportMisbehavior(ks.cs, reason, err)
	return err
}
