package frost

import (
	"encoding/hex"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// wireVersion is written into every JSON package header.
const wireVersion = 1

// Fixed-width encodings

// Bytes encodes the signature as R || z.
func (s *Signature) Bytes() []byte {
	out := append([]byte{}, s.R.Bytes()...)
	return append(out, s.Z.Bytes()...)
}

// ParseSignature decodes R || z.
func (cs *Ciphersuite) ParseSignature(data []byte) (*Signature, error) {
	ps, ss := cs.curve.PointSize(), cs.curve.ScalarSize()
	if len(data) != ps+ss {
		return nil, ErrInvalidEncoding.WithDetails(fmt.Sprintf("signature must be %d bytes, got %d", ps+ss, len(data)))
	}
	r, err := cs.curve.PointFromBytes(data[:ps])
	if err != nil {
		return nil, err
	}
	z, err := cs.curve.ScalarFromBytes(data[ps:])
	if err != nil {
		return nil, err
	}
	return &Signature{Ciphersuite: cs, R: r, Z: z}, nil
}

// Bytes encodes the commitments as D || E.
func (c *SigningCommitments) Bytes() []byte {
	out := append([]byte{}, c.Hiding.Bytes()...)
	return append(out, c.Binding.Bytes()...)
}

// ParseSigningCommitments decodes D || E.
func (cs *Ciphersuite) ParseSigningCommitments(data []byte) (*SigningCommitments, error) {
	ps := cs.curve.PointSize()
	if len(data) != 2*ps {
		return nil, ErrInvalidEncoding.WithDetails(fmt.Sprintf("signing commitments must be %d bytes, got %d", 2*ps, len(data)))
	}
	hiding, err := cs.curve.PointFromBytes(data[:ps])
	if err != nil {
		return nil, err
	}
	binding, err := cs.curve.PointFromBytes(data[ps:])
	if err != nil {
		return nil, err
	}
	return &SigningCommitments{Ciphersuite: cs, Hiding: hiding, Binding: binding}, nil
}

// Bytes encodes the share scalar.
func (s *SignatureShare) Bytes() []byte {
	return s.Share.Bytes()
}

// ParseSignatureShare decodes a share scalar.
func (cs *Ciphersuite) ParseSignatureShare(data []byte) (*SignatureShare, error) {
	z, err := cs.curve.ScalarFromBytes(data)
	if err != nil {
		return nil, err
	}
	return &SignatureShare{Ciphersuite: cs, Share: z}, nil
}

// Bytes concatenates the coefficient commitments.
func (c VerifiableSecretSharingCommitment) Bytes() []byte {
	var out []byte
	for _, p := range c {
		out = append(out, p.Bytes()...)
	}
	return out
}

// ParseVerifiableSecretSharingCommitment decodes concatenated coefficient
// commitments.
func (cs *Ciphersuite) ParseVerifiableSecretSharingCommitment(data []byte) (VerifiableSecretSharingCommitment, error) {
	ps := cs.curve.PointSize()
	if len(data) == 0 || len(data)%ps != 0 {
		return nil, ErrInvalidEncoding.WithDetails(fmt.Sprintf("commitment length %d is not a multiple of %d", len(data), ps))
	}
	commitment := make(VerifiableSecretSharingCommitment, 0, len(data)/ps)
	for off := 0; off < len(data); off += ps {
		p, err := cs.curve.PointFromBytes(data[off : off+ps])
		if err != nil {
			return nil, err
		}
		commitment = append(commitment, p)
	}
	return commitment, nil
}

// JSON packages

type wireHeader struct {
	Version     int    `json:"version"`
	Ciphersuite string `json:"ciphersuite"`
}

func (cs *Ciphersuite) header() wireHeader {
	return wireHeader{Version: wireVersion, Ciphersuite: cs.id}
}

// checkHeader fails closed on foreign ciphersuites and unknown versions.
func (cs *Ciphersuite) checkHeader(h wireHeader) error {
	if h.Ciphersuite != cs.id {
		return ErrCiphersuiteMismatch.WithDetails(fmt.Sprintf("package is %q, expected %q", h.Ciphersuite, cs.id))
	}
	if h.Version != wireVersion {
		return ErrInvalidEncoding.WithDetails(fmt.Sprintf("unsupported package version %d", h.Version))
	}
	return nil
}

func (cs *Ciphersuite) unmarshal(data []byte, v interface{}, h *wireHeader) error {
	if err := json.Unmarshal(data, v); err != nil {
		return ErrInvalidEncoding.WithCause(err)
	}
	return cs.checkHeader(*h)
}

func (cs *Ciphersuite) pointHex(s string) (Point, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidEncoding.WithCause(err)
	}
	return cs.curve.PointFromBytes(raw)
}

func (cs *Ciphersuite) scalarHex(s string) (Scalar, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidEncoding.WithCause(err)
	}
	defer ZeroizeBytes(raw)
	return cs.curve.ScalarFromBytes(raw)
}

type round1JSON struct {
	wireHeader
	Commitment []string `json:"commitment"`
	ProofR     string   `json:"proof_r"`
	ProofMu    string   `json:"proof_mu"`
}

func (p *Round1Package) MarshalJSON() ([]byte, error) {
	w := round1JSON{
		wireHeader: p.Ciphersuite.header(),
		Commitment: make([]string, len(p.Commitment)),
		ProofR:     p.Proof.R.String(),
		ProofMu:    p.Proof.Mu.String(),
	}
	for i, c := range p.Commitment {
		w.Commitment[i] = c.String()
	}
	return json.Marshal(w)
}

// DecodeRound1Package parses a JSON Round1Package.
func (cs *Ciphersuite) DecodeRound1Package(data []byte) (*Round1Package, error) {
	var w round1JSON
	if err := cs.unmarshal(data, &w, &w.wireHeader); err != nil {
		return nil, err
	}
	if len(w.Commitment) == 0 || len(w.Commitment) > maxParticipants {
		return nil, ErrInvalidCommitment.WithDetails(fmt.Sprintf("%d coefficients", len(w.Commitment)))
	}
	commitment := make(VerifiableSecretSharingCommitment, len(w.Commitment))
	for i, c := range w.Commitment {
		p, err := cs.pointHex(c)
		if err != nil {
			return nil, err
		}
		commitment[i] = p
	}
	r, err := cs.pointHex(w.ProofR)
	if err != nil {
		return nil, err
	}
	mu, err := cs.scalarHex(w.ProofMu)
	if err != nil {
		return nil, err
	}
	return &Round1Package{
		Ciphersuite: cs,
		Commitment:  commitment,
		Proof:       &SchnorrProof{R: r, Mu: mu},
	}, nil
}

type round2JSON struct {
	wireHeader
	SigningShare string `json:"signing_share"`
}

func (p *Round2Package) MarshalJSON() ([]byte, error) {
	return json.Marshal(round2JSON{
		wireHeader:   p.Ciphersuite.header(),
		SigningShare: p.SigningShare.String(),
	})
}

// DecodeRound2Package parses a JSON Round2Package.
func (cs *Ciphersuite) DecodeRound2Package(data []byte) (*Round2Package, error) {
	var w round2JSON
	if err := cs.unmarshal(data, &w, &w.wireHeader); err != nil {
		return nil, err
	}
	share, err := cs.scalarHex(w.SigningShare)
	if err != nil {
		return nil, err
	}
	return &Round2Package{Ciphersuite: cs, SigningShare: share}, nil
}

type commitmentsJSON struct {
	Hiding  string `json:"hiding"`
	Binding string `json:"binding"`
}

type signingCommitmentsJSON struct {
	wireHeader
	commitmentsJSON
}

func (c *SigningCommitments) wire() commitmentsJSON {
	return commitmentsJSON{Hiding: c.Hiding.String(), Binding: c.Binding.String()}
}

func (cs *Ciphersuite) commitmentsFromWire(w commitmentsJSON) (*SigningCommitments, error) {
	hiding, err := cs.pointHex(w.Hiding)
	if err != nil {
		return nil, err
	}
	binding, err := cs.pointHex(w.Binding)
	if err != nil {
		return nil, err
	}
	return &SigningCommitments{Ciphersuite: cs, Hiding: hiding, Binding: binding}, nil
}

func (c *SigningCommitments) MarshalJSON() ([]byte, error) {
	return json.Marshal(signingCommitmentsJSON{
		wireHeader:      c.Ciphersuite.header(),
		commitmentsJSON: c.wire(),
	})
}

// DecodeSigningCommitments parses JSON SigningCommitments.
func (cs *Ciphersuite) DecodeSigningCommitments(data []byte) (*SigningCommitments, error) {
	var w signingCommitmentsJSON
	if err := cs.unmarshal(data, &w, &w.wireHeader); err != nil {
		return nil, err
	}
	return cs.commitmentsFromWire(w.commitmentsJSON)
}

type signatureShareJSON struct {
	wireHeader
	Share string `json:"share"`
}

func (s *SignatureShare) MarshalJSON() ([]byte, error) {
	return json.Marshal(signatureShareJSON{
		wireHeader: s.Ciphersuite.header(),
		Share:      s.Share.String(),
	})
}

// DecodeSignatureShare parses a JSON SignatureShare.
func (cs *Ciphersuite) DecodeSignatureShare(data []byte) (*SignatureShare, error) {
	var w signatureShareJSON
	if err := cs.unmarshal(data, &w, &w.wireHeader); err != nil {
		return nil, err
	}
	z, err := cs.scalarHex(w.Share)
	if err != nil {
		return nil, err
	}
	return &SignatureShare{Ciphersuite: cs, Share: z}, nil
}

type signingPackageJSON struct {
	wireHeader
	Message     string                     `json:"message"`
	Commitments map[string]commitmentsJSON `json:"commitments"`
}

func (p *SigningPackage) MarshalJSON() ([]byte, error) {
	w := signingPackageJSON{
		wireHeader:  p.Ciphersuite.header(),
		Message:     hex.EncodeToString(p.Message),
		Commitments: make(map[string]commitmentsJSON, len(p.commitments)),
	}
	for id, c := range p.commitments {
		w.Commitments[id.String()] = c.wire()
	}
	return json.Marshal(w)
}

// DecodeSigningPackage parses a JSON SigningPackage and validates it like
// NewSigningPackage.
func (cs *Ciphersuite) DecodeSigningPackage(data []byte) (*SigningPackage, error) {
	var w signingPackageJSON
	if err := cs.unmarshal(data, &w, &w.wireHeader); err != nil {
		return nil, err
	}
	message, err := hex.DecodeString(w.Message)
	if err != nil {
		return nil, ErrInvalidEncoding.WithCause(err)
	}
	commitments := make(map[Identifier]*SigningCommitments, len(w.Commitments))
	for key, wc := range w.Commitments {
		id, err := cs.ParseIdentifierHex(key)
		if err != nil {
			return nil, err
		}
		c, err := cs.commitmentsFromWire(wc)
		if err != nil {
			return nil, err
		}
		commitments[id] = c
	}
	return NewSigningPackage(cs, message, commitments)
}

type keyPackageJSON struct {
	wireHeader
	Identifier     string `json:"identifier"`
	SigningShare   string `json:"signing_share"`
	VerifyingShare string `json:"verifying_share"`
	VerifyingKey   string `json:"verifying_key"`
	MinSigners     int    `json:"min_signers"`
}

func (kp *KeyPackage) MarshalJSON() ([]byte, error) {
	return json.Marshal(keyPackageJSON{
		wireHeader:     kp.Ciphersuite.header(),
		Identifier:     kp.Identifier.String(),
		SigningShare:   kp.SigningShare.String(),
		VerifyingShare: kp.VerifyingShare.String(),
		VerifyingKey:   kp.VerifyingKey.String(),
		MinSigners:     kp.MinSigners,
	})
}

// DecodeKeyPackage parses a JSON KeyPackage. The verifying share must match
// the signing share.
func (cs *Ciphersuite) DecodeKeyPackage(data []byte) (*KeyPackage, error) {
	var w keyPackageJSON
	if err := cs.unmarshal(data, &w, &w.wireHeader); err != nil {
		return nil, err
	}
	id, err := cs.ParseIdentifierHex(w.Identifier)
	if err != nil {
		return nil, err
	}
	if w.MinSigners < 1 || w.MinSigners > maxParticipants {
		return nil, ErrInvalidThreshold.WithDetails(fmt.Sprintf("min signers %d out of range", w.MinSigners))
	}
	share, err := cs.scalarHex(w.SigningShare)
	if err != nil {
		return nil, err
	}
	verifyingShare, err := cs.pointHex(w.VerifyingShare)
	if err != nil {
		return nil, err
	}
	verifyingKey, err := cs.pointHex(w.VerifyingKey)
	if err != nil {
		return nil, err
	}
	if !cs.curve.BasePoint().Mul(share).Equal(verifyingShare) {
		share.Zeroize()
		return nil, ErrShareMismatch.WithParticipant(id).WithDetails("verifying share does not match signing share")
	}
	return &KeyPackage{
		Ciphersuite:    cs,
		Identifier:     id,
		SigningShare:   share,
		VerifyingShare: verifyingShare,
		VerifyingKey:   verifyingKey,
		MinSigners:     w.MinSigners,
	}, nil
}

type publicKeyPackageJSON struct {
	wireHeader
	VerifyingKey    string            `json:"verifying_key"`
	VerifyingShares map[string]string `json:"verifying_shares"`
	MinSigners      int               `json:"min_signers"`
}

func (p *PublicKeyPackage) MarshalJSON() ([]byte, error) {
	w := publicKeyPackageJSON{
		wireHeader:      p.Ciphersuite.header(),
		VerifyingKey:    p.VerifyingKey.String(),
		VerifyingShares: make(map[string]string, len(p.VerifyingShares)),
		MinSigners:      p.MinSigners,
	}
	for id, share := range p.VerifyingShares {
		w.VerifyingShares[id.String()] = share.String()
	}
	return json.Marshal(w)
}

// DecodePublicKeyPackage parses a JSON PublicKeyPackage.
func (cs *Ciphersuite) DecodePublicKeyPackage(data []byte) (*PublicKeyPackage, error) {
	var w publicKeyPackageJSON
	if err := cs.unmarshal(data, &w, &w.wireHeader); err != nil {
		return nil, err
	}
	if err := validateThreshold(w.MinSigners, len(w.VerifyingShares)); err != nil {
		return nil, err
	}
	verifyingKey, err := cs.pointHex(w.VerifyingKey)
	if err != nil {
		return nil, err
	}
	shares := make(map[Identifier]Point, len(w.VerifyingShares))
	for key, s := range w.VerifyingShares {
		id, err := cs.ParseIdentifierHex(key)
		if err != nil {
			return nil, err
		}
		p, err := cs.pointHex(s)
		if err != nil {
			return nil, err
		}
		shares[id] = p
	}
	return &PublicKeyPackage{
		Ciphersuite:     cs,
		VerifyingKey:    verifyingKey,
		VerifyingShares: shares,
		MinSigners:      w.MinSigners,
	}, nil
}
