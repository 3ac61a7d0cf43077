package frost

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"reflect"
	"sync"

	fieldhash "github.com/consensys/gnark-crypto/field/hash"
	"golang.org/x/crypto/blake2b"
)

// Ciphersuite identifiers. The identifier doubles as the context string
// prefixed to every domain-separated hash.
const (
	Ed25519SHA512ID      = "FROST-ED25519-SHA512-v1"
	Secp256k1SHA256ID    = "FROST-secp256k1-SHA256-v1"
	BabyJubjubBlake512ID = "FROST-EDBABYJUJUB-BLAKE512-v1"
)

// Hash domain tags.
const (
	tagRho   = "rho"
	tagChal  = "chal"
	tagNonce = "nonce"
	tagMsg   = "msg"
	tagCom   = "com"
	tagDKG   = "dkg"
	tagID    = "id"
)

// Hasher defines the hash operations required by FROST.
// Each hash-to-scalar is domain separated by the ciphersuite context
// string and a per-purpose tag.
type Hasher interface {
	// H1 computes a signer's binding factor.
	H1(m []byte) (Scalar, error)
	// H2 computes the Schnorr challenge.
	H2(m []byte) (Scalar, error)
	// H3 derives a signing nonce.
	H3(m []byte) (Scalar, error)
	// H4 hashes the message for binding factor input.
	H4(m []byte) []byte
	// H5 hashes the encoded commitment list.
	H5(m []byte) []byte
	// HDKG computes the DKG proof of knowledge challenge.
	HDKG(m []byte) (Scalar, error)
	// HID derives an identifier from arbitrary bytes.
	HID(m []byte) (Scalar, error)
}

// Ciphersuite binds a prime-order group to the hash functions and context
// string used by every protocol step. Values produced under one ciphersuite
// are rejected by operations running under another.
type Ciphersuite struct {
	id     string
	curve  Curve
	hasher Hasher
}

// NewCiphersuite assembles a ciphersuite from its parts. The built-in
// suites are returned by Ed25519SHA512, Secp256k1SHA256 and
// BabyJubjubBlake512.
func NewCiphersuite(id string, curve Curve, hasher Hasher) *Ciphersuite {
	return &Ciphersuite{id: id, curve: curve, hasher: hasher}
}

// ID returns the ciphersuite context string.
func (cs *Ciphersuite) ID() string { return cs.id }

// Curve returns the group the ciphersuite operates over.
func (cs *Ciphersuite) Curve() Curve { return cs.curve }

// Hasher returns the ciphersuite hash functions.
func (cs *Ciphersuite) Hasher() Hasher { return cs.hasher }

func (cs *Ciphersuite) String() string { return cs.id }

// requireSame fails closed when two values were produced under different
// ciphersuites.
func (cs *Ciphersuite) requireSame(other *Ciphersuite) error {
	if cs == nil || other == nil {
		return ErrCiphersuiteMismatch.WithDetails("missing ciphersuite")
	}
	if cs.id != other.id {
		return ErrCiphersuiteMismatch.WithDetails(fmt.Sprintf("%s != %s", cs.id, other.id))
	}
	return nil
}

// requirePoint fails closed when p is not an element of the ciphersuite's
// group.
func (cs *Ciphersuite) requirePoint(p Point) error {
	if cs == nil {
		return ErrCiphersuiteMismatch.WithDetails("missing ciphersuite")
	}
	if reflect.TypeOf(p) != reflect.TypeOf(cs.curve.BasePoint()) {
		return ErrCiphersuiteMismatch.WithDetails(fmt.Sprintf("point is not a %s element", cs.id))
	}
	return nil
}

// requireScalar fails closed when s is not a scalar of the ciphersuite's
// group.
func (cs *Ciphersuite) requireScalar(s Scalar) error {
	if cs == nil {
		return ErrCiphersuiteMismatch.WithDetails("missing ciphersuite")
	}
	if reflect.TypeOf(s) != reflect.TypeOf(cs.curve.ScalarOne()) {
		return ErrCiphersuiteMismatch.WithDetails(fmt.Sprintf("scalar is not a %s scalar", cs.id))
	}
	return nil
}

var (
	ed25519Once    sync.Once
	ed25519Suite   *Ciphersuite
	secp256k1Once  sync.Once
	secp256k1Suite *Ciphersuite
	bjjOnce        sync.Once
	bjjSuite       *Ciphersuite
)

// Ed25519SHA512 returns FROST(Ed25519, SHA-512) as defined in RFC 9591.
func Ed25519SHA512() *Ciphersuite {
	ed25519Once.Do(func() {
		curve := NewEd25519Curve()
		ed25519Suite = NewCiphersuite(Ed25519SHA512ID, curve, &prefixHasher{
			context:        Ed25519SHA512ID,
			curve:          curve,
			newHash:        sha512.New,
			plainChallenge: true,
		})
	})
	return ed25519Suite
}

// Secp256k1SHA256 returns FROST(secp256k1, SHA-256) as defined in RFC 9591.
func Secp256k1SHA256() *Ciphersuite {
	secp256k1Once.Do(func() {
		curve := NewSecp256k1Curve()
		secp256k1Suite = NewCiphersuite(Secp256k1SHA256ID, curve, &xmdHasher{
			context: Secp256k1SHA256ID,
			curve:   curve,
		})
	})
	return secp256k1Suite
}

// BabyJubjubBlake512 returns FROST over Baby Jubjub with Blake2b-512,
// compatible with the Ledger/iden3 suite.
func BabyJubjubBlake512() *Ciphersuite {
	bjjOnce.Do(func() {
		curve := NewBabyJubjubCurve()
		bjjSuite = NewCiphersuite(BabyJubjubBlake512ID, curve, &prefixHasher{
			context: BabyJubjubBlake512ID,
			curve:   curve,
			newHash: newBlake2b512,
		})
	})
	return bjjSuite
}

// CiphersuiteByID looks up a built-in ciphersuite.
func CiphersuiteByID(id string) (*Ciphersuite, error) {
	switch id {
	case Ed25519SHA512ID:
		return Ed25519SHA512(), nil
	case Secp256k1SHA256ID:
		return Secp256k1SHA256(), nil
	case BabyJubjubBlake512ID:
		return BabyJubjubBlake512(), nil
	default:
		return nil, ErrCiphersuiteMismatch.WithDetails(fmt.Sprintf("unknown ciphersuite %q", id))
	}
}

// SupportedCiphersuites lists the built-in ciphersuite identifiers.
func SupportedCiphersuites() []string {
	return []string{Ed25519SHA512ID, Secp256k1SHA256ID, BabyJubjubBlake512ID}
}

func newBlake2b512() hash.Hash {
	h, _ := blake2b.New512(nil) // only fails for keys longer than 64 bytes
	return h
}

// prefixHasher computes H(context || tag || m) and reduces the digest as a
// little-endian integer. With plainChallenge set, H2 is H(m) with no
// prefix, as Ed25519 verification requires.
type prefixHasher struct {
	context        string
	curve          Curve
	newHash        func() hash.Hash
	plainChallenge bool
}

func (h *prefixHasher) digest(tag string, m []byte) []byte {
	hasher := h.newHash()
	hasher.Write([]byte(h.context))
	hasher.Write([]byte(tag))
	hasher.Write(m)
	return hasher.Sum(nil)
}

func (h *prefixHasher) toScalar(tag string, m []byte) (Scalar, error) {
	return h.curve.ScalarFromUniformBytes(h.digest(tag, m))
}

func (h *prefixHasher) H1(m []byte) (Scalar, error) { return h.toScalar(tagRho, m) }

func (h *prefixHasher) H2(m []byte) (Scalar, error) {
	if h.plainChallenge {
		hasher := h.newHash()
		hasher.Write(m)
		return h.curve.ScalarFromUniformBytes(hasher.Sum(nil))
	}
	return h.toScalar(tagChal, m)
}

func (h *prefixHasher) H3(m []byte) (Scalar, error)   { return h.toScalar(tagNonce, m) }
func (h *prefixHasher) H4(m []byte) []byte            { return h.digest(tagMsg, m) }
func (h *prefixHasher) H5(m []byte) []byte            { return h.digest(tagCom, m) }
func (h *prefixHasher) HDKG(m []byte) (Scalar, error) { return h.toScalar(tagDKG, m) }
func (h *prefixHasher) HID(m []byte) (Scalar, error)  { return h.toScalar(tagID, m) }

// xmdHasher implements hash_to_field from RFC 9380 with
// expand_message_xmd(SHA-256), L = 48 and DST = context || tag. The
// expanded bytes are reduced as a big-endian integer.
type xmdHasher struct {
	context string
	curve   Curve
}

const xmdFieldLen = 48

func (h *xmdHasher) toScalar(tag string, m []byte) (Scalar, error) {
	uniform, err := fieldhash.ExpandMsgXmd(m, []byte(h.context+tag), xmdFieldLen)
	if err != nil {
		return nil, ErrHashComputation.WithCause(err)
	}
	return h.curve.ScalarFromUniformBytes(uniform)
}

func (h *xmdHasher) digest(tag string, m []byte) []byte {
	hasher := sha256.New()
	hasher.Write([]byte(h.context))
	hasher.Write([]byte(tag))
	hasher.Write(m)
	return hasher.Sum(nil)
}

func (h *xmdHasher) H1(m []byte) (Scalar, error)   { return h.toScalar(tagRho, m) }
func (h *xmdHasher) H2(m []byte) (Scalar, error)   { return h.toScalar(tagChal, m) }
func (h *xmdHasher) H3(m []byte) (Scalar, error)   { return h.toScalar(tagNonce, m) }
func (h *xmdHasher) H4(m []byte) []byte            { return h.digest(tagMsg, m) }
func (h *xmdHasher) H5(m []byte) []byte            { return h.digest(tagCom, m) }
func (h *xmdHasher) HDKG(m []byte) (Scalar, error) { return h.toScalar(tagDKG, m) }
func (h *xmdHasher) HID(m []byte) (Scalar, error)  { return h.toScalar(tagID, m) }
