package frost

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Secp256k1Curve implements the Curve interface for secp256k1.
// Points use the 33-byte compressed SEC1 encoding and scalars are 32-byte
// big-endian integers below the group order.
type Secp256k1Curve struct{}

// NewSecp256k1Curve creates a new secp256k1 curve instance
func NewSecp256k1Curve() *Secp256k1Curve {
	return &Secp256k1Curve{}
}

func (c *Secp256k1Curve) Name() string       { return "secp256k1" }
func (c *Secp256k1Curve) ScalarSize() int    { return 32 }
func (c *Secp256k1Curve) PointSize() int     { return 33 } // Compressed
func (c *Secp256k1Curve) LittleEndian() bool { return false }

func (c *Secp256k1Curve) ScalarFromBytes(data []byte) (Scalar, error) {
	if len(data) != 32 {
		return nil, ErrInvalidEncoding.WithDetails("secp256k1 scalar must be 32 bytes")
	}

	scalar := new(btcec.ModNScalar)
	if overflow := scalar.SetBytes((*[32]byte)(data)); overflow != 0 {
		return nil, ErrInvalidEncoding.WithDetails("secp256k1 scalar exceeds group order")
	}

	return &Secp256k1Scalar{inner: scalar}, nil
}

// ScalarFromUniformBytes interprets data as a big-endian integer and reduces
// it modulo the group order.
func (c *Secp256k1Curve) ScalarFromUniformBytes(data []byte) (Scalar, error) {
	if len(data) < 32 || len(data) > 64 {
		return nil, ErrInvalidEncoding.WithDetails("uniform input must be 32 to 64 bytes")
	}

	reduced := new(big.Int).SetBytes(data)
	reduced.Mod(reduced, btcec.S256().Params().N)

	var buf [32]byte
	reduced.FillBytes(buf[:])
	scalar := new(btcec.ModNScalar)
	scalar.SetBytes(&buf)
	ZeroizeBytes(buf[:])
	return &Secp256k1Scalar{inner: scalar}, nil
}

func (c *Secp256k1Curve) ScalarFromUint64(v uint64) Scalar {
	var buf [32]byte
	binary.BigEndian.PutUint64(buf[24:], v)
	scalar := new(btcec.ModNScalar)
	scalar.SetBytes(&buf)
	return &Secp256k1Scalar{inner: scalar}
}

func (c *Secp256k1Curve) ScalarRandom(r io.Reader) (Scalar, error) {
	for {
		bytes, err := secureRandom(r, 32)
		if err != nil {
			return nil, err
		}

		scalar := new(btcec.ModNScalar)
		overflow := scalar.SetBytes((*[32]byte)(bytes))
		ZeroizeBytes(bytes)
		if overflow == 0 && !scalar.IsZero() {
			return &Secp256k1Scalar{inner: scalar}, nil
		}
		// If overflow, try again with new random bytes
	}
}

func (c *Secp256k1Curve) ScalarZero() Scalar {
	return &Secp256k1Scalar{inner: new(btcec.ModNScalar)}
}

func (c *Secp256k1Curve) ScalarOne() Scalar {
	scalar := new(btcec.ModNScalar)
	scalar.SetInt(1)
	return &Secp256k1Scalar{inner: scalar}
}

// PointFromBytes accepts only compressed encodings of non-identity points.
func (c *Secp256k1Curve) PointFromBytes(data []byte) (Point, error) {
	if len(data) != 33 {
		return nil, ErrInvalidEncoding.WithDetails("secp256k1 point must be 33 bytes")
	}

	pubKey, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, ErrInvalidEncoding.WithCause(err)
	}

	p := &Secp256k1Point{}
	pubKey.AsJacobian(&p.inner)
	return p, nil
}

func (c *Secp256k1Curve) BasePoint() Point {
	p := &Secp256k1Point{}
	btcec.Generator().AsJacobian(&p.inner)
	return p
}

func (c *Secp256k1Curve) PointIdentity() Point {
	// Point at infinity
	return &Secp256k1Point{}
}

// Secp256k1Scalar implements the Scalar interface
type Secp256k1Scalar struct {
	inner *btcec.ModNScalar
}

func (s *Secp256k1Scalar) Bytes() []byte {
	var bytes [32]byte
	s.inner.PutBytes(&bytes)
	return bytes[:]
}

func (s *Secp256k1Scalar) String() string {
	return hex.EncodeToString(s.Bytes())
}

func (s *Secp256k1Scalar) Add(other Scalar) Scalar {
	result := new(btcec.ModNScalar)
	result.Add2(s.inner, other.(*Secp256k1Scalar).inner)
	return &Secp256k1Scalar{inner: result}
}

func (s *Secp256k1Scalar) Sub(other Scalar) Scalar {
	negated := new(btcec.ModNScalar).NegateVal(other.(*Secp256k1Scalar).inner)
	result := new(btcec.ModNScalar)
	result.Add2(s.inner, negated)
	return &Secp256k1Scalar{inner: result}
}

func (s *Secp256k1Scalar) Mul(other Scalar) Scalar {
	result := new(btcec.ModNScalar)
	result.Mul2(s.inner, other.(*Secp256k1Scalar).inner)
	return &Secp256k1Scalar{inner: result}
}

func (s *Secp256k1Scalar) Negate() Scalar {
	result := new(btcec.ModNScalar)
	result.NegateVal(s.inner)
	return &Secp256k1Scalar{inner: result}
}

func (s *Secp256k1Scalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, ErrInvalidScalar.WithDetails("cannot invert zero scalar")
	}

	result := new(btcec.ModNScalar)
	// WARNING: Using non-constant-time scalar inversion which may leak timing information.
	// btcec/v2 does not provide constant-time scalar inversion. Inversion is only
	// applied to public values (identifier differences) by this package.
	result.InverseValNonConst(s.inner)
	return &Secp256k1Scalar{inner: result}, nil
}

func (s *Secp256k1Scalar) Equal(other Scalar) bool {
	return s.inner.Equals(other.(*Secp256k1Scalar).inner)
}

func (s *Secp256k1Scalar) IsZero() bool {
	return s.inner.IsZero()
}

func (s *Secp256k1Scalar) Zeroize() {
	s.inner.Zero()
}

// Secp256k1Point implements the Point interface. The inner point is kept in
// affine form (Z = 1) so that coordinates can be compared directly; the
// identity is the all-zero point.
type Secp256k1Point struct {
	inner btcec.JacobianPoint
}

func newSecp256k1Point(jac *btcec.JacobianPoint) *Secp256k1Point {
	if (jac.X.IsZero() && jac.Y.IsZero()) || jac.Z.IsZero() {
		return &Secp256k1Point{}
	}
	jac.ToAffine()
	return &Secp256k1Point{inner: *jac}
}

func (p *Secp256k1Point) Bytes() []byte {
	if p.IsIdentity() {
		return make([]byte, 33) // Point at infinity
	}
	return btcec.NewPublicKey(&p.inner.X, &p.inner.Y).SerializeCompressed()
}

func (p *Secp256k1Point) String() string {
	return hex.EncodeToString(p.Bytes())
}

func (p *Secp256k1Point) Add(other Point) Point {
	var result btcec.JacobianPoint
	// WARNING: Using non-constant-time point addition which may leak timing information.
	// btcec/v2 does not provide constant-time point addition. For high-security environments:
	// 1. Use Ed25519 curve which provides constant-time operations
	// 2. Deploy behind network protections to mitigate timing attacks
	btcec.AddNonConst(&p.inner, &other.(*Secp256k1Point).inner, &result)
	return newSecp256k1Point(&result)
}

func (p *Secp256k1Point) Sub(other Point) Point {
	return p.Add(other.Negate())
}

func (p *Secp256k1Point) Mul(scalar Scalar) Point {
	if p.IsIdentity() {
		return &Secp256k1Point{}
	}

	k := scalar.(*Secp256k1Scalar).inner
	point := p.inner

	var result btcec.JacobianPoint
	// WARNING: Using non-constant-time scalar multiplication which may leak timing information.
	// btcec/v2 does not provide constant-time scalar multiplication. For high-security environments:
	// 1. Use Ed25519 curve which provides constant-time operations
	// 2. Deploy behind network protections to mitigate timing attacks
	btcec.ScalarMultNonConst(k, &point, &result)
	return newSecp256k1Point(&result)
}

func (p *Secp256k1Point) Negate() Point {
	if p.IsIdentity() {
		return &Secp256k1Point{}
	}

	result := p.inner
	// Negate Y coordinate
	result.Y.Negate(1).Normalize()
	return &Secp256k1Point{inner: result}
}

// ClearCofactor is the identity map: secp256k1 has cofactor 1.
func (p *Secp256k1Point) ClearCofactor() Point {
	return &Secp256k1Point{inner: p.inner}
}

func (p *Secp256k1Point) Equal(other Point) bool {
	o := other.(*Secp256k1Point)
	if p.IsIdentity() || o.IsIdentity() {
		return p.IsIdentity() && o.IsIdentity()
	}
	return p.inner.X.Equals(&o.inner.X) && p.inner.Y.Equals(&o.inner.Y)
}

func (p *Secp256k1Point) IsIdentity() bool {
	return (p.inner.X.IsZero() && p.inner.Y.IsZero()) || p.inner.Z.IsZero()
}
