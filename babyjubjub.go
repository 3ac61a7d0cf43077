package frost

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
)

// bjjOrder is the order of the Baby Jubjub prime-order subgroup.
// This is distinct from the BN254 scalar field order (Fr).
var bjjOrder *big.Int

func init() {
	curve := twistededwards.GetEdwardsCurve()
	bjjOrder = new(big.Int).Set(&curve.Order)
}

// BabyJubjubCurve implements the Curve interface for the Baby Jubjub twisted
// Edwards curve defined over the BN254 scalar field, as used by iden3 and
// Ledger. Scalars are big-endian, points use the 32-byte compressed form.
//
// Scalar arithmetic is backed by math/big and is not constant time.
type BabyJubjubCurve struct {
	base twistededwards.PointAffine
}

// NewBabyJubjubCurve creates a new Baby Jubjub curve instance
func NewBabyJubjubCurve() *BabyJubjubCurve {
	return &BabyJubjubCurve{base: twistededwards.GetEdwardsCurve().Base}
}

func (c *BabyJubjubCurve) Name() string       { return "babyjubjub" }
func (c *BabyJubjubCurve) ScalarSize() int    { return 32 }
func (c *BabyJubjubCurve) PointSize() int     { return 32 }
func (c *BabyJubjubCurve) LittleEndian() bool { return false }

// ScalarFromBytes decodes a 32-byte big-endian scalar strictly below the
// subgroup order.
func (c *BabyJubjubCurve) ScalarFromBytes(data []byte) (Scalar, error) {
	if len(data) != 32 {
		return nil, ErrInvalidEncoding.WithDetails("babyjubjub scalar must be 32 bytes")
	}
	v := new(big.Int).SetBytes(data)
	if v.Cmp(bjjOrder) >= 0 {
		return nil, ErrInvalidEncoding.WithDetails("babyjubjub scalar exceeds group order")
	}
	return &BabyJubjubScalar{inner: v}, nil
}

// ScalarFromUniformBytes interprets data as a little-endian integer and
// reduces it modulo the subgroup order.
func (c *BabyJubjubCurve) ScalarFromUniformBytes(data []byte) (Scalar, error) {
	if len(data) < 32 || len(data) > 64 {
		return nil, ErrInvalidEncoding.WithDetails("uniform input must be 32 to 64 bytes")
	}
	be := reversed(data)
	defer ZeroizeBytes(be)
	return newBabyJubjubScalar(new(big.Int).SetBytes(be)), nil
}

func (c *BabyJubjubCurve) ScalarFromUint64(v uint64) Scalar {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return newBabyJubjubScalar(new(big.Int).SetBytes(buf[:]))
}

// ScalarRandom samples 64 bytes and reduces them, which keeps the modulo bias
// negligible.
func (c *BabyJubjubCurve) ScalarRandom(r io.Reader) (Scalar, error) {
	for {
		buf, err := secureRandom(r, 64)
		if err != nil {
			return nil, err
		}
		s := newBabyJubjubScalar(new(big.Int).SetBytes(buf))
		ZeroizeBytes(buf)
		if !s.IsZero() {
			return s, nil
		}
	}
}

func (c *BabyJubjubCurve) ScalarZero() Scalar {
	return &BabyJubjubScalar{inner: new(big.Int)}
}

func (c *BabyJubjubCurve) ScalarOne() Scalar {
	return &BabyJubjubScalar{inner: big.NewInt(1)}
}

// PointFromBytes decodes a compressed point. Non-canonical encodings,
// off-curve points, points outside the prime-order subgroup and the identity
// are rejected.
func (c *BabyJubjubCurve) PointFromBytes(data []byte) (Point, error) {
	if len(data) != 32 {
		return nil, ErrInvalidEncoding.WithDetails("babyjubjub point must be 32 bytes")
	}

	var p twistededwards.PointAffine
	if _, err := p.SetBytes(data); err != nil {
		return nil, ErrInvalidEncoding.WithCause(err)
	}
	if !p.IsOnCurve() {
		return nil, ErrInvalidEncoding.WithDetails("point not on curve")
	}

	// SetBytes reduces y modulo the field and ignores the sign bit when x = 0.
	enc := p.Bytes()
	if !SecureCompare(enc[:], data) {
		return nil, ErrInvalidEncoding.WithDetails("non-canonical babyjubjub point")
	}

	if p.IsZero() {
		return nil, ErrInvalidEncoding.WithDetails("identity element")
	}

	var check twistededwards.PointAffine
	check.ScalarMultiplication(&p, bjjOrder)
	if !check.IsZero() {
		return nil, ErrInvalidEncoding.WithDetails("point not in prime-order subgroup")
	}

	return &BabyJubjubPoint{inner: p}, nil
}

func (c *BabyJubjubCurve) BasePoint() Point {
	var p BabyJubjubPoint
	p.inner.Set(&c.base)
	return &p
}

func (c *BabyJubjubCurve) PointIdentity() Point {
	var p BabyJubjubPoint
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return &p
}

// BabyJubjubScalar is an element of the Baby Jubjub scalar field, always
// kept in [0, order).
type BabyJubjubScalar struct {
	inner *big.Int
}

func newBabyJubjubScalar(v *big.Int) *BabyJubjubScalar {
	v.Mod(v, bjjOrder)
	return &BabyJubjubScalar{inner: v}
}

// Bytes returns the scalar as a 32-byte big-endian representation.
func (s *BabyJubjubScalar) Bytes() []byte {
	out := make([]byte, 32)
	s.inner.FillBytes(out)
	return out
}

func (s *BabyJubjubScalar) String() string {
	return hex.EncodeToString(s.Bytes())
}

func (s *BabyJubjubScalar) Add(other Scalar) Scalar {
	return newBabyJubjubScalar(new(big.Int).Add(s.inner, other.(*BabyJubjubScalar).inner))
}

func (s *BabyJubjubScalar) Sub(other Scalar) Scalar {
	return newBabyJubjubScalar(new(big.Int).Sub(s.inner, other.(*BabyJubjubScalar).inner))
}

func (s *BabyJubjubScalar) Mul(other Scalar) Scalar {
	return newBabyJubjubScalar(new(big.Int).Mul(s.inner, other.(*BabyJubjubScalar).inner))
}

func (s *BabyJubjubScalar) Negate() Scalar {
	return newBabyJubjubScalar(new(big.Int).Neg(s.inner))
}

// Invert returns s^(-1) mod order, or ErrInvalidScalar when s is zero.
func (s *BabyJubjubScalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, ErrInvalidScalar.WithDetails("cannot invert zero scalar")
	}
	return &BabyJubjubScalar{inner: new(big.Int).ModInverse(s.inner, bjjOrder)}, nil
}

func (s *BabyJubjubScalar) Equal(other Scalar) bool {
	return s.inner.Cmp(other.(*BabyJubjubScalar).inner) == 0
}

func (s *BabyJubjubScalar) IsZero() bool {
	return s.inner.Sign() == 0
}

// Zeroize overwrites the limbs of the big.Int before resetting it.
func (s *BabyJubjubScalar) Zeroize() {
	words := s.inner.Bits()
	for i := range words {
		words[i] = 0
	}
	s.inner.SetInt64(0)
}

// BabyJubjubPoint wraps gnark-crypto's affine point. The identity is (0, 1).
type BabyJubjubPoint struct {
	inner twistededwards.PointAffine
}

// Bytes returns the 32-byte compressed point encoding.
func (p *BabyJubjubPoint) Bytes() []byte {
	b := p.inner.Bytes()
	return b[:]
}

func (p *BabyJubjubPoint) String() string {
	return hex.EncodeToString(p.Bytes())
}

func (p *BabyJubjubPoint) Add(other Point) Point {
	var r BabyJubjubPoint
	r.inner.Add(&p.inner, &other.(*BabyJubjubPoint).inner)
	return &r
}

func (p *BabyJubjubPoint) Sub(other Point) Point {
	var neg twistededwards.PointAffine
	neg.Neg(&other.(*BabyJubjubPoint).inner)
	var r BabyJubjubPoint
	r.inner.Add(&p.inner, &neg)
	return &r
}

func (p *BabyJubjubPoint) Mul(scalar Scalar) Point {
	var r BabyJubjubPoint
	r.inner.ScalarMultiplication(&p.inner, scalar.(*BabyJubjubScalar).inner)
	return &r
}

func (p *BabyJubjubPoint) Negate() Point {
	var r BabyJubjubPoint
	r.inner.Neg(&p.inner)
	return &r
}

// ClearCofactor multiplies the point by the cofactor 8.
func (p *BabyJubjubPoint) ClearCofactor() Point {
	var r BabyJubjubPoint
	r.inner.Double(&p.inner)
	r.inner.Double(&r.inner)
	r.inner.Double(&r.inner)
	return &r
}

func (p *BabyJubjubPoint) Equal(other Point) bool {
	return p.inner.Equal(&other.(*BabyJubjubPoint).inner)
}

func (p *BabyJubjubPoint) IsIdentity() bool {
	return p.inner.IsZero()
}
