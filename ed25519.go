package frost

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"runtime"

	"filippo.io/edwards25519"
)

// Ed25519Curve implements the Curve interface for the prime-order subgroup
// of edwards25519. All scalar and point operations are constant time.
type Ed25519Curve struct {
	invCofactor *edwards25519.Scalar
}

// NewEd25519Curve creates a new Ed25519 curve instance
func NewEd25519Curve() *Ed25519Curve {
	eight := edwards25519.NewScalar()
	eight.SetCanonicalBytes(uint64LE(8))
	return &Ed25519Curve{invCofactor: edwards25519.NewScalar().Invert(eight)}
}

func (c *Ed25519Curve) Name() string       { return "ed25519" }
func (c *Ed25519Curve) ScalarSize() int    { return 32 }
func (c *Ed25519Curve) PointSize() int     { return 32 }
func (c *Ed25519Curve) LittleEndian() bool { return true }

func (c *Ed25519Curve) ScalarFromBytes(data []byte) (Scalar, error) {
	if len(data) != 32 {
		return nil, ErrInvalidEncoding.WithDetails("ed25519 scalar must be 32 bytes")
	}

	scalar, err := edwards25519.NewScalar().SetCanonicalBytes(data)
	if err != nil {
		return nil, ErrInvalidEncoding.WithCause(err)
	}

	return NewEd25519Scalar(scalar), nil
}

func (c *Ed25519Curve) ScalarFromUniformBytes(data []byte) (Scalar, error) {
	// Ensure we have enough bytes for uniform distribution
	if len(data) < 32 || len(data) > 64 {
		return nil, ErrInvalidEncoding.WithDetails("uniform input must be 32 to 64 bytes")
	}

	uniformBytes := make([]byte, 64)
	copy(uniformBytes, data)
	defer ZeroizeBytes(uniformBytes)

	scalar, err := edwards25519.NewScalar().SetUniformBytes(uniformBytes)
	if err != nil {
		return nil, ErrInvalidEncoding.WithCause(err)
	}
	return NewEd25519Scalar(scalar), nil
}

func (c *Ed25519Curve) ScalarFromUint64(v uint64) Scalar {
	scalar, _ := edwards25519.NewScalar().SetCanonicalBytes(uint64LE(v))
	return &Ed25519Scalar{inner: scalar}
}

func (c *Ed25519Curve) ScalarRandom(r io.Reader) (Scalar, error) {
	for {
		bytes, err := secureRandom(r, 64) // 64 bytes for uniform distribution
		if err != nil {
			return nil, err
		}

		scalar, _ := edwards25519.NewScalar().SetUniformBytes(bytes)
		ZeroizeBytes(bytes)
		if scalar.Equal(edwards25519.NewScalar()) == 0 {
			return NewEd25519Scalar(scalar), nil
		}
	}
}

// NewEd25519Scalar creates a new Ed25519Scalar with automatic cleanup via finalizer
func NewEd25519Scalar(inner *edwards25519.Scalar) *Ed25519Scalar {
	s := &Ed25519Scalar{inner: inner}
	runtime.SetFinalizer(s, (*Ed25519Scalar).finalize)
	return s
}

// finalize is called by the garbage collector as backup cleanup
func (s *Ed25519Scalar) finalize() {
	if s.inner != nil {
		s.Zeroize()
	}
}

func (c *Ed25519Curve) ScalarZero() Scalar {
	return &Ed25519Scalar{inner: edwards25519.NewScalar()}
}

func (c *Ed25519Curve) ScalarOne() Scalar {
	return c.ScalarFromUint64(1)
}

// PointFromBytes decodes a canonical point of the prime-order subgroup.
// The identity and points with a torsion component are rejected.
func (c *Ed25519Curve) PointFromBytes(data []byte) (Point, error) {
	if len(data) != 32 {
		return nil, ErrInvalidEncoding.WithDetails("ed25519 point must be 32 bytes")
	}

	point, err := new(edwards25519.Point).SetBytes(data)
	if err != nil {
		return nil, ErrInvalidEncoding.WithCause(err)
	}

	// SetBytes accepts non-canonical y coordinates.
	if !SecureCompare(point.Bytes(), data) {
		return nil, ErrInvalidEncoding.WithDetails("non-canonical ed25519 point")
	}

	if point.Equal(edwards25519.NewIdentityPoint()) == 1 {
		return nil, ErrInvalidEncoding.WithDetails("identity element")
	}

	// P is torsion free iff P == [1/8]([8]P).
	cleared := edwards25519.NewIdentityPoint().MultByCofactor(point)
	if edwards25519.NewIdentityPoint().ScalarMult(c.invCofactor, cleared).Equal(point) != 1 {
		return nil, ErrInvalidEncoding.WithDetails("point not in prime-order subgroup")
	}

	return &Ed25519Point{inner: point}, nil
}

func (c *Ed25519Curve) BasePoint() Point {
	return &Ed25519Point{inner: edwards25519.NewGeneratorPoint()}
}

func (c *Ed25519Curve) PointIdentity() Point {
	return &Ed25519Point{inner: edwards25519.NewIdentityPoint()}
}

// Ed25519Scalar implements the Scalar interface
type Ed25519Scalar struct {
	inner *edwards25519.Scalar
}

func (s *Ed25519Scalar) Bytes() []byte {
	return s.inner.Bytes()
}

func (s *Ed25519Scalar) String() string {
	return hex.EncodeToString(s.Bytes())
}

func (s *Ed25519Scalar) Add(other Scalar) Scalar {
	result := edwards25519.NewScalar()
	result.Add(s.inner, other.(*Ed25519Scalar).inner)
	return NewEd25519Scalar(result)
}

func (s *Ed25519Scalar) Sub(other Scalar) Scalar {
	result := edwards25519.NewScalar()
	result.Subtract(s.inner, other.(*Ed25519Scalar).inner)
	return NewEd25519Scalar(result)
}

func (s *Ed25519Scalar) Mul(other Scalar) Scalar {
	result := edwards25519.NewScalar()
	result.Multiply(s.inner, other.(*Ed25519Scalar).inner)
	return NewEd25519Scalar(result)
}

func (s *Ed25519Scalar) Negate() Scalar {
	result := edwards25519.NewScalar()
	result.Negate(s.inner)
	return NewEd25519Scalar(result)
}

func (s *Ed25519Scalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, ErrInvalidScalar.WithDetails("cannot invert zero scalar")
	}

	result := edwards25519.NewScalar()
	result.Invert(s.inner)
	return NewEd25519Scalar(result), nil
}

func (s *Ed25519Scalar) Equal(other Scalar) bool {
	return s.inner.Equal(other.(*Ed25519Scalar).inner) == 1
}

func (s *Ed25519Scalar) IsZero() bool {
	return s.inner.Equal(edwards25519.NewScalar()) == 1
}

func (s *Ed25519Scalar) Zeroize() {
	s.inner = edwards25519.NewScalar()
	runtime.SetFinalizer(s, nil)
}

// Ed25519Point implements the Point interface
type Ed25519Point struct {
	inner *edwards25519.Point
}

func (p *Ed25519Point) Bytes() []byte {
	return p.inner.Bytes()
}

func (p *Ed25519Point) String() string {
	return hex.EncodeToString(p.Bytes())
}

func (p *Ed25519Point) Add(other Point) Point {
	result := edwards25519.NewIdentityPoint()
	result.Add(p.inner, other.(*Ed25519Point).inner)
	return &Ed25519Point{inner: result}
}

func (p *Ed25519Point) Sub(other Point) Point {
	result := edwards25519.NewIdentityPoint()
	result.Subtract(p.inner, other.(*Ed25519Point).inner)
	return &Ed25519Point{inner: result}
}

func (p *Ed25519Point) Mul(scalar Scalar) Point {
	result := edwards25519.NewIdentityPoint()
	result.ScalarMult(scalar.(*Ed25519Scalar).inner, p.inner)
	return &Ed25519Point{inner: result}
}

func (p *Ed25519Point) Negate() Point {
	result := edwards25519.NewIdentityPoint()
	result.Negate(p.inner)
	return &Ed25519Point{inner: result}
}

func (p *Ed25519Point) ClearCofactor() Point {
	result := edwards25519.NewIdentityPoint()
	result.MultByCofactor(p.inner)
	return &Ed25519Point{inner: result}
}

func (p *Ed25519Point) Equal(other Point) bool {
	return p.inner.Equal(other.(*Ed25519Point).inner) == 1
}

func (p *Ed25519Point) IsIdentity() bool {
	return p.inner.Equal(edwards25519.NewIdentityPoint()) == 1
}

func uint64LE(v uint64) []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}
