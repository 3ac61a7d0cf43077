package frost

import (
	"crypto/rand"
	"io"
)

// Curve defines the interface for prime-order group operations.
// Implementations must reject non-canonical and off-group encodings in
// PointFromBytes and ScalarFromBytes.
type Curve interface {
	// Metadata
	Name() string
	ScalarSize() int
	PointSize() int
	// LittleEndian reports whether canonical scalar encodings are little-endian.
	LittleEndian() bool

	// Scalar construction
	ScalarFromBytes([]byte) (Scalar, error)
	ScalarFromUniformBytes([]byte) (Scalar, error)
	ScalarFromUint64(uint64) Scalar
	ScalarRandom(io.Reader) (Scalar, error)
	ScalarZero() Scalar
	ScalarOne() Scalar

	// Point construction
	PointFromBytes([]byte) (Point, error)
	BasePoint() Point
	PointIdentity() Point
}

// Scalar is an element of the group's scalar field. Scalars are immutable:
// arithmetic returns a fresh value and never modifies the receiver.
type Scalar interface {
	// Serialization
	Bytes() []byte
	String() string

	// Arithmetic operations
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Negate() Scalar
	Invert() (Scalar, error)

	// Comparison
	Equal(Scalar) bool
	IsZero() bool

	// Security
	Zeroize()
}

// Point is an element of the prime-order group.
type Point interface {
	// Serialization
	Bytes() []byte
	String() string

	// Arithmetic operations
	Add(Point) Point
	Sub(Point) Point
	Mul(Scalar) Point
	Negate() Point
	// ClearCofactor multiplies the point by the curve cofactor.
	ClearCofactor() Point

	// Comparison
	Equal(Point) bool
	IsIdentity() bool
}

// randReader returns r, or the system CSPRNG when r is nil.
func randReader(r io.Reader) io.Reader {
	if r == nil {
		return rand.Reader
	}
	return r
}

// secureRandom reads size bytes from r.
func secureRandom(r io.Reader, size int) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(randReader(r), buf); err != nil {
		return nil, ErrRandomnessGeneration.WithCause(err)
	}
	return buf, nil
}
