package frost

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"sync"
)

// toyCurve is the additive group of integers modulo the Ed25519 group
// order with generator 1. Discrete logs are trivial, which makes it useful
// for checking protocol algebra independently of any real curve.
type toyCurve struct{}

var toyOrder, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

const toySize = 32

func toyEncode(v *big.Int) []byte {
	buf := make([]byte, toySize)
	v.FillBytes(buf)
	return reversed(buf)
}

func toyDecode(data []byte) (*big.Int, error) {
	if len(data) != toySize {
		return nil, ErrInvalidEncoding.WithDetails(fmt.Sprintf("toy element must be %d bytes", toySize))
	}
	v := new(big.Int).SetBytes(reversed(data))
	if v.Cmp(toyOrder) >= 0 {
		return nil, ErrInvalidEncoding.WithDetails("toy element not reduced")
	}
	return v, nil
}

func toyReduce(v *big.Int) *big.Int {
	return v.Mod(v, toyOrder)
}

func (toyCurve) Name() string       { return "toy" }
func (toyCurve) ScalarSize() int    { return toySize }
func (toyCurve) PointSize() int     { return toySize }
func (toyCurve) LittleEndian() bool { return true }

func (toyCurve) ScalarFromBytes(data []byte) (Scalar, error) {
	v, err := toyDecode(data)
	if err != nil {
		return nil, err
	}
	return &toyScalar{v: v}, nil
}

func (toyCurve) ScalarFromUniformBytes(data []byte) (Scalar, error) {
	v := new(big.Int).SetBytes(reversed(data))
	return &toyScalar{v: toyReduce(v)}, nil
}

func (toyCurve) ScalarFromUint64(n uint64) Scalar {
	return &toyScalar{v: toyReduce(new(big.Int).SetUint64(n))}
}

func (c toyCurve) ScalarRandom(r io.Reader) (Scalar, error) {
	for {
		buf, err := secureRandom(r, 64)
		if err != nil {
			return nil, err
		}
		s, _ := c.ScalarFromUniformBytes(buf)
		if !s.IsZero() {
			return s, nil
		}
	}
}

func (toyCurve) ScalarZero() Scalar { return &toyScalar{v: new(big.Int)} }
func (toyCurve) ScalarOne() Scalar  { return &toyScalar{v: big.NewInt(1)} }

func (toyCurve) PointFromBytes(data []byte) (Point, error) {
	v, err := toyDecode(data)
	if err != nil {
		return nil, err
	}
	if v.Sign() == 0 {
		return nil, ErrInvalidEncoding.WithDetails("identity element")
	}
	return &toyPoint{v: v}, nil
}

func (toyCurve) BasePoint() Point     { return &toyPoint{v: big.NewInt(1)} }
func (toyCurve) PointIdentity() Point { return &toyPoint{v: new(big.Int)} }

type toyScalar struct{ v *big.Int }

func (s *toyScalar) Bytes() []byte  { return toyEncode(s.v) }
func (s *toyScalar) String() string { return hex.EncodeToString(s.Bytes()) }

func (s *toyScalar) Add(o Scalar) Scalar {
	return &toyScalar{v: toyReduce(new(big.Int).Add(s.v, o.(*toyScalar).v))}
}

func (s *toyScalar) Sub(o Scalar) Scalar {
	return &toyScalar{v: toyReduce(new(big.Int).Sub(s.v, o.(*toyScalar).v))}
}

func (s *toyScalar) Mul(o Scalar) Scalar {
	return &toyScalar{v: toyReduce(new(big.Int).Mul(s.v, o.(*toyScalar).v))}
}

func (s *toyScalar) Negate() Scalar {
	return &toyScalar{v: toyReduce(new(big.Int).Neg(s.v))}
}

func (s *toyScalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, ErrInvalidScalar.WithDetails("cannot invert zero scalar")
	}
	return &toyScalar{v: new(big.Int).ModInverse(s.v, toyOrder)}, nil
}

func (s *toyScalar) Equal(o Scalar) bool { return s.v.Cmp(o.(*toyScalar).v) == 0 }
func (s *toyScalar) IsZero() bool        { return s.v.Sign() == 0 }
func (s *toyScalar) Zeroize()            { s.v.SetInt64(0) }

type toyPoint struct{ v *big.Int }

func (p *toyPoint) Bytes() []byte  { return toyEncode(p.v) }
func (p *toyPoint) String() string { return hex.EncodeToString(p.Bytes()) }

func (p *toyPoint) Add(o Point) Point {
	return &toyPoint{v: toyReduce(new(big.Int).Add(p.v, o.(*toyPoint).v))}
}

func (p *toyPoint) Sub(o Point) Point {
	return &toyPoint{v: toyReduce(new(big.Int).Sub(p.v, o.(*toyPoint).v))}
}

func (p *toyPoint) Mul(s Scalar) Point {
	return &toyPoint{v: toyReduce(new(big.Int).Mul(p.v, s.(*toyScalar).v))}
}

func (p *toyPoint) Negate() Point {
	return &toyPoint{v: toyReduce(new(big.Int).Neg(p.v))}
}

func (p *toyPoint) ClearCofactor() Point { return p }
func (p *toyPoint) Equal(o Point) bool   { return p.v.Cmp(o.(*toyPoint).v) == 0 }
func (p *toyPoint) IsIdentity() bool     { return p.v.Sign() == 0 }

var (
	toyOnce sync.Once
	toyCS   *Ciphersuite
)

func toySuite() *Ciphersuite {
	toyOnce.Do(func() {
		const id = "FROST-TOY-SHA512-v1"
		toyCS = NewCiphersuite(id, toyCurve{}, &prefixHasher{
			context: id,
			curve:   toyCurve{},
			newHash: sha512.New,
		})
	})
	return toyCS
}
