package frost

import (
	"io"

	"github.com/pkg/errors"
)

// Polynomial represents a polynomial over a scalar field. The constant term
// is the shared secret; the polynomial is owned by its creator and must be
// zeroized once its evaluations have been handed out.
type Polynomial struct {
	curve        Curve
	coefficients []Scalar
}

// NewRandomPolynomial creates a new random polynomial with given degree and constant term
func NewRandomPolynomial(curve Curve, rand io.Reader, degree int, constantTerm Scalar) (*Polynomial, error) {
	if degree < 0 {
		return nil, ErrInvalidThreshold.WithDetails("degree must be non-negative")
	}

	coefficients := make([]Scalar, degree+1)
	coefficients[0] = constantTerm // a0 = constant term

	// Generate random coefficients for higher degree terms
	for i := 1; i <= degree; i++ {
		coeff, err := curve.ScalarRandom(rand)
		if err != nil {
			return nil, errors.Wrapf(err, "generate coefficient %d", i)
		}
		coefficients[i] = coeff
	}

	return &Polynomial{
		curve:        curve,
		coefficients: coefficients,
	}, nil
}

// newPolynomial wraps caller-provided coefficients, constant term first.
func newPolynomial(curve Curve, coefficients []Scalar) *Polynomial {
	return &Polynomial{curve: curve, coefficients: coefficients}
}

// Evaluate evaluates the polynomial at a given point
func (p *Polynomial) Evaluate(x Scalar) Scalar {
	if len(p.coefficients) == 0 {
		return p.curve.ScalarZero()
	}

	// Use Horner's method: f(x) = a0 + x(a1 + x(a2 + x(a3 + ...)))
	// The result never aliases a coefficient.
	result := p.curve.ScalarZero()

	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.coefficients[i])
	}

	return result
}

// Commit returns the Feldman commitment to every coefficient.
func (p *Polynomial) Commit() VerifiableSecretSharingCommitment {
	g := p.curve.BasePoint()
	commitment := make(VerifiableSecretSharingCommitment, len(p.coefficients))
	for i, coeff := range p.coefficients {
		commitment[i] = g.Mul(coeff)
	}
	return commitment
}

// Secret returns the constant term.
func (p *Polynomial) Secret() Scalar {
	return p.coefficients[0]
}

// Degree returns the degree of the polynomial
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// Zeroize securely clears the polynomial coefficients
func (p *Polynomial) Zeroize() {
	ZeroizeScalarSlice(p.coefficients)
	// Clear the slice itself
	for i := range p.coefficients {
		p.coefficients[i] = nil
	}
	p.coefficients = nil
}
