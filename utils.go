package frost

import (
	"crypto/subtle"
	"fmt"
)

// SecureCompare performs constant-time comparison of byte slices
func SecureCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ZeroizeBytes securely clears a byte slice
func ZeroizeBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// ZeroizeScalarSlice securely clears a slice of scalars
func ZeroizeScalarSlice(scalars []Scalar) {
	for _, scalar := range scalars {
		if scalar != nil {
			scalar.Zeroize()
		}
	}
}

// BatchInvert efficiently inverts multiple scalars using Montgomery's trick
func BatchInvert(curve Curve, scalars []Scalar) ([]Scalar, error) {
	n := len(scalars)
	if n == 0 {
		return nil, nil
	}

	// Check for zero scalars
	for i, scalar := range scalars {
		if scalar.IsZero() {
			return nil, ErrInvalidScalar.WithDetails(fmt.Sprintf("scalar at index %d is zero", i))
		}
	}

	// partials[i] = s_0 · ... · s_{i-1}
	partials := make([]Scalar, n)
	acc := curve.ScalarOne()
	for i := 0; i < n; i++ {
		partials[i] = acc
		acc = acc.Mul(scalars[i])
	}

	// Invert the final product
	accInv, err := acc.Invert()
	if err != nil {
		return nil, err
	}

	// Walk backwards peeling one factor off the inverse per step
	result := make([]Scalar, n)
	for i := n - 1; i >= 0; i-- {
		result[i] = accInv.Mul(partials[i])
		accInv = accInv.Mul(scalars[i])
	}

	return result, nil
}
