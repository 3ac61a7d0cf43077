package frost

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testSuites returns every built-in ciphersuite plus the toy group.
func testSuites() []*Ciphersuite {
	return []*Ciphersuite{Ed25519SHA512(), Secp256k1SHA256(), BabyJubjubBlake512(), toySuite()}
}

func forEachSuite(t *testing.T, fn func(t *testing.T, cs *Ciphersuite)) {
	t.Helper()
	for _, cs := range testSuites() {
		t.Run(cs.ID(), func(t *testing.T) {
			fn(t, cs)
		})
	}
}

// dealerKeys runs a trusted dealer and verifies every share.
func dealerKeys(t *testing.T, cs *Ciphersuite, n, threshold int) (map[Identifier]*KeyPackage, *PublicKeyPackage) {
	t.Helper()
	shares, pub, err := GenerateWithDealer(cs, nil, n, threshold)
	require.NoError(t, err)

	keys := make(map[Identifier]*KeyPackage, n)
	for id, share := range shares {
		kp, err := share.Verify()
		require.NoError(t, err)
		keys[id] = kp
	}
	return keys, pub
}

func identifiers(cs *Ciphersuite, ns ...uint16) []Identifier {
	ids := make([]Identifier, len(ns))
	for i, n := range ns {
		ids[i] = cs.MustIdentifier(n)
	}
	return ids
}

// commitAll runs round one for signers.
func commitAll(t *testing.T, cs *Ciphersuite, keys map[Identifier]*KeyPackage, signers []Identifier) (map[Identifier]*SigningNonces, map[Identifier]*SigningCommitments) {
	t.Helper()
	nonces := make(map[Identifier]*SigningNonces, len(signers))
	commitments := make(map[Identifier]*SigningCommitments, len(signers))
	for _, id := range signers {
		n, c, err := Commit(cs, nil, keys[id].SigningShare)
		require.NoError(t, err)
		nonces[id], commitments[id] = n, c
	}
	return nonces, commitments
}

// signAll runs both rounds for signers and returns the package and shares.
func signAll(t *testing.T, cs *Ciphersuite, keys map[Identifier]*KeyPackage, signers []Identifier, message []byte) (*SigningPackage, map[Identifier]*SignatureShare) {
	t.Helper()
	nonces, commitments := commitAll(t, cs, keys, signers)
	pkg, err := NewSigningPackage(cs, message, commitments)
	require.NoError(t, err)

	shares := make(map[Identifier]*SignatureShare, len(signers))
	for _, id := range signers {
		share, err := Sign(pkg, nonces[id], keys[id])
		require.NoError(t, err)
		shares[id] = share
	}
	return pkg, shares
}

// flipBit returns a copy of data with one bit inverted.
func flipBit(data []byte, bit int) []byte {
	out := append([]byte{}, data...)
	out[bit/8] ^= 1 << (bit % 8)
	return out
}

// failingReader is an entropy source that always errors.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errShortEntropy
}

var errShortEntropy = NewFROSTError(ErrorCategoryInternal, ErrorSeverityHigh, "TEST_ENTROPY", "entropy source exhausted")
