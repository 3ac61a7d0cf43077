package frost

import (
	"context"
	"crypto/ed25519"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestFROSTSigning(t *testing.T) {
	forEachSuite(t, func(t *testing.T, cs *Ciphersuite) {
		keys, pub := dealerKeys(t, cs, 5, 3)
		signers := identifiers(cs, 1, 3, 4)

		pkg, shares := signAll(t, cs, keys, signers, []byte("hello"))
		require.Equal(t, signers, pkg.Signers())

		for id, share := range shares {
			require.NoError(t, VerifySignatureShare(pkg, id, share, pub))
		}

		sig, err := Aggregate(pkg, shares, pub)
		require.NoError(t, err)

		ok, err := VerifySignature(cs, sig, []byte("hello"), pub.VerifyingKey)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = VerifySignature(cs, sig, []byte("hello!"), pub.VerifyingKey)
		require.NoError(t, err)
		require.False(t, ok)

		_, otherPub := dealerKeys(t, cs, 3, 2)
		ok, err = VerifySignature(cs, sig, []byte("hello"), otherPub.VerifyingKey)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestFROSTSigningWithDistributedKeys(t *testing.T) {
	forEachSuite(t, func(t *testing.T, cs *Ciphersuite) {
		keys, pub := runDKG(t, cs, 4, 3)
		msg := []byte("distributed")

		pkg, shares := signAll(t, cs, keys, identifiers(cs, 4, 2, 1), msg)
		sig, err := Aggregate(pkg, shares, pub)
		require.NoError(t, err)

		ok, err := VerifySignature(cs, sig, msg, pub.VerifyingKey)
		require.NoError(t, err)
		require.True(t, ok)
	})
}

func TestFROSTSingleSigner(t *testing.T) {
	forEachSuite(t, func(t *testing.T, cs *Ciphersuite) {
		keys, pub := dealerKeys(t, cs, 3, 1)
		msg := []byte("one of three")

		pkg, shares := signAll(t, cs, keys, identifiers(cs, 2), msg)
		sig, err := Aggregate(pkg, shares, pub)
		require.NoError(t, err)

		ok, err := VerifySignature(cs, sig, msg, pub.VerifyingKey)
		require.NoError(t, err)
		require.True(t, ok)
	})
}

func TestEd25519SignaturesVerifyWithStandardLibrary(t *testing.T) {
	cs := Ed25519SHA512()
	keys, pub := dealerKeys(t, cs, 5, 3)

	for _, msg := range [][]byte{[]byte("hello"), {}, make([]byte, 1024)} {
		pkg, shares := signAll(t, cs, keys, identifiers(cs, 2, 3, 5), msg)
		sig, err := Aggregate(pkg, shares, pub)
		require.NoError(t, err)

		encoded := sig.Bytes()
		require.Len(t, encoded, ed25519.SignatureSize)
		require.True(t, ed25519.Verify(ed25519.PublicKey(pub.VerifyingKey.Bytes()), msg, encoded))
		require.False(t, ed25519.Verify(ed25519.PublicKey(pub.VerifyingKey.Bytes()), append(msg, 0), encoded))
	}
}

func TestFROSTSignerCount(t *testing.T) {
	forEachSuite(t, func(t *testing.T, cs *Ciphersuite) {
		keys, pub := dealerKeys(t, cs, 5, 3)

		t.Run("below threshold", func(t *testing.T) {
			signers := identifiers(cs, 1, 3)
			nonces, commitments := commitAll(t, cs, keys, signers)
			pkg, err := NewSigningPackage(cs, []byte("hello"), commitments)
			require.NoError(t, err)

			_, err = Sign(pkg, nonces[signers[0]], keys[signers[0]])
			require.ErrorIs(t, err, ErrThresholdNotMet)
			require.False(t, nonces[signers[0]].Consumed())

			_, err = Aggregate(pkg, map[Identifier]*SignatureShare{}, pub)
			require.ErrorIs(t, err, ErrThresholdNotMet)
		})

		t.Run("above threshold", func(t *testing.T) {
			signers := identifiers(cs, 1, 2, 3, 4)
			nonces, commitments := commitAll(t, cs, keys, signers)
			pkg, err := NewSigningPackage(cs, []byte("hello"), commitments)
			require.NoError(t, err)

			_, err = Sign(pkg, nonces[signers[0]], keys[signers[0]])
			require.ErrorIs(t, err, ErrTooManySigners)

			shares := make(map[Identifier]*SignatureShare)
			for _, id := range signers {
				shares[id] = &SignatureShare{Ciphersuite: cs, Share: cs.Curve().ScalarOne()}
			}
			_, err = Aggregate(pkg, shares, pub)
			require.ErrorIs(t, err, ErrTooManySigners)
		})
	})
}

func TestFROSTNonceReuse(t *testing.T) {
	forEachSuite(t, func(t *testing.T, cs *Ciphersuite) {
		keys, _ := dealerKeys(t, cs, 3, 2)
		signers := identifiers(cs, 1, 2)
		nonces, commitments := commitAll(t, cs, keys, signers)
		pkg, err := NewSigningPackage(cs, []byte("once"), commitments)
		require.NoError(t, err)

		id := signers[0]
		_, err = Sign(pkg, nonces[id], keys[id])
		require.NoError(t, err)
		require.True(t, nonces[id].Consumed())

		again, err := NewSigningPackage(cs, []byte("twice"), commitments)
		require.NoError(t, err)
		_, err = Sign(again, nonces[id], keys[id])
		require.ErrorIs(t, err, ErrStaleNonces)
		require.ErrorIs(t, err, ErrNonceReuse)
	})
}

func TestFROSTBlamesInvalidShare(t *testing.T) {
	forEachSuite(t, func(t *testing.T, cs *Ciphersuite) {
		keys, pub := dealerKeys(t, cs, 5, 3)
		signers := identifiers(cs, 1, 3, 4)
		pkg, shares := signAll(t, cs, keys, signers, []byte("hello"))

		liar := signers[1]
		shares[liar] = &SignatureShare{Ciphersuite: cs, Share: shares[liar].Share.Add(cs.Curve().ScalarOne())}

		require.ErrorIs(t, VerifySignatureShare(pkg, liar, shares[liar], pub), ErrInvalidShare)

		_, err := Aggregate(pkg, shares, pub)
		require.ErrorIs(t, err, ErrInvalidShare)
		culprit, ok := Culprit(err)
		require.True(t, ok)
		require.Equal(t, liar, culprit)

		shares[liar] = nil
		_, err = Aggregate(pkg, shares, pub)
		require.ErrorIs(t, err, ErrInvalidShare)
	})
}

func TestFROSTBlamesFirstInvalidShareInOrder(t *testing.T) {
	cs := Secp256k1SHA256()
	keys, pub := dealerKeys(t, cs, 5, 3)
	signers := identifiers(cs, 2, 3, 5)
	pkg, shares := signAll(t, cs, keys, signers, []byte("hello"))

	one := cs.Curve().ScalarOne()
	for _, id := range signers[1:] {
		shares[id] = &SignatureShare{Ciphersuite: cs, Share: shares[id].Share.Add(one)}
	}

	for i := 0; i < 10; i++ {
		_, err := Aggregate(pkg, shares, pub)
		culprit, ok := Culprit(err)
		require.True(t, ok)
		require.Equal(t, signers[1], culprit)
	}
}

func TestFROSTSigningPackageMembership(t *testing.T) {
	forEachSuite(t, func(t *testing.T, cs *Ciphersuite) {
		keys, pub := dealerKeys(t, cs, 5, 3)
		signers := identifiers(cs, 1, 3, 4)
		outsider := cs.MustIdentifier(5)

		t.Run("signer outside package", func(t *testing.T) {
			nonces, commitments := commitAll(t, cs, keys, append(signers, outsider))
			delete(commitments, outsider)
			pkg, err := NewSigningPackage(cs, []byte("hello"), commitments)
			require.NoError(t, err)

			_, err = Sign(pkg, nonces[outsider], keys[outsider])
			require.ErrorIs(t, err, ErrParticipantNotFound)
			culprit, _ := Culprit(err)
			require.Equal(t, outsider, culprit)
		})

		t.Run("commitment mismatch", func(t *testing.T) {
			_, commitments := commitAll(t, cs, keys, signers)
			pkg, err := NewSigningPackage(cs, []byte("hello"), commitments)
			require.NoError(t, err)

			fresh, _, err := Commit(cs, nil, keys[signers[0]].SigningShare)
			require.NoError(t, err)
			_, err = Sign(pkg, fresh, keys[signers[0]])
			require.ErrorIs(t, err, ErrInvalidCommitment)
			require.False(t, fresh.Consumed())
		})

		t.Run("share from outsider", func(t *testing.T) {
			pkg, shares := signAll(t, cs, keys, signers, []byte("hello"))
			shares[outsider] = shares[signers[2]]
			delete(shares, signers[2])

			_, err := Aggregate(pkg, shares, pub)
			require.ErrorIs(t, err, ErrParticipantNotFound)
			culprit, _ := Culprit(err)
			require.Equal(t, outsider, culprit)

			require.ErrorIs(t, VerifySignatureShare(pkg, outsider, shares[outsider], pub), ErrParticipantNotFound)
		})

		t.Run("missing share", func(t *testing.T) {
			pkg, shares := signAll(t, cs, keys, signers, []byte("hello"))
			delete(shares, signers[0])
			_, err := Aggregate(pkg, shares, pub)
			require.ErrorIs(t, err, ErrThresholdNotMet)
		})
	})
}

func TestFROSTCiphersuiteMismatch(t *testing.T) {
	ed := Ed25519SHA512()
	secp := Secp256k1SHA256()

	edKeys, edPub := dealerKeys(t, ed, 3, 2)
	secpKeys, secpPub := dealerKeys(t, secp, 3, 2)
	signers := identifiers(ed, 1, 2)

	nonces, commitments := commitAll(t, ed, edKeys, signers)
	pkg, err := NewSigningPackage(ed, []byte("hello"), commitments)
	require.NoError(t, err)

	var foreign *KeyPackage
	for _, kp := range secpKeys {
		foreign = kp
		break
	}
	_, err = Sign(pkg, nonces[signers[0]], foreign)
	require.ErrorIs(t, err, ErrCiphersuiteMismatch)

	_, err = Aggregate(pkg, nil, secpPub)
	require.ErrorIs(t, err, ErrCiphersuiteMismatch)

	_, err = NewSigningPackage(secp, []byte("hello"), commitments)
	require.ErrorIs(t, err, ErrCiphersuiteMismatch)

	shares := make(map[Identifier]*SignatureShare)
	for _, id := range signers {
		share, err := Sign(pkg, nonces[id], edKeys[id])
		require.NoError(t, err)
		shares[id] = share
	}
	shares[signers[1]] = &SignatureShare{Ciphersuite: secp, Share: shares[signers[1]].Share}
	_, err = Aggregate(pkg, shares, edPub)
	require.ErrorIs(t, err, ErrInvalidShare)
	require.ErrorIs(t, err, ErrCiphersuiteMismatch)
}

func TestNewSigningPackageValidation(t *testing.T) {
	cs := Ed25519SHA512()
	keys, _ := dealerKeys(t, cs, 3, 2)
	signers := identifiers(cs, 1, 2)

	_, err := NewSigningPackage(cs, []byte("hello"), nil)
	require.ErrorIs(t, err, ErrThresholdNotMet)

	_, commitments := commitAll(t, cs, keys, signers)

	withNil := others(commitments, Identifier{})
	withNil[signers[1]] = nil
	_, err = NewSigningPackage(cs, []byte("hello"), withNil)
	require.ErrorIs(t, err, ErrInvalidCommitment)

	withIdentity := others(commitments, Identifier{})
	withIdentity[signers[1]] = &SigningCommitments{
		Ciphersuite: cs,
		Hiding:      cs.Curve().PointIdentity(),
		Binding:     commitments[signers[1]].Binding,
	}
	_, err = NewSigningPackage(cs, []byte("hello"), withIdentity)
	require.ErrorIs(t, err, ErrInvalidCommitment)
	culprit, _ := Culprit(err)
	require.Equal(t, signers[1], culprit)

	withZero := others(commitments, Identifier{})
	withZero[Identifier{}] = commitments[signers[0]]
	_, err = NewSigningPackage(cs, []byte("hello"), withZero)
	require.ErrorIs(t, err, ErrInvalidScalar)

	msg := []byte("hello")
	pkg, err := NewSigningPackage(cs, msg, commitments)
	require.NoError(t, err)
	msg[0] = 'j'
	require.Equal(t, []byte("hello"), pkg.Message)

	delete(commitments, signers[0])
	require.Len(t, pkg.Commitments(), 2)

	view := pkg.Commitments()
	view[signers[0]] = nil
	own, ok := pkg.Commitment(signers[0])
	require.True(t, ok)
	require.NotNil(t, own)
	require.NotPanics(t, func() { encodeGroupCommitmentList(pkg) })
}

func TestFROSTConcurrentSigners(t *testing.T) {
	cs := Ed25519SHA512()
	keys, pub := dealerKeys(t, cs, 7, 4)
	signers := identifiers(cs, 7, 2, 5, 1)
	msg := []byte("concurrent")

	nonces, commitments := commitAll(t, cs, keys, signers)
	pkg, err := NewSigningPackage(cs, msg, commitments)
	require.NoError(t, err)

	var mu sync.Mutex
	shares := make(map[Identifier]*SignatureShare, len(signers))
	g, _ := errgroup.WithContext(context.Background())
	for _, id := range signers {
		g.Go(func() error {
			share, err := Sign(pkg, nonces[id], keys[id])
			if err != nil {
				return err
			}
			mu.Lock()
			shares[id] = share
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	sig, err := Aggregate(pkg, shares, pub)
	require.NoError(t, err)
	ok, err := VerifySignature(cs, sig, msg, pub.VerifyingKey)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFROSTConcurrentNonceUse(t *testing.T) {
	cs := Ed25519SHA512()
	keys, _ := dealerKeys(t, cs, 3, 2)
	signers := identifiers(cs, 1, 2)
	nonces, commitments := commitAll(t, cs, keys, signers)
	pkg, err := NewSigningPackage(cs, []byte("race"), commitments)
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Sign(pkg, nonces[signers[0]], keys[signers[0]]); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, successes)
}

func TestVerifySignatureRejectsIncompleteInput(t *testing.T) {
	cs := Ed25519SHA512()
	_, pub := dealerKeys(t, cs, 2, 2)

	_, err := VerifySignature(cs, nil, []byte("m"), pub.VerifyingKey)
	require.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = VerifySignature(cs, &Signature{R: cs.Curve().BasePoint()}, []byte("m"), pub.VerifyingKey)
	require.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = VerifySignature(cs, &Signature{R: cs.Curve().BasePoint(), Z: cs.Curve().ScalarOne()}, []byte("m"), nil)
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestVerifySignatureFailsClosedAcrossCiphersuites(t *testing.T) {
	ed := Ed25519SHA512()
	secp := Secp256k1SHA256()
	bjj := BabyJubjubBlake512()

	keys, pub := dealerKeys(t, ed, 3, 2)
	msg := []byte("hello")
	pkg, shares := signAll(t, ed, keys, identifiers(ed, 1, 2), msg)
	sig, err := Aggregate(pkg, shares, pub)
	require.NoError(t, err)
	require.Same(t, ed, sig.Ciphersuite)

	for _, cs := range []*Ciphersuite{secp, bjj} {
		t.Run(cs.ID(), func(t *testing.T) {
			ok, err := VerifySignature(cs, sig, msg, pub.VerifyingKey)
			require.ErrorIs(t, err, ErrCiphersuiteMismatch)
			require.False(t, ok)

			// Elements from another group are rejected even without a
			// ciphersuite tag on the signature.
			bare := &Signature{R: sig.R, Z: sig.Z}
			ok, err = VerifySignature(cs, bare, msg, pub.VerifyingKey)
			require.ErrorIs(t, err, ErrCiphersuiteMismatch)
			require.False(t, ok)

			mixed := &Signature{R: cs.Curve().BasePoint(), Z: sig.Z}
			_, err = VerifySignature(cs, mixed, msg, cs.Curve().BasePoint())
			require.ErrorIs(t, err, ErrCiphersuiteMismatch)

			_, err = VerifySignature(cs, &Signature{R: cs.Curve().BasePoint(), Z: cs.Curve().ScalarOne()}, msg, pub.VerifyingKey)
			require.ErrorIs(t, err, ErrCiphersuiteMismatch)
		})
	}

	parsed, err := ed.ParseSignature(sig.Bytes())
	require.NoError(t, err)
	require.Same(t, ed, parsed.Ciphersuite)
	ok, err := VerifySignature(ed, parsed, msg, pub.VerifyingKey)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCommitRejectsForeignShare(t *testing.T) {
	_, _, err := Commit(Secp256k1SHA256(), nil, Ed25519SHA512().Curve().ScalarOne())
	require.ErrorIs(t, err, ErrCiphersuiteMismatch)
}
