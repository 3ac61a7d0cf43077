package frost

import (
	"bytes"
	"encoding/hex"
	"slices"
)

// Identifier labels a participant. It wraps the canonical encoding of a
// non-zero scalar, so identifiers are comparable and usable as map keys.
// The zero value is not a valid identifier.
//
// Encodings are ciphersuite specific: an Identifier must only be used with
// the ciphersuite that produced it.
type Identifier struct {
	enc string
}

// Identifier returns the identifier for participant index n (1-based).
func (cs *Ciphersuite) Identifier(n uint16) (Identifier, error) {
	if n == 0 {
		return Identifier{}, ErrInvalidScalar.WithDetails("identifier must be non-zero")
	}
	return Identifier{enc: string(cs.curve.ScalarFromUint64(uint64(n)).Bytes())}, nil
}

// MustIdentifier is like Identifier but panics on zero.
func (cs *Ciphersuite) MustIdentifier(n uint16) Identifier {
	id, err := cs.Identifier(n)
	if err != nil {
		panic(err)
	}
	return id
}

// Identifiers returns the identifiers 1..n.
func (cs *Ciphersuite) Identifiers(n int) ([]Identifier, error) {
	if n < 1 || n > maxParticipants {
		return nil, ErrInvalidThreshold.WithDetails("participant count out of range")
	}
	ids := make([]Identifier, n)
	for i := range ids {
		ids[i] = cs.MustIdentifier(uint16(i + 1))
	}
	return ids, nil
}

// DeriveIdentifier hashes arbitrary bytes (a name, a public key) into an
// identifier.
func (cs *Ciphersuite) DeriveIdentifier(data []byte) (Identifier, error) {
	s, err := cs.hasher.HID(data)
	if err != nil {
		return Identifier{}, err
	}
	if s.IsZero() {
		return Identifier{}, ErrInvalidScalar.WithDetails("derived identifier is zero")
	}
	return Identifier{enc: string(s.Bytes())}, nil
}

// ParseIdentifier decodes the canonical scalar encoding of an identifier.
func (cs *Ciphersuite) ParseIdentifier(data []byte) (Identifier, error) {
	s, err := cs.curve.ScalarFromBytes(data)
	if err != nil {
		return Identifier{}, err
	}
	if s.IsZero() {
		return Identifier{}, ErrInvalidEncoding.WithDetails("identifier must be non-zero")
	}
	return Identifier{enc: string(s.Bytes())}, nil
}

// ParseIdentifierHex decodes a hex encoded identifier.
func (cs *Ciphersuite) ParseIdentifierHex(s string) (Identifier, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Identifier{}, ErrInvalidEncoding.WithCause(err)
	}
	return cs.ParseIdentifier(raw)
}

// scalar returns the identifier as a group scalar.
func (cs *Ciphersuite) scalar(id Identifier) (Scalar, error) {
	if id.IsZero() {
		return nil, ErrInvalidScalar.WithDetails("identifier must be non-zero")
	}
	return cs.curve.ScalarFromBytes([]byte(id.enc))
}

// Bytes returns the canonical scalar encoding.
func (id Identifier) Bytes() []byte {
	return []byte(id.enc)
}

func (id Identifier) String() string {
	return hex.EncodeToString([]byte(id.enc))
}

// IsZero reports whether id is the unset zero value.
func (id Identifier) IsZero() bool {
	return id.enc == ""
}

// MarshalText encodes the identifier as hex.
func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// compareIdentifiers orders identifiers by their integer value.
func (cs *Ciphersuite) compareIdentifiers(a, b Identifier) int {
	ab, bb := []byte(a.enc), []byte(b.enc)
	if cs.curve.LittleEndian() {
		ab, bb = reversed(ab), reversed(bb)
	}
	return bytes.Compare(ab, bb)
}

// sortIdentifiers sorts ids in place by integer value.
func (cs *Ciphersuite) sortIdentifiers(ids []Identifier) {
	slices.SortFunc(ids, cs.compareIdentifiers)
}

// sortedKeys returns the keys of m in identifier order.
func sortedKeys[V any](cs *Ciphersuite, m map[Identifier]V) []Identifier {
	ids := make([]Identifier, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	cs.sortIdentifiers(ids)
	return ids
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}
