// Package manifest holds the cbor-encoded committee roster: every party's
// PublicKey plus the cached AggregateKey, so a coordinator can persist a
// committee once and reuse it across encryptions without re-deriving the
// aggregate from scratch on every call. Adapted from the teacher's
// protocols/lss/config package (a Config type wrapping a share map with
// custom marshaling), swapped to cbor — the teacher's own protocol wire
// format (pkg/protocol/handler.go) — instead of base64-in-JSON, since
// group elements are fixed-size binary blobs cbor handles natively as
// byte strings.
package manifest

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/ste/pkg/bls"
	"github.com/luxfi/ste/pkg/ste"
)

// publicKeyRecord is the cbor wire shape of a ste.PublicKey: every group
// element becomes its canonical compressed byte string.
type publicKeyRecord struct {
	ID         int      `cbor:"id"`
	BlsPK      []byte   `cbor:"bls_pk"`
	SkLi       []byte   `cbor:"sk_li"`
	SkLiMinus0 []byte   `cbor:"sk_li_minus0"`
	SkLiByZ    []byte   `cbor:"sk_li_by_z"`
	SkLiLjByZ  [][]byte `cbor:"sk_li_lj_by_z"`
}

// Manifest is the persisted committee record.
type Manifest struct {
	N uint64 `cbor:"n"`
	T uint64 `cbor:"t"`

	PublicKeys []publicKeyRecord `cbor:"public_keys"`

	Ask    []byte   `cbor:"ask"`
	ZG2    []byte   `cbor:"z_g2"`
	HTauG2 []byte   `cbor:"h_tau_g2"`
	TauG   []byte   `cbor:"tau_g"`
	EGH    []byte   `cbor:"e_gh"`
	EG0H   []byte   `cbor:"e_g0_h"`
	Sa1    [][]byte `cbor:"sa1"`
	Sa2    [][]byte `cbor:"sa2"`
}

func g1Bytes(p bls.G1) []byte {
	b := p.Bytes()
	return b[:]
}

func g2Bytes(p bls.G2) []byte {
	b := p.Bytes()
	return b[:]
}

func gtBytes(v bls.GT) []byte {
	b := v.Bytes()
	return b[:]
}

func parseG1(b []byte) (bls.G1, error) {
	var p bls.G1
	if _, err := p.SetBytes(b); err != nil {
		return bls.G1{}, err
	}
	return p, nil
}

func parseG2(b []byte) (bls.G2, error) {
	var p bls.G2
	if _, err := p.SetBytes(b); err != nil {
		return bls.G2{}, err
	}
	return p, nil
}

func parseGT(b []byte) (bls.GT, error) {
	var v bls.GT
	if err := v.SetBytes(b); err != nil {
		return bls.GT{}, err
	}
	return v, nil
}

func publicKeyToRecord(pk *ste.PublicKey) publicKeyRecord {
	row := make([][]byte, len(pk.SkLiLjByZ))
	for j, p := range pk.SkLiLjByZ {
		row[j] = g1Bytes(p)
	}
	return publicKeyRecord{
		ID:         pk.ID,
		BlsPK:      g2Bytes(pk.BlsPK),
		SkLi:       g1Bytes(pk.SkLi),
		SkLiMinus0: g1Bytes(pk.SkLiMinus0),
		SkLiByZ:    g1Bytes(pk.SkLiByZ),
		SkLiLjByZ:  row,
	}
}

func recordToPublicKey(r publicKeyRecord) (*ste.PublicKey, error) {
	blsPK, err := parseG2(r.BlsPK)
	if err != nil {
		return nil, err
	}
	skLi, err := parseG1(r.SkLi)
	if err != nil {
		return nil, err
	}
	skLiMinus0, err := parseG1(r.SkLiMinus0)
	if err != nil {
		return nil, err
	}
	skLiByZ, err := parseG1(r.SkLiByZ)
	if err != nil {
		return nil, err
	}
	row := make([]bls.G1, len(r.SkLiLjByZ))
	for j, b := range r.SkLiLjByZ {
		if row[j], err = parseG1(b); err != nil {
			return nil, err
		}
	}
	return &ste.PublicKey{
		ID:         r.ID,
		BlsPK:      blsPK,
		SkLi:       skLi,
		SkLiMinus0: skLiMinus0,
		SkLiByZ:    skLiByZ,
		SkLiLjByZ:  row,
	}, nil
}

// EncodePublicKey cbor-encodes a single party's PublicKey, for the
// coordinator-less flow where each party publishes its own key file
// before anyone has assembled a full committee roster.
func EncodePublicKey(pk *ste.PublicKey) ([]byte, error) {
	return cbor.Marshal(publicKeyToRecord(pk))
}

// DecodePublicKey is the inverse of EncodePublicKey.
func DecodePublicKey(data []byte) (*ste.PublicKey, error) {
	var r publicKeyRecord
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return recordToPublicKey(r)
}

// Encode builds the cbor-serialized committee manifest for an already
// computed AggregateKey and the threshold t it was encrypted against.
func Encode(ak *ste.AggregateKey, t uint64) ([]byte, error) {
	records := make([]publicKeyRecord, len(ak.PK))
	for i, pk := range ak.PK {
		records[i] = publicKeyToRecord(pk)
	}

	sa1 := make([][]byte, len(ak.Sa1))
	for i, p := range ak.Sa1 {
		sa1[i] = g1Bytes(p)
	}
	sa2 := make([][]byte, len(ak.Sa2))
	for i, p := range ak.Sa2 {
		sa2[i] = g2Bytes(p)
	}

	m := Manifest{
		N:          uint64(len(ak.PK)),
		T:          t,
		PublicKeys: records,
		Ask:        g1Bytes(ak.Ask),
		ZG2:        g2Bytes(ak.ZG2),
		HTauG2:     g2Bytes(ak.HTauG2),
		TauG:       g1Bytes(ak.TauG),
		EGH:        gtBytes(ak.EGH),
		EG0H:       gtBytes(ak.EG0H),
		Sa1:        sa1,
		Sa2:        sa2,
	}
	return cbor.Marshal(m)
}

// Decode is the inverse of Encode: it reconstructs the AggregateKey (and
// the threshold it was paired with) directly from the cached fields,
// without re-running NewAggregateKey's aggregation.
func Decode(data []byte) (*ste.AggregateKey, uint64, error) {
	var m Manifest
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, 0, err
	}

	pks := make([]*ste.PublicKey, len(m.PublicKeys))
	for i, r := range m.PublicKeys {
		pk, err := recordToPublicKey(r)
		if err != nil {
			return nil, 0, err
		}
		pks[i] = pk
	}

	ask, err := parseG1(m.Ask)
	if err != nil {
		return nil, 0, err
	}
	zg2, err := parseG2(m.ZG2)
	if err != nil {
		return nil, 0, err
	}
	hTauG2, err := parseG2(m.HTauG2)
	if err != nil {
		return nil, 0, err
	}
	tauG, err := parseG1(m.TauG)
	if err != nil {
		return nil, 0, err
	}
	egh, err := parseGT(m.EGH)
	if err != nil {
		return nil, 0, err
	}
	eg0h, err := parseGT(m.EG0H)
	if err != nil {
		return nil, 0, err
	}
	var sa1 [2]bls.G1
	for i := range sa1 {
		if sa1[i], err = parseG1(m.Sa1[i]); err != nil {
			return nil, 0, err
		}
	}
	var sa2 [2]bls.G2
	for i := range sa2 {
		if sa2[i], err = parseG2(m.Sa2[i]); err != nil {
			return nil, 0, err
		}
	}

	ak := &ste.AggregateKey{
		PK:     pks,
		Ask:    ask,
		ZG2:    zg2,
		HTauG2: hTauG2,
		TauG:   tauG,
		EGH:    egh,
		EG0H:   eg0h,
		Sa1:    sa1,
		Sa2:    sa2,
	}
	return ak, m.T, nil
}
