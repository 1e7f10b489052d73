package ste

import (
	"context"
	"io"

	"github.com/luxfi/ste/pkg/bls"
	"github.com/luxfi/ste/pkg/lagrange"
	"github.com/luxfi/ste/pkg/party"
	"github.com/luxfi/ste/pkg/pool"
)

// SecretKey is a committee party's long-term secret, a single nonzero
// scalar. Exactly spec.md SS4.3.
type SecretKey struct {
	sk bls.Scalar
}

// NewSecretKey samples a fresh nonzero secret key, reading entropy from
// rnd (crypto/rand.Reader if nil).
func NewSecretKey(rnd io.Reader) (*SecretKey, error) {
	s, err := bls.RandScalar(rnd)
	if err != nil {
		return nil, err
	}
	return &SecretKey{sk: s}, nil
}

// NewDummySecretKey returns the fixed sk=1 secret key for party 0: the
// "dummy party" that is always selected and whose bls_pk is h itself
// (spec.md SS4.3, GLOSSARY "Dummy party").
func NewDummySecretKey() *SecretKey {
	var s bls.Scalar
	s.SetOne()
	return &SecretKey{sk: s}
}

// NewSecretKeyFromScalar wraps an already-sampled (or deserialized)
// scalar as a SecretKey. Used by cmd/ste-cli's partial-decrypt command,
// where the scalar is read back off disk rather than freshly sampled.
func NewSecretKeyFromScalar(s bls.Scalar) (*SecretKey, error) {
	if s.IsZero() {
		return nil, &InvalidParameterError{Op: "NewSecretKeyFromScalar", Message: "secret key scalar must not be zero"}
	}
	return &SecretKey{sk: s}, nil
}

// Scalar returns the underlying secret scalar, for callers (cmd/ste-cli's
// keygen command) that need to serialize or otherwise handle it
// directly. Copies the value; does not expose a pointer into sk's
// zeroizable storage.
func (sk *SecretKey) Scalar() bls.Scalar {
	return sk.sk
}

// Destroy overwrites the secret key's backing limbs. Best-effort: any
// existing copy of the SecretKey value (Go has no move semantics) keeps
// its own backing memory and is unaffected. See DESIGN.md open question (b).
func (sk *SecretKey) Destroy() {
	for i := range sk.sk {
		sk.sk[i] = 0
	}
}

// GetPK derives party id's PublicKey from its secret key and the
// committee's preprocessed Lagrange powers: four scalar-point
// multiplications plus one length-n scalar-vector multiplication for the
// cross row (spec.md SS4.3).
func (sk *SecretKey) GetPK(id party.ID, lp *lagrange.LagrangePowers) (*PublicKey, error) {
	if uint64(id) >= lp.N {
		return nil, &InvalidParameterError{Op: "GetPK", Message: "id out of range [0, n)"}
	}
	h := bls.G2Gen()
	blsPK := bls.ScalarMulG2(h, sk.sk)
	skLi := bls.ScalarMulG1(lp.Li[id], sk.sk)
	skLiMinus0 := bls.ScalarMulG1(lp.LiMinus0ByX[id], sk.sk)
	skLiByZ := bls.ScalarMulG1(lp.LiByZ[id], sk.sk)

	row := lp.LiLjByZ[id]
	skLiLjByZ := make([]bls.G1, len(row))
	for j := range row {
		skLiLjByZ[j] = bls.ScalarMulG1(row[j], sk.sk)
	}

	return &PublicKey{
		ID:         int(id),
		BlsPK:      blsPK,
		SkLi:       skLi,
		SkLiMinus0: skLiMinus0,
		SkLiByZ:    skLiByZ,
		SkLiLjByZ:  skLiLjByZ,
	}, nil
}

// PublicKey is party i's contribution to the aggregate key. Exactly
// spec.md SS3's data model.
type PublicKey struct {
	ID         int
	BlsPK      bls.G2
	SkLi       bls.G1
	SkLiMinus0 bls.G1
	SkLiByZ    bls.G1
	SkLiLjByZ  []bls.G1
}

// BatchGetPK derives every party's PublicKey in parallel via p (a fresh
// pool.NewPool(0) if p is nil). Nothing in this repository calls it; the
// tests and cmd/ste-cli call GetPK once per party.
func BatchGetPK(ctx context.Context, sks []*SecretKey, lp *lagrange.LagrangePowers, p *pool.Pool) ([]*PublicKey, error) {
	if p == nil {
		p = pool.NewPool(0)
	}
	out := make([]*PublicKey, len(sks))
	err := p.Run(ctx, len(sks), func(ctx context.Context, i int) error {
		pk, err := sks[i].GetPK(party.ID(i), lp)
		if err != nil {
			return err
		}
		out[i] = pk
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
