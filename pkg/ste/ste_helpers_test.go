package ste_test

import (
	"github.com/luxfi/ste/pkg/bls"
	"github.com/luxfi/ste/pkg/kzg"
	"github.com/luxfi/ste/pkg/lagrange"
	"github.com/luxfi/ste/pkg/party"
	"github.com/luxfi/ste/pkg/ste"
)

// seededReader is a reproducible byte stream derived from a seed, used so
// the fixed-scenario tests (S1-S6) don't depend on crypto/rand.
type seededReader struct {
	state uint64
}

func newSeededReader(seed int64) *seededReader {
	return &seededReader{state: uint64(seed) + 1}
}

func (r *seededReader) Read(p []byte) (int, error) {
	for i := range p {
		r.state = r.state*6364136223846793005 + 1442695040888963407
		p[i] = byte(r.state >> 33)
	}
	return len(p), nil
}

func scalarFromUint64(v uint64) bls.Scalar {
	var s bls.Scalar
	s.SetUint64(v)
	return s
}

// committee bundles every artifact a test needs after a fixed-seed n/t
// setup: the SRS, Lagrange powers, per-party secret keys and the
// resulting aggregate key.
type committee struct {
	n, t   uint64
	tau    bls.Scalar
	params *kzg.UniversalParams
	lp     *lagrange.LagrangePowers
	sks    []*ste.SecretKey
	ak     *ste.AggregateKey
}

// newCommittee builds a deterministic n-party, threshold-t committee from
// seed, mirroring the single-party setup spec.md allows "for tests only".
func newCommittee(seed int64, n, t uint64) (*committee, error) {
	tau := scalarFromUint64(uint64(seed)*97 + 31)
	params, err := kzg.Setup(int(n), tau)
	if err != nil {
		return nil, err
	}
	lp, err := lagrange.NewLagrangePowers(params, tau, t, n)
	if err != nil {
		return nil, err
	}

	sks := make([]*ste.SecretKey, n)
	sks[0] = ste.NewDummySecretKey()
	for i := uint64(1); i < n; i++ {
		sk, err := ste.NewSecretKey(newSeededReader(seed + int64(i)))
		if err != nil {
			return nil, err
		}
		sks[i] = sk
	}

	pks := make([]*ste.PublicKey, n)
	for i := uint64(0); i < n; i++ {
		pk, err := sks[i].GetPK(party.ID(i), lp)
		if err != nil {
			return nil, err
		}
		pks[i] = pk
	}

	ak, err := ste.NewAggregateKey(pks, params, n)
	if err != nil {
		return nil, err
	}

	return &committee{n: n, t: t, tau: tau, params: params, lp: lp, sks: sks, ak: ak}, nil
}

// fullSelector marks every party as having contributed a partial
// decryption, always a valid selector since it trivially satisfies
// count <= n and count >= t+1 whenever t < n.
func (c *committee) fullSelector() party.Selector {
	sel := make(party.Selector, c.n)
	for i := range sel {
		sel[i] = true
	}
	return sel
}

// thresholdSelector selects the dummy party plus the first t other
// parties, the minimal valid selector for threshold t.
func (c *committee) thresholdSelector() party.Selector {
	sel := make(party.Selector, c.n)
	sel[0] = true
	for i := uint64(1); i <= c.t; i++ {
		sel[i] = true
	}
	return sel
}

func (c *committee) partialsFor(sel party.Selector, ct *ste.Ciphertext) map[party.ID]ste.PartialDecryption {
	out := make(map[party.ID]ste.PartialDecryption)
	for _, id := range sel.Selected() {
		out[id] = ste.PartialDecrypt(c.sks[id], ct)
	}
	return out
}
