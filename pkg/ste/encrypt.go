package ste

import (
	"io"

	"github.com/luxfi/ste/pkg/bls"
	"github.com/luxfi/ste/pkg/kzg"
)

// Ciphertext is the output of Encrypt: spec.md SS4.5's (sa1, sa2, x,
// enc_key, t, gamma_g2) tuple.
//
// Sa1 holds [alpha*g, beta*tau*g, s*ask], the three addends of X; Sa2
// holds their G2-side counterparts [alpha*h, beta*h, s*h]. Together they
// let Verify confirm X was honestly built from a single, consistent
// (alpha, beta, s) without revealing any of the three: e(Sa1[k], h) ==
// e(base_k, Sa2[k]) for a cheating encryptor's Sa1/Sa2 fails unless it
// used the same scalar on both sides (spec.md SS4.5 "a succinct
// correctness proof the decryptor can check before opening").
//
// GammaTauG2 = gamma * h_tau_g2 is the extra piece AggDec needs beyond
// GammaG2 = gamma*h: it lets the unselected set's tau-dependent
// (gamma-independent) hints be combined with a ciphertext-specific
// gamma without ever exposing gamma or tau as scalars.
type Ciphertext struct {
	Sa1        [3]bls.G1
	Sa2        [3]bls.G2
	X          bls.G1
	EncKey     bls.GT
	T          uint64
	GammaG2    bls.G2
	GammaTauG2 bls.G2
}

// Encrypt samples four independent randomizers (alpha, beta, s, gamma)
// and builds a ciphertext bound to ak (spec.md SS4.5). x = alpha*g +
// beta*(tau*g) + s*ask is the blinding commitment; it is safe to reveal
// and to pair directly against h, since enc_key also carries the
// e(g,h)^(gamma*S(0)) factor that e(x,h) alone can never reconstruct
// (that factor requires a qualified committee's partial decryptions,
// see AggDec).
func Encrypt(ak *AggregateKey, t uint64, params *kzg.UniversalParams, rnd io.Reader) (*Ciphertext, error) {
	if ak == nil {
		return nil, &InvalidParameterError{Op: "Encrypt", Message: "aggregate key must not be nil"}
	}
	if t == 0 || t >= uint64(len(ak.PK)) {
		return nil, &InvalidParameterError{Op: "Encrypt", Message: "threshold t must satisfy 0 < t < n"}
	}
	if len(params.PowersOfG) < 2 {
		return nil, &InvalidParameterError{Op: "Encrypt", Message: "SRS must carry at least tau*g"}
	}

	alpha, err := bls.RandScalar(rnd)
	if err != nil {
		return nil, err
	}
	beta, err := bls.RandScalar(rnd)
	if err != nil {
		return nil, err
	}
	s, err := bls.RandScalar(rnd)
	if err != nil {
		return nil, err
	}
	gamma, err := bls.RandScalar(rnd)
	if err != nil {
		return nil, err
	}

	h := ak.Sa2[0]
	tauH := ak.Sa2[1]
	g := bls.G1Gen()
	tauG := params.PowersOfG[1]

	gammaG2 := bls.ScalarMulG2(h, gamma)
	gammaTauG2 := bls.ScalarMulG2(tauH, gamma)

	sa1 := [3]bls.G1{
		bls.ScalarMulG1(g, alpha),
		bls.ScalarMulG1(tauG, beta),
		bls.ScalarMulG1(ak.Ask, s),
	}
	sa2 := [3]bls.G2{
		bls.ScalarMulG2(h, alpha),
		bls.ScalarMulG2(h, beta),
		bls.ScalarMulG2(h, s),
	}
	x := bls.AddG1(bls.AddG1(sa1[0], sa1[1]), sa1[2])

	ex, err := bls.Pairing(x, h)
	if err != nil {
		return nil, err
	}
	egamma := bls.ExpGT(ak.EG0H, gamma)
	encKey := bls.MulGT(ex, egamma)

	return &Ciphertext{
		Sa1:        sa1,
		Sa2:        sa2,
		X:          x,
		EncKey:     encKey,
		T:          t,
		GammaG2:    gammaG2,
		GammaTauG2: gammaTauG2,
	}, nil
}

// Verify checks ct's succinct correctness proof: that Sa1's three
// addends were each built against the matching Sa2 element using a
// single shared scalar (spec.md SS4.5), via three bilinear equalities
//
//	e(Sa1[0], h) == e(g,    Sa2[0])   (alpha)
//	e(Sa1[1], h) == e(tau*g, Sa2[1])  (beta)
//	e(Sa1[2], h) == e(ask,  Sa2[2])   (s)
//
// folded into a single six-pairing product check. It does not touch
// gamma or EncKey; it only guards against a malformed or malicious
// ciphertext before a committee spends partial decryptions on it.
func (ct *Ciphertext) Verify(ak *AggregateKey) error {
	h := ak.Sa2[0]
	g := bls.G1Gen()

	var negG, negTauG, negAsk bls.G1
	negG.Neg(&g)
	negTauG.Neg(&ak.TauG)
	negAsk.Neg(&ak.Ask)

	ps := []bls.G1{ct.Sa1[0], negG, ct.Sa1[1], negTauG, ct.Sa1[2], negAsk}
	qs := []bls.G2{h, ct.Sa2[0], h, ct.Sa2[1], h, ct.Sa2[2]}
	ok, err := bls.PairingCheck(ps, qs)
	if err != nil {
		return err
	}
	if !ok {
		return &MalformedInputError{Op: "Ciphertext.Verify", Message: "sa1/sa2 is not a consistent opening of x"}
	}
	return nil
}
