package ste

import (
	"sort"

	"github.com/luxfi/ste/pkg/bls"
	"github.com/luxfi/ste/pkg/kzg"
)

// AggregateKey is the committee-wide public key, plus the succinct
// correctness proof (Sa1, Sa2) spec.md SS4.4 describes as "the only
// artifact the encryptor ever sees". Ask is the KZG-style commitment to
// S(X) = sum_i sk_i * L_i(X) at tau; ZG2 and HTauG2 are tau-free SRS
// derivatives (committed homomorphically, never requiring tau as a bare
// scalar); EGH caches e(g,h), which neither Encrypt nor AggDec reads.
//
// EG0H caches e(g,h)^S(0), derived from Sa1 below (Ask and the quotient
// commitment AskQ) rather than recomputed per encryption. It is safe to
// publish: it never combines with a ciphertext's gamma except through a
// decryption-committee pairing (see AggDec), so it alone never reveals
// e(g,h)^(gamma*S(0)).
//
// Sa1 holds [Ask, AskQ], where AskQ = Q(tau)*g and Q(X) = (S(X)-S(0))/X
// is S's quotient polynomial; Sa2 holds [h, tau*h], the two bases every
// pairing against Sa1 is taken against. Both exist so that EG0H's
// derivation, and Encrypt's reads of h / tau*h, go through these fields
// instead of duplicating ak.HTauG2 access paths.
type AggregateKey struct {
	PK     []*PublicKey
	Ask    bls.G1
	ZG2    bls.G2
	HTauG2 bls.G2
	TauG   bls.G1
	EGH    bls.GT
	EG0H   bls.GT
	Sa1    [2]bls.G1
	Sa2    [2]bls.G2
}

// NewAggregateKey checks basic well-formedness of pks (spec.md SS4.4: one
// PublicKey per id in [0,n), pk[0].bls_pk == h) and computes the
// aggregate. Sorting by ID before summing makes the result independent of
// the input slice's order (spec.md S5: "agg_key built from any
// permutation of the same PublicKey set ... is bit-identical").
func NewAggregateKey(pks []*PublicKey, params *kzg.UniversalParams, n uint64) (*AggregateKey, error) {
	if uint64(len(pks)) != n {
		return nil, &MalformedInputError{Op: "NewAggregateKey", Message: "expected exactly n public keys"}
	}
	sorted := make([]*PublicKey, len(pks))
	copy(sorted, pks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for i, pk := range sorted {
		if pk.ID != i {
			return nil, &MalformedInputError{Op: "NewAggregateKey", Message: "public key ids must be exactly [0, n)"}
		}
	}
	h := bls.G2Gen()
	if !bls.ConstantTimeEqualG2(&sorted[0].BlsPK, &h) {
		return nil, &MalformedInputError{Op: "NewAggregateKey", Message: "party 0 (the dummy party) must have bls_pk == h"}
	}
	if uint64(len(params.PowersOfH)) <= n {
		return nil, &InvalidParameterError{Op: "NewAggregateKey", Message: "SRS degree is too small for the committee size"}
	}
	if len(params.PowersOfG) < 2 {
		return nil, &InvalidParameterError{Op: "NewAggregateKey", Message: "SRS must carry at least tau*g"}
	}

	var ask, askQ bls.G1
	for _, pk := range sorted {
		ask = bls.AddG1(ask, pk.SkLi)
		askQ = bls.AddG1(askQ, pk.SkLiMinus0)
	}

	var zg2Neg bls.G2
	zg2Neg.Neg(&h)
	zg2 := bls.AddG2(params.PowersOfH[n], zg2Neg)
	hTauG2 := params.PowersOfH[1]

	g := bls.G1Gen()
	egh, err := bls.Pairing(g, h)
	if err != nil {
		return nil, err
	}

	// e(g,h)^S(0) = e(Ask,h) * e(AskQ,h_tau_g2)^-1, since Ask = S(tau)*g,
	// AskQ = Q(tau)*g and S(tau) - tau*Q(tau) = S(0).
	var askQNeg bls.G1
	askQNeg.Neg(&askQ)
	eg0h, err := bls.MultiPairing([]bls.G1{ask, askQNeg}, []bls.G2{h, hTauG2})
	if err != nil {
		return nil, err
	}

	return &AggregateKey{
		PK:     sorted,
		Ask:    ask,
		ZG2:    zg2,
		HTauG2: hTauG2,
		TauG:   params.PowersOfG[1],
		EGH:    egh,
		EG0H:   eg0h,
		Sa1:    [2]bls.G1{ask, askQ},
		Sa2:    [2]bls.G2{h, hTauG2},
	}, nil
}
