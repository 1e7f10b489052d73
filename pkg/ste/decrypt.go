package ste

import (
	"github.com/luxfi/ste/pkg/bls"
	"github.com/luxfi/ste/pkg/lagrange"
	"github.com/luxfi/ste/pkg/party"
)

// PartialDecryption is party i's share of a ciphertext's decryption: a
// BLS-style "signature" sigma_i = sk_i * gamma_g2 over the ciphertext's
// own gamma_g2 point (spec.md SS4.6).
type PartialDecryption struct {
	Sigma bls.G2
}

// PartialDecrypt computes party sk's share of ct's decryption. It never
// touches ct's other fields: gamma_g2 is the only input a partial
// decryptor needs, which is what lets this run fully offline from the
// aggregate key and the rest of the committee (spec.md SS4.6).
func PartialDecrypt(sk *SecretKey, ct *Ciphertext) PartialDecryption {
	return PartialDecryption{Sigma: bls.ScalarMulG2(ct.GammaG2, sk.sk)}
}

// AggDec combines a selected subset's partial decryptions into the
// ciphertext's encryption key (spec.md SS4.7).
//
// enc_key = e(x,h) * e(g,h)^(gamma*S(0)); the first factor is public
// (ct.X), the second is recovered as e(g, sigma_agg) * e(askLiU,
// gamma_g2) * e(askLiMinus0U, gamma_tau_g2)^-1, where:
//
//   - sigma_agg = sum_{i in selected} Li0[i]*sigma_i, the Lagrange-at-zero
//     recombination of the selected set's fresh, ciphertext-bound partial
//     decryptions;
//   - askLiU, askLiMinus0U are the unselected set's precomputed, tau
//     dependent (never gamma-dependent) per-party hints, summed over the
//     unselected ids after the mostly-zero interpolation of spec.md SS4.7
//     step 1 (B(X), 1 on the unselected indices, 0 on the selected ones;
//     exact since B = sum_{i in U} Li) is built and spot-checked to be 1
//     at each of them.
//
// Expanding both sides in terms of S(X) = sum_i sk_i*Li(X) shows the
// product collapses to exactly e(g,h)^(gamma*S(0)), regardless of which
// qualified subset was selected. Crucially, the unselected contribution
// never depends on gamma: precomputed at key-generation time, it cannot
// be combined into a usable value without a ciphertext's live gamma_g2 /
// gamma_tau_g2, and it is restricted to the unselected set rather than
// the full committee, so it never reconstructs S(0) on its own (unlike
// pairing ak.Ask/ak.Sa1 directly against a ciphertext field, which would
// require no partial decryptions at all).
func AggDec(partials map[party.ID]PartialDecryption, ct *Ciphertext, selector party.Selector, ak *AggregateKey, lp *lagrange.LagrangePowers) (bls.GT, error) {
	n := uint64(len(ak.PK))
	if err := selector.Validate(n, ct.T); err != nil {
		return bls.GT{}, &SelectorInvalidError{Message: err.Error()}
	}
	if lp.N != n {
		return bls.GT{}, &InvalidParameterError{Op: "AggDec", Message: "lagrange powers must be preprocessed for this committee size"}
	}
	if err := ct.Verify(ak); err != nil {
		return bls.GT{}, err
	}

	selected := selector.Selected()
	unselected := selector.Unselected()

	ones := make([]uint64, len(unselected))
	for i, id := range unselected {
		ones[i] = uint64(id)
	}
	bPoly, err := lp.Domain.MostlyZeroInterpolate(ones)
	if err != nil {
		return bls.GT{}, &InvalidParameterError{Op: "AggDec", Message: "failed to build the unselected-set indicator: " + err.Error()}
	}
	var one bls.Scalar
	one.SetOne()
	for _, id := range unselected {
		if v := bPoly.Eval(lp.Domain.Points[id]); !v.Equal(&one) {
			return bls.GT{}, &InvalidParameterError{Op: "AggDec", Message: "unselected-set indicator failed its own spot check"}
		}
	}

	var askLiU, askLiMinus0U bls.G1
	for _, id := range unselected {
		pk := ak.PK[id]
		askLiU = bls.AddG1(askLiU, pk.SkLi)
		askLiMinus0U = bls.AddG1(askLiMinus0U, pk.SkLiMinus0)
	}
	var askLiMinus0UNeg bls.G1
	askLiMinus0UNeg.Neg(&askLiMinus0U)

	sigmaPoints := make([]bls.G2, 0, len(selected))
	sigmaWeights := make([]bls.Scalar, 0, len(selected))
	for _, id := range selected {
		pd, ok := partials[id]
		if !ok {
			return bls.GT{}, &MalformedInputError{Op: "AggDec", Message: "missing partial decryption for a selected party"}
		}
		sigmaPoints = append(sigmaPoints, pd.Sigma)
		sigmaWeights = append(sigmaWeights, lp.Li0[id])
	}
	sigmaAgg, err := bls.MSMG2(sigmaPoints, sigmaWeights)
	if err != nil {
		return bls.GT{}, err
	}

	g := bls.G1Gen()
	egamma, err := bls.MultiPairing(
		[]bls.G1{g, askLiU, askLiMinus0UNeg},
		[]bls.G2{sigmaAgg, ct.GammaG2, ct.GammaTauG2},
	)
	if err != nil {
		return bls.GT{}, err
	}

	ex, err := bls.Pairing(ct.X, ak.Sa2[0])
	if err != nil {
		return bls.GT{}, err
	}
	return bls.MulGT(ex, egamma), nil
}
