// Package kzg implements the KZG polynomial commitment scheme over
// BLS12-381: a trusted-setup SRS, Commit/Open, and a multi-party ceremony
// for deriving that SRS without any single party learning tau (spec.md
// SS4.1, SS4.8).
package kzg

import (
	"errors"
	"io"

	"github.com/luxfi/ste/pkg/bls"
	"github.com/luxfi/ste/pkg/polynomial"

	"github.com/zeebo/blake3"
)

var (
	ErrInvalidDegree       = errors.New("kzg: maxDegree must be >= 0")
	ErrZeroTau             = errors.New("kzg: tau must not be zero")
	ErrDegreeTooHigh       = errors.New("kzg: polynomial degree exceeds the SRS")
	ErrCeremonyFinalized   = errors.New("kzg: ceremony is already finalized")
	ErrCeremonyNotReady    = errors.New("kzg: ceremony has no contributions to finalize")
	ErrContributionIndex   = errors.New("kzg: contribution index out of range")
	ErrInvalidContribution = errors.New("kzg: contribution failed verification")
)

// UniversalParams is the SRS: the powers of g and h under tau, {g, tau*g,
// tau^2*g, ...} and {h, tau*h, tau^2*h, ...}. Only powers_of_h[0] and
// powers_of_h[1] (H and BetaH) are needed by Verify; the higher powers of h
// are kept because aggregation reads powers_of_h[n] for z_g2.
type UniversalParams struct {
	PowersOfG []bls.G1
	PowersOfH []bls.G2
	H         bls.G2
	BetaH     bls.G2
}

// Setup computes the SRS directly from a known tau. Useful for tests and
// single-party simulations; production committee setup should use Ceremony
// instead, since a single party knowing tau can decrypt everything.
func Setup(maxDegree int, tau bls.Scalar) (*UniversalParams, error) {
	if maxDegree < 0 {
		return nil, ErrInvalidDegree
	}
	if tau.IsZero() {
		return nil, ErrZeroTau
	}
	g := bls.G1Gen()
	h := bls.G2Gen()

	powersOfG := make([]bls.G1, maxDegree+1)
	powersOfH := make([]bls.G2, maxDegree+1)
	powersOfG[0] = g
	powersOfH[0] = h
	for i := 1; i <= maxDegree; i++ {
		powersOfG[i] = bls.ScalarMulG1(powersOfG[i-1], tau)
		if i < len(powersOfH) {
			powersOfH[i] = bls.ScalarMulG2(powersOfH[i-1], tau)
		}
	}
	params := &UniversalParams{PowersOfG: powersOfG, PowersOfH: powersOfH, H: h}
	if len(powersOfH) > 1 {
		params.BetaH = powersOfH[1]
	} else {
		params.BetaH = bls.ScalarMulG2(h, tau)
	}
	return params, nil
}

// Commit computes C = sum(poly[i] * powers_of_g[i]), the KZG commitment to
// poly. len(poly) may not exceed len(PowersOfG).
func Commit(params *UniversalParams, poly polynomial.Polynomial) (bls.G1, error) {
	if len(poly) > len(params.PowersOfG) {
		return bls.G1{}, ErrDegreeTooHigh
	}
	if len(poly) == 0 {
		return bls.G1{}, nil
	}
	return bls.MSMG1(params.PowersOfG[:len(poly)], poly)
}

// Open evaluates poly at point and produces a proof that the evaluation is
// correct: proof = Commit(q), where q(X) = (poly(X) - poly(point)) / (X -
// point), computed by synthetic division (poly has a root at point in
// poly - poly(point), so this division is exact).
func Open(params *UniversalParams, poly polynomial.Polynomial, point bls.Scalar) (bls.Scalar, bls.G1, error) {
	value := poly.Eval(point)
	n := len(poly)
	if n == 0 {
		return value, bls.G1{}, nil
	}
	quotient := make(polynomial.Polynomial, n-1)
	if n == 1 {
		return value, bls.G1{}, nil
	}
	quotient[n-2] = poly[n-1]
	for i := n - 2; i >= 1; i-- {
		var t bls.Scalar
		t.Mul(&point, &quotient[i])
		quotient[i-1].Add(&poly[i], &t)
	}
	proof, err := Commit(params, quotient)
	return value, proof, err
}

// Verify checks that commitment opens to value at point with the given
// proof, via the pairing identity
//   e(commitment - value*g, h) == e(proof, beta_h - point*h).
func Verify(params *UniversalParams, commitment bls.G1, point, value bls.Scalar, proof bls.G1) (bool, error) {
	g := bls.G1Gen()
	valueG := bls.ScalarMulG1(g, value)
	var negValueG bls.G1
	negValueG.Neg(&valueG)
	lhsG1 := bls.AddG1(commitment, negValueG)

	pointH := bls.ScalarMulG2(params.H, point)
	var negPointH bls.G2
	negPointH.Neg(&pointH)
	rhsG2 := bls.AddG2(params.BetaH, negPointH)

	var negProof bls.G1
	negProof.Neg(&proof)

	return bls.PairingCheck([]bls.G1{lhsG1, negProof}, []bls.G2{params.H, rhsG2})
}

// CeremonyState is the stage of a multi-party SRS ceremony: spec.md SS4.8's
// Empty -> Contributing(k) -> Finalized state machine.
type CeremonyState int

const (
	CeremonyEmpty CeremonyState = iota
	CeremonyContributing
	CeremonyFinalized
)

// ContributionRecord is one entry of the ceremony transcript: the
// contributor's randomizer encoded in both groups (SG, SH — letting a
// verifier check they encode the same scalar via pairing, without ever
// learning the scalar itself) and the tau*g value before and after this
// contribution, chaining the transcript together. Digest binds the record
// to every prior record via blake3, so a ceremony coordinator cannot
// reorder or drop contributions undetected.
type ContributionRecord struct {
	SG       bls.G1
	SH       bls.G2
	PrevTauG bls.G1
	NewTauG  bls.G1
	Digest   [32]byte
}

// Ceremony accumulates contributions to an SRS of a fixed maximum degree.
// Each Contribute call multiplies tau by a freshly sampled secret scalar s
// (the i-th power by s^i), which is zeroized immediately afterward; no single contributor
// (other, possibly colluding, contributors aside) ever holds the full tau.
type Ceremony struct {
	state      CeremonyState
	maxDegree  int
	powersOfG  []bls.G1
	powersOfH  []bls.G2
	transcript []ContributionRecord
}

// NewCeremony starts a ceremony for an SRS of maxDegree, with tau
// implicitly 1 (i.e. powers_of_g/h all equal to g/h) until the first
// contribution is applied.
func NewCeremony(maxDegree int) (*Ceremony, error) {
	if maxDegree < 0 {
		return nil, ErrInvalidDegree
	}
	g := bls.G1Gen()
	h := bls.G2Gen()
	powersOfG := make([]bls.G1, maxDegree+1)
	powersOfH := make([]bls.G2, maxDegree+1)
	for i := range powersOfG {
		powersOfG[i] = g
	}
	for i := range powersOfH {
		powersOfH[i] = h
	}
	return &Ceremony{state: CeremonyEmpty, maxDegree: maxDegree, powersOfG: powersOfG, powersOfH: powersOfH}, nil
}

// State reports the ceremony's current stage.
func (c *Ceremony) State() CeremonyState { return c.state }

// Contribute samples a fresh nonzero scalar s, multiplies the i-th power of
// g and h by s^i (so tau becomes tau*s), records a transcript entry, and
// zeroizes s before returning.
func (c *Ceremony) Contribute(rnd io.Reader) error {
	if c.state == CeremonyFinalized {
		return ErrCeremonyFinalized
	}
	s, err := bls.RandScalar(rnd)
	if err != nil {
		return err
	}

	g := bls.G1Gen()
	h := bls.G2Gen()
	sG := bls.ScalarMulG1(g, s)
	sH := bls.ScalarMulG2(h, s)
	prevTauG := c.powersOfG[0]
	if c.maxDegree >= 1 {
		prevTauG = c.powersOfG[1]
	}

	var sPow bls.Scalar
	sPow.SetOne()
	for i := range c.powersOfG {
		c.powersOfG[i] = bls.ScalarMulG1(c.powersOfG[i], sPow)
		c.powersOfH[i] = bls.ScalarMulG2(c.powersOfH[i], sPow)
		sPow.Mul(&sPow, &s)
	}

	newTauG := c.powersOfG[0]
	if c.maxDegree >= 1 {
		newTauG = c.powersOfG[1]
	}

	var prevDigest [32]byte
	if len(c.transcript) > 0 {
		prevDigest = c.transcript[len(c.transcript)-1].Digest
	}
	sgBytes := sG.Bytes()
	h3 := blake3.New()
	h3.Write(prevDigest[:])
	h3.Write(sgBytes[:])
	var digest [32]byte
	copy(digest[:], h3.Sum(nil))

	c.transcript = append(c.transcript, ContributionRecord{
		SG:       sG,
		SH:       sH,
		PrevTauG: prevTauG,
		NewTauG:  newTauG,
		Digest:   digest,
	})

	zeroizeScalar(&s)
	zeroizeScalar(&sPow)
	c.state = CeremonyContributing
	return nil
}

// VerifyContribution checks transcript entry i: that SG and SH encode the
// same scalar (e(SG,h) == e(g,SH)), and that applying that scalar to the
// pre-contribution tau*g produces the recorded post-contribution value
// (e(NewTauG,h) == e(PrevTauG,SH)).
func (c *Ceremony) VerifyContribution(i int) (bool, error) {
	if i < 0 || i >= len(c.transcript) {
		return false, ErrContributionIndex
	}
	r := c.transcript[i]
	g := bls.G1Gen()
	h := bls.G2Gen()

	var negG bls.G1
	negG.Neg(&g)
	sameScalar, err := bls.PairingCheck([]bls.G1{r.SG, negG}, []bls.G2{h, r.SH})
	if err != nil {
		return false, err
	}

	var negPrevTauG bls.G1
	negPrevTauG.Neg(&r.PrevTauG)
	chained, err := bls.PairingCheck([]bls.G1{r.NewTauG, negPrevTauG}, []bls.G2{h, r.SH})
	if err != nil {
		return false, err
	}

	return sameScalar && chained, nil
}

// Finalize closes the ceremony and returns the resulting SRS. Requires at
// least one contribution; further Contribute calls after Finalize return
// ErrCeremonyFinalized.
func (c *Ceremony) Finalize() (*UniversalParams, error) {
	if c.state == CeremonyFinalized {
		return nil, ErrCeremonyFinalized
	}
	if len(c.transcript) == 0 {
		return nil, ErrCeremonyNotReady
	}
	c.state = CeremonyFinalized
	params := &UniversalParams{
		PowersOfG: append([]bls.G1(nil), c.powersOfG...),
		PowersOfH: append([]bls.G2(nil), c.powersOfH...),
		H:         bls.G2Gen(),
	}
	if len(params.PowersOfH) > 1 {
		params.BetaH = params.PowersOfH[1]
	} else {
		params.BetaH = params.PowersOfH[0]
	}
	return params, nil
}

// Transcript returns the recorded contributions, in contribution order.
func (c *Ceremony) Transcript() []ContributionRecord {
	return c.transcript
}

func zeroizeScalar(s *bls.Scalar) {
	for i := range s {
		s[i] = 0
	}
}
