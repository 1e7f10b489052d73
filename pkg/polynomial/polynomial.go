// Package polynomial implements the dense univariate polynomial utilities
// the scheme is built on: evaluation, a roots-of-unity domain with an FFT
// fast path, and the "mostly-zero" interpolator used by decryption
// aggregation (spec.md SS2 item 2, SS4.7).
package polynomial

import (
	"errors"

	"github.com/luxfi/ste/pkg/bls"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

var (
	ErrEmptyDomain    = errors.New("polynomial: domain size must be >= 1")
	ErrDomainMismatch = errors.New("polynomial: value count does not match domain size")
)

// Polynomial holds dense coefficients in increasing degree order:
// P(X) = coeffs[0] + coeffs[1]*X + ... + coeffs[d]*X^d.
type Polynomial []bls.Scalar

// Eval evaluates P at x by Horner's method.
func (p Polynomial) Eval(x bls.Scalar) bls.Scalar {
	var out bls.Scalar
	for i := len(p) - 1; i >= 0; i-- {
		out.Mul(&out, &x)
		out.Add(&out, &p[i])
	}
	return out
}

// Domain describes the evaluation points the scheme's committee is indexed
// by: either the n-th roots of unity of F (when n is a power of two, the
// fast FFT-friendly path) or an arbitrary set of n distinct field points
// drawn from the next-power-of-two roots of unity (the O(n^2) fallback path
// spec.md SS4.2 permits for committee sizes that are not a power of two).
//
// Points[i] plays the role of omega^i in spec.md; for a true roots-of-unity
// domain Points also forms a multiplicative subgroup, which is what lets
// ZInv below use the closed-form vanishing-polynomial identity instead of a
// generic O(n) product per index.
type Domain struct {
	N          uint64
	Points     []bls.Scalar
	IsRootsOfUnity bool // true iff Points is exactly the n-th roots of unity
	fftDomain  *fr.Domain
}

// NewDomain builds the evaluation domain for a committee of size n.
func NewDomain(n uint64) (*Domain, error) {
	if n == 0 {
		return nil, ErrEmptyDomain
	}
	if isPowerOfTwo(n) {
		fd := fr.NewDomain(n)
		points := make([]bls.Scalar, n)
		points[0].SetOne()
		for i := uint64(1); i < n; i++ {
			points[i].Mul(&points[i-1], &fd.Generator)
		}
		return &Domain{N: n, Points: points, IsRootsOfUnity: true, fftDomain: fd}, nil
	}
	// Fallback: take the first n points of the next-power-of-two roots of
	// unity as an arbitrary (non-subgroup) point set. Correctness of
	// Lagrange interpolation never depends on the points forming a group;
	// only the FFT and the zi(X) closed form (SS4.2) do, which is why this
	// path is O(n^2) instead of O(n log n).
	m := nextPowerOfTwo(n)
	fd := fr.NewDomain(m)
	points := make([]bls.Scalar, n)
	points[0].SetOne()
	for i := uint64(1); i < n; i++ {
		points[i].Mul(&points[i-1], &fd.Generator)
	}
	return &Domain{N: n, Points: points, IsRootsOfUnity: false, fftDomain: nil}, nil
}

func isPowerOfTwo(n uint64) bool { return n&(n-1) == 0 }

func nextPowerOfTwo(n uint64) uint64 {
	m := uint64(1)
	for m < n {
		m <<= 1
	}
	return m
}

// LagrangeAtTau returns Li(tau) for every i in [0,n), where Li is the i-th
// Lagrange basis polynomial of d.Points: Li(Points[i]) = 1, Li(Points[j]) = 0
// for j != i.
//
// On the roots-of-unity path this uses the barycentric closed form
// Li(X) = (X^n - 1) * Points[i] / (n * (X - Points[i])), evaluated at tau
// with a single batch inversion (O(n) total, per the "batch opening"
// technique of spec.md SS4.2 -- algebraically equivalent to, and cheaper
// than, an explicit FFT for a single evaluation point). On the fallback
// path it uses the generic product formula, which is O(n^2).
func (d *Domain) LagrangeAtTau(tau bls.Scalar) ([]bls.Scalar, error) {
	if d.IsRootsOfUnity {
		return d.lagrangeRootsOfUnity(tau)
	}
	return d.lagrangeGeneric(tau)
}

func (d *Domain) lagrangeRootsOfUnity(tau bls.Scalar) ([]bls.Scalar, error) {
	n := int(d.N)
	// tau^n - 1
	tauN := pow(tau, d.N)
	var one bls.Scalar
	one.SetOne()
	var tauNMinus1 bls.Scalar
	tauNMinus1.Sub(&tauN, &one)

	if tauNMinus1.IsZero() {
		// tau is itself in the domain: Li(tau) is 1 at the matching index,
		// 0 elsewhere; handle directly rather than dividing by zero.
		out := make([]bls.Scalar, n)
		for i := 0; i < n; i++ {
			if d.Points[i].Equal(&tau) {
				out[i].SetOne()
			}
		}
		return out, nil
	}

	denom := make([]bls.Scalar, n)
	for i := 0; i < n; i++ {
		denom[i].Sub(&tau, &d.Points[i])
	}
	denom = fr.BatchInvert(denom)

	nInv := invUint64(d.N)
	out := make([]bls.Scalar, n)
	for i := 0; i < n; i++ {
		out[i].Mul(&tauNMinus1, &d.Points[i])
		out[i].Mul(&out[i], &denom[i])
		out[i].Mul(&out[i], &nInv)
	}
	return out, nil
}

func (d *Domain) lagrangeGeneric(tau bls.Scalar) ([]bls.Scalar, error) {
	n := int(d.N)
	out := make([]bls.Scalar, n)
	for i := 0; i < n; i++ {
		if d.Points[i].Equal(&tau) {
			out[i].SetOne()
			continue
		}
		num := bls.Scalar{}
		num.SetOne()
		den := bls.Scalar{}
		den.SetOne()
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			var t bls.Scalar
			t.Sub(&tau, &d.Points[j])
			num.Mul(&num, &t)
			t.Sub(&d.Points[i], &d.Points[j])
			den.Mul(&den, &t)
		}
		den.Inverse(&den)
		out[i].Mul(&num, &den)
	}
	return out, nil
}

// LagrangeAtZero returns Li(0) for every i. On the roots-of-unity path this
// is the well-known constant 1/n for every i (spec.md SS4.2 note 2); on the
// fallback path it is computed generically.
func (d *Domain) LagrangeAtZero() []bls.Scalar {
	var zero bls.Scalar
	vals, _ := d.LagrangeAtTau(zero)
	return vals
}

// ZInv returns zi(tau)^-1 for every i, where zi(X) = (X^n - 1)/(X - Points[i])
// is the vanishing-polynomial quotient from spec.md SS4.2. Only defined on
// the roots-of-unity path; the generic path has no single vanishing
// polynomial shared by all points.
func (d *Domain) ZInv(tau bls.Scalar) ([]bls.Scalar, error) {
	if !d.IsRootsOfUnity {
		return nil, errors.New("polynomial: ZInv requires a roots-of-unity domain")
	}
	n := int(d.N)
	tauN := pow(tau, d.N)
	var one bls.Scalar
	one.SetOne()
	var tauNMinus1 bls.Scalar
	tauNMinus1.Sub(&tauN, &one)
	if tauNMinus1.IsZero() {
		return nil, errors.New("polynomial: tau is in the domain, zi is undefined there")
	}
	tauNMinus1Inv := tauNMinus1
	tauNMinus1Inv.Inverse(&tauNMinus1Inv)

	out := make([]bls.Scalar, n)
	for i := 0; i < n; i++ {
		out[i].Sub(&tau, &d.Points[i])
		out[i].Mul(&out[i], &tauNMinus1Inv)
	}
	return out, nil
}

func pow(base bls.Scalar, exp uint64) bls.Scalar {
	var out bls.Scalar
	out.SetOne()
	b := base
	for exp > 0 {
		if exp&1 == 1 {
			out.Mul(&out, &b)
		}
		b.Mul(&b, &b)
		exp >>= 1
	}
	return out
}

func invUint64(n uint64) bls.Scalar {
	var s bls.Scalar
	s.SetUint64(n)
	s.Inverse(&s)
	return s
}

// MostlyZeroInterpolate returns the dense coefficients of the unique
// polynomial of degree < d.N that is 1 at Points[i] for every i in ones and
// 0 at every other domain point (spec.md SS2 item 2, SS4.7 step 1: "B(X),
// 1 at the unselected indices and 0 at the selected ones"). Since the
// Lagrange basis is exact, B(X) = sum_{i in ones} Li(X); this builds that
// sum one basis polynomial at a time. On the roots-of-unity fast path each
// basis polynomial comes from synthetic-dividing the vanishing polynomial,
// O(len(ones)*n) in total; on the fallback domain each costs O(n^2).
func (d *Domain) MostlyZeroInterpolate(ones []uint64) (Polynomial, error) {
	n := int(d.N)
	out := make(Polynomial, n)
	for _, idx := range ones {
		if idx >= d.N {
			return nil, ErrDomainMismatch
		}
		basis, err := d.lagrangeBasisCoeffs(idx)
		if err != nil {
			return nil, err
		}
		for k := range out {
			out[k].Add(&out[k], &basis[k])
		}
	}
	return out, nil
}

// lagrangeBasisCoeffs returns the dense coefficients of Li(X), the i-th
// Lagrange basis polynomial of d.Points.
func (d *Domain) lagrangeBasisCoeffs(i uint64) (Polynomial, error) {
	if d.IsRootsOfUnity {
		return d.lagrangeBasisRootsOfUnity(i), nil
	}
	return d.lagrangeBasisGeneric(i), nil
}

// lagrangeBasisRootsOfUnity computes Li(X) in O(n) by synthetic-dividing
// the vanishing polynomial X^n - 1 by (X - Points[i]), then scaling the
// quotient by 1/Zi'(Points[i]) = 1/(n * Points[i]^(n-1)).
func (d *Domain) lagrangeBasisRootsOfUnity(i uint64) Polynomial {
	n := int(d.N)
	r := d.Points[i]

	coeffs := make([]bls.Scalar, n+1)
	coeffs[0].SetOne()
	coeffs[0].Neg(&coeffs[0])
	coeffs[n].SetOne()

	quotient := make([]bls.Scalar, n)
	quotient[n-1] = coeffs[n]
	for k := n - 1; k >= 1; k-- {
		var t bls.Scalar
		t.Mul(&r, &quotient[k])
		quotient[k-1].Add(&coeffs[k], &t)
	}

	var rPow bls.Scalar
	rPow.SetOne()
	for j := 0; j < n-1; j++ {
		rPow.Mul(&rPow, &r)
	}
	var nS bls.Scalar
	nS.SetUint64(uint64(n))
	var denom bls.Scalar
	denom.Mul(&nS, &rPow)
	denom.Inverse(&denom)

	out := make(Polynomial, n)
	for k := 0; k < n; k++ {
		out[k].Mul(&quotient[k], &denom)
	}
	return out
}

// lagrangeBasisGeneric computes Li(X) the direct way: n-1 linear-factor
// multiplications (O(n) each) to build the numerator, O(n) subtractions
// for the denominator. O(n^2) per call, matching the fallback domain's
// other generic-path routines.
func (d *Domain) lagrangeBasisGeneric(i uint64) Polynomial {
	n := int(d.N)
	num := make(Polynomial, 1)
	num[0].SetOne()
	for j := 0; j < n; j++ {
		if uint64(j) == i {
			continue
		}
		num = mulLinear(num, d.Points[j])
	}

	var den bls.Scalar
	den.SetOne()
	for j := 0; j < n; j++ {
		if uint64(j) == i {
			continue
		}
		var t bls.Scalar
		t.Sub(&d.Points[i], &d.Points[j])
		den.Mul(&den, &t)
	}
	den.Inverse(&den)

	out := make(Polynomial, n)
	for k := range num {
		out[k].Mul(&num[k], &den)
	}
	return out
}

// mulLinear returns p(X) * (X - c), growing p's degree by one.
func mulLinear(p Polynomial, c bls.Scalar) Polynomial {
	out := make(Polynomial, len(p)+1)
	for k := range out {
		if k >= 1 {
			out[k].Add(&out[k], &p[k-1])
		}
		if k < len(p) {
			var t bls.Scalar
			t.Mul(&c, &p[k])
			out[k].Sub(&out[k], &t)
		}
	}
	return out
}
