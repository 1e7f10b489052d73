package polynomial

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ste/pkg/bls"
)

func scalarFromUint64(v uint64) bls.Scalar {
	var s bls.Scalar
	s.SetUint64(v)
	return s
}

func TestEvalHorner(t *testing.T) {
	// P(X) = 3 + 2X + X^2, P(5) = 3 + 10 + 25 = 38
	p := Polynomial{scalarFromUint64(3), scalarFromUint64(2), scalarFromUint64(1)}
	got := p.Eval(scalarFromUint64(5))
	require.True(t, got.Equal(ref(38)))
}

func ref(v uint64) *bls.Scalar {
	s := scalarFromUint64(v)
	return &s
}

func TestNewDomainPowerOfTwo(t *testing.T) {
	dom, err := NewDomain(8)
	require.NoError(t, err)
	require.True(t, dom.IsRootsOfUnity)
	require.Len(t, dom.Points, 8)

	var one bls.Scalar
	one.SetOne()
	require.True(t, dom.Points[0].Equal(&one))

	// omega^n == 1
	gen := dom.Points[1]
	acc := gen
	for i := 1; i < 8; i++ {
		acc.Mul(&acc, &gen)
	}
	require.True(t, acc.Equal(&one))
}

func TestNewDomainNonPowerOfTwo(t *testing.T) {
	dom, err := NewDomain(5)
	require.NoError(t, err)
	require.False(t, dom.IsRootsOfUnity)
	require.Len(t, dom.Points, 5)
}

func TestNewDomainRejectsZero(t *testing.T) {
	_, err := NewDomain(0)
	require.ErrorIs(t, err, ErrEmptyDomain)
}

func TestLagrangeAtTauIsIndicator(t *testing.T) {
	for _, n := range []uint64{4, 5} {
		dom, err := NewDomain(n)
		require.NoError(t, err)
		for i := uint64(0); i < n; i++ {
			li, err := dom.LagrangeAtTau(dom.Points[i])
			require.NoError(t, err)
			for j := uint64(0); j < n; j++ {
				if i == j {
					require.True(t, li[j].IsOne(), "n=%d i=%d", n, i)
				} else {
					require.True(t, li[j].IsZero(), "n=%d i=%d j=%d", n, i, j)
				}
			}
		}
	}
}

func TestLagrangeAtTauSumsToOne(t *testing.T) {
	dom, err := NewDomain(8)
	require.NoError(t, err)
	tau := scalarFromUint64(12345)
	li, err := dom.LagrangeAtTau(tau)
	require.NoError(t, err)
	var sum bls.Scalar
	for _, v := range li {
		sum.Add(&sum, &v)
	}
	require.True(t, sum.IsOne())
}

func TestZInvMatchesDirectEvaluation(t *testing.T) {
	dom, err := NewDomain(8)
	require.NoError(t, err)
	tau := scalarFromUint64(777)

	zinv, err := dom.ZInv(tau)
	require.NoError(t, err)

	for i := range dom.Points {
		var zi bls.Scalar
		zi.SetOne()
		for j, other := range dom.Points {
			if uint64(j) == uint64(i) {
				continue
			}
			var diff bls.Scalar
			diff.Sub(&tau, &other)
			zi.Mul(&zi, &diff)
		}
		var want bls.Scalar
		want.Inverse(&zi)
		require.True(t, zinv[i].Equal(&want), "index %d", i)
	}
}

func TestLagrangeAtZeroIsOneOverN(t *testing.T) {
	dom, err := NewDomain(4)
	require.NoError(t, err)
	li0 := dom.LagrangeAtZero()
	var nInv bls.Scalar
	nInv.SetUint64(4)
	nInv.Inverse(&nInv)
	for _, v := range li0 {
		require.True(t, v.Equal(&nInv))
	}
}
