package kzg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ste/pkg/bls"
	"github.com/luxfi/ste/pkg/polynomial"
)

func scalarFromUint64(v uint64) bls.Scalar {
	var s bls.Scalar
	s.SetUint64(v)
	return s
}

func TestSetupRejectsBadInput(t *testing.T) {
	_, err := Setup(-1, scalarFromUint64(5))
	require.ErrorIs(t, err, ErrInvalidDegree)

	var zero bls.Scalar
	_, err = Setup(4, zero)
	require.ErrorIs(t, err, ErrZeroTau)
}

func TestCommitOpenVerifyRoundTrip(t *testing.T) {
	tau := scalarFromUint64(12345)
	params, err := Setup(8, tau)
	require.NoError(t, err)

	poly := polynomial.Polynomial{
		scalarFromUint64(7), scalarFromUint64(3), scalarFromUint64(9), scalarFromUint64(1),
	}

	commitment, err := Commit(params, poly)
	require.NoError(t, err)

	point := scalarFromUint64(42)
	value, proof, err := Open(params, poly, point)
	require.NoError(t, err)
	require.True(t, value.Equal(ptr(poly.Eval(point))))

	ok, err := Verify(params, commitment, point, value, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func ptr(s bls.Scalar) *bls.Scalar { return &s }

func TestVerifyRejectsWrongValue(t *testing.T) {
	tau := scalarFromUint64(999)
	params, err := Setup(4, tau)
	require.NoError(t, err)

	poly := polynomial.Polynomial{scalarFromUint64(1), scalarFromUint64(2), scalarFromUint64(3)}
	commitment, err := Commit(params, poly)
	require.NoError(t, err)

	point := scalarFromUint64(10)
	value, proof, err := Open(params, poly, point)
	require.NoError(t, err)

	wrongValue := scalarFromUint64(0)
	wrongValue.Add(&value, &bls.Scalar{1})

	ok, err := Verify(params, commitment, point, wrongValue, proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCommitRejectsOversizePolynomial(t *testing.T) {
	params, err := Setup(2, scalarFromUint64(5))
	require.NoError(t, err)

	poly := make(polynomial.Polynomial, 10)
	for i := range poly {
		poly[i] = scalarFromUint64(uint64(i + 1))
	}
	_, err = Commit(params, poly)
	require.ErrorIs(t, err, ErrDegreeTooHigh)
}

func TestCeremonyThreeContributors(t *testing.T) {
	c, err := NewCeremony(8)
	require.NoError(t, err)
	require.Equal(t, CeremonyEmpty, c.State())

	seeds := []int64{1, 2, 3}
	for _, seed := range seeds {
		require.NoError(t, c.Contribute(deterministicReader(seed)))
	}
	require.Equal(t, CeremonyContributing, c.State())

	for i := range seeds {
		ok, err := c.VerifyContribution(i)
		require.NoError(t, err)
		require.True(t, ok, "contribution %d should verify", i)
	}

	_, err = c.VerifyContribution(len(seeds))
	require.ErrorIs(t, err, ErrContributionIndex)

	params, err := c.Finalize()
	require.NoError(t, err)
	require.Len(t, params.PowersOfG, 9)
	require.Len(t, params.PowersOfH, 9)

	require.ErrorIs(t, c.Contribute(deterministicReader(4)), ErrCeremonyFinalized)
	_, err = c.Finalize()
	require.ErrorIs(t, err, ErrCeremonyFinalized)
}

func TestCeremonyFinalizeWithoutContributionFails(t *testing.T) {
	c, err := NewCeremony(4)
	require.NoError(t, err)
	_, err = c.Finalize()
	require.ErrorIs(t, err, ErrCeremonyNotReady)
}

func TestCeremonyCommitUsableAfterFinalize(t *testing.T) {
	c, err := NewCeremony(4)
	require.NoError(t, err)
	require.NoError(t, c.Contribute(deterministicReader(11)))
	require.NoError(t, c.Contribute(deterministicReader(22)))
	params, err := c.Finalize()
	require.NoError(t, err)

	poly := polynomial.Polynomial{scalarFromUint64(2), scalarFromUint64(4)}
	commitment, err := Commit(params, poly)
	require.NoError(t, err)

	point := scalarFromUint64(7)
	value, proof, err := Open(params, poly, point)
	require.NoError(t, err)
	ok, err := Verify(params, commitment, point, value, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

// deterministicReader produces a reproducible byte stream from a seed, for
// fixed-scenario ceremony tests without depending on crypto/rand.
type seededReader struct {
	seed int64
}

func deterministicReader(seed int64) *seededReader {
	return &seededReader{seed: seed}
}

func (r *seededReader) Read(p []byte) (int, error) {
	state := uint64(r.seed)
	for i := range p {
		state = state*6364136223846793005 + 1442695040888963407
		p[i] = byte(state >> 33)
	}
	return len(p), nil
}
