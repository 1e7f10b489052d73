package manifest_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ste/pkg/bls"
	"github.com/luxfi/ste/pkg/kzg"
	"github.com/luxfi/ste/pkg/lagrange"
	"github.com/luxfi/ste/pkg/party"
	"github.com/luxfi/ste/pkg/ste"
	"github.com/luxfi/ste/pkg/ste/manifest"
)

func scalarFromUint64(v uint64) bls.Scalar {
	var s bls.Scalar
	s.SetUint64(v)
	return s
}

func buildAggregateKey(t *testing.T, n, thr uint64) (*ste.AggregateKey, *lagrange.LagrangePowers, []*ste.PublicKey) {
	t.Helper()
	tau := scalarFromUint64(161803)
	params, err := kzg.Setup(int(n), tau)
	require.NoError(t, err)
	lp, err := lagrange.NewLagrangePowers(params, tau, thr, n)
	require.NoError(t, err)

	sks := make([]*ste.SecretKey, n)
	sks[0] = ste.NewDummySecretKey()
	for i := uint64(1); i < n; i++ {
		sk, err := ste.NewSecretKey(bytes.NewReader(bytes.Repeat([]byte{byte(i*13 + 5)}, 256)))
		require.NoError(t, err)
		sks[i] = sk
	}
	pks := make([]*ste.PublicKey, n)
	for i := uint64(0); i < n; i++ {
		pk, err := sks[i].GetPK(party.ID(i), lp)
		require.NoError(t, err)
		pks[i] = pk
	}
	ak, err := ste.NewAggregateKey(pks, params, n)
	require.NoError(t, err)
	return ak, lp, pks
}

func TestEncodeDecodePublicKeyRoundTrip(t *testing.T) {
	_, lp, pks := buildAggregateKey(t, 4, 1)
	_ = lp

	for _, pk := range pks {
		data, err := manifest.EncodePublicKey(pk)
		require.NoError(t, err)

		got, err := manifest.DecodePublicKey(data)
		require.NoError(t, err)

		require.Equal(t, pk.ID, got.ID)
		require.True(t, bls.ConstantTimeEqualG2(&pk.BlsPK, &got.BlsPK))
		require.True(t, bls.ConstantTimeEqualG1(&pk.SkLi, &got.SkLi))
		require.True(t, bls.ConstantTimeEqualG1(&pk.SkLiMinus0, &got.SkLiMinus0))
		require.True(t, bls.ConstantTimeEqualG1(&pk.SkLiByZ, &got.SkLiByZ))
		require.Len(t, got.SkLiLjByZ, len(pk.SkLiLjByZ))
		for i := range pk.SkLiLjByZ {
			require.True(t, bls.ConstantTimeEqualG1(&pk.SkLiLjByZ[i], &got.SkLiLjByZ[i]), "row %d", i)
		}
	}
}

func TestEncodeDecodeManifestRoundTrip(t *testing.T) {
	ak, _, _ := buildAggregateKey(t, 8, 3)

	data, err := manifest.Encode(ak, 3)
	require.NoError(t, err)

	gotAK, gotT, err := manifest.Decode(data)
	require.NoError(t, err)
	require.EqualValues(t, 3, gotT)
	require.Len(t, gotAK.PK, len(ak.PK))

	require.True(t, bls.ConstantTimeEqualG1(&ak.Ask, &gotAK.Ask))
	require.True(t, bls.ConstantTimeEqualG2(&ak.ZG2, &gotAK.ZG2))
	require.True(t, bls.ConstantTimeEqualG2(&ak.HTauG2, &gotAK.HTauG2))
	require.True(t, bls.ConstantTimeEqualG1(&ak.TauG, &gotAK.TauG))
	require.Equal(t, ak.EGH.Bytes(), gotAK.EGH.Bytes())
	require.Equal(t, ak.EG0H.Bytes(), gotAK.EG0H.Bytes())
	for i := range ak.Sa1 {
		require.True(t, bls.ConstantTimeEqualG1(&ak.Sa1[i], &gotAK.Sa1[i]))
	}
	for i := range ak.Sa2 {
		require.True(t, bls.ConstantTimeEqualG2(&ak.Sa2[i], &gotAK.Sa2[i]))
	}
	for i := range ak.PK {
		require.Equal(t, ak.PK[i].ID, gotAK.PK[i].ID)
		require.True(t, bls.ConstantTimeEqualG2(&ak.PK[i].BlsPK, &gotAK.PK[i].BlsPK))
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := manifest.Decode([]byte("not cbor"))
	require.Error(t, err)
}
