// Package wire implements the bit-exact binary encoding spec.md §6
// mandates: canonical compressed group elements (48 bytes for G1, 96 for
// G2, 576 for Gt), little-endian 32-byte scalars, and length-prefixed
// arrays for the aggregate structures. gnark-crypto's native encodings are
// big-endian for scalars and already-compressed for G1/G2; Gt has no
// compressed form in gnark-crypto, so its native 576-byte Bytes() output is
// used directly, matching spec.md's byte count exactly.
package wire

import (
	"encoding/binary"
	"io"

	"github.com/luxfi/ste/pkg/bls"
	"github.com/luxfi/ste/pkg/kzg"
	"github.com/luxfi/ste/pkg/lagrange"
	"github.com/luxfi/ste/pkg/ste"
)

const (
	sizeG1     = 48
	sizeG2     = 96
	sizeGT     = 576
	sizeScalar = 32
)

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// WriteG1 writes p's canonical compressed 48-byte encoding.
func WriteG1(w io.Writer, p bls.G1) error {
	buf := p.Bytes()
	_, err := w.Write(buf[:])
	return err
}

// ReadG1 reads a canonical compressed 48-byte G1 element.
func ReadG1(r io.Reader) (bls.G1, error) {
	var buf [sizeG1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return bls.G1{}, err
	}
	var p bls.G1
	if _, err := p.SetBytes(buf[:]); err != nil {
		return bls.G1{}, err
	}
	return p, nil
}

// WriteG2 writes p's canonical compressed 96-byte encoding.
func WriteG2(w io.Writer, p bls.G2) error {
	buf := p.Bytes()
	_, err := w.Write(buf[:])
	return err
}

// ReadG2 reads a canonical compressed 96-byte G2 element.
func ReadG2(r io.Reader) (bls.G2, error) {
	var buf [sizeG2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return bls.G2{}, err
	}
	var p bls.G2
	if _, err := p.SetBytes(buf[:]); err != nil {
		return bls.G2{}, err
	}
	return p, nil
}

// WriteGT writes v's canonical 576-byte encoding. Gt has no compressed
// form in gnark-crypto; its native Bytes() is already the 576 bytes
// spec.md's byte budget for Gt calls for.
func WriteGT(w io.Writer, v bls.GT) error {
	buf := v.Bytes()
	_, err := w.Write(buf[:])
	return err
}

// ReadGT reads a canonical 576-byte Gt element.
func ReadGT(r io.Reader) (bls.GT, error) {
	var buf [sizeGT]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return bls.GT{}, err
	}
	var v bls.GT
	if err := v.SetBytes(buf[:]); err != nil {
		return bls.GT{}, err
	}
	return v, nil
}

// WriteScalar writes s as a little-endian 32-byte canonical encoding.
// fr.Element.Marshal is big-endian, so the bytes are reversed before
// writing.
func WriteScalar(w io.Writer, s bls.Scalar) error {
	buf := s.Marshal()
	reverse(buf)
	_, err := w.Write(buf)
	return err
}

// ReadScalar reads a little-endian 32-byte canonical scalar encoding.
func ReadScalar(r io.Reader) (bls.Scalar, error) {
	buf := make([]byte, sizeScalar)
	if _, err := io.ReadFull(r, buf); err != nil {
		return bls.Scalar{}, err
	}
	reverse(buf)
	var s bls.Scalar
	if err := s.SetBytesCanonical(buf); err != nil {
		return bls.Scalar{}, err
	}
	return s, nil
}

func writeLenPrefix(w io.Writer, n int) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(n))
	_, err := w.Write(buf[:])
	return err
}

func readLenPrefix(r io.Reader) (int, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint32(buf[:])), nil
}

// WriteUniversalParams writes params as D+1 length-prefixed compressed G1
// elements followed by D+1 length-prefixed compressed G2 elements,
// exactly as spec.md §6 describes. h and beta_h are not written
// separately: they equal powers_of_h[0] and powers_of_h[1], and are
// reconstructed on read.
func WriteUniversalParams(w io.Writer, params *kzg.UniversalParams) error {
	if err := writeLenPrefix(w, len(params.PowersOfG)); err != nil {
		return err
	}
	for _, p := range params.PowersOfG {
		if err := WriteG1(w, p); err != nil {
			return err
		}
	}
	if err := writeLenPrefix(w, len(params.PowersOfH)); err != nil {
		return err
	}
	for _, p := range params.PowersOfH {
		if err := WriteG2(w, p); err != nil {
			return err
		}
	}
	return nil
}

// ReadUniversalParams is the inverse of WriteUniversalParams.
func ReadUniversalParams(r io.Reader) (*kzg.UniversalParams, error) {
	gLen, err := readLenPrefix(r)
	if err != nil {
		return nil, err
	}
	powersOfG := make([]bls.G1, gLen)
	for i := range powersOfG {
		if powersOfG[i], err = ReadG1(r); err != nil {
			return nil, err
		}
	}
	hLen, err := readLenPrefix(r)
	if err != nil {
		return nil, err
	}
	powersOfH := make([]bls.G2, hLen)
	for i := range powersOfH {
		if powersOfH[i], err = ReadG2(r); err != nil {
			return nil, err
		}
	}
	if hLen < 2 {
		return nil, io.ErrUnexpectedEOF
	}
	return &kzg.UniversalParams{
		PowersOfG: powersOfG,
		PowersOfH: powersOfH,
		H:         powersOfH[0],
		BetaH:     powersOfH[1],
	}, nil
}

// WriteLagrangePowers writes lp's five arrays, in declaration order, each
// length-prefixed: li, li_minus0_by_x, li_x, li_by_z, then the flattened
// li_lj_by_z cross matrix (row-major, n*n entries, zero G1 on the
// diagonal) prefixed by n itself.
func WriteLagrangePowers(w io.Writer, lp *lagrange.LagrangePowers) error {
	arrays := [][]bls.G1{lp.Li, lp.LiMinus0ByX, lp.LiX, lp.LiByZ}
	for _, arr := range arrays {
		if err := writeLenPrefix(w, len(arr)); err != nil {
			return err
		}
		for _, p := range arr {
			if err := WriteG1(w, p); err != nil {
				return err
			}
		}
	}
	if err := writeLenPrefix(w, int(lp.N)); err != nil {
		return err
	}
	for _, row := range lp.LiLjByZ {
		for _, p := range row {
			if err := WriteG1(w, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadLagrangePowers is the inverse of WriteLagrangePowers. Li0 and
// Domain are not serialized: they are derived quantities, not wire state,
// and the returned LagrangePowers leaves both unset.
func ReadLagrangePowers(r io.Reader) (*lagrange.LagrangePowers, error) {
	readArr := func() ([]bls.G1, error) {
		n, err := readLenPrefix(r)
		if err != nil {
			return nil, err
		}
		out := make([]bls.G1, n)
		for i := range out {
			if out[i], err = ReadG1(r); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	li, err := readArr()
	if err != nil {
		return nil, err
	}
	liMinus0ByX, err := readArr()
	if err != nil {
		return nil, err
	}
	liX, err := readArr()
	if err != nil {
		return nil, err
	}
	liByZ, err := readArr()
	if err != nil {
		return nil, err
	}
	n, err := readLenPrefix(r)
	if err != nil {
		return nil, err
	}
	liLjByZ := make([][]bls.G1, n)
	for i := range liLjByZ {
		liLjByZ[i] = make([]bls.G1, n)
		for j := range liLjByZ[i] {
			if liLjByZ[i][j], err = ReadG1(r); err != nil {
				return nil, err
			}
		}
	}
	return &lagrange.LagrangePowers{
		N:           uint64(n),
		Li:          li,
		LiMinus0ByX: liMinus0ByX,
		LiX:         liX,
		LiByZ:       liByZ,
		LiLjByZ:     liLjByZ,
	}, nil
}

// WriteCiphertext writes ct as sa1[0..3] || sa2[0..3] || x || enc_key ||
// t:u32-le || gamma_g2 || gamma_tau_g2, exactly the field order spec.md
// SS6 fixes.
func WriteCiphertext(w io.Writer, ct *ste.Ciphertext) error {
	for _, p := range ct.Sa1 {
		if err := WriteG1(w, p); err != nil {
			return err
		}
	}
	for _, p := range ct.Sa2 {
		if err := WriteG2(w, p); err != nil {
			return err
		}
	}
	if err := WriteG1(w, ct.X); err != nil {
		return err
	}
	if err := WriteGT(w, ct.EncKey); err != nil {
		return err
	}
	var tBuf [4]byte
	binary.LittleEndian.PutUint32(tBuf[:], uint32(ct.T))
	if _, err := w.Write(tBuf[:]); err != nil {
		return err
	}
	if err := WriteG2(w, ct.GammaG2); err != nil {
		return err
	}
	return WriteG2(w, ct.GammaTauG2)
}

// ReadCiphertext is the inverse of WriteCiphertext.
func ReadCiphertext(r io.Reader) (*ste.Ciphertext, error) {
	var ct ste.Ciphertext
	var err error
	for i := range ct.Sa1 {
		if ct.Sa1[i], err = ReadG1(r); err != nil {
			return nil, err
		}
	}
	for i := range ct.Sa2 {
		if ct.Sa2[i], err = ReadG2(r); err != nil {
			return nil, err
		}
	}
	if ct.X, err = ReadG1(r); err != nil {
		return nil, err
	}
	if ct.EncKey, err = ReadGT(r); err != nil {
		return nil, err
	}
	var tBuf [4]byte
	if _, err := io.ReadFull(r, tBuf[:]); err != nil {
		return nil, err
	}
	ct.T = uint64(binary.LittleEndian.Uint32(tBuf[:]))
	if ct.GammaG2, err = ReadG2(r); err != nil {
		return nil, err
	}
	if ct.GammaTauG2, err = ReadG2(r); err != nil {
		return nil, err
	}
	return &ct, nil
}
