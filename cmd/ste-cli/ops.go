package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luxfi/ste/pkg/bls"
	"github.com/luxfi/ste/pkg/kzg"
	"github.com/luxfi/ste/pkg/lagrange"
	"github.com/luxfi/ste/pkg/party"
	"github.com/luxfi/ste/pkg/ste"
	"github.com/luxfi/ste/pkg/ste/manifest"
	"github.com/luxfi/ste/pkg/ste/wire"
)

func parseScalarHex(s string) (bls.Scalar, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return bls.Scalar{}, fmt.Errorf("invalid hex scalar: %w", err)
	}
	padded := make([]byte, 32)
	copy(padded, buf)
	for i, j := 0, len(padded)-1; i < j; i, j = i+1, j-1 {
		padded[i], padded[j] = padded[j], padded[i]
	}
	var sc bls.Scalar
	sc.SetBytes(padded)
	return sc, nil
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0600)
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func readUniversalParams(path string) (*kzg.UniversalParams, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return wire.ReadUniversalParams(f)
}

func writeUniversalParams(path string, params *kzg.UniversalParams) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return wire.WriteUniversalParams(f, params)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func runSetup(cmd *cobra.Command, args []string) error {
	outFile = orDefault(outFile, "params.bin")
	tau, err := parseScalarHex(tauHex)
	if err != nil {
		return err
	}
	params, err := kzg.Setup(degree, tau)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	if err := writeUniversalParams(outFile, params); err != nil {
		return fmt.Errorf("failed to write parameters: %w", err)
	}
	fmt.Printf("Universal parameters (degree %d) written to %s\n", degree, outFile)
	return nil
}

func runCeremony(cmd *cobra.Command, args []string) error {
	outFile = orDefault(outFile, "params.bin")
	ceremony, err := kzg.NewCeremony(degree)
	if err != nil {
		return fmt.Errorf("failed to start ceremony: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := ceremony.Contribute(rand.Reader); err != nil {
			return fmt.Errorf("contribution %d failed: %w", i, err)
		}
		ok, err := ceremony.VerifyContribution(i)
		if err != nil {
			return fmt.Errorf("verifying contribution %d failed: %w", i, err)
		}
		if !ok {
			return fmt.Errorf("contribution %d failed verification", i)
		}
		if verbose {
			fmt.Printf("contribution %d/%d verified\n", i+1, n)
		}
	}
	params, err := ceremony.Finalize()
	if err != nil {
		return fmt.Errorf("finalize failed: %w", err)
	}
	if err := writeUniversalParams(outFile, params); err != nil {
		return fmt.Errorf("failed to write parameters: %w", err)
	}
	fmt.Printf("Ceremony with %d contributors finalized; parameters written to %s\n", n, outFile)
	return nil
}

func runKeygen(cmd *cobra.Command, args []string) error {
	if id < 0 {
		return fmt.Errorf("--id must be >= 0")
	}
	paramsIn = orDefault(paramsIn, "params.bin")
	params, err := readUniversalParams(paramsIn)
	if err != nil {
		return fmt.Errorf("failed to read parameters: %w", err)
	}
	tau, err := parseScalarHex(tauHex)
	if err != nil {
		return err
	}
	lp, err := lagrange.NewLagrangePowers(params, tau, uint64(t), uint64(n))
	if err != nil {
		return fmt.Errorf("lagrange preprocessing failed: %w", err)
	}

	var sk *ste.SecretKey
	if id == 0 {
		sk = ste.NewDummySecretKey()
	} else {
		sk, err = ste.NewSecretKey(rand.Reader)
		if err != nil {
			return fmt.Errorf("secret key generation failed: %w", err)
		}
	}

	pk, err := sk.GetPK(party.ID(id), lp)
	if err != nil {
		return fmt.Errorf("public key derivation failed: %w", err)
	}

	skFile, err := os.Create(outFile + ".sk")
	if err != nil {
		return fmt.Errorf("failed to create secret key file: %w", err)
	}
	err = wire.WriteScalar(skFile, sk.Scalar())
	skFile.Close()
	sk.Destroy()
	if err != nil {
		return fmt.Errorf("failed to write secret key: %w", err)
	}

	pkBytes, err := manifest.EncodePublicKey(pk)
	if err != nil {
		return fmt.Errorf("failed to encode public key: %w", err)
	}
	if err := writeFile(outFile+".pk", pkBytes); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}

	fmt.Printf("Party %d: secret key written to %s.sk, public key written to %s.pk\n", id, outFile, outFile)
	return nil
}

func runAggKey(cmd *cobra.Command, args []string) error {
	pkPaths, err := cmd.Flags().GetStringSlice("pk")
	if err != nil {
		return err
	}
	if len(pkPaths) != n {
		return fmt.Errorf("expected exactly %d --pk paths, got %d", n, len(pkPaths))
	}
	paramsIn = orDefault(paramsIn, "params.bin")
	outFile = orDefault(outFile, "manifest.cbor")
	params, err := readUniversalParams(paramsIn)
	if err != nil {
		return fmt.Errorf("failed to read parameters: %w", err)
	}

	pks := make([]*ste.PublicKey, len(pkPaths))
	for i, p := range pkPaths {
		data, err := readFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		pk, err := manifest.DecodePublicKey(data)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", p, err)
		}
		pks[i] = pk
	}

	ak, err := ste.NewAggregateKey(pks, params, uint64(n))
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}

	data, err := manifest.Encode(ak, uint64(t))
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := writeFile(outFile, data); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	fmt.Printf("Committee manifest (n=%d, t=%d) written to %s\n", n, t, outFile)
	return nil
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	manifestIn = orDefault(manifestIn, "manifest.cbor")
	paramsIn = orDefault(paramsIn, "params.bin")
	outFile = orDefault(outFile, "ciphertext.bin")
	manifestData, err := readFile(manifestIn)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	ak, threshold, err := manifest.Decode(manifestData)
	if err != nil {
		return fmt.Errorf("failed to decode manifest: %w", err)
	}
	params, err := readUniversalParams(paramsIn)
	if err != nil {
		return fmt.Errorf("failed to read parameters: %w", err)
	}

	ct, err := ste.Encrypt(ak, threshold, params, rand.Reader)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outFile, err)
	}
	defer f.Close()
	if err := wire.WriteCiphertext(f, ct); err != nil {
		return fmt.Errorf("failed to write ciphertext: %w", err)
	}
	fmt.Printf("Ciphertext (t=%d) written to %s\n", threshold, outFile)
	return nil
}

func runPartialDecrypt(cmd *cobra.Command, args []string) error {
	inputFile = orDefault(inputFile, "ciphertext.bin")
	skFile, err := os.Open(secretFile)
	if err != nil {
		return fmt.Errorf("failed to read secret key: %w", err)
	}
	scalar, err := wire.ReadScalar(skFile)
	skFile.Close()
	if err != nil {
		return fmt.Errorf("failed to decode secret key: %w", err)
	}
	sk, err := ste.NewSecretKeyFromScalar(scalar)
	if err != nil {
		return err
	}
	defer sk.Destroy()

	f, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read ciphertext: %w", err)
	}
	defer f.Close()
	ct, err := wire.ReadCiphertext(f)
	if err != nil {
		return fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	pd := ste.PartialDecrypt(sk, ct)

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outFile, err)
	}
	defer out.Close()
	if err := wire.WriteG2(out, pd.Sigma); err != nil {
		return fmt.Errorf("failed to write partial decryption: %w", err)
	}
	fmt.Printf("Partial decryption written to %s\n", outFile)
	return nil
}

func runAggDec(cmd *cobra.Command, args []string) error {
	partialArgs, err := cmd.Flags().GetStringSlice("partial")
	if err != nil {
		return err
	}
	inputFile = orDefault(inputFile, "ciphertext.bin")
	manifestIn = orDefault(manifestIn, "manifest.cbor")
	paramsIn = orDefault(paramsIn, "params.bin")

	manifestData, err := readFile(manifestIn)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	ak, threshold, err := manifest.Decode(manifestData)
	if err != nil {
		return fmt.Errorf("failed to decode manifest: %w", err)
	}

	committeeSize := uint64(len(ak.PK))
	selector := make(party.Selector, committeeSize)
	partials := make(map[party.ID]ste.PartialDecryption)

	for _, arg := range partialArgs {
		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("--partial must be of the form id:path, got %q", arg)
		}
		idx, err := strconv.Atoi(parts[0])
		if err != nil {
			return fmt.Errorf("invalid party id %q: %w", parts[0], err)
		}
		f, err := os.Open(parts[1])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", parts[1], err)
		}
		sigma, err := wire.ReadG2(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", parts[1], err)
		}
		selector[idx] = true
		partials[party.ID(idx)] = ste.PartialDecryption{Sigma: sigma}
	}

	ctFile, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read ciphertext: %w", err)
	}
	defer ctFile.Close()
	ct, err := wire.ReadCiphertext(ctFile)
	if err != nil {
		return fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	tau, err := parseScalarHex(tauHex)
	if err != nil {
		return err
	}
	params, err := readUniversalParams(paramsIn)
	if err != nil {
		return fmt.Errorf("failed to read parameters: %w", err)
	}
	lp, err := lagrange.NewLagrangePowers(params, tau, threshold, committeeSize)
	if err != nil {
		return fmt.Errorf("lagrange preprocessing failed: %w", err)
	}

	recovered, err := ste.AggDec(partials, ct, selector, ak, lp)
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}

	recoveredBytes := recovered.Bytes()
	expectedBytes := ct.EncKey.Bytes()
	match := recoveredBytes == expectedBytes

	fmt.Printf("recovered enc_key: %s\n", hex.EncodeToString(recoveredBytes[:]))
	if match {
		fmt.Println("matches ciphertext's enc_key: YES")
	} else {
		fmt.Println("matches ciphertext's enc_key: NO")
		return fmt.Errorf("decryption mismatch")
	}
	return nil
}
