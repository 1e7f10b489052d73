package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dataDir string
	verbose bool

	// Shared operation flags
	degree    int
	n         int
	t         int
	id        int
	tauHex     string
	paramsIn   string
	inputFile  string
	outFile    string
	secretFile string
	manifestIn string

	rootCmd = &cobra.Command{
		Use:   "ste-cli",
		Short: "CLI for silent threshold encryption",
		Long: `A CLI tool for the silent threshold encryption (STE) scheme over
BLS12-381: trusted setup, per-party key generation, committee aggregation,
encryption, partial decryption, and decryption aggregation.`,
	}

	setupCmd = &cobra.Command{
		Use:   "setup",
		Short: "Generate universal parameters from a single known tau",
		Long:  `Single-party trusted setup, offered for tests and local development only.`,
		RunE:  runSetup,
	}

	ceremonyCmd = &cobra.Command{
		Use:   "ceremony",
		Short: "Run a local multi-party setup ceremony",
		Long:  `Simulates a multi-contributor ceremony in-process, destroying every contributor's scalar after use.`,
		RunE:  runCeremony,
	}

	keygenCmd = &cobra.Command{
		Use:   "keygen",
		Short: "Generate a party's secret key and derived public key",
		RunE:  runKeygen,
	}

	aggKeyCmd = &cobra.Command{
		Use:   "agg-key",
		Short: "Aggregate a committee's public keys into a manifest",
		RunE:  runAggKey,
	}

	encryptCmd = &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt against a committee manifest",
		RunE:  runEncrypt,
	}

	partialDecryptCmd = &cobra.Command{
		Use:   "partial-decrypt",
		Short: "Produce one party's partial decryption of a ciphertext",
		RunE:  runPartialDecrypt,
	}

	aggDecCmd = &cobra.Command{
		Use:   "agg-dec",
		Short: "Combine partial decryptions into the encapsulated key",
		RunE:  runAggDec,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", ".", "directory holding committee artifacts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	setupCmd.Flags().IntVar(&degree, "degree", 0, "maximum SRS degree (required)")
	setupCmd.Flags().StringVar(&tauHex, "tau", "", "hex-encoded little-endian scalar tau (required)")
	setupCmd.Flags().StringVarP(&outFile, "output", "o", "", "output path for the universal parameters (default params.bin)")
	setupCmd.MarkFlagRequired("degree")
	setupCmd.MarkFlagRequired("tau")

	ceremonyCmd.Flags().IntVar(&degree, "degree", 0, "maximum SRS degree (required)")
	ceremonyCmd.Flags().IntVar(&n, "contributors", 3, "number of simulated contributors")
	ceremonyCmd.Flags().StringVarP(&outFile, "output", "o", "", "output path for the finalized parameters (default params.bin)")
	ceremonyCmd.MarkFlagRequired("degree")

	keygenCmd.Flags().IntVar(&id, "id", -1, "this party's committee index (required; 0 is the dummy party)")
	keygenCmd.Flags().IntVar(&n, "n", 0, "committee size (required)")
	keygenCmd.Flags().IntVar(&t, "t", 0, "decryption threshold (required)")
	keygenCmd.Flags().StringVar(&tauHex, "tau", "", "hex-encoded tau, for local/test lagrange preprocessing (required)")
	keygenCmd.Flags().StringVar(&paramsIn, "params", "", "path to universal parameters (default params.bin)")
	keygenCmd.Flags().StringVarP(&outFile, "output", "o", "", "output prefix (writes <prefix>.sk and <prefix>.pk) (required)")
	keygenCmd.MarkFlagRequired("id")
	keygenCmd.MarkFlagRequired("n")
	keygenCmd.MarkFlagRequired("t")
	keygenCmd.MarkFlagRequired("tau")
	keygenCmd.MarkFlagRequired("output")

	aggKeyCmd.Flags().IntVar(&n, "n", 0, "committee size (required)")
	aggKeyCmd.Flags().IntVar(&t, "t", 0, "decryption threshold (required)")
	aggKeyCmd.Flags().StringVar(&paramsIn, "params", "", "path to universal parameters (default params.bin)")
	aggKeyCmd.Flags().StringSliceP("pk", "k", nil, "path to a party's .pk file, one per party (required, n of them)")
	aggKeyCmd.Flags().StringVarP(&outFile, "output", "o", "", "output path for the committee manifest (default manifest.cbor)")
	aggKeyCmd.MarkFlagRequired("n")
	aggKeyCmd.MarkFlagRequired("t")
	aggKeyCmd.MarkFlagRequired("pk")

	encryptCmd.Flags().StringVar(&manifestIn, "manifest", "", "path to the committee manifest (default manifest.cbor)")
	encryptCmd.Flags().StringVar(&paramsIn, "params", "", "path to universal parameters (default params.bin)")
	encryptCmd.Flags().StringVarP(&outFile, "output", "o", "", "output path for the ciphertext (default ciphertext.bin)")

	partialDecryptCmd.Flags().StringVar(&inputFile, "ciphertext", "", "path to the ciphertext (default ciphertext.bin)")
	partialDecryptCmd.Flags().StringVar(&secretFile, "secret", "", "path to this party's .sk file (required)")
	partialDecryptCmd.Flags().StringVarP(&outFile, "output", "o", "", "output path for this party's partial decryption (required)")
	partialDecryptCmd.MarkFlagRequired("secret")
	partialDecryptCmd.MarkFlagRequired("output")

	aggDecCmd.Flags().StringVar(&inputFile, "ciphertext", "", "path to the ciphertext (default ciphertext.bin)")
	aggDecCmd.Flags().StringVar(&manifestIn, "manifest", "", "path to the committee manifest (default manifest.cbor)")
	aggDecCmd.Flags().StringVar(&paramsIn, "params", "", "path to universal parameters (default params.bin)")
	aggDecCmd.Flags().StringVar(&tauHex, "tau", "", "hex-encoded tau, for local/test lagrange preprocessing (required)")
	aggDecCmd.Flags().StringSliceP("partial", "p", nil, "id:path pair, one per contributing party (required)")
	aggDecCmd.MarkFlagRequired("tau")
	aggDecCmd.MarkFlagRequired("partial")

	rootCmd.AddCommand(setupCmd, ceremonyCmd, keygenCmd, aggKeyCmd, encryptCmd, partialDecryptCmd, aggDecCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
