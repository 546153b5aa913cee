package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	mhkc "github.com/BackendStack21/mhkc-go"
	"github.com/BackendStack21/mhkc-go/classical"
	"github.com/BackendStack21/mhkc-go/core"
	"github.com/BackendStack21/mhkc-go/knapsack"
	"github.com/BackendStack21/mhkc-go/utils"
)

const benchmarkMessage = "Hello, Merkle-Hellman! Grüße, 世界. "

func (c *cli) benchmarkCmd() *cobra.Command {
	var (
		iterations int
		size       string
		bits       int
	)
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Run performance benchmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if iterations < 1 {
				iterations = 1
			}
			params, err := c.keyParams(cmd, size, bits)
			if err != nil {
				return c.log.ErrorfAndReturn("invalid key parameters: %w", err)
			}
			// fold characters the key cannot carry into its range
			limit := int64(core.MaxCodePoint(params.N)) + 1
			message := strings.Map(func(r rune) rune { return rune(int64(r) % limit) }, strings.Repeat(benchmarkMessage, 10))

			fmt.Fprintf(c.out, "mhkc Benchmark Results\n")
			fmt.Fprintf(c.out, "======================\n")
			fmt.Fprintf(c.out, "Key bits: %d\n", params.N)
			fmt.Fprintf(c.out, "Iterations: %d\n", iterations)
			fmt.Fprintf(c.out, "Message: %d characters\n\n", len([]rune(message)))

			fmt.Fprintln(c.out, "Merkle-Hellman Knapsack")
			fmt.Fprintln(c.out, "-----------------------")

			var keygenTotal time.Duration
			var kp *mhkc.KeyPair
			for i := 0; i < iterations; i++ {
				start := time.Now()
				kp, err = knapsack.GenerateKeyPairWithParams(utils.RandReader, params)
				keygenTotal += time.Since(start)
				if err != nil {
					return c.log.ErrorfAndReturn("keygen: %w", err)
				}
			}
			fmt.Fprintf(c.out, "  KeyGen:   %v (avg)\n", keygenTotal/time.Duration(iterations))

			var encryptTotal time.Duration
			var ct mhkc.Ciphertext
			for i := 0; i < iterations; i++ {
				start := time.Now()
				ct, err = knapsack.EncryptString(kp.PublicKey, message)
				encryptTotal += time.Since(start)
				if err != nil {
					return c.log.ErrorfAndReturn("encrypt: %w", err)
				}
			}
			fmt.Fprintf(c.out, "  Encrypt:  %v (avg)\n", encryptTotal/time.Duration(iterations))

			var decryptTotal time.Duration
			for i := 0; i < iterations; i++ {
				start := time.Now()
				plain, err := knapsack.DecryptString(kp.PrivateKey, ct)
				decryptTotal += time.Since(start)
				if err != nil {
					return c.log.ErrorfAndReturn("decrypt: %w", err)
				}
				if plain != message {
					return c.log.ErrorfAndReturn("decrypt: round trip mismatch")
				}
			}
			fmt.Fprintf(c.out, "  Decrypt:  %v (avg)\n", decryptTotal/time.Duration(iterations))
			fmt.Fprintln(c.out)

			fmt.Fprintln(c.out, "Letter Ciphers")
			fmt.Fprintln(c.out, "--------------")

			var caesarTotal time.Duration
			for i := 0; i < iterations; i++ {
				start := time.Now()
				classical.DecryptCaesar(classical.EncryptCaesar(message, 13), 13)
				caesarTotal += time.Since(start)
			}
			fmt.Fprintf(c.out, "  Caesar:   %v (avg round trip)\n", caesarTotal/time.Duration(iterations))

			var vigenereTotal time.Duration
			for i := 0; i < iterations; i++ {
				start := time.Now()
				enc, err := classical.EncryptVigenere(message, "LEMON")
				if err == nil {
					_, err = classical.DecryptVigenere(enc, "LEMON")
				}
				vigenereTotal += time.Since(start)
				if err != nil {
					return c.log.ErrorfAndReturn("vigenere: %w", err)
				}
			}
			fmt.Fprintf(c.out, "  Vigenere: %v (avg round trip)\n", vigenereTotal/time.Duration(iterations))

			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "Benchmark complete!")
			return nil
		},
	}
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 10, "iterations per operation")
	cmd.Flags().StringVarP(&size, "size", "s", string(mhkc.Unicode), "key size preset: byte, bmp or unicode")
	cmd.Flags().IntVarP(&bits, "bits", "b", 0, "number of weights, overrides --size")
	return cmd
}
