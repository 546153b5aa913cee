package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	mhkc "github.com/BackendStack21/mhkc-go"
	"github.com/BackendStack21/mhkc-go/classical"
	"github.com/BackendStack21/mhkc-go/core"
	"github.com/BackendStack21/mhkc-go/knapsack"
	"github.com/BackendStack21/mhkc-go/utils"
)

func (c *cli) demoCmd() *cobra.Command {
	var size string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run every cipher on lines read from stdin",
		Long: `demo reads nine lines from standard input:

  1. text to Caesar-encrypt     2. its offset
  3. text to Caesar-decrypt     4. its offset
  5. text to Vigenere-encrypt   6. its keyword
  7. text to Vigenere-decrypt   8. its keyword
  9. text to encrypt with a fresh knapsack key

and prints one result per operation. The last two lines of output are the
knapsack ciphertext and its decryption.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := core.GetParams(mhkc.KeySize(size))
			if err != nil {
				return c.log.ErrorfAndReturn("%w", err)
			}
			lines := bufio.NewScanner(c.in)
			lines.Buffer(make([]byte, 0, 64*1024), utils.MaxMessageSize)
			next := func(what string) (string, error) {
				if !lines.Scan() {
					if err := lines.Err(); err != nil {
						return "", fmt.Errorf("reading %s: %w", what, err)
					}
					return "", fmt.Errorf("missing input line: %s", what)
				}
				return strings.TrimRight(lines.Text(), "\r"), nil
			}
			nextInt := func(what string) (int, error) {
				s, err := next(what)
				if err != nil {
					return 0, err
				}
				n, err := strconv.Atoi(strings.TrimSpace(s))
				if err != nil {
					return 0, fmt.Errorf("%s must be an integer: %w", what, err)
				}
				return n, nil
			}

			for _, op := range []struct {
				name string
				run  func(text string, offset int) string
			}{
				{"caesar encrypt", classical.EncryptCaesar},
				{"caesar decrypt", classical.DecryptCaesar},
			} {
				text, err := next(op.name + " text")
				if err != nil {
					return c.log.ErrorfAndReturn("%w", err)
				}
				offset, err := nextInt(op.name + " offset")
				if err != nil {
					return c.log.ErrorfAndReturn("%w", err)
				}
				fmt.Fprintln(c.out, op.run(text, offset))
			}

			for _, op := range []struct {
				name string
				run  func(text, keyword string) (string, error)
			}{
				{"vigenere encrypt", classical.EncryptVigenere},
				{"vigenere decrypt", classical.DecryptVigenere},
			} {
				text, err := next(op.name + " text")
				if err != nil {
					return c.log.ErrorfAndReturn("%w", err)
				}
				keyword, err := next(op.name + " keyword")
				if err != nil {
					return c.log.ErrorfAndReturn("%w", err)
				}
				out, err := op.run(text, keyword)
				if err != nil {
					return c.log.ErrorfAndReturn("%s: %w", op.name, err)
				}
				fmt.Fprintln(c.out, out)
			}

			text, err := next("knapsack plaintext")
			if err != nil {
				return c.log.ErrorfAndReturn("%w", err)
			}
			kp, err := knapsack.GenerateKeyPairWithParams(utils.RandReader, params)
			if err != nil {
				return c.log.ErrorfAndReturn("generating key pair: %w", err)
			}
			c.log.Debugf("Demo key: %d bits, modulus %s", kp.PrivateKey.Len(), kp.PrivateKey.Modulus())
			ct, err := knapsack.EncryptString(kp.PublicKey, text)
			if err != nil {
				return c.log.ErrorfAndReturn("encrypting: %w", err)
			}
			fmt.Fprintf(c.out, "[%s]\n", strings.Join(ct.Strings(), ", "))
			plain, err := knapsack.DecryptString(kp.PrivateKey, ct)
			if err != nil {
				return c.log.ErrorfAndReturn("decrypting: %w", err)
			}
			fmt.Fprintln(c.out, plain)
			return nil
		},
	}
	cmd.Flags().StringVarP(&size, "size", "s", string(mhkc.Unicode), "knapsack key size: byte, bmp or unicode")
	return cmd
}
