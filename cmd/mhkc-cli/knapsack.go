package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/spf13/cobra"

	mhkc "github.com/BackendStack21/mhkc-go"
	"github.com/BackendStack21/mhkc-go/core"
	"github.com/BackendStack21/mhkc-go/internal/config"
	"github.com/BackendStack21/mhkc-go/knapsack"
	"github.com/BackendStack21/mhkc-go/utils"
)

func (c *cli) knapsackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mhkc",
		Short: "Merkle-Hellman knapsack cryptosystem operations",
		Long: `Generate knapsack key pairs and encrypt or decrypt text with them.

Each character is encrypted on its own as the sum of the public weights
selected by the bits of its code point.`,
	}
	cmd.AddCommand(
		c.keygenCmd(),
		c.pubkeyCmd(),
		c.encryptCmd(),
		c.decryptCmd(),
		c.inspectCmd(),
	)
	return cmd
}

// keyParams resolves generation parameters from the configuration and the
// --size and --bits flags, the latter taking precedence.
func (c *cli) keyParams(cmd *cobra.Command, size string, bits int) (mhkc.Params, error) {
	params, err := c.cfg.Params()
	if err != nil {
		return mhkc.Params{}, err
	}
	ceiling, attempts := params.Ceiling, params.MaxCoprimeAttempts

	switch {
	case cmd.Flags().Changed("bits"):
		params = core.ParamsForBits(bits)
	case cmd.Flags().Changed("size"):
		params, err = core.GetParams(mhkc.KeySize(size))
		if err != nil {
			return mhkc.Params{}, err
		}
	}
	params.Ceiling = ceiling
	params.MaxCoprimeAttempts = attempts

	if err := core.ValidateParams(params); err != nil {
		return mhkc.Params{}, err
	}
	return params, nil
}

func (c *cli) keygenCmd() *cobra.Command {
	var (
		size       string
		bits       int
		seedHex    string
		randomSeed bool
		output     string
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a knapsack key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := c.keyParams(cmd, size, bits)
			if err != nil {
				return c.log.ErrorfAndReturn("invalid key parameters: %w", err)
			}
			c.log.Debugf("Key parameters: %+v", params)

			if randomSeed {
				seed, err := utils.SecureRandomBytes(utils.MinSeedLength)
				if err != nil {
					return c.log.ErrorfAndReturn("drawing seed: %w", err)
				}
				seedHex = hex.EncodeToString(seed)
				fmt.Fprintf(c.errOut, "Seed: %s\n", seedHex)
			}

			start := time.Now()
			var kp *mhkc.KeyPair
			if seedHex != "" {
				seed, err := hex.DecodeString(seedHex)
				if err != nil {
					return c.log.ErrorfAndReturn("decoding seed: %w", err)
				}
				kp, err = knapsack.GenerateKeyPairFromSeed(params, seed)
				utils.Zeroize(seed)
				if err != nil {
					return c.log.ErrorfAndReturn("generating key pair: %w", err)
				}
			} else {
				kp, err = knapsack.GenerateKeyPairWithParams(utils.RandReader, params)
				if err != nil {
					return c.log.ErrorfAndReturn("generating key pair: %w", err)
				}
			}
			c.log.Infof("Generated %d-bit key pair in %v", params.N, time.Since(start))

			kf := newKeyFile(kp, params.Size, binaryEncoding(c.cfg.Output.Format))
			if err := writeJSON(c.out, kf, output); err != nil {
				return c.log.ErrorfAndReturn("%w", err)
			}
			if output != "" {
				c.log.Infof("Wrote key %s to %s", kf.KeyID, output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&size, "size", "s", string(mhkc.Unicode), "key size preset: byte, bmp or unicode")
	cmd.Flags().IntVarP(&bits, "bits", "b", 0, "number of weights, overrides --size")
	cmd.Flags().StringVar(&seedHex, "seed", "", "hex seed of at least 32 bytes for deterministic keys")
	cmd.Flags().BoolVar(&randomSeed, "random-seed", false, "draw a fresh seed, print it to stderr and derive the key from it")
	cmd.MarkFlagsMutuallyExclusive("seed", "random-seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *cli) pubkeyCmd() *cobra.Command {
	var keyPath, output string
	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Export the public half of a key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kf, err := loadKeyFile(keyPath)
			if err != nil {
				return c.log.ErrorfAndReturn("loading key: %w", err)
			}
			if _, err := kf.publicKey(); err != nil {
				return c.log.ErrorfAndReturn("loading key: %w", err)
			}
			kf.PrivateKey = ""
			return writeJSON(c.out, kf, output)
		},
	}
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "key file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func (c *cli) encryptCmd() *cobra.Command {
	var keyPath, message, input, output string
	cmd := &cobra.Command{
		Use:   "encrypt [message]",
		Short: "Encrypt text with a public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			kf, err := loadKeyFile(keyPath)
			if err != nil {
				return c.log.ErrorfAndReturn("loading key: %w", err)
			}
			pk, err := kf.publicKey()
			if err != nil {
				return c.log.ErrorfAndReturn("loading key: %w", err)
			}

			var text string
			if input != "" {
				data, err := readLimitedFile(input)
				if err != nil {
					return c.log.ErrorfAndReturn("reading input: %w", err)
				}
				text = string(data)
			} else if text, err = readText(message, args, c.in); err != nil {
				return err
			}

			start := time.Now()
			ct, err := knapsack.EncryptString(pk, text)
			if err != nil {
				return c.log.ErrorfAndReturn("encrypting: %w", err)
			}
			c.log.Infof("Encrypted %d characters in %v", len(ct), time.Since(start))

			return writeJSON(c.out, newCiphertextFile(kf, ct, c.cfg.Output.Format), output)
		},
	}
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "key file (public or full)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "message to encrypt (default: arguments or stdin)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "read the message from a file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("key")
	cmd.MarkFlagsMutuallyExclusive("message", "input")
	return cmd
}

func (c *cli) decryptCmd() *cobra.Command {
	var keyPath, ctPath, values, output string
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a ciphertext with a private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kf, err := loadKeyFile(keyPath)
			if err != nil {
				return c.log.ErrorfAndReturn("loading key: %w", err)
			}
			sk, _, err := kf.privateKey()
			if err != nil {
				return c.log.ErrorfAndReturn("loading key: %w", err)
			}

			var ct mhkc.Ciphertext
			switch {
			case ctPath != "":
				cf, err := loadCiphertextFile(ctPath)
				if err != nil {
					return c.log.ErrorfAndReturn("loading ciphertext: %w", err)
				}
				if err := checkRecipient(kf, cf); err != nil {
					return c.log.ErrorfAndReturn("%w", err)
				}
				if ct, err = cf.ciphertext(); err != nil {
					return c.log.ErrorfAndReturn("loading ciphertext: %w", err)
				}
			case values != "":
				if ct, err = parseValues(strings.Split(values, ",")); err != nil {
					return c.log.ErrorfAndReturn("parsing values: %w", err)
				}
			default:
				return c.log.ErrorfAndReturn("one of --ciphertext or --values is required")
			}

			start := time.Now()
			text, err := knapsack.DecryptString(sk, ct)
			if err != nil {
				return c.log.ErrorfAndReturn("decrypting: %w", err)
			}
			c.log.Infof("Decrypted %d characters in %v", len(ct), time.Since(start))

			return writeOutput(c.out, []byte(text), output)
		},
	}
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "key file holding a private key")
	cmd.Flags().StringVarP(&ctPath, "ciphertext", "c", "", "ciphertext file written by encrypt")
	cmd.Flags().StringVar(&values, "values", "", "comma separated ciphertext values in base 10")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("key")
	cmd.MarkFlagsMutuallyExclusive("ciphertext", "values")
	return cmd
}

// checkRecipient reports whether cf was encrypted under the key in kf.
func checkRecipient(kf *keyFile, cf *ciphertextFile) error {
	if cf.Bits != 0 && cf.Bits != kf.Bits {
		return fmt.Errorf("%w: ciphertext uses %d-bit units, key has %d bits", mhkc.ErrKeyLengthMismatch, cf.Bits, kf.Bits)
	}
	if cf.Fingerprint != "" && kf.Fingerprint != "" && !strings.EqualFold(cf.Fingerprint, kf.Fingerprint) {
		return fmt.Errorf("%w: ciphertext was encrypted under key %s", mhkc.ErrInvalidKey, cf.Fingerprint)
	}
	return nil
}

func parseValues(fields []string) (mhkc.Ciphertext, error) {
	if len(fields) > utils.MaxCiphertextLength {
		return nil, fmt.Errorf("%d values exceed limit %d: %w", len(fields), utils.MaxCiphertextLength, utils.ErrExceedsLimit)
	}
	ct := make(mhkc.Ciphertext, 0, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, ok := new(big.Int).SetString(f, 10)
		if !ok {
			return nil, fmt.Errorf("%w: value %d (%q) is not a base 10 integer", mhkc.ErrInvalidCiphertext, i, f)
		}
		ct = append(ct, v)
	}
	if len(ct) == 0 {
		return nil, errors.New("no ciphertext values given")
	}
	return ct, nil
}

// keyInfo is the json rendering of inspect.
type keyInfo struct {
	KeyID           string   `json:"key_id"`
	KeySize         string   `json:"key_size,omitempty"`
	Bits            int      `json:"bits"`
	Fingerprint     string   `json:"fingerprint"`
	MaxCodePoint    string   `json:"max_code_point"`
	CreatedAt       string   `json:"created_at"`
	HasPrivateKey   bool     `json:"has_private_key"`
	PublicWeights   []string `json:"public_weights"`
	PrivateWeights  []string `json:"private_weights,omitempty"`
	Modulus         string   `json:"modulus,omitempty"`
	Multiplier      string   `json:"multiplier,omitempty"`
	PublicKeyBytes  int      `json:"public_key_bytes"`
	PrivateKeyBytes int      `json:"private_key_bytes,omitempty"`
}

func (c *cli) inspectCmd() *cobra.Command {
	var (
		keyPath     string
		showPrivate bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Describe a key file and verify its consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kf, err := loadKeyFile(keyPath)
			if err != nil {
				return c.log.ErrorfAndReturn("loading key: %w", err)
			}
			pk, err := kf.publicKey()
			if err != nil {
				return c.log.ErrorfAndReturn("inspecting key: %w", err)
			}

			info := keyInfo{
				KeyID:          kf.KeyID,
				KeySize:        kf.KeySize,
				Bits:           pk.Len(),
				Fingerprint:    hex.EncodeToString(knapsack.Fingerprint(pk)),
				MaxCodePoint:   fmt.Sprintf("U+%04X", core.MaxCodePoint(pk.Len())),
				CreatedAt:      kf.CreatedAt,
				PublicWeights:  mhkc.Ciphertext(pk.Weights()).Strings(),
				PublicKeyBytes: len(knapsack.SerializePublicKey(pk)),
			}
			if kf.PrivateKey != "" {
				sk, _, err := kf.privateKey()
				if err != nil {
					return c.log.ErrorfAndReturn("inspecting key: %w", err)
				}
				info.HasPrivateKey = true
				info.PrivateKeyBytes = len(knapsack.SerializePrivateKey(sk))
				if showPrivate {
					info.PrivateWeights = mhkc.Ciphertext(sk.Weights()).Strings()
					info.Modulus = sk.Modulus().String()
					info.Multiplier = sk.Multiplier().String()
				}
			}

			if c.cfg.Output.Format == config.FormatJSON {
				return writeJSON(c.out, info, "")
			}
			printKeyInfo(c, &info)
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "key file")
	cmd.Flags().BoolVar(&showPrivate, "show-private", false, "print the private weights, modulus and multiplier")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func printKeyInfo(c *cli, info *keyInfo) {
	fmt.Fprintf(c.out, "Key ID:        %s\n", info.KeyID)
	if info.KeySize != "" {
		fmt.Fprintf(c.out, "Key size:      %s\n", info.KeySize)
	}
	fmt.Fprintf(c.out, "Bits:          %d (up to %s)\n", info.Bits, info.MaxCodePoint)
	fmt.Fprintf(c.out, "Fingerprint:   %s\n", info.Fingerprint)
	fmt.Fprintf(c.out, "Created:       %s\n", info.CreatedAt)
	fmt.Fprintf(c.out, "Public key:    %d bytes\n", info.PublicKeyBytes)
	if info.HasPrivateKey {
		fmt.Fprintf(c.out, "Private key:   %d bytes, consistent with public key\n", info.PrivateKeyBytes)
	} else {
		fmt.Fprintf(c.out, "Private key:   none\n")
	}
	fmt.Fprintf(c.out, "Public weights: %s\n", strings.Join(info.PublicWeights, " "))
	if len(info.PrivateWeights) > 0 {
		fmt.Fprintf(c.out, "Private weights: %s\n", strings.Join(info.PrivateWeights, " "))
		fmt.Fprintf(c.out, "Modulus:       %s\n", info.Modulus)
		fmt.Fprintf(c.out, "Multiplier:    %s\n", info.Multiplier)
	}
}
