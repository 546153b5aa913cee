// Package main provides the mhkc-cli command line interface for the letter
// ciphers and the Merkle-Hellman knapsack cryptosystem.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mhkc "github.com/BackendStack21/mhkc-go"
	"github.com/BackendStack21/mhkc-go/internal/config"
	"github.com/BackendStack21/mhkc-go/internal/logging"
)

const (
	version = "1.0.0"
	appName = "mhkc-cli"
)

// cli holds the state shared by every command of one invocation.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	format     string
	verbose    bool
	debug      bool

	cfg *config.Config
	log logging.Logger
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   appName,
		Short: "Caesar, Vigenere and Merkle-Hellman knapsack ciphers",
		Long: `mhkc-cli encrypts and decrypts text with the Caesar and Vigenere letter
ciphers and with the Merkle-Hellman knapsack public-key cryptosystem.

WARNING: none of these ciphers is secure. Merkle-Hellman is broken by
lattice reduction. Use this tool for teaching and experiments only.

Examples:
  mhkc-cli caesar encrypt --text "HELLO" --offset 3
  mhkc-cli vigenere decrypt --text "LXFOPVEFRNHR" --keyword LEMON
  mhkc-cli mhkc keygen --size unicode -o key.json
  mhkc-cli mhkc encrypt --key key.json --message "hello" -o msg.json
  mhkc-cli mhkc decrypt --key key.json --ciphertext msg.json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to a YAML configuration file")
	flags.StringVarP(&c.format, "format", "f", "", "output encoding: hex, base64 or json")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&c.debug, "debug", "d", false, "enable debug output")

	root.AddCommand(
		c.caesarCmd(),
		c.vigenereCmd(),
		c.knapsackCmd(),
		c.demoCmd(),
		c.benchmarkCmd(),
		c.versionCmd(),
	)
	return root
}

// setup builds the logger and resolves the configuration. Flags override
// values read from the configuration file.
func (c *cli) setup(cmd *cobra.Command) error {
	c.log = logging.New(c.verbose, c.debug, c.errOut, c.errOut)
	c.log.Debugf("Running %s with verbose=%t, debug=%t", cmd.CommandPath(), c.verbose, c.debug)

	c.cfg = config.DefaultConfig()
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return c.log.ErrorfAndReturn("loading config %s: %w", c.configPath, err)
		}
		c.cfg = cfg
		c.log.Infof("Loaded configuration from %s", c.configPath)
	}

	if c.format != "" {
		c.cfg.Output.Format = c.format
	}
	if err := c.cfg.Validate(); err != nil {
		return c.log.ErrorfAndReturn("invalid configuration: %w", err)
	}
	return nil
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.out, "%s version %s\n", appName, version)
			fmt.Fprintf(c.out, "mhkc library version %s\n", mhkc.Version)
		},
	}
}
