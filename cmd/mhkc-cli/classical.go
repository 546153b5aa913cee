package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BackendStack21/mhkc-go/classical"
)

func (c *cli) caesarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "caesar",
		Short: "Caesar cipher operations",
	}
	cmd.AddCommand(
		c.caesarRunCmd("encrypt", "Shift every letter forward by the offset", classical.EncryptCaesar),
		c.caesarRunCmd("decrypt", "Shift every letter back by the offset", classical.DecryptCaesar),
	)
	return cmd
}

func (c *cli) caesarRunCmd(use, short string, op func(string, int) string) *cobra.Command {
	var (
		text   string
		offset int
	)
	cmd := &cobra.Command{
		Use:   use + " [text]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readText(text, args, c.in)
			if err != nil {
				return err
			}
			c.log.Debugf("caesar %s: %d characters, offset %d", use, len([]rune(input)), offset)
			fmt.Fprintln(c.out, op(input, offset))
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "text to transform (default: arguments or stdin)")
	cmd.Flags().IntVarP(&offset, "offset", "k", 3, "shift offset, any integer")
	return cmd
}

func (c *cli) vigenereCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vigenere",
		Short: "Vigenere cipher operations",
	}
	cmd.AddCommand(
		c.vigenereRunCmd("encrypt", "Shift each letter forward by the matching keyword letter", classical.EncryptVigenere),
		c.vigenereRunCmd("decrypt", "Shift each letter back by the matching keyword letter", classical.DecryptVigenere),
	)
	return cmd
}

func (c *cli) vigenereRunCmd(use, short string, op func(string, string) (string, error)) *cobra.Command {
	var text, keyword string
	cmd := &cobra.Command{
		Use:   use + " [text]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readText(text, args, c.in)
			if err != nil {
				return err
			}
			c.log.Debugf("vigenere %s: %d characters, keyword length %d", use, len([]rune(input)), len(keyword))
			result, err := op(input, keyword)
			if err != nil {
				return c.log.ErrorfAndReturn("vigenere %s: %w", use, err)
			}
			fmt.Fprintln(c.out, result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "text to transform (default: arguments or stdin)")
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "keyword of ASCII letters")
	_ = cmd.MarkFlagRequired("keyword")
	return cmd
}
