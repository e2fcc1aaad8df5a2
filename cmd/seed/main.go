// Command seed encodes, decodes and shares character seeds from a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"rpgme/internal/character"
)

func main() {
	if err := newRootCmd(systemClipboard{}).Execute(); err != nil {
		os.Exit(1)
	}
}

type systemClipboard struct{}

func (systemClipboard) WriteText(_ context.Context, text string) error {
	return clipboard.WriteAll(text)
}

func newRootCmd(clip character.Clipboard) *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Work with character appearance seeds",
		SilenceUsage: true,
	}
	root.AddCommand(newEncodeCmd(), newDecodeCmd(), newLinkCmd(clip))
	return root
}

func newEncodeCmd() *cobra.Command {
	values := make(map[character.Field]*int, len(character.DigitFields))
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the seed for a set of appearance digits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := character.Defaults()
			for _, f := range character.DigitFields {
				next, err := character.Apply(st, character.Command{Field: f, Value: strconv.Itoa(*values[f])})
				if err != nil {
					return err
				}
				st = next
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), st.Seed)
			return err
		},
	}
	for _, f := range character.DigitFields {
		values[f] = cmd.Flags().Int(string(f), 0, fmt.Sprintf("%s digit (0-9)", f))
	}
	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode SEED",
		Short: "Print the appearance digits a seed describes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := character.ApplySeed(character.Defaults(), args[0])
			return printDigits(cmd.OutOrStdout(), st)
		},
	}
}

func printDigits(w io.Writer, st character.Settings) error {
	if _, err := fmt.Fprintf(w, "seed\t%s\n", st.Seed); err != nil {
		return err
	}
	d := st.Digits()
	for i, f := range character.DigitFields {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", f, d[i]); err != nil {
			return err
		}
	}
	return nil
}

func newLinkCmd(clip character.Clipboard) *cobra.Command {
	var copyLink bool
	cmd := &cobra.Command{
		Use:   "link PAGE_URL SEED",
		Short: "Print the share link for a seed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := character.ApplySeed(character.Defaults(), args[1]).Seed
			if !copyLink {
				link, err := character.ShareLink(args[0], seed)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
				return err
			}
			link, notice := character.Share(cmd.Context(), clip, args[0], seed)
			if link != "" {
				fmt.Fprintln(cmd.OutOrStdout(), link)
			}
			if notice.Failed {
				return fmt.Errorf("copy link: %s", strings.TrimPrefix(notice.Message, "Error: "))
			}
			fmt.Fprintln(cmd.ErrOrStderr(), notice.Message)
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyLink, "copy", false, "also copy the link to the clipboard")
	return cmd
}
