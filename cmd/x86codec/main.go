// Command x86codec exposes the decoder, encoder, and randomized
// round-trip oracle over a small CLI, in the same cobra-root-plus-
// subcommands shape as the teacher's z80opt binary.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gima/x86codec/pkg/decode"
	"github.com/gima/x86codec/pkg/encode"
	"github.com/gima/x86codec/pkg/instr"
	"github.com/gima/x86codec/pkg/operand"
	"github.com/gima/x86codec/pkg/oracle"
	"github.com/gima/x86codec/pkg/stream"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "x86codec",
		Short: "32-bit x86 instruction codec — decode, encode, and self-verify",
	}

	rootCmd.AddCommand(newDecodeCmd(), newEncodeCmd(), newVerifyCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newDecodeCmd() *cobra.Command {
	var addr uint32
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decode HEXBYTES",
		Short: "Decode one instruction from a hex byte string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("invalid hex input: %w", err)
			}

			ins, n, err := decode.Decode(stream.New(raw), addr)
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(decodeReport{
					Text:   ins.String(),
					Length: n,
					Hex:    hex.EncodeToString(raw[:n]),
				})
			}
			fmt.Printf("%s\n", ins.String())
			fmt.Printf("  %d bytes: %s\n", n, strings.ToUpper(hex.EncodeToString(raw[:n])))
			return nil
		},
	}
	cmd.Flags().Uint32Var(&addr, "addr", 0, "Instruction's own address (affects decoded jump targets)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON instead of text")
	return cmd
}

type decodeReport struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
	Hex    string `json:"hex"`
}

func newEncodeCmd() *cobra.Command {
	var input string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode one or more instructions described as JSON",
		Long: `Reads a JSON array of instruction descriptions (mnemonic name, group-1
prefix, operand list, and the address to encode at) from --input (or stdin
when --input is "-" or omitted) and prints the encoded hex bytes for each.

There is no assembly-text grammar in this codec (see pkg/operand's doc
comment): an instruction description names its operands the same way
pkg/operand's Go constructors do, just spelled as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := os.Stdin
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				return runEncode(f, asJSON)
			}
			return runEncode(r, asJSON)
		},
	}
	cmd.Flags().StringVar(&input, "input", "-", "JSON input file, or - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON instead of text")
	return cmd
}

func runEncode(r io.Reader, asJSON bool) error {
	var descs []instructionJSON
	if err := json.NewDecoder(r).Decode(&descs); err != nil {
		return fmt.Errorf("parsing instruction JSON: %w", err)
	}

	var reports []encodeReport
	for _, d := range descs {
		ins, err := d.toInstruction()
		if err != nil {
			return fmt.Errorf("instruction %q: %w", d.Mnemonic, err)
		}
		enc, err := encode.Encode(ins, d.Addr)
		if err != nil {
			return fmt.Errorf("encode %s: %w", ins.String(), err)
		}
		rep := encodeReport{Text: ins.String(), Hex: hex.EncodeToString(enc)}
		reports = append(reports, rep)
		if !asJSON {
			fmt.Printf("%-40s %s\n", rep.Text, strings.ToUpper(rep.Hex))
		}
	}
	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(reports)
	}
	return nil
}

type encodeReport struct {
	Text string `json:"text"`
	Hex  string `json:"hex"`
}

func newVerifyCmd() *cobra.Command {
	var seed uint64
	var count int
	var workers int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run the randomized encode-decode fixpoint oracle and report pass/fail",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := oracle.NewRNG(seed)
			corpus := oracle.GenCorpus(rng, count)

			fmt.Printf("x86codec verify\n")
			fmt.Printf("  Corpus size: %d\n", len(corpus))
			fmt.Printf("  Workers: %d\n", workers)

			wp := oracle.NewWorkerPool(workers)
			wp.RunCorpus(corpus, verbose)

			checked, failed := wp.Stats()
			fmt.Printf("\n%d checked, %d failed\n", checked, failed)
			for _, f := range wp.Failures() {
				msg := "mismatch"
				if f.Err != nil {
					msg = f.Err.Error()
				}
				fmt.Printf("  FAIL %s at %#x: %s\n", f.Case.Instruction.String(), f.Case.Addr, msg)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d instructions failed the round-trip check", failed, checked)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 1, "RNG seed for the generated corpus")
	cmd.Flags().IntVar(&count, "count", 2000, "Number of random instructions to check")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of worker goroutines (0 = NumCPU)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print progress while checking")
	return cmd
}

// instructionJSON mirrors instr.Instruction's fields as plain JSON; its
// operand list is decoded by operandJSON (see operandjson.go) instead of
// through encoding/json's normal interface handling, since operand.Operand
// is a closed interface encoding/json can't unmarshal into directly.
type instructionJSON struct {
	Mnemonic     string        `json:"mnemonic"`
	Group1Prefix string        `json:"group1_prefix,omitempty"`
	Operands     []operandJSON `json:"operands,omitempty"`
	Addr         uint32        `json:"addr"`
}

func (d instructionJSON) toInstruction() (instr.Instruction, error) {
	m, ok := mnemonicByName[strings.ToUpper(d.Mnemonic)]
	if !ok {
		return instr.Instruction{}, fmt.Errorf("unknown mnemonic %q", d.Mnemonic)
	}
	prefix, err := parseGroup1Prefix(d.Group1Prefix)
	if err != nil {
		return instr.Instruction{}, err
	}
	ops := make([]operand.Operand, len(d.Operands))
	for i, o := range d.Operands {
		v, err := o.toOperand()
		if err != nil {
			return instr.Instruction{}, fmt.Errorf("operand %d: %w", i, err)
		}
		ops[i] = v
	}
	return instr.Instruction{Mnemonic: m, Group1Prefix: prefix, Operands: ops}, nil
}
