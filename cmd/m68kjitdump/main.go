// Command m68kjitdump is an operator-facing harness around the
// translator: it compiles a window of guest instruction words into a host
// instruction stream and prints the result, for inspecting what one block
// of the JIT core actually emits without wiring up a full emulator.
package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kestrel68/m68kjit/internal/jit/translator"
	"github.com/kestrel68/m68kjit/internal/jit/translator/memtest"
)

func main() {
	var maxWords int
	var dynamicDn bool
	var dynamicAn bool
	var file string

	rootCmd := &cobra.Command{
		Use:   "m68kjitdump [words...]",
		Short: "Compile a window of 68k guest instruction words and dump the host opcode stream",
		Long: "m68kjitdump feeds one or more 16-bit big-endian guest opcode words " +
			"(given as whitespace-separated hex, or read from a file named with --from-file) " +
			"through the translator's Compile() and prints the resulting host instruction " +
			"stream, terminator kind, and guest address range touched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var words []uint16
			var err error
			if file != "" {
				words, err = readWordsFromFile(file)
			} else {
				words, err = parseWords(args)
			}
			if err != nil {
				return err
			}
			if len(words) == 0 {
				return fmt.Errorf("no guest instruction words given")
			}

			cfg := translator.DefaultConfig()
			cfg.DynamicDn = dynamicDn
			cfg.DynamicAn = dynamicAn
			cfg.Allocator = memtest.NewAllocator(4096)
			cfg.Cache = &memtest.Cache{}

			eng := translator.NewEngine(cfg)
			result, err := eng.Compile(words, maxWords)
			if err != nil {
				return fmt.Errorf("compilation failed: %w", err)
			}

			printResult(result)
			return nil
		},
	}
	rootCmd.Flags().IntVar(&maxWords, "max-words", 0, "maximum guest words to consume (0 = until a block terminator)")
	rootCmd.Flags().BoolVar(&dynamicDn, "dynamic-dn", false, "allow the LRU to reorder Dn bindings on every reference instead of only on first allocation")
	rootCmd.Flags().BoolVar(&dynamicAn, "dynamic-an", false, "allow the LRU to reorder An bindings on every reference instead of only on first allocation")
	rootCmd.Flags().StringVar(&file, "from-file", "", "read guest words (whitespace-separated hex) from this file instead of args")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "m68kjitdump:", err)
		os.Exit(1)
	}
}

func parseWords(args []string) ([]uint16, error) {
	var words []uint16
	for _, a := range args {
		a = strings.TrimPrefix(strings.TrimSpace(a), "0x")
		if a == "" {
			continue
		}
		v, err := strconv.ParseUint(a, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid guest word %q: %w", a, err)
		}
		words = append(words, uint16(v))
	}
	return words, nil
}

func readWordsFromFile(path string) ([]uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []uint16
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		for _, field := range strings.Fields(line) {
			field = strings.TrimPrefix(field, "0x")
			v, err := strconv.ParseUint(field, 16, 16)
			if err != nil {
				return nil, fmt.Errorf("invalid guest word %q: %w", field, err)
			}
			words = append(words, uint16(v))
		}
	}
	return words, scanner.Err()
}

var terminatorNames = map[translator.Terminator]string{
	translator.TerminatorNone:      "fallthrough",
	translator.TerminatorBranch:    "direct-branch-taken",
	translator.TerminatorIndirect:  "indirect-branch",
	translator.TerminatorReturn:    "return",
	translator.TerminatorException: "exception-injected",
}

func printResult(r translator.CompileResult) {
	fmt.Printf("guest words consumed: %d\n", r.WordsConsumed)
	fmt.Printf("guest addr range:     0x%08x-0x%08x\n", r.MinGuestAddr, r.MaxGuestAddr)
	fmt.Printf("terminator:           %s\n", terminatorNames[r.Terminator])
	if r.Terminator == translator.TerminatorException {
		fmt.Printf("exception vector:     %d\n", r.ExceptionVec)
	}
	if r.ReturnPredicted {
		fmt.Printf("predicted return:     0x%08x\n", r.PredictedReturn)
	}
	fmt.Printf("host instructions (%d bytes):\n", len(r.Code))
	for i := 0; i+4 <= len(r.Code); i += 4 {
		word := binary.LittleEndian.Uint32(r.Code[i:])
		fmt.Printf("  %04d: %08x\n", i/4, word)
	}
}
