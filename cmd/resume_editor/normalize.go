package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/resume-editor/internal/normalize"
	"github.com/spf13/cobra"
)

var (
	normalizeOutput  string
	normalizeCompact bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Normalize a resume document",
	Long: `Read a resume document from file (or stdin) and print the normalized
document: missing fields are filled with defaults, wrong types are replaced,
unknown templates fall back to the default and items without ids get one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "out", "o", "", "Write to file instead of stdout")
	normalizeCmd.Flags().BoolVar(&normalizeCompact, "compact", false, "Print without indentation")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	candidate, err := normalize.ParseCandidate(raw)
	if err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}
	data := normalize.Normalize(candidate)

	var out []byte
	if normalizeCompact {
		out, err = json.Marshal(data)
	} else {
		out, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	out = append(out, '\n')

	if normalizeOutput != "" {
		if err := os.WriteFile(normalizeOutput, out, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// readInput reads the file named by args[0], or stdin when no file or "-"
// is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return raw, nil
}
