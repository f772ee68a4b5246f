package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-editor/internal/normalize"
	"github.com/jonathan/resume-editor/internal/schemas"
	"github.com/spf13/cobra"
)

var validateNormalized bool

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a resume document against the JSON schema",
	Long: `Validate a resume document from file (or stdin) against the embedded
resume data schema. With --normalized the document is normalized first,
which reports whether the editor would accept it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateNormalized, "normalized", false, "Normalize before validating")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	if validateNormalized {
		candidate, err := normalize.ParseCandidate(raw)
		if err != nil {
			return fmt.Errorf("failed to parse input: %w", err)
		}
		data := normalize.Normalize(candidate)
		err = schemas.ValidateDocument(&data)
		return report(cmd, err)
	}
	return report(cmd, schemas.ValidateResumeData(raw))
}

func report(cmd *cobra.Command, err error) error {
	out := cmd.OutOrStdout()
	if err == nil {
		fmt.Fprintln(out, "valid")
		return nil
	}
	var ve *schemas.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("failed to validate: %w", err)
	}
	for _, fe := range ve.Errors {
		fmt.Fprintf(out, "%s: %s\n", fe.Field, fe.Message)
	}
	return fmt.Errorf("document is invalid: %d error(s)", len(ve.Errors))
}
