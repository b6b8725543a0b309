// =============================================================================
// InventoryGen - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It loads and transforms
// manifests exactly like 'generate' does, then reports every validation
// finding instead of writing anything.
//
// COMMAND USAGE:
//   inventorygen validate [manifest...] [--strict]
//
// EXIT STATUS:
//   Non-zero if any manifest fails to load or is invalid. With --strict,
//   warnings count as errors.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ginjaninja78/inventorygen/internal/config"
	"github.com/ginjaninja78/inventorygen/internal/converter"
	"github.com/ginjaninja78/inventorygen/internal/validation"
	"github.com/spf13/cobra"
)

var strict bool

var validateCmd = &cobra.Command{
	Use:   "validate [manifest...]",
	Short: "Check manifests without writing inventories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), mainConfig, logger, args, strict)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")
}

// runValidate prints the findings for each manifest and fails if any
// manifest is invalid.
func runValidate(out io.Writer, cfg *config.MainConfig, log *slog.Logger, args []string, strict bool) error {
	manifests, err := collectManifests(cfg, args)
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		fmt.Fprintln(out, "No manifests found.")
		return nil
	}

	validator := validation.NewValidatorWithOptions(validation.ValidationOptions{
		TreatWarningsAsErrors: strict,
		MissingIDsGenerated:   cfg.GenerateMissingIDs,
	})

	failed := 0
	for _, manifestPath := range manifests {
		fmt.Fprintf(out, "=== %s ===\n", manifestPath)

		m, err := converter.New(manifestPath, cfg, converter.Options{Logger: log}).Prepare()
		if err != nil {
			failed++
			fmt.Fprintf(out, "  ✗ %v\n\n", err)
			continue
		}

		result := validator.ValidateManifest(m, m.Project)
		fmt.Fprintln(out, validation.FormatErrors(result.Errors))
		if !result.IsValid {
			failed++
			fmt.Fprintf(out, "  ✗ invalid (%d error(s), %d warning(s))\n\n", result.ErrorCount, result.WarningCount)
			continue
		}
		fmt.Fprintf(out, "  ✓ valid, %d document(s), %d warning(s)\n\n", result.EntriesValidated, result.WarningCount)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d manifest(s) failed validation", failed, len(manifests))
	}
	return nil
}
