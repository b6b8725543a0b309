// =============================================================================
// InventoryGen - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, which writes one inventory file
// per manifest.
//
// COMMAND USAGE:
//   inventorygen generate [manifest...] [flags]
//
// FLAGS:
//   --dry-run  : Build and serialize inventories without writing them
//   --project  : Project name for every inventory of this run
//   --output   : Output file (only with a single manifest)
//   --dump     : Log each loaded manifest at debug level
//
// PROCESSING PIPELINE:
//   1. Collect manifests (arguments, or the input directory)
//   2. Process manifests concurrently, at most max_concurrency at a time
//   3. Print and log a summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ginjaninja78/inventorygen/internal/config"
	"github.com/ginjaninja78/inventorygen/internal/converter"
	"github.com/ginjaninja78/inventorygen/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

type generateFlags struct {
	dryRun  bool
	project string
	output  string
	dump    bool
}

var genFlags generateFlags

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

var generateCmd = &cobra.Command{
	Use:   "generate [manifest...]",
	Short: "Generate inventory files from manifests",
	Long: `The generate command converts manifests into inventory XML files.

Without arguments every file in the input directory matching
manifest_patterns is processed. Manifests are processed concurrently and
independently: a failure in one does not affect the others unless
stop_on_error is set.

On success:
  - The inventory is placed in the output directory
  - The manifest is moved to the input archive, if one is configured

On error:
  - The manifest stays where it is
  - The error is reported in the summary`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.OutOrStdout(), mainConfig, logger, args, genFlags)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(&genFlags.dryRun, "dry-run", false, "Build inventories without writing output files")
	generateCmd.Flags().StringVar(&genFlags.project, "project", "", "Project name for every inventory of this run")
	generateCmd.Flags().StringVarP(&genFlags.output, "output", "o", "", "Output file (only with a single manifest)")
	generateCmd.Flags().BoolVar(&genFlags.dump, "dump", false, "Log each loaded manifest at debug level")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runGenerate orchestrates a generation run.
func runGenerate(out io.Writer, cfg *config.MainConfig, log *slog.Logger, args []string, flags generateFlags) error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: COLLECT MANIFESTS
	// =========================================================================

	manifests, err := collectManifests(cfg, args)
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		fmt.Fprintln(out, "No manifests found.")
		return nil
	}
	if flags.output != "" && len(manifests) != 1 {
		return fmt.Errorf("--output needs exactly one manifest, got %d", len(manifests))
	}

	fmt.Fprintf(out, "Found %d manifest(s) to process\n", len(manifests))

	// =========================================================================
	// STEP 2: PROCESS MANIFESTS CONCURRENTLY
	// =========================================================================

	options := converter.Options{
		Project:      flags.project,
		OutputPath:   flags.output,
		DryRun:       flags.dryRun,
		DumpManifest: flags.dump,
		Logger:       log,
	}

	results := processManifests(cfg, manifests, options)

	// =========================================================================
	// STEP 3: SUMMARY
	// =========================================================================

	summary := utils.ProcessingSummary{
		StartTime:  startTime,
		TotalFiles: len(manifests),
	}

	for _, result := range results {
		if result.Success {
			summary.SuccessfulFiles++
			summary.TotalDocuments += result.Stats.DocumentsWritten
			summary.Warnings += result.Stats.Warnings
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:   result.FilePath,
				OutputFile:  result.OutputFile,
				ArchivePath: result.ArchivePath,
				Documents:   result.Stats.DocumentsWritten,
				ProcessTime: result.Stats.ProcessingTime,
			})
			target := result.OutputFile
			if target == "" {
				target = "(dry run)"
			}
			fmt.Fprintf(out, "  ✓ %s -> %s (%d documents)\n", filepath.Base(result.FilePath), target, result.Stats.DocumentsWritten)
			continue
		}

		summary.FailedFiles++
		summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    result.FilePath,
			ErrorMessage: result.Error.Error(),
		})
		fmt.Fprintf(out, "  ✗ %s: %v\n", filepath.Base(result.FilePath), result.Error)
	}

	summary.EndTime = time.Now()
	skipped := summary.TotalFiles - summary.SuccessfulFiles - summary.FailedFiles

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total manifests: %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	if skipped > 0 {
		fmt.Fprintf(out, "Skipped:         %d\n", skipped)
	}
	fmt.Fprintf(out, "Documents:       %d\n", summary.TotalDocuments)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime))

	if !flags.dryRun && flags.output == "" {
		fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir)
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
		summaryPath, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
		if err != nil {
			log.Warn("summary log not written", "error", err)
		} else {
			log.Info("summary log written", "path", summaryPath)
		}
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d manifest(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// processManifests runs one converter per manifest with at most
// cfg.MaxConcurrency running at once. Results keep the order of manifests;
// manifests skipped after a failure with StopOnError are left out. Two
// manifests resolving to the same output file never both write it.
func processManifests(cfg *config.MainConfig, manifests []string, options converter.Options) []converter.Result {
	limit := cfg.MaxConcurrency
	if limit < 1 {
		limit = 1
	}

	options.Claims = utils.NewOutputClaims()

	var (
		wg      sync.WaitGroup
		stopped atomic.Bool
		sem     = make(chan struct{}, limit)
		slots   = make([]*converter.Result, len(manifests))
	)

	for i, manifestPath := range manifests {
		sem <- struct{}{}
		if stopped.Load() {
			<-sem
			break
		}

		wg.Add(1)
		go func(i int, manifestPath string) {
			defer wg.Done()
			defer func() { <-sem }()

			result := converter.New(manifestPath, cfg, options).Run()
			if !result.Success && cfg.StopOnError {
				stopped.Store(true)
			}
			slots[i] = &result
		}(i, manifestPath)
	}

	wg.Wait()

	results := make([]converter.Result, 0, len(manifests))
	for _, result := range slots {
		if result != nil {
			results = append(results, *result)
		}
	}
	return results
}

// collectManifests returns args, or the manifests found in the input
// directory when args is empty.
func collectManifests(cfg *config.MainConfig, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir)
	manifests, err := fm.DiscoverManifests(cfg.ManifestPatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover manifests: %w", err)
	}
	return manifests, nil
}
