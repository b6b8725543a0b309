// =============================================================================
// InventoryGen - Converter Module
// =============================================================================
//
// This module turns one manifest into one inventory file. It is the only
// place where the manifest readers, the transformation engine, the
// validator and the inventory model meet.
//
// PROCESSING STEPS:
//   1. Load the manifest
//   2. Resolve the project name
//   3. Apply transformation rules
//   4. Validate the entries
//   5. Build the inventory
//   6. Write the output file
//   7. Archive the manifest
//
// =============================================================================

package converter

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/ginjaninja78/inventorygen/internal/config"
	"github.com/ginjaninja78/inventorygen/internal/inventory"
	"github.com/ginjaninja78/inventorygen/internal/manifest"
	"github.com/ginjaninja78/inventorygen/internal/types"
	"github.com/ginjaninja78/inventorygen/internal/validation"
	"github.com/ginjaninja78/inventorygen/pkg/utils"
	"github.com/google/uuid"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single manifest.
type Result struct {
	// FilePath is the path to the manifest that was processed.
	FilePath string

	// OutputFile is the path to the generated inventory.
	// This is empty if processing failed or was a dry run.
	OutputFile string

	// ArchivePath is where the manifest was moved, if archival is enabled.
	ArchivePath string

	// Project is the project name written to the inventory.
	Project string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Validation holds the validator's findings, when validation ran.
	Validation *validation.ValidationResult

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// DocumentsWritten is the number of <document> elements.
	DocumentsWritten int

	// LanguagesWritten is the total number of <language> elements.
	LanguagesWritten int

	// GeneratedIDs is the number of ids filled in with a UUID.
	GeneratedIDs int

	// Warnings is the number of validation warnings.
	Warnings int

	// ProcessingTime is the time taken to process the manifest.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Logger is the logging interface used by the converter. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Options are per-run settings that do not belong in the config file.
type Options struct {
	// Project overrides every other source of the project name.
	Project string

	// OutputPath writes to this exact path instead of a generated name in
	// the output directory.
	OutputPath string

	// DryRun builds and serializes the inventory without writing it.
	DryRun bool

	// DumpManifest logs the loaded manifest at debug level.
	DumpManifest bool

	// Clock is the time source for the creation date. Default: time.Now.
	Clock func() time.Time

	// Logger receives progress messages. Default: slog.Default().
	Logger Logger

	// Claims is shared by the converters of one run so that no two
	// manifests write the same file. Nil disables the check.
	Claims *utils.OutputClaims
}

// Converter handles the conversion of a single manifest.
type Converter struct {
	manifestPath string
	mainConfig   *config.MainConfig
	options      Options
	fileManager  *utils.FileManager
	transformer  *Transformer
	logger       Logger
}

// New creates a new Converter instance.
func New(manifestPath string, mainConfig *config.MainConfig, options Options) *Converter {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fileManager := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir, mainConfig.InputArchiveDir)
	fileManager.UseTimestampSubdirs = mainConfig.ArchiveTimestampSubdirs

	return &Converter{
		manifestPath: manifestPath,
		mainConfig:   mainConfig,
		options:      options,
		fileManager:  fileManager,
		transformer:  NewTransformer(mainConfig.TransformationRules),
		logger:       logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for the manifest.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{FilePath: c.manifestPath}
	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	// =========================================================================
	// STEP 1-4: LOAD, TRANSFORM AND VALIDATE
	// =========================================================================

	m, err := c.Prepare()
	if err != nil {
		result.Error = err
		return result
	}
	result.Project = m.Project

	result.Validation = c.validate(m)
	result.Stats.Warnings = result.Validation.WarningCount
	if !result.Validation.IsValid {
		result.Error = fmt.Errorf("manifest is invalid: %d error(s)", result.Validation.ErrorCount)
		return result
	}

	// =========================================================================
	// STEP 5: BUILD THE INVENTORY
	// =========================================================================

	inv, generated := c.Build(m)
	result.Stats.GeneratedIDs = generated
	result.Stats.DocumentsWritten = inv.Len()
	for _, doc := range inv.Documents() {
		result.Stats.LanguagesWritten += doc.PaperInfo().Languages.Len()
	}

	// =========================================================================
	// STEP 6: WRITE THE OUTPUT FILE
	// =========================================================================

	if c.options.DryRun {
		if err := inv.Encode(io.Discard, c.mainConfig.XMLOptions()); err != nil {
			result.Error = fmt.Errorf("failed to serialize inventory: %w", err)
			return result
		}
		c.logger.Info("dry run, inventory not written", "manifest", c.manifestPath, "documents", inv.Len())
		result.Success = true
		return result
	}

	outputPath, err := c.writeOutput(inv)
	if err != nil {
		result.Error = err
		return result
	}
	result.OutputFile = outputPath
	c.logger.Info("inventory written", "manifest", c.manifestPath, "output", outputPath, "documents", inv.Len())

	// =========================================================================
	// STEP 7: ARCHIVE THE MANIFEST
	// =========================================================================

	archivePath, err := c.fileManager.ArchiveInputFile(c.manifestPath)
	if err != nil {
		result.Error = fmt.Errorf("inventory written but archival failed: %w", err)
		return result
	}
	result.ArchivePath = archivePath

	result.Success = true
	return result
}

// Prepare loads the manifest, resolves its project name and applies the
// transformation rules.
func (c *Converter) Prepare() (*types.Manifest, error) {
	m, err := manifest.Load(c.manifestPath, c.mainConfig.CSVSettings)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	c.logger.Debug("manifest loaded", "manifest", c.manifestPath, "entries", len(m.Entries))

	if c.options.DumpManifest {
		c.logger.Debug("manifest contents", "manifest", c.manifestPath, "dump", spew.Sdump(m))
	}

	m.Project = c.resolveProject(m)

	for i := range m.Entries {
		if err := c.transformer.TransformEntry(&m.Entries[i]); err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
	}

	return m, nil
}

// validate lints a prepared manifest with the run's settings and logs
// every finding.
func (c *Converter) validate(m *types.Manifest) *validation.ValidationResult {
	validator := validation.NewValidatorWithOptions(validation.ValidationOptions{
		MissingIDsGenerated: c.mainConfig.GenerateMissingIDs,
	})
	result := validator.ValidateManifest(m, m.Project)

	for _, finding := range result.Errors {
		switch finding.Severity {
		case validation.SeverityError:
			c.logger.Error(finding.Error(), "manifest", c.manifestPath)
		case validation.SeverityWarning:
			c.logger.Warn(finding.Error(), "manifest", c.manifestPath)
		default:
			c.logger.Debug(finding.Error(), "manifest", c.manifestPath)
		}
	}

	return result
}

// Build creates the inventory for a prepared manifest. It returns the number
// of ids that were generated.
func (c *Converter) Build(m *types.Manifest) (*inventory.Inventory, int) {
	var opts []inventory.Option
	if c.options.Clock != nil {
		opts = append(opts, inventory.WithClock(c.options.Clock))
	}
	if c.mainConfig.LocalTimestamp() {
		opts = append(opts, inventory.WithLocalTimestamp())
	}

	inv := inventory.New(m.Project, opts...)

	generated := 0
	for _, entry := range m.Entries {
		id := entry.ID
		if id == "" && c.mainConfig.GenerateMissingIDs {
			id = uuid.New().String()
			generated++
		}

		info := inventory.NewPaperInfoFromFields(entry.Fields, entry.Languages...)
		inv.AddDocument(id, &info)
	}

	return inv, generated
}

// resolveProject picks the project name: command line, then manifest, then
// configuration, then the manifest's file name.
func (c *Converter) resolveProject(m *types.Manifest) string {
	switch {
	case c.options.Project != "":
		return c.options.Project
	case m.Project != "":
		return m.Project
	case c.mainConfig.Project != "":
		return c.mainConfig.Project
	default:
		return originalName(c.manifestPath)
	}
}

// writeOutput writes the inventory and returns its path.
func (c *Converter) writeOutput(inv *inventory.Inventory) (string, error) {
	outputPath := c.options.OutputPath
	if outputPath == "" {
		if err := c.fileManager.EnsureDirectories(); err != nil {
			return "", err
		}
		fileName := utils.GenerateOutputFileName(c.mainConfig.OutputFileFormat, map[string]string{
			"project":  inv.Project(),
			"original": originalName(c.manifestPath),
			"ext":      strings.TrimPrefix(filepath.Ext(c.manifestPath), "."),
		})
		outputPath = filepath.Join(c.mainConfig.OutputDir, fileName)
	}

	if c.options.Claims != nil {
		if err := c.options.Claims.Claim(outputPath, c.manifestPath); err != nil {
			return "", err
		}
	}

	if err := inv.WriteWithOptions(outputPath, c.mainConfig.XMLOptions()); err != nil {
		return "", fmt.Errorf("failed to write inventory: %w", err)
	}

	return outputPath, nil
}

// originalName is the file name without directory or extension.
func originalName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
