package converter

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ginjaninja78/inventorygen/internal/config"
	"github.com/ginjaninja78/inventorygen/internal/inventory"
	"github.com/ginjaninja78/inventorygen/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bnlManifest = `project: BnL
documents:
  - id: "1234567"
    paperInfo:
      type: newspaper
      title: Luxemburger Wort
      day: "15"
      month: "4"
      year: 1912
      languages: [ger, fre]
  - paperInfo:
      title: L'Indépendance luxembourgeoise
`

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) record(level, msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+" "+msg+" "+fmt.Sprint(args...))
}

func (l *recordingLogger) Debug(msg string, args ...interface{}) { l.record("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...interface{})  { l.record("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...interface{})  { l.record("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...interface{}) { l.record("ERROR", msg, args...) }

func (l *recordingLogger) contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if strings.Contains(e, s) {
			return true
		}
	}
	return false
}

type inventoryXML struct {
	CreationDate string `xml:"creationDate"`
	Project      string `xml:"project"`
	Documents    []struct {
		ID        string `xml:"id"`
		PaperInfo struct {
			Title     string   `xml:"title"`
			Month     string   `xml:"month"`
			Year      string   `xml:"year"`
			Languages []string `xml:"languages>language"`
		} `xml:"paperInfo"`
	} `xml:"documents>document"`
}

func setup(t *testing.T, name, content string) (*config.MainConfig, string) {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.InputDir = filepath.Join(root, "in")
	cfg.OutputDir = filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0755))

	path := filepath.Join(cfg.InputDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return cfg, path
}

func clock() time.Time {
	return time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)
}

func readInventory(t *testing.T, path string) inventoryXML {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var inv inventoryXML
	require.NoError(t, xml.Unmarshal(data, &inv))
	return inv
}

func TestRunWritesInventory(t *testing.T) {
	cfg, path := setup(t, "batch-01.yaml", bnlManifest)
	cfg.TransformationRules = []config.TransformationRule{
		{Field: inventory.FieldMonth, Actions: []config.TransformationAction{{Type: "pad_zeros_to_length", Value: "2"}}},
	}
	logger := &recordingLogger{}

	result := New(path, cfg, Options{Clock: clock, Logger: logger}).Run()
	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, "BnL", result.Project)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "batch-01.xml"), result.OutputFile)
	assert.Equal(t, path, result.ArchivePath)
	assert.Equal(t, 2, result.Stats.DocumentsWritten)
	assert.Equal(t, 2, result.Stats.LanguagesWritten)
	assert.Equal(t, 1, result.Stats.Warnings)
	assert.Zero(t, result.Stats.GeneratedIDs)

	inv := readInventory(t, result.OutputFile)
	assert.Equal(t, "2024-01-15T14:30:00Z", inv.CreationDate)
	assert.Equal(t, "BnL", inv.Project)
	require.Len(t, inv.Documents, 2)
	assert.Equal(t, "1234567", inv.Documents[0].ID)
	assert.Equal(t, "04", inv.Documents[0].PaperInfo.Month)
	assert.Equal(t, "1912", inv.Documents[0].PaperInfo.Year)
	assert.Equal(t, []string{"ger", "fre"}, inv.Documents[0].PaperInfo.Languages)
	assert.Equal(t, "", inv.Documents[1].ID)
	assert.Equal(t, "L'Indépendance luxembourgeoise", inv.Documents[1].PaperInfo.Title)

	assert.True(t, logger.contains("WARN [WARNING] Document 2"))
	assert.True(t, logger.contains("INFO inventory written"))
}

func TestRunGeneratesMissingIDs(t *testing.T) {
	cfg, path := setup(t, "batch.yaml", bnlManifest)
	cfg.GenerateMissingIDs = true

	result := New(path, cfg, Options{Clock: clock, Logger: &recordingLogger{}}).Run()
	require.NoError(t, result.Error)
	assert.Equal(t, 1, result.Stats.GeneratedIDs)
	assert.Zero(t, result.Stats.Warnings)

	inv := readInventory(t, result.OutputFile)
	assert.Equal(t, "1234567", inv.Documents[0].ID)
	assert.Len(t, inv.Documents[1].ID, 36)
}

func TestRunProjectResolution(t *testing.T) {
	noProject := "documents:\n  - id: a\n"

	cfg, path := setup(t, "from-file.yaml", noProject)
	result := New(path, cfg, Options{Logger: &recordingLogger{}, DryRun: true}).Run()
	require.NoError(t, result.Error)
	assert.Equal(t, "from-file", result.Project)

	cfg.Project = "Configured"
	result = New(path, cfg, Options{Logger: &recordingLogger{}, DryRun: true}).Run()
	assert.Equal(t, "Configured", result.Project)

	result = New(path, cfg, Options{Logger: &recordingLogger{}, DryRun: true, Project: "Flag"}).Run()
	assert.Equal(t, "Flag", result.Project)
}

func TestRunDryRunWritesNothing(t *testing.T) {
	cfg, path := setup(t, "batch.csv", "id,title,languages\na,Le Courrier,fre;ger\n")
	cfg.InputArchiveDir = filepath.Join(filepath.Dir(cfg.InputDir), "archive")

	result := New(path, cfg, Options{Logger: &recordingLogger{}, DryRun: true}).Run()
	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Empty(t, result.OutputFile)
	assert.Equal(t, 1, result.Stats.DocumentsWritten)
	assert.NoDirExists(t, cfg.OutputDir)
	assert.FileExists(t, path)
}

func TestRunExplicitOutputAndArchive(t *testing.T) {
	cfg, path := setup(t, "batch.yaml", bnlManifest)
	cfg.InputArchiveDir = filepath.Join(filepath.Dir(cfg.InputDir), "archive")
	output := filepath.Join(t.TempDir(), "custom.xml")

	result := New(path, cfg, Options{Clock: clock, Logger: &recordingLogger{}, OutputPath: output}).Run()
	require.NoError(t, result.Error)
	assert.Equal(t, output, result.OutputFile)
	assert.FileExists(t, output)
	assert.Equal(t, filepath.Join(cfg.InputArchiveDir, "batch.yaml"), result.ArchivePath)
	assert.NoFileExists(t, path)
}

func TestRunArchiveTimestampSubdirs(t *testing.T) {
	cfg, path := setup(t, "batch.yaml", bnlManifest)
	cfg.InputArchiveDir = filepath.Join(filepath.Dir(cfg.InputDir), "archive")
	cfg.ArchiveTimestampSubdirs = true

	result := New(path, cfg, Options{Clock: clock, Logger: &recordingLogger{}}).Run()
	require.NoError(t, result.Error)

	now := time.Now()
	assert.Equal(t, filepath.Join(cfg.InputArchiveDir, now.Format("2006"), now.Format("01"), now.Format("02"), "batch.yaml"), result.ArchivePath)
	assert.FileExists(t, result.ArchivePath)
}

func TestRunClaimedOutput(t *testing.T) {
	cfg, yamlPath := setup(t, "batch.yaml", bnlManifest)
	csvPath := filepath.Join(cfg.InputDir, "batch.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("id\ncsv-1\n"), 0644))

	claims := utils.NewOutputClaims()
	first := New(yamlPath, cfg, Options{Clock: clock, Logger: &recordingLogger{}, Claims: claims}).Run()
	require.NoError(t, first.Error)

	second := New(csvPath, cfg, Options{Clock: clock, Logger: &recordingLogger{}, Claims: claims}).Run()
	assert.False(t, second.Success)
	assert.ErrorContains(t, second.Error, "already written by "+yamlPath)
	assert.FileExists(t, csvPath)

	inv := readInventory(t, first.OutputFile)
	assert.Equal(t, "1234567", inv.Documents[0].ID)
}

func TestRunFailures(t *testing.T) {
	t.Run("unreadable manifest", func(t *testing.T) {
		cfg, path := setup(t, "bad.csv", "id,colour\na,red\n")
		result := New(path, cfg, Options{Logger: &recordingLogger{}}).Run()
		assert.False(t, result.Success)
		assert.ErrorContains(t, result.Error, "failed to load manifest")
		assert.Nil(t, result.Validation)
	})

	t.Run("no documents", func(t *testing.T) {
		cfg, path := setup(t, "empty.yaml", "project: BnL\ndocuments: []\n")
		result := New(path, cfg, Options{Logger: &recordingLogger{}}).Run()
		assert.False(t, result.Success)
		assert.ErrorContains(t, result.Error, "manifest is invalid")
		require.NotNil(t, result.Validation)
		assert.Equal(t, 1, result.Validation.ErrorCount)
	})

	t.Run("bad transformation", func(t *testing.T) {
		cfg, path := setup(t, "batch.yaml", bnlManifest)
		cfg.TransformationRules = []config.TransformationRule{
			{Field: inventory.FieldTitle, Actions: []config.TransformationAction{{Type: "reverse"}}},
		}
		result := New(path, cfg, Options{Logger: &recordingLogger{}}).Run()
		assert.False(t, result.Success)
		assert.ErrorContains(t, result.Error, "document 1")
	})

	t.Run("unwritable output", func(t *testing.T) {
		cfg, path := setup(t, "batch.yaml", bnlManifest)
		output := filepath.Join(t.TempDir(), "missing", "out.xml")
		result := New(path, cfg, Options{Logger: &recordingLogger{}, OutputPath: output}).Run()
		assert.False(t, result.Success)
		assert.ErrorContains(t, result.Error, "failed to write inventory")
		assert.ErrorIs(t, result.Error, os.ErrNotExist)
		assert.FileExists(t, path)
	})
}

func TestRunDumpManifest(t *testing.T) {
	cfg, path := setup(t, "batch.yaml", bnlManifest)
	logger := &recordingLogger{}

	result := New(path, cfg, Options{Logger: logger, DryRun: true, DumpManifest: true}).Run()
	require.NoError(t, result.Error)
	assert.True(t, logger.contains("DEBUG manifest contents"))
	assert.True(t, logger.contains("Luxemburger Wort"))
}

func TestLocalTimestamp(t *testing.T) {
	cfg, path := setup(t, "batch.yaml", bnlManifest)
	cfg.XML.TimestampZone = config.TimestampZoneLocal

	m, err := New(path, cfg, Options{Logger: &recordingLogger{}}).Prepare()
	require.NoError(t, err)

	cet := func() time.Time { return time.Date(1912, time.April, 15, 10, 30, 0, 0, time.FixedZone("CET", 3600)) }
	inv, _ := New(path, cfg, Options{Clock: cet, Logger: &recordingLogger{}}).Build(m)
	assert.Equal(t, "1912-04-15T10:30:00Z", inv.CreationDate())
}
