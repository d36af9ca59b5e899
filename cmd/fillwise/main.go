package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fillwise/fillwise/internal/analyze"
	"github.com/fillwise/fillwise/internal/config"
	"github.com/fillwise/fillwise/internal/extract"
	"github.com/fillwise/fillwise/internal/fill"
	"github.com/fillwise/fillwise/internal/mapper"
	"github.com/fillwise/fillwise/internal/report"
	"github.com/fillwise/fillwise/internal/security"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	settings, err := loadSettings(cfg)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	switch cfg.Mode {
	case config.ModeAnalyze:
		err = runAnalyze(cfg)
	case config.ModeExtract:
		err = runExtract(cfg, settings)
	case config.ModeSuggest:
		err = runSuggest(cfg, settings)
	case config.ModeFill:
		err = runFill(cfg, settings)
	case config.ModeInspect:
		err = runInspect(cfg)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", cfg.Mode, err)
	}
}

// loadSettings reads the optional settings file, falling back to the
// built-in defaults.
func loadSettings(cfg *config.Config) (*config.Settings, error) {
	if cfg.SettingsFile == "" {
		return config.DefaultSettings(), nil
	}
	return config.LoadSettings(cfg.SettingsFile)
}

// runAnalyze prints the structure of every PDF in the document folder.
func runAnalyze(cfg *config.Config) error {
	dir, err := security.ValidateDir(cfg.CorpusDir)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read document folder: %w", err)
	}

	analyzer := analyze.NewAnalyzer()
	found := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		found++

		analysis, err := analyzer.Analyze(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Printf("warning: %s: %v", entry.Name(), err)
			continue
		}
		printAnalysis(analysis)
	}

	if found == 0 {
		fmt.Println("No PDF files found.")
	}
	return nil
}

// runExtract walks the corpus and writes the extraction report.
func runExtract(cfg *config.Config, settings *config.Settings) error {
	result, err := extractCorpus(cfg, settings)
	if err != nil {
		return err
	}

	r, err := report.NewBuilder(cfg.CorpusDir).
		SetExtraction(result).
		WriteFile(cfg.OutputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Report %s written to %s\n", r.RunID, cfg.OutputPath)
	printWarnings(result)
	return nil
}

// runSuggest extracts from the corpus and proposes values for the
// target PDF's fields.
func runSuggest(cfg *config.Config, settings *config.Settings) error {
	result, err := extractCorpus(cfg, settings)
	if err != nil {
		return err
	}

	analysis, err := analyze.NewAnalyzer().Analyze(cfg.TargetPDF)
	if err != nil {
		return err
	}
	if !analysis.Fillable {
		return fmt.Errorf("target PDF has no fillable form: %s", analysis.File)
	}

	fieldNames := make([]string, 0, len(analysis.Fields))
	for _, f := range analysis.Fields {
		fieldNames = append(fieldNames, f.Name)
	}

	m := mapper.New(settings.SynonymTable())
	suggestions := m.SuggestMappings(fieldNames, candidateValues(result))

	if len(suggestions) == 0 {
		fmt.Println("No field values could be suggested.")
		printWarnings(result)
		return nil
	}

	data, err := json.MarshalIndent(suggestions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize suggestions: %w", err)
	}
	fmt.Println(string(data))
	printWarnings(result)
	return nil
}

// runFill applies a JSON mapping file to the target PDF.
func runFill(cfg *config.Config, settings *config.Settings) error {
	mappingPath, err := security.ValidatePath(cfg.MappingFile, true)
	if err != nil {
		return fmt.Errorf("mapping file: %w", err)
	}

	data, err := os.ReadFile(mappingPath)
	if err != nil {
		return fmt.Errorf("failed to read mapping file: %w", err)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse mapping file: %w", err)
	}

	filler, err := fill.New(cfg.TargetPDF, settings.FlattenForms(), settings.TimestampFormat())
	if err != nil {
		return err
	}

	outPath, err := filler.Fill(values)
	if err != nil {
		return err
	}

	filled, empty, completion, err := filler.Verify(outPath)
	if err != nil {
		return err
	}

	fmt.Printf("Filled PDF written to %s\n", outPath)
	fmt.Printf("Fields: %d filled, %d empty (%.0f%% complete)\n", filled, empty, completion)
	return nil
}

// runInspect reports fill completion for the target PDF.
func runInspect(cfg *config.Config) error {
	stats, err := analyze.NewInspector().Inspect(cfg.TargetPDF)
	if err != nil {
		return err
	}

	fmt.Printf("Fields: %d total, %d filled, %d empty (%.0f%% complete)\n",
		stats.Total, stats.Filled, stats.Empty, stats.Completion)
	for _, name := range stats.EmptyFields {
		fmt.Printf("  empty: %s\n", name)
	}
	return nil
}

// extractCorpus runs extraction over the configured document folder.
func extractCorpus(cfg *config.Config, settings *config.Settings) (*extract.Result, error) {
	compiled, err := settings.CompiledPatterns()
	if err != nil {
		return nil, err
	}

	extractor, err := extract.New(cfg.CorpusDir, compiled)
	if err != nil {
		return nil, err
	}

	return extractor.ExtractAll()
}

// candidateValues flattens an extraction result into the concept-keyed
// pool the mapper draws suggestions from. First-seen values win.
func candidateValues(result *extract.Result) map[string]string {
	values := make(map[string]string)

	putFirst := func(key string, list []string) {
		if len(list) > 0 {
			values[key] = list[0]
		}
	}
	putFirst("email", result.Emails)
	putFirst("phone", result.PhoneNumbers)
	putFirst("date", result.Dates)

	if len(result.PotentialNames) > 0 {
		first, last, found := strings.Cut(result.PotentialNames[0], " ")
		if found {
			values["first_name"] = first
			values["last_name"] = last
		} else {
			values["first_name"] = first
		}
	}

	// Key/value labels double as lookup keys, normalized to the form
	// used in field names.
	for label, list := range result.KeyValuePairs {
		if len(list) == 0 {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(label, " ", "_"))
		if _, exists := values[key]; !exists {
			values[key] = list[0]
		}
	}

	return values
}

func printAnalysis(a *analyze.PDFAnalysis) {
	fmt.Printf("%s: %d page(s), ", a.File, a.PageCount)
	if !a.Fillable {
		fmt.Println("not fillable")
		return
	}
	fmt.Printf("%d field(s)\n", a.FieldCount)
	for _, f := range a.Fields {
		line := fmt.Sprintf("  %s (%s)", f.Name, f.Type)
		if f.Value != "" {
			line += fmt.Sprintf(" = %q", f.Value)
		}
		if f.Required {
			line += " [required]"
		}
		fmt.Println(line)
	}
}

func printWarnings(result *extract.Result) {
	for _, w := range result.Warnings {
		log.Printf("warning: skipped %s: %s", filepath.Base(w.Path), w.Reason)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Fillwise\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
