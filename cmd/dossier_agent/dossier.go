package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jonathan/dossier-builder/internal/documents"
	"github.com/jonathan/dossier-builder/internal/dossier"
	"github.com/jonathan/dossier-builder/internal/observability"
	"github.com/jonathan/dossier-builder/internal/schemas"
	"github.com/jonathan/dossier-builder/internal/templates"
	"github.com/jonathan/dossier-builder/internal/types"
)

// dossierFlags are shared by every command that reads a dossier file.
type dossierFlags struct {
	input   string
	edition string
	prior   string
	order   string
}

// readDossierInput reads the dossier file at path. A file without an edition
// gets fallback; a non-empty override replaces whatever the file says.
func readDossierInput(path, override, fallback string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dossier file: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse dossier file %s: %w", path, err)
	}
	edition, _ := raw["edition"].(string)
	switch {
	case override != "":
		raw["edition"] = override
	case strings.TrimSpace(edition) == "":
		raw["edition"] = fallback
	default:
		return content, nil
	}
	return json.Marshal(raw)
}

// loadDossier validates and parses the dossier named by f, then applies the
// prior manifest and explicit order files.
func loadDossier(f dossierFlags, fallbackEdition string) (*types.Dossier, error) {
	content, err := readDossierInput(f.input, f.edition, fallbackEdition)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateDossier(content); err != nil {
		return nil, fmt.Errorf("invalid dossier %s: %w", f.input, err)
	}
	d, err := types.ParseDossier(content)
	if err != nil {
		return nil, err
	}
	if d.Skipped > 0 {
		logger.Sugar().Warnf("skipped %d unrecognized record(s) in %s", d.Skipped, f.input)
	}

	if f.prior != "" {
		prior, err := readManifest(f.prior)
		if err != nil {
			return nil, err
		}
		d.Prior = prior
	}
	if order := parseOrder(f.order); len(order) > 0 {
		d.Order = order
	}
	return d, nil
}

func readManifest(path string) (*types.Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	if err := schemas.ValidateManifest(content); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	var m types.Manifest
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest JSON: %w", err)
	}
	return &m, nil
}

// parseOrder splits a comma-separated list of item IDs.
func parseOrder(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// newService wires the dossier service from the loaded configuration. A nil
// metrics disables instrumentation.
func newService(metrics *observability.Metrics) (*dossier.Service, error) {
	docs, err := documents.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load document layouts: %w", err)
	}
	return dossier.New(docs, templates.New(cfg.TemplateDir, cfg.TemplateBaseURL),
		dossier.WithLogger(logger),
		dossier.WithMetrics(metrics),
		dossier.WithConcurrency(cfg.RenderConcurrency),
	), nil
}

// build loads the dossier and builds its manifest.
func build(f dossierFlags) (*dossier.Service, *dossier.Result, error) {
	d, err := loadDossier(f, cfg.DefaultEdition)
	if err != nil {
		return nil, nil, err
	}
	svc, err := newService(nil)
	if err != nil {
		return nil, nil, err
	}
	res, err := svc.Build(d)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build manifest: %w", err)
	}
	return svc, res, nil
}

func registerDossierFlags(f *dossierFlags, flags *pflag.FlagSet) {
	flags.StringVarP(&f.input, "in", "i", "", "Path to dossier JSON file (required)")
	flags.StringVar(&f.edition, "edition", "", "Override the dossier's edition (2015, 2021, 2021-bt)")
	flags.StringVar(&f.prior, "prior", "", "Path to a previously built manifest JSON file")
	flags.StringVar(&f.order, "order", "", "Comma-separated attachment IDs in the wanted order")
}

// writeOutput writes data to path, creating the parent directory.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
