// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform converts ISO 19139 XML metadata into RDF/DCAT-AP output
// by applying an XSLT stylesheet. The stylesheet reference is resolved once
// at construction (local path, or remote URL cached to disk on first use);
// each Transform call then runs the engine against a fresh temporary copy of
// the input and persists the artifacts under the output directory.
package transform

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/geodcat-bridge/internal/fetch"
	"github.com/pdiddy/geodcat-bridge/pkg/types"
)

const (
	// cachedStylesheet is the fixed filename a URL stylesheet is cached under.
	cachedStylesheet = "iso19139-to-geodcatap.xsl"

	// Artifact names under the output directory. Overwritten on every run:
	// last write wins.
	rawInputFile = "input_raw.xml"
	outputFile   = "transformed_output.rdf"
	errorLogFile = "transformation_error.log"

	// previewLimit caps the input excerpt written to the diagnostic log.
	previewLimit = 1000
)

// Transformer applies one resolved XSLT stylesheet to XML documents. It is
// built for single-threaded use: the fixed artifact paths and the stylesheet
// cache race under concurrent calls.
type Transformer struct {
	xsltPath  string
	outputDir string
	engine    Engine
	log       *log.Logger
}

// New creates a Transformer with the production libxslt engine. See
// NewWithEngine for the resolution contract.
func New(client *http.Client, httpCfg types.HTTPConfig, cfg types.TransformConfig, logger *log.Logger) (*Transformer, error) {
	return NewWithEngine(client, httpCfg, cfg, NewLibxsltEngine(), logger)
}

// NewWithEngine creates a Transformer around the given engine, resolving
// cfg.Stylesheet first. A URL reference is downloaded once to
// cfg.CacheDir/iso19139-to-geodcatap.xsl and reused on later constructions;
// a local reference must exist (ErrStylesheetNotFound otherwise) and is
// resolved to an absolute path.
func NewWithEngine(client *http.Client, httpCfg types.HTTPConfig, cfg types.TransformConfig, engine Engine, logger *log.Logger) (*Transformer, error) {
	logger.Debug("initializing transformer", "stylesheet", cfg.Stylesheet)

	xsltPath, err := resolveStylesheet(client, httpCfg, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Transformer{
		xsltPath:  xsltPath,
		outputDir: cfg.OutputDir,
		engine:    engine,
		log:       logger,
	}, nil
}

// StylesheetPath returns the resolved local stylesheet path.
func (t *Transformer) StylesheetPath() string {
	return t.xsltPath
}

// OutputPath returns the fixed path the RDF result is written to on success.
func (t *Transformer) OutputPath() string {
	return filepath.Join(t.outputDir, outputFile)
}

// Transform decodes doc as UTF-8 text and transforms it. Byte input behaves
// identically to the equivalent string input.
func (t *Transformer) Transform(doc []byte) (string, error) {
	if !utf8.Valid(doc) {
		err := fmt.Errorf("input XML is not valid UTF-8")
		t.writeDiagnostic(string(doc), err)
		return "", err
	}
	return t.TransformString(string(doc))
}

// TransformString applies the stylesheet to doc and returns the serialized
// RDF output. On success the result is also written to
// <output_dir>/transformed_output.rdf; the raw input is written to
// <output_dir>/input_raw.xml before the engine runs. On any failure a
// diagnostic record (error plus a truncated input preview) is written to
// <output_dir>/transformation_error.log and the original error is returned
// unchanged — the diagnostic capture never swallows the failure.
func (t *Transformer) TransformString(doc string) (string, error) {
	result, err := t.run(doc)
	if err != nil {
		t.writeDiagnostic(doc, err)
		return "", err
	}
	return result, nil
}

func (t *Transformer) run(doc string) (string, error) {
	t.log.Debug("starting transformation", "stylesheet", t.xsltPath)

	if err := os.MkdirAll(t.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	// Keep the raw input as received before anything can fail downstream.
	rawPath := filepath.Join(t.outputDir, rawInputFile)
	if err := os.WriteFile(rawPath, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", rawInputFile, err)
	}

	// The engine consumes a file, not the in-memory text; give it a
	// call-scoped copy and remove it on every exit path.
	tmpFile, err := os.CreateTemp("", "geodcat-source-*.xml")
	if err != nil {
		return "", fmt.Errorf("creating temp source file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	_, writeErr := tmpFile.WriteString(doc)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		return "", fmt.Errorf("writing temp source file: %w", writeErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("closing temp source file: %w", closeErr)
	}

	t.log.Debug("running engine", "source", tmpPath, "stylesheet", t.xsltPath)

	out, err := t.engine.Transform(t.xsltPath, tmpPath)
	if err != nil {
		var terr *TransformationError
		if errors.As(err, &terr) {
			for _, msg := range terr.Messages {
				t.log.Error("xslt engine error", "message", msg)
			}
		}
		return "", err
	}

	outPath := filepath.Join(t.outputDir, outputFile)
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outputFile, err)
	}

	t.log.Debug("transformation complete", "output", outPath)
	return string(out), nil
}

// writeDiagnostic records the failure and an input preview under the output
// directory. Best effort: a failed write is logged, never returned, so the
// original error always reaches the caller.
func (t *Transformer) writeDiagnostic(doc string, cause error) {
	t.log.Error("transformation failed", "err", cause)

	if err := os.MkdirAll(t.outputDir, 0o755); err != nil {
		t.log.Error("writing diagnostic record", "err", err)
		return
	}

	preview := doc
	if runes := []rune(preview); len(runes) > previewLimit {
		preview = string(runes[:previewLimit])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", cause)
	fmt.Fprintf(&b, "XML content preview:\n%s...", preview)

	path := filepath.Join(t.outputDir, errorLogFile)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.log.Error("writing diagnostic record", "err", err)
	}
}

// resolveStylesheet turns the configured reference into a local path.
func resolveStylesheet(client *http.Client, httpCfg types.HTTPConfig, cfg types.TransformConfig, logger *log.Logger) (string, error) {
	ref := cfg.Stylesheet
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		path := filepath.Join(cfg.CacheDir, cachedStylesheet)
		if _, err := os.Stat(path); err == nil {
			logger.Debug("using cached stylesheet", "path", path)
			return path, nil
		}
		logger.Debug("downloading stylesheet", "url", ref, "path", path)
		if err := downloadStylesheet(client, httpCfg, ref, path); err != nil {
			return "", fmt.Errorf("downloading stylesheet: %w", err)
		}
		return path, nil
	}

	if _, err := os.Stat(ref); err != nil {
		return "", fmt.Errorf("%w: %s", ErrStylesheetNotFound, ref)
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		return "", fmt.Errorf("resolving stylesheet path: %w", err)
	}
	return abs, nil
}

// downloadStylesheet fetches url into destPath via a temporary file so a
// partial download never becomes the cached stylesheet.
func downloadStylesheet(client *http.Client, httpCfg types.HTTPConfig, url, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	body, err := fetch.Fetch(client, url, httpCfg)
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".stylesheet-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(body)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing stylesheet: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
