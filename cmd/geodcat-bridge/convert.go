// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/geodcat-bridge/internal/fetch"
	"github.com/pdiddy/geodcat-bridge/internal/history"
	"github.com/pdiddy/geodcat-bridge/internal/transform"
	"github.com/pdiddy/geodcat-bridge/internal/validate"
	"github.com/pdiddy/geodcat-bridge/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Fetch the source document, transform it, and save the RDF output",
	Long: `Convert runs the full pipeline: fetch the ISO 19139 document from the
configured endpoint, apply the XSLT stylesheet, and write the artifacts
(input_raw.xml, transformed_output.rdf) to the output directory. On failure
a diagnostic record is written to transformation_error.log instead.

Artifact paths are fixed: a second run overwrites the first (last write
wins). The run is appended to the history store unless --no-history is set.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("source", "", "source XML URL (overrides xml_url)")
	convertCmd.Flags().String("stylesheet", "", "stylesheet path or URL (overrides xsl_url)")
	convertCmd.Flags().String("output-dir", "", "directory for run artifacts (overrides transform.output_dir)")
	convertCmd.Flags().Bool("insecure", false, "UNSAFE: skip TLS certificate verification on the source fetch")
	convertCmd.Flags().Bool("validate", false, "parse the output as RDF/XML and report the triple count")
	convertCmd.Flags().Bool("no-history", false, "do not record this run in the history store")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if v, _ := cmd.Flags().GetString("source"); v != "" {
		cfg.Fetch.SourceURL = v
	}
	if v, _ := cmd.Flags().GetString("stylesheet"); v != "" {
		cfg.Transform.Stylesheet = v
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.Transform.OutputDir = v
	}
	if v, _ := cmd.Flags().GetBool("insecure"); v {
		cfg.Fetch.InsecureSkipVerify = true
	}
	doValidate, _ := cmd.Flags().GetBool("validate")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	if cfg.Fetch.SourceURL == "" {
		return fmt.Errorf("no source URL: set xml_url in the config file or pass --source")
	}
	if cfg.Transform.Stylesheet == "" {
		return fmt.Errorf("no stylesheet: set xsl_url in the config file or pass --stylesheet")
	}

	logger := newLogger()
	if cfg.Fetch.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is DISABLED for the source fetch")
	}

	w := cmd.OutOrStdout()
	client := fetch.NewClient(cfg.Fetch.HTTPConfig)

	doc, err := fetch.Fetch(client, cfg.Fetch.SourceURL, cfg.Fetch.HTTPConfig)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", cfg.Fetch.SourceURL, err)
	}
	fmt.Fprintf(w, "fetched: %s (%d bytes)\n", cfg.Fetch.SourceURL, len(doc))

	tr, err := transform.New(client, cfg.Fetch.HTTPConfig, cfg.Transform, logger)
	if err != nil {
		return fmt.Errorf("initializing transformer: %w", err)
	}

	digest := sha256.Sum256(doc)
	rec := types.RunRecord{
		SourceURL:   cfg.Fetch.SourceURL,
		Stylesheet:  cfg.Transform.Stylesheet,
		InputSHA256: hex.EncodeToString(digest[:]),
		Triples:     -1,
		StartedAt:   time.Now().UTC(),
	}

	result, runErr := tr.Transform(doc)
	rec.Duration = time.Since(rec.StartedAt)

	if runErr != nil {
		rec.Status = types.RunFailed
		rec.Error = runErr.Error()
	} else {
		rec.Status = types.RunSucceeded
		rec.OutputPath = tr.OutputPath()

		if doValidate {
			triples, valErr := validate.CountTriples(result)
			if valErr != nil {
				rec.Status = types.RunFailed
				rec.Error = valErr.Error()
				runErr = fmt.Errorf("validating output: %w", valErr)
			} else {
				rec.Triples = triples
				fmt.Fprintf(w, "validated: %d triples\n", triples)
			}
		}
	}

	if !noHistory {
		recordRun(&rec, cfg, logger)
	}

	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(w, "converted: %s\n", rec.OutputPath)
	return nil
}

// recordRun appends the run to the history store and writes the YAML record
// next to the artifacts. Best effort: recording problems are warnings, never
// a substitute for the run's own error.
func recordRun(rec *types.RunRecord, cfg types.Config, logger *log.Logger) {
	store, err := history.NewStore(cfg.History)
	if err != nil {
		logger.Warn("opening history store", "err", err)
		return
	}
	defer store.Close()

	if err := store.Record(rec); err != nil {
		logger.Warn("recording run", "err", err)
	}
	if err := history.WriteRunRecord(rec, cfg.Transform.OutputDir); err != nil {
		logger.Warn("writing run record", "err", err)
	}
}
