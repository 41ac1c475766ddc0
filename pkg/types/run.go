// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus is the terminal state of a conversion run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunRecord describes one conversion run for the history store. It is
// persisted both as a row in the runs database and as a YAML record next to
// the output artifacts.
type RunRecord struct {
	// ID is assigned by the store on insert; zero until recorded.
	ID int64 `json:"id" yaml:"id"`

	// SourceURL is the endpoint the input document was fetched from, or a
	// local description when the input came from elsewhere.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Stylesheet is the stylesheet reference as given (path or URL).
	Stylesheet string `json:"stylesheet" yaml:"stylesheet"`

	// InputSHA256 is the hex digest of the raw input document.
	InputSHA256 string `json:"input_sha256" yaml:"input_sha256"`

	// Status records whether the transform succeeded.
	Status RunStatus `json:"status" yaml:"status"`

	// Error holds the failure message when Status is RunFailed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// OutputPath is the path of the written RDF artifact on success.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Triples is the validated triple count of the output, or -1 when
	// validation was not requested.
	Triples int `json:"triples" yaml:"triples"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration" yaml:"duration"`
}
