// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"fmt"
	"os"

	"github.com/wamuir/go-xslt"
)

// Engine applies an XSLT stylesheet to a source document, both given as
// files. Implementations must be reusable across calls: any per-call engine
// state is acquired and released inside Transform, so no parameter or
// document state carries over from one run to the next.
type Engine interface {
	Transform(stylesheetPath, sourcePath string) ([]byte, error)
}

// LibxsltEngine runs transformations through libxslt. Both documents are
// parsed from memory buffers and libxslt is given no external document
// loader, so neither the stylesheet nor the source can trigger network
// fetches during execution.
type LibxsltEngine struct{}

// NewLibxsltEngine returns the production engine.
func NewLibxsltEngine() *LibxsltEngine {
	return &LibxsltEngine{}
}

// Transform compiles the stylesheet, applies it to the source document, and
// returns the serialized output. The compiled stylesheet handle is released
// before returning on every path. Engine-reported failures come back as a
// *TransformationError.
func (e *LibxsltEngine) Transform(stylesheetPath, sourcePath string) ([]byte, error) {
	style, err := os.ReadFile(stylesheetPath)
	if err != nil {
		return nil, fmt.Errorf("reading stylesheet %s: %w", stylesheetPath, err)
	}
	doc, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", sourcePath, err)
	}

	xs, err := xslt.NewStylesheet(style)
	if err != nil {
		return nil, &TransformationError{
			Messages: []string{fmt.Sprintf("parsing stylesheet %s: %v", stylesheetPath, err)},
			Err:      err,
		}
	}
	defer xs.Close()

	out, err := xs.Transform(doc)
	if err != nil {
		return nil, &TransformationError{
			Messages: []string{err.Error()},
			Err:      err,
		}
	}
	return out, nil
}
