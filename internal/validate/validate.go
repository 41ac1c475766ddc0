// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks that transform output is well-formed RDF/XML.
package validate

import (
	"errors"
	"fmt"
	"io"
	"strings"

	rdf "github.com/geoknoesis/rdf-go/rdf"
)

// ErrEmptyGraph reports output that parsed cleanly but contains no triples.
// A stylesheet mismatch (wrong source schema, wrong root element) typically
// produces an empty graph rather than a parse error.
var ErrEmptyGraph = errors.New("output contains no RDF triples")

// CountTriples parses data as RDF/XML and returns the number of triples.
// It fails on malformed RDF and on an empty graph.
func CountTriples(data string) (int, error) {
	dec, err := rdf.NewReader(strings.NewReader(data), rdf.FormatRDFXML)
	if err != nil {
		return 0, fmt.Errorf("opening RDF reader: %w", err)
	}
	defer dec.Close()

	count := 0
	for {
		_, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("parsing RDF/XML: %w", err)
		}
		count++
	}

	if count == 0 {
		return 0, ErrEmptyGraph
	}
	return count, nil
}
