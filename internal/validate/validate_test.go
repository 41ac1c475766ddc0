// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"errors"
	"testing"
)

const sampleRDF = `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:dct="http://purl.org/dc/terms/">
  <rdf:Description rdf:about="http://example.org/dataset/1">
    <dct:title>Sample dataset</dct:title>
    <dct:identifier>dataset-1</dct:identifier>
  </rdf:Description>
</rdf:RDF>`

func TestCountTriples(t *testing.T) {
	count, err := CountTriples(sampleRDF)
	if err != nil {
		t.Fatalf("CountTriples: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestCountTriplesEmptyGraph(t *testing.T) {
	const empty = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"/>`

	_, err := CountTriples(empty)
	if !errors.Is(err, ErrEmptyGraph) {
		t.Errorf("got %v, want ErrEmptyGraph", err)
	}
}

func TestCountTriplesMalformed(t *testing.T) {
	_, err := CountTriples(`this is not RDF/XML`)
	if err == nil {
		t.Error("expected error for malformed input")
	}
	if errors.Is(err, ErrEmptyGraph) {
		t.Error("malformed input must not be reported as an empty graph")
	}
}
