// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/geodcat-bridge/pkg/types"
)

// fakeEngine implements Engine for testing. It records calls, reads the
// source file like a real engine would, and returns canned output or an
// error depending on configuration. With no canned output it echoes the
// source document.
type fakeEngine struct {
	output     []byte
	err        error
	calls      int
	lastSource string
}

func (f *fakeEngine) Transform(stylesheetPath, sourcePath string) ([]byte, error) {
	f.calls++
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, err
	}
	f.lastSource = string(data)
	if f.err != nil {
		return nil, f.err
	}
	if f.output != nil {
		return f.output, nil
	}
	return data, nil
}

// newTestTransformer builds a Transformer over a throwaway stylesheet and
// output directory.
func newTestTransformer(t *testing.T, engine Engine) (*Transformer, string) {
	t.Helper()
	tmpDir := t.TempDir()

	xslPath := filepath.Join(tmpDir, "style.xsl")
	if err := os.WriteFile(xslPath, []byte("<xsl:stylesheet/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	outputDir := filepath.Join(tmpDir, "output")
	cfg := types.TransformConfig{
		Stylesheet: xslPath,
		CacheDir:   filepath.Join(tmpDir, "cache"),
		OutputDir:  outputDir,
	}

	tr, err := NewWithEngine(&http.Client{}, types.HTTPConfig{}, cfg, engine, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	return tr, outputDir
}

func TestTransformSuccess(t *testing.T) {
	engine := &fakeEngine{output: []byte(`<rdf:RDF>ok</rdf:RDF>`)}
	tr, outputDir := newTestTransformer(t, engine)

	const doc = `<gmd:MD_Metadata>test</gmd:MD_Metadata>`
	result, err := tr.TransformString(doc)
	if err != nil {
		t.Fatalf("TransformString: %v", err)
	}
	if result == "" {
		t.Fatal("expected non-empty result")
	}
	if engine.calls != 1 {
		t.Errorf("engine invoked %d times, want exactly 1", engine.calls)
	}
	if engine.lastSource != doc {
		t.Errorf("engine saw source %q, want %q", engine.lastSource, doc)
	}

	raw, err := os.ReadFile(filepath.Join(outputDir, rawInputFile))
	if err != nil {
		t.Fatalf("reading %s: %v", rawInputFile, err)
	}
	if string(raw) != doc {
		t.Errorf("%s = %q, want raw input", rawInputFile, raw)
	}

	out, err := os.ReadFile(filepath.Join(outputDir, outputFile))
	if err != nil {
		t.Fatalf("reading %s: %v", outputFile, err)
	}
	if string(out) != result {
		t.Errorf("%s = %q, want %q", outputFile, out, result)
	}

	if _, err := os.Stat(filepath.Join(outputDir, errorLogFile)); !os.IsNotExist(err) {
		t.Errorf("%s written on success", errorLogFile)
	}
}

func TestTransformEngineFailure(t *testing.T) {
	cause := &TransformationError{Messages: []string{"syntax error at line 3"}}
	engine := &fakeEngine{err: cause}
	tr, outputDir := newTestTransformer(t, engine)

	const doc = `<gmd:MD_Metadata><unclosed></gmd:MD_Metadata>`
	_, err := tr.TransformString(doc)
	if err == nil {
		t.Fatal("expected error")
	}
	var terr *TransformationError
	if !errors.As(err, &terr) {
		t.Fatalf("error %v is not a TransformationError", err)
	}

	data, readErr := os.ReadFile(filepath.Join(outputDir, errorLogFile))
	if readErr != nil {
		t.Fatalf("reading %s: %v", errorLogFile, readErr)
	}
	record := string(data)
	if !strings.Contains(record, "syntax error at line 3") {
		t.Errorf("diagnostic record missing error text: %q", record)
	}
	if !strings.Contains(record, doc) {
		t.Errorf("diagnostic record missing input preview: %q", record)
	}
}

func TestTransformDiagnosticPreviewTruncated(t *testing.T) {
	engine := &fakeEngine{err: errors.New("boom")}
	tr, outputDir := newTestTransformer(t, engine)

	doc := "<root>" + strings.Repeat("x", 2000) + "</root>"
	_, err := tr.TransformString(doc)
	if err == nil {
		t.Fatal("expected error")
	}

	data, readErr := os.ReadFile(filepath.Join(outputDir, errorLogFile))
	if readErr != nil {
		t.Fatal(readErr)
	}
	record := string(data)

	prefix := string([]rune(doc)[:previewLimit])
	if !strings.Contains(record, prefix) {
		t.Error("diagnostic record missing 1000-char prefix")
	}
	if strings.Contains(record, doc) {
		t.Error("diagnostic record contains full input, want truncation at 1000 chars")
	}
}

func TestTransformBytesEqualsString(t *testing.T) {
	const doc = `<gmd:MD_Metadata>café</gmd:MD_Metadata>`

	tr1, _ := newTestTransformer(t, &fakeEngine{})
	fromBytes, err := tr1.Transform([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	tr2, _ := newTestTransformer(t, &fakeEngine{})
	fromString, err := tr2.TransformString(doc)
	if err != nil {
		t.Fatal(err)
	}

	if fromBytes != fromString {
		t.Errorf("byte input produced %q, string input %q", fromBytes, fromString)
	}
}

func TestTransformRejectsInvalidUTF8(t *testing.T) {
	tr, outputDir := newTestTransformer(t, &fakeEngine{})

	_, err := tr.Transform([]byte{'<', 'a', '>', 0xff, 0xfe, '<', '/', 'a', '>'})
	if err == nil {
		t.Fatal("expected error for invalid UTF-8 input")
	}

	if _, statErr := os.Stat(filepath.Join(outputDir, errorLogFile)); statErr != nil {
		t.Errorf("expected diagnostic record for invalid UTF-8: %v", statErr)
	}
}

func TestTransformLastWriteWins(t *testing.T) {
	tr, outputDir := newTestTransformer(t, &fakeEngine{})

	if _, err := tr.TransformString(`<first/>`); err != nil {
		t.Fatal(err)
	}
	second, err := tr.TransformString(`<second/>`)
	if err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(filepath.Join(outputDir, outputFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != second {
		t.Errorf("%s = %q, want second result %q", outputFile, out, second)
	}
}

func TestTransformRemovesTempSource(t *testing.T) {
	tests := []struct {
		name      string
		engineErr error
	}{
		{name: "success"},
		{name: "engine failure", engineErr: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &fakeEngine{err: tt.engineErr}
			tr, _ := newTestTransformer(t, inner)

			var sourcePath string
			tr.engine = engineFunc(func(stylesheet, source string) ([]byte, error) {
				sourcePath = source
				return inner.Transform(stylesheet, source)
			})

			_, err := tr.TransformString(`<a/>`)
			if tt.engineErr == nil && err != nil {
				t.Fatal(err)
			}
			if tt.engineErr != nil && err == nil {
				t.Fatal("expected error")
			}
			if sourcePath == "" {
				t.Fatal("engine never saw a source path")
			}
			if _, statErr := os.Stat(sourcePath); !os.IsNotExist(statErr) {
				t.Errorf("temp source %s still exists after transform", sourcePath)
			}
		})
	}
}

// engineFunc adapts a function to the Engine interface.
type engineFunc func(stylesheetPath, sourcePath string) ([]byte, error)

func (f engineFunc) Transform(stylesheetPath, sourcePath string) ([]byte, error) {
	return f(stylesheetPath, sourcePath)
}
