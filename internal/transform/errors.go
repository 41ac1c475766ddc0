// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"errors"
	"strings"
)

// ErrStylesheetNotFound reports a local stylesheet reference that does not
// exist at construction time.
var ErrStylesheetNotFound = errors.New("stylesheet not found")

// TransformationError reports failure inside the XSLT engine: a stylesheet
// that does not compile or a transformation the engine rejects. Messages
// holds every error the engine reported, in order.
type TransformationError struct {
	Messages []string
	Err      error
}

func (e *TransformationError) Error() string {
	if len(e.Messages) == 0 {
		return "xslt transformation failed"
	}
	return "xslt transformation failed: " + strings.Join(e.Messages, "; ")
}

func (e *TransformationError) Unwrap() error {
	return e.Err
}
