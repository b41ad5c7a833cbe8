// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package questions answers the nine fixed content questions about each
// paper. Extraction is fail-safe: every error path collapses to the
// all-"No" record, and individual out-of-domain values are coerced
// field-by-field, so the output always has exactly nine in-domain answers.
package questions

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/aging-agent/internal/jsonutil"
	"github.com/pdiddy/aging-agent/pkg/types"
)

// maxTextChars bounds the text prefix embedded in the prompt. The cap is
// smaller than the classifier's: the questions need less context.
const maxTextChars = 50000

// AIBackend produces raw model text for a prompt.
type AIBackend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Extractor answers the fixed question set for one paper at a time.
type Extractor struct {
	Backend AIBackend

	// Out receives diagnostics. Defaults to io.Discard when nil.
	Out io.Writer
}

// validQ1 is the three-value domain for Q1.
var validQ1 = map[string]bool{
	"Yes, quantitatively shown": true,
	"Yes, but not shown":        true,
	"No":                        true,
}

// Extract answers the nine questions for a paper. It never fails: model
// errors, parse errors, and schema mismatches all return the all-"No"
// record, and valid records have each field validated independently.
func (e *Extractor) Extract(ctx context.Context, title, text string) types.Answers {
	out := e.Out
	if out == nil {
		out = io.Discard
	}

	sample := text
	if len(sample) > maxTextChars {
		sample = sample[:maxTextChars]
	}

	raw, err := e.Backend.Complete(ctx, renderQuestionsPrompt(title, sample))
	if err != nil {
		fmt.Fprintf(out, "  warning: answer extraction failed (%v), defaulting to No\n", err)
		return types.AllNo()
	}

	var answers types.Answers
	if err := jsonutil.ExtractInto(raw, &answers); err != nil {
		fmt.Fprintf(out, "  warning: unparseable answer response (%v), defaulting to No\n", err)
		return types.AllNo()
	}

	return validate(answers)
}

// validate coerces out-of-domain values to "No" one field at a time.
// Validation never rejects the whole record.
func validate(a types.Answers) types.Answers {
	if !validQ1[a.Q1] {
		a.Q1 = "No"
	}
	for _, q := range []*string{&a.Q2, &a.Q3, &a.Q4, &a.Q5, &a.Q6, &a.Q7, &a.Q8, &a.Q9} {
		if *q != "Yes" && *q != "No" {
			*q = "No"
		}
	}
	return a
}
