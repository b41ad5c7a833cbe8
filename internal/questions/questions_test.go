// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package questions

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/aging-agent/pkg/types"
)

type mockBackend struct {
	response string
	err      error
	prompts  []string
}

func (m *mockBackend) Complete(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.response, m.err
}

// inDomain checks the closed-world property: exactly nine answers, Q1 in
// its three-value domain, Q2-Q9 in {"Yes","No"}.
func inDomain(t *testing.T, a types.Answers) {
	t.Helper()
	if !validQ1[a.Q1] {
		t.Errorf("Q1 = %q out of domain", a.Q1)
	}
	for i, v := range a.Slice()[1:] {
		if v != "Yes" && v != "No" {
			t.Errorf("Q%d = %q out of domain", i+2, v)
		}
	}
}

func TestExtractValidResponse(t *testing.T) {
	backend := &mockBackend{response: `{"Q1": "Yes, quantitatively shown", "Q2": "Yes", "Q3": "No", "Q4": "No", "Q5": "Yes", "Q6": "No", "Q7": "No", "Q8": "No", "Q9": "Yes"}`}
	e := &Extractor{Backend: backend}

	a := e.Extract(context.Background(), "T", "text")
	if a.Q1 != "Yes, quantitatively shown" || a.Q2 != "Yes" || a.Q9 != "Yes" {
		t.Errorf("answers = %+v", a)
	}
	inDomain(t, a)
}

func TestExtractFencedResponse(t *testing.T) {
	backend := &mockBackend{response: "Here are the answers:\n```json\n{\"Q1\": \"No\", \"Q2\": \"Yes\", \"Q3\": \"No\", \"Q4\": \"No\", \"Q5\": \"No\", \"Q6\": \"No\", \"Q7\": \"No\", \"Q8\": \"No\", \"Q9\": \"No\"}\n```"}
	e := &Extractor{Backend: backend}

	a := e.Extract(context.Background(), "T", "text")
	if a.Q2 != "Yes" {
		t.Errorf("Q2 = %q, want Yes", a.Q2)
	}
	inDomain(t, a)
}

func TestExtractProseWrappedResponse(t *testing.T) {
	// No fence, JSON buried in prose: the brace scan must find it. The
	// Python original only handled fences here; classifier and extractor
	// now share one extraction ladder.
	backend := &mockBackend{response: `Based on my reading, {"Q1": "No", "Q2": "Yes", "Q3": "No", "Q4": "No", "Q5": "No", "Q6": "No", "Q7": "No", "Q8": "No", "Q9": "No"} covers it.`}
	e := &Extractor{Backend: backend}

	a := e.Extract(context.Background(), "T", "text")
	if a.Q2 != "Yes" {
		t.Errorf("Q2 = %q, want Yes", a.Q2)
	}
}

func TestExtractInvalidQ1Coerced(t *testing.T) {
	backend := &mockBackend{response: `{"Q1": "Maybe", "Q2": "Yes", "Q3": "No", "Q4": "No", "Q5": "No", "Q6": "No", "Q7": "No", "Q8": "No", "Q9": "No"}`}
	e := &Extractor{Backend: backend}

	a := e.Extract(context.Background(), "T", "text")
	if a.Q1 != "No" {
		t.Errorf("Q1 = %q, want coerced No", a.Q1)
	}
	// Other valid fields pass through unchanged.
	if a.Q2 != "Yes" {
		t.Errorf("Q2 = %q, want Yes", a.Q2)
	}
}

func TestExtractInvalidAndMissingFieldsCoerced(t *testing.T) {
	backend := &mockBackend{response: `{"Q1": "No", "Q2": "yes", "Q3": "TRUE", "Q5": "Yes"}`}
	e := &Extractor{Backend: backend}

	a := e.Extract(context.Background(), "T", "text")
	// Case-sensitive domain: "yes" and "TRUE" coerce, missing Q4/Q6..Q9 coerce.
	if a.Q2 != "No" || a.Q3 != "No" || a.Q4 != "No" {
		t.Errorf("answers = %+v", a)
	}
	if a.Q5 != "Yes" {
		t.Errorf("Q5 = %q, want Yes", a.Q5)
	}
	inDomain(t, a)
}

func TestExtractBackendErrorAllNo(t *testing.T) {
	e := &Extractor{Backend: &mockBackend{err: fmt.Errorf("timeout")}}
	a := e.Extract(context.Background(), "T", "text")
	if a != types.AllNo() {
		t.Errorf("answers = %+v, want all No", a)
	}
}

func TestExtractMalformedResponseAllNo(t *testing.T) {
	for _, resp := range []string{"", "not json at all", "{\"Q1\": ", "[1, 2, 3]"} {
		e := &Extractor{Backend: &mockBackend{response: resp}}
		a := e.Extract(context.Background(), "T", "text")
		if a != types.AllNo() {
			t.Errorf("response %q: answers = %+v, want all No", resp, a)
		}
		inDomain(t, a)
	}
}

func TestExtractTruncatesPromptText(t *testing.T) {
	backend := &mockBackend{response: `{"Q1": "No"}`}
	e := &Extractor{Backend: backend}

	e.Extract(context.Background(), "T", strings.Repeat("x", maxTextChars+5000))
	if len(backend.prompts) != 1 {
		t.Fatalf("backend called %d times, want 1", len(backend.prompts))
	}
	if len(backend.prompts[0]) > maxTextChars+2000 {
		t.Errorf("prompt length %d exceeds text cap plus scaffolding", len(backend.prompts[0]))
	}
}

func TestRenderQuestionsPromptListsAllQuestions(t *testing.T) {
	prompt := renderQuestionsPrompt("Title", "text")
	for i := 1; i <= 9; i++ {
		if !strings.Contains(prompt, fmt.Sprintf("Q%d", i)) {
			t.Errorf("prompt missing Q%d", i)
		}
	}
	if !strings.Contains(prompt, "Yes, quantitatively shown") {
		t.Error("prompt missing Q1 domain")
	}
}
