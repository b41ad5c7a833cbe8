// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/aging-agent/pkg/taxonomy"
)

// classifyPromptTmpl asks the model to tag a paper against the taxonomy and
// emit a JSON object with a theory_tags array.
var classifyPromptTmpl = template.Must(template.New("classify").Parse(`Analyze this aging research paper and identify ALL relevant aging theories.

**Title:** {{.Title}}
**Text:** {{.Text}}

**Known Theories:**
{{.Taxonomy}}

For EACH relevant theory, provide:
- theory_id (from list, or 0 for novel)
- theory_name
- confidence (0.0-1.0)
- evidence_snippets (2-3 quotes)

Output JSON:
{
    "theory_tags": [
        {
            "theory_id": 1,
            "theory_name": "Free Radical Theory",
            "confidence": 0.9,
            "evidence_snippets": ["quote1", "quote2"]
        }
    ]
}

Be thorough - include all relevant theories.`))

// renderClassifyPrompt builds the tagging prompt. The taxonomy listing is
// generated from the shared table so the prompt can never drift from it.
func renderClassifyPrompt(title, text string) string {
	var tax strings.Builder
	for _, id := range taxonomy.IDs() {
		fmt.Fprintf(&tax, "%d: %s\n", id, taxonomy.Name(id))
	}

	var buf bytes.Buffer
	// The template has no failure modes once parsed; ignore the error.
	_ = classifyPromptTmpl.Execute(&buf, struct {
		Title, Text, Taxonomy string
	}{Title: title, Text: text, Taxonomy: strings.TrimRight(tax.String(), "\n")})
	return buf.String()
}
