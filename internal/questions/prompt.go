// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package questions

import (
	"bytes"
	"text/template"
)

// questionsPromptTmpl embeds the nine fixed question definitions and asks
// for a flat JSON object keyed Q1..Q9.
var questionsPromptTmpl = template.Must(template.New("questions").Parse(`Answer these 9 questions about this aging paper.

**Title:** {{.Title}}
**Text:** {{.Text}}

Q1: Does it suggest an aging biomarker?
Answer: "Yes, quantitatively shown" / "Yes, but not shown" / "No"

Q2: Does it suggest a molecular mechanism of aging?
Q3: Does it suggest a longevity intervention?
Q4: Does it claim aging cannot be reversed?
Q5: Does it suggest a biomarker for species lifespan differences?
Q6: Does it explain the longevity of the naked mole rat?
Q7: Does it explain the longevity of birds?
Q8: Does it explain the longevity of large animals?
Q9: Does it explain the effect of calorie restriction?
Answer Q2-Q9: "Yes" / "No"

Output JSON only:
{"Q1": "...", "Q2": "...", "Q3": "...", "Q4": "...", "Q5": "...", "Q6": "...", "Q7": "...", "Q8": "...", "Q9": "..."}`))

func renderQuestionsPrompt(title, text string) string {
	var buf bytes.Buffer
	_ = questionsPromptTmpl.Execute(&buf, struct{ Title, Text string }{Title: title, Text: text})
	return buf.String()
}
