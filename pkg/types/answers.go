// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Answers holds the responses to the nine fixed content questions asked of
// every paper. Q1 has a three-value domain ("Yes, quantitatively shown",
// "Yes, but not shown", "No"); Q2-Q9 are plain "Yes"/"No". Values outside
// these domains are coerced to "No" by the extractor.
type Answers struct {
	Q1 string `json:"Q1" yaml:"Q1"`
	Q2 string `json:"Q2" yaml:"Q2"`
	Q3 string `json:"Q3" yaml:"Q3"`
	Q4 string `json:"Q4" yaml:"Q4"`
	Q5 string `json:"Q5" yaml:"Q5"`
	Q6 string `json:"Q6" yaml:"Q6"`
	Q7 string `json:"Q7" yaml:"Q7"`
	Q8 string `json:"Q8" yaml:"Q8"`
	Q9 string `json:"Q9" yaml:"Q9"`
}

// AllNo returns the fail-safe answer record with every question set to "No".
func AllNo() Answers {
	return Answers{
		Q1: "No", Q2: "No", Q3: "No", Q4: "No", Q5: "No",
		Q6: "No", Q7: "No", Q8: "No", Q9: "No",
	}
}

// Slice returns the answers in Q1..Q9 order for CSV serialization.
func (a Answers) Slice() []string {
	return []string{a.Q1, a.Q2, a.Q3, a.Q4, a.Q5, a.Q6, a.Q7, a.Q8, a.Q9}
}
