package domain

// Backup is the exported form of every curated table. Computations are not
// part of it; they are derived again after an import.
type Backup struct {
	Spaces      []Space      `json:"spaces"`
	Properties  []Property   `json:"properties"`
	Links       []Link       `json:"links"`
	Theorems    []Theorem    `json:"theorems"`
	Conditions  []Condition  `json:"conditions"`
	Conclusions []Conclusion `json:"conclusions"`
}
