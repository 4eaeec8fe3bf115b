package models

// Label is the linkage decision for a signature
type Label string

const (
	LabelMatch    Label = "match"
	LabelUnmatch  Label = "unmatch"
	LabelPossible Label = "possible match"
)

// Distribution maps each observed signature to its relative frequency within
// one training class. Masses in a distribution sum to 1.0 over the class.
type Distribution map[Signature]float64

// RankedSignature annotates a signature with its mass in each training class.
// A mass of zero means the signature was never observed in that class.
type RankedSignature struct {
	Signature   Signature
	MatchMass   float64
	UnmatchMass float64
}

// LabelMap is the decision mapping built once per run and consulted read-only
// for every candidate pair
type LabelMap map[Signature]Label

// LinkageParams are the user-supplied error-rate bounds.
// Mu bounds the false-positive mass assigned to "match" signatures; Lambda
// bounds the false-negative mass assigned to "unmatch" signatures.
type LinkageParams struct {
	Mu     float64 `json:"mu" validate:"gte=0,lte=1"`
	Lambda float64 `json:"lambda" validate:"gte=0,lte=1"`
}

// RunSummary describes one completed linkage run
type RunSummary struct {
	RunID             string        `json:"run_id"`
	Params            LinkageParams `json:"params"`
	MatchSignatures   int           `json:"match_signatures"`
	UnmatchSignatures int           `json:"unmatch_signatures"`
	RankedSignatures  int           `json:"ranked_signatures"`
	LabelCounts       map[Label]int `json:"label_counts"`
}
