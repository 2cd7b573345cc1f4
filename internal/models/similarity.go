package models

// SimilarityEntry is one row of a product's top-N similarity list:
// another product and its Jaccard score in [0,1]. Lists are ordered
// descending by score, ties broken by descending OtherPID.
type SimilarityEntry struct {
	OtherPID string
	Score    float64
}

// AssociationRule is an antecedent/consequent pair with its mined
// support/confidence/lift, per spec §3/§4.3. Antecedent and consequent
// are always distinct.
type AssociationRule struct {
	Antecedent string
	Consequent string
	Support    float64
	Confidence float64
	Lift       float64
}
