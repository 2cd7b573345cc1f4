// Package mining implements the association-rule miner: support,
// confidence, and lift over pairwise co-occurrence counts and
// per-product order frequencies.
package mining

import (
	"sort"

	"github.com/iaros/recoengine/internal/models"
)

// CoOccurrence is the symmetric pairwise co-occurrence count C[a][b]:
// the number of orders containing both a and b. Self-pairs are never
// present.
type CoOccurrence map[string]map[string]int

// Frequency is the per-product order frequency f(p): the number of
// distinct orders containing p. Counted independently from
// CoOccurrence — see the frequency-map design note: three-or-more-way
// co-occurrence in one order would double count if summed from C.
type Frequency map[string]int

// BuildCoOccurrenceAndFrequency derives C and f from the order stream
// in a single pass, plus the total order count N.
func BuildCoOccurrenceAndFrequency(orders []models.Order) (CoOccurrence, Frequency, int) {
	co := make(CoOccurrence)
	freq := make(Frequency)

	for _, o := range orders {
		ids := o.ProductIDs()
		for _, pid := range ids {
			freq[pid]++
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				if a == b {
					continue
				}
				addCoOccurrence(co, a, b)
				addCoOccurrence(co, b, a)
			}
		}
	}

	return co, freq, len(orders)
}

func addCoOccurrence(co CoOccurrence, a, b string) {
	row, ok := co[a]
	if !ok {
		row = make(map[string]int)
		co[a] = row
	}
	row[b]++
}

// Config carries the miner's support/confidence thresholds.
type Config struct {
	MinSupport    float64
	MinConfidence float64
	TopN          int
}

// Miner generates association rules from co-occurrence counts.
type Miner struct {
	cfg Config
}

// New constructs a Miner with the given thresholds.
func New(cfg Config) *Miner {
	return &Miner{cfg: cfg}
}

// Mine emits, for every antecedent a with f(a) > 0 and every consequent
// b in C[a] with f(b) > 0, the rule iff support >= MinSupport and
// confidence >= MinConfidence. Rules are grouped per antecedent,
// sorted by descending confidence, ties broken by descending lift then
// ascending consequent id. An empty C produces an empty rule map.
func (m *Miner) Mine(co CoOccurrence, freq Frequency, n int) map[string][]models.AssociationRule {
	rules := make(map[string][]models.AssociationRule)
	if n == 0 {
		return rules
	}

	for a, row := range co {
		fa := freq[a]
		if fa == 0 {
			continue
		}
		var antecedentRules []models.AssociationRule
		for b, count := range row {
			fb := freq[b]
			if fb == 0 {
				continue
			}

			support := float64(count) / float64(n)
			confidence := float64(count) / float64(fa)

			var lift float64
			if fa != 0 && fb != 0 {
				lift = confidence / (float64(fb) / float64(n))
			}

			if support >= m.cfg.MinSupport && confidence >= m.cfg.MinConfidence {
				antecedentRules = append(antecedentRules, models.AssociationRule{
					Antecedent: a,
					Consequent: b,
					Support:    support,
					Confidence: confidence,
					Lift:       lift,
				})
			}
		}
		if len(antecedentRules) > 0 {
			sortRules(antecedentRules)
			rules[a] = antecedentRules
		}
	}

	return rules
}

func sortRules(rules []models.AssociationRule) {
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Confidence != rules[j].Confidence {
			return rules[i].Confidence > rules[j].Confidence
		}
		if rules[i].Lift != rules[j].Lift {
			return rules[i].Lift > rules[j].Lift
		}
		return rules[i].Consequent < rules[j].Consequent
	})
}

// FrequentlyBoughtWith returns the top-N consequents for antecedent a
// by confidence, surfaced as similarity-shaped (other_pid, score)
// entries where score is the rule's confidence.
func (m *Miner) FrequentlyBoughtWith(rules map[string][]models.AssociationRule, a string) []models.SimilarityEntry {
	list := rules[a]
	n := m.cfg.TopN
	if n <= 0 || n > len(list) {
		n = len(list)
	}
	out := make([]models.SimilarityEntry, n)
	for i := 0; i < n; i++ {
		out[i] = models.SimilarityEntry{OtherPID: list[i].Consequent, Score: list[i].Confidence}
	}
	return out
}
