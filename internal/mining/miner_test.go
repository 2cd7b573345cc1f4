package mining

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// S4 — association confidence.
func TestMineAssociationConfidence(t *testing.T) {
	co := CoOccurrence{"P1": {"P2": 8}}
	freq := Frequency{"P1": 10, "P2": 8}
	m := New(Config{MinSupport: 0.01, MinConfidence: 0.3})

	rules := m.Mine(co, freq, 10)
	list := rules["P1"]
	if assert.Len(t, list, 1) {
		r := list[0]
		assert.Equal(t, "P2", r.Consequent)
		assert.Equal(t, 0.8, r.Support)
		assert.Equal(t, 0.8, r.Confidence)
		assert.Equal(t, 1.0, r.Lift)
	}
}

func TestMineSkipsZeroFrequency(t *testing.T) {
	co := CoOccurrence{"P1": {"P2": 5}}
	freq := Frequency{"P1": 0, "P2": 5}
	m := New(Config{MinSupport: 0, MinConfidence: 0})

	rules := m.Mine(co, freq, 10)
	assert.Empty(t, rules, "expected no rules when antecedent frequency is zero")
}

func TestMineEmptyCoOccurrenceIsEmpty(t *testing.T) {
	m := New(Config{MinSupport: 0, MinConfidence: 0})
	rules := m.Mine(CoOccurrence{}, Frequency{}, 0)
	assert.Empty(t, rules)
}

func TestMineSortOrder(t *testing.T) {
	co := CoOccurrence{"P1": {"P2": 2, "P3": 5, "P4": 5}}
	freq := Frequency{"P1": 10, "P2": 10, "P3": 10, "P4": 10}
	m := New(Config{MinSupport: 0, MinConfidence: 0})

	rules := m.Mine(co, freq, 10)["P1"]
	if assert.Len(t, rules, 3) {
		// P3 and P4 tie on confidence/lift; ascending consequent id breaks the tie.
		assert.Equal(t, "P3", rules[0].Consequent)
		assert.Equal(t, "P4", rules[1].Consequent)
		assert.Equal(t, "P2", rules[2].Consequent)
	}
}

func TestBuildCoOccurrenceAndFrequencyCountsOrdersNotPairs(t *testing.T) {
	orders := threeWayOrder()
	co, freq, n := BuildCoOccurrenceAndFrequency(orders)

	assert.Equal(t, 1, n)
	assert.Equal(t, 1, freq["P1"], "f(P1) should be order count, not pair count")
	assert.Equal(t, 1, co["P1"]["P2"])
	assert.Equal(t, 1, co["P1"]["P3"])
	assert.Equal(t, 1, co["P2"]["P3"])
}
