package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	code string
	name string
}

func labelOf(p product) string { return p.name }

var catalog = []product{
	{"P001", "Delicious Apples"},
	{"P002", "Fresh Bananas"},
	{"P003", "Organic Carrots"},
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("", "abcd"))
	assert.Equal(t, 1.0, Similarity("apples", "apples"))
	// одна вставка на 16 символов
	assert.InDelta(t, 1-1.0/16, Similarity("delicius apples", "delicious apples"), 1e-9)
}

func TestFindBestMatch(t *testing.T) {
	m, ok := FindBestMatch("Delicius Apples", catalog, labelOf)
	require.True(t, ok)
	assert.Equal(t, "P001", m.Candidate.code)
	assert.Greater(t, m.Score, 0.5)
	assert.Less(t, m.Score, 1.0)
}

func TestFindBestMatchExact(t *testing.T) {
	m, ok := FindBestMatch("Fresh Bananas", catalog, labelOf)
	require.True(t, ok)
	assert.Equal(t, "P002", m.Candidate.code)
	assert.Equal(t, 1.0, m.Score)
}

func TestFindBestMatchCaseInsensitive(t *testing.T) {
	a, ok := FindBestMatch("Delicius Apples", catalog, labelOf)
	require.True(t, ok)
	b, ok := FindBestMatch("delicius apples", catalog, labelOf)
	require.True(t, ok)
	assert.Equal(t, a.Candidate.code, b.Candidate.code)
	assert.Equal(t, a.Score, b.Score)
}

func TestFindBestMatchNoMatch(t *testing.T) {
	_, ok := FindBestMatch("Random String", catalog, labelOf)
	assert.False(t, ok, "слабый лучший кандидат не должен приниматься")
}

func TestFindBestMatchEmptyInputs(t *testing.T) {
	_, ok := FindBestMatch("", catalog, labelOf)
	assert.False(t, ok)

	_, ok = FindBestMatch("Delicious Apples", nil, labelOf)
	assert.False(t, ok)

	_, ok = FindBestMatch("", []product{}, labelOf)
	assert.False(t, ok)
}

func TestFindBestMatchPrefersExactOverLonger(t *testing.T) {
	cands := []product{
		{"P010", "Very Delicious Apples"},
		{"P011", "Delicious Apples"},
	}
	m, ok := FindBestMatch("Delicious Apples", cands, labelOf)
	require.True(t, ok)
	assert.Equal(t, "P011", m.Candidate.code)
	assert.Equal(t, 1.0, m.Score)
}

func TestFindBestMatchTieKeepsFirst(t *testing.T) {
	// одинаковые метки → строгое ">" оставляет первого встреченного
	cands := []product{
		{"P020", "Delicious Apples"},
		{"P021", "Delicious Apples"},
	}
	m, ok := FindBestMatch("Delicious Apples", cands, labelOf)
	require.True(t, ok)
	assert.Equal(t, "P020", m.Candidate.code)
}

func TestFindBestMatchAboveThreshold(t *testing.T) {
	// с порогом 0 принимается даже слабое совпадение
	m, ok := FindBestMatchAbove("Random String", catalog, labelOf, 0)
	require.True(t, ok)
	assert.Greater(t, m.Score, 0.0)

	// порог 1 отвергает даже точное
	_, ok = FindBestMatchAbove("Fresh Bananas", catalog, labelOf, 1)
	assert.False(t, ok)
}
