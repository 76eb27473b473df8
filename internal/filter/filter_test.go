package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/filter"
)

func sampleRepositories() []domain.Repository {
	return []domain.Repository{
		{Rank: 1, Owner: "a", Name: "tensorflow", Description: "An open source Machine Learning framework", Language: "C++", Topics: []string{"machine learning", "deep-learning"}},
		{Rank: 2, Owner: "b", Name: "react", Description: "UI library", Language: "JavaScript", Topics: []string{"frontend"}},
		{Rank: 3, Owner: "c", Name: "ml-toolkit", Description: "Tools for MACHINE LEARNING pipelines", Language: "Python"},
		{Rank: 4, Owner: "d", Name: "kubernetes", Description: "Container orchestration", Language: "Go", Topics: []string{"Machine Learning"}},
		{Rank: 5, Owner: "e", Name: "rustlings", Description: "Small exercises", Language: "Rust"},
	}
}

func ranks(records []domain.Repository) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Rank
	}
	return out
}

func TestApply_LimitKeepsOrder(t *testing.T) {
	t.Parallel()

	got := filter.Apply(sampleRepositories(), filter.Options{Limit: 3})
	assert.Equal(t, []int{1, 2, 3}, ranks(got))
}

func TestApply_LimitLargerThanInput(t *testing.T) {
	t.Parallel()

	got := filter.Apply(sampleRepositories(), filter.Options{Limit: 100})
	assert.Len(t, got, 5)
}

func TestApply_ZeroOrNegativeLimit(t *testing.T) {
	t.Parallel()

	for _, limit := range []int{0, -1} {
		got := filter.Apply(sampleRepositories(), filter.Options{Limit: limit})
		require.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestApply_EmptyInput(t *testing.T) {
	t.Parallel()

	got := filter.Apply(nil, filter.Options{Limit: 10, Topics: []string{"go"}})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApply_TextStrategy(t *testing.T) {
	t.Parallel()

	got := filter.Apply(sampleRepositories(), filter.Options{
		Limit:  10,
		Topics: []string{"machine learning"},
	})
	assert.Equal(t, []int{1, 3}, ranks(got))
}

func TestApply_TextStrategyMatchesLanguage(t *testing.T) {
	t.Parallel()

	got := filter.Apply(sampleRepositories(), filter.Options{
		Limit:    10,
		Topics:   []string{"rust", "PYTHON"},
		Strategy: filter.StrategyText,
	})
	assert.Equal(t, []int{3, 5}, ranks(got))
}

func TestApply_TopicsStrategy(t *testing.T) {
	t.Parallel()

	got := filter.Apply(sampleRepositories(), filter.Options{
		Limit:    10,
		Topics:   []string{"machine learning"},
		Strategy: filter.StrategyTopics,
	})
	assert.Equal(t, []int{1, 4}, ranks(got))
}

func TestApply_NoMatches(t *testing.T) {
	t.Parallel()

	for _, strategy := range []filter.Strategy{filter.StrategyText, filter.StrategyTopics} {
		got := filter.Apply(sampleRepositories(), filter.Options{
			Limit:    10,
			Topics:   []string{"cobol"},
			Strategy: strategy,
		})
		assert.Empty(t, got, "strategy %s", strategy)
	}
}

func TestApply_LimitAppliesAfterMatching(t *testing.T) {
	t.Parallel()

	got := filter.Apply(sampleRepositories(), filter.Options{
		Limit:  1,
		Topics: []string{"machine learning"},
	})
	assert.Equal(t, []int{1}, ranks(got))
}

func TestApply_BlankTopicsIgnored(t *testing.T) {
	t.Parallel()

	got := filter.Apply(sampleRepositories(), filter.Options{
		Limit:  2,
		Topics: []string{"", "  "},
	})
	assert.Equal(t, []int{1, 2}, ranks(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := sampleRepositories()
	got := filter.Apply(in, filter.Options{Limit: 1})
	got[0].Name = "changed"

	assert.Equal(t, "tensorflow", in[0].Name)
	assert.Len(t, in, 5)
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	s, err := filter.ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, filter.StrategyText, s)

	s, err = filter.ParseStrategy(" Topics ")
	require.NoError(t, err)
	assert.Equal(t, filter.StrategyTopics, s)

	_, err = filter.ParseStrategy("regex")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "text, topics")
}
