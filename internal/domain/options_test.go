package domain_test

import (
	"testing"

	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want domain.Period
	}{
		{"", domain.PeriodDaily},
		{"daily", domain.PeriodDaily},
		{"Weekly", domain.PeriodWeekly},
		{" monthly ", domain.PeriodMonthly},
	}
	for _, tt := range tests {
		got, err := domain.ParsePeriod(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParsePeriod_InvalidNamesAllowedValues(t *testing.T) {
	t.Parallel()

	_, err := domain.ParsePeriod("yearly")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "daily, weekly, monthly")
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	got, err := domain.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatTable, got)

	got, err = domain.ParseFormat("xlsx")
	require.NoError(t, err)
	assert.True(t, got.Binary())
	assert.Equal(t, ".xlsx", got.Extension())

	_, err = domain.ParseFormat("csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, yaml, table, markdown, xlsx")
}

func TestParseDepthAndSummaryLength(t *testing.T) {
	t.Parallel()

	d, err := domain.ParseDepth("DEEP")
	require.NoError(t, err)
	assert.Equal(t, domain.DepthDeep, d)

	_, err = domain.ParseDepth("shallow")
	require.Error(t, err)

	l, err := domain.ParseSummaryLength("short")
	require.NoError(t, err)
	assert.Equal(t, 50, l.Words())
	assert.Equal(t, 100, domain.SummaryMedium.Words())
	assert.Equal(t, 200, domain.SummaryLong.Words())
}

func TestValidateLimit(t *testing.T) {
	t.Parallel()

	require.NoError(t, domain.ValidateLimit(1))
	require.NoError(t, domain.ValidateLimit(100))

	for _, n := range []int{0, -3, 101} {
		err := domain.ValidateLimit(n)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestRepository_FullNameAndEnriched(t *testing.T) {
	t.Parallel()

	r := domain.Repository{Owner: "golang", Name: "go"}
	assert.Equal(t, "golang/go", r.FullName())
	assert.False(t, r.Enriched())

	r.Summary = "The Go programming language"
	assert.True(t, r.Enriched())
}
