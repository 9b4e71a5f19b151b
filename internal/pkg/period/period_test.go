package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonth_Add(t *testing.T) {
	assert.Equal(t, Month{2023, 11}, Month{2024, 2}.Add(-3))
	assert.Equal(t, Month{2025, 1}, Month{2024, 12}.Add(1))
}

func TestTrailing(t *testing.T) {
	got := Trailing(Month{2024, 2}, 3)

	assert.Equal(t, []string{"2023-12", "2024-01", "2024-02"}, Keys(got))
}

func TestQuarterMonths(t *testing.T) {
	assert.Equal(t, []string{"2024-04", "2024-05", "2024-06"}, Keys(QuarterMonths(2024, 2)))
	assert.Len(t, YearMonths(2024), 12)
	assert.Equal(t, 4, QuarterOf(12))
	assert.Equal(t, 1, QuarterOf(1))
}

func TestMonth_ContainsAndRange(t *testing.T) {
	m := Month{2024, 3}

	assert.True(t, m.Contains(time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), m.End(time.UTC))
}
