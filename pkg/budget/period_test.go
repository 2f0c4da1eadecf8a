package budget

import (
	"testing"
	"time"

	"github.com/centavo/centavo/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestCurrentPeriod(t *testing.T) {
	t.Run("should derive period from clock", func(t *testing.T) {
		// given
		clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)}

		// when
		period := CurrentPeriod(clock)

		// then
		assert.Equal(t, Period{Month: 3, Year: 2024}, period)
	})
}

func TestPeriod_Contains(t *testing.T) {
	period := Period{Month: 3, Year: 2024}

	t.Run("should contain a date inside the month", func(t *testing.T) {
		assert.True(t, period.Contains("2024-03-15"))
	})

	t.Run("should not contain the previous month", func(t *testing.T) {
		assert.False(t, period.Contains("2024-02-29"))
	})

	t.Run("should not contain the next month", func(t *testing.T) {
		assert.False(t, period.Contains("2024-04-01"))
	})

	t.Run("should not contain the same month of another year", func(t *testing.T) {
		assert.False(t, period.Contains("2023-03-15"))
	})

	t.Run("should be false for malformed dates", func(t *testing.T) {
		assert.False(t, period.Contains("not-a-date"))
		assert.False(t, period.Contains(""))
		assert.False(t, period.Contains("2024"))
		assert.False(t, period.Contains("2024-xx-01"))
	})
}

func TestPeriod_ContainsMonth(t *testing.T) {
	t.Run("should compare month component only", func(t *testing.T) {
		period := Period{Month: 3, Year: 2024}

		assert.True(t, period.ContainsMonth("2019-03-01"))
		assert.False(t, period.ContainsMonth("2024-04-01"))
	})
}
