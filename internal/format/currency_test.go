package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurrencyFormatter(t *testing.T) {
	t.Run("should reject an unknown currency code", func(t *testing.T) {
		// when
		_, err := NewCurrencyFormatter("NOPE", "en-US")

		// then
		assert.Error(t, err)
	})

	t.Run("should reject an unparseable locale", func(t *testing.T) {
		// when
		_, err := NewCurrencyFormatter("USD", "!!")

		// then
		assert.Error(t, err)
	})
}

func TestCurrencyFormatter_Format(t *testing.T) {
	t.Run("should render USD amounts with symbol and grouping", func(t *testing.T) {
		// given
		formatter, err := NewCurrencyFormatter("USD", "en-US")
		require.NoError(t, err)

		// when
		out := formatter.Format(decimal.NewFromInt(5000))

		// then
		assert.Equal(t, "$5,000.00", out)
	})

	t.Run("should keep two fraction digits for cents", func(t *testing.T) {
		// given
		formatter, err := NewCurrencyFormatter("USD", "en-US")
		require.NoError(t, err)

		// when
		out := formatter.Format(decimal.NewFromFloat(52.5))

		// then
		assert.Equal(t, "$52.50", out)
	})
}
