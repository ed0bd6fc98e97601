package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, USD, m.CurrencyCode())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyUSDFromFloat(100.50)
	b := NewMoneyUSDFromFloat(49.50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(150)))

	eur, _ := NewMoneyFromFloat(10, EUR)
	_, err = a.Add(eur)
	assert.Error(t, err, "currency mismatch must fail")
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyUSDFromFloat(100)
	b := NewMoneyUSDFromFloat(30)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(70)))

	_, err = a.Subtract(Zero(GBP))
	assert.Error(t, err)
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyUSDFromFloat(100)
	b := NewMoneyUSDFromFloat(50)

	assert.True(t, a.GreaterThan(b))
	assert.True(t, a.GreaterThanOrEqual(a))
	assert.True(t, b.LessThan(a))
	assert.True(t, a.Equals(NewMoneyUSDFromFloat(100)))

	// Cross-currency comparisons are always false
	eur, _ := NewMoneyFromFloat(100, EUR)
	assert.False(t, a.GreaterThan(eur))
	assert.False(t, a.Equals(eur))
}

func TestMoney_Negate(t *testing.T) {
	m := NewMoneyUSDFromFloat(25)
	n := m.Negate()
	assert.True(t, n.IsNegative())
	assert.True(t, n.Amount().Equal(decimal.NewFromInt(-25)))
	assert.Equal(t, USD, n.CurrencyCode())
}

func TestCurrency_IsValid(t *testing.T) {
	assert.True(t, USD.IsValid())
	assert.True(t, EUR.IsValid())
	assert.False(t, Currency("XXX").IsValid())
	assert.False(t, Currency("").IsValid())
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyUSDFromFloat(125.5)
	assert.Equal(t, "125.50 USD", m.String())
}
