package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestLimit(t *testing.T) {
	got, err := Limit(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, got)

	got, err = Limit(intPtr(1))
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = Limit(intPtr(100))
	require.NoError(t, err)
	assert.Equal(t, 100, got)

	_, err = Limit(intPtr(0))
	assert.Error(t, err)

	_, err = Limit(intPtr(101))
	assert.Error(t, err)

	_, err = Limit(intPtr(-5))
	assert.Error(t, err)
}

func TestSortDirection(t *testing.T) {
	got, err := SortDirection("")
	require.NoError(t, err)
	assert.Equal(t, "desc", got)

	got, err = SortDirection("ASC")
	require.NoError(t, err)
	assert.Equal(t, "asc", got)

	_, err = SortDirection("sideways")
	assert.Error(t, err)
}

func TestCandleInterval(t *testing.T) {
	got, err := CandleInterval("")
	require.NoError(t, err)
	assert.Equal(t, "1h", got)

	for _, interval := range CandleIntervals {
		got, err := CandleInterval(interval)
		require.NoError(t, err)
		assert.Equal(t, interval, got)
	}

	_, err = CandleInterval("2h")
	assert.Error(t, err)
}

func TestTimeWindow(t *testing.T) {
	got, err := TimeWindow("")
	require.NoError(t, err)
	assert.Equal(t, "24h", got)

	_, err = TimeWindow("30d")
	assert.Error(t, err)
}

func TestCursor(t *testing.T) {
	got, err := Cursor("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Cursor("eyJwYWdlIjoyfQ==")
	require.NoError(t, err)
	assert.Equal(t, "eyJwYWdlIjoyfQ==", got)

	_, err = Cursor("   ")
	assert.Error(t, err)
}

func TestPositiveDecimal(t *testing.T) {
	got, err := PositiveDecimal("amount", "0.5")
	require.NoError(t, err)
	assert.Equal(t, "0.5", got)

	got, err = PositiveDecimal("amount", " 1000000 ")
	require.NoError(t, err)
	assert.Equal(t, "1000000", got)

	_, err = PositiveDecimal("amount", "")
	assert.Error(t, err)

	_, err = PositiveDecimal("amount", "abc")
	assert.Error(t, err)

	_, err = PositiveDecimal("amount", "-1")
	assert.Error(t, err)

	_, err = PositiveDecimal("amount", "0")
	assert.Error(t, err)

	// Non-finite floats parse but are not amounts
	for _, value := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "Infinity", "1e400"} {
		_, err = PositiveDecimal("amount", value)
		assert.Error(t, err, value)
	}
}

func TestSlippage(t *testing.T) {
	got, err := Slippage(0)
	require.NoError(t, err)
	assert.Equal(t, 0.01, got)

	got, err = Slippage(0.05)
	require.NoError(t, err)
	assert.Equal(t, 0.05, got)

	_, err = Slippage(0.6)
	assert.Error(t, err)

	_, err = Slippage(-0.1)
	assert.Error(t, err)
}

func TestRequiredString(t *testing.T) {
	got, err := RequiredString("wallet", " 0xabc ")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", got)

	_, err = RequiredString("wallet", "  ")
	assert.Error(t, err)
}
