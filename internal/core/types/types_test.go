package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityRoundTrip(t *testing.T) {
	q := NewQuantityFromFloat64(2.5)

	assert.Equal(t, int64(25_000), q.Int64Scaled())
	assert.Equal(t, 2.5, q.Float64())
	assert.Equal(t, "2.5000", q.String())
}

func TestQuantityDecimal(t *testing.T) {
	q := NewQuantityFromFloat64(1.5)
	price := NewMoney(7.50)

	// 1.5 kg at 7.50 → 11.25, exact.
	assert.Equal(t, "11.25", price.Mul(q.Decimal()).StringFixed(2))
}

func TestQuantityString_Negative(t *testing.T) {
	q := NewQuantityFromFloat64(-0.25)

	assert.Equal(t, "-0.2500", q.String())
	assert.True(t, q.IsNegative())
	assert.Equal(t, "0.2500", q.Neg().String())
}

func TestQuantityJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Quantity
	}{
		{"integer", `3`, NewQuantityFromFloat64(3)},
		{"fraction", `0.5`, NewQuantityFromFloat64(0.5)},
		{"quoted", `"2.75"`, NewQuantityFromFloat64(2.75)},
		{"negative", `-1.5`, NewQuantityFromFloat64(-1.5)},
		{"null", `null`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var q Quantity
			require.NoError(t, json.Unmarshal([]byte(tc.input), &q))
			assert.Equal(t, tc.want, q)
		})
	}
}

func TestQuantityJSON_Marshal(t *testing.T) {
	out, err := json.Marshal(NewQuantityFromFloat64(12.5))
	require.NoError(t, err)
	assert.Equal(t, "12.5000", string(out))
}

func TestQuantityJSON_Garbage(t *testing.T) {
	var q Quantity
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &q))
}

func TestMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("19.90")
	require.NoError(t, err)
	assert.Equal(t, "19.90", m.StringFixed(2))

	_, err = NewMoneyFromString("not-money")
	assert.Error(t, err)
}
