package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHistoryText(t *testing.T) {
	tests := []struct {
		input string
		want  SalesHistory
	}{
		{"5, 7,x,-3,9", SalesHistory{5, 7, 9}},
		{"", SalesHistory{}},
		{" 12 ,  0,3 ", SalesHistory{12, 0, 3}},
		{"1.5,2", SalesHistory{2}},
		{"+4,٣,8", SalesHistory{3, 8}},
		{"١٢, 7", SalesHistory{12, 7}},
	}

	for _, tt := range tests {
		got := ParseHistoryText(tt.input)
		require.NotNil(t, got, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestValidateHistorySequence(t *testing.T) {
	got, err := ValidateHistorySequence([]interface{}{5.0, 7.0, 0.0, 9.0})
	require.NoError(t, err)
	assert.Equal(t, SalesHistory{5, 7, 0, 9}, got)

	got, err = ValidateHistorySequence([]interface{}{1.5, 2.5, 3.0})
	require.NoError(t, err)
	assert.Equal(t, SalesHistory{1.5, 2.5, 3}, got)

	got, err = ValidateHistorySequence([]interface{}{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValidateHistorySequence_Rejects(t *testing.T) {
	inputs := [][]interface{}{
		{5.0, 7.0, -3.0, 9.0},
		{5.0, "7"},
		{-0.5},
		{true},
		{nil},
		{[]interface{}{1.0}},
	}

	for _, items := range inputs {
		_, err := ValidateHistorySequence(items)
		assert.ErrorIs(t, err, ErrInvalidSalesHistory, "items %v", items)
	}
}

func TestParsingAsymmetry(t *testing.T) {
	assert.Equal(t, SalesHistory{5, 7, 9}, ParseHistoryText("5, 7,x,-3,9"))

	_, err := ValidateHistorySequence([]interface{}{5.0, 7.0, -3.0, 9.0})
	assert.ErrorIs(t, err, ErrInvalidSalesHistory)
}

func TestSalesHistoryFloat64s(t *testing.T) {
	h := SalesHistory{1, 2.5, 3}
	out := h.Float64s()
	assert.Equal(t, []float64{1, 2.5, 3}, out)
	out[0] = 99
	assert.Equal(t, 1.0, h[0])
	assert.Empty(t, SalesHistory(nil).Float64s())
}
