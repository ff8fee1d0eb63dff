package service

import (
	"database/sql"
	"testing"

	"stock-sentiment-tracker/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDailyReturns(t *testing.T) {
	bars := []entity.PriceBar{
		{Close: 100.0},
		{Close: 110.0},
		{Close: 99.0},
	}

	returns := computeDailyReturns(bars)
	require.Len(t, returns, 3)

	assert.Nil(t, returns[0])
	require.NotNil(t, returns[1])
	assert.InDelta(t, 10.0, *returns[1], 0.0001)
	require.NotNil(t, returns[2])
	assert.InDelta(t, -10.0, *returns[2], 0.0001)
}

func TestComputeDailyReturnsZeroPrevClose(t *testing.T) {
	bars := []entity.PriceBar{
		{Close: 0.0},
		{Close: 110.0},
	}

	returns := computeDailyReturns(bars)
	require.Len(t, returns, 2)
	assert.Nil(t, returns[0])
	assert.Nil(t, returns[1])
}

func TestComputeDailyReturnsEmpty(t *testing.T) {
	assert.Empty(t, computeDailyReturns(nil))
}

func TestReturnChanged(t *testing.T) {
	v := 10.0
	tests := []struct {
		name     string
		stored   sql.NullFloat64
		computed *float64
		want     bool
	}{
		{"both nil", sql.NullFloat64{}, nil, false},
		{"stored set computed nil", sql.NullFloat64{Float64: 5, Valid: true}, nil, true},
		{"stored nil computed set", sql.NullFloat64{}, &v, true},
		{"equal", sql.NullFloat64{Float64: 10.0, Valid: true}, &v, false},
		{"different", sql.NullFloat64{Float64: 9.0, Valid: true}, &v, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, returnChanged(tt.stored, tt.computed))
		})
	}
}
