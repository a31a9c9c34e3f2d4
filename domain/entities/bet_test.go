package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBet_Payout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		amount      int64
		winningPool int64
		totalPool   int64
		want        int64
	}{
		{
			name:        "sole winner takes whole pool",
			amount:      100,
			winningPool: 100,
			totalPool:   300,
			want:        300,
		},
		{
			name:        "proportional share",
			amount:      100,
			winningPool: 300,
			totalPool:   600,
			want:        200,
		},
		{
			name:        "fractional share rounds down",
			amount:      33,
			winningPool: 99,
			totalPool:   199,
			want:        66,
		},
		{
			name:        "no opposing bets returns the stake",
			amount:      100,
			winningPool: 100,
			totalPool:   100,
			want:        100,
		},
		{
			name:        "zero winning pool pays nothing",
			amount:      100,
			winningPool: 0,
			totalPool:   500,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bet := &Bet{Amount: tt.amount, Position: PositionYes}
			assert.Equal(t, tt.want, bet.Payout(tt.winningPool, tt.totalPool))
		})
	}
}

func TestBet_IsWinner(t *testing.T) {
	t.Parallel()

	yes := &Bet{Position: PositionYes}
	no := &Bet{Position: PositionNo}

	assert.True(t, yes.IsWinner(PositionYes))
	assert.False(t, yes.IsWinner(PositionNo))
	assert.True(t, no.IsWinner(PositionNo))
	assert.False(t, no.IsWinner(PositionYes))
}
