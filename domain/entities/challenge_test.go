package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChallenge_WinnerForOutcome(t *testing.T) {
	t.Parallel()

	challenge := &Challenge{
		ChallengerID: 10,
		ChallengedID: 20,
		Position:     PositionYes,
	}

	assert.Equal(t, int64(10), challenge.WinnerForOutcome(PositionYes))
	assert.Equal(t, int64(20), challenge.WinnerForOutcome(PositionNo))
	assert.Equal(t, PositionNo, challenge.ChallengedPosition())
}

func TestChallenge_Pot(t *testing.T) {
	t.Parallel()

	challenge := &Challenge{Amount: 500}
	assert.Equal(t, int64(1000), challenge.Pot())
}

func TestChallenge_StateTransitions(t *testing.T) {
	t.Parallel()

	now := time.Now()

	accepted := &Challenge{Status: ChallengeStatusPending}
	accepted.Accept(now)
	assert.True(t, accepted.IsAccepted())
	assert.False(t, accepted.IsPending())
	assert.NotNil(t, accepted.RespondedAt)

	declined := &Challenge{Status: ChallengeStatusPending}
	declined.Decline(now)
	assert.Equal(t, ChallengeStatusDeclined, declined.Status)

	resolved := &Challenge{Status: ChallengeStatusAccepted}
	resolved.Resolve(10, now)
	assert.Equal(t, ChallengeStatusResolved, resolved.Status)
	assert.Equal(t, int64(10), *resolved.WinnerID)
	assert.NotNil(t, resolved.ResolvedAt)
}
