package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/session"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

func TestRegistry_OnLoginThenWeightTiers(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	reg := session.NewRegistry(session.DefaultTiers(), clock, nil)
	player, err := shared.NewPlayerID("11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)

	login := clock.Now()
	reg.OnLogin(player, "Steve", login)

	assert.True(t, session.DefaultTiers().Instant.Equal(reg.WeightFor(player, login.Add(5*time.Minute))))
	assert.True(t, session.DefaultTiers().Short.Equal(reg.WeightFor(player, login.Add(15*time.Minute))))
	assert.True(t, session.DefaultTiers().Medium.Equal(reg.WeightFor(player, login.Add(60*time.Minute))))
	assert.True(t, session.DefaultTiers().Long.Equal(reg.WeightFor(player, login.Add(200*time.Minute))))
}

func TestRegistry_UnknownPlayerGetsInstantWeight(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	reg := session.NewRegistry(session.DefaultTiers(), clock, nil)
	unknown, err := shared.NewPlayerID("22222222-2222-2222-2222-222222222222")
	require.NoError(t, err)

	assert.True(t, session.DefaultTiers().Instant.Equal(reg.WeightFor(unknown, clock.Now())))
}

func TestRegistry_OnlineCountAndLogout(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	reg := session.NewRegistry(session.DefaultTiers(), clock, nil)
	p1, _ := shared.NewPlayerID("33333333-3333-3333-3333-333333333333")
	p2, _ := shared.NewPlayerID("44444444-4444-4444-4444-444444444444")

	reg.OnLogin(p1, "A", clock.Now())
	reg.OnLogin(p2, "B", clock.Now())
	assert.Equal(t, 2, reg.OnlineCount())

	reg.OnLogout(p1)
	assert.Equal(t, 1, reg.OnlineCount())
}
