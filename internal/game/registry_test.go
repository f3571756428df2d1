package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	results []MatchResult
	err     error
}

func (c *captureSink) SaveResult(_ context.Context, res MatchResult) error {
	c.results = append(c.results, res)
	return c.err
}

func TestSessionService_CreateGetDestroy(t *testing.T) {
	svc := NewSessionService(Config{}, NewStaticSupply(), nil)

	a := svc.Create("Alpha")
	b := svc.Create("Beta")
	require.NotEqual(t, a.ID(), b.ID())
	assert.True(t, validSessionID(a.ID()))

	got, found := svc.Get(a.ID())
	require.True(t, found)
	assert.Same(t, a, got)

	list := svc.List()
	require.Len(t, list, 2)
	assert.Less(t, list[0].ID, list[1].ID)

	svc.Destroy(a.ID())
	svc.Destroy(a.ID()) // idempotent
	_, found = svc.Get(a.ID())
	assert.False(t, found)
	assert.Len(t, svc.List(), 1)
}

func TestSessionService_EmptySessionSelfDestructs(t *testing.T) {
	svc := NewSessionService(Config{}, NewStaticSupply(), nil)
	sess := svc.Create("Ephemeral")

	cc := newTestConn()
	require.NoError(t, sess.Join("u1", "Alice", cc))
	sess.Leave("u1", cc)

	_, found := svc.Get(sess.ID())
	assert.False(t, found)
}

func TestSessionService_ResultFansOutToSinks(t *testing.T) {
	good := &captureSink{}
	failing := &captureSink{err: errors.New("sink down")}
	svc := NewSessionService(Config{}, NewStaticSupply(), nil, failing, good)

	sess := svc.Create("Finals")
	for _, id := range []string{"r0", "r1", "b0", "b1"} {
		require.NoError(t, sess.Join(id, "P", newTestConn()))
	}
	require.NoError(t, sess.JoinSlot("r0", TeamRed, 0))
	require.NoError(t, sess.JoinSlot("r1", TeamRed, 1))
	require.NoError(t, sess.JoinSlot("b0", TeamBlue, 0))
	require.NoError(t, sess.JoinSlot("b1", TeamBlue, 1))
	require.NoError(t, sess.StartMatch("r0", true))
	for _, id := range []string{"r0", "r1", "b0", "b1"} {
		require.NoError(t, sess.JoinMatch(id))
	}

	require.NoError(t, sess.SetClue("b0", Clue{Word: "doom", Count: 1}))
	require.NoError(t, sess.ChooseCard("b1", 1, 2)) // black card, red wins

	// a failing sink must not block the others
	require.Len(t, good.results, 1)
	require.Len(t, failing.results, 1)
	assert.Equal(t, TeamRed, good.results[0].Winner)
	assert.Equal(t, sess.ID(), good.results[0].SessionID)
}
