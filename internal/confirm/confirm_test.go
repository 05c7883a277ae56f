package confirm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmWithoutRequest(t *testing.T) {
	var f Flow
	err := f.Confirm(context.Background(), func(ctx context.Context, p Pending) error {
		t.Fatal("action must not run without a pending confirmation")
		return nil
	})
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestRequestConfirmExecutes(t *testing.T) {
	var f Flow

	pending, err := f.Request(ActionDeleteMessage, 42)
	require.NoError(t, err)
	assert.Equal(t, ActionDeleteMessage, pending.Kind)
	assert.Equal(t, uint(42), pending.TargetID)
	assert.Equal(t, StateConfirming, f.State())

	var got Pending
	err = f.Confirm(context.Background(), func(ctx context.Context, p Pending) error {
		got = p
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, pending, got)
	assert.Equal(t, StateIdle, f.State())

	_, ok := f.PendingAction()
	assert.False(t, ok)
}

func TestDeclineHasNoEffect(t *testing.T) {
	var f Flow

	_, err := f.Request(ActionLogout, 0)
	require.NoError(t, err)

	f.Decline()
	assert.Equal(t, StateIdle, f.State())

	err = f.Confirm(context.Background(), func(ctx context.Context, p Pending) error {
		t.Fatal("declined action must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestDeclineWhenIdleIsNoop(t *testing.T) {
	var f Flow
	f.Decline()
	assert.Equal(t, StateIdle, f.State())
}

func TestNewRequestReplacesPending(t *testing.T) {
	var f Flow

	_, err := f.Request(ActionDeleteMessage, 1)
	require.NoError(t, err)
	_, err = f.Request(ActionDeleteAccount, 0)
	require.NoError(t, err)

	pending, ok := f.PendingAction()
	require.True(t, ok)
	assert.Equal(t, ActionDeleteAccount, pending.Kind)
	assert.Equal(t, uint(0), pending.TargetID)
}

func TestConfirmReturnsToIdleOnError(t *testing.T) {
	var f Flow

	_, err := f.Request(ActionDeleteMessage, 7)
	require.NoError(t, err)

	err = f.Confirm(context.Background(), func(ctx context.Context, p Pending) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, StateIdle, f.State())
}

func TestRegistryIsolatesUsers(t *testing.T) {
	r := NewRegistry()

	_, err := r.Flow(1).Request(ActionLogout, 0)
	require.NoError(t, err)

	assert.Equal(t, StateConfirming, r.Flow(1).State())
	assert.Equal(t, StateIdle, r.Flow(2).State())

	r.Drop(1)
	assert.Equal(t, StateIdle, r.Flow(1).State())
}
