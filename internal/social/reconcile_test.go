package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secretmsg/internal/models"
)

func profile(id uint, name string) models.Profile {
	p := models.Profile{FullName: name}
	p.ID = id
	return p
}

func request(id, sender, receiver uint, status models.FriendRequestStatus) models.FriendRequest {
	r := models.FriendRequest{SenderID: sender, ReceiverID: receiver, Status: status}
	r.ID = id
	return r
}

func TestReconcileEmptyInputs(t *testing.T) {
	overview := Reconcile(1, nil, nil)

	assert.Empty(t, overview.FriendIDs)
	assert.Empty(t, overview.Friends)
	assert.Empty(t, overview.Incoming)
	assert.Empty(t, overview.Outgoing)
	assert.Empty(t, overview.Candidates)
}

func TestReconcileAloneInProfileList(t *testing.T) {
	overview := Reconcile(1, []models.Profile{profile(1, "Alice")}, nil)

	assert.Empty(t, overview.Friends)
	assert.Empty(t, overview.Candidates, "the current user is never their own candidate")
}

func TestReconcilePendingOutgoing(t *testing.T) {
	profiles := []models.Profile{profile(1, "Alice"), profile(2, "Bob")}
	requests := []models.FriendRequest{request(10, 1, 2, models.FriendRequestStatusPending)}

	fromAlice := Reconcile(1, profiles, requests)
	require.Len(t, fromAlice.Outgoing, 1)
	assert.Equal(t, uint(2), fromAlice.Outgoing[0].ReceiverID)
	assert.Equal(t, "Bob", fromAlice.Outgoing[0].ReceiverName)
	assert.Empty(t, fromAlice.Incoming)
	assert.Empty(t, fromAlice.Candidates, "a pending receiver is not a candidate")

	fromBob := Reconcile(2, profiles, requests)
	require.Len(t, fromBob.Incoming, 1)
	assert.Equal(t, uint(1), fromBob.Incoming[0].SenderID)
	assert.Equal(t, "Alice", fromBob.Incoming[0].SenderName)
	assert.Empty(t, fromBob.Outgoing)
	assert.Empty(t, fromBob.Candidates, "a pending sender is not a candidate")
}

func TestReconcileAcceptedIsSymmetric(t *testing.T) {
	profiles := []models.Profile{profile(1, "Alice"), profile(2, "Bob")}
	requests := []models.FriendRequest{request(10, 1, 2, models.FriendRequestStatusAccepted)}

	fromAlice := Reconcile(1, profiles, requests)
	fromBob := Reconcile(2, profiles, requests)

	assert.Equal(t, []uint{2}, fromAlice.FriendIDs)
	assert.Equal(t, []uint{1}, fromBob.FriendIDs)
	assert.True(t, fromAlice.IsFriend(2))
	assert.True(t, fromBob.IsFriend(1))

	// An accepted request shows up in neither pending list.
	assert.Empty(t, fromAlice.Incoming)
	assert.Empty(t, fromAlice.Outgoing)
	assert.Empty(t, fromBob.Incoming)
	assert.Empty(t, fromBob.Outgoing)
}

func TestReconcileWithdrawnRequestRestoresCandidate(t *testing.T) {
	profiles := []models.Profile{profile(1, "Alice"), profile(2, "Bob")}
	pending := []models.FriendRequest{request(10, 1, 2, models.FriendRequestStatusPending)}

	before := Reconcile(1, profiles, pending)
	assert.Empty(t, before.Candidates)

	// Cancel deletes the row; Bob becomes eligible again.
	after := Reconcile(1, profiles, nil)
	require.Len(t, after.Candidates, 1)
	assert.Equal(t, uint(2), after.Candidates[0].ID)
}

func TestReconcileUnknownProfileName(t *testing.T) {
	profiles := []models.Profile{profile(2, "Bob")} // sender's profile is gone
	requests := []models.FriendRequest{request(10, 1, 2, models.FriendRequestStatusPending)}

	overview := Reconcile(2, profiles, requests)
	require.Len(t, overview.Incoming, 1)
	assert.Equal(t, UnknownName, overview.Incoming[0].SenderName)
}

func TestReconcileIgnoresRequestsOfOthers(t *testing.T) {
	profiles := []models.Profile{profile(1, "Alice"), profile(2, "Bob"), profile(3, "Carol")}
	requests := []models.FriendRequest{
		request(10, 2, 3, models.FriendRequestStatusAccepted), // Bob and Carol are friends
	}

	overview := Reconcile(1, profiles, requests)
	assert.Empty(t, overview.FriendIDs)
	assert.Empty(t, overview.Incoming)
	assert.Empty(t, overview.Outgoing)
	// Both remain candidates for Alice.
	assert.Len(t, overview.Candidates, 2)
}

func TestReconcilePartition(t *testing.T) {
	profiles := []models.Profile{
		profile(1, "Alice"),
		profile(2, "Bob"),
		profile(3, "Carol"),
		profile(4, "Dan"),
		profile(5, "Eve"),
	}
	requests := []models.FriendRequest{
		request(10, 1, 2, models.FriendRequestStatusAccepted), // friend
		request(11, 3, 1, models.FriendRequestStatusPending),  // incoming from Carol
		request(12, 1, 4, models.FriendRequestStatusPending),  // outgoing to Dan
		// Eve has no relationship with Alice at all.
	}

	overview := Reconcile(1, profiles, requests)

	seen := map[uint]string{1: "self"}
	add := func(id uint, bucket string) {
		prev, dup := seen[id]
		require.Falsef(t, dup, "user %d appears in both %s and %s", id, prev, bucket)
		seen[id] = bucket
	}
	for _, p := range overview.Friends {
		add(p.ID, "friends")
	}
	for _, r := range overview.Incoming {
		add(r.SenderID, "incoming")
	}
	for _, r := range overview.Outgoing {
		add(r.ReceiverID, "outgoing")
	}
	for _, p := range overview.Candidates {
		add(p.ID, "candidates")
	}

	// The buckets plus the current user cover the whole profile set.
	assert.Len(t, seen, len(profiles))

	assert.Equal(t, []uint{2}, overview.FriendIDs)
	require.Len(t, overview.Incoming, 1)
	assert.Equal(t, "Carol", overview.Incoming[0].SenderName)
	require.Len(t, overview.Outgoing, 1)
	assert.Equal(t, "Dan", overview.Outgoing[0].ReceiverName)
	require.Len(t, overview.Candidates, 1)
	assert.Equal(t, uint(5), overview.Candidates[0].ID)
}

func TestReconcileIsDeterministic(t *testing.T) {
	profiles := []models.Profile{profile(1, "Alice"), profile(2, "Bob"), profile(3, "Carol")}
	requests := []models.FriendRequest{
		request(10, 1, 2, models.FriendRequestStatusAccepted),
		request(11, 3, 1, models.FriendRequestStatusPending),
	}

	first := Reconcile(1, profiles, requests)
	second := Reconcile(1, profiles, requests)

	assert.Equal(t, first, second)
}

func TestReconcileRejectedRowsAreInert(t *testing.T) {
	// A rejected row that was not yet cleaned up must not block a new
	// request or hide a candidate.
	profiles := []models.Profile{profile(1, "Alice"), profile(2, "Bob")}
	requests := []models.FriendRequest{request(10, 1, 2, models.FriendRequestStatusRejected)}

	overview := Reconcile(1, profiles, requests)
	assert.Empty(t, overview.Incoming)
	assert.Empty(t, overview.Outgoing)
	require.Len(t, overview.Candidates, 1)
	assert.Equal(t, uint(2), overview.Candidates[0].ID)
}
