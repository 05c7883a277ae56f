// Package social derives the friend graph of a single user from the raw
// profile and request lists. The derivation is a pure function: friendship is
// not stored anywhere, it exists iff an accepted request exists between two
// users in either direction.
package social

import "secretmsg/internal/models"

// UnknownName is used when an enriched request references a profile that no
// longer exists.
const UnknownName = "Unknown"

// Overview is the reconciled view of the social graph around one user.
// Friends, incoming senders, outgoing receivers and candidates partition the
// non-self profile set, provided at most one active request exists per pair.
type Overview struct {
	FriendIDs  []uint                   `json:"friendIds"`
	Friends    []models.Profile         `json:"friends"`
	Incoming   []models.IncomingRequest `json:"incomingRequests"`
	Outgoing   []models.OutgoingRequest `json:"outgoingRequests"`
	Candidates []models.Profile         `json:"candidates"`
}

// IsFriend reports whether userID is a derived friend of the overview's user.
func (o *Overview) IsFriend(userID uint) bool {
	for _, id := range o.FriendIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Reconcile computes the Overview for currentUserID from the full profile
// list and the requests involving the user. It has no side effects and must
// be re-run from fresh reads after every mutation; callers degrade failed
// fetches to empty slices rather than skipping the derivation.
//
// A profile is a candidate iff it is not the current user and no active
// (pending or accepted) request exists between the pair in either direction.
func Reconcile(currentUserID uint, profiles []models.Profile, requests []models.FriendRequest) Overview {
	names := make(map[uint]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.FullName
	}

	overview := Overview{
		FriendIDs:  []uint{},
		Friends:    []models.Profile{},
		Incoming:   []models.IncomingRequest{},
		Outgoing:   []models.OutgoingRequest{},
		Candidates: []models.Profile{},
	}

	// related holds every user tied to the current user by an active request,
	// friend or not. It is the single exclusion predicate for candidates.
	related := make(map[uint]bool)
	friendSet := make(map[uint]bool)

	for _, r := range requests {
		if !r.Involves(currentUserID) || !r.IsActive() {
			continue
		}
		other := r.Other(currentUserID)
		related[other] = true

		switch {
		case r.Status == models.FriendRequestStatusAccepted:
			if !friendSet[other] {
				friendSet[other] = true
				overview.FriendIDs = append(overview.FriendIDs, other)
			}
		case r.ReceiverID == currentUserID:
			overview.Incoming = append(overview.Incoming, models.IncomingRequest{
				FriendRequest: r,
				SenderName:    nameOr(names, r.SenderID),
			})
		default:
			overview.Outgoing = append(overview.Outgoing, models.OutgoingRequest{
				FriendRequest: r,
				ReceiverName:  nameOr(names, r.ReceiverID),
			})
		}
	}

	for _, p := range profiles {
		switch {
		case p.ID == currentUserID:
		case friendSet[p.ID]:
			overview.Friends = append(overview.Friends, p)
		case !related[p.ID]:
			overview.Candidates = append(overview.Candidates, p)
		}
	}

	return overview
}

func nameOr(names map[uint]string, id uint) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return UnknownName
}
