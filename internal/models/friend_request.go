package models

// FriendRequestStatus defines the state of a friend request.
type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "pending"
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
	FriendRequestStatusRejected FriendRequestStatus = "rejected"
)

// FriendRequest is a directed request record. Friendship is not stored
// separately: two users are friends iff an accepted request exists between
// them in either direction. Rejecting or cancelling a request removes the
// row; accepting mutates the status in place.
type FriendRequest struct {
	BaseModel
	SenderID   uint                `gorm:"not null;index:idx_friend_request_pair" json:"senderId"`
	ReceiverID uint                `gorm:"not null;index:idx_friend_request_pair" json:"receiverId"`
	Status     FriendRequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
}

// TableName specifies the table name for the FriendRequest model.
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Involves reports whether userID is either endpoint of the request.
func (r *FriendRequest) Involves(userID uint) bool {
	return r.SenderID == userID || r.ReceiverID == userID
}

// Other returns the endpoint that is not userID. The caller must ensure
// Involves(userID) holds.
func (r *FriendRequest) Other(userID uint) uint {
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}

// IsActive reports whether the request still blocks a new request between
// the same pair (pending or accepted).
func (r *FriendRequest) IsActive() bool {
	return r.Status == FriendRequestStatusPending || r.Status == FriendRequestStatusAccepted
}

// IncomingRequest is a pending request addressed to the current user,
// enriched with the sender's display name for rendering.
type IncomingRequest struct {
	FriendRequest
	SenderName string `json:"senderFullName"`
}

// OutgoingRequest is a pending request sent by the current user, enriched
// with the receiver's display name.
type OutgoingRequest struct {
	FriendRequest
	ReceiverName string `json:"receiverFullName"`
}
