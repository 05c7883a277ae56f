package apiserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"secretmsg/internal/middleware"
	"secretmsg/internal/services"
)

// SocialHandler wraps the friend graph HTTP endpoints. Every mutation
// responds with a freshly reconciled overview so clients always re-derive
// from server truth.
type SocialHandler struct {
	friends services.FriendService
}

// NewSocialHandler creates a new SocialHandler instance.
func NewSocialHandler(friends services.FriendService) *SocialHandler {
	return &SocialHandler{friends: friends}
}

// SendRequestPayload is the body for sending a friend request.
type SendRequestPayload struct {
	ReceiverID uint `json:"receiverId"`
}

// OverviewHandler handles GET /api/v1/social/overview.
func (h *SocialHandler) OverviewHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "could not resolve user from context", http.StatusUnauthorized)
		return
	}

	writeJSONResponse(w, http.StatusOK, h.friends.Overview(r.Context(), userID))
}

// SendRequestHandler handles POST /api/v1/friend-requests.
func (h *SocialHandler) SendRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "could not resolve user from context", http.StatusUnauthorized)
		return
	}

	var payload SendRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if payload.ReceiverID == 0 {
		writeJSONError(w, "missing receiver id (receiverId)", http.StatusBadRequest)
		return
	}

	if _, err := h.friends.Send(r.Context(), userID, payload.ReceiverID); err != nil {
		switch {
		case errors.Is(err, services.ErrFriendRequestSelf),
			errors.Is(err, services.ErrReceiverNotFound),
			errors.Is(err, services.ErrAlreadyFriends):
			writeJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrFriendRequestExists):
			writeJSONError(w, err.Error(), http.StatusConflict)
		default:
			writeBackendError(w, err, "failed to send friend request")
		}
		return
	}

	h.respondWithOverview(w, r, userID, http.StatusCreated)
}

// ResolveRequestHandler handles POST /api/v1/friend-requests/{requestID}/accept.
func (h *SocialHandler) ResolveRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "could not resolve user from context", http.StatusUnauthorized)
		return
	}

	requestID, ok := pathID(r, "requestID")
	if !ok {
		writeJSONError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	if err := h.friends.Resolve(r.Context(), userID, requestID); err != nil {
		switch {
		case errors.Is(err, services.ErrFriendRequestNotFound):
			writeJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrNotRequestReceiver),
			errors.Is(err, services.ErrRequestNotPending):
			writeJSONError(w, err.Error(), http.StatusForbidden)
		default:
			writeBackendError(w, err, "failed to accept friend request")
		}
		return
	}

	h.respondWithOverview(w, r, userID, http.StatusOK)
}

// WithdrawRequestHandler handles DELETE /api/v1/friend-requests/{requestID}.
// The sender withdraws to cancel, the receiver withdraws to reject; either
// way the row is deleted.
func (h *SocialHandler) WithdrawRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "could not resolve user from context", http.StatusUnauthorized)
		return
	}

	requestID, ok := pathID(r, "requestID")
	if !ok {
		writeJSONError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	if err := h.friends.Withdraw(r.Context(), userID, requestID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotRequestParty),
			errors.Is(err, services.ErrRequestNotPending):
			writeJSONError(w, err.Error(), http.StatusForbidden)
		default:
			writeBackendError(w, err, "failed to withdraw friend request")
		}
		return
	}

	h.respondWithOverview(w, r, userID, http.StatusOK)
}

// respondWithOverview re-runs the fetch-and-reconcile step after a mutation.
func (h *SocialHandler) respondWithOverview(w http.ResponseWriter, r *http.Request, userID uint, status int) {
	overview := h.friends.Overview(r.Context(), userID)
	writeJSONResponse(w, status, overview)
}
