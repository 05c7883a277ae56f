package apiserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"secretmsg/internal/middleware"
	"secretmsg/internal/models"
	"secretmsg/internal/services"
)

// MessageHandler wraps the secret message HTTP endpoints.
type MessageHandler struct {
	messages services.MessageService
}

// NewMessageHandler creates a new MessageHandler instance.
func NewMessageHandler(messages services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// SaveMessagePayload is the body for saving a message. An empty body is
// accepted; no content validation is imposed.
type SaveMessagePayload struct {
	Message string `json:"message"`
}

// MessagesResponse carries a freshly fetched message list. Mutations respond
// with this so clients re-render from server truth instead of patching
// local state.
type MessagesResponse struct {
	Messages  []models.SecretMessage `json:"messages"`
	ReadOnly  bool                   `json:"readOnly"`
	EditState *services.EditState    `json:"editState,omitempty"`
}

// ListMineHandler handles GET /api/v1/messages.
func (h *MessageHandler) ListMineHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "could not resolve user from context", http.StatusUnauthorized)
		return
	}

	h.messages.Editor().SetView(userID, services.OwnView())
	h.respondWithOwn(w, r, userID, http.StatusOK)
}

// ViewFriendHandler handles GET /api/v1/users/{ownerID}/messages. Only a
// confirmed friend's messages may be viewed, read-only; anyone else gets a
// forbidden error and no bodies.
func (h *MessageHandler) ViewFriendHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "could not resolve user from context", http.StatusUnauthorized)
		return
	}

	ownerID, ok := pathID(r, "ownerID")
	if !ok {
		writeJSONError(w, "invalid owner id", http.StatusBadRequest)
		return
	}

	messages, err := h.messages.View(r.Context(), userID, ownerID)
	if err != nil {
		if errors.Is(err, services.ErrForbiddenView) {
			writeJSONError(w, "you are not friends with this user", http.StatusForbidden)
		} else {
			writeBackendError(w, err, "failed to load messages")
		}
		return
	}

	readOnly := ownerID != userID
	if readOnly {
		h.messages.Editor().SetView(userID, services.FriendView(ownerID))
	} else {
		h.messages.Editor().SetView(userID, services.OwnView())
	}

	writeJSONResponse(w, http.StatusOK, MessagesResponse{Messages: messages, ReadOnly: readOnly})
}

// SaveHandler handles POST /api/v1/messages: insert, or in-place update when
// an edit is in progress. Responds with the refreshed message list.
func (h *MessageHandler) SaveHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "could not resolve user from context", http.StatusUnauthorized)
		return
	}

	var payload SaveMessagePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	_, created, err := h.messages.Save(r.Context(), userID, payload.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEditTargetNotFound):
			writeJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrNotMessageOwner):
			writeJSONError(w, err.Error(), http.StatusForbidden)
		default:
			writeBackendError(w, err, "failed to save message")
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.respondWithOwn(w, r, userID, status)
}

// StartEditHandler handles POST /api/v1/messages/{messageID}/edit.
func (h *MessageHandler) StartEditHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "could not resolve user from context", http.StatusUnauthorized)
		return
	}

	messageID, ok := pathID(r, "messageID")
	if !ok {
		writeJSONError(w, "invalid message id", http.StatusBadRequest)
		return
	}

	state, err := h.messages.StartEdit(r.Context(), userID, messageID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEditTargetNotFound):
			writeJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrNotMessageOwner):
			writeJSONError(w, err.Error(), http.StatusForbidden)
		default:
			writeBackendError(w, err, "failed to start editing")
		}
		return
	}

	writeJSONResponse(w, http.StatusOK, state)
}

// CancelEditHandler handles POST /api/v1/messages/edit/cancel.
func (h *MessageHandler) CancelEditHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "could not resolve user from context", http.StatusUnauthorized)
		return
	}

	h.messages.Editor().Cancel(userID)
	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "edit cancelled"})
}

// respondWithOwn re-fetches the caller's messages and current edit state.
func (h *MessageHandler) respondWithOwn(w http.ResponseWriter, r *http.Request, userID uint, status int) {
	messages, err := h.messages.ListOwn(r.Context(), userID)
	if err != nil {
		log.Printf("failed to refresh messages for user %d: %v", userID, err)
		writeBackendError(w, err, "failed to load messages")
		return
	}

	resp := MessagesResponse{Messages: messages}
	if state, editing := h.messages.Editor().Current(userID); editing {
		resp.EditState = &state
	}
	writeJSONResponse(w, status, resp)
}

// pathID extracts a numeric path variable.
func pathID(r *http.Request, name string) (uint, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
