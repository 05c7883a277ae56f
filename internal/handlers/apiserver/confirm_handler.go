package apiserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"secretmsg/internal/auth"
	"secretmsg/internal/confirm"
	"secretmsg/internal/middleware"
	"secretmsg/internal/services"
)

// ConfirmHandler exposes the two-phase flow for destructive actions. A
// request opens the confirmation; confirm executes it, decline drops it.
// The same flow backs message deletion, logout and account deletion.
type ConfirmHandler struct {
	flows     *confirm.Registry
	messages  services.MessageService
	accounts  services.AccountService
	blacklist auth.TokenBlacklist
}

// NewConfirmHandler creates a new ConfirmHandler instance.
func NewConfirmHandler(
	flows *confirm.Registry,
	messages services.MessageService,
	accounts services.AccountService,
	blacklist auth.TokenBlacklist,
) *ConfirmHandler {
	return &ConfirmHandler{
		flows:     flows,
		messages:  messages,
		accounts:  accounts,
		blacklist: blacklist,
	}
}

// RequestActionPayload opens a confirmation for the named action.
type RequestActionPayload struct {
	Kind     confirm.ActionKind `json:"kind"`
	TargetID uint               `json:"targetId,omitempty"`
}

// CascadeStepResult reports one account-deletion step to the client without
// exposing the raw backend error.
type CascadeStepResult struct {
	Name string `json:"name"`
	OK   bool   `json:"ok"`
}

// RequestHandler handles POST /api/v1/actions. Opening a new confirmation
// replaces any pending one.
func (h *ConfirmHandler) RequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "could not resolve user from context", http.StatusUnauthorized)
		return
	}

	var payload RequestActionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	switch payload.Kind {
	case confirm.ActionDeleteMessage:
		if payload.TargetID == 0 {
			writeJSONError(w, "missing target id (targetId)", http.StatusBadRequest)
			return
		}
	case confirm.ActionLogout, confirm.ActionDeleteAccount:
	default:
		writeJSONError(w, confirm.ErrUnknownAction.Error(), http.StatusBadRequest)
		return
	}

	pending, err := h.flows.Flow(userID).Request(payload.Kind, payload.TargetID)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusConflict)
		return
	}

	writeJSONResponse(w, http.StatusOK, pending)
}

// DeclineHandler handles POST /api/v1/actions/decline: back to the prior
// state with no effect.
func (h *ConfirmHandler) DeclineHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "could not resolve user from context", http.StatusUnauthorized)
		return
	}

	h.flows.Flow(userID).Decline()
	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "action declined"})
}

// ConfirmActionHandler handles POST /api/v1/actions/confirm: executes
// whatever confirmation is pending for the caller.
func (h *ConfirmHandler) ConfirmActionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "could not resolve user from context", http.StatusUnauthorized)
		return
	}
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	var report *services.CascadeReport
	err := h.flows.Flow(userID).Confirm(r.Context(), func(ctx context.Context, p confirm.Pending) error {
		switch p.Kind {
		case confirm.ActionDeleteMessage:
			return h.messages.Delete(ctx, userID, p.TargetID)
		case confirm.ActionLogout:
			return h.logout(ctx, userID, claims)
		case confirm.ActionDeleteAccount:
			res := h.deleteAccount(ctx, userID, claims)
			report = &res
			return nil
		default:
			return confirm.ErrUnknownAction
		}
	})

	if err != nil {
		switch {
		case errors.Is(err, confirm.ErrNothingPending):
			writeJSONError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, confirm.ErrExecutionInFlight):
			writeJSONError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, services.ErrNotMessageOwner):
			writeJSONError(w, err.Error(), http.StatusForbidden)
		default:
			writeBackendError(w, err, "failed to execute action")
		}
		return
	}

	if report != nil {
		h.flows.Drop(userID)
		steps := make([]CascadeStepResult, 0, len(report.Steps))
		for _, step := range report.Steps {
			steps = append(steps, CascadeStepResult{Name: step.Name, OK: step.Err == nil})
		}
		writeJSONResponse(w, http.StatusOK, map[string]interface{}{
			"message": "account deleted",
			"steps":   steps,
		})
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "action completed"})
}

// logout revokes the session token and drops in-memory editor state.
func (h *ConfirmHandler) logout(ctx context.Context, userID uint, claims *auth.Claims) error {
	h.messages.Editor().Forget(userID)

	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return errors.New("token is missing revocation claims")
	}
	return h.blacklist.Add(ctx, claims.ID, claims.ExpiresAt.Time)
}

// deleteAccount runs the best-effort cascade. The report always comes back;
// per-step failures are inside it.
func (h *ConfirmHandler) deleteAccount(ctx context.Context, userID uint, claims *auth.Claims) services.CascadeReport {
	h.messages.Editor().Forget(userID)

	var jti string
	var exp time.Time
	if claims != nil && claims.ExpiresAt != nil {
		jti = claims.ID
		exp = claims.ExpiresAt.Time
	}
	return h.accounts.DeleteAccount(ctx, userID, jti, exp)
}
