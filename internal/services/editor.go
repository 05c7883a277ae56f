package services

import "sync"

// ViewMode is a tagged value saying whose messages are on screen: the user's
// own, or a friend's in read-only mode. The tag and the owner id travel
// together so a friend view without an owner cannot be represented.
type ViewMode struct {
	friend  bool
	ownerID uint
}

// OwnView returns the mode showing the user's own messages.
func OwnView() ViewMode {
	return ViewMode{}
}

// FriendView returns the read-only mode showing ownerID's messages.
func FriendView(ownerID uint) ViewMode {
	return ViewMode{friend: true, ownerID: ownerID}
}

// IsOwn reports whether the mode shows the user's own messages.
func (v ViewMode) IsOwn() bool {
	return !v.friend
}

// FriendOwner returns the viewed friend's id when in friend view.
func (v ViewMode) FriendOwner() (uint, bool) {
	return v.ownerID, v.friend
}

// EditState is the single edit slot: the id of the message loaded into the
// draft buffer, and the draft itself.
type EditState struct {
	TargetID uint   `json:"targetId"`
	Draft    string `json:"draft"`
}

// Editor tracks each user's edit slot and view mode. At most one message per
// user is "being edited"; starting another edit silently replaces the target
// (last selected wins). Nothing here touches storage.
type Editor struct {
	mu    sync.Mutex
	slots map[uint]EditState
	views map[uint]ViewMode
}

// NewEditor creates an empty Editor.
func NewEditor() *Editor {
	return &Editor{
		slots: make(map[uint]EditState),
		views: make(map[uint]ViewMode),
	}
}

// Edit loads messageID and its body into the user's edit slot.
func (e *Editor) Edit(userID, messageID uint, body string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slots[userID] = EditState{TargetID: messageID, Draft: body}
}

// Cancel clears the user's edit slot and draft buffer.
func (e *Editor) Cancel(userID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.slots, userID)
}

// Current returns the user's edit slot, if set.
func (e *Editor) Current(userID uint) (EditState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.slots[userID]
	return state, ok
}

// ClearIfTarget clears the slot only when it targets messageID. Called when
// a message is deleted so edit mode cannot point at a removed row.
func (e *Editor) ClearIfTarget(userID, messageID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if state, ok := e.slots[userID]; ok && state.TargetID == messageID {
		delete(e.slots, userID)
	}
}

// SetView records the user's current view mode.
func (e *Editor) SetView(userID uint, mode ViewMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.views[userID] = mode
}

// View returns the user's current view mode, defaulting to their own view.
func (e *Editor) View(userID uint) ViewMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.views[userID]
}

// Forget drops all state for userID, used after logout or account deletion.
func (e *Editor) Forget(userID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.slots, userID)
	delete(e.views, userID)
}
