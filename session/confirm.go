package session

import "fmt"

// DeleteState is the delete-confirmation state machine. The zero value is
// Idle.
//
//	Idle           --Request(id)--> PendingDelete(id)
//	PendingDelete  --Request(id)--> PendingDelete(id)
//	PendingDelete  --Cancel-------> Idle
//	PendingDelete  --Confirm------> Idle, yielding id
//	Idle           --Cancel-------> Idle
//	Idle           --Confirm------> Idle, yielding nothing
type DeleteState struct {
	id      string
	pending bool
}

// Idle returns the state with no delete awaiting confirmation.
func Idle() DeleteState {
	return DeleteState{}
}

// PendingDelete returns the state awaiting confirmation to delete id.
func PendingDelete(id string) DeleteState {
	return DeleteState{id: id, pending: true}
}

// Pending returns the id awaiting confirmation, if any.
func (s DeleteState) Pending() (string, bool) {
	return s.id, s.pending
}

// IsIdle reports whether no delete is awaiting confirmation.
func (s DeleteState) IsIdle() bool {
	return !s.pending
}

// Request moves to PendingDelete(id), replacing any earlier request.
func (s DeleteState) Request(id string) DeleteState {
	return PendingDelete(id)
}

// Cancel drops any pending request.
func (s DeleteState) Cancel() DeleteState {
	return Idle()
}

// Confirm returns the id to delete and the next state. ok is false when
// nothing was pending.
func (s DeleteState) Confirm() (id string, next DeleteState, ok bool) {
	if !s.pending {
		return "", Idle(), false
	}
	return s.id, Idle(), true
}

func (s DeleteState) String() string {
	if !s.pending {
		return "Idle"
	}
	return fmt.Sprintf("PendingDelete(%s)", s.id)
}
