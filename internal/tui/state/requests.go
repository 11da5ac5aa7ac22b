package state

import "github.com/hy4ri/tasklist-tui/internal/api"

// LoadTicket identifies one issued load.
type LoadTicket struct {
	Seq      uint64
	Revision uint64
}

// Requests sequences in-flight calls so that late responses cannot
// overwrite newer state.
//
// Every applied mutation bumps the revision. A load is applied only when it
// is the latest load issued and no mutation was applied since it was issued.
// A successful save is applied unless a newer successful save for the same
// task already was.
type Requests struct {
	loadSeq  uint64
	revision uint64

	// Per task: newest save issued and newest successful save applied.
	saveSeq     map[api.TaskID]uint64
	appliedSave map[api.TaskID]uint64
}

// NewRequests returns an empty sequencer.
func NewRequests() *Requests {
	return &Requests{
		saveSeq:     make(map[api.TaskID]uint64),
		appliedSave: make(map[api.TaskID]uint64),
	}
}

// IssueLoad records a new load and returns its ticket.
func (r *Requests) IssueLoad() LoadTicket {
	r.loadSeq++
	return LoadTicket{Seq: r.loadSeq, Revision: r.revision}
}

// IsLatestLoad reports whether t belongs to the most recently issued load.
func (r *Requests) IsLatestLoad(t LoadTicket) bool {
	return t.Seq == r.loadSeq
}

// IsStale reports whether a mutation was applied after t was issued.
func (r *Requests) IsStale(t LoadTicket) bool {
	return t.Revision != r.revision
}

// MutationApplied bumps the revision.
func (r *Requests) MutationApplied() {
	r.revision++
}

// IssueSave records a new save for id and returns its sequence number.
func (r *Requests) IssueSave(id api.TaskID) uint64 {
	r.saveSeq[id]++
	return r.saveSeq[id]
}

// IsLatestSave reports whether seq is the newest save issued for id.
func (r *Requests) IsLatestSave(id api.TaskID, seq uint64) bool {
	return r.saveSeq[id] == seq
}

// ApplySave records a successful save for id and reports whether it is newer
// than every successful save already applied. An older success arriving
// after a newer one returns false; one whose newer sibling failed returns true.
func (r *Requests) ApplySave(id api.TaskID, seq uint64) bool {
	if seq <= r.appliedSave[id] {
		return false
	}
	r.appliedSave[id] = seq
	return true
}

// Forget drops bookkeeping for a deleted task.
func (r *Requests) Forget(id api.TaskID) {
	delete(r.saveSeq, id)
	delete(r.appliedSave, id)
}
