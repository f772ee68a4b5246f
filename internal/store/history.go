package store

// DefaultHistoryLimit bounds both history stacks.
const DefaultHistoryLimit = 100

// history holds the undo (past) and redo (future) stacks. The top of each
// stack is the last element.
//
// After a reset the past stack holds a single baseline marker; undo never
// restores it. Once the bound evicts the marker every retained snapshot is
// reachable by undo.
type history struct {
	past   []Snapshot
	future []Snapshot
	limit  int
	seeded bool // past[0] is the baseline marker
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &history{limit: limit}
}

// reset discards both stacks. With seed set the baseline marker is pushed.
func (h *history) reset(seed bool) {
	h.past = nil
	h.future = nil
	h.seeded = seed
	if seed {
		h.past = []Snapshot{{}}
	}
}

// floor is the number of past entries undo never pops.
func (h *history) floor() int {
	if h.seeded {
		return 1
	}
	return 0
}

// record pushes prev, the state being replaced by a new edit, and drops the
// redo branch. prev is skipped when it equals the top of the past stack.
func (h *history) record(prev Snapshot) {
	if n := len(h.past); n == 0 || !h.past[n-1].Equal(prev) {
		h.pushPast(prev)
	}
	h.future = nil
}

func (h *history) undo(current Snapshot) (Snapshot, bool) {
	n := len(h.past)
	if n <= h.floor() {
		return Snapshot{}, false
	}
	prev := h.past[n-1]
	h.past = h.past[:n-1]
	h.future = h.push(h.future, current)
	return prev, true
}

func (h *history) redo(current Snapshot) (Snapshot, bool) {
	n := len(h.future)
	if n == 0 {
		return Snapshot{}, false
	}
	next := h.future[n-1]
	h.future = h.future[:n-1]
	h.pushPast(current)
	return next, true
}

func (h *history) canUndo() bool { return len(h.past) > h.floor() }
func (h *history) canRedo() bool { return len(h.future) > 0 }

// push appends s and evicts from the bottom once the stack exceeds the limit.
func (h *history) push(stack []Snapshot, s Snapshot) []Snapshot {
	stack = append(stack, s)
	if over := len(stack) - h.limit; over > 0 {
		stack = append(stack[:0:0], stack[over:]...)
	}
	return stack
}

func (h *history) pushPast(s Snapshot) {
	before := len(h.past)
	h.past = h.push(h.past, s)
	if h.seeded && len(h.past) <= before {
		h.seeded = false
	}
}
