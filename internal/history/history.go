// Package history keeps a bounded stack of scene snapshots for undo/redo.
//
// Snapshots are opaque byte slices produced by the scene's codec. Recording
// whole-scene snapshots at gesture boundaries avoids needing an inverse
// operation per object variant.
package history

// DefaultLimit caps the number of retained snapshots.
const DefaultLimit = 50

// Manager holds the snapshot sequence and the index of the entry that is
// currently rendered. The invariant 0 <= index < len(entries) holds whenever
// at least one snapshot has been pushed.
type Manager struct {
	entries [][]byte
	index   int
	limit   int
}

func New(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{entries: make([][]byte, 0, limit), limit: limit}
}

// Push records a new snapshot. Entries after the current index are discarded
// first, so a new action after an undo prunes the redo branch. When the stack
// exceeds its limit the oldest entry is dropped and the index shifts down,
// preserving relative position.
func (m *Manager) Push(snapshot []byte) {
	if len(m.entries) > 0 && m.index < len(m.entries)-1 {
		m.entries = m.entries[:m.index+1]
	}
	m.entries = append(m.entries, snapshot)
	if len(m.entries) > m.limit {
		m.entries = m.entries[1:]
	}
	m.index = len(m.entries) - 1
}

// Undo steps back one entry and returns the snapshot to restore. At the first
// entry it is a silent no-op and returns false.
func (m *Manager) Undo() ([]byte, bool) {
	if !m.CanUndo() {
		return nil, false
	}
	m.index--
	return m.entries[m.index], true
}

// Redo steps forward one entry and returns the snapshot to restore. At the
// last entry it is a silent no-op and returns false.
func (m *Manager) Redo() ([]byte, bool) {
	if !m.CanRedo() {
		return nil, false
	}
	m.index++
	return m.entries[m.index], true
}

func (m *Manager) CanUndo() bool { return m.index > 0 }

func (m *Manager) CanRedo() bool { return m.index < len(m.entries)-1 }

// Len reports the number of retained snapshots.
func (m *Manager) Len() int { return len(m.entries) }

// Index reports the position of the currently rendered snapshot.
func (m *Manager) Index() int { return m.index }
