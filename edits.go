package beantab

import (
	"maps"
	"slices"

	"go.uber.org/zap"
)

// EventKind tells what happened to the edit buffer.
type EventKind int

const (
	// EditRecorded is sent when an edit is created or updated.
	EditRecorded EventKind = iota + 1
	// EditDropped is sent when an edit brings a cell back to its original value.
	EditDropped
	// EditReverted is sent once per cell reverted, including by RevertAll.
	EditReverted
	// EditsCleared is sent once when the buffer is cleared after a save.
	EditsCleared
)

func (k EventKind) String() string {
	switch k {
	case EditRecorded:
		return "recorded"
	case EditDropped:
		return "dropped"
	case EditReverted:
		return "reverted"
	case EditsCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event is a change notification of the edit buffer. Key is the zero EditKey
// for EditsCleared.
type Event struct {
	Kind EventKind
	Key  EditKey
}

type listener struct {
	id int
	fn func(Event)
}

// EditBuffer holds the pending edits of the grid until they are saved.
//
// Each cell keeps the value it had when it was first edited: editing a cell
// back to that value, without a tag, removes the edit. The whole buffer is
// written to its Storage after every change and read back by OpenEditBuffer.
//
// An EditBuffer is not safe for concurrent use.
type EditBuffer struct {
	storage   Storage
	logger    *zap.Logger
	edits     map[EditKey]Edit
	listeners []listener
	nextID    int
	closed    bool
}

// OpenEditBuffer returns the buffer persisted in s, or an empty one if s holds
// nothing usable. s may be nil for a buffer that is not persisted.
func OpenEditBuffer(s Storage, logger *zap.Logger) *EditBuffer {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &EditBuffer{
		storage: s,
		logger:  logger,
		edits:   make(map[EditKey]Edit),
	}
	var list []Edit
	if loadJSON(s, editsStorageKey, &list, logger) {
		for _, e := range list {
			if e.Account == "" || e.Currency == "" || e.Date == "" {
				continue
			}
			b.edits[e.Key()] = e
		}
	}
	logger.Debug("edit buffer opened", zap.Int("edits", len(b.edits)))
	return b
}

// Close ends the buffer lifecycle: the state is written one last time, the
// listeners are dropped and later changes are ignored.
func (b *EditBuffer) Close() error {
	if b.closed {
		return nil
	}
	b.persist()
	b.closed = true
	b.listeners = nil
	return nil
}

// Subscribe registers fn to be called after every change. The returned
// function unregisters it.
func (b *EditBuffer) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, listener{id: id, fn: fn})
	return func() {
		b.listeners = slices.DeleteFunc(b.listeners, func(l listener) bool { return l.id == id })
	}
}

// RecordEdit records that the cell key now holds newText.
//
// original is the cell value before the edit, it is only used the first time
// key is edited. newText is decoded with Decode. It returns the pending edit
// and true, or false if the cell is back to its original value and no longer
// pending.
func (b *EditBuffer) RecordEdit(key EditKey, original Value, newText string) (Edit, bool) {
	if b.closed {
		b.logger.Warn("edit on a closed buffer ignored", zap.Stringer("key", key))
		return Edit{}, false
	}
	existing, exists := b.edits[key]
	if exists {
		original = existing.OriginalValue
	}

	v, t := Decode(newText)
	if v.Equal(original) && t.IsZero() {
		if exists {
			delete(b.edits, key)
			b.changed(Event{Kind: EditDropped, Key: key})
		}
		return Edit{}, false
	}

	e := Edit{
		Account:       key.Account,
		Currency:      key.Currency,
		Date:          key.Date,
		OriginalValue: original,
		NewValue:      v,
		BalanceType:   t,
	}
	b.edits[key] = e
	b.changed(Event{Kind: EditRecorded, Key: key})
	return e, true
}

// Revert removes the pending edit of key, if any.
func (b *EditBuffer) Revert(key EditKey) {
	if b.closed {
		return
	}
	if _, exists := b.edits[key]; !exists {
		return
	}
	delete(b.edits, key)
	b.changed(Event{Kind: EditReverted, Key: key})
}

// RevertAll reverts every pending edit, one cell at a time.
func (b *EditBuffer) RevertAll() {
	for _, e := range b.All() {
		b.Revert(e.Key())
	}
}

// Clear drops every pending edit at once. It is meant for after a confirmed
// save, when the edits are part of the ledger: use RevertAll to discard them.
func (b *EditBuffer) Clear() {
	if b.closed {
		return
	}
	clear(b.edits)
	b.changed(Event{Kind: EditsCleared})
}

// Has reports whether key has a pending edit.
func (b *EditBuffer) Has(key EditKey) bool {
	_, exists := b.edits[key]
	return exists
}

// Get returns the pending edit of key.
func (b *EditBuffer) Get(key EditKey) (Edit, bool) {
	e, exists := b.edits[key]
	return e, exists
}

// All returns a snapshot of the pending edits sorted by date, account and currency.
func (b *EditBuffer) All() []Edit {
	keys := slices.SortedFunc(maps.Keys(b.edits), compareKeys)
	list := make([]Edit, 0, len(keys))
	for _, k := range keys {
		list = append(list, b.edits[k])
	}
	return list
}

// Len returns the number of pending edits.
func (b *EditBuffer) Len() int { return len(b.edits) }

// IsEmpty reports whether there is nothing to save.
func (b *EditBuffer) IsEmpty() bool { return len(b.edits) == 0 }

func (b *EditBuffer) changed(ev Event) {
	b.persist()
	b.logger.Debug("edit buffer changed",
		zap.Stringer("event", ev.Kind),
		zap.Stringer("key", ev.Key),
		zap.Int("edits", len(b.edits)),
	)
	// listeners may unsubscribe while being notified.
	for _, l := range slices.Clone(b.listeners) {
		l.fn(ev)
	}
}

func (b *EditBuffer) persist() {
	storeJSON(b.storage, editsStorageKey, b.All(), b.logger)
}
