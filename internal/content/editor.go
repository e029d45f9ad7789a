package content

import "fmt"

// MoveDirection tells the editor which neighbour a block swaps with.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

var ErrIndexOutOfRange = fmt.Errorf("block index out of range")

// Editor is an in-memory, ordered edit session over one document. All
// mutations stay local until the caller persists the assembled document;
// there is no autosave and no partial-document state on the server.
type Editor struct {
	doc  Document
	open int // index of the block currently open for editing, -1 for none
}

func NewEditor(doc Document) *Editor {
	return &Editor{
		doc:  doc,
		open: -1,
	}
}

// Add appends a fresh block initialized from the registry default for the
// given type and marks it as the open editing target. Unknown types are a
// silent no-op.
func (e *Editor) Add(t Type) bool {
	tpl, ok := Get(t)
	if !ok {
		return false
	}

	e.doc.Blocks = append(e.doc.Blocks, tpl.New())
	e.open = len(e.doc.Blocks) - 1
	return true
}

// Update replaces the whole block value at the given index. The per-type
// edit form is responsible for producing a value valid for its variant;
// the editor only checks bounds.
func (e *Editor) Update(index int, block Block) error {
	if index < 0 || index >= len(e.doc.Blocks) {
		return ErrIndexOutOfRange
	}
	e.doc.Blocks[index] = block
	return nil
}

// Delete removes the block at the given index, preserving the relative
// order of the remaining blocks. Deleting the open editing target closes
// editing.
func (e *Editor) Delete(index int) error {
	if index < 0 || index >= len(e.doc.Blocks) {
		return ErrIndexOutOfRange
	}

	e.doc.Blocks = append(e.doc.Blocks[:index], e.doc.Blocks[index+1:]...)

	switch {
	case e.open == index:
		e.open = -1
	case e.open > index:
		e.open--
	}
	return nil
}

// Move swaps the block at the given index with its neighbour. Moving the
// first block up or the last block down is a no-op.
func (e *Editor) Move(index int, direction MoveDirection) {
	if index < 0 || index >= len(e.doc.Blocks) {
		return
	}

	target := index
	switch direction {
	case MoveUp:
		target = index - 1
	case MoveDown:
		target = index + 1
	default:
		return
	}

	if target < 0 || target >= len(e.doc.Blocks) {
		return
	}

	e.doc.Blocks[index], e.doc.Blocks[target] = e.doc.Blocks[target], e.doc.Blocks[index]

	switch e.open {
	case index:
		e.open = target
	case target:
		e.open = index
	}
}

// OpenIndex returns the index of the block currently open for editing,
// or -1 when none is open.
func (e *Editor) OpenIndex() int {
	return e.open
}

// Document returns the assembled document.
func (e *Editor) Document() Document {
	return e.doc
}
