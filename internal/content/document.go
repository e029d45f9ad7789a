package content

import (
	"encoding/json"
	"fmt"
)

// Document is the ordered sequence of blocks making up a post's body.
// The order is display order and is preserved through every operation.
type Document struct {
	Blocks []Block `json:"blocks"`
}

func NewDocument(blocks ...Block) Document {
	return Document{Blocks: blocks}
}

func (d Document) Len() int {
	return len(d.Blocks)
}

func (d Document) MarshalJSON() ([]byte, error) {
	rawBlocks := make([]json.RawMessage, 0, len(d.Blocks))
	for i, block := range d.Blocks {
		raw, err := marshalBlock(block)
		if err != nil {
			return nil, fmt.Errorf("marshal block %d [%s]: %w", i, block.BlockType(), err)
		}
		rawBlocks = append(rawBlocks, raw)
	}
	return json.Marshal(struct {
		Blocks []json.RawMessage `json:"blocks"`
	}{Blocks: rawBlocks})
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Blocks []json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}

	blocks := make([]Block, 0, len(envelope.Blocks))
	for i, raw := range envelope.Blocks {
		block, err := unmarshalBlock(raw)
		if err != nil {
			return fmt.Errorf("unmarshal block %d: %w", i, err)
		}
		blocks = append(blocks, block)
	}

	d.Blocks = blocks
	return nil
}

func marshalBlock(block Block) (json.RawMessage, error) {
	if unknown, ok := block.(*Unknown); ok {
		// round-trip unrecognized blocks untouched
		return unknown.Raw, nil
	}

	payload, err := json.Marshal(block)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, err
	}
	fields["type"] = json.RawMessage(fmt.Sprintf("%q", block.BlockType()))

	return json.Marshal(fields)
}

// unmarshalBlock decodes one tagged block. A tag with no registry entry
// yields an Unknown block rather than an error, so a single bad block
// cannot make a whole stored document unreadable.
func unmarshalBlock(raw json.RawMessage) (Block, error) {
	var probe struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("read block type tag: %w", err)
	}

	tpl, ok := Get(probe.Type)
	if !ok {
		return &Unknown{Tag: probe.Type, Raw: raw}, nil
	}

	block, err := tpl.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode block [%s]: %w", probe.Type, err)
	}
	return block, nil
}
