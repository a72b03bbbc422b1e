package builder

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// AddCooldown is the window after a successful Add during which further
// adds are dropped. This is an anti-double-submit guard, not a mutual
// exclusion mechanism: calls inside the window are rejected, not queued.
const AddCooldown = 500 * time.Millisecond

// Selection holds the single "active block" notion shared between a
// page's top-level list and its business-info section. At most one id
// is selected at a time; ids are globally unique by construction, so a
// selection can never alias across the two lists.
type Selection struct {
	id string
}

// ID returns the selected block id, or "" when nothing is selected.
func (s *Selection) ID() string { return s.id }

// Set selects the given block id. Empty clears the selection.
func (s *Selection) Set(id string) { s.id = id }

// clearIf drops the selection when it points at the given id.
func (s *Selection) clearIf(id string) {
	if s.id == id {
		s.id = ""
	}
}

// Composition is the in-memory working copy of one ordered block list.
// All mutations are synchronous; after each one, every block's Order
// equals its array index (no gaps, no duplicates).
//
// Two compositions back a page: the top-level list and the nested
// business-info list. Both may share one Selection.
type Composition struct {
	blocks    []Block
	selection *Selection
	lastAdd   time.Time

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewComposition wraps an existing block slice as a working copy. The
// slice is sorted by stored order (id as tiebreak, so corrupt loads
// with duplicate orders stay deterministic) and reindexed. A nil
// selection gets a private one.
func NewComposition(blocks []Block, sel *Selection) *Composition {
	if sel == nil {
		sel = &Selection{}
	}
	c := &Composition{
		blocks:    append([]Block(nil), blocks...),
		selection: sel,
		now:       time.Now,
	}
	sort.SliceStable(c.blocks, func(i, j int) bool {
		if c.blocks[i].Order != c.blocks[j].Order {
			return c.blocks[i].Order < c.blocks[j].Order
		}
		return c.blocks[i].ID < c.blocks[j].ID
	})
	c.reindex()
	return c
}

// Selection returns the selection context this composition mutates.
func (c *Composition) Selection() *Selection { return c.selection }

// Blocks returns the blocks in display order. The returned slice is a
// copy; mutating it does not affect the composition.
func (c *Composition) Blocks() []Block {
	return append([]Block(nil), c.blocks...)
}

// Len returns the number of blocks.
func (c *Composition) Len() int { return len(c.blocks) }

// Get returns the block with the given id.
func (c *Composition) Get(id string) (Block, bool) {
	for _, b := range c.blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// Add appends a new block of the given type and selects it. Returns
// false without mutating when called inside the add cooldown window.
func (c *Composition) Add(t BlockType) (Block, bool) {
	return c.append(NewBlock(t))
}

// AddWidget appends a new widget block of the given kind and selects it.
func (c *Composition) AddWidget(kind WidgetKind) (Block, bool) {
	return c.append(NewWidgetBlock(kind))
}

// AddBusiness appends a block seeded with business-info defaults.
func (c *Composition) AddBusiness(t BlockType) (Block, bool) {
	return c.append(NewBusinessBlock(t))
}

func (c *Composition) append(b Block) (Block, bool) {
	now := c.now()
	if !c.lastAdd.IsZero() && now.Sub(c.lastAdd) < AddCooldown {
		return Block{}, false
	}
	c.lastAdd = now

	b.Order = len(c.blocks)
	c.blocks = append(c.blocks, b)
	c.selection.Set(b.ID)
	return b, true
}

// UpdateContent shallow-merges the supplied partial record into the
// block's content: only keys named in the patch change, sibling fields
// are untouched, and id/type/order never move. For image blocks a
// "src" key accompanied by "naturalWidth"/"naturalHeight" triggers the
// display-dimension recompute; the natural-dimension keys themselves
// are consumed, not stored.
func (c *Composition) UpdateContent(id string, patch map[string]interface{}) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("block %s: not found", id)
	}
	if len(patch) == 0 {
		return nil
	}

	b := &c.blocks[i]

	if b.Type == BlockTypeImage {
		if src, ok := patch["src"].(string); ok {
			nw := intField(patch, "naturalWidth")
			nh := intField(patch, "naturalHeight")
			if nw > 0 && nh > 0 {
				img, _ := b.Content.(ImageContent)
				img.SetSource(src, nw, nh)
				b.Content = img
				patch = clone(patch)
				delete(patch, "src")
				delete(patch, "naturalWidth")
				delete(patch, "naturalHeight")
				delete(patch, "width")
				delete(patch, "height")
				if len(patch) == 0 {
					return nil
				}
			}
		}
	}

	merged, err := mergeContent(b.Type, b.Content, patch)
	if err != nil {
		return fmt.Errorf("block %s: %w", id, err)
	}
	b.Content = merged
	return nil
}

// UpdateStyle shallow-merges the supplied partial into the block's
// style overrides.
func (c *Composition) UpdateStyle(id string, patch map[string]interface{}) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("block %s: not found", id)
	}
	if len(patch) == 0 {
		return nil
	}

	b := &c.blocks[i]
	current := map[string]interface{}{}
	if b.Style != nil {
		if err := remarshal(b.Style, &current); err != nil {
			return fmt.Errorf("block %s: %w", id, err)
		}
	}
	for k, v := range patch {
		current[k] = v
	}

	var style Style
	if err := remarshal(current, &style); err != nil {
		return fmt.Errorf("block %s: %w", id, err)
	}
	b.Style = &style
	return nil
}

// Remove deletes the block with the given id, reindexes the survivors,
// and clears the selection if it pointed at the victim. Removing an
// absent id is a no-op.
func (c *Composition) Remove(id string) {
	i := c.index(id)
	if i < 0 {
		return
	}
	c.blocks = append(c.blocks[:i], c.blocks[i+1:]...)
	c.reindex()
	c.selection.clearIf(id)
}

// Move removes the element at from and reinserts it at to, then
// reindexes every element. Out-of-range indices are rejected.
func (c *Composition) Move(from, to int) error {
	n := len(c.blocks)
	if from < 0 || from >= n {
		return fmt.Errorf("move: index %d out of range [0,%d)", from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("move: index %d out of range [0,%d)", to, n)
	}
	if from == to {
		return nil
	}

	b := c.blocks[from]
	rest := append(c.blocks[:from:from], c.blocks[from+1:]...)
	c.blocks = append(rest[:to:to], append([]Block{b}, rest[to:]...)...)
	c.reindex()
	return nil
}

// MoveUp swaps the block at index with its predecessor; a no-op at the
// top boundary.
func (c *Composition) MoveUp(index int) {
	if index <= 0 || index >= len(c.blocks) {
		return
	}
	_ = c.Move(index, index-1)
}

// MoveDown swaps the block at index with its successor; a no-op at the
// bottom boundary.
func (c *Composition) MoveDown(index int) {
	if index < 0 || index >= len(c.blocks)-1 {
		return
	}
	_ = c.Move(index, index+1)
}

// reindex restores the order-equals-index invariant.
func (c *Composition) reindex() {
	for i := range c.blocks {
		c.blocks[i].Order = i
	}
}

func (c *Composition) index(id string) int {
	for i := range c.blocks {
		if c.blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// mergeContent applies a shallow JSON merge of patch over content and
// re-materializes the typed record for the block type.
func mergeContent(t BlockType, content Content, patch map[string]interface{}) (Content, error) {
	current := map[string]interface{}{}
	if content != nil {
		if err := remarshal(content, &current); err != nil {
			return nil, err
		}
	}
	for k, v := range patch {
		current[k] = v
	}

	data, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	return unmarshalContent(t, data)
}

// remarshal converts between representations through JSON.
func remarshal(from, to interface{}) error {
	data, err := json.Marshal(from)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, to)
}

func intField(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func clone(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
