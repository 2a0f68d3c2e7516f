package model

import (
	"math/bits"
	"strings"
)

// MaxBlocks is the number of available block labels (A to I)
const MaxBlocks = 9

const blockLetters = "ABCDEFGHI"

// Block is a schedulable time slot, 0 stands for block A
type Block uint8

func (block Block) String() string {
	if int(block) >= len(blockLetters) {
		return "?"
	}
	return string(blockLetters[block])
}

// ParseBlock returns the block represented by the given label
func ParseBlock(label string) (Block, bool) {
	if len(label) != 1 {
		return 0, false
	}
	index := strings.IndexByte(blockLetters, label[0])
	if index < 0 {
		return 0, false
	}
	return Block(index), true
}

func newBlocks(amount int) []Block {
	blocks := make([]Block, amount)
	for i := range amount {
		blocks[i] = Block(i)
	}
	return blocks
}

// BlockSet is a canonical (order independent) set of blocks stored as a bitmask
type BlockSet uint16

func NewBlockSet(blocks ...Block) BlockSet {
	var set BlockSet
	for _, block := range blocks {
		set |= 1 << block
	}
	return set
}

func (set BlockSet) Contains(block Block) bool {
	return set&(1<<block) != 0
}

func (set BlockSet) Len() int {
	return bits.OnesCount16(uint16(set))
}

func (set BlockSet) Union(other BlockSet) BlockSet {
	return set | other
}

func (set BlockSet) Overlaps(other BlockSet) bool {
	return set&other != 0
}

// Blocks returns the blocks of the set in ascending order
func (set BlockSet) Blocks() []Block {
	blocks := make([]Block, 0, set.Len())
	for block := Block(0); block < MaxBlocks; block++ {
		if set.Contains(block) {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func (set BlockSet) String() string {
	var builder strings.Builder
	for _, block := range set.Blocks() {
		builder.WriteString(block.String())
	}
	return builder.String()
}

// combinations returns every size-k subset of blocks in lexicographic order of positions
func combinations(blocks []Block, k int) []BlockSet {
	sets := make([]BlockSet, 0)
	if k < 0 || k > len(blocks) {
		return sets
	}

	var walk func(start int, chosen BlockSet, remaining int)
	walk = func(start int, chosen BlockSet, remaining int) {
		if remaining == 0 {
			sets = append(sets, chosen)
			return
		}
		for i := start; i <= len(blocks)-remaining; i++ {
			walk(i+1, chosen|NewBlockSet(blocks[i]), remaining-1)
		}
	}
	walk(0, 0, k)

	return sets
}

// rotate moves the first offset candidates (modulo the list length) to the end of the list
func rotate(candidates []BlockSet, offset int) []BlockSet {
	rotated := make([]BlockSet, 0, len(candidates))
	if len(candidates) == 0 {
		return rotated
	}
	offset = ((offset % len(candidates)) + len(candidates)) % len(candidates)
	rotated = append(rotated, candidates[offset:]...)
	return append(rotated, candidates[:offset]...)
}

// Choices is the ordered set of block-sets a subject may still be assigned
type Choices struct {
	order []BlockSet
	alive map[BlockSet]bool
	size  int
}

func newChoices(candidates []BlockSet) *Choices {
	choices := &Choices{
		order: make([]BlockSet, 0, len(candidates)),
		alive: make(map[BlockSet]bool, len(candidates)),
	}
	for _, candidate := range candidates {
		if choices.alive[candidate] {
			continue
		}
		choices.order = append(choices.order, candidate)
		choices.alive[candidate] = true
		choices.size++
	}
	return choices
}

func (choices *Choices) Contains(set BlockSet) bool {
	return choices.alive[set]
}

// Remove drops the block-set from the choices and reports whether it was present
func (choices *Choices) Remove(set BlockSet) bool {
	if !choices.alive[set] {
		return false
	}
	choices.alive[set] = false
	choices.size--
	return true
}

func (choices *Choices) Len() int {
	return choices.size
}

// Values returns the remaining block-sets in their original order
func (choices *Choices) Values() []BlockSet {
	values := make([]BlockSet, 0, choices.size)
	for _, set := range choices.order {
		if choices.alive[set] {
			values = append(values, set)
		}
	}
	return values
}

func (choices *Choices) Clone() *Choices {
	return newChoices(choices.Values())
}
