package translator

import "github.com/kestrel68/m68kjit/internal/guest"

// Handler translates one guest instruction word (and whatever extension
// words it consumes directly from e's fetch cursor) into host code.
type Handler func(e *Engine, word uint16)

// Entry is one row of the opcode dispatch table: word&Mask==Value selects
// it, and the remaining fields describe the instruction (flag
// dependencies, operand size, base instruction length, and whether an
// effective-address field follows the opcode bits). Compile itself calls
// only Handler.
type Entry struct {
	Name        string
	Mask        uint16
	Value       uint16
	Handler     Handler
	NeedsFlags  guest.Flag
	SetsFlags   guest.Flag
	OpSize      uint8
	BaseLength  uint8
	HasEA       bool
}

// table is scanned in registration order; Lookup returns the first
// matching entry, falling back to illegalEntry when nothing matches.
var table []Entry

func register(e Entry) { table = append(table, e) }

// Lookup finds the dispatch entry for a guest instruction word, matching
// CodeGenerator's static opcode-table scan: the table is small and no two
// rows match the same word, so a linear first-match scan is both correct
// and fast enough for one block's worth of words.
func Lookup(word uint16) Entry {
	for _, e := range table {
		if word&e.Mask == e.Value {
			return e
		}
	}
	return illegalEntry
}

func init() {
	registerOpcodes()
}
