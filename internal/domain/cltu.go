package domain

import (
	"fmt"
	"strings"
)

// CodeblockInfoLen is the number of information bytes in one codeblock.
const CodeblockInfoLen = 7

// CodeblockLen is the encoded size of one codeblock (information + parity).
const CodeblockLen = CodeblockInfoLen + 1

// Codeblock is one BCH codeblock of a CLTU.
type Codeblock struct {
	Info   [CodeblockInfoLen]byte
	Parity byte
}

// CLTU is a decoded Communications Link Transmission Unit.
type CLTU struct {
	Start      []byte
	Codeblocks []Codeblock
	Tail       []byte
}

// Data returns the concatenated information bytes of all codeblocks,
// including any fill bytes.
func (c *CLTU) Data() []byte {
	out := make([]byte, 0, len(c.Codeblocks)*CodeblockInfoLen)
	for _, cb := range c.Codeblocks {
		out = append(out, cb.Info[:]...)
	}
	return out
}

// Len returns the encoded length of the CLTU in bytes.
func (c *CLTU) Len() int {
	return len(c.Start) + len(c.Codeblocks)*CodeblockLen + len(c.Tail)
}

// String renders the CLTU as the multi-line block written to the echo log.
func (c *CLTU) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "  start: %X\n", c.Start)
	for i, cb := range c.Codeblocks {
		fmt.Fprintf(&b, "  codeblock %d: % X | parity %02X\n", i, cb.Info[:], cb.Parity)
	}
	fmt.Fprintf(&b, "  tail: %X", c.Tail)
	return b.String()
}
