package cltu

import (
	"bytes"

	"github.com/bft-labs/cltuecho/internal/domain"
)

// FillByte pads the last codeblock up to CodeblockInfoLen bytes.
const FillByte = 0x55

// bchGenerator holds the low seven coefficients of x^7+x^6+x^2+1, aligned
// with the shift register.
const bchGenerator = 0x45

// Decoder checks delimited frames against the CLTU layout.
type Decoder struct {
	start []byte
	tail  []byte
}

// NewDecoder returns a Decoder expecting frames delimited by start and tail.
func NewDecoder(start, tail []byte) *Decoder {
	return &Decoder{
		start: append([]byte(nil), start...),
		tail:  append([]byte(nil), tail...),
	}
}

// Decode splits frame into codeblocks and verifies every parity byte.
// Failures are returned as *domain.DecodeFault.
func (d *Decoder) Decode(frame []byte) (*domain.CLTU, error) {
	if len(frame) < len(d.start)+len(d.tail) {
		return nil, domain.NewDecodeFault(domain.FaultCodec,
			"frame of %d bytes is shorter than its delimiters", len(frame))
	}
	if !bytes.HasPrefix(frame, d.start) {
		return nil, domain.NewDecodeFault(domain.FaultCodec, "frame does not begin with %X", d.start)
	}
	if !bytes.HasSuffix(frame, d.tail) {
		return nil, domain.NewDecodeFault(domain.FaultCodec, "frame does not end with %X", d.tail)
	}

	body := frame[len(d.start) : len(frame)-len(d.tail)]
	if len(body) == 0 {
		return nil, domain.NewDecodeFault(domain.FaultBlockStructure, "no codeblocks")
	}
	if len(body)%domain.CodeblockLen != 0 {
		return nil, domain.NewDecodeFault(domain.FaultBlockStructure,
			"body of %d bytes is not a multiple of %d", len(body), domain.CodeblockLen)
	}

	out := &domain.CLTU{
		Start:      append([]byte(nil), d.start...),
		Codeblocks: make([]domain.Codeblock, 0, len(body)/domain.CodeblockLen),
		Tail:       append([]byte(nil), d.tail...),
	}
	for i := 0; i < len(body); i += domain.CodeblockLen {
		var cb domain.Codeblock
		copy(cb.Info[:], body[i:i+domain.CodeblockInfoLen])
		cb.Parity = body[i+domain.CodeblockInfoLen]

		if want := Parity(cb.Info[:]); cb.Parity != want {
			return nil, domain.NewDecodeFault(domain.FaultUnblock,
				"codeblock %d: parity %02X, want %02X", len(out.Codeblocks), cb.Parity, want)
		}
		out.Codeblocks = append(out.Codeblocks, cb)
	}
	return out, nil
}

// Parity computes the BCH parity byte for the information bytes of one
// codeblock.
func Parity(info []byte) byte {
	var sreg byte
	for _, b := range info {
		for bit := 7; bit >= 0; bit-- {
			feedback := (sreg>>6)&1 ^ (b>>bit)&1
			sreg = (sreg << 1) & 0x7F
			if feedback == 1 {
				sreg ^= bchGenerator
			}
		}
	}
	return (^sreg & 0x7F) << 1
}

// Encode builds a CLTU carrying data. The data is padded with FillByte to a
// whole number of codeblocks; empty data yields a single fill codeblock.
func Encode(start, tail, data []byte) []byte {
	blocks := (len(data) + domain.CodeblockInfoLen - 1) / domain.CodeblockInfoLen
	if blocks == 0 {
		blocks = 1
	}

	out := make([]byte, 0, len(start)+blocks*domain.CodeblockLen+len(tail))
	out = append(out, start...)
	for i := 0; i < blocks; i++ {
		info := bytes.Repeat([]byte{FillByte}, domain.CodeblockInfoLen)
		if i*domain.CodeblockInfoLen < len(data) {
			copy(info, data[i*domain.CodeblockInfoLen:])
		}
		out = append(out, info...)
		out = append(out, Parity(info))
	}
	return append(out, tail...)
}
