// Package cltu decodes and encodes CCSDS Communications Link Transmission
// Units.
//
// A CLTU is a start sequence, one or more 8-byte BCH codeblocks and a tail
// sequence. Each codeblock carries 7 information bytes followed by a parity
// byte: the complemented 7-bit remainder of the BCH(63,56) code with
// generator x^7+x^6+x^2+1, shifted left by one over a zero filler bit.
//
// # Usage
//
//	dec := cltu.NewDecoder(start, tail)
//	c, err := dec.Decode(frame)
//	if err != nil {
//	    var fault *domain.DecodeFault
//	    if errors.As(err, &fault) { ... }
//	}
//
// Encode builds a valid CLTU around arbitrary data, which is handy for
// producing test streams.
package cltu
