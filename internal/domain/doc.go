// Package domain contains the core entities and value objects of the echo
// listener.
//
// This package has no dependencies on infrastructure concerns (sockets,
// files, logging) and contains only plain data and error definitions shared
// by the synchronizer, the decoder and the adapters.
//
// # Entities
//
//   - [CLTU]: a decoded Communications Link Transmission Unit
//   - [DecodeFault]: why a delimited frame could not be decoded
//   - [Stats]: counters maintained by the frame synchronizer
//   - [Status]: persisted snapshot of a running echo session
package domain
