// Package ports defines the interfaces that connect the echo pipeline to
// infrastructure adapters.
//
// # Port Interfaces
//
//   - [ByteSource]: delivers raw echo bytes from a file or socket
//   - [FrameDecoder]: turns a delimited frame into a CLTU
//   - [ResultSink]: records the outcome of each frame
//   - [StatusRepository]: persists session status snapshots
//
// # Usage
//
// The synchronizer and the session depend only on these interfaces.
// Adapters under internal/adapters provide the concrete implementations
// (file, TCP client, TCP server, log file, JSON status file).
package ports
