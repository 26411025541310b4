// Package framesync reconstructs delimited frames from a chunked byte stream.
//
// A Synchronizer receives chunks of arbitrary size through OnChunk, keeps the
// unconsumed tail of the stream in a chunkbuf.Buffer and looks for a start
// sequence followed by a tail sequence. Each complete frame, delimiters
// included, is handed to a decoder and its outcome to a result sink.
//
// # State Machine
//
//   - NoFrame: search the start sequence from offset 0. When it is absent
//     and more than one chunk is buffered, chunks that can no longer hold
//     the beginning of a start sequence are evicted.
//   - FrameStarted: search the tail sequence after the recorded start. A
//     second start sequence seen in this state is ignored: the first start
//     wins until a tail is found.
//
// On a tail match the frame is copied out, the buffer is dropped through the
// end of the frame and the machine returns to NoFrame.
//
// In pre-synced mode every chunk is taken to be exactly one frame and the
// state machine is bypassed.
//
// A Synchronizer performs no I/O of its own and is not safe for concurrent
// use; one session drives one Synchronizer.
package framesync
