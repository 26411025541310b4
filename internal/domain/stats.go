package domain

import "time"

// Stats holds the counters maintained by a frame synchronizer.
type Stats struct {
	// Frames is the number of frames emitted, decoded or not.
	Frames uint64 `json:"frames"`

	// Received is the number of frames that decoded successfully.
	Received uint64 `json:"received"`

	// Faults is the number of frames that failed to decode.
	Faults uint64 `json:"faults"`

	// Overflows is the number of times buffered data was abandoned
	// because it exceeded the configured cap.
	Overflows uint64 `json:"overflows"`

	// BytesIn is the total number of bytes handed to the synchronizer.
	BytesIn uint64 `json:"bytes_in"`

	// Buffered is the number of bytes currently held for synchronization.
	Buffered int `json:"buffered"`
}

// Status is a point-in-time snapshot of an echo session.
// It is persisted to disk so operators and monitors can follow progress.
type Status struct {
	// SessionID identifies the session that produced the snapshot
	SessionID string `json:"session_id"`

	// Source describes the byte source (e.g. "file:/data/echo.bin")
	Source string `json:"source"`

	// State is the session connection state
	State string `json:"state"`

	// Stats are the synchronizer counters
	Stats Stats `json:"stats"`

	// Connects counts successful connections made by the session
	Connects uint64 `json:"connects"`

	// StartedAt is when the session began running
	StartedAt time.Time `json:"started_at"`

	// LastFrameAt is when the most recent frame was emitted
	LastFrameAt time.Time `json:"last_frame_at"`

	// UpdatedAt is when the snapshot was taken
	UpdatedAt time.Time `json:"updated_at"`
}

// IsEmpty returns true if the status has never been populated.
func (s Status) IsEmpty() bool {
	return s.SessionID == ""
}
