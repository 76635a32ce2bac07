// Package broadcast delivers watch batches to consumers outside the process.
//
// Every channel carries the same payload:
//
//	{"session": "<id>", "changes": [{"type": "created", "path": "a.txt"}, ...]}
package broadcast

import (
	"encoding/json"
	"fmt"

	"github.com/Aman-CERP/filetree/internal/watcher"
)

// Message is the wire form of one batch.
type Message struct {
	Session string        `json:"session"`
	Changes watcher.Batch `json:"changes"`
}

// Encode renders a batch as a Message. An empty batch encodes as an empty
// changes array, never null.
func Encode(sessionID string, b watcher.Batch) ([]byte, error) {
	if b == nil {
		b = watcher.Batch{}
	}
	data, err := json.Marshal(Message{Session: sessionID, Changes: b})
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", err)
	}
	return data, nil
}
