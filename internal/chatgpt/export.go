// Package chatgpt parses the ChatGPT history export format: a JSON document
// whose top-level "conversations" array holds one entry per transcript.
package chatgpt

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrBadExport = errors.New("invalid chat export")

type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ExportConversation is one transcript entry. Mapping is keyed by message
// id; times are epoch seconds.
type ExportConversation struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	CreateTime float64            `json:"create_time"`
	UpdateTime float64            `json:"update_time"`
	Mapping    map[string]Message `json:"mapping"`
}

type Export struct {
	Conversations []ExportConversation `json:"conversations"`
}

// ParseExport validates the document shape before anything is persisted: a
// file without a conversations array is rejected outright.
func ParseExport(data []byte) (Export, error) {
	// Probe the field first so a present-but-wrong-type value fails as a
	// bad export instead of a generic unmarshal error.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Export{}, fmt.Errorf("%w: %v", ErrBadExport, err)
	}
	raw, ok := probe["conversations"]
	if !ok {
		return Export{}, fmt.Errorf("%w: missing conversations array", ErrBadExport)
	}

	var convs []ExportConversation
	if err := json.Unmarshal(raw, &convs); err != nil {
		return Export{}, fmt.Errorf("%w: conversations is not an array of entries", ErrBadExport)
	}
	return Export{Conversations: convs}, nil
}
