package chatgpt

import (
	"errors"
	"testing"
)

func TestParseExport(t *testing.T) {
	data := []byte(`{
		"conversations": [
			{
				"id": "conv-1",
				"title": "Trip planning",
				"create_time": 1714000000,
				"update_time": 1714003600,
				"mapping": {
					"m1": {"id": "m1", "role": "user", "content": "Where should we go?"},
					"m2": {"id": "m2", "role": "assistant", "content": "Consider Lisbon."}
				}
			},
			{"id": "conv-2", "title": "", "create_time": 0, "update_time": 0, "mapping": {}}
		]
	}`)

	export, err := ParseExport(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(export.Conversations) != 2 {
		t.Fatalf("got %d conversations", len(export.Conversations))
	}

	c := export.Conversations[0]
	if c.ID != "conv-1" || c.Title != "Trip planning" {
		t.Fatalf("entry: %+v", c)
	}
	if len(c.Mapping) != 2 || c.Mapping["m2"].Role != "assistant" {
		t.Fatalf("mapping: %+v", c.Mapping)
	}
}

func TestParseExportRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `not json at all`},
		{"missing array", `{"title": "export without conversations"}`},
		{"wrong type", `{"conversations": {"id": "x"}}`},
		{"top-level array", `[{"id": "x"}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseExport([]byte(tc.data))
			if !errors.Is(err, ErrBadExport) {
				t.Fatalf("got %v, want ErrBadExport", err)
			}
		})
	}
}
