package ipc

import "strings"

// Message is the single wire unit: an absolute image path plus an
// optional channel selector. Encoded as "<path>:<selector>"; the
// selector may be empty, meaning no filter.
type Message struct {
	Path     string
	Selector string
}

// Encode renders the wire form. Path must already be absolute so the
// primary, whose working directory differs, resolves it correctly.
func (m Message) Encode() string {
	return m.Path + ":" + m.Selector
}

// ParseMessage splits a wire string at its last colon. Paths may
// themselves contain colons (drive letters, odd filenames), so the
// selector is everything after the final one.
func ParseMessage(raw string) Message {
	idx := strings.LastIndexByte(raw, ':')
	if idx < 0 {
		return Message{Path: raw}
	}
	return Message{Path: raw[:idx], Selector: raw[idx+1:]}
}
