package types

import "go/token"

// Match is a node found by a named query.
type Match struct {
	Query    string `json:"query"`
	Pattern  string `json:"pattern"`
	Filename string `json:"filename"`
	// Kind is the cursor kind of the matched node, e.g. "CXX_METHOD".
	Kind     string         `json:"kind"`
	Spelling string         `json:"spelling"`
	Type     string         `json:"type,omitempty"`
	Start    token.Position `json:"start"`
	End      token.Position `json:"end"`
}
