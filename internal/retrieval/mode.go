package retrieval

import "fmt"

// Mode selects which rule table and system prompt govern a conversation.
// Each request pins one mode for its whole lifecycle.
type Mode string

const (
	// ModePolicy answers questions about Cortivus policies and procedures.
	ModePolicy Mode = "policy"
	// ModeSermon assists with sermon and Bible study preparation.
	ModeSermon Mode = "sermon"

	// ModeBar and ModeCompany are demo-routing modes: they return a fixed
	// reply and never reach retrieval or generation.
	ModeBar     Mode = "bar"
	ModeCompany Mode = "company"
)

// ParseMode validates a caller-supplied mode string. Unknown modes are
// rejected rather than silently defaulted, since the mode selects both the
// rule table and the system prompt.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePolicy, ModeSermon, ModeBar, ModeCompany:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode: %q", s)
}

// IsRetrieval reports whether the mode carries a rule table, i.e. whether
// requests in this mode go through document retrieval and generation.
func (m Mode) IsRetrieval() bool {
	return m == ModePolicy || m == ModeSermon
}

// staticReplies holds the canned text for the demo-routing modes.
var staticReplies = map[Mode]string{
	ModeBar: "Welcome to the Cortivus demo bar! I can walk you through a sample " +
		"conversation, but this mode runs entirely on canned responses - no documents " +
		"are retrieved and no generation call is made.",
	ModeCompany: "Cortivus builds AI-powered assistants for organizations. This demo " +
		"mode returns fixed text only; switch to policy or sermon mode to see " +
		"retrieval-augmented answers.",
}

// StaticReply returns the canned response for demo modes. The second return
// is false for retrieval modes.
func (m Mode) StaticReply() (string, bool) {
	reply, ok := staticReplies[m]
	return reply, ok
}
