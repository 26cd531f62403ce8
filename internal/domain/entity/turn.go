package entity

// Turn is one (role, text) unit of conversation history. Role is RoleUser or
// RoleAssistant.
type Turn struct {
	Role MessageRole
	Text string
}

// HistoryEntry is a single element of chat history as the calling UI sent it.
// It is one of PairEntry, RecordEntry or UnknownEntry.
type HistoryEntry interface {
	historyEntry()
}

// PairEntry is a (user, assistant) exchange. Nil means the value was absent.
type PairEntry struct {
	User      *string
	Assistant *string
}

// RecordEntry is a role-tagged message. Nil means the field was absent.
type RecordEntry struct {
	Role    *string
	Content *string
}

// UnknownEntry holds anything that is neither a pair nor a record.
type UnknownEntry struct {
	Raw string
}

func (PairEntry) historyEntry()    {}
func (RecordEntry) historyEntry()  {}
func (UnknownEntry) historyEntry() {}

func Pair(user, assistant string) PairEntry {
	return PairEntry{User: &user, Assistant: &assistant}
}

func Record(role, content string) RecordEntry {
	return RecordEntry{Role: &role, Content: &content}
}
