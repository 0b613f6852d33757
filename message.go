package sitesmith

// Message is one role-tagged entry in a generation job's transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// WireMessage is a message as tagged by the server. Interrupt payloads
// carry the full transcript in this form; Normalize folds the external
// tagging into the internal role schema.
type WireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Normalize converts a WireMessage to a Message with a normalized role.
func (w WireMessage) Normalize() Message {
	return Message{Role: NormalizeRole(w.Role), Content: w.Content}
}

// Thread is the conversational context of one logical generation job: the
// server-issued continuation token plus the ordered transcript. The zero
// value is a fresh thread. Within one job the transcript only grows;
// starting a new (non-follow-up) job resets both fields.
type Thread struct {
	ID       string
	Messages []Message
}

// AppendUser appends a user message to the transcript.
func (t *Thread) AppendUser(content string) {
	t.Messages = append(t.Messages, Message{Role: RoleUser, Content: content})
}

// Sync applies an interrupt payload: the server's thread ID replaces the
// local one when present, and a non-empty wire transcript replaces the
// local transcript after role normalization. The server's transcript is
// authoritative because it includes the assistant turns the client never
// authored.
func (t *Thread) Sync(threadID string, messages []WireMessage) {
	if threadID != "" {
		t.ID = threadID
	}
	if len(messages) == 0 {
		return
	}
	normalized := make([]Message, len(messages))
	for i, m := range messages {
		normalized[i] = m.Normalize()
	}
	t.Messages = normalized
}

// Reset clears the thread for a new job.
func (t *Thread) Reset() {
	t.ID = ""
	t.Messages = nil
}

// Clone returns a deep copy of the thread.
func (t Thread) Clone() Thread {
	c := Thread{ID: t.ID}
	if len(t.Messages) > 0 {
		c.Messages = make([]Message, len(t.Messages))
		copy(c.Messages, t.Messages)
	}
	return c
}
