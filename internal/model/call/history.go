package call

import "strings"

// Speaker identifies who said an utterance.
type Speaker string

const (
	Caller    Speaker = "Caller"
	Counselor Speaker = "Counselor"
)

// Entry is one utterance of a call.
type Entry struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// History is the ordered transcript of a call. Speakers usually alternate,
// but nothing relies on it: a skipped step can leave two entries from the
// same speaker back to back.
type History []Entry

// Append returns the history with a new entry at the end.
func (h History) Append(speaker Speaker, text string) History {
	return append(h, Entry{Speaker: speaker, Text: text})
}

// Tail returns a copy of the last n entries, or of all of them when the
// history is shorter.
func (h History) Tail(n int) History {
	if n <= 0 {
		return History{}
	}
	start := len(h) - n
	if start < 0 {
		start = 0
	}
	return append(History(nil), h[start:]...)
}

// Last returns the final entry, if any.
func (h History) Last() (Entry, bool) {
	if len(h) == 0 {
		return Entry{}, false
	}
	return h[len(h)-1], true
}

// Format renders one "Speaker: text" line per entry.
func (h History) Format() string {
	var builder strings.Builder
	for _, entry := range h {
		builder.WriteString(string(entry.Speaker))
		builder.WriteString(": ")
		builder.WriteString(entry.Text)
		builder.WriteString("\n")
	}
	return builder.String()
}
