package game

type ChatStyle string

const (
	ChatStyleNone  ChatStyle = ""
	ChatStyleGray  ChatStyle = "gray"
	ChatStyleBlue  ChatStyle = "blue"
	ChatStyleGreen ChatStyle = "green"
	ChatStyleRed   ChatStyle = "red"
)

// ChatEntry with a nil Sender is a system message.
type ChatEntry struct {
	Sender    *string   `json:"sender"`
	Text      string    `json:"text"`
	ClassName ChatStyle `json:"className,omitempty"`
}

// History holds the chat log for the life of the process and the strokes of
// the current round. It does no validation.
type History struct {
	chat    []ChatEntry
	strokes []Stroke
}

func NewHistory() *History {
	return &History{
		chat:    []ChatEntry{},
		strokes: []Stroke{},
	}
}

func (h *History) AppendChat(entry ChatEntry) {
	h.chat = append(h.chat, entry)
}

func (h *History) AppendStroke(stroke Stroke) {
	h.strokes = append(h.strokes, stroke)
}

func (h *History) ClearStrokes() {
	h.strokes = []Stroke{}
}

// PopStroke removes the most recent stroke and reports whether there was one.
func (h *History) PopStroke() bool {
	if len(h.strokes) == 0 {
		return false
	}
	h.strokes[len(h.strokes)-1] = nil
	h.strokes = h.strokes[:len(h.strokes)-1]
	return true
}

func (h *History) StrokeCount() int {
	return len(h.strokes)
}

func (h *History) ChatCount() int {
	return len(h.chat)
}

// Strokes returns a copy that is safe to hand to the encoder after further appends.
func (h *History) Strokes() []Stroke {
	out := make([]Stroke, len(h.strokes))
	copy(out, h.strokes)
	return out
}

func (h *History) Chat() []ChatEntry {
	out := make([]ChatEntry, len(h.chat))
	copy(out, h.chat)
	return out
}
