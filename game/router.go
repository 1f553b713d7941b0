package game

import (
	"encoding/json"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// handleEnvelope dispatches one inbound packet. Anything that does not fit
// the expected shape, or comes from a player who already left, is dropped.
func (r *Room) handleEnvelope(envelope ClientPacketEnvelope) {
	from := envelope.from
	if !r.registry.Contains(from) {
		return
	}
	packet := envelope.packet

	switch packet.Type {
	case PacketChatMessage:
		var text string
		if err := json.Unmarshal(packet.Value, &text); err != nil {
			return
		}
		r.handleChatMessage(from, text)

	case PacketNewLineData:
		points, ok := decodeStroke(packet.Value)
		if !ok {
			return
		}
		r.handleNewLineData(from, points)

	case PacketUndoDrawing:
		// null would decode as false and undo a stroke nobody asked to remove
		var clearAll *bool
		if err := json.Unmarshal(packet.Value, &clearAll); err != nil || clearAll == nil {
			return
		}
		r.handleUndoDrawing(from, *clearAll)

	case PacketNameChangeRequest:
		var requested string
		if err := json.Unmarshal(packet.Value, &requested); err != nil {
			return
		}
		r.handleNameChangeRequest(from, requested)

	default:
		slog.Debug("Ignoring unknown packet type", "player", from.ID(), "type", packet.Type)
	}
}

func (r *Room) handleChatMessage(from Player, text string) {
	if utf8.RuneCountInString(text) > r.settings.ChatMaxLength {
		return
	}
	guess := strings.TrimSpace(text)
	if guess == "" {
		return
	}

	if r.phase == PHASE_IN_PROGRESS && strings.EqualFold(guess, r.currentWord) {
		if from == r.drawer {
			// the drawer would only be leaking the word
			return
		}
		r.handleCorrectGuess(from)
		return
	}

	name := r.registry.Name(from)
	r.registry.SendChat(&name, text, ChatStyleNone)
}

func (r *Room) handleNewLineData(from Player, points []json.RawMessage) {
	if from != r.drawer || !r.drawingAllowed() {
		r.resyncStrokes(from)
		return
	}
	stroke, ok := r.brushRules.validate(points)
	if !ok {
		r.resyncStrokes(from)
		return
	}

	r.history.AppendStroke(stroke)
	r.registry.Unicast(from, PacketLineHistory, r.history.Strokes())
	r.registry.Broadcast(PacketNewLineData, stroke, from)
}

func (r *Room) drawingAllowed() bool {
	return r.phase == PHASE_IN_PROGRESS || r.phase == PHASE_PRACTICE
}

// resyncStrokes makes the sender redraw from the authoritative history,
// erasing whatever it drew locally.
func (r *Room) resyncStrokes(to Player) {
	r.registry.Unicast(to, PacketLineHistoryWithRedraw, r.history.Strokes())
}

func (r *Room) handleUndoDrawing(from Player, clearAll bool) {
	if from != r.drawer || !r.drawingAllowed() || r.history.StrokeCount() == 0 {
		return
	}
	if clearAll {
		r.history.ClearStrokes()
	} else {
		r.history.PopStroke()
	}
	r.registry.Broadcast(PacketLineHistoryWithRedraw, r.history.Strokes(), nil)
}

func (r *Room) handleNameChangeRequest(from Player, requested string) {
	err := r.registry.Rename(from, requested)
	if err != nil {
		message, ok := nameChangeMessages[err]
		if !ok {
			return
		}
		r.registry.Unicast(from, PacketNameChangeStatus, NameChangeStatus{Success: false, Message: message})
		return
	}

	if from == r.drawer && r.phase == PHASE_IN_PROGRESS {
		r.registry.Broadcast(PacketDrawerInfoUpdate, r.guesserInfo(), r.drawer)
	}
	r.registry.Unicast(from, PacketNameChangeStatus, NameChangeStatus{
		Success: true,
		Message: "Your name has been changed.",
	})
}
