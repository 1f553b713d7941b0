package game

import (
	"encoding/json"
	"log/slog"
)

// Inbound packet types.
const (
	PacketChatMessage       = "chatMessage"
	PacketNewLineData       = "newLineData"
	PacketUndoDrawing       = "undoDrawing"
	PacketNameChangeRequest = "nameChangeRequest"
)

// Outbound packet types.
const (
	PacketInputValues           = "inputValues"
	PacketPlayerListUpdate      = "playerListUpdate"
	PacketChatHistory           = "chatHistory"
	PacketLineHistory           = "lineHistory"
	PacketLineHistoryWithRedraw = "lineHistoryWithRedraw"
	PacketDrawerStatusChange    = "drawerStatusChange"
	PacketDrawerInfoUpdate      = "drawerInfoUpdate"
	PacketRoundTimeUpdate       = "roundTimeUpdate"
	PacketBackgroundColorUpdate = "backgroundColorUpdate"
	PacketNameChangeStatus      = "nameChangeStatus"
)

type BackgroundColor string

const (
	BackgroundOrange BackgroundColor = "orange"
	BackgroundBlue   BackgroundColor = "blue"
	BackgroundGreen  BackgroundColor = "green"
	BackgroundRed    BackgroundColor = "red"
)

// InfiniteTime is sent as the round time while practicing.
const InfiniteTime = "∞"

// ClientPacket is one inbound frame. Value is decoded by the router once the
// type is known.
type ClientPacket struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type ServerPacket struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type ClientPacketEnvelope struct {
	packet ClientPacket
	from   Player
}

type InputValues struct {
	BrushStyle           BrushStyle `json:"brushStyle"`
	ChatMessageMaxLength int        `json:"chatMessageMaxLength"`
	PlayerNameMaxLength  int        `json:"playerNameMaxLength"`
}

type BrushStyle struct {
	LineWidth    float64 `json:"lineWidth"`
	LineCap      string  `json:"lineCap"`
	StrokeStyle  string  `json:"strokeStyle"`
	MaxBrushSize float64 `json:"maxBrushSize"`
}

type NameChangeStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func encodePacket(packetType string, value any) []byte {
	data, err := json.Marshal(ServerPacket{Type: packetType, Value: value})
	if err != nil {
		slog.Error("Failed to encode server packet", "type", packetType, "error", err)
		return nil
	}
	return data
}

func decodeClientPacket(data []byte) (ClientPacket, bool) {
	packet := ClientPacket{}
	if err := json.Unmarshal(data, &packet); err != nil || packet.Type == "" {
		return ClientPacket{}, false
	}
	return packet, true
}
