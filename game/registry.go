package game

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var reservedNamePattern = regexp.MustCompile(`player[0-9]`)

type dataSendTask struct {
	to   Player
	data []byte
}

// outbox collects sends produced while handling one event so they leave in
// the order they were issued.
type outbox struct {
	tasks []dataSendTask
}

func (o *outbox) push(to Player, data []byte) {
	if data == nil {
		return
	}
	o.tasks = append(o.tasks, dataSendTask{to: to, data: data})
}

func (o *outbox) drain() []dataSendTask {
	tasks := o.tasks
	o.tasks = nil
	return tasks
}

type member struct {
	player Player
	name   string
}

// Registry is the roster in join order. Only the room actor touches it.
type Registry struct {
	members       []*member
	nextNumber    int
	maxNameLength int
	history       *History
	out           *outbox
}

func NewRegistry(maxNameLength int, history *History, out *outbox) *Registry {
	return &Registry{
		members:       []*member{},
		nextNumber:    1,
		maxNameLength: maxNameLength,
		history:       history,
		out:           out,
	}
}

// Join adds p under a fresh "Player <n>" name. Numbers are never reused.
func (reg *Registry) Join(p Player) string {
	name := fmt.Sprintf("Player %d", reg.nextNumber)
	reg.nextNumber++
	reg.members = append(reg.members, &member{player: p, name: name})

	reg.Broadcast(PacketPlayerListUpdate, reg.Names(), nil)
	reg.SendChat(nil, name+" has joined.", ChatStyleGray)
	return name
}

func (reg *Registry) Leave(p Player) error {
	i := reg.indexOf(p)
	if i < 0 {
		return ErrPlayerNotFound
	}
	name := reg.members[i].name
	reg.members = append(reg.members[:i], reg.members[i+1:]...)

	reg.SendChat(nil, name+" has left.", ChatStyleGray)
	reg.Broadcast(PacketPlayerListUpdate, reg.Names(), nil)
	return nil
}

// Rename validates requested and applies it. The caller reports the outcome
// to the requester.
func (reg *Registry) Rename(p Player, requested string) error {
	i := reg.indexOf(p)
	if i < 0 {
		return ErrPlayerNotFound
	}
	name := strings.TrimSpace(requested)
	if err := reg.validateName(p, name); err != nil {
		return err
	}

	previous := reg.members[i].name
	reg.members[i].name = name
	reg.SendChat(nil, fmt.Sprintf("%s changed their name to %s.", previous, name), ChatStyleGray)
	reg.Broadcast(PacketPlayerListUpdate, reg.Names(), nil)
	return nil
}

func (reg *Registry) validateName(p Player, name string) error {
	switch {
	case name == "":
		return ErrNameEmpty
	case utf8.RuneCountInString(name) > reg.maxNameLength:
		return ErrNameTooLong
	case isReservedName(name):
		return ErrNameReserved
	}
	for _, m := range reg.members {
		if m.player != p && strings.EqualFold(m.name, name) {
			return ErrNameTaken
		}
	}
	return nil
}

func isReservedName(name string) bool {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(name))
	return reservedNamePattern.MatchString(compact)
}

func (reg *Registry) indexOf(p Player) int {
	for i, m := range reg.members {
		if m.player == p {
			return i
		}
	}
	return -1
}

func (reg *Registry) Contains(p Player) bool {
	return reg.indexOf(p) >= 0
}

func (reg *Registry) Name(p Player) string {
	if i := reg.indexOf(p); i >= 0 {
		return reg.members[i].name
	}
	return ""
}

func (reg *Registry) Len() int {
	return len(reg.members)
}

// Players returns the roster in join order.
func (reg *Registry) Players() []Player {
	players := make([]Player, 0, len(reg.members))
	for _, m := range reg.members {
		players = append(players, m.player)
	}
	return players
}

func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.members))
	for _, m := range reg.members {
		names = append(names, m.name)
	}
	return names
}

// Broadcast queues one packet for every member except exclude, which may be nil.
func (reg *Registry) Broadcast(packetType string, value any, exclude Player) {
	data := encodePacket(packetType, value)
	for _, m := range reg.members {
		if exclude != nil && m.player == exclude {
			continue
		}
		reg.out.push(m.player, data)
	}
}

func (reg *Registry) Unicast(p Player, packetType string, value any) {
	reg.out.push(p, encodePacket(packetType, value))
}

// SendChat records the entry and broadcasts it. A nil sender marks a system message.
func (reg *Registry) SendChat(sender *string, text string, style ChatStyle) {
	entry := ChatEntry{Sender: sender, Text: text, ClassName: style}
	reg.history.AppendChat(entry)
	reg.Broadcast(PacketChatMessage, entry, nil)
}
