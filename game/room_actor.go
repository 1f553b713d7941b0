package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

func (r *Room) GameLoop(ctx context.Context) {
	defer close(r.done)
	slog.Info("Room started", "roundDuration", r.settings.RoundDuration, "intermission", r.settings.IntermissionDuration)

	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return
		case req := <-r.joinReqs:
			r.handleJoinRequest(req)
		case envelope := <-r.inbox:
			r.handleEnvelope(envelope)
		case p := <-r.removeMe:
			r.handleRemovePlayer(p)
		case <-timerC(r.intermission):
			r.handleIntermissionElapsed()
		case <-timerC(r.countdown):
			r.handleCountdownTick()
		case respChan := <-r.statusReqs:
			respChan <- r.status()
		}
		r.flush()
	}
}

// flush delivers queued packets in issue order. A recipient whose buffer is
// full is released; the rest of the queue is still delivered.
func (r *Room) flush() {
	for _, task := range r.out.drain() {
		err := task.to.Send(task.data)
		switch {
		case err == nil:
		case errors.Is(err, ErrConnectionClosed):
			slog.Debug("Skipping send to closed connection", "player", task.to.ID())
		default:
			slog.Warn("Send failed, releasing connection", "player", task.to.ID(), "error", err)
			task.to.CancelAndRelease()
		}
	}
}

func (r *Room) shutdown() {
	r.stopCountdown()
	r.cancelIntermission()
	r.out.drain()
	for _, p := range r.registry.Players() {
		p.CancelAndRelease()
	}
	slog.Info("Room stopped")
}

func (r *Room) status() RoomStatus {
	status := RoomStatus{
		Phase:   r.phase.String(),
		Players: r.registry.Names(),
	}
	if r.drawer != nil && r.phase != PHASE_INTERMISSION {
		status.Drawer = r.registry.Name(r.drawer)
	}
	switch r.phase {
	case PHASE_IN_PROGRESS:
		status.TimeLeft = r.timeLeft
	case PHASE_PRACTICE:
		status.TimeLeft = InfiniteTime
	}
	return status
}

func (r *Room) invariant(ok bool, msg string, args ...any) bool {
	if ok {
		return true
	}
	slog.Error("Invariant violated: "+msg, args...)
	if r.settings.StrictInvariants {
		panic(fmt.Sprintf("invariant violated: %s", msg))
	}
	return false
}

func (r *Room) handleJoinRequest(req roomJoinRequest) {
	err := r.addPlayer(req.player)
	req.errChan <- err
	close(req.errChan)
}

func (r *Room) addPlayer(p Player) error {
	if r.settings.MaxPlayers > 0 && r.registry.Len() >= r.settings.MaxPlayers {
		return ErrRoomFull
	}
	if r.registry.Contains(p) {
		return nil
	}

	r.registry.Unicast(p, PacketInputValues, r.inputValues())
	if r.history.ChatCount() > 0 {
		r.registry.Unicast(p, PacketChatHistory, r.history.Chat())
	}

	r.lateJoiners[p] = struct{}{}
	name := r.registry.Join(p)
	slog.Info("Player joined", "player", p.ID(), "name", name, "players", r.registry.Len())

	switch r.phase {
	case PHASE_NO_PLAYERS:
		r.startPractice(p)
	case PHASE_PRACTICE:
		r.beginRoundStart()
	case PHASE_IN_PROGRESS:
		r.registry.Unicast(p, PacketDrawerInfoUpdate, r.guesserInfo())
		r.registry.Unicast(p, PacketRoundTimeUpdate, r.timeLeft)
	case PHASE_INTERMISSION:
		r.registry.Unicast(p, PacketDrawerInfoUpdate, roundStartMessage)
	}

	if r.phase != PHASE_PRACTICE {
		r.registry.Unicast(p, PacketBackgroundColorUpdate, r.currentBackground())
	}
	if r.history.StrokeCount() > 0 {
		r.registry.Unicast(p, PacketLineHistoryWithRedraw, r.history.Strokes())
	}
	return nil
}

// currentBackground is the color a joiner should see for the phase in progress.
func (r *Room) currentBackground() BackgroundColor {
	switch {
	case r.wordGuessed:
		return BackgroundGreen
	case r.phase == PHASE_INTERMISSION && r.timeLeft == 0 && r.currentWord != "":
		return BackgroundRed
	}
	return BackgroundBlue
}

func (r *Room) handleRemovePlayer(p Player) {
	wasDrawer := p == r.drawer
	if err := r.registry.Leave(p); err != nil {
		slog.Debug("Ignoring removal of unknown player", "player", p.ID())
		return
	}
	delete(r.previousDrawers, p)
	delete(r.lateJoiners, p)
	if wasDrawer {
		r.drawer = nil
	}
	p.CancelAndRelease()

	remaining := r.registry.Len()
	slog.Info("Player left", "player", p.ID(), "players", remaining, "phase", r.phase.String())

	if remaining <= 1 {
		r.drawer = nil
		r.currentWord = ""
		clear(r.previousDrawers)
		r.words.Reset()
	}

	switch {
	case remaining == 0:
		r.enterNoPlayers()
		return
	case remaining == 1:
		r.startPractice(r.registry.Players()[0])
		return
	}

	if !wasDrawer {
		return
	}
	switch r.phase {
	case PHASE_IN_PROGRESS:
		r.registry.SendChat(nil, drawerLeftMessage, ChatStyleBlue)
		r.beginRoundStart()
	case PHASE_INTERMISSION:
		// restart the delay so the next round is not started on stale state
		r.cancelIntermission()
		r.enterIntermission()
	}
}

func (r *Room) enterNoPlayers() {
	r.stopCountdown()
	r.cancelIntermission()
	r.phase = PHASE_NO_PLAYERS
	r.drawer = nil
	r.currentWord = ""
	r.timeLeft = 0
	r.wordGuessed = false
	r.history.ClearStrokes()
	clear(r.lateJoiners)
	slog.Info("Room is empty")
}

func (r *Room) startPractice(p Player) {
	r.stopCountdown()
	r.cancelIntermission()
	r.phase = PHASE_PRACTICE
	r.wordGuessed = false

	r.registry.Unicast(p, PacketDrawerInfoUpdate, practiceInfoMessage)
	r.registry.Unicast(p, PacketBackgroundColorUpdate, BackgroundOrange)
	if r.history.StrokeCount() > 0 {
		r.history.ClearStrokes()
		r.registry.Unicast(p, PacketLineHistoryWithRedraw, r.history.Strokes())
	}
	r.registry.Unicast(p, PacketRoundTimeUpdate, InfiniteTime)

	r.drawer = p
	name := r.registry.Name(p)
	r.registry.SendChat(nil, name+" is now practicing alone.", ChatStyleBlue)
	r.registry.Unicast(p, PacketDrawerStatusChange, true)
	slog.Info("Practice mode started", "player", p.ID(), "name", name)
}

// beginRoundStart enters the intermission. The round itself starts when the
// intermission timer fires, unless the timer is canceled first.
func (r *Room) beginRoundStart() {
	if r.phase == PHASE_INTERMISSION {
		return
	}
	r.enterIntermission()
}

func (r *Room) enterIntermission() {
	if !r.invariant(r.registry.Len() > 0, "round start requested with no players") {
		return
	}
	r.phase = PHASE_INTERMISSION
	r.stopCountdown()

	r.registry.Broadcast(PacketDrawerInfoUpdate, roundStartMessage, nil)
	r.intermission = r.clock.NewTimer(r.settings.IntermissionDuration)
	slog.Info("Intermission started", "players", r.registry.Len())
}

func (r *Room) cancelIntermission() {
	if r.intermission == nil {
		return
	}
	r.intermission.Stop()
	r.intermission = nil
	slog.Debug("Intermission canceled")
}

func (r *Room) stopCountdown() {
	if r.countdown == nil {
		return
	}
	r.countdown.Stop()
	r.countdown = nil
}

func (r *Room) handleIntermissionElapsed() {
	r.intermission = nil
	if !r.invariant(r.phase == PHASE_INTERMISSION, "intermission elapsed outside intermission", "phase", r.phase.String()) {
		return
	}
	if !r.invariant(r.registry.Len() > 0, "round start with no players") {
		return
	}
	r.startRound()
}

func (r *Room) startRound() {
	previousWord := r.currentWord
	previousDrawer := r.drawer
	if previousDrawer != nil {
		r.previousDrawers[previousDrawer] = struct{}{}
	}

	r.phase = PHASE_IN_PROGRESS
	r.wordGuessed = false
	r.drawer = r.selectDrawer()
	r.currentWord = r.words.Next(previousWord)

	drawerName := r.registry.Name(r.drawer)
	slog.Info("Round started", "drawer", r.drawer.ID(), "name", drawerName)
	slog.Debug("Word selected", "word", r.currentWord)

	r.history.ClearStrokes()
	r.registry.Broadcast(PacketLineHistoryWithRedraw, r.history.Strokes(), nil)

	r.registry.SendChat(nil, drawerName+" is now the drawer.", ChatStyleBlue)
	if previousDrawer != nil && previousDrawer != r.drawer {
		r.registry.Unicast(previousDrawer, PacketDrawerStatusChange, false)
	}
	r.registry.Unicast(r.drawer, PacketDrawerStatusChange, true)
	r.registry.Unicast(r.drawer, PacketDrawerInfoUpdate, r.drawerInfo())
	r.registry.Broadcast(PacketDrawerInfoUpdate, r.guesserInfo(), r.drawer)

	r.timeLeft = int(r.settings.RoundDuration / countdownInterval)
	r.registry.Broadcast(PacketRoundTimeUpdate, r.timeLeft, nil)
	r.countdown = r.clock.NewTicker(countdownInterval)

	r.registry.Broadcast(PacketBackgroundColorUpdate, BackgroundBlue, r.drawer)
	r.registry.Unicast(r.drawer, PacketBackgroundColorUpdate, BackgroundOrange)

	clear(r.lateJoiners)
}

// selectDrawer picks the first player in join order who has not drawn yet
// and did not join during the previous round.
func (r *Room) selectDrawer() Player {
	players := r.registry.Players()
	for _, p := range players {
		_, drew := r.previousDrawers[p]
		_, late := r.lateJoiners[p]
		if !drew && !late {
			return p
		}
	}
	clear(r.previousDrawers)
	return players[0]
}

func (r *Room) drawerInfo() string {
	return fmt.Sprintf("You are the drawer. The word is %q.", strings.ToLower(r.currentWord))
}

func (r *Room) guesserInfo() string {
	return r.registry.Name(r.drawer) + " is drawing."
}

func (r *Room) handleCountdownTick() {
	if r.phase != PHASE_IN_PROGRESS {
		r.stopCountdown()
		return
	}
	r.timeLeft--
	r.registry.Broadcast(PacketRoundTimeUpdate, r.timeLeft, nil)
	if r.timeLeft > 0 {
		return
	}

	slog.Info("Round timed out")
	r.registry.SendChat(nil, fmt.Sprintf("Too bad, nobody guessed the word! It was %q.", strings.ToLower(r.currentWord)), ChatStyleRed)
	r.registry.Broadcast(PacketBackgroundColorUpdate, BackgroundRed, nil)
	r.beginRoundStart()
}

func (r *Room) handleCorrectGuess(guesser Player) {
	name := r.registry.Name(guesser)
	slog.Info("Word guessed", "player", guesser.ID(), "name", name)
	r.wordGuessed = true
	r.registry.SendChat(nil, fmt.Sprintf("%s guessed the word! It was %q.", name, strings.ToLower(r.currentWord)), ChatStyleGreen)
	r.registry.Broadcast(PacketBackgroundColorUpdate, BackgroundGreen, nil)
	r.beginRoundStart()
}
