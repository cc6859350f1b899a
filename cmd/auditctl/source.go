package main

import (
	"fmt"

	"pokeraudit/internal/analyzer"
	"pokeraudit/internal/transcript"
)

// fileSource implements analyzer.Source over a statically captured event
// list: Subscribe just registers handlers, and replay dispatches the
// file's events to them synchronously, in file order.
type fileSource struct {
	ownPID   string
	players  []transcript.Player
	handlers map[analyzer.Event][]func(any)
}

func newFileSource(ownPID string, players []transcript.Player) *fileSource {
	return &fileSource{ownPID: ownPID, players: players, handlers: make(map[analyzer.Event][]func(any))}
}

func (f *fileSource) Subscribe(event analyzer.Event, handler func(payload any)) func() {
	f.handlers[event] = append(f.handlers[event], handler)
	idx := len(f.handlers[event]) - 1
	return func() {
		f.handlers[event][idx] = nil
	}
}

func (f *fileSource) CurrentPlayers() []transcript.Player { return f.players }
func (f *fileSource) OwnPID() string                      { return f.ownPID }

func (f *fileSource) replay(events []eventDoc) error {
	for _, ev := range events {
		payload, err := decodeEventPayload(ev)
		if err != nil {
			return err
		}
		for _, h := range f.handlers[ev.Type] {
			if h != nil {
				h(payload)
			}
		}
	}
	return nil
}

func decodeEventPayload(ev eventDoc) (any, error) {
	switch ev.Type {
	case analyzer.EventCardsEncrypted:
		return decodePayload[analyzer.CardsEncryptedEvent](ev.Payload)
	case analyzer.EventDealSelected:
		return decodePayload[analyzer.DealSelectedEvent](ev.Payload)
	case analyzer.EventDealMessage:
		return decodePayload[analyzer.DealMessageEvent](ev.Payload)
	case analyzer.EventCardDealt:
		return decodePayload[analyzer.CardDealtEvent](ev.Payload)
	case analyzer.EventGameDecrypt:
		return decodePayload[analyzer.GameDecryptEvent](ev.Payload)
	case analyzer.EventAnalyze:
		return decodePayload[analyzer.AnalyzeEvent](ev.Payload)
	case analyzer.EventPlayerKeychain:
		return decodePayload[analyzer.PlayerKeychainEvent](ev.Payload)
	default:
		return nil, fmt.Errorf("auditctl: unknown event type %q", ev.Type)
	}
}
