package main

import (
	"encoding/json"
	"fmt"

	"pokeraudit/internal/analyzer"
	"pokeraudit/internal/cryptoprim"
	"pokeraudit/internal/transcript"
)

// transcriptDoc is the on-disk JSON shape of a captured hand transcript, as
// a game layer would emit it over the wire for offline audit.
type transcriptDoc struct {
	OwnPID  string      `json:"ownPID"`
	Players []playerDoc `json:"players"`
	Events  []eventDoc  `json:"events"`
}

type playerDoc struct {
	PrivateID string `json:"privateID"`
	IsDealer  bool   `json:"isDealer"`
	HasFolded bool   `json:"hasFolded"`
}

type eventDoc struct {
	Type    analyzer.Event  `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (d transcriptDoc) players() []transcript.Player {
	out := make([]transcript.Player, len(d.Players))
	for i, p := range d.Players {
		out[i] = transcript.Player{PrivateID: p.PrivateID, IsDealer: p.IsDealer, HasFolded: p.HasFolded}
	}
	return out
}

// primitive returns the crypto primitive used to replay the transcript.
// SRA is the only commutative primitive this module implements, so the
// primitive is not selectable from the file.
func (d transcriptDoc) primitive() cryptoprim.Primitive {
	return cryptoprim.SRA{}
}

func decodePayload[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("auditctl: decode event payload: %w", err)
	}
	return v, nil
}
