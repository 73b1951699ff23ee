package service

import (
	"bytes"
	"encoding/json"

	"github.com/mmelnik/playsync/internal/logger"
	"github.com/mmelnik/playsync/models"
)

// Normalizer absorbs the upstream's mixed event shapes — bare payloads,
// `{data: payload}` wrappers and full `{event_type, server_seq, data}`
// envelopes — and produces the one canonical models.Event the rest of the
// engine matches on. This is the single place that ambiguity lives.
type Normalizer struct {
	log *logger.Logger
}

func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{log: log}
}

type rawEnvelope struct {
	EventType  string          `json:"event_type"`
	ServerSeq  *uint64         `json:"server_seq"`
	Seq        *uint64         `json:"seq"`
	PlaylistID string          `json:"playlist_id"`
	ResourceID string          `json:"resource_id"`
	Data       json.RawMessage `json:"data"`
}

// Normalize converts one raw frame into a canonical event. It returns nil
// when no interpretable payload can be found; the frame is logged and
// dropped without touching state.
//
// Resolution order:
//  1. a known event_type plus a numeric top-level sequence — use the
//     wrapper as-is;
//  2. a nested data object — use it as the payload and take any sibling
//     sequence;
//  3. otherwise the object itself is the payload, a direct player-state
//     push, with the sequence defaulting to whatever the payload carries
//     (or zero).
func (n *Normalizer) Normalize(data []byte) *models.Event {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		n.log.Debug().Str("frame", string(data)).Msg("drop non-object event frame")
		return nil
	}

	var env rawEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		n.log.Debug().Err(err).Msg("drop undecodable event frame")
		return nil
	}

	kind := models.EventKind(env.EventType)
	resource := env.PlaylistID
	if resource == "" {
		resource = env.ResourceID
	}

	seq, hasSeq := topLevelSeq(env)

	// (1) full envelope.
	if kind.Known() && hasSeq {
		payload := env.Data
		if len(payload) == 0 {
			payload = trimmed
		}
		return &models.Event{Kind: kind, ResourceID: resource, Seq: seq, Payload: payload}
	}

	// Named but unrecognized kinds are dropped rather than guessed at.
	if env.EventType != "" && !kind.Known() {
		n.log.Debug().Str("event_type", env.EventType).Msg("drop event of unknown kind")
		return nil
	}

	// (2) wrapped payload without a full envelope.
	if len(env.Data) != 0 && !bytes.Equal(env.Data, []byte("null")) {
		k := kind
		if !k.Known() {
			k = models.KindStatus
		}
		return &models.Event{Kind: k, ResourceID: resource, Seq: seq, Payload: env.Data}
	}

	// (3) the object itself is a direct player-state push.
	return &models.Event{Kind: models.KindStatus, Seq: seq, Payload: trimmed}
}

func topLevelSeq(env rawEnvelope) (uint64, bool) {
	if env.ServerSeq != nil {
		return *env.ServerSeq, true
	}
	if env.Seq != nil {
		return *env.Seq, true
	}
	return 0, false
}
