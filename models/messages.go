package models

import "encoding/json"

// Frame type discriminators for messages sent to and received from the
// push socket. Anything without a recognized type is treated as a raw
// event and handed to the normalizer.
const (
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
	FrameResync      = "resync"
	FrameOp          = "op"
	FrameAck         = "ack"
	FrameErr         = "err"
)

// SubscribeRequest asks the server to start or stop pushing events for one
// playlist. Type is FrameSubscribe or FrameUnsubscribe.
type SubscribeRequest struct {
	Type       string `json:"type"`
	PlaylistID string `json:"playlist_id"`
}

// ResyncRequest sends the client's full sequence vector; the server answers
// with unsolicited snapshot events on the same channel, not with a direct
// reply.
type ResyncRequest struct {
	Type   string         `json:"type"`
	Vector SequenceVector `json:"vector"`
}

// OperationRequest is a client-initiated mutation that expects a direct,
// token-correlated reply.
type OperationRequest struct {
	Type string          `json:"type"`
	OpID string          `json:"op_id"`
	Name string          `json:"name"`
	Body json.RawMessage `json:"body,omitempty"`
}

// OperationReply is the ack/err counterpart of an OperationRequest. On
// success Patch carries a best-effort partial player-status update; on
// error Message and Code describe the failure.
type OperationReply struct {
	Type    string       `json:"type"`
	OpID    string       `json:"op_id"`
	Patch   *StatusPatch `json:"patch,omitempty"`
	Message string       `json:"message,omitempty"`
	Code    int          `json:"code,omitempty"`
}

// ReorderBody is the body of a reorder_tracks operation: the full desired
// track order for one playlist.
type ReorderBody struct {
	PlaylistID string  `json:"playlist_id"`
	TrackIDs   []int64 `json:"track_ids"`
}
