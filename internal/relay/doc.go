// Package relay is the transport between participants of a landscape.
//
// The relay server (Hub) keeps one room per landscape token. Every envelope a
// participant writes to its WebSocket is forwarded to all other participants
// of the same room, in the order it was received. The hub also serves
// landscape snapshots over plain HTTP so a joining participant can load the
// current landscape before replaying edits.
//
// WSClient implements domain.RelayClient on top of a room connection, and
// HTTP implements domain.LandscapeStore against the snapshot endpoints.
//
// Non-2xx statuses are returned as errors carrying the path and status text;
// a missing snapshot wraps domain.ErrNotFound.
package relay
