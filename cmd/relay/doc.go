// Package main runs the relay used by landscaper participants. It keeps one
// room per landscape token and forwards every envelope a participant sends
// to all other participants in the same room.
//
// HTTP API
//
//	GET /ws/{token}
//	    Upgrade to a WebSocket and join the room of {token}. Every JSON
//	    envelope written to the socket is forwarded, unchanged apart from the
//	    token and a missing timestamp, to the other participants of the room
//	    in the order received. The sender never gets its own envelope back.
//
//	GET /landscapes/{token}
//	    Return the stored landscape snapshot, or 404.
//
//	PUT /landscapes/{token}
//	    Replace the stored snapshot. A landscapeToken in the body must match
//	    {token}.
//
//	GET /metrics
//	    Prometheus metrics (connected peers, open rooms, forwarded and
//	    dropped envelopes).
//
// Behaviour
//
//   - Rooms live in memory and disappear with their last participant.
//   - Snapshots are JSON files under --store, one per token.
//   - A participant that cannot keep up is disconnected rather than slowing
//     the room down.
//   - The default listen address is :8080.
//
// The relay never interprets edit payloads; all conflict handling happens in
// the participants.
package main
