// Package wire defines the replicated restructure messages and their JSON
// envelope.
//
// Every edit made in restructure mode has exactly one message type here. A
// message travels as the payload of a types.Envelope whose Event field names
// it; Seal builds such an envelope and Open turns one back into a Message.
// Payloads are validated on both ends, so a handler never sees a message
// with missing ids.
//
// This package imports only domain/types so that domain interfaces can refer
// to Message.
package wire
