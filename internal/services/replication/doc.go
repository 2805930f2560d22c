// Package replication keeps the sessions of all participants of a landscape
// in step.
//
// Local edits leave through Dispatcher.Publish; inbound envelopes go through
// Dispatcher.Handle, which replays them on the session with a remote edit
// context. Loop serializes both onto one goroutine.
package replication
