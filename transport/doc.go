/*
Package transport provides wire.Peer implementations: an in-process
linked pair for connecting components in the same process, and a
websocket transport for connecting to a remote router.
*/
package transport
