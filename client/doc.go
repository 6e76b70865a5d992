/*
Package client implements the session layer of the protocol: topic
subscription and event dispatch, procedure registration and invocation,
and call correlation, over any connected wire.Peer.

A Session is created from a connected peer with NewSession, or dialed
with ConnectNet.  All session state is owned by a single internal loop,
so event handlers and invocation handlers observe messages in the order
the transport delivered them.
*/
package client
