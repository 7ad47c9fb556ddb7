// Package server exposes the HTTP and websocket surface of RoomCast.
//
// The implementation is split into configuration, logging, origin policy,
// the gorilla websocket transport, gin routes and handlers, the HTTP server
// lifecycle, and App, which wires the room manager, broadcast engine,
// heartbeat and weather robots together.
package server
