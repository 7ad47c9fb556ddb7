// Package hub delivers messages to the connections of a room and runs the
// join/leave protocol of each client session.
//
// The Engine fans a message out to every recipient in parallel while each
// Connection serializes its own writes. Recipients whose transport fails are
// evicted after the delivery pass. A Session moves through Connecting,
// Active and Closed, and always runs its leave cleanup exactly once.
package hub
