// Package protocol defines the JSON envelopes exchanged with chat clients
// over the WebSocket connection, along with the ChatMessage domain type that
// backs room messages and the replayed history.
//
// Every frame is a single JSON object carrying a "type" discriminator.
// Inbound frames are decoded with DecodeInbound; outbound envelopes are
// built with the New* constructors and serialized once with Marshal.
package protocol
