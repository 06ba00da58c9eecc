// Package protocol defines the wire format for the daemon socket.
//
// Messages are newline-delimited JSON envelopes. Each envelope carries a
// command name and an optional payload whose shape depends on the command.
// Clients send one request per connection and read one response: either
// CmdOK with a typed result, or CmdError with a message.
package protocol
