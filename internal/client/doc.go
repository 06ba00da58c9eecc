// Package client implements the CLI side of the daemon protocol.
//
// A client connects to the slipwayd Unix socket, sends one
// newline-delimited JSON envelope, and reads the single response before
// the daemon closes the connection. Each method performs one such
// exchange.
//
// Example usage:
//
//	c := client.New("")
//	status, err := c.Status(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(status.Uptime)
package client
