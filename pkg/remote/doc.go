// Package remote implements the call boundary over a transport connection.
//
// A Client encodes every boundary primitive as a wire.Request, sends it
// through a Sender and waits for the matching wire.Response. Responses are
// fed back either by calling HandleResponse or by letting Run drive a
// connection's read loop:
//
//	conn, err := transport.Dial(ctx, addr, transport.DialConfig{})
//	client := remote.New(conn)
//	go client.Run(ctx, conn)
//
// Non-success statuses surface as *boundary.StatusError; send failures,
// timeouts and a closed client surface as *boundary.TransportError.
package remote
