// file: websocket/messenger.go
package websocket

// Messenger is what screens need to announce changes.
type Messenger interface {
	Notify(resource string)
}

// NopMessenger announces nothing.
type NopMessenger struct{}

func (NopMessenger) Notify(string) {}
