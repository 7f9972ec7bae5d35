package mq

import "context"

// MessageQueue decouples publishing a portfolio from warming its cache
// entry. Receive may return (nil, nil) when a poll comes back empty; Delete
// acknowledges a processed delivery so it is not redelivered.
type MessageQueue interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, visibilityTimeout int32) (*Message, error)
	Delete(ctx context.Context, msg *Message) error
}

// Message is one queued publish event. Id is whatever handle the backing
// queue needs to acknowledge it.
type Message struct {
	Id   string
	Body string
}
