// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package messaging provides the streaming-publisher capability used to
// forward derived datums to downstream consumers.
package messaging

import "context"

// Message is a streamed payload together with its routing metadata.
type Message struct {
	Channel   string `json:"channel,omitempty"`
	Subtopic  string `json:"subtopic,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Protocol  string `json:"protocol,omitempty"`
	Payload   []byte `json:"payload,omitempty"`
	Created   int64  `json:"created,omitempty"`
}

// Publisher specifies message publishing API.
//
//go:generate mockery --name Publisher --output=./mocks --filename publisher.go --quiet --note "Copyright (c) Abstract Machines"
type Publisher interface {
	// Publish publishes message to the stream.
	Publish(ctx context.Context, topic string, msg *Message) error

	// Close gracefully closes message publisher's connection.
	Close() error
}
