// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package nats contains the NATS JetStream implementation of the
// messaging publisher.
package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/absmach/csms/pkg/errors"
	"github.com/absmach/csms/pkg/messaging"
	broker "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// A maximum number of reconnect attempts before NATS connection closes
// permanently. Value -1 means the client will never stop retrying.
const maxReconnects = -1

const (
	prefix     = "csms"
	streamName = "csms"
)

// ErrEmptyTopic indicates publish request with no topic.
var ErrEmptyTopic = errors.New("empty topic")

var jsStreamConfig = jetstream.StreamConfig{
	Name:              streamName,
	Description:       "CSMS datum stream",
	Subjects:          []string{prefix + ".>"},
	Retention:         jetstream.LimitsPolicy,
	MaxMsgsPerSubject: 1e6,
	MaxAge:            0,
	Storage:           jetstream.FileStorage,
	Discard:           jetstream.DiscardOld,
}

var _ messaging.Publisher = (*publisher)(nil)

type publisher struct {
	js   jetstream.JetStream
	conn *broker.Conn
}

// NewPublisher returns NATS message Publisher.
func NewPublisher(ctx context.Context, url string) (messaging.Publisher, error) {
	conn, err := broker.Connect(url, broker.MaxReconnects(maxReconnects))
	if err != nil {
		return nil, err
	}
	js, err := jetstream.New(conn)
	if err != nil {
		return nil, err
	}
	if _, err := js.CreateOrUpdateStream(ctx, jsStreamConfig); err != nil {
		return nil, err
	}

	return &publisher{
		js:   js,
		conn: conn,
	}, nil
}

func (pub *publisher) Publish(ctx context.Context, topic string, msg *messaging.Message) error {
	if topic == "" {
		return ErrEmptyTopic
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s.%s", prefix, topic)
	if msg.Subtopic != "" {
		subject = fmt.Sprintf("%s.%s", subject, msg.Subtopic)
	}

	_, err = pub.js.Publish(ctx, subject, data)

	return err
}

func (pub *publisher) Close() error {
	pub.conn.Close()
	return nil
}
