// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package canvas

import (
	"sync"
	"time"

	"github.com/fralocator/fralocator/locator"
	"github.com/sirupsen/logrus"
)

// maxMessages bounds the message bar history.
const maxMessages = 50

// Message is a notification pushed to the message bar.
type Message struct {
	Title string    `json:"title"`
	Text  string    `json:"text"`
	Time  time.Time `json:"time"`
}

// MessageBar logs warnings and keeps the most recent ones.
type MessageBar struct {
	log *logrus.Entry
	now func() time.Time

	mu       sync.Mutex
	messages []Message
	total    int
}

// NewMessageBar returns an empty message bar.
func NewMessageBar() *MessageBar {
	return &MessageBar{
		log: logrus.WithField("filter", "MessageBar"),
		now: time.Now,
	}
}

// Warn implements locator.Notifier.
func (b *MessageBar) Warn(title, message string) {
	b.log.WithField("title", title).Warn(message)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.total++
	b.messages = append(b.messages, Message{Title: title, Text: message, Time: b.now()})
	if len(b.messages) > maxMessages {
		b.messages = b.messages[len(b.messages)-maxMessages:]
	}
}

// Messages returns the retained messages, oldest first.
func (b *MessageBar) Messages() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Message, len(b.messages))
	copy(out, b.messages)

	return out
}

// Count returns how many messages were ever pushed.
func (b *MessageBar) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.total
}

// Last returns the most recent message.
func (b *MessageBar) Last() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.messages) == 0 {
		return Message{}, false
	}

	return b.messages[len(b.messages)-1], true
}

// Host bundles a canvas and a message bar into a locator.Host.
type Host struct {
	Canvas *Canvas
	Bar    *MessageBar
}

var _ locator.Host = (*Host)(nil)

// NewHost returns a host around a new canvas.
func NewHost(options *Options) *Host {
	return &Host{Canvas: New(options), Bar: NewMessageBar()}
}

// MapCanvas implements locator.Host.
func (h *Host) MapCanvas() locator.MapCanvas { return h.Canvas }

// Project implements locator.Host.
func (h *Host) Project() locator.Project { return h.Canvas }

// MessageBar implements locator.Host.
func (h *Host) MessageBar() locator.Notifier { return h.Bar }
