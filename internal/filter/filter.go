// Package filter suppresses retransmission of attribute values that have not
// changed since they were last published.
package filter

import "codeberg.org/mutker/envsensed/internal/codec"

// Filter remembers the last published encoding of every channel. It is owned
// by a single goroutine and is not safe for concurrent use.
type Filter struct {
	last map[codec.Channel]codec.Value
}

// New returns a Filter whose baselines are the attribute initial values: zero
// for numeric channels, empty text for Color.
func New() *Filter {
	f := &Filter{last: make(map[codec.Channel]codec.Value, len(codec.Channels))}
	for _, ch := range codec.Channels {
		f.last[ch] = codec.Zero(ch)
	}
	return f
}

// Changed reports whether v differs from the last published value of its
// channel. It does not modify state.
func (f *Filter) Changed(v codec.Value) bool {
	return f.last[v.Channel()] != v
}

// Commit records v as the last published value of its channel. Call it only
// once v has actually been transmitted.
func (f *Filter) Commit(v codec.Value) {
	f.last[v.Channel()] = v
}

// ShouldPublish reports whether v differs from the last published value and,
// if so, records it as published.
func (f *Filter) ShouldPublish(v codec.Value) bool {
	if !f.Changed(v) {
		return false
	}
	f.Commit(v)
	return true
}

// Last returns the last published value of ch.
func (f *Filter) Last(ch codec.Channel) codec.Value {
	return f.last[ch]
}
