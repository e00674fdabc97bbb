// Package ratelimit provides fixed-window admission control keyed by client
// identity. Time is divided into non-overlapping windows; a counter resets
// fully at each window boundary, and a denied key stays denied until its
// window rolls over.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of an admission attempt.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
}

// Status is a side-effect-free view of a key's current window.
type Status struct {
	Remaining  int
	Limit      int
	ResetAfter time.Duration
	IsLimited  bool
}

// Limiter decides whether a unit of work from a given key may proceed.
//
// Admit counts as an admission attempt; Status never does.
type Limiter interface {
	Admit(ctx context.Context, key string) (Result, error)
	Status(ctx context.Context, key string) (Status, error)
}
