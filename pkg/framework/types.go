package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Controller is invoked once per loop iteration. It must not block:
// waiting is expressed as retained state re-checked on the next tick.
type Controller interface {
	Control(ControlContext) error
}

// TimeSource provides the time for controlling logic.
type TimeSource interface {
	Time() time.Time
}

// ControlContext provides the context of current control iteration.
type ControlContext interface {
	TimeSource
	// Context retrieves context.Context.
	Context() context.Context
	// PriorityLevel gets the current priority level.
	PriorityLevel() int
	// Iteration is the sequence number of the current tick, starting at 1.
	Iteration() uint64
}

// PriorityLevels is the total levels of priorities.
const PriorityLevels int = 16

// Predefined priority levels. Within one tick, lower levels run first.
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvSense runs sensor decoding.
	PrLvSense = PrLvHigh
	// PrLvControl runs state machines consuming sensor output.
	PrLvControl = PrLvNormal
	// PrLvAcuate runs links and collaborators consuming controller output.
	PrLvAcuate = PrLvLow
	// PrLvPostProc runs reporting after everything else.
	PrLvPostProc = PrLvIdle - 1
)

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}
