package framework

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the tick period when Loop.Interval is not set.
const DefaultInterval = 20 * time.Millisecond

// Loop is the single cooperative control loop. Every registered
// Controller is invoked once per tick, ordered by priority level, always
// from the same goroutine. Runnables are background helpers (blocking
// I/O) started alongside and stopped with the loop. Controllers
// implementing io.Closer are closed from the loop goroutine once Run
// stops stepping.
type Loop struct {
	Interval time.Duration
	Clock    Clock

	controllers [PriorityLevels][]Controller
	runners     []Runnable
	iteration   uint64
	wakeUpCh    chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopIteration struct {
	ctx           context.Context
	time          time.Time
	priorityLevel int
	iteration     uint64
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{
		Interval: DefaultInterval,
		Clock:    SystemClock{},
		wakeUpCh: make(chan struct{}, 1),
	}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	defer func() {
		if err := runner.Wait(); err != nil {
			glog.Errorf("loop runners: %v", err)
		}
	}()
	defer l.closeControllers()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step(ctx)
		case <-l.wakeUpCh:
			l.Step(ctx)
		}
	}
}

func (l *Loop) closeControllers() {
	for i := 0; i < PriorityLevels; i++ {
		for _, ctl := range l.controllers[i] {
			if closer, ok := ctl.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					glog.Errorf("controller close at level %d: %v", i, err)
				}
			}
		}
	}
}

// RunOrFail is intended to be used in main to simply run the loop.
func (l *Loop) RunOrFail() {
	if err := l.Run(context.Background()); err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}

// TriggerNext schedules the next iteration immediately after the current
// one. It is safe to call from any goroutine; it has no effect on a Loop
// not created by NewLoop until Run starts.
func (l *Loop) TriggerNext() {
	if l.wakeUpCh == nil {
		return
	}
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Step runs exactly one iteration synchronously. Run calls it on every
// tick; tests call it directly together with a ManualClock.
func (l *Loop) Step(ctx context.Context) {
	l.iteration++
	iter := &loopIteration{
		ctx:       ctx,
		time:      ClockOrSystem(l.Clock).Now(),
		iteration: l.iteration,
	}
	for i := 0; i < PriorityLevels; i++ {
		iter.priorityLevel = i
		for _, ctl := range l.controllers[i] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error at level %d: %v", i, err)
			}
		}
	}
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Time() time.Time {
	return t.time
}

func (t *loopIteration) PriorityLevel() int {
	return t.priorityLevel
}

func (t *loopIteration) Iteration() uint64 {
	return t.iteration
}
