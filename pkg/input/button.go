package input

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// ReopenInterval is the delay before reopening a missing or failed device.
const ReopenInterval = time.Second

// JoystickButton tracks the level of one joystick button. Run reads the
// device in the background; Pressed is safe from any goroutine.
type JoystickButton struct {
	DeviceIndex int
	ButtonIndex int
	// Open opens the device, Open of this package by default.
	Open func(index int) (Device, error)

	pressed int32
}

// NewJoystickButton creates a JoystickButton.
func NewJoystickButton(deviceIndex, buttonIndex int) *JoystickButton {
	return &JoystickButton{DeviceIndex: deviceIndex, ButtonIndex: buttonIndex, Open: Open}
}

// Name implements Named.
func (b *JoystickButton) Name() string {
	return "button"
}

// Pressed implements Button.
func (b *JoystickButton) Pressed() bool {
	return atomic.LoadInt32(&b.pressed) != 0
}

func (b *JoystickButton) set(pressed bool) {
	var v int32
	if pressed {
		v = 1
	}
	atomic.StoreInt32(&b.pressed, v)
}

// Run implements Runnable. The device is reopened after failures until
// ctx is done.
func (b *JoystickButton) Run(ctx context.Context) error {
	for {
		dev, err := b.Open(b.DeviceIndex)
		if err != nil {
			glog.V(2).Infof("button: open joystick %d: %v", b.DeviceIndex, err)
		} else {
			glog.Infof("button: joystick %d %q opened", dev.Index(), dev.Name())
			b.poll(ctx, dev)
		}
		b.set(false)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ReopenInterval):
		}
	}
}

func (b *JoystickButton) poll(ctx context.Context, dev Device) {
	stopCh := make(chan struct{})
	defer close(stopCh)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopCh:
		}
		dev.Close()
	}()
	for {
		ev, err := dev.ReadEvent()
		if err != nil {
			if ctx.Err() == nil {
				glog.Warningf("button: read error: %v", err)
			}
			return
		}
		if btn, ok := ev.(ButtonEvent); ok && btn.Index() == b.ButtonIndex {
			b.set(btn.Pressed())
		}
	}
}

// Switch is a Button set by hand.
type Switch struct {
	pressed int32
}

// Set changes the level.
func (s *Switch) Set(pressed bool) {
	var v int32
	if pressed {
		v = 1
	}
	atomic.StoreInt32(&s.pressed, v)
}

// Pressed implements Button.
func (s *Switch) Pressed() bool {
	return atomic.LoadInt32(&s.pressed) != 0
}
