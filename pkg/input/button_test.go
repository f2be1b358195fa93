package input

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func encodeEvent(value int16, typ, number uint8) []byte {
	buf := make([]byte, EventSize)
	binary.LittleEndian.PutUint32(buf, 1234)
	binary.LittleEndian.PutUint16(buf[4:], uint16(value))
	buf[6], buf[7] = typ, number
	return buf
}

func TestDecodeEvent(t *testing.T) {
	testCases := []struct {
		name    string
		buf     []byte
		button  bool
		pressed bool
		init    bool
		index   int
	}{
		{"press", encodeEvent(1, evBTN, 3), true, true, false, 3},
		{"release", encodeEvent(0, evBTN, 3), true, false, false, 3},
		{"init", encodeEvent(1, evBTN|evINIT, 0), true, true, true, 0},
		{"axis", encodeEvent(-32767, evAXIS, 1), false, false, false, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := DecodeEvent(tc.buf)
			require.NoError(t, err)
			require.Equal(t, tc.index, ev.Index())
			require.Equal(t, tc.init, ev.IsInit())
			btn, ok := ev.(ButtonEvent)
			require.Equal(t, tc.button, ok)
			if ok {
				require.Equal(t, tc.pressed, btn.Pressed())
			}
		})
	}
	_, err := DecodeEvent([]byte{1, 2})
	require.Error(t, err)
}

type fakeDevice struct {
	events chan Event
	closed chan struct{}
}

func (d *fakeDevice) Close() error {
	select {
	case <-d.closed:
	default:
		close(d.closed)
	}
	return nil
}

func (d *fakeDevice) Index() int       { return 0 }
func (d *fakeDevice) Name() string     { return "fake" }
func (d *fakeDevice) ButtonCount() int { return 4 }

func (d *fakeDevice) ReadEvent() (Event, error) {
	select {
	case ev := <-d.events:
		return ev, nil
	case <-d.closed:
		return nil, io.EOF
	}
}

func mustDecode(t *testing.T, buf []byte) Event {
	ev, err := DecodeEvent(buf)
	require.NoError(t, err)
	return ev
}

func TestJoystickButton(t *testing.T) {
	dev := &fakeDevice{events: make(chan Event), closed: make(chan struct{})}
	opens := 0
	b := NewJoystickButton(0, 2)
	b.Open = func(int) (Device, error) {
		opens++
		if opens == 1 {
			return dev, nil
		}
		return nil, errors.New("gone")
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- b.Run(ctx) }()

	dev.events <- mustDecode(t, encodeEvent(1, evBTN, 1))
	require.False(t, b.Pressed())
	dev.events <- mustDecode(t, encodeEvent(1, evBTN, 2))
	require.Eventually(t, b.Pressed, time.Second, time.Millisecond)
	dev.events <- mustDecode(t, encodeEvent(0, evBTN, 2))
	require.Eventually(t, func() bool { return !b.Pressed() }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("button did not stop")
	}
	<-dev.closed
}

func TestSwitch(t *testing.T) {
	var s Switch
	require.False(t, s.Pressed())
	s.Set(true)
	require.True(t, s.Pressed())
}
