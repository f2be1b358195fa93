package input

import (
	"bytes"
	"encoding/binary"
)

// EventSize is the size of a joystick event record.
const EventSize = 8

const (
	evINIT uint8 = 0x80
	evBTN  uint8 = 0x01
	evAXIS uint8 = 0x02
)

type event struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

func (e *event) IsInit() bool {
	return e.Type&evINIT != 0
}

func (e *event) Index() int {
	return int(e.Number)
}

type buttonEvent struct {
	event
}

func (e *buttonEvent) Pressed() bool {
	return e.Value != 0
}

// DecodeEvent decodes a joystick event record. Axis events are returned
// as plain Events.
func DecodeEvent(buf []byte) (Event, error) {
	var ev event
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &ev); err != nil {
		return nil, err
	}
	if ev.Type&(evBTN|evAXIS) == evBTN {
		return &buttonEvent{event: ev}, nil
	}
	return &ev, nil
}
