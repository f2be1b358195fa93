package alarm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pebdev/astro-alarm/pkg/imu"
)

// LinePrefix starts every alarm line sent to the peer.
const LinePrefix = "ALARM"

const lineFields = 9

// ErrNotAlarmLine is returned by ParseLine for lines of another kind.
var ErrNotAlarmLine = errors.New("not an alarm line")

// FormatLine serializes r as
// ALARM|<state>|<status>|<bx>|<by>|<bz>|<cx>|<cy>|<cz>.
func FormatLine(r Record) string {
	fields := make([]string, 0, lineFields)
	fields = append(fields, LinePrefix, r.State.String(), r.Status.String())
	for _, v := range append(r.Baseline.Slice(), r.Current.Slice()...) {
		fields = append(fields, strconv.FormatFloat(v, 'f', 3, 64))
	}
	return strings.Join(fields, "|")
}

// ParseLine parses a line produced by FormatLine.
func ParseLine(line string) (Record, error) {
	var r Record
	fields := strings.Split(strings.TrimSpace(line), "|")
	if fields[0] != LinePrefix {
		return r, ErrNotAlarmLine
	}
	if len(fields) != lineFields {
		return r, fmt.Errorf("alarm line: want %d fields, got %d", lineFields, len(fields))
	}
	var err error
	if r.State, err = parseState(fields[1]); err != nil {
		return r, err
	}
	if r.Status, err = parseStatus(fields[2]); err != nil {
		return r, err
	}
	var axes [6]float64
	for i := range axes {
		if axes[i], err = strconv.ParseFloat(fields[3+i], 64); err != nil {
			return r, fmt.Errorf("alarm line field %d: %w", 3+i, err)
		}
	}
	r.Baseline = imu.Vec3{X: axes[0], Y: axes[1], Z: axes[2]}
	r.Current = imu.Vec3{X: axes[3], Y: axes[4], Z: axes[5]}
	return r, nil
}

func parseState(s string) (State, error) {
	for i, name := range stateNames {
		if name == s {
			return State(i), nil
		}
	}
	return StateOff, fmt.Errorf("unknown alarm state %q", s)
}

func parseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if name == s {
			return Status(i), nil
		}
	}
	return StatusNotTriggered, fmt.Errorf("unknown alarm status %q", s)
}
