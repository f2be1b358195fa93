// Package device wires the inclinometer, the tilt alarm and the peer link
// into one loop controller, the Monitor, and drives the display, beeper
// and backlight collaborators from it.
package device
