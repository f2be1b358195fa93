package main

import (
	"github.com/pebdev/astro-alarm/pkg/cli/sh"
	"github.com/pebdev/astro-alarm/pkg/device"
)

//go-build: CGO_ENABLED=0

func init() {
	device.SetupFlags()
}

func main() {
	sh.Main()
}
