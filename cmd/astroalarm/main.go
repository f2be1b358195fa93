package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/pebdev/astro-alarm/pkg/device"
	"github.com/pebdev/astro-alarm/pkg/display/ws"
	fx "github.com/pebdev/astro-alarm/pkg/framework"
	"github.com/pebdev/astro-alarm/pkg/telemetry"
	"github.com/pebdev/astro-alarm/pkg/telemetry/mqtt"
)

var version = "dev"

func init() {
	device.SetupFlags()
	mqtt.SetupFlags()
	ws.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := device.NewConfig()
	loop := fx.NewLoop()
	loop.Interval = conf.LoopInterval
	m := conf.MustNewMonitor(loop.Clock)
	loop.Add(m)

	if feed := ws.Default().NewFeed(); feed != nil {
		m.Display = device.Displays{m.Display, feed}
		loop.AddRunnable(feed)
	}
	meta := telemetry.Meta{DeviceID: conf.ID, Role: conf.PeerRole, Version: version}
	if pub := mqtt.Default().MustNewPublisher(meta, m); pub != nil {
		loop.Add(pub)
	}

	glog.Infof("astro-alarm %s, device %s", version, conf.ID)
	if err := fx.NewRunner().HandleSignals().Go(loop).Wait(); err != nil {
		glog.Error(err)
		glog.Flush()
		os.Exit(1)
	}
}
