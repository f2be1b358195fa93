package main

import (
	"flag"
	"log"
	"os"

	"github.com/pebdev/astro-alarm/pkg/telemetry"
	"github.com/pebdev/astro-alarm/pkg/telemetry/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/astro/"
)

func init() {
	if val := os.Getenv("ASTRO_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		line, err := telemetry.Describe(topic, payload)
		if err != nil {
			log.Printf("%s: %v", topic, err)
			return
		}
		log.Printf("%s: %s", topic, line)
	}))
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
