package main

import (
	"flag"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/iromero91/emac.go/pkg/diag"
	"github.com/iromero91/emac.go/pkg/env"
	"github.com/iromero91/emac.go/pkg/frame"
	"github.com/iromero91/emac.go/pkg/wire/mqtt"
)

var (
	mqttURL     string
	topicPrefix string
	nicName     string
	showFrames  bool
)

func init() {
	mqttURL = env.MqttURL()
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&topicPrefix, "topic-prefix", "", "Override the topic prefix from the URL.")
	flag.StringVar(&nicName, "nic", "", "Watch a single NIC only.")
	flag.BoolVar(&showFrames, "frames", false, "Watch raw segment traffic too.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if topicPrefix != "" {
		q.TopicPrefix = topicPrefix
	}

	pattern := "diag/#"
	if nicName != "" {
		pattern = "diag/" + nicName + "/#"
	}
	q.Sub(pattern, mqtt.Handler(func(topic string, payload []byte) {
		typed, err := diag.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		log.Printf("%s: [%s] %s", topic,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
			msg.Serializable().String())
	}))

	q.Sub("nic/#", mqtt.Handler(func(topic string, payload []byte) {
		node := strings.TrimPrefix(topic, "nic/")
		if len(payload) == 0 {
			log.Printf("nic %s gone", node)
			return
		}
		log.Printf("nic %s: %s", node, string(payload))
	}))

	if showFrames {
		q.Sub("seg/#", mqtt.Handler(func(topic string, payload []byte) {
			f, err := frame.Parse(payload)
			if err != nil {
				log.Printf("%s: %d bytes, %v", topic, len(payload), err)
				return
			}
			log.Printf("%s: %v", topic, f)
		}))
	}

	if err := q.ConnectWait(30 * time.Second); err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
