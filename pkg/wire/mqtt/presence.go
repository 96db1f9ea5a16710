package mqtt

import (
	"encoding/json"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const presencePrefix = "nic/"

// NicRecord is the retained presence record of a running NIC.
type NicRecord struct {
	Node    string `json:"node"`
	Address string `json:"address"`
	Mtu     int    `json:"mtu"`
	Segment string `json:"segment"`
}

// NewPresenceQueue builds a Queue from brokerURL whose last will
// clears node's retained presence record when the connection dies.
func NewPresenceQueue(brokerURL, node string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+presencePrefix+node, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("emac:" + node)
	}
	return NewQueue(opts, topicPrefix), nil
}

// Announce publishes the retained presence record. Call it from
// OnConnect so reconnects refresh the record.
func (q *Queue) Announce(rec NicRecord) paho.Token {
	data, err := json.Marshal(&rec)
	if err != nil {
		panic(err)
	}
	return q.PubWith(presencePrefix+rec.Node, data, 1, true)
}

// Withdraw clears the retained presence record on shutdown.
func (q *Queue) Withdraw(node string) paho.Token {
	return q.PubWith(presencePrefix+node, nil, 1, true)
}
