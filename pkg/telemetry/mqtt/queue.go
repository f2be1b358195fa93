// Package mqtt publishes device telemetry to an MQTT broker and lets
// monitoring tools subscribe to it.
package mqtt

import (
	"container/list"
	"fmt"
	"net/url"
	"strings"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is called for every received message, with the topic relative
// to the queue prefix.
type Handler func(topic string, payload []byte)

// Queue wraps a paho client with a topic prefix and local dispatching.
type Queue struct {
	Client      paho.Client
	TopicPrefix string
	// OnConnect is called after every (re)connection.
	OnConnect func(*Queue)

	subsLock sync.RWMutex
	subs     map[string]*list.List
}

// Subscription is a registered handler.
type Subscription struct {
	Token paho.Token

	queue   *Queue
	elm     *list.Element
	pattern string
	handler Handler
}

// MatchTopic matches a topic against a pattern with + and # wildcards.
func MatchTopic(topic, pattern string) bool {
	tokensT, tokensP := strings.Split(topic, "/"), strings.Split(pattern, "/")
	for i, token := range tokensP {
		if token == "#" && i+1 == len(tokensP) {
			return true
		}
		if i >= len(tokensT) {
			return false
		}
		if token != "+" && token != tokensT[i] {
			return false
		}
	}
	return len(tokensP) == len(tokensT)
}

// ClientOptionsFromURL parses mqtt://[user:pass@]host:port/prefix/?client-id=id.
// The path becomes the topic prefix.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid broker URL: %w", err)
	}
	if u.Host == "" {
		return nil, "", fmt.Errorf("invalid broker URL %q: missing host", serverURL)
	}
	scheme := u.Scheme
	if scheme == "" || scheme == "mqtt" {
		scheme = "tcp"
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(scheme + "://" + u.Host).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}
	return opts, strings.TrimPrefix(u.Path, "/"), nil
}

// NewQueue creates a Queue.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix}
	options.SetOnConnectHandler(q.onConnect)
	options.SetConnectionLostHandler(q.onConnectionLost)
	q.Client = paho.NewClient(options)
	return q
}

// NewQueueFromURL creates a Queue from a broker URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewQueue(opts, topicPrefix), nil
}

// Connect starts connecting. The client reconnects automatically.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// Connected indicates the client is connected to the broker.
func (q *Queue) Connected() bool {
	return q.Client.IsConnected()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(250)
	return nil
}

// Pub publishes a transient message.
func (q *Queue) Pub(topic string, payload []byte) paho.Token {
	return q.PubWith(topic, payload, 0, false)
}

// PubWith publishes with QoS and retain settings.
func (q *Queue) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	if glog.V(4) {
		glog.Infof("PUB %q %d bytes", q.TopicPrefix+topic, len(payload))
	}
	return q.Client.Publish(q.TopicPrefix+topic, qos, retain, payload)
}

// Sub registers a handler for a topic pattern. The broker subscription is
// issued for the first handler of a pattern only.
func (q *Queue) Sub(pattern string, handler Handler) *Subscription {
	q.subsLock.Lock()
	if q.subs == nil {
		q.subs = make(map[string]*list.List)
	}
	lst := q.subs[pattern]
	newSub := lst == nil
	if newSub {
		lst = list.New()
		q.subs[pattern] = lst
	}
	sub := &Subscription{queue: q, pattern: pattern, handler: handler}
	sub.elm = lst.PushBack(sub)
	q.subsLock.Unlock()

	if newSub {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+pattern)
		sub.Token = q.Client.Subscribe(q.TopicPrefix+pattern, 0, q.dispatch)
	} else {
		sub.Token = &paho.DummyToken{}
	}
	return sub
}

// Resubscribe subscribes every registered pattern again, after a
// reconnection with a clean session.
func (q *Queue) Resubscribe() paho.Token {
	filters := make(map[string]byte)
	q.subsLock.RLock()
	for pattern := range q.subs {
		filters[q.TopicPrefix+pattern] = 0
	}
	q.subsLock.RUnlock()
	if len(filters) == 0 {
		return &paho.DummyToken{}
	}
	return q.Client.SubscribeMultiple(filters, q.dispatch)
}

func (q *Queue) onConnect(paho.Client) {
	glog.Info("mqtt connected")
	q.Resubscribe()
	if h := q.OnConnect; h != nil {
		h(q)
	}
}

func (q *Queue) onConnectionLost(_ paho.Client, err error) {
	glog.Warningf("mqtt connection lost: %v", err)
}

func (q *Queue) dispatch(_ paho.Client, msg paho.Message) {
	topic := msg.Topic()
	if !strings.HasPrefix(topic, q.TopicPrefix) {
		return
	}
	topic = topic[len(q.TopicPrefix):]
	glog.V(4).Infof("RCV %q", topic)
	var handlers []Handler
	q.subsLock.RLock()
	for pattern, lst := range q.subs {
		if !MatchTopic(topic, pattern) {
			continue
		}
		for elm := lst.Front(); elm != nil; elm = elm.Next() {
			handlers = append(handlers, elm.Value.(*Subscription).handler)
		}
	}
	q.subsLock.RUnlock()
	payload := msg.Payload()
	for _, h := range handlers {
		h(topic, payload)
	}
}

// Close removes the handler, unsubscribing the pattern with the last one.
func (s *Subscription) Close() error {
	q := s.queue
	q.subsLock.Lock()
	lst := q.subs[s.pattern]
	unsub := false
	if lst != nil {
		lst.Remove(s.elm)
		if unsub = lst.Len() == 0; unsub {
			delete(q.subs, s.pattern)
		}
	}
	q.subsLock.Unlock()
	if !unsub {
		return nil
	}
	glog.V(2).Infof("UNSUB %q", q.TopicPrefix+s.pattern)
	token := q.Client.Unsubscribe(q.TopicPrefix + s.pattern)
	token.Wait()
	return token.Error()
}
