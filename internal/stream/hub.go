// Package stream fans telemetry and analyses out to WebSocket clients.
package stream

import "sync/atomic"

// sendBuffer is the number of frames queued per subscriber before frames
// are dropped for it.
const sendBuffer = 32

// Subscriber abstracts a streaming client.
type Subscriber interface {
	Send([]byte) error
	Close()
}

// AllVehicles is the topic of subscribers that receive every vehicle.
const AllVehicles = ""

// Hub manages stream subscriptions by vehicle id.
type Hub struct {
	clients   map[string]map[Subscriber]*peer
	register  chan subscription
	unreg     chan subscription
	broadcast chan message
	count     chan chan int
	done      chan struct{}
	dropped   atomic.Int64
}

// message couples payload with vehicle identifier.
type message struct {
	vehicleID string
	payload   []byte
}

// subscription defines register/unregister requests.
type subscription struct {
	vehicleID string
	client    Subscriber
}

// peer owns the outbound queue of one subscription. A slow subscriber
// only stalls its own pump.
type peer struct {
	client Subscriber
	send   chan []byte
}

func (p *peer) pump(h *Hub, vehicleID string) {
	failed := false
	for payload := range p.send {
		if failed {
			continue
		}
		if err := p.client.Send(payload); err != nil {
			failed = true
			p.client.Close()
			h.Unregister(vehicleID, p.client)
		}
	}
}

// NewHub creates an initialized Hub.
func NewHub() *Hub {
	h := &Hub{
		clients:   make(map[string]map[Subscriber]*peer),
		register:  make(chan subscription),
		unreg:     make(chan subscription),
		broadcast: make(chan message, 64),
		count:     make(chan chan int),
		done:      make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case sub := <-h.register:
			clients, ok := h.clients[sub.vehicleID]
			if !ok {
				clients = make(map[Subscriber]*peer)
				h.clients[sub.vehicleID] = clients
			}
			if _, dup := clients[sub.client]; dup {
				continue
			}
			p := &peer{client: sub.client, send: make(chan []byte, sendBuffer)}
			clients[sub.client] = p
			go p.pump(h, sub.vehicleID)
		case sub := <-h.unreg:
			h.drop(sub.vehicleID, sub.client)
		case msg := <-h.broadcast:
			h.deliver(msg.vehicleID, msg.payload)
			if msg.vehicleID != AllVehicles {
				h.deliver(AllVehicles, msg.payload)
			}
		case reply := <-h.count:
			n := 0
			for _, clients := range h.clients {
				n += len(clients)
			}
			reply <- n
		case <-h.done:
			for _, clients := range h.clients {
				for c, p := range clients {
					close(p.send)
					c.Close()
				}
			}
			return
		}
	}
}

func (h *Hub) deliver(vehicleID string, payload []byte) {
	clients, ok := h.clients[vehicleID]
	if !ok {
		return
	}
	for _, p := range clients {
		select {
		case p.send <- payload:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *Hub) drop(vehicleID string, client Subscriber) {
	if clients, ok := h.clients[vehicleID]; ok {
		if p, ok := clients[client]; ok {
			close(p.send)
			delete(clients, client)
		}
		if len(clients) == 0 {
			delete(h.clients, vehicleID)
		}
	}
}

// Register adds a client to a vehicle stream. AllVehicles subscribes to
// every vehicle.
func (h *Hub) Register(vehicleID string, client Subscriber) {
	select {
	case h.register <- subscription{vehicleID: vehicleID, client: client}:
	case <-h.done:
	}
}

// Unregister removes a client.
func (h *Hub) Unregister(vehicleID string, client Subscriber) {
	select {
	case h.unreg <- subscription{vehicleID: vehicleID, client: client}:
	case <-h.done:
	}
}

// Broadcast sends payload to the subscribers of vehicleID and to
// AllVehicles subscribers.
func (h *Hub) Broadcast(vehicleID string, payload []byte) {
	select {
	case h.broadcast <- message{vehicleID: vehicleID, payload: payload}:
	case <-h.done:
	}
}

// Clients returns the number of registered subscribers.
func (h *Hub) Clients() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Dropped returns how many frames were discarded because a subscriber's
// queue was full.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

// Close disconnects every client and stops the hub.
func (h *Hub) Close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}
