// Package status broadcasts load and save progress of opened project
// to websocket clients of web browser.
package status

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Kind int

const (
	INFO Kind = iota
	ERROR
	PROGRESS
)

type Message struct {
	Message  string
	Time     time.Time
	Type     Kind
	Progress float64
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

const (
	pingPeriod   = 30 * time.Second
	writeTimeout = 40 * time.Second
)

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		unsubscribe(c.send)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

// readPump drains control frames until connection is closed
func (c *client) readPump() {
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			c.conn.Close()
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS upgrades request and streams status messages to it
func ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[status] ws upgrade error: %v", err)
		return
	}
	c := &client{conn: conn, send: Subscribe()}
	go c.writePump()
	go c.readPump()
}

var (
	globalLock    sync.Mutex
	subscribers   = make(map[chan []byte]bool)
	lastMessage   []byte
	lastProgress  = -1.0
	lastBroadcast time.Time
)

// Subscribe returns channel receiving every next message, starting with last sent one
func Subscribe() chan []byte {
	ch := make(chan []byte, 32)
	globalLock.Lock()
	defer globalLock.Unlock()
	subscribers[ch] = true
	if lastMessage != nil {
		ch <- lastMessage
	}
	return ch
}

func unsubscribe(ch chan []byte) {
	globalLock.Lock()
	defer globalLock.Unlock()
	delete(subscribers, ch)
}

func broadcast(s *Message) {
	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("[status] marshal error: %v", err)
		return
	}
	globalLock.Lock()
	defer globalLock.Unlock()
	lastMessage = data
	for ch := range subscribers {
		select {
		case ch <- data:
		default:
			// slow client misses message
		}
	}
}

func Status(msg string, kind Kind, progress float64) {
	if math.IsNaN(progress) || math.IsInf(progress, 0) {
		progress = 0
	}
	broadcast(&Message{
		Message:  msg,
		Time:     time.Now(),
		Type:     kind,
		Progress: progress,
	})
}

func Info(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), INFO, 0)
}

func Error(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), ERROR, 0)
}

func Progress(progress float64, format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), PROGRESS, progress)
}

// ProgressReporter returns callback suitable for gmk.File.OnProgress.
// Updates are sent at most every 100ms, start and end are always sent.
func ProgressReporter(operation string) func(float64) {
	return func(p float64) {
		globalLock.Lock()
		skip := p > 0 && p < 1 &&
			(p == lastProgress || time.Since(lastBroadcast) < 100*time.Millisecond)
		if !skip {
			lastProgress = p
			lastBroadcast = time.Now()
		}
		globalLock.Unlock()
		if !skip {
			Progress(p, "%s %.0f%%", operation, p*100)
		}
	}
}
