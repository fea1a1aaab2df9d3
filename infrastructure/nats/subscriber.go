package nats

import (
	"sync"

	"github.com/nats-io/nats.go"

	"taskmanager/pkg/logger"
)

// MessageHandler receives the subject and raw payload of every task event.
type MessageHandler func(subject string, data []byte)

// Subscriber listens on tasks.events.> with a core subscription, so each API
// instance sees every event (used to feed local WebSocket clients).
type Subscriber struct {
	conn       *nats.Conn
	sub        *nats.Subscription
	handlers   []MessageHandler
	handlersMu sync.RWMutex
	running    bool
	runningMu  sync.Mutex
}

func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{
		conn:     conn,
		handlers: make([]MessageHandler, 0),
	}
}

func (s *Subscriber) OnMessage(handler MessageHandler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *Subscriber) Start() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return nil
	}

	sub, err := s.conn.Subscribe(SubjectAll, s.handleMessage)
	if err != nil {
		return err
	}
	s.sub = sub
	s.running = true

	logger.Info("NATS subscriber started", "subject", SubjectAll)
	return nil
}

func (s *Subscriber) handleMessage(msg *nats.Msg) {
	s.handlersMu.RLock()
	handlers := s.handlers
	s.handlersMu.RUnlock()

	for _, handler := range handlers {
		func(h MessageHandler) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Event handler panicked", "subject", msg.Subject, "error", r)
				}
			}()
			h(msg.Subject, msg.Data)
		}(handler)
	}
}

func (s *Subscriber) Stop() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if !s.running || s.sub == nil {
		return nil
	}

	s.running = false
	return s.sub.Unsubscribe()
}
