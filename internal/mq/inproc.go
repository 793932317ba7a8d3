package mq

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// InprocBus dispatches events to handlers registered in the same process. It
// exists for the memory storage mode, where the whole system runs as one
// binary with no broker.
type InprocBus struct {
	mu       sync.RWMutex
	handlers map[string][]MessageHandler
	logger   *zap.Logger
}

func NewInprocBus(logger *zap.Logger) *InprocBus {
	return &InprocBus{
		handlers: make(map[string][]MessageHandler),
		logger:   logger,
	}
}

func (b *InprocBus) Subscribe(routingKey string, h MessageHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[routingKey] = append(b.handlers[routingKey], h)
}

// Publish runs every handler for the key on the calling goroutine so that the
// side effects of an event are visible as soon as Publish returns. Handler
// errors are logged, matching the broker consumer's best-effort contract.
func (b *InprocBus) Publish(routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.mu.RLock()
	handlers := b.handlers[routingKey]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(context.Background(), body); err != nil {
			b.logger.Error("Inproc handler error",
				zap.String("routing_key", routingKey),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (b *InprocBus) Close() {}
