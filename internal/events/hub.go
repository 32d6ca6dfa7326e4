// Package events 提供进程内的工作流事件总线
// 引擎产生的事件经由 Hub 广播给通知器和 WebSocket 订阅者
package events

import (
	"sync"

	"github.com/fisker/formflow-backend/internal/engine"
	"github.com/fisker/formflow-backend/pkg/logger"
	"github.com/fisker/formflow-backend/pkg/metrics"
)

// Handler 同步事件处理器，在发布协程中执行，不应阻塞
type Handler func(event engine.Event)

// Hub 进程内事件总线
// 订阅者分两类：带缓冲 channel（WebSocket 推流）和同步 Handler（通知器）
type Hub struct {
	mu       sync.RWMutex
	nextID   int
	channels map[int]chan engine.Event
	handlers []Handler
	closed   bool
}

func NewHub() *Hub {
	return &Hub{
		channels: make(map[int]chan engine.Event),
	}
}

// Publish 广播事件
// channel 订阅者写满时丢弃事件并记录日志，慢消费者不能拖慢分发路径
func (h *Hub) Publish(event engine.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}

	for _, handler := range h.handlers {
		handler(event)
	}

	for id, ch := range h.channels {
		select {
		case ch <- event:
		default:
			logger.Warnf("事件订阅者 %d 队列已满，丢弃事件 %s", id, event.Type)
		}
	}
}

// Subscribe 注册一个 channel 订阅者，返回取消函数
func (h *Hub) Subscribe() (<-chan engine.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan engine.Event, 64)
	h.channels[id] = ch
	metrics.EventSubscribers.Inc()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.channels[id]; ok {
			delete(h.channels, id)
			close(ch)
			metrics.EventSubscribers.Dec()
		}
	}
	return ch, cancel
}

// AddHandler 注册一个同步处理器
func (h *Hub) AddHandler(handler Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, handler)
}

// Close 关闭总线并断开所有订阅者
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.channels {
		delete(h.channels, id)
		close(ch)
		metrics.EventSubscribers.Dec()
	}
}
