package event

import (
	"sync"
	"sync/atomic"

	"CardBattle/modules/kit/logx"

	"go.uber.org/zap"
)

// Hub 把一场战斗的事件扇出给多个订阅者（ws 连接等）。
// 发布永不阻塞：订阅者缓冲满时丢弃该事件并计数。
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscriber
	nextID uint64
	buffer int
	closed bool
	log    logx.Logger
}

type subscriber struct {
	ch      chan Envelope
	dropped atomic.Uint64
}

func NewHub(buffer int, l logx.Logger) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		subs:   make(map[uint64]*subscriber),
		buffer: buffer,
		log:    logx.OrNop(l),
	}
}

// Subscribe 返回事件通道和取消函数；Hub 关闭后通道随之关闭。
func (h *Hub) Subscribe() (<-chan Envelope, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan Envelope, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.nextID++
	id := h.nextID
	h.subs[id] = &subscriber{ch: ch}
	var once sync.Once
	return ch, func() {
		once.Do(func() { h.unsubscribe(id) })
	}
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(s.ch)
	}
}

func (h *Hub) Publish(batch ...Envelope) {
	if len(batch) == 0 {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, s := range h.subs {
		for _, env := range batch {
			select {
			case s.ch <- env:
			default:
				n := s.dropped.Add(1)
				h.log.Warn("battle event dropped, subscriber too slow",
					zap.Uint64("subscriber", id),
					zap.Uint64("seq", env.Seq),
					zap.String("type", string(env.Type)),
					zap.Uint64("dropped", n))
			}
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, s := range h.subs {
		delete(h.subs, id)
		close(s.ch)
	}
}
