package event

import "sync"

// Sink 引擎发事件的出口，实现方不得阻塞。
type Sink interface {
	Emit(e Event)
}

// Queue 无界 FIFO：Emit 永不阻塞，消费方按需 Drain。
type Queue struct {
	mu      sync.Mutex
	pending []Envelope
	seq     uint64
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Emit(e Event) {
	if e == nil {
		return
	}
	q.mu.Lock()
	q.seq++
	q.pending = append(q.pending, Envelope{Seq: q.seq, Type: e.Type(), Payload: e})
	q.mu.Unlock()
}

// Drain 取走当前全部待消费事件（FIFO）。
func (q *Queue) Drain() []Envelope {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Recorder 把事件原样记下来，测试和批量模拟用。
type Recorder struct {
	Events []Event
}

func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

// Of 按类型过滤。
func Of[T Event](events []Event) []T {
	var out []T
	for _, e := range events {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Tee 同时写多个 Sink。
type Tee []Sink

func (t Tee) Emit(e Event) {
	for _, s := range t {
		s.Emit(e)
	}
}
