package events

import "github.com/atomicstack/declui/internal/logging"

type QueueTracer struct{}

var Queue = QueueTracer{}

func (QueueTracer) Enqueue(pending int) {
	logging.Trace("queue.enqueue", map[string]interface{}{"pending": pending})
}

func (QueueTracer) Drain(ran int) {
	logging.Trace("queue.drain", map[string]interface{}{"ran": ran})
}

func (QueueTracer) ProxyRebind() {
	logging.Trace("queue.proxy.rebind", nil)
}
