package mqtt

import "log"

// pendingMsg stores a serialized MQTT message for replay after reconnection.
type pendingMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// replayQueue is a fixed-capacity FIFO holding messages published while the
// broker is unreachable. When full, the oldest message is dropped so the
// newest presses survive. Not safe for concurrent use — caller must
// synchronize.
type replayQueue struct {
	buf      []pendingMsg
	capacity int
	next     int // next write position
	count    int
	dropping bool // logged once per overflow episode
}

func newReplayQueue(capacity int) *replayQueue {
	return &replayQueue{
		buf:      make([]pendingMsg, capacity),
		capacity: capacity,
	}
}

func (q *replayQueue) add(msg pendingMsg) {
	if q.count == q.capacity {
		if !q.dropping {
			log.Printf("mqtt: replay queue full (%d messages), dropping oldest", q.capacity)
			q.dropping = true
		}
		// next already points at the oldest entry; overwrite it
		q.buf[q.next] = msg
		q.next = (q.next + 1) % q.capacity
		return
	}
	q.buf[q.next] = msg
	q.next = (q.next + 1) % q.capacity
	q.count++
}

// takeAll removes and returns all queued messages, oldest first.
func (q *replayQueue) takeAll() []pendingMsg {
	if q.count == 0 {
		return nil
	}

	out := make([]pendingMsg, q.count)
	start := (q.next - q.count + q.capacity) % q.capacity
	for i := 0; i < q.count; i++ {
		out[i] = q.buf[(start+i)%q.capacity]
	}

	q.count = 0
	q.next = 0
	q.dropping = false
	return out
}

func (q *replayQueue) len() int {
	return q.count
}
