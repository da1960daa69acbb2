package holomem

// ring is a fixed-capacity circular buffer over a preallocated array.
// Writes overwrite the oldest entry once the buffer is full, so eviction
// is O(1) with no reslicing or element shifting.
type ring[T any] struct {
	buf   []T
	head  int // next write position
	count int // valid entries, ≤ cap(buf)
}

func newRing[T any](capacity int) *ring[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &ring[T]{buf: make([]T, capacity)}
}

// push records v, overwriting the oldest entry when full.
func (r *ring[T]) push(v T) {
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

func (r *ring[T]) len() int {
	return r.count
}

// last returns up to n of the most recent entries, oldest first.
func (r *ring[T]) last(n int) []T {
	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, 0, n)
	start := r.head - n
	if start < 0 {
		start += len(r.buf)
	}
	for i := 0; i < n; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}
