package swap

import "container/heap"

// chronoQueue is a min-heap of arena indices keyed by period start. Equal starts
// keep arena order, so a fixed period precedes a floating one.
type chronoQueue struct {
	idx     []int
	periods []PaymentPeriod
}

func (q *chronoQueue) Len() int { return len(q.idx) }

func (q *chronoQueue) Less(i, j int) bool {
	a, b := q.idx[i], q.idx[j]
	if c := q.periods[a].Since().Compare(q.periods[b].Since()); c != 0 {
		return c < 0
	}
	return a < b
}

func (q *chronoQueue) Swap(i, j int) { q.idx[i], q.idx[j] = q.idx[j], q.idx[i] }
func (q *chronoQueue) Push(x any)    { q.idx = append(q.idx, x.(int)) }

func (q *chronoQueue) Pop() any {
	n := len(q.idx)
	x := q.idx[n-1]
	q.idx = q.idx[:n-1]
	return x
}

// linkChronologically stitches Prev/Next over periods and returns the head and tail
// indices, both NoLink when periods is empty.
func linkChronologically(periods []PaymentPeriod) (head, tail int) {
	q := &chronoQueue{idx: make([]int, 0, len(periods)), periods: periods}
	for i := range periods {
		q.idx = append(q.idx, i)
	}
	heap.Init(q)

	head, tail = NoLink, NoLink
	for q.Len() > 0 {
		cur := heap.Pop(q).(int)
		periods[cur].Prev = tail
		periods[cur].Next = NoLink
		if tail == NoLink {
			head = cur
		} else {
			periods[tail].Next = cur
		}
		tail = cur
	}
	return head, tail
}
