package aggregator

// blockRange is an inclusive, closed sub-interval of blocks pending harvest.
type blockRange struct {
	start, end uint64
}

func (r blockRange) size() uint64 { return r.end - r.start + 1 }

// rangeHeap is a container/heap.Interface ordered largest-range-first, so
// the worst offenders are attacked (and split) before the queue saturates.
type rangeHeap []*blockRange

func (h rangeHeap) Len() int { return len(h) }

func (h rangeHeap) Less(i, j int) bool {
	if h[i].size() != h[j].size() {
		return h[i].size() > h[j].size()
	}
	return h[i].start < h[j].start
}

func (h rangeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rangeHeap) Push(x any) {
	*h = append(*h, x.(*blockRange))
}

func (h *rangeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
