// Package aggregator implements the Range-Splitting Aggregator: a bounded
// worker pool that harvests every record a range-scoped LogicalMethod would
// return over a block interval, adapting to an unknown record density by
// bisecting sub-ranges that saturate the provider's page-size ceiling.
//
// Work is fanned out as a WaitGroup-counted dynamic task graph fed from a
// priority queue of sub-ranges and bounded by a semaphore; cancellation is
// signalled to the scheduler and workers through a stop channel.
package aggregator

import (
	"container/heap"
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/certen/evmscan/client"
	"github.com/certen/evmscan/provider"
)

// FailureMode selects what happens when a sub-range's call fails after the
// retry policy gives up.
type FailureMode int

const (
	// Strict aborts the whole harvest and raises PartialHarvest. Default.
	Strict FailureMode = iota
	// Lenient records the failure in Result.Failures and continues.
	Lenient
)

// Options configures a Harvest call.
type Options struct {
	// Concurrency bounds the number of in-flight requests. Defaults to 4.
	Concurrency int
	// PageSize is the provider's per-page record ceiling P. Required.
	PageSize int
	// Mode selects strict or lenient failure handling. Defaults to Strict.
	Mode FailureMode
}

// RangeFailure records one sub-range's terminal failure in lenient mode.
type RangeFailure struct {
	Start, End uint64
	Err        error
}

// Result is a Harvest call's output.
type Result struct {
	Records  []Record
	Canceled bool
	Failures []RangeFailure
}

// Harvest collects every record method returns for address over the
// inclusive interval [start, end], bisecting sub-ranges whose first page
// saturates opts.PageSize. method must be one of the RangeScopedMethods.
func Harvest(ctx context.Context, c *client.Client, method provider.LogicalMethod, address string, start, end uint64, opts Options) (*Result, error) {
	if !provider.RangeScopedMethods[method] {
		return nil, provider.NewError(provider.KindInvalidArgument, c.Adapter().Name(), c.Chain().DisplayName, method).
			WithErr(fmt.Errorf("aggregator: %s is not a range-scoped method", method))
	}
	if opts.PageSize <= 0 {
		return nil, provider.NewError(provider.KindInvalidArgument, c.Adapter().Name(), c.Chain().DisplayName, method).
			WithErr(fmt.Errorf("aggregator: PageSize must be positive"))
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if start > end {
		return nil, provider.NewError(provider.KindInvalidArgument, c.Adapter().Name(), c.Chain().DisplayName, method).
			WithErr(fmt.Errorf("aggregator: start %d is after end %d", start, end))
	}

	h := &harvest{
		ctx:     ctx,
		client:  c,
		method:  method,
		address: address,
		opts:    opts,
		stopCh:  make(chan struct{}),
		sem:     make(chan struct{}, opts.Concurrency),
	}
	return h.run(start, end)
}

type harvest struct {
	ctx     context.Context
	client  *client.Client
	method  provider.LogicalMethod
	address string
	opts    Options

	mu         sync.Mutex
	pq         rangeHeap
	outstanding int
	allDone    bool
	cond       *sync.Cond

	sem    chan struct{}
	stopCh chan struct{}
	stopOnce sync.Once

	resultMu sync.Mutex
	records  []Record
	failures []RangeFailure
	seq      int
	firstErr error
	canceled bool

	wg sync.WaitGroup
}

func (h *harvest) run(start, end uint64) (*Result, error) {
	h.cond = sync.NewCond(&h.mu)

	h.mu.Lock()
	heap.Push(&h.pq, &blockRange{start: start, end: end})
	h.outstanding = 1
	h.mu.Unlock()

	go h.watchCancellation()
	h.feed()
	h.wg.Wait()

	h.resultMu.Lock()
	defer h.resultMu.Unlock()

	if h.firstErr != nil {
		return nil, h.firstErr
	}

	return &Result{
		Records:  dedupAndSort(h.records),
		Canceled: h.canceled,
		Failures: h.failures,
	}, nil
}

func (h *harvest) watchCancellation() {
	select {
	case <-h.ctx.Done():
		h.resultMu.Lock()
		h.canceled = true
		h.resultMu.Unlock()
		h.stop()
	case <-h.stopCh:
	}
}

func (h *harvest) stop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
}

// feed is the scheduler loop: it owns the priority queue and hands ranges
// to worker goroutines as concurrency permits allow, until every range has
// resolved (outstanding reaches zero) or the harvest has been stopped.
func (h *harvest) feed() {
	for {
		h.mu.Lock()
		for h.pq.Len() == 0 && !h.allDone {
			h.cond.Wait()
		}
		if h.pq.Len() == 0 && h.allDone {
			h.mu.Unlock()
			return
		}
		r := heap.Pop(&h.pq).(*blockRange)
		h.mu.Unlock()

		select {
		case <-h.stopCh:
			h.resolve(-1)
			continue
		default:
		}

		select {
		case h.sem <- struct{}{}:
		case <-h.stopCh:
			h.resolve(-1)
			continue
		}

		h.wg.Add(1)
		go h.process(r)
	}
}

// resolve adjusts the outstanding counter by delta (delta is -1 for a
// terminal range, +1 net for a split that replaces one range with two) and
// wakes the scheduler.
func (h *harvest) resolve(delta int) {
	h.mu.Lock()
	h.outstanding += delta
	if h.outstanding == 0 {
		h.allDone = true
	}
	h.cond.Broadcast()
	h.mu.Unlock()
}

func (h *harvest) process(r *blockRange) {
	defer h.wg.Done()
	defer func() { <-h.sem }()

	select {
	case <-h.stopCh:
		h.resolve(-1)
		return
	default:
	}

	recs, err := h.fetchPage(r.start, r.end, 1)
	if err != nil {
		h.fail(r, err)
		h.resolve(-1)
		return
	}

	switch {
	case len(recs) < h.opts.PageSize:
		h.append(recs)
		h.resolve(-1)

	case r.size() > 1:
		mid := r.start + (r.end-r.start)/2
		left := &blockRange{start: r.start, end: mid}
		right := &blockRange{start: mid + 1, end: r.end}

		h.mu.Lock()
		heap.Push(&h.pq, left)
		heap.Push(&h.pq, right)
		h.cond.Broadcast()
		h.mu.Unlock()
		h.resolve(1) // net effect: -1 for r, +2 for its children

	default:
		// Exactly PageSize records and a single block: the block
		// itself exceeds the page ceiling. Paginate within it.
		all := recs
		for page := 2; len(recs) == h.opts.PageSize; page++ {
			select {
			case <-h.stopCh:
				h.resolve(-1)
				return
			default:
			}
			var err error
			recs, err = h.fetchPage(r.start, r.end, page)
			if err != nil {
				h.fail(r, err)
				h.resolve(-1)
				return
			}
			all = append(all, recs...)
		}
		h.append(all)
		h.resolve(-1)
	}
}

func (h *harvest) fetchPage(start, end uint64, page int) ([]Record, error) {
	params := map[string]string{
		"address":    h.address,
		"startblock": strconv.FormatUint(start, 10),
		"endblock":   strconv.FormatUint(end, 10),
		"page":       strconv.Itoa(page),
		"offset":     strconv.Itoa(h.opts.PageSize),
	}

	result, err := h.client.Call(h.ctx, h.method, params)
	if err != nil {
		return nil, err
	}

	items, ok := result.([]any)
	if !ok {
		if result == nil {
			return nil, nil
		}
		return nil, provider.NewError(provider.KindParseError, h.client.Adapter().Name(), h.client.Chain().DisplayName, h.method).
			WithErr(fmt.Errorf("aggregator: expected a list result, got %T", result))
	}

	logs := isLogMethod(h.method)
	out := make([]Record, 0, len(items))

	h.resultMu.Lock()
	for _, item := range items {
		out = append(out, newRecord(item, logs, h.seq))
		h.seq++
	}
	h.resultMu.Unlock()

	return out, nil
}

func (h *harvest) append(recs []Record) {
	h.resultMu.Lock()
	h.records = append(h.records, recs...)
	h.resultMu.Unlock()
}

func (h *harvest) fail(r *blockRange, err error) {
	// A call cut short by cancellation is not a range failure: the harvest
	// reports Canceled with the records gathered so far.
	if h.ctx.Err() != nil {
		h.resultMu.Lock()
		h.canceled = true
		h.resultMu.Unlock()
		h.stop()
		return
	}

	if h.opts.Mode == Lenient {
		h.resultMu.Lock()
		h.failures = append(h.failures, RangeFailure{Start: r.start, End: r.end, Err: err})
		h.resultMu.Unlock()
		return
	}

	h.resultMu.Lock()
	if h.firstErr == nil {
		h.firstErr = provider.NewError(provider.KindPartialHarvest, h.client.Adapter().Name(), h.client.Chain().DisplayName, h.method).
			WithErr(fmt.Errorf("aggregator: range [%d,%d] failed: %w", r.start, r.end, err))
	}
	h.resultMu.Unlock()
	h.stop()
}
