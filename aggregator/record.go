package aggregator

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/certen/evmscan/internal/parse"
	"github.com/certen/evmscan/provider"
)

// Record is a harvested provider record, treated opaquely except for the
// ordering key (block, tx-index, optional log-index) and the dedup key
// (tx-hash, or tx-hash+log-index for logs) extracted from it.
type Record struct {
	Data map[string]any

	Block       uint64
	TxIndex     uint64
	LogIndex    uint64
	HasLogIndex bool
	HasOrderKey bool

	DedupKey string

	seq int // insertion order, used when HasOrderKey is false
}

var blockNumberKeys = []string{"blockNumber", "block_number", "blockNum"}
var txIndexKeys = []string{"transactionIndex", "transaction_index"}
var logIndexKeys = []string{"logIndex", "log_index"}
var hashKeys = []string{"hash", "transactionHash", "transaction_hash"}

func firstString(m map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			return s, true
		case json.Number:
			return s.String(), true
		}
	}
	return "", false
}

// newRecord builds a Record from one decoded provider entry. logs is true
// when method is EVENT_LOGS, selecting the (tx-hash, log-index) dedup key
// instead of plain tx-hash.
func newRecord(raw any, logs bool, seq int) Record {
	m, ok := raw.(map[string]any)
	if !ok {
		// Not a JSON object: no fields to extract. Falls back to an
		// insertion-order-only record with a best-effort dedup key.
		return Record{Data: map[string]any{"value": raw}, seq: seq, DedupKey: fmt.Sprintf("raw:%v", raw)}
	}

	r := Record{Data: m, seq: seq}

	blockStr, hasBlock := firstString(m, blockNumberKeys)
	txIdxStr, hasTxIdx := firstString(m, txIndexKeys)
	if hasBlock && hasTxIdx {
		if block, err := parse.Uint64(blockStr); err == nil {
			if txIdx, err := parse.Uint64(txIdxStr); err == nil {
				r.Block = block
				r.TxIndex = txIdx
				r.HasOrderKey = true
			}
		}
	}

	if logIdxStr, ok := firstString(m, logIndexKeys); ok {
		if logIdx, err := parse.Uint64(logIdxStr); err == nil {
			r.LogIndex = logIdx
			r.HasLogIndex = true
		}
	}

	hash, hasHash := firstString(m, hashKeys)
	switch {
	case hasHash && logs && r.HasLogIndex:
		r.DedupKey = fmt.Sprintf("%s|%d", hash, r.LogIndex)
	case hasHash:
		r.DedupKey = hash
	default:
		// Providers that omit a hash field degrade to "any exact
		// duplicate JSON object", best-effort: canonicalize by
		// sorted-key JSON so two structurally identical records
		// produce the same key regardless of field order.
		r.DedupKey = canonicalize(m)
	}

	return r
}

func canonicalize(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := make(map[string]any, len(m))
	for _, k := range keys {
		ordered[k] = m[k]
	}
	b, err := json.Marshal(ordered)
	if err != nil {
		return fmt.Sprintf("%v", m)
	}
	return string(b)
}

// dedupAndSort deduplicates records by DedupKey and sorts the survivors by
// (block, tx-index, log-index). Records without an order key are appended
// at the end, in insertion order.
func dedupAndSort(records []Record) []Record {
	seen := make(map[string]bool, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if seen[r.DedupKey] {
			continue
		}
		seen[r.DedupKey] = true
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.HasOrderKey != b.HasOrderKey {
			return a.HasOrderKey // ordered records sort before unordered ones
		}
		if !a.HasOrderKey {
			return a.seq < b.seq
		}
		if a.Block != b.Block {
			return a.Block < b.Block
		}
		if a.TxIndex != b.TxIndex {
			return a.TxIndex < b.TxIndex
		}
		if a.HasLogIndex != b.HasLogIndex {
			return a.HasLogIndex
		}
		return a.LogIndex < b.LogIndex
	})
	return out
}

func isLogMethod(method provider.LogicalMethod) bool {
	return method == provider.EventLogs
}
