package engine

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"
)

// callGroup deduplicates concurrent Sign/GreedySign/ComputeBusinessPlan
// calls that share identical inputs: callers that fan out the same
// decision to multiple goroutines (e.g. a negotiation loop polling several
// partners at once) only pay for one solve. Each call is pure and
// value-typed, so sharing a result across identical
// concurrent callers changes nothing observable.
var callGroup singleflight.Group

func signKey(agentID string, agreements []Agreement, trust map[string]float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "sign|%s|", agentID)
	for _, a := range agreements {
		fmt.Fprintf(&b, "%d,%d,%d,%v,%v,%s,%s;", a.masterIndex, a.quantity, a.time, a.unitPrice, a.isBuy, a.partners[0], a.partners[1])
	}
	b.WriteByte('|')
	writeSortedTrust(&b, trust)
	return b.String()
}

func planKey(horizon, qMax int, qInn, qOut map[int]PMF, pInn, pOut map[int]float64, cInn, cOut CommitmentVector, optimistic bool, step int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "plan|%d|%d|%v|%d|", horizon, qMax, optimistic, step)
	writeSortedPMFs(&b, qInn)
	b.WriteByte('|')
	writeSortedPMFs(&b, qOut)
	b.WriteByte('|')
	writeSortedFloats(&b, pInn)
	b.WriteByte('|')
	writeSortedFloats(&b, pOut)
	b.WriteByte('|')
	writeSortedInts(&b, cInn)
	b.WriteByte('|')
	writeSortedInts(&b, cOut)
	return b.String()
}

func writeSortedPMFs(b *strings.Builder, m map[int]PMF) {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, t := range keys {
		fmt.Fprintf(b, "%d:[", t)
		writeSortedFloats(b, m[t])
		b.WriteString("];")
	}
}

func writeSortedTrust(b *strings.Builder, m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s=%v;", k, m[k])
	}
}

func writeSortedFloats(b *strings.Builder, m map[int]float64) {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%d=%v;", k, m[k])
	}
}

func writeSortedInts(b *strings.Builder, m map[int]int) {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%d=%d;", k, m[k])
	}
}
