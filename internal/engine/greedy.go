package engine

import "sort"

// GreedySign is a fast, non-optimal alternative to Sign: it walks sells in
// descending risk-adjusted value, covering each from the cheapest-available
// pool of not-yet-consumed buys with time strictly before the sell's time,
// and signs the sell only if enough buy quantity is reachable.
//
// Its diagnostics mirror SignerResult's ILP fields as nil — there is no
// model to time — and GreedySign never returns an error: a malformed
// Agreement would already have failed at NewAgreement, so by the time a
// caller has a []Agreement to hand in, validation is done.
func GreedySign(agentID string, agreements []Agreement, trustProbabilities map[string]float64) SignerResult {
	key := "greedy:" + signKey(agentID, agreements, trustProbabilities)
	v, _, _ := callGroup.Do(key, func() (interface{}, error) {
		return greedySignOnce(agentID, agreements, trustProbabilities), nil
	})
	result := v.(SignerResult)
	LogSignResult(result)
	return result
}

func greedySignOnce(agentID string, agreements []Agreement, trustProbabilities map[string]float64) SignerResult {
	runID := newRunID()

	result := SignerResult{
		RunID:              runID,
		AgentID:            agentID,
		ModelStatus:        StatusTrivial,
		Agreements:         agreements,
		TrustProbabilities: trustProbabilities,
	}

	if len(agreements) == 0 {
		return result
	}

	buys, sells := partitionAgreements(agreements)
	verdict := make([]*string, len(agreements))

	if len(sells) == 0 {
		result.ListOfSignatures = verdict
		return result
	}

	// Buys ascending by risk-adjusted value (cheapest buys consumed
	// first); sells descending by risk-adjusted value (highest-value
	// sell gets first pick of the buy pool).
	sort.SliceStable(buys, func(i, j int) bool {
		return buys[i].agreement.riskAdjustedValue() < buys[j].agreement.riskAdjustedValue()
	})
	sort.SliceStable(sells, func(i, j int) bool {
		return sells[i].agreement.riskAdjustedValue() > sells[j].agreement.riskAdjustedValue()
	})

	consumed := make([]bool, len(buys))
	profit := 0.0

	for _, s := range sells {
		need := s.agreement.Quantity()
		accumulated := 0
		reach := make([]int, 0)
		for bi, b := range buys {
			if consumed[bi] || b.agreement.Time() >= s.agreement.Time() {
				continue
			}
			reach = append(reach, bi)
			accumulated += b.agreement.Quantity()
			if accumulated >= need {
				break
			}
		}
		if accumulated < need {
			continue
		}

		verdict[s.agreement.MasterIndex()] = &agentID
		profit += s.agreement.riskAdjustedValue()
		for _, bi := range reach {
			consumed[bi] = true
			verdict[buys[bi].agreement.MasterIndex()] = &agentID
			profit -= buys[bi].agreement.riskAdjustedValue()
		}
	}

	result.ListOfSignatures = verdict
	result.ModelStatus = StatusHeuristic
	result.Profit = floatPtr(profit)
	return result
}
