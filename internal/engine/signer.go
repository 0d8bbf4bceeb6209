package engine

import (
	"sort"
	"time"

	"tradingcore/internal/milp"
)

// indexedAgreement pairs an Agreement with its position in the original
// input slice (masterIndex is already carried on Agreement itself, but
// subIndex additionally records the position within its buy/sell
// partition, used as the sort tiebreak so the time-ascending ordering
// pass is deterministic.
type indexedAgreement struct {
	agreement Agreement
	subIndex  int
}

// partitionAgreements splits agreements into buys and sells, annotating
// each with its position within its own partition, then sorts each
// partition by time ascending with sub_index as the stable tiebreak.
func partitionAgreements(agreements []Agreement) (buys, sells []indexedAgreement) {
	for _, a := range agreements {
		if a.IsBuy() {
			buys = append(buys, indexedAgreement{agreement: a, subIndex: len(buys)})
		} else {
			sells = append(sells, indexedAgreement{agreement: a, subIndex: len(sells)})
		}
	}
	sortByTimeThenSubIndex(buys)
	sortByTimeThenSubIndex(sells)
	return buys, sells
}

func sortByTimeThenSubIndex(items []indexedAgreement) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].agreement.Time() < items[j].agreement.Time()
	})
}

// Sign decides which of the candidate agreements to sign so as to maximize
// expected trust-discounted profit while keeping inventory non-negative at
// every distinct sell time. agentID identifies the calling agent
// within each agreement's two partners; trustProbabilities gives the
// counterparty trust score used to validate and discount every agreement.
//
// Sign never raises for a well-formed but degenerate input: an empty
// agreement list, or a list with no sell-side agreements, both return a
// trivial result with a null diagnostics block rather than invoking the
// solver.
func Sign(agentID string, agreements []Agreement, trustProbabilities map[string]float64) (SignerResult, error) {
	key := signKey(agentID, agreements, trustProbabilities)
	v, err, _ := callGroup.Do(key, func() (interface{}, error) {
		return signOnce(agentID, agreements, trustProbabilities)
	})
	if err != nil {
		return SignerResult{}, err
	}
	result := v.(SignerResult)
	LogSignResult(result)
	return result, nil
}

func signOnce(agentID string, agreements []Agreement, trustProbabilities map[string]float64) (SignerResult, error) {
	runID := newRunID()

	if len(agreements) == 0 {
		return SignerResult{
			RunID:              runID,
			ListOfSignatures:   nil,
			AgentID:            agentID,
			ModelStatus:        StatusTrivial,
			Agreements:         agreements,
			TrustProbabilities: trustProbabilities,
		}, nil
	}

	buys, sells := partitionAgreements(agreements)

	if len(sells) == 0 {
		verdict := make([]*string, len(agreements))
		return SignerResult{
			RunID:              runID,
			ListOfSignatures:   verdict,
			AgentID:            agentID,
			ModelStatus:        StatusTrivial,
			Agreements:         agreements,
			TrustProbabilities: trustProbabilities,
		}, nil
	}

	genStart := time.Now()

	m := milp.NewModel()
	buyVars := make([]milp.Var, len(buys))
	sellVars := make([]milp.Var, len(sells))

	objective := make(milp.Expr, 0, len(buys)+len(sells))
	for i, b := range buys {
		buyVars[i] = m.AddBinaryVar("buy")
		objective = append(objective, milp.Plus(-b.agreement.riskAdjustedValue(), buyVars[i]))
	}
	for j, s := range sells {
		sellVars[j] = m.AddBinaryVar("sell")
		objective = append(objective, milp.Plus(s.agreement.riskAdjustedValue(), sellVars[j]))
	}
	m.SetObjective(objective)

	// Time-ascending sweep: at every distinct sell time T, the quantity sold
	// at T cannot exceed inventory accumulated from buys strictly before T
	// minus quantity already sold strictly before T (inventory
	// constraints). partialBuySum/partialSellSum accumulate across the
	// sweep so each distinct T only needs its own sell terms added once.
	partialBuySum := make(milp.Expr, 0, len(buys))
	partialSellSum := make(milp.Expr, 0, len(sells))
	buyCursor := 0

	i := 0
	for i < len(sells) {
		t := sells[i].agreement.Time()

		for buyCursor < len(buys) && buys[buyCursor].agreement.Time() < t {
			partialBuySum = append(partialBuySum, milp.Plus(float64(buys[buyCursor].agreement.Quantity()), buyVars[buyCursor]))
			buyCursor++
		}

		var currentSellTimeSum milp.Expr
		for i < len(sells) && sells[i].agreement.Time() == t {
			currentSellTimeSum = append(currentSellTimeSum, milp.Plus(float64(sells[i].agreement.Quantity()), sellVars[i]))
			i++
		}

		// currentSellTimeSum - partialBuySum + partialSellSum <= 0, i.e.
		// sells at T <= (buys before T) - (sells before T).
		combined := append(milp.Expr{}, currentSellTimeSum...)
		combined = append(combined, negate(partialBuySum)...)
		combined = append(combined, partialSellSum...)
		m.AddConstraint(combined, milp.LE, 0)

		partialSellSum = append(partialSellSum, currentSellTimeSum...)
	}

	genElapsed := time.Since(genStart).Seconds()

	solveStart := time.Now()
	solution := milp.Solve(m)
	solveElapsed := time.Since(solveStart).Seconds()

	status := toSolverStatus(solution.Status)
	result := SignerResult{
		RunID:              runID,
		AgentID:            agentID,
		ModelStatus:        status,
		TimeToGenerateILP:  floatPtr(genElapsed),
		TimeToSolveILP:     floatPtr(solveElapsed),
		Agreements:         agreements,
		TrustProbabilities: trustProbabilities,
	}

	if status != StatusOptimal {
		result.ListOfSignatures = make([]*string, len(agreements))
		return result, nil
	}

	verdict := make([]*string, len(agreements))
	profit := 0.0
	for i, b := range buys {
		if solution.Value(buyVars[i]) == 1 {
			verdict[b.agreement.MasterIndex()] = &agentID
			profit -= b.agreement.riskAdjustedValue()
		}
	}
	for j, s := range sells {
		if solution.Value(sellVars[j]) == 1 {
			verdict[s.agreement.MasterIndex()] = &agentID
			profit += s.agreement.riskAdjustedValue()
		}
	}

	result.ListOfSignatures = verdict
	result.Profit = floatPtr(profit)
	return result, nil
}

func negate(e milp.Expr) milp.Expr {
	out := make(milp.Expr, len(e))
	for i, t := range e {
		out[i] = milp.Plus(-t.Coeff, t.Var)
	}
	return out
}

func toSolverStatus(s milp.Status) SolverStatus {
	switch s {
	case milp.StatusOptimal:
		return StatusOptimal
	case milp.StatusInfeasible:
		return StatusInfeasible
	case milp.StatusUnbounded:
		return StatusUnbounded
	default:
		return StatusNotSolved
	}
}

func floatPtr(v float64) *float64 { return &v }
