package engine

import (
	"time"

	"tradingcore/internal/milp"
)

// ComputeBusinessPlan chooses, for every time step in [0, horizon), a single
// target buy quantity and a single target sell quantity in [0, qMax) that
// maximize expected profit under inventory conservation with a one-step
// buy-to-sell conversion lag.
//
// In the optimistic regime the realized quantity at a chosen target k is
// taken to be k itself; in the expected regime it is the truncated-min
// expectation E[min(k, X)] read from inn/out (GetMinima's output), so a
// target is a bet on availability rather than a guarantee. step marks how
// many leading time steps are already committed history: those steps'
// sell targets (and, when step > 0, buy targets too) are pinned to the
// corresponding commitment vector entry rather than left free.
func ComputeBusinessPlan(horizon, qMax int, qInn, qOut map[int]PMF, pInn, pOut map[int]float64, cInn, cOut CommitmentVector, optimistic bool, step int) BusinessPlanResult {
	key := planKey(horizon, qMax, qInn, qOut, pInn, pOut, cInn, cOut, optimistic, step)
	v, _, _ := callGroup.Do(key, func() (interface{}, error) {
		return computeBusinessPlanOnce(horizon, qMax, qInn, qOut, pInn, pOut, cInn, cOut, optimistic, step), nil
	})
	result := v.(BusinessPlanResult)
	LogPlanResult(result)
	return result
}

func computeBusinessPlanOnce(horizon, qMax int, qInn, qOut map[int]PMF, pInn, pOut map[int]float64, cInn, cOut CommitmentVector, optimistic bool, step int) BusinessPlanResult {
	runID := newRunID()
	inn, out := GetMinima(horizon, qMax, qInn, qOut)

	result := BusinessPlanResult{
		RunID:      runID,
		Horizon:    horizon,
		QMax:       qMax,
		Inn:        inn,
		Out:        out,
		PInn:       pInn,
		POut:       pOut,
		Optimistic: optimistic,
	}

	genVarsStart := time.Now()
	m := milp.NewModel()
	buyVars := make([][]milp.Var, horizon)
	sellVars := make([][]milp.Var, horizon)
	for t := 0; t < horizon; t++ {
		buyVars[t] = make([]milp.Var, qMax)
		sellVars[t] = make([]milp.Var, qMax)
		for k := 0; k < qMax; k++ {
			buyVars[t][k] = m.AddBinaryVar("buy")
			sellVars[t][k] = m.AddBinaryVar("sell")
		}
	}
	result.TimeToGenerateVariables = time.Since(genVarsStart).Seconds()

	// realizedCoeff is the quantity realized when target k is chosen at
	// time t: k itself in the optimistic regime, E[min(k,X)] in the
	// expected regime.
	realizedBuy := func(t, k int) float64 {
		if optimistic {
			return float64(k)
		}
		return inn[t][k]
	}
	realizedSell := func(t, k int) float64 {
		if optimistic {
			return float64(k)
		}
		return out[t][k]
	}

	genObjStart := time.Now()
	objective := make(milp.Expr, 0, 2*horizon*qMax)
	for t := 0; t < horizon; t++ {
		for k := 0; k < qMax; k++ {
			objective = append(objective, milp.Plus(out[t][k]*pOut[t], sellVars[t][k]))
			objective = append(objective, milp.Plus(-inn[t][k]*pInn[t], buyVars[t][k]))
		}
	}
	m.SetObjective(objective)
	result.TimeToGenerateObjective = time.Since(genObjStart).Seconds()

	genConsStart := time.Now()

	// Constraint 1: at most one target per step, per side.
	for t := 0; t < horizon; t++ {
		buyRow := make(milp.Expr, qMax)
		sellRow := make(milp.Expr, qMax)
		for k := 0; k < qMax; k++ {
			buyRow[k] = milp.Plus(1, buyVars[t][k])
			sellRow[k] = milp.Plus(1, sellVars[t][k])
		}
		m.AddConstraint(buyRow, milp.LE, 1)
		m.AddConstraint(sellRow, milp.LE, 1)
	}

	// Constraint 2: inventory feasibility, 1-step lag, expressed as a
	// running prefix-sum constraint per time t in [1, horizon):
	//   sum_{t'<t} buy_realized(t') - sum_{t'<=t} sell_realized(t') >= 0.
	for t := 1; t < horizon; t++ {
		expr := make(milp.Expr, 0)
		for tp := 0; tp < t; tp++ {
			for k := 0; k < qMax; k++ {
				if c := realizedBuy(tp, k); c != 0 {
					expr = append(expr, milp.Plus(c, buyVars[tp][k]))
				}
			}
		}
		for tp := 0; tp <= t; tp++ {
			for k := 0; k < qMax; k++ {
				if c := realizedSell(tp, k); c != 0 {
					expr = append(expr, milp.Plus(-c, sellVars[tp][k]))
				}
			}
		}
		m.AddConstraint(expr, milp.GE, 0)
	}

	// Constraint 3: commitment floors — the expected realized buy/sell
	// E[min(k,X)] at each step must at least cover the already-promised
	// commitment, in either regime.
	for t := 0; t < horizon; t++ {
		if floor := cOut.Get(t); floor > 0 {
			expr := make(milp.Expr, 0, qMax)
			for k := 0; k < qMax; k++ {
				expr = append(expr, milp.Plus(out[t][k], sellVars[t][k]))
			}
			m.AddConstraint(expr, milp.GE, float64(floor))
		}
		if floor := cInn.Get(t); floor > 0 {
			expr := make(milp.Expr, 0, qMax)
			for k := 0; k < qMax; k++ {
				expr = append(expr, milp.Plus(inn[t][k], buyVars[t][k]))
			}
			m.AddConstraint(expr, milp.GE, float64(floor))
		}
	}

	// Constraint 4: initial-state pinning. Steps already committed (i in
	// [0, max(step,1))) have their sell target fixed to the commitment; if
	// step > 0 the buy target is fixed too. At step == 0 only the sell
	// side is pinned, since nothing has been bought yet.
	pinnedThrough := step
	if pinnedThrough < 1 {
		pinnedThrough = 1
	}
	for i := 0; i < pinnedThrough && i < horizon; i++ {
		pinRow(m, sellVars[i], cOut.Get(i))
		if step > 0 {
			pinRow(m, buyVars[i], cInn.Get(i))
		}
	}

	result.TimeToGenerateConstraints = time.Since(genConsStart).Seconds()

	solveStart := time.Now()
	solution := milp.Solve(m)
	result.TimeToSolve = time.Since(solveStart).Seconds()

	result.Status = toSolverStatus(solution.Status)
	if result.Status != StatusOptimal {
		return result
	}

	readStart := time.Now()
	buyPlan := make(map[int]int, horizon)
	sellPlan := make(map[int]int, horizon)
	for t := 0; t < horizon; t++ {
		for k := 0; k < qMax; k++ {
			if solution.Value(buyVars[t][k]) == 1 {
				buyPlan[t] = k
			}
			if solution.Value(sellVars[t][k]) == 1 {
				sellPlan[t] = k
			}
		}
	}
	result.BuyPlan = buyPlan
	result.SellPlan = sellPlan
	result.Objective = floatPtr(sanitizeFloat(solution.Objective))
	result.TimeToReadPlan = time.Since(readStart).Seconds()

	return result
}

// pinRow fixes every binary variable in row to 0 except the one at index
// target, which is fixed to 1.
func pinRow(m *milp.Model, row []milp.Var, target int) {
	for k, v := range row {
		if k == target {
			m.FixVar(v, 1)
		} else {
			m.FixVar(v, 0)
		}
	}
}
