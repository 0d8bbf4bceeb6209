package engine

// PlanFromVerdicts reconstructs per-time buy/sell quantities from a set of
// agreements and the verdict produced by Sign/GreedySign: every agreement
// whose verdict entry is non-nil contributes its quantity to buy_plan[time]
// or sell_plan[time] depending on IsBuy. horizon is inferred as one past
// the latest agreement time, per the original get_plan_as_lists helper
// this supplements.
func PlanFromVerdicts(agreements []Agreement, verdict []*string) (buyPlan, sellPlan map[int]int, horizon int) {
	buyPlan = make(map[int]int)
	sellPlan = make(map[int]int)
	for i, a := range agreements {
		if i >= len(verdict) || verdict[i] == nil {
			continue
		}
		if a.Time()+1 > horizon {
			horizon = a.Time() + 1
		}
		if a.IsBuy() {
			buyPlan[a.Time()] += a.Quantity()
		} else {
			sellPlan[a.Time()] += a.Quantity()
		}
	}
	return buyPlan, sellPlan, horizon
}

// IsSignPlanConsistent reconstructs the inventory trajectory implied by a
// signed set of agreements and checks the following invariants:
//
//   - no sale at time 0 (nothing has been bought yet to sell),
//   - no purchase at the last time step of the horizon (it could never be
//     sold within the horizon),
//   - inventory never goes negative under the one-step buy-to-sell
//     conversion lag: inv(t) = inv(t-1) + buy_plan[t-1] - sell_plan[t].
func IsSignPlanConsistent(agreements []Agreement, verdict []*string) bool {
	buyPlan, sellPlan, horizon := PlanFromVerdicts(agreements, verdict)
	if horizon == 0 {
		return true
	}
	if sellPlan[0] != 0 {
		return false
	}
	if buyPlan[horizon-1] != 0 {
		return false
	}

	inv := 0
	for t := 1; t < horizon; t++ {
		inv = inv + buyPlan[t-1] - sellPlan[t]
		if inv < 0 {
			return false
		}
	}
	return true
}
