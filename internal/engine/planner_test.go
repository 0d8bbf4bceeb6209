package engine

import "testing"

// concentratedPMF puts all mass far beyond qMax, so E[min(k,X)] == k for
// every representable target k: the truncated-min table collapses to the
// identity, which makes the optimistic and expected regimes agree and
// keeps the expected profit arithmetic easy to check by hand.
func concentratedPMF() PMF {
	return PMF{1000: 1.0}
}

func TestComputeBusinessPlanBuysThenSellsAtTheProfitableSpread(t *testing.T) {
	horizon, qMax := 2, 5
	qInn := map[int]PMF{0: concentratedPMF(), 1: concentratedPMF()}
	qOut := map[int]PMF{0: concentratedPMF(), 1: concentratedPMF()}
	pInn := map[int]float64{0: 2, 1: 2}
	pOut := map[int]float64{0: 5, 1: 5}

	result := ComputeBusinessPlan(horizon, qMax, qInn, qOut, pInn, pOut, nil, nil, true, 0)

	if result.Status != StatusOptimal {
		t.Fatalf("Status = %v, want %v", result.Status, StatusOptimal)
	}
	if result.SellPlan[0] != 0 {
		t.Fatalf("sell_plan[0] = %d, want 0 (nothing to sell before any purchase)", result.SellPlan[0])
	}
	if result.BuyPlan[0] != 4 {
		t.Fatalf("buy_plan[0] = %d, want 4 (buy the max representable quantity at a profitable spread)", result.BuyPlan[0])
	}
	if result.SellPlan[1] != 4 {
		t.Fatalf("sell_plan[1] = %d, want 4", result.SellPlan[1])
	}
	if result.Objective == nil || *result.Objective < 12-1e-6 || *result.Objective > 12+1e-6 {
		t.Fatalf("Objective = %v, want 12", result.Objective)
	}
	for t2 := 0; t2 < horizon; t2++ {
		if result.BuyPlan[t2] < 0 || result.BuyPlan[t2] >= qMax {
			t.Fatalf("buy_plan[%d] = %d out of [0,%d)", t2, result.BuyPlan[t2], qMax)
		}
		if result.SellPlan[t2] < 0 || result.SellPlan[t2] >= qMax {
			t.Fatalf("sell_plan[%d] = %d out of [0,%d)", t2, result.SellPlan[t2], qMax)
		}
	}
}

func TestComputeBusinessPlanNeverBuysAtTheFinalStep(t *testing.T) {
	horizon, qMax := 3, 4
	qInn := map[int]PMF{0: concentratedPMF(), 1: concentratedPMF(), 2: concentratedPMF()}
	qOut := map[int]PMF{0: concentratedPMF(), 1: concentratedPMF(), 2: concentratedPMF()}
	pInn := map[int]float64{0: 1, 1: 1, 2: 1}
	pOut := map[int]float64{0: 3, 1: 3, 2: 3}

	result := ComputeBusinessPlan(horizon, qMax, qInn, qOut, pInn, pOut, nil, nil, true, 0)
	if result.Status != StatusOptimal {
		t.Fatalf("Status = %v, want %v", result.Status, StatusOptimal)
	}
	if result.BuyPlan[horizon-1] != 0 {
		t.Fatalf("buy_plan[%d] = %d, want 0: a purchase at the last step can never be resold", horizon-1, result.BuyPlan[horizon-1])
	}

	// Inventory never goes negative under the one-step conversion lag.
	inv := 0
	for t2 := 1; t2 < horizon; t2++ {
		inv = inv + result.BuyPlan[t2-1] - result.SellPlan[t2]
		if inv < 0 {
			t.Fatalf("inventory went negative at t=%d", t2)
		}
	}
}

func TestComputeBusinessPlanHonorsSellCommitmentFloor(t *testing.T) {
	horizon, qMax := 2, 6
	qInn := map[int]PMF{0: concentratedPMF(), 1: concentratedPMF()}
	qOut := map[int]PMF{0: concentratedPMF(), 1: concentratedPMF()}
	pInn := map[int]float64{0: 1, 1: 1}
	pOut := map[int]float64{0: 4, 1: 4}
	cOut := CommitmentVector{1: 3}

	result := ComputeBusinessPlan(horizon, qMax, qInn, qOut, pInn, pOut, nil, cOut, true, 0)
	if result.Status != StatusOptimal {
		t.Fatalf("Status = %v, want %v", result.Status, StatusOptimal)
	}
	if result.SellPlan[1] < 3 {
		t.Fatalf("sell_plan[1] = %d, want >= 3 (commitment floor)", result.SellPlan[1])
	}
}

func TestComputeBusinessPlanStepZeroPinsOnlySellSide(t *testing.T) {
	horizon, qMax := 2, 5
	qInn := map[int]PMF{0: concentratedPMF(), 1: concentratedPMF()}
	qOut := map[int]PMF{0: concentratedPMF(), 1: concentratedPMF()}
	pInn := map[int]float64{0: 1, 1: 1}
	pOut := map[int]float64{0: 4, 1: 4}
	cInn := CommitmentVector{0: 2}

	result := ComputeBusinessPlan(horizon, qMax, qInn, qOut, pInn, pOut, cInn, nil, true, 0)
	if result.Status != StatusOptimal {
		t.Fatalf("Status = %v, want %v", result.Status, StatusOptimal)
	}
	// step == 0: the buy side at t=0 is NOT pinned to the commitment, it is
	// free to pick the profit-maximizing target (still bounded below by
	// the commitment floor via constraint 3): buying 4 at t=0 and selling
	// 4 at t=1 beats the pinned value of 2.
	if result.BuyPlan[0] != 4 {
		t.Fatalf("buy_plan[0] = %d, want 4 (unpinned, profit-maximizing, above the floor of 2)", result.BuyPlan[0])
	}
}

func TestComputeBusinessPlanStepPositivePinsBuySideToCommitment(t *testing.T) {
	horizon, qMax := 2, 5
	qInn := map[int]PMF{0: concentratedPMF(), 1: concentratedPMF()}
	qOut := map[int]PMF{0: concentratedPMF(), 1: concentratedPMF()}
	pInn := map[int]float64{0: 1, 1: 1}
	pOut := map[int]float64{0: 4, 1: 4}
	cInn := CommitmentVector{0: 2}

	result := ComputeBusinessPlan(horizon, qMax, qInn, qOut, pInn, pOut, cInn, nil, true, 1)
	if result.Status != StatusOptimal {
		t.Fatalf("Status = %v, want %v", result.Status, StatusOptimal)
	}
	if result.BuyPlan[0] != 2 {
		t.Fatalf("buy_plan[0] = %d, want exactly 2: step > 0 pins the buy side to the commitment", result.BuyPlan[0])
	}
}

func TestComputeBusinessPlanExpectedRegimeStaysIntegerValued(t *testing.T) {
	horizon, qMax := 2, 4
	qInn := map[int]PMF{0: {2: 1.0}, 1: {2: 1.0}}
	qOut := map[int]PMF{0: {2: 1.0}, 1: {2: 1.0}}
	pInn := map[int]float64{0: 1, 1: 1}
	pOut := map[int]float64{0: 3, 1: 3}

	result := ComputeBusinessPlan(horizon, qMax, qInn, qOut, pInn, pOut, nil, nil, false, 0)
	if result.Status != StatusOptimal {
		t.Fatalf("Status = %v, want %v", result.Status, StatusOptimal)
	}
	for t2 := 0; t2 < horizon; t2++ {
		if float64(result.BuyPlan[t2]) != float64(int(result.BuyPlan[t2])) {
			t.Fatalf("buy_plan[%d] is not integer-valued", t2)
		}
	}
}
