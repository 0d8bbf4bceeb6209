package engine

import "testing"

func strPtr(s string) *string { return &s }

func TestIsSignPlanConsistentEmptyVerdictIsConsistent(t *testing.T) {
	if !IsSignPlanConsistent(nil, nil) {
		t.Fatal("an empty verdict should be trivially consistent")
	}
}

func TestIsSignPlanConsistentRejectsSellAtTimeZero(t *testing.T) {
	trust := map[string]float64{"p": 1.0}
	a := mustAgreement(t, 0, 5, 0, 10, false, "me", [2]string{"me", "p"}, trust)
	verdict := []*string{strPtr("p")}
	if IsSignPlanConsistent([]Agreement{a}, verdict) {
		t.Fatal("a sell at time 0 can never be consistent: nothing has been bought yet")
	}
}

func TestIsSignPlanConsistentRejectsBuyAtLastStep(t *testing.T) {
	trust := map[string]float64{"p": 1.0}
	a := mustAgreement(t, 0, 5, 2, 10, true, "me", [2]string{"me", "p"}, trust)
	verdict := []*string{strPtr("p")}
	// horizon = 3 (max time 2, +1); a buy at the last step can never be sold.
	if IsSignPlanConsistent([]Agreement{a}, verdict) {
		t.Fatal("a buy at the final horizon step can never be resold")
	}
}

func TestIsSignPlanConsistentRejectsNegativeInventory(t *testing.T) {
	trust := map[string]float64{"p": 1.0}
	buy := mustAgreement(t, 0, 5, 0, 1, true, "me", [2]string{"me", "p"}, trust)
	sell := mustAgreement(t, 1, 10, 1, 1, false, "me", [2]string{"me", "p"}, trust)
	verdict := []*string{strPtr("p"), strPtr("p")}
	if IsSignPlanConsistent([]Agreement{buy, sell}, verdict) {
		t.Fatal("selling more than was bought must be rejected")
	}
}

func TestIsSignPlanConsistentAcceptsBalancedPlan(t *testing.T) {
	trust := map[string]float64{"p": 1.0}
	buy := mustAgreement(t, 0, 5, 0, 1, true, "me", [2]string{"me", "p"}, trust)
	sell := mustAgreement(t, 1, 5, 1, 1, false, "me", [2]string{"me", "p"}, trust)
	verdict := []*string{strPtr("p"), strPtr("p")}
	if !IsSignPlanConsistent([]Agreement{buy, sell}, verdict) {
		t.Fatal("a buy fully covering a later sell of the same quantity should be consistent")
	}
}

func TestPlanFromVerdictsIgnoresUnsignedAgreements(t *testing.T) {
	trust := map[string]float64{"p": 1.0}
	buy := mustAgreement(t, 0, 5, 0, 1, true, "me", [2]string{"me", "p"}, trust)
	sell := mustAgreement(t, 1, 5, 1, 1, false, "me", [2]string{"me", "p"}, trust)
	verdict := []*string{strPtr("p"), nil}
	buyPlan, sellPlan, horizon := PlanFromVerdicts([]Agreement{buy, sell}, verdict)
	if buyPlan[0] != 5 {
		t.Fatalf("buyPlan[0] = %d, want 5", buyPlan[0])
	}
	if _, ok := sellPlan[1]; ok {
		t.Fatalf("sellPlan should not include an unsigned agreement")
	}
	if horizon != 1 {
		t.Fatalf("horizon = %d, want 1 (only the signed buy at time 0 counts)", horizon)
	}
}
