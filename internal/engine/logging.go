package engine

import "tradingcore/internal/logging"

var log = logging.NewLogger()

// LogSignResult emits a structured summary of a Sign/GreedySign call,
// correlated by RunID so a single decision can be traced through logs.
func LogSignResult(result SignerResult) {
	event := log.Info()
	if result.ModelStatus != StatusOptimal && result.ModelStatus != StatusTrivial && result.ModelStatus != StatusHeuristic {
		event = log.Warn()
	}
	event = event.
		Str("run_id", result.RunID).
		Str("agent_id", result.AgentID).
		Str("status", string(result.ModelStatus)).
		Int("agreements", len(result.Agreements))
	if result.Profit != nil {
		event = event.Float64("profit", *result.Profit)
	}
	event.Msg("sign completed")
}

// LogPlanResult emits a structured summary of a ComputeBusinessPlan call.
func LogPlanResult(result BusinessPlanResult) {
	event := log.Info()
	if result.Status != StatusOptimal {
		event = log.Warn()
	}
	event = event.
		Str("run_id", result.RunID).
		Str("status", string(result.Status)).
		Int("horizon", result.Horizon).
		Int("q_max", result.QMax).
		Bool("optimistic", result.Optimistic).
		Float64("time_to_solve", result.TimeToSolve)
	if result.Objective != nil {
		event = event.Float64("objective", *result.Objective)
	}
	event.Msg("business plan computed")
}
