// Command tradingcore runs the trading core's decision solvers against a
// JSON scenario file: sign a batch of agreements, or compute a business
// plan over a forecast.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tradingcore/internal/config"
	"tradingcore/internal/engine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tradingcore",
		Short:         "Agreement signing and business-plan decision core",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSignCmd())
	root.AddCommand(newPlanCmd())
	return root
}

// agreementDTO is the on-disk JSON shape of one candidate agreement.
type agreementDTO struct {
	MasterIndex int       `json:"master_index"`
	Quantity    int       `json:"quantity"`
	Time        int       `json:"time"`
	UnitPrice   float64   `json:"unit_price"`
	IsBuy       bool      `json:"is_buy"`
	Partners    [2]string `json:"partners"`
}

type signScenario struct {
	AgentID            string             `json:"agent_id"`
	Agreements         []agreementDTO     `json:"agreements"`
	TrustProbabilities map[string]float64 `json:"trust_probabilities"`
	Greedy             bool               `json:"greedy"`
}

func newSignCmd() *cobra.Command {
	var greedy bool
	cmd := &cobra.Command{
		Use:   "sign <scenario.json>",
		Short: "Decide which candidate agreements to sign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var scenario signScenario
			if err := readJSONFile(args[0], &scenario); err != nil {
				return err
			}
			agreements := make([]engine.Agreement, 0, len(scenario.Agreements))
			for _, dto := range scenario.Agreements {
				a, err := engine.NewAgreement(dto.MasterIndex, dto.Quantity, dto.Time, dto.UnitPrice, dto.IsBuy, scenario.AgentID, dto.Partners, scenario.TrustProbabilities)
				if err != nil {
					return err
				}
				agreements = append(agreements, a)
			}

			if greedy || scenario.Greedy {
				result := engine.GreedySign(scenario.AgentID, agreements, scenario.TrustProbabilities)
				return printSignResult(cmd, result)
			}
			result, err := engine.Sign(scenario.AgentID, agreements, scenario.TrustProbabilities)
			if err != nil {
				return err
			}
			return printSignResult(cmd, result)
		},
	}
	cmd.Flags().BoolVar(&greedy, "greedy", false, "use the greedy signer instead of the optimal one")
	return cmd
}

func printSignResult(cmd *cobra.Command, result engine.SignerResult) error {
	signed := 0
	for _, v := range result.ListOfSignatures {
		if v != nil {
			signed++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", result.ModelStatus)
	fmt.Fprintf(cmd.OutOrStdout(), "signed: %d of %d agreements\n", signed, len(result.Agreements))
	if result.Profit != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "profit: %s\n", humanize.FormatFloat("#,###.##", *result.Profit))
	}
	return nil
}

type planScenario struct {
	Horizon    int                   `json:"horizon"`
	QMax       int                   `json:"q_max"`
	QInn       map[string]engine.PMF `json:"q_inn"`
	QOut       map[string]engine.PMF `json:"q_out"`
	PInn       map[string]float64    `json:"p_inn"`
	POut       map[string]float64    `json:"p_out"`
	CInn       map[string]int        `json:"c_inn"`
	COut       map[string]int        `json:"c_out"`
	Optimistic bool                  `json:"optimistic"`
	Step       int                   `json:"step"`
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <scenario.json>",
		Short: "Compute a business plan over a forecast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var scenario planScenario
			if err := readJSONFile(args[0], &scenario); err != nil {
				return err
			}
			if scenario.QMax == 0 {
				scenario.QMax = config.Default().QMax
			}

			qInn := reindexPMF(scenario.QInn)
			qOut := reindexPMF(scenario.QOut)
			pInn := reindexFloat(scenario.PInn)
			pOut := reindexFloat(scenario.POut)
			cInn := engine.CommitmentVector(reindexInt(scenario.CInn))
			cOut := engine.CommitmentVector(reindexInt(scenario.COut))

			result := engine.ComputeBusinessPlan(scenario.Horizon, scenario.QMax, qInn, qOut, pInn, pOut, cInn, cOut, scenario.Optimistic, scenario.Step)
			return printPlanResult(cmd, result)
		},
	}
	return cmd
}

func printPlanResult(cmd *cobra.Command, result engine.BusinessPlanResult) error {
	fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", result.Status)
	if result.Status != engine.StatusOptimal {
		return nil
	}
	for t := 0; t < result.Horizon; t++ {
		fmt.Fprintf(cmd.OutOrStdout(), "t=%d buy=%d sell=%d\n", t, result.BuyPlan[t], result.SellPlan[t])
	}
	if result.Objective != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "objective: %s\n", humanize.FormatFloat("#,###.##", *result.Objective))
	}
	return nil
}

// reindexPMF, reindexFloat and reindexInt convert the string-keyed maps
// JSON naturally produces (object keys are always strings) back into the
// int-keyed-by-time-step maps the engine package expects.
func reindexPMF(m map[string]engine.PMF) map[int]engine.PMF {
	out := make(map[int]engine.PMF, len(m))
	for k, v := range m {
		out[atoiOrZero(k)] = v
	}
	return out
}

func reindexFloat(m map[string]float64) map[int]float64 {
	out := make(map[int]float64, len(m))
	for k, v := range m {
		out[atoiOrZero(k)] = v
	}
	return out
}

func reindexInt(m map[string]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[atoiOrZero(k)] = v
	}
	return out
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading scenario file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing scenario file: %w", err)
	}
	return nil
}
