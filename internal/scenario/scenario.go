// Package scenario replays a JSON-encoded sequence of simulator operations
// against a fresh session.
package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/multiversx/mx-contract-simulator/simulator"
)

// Step is one operation in a scenario file. Only the fields relevant to Op
// are read; the rest are zero.
type Step struct {
	Op              string `mapstructure:"op"`
	AccountID       string `mapstructure:"account_id"`
	ContractImage   string `mapstructure:"contract_image"`
	Method          string `mapstructure:"method"`
	Input           string `mapstructure:"input"`
	SignerAccountID string `mapstructure:"signer_account_id"`
	Gas             uint64 `mapstructure:"gas"`
	Deposit         uint64 `mapstructure:"deposit"`
	ExpectError     bool   `mapstructure:"expect_error"`
}

// Scenario is an ordered list of steps to run against one simulator.
type Scenario struct {
	Steps []Step `mapstructure:"steps"`
}

// Parse decodes a scenario document. The document is first unmarshalled
// loosely (so numeric fields survive JSON's float64 default) and then
// structured via mapstructure, so callers can write JSON fixtures without
// matching Step's Go types exactly.
func Parse(data []byte) (*Scenario, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing scenario json: %w", err)
	}

	var scn Scenario
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &scn,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("structuring scenario: %w", err)
	}

	return &scn, nil
}

// StepOutcome records what happened when a single step ran.
type StepOutcome struct {
	Step   Step
	Result *simulator.CallResult
	Err    error
}

// Run replays every step of the scenario against sim in order, stopping
// early only on a fatal (non-contract) error from a step whose ExpectError
// is false.
func Run(sim *simulator.Simulator, scn *Scenario) ([]StepOutcome, error) {
	outcomes := make([]StepOutcome, 0, len(scn.Steps))

	for _, st := range scn.Steps {
		outcome := StepOutcome{Step: st}

		switch st.Op {
		case "new_account":
			_, err := sim.NewAccount(st.AccountID, st.ContractImage)
			outcome.Err = err

		case "call":
			result, err := sim.Call(st.AccountID, st.Method, st.Input, st.SignerAccountID, st.Gas, st.Deposit)
			outcome.Result = result
			outcome.Err = err

		case "view":
			result, err := sim.View(st.AccountID, st.Method, st.Input)
			outcome.Result = result
			outcome.Err = err

		case "reset":
			sim.ResetAll()

		default:
			outcome.Err = fmt.Errorf("unknown scenario op %q", st.Op)
		}

		outcomes = append(outcomes, outcome)

		if outcome.Err != nil && !st.ExpectError {
			return outcomes, fmt.Errorf("step %q on %q: %w", st.Op, st.AccountID, outcome.Err)
		}
	}

	return outcomes, nil
}
