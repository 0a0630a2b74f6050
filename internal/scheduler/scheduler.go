// Package scheduler implements the Promise Scheduler: the data-flow engine
// that drives a root contract invocation to quiescence, wiring each step's
// emitted receipts into the work queue and the data-dependency graph.
package scheduler

import (
	"encoding/json"
	"errors"
	"fmt"

	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/multiversx/mx-contract-simulator/internal/step"
	"github.com/multiversx/mx-contract-simulator/internal/vmctx"
	"github.com/multiversx/mx-contract-simulator/internal/vmdriver"
)

var log = logger.GetOrCreate("scheduler")

// ErrMalformedReceipt is fatal: a receipt carried an action count other than one.
var ErrMalformedReceipt = errors.New("receipt does not carry exactly one FunctionCall action")

// RootCall describes the call the scheduler is asked to drive to completion.
type RootCall struct {
	AccountID       string
	MethodName      string
	Input           string
	SignerAccountID string
	PrepaidGas      uint64
	AttachedDeposit uint64
}

// outputEntry names where a call's result must be delivered once it resolves.
type outputEntry struct {
	AccountID string
	DataID    int
}

// descriptor is a pending (or in-flight) call, addressed by its global index.
type descriptor struct {
	index                int
	accountID            string
	methodName           string
	input                string
	signerAccountID      string
	predecessorAccountID string
	prepaidGas           uint64
	attachedDeposit      uint64
	inputDataIDs         []int
}

// Result is what callers get back from a completed Call: the final,
// caller-visible StepResult plus the full call/result maps for inspection.
type Result struct {
	ReturnValue json.RawMessage
	Err         *vmdriver.OutcomeError
	Calls       map[int]Call
	Results     map[int]*step.Result
}

// Call is the debug/replay view of one descriptor that was run.
type Call struct {
	AccountID  string
	MethodName string
	Input      string
}

// Scheduler drives one root call's transitive receipt graph to completion.
type Scheduler struct {
	Executor *step.Executor
}

// New builds a scheduler over the given step executor.
func New(executor *step.Executor) *Scheduler {
	return &Scheduler{Executor: executor}
}

// Call drives root to quiescence: it repeatedly executes steps and wires
// their emitted receipts into the work graph until the queue drains.
func (s *Scheduler) Call(root RootCall) (*Result, error) {
	queue := []*descriptor{{
		index:           0,
		accountID:       root.AccountID,
		methodName:      root.MethodName,
		input:           root.Input,
		signerAccountID: root.SignerAccountID,
		prepaidGas:      root.PrepaidGas,
		attachedDeposit: root.AttachedDeposit,
	}}

	numReceipts := 1
	numData := 0
	returnIndex := 0

	calls := make(map[int]Call)
	results := make(map[int]*step.Result)
	allInputData := make(map[int]vmctx.PromiseResult)
	allOutputData := make(map[int][]outputEntry)

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		resolved, ok := resolveInputData(c.inputDataIDs, allInputData)
		if !ok {
			log.Trace("re-enqueueing blocked call", "index", c.index, "account", c.accountID)
			queue = append(queue, c)
			continue
		}

		outputData := allOutputData[c.index]
		calls[c.index] = Call{AccountID: c.accountID, MethodName: c.methodName, Input: c.input}

		receivers := make([]string, len(outputData))
		for i, o := range outputData {
			receivers[i] = o.AccountID
		}

		result, err := s.Executor.CallStep(step.Call{
			AccountID:            c.accountID,
			MethodName:           c.methodName,
			Input:                c.input,
			SignerAccountID:      c.signerAccountID,
			PredecessorAccountID: c.predecessorAccountID,
			PrepaidGas:           c.prepaidGas,
			AttachedDeposit:      c.attachedDeposit,
			IsView:               false,
			InputData:            resolved,
			OutputDataReceivers:  receivers,
		})
		if err != nil {
			return nil, fmt.Errorf("call step %d (%s.%s): %w", c.index, c.accountID, c.methodName, err)
		}
		results[c.index] = result

		if result.Outcome.Err != nil {
			for _, o := range outputData {
				allInputData[o.DataID] = vmctx.PromiseResult{Successful: false}
			}
			continue
		}

		switch result.Outcome.ReturnData.Kind {
		case vmdriver.ReturnReceiptIndex:
			adj := result.Outcome.ReturnData.ReceiptIndex + numReceipts
			allOutputData[adj] = append(allOutputData[adj], outputData...)
			if returnIndex == c.index {
				returnIndex = adj
			}
		default:
			// Direct value (or a bare string, or no return at all) resolves
			// every awaiter immediately; a plain string's payload collapses
			// to the empty successful result.
			pr := vmctx.PromiseResult{Successful: true, Value: result.Outcome.ReturnData.Value}
			for _, o := range outputData {
				allInputData[o.DataID] = pr
			}
		}

		for i, r := range result.Receipts {
			if r.ActionCount != 1 {
				return nil, fmt.Errorf("%w: receipt %d to %s has %d actions", ErrMalformedReceipt, i, r.ReceiverID, r.ActionCount)
			}

			dataIDs := make([]int, len(r.ReceiptIndices))
			for j, k := range r.ReceiptIndices {
				did := numData
				numData++
				dataIDs[j] = did
				adjIdx := k + numReceipts
				allOutputData[adjIdx] = append(allOutputData[adjIdx], outputEntry{AccountID: r.ReceiverID, DataID: did})
			}

			queue = append(queue, &descriptor{
				index:                i + numReceipts,
				accountID:            r.ReceiverID,
				methodName:           r.FunctionCall.MethodName,
				input:                r.FunctionCall.Args,
				signerAccountID:      c.signerAccountID,
				predecessorAccountID: c.accountID,
				prepaidGas:           r.FunctionCall.Gas,
				attachedDeposit:      r.FunctionCall.Deposit,
				inputDataIDs:         dataIDs,
			})
		}

		numReceipts += len(result.Receipts)
	}

	final := results[returnIndex]
	out := &Result{Calls: calls, Results: results}
	if final != nil {
		out.Err = final.Outcome.Err
		if final.Outcome.Err == nil && final.Outcome.ReturnData.Kind == vmdriver.ReturnValue && len(final.Outcome.ReturnData.Value) > 0 {
			out.ReturnValue = json.RawMessage(final.Outcome.ReturnData.Value)
		}
	}
	return out, nil
}

func resolveInputData(ids []int, allInputData map[int]vmctx.PromiseResult) ([]vmctx.PromiseResult, bool) {
	if len(ids) == 0 {
		return nil, true
	}

	resolved := make([]vmctx.PromiseResult, len(ids))
	for i, id := range ids {
		pr, found := allInputData[id]
		if !found {
			return nil, false
		}
		resolved[i] = pr
	}
	return resolved, true
}
