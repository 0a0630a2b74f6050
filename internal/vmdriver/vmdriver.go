// Package vmdriver bridges the scheduler to the external VM Driver: an
// opaque, single-shot evaluator invoked as a child process per method call.
// Everything about the WASM interpreter itself lives outside this module;
// this package only owns the named-argument, JSON-stdout wire protocol.
package vmdriver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/multiversx/mx-contract-simulator/internal/vmctx"
)

var log = logger.GetOrCreate("vmdriver")

// Fatal step-level errors.
var (
	ErrVmLaunchFailed  = errors.New("vm driver could not be spawned")
	ErrVmCrashed       = errors.New("vm driver crashed")
	ErrMalformedOutcome = errors.New("vm driver produced an unparseable outcome")
)

// ReturnKind tags the shape of an Outcome's return value.
type ReturnKind int

const (
	// ReturnNone means the call produced no return value.
	ReturnNone ReturnKind = iota
	// ReturnValue means the call returned raw bytes (or a plain string,
	// collapsed to an empty payload on the "plain" wire kind).
	ReturnValue
	// ReturnReceiptIndex means the call's real answer is whatever the
	// receipt at this local index eventually returns.
	ReturnReceiptIndex
)

// ReturnData is the tagged union { Value(bytes) , ReceiptIndex(n) , None }.
type ReturnData struct {
	Kind         ReturnKind
	Value        []byte
	ReceiptIndex int
}

// OutcomeError is the nullable error descriptor a contract call can report.
type OutcomeError struct {
	Message string `json:"message"`
}

// Outcome is the VM Driver's report for a single step.
type Outcome struct {
	Logs         []string      `json:"logs"`
	Balance      uint64        `json:"balance"`
	StorageUsage uint64        `json:"storage_usage"`
	ReturnData   ReturnData    `json:"-"`
	Err          *OutcomeError `json:"err"`
}

// FunctionCallAction is the single action kind a Receipt may carry.
type FunctionCallAction struct {
	MethodName string `json:"method_name"`
	Args       string `json:"args"`
	Gas        uint64 `json:"gas"`
	Deposit    uint64 `json:"deposit"`
}

// Receipt is one follow-on contract call emitted by a step. ActionCount
// reflects how many actions the driver attached to the receipt; the
// scheduler rejects anything but exactly one FunctionCall action.
type Receipt struct {
	ReceiverID     string             `json:"receiver_id"`
	ReceiptIndices []int              `json:"receipt_indices"`
	ActionCount    int                `json:"action_count"`
	FunctionCall   FunctionCallAction `json:"function_call"`
}

// Result bundles everything the driver reports for one step.
type Result struct {
	Outcome  Outcome
	Receipts []Receipt
	State    []byte
}

// wireReturnData is the JSON-on-the-wire shape of ReturnData, tagged by kind.
type wireReturnData struct {
	Kind         string `json:"kind"`
	Value        string `json:"value,omitempty"`
	ReceiptIndex *int   `json:"receipt_index,omitempty"`
	Plain        string `json:"plain,omitempty"`
}

type wireOutcome struct {
	Logs         []string       `json:"logs"`
	Balance      uint64         `json:"balance"`
	StorageUsage uint64         `json:"storage_usage"`
	ReturnData   wireReturnData `json:"return_data"`
	Err          *OutcomeError  `json:"err"`
}

type wireDocument struct {
	Outcome  wireOutcome `json:"outcome"`
	Receipts []Receipt   `json:"receipts"`
	State    string      `json:"state"`
}

// Request is everything the driver needs for one step.
type Request struct {
	Context    *vmctx.VMContext
	Input      string
	WasmFile   string
	MethodName string
	State      []byte
}

// Invoke spawns the VM Driver binary as a child process, feeds it the
// request per the driver's named-argument protocol, and decodes its
// stdout JSON document. driverPath is the path to the external evaluator
// executable (e.g. resolved from $PATH or simulator configuration).
func Invoke(driverPath string, req *Request) (*Result, error) {
	contextJSON, err := json.Marshal(req.Context)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding context: %v", ErrMalformedOutcome, err)
	}

	args := []string{
		"--context", string(contextJSON),
		"--input", req.Input,
		"--method-name", req.MethodName,
		"--state", string(req.State),
	}
	if req.WasmFile != "" {
		args = append(args, "--wasm-file", req.WasmFile)
	}
	for _, pr := range req.Context.InputData {
		args = append(args, "--promise-results", encodePromiseResult(pr))
	}

	cmd := exec.Command(driverPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		log.Debug("vm driver launch failed", "path", driverPath, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrVmLaunchFailed, err)
	}

	if err := cmd.Wait(); err != nil {
		log.Debug("vm driver exited non-zero", "stderr", stderr.String())
		return nil, fmt.Errorf("%w: %s", ErrVmCrashed, stderr.String())
	}

	return decodeResult(stdout.Bytes())
}

func encodePromiseResult(pr vmctx.PromiseResult) string {
	if !pr.Successful {
		return "failed"
	}
	return fmt.Sprintf("ok:%s", pr.Value)
}

func decodeResult(stdout []byte) (*Result, error) {
	var doc wireDocument
	if err := json.Unmarshal(stdout, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutcome, err)
	}

	returnData, err := decodeReturnData(doc.Outcome.ReturnData)
	if err != nil {
		return nil, err
	}

	return &Result{
		Outcome: Outcome{
			Logs:         doc.Outcome.Logs,
			Balance:      doc.Outcome.Balance,
			StorageUsage: doc.Outcome.StorageUsage,
			ReturnData:   returnData,
			Err:          doc.Outcome.Err,
		},
		Receipts: doc.Receipts,
		State:    []byte(doc.State),
	}, nil
}

func decodeReturnData(wire wireReturnData) (ReturnData, error) {
	switch wire.Kind {
	case "", "none":
		return ReturnData{Kind: ReturnNone}, nil
	case "value":
		return ReturnData{Kind: ReturnValue, Value: []byte(wire.Value)}, nil
	case "plain":
		// A bare string return means "logging only": its payload is treated
		// as the empty successful result.
		return ReturnData{Kind: ReturnValue, Value: []byte{}}, nil
	case "receipt_index":
		if wire.ReceiptIndex == nil {
			return ReturnData{}, fmt.Errorf("%w: receipt_index missing index", ErrMalformedOutcome)
		}
		return ReturnData{Kind: ReturnReceiptIndex, ReceiptIndex: *wire.ReceiptIndex}, nil
	default:
		return ReturnData{}, fmt.Errorf("%w: unknown return_data kind %q", ErrMalformedOutcome, wire.Kind)
	}
}
