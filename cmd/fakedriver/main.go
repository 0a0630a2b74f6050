// Command fakedriver is a scripted stand-in for the VM Driver, used only by
// this repository's own integration tests. It implements the subprocess
// wire protocol for a handful of canned methods, letting the integration
// suite exercise the scheduler without a real contract binary.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type wireReturnData struct {
	Kind         string `json:"kind"`
	Value        string `json:"value,omitempty"`
	ReceiptIndex *int   `json:"receipt_index,omitempty"`
}

type functionCall struct {
	MethodName string `json:"method_name"`
	Args       string `json:"args"`
	Gas        uint64 `json:"gas"`
	Deposit    uint64 `json:"deposit"`
}

type receipt struct {
	ReceiverID     string       `json:"receiver_id"`
	ReceiptIndices []int        `json:"receipt_indices"`
	ActionCount    int          `json:"action_count"`
	FunctionCall   functionCall `json:"function_call"`
}

type outcomeErr struct {
	Message string `json:"message"`
}

type wireOutcome struct {
	Logs         []string       `json:"logs"`
	Balance      uint64         `json:"balance"`
	StorageUsage uint64         `json:"storage_usage"`
	ReturnData   wireReturnData `json:"return_data"`
	Err          *outcomeErr    `json:"err"`
}

type document struct {
	Outcome  wireOutcome `json:"outcome"`
	Receipts []receipt   `json:"receipts"`
	State    string      `json:"state"`
	Err      *outcomeErr `json:"err"`
}

type repeatedFlag []string

func (r *repeatedFlag) String() string { return strings.Join(*r, ",") }
func (r *repeatedFlag) Set(v string) error {
	*r = append(*r, v)
	return nil
}

// counterState mirrors internal/account.State's on-the-wire shape exactly
// (map[string][]byte, JSON-encoded with Go's default base64 []byte codec),
// so this fixture's output round-trips through the real step.DecodeState.
type counterState map[string][]byte

func (cs counterState) value() int {
	raw, ok := cs["counter"]
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(string(raw))
	return n
}

func main() {
	var contextJSON, input, methodName, state, wasmFile string
	var promiseResults repeatedFlag

	flag.StringVar(&contextJSON, "context", "{}", "")
	flag.StringVar(&input, "input", "", "")
	flag.StringVar(&methodName, "method-name", "", "")
	flag.StringVar(&state, "state", "", "")
	flag.StringVar(&wasmFile, "wasm-file", "", "")
	flag.Var(&promiseResults, "promise-results", "")
	flag.Parse()

	var ctx struct {
		AccountBalance uint64 `json:"AccountBalance"`
		StorageUsage   uint64 `json:"StorageUsage"`
	}
	_ = json.Unmarshal([]byte(contextJSON), &ctx)

	doc := document{
		Outcome: wireOutcome{
			Balance:      ctx.AccountBalance,
			StorageUsage: ctx.StorageUsage,
		},
		State: state,
	}

	switch methodName {
	case "echo":
		doc.Outcome.ReturnData = wireReturnData{Kind: "value", Value: input}

	case "inc":
		cs := decodeCounter(state)
		if cs == nil {
			cs = counterState{}
		}
		cs["counter"] = []byte(strconv.Itoa(cs.value() + 1))
		doc.State = encodeCounter(cs)

	case "get":
		cs := decodeCounter(state)
		doc.Outcome.ReturnData = wireReturnData{Kind: "value", Value: strconv.Itoa(cs.value())}

	case "double":
		n := extractInt(input, "n")
		doc.Outcome.ReturnData = wireReturnData{Kind: "value", Value: strconv.Itoa(n * 2)}

	case "forward_to_bob_relay":
		idx := 0
		doc.Outcome.ReturnData = wireReturnData{Kind: "receipt_index", ReceiptIndex: &idx}
		doc.Receipts = []receipt{{
			ReceiverID:  "bob",
			ActionCount: 1,
			FunctionCall: functionCall{
				MethodName: "relay",
				Args:       input,
			},
		}}

	case "relay":
		idx := 0
		doc.Outcome.ReturnData = wireReturnData{Kind: "receipt_index", ReceiptIndex: &idx}
		doc.Receipts = []receipt{{
			ReceiverID:  "carol",
			ActionCount: 1,
			FunctionCall: functionCall{
				MethodName: "double",
				Args:       input,
			},
		}}

	case "forward_to_bob":
		idx := 0
		doc.Outcome.ReturnData = wireReturnData{Kind: "receipt_index", ReceiptIndex: &idx}
		doc.Receipts = []receipt{{
			ReceiverID:  "bob",
			ActionCount: 1,
			FunctionCall: functionCall{
				MethodName: "double",
				Args:       input,
			},
		}}

	case "fan_out_join":
		idx := 2
		doc.Outcome.ReturnData = wireReturnData{Kind: "receipt_index", ReceiptIndex: &idx}
		doc.Receipts = []receipt{
			{ReceiverID: "childA", ActionCount: 1, FunctionCall: functionCall{MethodName: "leaf_ok", Args: "1"}},
			{ReceiverID: "childB", ActionCount: 1, FunctionCall: functionCall{MethodName: "leaf_fail", Args: "2"}},
			{ReceiverID: "joiner", ActionCount: 1, FunctionCall: functionCall{MethodName: "join"}, ReceiptIndices: []int{0, 1}},
		}

	case "leaf_ok":
		doc.Outcome.ReturnData = wireReturnData{Kind: "value", Value: input}

	case "leaf_fail":
		doc.Outcome.Err = &outcomeErr{Message: "leaf failed intentionally"}

	case "join":
		doc.Outcome.ReturnData = wireReturnData{Kind: "value", Value: strings.Join(promiseResults, "|")}

	case "abort_me":
		doc.Outcome.Err = &outcomeErr{Message: "contract aborted"}

	case "malformed_receipt":
		doc.Receipts = []receipt{
			{ReceiverID: "bob", ActionCount: 2, FunctionCall: functionCall{MethodName: "double"}},
		}

	default:
		doc.Outcome.Err = &outcomeErr{Message: fmt.Sprintf("fakedriver: unknown method %q", methodName)}
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

func decodeCounter(state string) counterState {
	cs := counterState{}
	if state == "" {
		return cs
	}
	_ = json.Unmarshal([]byte(state), &cs)
	return cs
}

func encodeCounter(cs counterState) string {
	encoded, _ := json.Marshal(cs)
	return string(encoded)
}

func extractInt(input string, key string) int {
	var m map[string]int
	if err := json.Unmarshal([]byte(input), &m); err == nil {
		return m[key]
	}
	return 0
}
