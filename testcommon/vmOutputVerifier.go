package testcommon

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/multiversx/mx-contract-simulator/simulator"
)

// CallResultVerifier holds a simulator.CallResult to be verified, fluent-builder
// style.
type CallResultVerifier struct {
	Result *simulator.CallResult
	T      testing.TB
}

// NewCallResultVerifier builds a new verifier, failing immediately if err is
// non-nil or result is nil so later chained assertions never run against a
// zero value.
func NewCallResultVerifier(t testing.TB, result *simulator.CallResult, err error) *CallResultVerifier {
	require.NoError(t, err, "Error is not nil")
	require.NotNil(t, result, "Provided CallResult is nil")

	return &CallResultVerifier{Result: result, T: t}
}

// Succeeded verifies that the call did not report a contract error.
func (v *CallResultVerifier) Succeeded() *CallResultVerifier {
	require.Nil(v.T, v.Result.Err, "expected no contract error")
	return v
}

// Failed verifies that the call reported a contract error.
func (v *CallResultVerifier) Failed() *CallResultVerifier {
	require.NotNil(v.T, v.Result.Err, "expected a contract error")
	return v
}

// ErrorContains verifies the contract error message contains the given substring.
func (v *CallResultVerifier) ErrorContains(substring string) *CallResultVerifier {
	require.NotNil(v.T, v.Result.Err, "expected a contract error")
	require.Contains(v.T, *v.Result.Err, substring)
	return v
}

// ReturnValueJSON verifies the return value, parsed as JSON, equals expected.
func (v *CallResultVerifier) ReturnValueJSON(expected string) *CallResultVerifier {
	require.JSONEq(v.T, expected, string(v.Result.ReturnValue), "ReturnValue")
	return v
}

// CallCount verifies how many calls (root plus receipts) the scheduler ran.
func (v *CallResultVerifier) CallCount(count int) *CallResultVerifier {
	require.Equal(v.T, count, len(v.Result.Calls), "CallCount")
	return v
}

// CalledAccount verifies that the call at the given global index targeted the given account/method.
func (v *CallResultVerifier) CalledAccount(index int, accountID, method string) *CallResultVerifier {
	call, ok := v.Result.Calls[index]
	require.True(v.T, ok, fmt.Sprintf("no call recorded at index %d", index))
	require.Equal(v.T, accountID, call.AccountID, "AccountID")
	require.Equal(v.T, method, call.MethodName, "MethodName")
	return v
}

// Print writes a compact summary of the result for debugging failing tests.
func (v *CallResultVerifier) Print() *CallResultVerifier {
	encoded, _ := json.Marshal(v.Result.ReturnValue)
	v.T.Logf("CallResult: err=%v calls=%d returnValue=%s", v.Result.Err, len(v.Result.Calls), encoded)
	return v
}
