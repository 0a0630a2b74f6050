package vmdriver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiversx/mx-contract-simulator/internal/vmctx"
	"github.com/multiversx/mx-contract-simulator/testcommon"
)

func TestInvoke_EchoReturnsValue(t *testing.T) {
	driverPath := testcommon.BuildFakeDriver(t)

	result, err := Invoke(driverPath, &Request{
		Context:    &vmctx.VMContext{CurrentAccountID: "alice"},
		Input:      `{"x":7}`,
		MethodName: "echo",
	})
	require.NoError(t, err)
	require.Nil(t, result.Outcome.Err)

	assert.Equal(t, ReturnValue, result.Outcome.ReturnData.Kind)
	assert.JSONEq(t, `{"x":7}`, string(result.Outcome.ReturnData.Value))
}

func TestInvoke_AbortReportsContractError(t *testing.T) {
	driverPath := testcommon.BuildFakeDriver(t)

	result, err := Invoke(driverPath, &Request{
		Context:    &vmctx.VMContext{CurrentAccountID: "alice"},
		MethodName: "abort_me",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Outcome.Err)
	assert.Contains(t, result.Outcome.Err.Message, "aborted")
}

func TestInvoke_ForwardReturnsReceiptIndexAndOneReceipt(t *testing.T) {
	driverPath := testcommon.BuildFakeDriver(t)

	result, err := Invoke(driverPath, &Request{
		Context:    &vmctx.VMContext{CurrentAccountID: "alice"},
		Input:      `{"n":3}`,
		MethodName: "forward_to_bob",
	})
	require.NoError(t, err)
	require.Nil(t, result.Outcome.Err)

	assert.Equal(t, ReturnReceiptIndex, result.Outcome.ReturnData.Kind)
	assert.Equal(t, 0, result.Outcome.ReturnData.ReceiptIndex)
	require.Len(t, result.Receipts, 1)
	assert.Equal(t, "bob", result.Receipts[0].ReceiverID)
	assert.Equal(t, "double", result.Receipts[0].FunctionCall.MethodName)
}

func TestInvoke_UnknownBinaryIsLaunchFailure(t *testing.T) {
	_, err := Invoke("/no/such/vm-driver-binary", &Request{
		Context: &vmctx.VMContext{CurrentAccountID: "alice"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVmLaunchFailed)
}
