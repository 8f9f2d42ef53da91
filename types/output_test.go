package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sovrin-foundation/sovtoken/utils"
)

func TestOutputDeserializeObject(t *testing.T) {
	raw := fmt.Sprintf(`{"address":%q,"amount":10}`, testAddress)

	var out Output
	require.NoError(t, utils.JSONUnmarshal([]byte(raw), &out))
	assert.Equal(t, NewOutput(testAddress, 10), out)
}

func TestOutputDeserializeArray(t *testing.T) {
	raw := fmt.Sprintf(`[%q,10]`, testAddress)

	var out Output
	require.NoError(t, utils.JSONUnmarshal([]byte(raw), &out))
	assert.Equal(t, NewOutput(testAddress, 10), out)
}

func TestOutputDeserializeArrayWithExtra(t *testing.T) {
	raw := fmt.Sprintf(`[%q,10,"memo"]`, testAddress)

	var out Output
	require.NoError(t, utils.JSONUnmarshal([]byte(raw), &out))
	assert.Equal(t, Output{Address: testAddress, Amount: 10, Extra: "memo"}, out)
}

func TestOutputDeserializeStringAmount(t *testing.T) {
	raw := fmt.Sprintf(`{"address":%q,"amount":"10"}`, testAddress)

	var out Output
	require.NoError(t, utils.JSONUnmarshal([]byte(raw), &out))
	assert.Equal(t, uint64(10), out.Amount)
}

func TestOutputDeserializeRejectsBadAmounts(t *testing.T) {
	for _, amount := range []string{`-1`, `1.5`, `"1.5"`, `"-1"`, `"18446744073709551616"`, `true`} {
		raw := fmt.Sprintf(`{"address":%q,"amount":%s}`, testAddress, amount)

		var out Output
		err := utils.JSONUnmarshal([]byte(raw), &out)
		assert.Errorf(t, err, "amount %s was accepted", amount)
	}
}

func TestOutputDeserializeMissingFields(t *testing.T) {
	var out Output
	err := utils.JSONUnmarshal([]byte(`{"amount":10}`), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing field `address`")

	err = utils.JSONUnmarshal([]byte(fmt.Sprintf(`{"address":%q}`, testAddress)), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing field `amount`")
}

func TestOutputDeserializeRejectsBadArrayShapes(t *testing.T) {
	for _, raw := range []string{`[]`, fmt.Sprintf(`[%q]`, testAddress), fmt.Sprintf(`[%q,1,"x","y"]`, testAddress)} {
		var out Output
		assert.Errorf(t, utils.JSONUnmarshal([]byte(raw), &out), "array %s was accepted", raw)
	}
}

func TestOutputSerializeObjectForm(t *testing.T) {
	data, err := utils.JSONMarshal(NewOutput(testAddress, 10))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(`{"address":%q,"amount":10}`, testAddress), string(data))

	data, err = utils.JSONMarshal(Output{Address: testAddress, Amount: 10, Extra: "memo"})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(`{"address":%q,"amount":10,"extra":"memo"}`, testAddress), string(data))
}

func TestOutputArrayFormRoundTripsToObject(t *testing.T) {
	var out Output
	require.NoError(t, utils.JSONUnmarshal([]byte(fmt.Sprintf(`[%q,22]`, testAddress)), &out))

	data, err := utils.JSONMarshal(out)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(`{"address":%q,"amount":22}`, testAddress), string(data))
}
