package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oneCardRequest = `{"spec":{
	"dealer_seat":3,"hero_seat":0,
	"hands":[["4c","5s","6s"],["3s","3h","5h"],["2s","Ks","Qs"],["Js","Jh","6h"]],
	"commands":[{"seat":0,"type":"play_card","card":"4c"}]
}}`

func TestHandleInit(t *testing.T) {
	resp := handleInit(oneCardRequest)
	require.True(t, resp.OK, "%+v", resp.Error)
	require.NotNil(t, resp.Tape)
	assert.Equal(t, 0, resp.Tape.HeroSeat)
	assert.NotEmpty(t, resp.Tape.Events)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustJSON(resp)), &decoded))
	assert.Equal(t, true, decoded["ok"])
	assert.Contains(t, decoded["tape"], "events")
}

func TestHandleInitFailures(t *testing.T) {
	resp := handleInit("{")
	assert.False(t, resp.OK)
	assert.Equal(t, reasonInvalidJSON, resp.Error.Reason)

	resp = handleInit(`{}`)
	assert.Equal(t, reasonInvalidRequest, resp.Error.Reason)

	resp = handleInit(`{"spec":{"dealer_seat":3,"commands":[{"seat":2,"type":"play_card"}]}}`)
	assert.False(t, resp.OK)
	assert.Equal(t, "out_of_turn", resp.Error.Reason)
	require.NotNil(t, resp.Error.Expected)
	assert.Equal(t, 0, resp.Error.Expected.ActiveSeat)
}
