package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nimbleshop/nimbleshop/internal/tools"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	reg := tools.NewRegistry()
	reg.MustRegister(tools.Tool{
		Name:        "echo",
		Description: "echoes its input",
		Schema: tools.Schema{
			Required:   []string{"text"},
			Properties: map[string]tools.Property{"text": {Type: "string"}},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"text": args["text"]}, nil
		},
	})
	return &Server{Registry: reg, Log: zap.NewNop()}
}

func roundTrip(t *testing.T, s *Server, lines string) []rpcResponse {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, s.Serve(bufio.NewReader(strings.NewReader(lines)), &out))

	var resps []rpcResponse
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r rpcResponse
		require.NoError(t, dec.Decode(&r))
		resps = append(resps, r)
	}
	return resps
}

func TestToolsList(t *testing.T) {
	resps := roundTrip(t, testServer(t), `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`+"\n")
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)

	result := resps[0].Result.(map[string]interface{})
	listed := result["tools"].([]interface{})
	require.Len(t, listed, 1)
	first := listed[0].(map[string]interface{})
	assert.Equal(t, "echo", first["name"])
}

func TestToolsCall(t *testing.T) {
	line := `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo","arguments":{"text":"hi"}}}` + "\n"
	resps := roundTrip(t, testServer(t), line)
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)
	assert.Equal(t, map[string]interface{}{"text": "hi"}, resps[0].Result)
}

func TestToolsCallValidationError(t *testing.T) {
	line := `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{}}}` + "\n"
	resps := roundTrip(t, testServer(t), line)
	require.Len(t, resps, 1)
	require.NotNil(t, resps[0].Error)
	assert.Equal(t, codeInvalidParams, resps[0].Error.Code)
}

func TestUnknownToolAndMethod(t *testing.T) {
	lines := `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"nope"}}` + "\n" +
		`{"jsonrpc":"2.0","id":5,"method":"prompts/list"}` + "\n"
	resps := roundTrip(t, testServer(t), lines)
	require.Len(t, resps, 2)
	assert.Equal(t, codeMethodNotFound, resps[0].Error.Code)
	assert.Equal(t, codeMethodNotFound, resps[1].Error.Code)
}

func TestMalformedLineDoesNotStopLoop(t *testing.T) {
	lines := "{not json\n" + `{"jsonrpc":"2.0","id":6,"method":"tools/list"}` + "\n"
	resps := roundTrip(t, testServer(t), lines)
	require.Len(t, resps, 2)
	assert.Equal(t, codeParseError, resps[0].Error.Code)
	assert.Nil(t, resps[1].Error)
}
