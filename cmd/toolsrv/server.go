package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/nimbleshop/nimbleshop/internal/tools"
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type callParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

type toolInfo struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	InputSchema tools.Schema `json:"inputSchema"`
}

// Server answers tools/list and tools/call requests, one JSON object per
// line.
type Server struct {
	Registry *tools.Registry
	Log      *zap.Logger

	mu sync.Mutex // serializes writes
}

// Serve reads requests until EOF. Malformed lines get a parse-error
// response; a single bad request never stops the loop.
func (s *Server) Serve(r *bufio.Reader, w io.Writer) error {
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 1 {
			s.handleLine(line, w)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}
	}
}

func (s *Server) handleLine(line []byte, w io.Writer) {
	var req rpcRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.write(w, rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: codeParseError, Message: "parse error"}})
		return
	}
	s.write(w, s.dispatch(&req))
}

func (s *Server) dispatch(req *rpcRequest) rpcResponse {
	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "tools/list":
		infos := make([]toolInfo, 0)
		for _, name := range s.Registry.Names() {
			t, _ := s.Registry.Get(name)
			infos = append(infos, toolInfo{Name: t.Name, Description: t.Description, InputSchema: t.Schema})
		}
		resp.Result = map[string]interface{}{"tools": infos}

	case "tools/call":
		var params callParams
		if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
			resp.Error = &rpcError{Code: codeInvalidParams, Message: "params must carry a tool name"}
			return resp
		}
		out, err := s.Registry.Execute(context.Background(), params.Name, params.Arguments)
		if err != nil {
			resp.Error = callError(err)
			s.Log.Warn("tool call failed", zap.String("tool", params.Name), zap.Error(err))
			return resp
		}
		resp.Result = out

	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: "method not found: " + req.Method}
	}
	return resp
}

// callError distinguishes argument rejections from vendor failures so
// clients can branch without string matching.
func callError(err error) *rpcError {
	var ae *tools.ArgError
	switch {
	case errors.As(err, &ae):
		return &rpcError{Code: codeInvalidParams, Message: ae.Error()}
	case errors.Is(err, tools.ErrUnknownTool):
		return &rpcError{Code: codeMethodNotFound, Message: err.Error()}
	default:
		return &rpcError{Code: codeServerError, Message: err.Error()}
	}
}

func (s *Server) write(w io.Writer, resp rpcResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	enc := json.NewEncoder(w)
	if err := enc.Encode(resp); err != nil {
		s.Log.Error("write response", zap.Error(err))
	}
}
