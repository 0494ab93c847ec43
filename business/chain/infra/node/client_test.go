package node

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/internal/apperror"
	"github.com/fd1az/chain-explorer/internal/config"
	"github.com/fd1az/chain-explorer/internal/logger"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handlerFunc answers one call with either a result or an error.
type handlerFunc func(params []json.RawMessage) (any, *rpcError)

// fakeNode is a minimal JSON-RPC 2.0 server.
type fakeNode struct {
	mu       sync.Mutex
	handlers map[string]handlerFunc
	tokens   []string
}

func newFakeNode() *fakeNode {
	return &fakeNode{handlers: make(map[string]handlerFunc)}
}

func (n *fakeNode) handle(method string, h handlerFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = h
}

func (n *fakeNode) seenTokens() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.tokens...)
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	h, ok := n.handlers[req.Method]
	if len(req.Params) > 0 && req.Method != MethodNetwork && req.Method != MethodCookieHint {
		var tok string
		_ = json.Unmarshal(req.Params[0], &tok)
		n.tokens = append(n.tokens, tok)
	}
	n.mu.Unlock()

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = rpcError{Code: -32601, Message: "method not found"}
	} else if result, rerr := h(req.Params); rerr != nil {
		resp["error"] = rerr
	} else {
		resp["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func nodeConfigFor(t *testing.T, url string) config.NodeConfig {
	t.Helper()

	host, port, err := net.SplitHostPort(strings.TrimPrefix(url, "http://"))
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	return config.NodeConfig{Host: host, RPCPort: p, Network: "main", RequestTimeout: 2 * time.Second}
}

func writeCookie(t *testing.T, dir string, raw []byte) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, cookieFileName), raw, 0o600))
	return hex.EncodeToString(raw)
}

func testCookie() []byte {
	b := make([]byte, cookieLen)
	for i := range b {
		b[i] = byte(i + 1)
	}
	return b
}

func newTestDialer(t *testing.T, node *fakeNode, mutate func(*config.NodeConfig)) *Dialer {
	t.Helper()

	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)

	cfg := nodeConfigFor(t, srv.URL)
	if mutate != nil {
		mutate(&cfg)
	}

	d, err := NewDialer(cfg, logger.Nop())
	require.NoError(t, err)
	return d
}

func TestDial_UsesCookieHint(t *testing.T) {
	dir := t.TempDir()
	token := writeCookie(t, dir, testCookie())

	node := newFakeNode()
	node.handle(MethodNetwork, func([]json.RawMessage) (any, *rpcError) { return "testnet", nil })
	node.handle(MethodCookieHint, func([]json.RawMessage) (any, *rpcError) {
		return CookieHint{DataDirectory: dir, Network: "testnet"}, nil
	})
	node.handle(MethodBlockHeight, func([]json.RawMessage) (any, *rpcError) { return 42, nil })

	d := newTestDialer(t, node, nil)

	client, network, err := d.Dial(context.Background())
	require.NoError(t, err)
	defer client.Close()
	require.Equal(t, domain.NetworkTestnet, network)

	h, err := client.BlockHeight(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.BlockHeight(42), h)
	require.Equal(t, []string{token}, node.seenTokens())
}

func TestDial_ConfiguredDataDirWins(t *testing.T) {
	dir := t.TempDir()
	writeCookie(t, dir, []byte(hex.EncodeToString(testCookie())+"\n"))

	node := newFakeNode()
	node.handle(MethodNetwork, func([]json.RawMessage) (any, *rpcError) { return "main", nil })
	node.handle(MethodCookieHint, func([]json.RawMessage) (any, *rpcError) {
		t.Error("cookie hint must not be asked when a data dir is configured")
		return nil, nil
	})

	d := newTestDialer(t, node, func(c *config.NodeConfig) { c.DataDir = dir })

	client, network, err := d.Dial(context.Background())
	require.NoError(t, err)
	defer client.Close()
	require.Equal(t, domain.NetworkMain, network)
}

func TestDial_MissingCookieFailsAuth(t *testing.T) {
	node := newFakeNode()
	node.handle(MethodNetwork, func([]json.RawMessage) (any, *rpcError) { return "main", nil })

	d := newTestDialer(t, node, func(c *config.NodeConfig) { c.DataDir = t.TempDir() })

	_, _, err := d.Dial(context.Background())
	require.Error(t, err)
	require.Equal(t, apperror.CodeNodeAuthFailed, apperror.GetCode(err))
}

func TestDial_NodeDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := nodeConfigFor(t, srv.URL)
	srv.Close()

	d, err := NewDialer(cfg, logger.Nop())
	require.NoError(t, err)

	_, _, err = d.Dial(context.Background())
	require.Error(t, err)
	require.Equal(t, apperror.CodeNodeConnectionFailed, apperror.GetCode(err))
	require.Equal(t, http.StatusServiceUnavailable, apperror.StatusCode(err))
}

func dialReady(t *testing.T, node *fakeNode) *Client {
	t.Helper()

	dir := t.TempDir()
	writeCookie(t, dir, testCookie())
	node.handle(MethodNetwork, func([]json.RawMessage) (any, *rpcError) { return "main", nil })

	d := newTestDialer(t, node, func(c *config.NodeConfig) { c.DataDir = dir })
	client, _, err := d.dial(context.Background())
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestClient_NullResultIsNone(t *testing.T) {
	node := newFakeNode()
	node.handle(MethodBlockDigest, func([]json.RawMessage) (any, *rpcError) { return nil, nil })
	node.handle(MethodUtxoDigest, func([]json.RawMessage) (any, *rpcError) { return strings.Repeat("ab", domain.DigestLen), nil })

	client := dialReady(t, node)

	got, err := client.BlockDigest(context.Background(), domain.AtHeight(9))
	require.NoError(t, err)
	require.True(t, got.IsNone())

	utxo, err := client.UtxoDigest(context.Background(), 3)
	require.NoError(t, err)
	d := utxo.UnwrapOrFail(t)
	require.Equal(t, strings.Repeat("ab", domain.DigestLen), d.String())
}

func TestClient_SelectorIsSentAsText(t *testing.T) {
	var got string
	node := newFakeNode()
	node.handle(MethodBlockInfo, func(params []json.RawMessage) (any, *rpcError) {
		require.Len(t, params, 2)
		_ = json.Unmarshal(params[1], &got)
		return domain.BlockInfo{Height: 7, NumAnnouncements: 2}, nil
	})

	client := dialReady(t, node)

	info, err := client.BlockInfo(context.Background(), domain.AtHeight(7))
	require.NoError(t, err)
	require.Equal(t, domain.BlockHeight(7), info.UnwrapOrFail(t).Height)
	require.Equal(t, domain.AtHeight(7).String(), got)
}

func TestClient_ErrorClassification(t *testing.T) {
	node := newFakeNode()
	node.handle(MethodBlockHeight, func([]json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: ErrCodeUnauthorized, Message: "bad cookie"}
	})
	node.handle(MethodAnnouncementsInBlock, func([]json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: -32000, Message: "boom"}
	})

	client := dialReady(t, node)

	_, err := client.BlockHeight(context.Background())
	require.Equal(t, apperror.CodeNodeUnauthorized, apperror.GetCode(err))
	require.Equal(t, http.StatusUnauthorized, apperror.StatusCode(err))

	_, err = client.AnnouncementsInBlock(context.Background(), domain.Tip())
	require.Equal(t, apperror.CodeNodeMethodFailed, apperror.GetCode(err))
	require.Equal(t, http.StatusBadRequest, apperror.StatusCode(err))
}

func TestClient_ApplicationErrorsDoNotTripBreaker(t *testing.T) {
	node := newFakeNode()
	node.handle(MethodBlockHeight, func([]json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: -32000, Message: "nope"}
	})

	client := dialReady(t, node)

	for range 10 {
		_, err := client.BlockHeight(context.Background())
		require.Equal(t, apperror.CodeNodeMethodFailed, apperror.GetCode(err))
	}
}

func TestLoadCookie(t *testing.T) {
	t.Run("raw bytes", func(t *testing.T) {
		dir := t.TempDir()
		want := writeCookie(t, dir, testCookie())

		got, err := loadCookie(dir)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("hex with newline", func(t *testing.T) {
		dir := t.TempDir()
		want := hex.EncodeToString(testCookie())
		writeCookie(t, dir, []byte(strings.ToUpper(want)+"\n"))

		got, err := loadCookie(dir)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("wrong length", func(t *testing.T) {
		dir := t.TempDir()
		writeCookie(t, dir, []byte("abcd"))

		_, err := loadCookie(dir)
		require.Error(t, err)
	})
}

func TestDefaultDataDir(t *testing.T) {
	dir := DefaultDataDir(domain.NetworkRegtest)
	require.Equal(t, "regtest", filepath.Base(dir))
}
