package walletconnect

import "encoding/json"

const (
	typePub = "pub"
	typeSub = "sub"
	typeAck = "ack"

	methodSessionRequest = "wc_sessionRequest"
	methodSessionUpdate  = "wc_sessionUpdate"
)

// socketMessage is the bridge frame. Payload carries a JSON-encoded
// encryptedPayload for pub frames and is empty otherwise.
type socketMessage struct {
	Topic   string `json:"topic"`
	Type    string `json:"type"`
	Payload string `json:"payload"`
	Silent  bool   `json:"silent"`
}

type PeerMeta struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Icons       []string `json:"icons"`
}

type rpcRequest struct {
	ID      int64  `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rpcEnvelope decodes either a request from the peer or a response to one
// of ours.
type rpcEnvelope struct {
	ID     int64           `json:"id"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

type sessionRequest struct {
	PeerID   string   `json:"peerId"`
	PeerMeta PeerMeta `json:"peerMeta"`
	ChainID  int      `json:"chainId"`
}

type sessionResult struct {
	Approved bool      `json:"approved"`
	ChainID  int       `json:"chainId"`
	Accounts []string  `json:"accounts"`
	PeerID   string    `json:"peerId"`
	PeerMeta *PeerMeta `json:"peerMeta,omitempty"`
}

type sessionUpdate struct {
	Approved bool     `json:"approved"`
	ChainID  *int     `json:"chainId"`
	Accounts []string `json:"accounts"`
}
