// Package walletconnect implements wallet.Provider over a WalletConnect v1
// bridge, the pairing protocol used by the Pera wallet.
package walletconnect

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"algotix/internal/logging"
	"algotix/internal/wallet"
)

// AlgorandMainnetChainID is the chain id Pera expects for Algorand.
const AlgorandMainnetChainID = 4160

var ErrSessionRejected = errors.New("wallet rejected the session")

type Options struct {
	BridgeURL   string
	SessionPath string
	ChainID     int
	Meta        PeerMeta
	// Display shows the pairing URI to the user, typically as a QR code or link.
	Display func(uri string)
	Dialer  *websocket.Dialer
}

type Provider struct {
	opts  Options
	log   logging.Logger
	reqID atomic.Int64

	mu           sync.Mutex
	conn         *conn
	key          []byte
	session      *Session
	pending      map[int64]chan rpcEnvelope
	onDisconnect func()
}

var _ wallet.Provider = (*Provider)(nil)

func New(opts Options, log logging.Logger) *Provider {
	if opts.ChainID == 0 {
		opts.ChainID = AlgorandMainnetChainID
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	p := &Provider{opts: opts, log: log, pending: make(map[int64]chan rpcEnvelope)}
	p.reqID.Store(time.Now().UnixMilli() * 1000)
	return p
}

func (p *Provider) OnDisconnect(fn func()) {
	p.mu.Lock()
	p.onDisconnect = fn
	p.mu.Unlock()
}

// Connect pairs a new wallet. A cancelled ctx is reported as
// wallet.ErrConnectModalClosed.
func (p *Provider) Connect(ctx context.Context) ([]string, error) {
	key, err := newKey()
	if err != nil {
		return nil, err
	}
	clientID := uuid.NewString()
	topic := uuid.NewString()

	c, err := p.attach(ctx, p.opts.BridgeURL, key)
	if err != nil {
		return nil, err
	}
	if err := c.subscribe(clientID); err != nil {
		p.detach(c)
		return nil, err
	}

	id, replies := p.expect()
	defer p.forget(id)
	req := rpcRequest{
		ID:      id,
		JSONRPC: "2.0",
		Method:  methodSessionRequest,
		Params:  []any{sessionRequest{PeerID: clientID, PeerMeta: p.opts.Meta, ChainID: p.opts.ChainID}},
	}
	if err := publish(c, key, topic, req); err != nil {
		p.detach(c)
		return nil, err
	}

	if p.opts.Display != nil {
		p.opts.Display(PairingURI(topic, p.opts.BridgeURL, key))
	}

	var resp rpcEnvelope
	select {
	case <-ctx.Done():
		p.detach(c)
		return nil, fmt.Errorf("%w: %v", wallet.ErrConnectModalClosed, ctx.Err())
	case <-c.done():
		p.detach(c)
		return nil, errConnClosed
	case resp = <-replies:
	}

	if resp.Error != nil {
		p.detach(c)
		return nil, fmt.Errorf("%w: %s", ErrSessionRejected, resp.Error.Message)
	}
	var result sessionResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		p.detach(c)
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	if !result.Approved {
		p.detach(c)
		return nil, ErrSessionRejected
	}

	s := &Session{
		Bridge:         p.opts.BridgeURL,
		Key:            hex.EncodeToString(key),
		ClientID:       clientID,
		PeerID:         result.PeerID,
		PeerMeta:       result.PeerMeta,
		HandshakeTopic: topic,
		ChainID:        result.ChainID,
		Accounts:       result.Accounts,
	}
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()
	if err := saveSession(p.opts.SessionPath, s); err != nil {
		p.log.Warn(ctx, "failed to persist wallet session", "error", err)
	}
	return result.Accounts, nil
}

// ReconnectSession resumes the saved session, if any.
func (p *Provider) ReconnectSession(ctx context.Context) ([]string, error) {
	s, err := loadSession(p.opts.SessionPath)
	if err != nil || s == nil {
		return nil, err
	}
	key, err := hex.DecodeString(s.Key)
	if err != nil {
		return nil, fmt.Errorf("decode session key: %w", err)
	}
	c, err := p.attach(ctx, s.Bridge, key)
	if err != nil {
		return nil, err
	}
	if err := c.subscribe(s.ClientID); err != nil {
		p.detach(c)
		return nil, err
	}
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()
	return s.Accounts, nil
}

// Disconnect tells the peer the session is over and forgets it locally.
func (p *Provider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	c, key, s := p.conn, p.key, p.session
	p.conn, p.session = nil, nil
	p.mu.Unlock()

	var errs []error
	if c != nil {
		if s != nil && s.PeerID != "" {
			update := rpcRequest{
				ID:      p.reqID.Add(1),
				JSONRPC: "2.0",
				Method:  methodSessionUpdate,
				Params:  []any{sessionUpdate{Approved: false}},
			}
			if err := publish(c, key, s.PeerID, update); err != nil {
				errs = append(errs, fmt.Errorf("notify peer: %w", err))
			}
		}
		c.closeAfterFlush()
		select {
		case <-c.done():
		case <-ctx.Done():
			c.close()
		}
	}
	if err := removeSession(p.opts.SessionPath); err != nil {
		errs = append(errs, fmt.Errorf("remove session: %w", err))
	}
	return errors.Join(errs...)
}

// PairingURI builds the wc: URI the wallet scans.
func PairingURI(topic, bridge string, key []byte) string {
	return fmt.Sprintf("wc:%s@1?bridge=%s&key=%s", topic, url.QueryEscape(bridge), hex.EncodeToString(key))
}

func (p *Provider) attach(ctx context.Context, bridge string, key []byte) (*conn, error) {
	c, err := dial(ctx, p.opts.Dialer, bridge)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	prev := p.conn
	p.conn, p.key = c, key
	p.mu.Unlock()
	if prev != nil {
		prev.close()
	}
	c.start(func(msg socketMessage) { p.handle(c, msg) })
	return c, nil
}

func (p *Provider) detach(c *conn) {
	p.mu.Lock()
	if p.conn == c {
		p.conn = nil
	}
	p.mu.Unlock()
	c.close()
}

func (p *Provider) expect() (int64, chan rpcEnvelope) {
	id := p.reqID.Add(1)
	ch := make(chan rpcEnvelope, 1)
	p.mu.Lock()
	p.pending[id] = ch
	p.mu.Unlock()
	return id, ch
}

func (p *Provider) forget(id int64) {
	p.mu.Lock()
	delete(p.pending, id)
	p.mu.Unlock()
}

func publish(c *conn, key []byte, topic string, req rpcRequest) error {
	plain, err := json.Marshal(req)
	if err != nil {
		return err
	}
	sealed, err := encrypt(key, plain)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", req.Method, err)
	}
	payload, err := json.Marshal(sealed)
	if err != nil {
		return err
	}
	return c.write(socketMessage{Topic: topic, Type: typePub, Payload: string(payload), Silent: true})
}

func (p *Provider) handle(c *conn, msg socketMessage) {
	if msg.Type != typePub {
		return
	}
	_ = c.write(socketMessage{Topic: msg.Topic, Type: typeAck, Silent: true})

	p.mu.Lock()
	key := p.key
	p.mu.Unlock()

	var sealed encryptedPayload
	if err := json.Unmarshal([]byte(msg.Payload), &sealed); err != nil {
		p.log.Warn(context.Background(), "malformed bridge payload", "topic", msg.Topic, "error", err)
		return
	}
	plain, err := decrypt(key, sealed)
	if err != nil {
		p.log.Warn(context.Background(), "undecryptable bridge payload", "topic", msg.Topic, "error", err)
		return
	}
	var env rpcEnvelope
	if err := json.Unmarshal(plain, &env); err != nil {
		p.log.Warn(context.Background(), "malformed json-rpc payload", "error", err)
		return
	}

	if env.Method == "" {
		p.mu.Lock()
		ch := p.pending[env.ID]
		delete(p.pending, env.ID)
		p.mu.Unlock()
		if ch != nil {
			ch <- env
		}
		return
	}
	if env.Method == methodSessionUpdate {
		var params []sessionUpdate
		if err := json.Unmarshal(env.Params, &params); err != nil || len(params) == 0 {
			return
		}
		if !params[0].Approved {
			p.peerDisconnected(c)
			return
		}
		p.accountsChanged(params[0].Accounts)
	}
}

func (p *Provider) accountsChanged(accounts []string) {
	p.mu.Lock()
	s := p.session
	if s != nil {
		s.Accounts = accounts
	}
	p.mu.Unlock()
	if s != nil {
		if err := saveSession(p.opts.SessionPath, s); err != nil {
			p.log.Warn(context.Background(), "failed to persist wallet session", "error", err)
		}
	}
}

func (p *Provider) peerDisconnected(c *conn) {
	p.mu.Lock()
	if p.conn == c {
		p.conn, p.session = nil, nil
	}
	cb := p.onDisconnect
	p.mu.Unlock()

	if err := removeSession(p.opts.SessionPath); err != nil {
		p.log.Warn(context.Background(), "failed to remove wallet session", "error", err)
	}
	c.close()
	if cb != nil {
		cb()
	}
}
