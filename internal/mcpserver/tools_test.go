package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"algotix/internal/events"
	"algotix/internal/logging"
	"algotix/internal/ticketing"
)

type fakeInsights struct{ calls []int }

func (f *fakeInsights) Insight(_ context.Context, e events.Event) string {
	f.calls = append(f.calls, e.ID)
	return "Don't miss " + e.Title
}

type fakeTickets struct {
	holder string
	err    error
}

func (f fakeTickets) CheckTicket(_ context.Context, addr string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return addr == f.holder, nil
}

func (f fakeTickets) Status(context.Context) (ticketing.Status, error) {
	if f.err != nil {
		return ticketing.Status{}, f.err
	}
	return ticketing.Status{Connected: true, AppID: 1, AssetID: 2, LastRound: 3}, nil
}

func text(t *testing.T, res *mcp.CallToolResultFor[any]) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestListEvents(t *testing.T) {
	tools := NewTools(&fakeInsights{}, fakeTickets{}, logging.Nop())
	res, err := tools.ListEvents(context.Background(), nil, &mcp.CallToolParamsFor[NoParams]{})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var got []events.Event
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &got))
	require.Equal(t, events.All(), got)
}

func TestEventInsight(t *testing.T) {
	fi := &fakeInsights{}
	tools := NewTools(fi, fakeTickets{}, logging.Nop())

	res, err := tools.EventInsight(context.Background(), nil, &mcp.CallToolParamsFor[EventInsightParams]{Arguments: EventInsightParams{EventID: 5}})
	require.NoError(t, err)
	require.Equal(t, "Don't miss Quantum Techno Rave", text(t, res))

	res, err = tools.EventInsight(context.Background(), nil, &mcp.CallToolParamsFor[EventInsightParams]{Arguments: EventInsightParams{EventID: 50}})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Equal(t, []int{5}, fi.calls)
}

func TestCheckTicketAndStatus(t *testing.T) {
	tools := NewTools(&fakeInsights{}, fakeTickets{holder: "ADDR"}, logging.Nop())

	res, err := tools.CheckTicket(context.Background(), nil, &mcp.CallToolParamsFor[CheckTicketParams]{Arguments: CheckTicketParams{Address: "ADDR"}})
	require.NoError(t, err)
	require.JSONEq(t, `{"has_ticket":true}`, text(t, res))

	res, err = tools.AlgoStatus(context.Background(), nil, &mcp.CallToolParamsFor[NoParams]{})
	require.NoError(t, err)
	require.JSONEq(t, `{"connected":true,"app_id":1,"asset_id":2,"last_round":3}`, text(t, res))

	down := NewTools(&fakeInsights{}, fakeTickets{err: errors.New("node down")}, logging.Nop())
	res, err = down.CheckTicket(context.Background(), nil, &mcp.CallToolParamsFor[CheckTicketParams]{Arguments: CheckTicketParams{Address: "ADDR"}})
	require.NoError(t, err)
	require.True(t, res.IsError)
	res, err = down.AlgoStatus(context.Background(), nil, &mcp.CallToolParamsFor[NoParams]{})
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestNewServer(t *testing.T) {
	require.NotNil(t, NewServer(NewTools(&fakeInsights{}, fakeTickets{}, logging.Nop()), "test"))
}
