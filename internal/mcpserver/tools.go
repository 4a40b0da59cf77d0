// Package mcpserver exposes the event catalog, insights and ticket checks
// as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"algotix/internal/events"
	"algotix/internal/logging"
	"algotix/internal/ticketing"
)

type Insighter interface {
	Insight(ctx context.Context, e events.Event) string
}

type TicketChecker interface {
	CheckTicket(ctx context.Context, address string) (bool, error)
	Status(ctx context.Context) (ticketing.Status, error)
}

type NoParams struct{}

type EventInsightParams struct {
	EventID int `json:"event_id" mcp:"id of the event from list_events"`
}

type CheckTicketParams struct {
	Address string `json:"address" mcp:"Algorand account address to check"`
}

type Tools struct {
	insights Insighter
	tickets  TicketChecker
	log      logging.Logger
}

func NewTools(insights Insighter, tickets TicketChecker, log logging.Logger) *Tools {
	return &Tools{insights: insights, tickets: tickets, log: log}
}

// NewServer builds an MCP server with every tool registered.
func NewServer(t *Tools, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "algotix-mcp", Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_events",
		Description: "Lists the campus events available on AlgoTix",
	}, t.ListEvents)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "event_insight",
		Description: "Returns a one-sentence can't-miss pitch for an event",
	}, t.EventInsight)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_ticket",
		Description: "Checks whether an Algorand account holds the event ticket asset",
	}, t.CheckTicket)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "algo_status",
		Description: "Reports Algorand node connectivity, app id, ticket asset id and last round",
	}, t.AlgoStatus)
	return server
}

func (t *Tools) ListEvents(ctx context.Context, _ *mcp.ServerSession, _ *mcp.CallToolParamsFor[NoParams]) (*mcp.CallToolResultFor[any], error) {
	b, err := json.MarshalIndent(events.All(), "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode events: %v", err)), nil
	}
	return textResult(string(b)), nil
}

func (t *Tools) EventInsight(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[EventInsightParams]) (*mcp.CallToolResultFor[any], error) {
	ev, ok := events.Find(params.Arguments.EventID)
	if !ok {
		return errorResult(fmt.Sprintf("no event with id %d", params.Arguments.EventID)), nil
	}
	return textResult(t.insights.Insight(ctx, ev)), nil
}

func (t *Tools) CheckTicket(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[CheckTicketParams]) (*mcp.CallToolResultFor[any], error) {
	ok, err := t.tickets.CheckTicket(ctx, params.Arguments.Address)
	if err != nil {
		t.log.Warn(ctx, "check_ticket failed", "error", err)
		return errorResult(fmt.Sprintf("ticket check failed: %v", err)), nil
	}
	b, _ := json.Marshal(map[string]bool{"has_ticket": ok})
	return textResult(string(b)), nil
}

func (t *Tools) AlgoStatus(ctx context.Context, _ *mcp.ServerSession, _ *mcp.CallToolParamsFor[NoParams]) (*mcp.CallToolResultFor[any], error) {
	st, err := t.tickets.Status(ctx)
	if err != nil {
		t.log.Warn(ctx, "algo_status failed", "error", err)
		return errorResult(fmt.Sprintf("status unavailable: %v", err)), nil
	}
	b, _ := json.Marshal(st)
	return textResult(string(b)), nil
}

func textResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{IsError: true, Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}
