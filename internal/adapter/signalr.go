package adapter

import (
	"context"
	"net/http"
	"time"

	"github.com/philippseith/signalr"
)

// SignalRClients defines the outbound side of a SignalR hub to enable mocking
//
//go:generate mockgen -source=signalr.go -destination=../mocks/signalr.go -package=mocks -mock_names=SignalRClients=MockSignalRClients,SignalRServer=MockSignalRServer,SignalR=MockSignalR
type SignalRClients interface {
	// SendTo invokes target on a single connection
	SendTo(connectionID string, target string, args ...any)

	// Broadcast invokes target on every connected client
	Broadcast(target string, args ...any)
}

// SignalRServer defines an interface for a SignalR hub server
type SignalRServer interface {
	// MapHTTP registers the hub endpoints (including negotiate) on mux under path
	MapHTTP(mux *http.ServeMux, path string)

	// Clients returns the hub's client proxies
	Clients() SignalRClients
}

// SignalR defines an interface for creating SignalR hub servers
type SignalR interface {
	NewServer(ctx context.Context, hub signalr.HubInterface, keepAlive time.Duration) (SignalRServer, error)
}

// RealSignalR implements SignalR using the signalr package
type RealSignalR struct{}

// NewSignalR creates a new real SignalR
func NewSignalR() SignalR {
	return &RealSignalR{}
}

func (s *RealSignalR) NewServer(ctx context.Context, hub signalr.HubInterface, keepAlive time.Duration) (SignalRServer, error) {
	server, err := signalr.NewServer(ctx,
		signalr.UseHub(hub),
		signalr.KeepAliveInterval(keepAlive),
	)
	if err != nil {
		return nil, err
	}

	return &signalRServerAdapter{server: server}, nil
}

type signalRServerAdapter struct {
	server signalr.Server
}

func (a *signalRServerAdapter) MapHTTP(mux *http.ServeMux, path string) {
	a.server.MapHTTP(signalr.WithHTTPServeMux(mux), path)
}

func (a *signalRServerAdapter) Clients() SignalRClients {
	return &signalRClientsAdapter{clients: a.server.HubClients()}
}

type signalRClientsAdapter struct {
	clients signalr.HubClients
}

func (a *signalRClientsAdapter) SendTo(connectionID string, target string, args ...any) {
	a.clients.Client(connectionID).Send(target, args...)
}

func (a *signalRClientsAdapter) Broadcast(target string, args ...any) {
	a.clients.All().Send(target, args...)
}
