package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/anmitsu/go-shlex"
	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/mj1618/tilewm/internal/command"
	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/wm"
)

// ErrUnknownMessage is returned for a message whose first word is not a
// known IPC verb.
var ErrUnknownMessage = errors.New("unknown message")

// Backend runs commands and queries on the WM processing goroutine.
// *wm.WM implements it.
type Backend interface {
	Submit(ctx context.Context, cmd command.Command, subject *container.ID) (container.ID, error)
	SubmitQuery(ctx context.Context, name string) (any, error)
}

// Server accepts websocket clients and serves IPC messages.
type Server struct {
	backend Backend
	hub     *Hub
	logger  *log.Logger
}

// NewServer returns a server dispatching to backend and streaming events
// from hub.
func NewServer(backend Backend, hub *Hub, logger *log.Logger) *Server {
	return &Server{backend: backend, hub: hub, logger: logger}
}

// Handler returns the websocket endpoint.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleWebSocket)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("ipc server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("ipc server: %w", err)
		}
		close(errc)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err, ok := <-errc:
		if !ok {
			return nil
		}
		return err
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Error("websocket accept failed", "err", err, "remote", r.RemoteAddr)
		return
	}
	defer func() { _ = conn.CloseNow() }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := &client{server: s, conn: conn, subs: make(map[uuid.UUID]bool)}
	defer func() {
		cancel()
		c.closeSubscriptions()
		c.wg.Wait()
	}()
	s.logger.Debug("client connected", "remote", r.RemoteAddr)

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, io.EOF) && ctx.Err() == nil {
				s.logger.Debug("client read failed", "err", err)
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		msg := strings.TrimSpace(string(data))
		if err := c.write(ctx, c.handle(ctx, msg)); err != nil {
			s.logger.Debug("client write failed", "err", err)
			return
		}
		for _, start := range c.afterWrite {
			start()
		}
		c.afterWrite = nil
	}
}

// client is the state of one websocket connection.
type client struct {
	server *Server
	conn   *websocket.Conn
	wg     sync.WaitGroup
	// afterWrite runs once the current response has been written.
	afterWrite []func()

	mu   sync.Mutex
	subs map[uuid.UUID]bool
}

func (c *client) write(ctx context.Context, v any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return wsjson.Write(ctx, c.conn, v)
}

// handle answers one message. Subscriptions additionally start streaming
// once the response has been written.
func (c *client) handle(ctx context.Context, msg string) ClientResponse {
	args, err := shlex.Split(msg, true)
	if err != nil {
		return response(msg, nil, fmt.Errorf("%w: %v", command.ErrInvalidCommandArguments, err))
	}
	if len(args) == 0 {
		return response(msg, nil, fmt.Errorf("%w: empty message", ErrUnknownMessage))
	}

	switch args[0] {
	case "query", "q":
		if len(args) != 2 {
			return response(msg, nil, fmt.Errorf("%w: query takes one of %v", command.ErrInvalidCommandArguments, wm.QueryNames))
		}
		data, err := c.server.backend.SubmitQuery(ctx, args[1])
		return response(msg, data, err)
	case "command", "c":
		return c.command(ctx, msg, args[1:])
	case "subscribe", "sub":
		return c.subscribe(ctx, msg, args[1:])
	case "unsubscribe", "unsub":
		return c.unsubscribe(msg, args[1:])
	default:
		return response(msg, nil, fmt.Errorf("%w: %q", ErrUnknownMessage, args[0]))
	}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (c *client) command(ctx context.Context, msg string, args []string) ClientResponse {
	fs := newFlagSet("command")
	fs.SetInterspersed(false)
	idFlag := fs.String("id", "", "Subject container id")
	if err := fs.Parse(args); err != nil {
		return response(msg, nil, fmt.Errorf("%w: %v", command.ErrInvalidCommandArguments, err))
	}

	var subject *container.ID
	if *idFlag != "" {
		id, err := uuid.Parse(*idFlag)
		if err != nil {
			return response(msg, nil, fmt.Errorf("%w: invalid --id: %v", command.ErrInvalidCommandArguments, err))
		}
		subject = &id
	}
	cmd, err := command.Parse(fs.Args())
	if err != nil {
		return response(msg, nil, err)
	}
	id, err := c.server.backend.Submit(ctx, cmd, subject)
	if errors.Is(err, wm.ErrExit) {
		err = nil
	}
	return response(msg, CommandResult{SubjectContainerID: id}, err)
}

func (c *client) subscribe(ctx context.Context, msg string, args []string) ClientResponse {
	fs := newFlagSet("subscribe")
	names := fs.StringSliceP("events", "e", nil, "Events to subscribe to")
	if err := fs.Parse(args); err != nil {
		return response(msg, nil, fmt.Errorf("%w: %v", command.ErrInvalidCommandArguments, err))
	}
	all := append(*names, fs.Args()...)
	if len(all) == 0 {
		return response(msg, nil, fmt.Errorf("%w: at least one event is required", command.ErrInvalidCommandArguments))
	}
	types := make([]wm.EventType, 0, len(all))
	for _, n := range all {
		t, err := wm.ParseEventType(n)
		if err != nil {
			return response(msg, nil, fmt.Errorf("%w: %v", command.ErrInvalidCommandArguments, err))
		}
		types = append(types, t)
	}

	sub := c.server.hub.Subscribe(types)
	c.mu.Lock()
	c.subs[sub.ID] = true
	c.mu.Unlock()

	c.afterWrite = append(c.afterWrite, func() {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.stream(ctx, sub)
		}()
	})
	return response(msg, SubscribeResult{SubscriptionID: sub.ID}, nil)
}

// stream forwards sub's events until it is closed, then sends the
// end-of-stream marker.
func (c *client) stream(ctx context.Context, sub *Subscription) {
	for ev := range sub.Events() {
		if err := c.write(ctx, EventSubscription{MessageType: TypeEventSubscription, SubscriptionID: sub.ID, Data: ev}); err != nil {
			c.server.logger.Debug("event write failed", "subscription", sub.ID, "err", err)
			c.server.hub.Unsubscribe(sub.ID)
			for range sub.Events() {
			}
			return
		}
	}
	_ = c.write(ctx, EventSubscription{MessageType: TypeEventSubscription, SubscriptionID: sub.ID, Data: nil})
}

func (c *client) unsubscribe(msg string, args []string) ClientResponse {
	fs := newFlagSet("unsubscribe")
	idFlag := fs.String("id", "", "Subscription id")
	if err := fs.Parse(args); err != nil {
		return response(msg, nil, fmt.Errorf("%w: %v", command.ErrInvalidCommandArguments, err))
	}
	id, err := uuid.Parse(*idFlag)
	if err != nil {
		return response(msg, nil, fmt.Errorf("%w: invalid --id: %v", command.ErrInvalidCommandArguments, err))
	}

	c.mu.Lock()
	owned := c.subs[id]
	delete(c.subs, id)
	c.mu.Unlock()
	if !owned || !c.server.hub.Unsubscribe(id) {
		return response(msg, nil, fmt.Errorf("no subscription with id %s", id))
	}
	return response(msg, nil, nil)
}

func (c *client) closeSubscriptions() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.subs {
		c.server.hub.Unsubscribe(id)
	}
	c.subs = nil
}
