package rpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/curalinkhq/curalink/pkg/slogx"
)

// DefaultSocketAddr is the TCP address the socket transport binds when the
// configuration does not name one.
const DefaultSocketAddr = ":7777"

// maxLineBytes caps a single request line read from a socket client.
const maxLineBytes = 1 << 20

// SocketServer serves newline-delimited JSON-RPC over TCP. Each connection
// carries any number of requests, one JSON document per line, answered in
// order on the same connection. Connections stay open until the client
// disconnects or the server stops.
type SocketServer struct {
	Addr       string
	Dispatcher *Dispatcher
	Logger     *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	done     chan struct{}
	group    errgroup.Group
}

// Start binds the listener and begins accepting connections in the
// background. It returns immediately; accept and connection goroutines are
// collected by Stop.
func (s *SocketServer) Start() error {
	addr := s.Addr
	if addr == "" {
		addr = DefaultSocketAddr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("socket listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.conns = make(map[net.Conn]struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.Logger.Info("socket server listening", slog.String("addr", ln.Addr().String()))

	s.group.Go(s.acceptLoop)
	return nil
}

// ListenAddr reports the bound address, which is how tests using port 0
// discover the real port. Nil before Start.
func (s *SocketServer) ListenAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and every open connection, then waits for the
// goroutines to drain or the context to expire.
func (s *SocketServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.listener == nil {
		s.mu.Unlock()
		return nil
	}
	close(s.done)
	lnErr := s.listener.Close()
	s.listener = nil
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	waited := make(chan error, 1)
	go func() { waited <- s.group.Wait() }()

	select {
	case err := <-waited:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	if lnErr != nil && !errors.Is(lnErr, net.ErrClosed) {
		return lnErr
	}

	s.Logger.Info("socket server stopped")
	return nil
}

func (s *SocketServer) acceptLoop() error {
	for {
		s.mu.Lock()
		ln := s.listener
		s.mu.Unlock()
		if ln == nil {
			return nil
		}

		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.done:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("socket accept: %w", err)
		}

		// A connection accepted while Stop is closing the tracked set must
		// not slip past it, or Stop would wait on a handler nobody closes.
		if !s.track(conn) {
			conn.Close()
			return nil
		}

		s.group.Go(func() error {
			s.handleConn(conn)
			return nil
		})
	}
}

func (s *SocketServer) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return false
	default:
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *SocketServer) handleConn(conn net.Conn) {
	defer func() {
		conn.Close()
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
	}()

	log := s.Logger.With(slog.String("remote", conn.RemoteAddr().String()))
	ctx := slogx.WithContext(context.Background(), log)

	log.Debug("socket client connected")

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		resp := s.Dispatcher.Dispatch(ctx, line)
		out, err := json.Marshal(resp)
		if err != nil {
			log.Error("failed to encode response", "error", err)
			continue
		}
		out = append(out, '\n')

		if _, err := conn.Write(out); err != nil {
			log.Debug("socket write failed", "error", err)
			return
		}
	}

	// An oversized line or a half-closed connection ends the session; both
	// read as a client problem, not a server one.
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Debug("socket read ended", "error", err)
	}

	log.Debug("socket client disconnected")
}
