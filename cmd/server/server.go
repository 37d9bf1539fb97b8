package main

import (
	"bufio"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/nickyhof/TemporalDB"
	"github.com/nickyhof/TemporalDB/core"
	"github.com/nickyhof/TemporalDB/db"
)

// Server is a TCP SQL server that exposes the TemporalDB engine.
type Server struct {
	listener   net.Listener
	instance   *TemporalDB.Instance
	identity   core.Identity
	authConfig *AuthConfig
	tlsEnabled bool
	mu         sync.Mutex
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewServer creates a new SQL server with the given TemporalDB instance.
// All connections commit as the given identity.
func NewServer(instance *TemporalDB.Instance, identity core.Identity) *Server {
	return &Server{
		instance: instance,
		identity: identity,
		done:     make(chan struct{}),
	}
}

// NewServerWithAuth creates a server that requires clients to authenticate
// before executing queries. Commits carry the identity from the client's JWT.
func NewServerWithAuth(instance *TemporalDB.Instance, authConfig *AuthConfig) *Server {
	return &Server{
		instance:   instance,
		identity:   core.Identity{Name: "TemporalDB Server", Email: "server@temporaldb.local"},
		authConfig: authConfig,
		done:       make(chan struct{}),
	}
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	log.Printf("SQL Server listening on %s", addr)

	go s.acceptLoop()
	return nil
}

// StartTLS begins listening for TLS connections using the given certificate.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	listener, err := tls.Listen("tcp", addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("failed to start TLS server: %w", err)
	}
	s.listener = listener
	s.tlsEnabled = true

	log.Printf("SQL Server listening on %s (TLS)", addr)

	go s.acceptLoop()
	return nil
}

// TLSEnabled reports whether the server is serving TLS connections.
func (s *Server) TLSEnabled() bool {
	return s.tlsEnabled
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				log.Printf("Accept error: %v", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// authRequired reports whether the connection must authenticate before
// executing queries.
func (s *Server) authRequired(state *ConnectionState) bool {
	if s.authConfig == nil || !s.authConfig.Enabled {
		return false
	}
	if !state.authenticated {
		return true
	}
	if !state.tokenExpiry.IsZero() && time.Now().After(state.tokenExpiry) {
		state.authenticated = false
		state.identity = nil
		return true
	}
	return false
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	log.Printf("Client connected: %s", conn.RemoteAddr())

	reader := bufio.NewReader(conn)
	state := &ConnectionState{}

	// Each connection is its own session: transaction state and commit
	// identity are not shared between clients.
	engine := s.instance.Engine(s.identity)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// Read until newline (one query per line)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("Read error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		// Handle special commands
		if strings.ToLower(query) == "quit" || strings.ToLower(query) == "exit" {
			log.Printf("Client disconnected: %s", conn.RemoteAddr())
			return
		}

		var response Response
		switch {
		case strings.HasPrefix(strings.ToUpper(query), "AUTH "):
			response = s.handleAuth(query, state)
			if state.authenticated && state.identity != nil {
				engine = s.instance.Engine(*state.identity)
			}

		case s.authRequired(state):
			response = Response{
				Success: false,
				Error:   "authentication required: send AUTH JWT <token>",
			}

		default:
			response = s.executeQuery(engine, query)
		}

		// Send response
		data, err := EncodeResponse(response)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			continue
		}

		_, err = conn.Write(data)
		if err != nil {
			log.Printf("Write error to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

func (s *Server) executeQuery(engine *db.Engine, query string) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := engine.Execute(query)
	if err != nil {
		return Response{
			Success: false,
			Error:   err.Error(),
		}
	}

	switch r := result.(type) {
	case db.QueryResult:
		qr := QueryResponse{
			Columns:     r.Columns,
			Data:        r.Data,
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(qr)
		return Response{
			Success: true,
			Type:    "query",
			Result:  data,
		}

	case db.CommitResult:
		cr := CommitResponse{
			TablesCreated:    r.TablesCreated,
			TablesDeleted:    r.TablesDeleted,
			ViewsCreated:     r.ViewsCreated,
			ViewsDeleted:     r.ViewsDeleted,
			RevisionsWritten: r.RevisionsWritten,
			RevisionsClosed:  r.RevisionsClosed,
			Staged:           r.Staged,
			TimeMs:           r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(cr)
		return Response{
			Success: true,
			Type:    "commit",
			Result:  data,
		}

	default:
		return Response{
			Success: true,
			Type:    "unknown",
		}
	}
}
