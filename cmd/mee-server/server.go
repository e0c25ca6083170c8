package main

import (
	"bufio"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	mee "github.com/amonsch/mee-cli"
	"github.com/amonsch/mee-cli/engine"
)

// Server is a TCP server that runs statements against the mee engine,
// one statement per line, one JSON response per line.
type Server struct {
	// MaxConnections bounds concurrent connection handlers when > 0.
	// Set it before Start.
	MaxConnections int

	listener    net.Listener
	engine      *engine.Engine
	authConfig  *AuthConfig
	tlsEnabled  bool
	mu          sync.Mutex
	done        chan struct{}
	wg          sync.WaitGroup
	connPool    *ants.Pool
	connMu      sync.Mutex
	connections map[net.Conn]bool
}

// NewServer creates a new query server for the given mee instance.
func NewServer(db *mee.Instance) *Server {
	return &Server{
		engine:      db.Engine(),
		done:        make(chan struct{}),
		connections: make(map[net.Conn]bool),
	}
}

// NewServerWithAuth creates a query server that requires clients to
// authenticate before running statements.
func NewServerWithAuth(db *mee.Instance, authConfig *AuthConfig) *Server {
	s := NewServer(db)
	s.authConfig = authConfig
	return s
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return s.serve(listener)
}

// StartTLS begins listening for TLS connections on the specified address.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("failed to load TLS key pair: %w", err)
	}
	listener, err := tls.Listen("tcp", addr, &tls.Config{Certificates: []tls.Certificate{cert}})
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.tlsEnabled = true
	return s.serve(listener)
}

func (s *Server) serve(listener net.Listener) error {
	s.listener = listener

	if s.MaxConnections > 0 {
		pool, err := ants.NewPool(s.MaxConnections, ants.WithPanicHandler(func(v any) {
			log.Printf("Connection handler panic: %v", v)
		}))
		if err != nil {
			listener.Close()
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		s.connPool = pool
	}

	log.Printf("Query server listening on %s", listener.Addr())

	go s.acceptLoop()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}

	// Close active connections to unblock pending reads
	s.connMu.Lock()
	for conn := range s.connections {
		conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()

	if s.connPool != nil {
		_ = s.connPool.ReleaseTimeout(3 * time.Second)
		s.connPool = nil
	}
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// TLSEnabled reports whether the server was started with StartTLS.
func (s *Server) TLSEnabled() bool {
	return s.tlsEnabled
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

		s.connMu.Lock()
		s.connections[conn] = true
		s.connMu.Unlock()

		s.wg.Add(1)
		if s.connPool != nil {
			conn := conn
			if err := s.connPool.Submit(func() {
				defer s.wg.Done()
				s.handleConnection(conn)
			}); err != nil {
				s.wg.Done()
				s.dropConnection(conn)
				log.Printf("Failed to submit connection handler: %v", err)
			}
		} else {
			go func() {
				defer s.wg.Done()
				s.handleConnection(conn)
			}()
		}
	}
}

func (s *Server) dropConnection(conn net.Conn) {
	conn.Close()
	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.dropConnection(conn)

	log.Printf("Client connected: %s", conn.RemoteAddr())

	state := &ConnectionState{}
	reader := bufio.NewReader(conn)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// Read until newline (one statement per line)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				log.Printf("Read error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		if strings.ToLower(query) == "quit" || strings.ToLower(query) == "exit" {
			log.Printf("Client disconnected: %s", conn.RemoteAddr())
			return
		}

		var response Response
		switch {
		case strings.HasPrefix(strings.ToUpper(query), "AUTH "):
			response = s.handleAuth(query, state)
		case s.requiresAuth() && !state.Authorized(time.Now()):
			response = Response{Success: false, Error: "authentication required"}
		default:
			response = s.executeQuery(query)
		}

		data, err := EncodeResponse(response)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			continue
		}

		if _, err := conn.Write(data); err != nil {
			log.Printf("Write error to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

func (s *Server) requiresAuth() bool {
	return s.authConfig != nil && s.authConfig.Enabled
}

// executeQuery runs one statement. Execution is serialized because the
// store's in-memory filesystem backend is not safe for concurrent use.
func (s *Server) executeQuery(query string) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.engine.Execute(query)
	if err != nil {
		return Response{
			Success: false,
			Error:   err.Error(),
		}
	}
	if result == nil {
		// Blank statement
		return Response{Success: true}
	}

	rows := make([]json.RawMessage, 0, len(result.Rows))
	for _, row := range result.Rows {
		data, err := json.Marshal(row)
		if err != nil {
			return Response{Success: false, Error: err.Error()}
		}
		rows = append(rows, data)
	}

	qr := QueryResponse{
		Columns:        result.Columns,
		Rows:           rows,
		RecordsRead:    result.RecordsRead,
		RecordsScanned: result.RecordsScanned,
		TimeMs:         result.ExecutionTimeSec * 1000,
	}
	data, _ := json.Marshal(qr)
	return Response{
		Success: true,
		Type:    "query",
		Result:  data,
	}
}
