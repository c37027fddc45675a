package main

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const (
	DefaultSessionID = "default"
	// DefaultMCPMaxSessions bounds the session table when no limit is configured.
	DefaultMCPMaxSessions = 64
)

type CommandInput struct {
	Command   string `json:"command" jsonschema:"Command to dispatch, e.g. 'nästa' or 'test crp'"`
	SessionID string `json:"session_id,omitempty" jsonschema:"Session to act on; empty means the default session"`
	Reset     bool   `json:"reset,omitempty" jsonschema:"Start a new session before dispatching the command"`
}

type CommandOutput struct {
	SessionID string         `json:"session_id" jsonschema:"Session the command ran in"`
	Header    string         `json:"header" jsonschema:"Current header title"`
	Fragments []Fragment     `json:"fragments" jsonschema:"Output fragments in order"`
	State     SessionSummary `json:"state" jsonschema:"Summary of the session state"`
}

type CasesInput struct{}

type CasesOutput struct {
	Cases []string `json:"cases" jsonschema:"Case names in catalog order"`
	Tests []string `json:"tests" jsonschema:"Default test names"`
}

type mcpSession struct {
	session  *Session
	recorder *Recorder
	lastUsed uint64
}

// MCPServer holds independent sessions over one shared catalog. Each call
// runs under the server lock, so a dispatch and its captured output are atomic.
// When the table is full the least recently used session is evicted.
type MCPServer struct {
	mu          sync.Mutex
	catalog     *Catalog
	cfg         Config
	logger      *zap.Logger
	sessions    map[string]*mcpSession
	maxSessions int
	clock       uint64
}

func NewMCPServer(catalog *Catalog, cfg Config, logger *zap.Logger) (*MCPServer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := ParseRewindMode(cfg.Rewind); err != nil {
		return nil, err
	}
	limit := cfg.MCPMaxSessions
	if limit <= 0 {
		limit = DefaultMCPMaxSessions
	}
	return &MCPServer{
		catalog:     catalog,
		cfg:         cfg,
		logger:      logger,
		sessions:    map[string]*mcpSession{},
		maxSessions: limit,
	}, nil
}

func (m *MCPServer) newSession() *mcpSession {
	rec := &Recorder{}
	s := NewSession(m.catalog, rec)
	s.Logger = m.logger
	s.Rewind, _ = ParseRewindMode(m.cfg.Rewind)
	return &mcpSession{session: s, recorder: rec}
}

// store registers ms under id, evicting the least recently used session
// first if id is new and the table is full. Callers hold m.mu.
func (m *MCPServer) store(id string, ms *mcpSession) {
	if _, ok := m.sessions[id]; !ok && len(m.sessions) >= m.maxSessions {
		oldest := ""
		for other, candidate := range m.sessions {
			if oldest == "" || candidate.lastUsed < m.sessions[oldest].lastUsed {
				oldest = other
			}
		}
		delete(m.sessions, oldest)
		m.logger.Info("mcp session evicted", zap.String("session", oldest), zap.Int("limit", m.maxSessions))
	}
	m.sessions[id] = ms
	m.logger.Info("mcp session started", zap.String("session", id))
}

// ExecuteCommand dispatches cmd and returns the fragments it produced.
func ExecuteCommand(ms *mcpSession, cmd string) []Fragment {
	ms.recorder.Drain()
	ms.session.Dispatch(cmd)
	return ms.recorder.Drain()
}

func (m *MCPServer) HandleCommand(_ context.Context, _ *mcp.CallToolRequest, input CommandInput) (*mcp.CallToolResult, CommandOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := input.SessionID
	if input.Reset {
		if id == "" {
			id = uuid.NewString()
		}
		m.store(id, m.newSession())
	}
	if id == "" {
		id = DefaultSessionID
	}
	ms, ok := m.sessions[id]
	if !ok {
		ms = m.newSession()
		m.store(id, ms)
	}
	m.clock++
	ms.lastUsed = m.clock

	var fragments []Fragment
	if !input.Reset || strings.TrimSpace(input.Command) != "" {
		fragments = ExecuteCommand(ms, input.Command)
	}
	return nil, CommandOutput{
		SessionID: id,
		Header:    ms.recorder.Title,
		Fragments: fragments,
		State:     SummarizeSession(ms.session),
	}, nil
}

func (m *MCPServer) HandleCases(_ context.Context, _ *mcp.CallToolRequest, _ CasesInput) (*mcp.CallToolResult, CasesOutput, error) {
	var out CasesOutput
	for _, c := range m.catalog.Cases {
		out.Cases = append(out.Cases, c.Name)
	}
	for _, t := range m.catalog.Tests {
		out.Tests = append(out.Tests, t.Key)
	}
	return nil, out, nil
}

func (m *MCPServer) SessionIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *MCPServer) Server() *mcp.Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "mottagning",
		Version: "v1.0.0",
	}, nil)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "command",
		Description: "Send a command to the clinic simulator and return the output fragments plus a session summary.",
	}, m.HandleCommand)
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "cases",
		Description: "List the case names and default tests of the loaded catalog.",
	}, m.HandleCases)
	return mcpServer
}

// Handler returns the streamable HTTP endpoint wrapped in origin and bearer
// token checks.
func (m *MCPServer) Handler() http.Handler {
	mcpServer := m.Server()
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return mcpServer
	}, &mcp.StreamableHTTPOptions{
		Stateless:    m.cfg.MCPStateless,
		JSONResponse: m.cfg.MCPJSON,
		Logger:       slog.Default(),
	})
	return guard(handler, m.cfg.MCPOrigins, m.cfg.MCPToken)
}

func guard(next http.Handler, origins []string, token string) http.Handler {
	originSet := map[string]struct{}{}
	for _, origin := range origins {
		originSet[origin] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAllowedOrigin(r, originSet) {
			http.Error(w, "Forbidden origin", http.StatusForbidden)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RunMCPHTTP(ctx context.Context, m *MCPServer) error {
	path := m.cfg.MCPPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	srv := &http.Server{
		Addr:    m.cfg.MCPAddr,
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	m.logger.Info("mcp server listening", zap.String("addr", m.cfg.MCPAddr), zap.String("path", path))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func isAllowedOrigin(r *http.Request, allowed map[string]struct{}) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	_, ok := allowed[origin]
	return ok
}
