package server

import (
	"copyselect/internal/cache"
	"copyselect/internal/cache/store"
	"copyselect/internal/config"
	"copyselect/internal/manager"
	"copyselect/internal/resolver"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "copyselect"

var version = "0.1.0"

var log = commonlog.GetLogger("copyselect.server")

type Server struct {
	handler  *protocol.Handler
	config   config.Config
	resolver resolver.Resolver
	manager  *manager.DocumentManager
	store    *cache.Store
	backend  store.Backend
}

// New creates a Server whose settings start from cfg. The client's
// initializationOptions are laid over cfg during initialize.
func New(cfg config.Config) *Server {
	s := &Server{
		config:  cfg,
		manager: manager.NewDocumentManager(),
	}
	s.store = cache.New(nil, cache.Options{Source: s.manager})
	s.handler = &protocol.Handler{
		Initialize:                    s.initialize,
		Initialized:                   s.initialized,
		Shutdown:                      s.shutdown,
		TextDocumentDidOpen:           s.textDocumentDidOpen,
		TextDocumentDidChange:         s.textDocumentDidChange,
		TextDocumentDidClose:          s.textDocumentDidClose,
		TextDocumentDocumentHighlight: s.textDocumentDocumentHighlight,
		WorkspaceExecuteCommand:       s.workspaceExecuteCommand,
		WorkspaceSymbol:               s.workspaceSymbol,
	}
	return s
}

// Handler returns the protocol handler table of s.
func (s *Server) Handler() *protocol.Handler {
	return s.handler
}

// Store returns the selection store. It is replaced during initialize.
func (s *Server) Store() *cache.Store {
	return s.store
}

func NewServer(cfg config.Config) *server.Server {
	s := New(cfg)
	return server.NewServer(s.handler, lsName, false)
}
