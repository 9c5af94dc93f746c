package server

import (
	"copyselect/internal/cache"
	"copyselect/internal/cache/store"
	"copyselect/internal/resolver"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	// Config
	cfg, err := s.config.Overlay(params.InitializationOptions)
	if err != nil {
		return nil, err
	}
	s.config = cfg
	log.Infof("config: %+v", cfg)

	// Root
	root := cfg.Root
	if params.RootURI != nil && *params.RootURI != "" {
		root = *params.RootURI
	} else if params.RootPath != nil && *params.RootPath != "" {
		root = *params.RootPath
	}
	cwd, err := resolver.New(".")
	if err != nil {
		return nil, err
	}
	rootPath, err := cwd.Resolve(root)
	if err != nil {
		return nil, err
	}
	s.resolver = resolver.Resolver{Root: rootPath}

	// Backend
	backend, err := cfg.OpenBackend(rootPath)
	if err != nil {
		log.Warningf("selections will not be persisted: %v", err)
		backend = store.NewMemory()
	}
	s.backend = backend

	// Restore
	s.store = cache.New(backend, cache.Options{
		Policy:   cfg.RangePolicy(),
		Collapse: cfg.RangeCollapse(),
		Source:   s.manager,
	})
	dropped, err := s.store.Hydrate()
	if err != nil {
		log.Warningf("starting without saved selections: %v", err)
	} else if dropped > 0 {
		log.Warningf("dropped %d malformed selections", dropped)
	}

	syncKind := protocol.TextDocumentSyncKindIncremental

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: commandNames(),
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	log.Info("client initialized")
	for _, path := range s.store.Paths() {
		s.publishHighlights(context, path)
	}
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	s.manager.CloseAll()
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}
