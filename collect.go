package main

import (
	"fmt"
	"os"
	"path/filepath"

	"copyselect/internal/cache"
	"copyselect/internal/cache/store"
	"copyselect/internal/cache/store/sqlite"
	"copyselect/internal/config"
	"copyselect/internal/manager"
	"copyselect/internal/resolver"

	"github.com/spf13/cobra"
)

// Flags shared by the commands that work on saved selections.
var (
	rootFlag  string
	stateFlag string
)

var liveFlag bool

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Print the text of every saved selection",
	Long: `collect prints what copySelectedText would put on the clipboard, using the
content saved with each selection. With --live the files are read from disk
instead; files that cannot be read fall back to the saved content.`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

func init() {
	for _, cmd := range []*cobra.Command{collectCmd, listCmd, clearCmd} {
		cmd.Flags().StringVar(&rootFlag, "root", "", "workspace root (defaults to the configured root)")
		cmd.Flags().StringVar(&stateFlag, "state", "", "selections file to use instead of the state directory")
	}
	collectCmd.Flags().BoolVar(&liveFlag, "live", false, "read the current file contents from disk")
}

// selections is an offline view of the saved state of one workspace.
type selections struct {
	cfg      config.Config
	resolver resolver.Resolver
	store    *cache.Store
	backend  store.Backend
}

func openSelections() (*selections, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	root := cfg.Root
	if rootFlag != "" {
		root = rootFlag
	}
	res, err := resolver.New(root)
	if err != nil {
		return nil, err
	}

	backend, err := openState(cfg, res.Root)
	if err != nil {
		return nil, err
	}

	st := cache.New(backend, cache.Options{
		Policy:   cfg.RangePolicy(),
		Collapse: cfg.RangeCollapse(),
	})
	dropped, err := st.Hydrate()
	if err != nil {
		backend.Close()
		return nil, err
	}
	if dropped > 0 {
		log.Warningf("dropped %d malformed selections", dropped)
	}

	return &selections{cfg: cfg, resolver: res, store: st, backend: backend}, nil
}

func openState(cfg config.Config, root string) (store.Backend, error) {
	if stateFlag == "" {
		return cfg.OpenBackend(root)
	}
	switch filepath.Ext(stateFlag) {
	case ".db", ".sqlite", ".sqlite3":
		db, err := sqlite.New(stateFlag)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		f, err := store.NewFile(stateFlag)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

func (s *selections) Close() error {
	return s.backend.Close()
}

func runCollect(cmd *cobra.Command, args []string) error {
	sel, err := openSelections()
	if err != nil {
		return err
	}
	defer sel.Close()

	if liveFlag {
		docs := manager.NewDocumentManager()
		for _, path := range sel.store.Paths() {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Warningf("using saved content for %s: %v", path, err)
				continue
			}
			docs.Open(path, string(data))
		}
		sel.store.SetSource(docs)
	}

	text := cache.Join(sel.store.Collect(), sel.cfg.Separator)
	if text == "" {
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
