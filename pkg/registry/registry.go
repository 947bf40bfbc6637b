// Package registry discovers installed games by scanning a games directory
// and resolves game ids to their compiled-in entry points.
//
// A game is a subdirectory holding a game.yaml manifest whose "entry" names a
// factory registered in the catalog. Directories that fail this contract are
// logged and skipped; they never abort a scan.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aretw0/tinytop/pkg/catalog"
	"github.com/aretw0/tinytop/pkg/domain"
)

// Registry manages the discovered games.
type Registry struct {
	mu      sync.RWMutex
	root    string
	games   []domain.GameDescriptor
	index   map[string]int
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// Option configures the Registry.
type Option func(*Registry)

// WithCatalog sets the entry-point catalog (default: catalog.Default).
func WithCatalog(c *catalog.Catalog) Option {
	return func(r *Registry) {
		r.catalog = c
	}
}

// WithLogger sets a structured logger for discovery problems.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates a new empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		index:   make(map[string]int),
		catalog: catalog.Default,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scan discovers the games under root, replacing the current list.
// Only an unreadable root is an error; bad game directories are skipped.
func (r *Registry) Scan(ctx context.Context, root string) ([]domain.GameDescriptor, error) {
	games, problems, err := r.discover(ctx, root)
	if err != nil {
		return nil, err
	}
	for _, p := range problems {
		r.logger.Warn("Skipping game directory", "err", p)
	}

	index := make(map[string]int, len(games))
	for i, g := range games {
		index[g.ID] = i
	}

	r.mu.Lock()
	r.root = root
	r.games = games
	r.index = index
	r.mu.Unlock()

	r.logger.Debug("Registry scanned", "root", root, "games", len(games), "skipped", len(problems))
	return r.Descriptors(), nil
}

// Rescan repeats the last Scan. It is a no-op before the first Scan.
func (r *Registry) Rescan(ctx context.Context) error {
	r.mu.RLock()
	root := r.root
	r.mu.RUnlock()
	if root == "" {
		return nil
	}
	_, err := r.Scan(ctx, root)
	return err
}

// Validate scans root without touching the registry and returns every
// discovery problem joined into one error.
func (r *Registry) Validate(ctx context.Context, root string) ([]domain.GameDescriptor, error) {
	games, problems, err := r.discover(ctx, root)
	if err != nil {
		return nil, err
	}
	return games, errors.Join(problems...)
}

// Descriptors returns a copy of the games found by the last scan, sorted by id.
func (r *Registry) Descriptors() []domain.GameDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.GameDescriptor, len(r.games))
	copy(out, r.games)
	return out
}

// Resolve looks up a game by id and returns its entry point.
// It fails with domain.ErrNotFound if the id is unknown or the game's
// manifest disappeared since the last scan.
func (r *Registry) Resolve(id string) (catalog.Factory, domain.GameDescriptor, error) {
	r.mu.RLock()
	i, ok := r.index[id]
	var desc domain.GameDescriptor
	if ok {
		desc = r.games[i]
	}
	r.mu.RUnlock()

	if !ok {
		return nil, domain.GameDescriptor{}, &domain.LaunchError{ID: id, Err: domain.ErrNotFound}
	}
	if _, err := os.Stat(filepath.Join(desc.Dir, ManifestFile)); err != nil {
		return nil, domain.GameDescriptor{}, &domain.LaunchError{ID: id, Err: fmt.Errorf("%w: manifest removed", domain.ErrNotFound)}
	}
	factory, ok := r.catalog.Lookup(desc.Entry)
	if !ok {
		return nil, domain.GameDescriptor{}, &domain.LaunchError{ID: id, Err: fmt.Errorf("%w: entry %q not registered", domain.ErrNotFound, desc.Entry)}
	}
	return factory, desc, nil
}

func (r *Registry) discover(ctx context.Context, root string) ([]domain.GameDescriptor, []error, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid games path: %w", err)
	}
	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read games directory: %w", err)
	}

	var games []domain.GameDescriptor
	var problems []error
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(absRoot, entry.Name())

		m, err := loadManifest(dir)
		if errors.Is(err, errNoManifest) {
			continue
		}
		if err != nil {
			problems = append(problems, &domain.DiscoveryError{Dir: dir, Err: err})
			continue
		}
		if _, ok := r.catalog.Lookup(m.Entry); !ok {
			problems = append(problems, &domain.DiscoveryError{Dir: dir, Err: fmt.Errorf("entry %q is not a known game", m.Entry)})
			continue
		}

		name := m.Name
		if name == "" {
			name = DisplayName(entry.Name())
		}
		games = append(games, domain.GameDescriptor{
			ID:          entry.Name(),
			DisplayName: name,
			Description: m.Description,
			Entry:       m.Entry,
			Dir:         dir,
			Options:     m.Options,
		})
	}

	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, problems, nil
}
