package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/forge/internal/kv"
	"github.com/mesh-intelligence/forge/internal/logging"
	"github.com/mesh-intelligence/forge/pkg/types"
)

// Confirmer asks the user to approve a destructive operation.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// DeletePrompt is the question put to the Confirmer before a delete.
const DeletePrompt = "Are you sure you want to remove this asset?"

// Store owns the canonical asset and category lists. Every mutation updates
// the lists, writes both records through to the kv.Store, then calls the
// change hook. A Store is not safe for concurrent use; it has one owner.
type Store struct {
	kv         kv.Store
	assets     []types.Asset
	categories []types.Category

	apiKey   string
	theme    string
	hasTheme bool

	alloc    *Allocator
	rng      *rand.Rand
	palette  []string
	now      func() time.Time
	newID    func() string
	onChange func()
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRand sets the random source used for category colours.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) { s.rng = rng }
}

// WithPalette replaces the category colour palette.
func WithPalette(palette []string) Option {
	return func(s *Store) { s.palette = palette }
}

// WithIDGenerator sets the asset id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithOnChange registers a hook called after every persisted mutation.
func WithOnChange(fn func()) Option {
	return func(s *Store) { s.onChange = fn }
}

// Load reads the catalogue records from store, applies the migration pass,
// and returns the resulting Store. Malformed records are logged and replaced
// by empty or built-in state; only storage failures are returned.
func Load(ctx context.Context, store kv.Store, opts ...Option) (*Store, error) {
	s := &Store{
		kv:      store,
		palette: types.CategoryPalette,
		now:     time.Now,
		newID:   generateUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.alloc = NewAllocator(s.palette, s.rng)

	rawAssets, ok, err := store.Load(ctx, types.RecordAssets)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	s.assets = MigrateAssets(decodeAssets(rawAssets, ok))

	rawCats, ok, err := store.Load(ctx, types.RecordCategories)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	s.categories = MigrateCategories(decodeCategories(rawCats, ok))

	if s.apiKey, _, err = store.Load(ctx, types.RecordAPIKey); err != nil {
		return nil, fmt.Errorf("load api key: %w", err)
	}
	if s.theme, s.hasTheme, err = store.Load(ctx, types.RecordTheme); err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}

	logging.Debugf("catalog: loaded %d assets, %d categories", len(s.assets), len(s.categories))
	return s, nil
}

// generateUUID generates a new UUID v7 for asset ids.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// Assets returns a copy of the asset list, newest-created first.
func (s *Store) Assets() []types.Asset {
	out := make([]types.Asset, len(s.assets))
	for i, a := range s.assets {
		a.Tags = append([]string{}, a.Tags...)
		out[i] = a
	}
	return out
}

// Categories returns a copy of the category list.
func (s *Store) Categories() []types.Category {
	return append([]types.Category(nil), s.categories...)
}

// CategoryNames returns the category display names in list order.
func (s *Store) CategoryNames() []string {
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// Asset returns the asset with the given id, or types.ErrNotFound.
func (s *Store) Asset(id string) (types.Asset, error) {
	if i := s.indexOf(id); i >= 0 {
		a := s.assets[i]
		a.Tags = append([]string{}, a.Tags...)
		return a, nil
	}
	return types.Asset{}, fmt.Errorf("asset %q: %w", id, types.ErrNotFound)
}

// Category returns the category with the given id.
func (s *Store) Category(id string) (types.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return types.Category{}, false
}

// CategoryFor returns the category with the given id, falling back to the
// first category for dangling references.
func (s *Store) CategoryFor(id string) types.Category {
	if c, ok := s.Category(id); ok {
		return c
	}
	return s.categories[0]
}

// DefaultCategoryID is the category new assets start in.
func (s *Store) DefaultCategoryID() string {
	return DefaultCategoryID(s.categories)
}

// AvailableTags returns the tag vocabulary of the current asset list.
func (s *Store) AvailableTags() []string {
	return AvailableTags(s.assets)
}

// View returns the filtered and sorted asset list for f.
func (s *Store) View(f Filter) []types.Asset {
	return FilteredAndSorted(s.Assets(), f)
}

// AddAsset validates data, assigns a fresh id and creation time, and
// prepends the asset so the newest creation comes first.
func (s *Store) AddAsset(ctx context.Context, data types.AssetData) (types.Asset, error) {
	if err := data.Validate(); err != nil {
		return types.Asset{}, err
	}
	a := s.fromData(data)
	a.ID = s.newID()
	a.CreatedAt = s.now().UnixMilli()

	s.assets = append([]types.Asset{a}, s.assets...)
	logging.Infof("catalog: added asset %s (%s)", a.ID, a.Name)
	return a, s.commit(ctx)
}

// UpdateAsset replaces every field of the asset except ID and CreatedAt.
// It reports false, without writing, when id is unknown.
func (s *Store) UpdateAsset(ctx context.Context, id string, data types.AssetData) (bool, error) {
	if err := data.Validate(); err != nil {
		return false, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	a := s.fromData(data)
	a.ID = s.assets[i].ID
	a.CreatedAt = s.assets[i].CreatedAt
	s.assets[i] = a
	logging.Infof("catalog: updated asset %s", id)
	return true, s.commit(ctx)
}

// DeleteAsset removes the asset with the given id after confirm approves.
// An unknown id is a no-op and confirm is not consulted. A nil or declining
// Confirmer returns types.ErrDeclined and leaves the list unchanged.
func (s *Store) DeleteAsset(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	if confirm == nil || !confirm.Confirm(DeletePrompt) {
		return false, types.ErrDeclined
	}
	s.assets = append(s.assets[:i:i], s.assets[i+1:]...)
	logging.Infof("catalog: deleted asset %s", id)
	return true, s.commit(ctx)
}

// AddCategory returns the id of the category named name, creating it when no
// category matches case-insensitively.
func (s *Store) AddCategory(ctx context.Context, name string) (string, error) {
	c, created, err := s.alloc.Allocate(s.categories, name)
	if err != nil {
		return "", err
	}
	if !created {
		return c.ID, nil
	}
	s.categories = append(s.categories, c)
	logging.Infof("catalog: added category %s (%s)", c.ID, c.Color)
	return c.ID, s.commit(ctx)
}

// Replace swaps in a whole catalogue, running it through the migration pass.
func (s *Store) Replace(ctx context.Context, assets []types.Asset, categories []types.Category) error {
	s.assets = MigrateAssets(assets)
	s.categories = MigrateCategories(categories)
	return s.commit(ctx)
}

// APIKey returns the stored suggestion-service credential.
func (s *Store) APIKey() string {
	return s.apiKey
}

// SetAPIKey trims and stores the suggestion-service credential.
func (s *Store) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if err := s.kv.Save(ctx, types.RecordAPIKey, key); err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	s.apiKey = key
	return nil
}

// Theme returns the stored background theme and whether one was set.
func (s *Store) Theme() (string, bool) {
	return s.theme, s.hasTheme
}

// SetTheme stores the background theme verbatim.
func (s *Store) SetTheme(ctx context.Context, value string) error {
	if err := s.kv.Save(ctx, types.RecordTheme, value); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	s.theme, s.hasTheme = value, true
	return nil
}

// fromData builds an asset from form data with normalized tags and a
// category defaulted when empty.
func (s *Store) fromData(d types.AssetData) types.Asset {
	category := strings.TrimSpace(d.CategoryID)
	if category == "" {
		category = s.DefaultCategoryID()
	}
	return types.Asset{
		Name:        strings.TrimSpace(d.Name),
		SourceURL:   strings.TrimSpace(d.SourceURL),
		ImageURL:    strings.TrimSpace(d.ImageURL),
		CategoryID:  category,
		Description: d.Description,
		Tags:        types.NormalizeTags(d.Tags),
	}
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, a := range s.assets {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// commit writes both lists through to the kv store and then fires the change
// hook. Write failures are logged and returned; the in-memory lists stay
// authoritative and the next successful commit rewrites both records.
func (s *Store) commit(ctx context.Context) error {
	err := s.persist(ctx)
	if err != nil {
		logging.Errorf("catalog: persist failed: %v", err)
	}
	if s.onChange != nil {
		s.onChange()
	}
	return err
}

func (s *Store) persist(ctx context.Context) error {
	assets := s.assets
	if assets == nil {
		assets = []types.Asset{}
	}
	rawAssets, err := json.Marshal(assets)
	if err != nil {
		return fmt.Errorf("encode assets: %w", err)
	}
	rawCats, err := json.Marshal(s.categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	return errors.Join(
		s.kv.Save(ctx, types.RecordAssets, string(rawAssets)),
		s.kv.Save(ctx, types.RecordCategories, string(rawCats)),
	)
}
