package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"poscounter/internal/logger"
)

var (
	// ErrNotFound means the item is not on the menu for that mode.
	ErrNotFound = errors.New("item not found in catalog")
	// ErrNoSearchResults is returned by Filter alongside an empty slice.
	ErrNoSearchResults = errors.New("no items match your search")
)

type Service struct {
	// Ordered lists, one per mode
	items map[Mode][]MenuItem

	// Quick lookup maps by name
	prices map[Mode]map[string]int64

	lastLoaded time.Time
	mutex      sync.RWMutex
}

// NewService returns a service holding the built-in menu.
func NewService() *Service {
	s := &Service{}
	if err := s.populate(defaultMenu); err != nil {
		// The built-in menu is static; failing here is a programming error.
		panic(fmt.Sprintf("invalid built-in menu: %v", err))
	}
	return s
}

// FromItems builds a service from an explicit item list; each item's Mode
// selects the menu it lands in.
func FromItems(items ...MenuItem) (*Service, error) {
	var menu menuFile
	for _, it := range items {
		fi := fileItem{Name: it.Name, Price: it.Price}
		switch it.Mode {
		case DineIn:
			menu.DineIn = append(menu.DineIn, fi)
		case Parcel:
			menu.Parcel = append(menu.Parcel, fi)
		default:
			return nil, fmt.Errorf("item %q has unknown mode %s", it.Name, it.Mode)
		}
	}
	s := &Service{}
	if err := s.populate(menu); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFromFile replaces both menus from a JSON file.
func (s *Service) LoadFromFile(path string) error {
	logger.LogInfo("Loading catalog from file: %s", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var menu menuFile
	if err := json.Unmarshal(raw, &menu); err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}

	if err := s.populate(menu); err != nil {
		return err
	}

	logger.LogInfo("Successfully loaded catalog: %d dine-in items, %d parcel items",
		len(menu.DineIn), len(menu.Parcel))
	return nil
}

func (s *Service) populate(menu menuFile) error {
	items := make(map[Mode][]MenuItem, len(Modes))
	prices := make(map[Mode]map[string]int64, len(Modes))

	sources := map[Mode][]fileItem{DineIn: menu.DineIn, Parcel: menu.Parcel}
	for _, mode := range Modes {
		prices[mode] = make(map[string]int64)
		for _, it := range sources[mode] {
			name := strings.TrimSpace(it.Name)
			if name == "" {
				return fmt.Errorf("%s menu has an item without a name", mode)
			}
			if it.Price <= 0 {
				return fmt.Errorf("%s menu item %q has non-positive price %d", mode, name, it.Price)
			}
			if _, dup := prices[mode][name]; dup {
				return fmt.Errorf("%s menu lists %q twice", mode, name)
			}
			prices[mode][name] = it.Price
			items[mode] = append(items[mode], MenuItem{Name: name, Price: it.Price, Mode: mode})
		}
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.items = items
	s.prices = prices
	s.lastLoaded = time.Now()
	return nil
}

// LookupPrice returns the unit price of name under mode.
func (s *Service) LookupPrice(name string, mode Mode) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	price, ok := s.prices[mode][name]
	if !ok {
		return 0, fmt.Errorf("%w: %q (%s)", ErrNotFound, name, mode)
	}
	return price, nil
}

// Items returns a copy of the menu for mode, in catalog order.
func (s *Service) Items(mode Mode) []MenuItem {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]MenuItem, len(s.items[mode]))
	copy(out, s.items[mode])
	return out
}

// Filter does a case-insensitive substring match of query against item
// names. An empty query yields the whole menu.
func (s *Service) Filter(mode Mode, query string) ([]MenuItem, error) {
	all := s.Items(mode)

	query = strings.TrimSpace(query)
	if query == "" {
		return all, nil
	}

	// Casers keep state, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(query)

	matches := make([]MenuItem, 0, len(all))
	for _, item := range all {
		if strings.Contains(fold.String(item.Name), needle) {
			matches = append(matches, item)
		}
	}
	if len(matches) == 0 {
		return matches, ErrNoSearchResults
	}
	return matches, nil
}

// CacheAge reports how long ago the menu was loaded.
func (s *Service) CacheAge() time.Duration {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return time.Since(s.lastLoaded)
}
