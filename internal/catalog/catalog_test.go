package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) *Service {
	t.Helper()
	s, err := FromItems(
		MenuItem{Name: "Tea", Price: 10, Mode: DineIn},
		MenuItem{Name: "Masala Tea", Price: 15, Mode: DineIn},
		MenuItem{Name: "Coffee", Price: 20, Mode: DineIn},
		MenuItem{Name: "Tea", Price: 12, Mode: Parcel},
	)
	require.NoError(t, err)
	return s
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"Dine-in", DineIn, false},
		{"dine-in", DineIn, false},
		{" Parcel ", Parcel, false},
		{"takeaway", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseMode(%q)", tt.in)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got, "ParseMode(%q)", tt.in)
	}
}

func TestLookupPrice(t *testing.T) {
	s := testService(t)

	price, err := s.LookupPrice("Tea", DineIn)
	require.NoError(t, err)
	assert.Equal(t, int64(10), price)

	price, err = s.LookupPrice("Tea", Parcel)
	require.NoError(t, err)
	assert.Equal(t, int64(12), price)

	_, err = s.LookupPrice("Coffee", Parcel)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilterEmptyQueryReturnsFullMenuInOrder(t *testing.T) {
	s := testService(t)

	items, err := s.Filter(DineIn, "")
	require.NoError(t, err)
	assert.Equal(t, s.Items(DineIn), items)
	require.Len(t, items, 3)
	assert.Equal(t, "Tea", items[0].Name)
	assert.Equal(t, "Coffee", items[2].Name)

	items, err = s.Filter(DineIn, "   ")
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	s := testService(t)

	items, err := s.Filter(DineIn, "TEA")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Tea", items[0].Name)
	assert.Equal(t, "Masala Tea", items[1].Name)
}

func TestFilterNoResults(t *testing.T) {
	s := testService(t)

	items, err := s.Filter(DineIn, "xyz-no-match")
	assert.ErrorIs(t, err, ErrNoSearchResults)
	assert.Empty(t, items)
}

func TestFilterTamilMenu(t *testing.T) {
	s := NewService()

	items, err := s.Filter(Parcel, "பூரி")
	require.NoError(t, err)
	assert.Len(t, items, 3)
	for _, it := range items {
		assert.Equal(t, Parcel, it.Mode)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	s := testService(t)

	items := s.Items(DineIn)
	items[0].Price = 999

	price, err := s.LookupPrice("Tea", DineIn)
	require.NoError(t, err)
	assert.Equal(t, int64(10), price)
	assert.Equal(t, int64(10), s.Items(DineIn)[0].Price)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "menu.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"dine_in": [{"name": "Idli", "price": 30}],
		"parcel":  [{"name": "Idli", "price": 35}, {"name": "Vada", "price": 20}]
	}`), 0o644))

	s := NewService()
	require.NoError(t, s.LoadFromFile(path))

	assert.Len(t, s.Items(DineIn), 1)
	assert.Len(t, s.Items(Parcel), 2)
	price, err := s.LookupPrice("Idli", Parcel)
	require.NoError(t, err)
	assert.Equal(t, int64(35), price)
}

func TestLoadFromFileRejectsBadMenus(t *testing.T) {
	tests := map[string]string{
		"zero price": `{"dine_in": [{"name": "Idli", "price": 0}]}`,
		"no name":    `{"parcel": [{"name": " ", "price": 10}]}`,
		"duplicate":  `{"dine_in": [{"name": "Idli", "price": 10}, {"name": "Idli", "price": 12}]}`,
		"not json":   `idli`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "menu.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			s := NewService()
			assert.Error(t, s.LoadFromFile(path))
			// A rejected file leaves the previous menu in place.
			assert.Len(t, s.Items(DineIn), 11)
		})
	}
}

func TestCacheAgeTracksLastSuccessfulLoad(t *testing.T) {
	s := NewService()
	age := s.CacheAge()
	assert.GreaterOrEqual(t, age, time.Duration(0))
	assert.Less(t, age, time.Minute)

	path := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dine_in": [{"name": "Idli", "price": -1}]}`), 0o644))
	require.Error(t, s.LoadFromFile(path))

	assert.Len(t, s.Items(DineIn), 11, "a rejected file must not replace the menu")
	assert.Less(t, s.CacheAge(), time.Minute)
}
