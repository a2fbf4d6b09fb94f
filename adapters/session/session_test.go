package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStore records Load/Save traffic for assertions.
type fakeStore struct {
	loadData  map[string]string
	loadErr   error
	saveErr   error
	saved     map[string]string
	loadCalls int
}

func (f *fakeStore) Load(ctx context.Context, name string) (map[string]string, error) {
	f.loadCalls++
	return f.loadData, f.loadErr
}

func (f *fakeStore) Save(ctx context.Context, name string, data map[string]string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = data
	return nil
}

func TestNewSession(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
	}{
		{
			name: "valid context",
			ctx:  context.Background(),
		},
		{
			name: "nil context",
			ctx:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := NewSession(tt.ctx, "test-id", &fakeStore{})
			assert.NotNil(t, session)
		})
	}
}

func TestSession_Load(t *testing.T) {
	tests := []struct {
		name       string
		store      *fakeStore
		preloaded  map[string]string
		wantErr    bool
		errMsg     string
		wantCalls  int
		wantLoaded map[string]string
	}{
		{
			name:       "successful load",
			store:      &fakeStore{loadData: map[string]string{"key": "value"}},
			wantCalls:  1,
			wantLoaded: map[string]string{"key": "value"},
		},
		{
			name:    "load error",
			store:   &fakeStore{loadErr: errors.New("load error")},
			wantErr: true,
			errMsg:  "load error",
		},
		{
			name:       "already loaded skips the store",
			store:      &fakeStore{loadData: map[string]string{"key": "value"}},
			preloaded:  map[string]string{"existing": "data"},
			wantCalls:  0,
			wantLoaded: map[string]string{"existing": "data"},
		},
		{
			name:       "nil store data becomes empty map",
			store:      &fakeStore{loadData: nil},
			wantCalls:  1,
			wantLoaded: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &sessionImpl{
				id:    "test-id",
				ctx:   context.Background(),
				store: tt.store,
				data:  tt.preloaded,
			}

			err := s.Load()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantCalls, tt.store.loadCalls)
			assert.Equal(t, tt.wantLoaded, s.data)
		})
	}
}

func TestSession_Save(t *testing.T) {
	tests := []struct {
		name      string
		data      map[string]string
		store     *fakeStore
		wantErr   bool
		errMsg    string
		wantSaved map[string]string
	}{
		{
			name:      "successful save",
			data:      map[string]string{"key": "value"},
			store:     &fakeStore{},
			wantSaved: map[string]string{"key": "value"},
		},
		{
			name:    "save error",
			data:    map[string]string{"key": "value"},
			store:   &fakeStore{saveErr: errors.New("save error")},
			wantErr: true,
			errMsg:  "save error",
		},
		{
			name:  "nil data is a no-op",
			data:  nil,
			store: &fakeStore{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &sessionImpl{
				id:    "test-id",
				ctx:   context.Background(),
				store: tt.store,
				data:  tt.data,
			}

			err := s.Save()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantSaved, tt.store.saved)
		})
	}
}

func TestSession_GetSetDeleteClear(t *testing.T) {
	s := &sessionImpl{data: nil}

	assert.Equal(t, "", s.Get("missing"))

	s.Set("user_id", "42")
	assert.Equal(t, "42", s.Get("user_id"))

	s.Set("user_id", "7")
	assert.Equal(t, "7", s.Get("user_id"))

	s.Delete("user_id")
	assert.Equal(t, "", s.Get("user_id"))

	s.Set("a", "1")
	s.Set("b", "2")
	s.Clear()
	assert.NotNil(t, s.data)
	assert.Empty(t, s.data)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// unknown session loads empty
	data, err := store.Load(ctx, "nope")
	assert.NoError(t, err)
	assert.Empty(t, data)

	// round trip
	assert.NoError(t, store.Save(ctx, "sid", map[string]string{"user_id": "1"}))
	data, err = store.Load(ctx, "sid")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"user_id": "1"}, data)

	// stored data is isolated from the caller's map
	data["user_id"] = "2"
	again, err := store.Load(ctx, "sid")
	assert.NoError(t, err)
	assert.Equal(t, "1", again["user_id"])

	// save replaces rather than merges
	assert.NoError(t, store.Save(ctx, "sid", map[string]string{}))
	data, err = store.Load(ctx, "sid")
	assert.NoError(t, err)
	assert.Empty(t, data)
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	base := time.Now()

	store := NewMemoryStore(WithMemoryStoreTTL(time.Hour))
	now := base
	store.now = func() time.Time { return now }

	assert.NoError(t, store.Save(ctx, "sid", map[string]string{"user_id": "1"}))

	// still live just before the deadline
	now = base.Add(time.Hour - time.Second)
	data, err := store.Load(ctx, "sid")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"user_id": "1"}, data)

	// gone once the TTL has passed
	now = base.Add(time.Hour + time.Second)
	data, err = store.Load(ctx, "sid")
	assert.NoError(t, err)
	assert.Empty(t, data)

	// saving again restarts the TTL
	assert.NoError(t, store.Save(ctx, "sid", map[string]string{"user_id": "2"}))
	now = base.Add(2*time.Hour + time.Second)
	data, err = store.Load(ctx, "sid")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"user_id": "2"}, data)
}

func TestMemoryStore_SweepsExpiredOnSave(t *testing.T) {
	ctx := context.Background()
	base := time.Now()

	store := NewMemoryStore(WithMemoryStoreTTL(time.Hour))
	now := base
	store.now = func() time.Time { return now }

	for _, id := range []string{"a", "b", "c"} {
		assert.NoError(t, store.Save(ctx, id, map[string]string{"user_id": id}))
	}
	assert.Len(t, store.sessions, 3)

	// once the first batch expires, the next save reclaims all of it
	now = base.Add(time.Hour + time.Second)
	assert.NoError(t, store.Save(ctx, "d", map[string]string{"user_id": "d"}))
	assert.Len(t, store.sessions, 1)

	data, err := store.Load(ctx, "d")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"user_id": "d"}, data)
}

func TestMemoryStore_NoTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	base := time.Now()

	store := NewMemoryStore()
	now := base
	store.now = func() time.Time { return now }

	assert.NoError(t, store.Save(ctx, "sid", map[string]string{"user_id": "1"}))

	now = base.Add(24 * 365 * time.Hour)
	data, err := store.Load(ctx, "sid")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"user_id": "1"}, data)
}
