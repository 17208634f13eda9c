package memory

import (
	"sync"
	"testing"

	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/core/valueobjects"
	"ifn-backend/domain/inventory"
	"ifn-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id string) *entities.Record {
	return entities.MustRecord(id, map[string]valueobjects.FieldValue{"nombre": valueobjects.String(id)})
}

func TestStore_GetAllReturnsCopy(t *testing.T) {
	s, err := NewStore([]*entities.Record{rec("1"), rec("2")})
	require.NoError(t, err)

	all := s.GetAll()
	all[0] = rec("9")

	assert.Equal(t, "1", s.GetAll()[0].ID().String())
	assert.Equal(t, uint64(0), s.Version())
}

func TestStore_ReplaceBumpsVersion(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)

	require.NoError(t, s.Replace([]*entities.Record{rec("1")}))
	require.NoError(t, s.Replace([]*entities.Record{rec("1"), rec("2")}))

	assert.Equal(t, uint64(2), s.Version())
	assert.Equal(t, 2, s.Len())
}

func TestStore_ReplaceRejectsDuplicates(t *testing.T) {
	s, err := NewStore([]*entities.Record{rec("1")})
	require.NoError(t, err)

	err = s.Replace([]*entities.Record{rec("2"), rec("2")})

	assert.True(t, errors.HasCode(err, errors.CodeDuplicateRecord))
	assert.Equal(t, []string{"1"}, []string{s.GetAll()[0].ID().String()})
	assert.Equal(t, uint64(0), s.Version())

	_, err = NewStore([]*entities.Record{rec("x"), rec("x")})
	assert.Error(t, err)
}

func TestStore_ReplaceIsAtomicForReaders(t *testing.T) {
	old := []*entities.Record{rec("a1"), rec("a2"), rec("a3")}
	next := []*entities.Record{rec("b1"), rec("b2"), rec("b3"), rec("b4")}
	s, err := NewStore(old)
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	torn := false
	var mu sync.Mutex

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := s.GetAll()
				prefix := snap[0].ID().String()[:1]
				for _, r := range snap {
					if r.ID().String()[:1] != prefix {
						mu.Lock()
						torn = true
						mu.Unlock()
					}
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			require.NoError(t, s.Replace(next))
		} else {
			require.NoError(t, s.Replace(old))
		}
	}
	close(stop)
	wg.Wait()

	assert.False(t, torn)
}

func TestCatalog(t *testing.T) {
	c := NewCatalog(inventory.Muestras, inventory.Brigadas)

	assert.Equal(t, []inventory.Name{inventory.Brigadas, inventory.Muestras}, c.Names())
	require.NoError(t, c.Seed(inventory.Brigadas, []*entities.Record{rec("1")}))

	store, err := c.Store(inventory.Brigadas)
	require.NoError(t, err)
	assert.Len(t, store.GetAll(), 1)

	_, err = c.Store("usuarios")
	assert.True(t, errors.HasCode(err, errors.CodeUnknownCollection))
	assert.Error(t, c.Seed("usuarios", nil))
}
