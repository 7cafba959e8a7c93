package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore[int]()
	_, ok := s.Get("a.csv")
	assert.False(t, ok)

	s.Put("b.csv", []int{1, 2})
	s.Put("a.csv", []int{3})
	rows, ok := s.Get("b.csv")
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, rows)
	assert.Equal(t, []string{"a.csv", "b.csv"}, s.Paths())

	s.Forget("b.csv")
	_, ok = s.Get("b.csv")
	assert.False(t, ok)
	assert.Equal(t, []string{"a.csv"}, s.Paths())
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore[string]()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Put("t.csv", []string{"x"})
			_, _ = s.Get("t.csv")
			_ = s.Paths()
		}(i)
	}
	wg.Wait()
	rows, ok := s.Get("t.csv")
	assert.True(t, ok)
	assert.Len(t, rows, 1)
}
