package reactive

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSet(t *testing.T) {
	s := New(1)
	assert.Equal(t, 1, s.Get())

	s.Set(2)
	assert.Equal(t, 2, s.Get())
}

func TestStore_SubscribeReceivesUpdates(t *testing.T) {
	s := New("a")

	var got []string
	unsubscribe := s.Subscribe(func(v string) {
		got = append(got, v)
	})

	s.Set("b")
	s.Update(func(v string) string { return v + "c" })
	assert.Equal(t, []string{"b", "bc"}, got)

	unsubscribe()
	s.Set("d")
	assert.Equal(t, []string{"b", "bc"}, got)
	assert.Equal(t, 0, s.Subscribers())

	// second call is harmless
	unsubscribe()
}

func TestStore_UpdateIfSkipsUnchanged(t *testing.T) {
	s := New(1)

	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })

	v, changed := s.UpdateIf(func(v int) (int, bool) { return v + 10, false })
	assert.False(t, changed)
	assert.Equal(t, 1, v)

	v, changed = s.UpdateIf(func(v int) (int, bool) { return v + 1, true })
	assert.True(t, changed)
	assert.Equal(t, 2, v)
	assert.Equal(t, []int{2}, got)
}

func TestStore_SubscribersInOrder(t *testing.T) {
	s := New(0)

	var calls []string
	s.Subscribe(func(int) { calls = append(calls, "first") })
	s.Subscribe(func(int) { calls = append(calls, "second") })

	s.Set(1)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	s := New(0)

	var seen int
	s.Subscribe(func(int) { seen = s.Get() })

	s.Set(5)
	assert.Equal(t, 5, seen)
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := New(0)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, s.Get())
}
