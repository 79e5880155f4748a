package wizard

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	st := NewMemoryStore()
	assert.False(t, st.InProgress(1))
	assert.Equal(t, 0, st.Active())

	st.Put(newSession(1, "video", 9))
	assert.True(t, st.InProgress(1))
	assert.Equal(t, 1, st.Active())

	sess, ok := st.Get(1)
	require.True(t, ok)
	assert.Equal(t, "video", sess.State)

	// Put replaces atomically, the old draft is gone.
	st.Put(newSession(1, "photos", 9))
	sess, ok = st.Get(1)
	require.True(t, ok)
	assert.Equal(t, "photos", sess.State)
	assert.Equal(t, 1, st.Active())

	st.Delete(1)
	assert.False(t, st.InProgress(1))
	assert.Equal(t, 0, st.Active())
}

func TestMemoryStoreAcquireSerializes(t *testing.T) {
	st := NewMemoryStore()
	st.Put(newSession(7, "a", 9))

	const workers = 16
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := st.Acquire(7)
			defer release()
			// Unsynchronized increment, safe only under the user lock.
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, workers, counter)
}

func TestMemoryStoreReapsIdleSlots(t *testing.T) {
	st := NewMemoryStore().(*memoryStore)

	release := st.Acquire(1)
	st.Put(newSession(1, "video", 9))
	release()
	assert.Equal(t, 1, slotCount(st), "a live session keeps its slot")

	release = st.Acquire(1)
	st.Delete(1)
	release()
	assert.Equal(t, 0, slotCount(st), "a sessionless slot is reclaimed on release")

	// A reaped user can come back on a fresh slot.
	release = st.Acquire(1)
	st.Put(newSession(1, "video", 9))
	release()
	assert.True(t, st.InProgress(1))
}

func TestMemoryStoreDoesNotRetainPastUsers(t *testing.T) {
	st := NewMemoryStore().(*memoryStore)
	for id := int64(1); id <= 200; id++ {
		release := st.Acquire(id)
		st.Put(newSession(id, "video", 9))
		st.Delete(id)
		release()
	}
	assert.Equal(t, 0, slotCount(st))
}

func slotCount(m *memoryStore) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.slots)
}

func TestMemoryStoreIndependentUsers(t *testing.T) {
	st := NewMemoryStore()
	release := st.Acquire(1)
	defer release()

	done := make(chan struct{})
	go func() {
		r := st.Acquire(2)
		r()
		close(done)
	}()
	<-done // must not block behind user 1's lock
}
