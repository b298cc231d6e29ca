package importer

import (
	"sync"
	"testing"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	t.Parallel()

	kl := NewKeyLock()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				kl.Lock("gem:GEM/2026/B/100001")
				counter++
				kl.Unlock("gem:GEM/2026/B/100001")
			}
		}()
	}
	wg.Wait()

	if counter != 5000 {
		t.Fatalf("counter = %d, want 5000", counter)
	}
}

func TestKeyLockIndependentKeys(t *testing.T) {
	t.Parallel()

	kl := NewKeyLock()
	kl.Lock("gem:A")

	done := make(chan struct{})
	go func() {
		kl.Lock("gem:B")
		kl.Unlock("gem:B")
		close(done)
	}()

	// a different key must not wait on gem:A
	<-done
	kl.Unlock("gem:A")
}
