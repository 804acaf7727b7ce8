package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializesSameKey(t *testing.T) {
	req := require.New(t)

	kl := New()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kl.WithLock("listing-1", func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	req.Equal(100, counter)
}

func TestReleasesEntries(t *testing.T) {
	req := require.New(t)

	kl := New()
	kl.Lock("a")
	kl.Unlock("a")
	kl.Lock("b")
	req.Len(kl.locks, 1)
	kl.Unlock("b")
	req.Len(kl.locks, 0)
}

func TestIndependentKeysDoNotBlock(t *testing.T) {
	kl := New()
	kl.Lock("a")
	defer kl.Unlock("a")

	done := make(chan struct{})
	go func() {
		kl.WithLock("b", func() error { return nil })
		close(done)
	}()
	<-done
}
