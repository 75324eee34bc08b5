package blockarena

import (
	"runtime"
	"testing"
)

// BenchmarkRealisticUsage tests scenarios where arena should excel
func BenchmarkRealisticUsage(b *testing.B) {

	// Test 1: Many small objects with periodic cleanup
	b.Run("ManySmallObjects/Arena", func(b *testing.B) {
		a, err := New[shape]()
		if err != nil {
			b.Fatal(err)
		}
		defer a.Release()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			// Create 100 small objects
			for j := 0; j < 100; j++ {
				if _, err := Create(a, circle{R: float64(j)}); err != nil {
					b.Fatal(err)
				}
			}
			// Reset every 100 objects (simulates request cleanup)
			a.Reset()
		}
	})

	b.Run("ManySmallObjects/Builtin", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			objects := make([]shape, 0, 100)
			for j := 0; j < 100; j++ {
				objects = append(objects, &circle{R: float64(j)})
			}
			_ = objects
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	// Test 2: Heterogeneous objects walked after creation
	b.Run("MixedIterate/Arena", func(b *testing.B) {
		a, err := New[shape]()
		if err != nil {
			b.Fatal(err)
		}
		defer a.Release()
		for j := 0; j < 10000; j++ {
			if j%2 == 0 {
				_, err = Create(a, circle{R: 1})
			} else {
				_, err = Create(a, rect{W: 1, H: 2})
			}
			if err != nil {
				b.Fatal(err)
			}
		}
		b.ResetTimer()

		var sum float64
		for i := 0; i < b.N; i++ {
			for s := range a.Objects().All() {
				sum += s.Area()
			}
		}
		_ = sum
	})

	b.Run("MixedIterate/Builtin", func(b *testing.B) {
		objects := make([]shape, 0, 10000)
		for j := 0; j < 10000; j++ {
			if j%2 == 0 {
				objects = append(objects, &circle{R: 1})
			} else {
				objects = append(objects, &rect{W: 1, H: 2})
			}
		}
		b.ResetTimer()

		var sum float64
		for i := 0; i < b.N; i++ {
			for _, s := range objects {
				sum += s.Area()
			}
		}
		_ = sum
	})

	// Test 3: Teardown with destroy hooks
	b.Run("Teardown/Arena", func(b *testing.B) {
		a, err := New[shape]()
		if err != nil {
			b.Fatal(err)
		}
		defer a.Release()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 1000; j++ {
				if _, err := Create(a, tracked{ID: j}); err != nil {
					b.Fatal(err)
				}
			}
			a.Reset()
			destroyed = destroyed[:0]
		}
	})
}
