package detector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func newMockPool(t *testing.T, size int, mock *MockDetector) *Pool {
	t.Helper()
	pool, err := NewPool(size, func() (Detector, error) { return mock, nil }, nil)
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

func TestPool_Detect(t *testing.T) {
	t.Run("returns detector result", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{OpenPalmLandmarks()})
		pool := newMockPool(t, 2, mock)

		hands, err := pool.Detect(context.Background(), gocv.NewMat())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
	})

	t.Run("propagates detector error", func(t *testing.T) {
		mock := NewMockDetector()
		detectErr := errors.New("boom")
		mock.SetError(detectErr)
		pool := newMockPool(t, 1, mock)

		_, err := pool.Detect(context.Background(), gocv.NewMat())
		if !errors.Is(err, detectErr) {
			t.Fatalf("expected %v, got %v", detectErr, err)
		}
	})

	t.Run("recovers detector panic", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetDetectFunc(func(*gocv.Mat) ([]HandLandmarks, error) {
			panic("estimator crashed")
		})
		pool := newMockPool(t, 1, mock)

		if _, err := pool.Detect(context.Background(), gocv.NewMat()); err == nil {
			t.Fatal("expected error from panicking detector")
		}

		// The worker survives the panic.
		mock.SetDetectFunc(nil)
		if _, err := pool.Detect(context.Background(), gocv.NewMat()); err != nil {
			t.Fatalf("unexpected error after panic: %v", err)
		}
	})

	t.Run("cancelled context skips detection", func(t *testing.T) {
		mock := NewMockDetector()
		pool := newMockPool(t, 1, mock)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := pool.Detect(ctx, gocv.NewMat())
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if mock.Calls() != 0 {
			t.Errorf("expected no detector calls, got %d", mock.Calls())
		}
	})

	t.Run("cancel while waiting returns promptly", func(t *testing.T) {
		release := make(chan struct{})
		mock := NewMockDetector()
		mock.SetDetectFunc(func(*gocv.Mat) ([]HandLandmarks, error) {
			<-release
			return nil, nil
		})
		pool := newMockPool(t, 1, mock)
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := pool.Detect(ctx, gocv.NewMat())
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
		if time.Since(start) > time.Second {
			t.Error("Detect did not return after cancellation")
		}
	})

	t.Run("closed pool rejects work", func(t *testing.T) {
		mock := NewMockDetector()
		pool, err := NewPool(1, func() (Detector, error) { return mock, nil }, nil)
		if err != nil {
			t.Fatalf("NewPool failed: %v", err)
		}
		pool.Close()

		if _, err := pool.Detect(context.Background(), gocv.NewMat()); !errors.Is(err, ErrPoolClosed) {
			t.Fatalf("expected ErrPoolClosed, got %v", err)
		}
		if !mock.Closed() {
			t.Error("expected detector to be closed with the pool")
		}
	})
}

func TestPool_Concurrency(t *testing.T) {
	var (
		mu      sync.Mutex
		running int
		peak    int
	)
	mock := NewMockDetector()
	mock.SetDetectFunc(func(*gocv.Mat) ([]HandLandmarks, error) {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
		return nil, nil
	})
	pool := newMockPool(t, 3, mock)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := pool.Detect(context.Background(), gocv.NewMat()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > pool.Size() {
		t.Errorf("expected at most %d concurrent detections, saw %d", pool.Size(), peak)
	}
	if mock.Calls() != 12 {
		t.Errorf("expected 12 calls, got %d", mock.Calls())
	}
}

func TestNewPool_FactoryError(t *testing.T) {
	built := NewMockDetector()
	n := 0
	_, err := NewPool(3, func() (Detector, error) {
		n++
		if n == 2 {
			return nil, errors.New("no estimator")
		}
		return built, nil
	}, nil)
	if err == nil {
		t.Fatal("expected factory error")
	}
	if !built.Closed() {
		t.Error("expected already built detectors to be closed")
	}
}
