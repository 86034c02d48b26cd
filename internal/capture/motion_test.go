package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func blankFrame(t *testing.T, value float64) gocv.Mat {
	t.Helper()
	frame := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	if value > 0 {
		frame.SetTo(gocv.NewScalar(value, value, value, 0))
	}
	t.Cleanup(func() { frame.Close() })
	return frame
}

func TestMotionDetector_Detect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	t.Run("first frame only primes", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()
		frame := blankFrame(t, 0)

		detected, changed := md.Detect(&frame)
		if detected || changed != 0 {
			t.Errorf("Detect() = (%v, %f), want (false, 0)", detected, changed)
		}
		if !md.primed {
			t.Error("detector should be primed after the first frame")
		}
	})

	t.Run("identical frames", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()
		a, b := blankFrame(t, 0), blankFrame(t, 0)

		md.Detect(&a)
		if detected, changed := md.Detect(&b); detected {
			t.Errorf("identical frames should not detect motion, changed = %f", changed)
		}
	})

	t.Run("black to white", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()
		black, white := blankFrame(t, 0), blankFrame(t, 255)

		md.Detect(&black)
		detected, changed := md.Detect(&white)
		if !detected {
			t.Errorf("black to white should detect motion, changed = %f", changed)
		}
		if changed < 50 {
			t.Errorf("changed = %f, expected > 50%%", changed)
		}
	})

	t.Run("empty frame is ignored", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()
		empty := gocv.NewMat()
		defer empty.Close()

		if detected, _ := md.Detect(&empty); detected {
			t.Error("empty frame should not detect motion")
		}
		if detected, _ := md.Detect(nil); detected {
			t.Error("nil frame should not detect motion")
		}
		if md.primed {
			t.Error("empty frames should not prime the detector")
		}
	})
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()
	black, white := blankFrame(t, 0), blankFrame(t, 255)

	md.Detect(&black)
	md.Reset()
	if md.primed || !md.prev.Empty() {
		t.Fatal("Reset should drop the baseline")
	}

	// After a reset the next frame primes again instead of comparing.
	if detected, _ := md.Detect(&white); detected {
		t.Error("first frame after Reset should not detect motion")
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.SetThreshold(5.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0", md.threshold)
	}

	md.SetThreshold(-1.0)
	if md.threshold != 5.0 {
		t.Errorf("negative threshold should be ignored, got %f", md.threshold)
	}

	md.SetThreshold(0)
	if md.threshold != 5.0 {
		t.Errorf("zero threshold should be ignored, got %f", md.threshold)
	}
}

func TestMotionDetector_CloseTwice(t *testing.T) {
	md := NewMotionDetector(1.0)
	md.Close()
	md.Close()
}
