package gesture

import (
	"math"

	"github.com/ayusman/lsfstream/internal/detector"
)

// Predicate decides whether a hand pose shows a sign. Predicates only compare
// coordinates of the fixed 21 landmarks and keep no state between calls.
type Predicate func(h *detector.HandLandmarks) bool

// all combines predicates with logical AND.
func all(preds ...Predicate) Predicate {
	return func(h *detector.HandLandmarks) bool {
		for _, p := range preds {
			if !p(h) {
				return false
			}
		}
		return true
	}
}

func pt(h *detector.HandLandmarks, i int) detector.Point3D {
	return h.Points[i]
}

func dx(h *detector.HandLandmarks, a, b int) float64 {
	return math.Abs(pt(h, a).X - pt(h, b).X)
}

func dy(h *detector.HandLandmarks, a, b int) float64 {
	return math.Abs(pt(h, a).Y - pt(h, b).Y)
}

// above is true when landmark a is higher in the frame than landmark b.
func above(a, b int) Predicate {
	return func(h *detector.HandLandmarks) bool { return pt(h, a).Y < pt(h, b).Y }
}

func below(a, b int) Predicate {
	return func(h *detector.HandLandmarks) bool { return pt(h, a).Y > pt(h, b).Y }
}

func rightOf(a, b int) Predicate {
	return func(h *detector.HandLandmarks) bool { return pt(h, a).X > pt(h, b).X }
}

func leftOf(a, b int) Predicate {
	return func(h *detector.HandLandmarks) bool { return pt(h, a).X < pt(h, b).X }
}

func farX(a, b int, t float64) Predicate {
	return func(h *detector.HandLandmarks) bool { return dx(h, a, b) > t }
}

func nearX(a, b int, t float64) Predicate {
	return func(h *detector.HandLandmarks) bool { return dx(h, a, b) < t }
}

func farY(a, b int, t float64) Predicate {
	return func(h *detector.HandLandmarks) bool { return dy(h, a, b) > t }
}

func nearY(a, b int, t float64) Predicate {
	return func(h *detector.HandLandmarks) bool { return dy(h, a, b) < t }
}

// yBelowFrac tests the absolute frame position: landmark i lies in the top
// part of the frame, above the fraction t of its height.
func yBelowFrac(i int, t float64) Predicate {
	return func(h *detector.HandLandmarks) bool { return pt(h, i).Y < t }
}

func yAboveFrac(i int, t float64) Predicate {
	return func(h *detector.HandLandmarks) bool { return pt(h, i).Y > t }
}

func xBelowFrac(i int, t float64) Predicate {
	return func(h *detector.HandLandmarks) bool { return pt(h, i).X < t }
}

func xAboveFrac(i int, t float64) Predicate {
	return func(h *detector.HandLandmarks) bool { return pt(h, i).X > t }
}

// eachFinger holds when f is true for every long finger, given its tip index.
func eachFinger(f func(h *detector.HandLandmarks, tip int) bool) Predicate {
	return func(h *detector.HandLandmarks) bool {
		for _, tip := range detector.FingerTips {
			if !f(h, tip) {
				return false
			}
		}
		return true
	}
}

// fingersFolded: every fingertip is lower than its base joint.
func fingersFolded() Predicate {
	return func(h *detector.HandLandmarks) bool {
		for i, tip := range detector.FingerTips {
			if pt(h, tip).Y <= pt(h, detector.FingerMCPs[i]).Y {
				return false
			}
		}
		return true
	}
}

// fingersExtended: every fingertip is higher than its base joint.
func fingersExtended() Predicate {
	return func(h *detector.HandLandmarks) bool {
		for i, tip := range detector.FingerTips {
			if pt(h, tip).Y >= pt(h, detector.FingerMCPs[i]).Y {
				return false
			}
		}
		return true
	}
}

// spreadOf is the horizontal offset between a fingertip and its distal joint.
func spreadOf(h *detector.HandLandmarks, tip int) float64 {
	return dx(h, tip, tip-1)
}

func fingersSpread(t float64) Predicate {
	return eachFinger(func(h *detector.HandLandmarks, tip int) bool { return spreadOf(h, tip) > t })
}

func fingersSpreadBetween(lo, hi float64) Predicate {
	return eachFinger(func(h *detector.HandLandmarks, tip int) bool {
		s := spreadOf(h, tip)
		return lo < s && s < hi
	})
}

// raisedAndSpread: every fingertip above the wrist and spread wider than t.
func raisedAndSpread(t float64) Predicate {
	return eachFinger(func(h *detector.HandLandmarks, tip int) bool {
		return pt(h, tip).Y < pt(h, detector.Wrist).Y && spreadOf(h, tip) > t
	})
}

func tipsAboveWrist() Predicate {
	return eachFinger(func(h *detector.HandLandmarks, tip int) bool {
		return pt(h, tip).Y < pt(h, detector.Wrist).Y
	})
}

func tipsBelowWrist() Predicate {
	return eachFinger(func(h *detector.HandLandmarks, tip int) bool {
		return pt(h, tip).Y > pt(h, detector.Wrist).Y
	})
}

func tipsLevelWithWrist(t float64) Predicate {
	return eachFinger(func(h *detector.HandLandmarks, tip int) bool {
		return dy(h, tip, detector.Wrist) < t
	})
}

func tipsAwayFromWristX(t float64) Predicate {
	return eachFinger(func(h *detector.HandLandmarks, tip int) bool {
		return dx(h, tip, detector.Wrist) > t
	})
}

// fingerDown: tip lower than the finger's middle joint (two indices below the tip).
func fingerDown(tip int) Predicate {
	return below(tip, tip-2)
}
