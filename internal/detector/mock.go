package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a Detector whose results are set by the caller.
// It is safe for concurrent use, so a single mock can back every worker of a Pool.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	err    error
	fn     func(frame *gocv.Mat) ([]HandLandmarks, error)
	calls  int
	closed bool
}

// NewMockDetector creates a MockDetector that reports no hands.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDetectFunc replaces the fixed result with fn. A nil fn restores it.
func (m *MockDetector) SetDetectFunc(fn func(frame *gocv.Mat) ([]HandLandmarks, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
}

// Calls reports how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Detect returns the configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	m.calls++
	fn, hands, err := m.fn, m.hands, m.err
	m.mu.Unlock()

	if fn != nil {
		return fn(frame)
	}
	if err != nil {
		return nil, err
	}
	return hands, nil
}

// Close marks the mock closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Preset poses, in normalized image coordinates (y grows downward).
// Each table lists the wrist, then four points per finger from thumb to pinky.

// ThumbsUpLandmarks returns a thumb pointing up with the other fingers curled ("merci").
func ThumbsUpLandmarks() HandLandmarks { return pose(thumbsUpPose) }

// OpenPalmLandmarks returns all five fingers extended upward ("bonjour").
func OpenPalmLandmarks() HandLandmarks { return pose(openPalmPose) }

// TwoFingersUpLandmarks returns index and middle raised, others folded ("bonjour").
func TwoFingersUpLandmarks() HandLandmarks { return pose(twoFingersUpPose) }

// FistLandmarks returns every fingertip folded below its knuckle ("poing_ferme").
func FistLandmarks() HandLandmarks { return pose(fistPose) }

// IndexUpLandmarks returns a lone raised index finger ("oui").
func IndexUpLandmarks() HandLandmarks { return pose(indexUpPose) }

// FlatHandUpLandmarks returns a raised middle finger centered over the wrist ("s_il_vous_plait").
func FlatHandUpLandmarks() HandLandmarks { return pose(flatHandUpPose) }

// CrossedFingersLandmarks returns index and middle tips touching ("je_t_aime").
func CrossedFingersLandmarks() HandLandmarks { return pose(crossedFingersPose) }

// RelaxedLandmarks returns a loose half-curled hand that matches no rule.
func RelaxedLandmarks() HandLandmarks { return pose(relaxedPose) }

func pose(pts [NumLandmarks][2]float64) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	for i, p := range pts {
		h.Points[i] = Point3D{X: p[0], Y: p[1]}
	}
	return h
}

var thumbsUpPose = [NumLandmarks][2]float64{
	{0.50, 0.80},
	{0.55, 0.75}, {0.58, 0.65}, {0.58, 0.50}, {0.58, 0.35},
	{0.55, 0.70}, {0.55, 0.68}, {0.52, 0.70}, {0.50, 0.72},
	{0.50, 0.68}, {0.50, 0.66}, {0.47, 0.68}, {0.45, 0.70},
	{0.45, 0.70}, {0.45, 0.68}, {0.42, 0.70}, {0.40, 0.72},
	{0.40, 0.72}, {0.40, 0.70}, {0.37, 0.72}, {0.35, 0.74},
}

var openPalmPose = [NumLandmarks][2]float64{
	{0.50, 0.80},
	{0.55, 0.75}, {0.62, 0.70}, {0.68, 0.65}, {0.73, 0.60},
	{0.55, 0.68}, {0.57, 0.55}, {0.58, 0.45}, {0.58, 0.35},
	{0.50, 0.66}, {0.50, 0.52}, {0.50, 0.40}, {0.50, 0.28},
	{0.45, 0.68}, {0.43, 0.55}, {0.42, 0.45}, {0.42, 0.35},
	{0.40, 0.70}, {0.37, 0.60}, {0.35, 0.50}, {0.34, 0.42},
}

var twoFingersUpPose = [NumLandmarks][2]float64{
	{0.50, 0.80},
	{0.55, 0.77}, {0.58, 0.73}, {0.59, 0.69}, {0.57, 0.71},
	{0.54, 0.64}, {0.55, 0.52}, {0.55, 0.44}, {0.55, 0.37},
	{0.50, 0.62}, {0.50, 0.50}, {0.50, 0.41}, {0.50, 0.34},
	{0.46, 0.64}, {0.45, 0.58}, {0.46, 0.63}, {0.47, 0.67},
	{0.43, 0.68}, {0.42, 0.63}, {0.43, 0.67}, {0.44, 0.71},
}

var fistPose = [NumLandmarks][2]float64{
	{0.50, 0.80},
	{0.55, 0.77}, {0.57, 0.73}, {0.58, 0.69}, {0.56, 0.71},
	{0.54, 0.64}, {0.55, 0.58}, {0.54, 0.63}, {0.53, 0.67},
	{0.50, 0.62}, {0.50, 0.56}, {0.50, 0.61}, {0.50, 0.66},
	{0.46, 0.64}, {0.45, 0.58}, {0.46, 0.63}, {0.47, 0.67},
	{0.43, 0.68}, {0.42, 0.63}, {0.43, 0.67}, {0.44, 0.71},
}

var indexUpPose = [NumLandmarks][2]float64{
	{0.50, 0.80},
	{0.55, 0.77}, {0.57, 0.73}, {0.58, 0.69}, {0.56, 0.71},
	{0.54, 0.64}, {0.54, 0.52}, {0.54, 0.44}, {0.54, 0.37},
	{0.50, 0.62}, {0.50, 0.56}, {0.50, 0.61}, {0.50, 0.66},
	{0.46, 0.64}, {0.45, 0.58}, {0.46, 0.63}, {0.47, 0.67},
	{0.43, 0.68}, {0.42, 0.63}, {0.43, 0.67}, {0.44, 0.71},
}

var flatHandUpPose = [NumLandmarks][2]float64{
	{0.50, 0.80},
	{0.54, 0.77}, {0.57, 0.73}, {0.58, 0.69}, {0.56, 0.71},
	{0.54, 0.64}, {0.55, 0.58}, {0.54, 0.63}, {0.53, 0.67},
	{0.50, 0.62}, {0.50, 0.52}, {0.50, 0.45}, {0.50, 0.40},
	{0.46, 0.64}, {0.45, 0.58}, {0.46, 0.63}, {0.47, 0.67},
	{0.43, 0.68}, {0.42, 0.63}, {0.43, 0.67}, {0.44, 0.71},
}

var crossedFingersPose = [NumLandmarks][2]float64{
	{0.50, 0.80},
	{0.54, 0.77}, {0.57, 0.73}, {0.58, 0.69}, {0.56, 0.71},
	{0.55, 0.64}, {0.57, 0.58}, {0.59, 0.59}, {0.60, 0.60},
	{0.51, 0.63}, {0.56, 0.57}, {0.60, 0.59}, {0.62, 0.61},
	{0.46, 0.64}, {0.45, 0.58}, {0.46, 0.63}, {0.47, 0.67},
	{0.43, 0.68}, {0.42, 0.63}, {0.43, 0.67}, {0.44, 0.71},
}

var relaxedPose = [NumLandmarks][2]float64{
	{0.50, 0.80},
	{0.55, 0.78}, {0.58, 0.74}, {0.60, 0.70}, {0.60, 0.73},
	{0.55, 0.65}, {0.56, 0.55}, {0.57, 0.58}, {0.57, 0.59},
	{0.50, 0.63}, {0.44, 0.55}, {0.40, 0.60}, {0.38, 0.74},
	{0.46, 0.66}, {0.45, 0.58}, {0.44, 0.55}, {0.44, 0.52},
	{0.42, 0.70}, {0.40, 0.76}, {0.39, 0.80}, {0.38, 0.84},
}
