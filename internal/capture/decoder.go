// Package capture turns image bytes into frames and reads webcam frames for
// the camera client, using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrNotAnImage is returned when payload bytes are not a supported image format.
var ErrNotAnImage = errors.New("not a supported image format")

// Decoder turns encoded image bytes into a frame. The caller owns the
// returned Mat and must close it.
type Decoder interface {
	Decode(data []byte) (gocv.Mat, error)
}

// ImageDecoder decodes JPEG, PNG, BMP and the other formats OpenCV reads.
type ImageDecoder struct{}

// Decode decodes data as a 3-channel BGR frame.
func (ImageDecoder) Decode(data []byte) (gocv.Mat, error) {
	if len(data) == 0 {
		return gocv.NewMat(), ErrNotAnImage
	}
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), ErrNotAnImage
	}
	return mat, nil
}

// DefaultJPEGQuality is used by EncodeJPEG when quality is out of range.
const DefaultJPEGQuality = 80

// EncodeJPEG compresses frame as a JPEG.
func EncodeJPEG(frame *gocv.Mat, quality int) ([]byte, error) {
	if frame == nil || frame.Empty() {
		return nil, errors.New("empty frame")
	}
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *frame, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
