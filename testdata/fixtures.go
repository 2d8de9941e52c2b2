// Package testdata provides synthetic camera frames for pipeline tests.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Frame dimensions matching a typical webcam capture.
const (
	FrameWidth  = 640
	FrameHeight = 480
)

// HandFrame returns a camera-sized color frame with a solid dark square
// centered in the region of interest, large enough to pass the contour gate.
// The caller is responsible for closing the returned Mat.
func HandFrame() gocv.Mat {
	frame := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(230, 230, 230, 0),
		FrameHeight, FrameWidth, gocv.MatTypeCV8UC3,
	)
	gocv.Rectangle(&frame, image.Rect(220, 140, 420, 340), color.RGBA{R: 20, G: 20, B: 20}, -1)
	return frame
}

// EmptyFrame returns a uniformly lit frame with no hand.
// The caller is responsible for closing the returned Mat.
func EmptyFrame() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(230, 230, 230, 0),
		FrameHeight, FrameWidth, gocv.MatTypeCV8UC3,
	)
}

// TinyFrame returns a frame so small that no contour can reach the minimum
// hand area, guaranteeing a blank verdict.
// The caller is responsible for closing the returned Mat.
func TinyFrame() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(20, 20, 20, 0),
		40, 40, gocv.MatTypeCV8UC3,
	)
}

// EncodeJPEG encodes a frame as JPEG bytes.
func EncodeJPEG(frame gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(".jpg", frame)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}
