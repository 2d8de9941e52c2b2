// Package preprocess converts encoded camera frames into binary hand
// silhouettes ready for classification, using GoCV (OpenCV).
package preprocess

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// Region of interest and mask geometry. The ROI is centered in the frame and
// the mask size matches the input shape the classifiers were trained on.
const (
	// ROIWidth is the width of the centered region of interest.
	ROIWidth = 515
	// ROIHeight is the height of the centered region of interest.
	ROIHeight = 289
	// MaskSize is the side length of the square classifier input.
	MaskSize = 128
	// MinContourArea is the minimum largest-contour area (in square pixels)
	// for a frame to count as containing a hand.
	MinContourArea = 2500
)

// Thresholding parameters, matching the binarization used to produce the
// training data. The dark-hand-on-light-background polarity is load-bearing;
// flipping it breaks the classifiers.
const (
	blurKernel          = 3
	adaptiveBlockSize   = 11
	adaptiveOffset      = 2
	rebinarizeThreshold = 127
)

// ErrDecode is returned when the frame bytes cannot be decoded as an image.
var ErrDecode = errors.New("cannot decode image")

// Preprocessor extracts a binary hand mask from raw camera frames.
// It is stateless and safe for concurrent use.
type Preprocessor struct{}

// New creates a new Preprocessor.
func New() *Preprocessor {
	return &Preprocessor{}
}

// Process decodes an encoded frame and reduces it to a classifier-ready
// tensor. The boolean result reports whether a hand silhouette was found;
// when it is false no tensor is produced and the frame should be treated as
// the no-gesture symbol. A frame that decodes but contains no usable region
// or no sufficiently large contour is not an error.
//
// Pipeline: decode, mirror horizontally, crop the centered ROI, grayscale,
// 3x3 Gaussian blur, adaptive Gaussian threshold (inverted), Otsu threshold
// (inverted) to normalize lighting, 3x3 morphological opening, contour gate,
// resize to 128x128, re-binarize, normalize to [0,1].
func (p *Preprocessor) Process(data []byte) (*Tensor, bool, error) {
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, false, ErrDecode
	}
	defer img.Close()

	if img.Empty() {
		return nil, false, ErrDecode
	}

	// Mirror so the user sees camera-facing orientation.
	mirrored := gocv.NewMat()
	defer mirrored.Close()
	gocv.Flip(img, &mirrored, 1)

	rect, ok := centeredROI(mirrored.Cols(), mirrored.Rows())
	if !ok {
		return nil, false, nil
	}

	roi := mirrored.Region(rect)
	defer roi.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(roi, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(blurKernel, blurKernel), 0, 0, gocv.BorderDefault)

	// Local adaptive threshold, inverted so the hand becomes foreground.
	adaptive := gocv.NewMat()
	defer adaptive.Close()
	gocv.AdaptiveThreshold(blurred, &adaptive, 255, gocv.AdaptiveThresholdGaussian,
		gocv.ThresholdBinaryInv, adaptiveBlockSize, adaptiveOffset)

	// Second, global Otsu pass on top of the adaptive output. The training
	// data was binarized the same way; skipping this degrades accuracy.
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(adaptive, &binary, 70, 255, gocv.ThresholdBinaryInv|gocv.ThresholdOtsu)

	// Opening removes isolated specks without changing the silhouette outline.
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()
	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(binary, &opened, gocv.MorphOpen, kernel)

	if !hasHandContour(opened) {
		return nil, false, nil
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(opened, &resized, image.Pt(MaskSize, MaskSize), 0, 0, gocv.InterpolationLinear)

	// Resizing introduces intermediate gray values; collapse back to 0/255.
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(resized, &mask, rebinarizeThreshold, 255, gocv.ThresholdBinary)

	return newTensor(mask.ToBytes(), MaskSize, MaskSize), true, nil
}

// centeredROI computes the fixed-size region of interest centered in a
// frame of the given dimensions, clamped to the frame bounds. ok is false
// when the clamped region has zero area.
func centeredROI(width, height int) (image.Rectangle, bool) {
	x1 := 0
	if width > ROIWidth {
		x1 = (width - ROIWidth) / 2
	}
	y1 := 0
	if height > ROIHeight {
		y1 = (height - ROIHeight) / 2
	}

	x2 := x1 + ROIWidth
	if x2 > width {
		x2 = width
	}
	y2 := y1 + ROIHeight
	if y2 > height {
		y2 = height
	}

	if x2 <= x1 || y2 <= y1 {
		return image.Rectangle{}, false
	}

	return image.Rect(x1, y1, x2, y2), true
}

// hasHandContour reports whether the binary image contains at least one
// external contour large enough to be a hand.
func hasHandContour(binary gocv.Mat) bool {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	for i := 0; i < contours.Size(); i++ {
		if gocv.ContourArea(contours.At(i)) >= MinContourArea {
			return true
		}
	}

	return false
}
