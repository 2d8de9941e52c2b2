package preprocess

// Tensor is a single-channel binary mask in the form the classifiers expect:
// row-major pixels that are strictly 0 or 255, alongside the same values
// normalized to [0,1]. Logically the shape is (1, Height, Width, 1); the
// leading batch dimension is added by the classifier transport.
type Tensor struct {
	// Pixels holds the raw mask, one byte per pixel, values 0 or 255.
	Pixels []byte
	// Data holds Pixels divided by 255.
	Data   []float32
	Width  int
	Height int
}

// newTensor builds a Tensor from raw mask bytes.
func newTensor(pixels []byte, width, height int) *Tensor {
	data := make([]float32, len(pixels))
	for i, p := range pixels {
		data[i] = float32(p) / 255.0
	}

	return &Tensor{
		Pixels: pixels,
		Data:   data,
		Width:  width,
		Height: height,
	}
}
