package chromakey

const (
	defaultTolerance = 40
	defaultSoftness  = 20
)

const (
	// Mid-gray pivot of the contrast adjustment.
	contrastPivot = 128.0
	// In-flight frames per worker in Pipeline.Run.
	framesPerWorker = 2
)

// DefaultKey is pure green.
var DefaultKey = RGB{R: 0x00, G: 0xFF, B: 0x00}
