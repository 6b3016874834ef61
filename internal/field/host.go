package field

import "image/color"

// Surface is a 2D drawing target sized to the viewport.
type Surface interface {
	SetSize(w, h int)
	Clear()
	FillCircle(x, y, r float64, c color.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)
}

// Viewport reports the current visible size in pixels.
type Viewport interface {
	Size() (w, h int)
}

// FrameID identifies a pending frame request. Zero is never issued.
type FrameID uint64

// Scheduler runs callbacks once per display refresh, one at a time.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// Host bundles what a field needs from its environment. A nil Surface
// means the page has no canvas for the field.
type Host struct {
	Surface  Surface
	Viewport Viewport
	Frames   Scheduler
}
