package probe

import "fmt"

// Dimensions is an image's pixel size at inspection time.
type Dimensions struct {
	Width  uint32
	Height uint32
}

// Min returns the shorter side.
func (d Dimensions) Min() uint32 {
	return min(d.Width, d.Height)
}

// String renders "WxH".
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}
