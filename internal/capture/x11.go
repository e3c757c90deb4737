package capture

import (
	"errors"
	"fmt"

	"github.com/gogpu/asciiscreen"
	"github.com/gogpu/asciiscreen/internal/wipe"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// ErrUnsupportedVisual is returned when the X server's root window cannot
// be read as 32-bit little-endian pixels.
var ErrUnsupportedVisual = errors.New("capture: unsupported X visual")

// X11Source grabs the root window of an X display.
//
// Frames are delivered at native resolution; the renderer block-averages
// them down to the grid. The geometry is queried on every capture so that a
// resolution change is picked up on the next frame.
type X11Source struct {
	display string
	conn    *xgb.Conn
	root    xproto.Window
}

// NewX11Source connects to display ("" uses $DISPLAY).
func NewX11Source(display string) (*X11Source, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("capture: connect to X display %q: %w", display, err)
	}
	setup := xproto.Setup(conn)
	if setup.ImageByteOrder != xproto.ImageOrderLSBFirst || !hasZPixmap32(setup) {
		conn.Close()
		return nil, ErrUnsupportedVisual
	}
	screen := setup.DefaultScreen(conn)
	if screen.RootDepth != 24 && screen.RootDepth != 32 {
		conn.Close()
		return nil, fmt.Errorf("%w: depth %d", ErrUnsupportedVisual, screen.RootDepth)
	}
	return &X11Source{display: display, conn: conn, root: screen.Root}, nil
}

func hasZPixmap32(setup *xproto.SetupInfo) bool {
	for _, f := range setup.PixmapFormats {
		if (f.Depth == 24 || f.Depth == 32) && f.BitsPerPixel == 32 {
			return true
		}
	}
	return false
}

// Name implements Source.
func (s *X11Source) Name() string {
	if s.display == "" {
		return "x11"
	}
	return "x11:" + s.display
}

// Capture implements Source. The raw server reply is read without xgb's
// decoded copy and is wiped once its pixels are in buf.
func (s *X11Source) Capture(buf *asciiscreen.SecureBuffer) (asciiscreen.Frame, error) {
	if s.conn == nil {
		return asciiscreen.Frame{}, failed(s.Name(), errors.New("source closed"))
	}
	geom, err := xproto.GetGeometry(s.conn, xproto.Drawable(s.root)).Reply()
	if err != nil {
		return asciiscreen.Frame{}, failed(s.Name(), err)
	}
	width, height := int(geom.Width), int(geom.Height)
	if width == 0 || height == 0 {
		return asciiscreen.Frame{}, failed(s.Name(), asciiscreen.ErrInvalidDimensions)
	}

	cookie := xproto.GetImage(s.conn, xproto.ImageFormatZPixmap, xproto.Drawable(s.root),
		0, 0, geom.Width, geom.Height, 0xffffffff)
	raw, err := cookie.Cookie.Reply()
	if err != nil {
		wipe.Bytes(raw)
		return asciiscreen.Frame{}, failed(s.Name(), err)
	}
	frame, err := copyImageReply(raw, buf, width, height)
	if errors.Is(err, errShortImage) {
		return asciiscreen.Frame{}, failed(s.Name(), err)
	}
	return frame, err
}

// imageReplyHeader is the fixed part of a GetImage reply ahead of the
// pixel data.
const imageReplyHeader = 32

var errShortImage = errors.New("short image")

// copyImageReply moves the pixels of a raw GetImage reply into buf and
// wipes raw on every path.
func copyImageReply(raw []byte, buf *asciiscreen.SecureBuffer, width, height int) (asciiscreen.Frame, error) {
	defer wipe.Bytes(raw)

	size := asciiscreen.FrameSize(width, height)
	if len(raw) < imageReplyHeader {
		return asciiscreen.Frame{}, fmt.Errorf("%w: reply of %d bytes", errShortImage, len(raw))
	}
	n := int(xgb.Get32(raw[4:])) * 4
	if n < size || len(raw) < imageReplyHeader+size {
		return asciiscreen.Frame{}, fmt.Errorf("%w: got %d bytes, want %d", errShortImage, min(n, len(raw)-imageReplyHeader), size)
	}
	if err := buf.Resize(size); err != nil {
		return asciiscreen.Frame{}, err
	}
	dst := buf.Data()
	copy(dst, raw[imageReplyHeader:imageReplyHeader+size])
	return asciiscreen.NewFrame(dst, width, height)
}

// Close disconnects from the X server.
func (s *X11Source) Close() error {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	return nil
}
