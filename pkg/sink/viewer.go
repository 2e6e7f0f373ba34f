package sink

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/willbeason/mandelbrot/pkg/fractal"
)

//go:embed index.html
var indexHTML []byte

var ErrAlreadyPresented = errors.New("viewer already has a frame")

// Header is the first message a viewer socket receives. The next message is
// the frame's bytes.
type Header struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Stride int    `json:"stride"`
	Format string `json:"format"`
}

// Viewer shows one frame in the browser. It serves a page at "/", the frame
// over a websocket at "/ws" and as a PNG at "/frame.png".
//
// Requests that arrive before Present wait for the frame.
type Viewer struct {
	mu     sync.Mutex
	logger bslogger.Logger

	once  sync.Once
	ready chan struct{}
	frame *fractal.Frame
}

func NewViewer(logger bslogger.Logger) *Viewer {
	return &Viewer{
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// Present publishes f to current and future clients. A viewer shows a single
// frame, so later calls fail with ErrAlreadyPresented.
func (v *Viewer) Present(_ context.Context, f *fractal.Frame) error {
	published := false
	v.once.Do(func() {
		v.frame = f
		close(v.ready)
		published = true
	})
	if !published {
		return ErrAlreadyPresented
	}

	v.infof("Presenting %dx%d frame", f.Width, f.Height)
	return nil
}

func (v *Viewer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", v.serveSocket)
	mux.HandleFunc("/frame.png", v.servePNG)
	mux.HandleFunc("/", v.serveIndex)
	return mux
}

// wait blocks until a frame is published or ctx ends.
func (v *Viewer) wait(ctx context.Context) (*fractal.Frame, error) {
	select {
	case <-v.ready:
		return v.frame, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (v *Viewer) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (v *Viewer) servePNG(w http.ResponseWriter, r *http.Request) {
	frame, err := v.wait(r.Context())
	if err != nil {
		return
	}

	var buf bytes.Buffer
	if err := (PNG{}).Encode(&buf, frame); err != nil {
		v.warningf("Encoding frame for %s: %s", r.RemoteAddr, err)
		http.Error(w, "unable to encode frame", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (v *Viewer) serveSocket(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		v.warningf("Accepting websocket from %s: %s", r.RemoteAddr, err)
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	frame, err := v.wait(ctx)
	if err != nil {
		return
	}

	if err := send(ctx, c, frame); err != nil {
		v.warningf("Sending frame to %s: %s", r.RemoteAddr, err)
		return
	}
	v.infof("Sent frame to %s", r.RemoteAddr)

	_ = c.Close(websocket.StatusNormalClosure, "frame sent")
}

func send(ctx context.Context, c *websocket.Conn, f *fractal.Frame) error {
	header := Header{
		Width:  f.Width,
		Height: f.Height,
		Stride: f.Stride,
		Format: "BGRA",
	}
	if err := wsjson.Write(ctx, c, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := c.Write(ctx, websocket.MessageBinary, f.Pix); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// The logger swaps its output and prefix on every call, so handlers share it
// under mu.
func (v *Viewer) infof(format string, values ...interface{}) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.logger.Infof(format, values...)
}

func (v *Viewer) warningf(format string, values ...interface{}) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.logger.Warningf(format, values...)
}

var _ Sink = (*Viewer)(nil)
