package sink

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/willbeason/mandelbrot/pkg/logging"
)

func newViewerServer(t *testing.T) (*Viewer, *httptest.Server) {
	t.Helper()
	v := NewViewer(logging.New("Viewer", logging.Quiet))
	srv := httptest.NewServer(v.Handler())
	t.Cleanup(srv.Close)
	return v, srv
}

func dialViewer(ctx context.Context, t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.CloseNow() })
	return c
}

func TestViewerSocket(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	v, srv := newViewerServer(t)
	frame := testFrame(t)

	// Connect before the frame exists; the viewer holds the socket until Present.
	c := dialViewer(ctx, t, srv)
	c.SetReadLimit(int64(len(frame.Pix)) + 1024)

	if err := v.Present(ctx, frame); err != nil {
		t.Fatal(err)
	}

	var header Header
	if err := wsjson.Read(ctx, c, &header); err != nil {
		t.Fatal(err)
	}
	want := Header{Width: frame.Width, Height: frame.Height, Stride: frame.Stride, Format: "BGRA"}
	if header != want {
		t.Errorf("header: got %+v, want %+v", header, want)
	}

	typ, data, err := c.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if typ != websocket.MessageBinary {
		t.Errorf("message type: got %v, want %v", typ, websocket.MessageBinary)
	}
	if !bytes.Equal(data, frame.Pix) {
		t.Error("socket frame differs from the presented frame")
	}

	_, _, err = c.Read(ctx)
	if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Errorf("after frame: got %v, want normal closure", err)
	}
}

func TestViewerPresentOnce(t *testing.T) {
	v := NewViewer(logging.New("Viewer", logging.Quiet))
	frame := testFrame(t)

	if err := v.Present(context.Background(), frame); err != nil {
		t.Fatal(err)
	}
	if err := v.Present(context.Background(), frame); !errors.Is(err, ErrAlreadyPresented) {
		t.Errorf("second Present: got %v, want %v", err, ErrAlreadyPresented)
	}
}

func TestViewerPages(t *testing.T) {
	v, srv := newViewerServer(t)
	frame := testFrame(t)
	if err := v.Present(context.Background(), frame); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("WebSocket")) {
		t.Errorf("index: status %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != frame.Width || img.Bounds().Dy() != frame.Height {
		t.Errorf("frame.png: got %v", img.Bounds())
	}

	resp, err = http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing page: got status %d", resp.StatusCode)
	}
}

func TestViewerWaitGivesUp(t *testing.T) {
	v := NewViewer(logging.New("Viewer", logging.Quiet))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := v.wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want %v", err, context.Canceled)
	}
}
