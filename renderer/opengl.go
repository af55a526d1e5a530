package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	xdraw "golang.org/x/image/draw"

	"github.com/voxray/voxray/tracer"
)

// Viewer is an interactive opengl window that cycles through the face
// views of a scene. Left/right switch faces, J toggles depth jitter
// and escape closes the window.
type Viewer struct {
	rend *Renderer

	// opengl handles
	window *glfw.Window
	texFbo uint32

	winW, winH int
	canvas     *image.RGBA

	// state
	faceIndex  int
	stochastic bool
	dirty      bool
	closed     bool
}

// NewInteractive creates a viewer window upscaled from the face
// resolution by the given integer factor.
func NewInteractive(rend *Renderer, scale int) (*Viewer, error) {
	if scale < 1 {
		scale = 1
	}

	// The window fits the largest face image; smaller faces stretch.
	res := rend.Scene().Res()
	maxW := res[0]
	if res[1] > maxW {
		maxW = res[1]
	}
	maxH := res[2]
	if res[1] > maxH {
		maxH = res[1]
	}

	v := &Viewer{
		rend:  rend,
		winW:  maxW * scale,
		winH:  maxH * scale,
		dirty: true,
	}
	v.canvas = image.NewRGBA(image.Rect(0, 0, v.winW, v.winH))

	if err := v.initGL(); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

// Run drives the event loop until the window closes. Static views
// re-render only on input; with jitter enabled every iteration
// re-renders so the sampling noise stays live.
func (v *Viewer) Run() error {
	for !v.window.ShouldClose() {
		if v.dirty {
			if err := v.redraw(); err != nil {
				return err
			}
			v.dirty = v.stochastic
		}

		if v.stochastic {
			glfw.PollEvents()
		} else {
			glfw.WaitEvents()
		}
	}
	return nil
}

// Close destroys the window and shuts glfw down. Callers defer it and
// run the event loop to completion first; extra calls are no-ops.
func (v *Viewer) Close() {
	if v.closed {
		return
	}
	v.closed = true

	if v.window != nil {
		v.window.Destroy()
		v.window = nil
	}
	glfw.Terminate()
}

func (v *Viewer) initGL() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("renderer: initializing glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	var err error
	v.window, err = glfw.CreateWindow(v.winW, v.winH, "voxray", nil, nil)
	if err != nil {
		return fmt.Errorf("renderer: creating window: %w", err)
	}
	v.window.MakeContextCurrent()

	if err = gl.Init(); err != nil {
		return fmt.Errorf("renderer: initializing opengl: %w", err)
	}

	// Texture receiving the upscaled frame.
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(v.winW), int32(v.winH), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	// Attach texture to FBO for blitting to the front buffer.
	gl.GenFramebuffers(1, &v.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, v.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	v.window.SetKeyCallback(v.onKey)
	return nil
}

func (v *Viewer) redraw() error {
	face := tracer.Faces[v.faceIndex]
	frame, err := v.rend.RenderFace(face, v.stochastic)
	if err != nil {
		return err
	}

	img := frame.ToImage()
	xdraw.NearestNeighbor.Scale(v.canvas, v.canvas.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(v.winW), int32(v.winH), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(v.canvas.Pix))

	// Blit with flipped Y: image rows run top-down, gl bottom-up.
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, v.texFbo)
	gl.BlitFramebuffer(0, 0, int32(v.winW), int32(v.winH), 0, int32(v.winH), int32(v.winW), 0, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	jitter := ""
	if v.stochastic {
		jitter = " [jitter]"
	}
	v.window.SetTitle(fmt.Sprintf("voxray - face %s%s - %s", face, jitter, frame.Elapsed.Truncate(time.Millisecond)))

	v.window.SwapBuffers()
	return nil
}

func (v *Viewer) onKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	switch key {
	case glfw.KeyEscape:
		v.window.SetShouldClose(true)
	case glfw.KeyLeft:
		v.faceIndex = (v.faceIndex + len(tracer.Faces) - 1) % len(tracer.Faces)
		v.dirty = true
	case glfw.KeyRight:
		v.faceIndex = (v.faceIndex + 1) % len(tracer.Faces)
		v.dirty = true
	case glfw.KeyJ:
		v.stochastic = !v.stochastic
		v.dirty = true
	}
}
