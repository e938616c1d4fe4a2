// Package opengl implements gpu.GL on top of go-gl's OpenGL 4.1 core bindings.
package opengl

import (
	"strings"

	"statmap/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Context forwards gpu.GL calls to the current OpenGL context.
type Context struct{}

var _ gpu.GL = Context{}

// Init loads the OpenGL function pointers. A context must be current.
func Init() (Context, error) {
	if err := gl.Init(); err != nil {
		return Context{}, err
	}
	return Context{}, nil
}

// Version returns the driver's GL_VERSION string.
func (Context) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (Context) Enable(capability uint32)      { gl.Enable(capability) }
func (Context) Disable(capability uint32)     { gl.Disable(capability) }
func (Context) DepthFunc(fn uint32)           { gl.DepthFunc(fn) }
func (Context) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (Context) Clear(mask uint32)             { gl.Clear(mask) }

func (Context) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (Context) CreateShader(kind uint32) uint32 { return gl.CreateShader(kind) }

func (Context) CompileShader(shader uint32, source string) (bool, string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return false, strings.TrimRight(log, "\x00")
	}
	return true, ""
}

func (Context) DeleteShader(shader uint32)          { gl.DeleteShader(shader) }
func (Context) CreateProgram() uint32               { return gl.CreateProgram() }
func (Context) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (Context) LinkProgram(program uint32) (bool, string) {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return false, strings.TrimRight(log, "\x00")
	}
	return true, ""
}

func (Context) UseProgram(program uint32)    { gl.UseProgram(program) }
func (Context) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (Context) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Context) UniformMatrix4fv(location int32, m *[16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (Context) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (Context) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (Context) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (Context) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (Context) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (Context) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (Context) BufferData(target uint32, data []float32, usage uint32) {
	if len(data) == 0 {
		// gl.Ptr cannot address an empty slice.
		gl.BufferData(target, 0, nil, usage)
		return
	}
	gl.BufferData(target, len(data)*4, gl.Ptr(data), usage)
}

func (Context) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (Context) EnableVertexAttribArray(index uint32)  { gl.EnableVertexAttribArray(index) }
func (Context) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

func (Context) VertexAttribPointer(index uint32, size, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, gl.FLOAT, false, stride, offset)
}

func (Context) VertexAttrib1f(index uint32, x float32)       { gl.VertexAttrib1f(index, x) }
func (Context) VertexAttrib2f(index uint32, x, y float32)    { gl.VertexAttrib2f(index, x, y) }
func (Context) VertexAttrib3f(index uint32, x, y, z float32) { gl.VertexAttrib3f(index, x, y, z) }

func (Context) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (Context) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (Context) ActiveTexture(unit uint32)          { gl.ActiveTexture(unit) }
func (Context) BindTexture(target, texture uint32) { gl.BindTexture(target, texture) }

func (Context) TexParameteri(target, name uint32, param int32) {
	gl.TexParameteri(target, name, param)
}

func (Context) TexImage2D(target uint32, width, height int32, pixels []uint8) {
	var ptr = gl.Ptr(nil)
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(target, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
}

func (Context) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (Context) MaxTextureSize() int32 {
	var size int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &size)
	return size
}
