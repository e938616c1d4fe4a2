// Package gpu is the narrow set of OpenGL calls the map renderer issues.
// The opengl subpackage binds it to go-gl; gputest records calls for tests.
package gpu

// OpenGL enum values used by the renderer.
const (
	DepthTest      uint32 = 0x0B71
	Lequal         uint32 = 0x0203
	ColorBufferBit uint32 = 0x4000
	DepthBufferBit uint32 = 0x0100

	VertexShader   uint32 = 0x8B31
	FragmentShader uint32 = 0x8B30

	ArrayBuffer uint32 = 0x8892
	StaticDraw  uint32 = 0x88E4
	Triangles   uint32 = 0x0004

	Texture2D        uint32 = 0x0DE1
	Texture0         uint32 = 0x84C0
	TextureMinFilter uint32 = 0x2801
	TextureMagFilter uint32 = 0x2800
	TextureWrapS     uint32 = 0x2802
	TextureWrapT     uint32 = 0x2803
	Linear           int32  = 0x2601
	ClampToEdge      int32  = 0x812F
)

// GL is implemented by an OpenGL 4.1 core context. All methods must be called
// from the thread that owns the context.
type GL interface {
	Enable(capability uint32)
	Disable(capability uint32)
	DepthFunc(fn uint32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Viewport(x, y, width, height int32)

	CreateShader(kind uint32) uint32
	// CompileShader uploads source and compiles. It returns false and the
	// info log when compilation fails.
	CompileShader(shader uint32, source string) (bool, string)
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	// LinkProgram returns false and the info log when linking fails.
	LinkProgram(program uint32) (bool, string)
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	UniformMatrix4fv(location int32, m *[16]float32)
	Uniform1i(location int32, v int32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	GenBuffer() uint32
	BindBuffer(target, buffer uint32)
	// BufferData uploads float data to the buffer bound to target.
	BufferData(target uint32, data []float32, usage uint32)
	DeleteBuffer(buffer uint32)

	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	// VertexAttribPointer describes float attributes; stride and offset are in bytes.
	VertexAttribPointer(index uint32, size, stride int32, offset uintptr)
	VertexAttrib1f(index uint32, x float32)
	VertexAttrib2f(index uint32, x, y float32)
	VertexAttrib3f(index uint32, x, y, z float32)
	DrawArrays(mode uint32, first, count int32)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, name uint32, param int32)
	// TexImage2D uploads tightly packed RGBA8 pixels.
	TexImage2D(target uint32, width, height int32, pixels []uint8)
	DeleteTexture(texture uint32)
	MaxTextureSize() int32
}
