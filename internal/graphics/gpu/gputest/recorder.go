// Package gputest provides a gpu.GL that records calls and tracks enough
// state for tests to assert on draw order without a real context.
package gputest

import (
	"fmt"
	"slices"
	"sync"

	"statmap/internal/graphics/gpu"
)

// Draw is a snapshot of the pipeline state at a DrawArrays call.
type Draw struct {
	Mode      uint32
	First     int32
	Count     int32
	DepthTest bool
	Program   uint32
	VAO       uint32
	Texture   uint32
	// Enabled lists vertex attribute arrays enabled on the bound VAO.
	Enabled []uint32
	// Constants holds the current generic attribute values by index.
	Constants map[uint32][4]float32
}

// ArrayEnabled reports whether attribute index was sourced from a buffer.
func (d Draw) ArrayEnabled(index uint32) bool {
	return slices.Contains(d.Enabled, index)
}

// Recorder is a fake gpu.GL. The zero value is not usable; call New.
type Recorder struct {
	mu sync.Mutex

	// Calls lists every method invoked, in order.
	Calls []string
	// Draws lists every DrawArrays call with the state it ran under.
	Draws []Draw

	// CompileErrors fails compilation of shaders of the given kind with the log.
	CompileErrors map[uint32]string
	// LinkError fails every LinkProgram call with this log when set.
	LinkError string
	// MaxTexture is returned by MaxTextureSize.
	MaxTexture int32

	nextID      uint32
	shaderKinds map[uint32]uint32
	depthTest   bool
	program     uint32
	vao         uint32
	arrayBuffer uint32
	texture     uint32
	enabled     map[uint32]map[uint32]bool
	constants   map[uint32][4]float32
	buffers     map[uint32][]float32
	textures    map[uint32][2]int32
	uniforms    map[int32][16]float32
	uniformInts map[int32]int32
	locations   map[string]int32
	deleted     map[uint32]bool
	viewport    [4]int32
}

var _ gpu.GL = (*Recorder)(nil)

// New returns a Recorder with a 4096 texel texture limit.
func New() *Recorder {
	return &Recorder{
		CompileErrors: make(map[uint32]string),
		MaxTexture:    4096,
		shaderKinds:   make(map[uint32]uint32),
		enabled:       make(map[uint32]map[uint32]bool),
		constants:     make(map[uint32][4]float32),
		buffers:       make(map[uint32][]float32),
		textures:      make(map[uint32][2]int32),
		uniforms:      make(map[int32][16]float32),
		uniformInts:   make(map[int32]int32),
		locations:     make(map[string]int32),
		deleted:       make(map[uint32]bool),
	}
}

func (r *Recorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

// Buffer returns the last data uploaded to buffer.
func (r *Recorder) Buffer(buffer uint32) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buffers[buffer]
}

// Uniform returns the last matrix set at the named uniform.
func (r *Recorder) Uniform(name string) ([16]float32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc, ok := r.locations[name]
	if !ok {
		return [16]float32{}, false
	}
	m, ok := r.uniforms[loc]
	return m, ok
}

// UniformInt returns the last integer set at the named uniform.
func (r *Recorder) UniformInt(name string) (int32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc, ok := r.locations[name]
	if !ok {
		return 0, false
	}
	v, ok := r.uniformInts[loc]
	return v, ok
}

// TextureSize returns the dimensions uploaded to texture.
func (r *Recorder) TextureSize(texture uint32) (int32, int32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.textures[texture]
	return s[0], s[1], ok
}

// Deleted reports whether an object id was released.
func (r *Recorder) Deleted(id uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleted[id]
}

// ViewportRect returns the last viewport rectangle.
func (r *Recorder) ViewportRect() [4]int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport
}

// Count returns how many recorded calls start with prefix.
func (r *Recorder) Count(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls and draws but keeps GL state.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = nil
	r.Draws = nil
}

func (r *Recorder) Enable(capability uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Enable(%#x)", capability)
	if capability == gpu.DepthTest {
		r.depthTest = true
	}
}

func (r *Recorder) Disable(capability uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Disable(%#x)", capability)
	if capability == gpu.DepthTest {
		r.depthTest = false
	}
}

func (r *Recorder) DepthFunc(fn uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DepthFunc(%#x)", fn)
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ClearColor(%v,%v,%v,%v)", red, green, blue, alpha)
}

func (r *Recorder) Clear(mask uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Clear(%#x)", mask)
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Viewport(%d,%d,%d,%d)", x, y, width, height)
	r.viewport = [4]int32{x, y, width, height}
}

func (r *Recorder) CreateShader(kind uint32) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.id()
	r.shaderKinds[id] = kind
	r.record("CreateShader(%#x)", kind)
	return id
}

func (r *Recorder) CompileShader(shader uint32, source string) (bool, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("CompileShader(%d)", shader)
	if log, ok := r.CompileErrors[r.shaderKinds[shader]]; ok {
		return false, log
	}
	return true, ""
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DeleteShader(%d)", shader)
	r.deleted[shader] = true
}

func (r *Recorder) CreateProgram() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("CreateProgram")
	return r.id()
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("AttachShader(%d,%d)", program, shader)
}

func (r *Recorder) LinkProgram(program uint32) (bool, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("LinkProgram(%d)", program)
	if r.LinkError != "" {
		return false, r.LinkError
	}
	return true, ""
}

func (r *Recorder) UseProgram(program uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("UseProgram(%d)", program)
	r.program = program
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DeleteProgram(%d)", program)
	r.deleted[program] = true
}

func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetUniformLocation(%s)", name)
	if loc, ok := r.locations[name]; ok {
		return loc
	}
	loc := int32(len(r.locations))
	r.locations[name] = loc
	return loc
}

func (r *Recorder) UniformMatrix4fv(location int32, m *[16]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("UniformMatrix4fv(%d)", location)
	r.uniforms[location] = *m
}

func (r *Recorder) Uniform1i(location int32, v int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Uniform1i(%d,%d)", location, v)
	r.uniformInts[location] = v
}

func (r *Recorder) GenVertexArray() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GenVertexArray")
	id := r.id()
	r.enabled[id] = make(map[uint32]bool)
	return id
}

func (r *Recorder) BindVertexArray(vao uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BindVertexArray(%d)", vao)
	r.vao = vao
	if r.enabled[vao] == nil {
		r.enabled[vao] = make(map[uint32]bool)
	}
}

func (r *Recorder) DeleteVertexArray(vao uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DeleteVertexArray(%d)", vao)
	r.deleted[vao] = true
}

func (r *Recorder) GenBuffer() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GenBuffer")
	return r.id()
}

func (r *Recorder) BindBuffer(target, buffer uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BindBuffer(%#x,%d)", target, buffer)
	if target == gpu.ArrayBuffer {
		r.arrayBuffer = buffer
	}
}

func (r *Recorder) BufferData(target uint32, data []float32, usage uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BufferData(%d,%d)", r.arrayBuffer, len(data))
	r.buffers[r.arrayBuffer] = slices.Clone(data)
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DeleteBuffer(%d)", buffer)
	r.deleted[buffer] = true
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("EnableVertexAttribArray(%d)", index)
	if r.enabled[r.vao] == nil {
		r.enabled[r.vao] = make(map[uint32]bool)
	}
	r.enabled[r.vao][index] = true
}

func (r *Recorder) DisableVertexAttribArray(index uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DisableVertexAttribArray(%d)", index)
	if r.enabled[r.vao] != nil {
		delete(r.enabled[r.vao], index)
	}
}

func (r *Recorder) VertexAttribPointer(index uint32, size, stride int32, offset uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("VertexAttribPointer(%d,%d,%d,%d)", index, size, stride, offset)
}

func (r *Recorder) VertexAttrib1f(index uint32, x float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("VertexAttrib1f(%d,%v)", index, x)
	r.constants[index] = [4]float32{x, 0, 0, 1}
}

func (r *Recorder) VertexAttrib2f(index uint32, x, y float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("VertexAttrib2f(%d,%v,%v)", index, x, y)
	r.constants[index] = [4]float32{x, y, 0, 1}
}

func (r *Recorder) VertexAttrib3f(index uint32, x, y, z float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("VertexAttrib3f(%d,%v,%v,%v)", index, x, y, z)
	r.constants[index] = [4]float32{x, y, z, 1}
}

func (r *Recorder) DrawArrays(mode uint32, first, count int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DrawArrays(%#x,%d,%d)", mode, first, count)

	var enabled []uint32
	for idx := range r.enabled[r.vao] {
		enabled = append(enabled, idx)
	}
	slices.Sort(enabled)
	constants := make(map[uint32][4]float32, len(r.constants))
	for k, v := range r.constants {
		constants[k] = v
	}
	r.Draws = append(r.Draws, Draw{
		Mode:      mode,
		First:     first,
		Count:     count,
		DepthTest: r.depthTest,
		Program:   r.program,
		VAO:       r.vao,
		Texture:   r.texture,
		Enabled:   enabled,
		Constants: constants,
	})
}

func (r *Recorder) GenTexture() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GenTexture")
	return r.id()
}

func (r *Recorder) ActiveTexture(unit uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ActiveTexture(%#x)", unit)
}

func (r *Recorder) BindTexture(target, texture uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BindTexture(%#x,%d)", target, texture)
	r.texture = texture
}

func (r *Recorder) TexParameteri(target, name uint32, param int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("TexParameteri(%#x,%#x,%#x)", target, name, param)
}

func (r *Recorder) TexImage2D(target uint32, width, height int32, pixels []uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("TexImage2D(%d,%d,%d)", width, height, len(pixels))
	r.textures[r.texture] = [2]int32{width, height}
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DeleteTexture(%d)", texture)
	r.deleted[texture] = true
}

func (r *Recorder) MaxTextureSize() int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("MaxTextureSize")
	return r.MaxTexture
}
