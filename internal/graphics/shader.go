package graphics

import (
	_ "embed"
	"errors"
	"fmt"

	"statmap/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Shader sources for the map program. The fragment stage samples the bound
// texture when isTextured > 0.5 and outputs the flat vertex color otherwise,
// so one program draws both the background and the markers.
var (
	//go:embed shaders/map.vert
	MapVertexShader string
	//go:embed shaders/map.frag
	MapFragmentShader string
)

// Vertex attribute locations fixed by the layout qualifiers in map.vert.
const (
	AttribPosition uint32 = 0
	AttribTexCoord uint32 = 1
	AttribColor    uint32 = 2
	AttribTextured uint32 = 3
)

// Uniform names in the map program.
const (
	UniformProjection = "uProjectionMatrix"
	UniformView       = "uViewMatrix"
	UniformModel      = "uModelMatrix"
	UniformTexture    = "uTexture"
)

var (
	ErrCompile = errors.New("shader compile failed")
	ErrLink    = errors.New("program link failed")
)

// Shader represents a linked shader program
type Shader struct {
	ID uint32

	gl        gpu.GL
	locations map[string]int32
}

// NewShader compiles both stages and links them into a program. Any failure
// releases the objects created so far.
func NewShader(g gpu.GL, vertexSrc, fragmentSrc string) (*Shader, error) {
	program, err := compileProgram(g, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Shader{ID: program, gl: g, locations: make(map[string]int32)}, nil
}

// Use activates the shader program
func (s *Shader) Use() {
	s.gl.UseProgram(s.ID)
}

// SetInt sets an integer uniform
func (s *Shader) SetInt(name string, value int32) {
	s.gl.Uniform1i(s.location(name), value)
}

// SetMatrix4 sets a 4x4 matrix uniform
func (s *Shader) SetMatrix4(name string, m mgl32.Mat4) {
	v := [16]float32(m)
	s.gl.UniformMatrix4fv(s.location(name), &v)
}

// Delete releases the program.
func (s *Shader) Delete() {
	if s.ID != 0 {
		s.gl.DeleteProgram(s.ID)
		s.ID = 0
	}
}

func (s *Shader) location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := s.gl.GetUniformLocation(s.ID, name)
	s.locations[name] = loc
	return loc
}

// Helper functions
func compileProgram(g gpu.GL, vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(g, vertexSrc, gpu.VertexShader)
	if err != nil {
		return 0, fmt.Errorf("vertex stage: %w", err)
	}
	fragmentShader, err := compileShader(g, fragmentSrc, gpu.FragmentShader)
	if err != nil {
		g.DeleteShader(vertexShader)
		return 0, fmt.Errorf("fragment stage: %w", err)
	}

	program := g.CreateProgram()
	g.AttachShader(program, vertexShader)
	g.AttachShader(program, fragmentShader)
	ok, log := g.LinkProgram(program)

	// shaders can be deleted after linking
	g.DeleteShader(vertexShader)
	g.DeleteShader(fragmentShader)

	if !ok {
		g.DeleteProgram(program)
		return 0, fmt.Errorf("%w: %s", ErrLink, log)
	}
	return program, nil
}

func compileShader(g gpu.GL, source string, shaderType uint32) (uint32, error) {
	shader := g.CreateShader(shaderType)
	if ok, log := g.CompileShader(shader, source); !ok {
		g.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s", ErrCompile, log)
	}
	return shader, nil
}
