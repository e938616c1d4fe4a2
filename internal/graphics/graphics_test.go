package graphics

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"statmap/internal/graphics/gpu"
	"statmap/internal/graphics/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaderSourcesKeepTexturedBranch(t *testing.T) {
	assert.Contains(t, MapVertexShader, "uProjectionMatrix * uViewMatrix * uModelMatrix")
	assert.Contains(t, MapVertexShader, "fragIsTextured = isTextured")
	assert.Contains(t, MapFragmentShader, "fragIsTextured > 0.5")
	assert.Contains(t, MapFragmentShader, "texture(uTexture, fragTexCoord)")
	assert.Contains(t, MapFragmentShader, "vec4(fragColor, 1.0)")
}

func TestNewShader(t *testing.T) {
	rec := gputest.New()
	s, err := NewShader(rec, MapVertexShader, MapFragmentShader)
	require.NoError(t, err)
	require.NotZero(t, s.ID)

	// Both stages are released once linked.
	assert.Equal(t, 2, rec.Count("DeleteShader"))

	s.Use()
	s.SetMatrix4(UniformModel, mgl32.Ident4())
	s.SetMatrix4(UniformModel, mgl32.Ident4())
	assert.Equal(t, 1, rec.Count("GetUniformLocation(uModelMatrix)"), "locations are cached")

	m, ok := rec.Uniform(UniformModel)
	require.True(t, ok)
	assert.Equal(t, [16]float32(mgl32.Ident4()), m)

	id := s.ID
	s.Delete()
	assert.True(t, rec.Deleted(id))
	assert.Zero(t, s.ID)
}

func TestNewShader_CompileError(t *testing.T) {
	rec := gputest.New()
	rec.CompileErrors[gpu.FragmentShader] = "0:7: 'texture' : no matching overloaded function"

	_, err := NewShader(rec, MapVertexShader, MapFragmentShader)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompile)
	assert.Contains(t, err.Error(), "fragment stage")
	assert.Contains(t, err.Error(), "no matching overloaded function")
	assert.Zero(t, rec.Count("CreateProgram"))
	assert.Equal(t, 2, rec.Count("DeleteShader"))
}

func TestNewShader_LinkError(t *testing.T) {
	rec := gputest.New()
	rec.LinkError = "error: vertex output fragColor not read"

	_, err := NewShader(rec, MapVertexShader, MapFragmentShader)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLink)
	assert.Equal(t, 1, rec.Count("DeleteProgram"))
}

func TestCamera(t *testing.T) {
	c := NewCamera(1600, 800)
	assert.Equal(t, float32(2), c.AspectRatio)

	want := mgl32.Perspective(mgl32.DegToRad(60), 2, 0.1, 100)
	assert.Equal(t, want, c.GetProjectionMatrix())
	assert.Equal(t, mgl32.LookAtV(mgl32.Vec3{0, -1, 1}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}), c.GetViewMatrix())
	assert.Equal(t, mgl32.Ident4(), c.GetModelMatrix())

	// The origin projects to the center of the screen.
	clip := c.GetProjectionMatrix().Mul4(c.GetViewMatrix()).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-6)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-6)

	c.SetViewport(0, 10)
	assert.Equal(t, float32(2), c.AspectRatio)
	c.SetViewport(300, 600)
	assert.Equal(t, float32(0.5), c.AspectRatio)
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImageFlipsRows(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 3))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	for x := 0; x < 2; x++ {
		src.Set(x, 0, red)  // top row
		src.Set(x, 2, blue) // bottom row
	}

	img, err := DecodeImage(bytes.NewReader(encodePNG(t, src)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 3), img.Bounds())
	assert.Equal(t, blue, img.RGBAAt(0, 0))
	assert.Equal(t, red, img.RGBAAt(1, 2))
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	_, err := DecodeImage(strings.NewReader("not an image"))
	require.Error(t, err)
}

func TestFitImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))
	assert.Same(t, img, FitImage(img, 512))

	fit := FitImage(img, 200)
	assert.Equal(t, 200, fit.Bounds().Dx())
	assert.Equal(t, 50, fit.Bounds().Dy())
}

func TestUploadTexture(t *testing.T) {
	rec := gputest.New()
	rec.MaxTexture = 64

	tex := UploadTexture(rec, image.NewRGBA(image.Rect(0, 0, 128, 32)))
	w, h, ok := rec.TextureSize(tex)
	require.True(t, ok)
	assert.Equal(t, int32(64), w)
	assert.Equal(t, int32(16), h)

	for _, call := range []string{
		"TexParameteri(0xde1,0x2802,0x812f)",
		"TexParameteri(0xde1,0x2803,0x812f)",
		"TexParameteri(0xde1,0x2801,0x2601)",
		"TexParameteri(0xde1,0x2800,0x2601)",
	} {
		assert.Contains(t, rec.Calls, call)
	}
}

func TestLoadImageAsync(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, image.NewRGBA(image.Rect(0, 0, 4, 2))), 0o644))

	res := <-LoadImageAsync(path)
	require.NoError(t, res.Err)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, 4, res.Image.Bounds().Dx())

	missing := <-LoadImageAsync(filepath.Join(dir, "missing.png"))
	require.Error(t, missing.Err)
	assert.Nil(t, missing.Image)
}
