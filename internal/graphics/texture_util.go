package graphics

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"statmap/internal/graphics/gpu"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageResult is the outcome of an asynchronous image load.
type ImageResult struct {
	Path  string
	Image *image.RGBA
	Err   error
}

// DecodeImage decodes any registered format into RGBA with rows flipped so
// the first row is the bottom of the picture, as OpenGL expects.
func DecodeImage(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	flipVertical(rgba)
	return rgba, nil
}

func flipVertical(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := img.Bounds().Dx() * 4
	tmp := make([]uint8, row)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+row]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+row]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// FitImage downscales img so neither side exceeds maxSize, keeping the aspect
// ratio. Images that already fit are returned unchanged.
func FitImage(img *image.RGBA, maxSize int) *image.RGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	scale := float64(maxSize) / float64(max(w, h))
	nw := max(1, int(float64(w)*scale))
	nh := max(1, int(float64(h)*scale))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// LoadImage opens and decodes the image at path.
func LoadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()
	return DecodeImage(f)
}

// LoadImageAsync decodes the image at path on a separate goroutine. The
// returned channel receives exactly one result and is then closed.
func LoadImageAsync(path string) <-chan ImageResult {
	out := make(chan ImageResult, 1)
	go func() {
		defer close(out)
		img, err := LoadImage(path)
		out <- ImageResult{Path: path, Image: img, Err: err}
	}()
	return out
}

// UploadTexture creates a 2D texture from img with linear filtering and
// clamp-to-edge wrapping. img is resized to the driver's texture limit first.
func UploadTexture(g gpu.GL, img *image.RGBA) uint32 {
	img = FitImage(img, int(g.MaxTextureSize()))

	texture := g.GenTexture()
	g.BindTexture(gpu.Texture2D, texture)

	g.TexParameteri(gpu.Texture2D, gpu.TextureWrapS, gpu.ClampToEdge)
	g.TexParameteri(gpu.Texture2D, gpu.TextureWrapT, gpu.ClampToEdge)
	g.TexParameteri(gpu.Texture2D, gpu.TextureMinFilter, gpu.Linear)
	g.TexParameteri(gpu.Texture2D, gpu.TextureMagFilter, gpu.Linear)

	g.TexImage2D(gpu.Texture2D, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), packed(img))
	return texture
}

// packed returns the pixel rows without stride padding.
func packed(img *image.RGBA) []uint8 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if img.Stride == w*4 {
		return img.Pix[:w*h*4]
	}
	out := make([]uint8, 0, w*h*4)
	for y := 0; y < h; y++ {
		out = append(out, img.Pix[y*img.Stride:y*img.Stride+w*4]...)
	}
	return out
}
