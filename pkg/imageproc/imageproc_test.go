package imageproc

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/ilkoid/lekar-ai/pkg/config"
)

// testImage рисует синтетическую "страницу": светлый фон, тёмный блок текста.
func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x > w/4 && x < 3*w/4 && y > h/4 && y < h/2 {
				img.Set(x, y, color.RGBA{R: 20, G: 20, B: 20, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 230, G: 228, B: 225, A: 255})
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestPrepare_ProducesDecodableJPEG(t *testing.T) {
	data := encodePNG(t, testImage(120, 90))

	out, err := Prepare(data, config.ImageConfig{
		MaxWidth:  1000,
		MaxHeight: 1000,
		Quality:   85,
		Binarize:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not decodable jpeg: %v", err)
	}
	if decoded.Bounds().Dx() != 120 || decoded.Bounds().Dy() != 90 {
		t.Errorf("small image must keep its size, got %v", decoded.Bounds())
	}
}

func TestPrepare_UndecodableInput(t *testing.T) {
	_, err := Prepare([]byte("definitely not an image"), config.ImageConfig{
		MaxWidth: 1000, MaxHeight: 1000, Quality: 85,
	})
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
}

func TestOtsuThreshold_SeparatesBimodal(t *testing.T) {
	// Двумодальное изображение: половина тёмная (40), половина светлая (220)
	gray := image.NewGray(image.Rect(0, 0, 100, 2))
	for x := 0; x < 100; x++ {
		gray.SetGray(x, 0, color.Gray{Y: 40})
		gray.SetGray(x, 1, color.Gray{Y: 220})
	}

	threshold := OtsuThreshold(gray)
	if threshold < 40 || threshold >= 220 {
		t.Errorf("threshold %d does not separate the two modes", threshold)
	}
}

func TestBinarize_ThresholdInclusive(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 1))
	gray.SetGray(0, 0, color.Gray{Y: 99})
	gray.SetGray(1, 0, color.Gray{Y: 100})
	gray.SetGray(2, 0, color.Gray{Y: 101})

	out := Binarize(gray, 100)

	if out.GrayAt(0, 0).Y != 0 || out.GrayAt(1, 0).Y != 0 {
		t.Error("pixels at or below threshold must become black")
	}
	if out.GrayAt(2, 0).Y != 255 {
		t.Error("pixels above threshold must become white")
	}
}

func TestDilate_GrowsByOnePixel(t *testing.T) {
	// Одиночный чёрный пиксель в центре белого поля
	gray := image.NewGray(image.Rect(0, 0, 5, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			gray.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	gray.SetGray(2, 2, color.Gray{Y: 0})

	out := Dilate(gray)

	// Центр и 4-соседи чёрные
	for _, p := range []image.Point{{2, 2}, {1, 2}, {3, 2}, {2, 1}, {2, 3}} {
		if out.GrayAt(p.X, p.Y).Y != 0 {
			t.Errorf("pixel %v must be black after dilation", p)
		}
	}
	// Диагональ не затрагивается (4-соседство)
	if out.GrayAt(1, 1).Y != 255 {
		t.Error("diagonal neighbour must stay white")
	}
	if out.GrayAt(0, 0).Y != 255 {
		t.Error("far pixel must stay white")
	}
}

func TestFitBox(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxW, maxH   int
		wantW, wantH int
	}{
		{name: "landscape downscale", w: 2000, h: 1000, maxW: 1000, maxH: 1000, wantW: 1000, wantH: 500},
		{name: "portrait downscale", w: 500, h: 4000, maxW: 1000, maxH: 1000, wantW: 125, wantH: 1000},
		{name: "already fits", w: 800, h: 600, maxW: 1000, maxH: 1000, wantW: 800, wantH: 600},
		{name: "zero box disables resize", w: 2000, h: 2000, maxW: 0, maxH: 0, wantW: 2000, wantH: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FitBox(testImage(tt.w, tt.h), tt.maxW, tt.maxH)
			b := out.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("expected %dx%d, got %dx%d", tt.wantW, tt.wantH, b.Dx(), b.Dy())
			}
		})
	}
}
