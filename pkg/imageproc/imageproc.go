// Package imageproc подготавливает изображения к OCR через vision модель.
//
// Цепочка: decode → grayscale → (опционально) бинаризация по Отсу +
// дилатация на один пиксель → даунскейл в ограничивающий прямоугольник
// с сохранением пропорций → JPEG.
//
// Бинаризация помогает на фотографиях бумажных заключений с неровным
// освещением; для скриншотов её можно выключить в конфигурации.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png" // Регистрируем PNG декодер

	"github.com/nfnt/resize"

	"github.com/ilkoid/lekar-ai/pkg/config"
)

// ErrUnsupportedImage — источник не декодируется или результат не
// кодируется. Для вызывающей стороны это провал запроса, не процесса.
var ErrUnsupportedImage = errors.New("unsupported or corrupt image")

// Prepare выполняет полную цепочку препроцессинга и возвращает байты
// перекодированного JPEG.
func Prepare(data []byte, cfg config.ImageConfig) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	gray := Grayscale(img)

	if cfg.Binarize {
		threshold := OtsuThreshold(gray)
		gray = Binarize(gray, threshold)
		gray = Dilate(gray)
	}

	fitted := FitBox(gray, cfg.MaxWidth, cfg.MaxHeight)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, fitted, &jpeg.Options{Quality: cfg.Quality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return buf.Bytes(), nil
}

// Grayscale конвертирует изображение в 8-битный grayscale.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// OtsuThreshold находит порог бинаризации методом Отсу:
// максимизация межклассовой дисперсии по гистограмме из 256 уровней.
func OtsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	bounds := gray.Bounds()
	total := bounds.Dx() * bounds.Dy()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	// Суммарная интенсивность
	var sum float64
	for level, count := range hist {
		sum += float64(level) * float64(count)
	}

	var (
		sumBack    float64 // Суммарная интенсивность фона
		weightBack int     // Количество пикселей фона
		maxVar     float64
		best       uint8
	)

	for level := 0; level < 256; level++ {
		weightBack += hist[level]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}

		sumBack += float64(level) * float64(hist[level])

		meanBack := sumBack / float64(weightBack)
		meanFore := (sum - sumBack) / float64(weightFore)

		// Межклассовая дисперсия
		diff := meanBack - meanFore
		betweenVar := float64(weightBack) * float64(weightFore) * diff * diff

		if betweenVar > maxVar {
			maxVar = betweenVar
			best = uint8(level)
		}
	}

	return best
}

// Binarize переводит grayscale в чёрно-белое по порогу:
// пиксели темнее либо равные порогу становятся чёрными.
func Binarize(gray *image.Gray, threshold uint8) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y <= threshold {
				out.SetGray(x, y, color.Gray{Y: 0})
			} else {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// Dilate выполняет грубую дилатацию тёмных областей на один пиксель
// (4-соседство). Утолщает штрихи тонких шрифтов перед распознаванием.
func Dilate(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if isDark(gray, x, y) ||
				isDark(gray, x-1, y) || isDark(gray, x+1, y) ||
				isDark(gray, x, y-1) || isDark(gray, x, y+1) {
				out.SetGray(x, y, color.Gray{Y: 0})
			} else {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// isDark проверяет пиксель с учётом границ изображения.
func isDark(gray *image.Gray, x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(gray.Bounds()) {
		return false
	}
	return gray.GrayAt(x, y).Y < 128
}

// FitBox вписывает изображение в прямоугольник maxW×maxH, сохраняя
// пропорции. Изображение меньше рамки не увеличивается.
// Ресайз через Lanczos3 (качественный алгоритм).
func FitBox(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if maxW <= 0 || maxH <= 0 || (w <= maxW && h <= maxH) {
		return img
	}

	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	newW := uint(float64(w) * scale)
	newH := uint(float64(h) * scale)
	return resize.Resize(newW, newH, img, resize.Lanczos3)
}
