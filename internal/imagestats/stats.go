// Package imagestats computes the per-image pixel statistics that drive the
// automatic rubric heuristics: channel means and deviations, brightness, an
// edge-map sharpness indicator and the image geometry.
package imagestats

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/nfnt/resize"
)

// ErrInvalidImage is returned for images that have no pixels in at least one
// dimension or that cannot be decoded.
var ErrInvalidImage = errors.New("invalid image")

// Channels holds one value per RGB channel, in R, G, B order.
type Channels [3]float64

// Mean returns the average of the three channel values.
func (c Channels) Mean() float64 {
	return (c[0] + c[1] + c[2]) / 3
}

// Spread returns the largest pairwise difference between channel values.
func (c Channels) Spread() float64 {
	lo, hi := c[0], c[0]
	for _, v := range c[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return hi - lo
}

// Statistics is a read-only snapshot of one image, computed once per scoring
// pass. Channel values are on the 8-bit scale (0-255).
type Statistics struct {
	Mean   Channels `json:"mean"`
	StdDev Channels `json:"std_dev"`

	// Brightness is the mean of the channel means.
	Brightness float64 `json:"brightness"`

	// Sharp reports whether the edge map has at least one non-zero response.
	Sharp bool `json:"sharp"`

	// EdgeDensity is the fraction of sampled pixels with an edge response.
	EdgeDensity float64 `json:"edge_density"`

	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	Resolution  int     `json:"resolution"`
}

// Contrast is the mean of the per-channel standard deviations.
func (s Statistics) Contrast() float64 {
	return s.StdDev.Mean()
}

// Options tunes how statistics are sampled.
type Options struct {
	// SampleSize bounds the largest dimension that pixel statistics are
	// computed on. Larger images are thumbnailed first. Zero disables
	// thumbnailing. Geometry always reflects the original image.
	SampleSize uint

	// EdgeThreshold is the minimum edge-kernel response counted as an edge.
	EdgeThreshold float64
}

// Check fails with ErrInvalidImage if img is nil or has a zero dimension.
func Check(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: no image", ErrInvalidImage)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidImage, max(b.Dx(), 0), max(b.Dy(), 0))
	}
	return nil
}

// Compute returns the statistics of img. It runs Check before touching any
// pixel.
func Compute(img image.Image, opts Options) (Statistics, error) {
	if err := Check(img); err != nil {
		return Statistics{}, err
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	stats := Statistics{
		Width:       width,
		Height:      height,
		AspectRatio: math.Round(float64(width)/float64(height)*100) / 100,
		Resolution:  width * height,
	}

	sample := img
	if opts.SampleSize > 0 && (uint(width) > opts.SampleSize || uint(height) > opts.SampleSize) {
		sample = resize.Thumbnail(opts.SampleSize, opts.SampleSize, img, resize.Bilinear)
	}

	luma := channelMoments(sample, &stats)
	stats.Brightness = stats.Mean.Mean()
	stats.EdgeDensity = edgeDensity(luma, sample.Bounds().Dx(), sample.Bounds().Dy(), opts.EdgeThreshold)
	stats.Sharp = stats.EdgeDensity > 0

	return stats, nil
}

// channelMoments fills in the channel means and population standard
// deviations, and returns the luminance plane for edge detection.
func channelMoments(img image.Image, stats *Statistics) []float64 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	count := float64(width * height)
	luma := make([]float64, width*height)

	var sum, sumSq Channels
	for row := 0; row < height; row++ {
		for column := 0; column < width; column++ {
			px := rgb8(img, bounds.Min.X+column, bounds.Min.Y+row)
			for index := range px {
				sum[index] += px[index]
				sumSq[index] += px[index] * px[index]
			}
			luma[row*width+column] = math.Floor(0.299*px[0] + 0.587*px[1] + 0.114*px[2])
		}
	}

	for index := range sum {
		mean := sum[index] / count
		variance := sumSq[index]/count - mean*mean
		if variance < 0 {
			// Rounding on near-uniform channels.
			variance = 0
		}
		stats.Mean[index] = mean
		stats.StdDev[index] = math.Sqrt(variance)
	}
	return luma
}

// edgeDensity applies the 3x3 edge-finding kernel (centre 8, neighbours -1)
// to the interior of the luminance plane. Negative responses are clipped, the
// way an 8-bit filter output would be.
func edgeDensity(luma []float64, width, height int, threshold float64) float64 {
	if width < 3 || height < 3 {
		return 0
	}

	edges := 0
	for row := 1; row < height-1; row++ {
		for column := 1; column < width-1; column++ {
			centre := luma[row*width+column]
			response := 8 * centre
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					response -= luma[(row+dy)*width+column+dx]
				}
			}
			if response > threshold {
				edges++
			}
		}
	}
	return float64(edges) / float64(width*height)
}

// rgb8 returns the pixel at (x, y) as 8-bit channel values.
func rgb8(img image.Image, x, y int) Channels {
	r32, g32, b32, _ := img.At(x, y).RGBA()
	return Channels{float64(r32 >> 8), float64(g32 >> 8), float64(b32 >> 8)}
}
