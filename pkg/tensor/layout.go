package tensor

import (
	"errors"
	"fmt"
)

// ErrLength indicates that a flat slice cannot be laid out with the
// requested grid and channel counts.
var ErrLength = errors.New("tensor: data length does not match layout")

// PackChannelMajor flattens a row-major array of shape (grid..., channels)
// into wire order: the kept channels vary fastest, then the grid axes with
// the first axis varying fastest. keep lists the channel indices to emit,
// in output order; nil keeps every channel.
//
// data comes from the caller, so layout misuse panics here; the inverse
// transform consumes wire data and reports errors instead.
func PackChannelMajor[T Elem](data []T, grid []int, channels int, keep []int) []T {
	gridLen, total, ok := layoutSize(grid, channels)
	if !ok {
		panic("invalid layout")
	}
	if len(data) != total {
		panic("data length mismatch")
	}
	if keep == nil {
		keep = make([]int, channels)
		for c := range keep {
			keep[c] = c
		}
	}
	for _, c := range keep {
		if c < 0 || c >= channels {
			panic("channel index out of range")
		}
	}

	out := make([]T, gridLen*len(keep))
	stride := gridStrides(grid, channels)
	idx := make([]int, len(grid))
	base, pos := 0, 0
	for g := 0; g < gridLen; g++ {
		for _, c := range keep {
			out[pos] = data[base+c]
			pos++
		}
		base = advance(idx, grid, stride, base)
	}
	return out
}

// UnpackChannelMajor is the inverse of PackChannelMajor with all channels
// kept: it reorders a wire stream into a row-major slice of shape
// (grid..., channels).
func UnpackChannelMajor[T Elem](wire []T, grid []int, channels int) ([]T, error) {
	gridLen, total, ok := layoutSize(grid, channels)
	if !ok {
		return nil, fmt.Errorf("%w: grid %v with %d channels", ErrLength, grid, channels)
	}
	if len(wire) != total {
		return nil, fmt.Errorf("%w: have %d elements, layout needs %d", ErrLength, len(wire), total)
	}

	out := make([]T, total)
	stride := gridStrides(grid, channels)
	idx := make([]int, len(grid))
	base, pos := 0, 0
	for g := 0; g < gridLen; g++ {
		for c := 0; c < channels; c++ {
			out[base+c] = wire[pos]
			pos++
		}
		base = advance(idx, grid, stride, base)
	}
	return out, nil
}

// gridStrides returns the row-major element stride of each grid axis in an
// array of shape (grid..., channels).
func gridStrides(grid []int, channels int) []int {
	stride := make([]int, len(grid))
	acc := channels
	for k := len(grid) - 1; k >= 0; k-- {
		stride[k] = acc
		acc *= grid[k]
	}
	return stride
}

// advance steps idx to the next grid point with the first axis varying
// fastest and returns the row-major offset of that point.
func advance(idx []int, grid, stride []int, base int) int {
	for k := range idx {
		idx[k]++
		if idx[k] < grid[k] {
			return base + stride[k]
		}
		base -= (grid[k] - 1) * stride[k]
		idx[k] = 0
	}
	return base
}

func layoutSize(grid []int, channels int) (gridLen, total int, ok bool) {
	if channels < 0 {
		return 0, 0, false
	}
	gridLen, valid := sizeOf(grid)
	if !valid {
		return 0, 0, false
	}
	if gridLen != 0 && channels != 0 && gridLen*channels/channels != gridLen {
		return 0, 0, false
	}
	return gridLen, gridLen * channels, true
}
