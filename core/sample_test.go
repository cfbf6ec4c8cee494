package core_test

import (
	"testing"

	"github.com/Skryldev/image-loader/core"
)

func TestCalculateSampleSize(t *testing.T) {
	tests := []struct {
		name      string
		intrinsic core.Dimensions
		target    core.Dimensions
		want      int
	}{
		{
			name:      "large landscape halves once",
			intrinsic: core.Dimensions{Width: 4000, Height: 3000},
			target:    core.Dimensions{Width: 1000, Height: 1000},
			want:      2,
		},
		{
			name:      "source smaller than target",
			intrinsic: core.Dimensions{Width: 100, Height: 100},
			target:    core.Dimensions{Width: 500, Height: 500},
			want:      1,
		},
		{
			name:      "source equals target",
			intrinsic: core.Dimensions{Width: 500, Height: 500},
			target:    core.Dimensions{Width: 500, Height: 500},
			want:      1,
		},
		{
			name:      "much larger source doubles repeatedly",
			intrinsic: core.Dimensions{Width: 8000, Height: 8000},
			target:    core.Dimensions{Width: 500, Height: 500},
			want:      16,
		},
		{
			name:      "one axis larger only",
			intrinsic: core.Dimensions{Width: 2000, Height: 100},
			target:    core.Dimensions{Width: 1000, Height: 1000},
			want:      1,
		},
		{
			name:      "zero target width means no downsampling",
			intrinsic: core.Dimensions{Width: 4000, Height: 3000},
			target:    core.Dimensions{Width: 0, Height: 1000},
			want:      1,
		},
		{
			name:      "zero target means no downsampling",
			intrinsic: core.Dimensions{Width: 4000, Height: 3000},
			target:    core.Dimensions{},
			want:      1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := core.CalculateSampleSize(tc.intrinsic, tc.target)
			if got != tc.want {
				t.Errorf("CalculateSampleSize(%+v, %+v) = %d; want %d",
					tc.intrinsic, tc.target, got, tc.want)
			}
		})
	}
}

func TestCalculateSampleSize_Pure(t *testing.T) {
	intrinsic := core.Dimensions{Width: 4000, Height: 3000}
	target := core.Dimensions{Width: 1000, Height: 1000}

	first := core.CalculateSampleSize(intrinsic, target)
	for i := 0; i < 100; i++ {
		if got := core.CalculateSampleSize(intrinsic, target); got != first {
			t.Fatalf("call %d: got %d; want %d (not idempotent)", i, got, first)
		}
	}
}

func TestCalculateSampleSize_AlwaysAtLeastOne(t *testing.T) {
	sizes := []core.Dimensions{
		{}, {Width: 1, Height: 1}, {Width: 10000, Height: 1}, {Width: 1, Height: 10000},
		{Width: 640, Height: 480}, {Width: 8192, Height: 8192},
	}
	for _, intrinsic := range sizes {
		for _, target := range sizes {
			if got := core.CalculateSampleSize(intrinsic, target); got < 1 {
				t.Errorf("CalculateSampleSize(%+v, %+v) = %d; want >= 1", intrinsic, target, got)
			}
		}
	}
}
