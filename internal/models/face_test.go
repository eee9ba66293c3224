package models

import (
	"image"
	"testing"
)

func TestBucketForAge(t *testing.T) {
	cases := []struct {
		years int
		want  AgeBucket
	}{
		{-1, AgeBucketUnknown},
		{0, AgeBucketUnderage},
		{17, AgeBucketUnderage},
		{18, AgeBucketYoungAdult},
		{35, AgeBucketYoungAdult},
		{36, AgeBucketAdult},
		{64, AgeBucketAdult},
		{65, AgeBucketElder},
		{100, AgeBucketElder},
		{101, AgeBucketUnknown},
	}
	for _, tc := range cases {
		if got := BucketForAge(tc.years); got != tc.want {
			t.Fatalf("age %d: got %s, want %s", tc.years, got, tc.want)
		}
	}
}

func TestBoundingBox(t *testing.T) {
	b := BoundingBox{Left: 10, Top: 20, Right: 110, Bottom: 180}
	if b.Width() != 100 {
		t.Fatalf("width: %d", b.Width())
	}
	if b.Height() != 160 {
		t.Fatalf("height: %d", b.Height())
	}
	if b.Rect() != image.Rect(10, 20, 110, 180) {
		t.Fatalf("rect: %v", b.Rect())
	}
}

func TestBoundingBoxIntersects(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)

	inside := BoundingBox{Left: 10, Top: 10, Right: 50, Bottom: 50}
	if !inside.Intersects(bounds) {
		t.Fatal("inside box should intersect")
	}
	partial := BoundingBox{Left: 90, Top: 90, Right: 150, Bottom: 150}
	if !partial.Intersects(bounds) {
		t.Fatal("partially overlapping box should intersect")
	}
	outside := BoundingBox{Left: 200, Top: 200, Right: 300, Bottom: 300}
	if outside.Intersects(bounds) {
		t.Fatal("outside box should not intersect")
	}
}

func TestFaceAttributesSummary(t *testing.T) {
	f := FaceAttributes{
		Index:     2,
		Gender:    GenderWoman,
		Age:       29,
		AgeBucket: AgeBucketYoungAdult,
		Mood:      MoodPositive,
	}
	want := "face 2: woman, young_adult (29), positive"
	if got := f.Summary(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
