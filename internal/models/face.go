package models

import (
	"fmt"
	"image"
)

// BoundingBox is a face rectangle in image pixel coordinates, as supplied
// by the external face detector. Left < Right and Top < Bottom must hold
// after clamping to image extents.
type BoundingBox struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Rect converts the box to an image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right, b.Bottom)
}

// Width returns the box width in pixels.
func (b BoundingBox) Width() int {
	return b.Right - b.Left
}

// Height returns the box height in pixels.
func (b BoundingBox) Height() int {
	return b.Bottom - b.Top
}

// Intersects reports whether the box overlaps the given image bounds at all.
func (b BoundingBox) Intersects(bounds image.Rectangle) bool {
	return b.Rect().Overlaps(bounds)
}

// Gender is a binary gender label from the gender classifier.
type Gender string

const (
	GenderMan   Gender = "man"
	GenderWoman Gender = "woman"
)

// AgeBucket is a coarse age category derived from the numeric age prediction.
type AgeBucket string

const (
	AgeBucketUnderage   AgeBucket = "underage"
	AgeBucketYoungAdult AgeBucket = "young_adult"
	AgeBucketAdult      AgeBucket = "adult"
	AgeBucketElder      AgeBucket = "elder"
	// AgeBucketUnknown marks an age outside 0..100, which indicates an
	// internal inconsistency rather than a valid prediction.
	AgeBucketUnknown AgeBucket = "unknown"
)

// BucketForAge maps a numeric age in years to its bucket.
func BucketForAge(years int) AgeBucket {
	switch {
	case years < 0 || years > 100:
		return AgeBucketUnknown
	case years <= 17:
		return AgeBucketUnderage
	case years <= 35:
		return AgeBucketYoungAdult
	case years <= 64:
		return AgeBucketAdult
	default:
		return AgeBucketElder
	}
}

// Mood is the 3-class collapse of the 7-class emotion prediction.
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNeutral  Mood = "neutral"
	MoodNegative Mood = "negative"
)

// FaceAttributes holds all predicted attributes for one detected face.
// Index is 1-based in detector order.
type FaceAttributes struct {
	Index     int         `json:"index"`
	Box       BoundingBox `json:"box"`
	Gender    Gender      `json:"gender"`
	Age       int         `json:"age"`
	AgeBucket AgeBucket   `json:"age_bucket"`
	Emotion   string      `json:"emotion"`
	Mood      Mood        `json:"mood"`
}

// Summary renders one human-readable line per face. All discrete values
// remain recoverable from the struct itself; this is presentation only.
func (f FaceAttributes) Summary() string {
	return fmt.Sprintf("face %d: %s, %s (%d), %s", f.Index, f.Gender, f.AgeBucket, f.Age, f.Mood)
}
