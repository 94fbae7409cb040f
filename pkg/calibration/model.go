// Package calibration turns an observed face height in pixels into a distance
// in meters.
//
// The camera is calibrated once per lock from the user's height: a face first
// seen at arm's length (a selfie pose) fixes the focal constant, after which
// distance is inversely proportional to the observed face height.
package calibration

import (
	"math"
)

// MaxDistance is the farthest distance reported, in meters.
const MaxDistance = 6.5

// Arm length is estimated as height / armRatio.
const armRatio = 2.3

// Model is the result of one calibration. The zero Model is uncalibrated.
type Model struct {
	Gender       Gender  `json:"gender"`
	UserHeightCm float64 `json:"user_height_cm"`
	ObservedPx   float64 `json:"observed_px"` // Face height at calibration time

	HeadCircumferenceCm  float64 `json:"head_circumference_cm"`
	HeadWidthCm          float64 `json:"head_width_cm"`          // Minor axis of the head ellipse
	FaceHeightM          float64 `json:"face_height_m"`          // Estimated physical face height
	ArmLengthM           float64 `json:"arm_length_m"`
	CalibrationDistanceM float64 `json:"calibration_distance_m"` // Assumed camera distance when calibrating

	FocalLength float64 `json:"focal_length"`
}

// Calibrate derives the focal constant from a face observed observedPx pixels
// tall, assuming the user holds the camera at arm's length.
func Calibrate(userHeightCm float64, gender Gender, observedPx float64) (Model, error) {
	p, err := ParamsFor(gender)
	if err != nil {
		return Model{}, err
	}
	if observedPx <= 0 {
		return Model{}, ErrInvalidFaceHeight
	}

	circumference := (userHeightCm - p.CircumferenceIntercept) / p.CircumferenceSlope
	arm := userHeightCm / 100 / armRatio
	dist := arm - p.ShoulderOffsetM
	if userHeightCm <= 0 || circumference <= 0 || dist <= 0 {
		return Model{}, ErrInvalidHeight
	}

	r := 0.5 * circumference / math.Pi
	minor := math.Sqrt(r*r*2/(p.EllipticalAxisRatio*p.EllipticalAxisRatio+1)) * 2
	face := p.HeightWidthRatio * minor / 100

	return Model{
		Gender:               gender,
		UserHeightCm:         userHeightCm,
		ObservedPx:           observedPx,
		HeadCircumferenceCm:  circumference,
		HeadWidthCm:          minor,
		FaceHeightM:          face,
		ArmLengthM:           arm,
		CalibrationDistanceM: dist,
		FocalLength:          observedPx * dist / face,
	}, nil
}

// Calibrated reports whether the model holds a focal constant.
func (m Model) Calibrated() bool {
	return m.FocalLength > 0 && m.FaceHeightM > 0
}

// Raw returns the untuned, unclamped distance for a face px pixels tall.
func (m Model) Raw(px float64) float64 {
	if px <= 0 || !m.Calibrated() {
		return 0
	}
	return m.FaceHeightM * m.FocalLength / px
}

// Distance returns the tuned distance in meters, clamped to [0, MaxDistance].
func (m Model) Distance(px float64, bias Bias) float64 {
	d := m.Raw(px) * bias.Multiplier()
	return math.Max(0, math.Min(d, MaxDistance))
}
