package geofence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockport/attendance-backend-go/internal/domain/attendance"
	"github.com/clockport/attendance-backend-go/internal/domain/office"
)

var testOffices = []office.OfficeLocation{
	{ID: "hq", Name: "Headquarters", Latitude: -6.2000, Longitude: 106.8000, RadiusMeters: 100},
	{ID: "branch", Name: "Branch", Latitude: -6.3000, Longitude: 106.9000, RadiusMeters: 150},
}

func TestClassifyInsideOffice(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	point := attendance.LocationPoint{Latitude: -6.2001, Longitude: 106.8001, AccuracyMeters: 15}
	got, err := c.Classify(point, attendance.DeviceMobile, testOffices)
	require.NoError(t, err)

	assert.Equal(t, ClassificationOfficeMatch, got.Classification)
	require.NotNil(t, got.MatchedOfficeID)
	assert.Equal(t, "hq", *got.MatchedOfficeID)
	assert.Greater(t, got.ConfidenceScore, 70.0)
	assert.Less(t, got.DistanceMeters, 100.0)
}

func TestClassifyPoorAccuracyCapped(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	// Dead center but the accuracy circle is four times the radius.
	point := attendance.LocationPoint{Latitude: -6.2000, Longitude: 106.8000, AccuracyMeters: 400}
	got, err := c.Classify(point, attendance.DeviceMobile, testOffices)
	require.NoError(t, err)

	assert.Equal(t, ClassificationOfficeMatch, got.Classification)
	assert.LessOrEqual(t, got.ConfidenceScore, 50.0)
}

func TestClassifyDesktopAccuracyDiscount(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	// 400m raw accuracy is halved for desktop, so the cap does not apply
	// and only the accuracy penalty does.
	point := attendance.LocationPoint{Latitude: -6.2000, Longitude: 106.8000, AccuracyMeters: 400}
	got, err := c.Classify(point, attendance.DeviceDesktop, testOffices)
	require.NoError(t, err)

	assert.Equal(t, ClassificationOfficeMatch, got.Classification)
	assert.InDelta(t, 80.0, got.ConfidenceScore, 0.01)
}

func TestClassifyOutsideBands(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	// Roughly 15km from both offices.
	far := attendance.LocationPoint{Latitude: -6.1000, Longitude: 106.7000}

	tests := []struct {
		name     string
		accuracy float64
		want     float64
	}{
		{"precise reading", 20, 70},
		{"mid accuracy", 120, 40},
		{"coarse reading", 900, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := far
			p.AccuracyMeters = tt.accuracy
			got, err := c.Classify(p, attendance.DeviceMobile, testOffices)
			require.NoError(t, err)
			assert.Equal(t, ClassificationOutside, got.Classification)
			assert.Equal(t, tt.want, got.ConfidenceScore)
			assert.Greater(t, got.DistanceMeters, 1000.0)
		})
	}
}

func TestClassifyUnverifiable(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	point := attendance.LocationPoint{Latitude: -6.2000, Longitude: 106.8000, AccuracyMeters: 20000}
	got, err := c.Classify(point, attendance.DeviceMobile, testOffices)
	require.NoError(t, err)

	assert.Equal(t, ClassificationUnverifiable, got.Classification)
	assert.Zero(t, got.ConfidenceScore)
}

func TestClassifyInvalidCoordinate(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	_, err := c.Classify(attendance.LocationPoint{Latitude: 95, Longitude: 10}, attendance.DeviceMobile, testOffices)
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestClassifyNoOffices(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	point := attendance.LocationPoint{Latitude: -6.2000, Longitude: 106.8000, AccuracyMeters: 10}
	got, err := c.Classify(point, attendance.DeviceMobile, nil)
	require.NoError(t, err)

	assert.Equal(t, ClassificationOutside, got.Classification)
	assert.Zero(t, got.DistanceMeters)
}
