package geofence

import (
	"errors"
	"math"

	"github.com/clockport/attendance-backend-go/internal/domain/attendance"
	"github.com/clockport/attendance-backend-go/internal/domain/office"
	"github.com/clockport/attendance-backend-go/internal/pkg/geo"
)

var ErrInvalidLocation = errors.New("location reading is not a valid coordinate")

const (
	ClassificationOfficeMatch  = "office_match"
	ClassificationOutside      = "outside"
	ClassificationUnverifiable = "unverifiable"
)

// Config holds the scoring knobs. Zero values are not usable; start from
// DefaultConfig and override fields as needed.
type Config struct {
	// MinOfficeConfidence is the floor an office_match must reach before
	// callers may treat the reading as verified.
	MinOfficeConfidence float64

	// DistancePenalty scales how fast confidence decays from the office
	// center toward the radius edge.
	DistancePenalty float64

	// AccuracyPenaltyWeight scales the penalty for imprecise readings
	// relative to the office radius.
	AccuracyPenaltyWeight float64

	// AccuracyCapFactor and AccuracyCapConfidence cap the score when the
	// reported accuracy circle dwarfs the office radius.
	AccuracyCapFactor     float64
	AccuracyCapConfidence float64

	// Confidence bands for readings outside every office radius.
	OutsideNearAccuracy   float64
	OutsideNearConfidence float64
	OutsideFarAccuracy    float64
	OutsideMidConfidence  float64
	OutsideFarConfidence  float64

	// DesktopAccuracyFactor discounts accuracy reported by desktop
	// browsers, which is typically IP-derived and pessimistic.
	DesktopAccuracyFactor float64

	// UnverifiableAccuracy is the accuracy above which a reading carries
	// no location signal at all.
	UnverifiableAccuracy float64
}

func DefaultConfig() Config {
	return Config{
		MinOfficeConfidence:   30,
		DistancePenalty:       40,
		AccuracyPenaltyWeight: 10,
		AccuracyCapFactor:     3,
		AccuracyCapConfidence: 50,
		OutsideNearAccuracy:   50,
		OutsideNearConfidence: 70,
		OutsideFarAccuracy:    200,
		OutsideMidConfidence:  40,
		OutsideFarConfidence:  10,
		DesktopAccuracyFactor: 0.5,
		UnverifiableAccuracy:  10000,
	}
}

// Classifier scores a device location reading against the known office
// geofences.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// MinOfficeConfidence exposes the verification floor so callers can gate
// office check-ins on the same threshold the scorer uses.
func (c *Classifier) MinOfficeConfidence() float64 {
	return c.cfg.MinOfficeConfidence
}

// Classify scores one reading. The verdict is office_match when the point
// falls inside some office radius, outside when it falls inside none, and
// unverifiable when the accuracy is too poor to mean anything. Distance
// reported for outside readings is to the nearest office, zero when no
// offices are configured.
func (c *Classifier) Classify(point attendance.LocationPoint, deviceClass string, offices []office.OfficeLocation) (attendance.LocationValidation, error) {
	if math.IsNaN(point.Latitude) || math.IsNaN(point.Longitude) ||
		point.Latitude < -90 || point.Latitude > 90 ||
		point.Longitude < -180 || point.Longitude > 180 {
		return attendance.LocationValidation{}, ErrInvalidLocation
	}

	accuracy := point.AccuracyMeters
	if deviceClass == attendance.DeviceDesktop {
		accuracy *= c.cfg.DesktopAccuracyFactor
	}

	if accuracy > c.cfg.UnverifiableAccuracy {
		return attendance.LocationValidation{
			Classification:  ClassificationUnverifiable,
			ConfidenceScore: 0,
		}, nil
	}

	var (
		bestInside  *office.OfficeLocation
		bestInsideD float64
		nearestD    = math.MaxFloat64
		haveOffices = len(offices) > 0
	)
	for i := range offices {
		o := &offices[i]
		d := geo.Distance(point.Latitude, point.Longitude, o.Latitude, o.Longitude)
		if d < nearestD {
			nearestD = d
		}
		if d <= o.RadiusMeters && (bestInside == nil || d < bestInsideD) {
			bestInside = o
			bestInsideD = d
		}
	}

	if bestInside != nil {
		radius := bestInside.RadiusMeters
		conf := 100 -
			(bestInsideD/radius)*c.cfg.DistancePenalty -
			(accuracy/radius)*c.cfg.AccuracyPenaltyWeight
		if accuracy > c.cfg.AccuracyCapFactor*radius {
			conf = math.Min(conf, c.cfg.AccuracyCapConfidence)
		}
		id := bestInside.ID
		return attendance.LocationValidation{
			Classification:  ClassificationOfficeMatch,
			ConfidenceScore: clamp(conf, 0, 100),
			DistanceMeters:  bestInsideD,
			MatchedOfficeID: &id,
		}, nil
	}

	var dist float64
	if haveOffices {
		dist = nearestD
	}
	conf := c.cfg.OutsideFarConfidence
	switch {
	case accuracy <= c.cfg.OutsideNearAccuracy:
		conf = c.cfg.OutsideNearConfidence
	case accuracy <= c.cfg.OutsideFarAccuracy:
		conf = c.cfg.OutsideMidConfidence
	}
	return attendance.LocationValidation{
		Classification:  ClassificationOutside,
		ConfidenceScore: conf,
		DistanceMeters:  dist,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
