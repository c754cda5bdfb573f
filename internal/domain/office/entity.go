package office

// OfficeLocation is a registered circular office perimeter.
type OfficeLocation struct {
	ID           string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}
