package types

// City is the stored city record. PointsOfInterest is nil when the city was
// loaded without its points of interest, which is not the same as a city
// that has none.
type City struct {
	ID               int
	Name             string
	Description      string
	PointsOfInterest []PointOfInterest
}

// PointsLoaded reports whether the nested points of interest were loaded.
func (c *City) PointsLoaded() bool {
	return c.PointsOfInterest != nil
}

// CityDto is the full city shape returned when points of interest are requested.
type CityDto struct {
	ID                       int                  `json:"id"`
	Name                     string               `json:"name"`
	Description              string               `json:"description"`
	NumberOfPointsOfInterest int                  `json:"numberOfPointsOfInterest"`
	PointsOfInterest         []PointOfInterestDto `json:"pointsOfInterest"`
}

// CityWithoutPointsOfInterestDto is the scalar-only city shape.
type CityWithoutPointsOfInterestDto struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
