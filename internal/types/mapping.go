package types

// ToCityWithoutPointsOfInterest projects a city onto its scalar fields.
func ToCityWithoutPointsOfInterest(c City) CityWithoutPointsOfInterestDto {
	return CityWithoutPointsOfInterestDto{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

// ToCitiesWithoutPointsOfInterest keeps the input order.
func ToCitiesWithoutPointsOfInterest(cities []City) []CityWithoutPointsOfInterestDto {
	out := make([]CityWithoutPointsOfInterestDto, 0, len(cities))
	for _, c := range cities {
		out = append(out, ToCityWithoutPointsOfInterest(c))
	}
	return out
}

// ToCityDto projects a city loaded with its points of interest.
func ToCityDto(c City) CityDto {
	pois := ToPointOfInterestDtos(c.PointsOfInterest)
	return CityDto{
		ID:                       c.ID,
		Name:                     c.Name,
		Description:              c.Description,
		NumberOfPointsOfInterest: len(pois),
		PointsOfInterest:         pois,
	}
}

func ToPointOfInterestDto(p PointOfInterest) PointOfInterestDto {
	return PointOfInterestDto{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
	}
}

func ToPointOfInterestDtos(pois []PointOfInterest) []PointOfInterestDto {
	out := make([]PointOfInterestDto, 0, len(pois))
	for _, p := range pois {
		out = append(out, ToPointOfInterestDto(p))
	}
	return out
}

// ToPointOfInterestForUpdate builds the detached snapshot of the mutable fields.
func ToPointOfInterestForUpdate(p PointOfInterest) PointOfInterestForUpdate {
	return PointOfInterestForUpdate{
		Name:        p.Name,
		Description: p.Description,
	}
}
