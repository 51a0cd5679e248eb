package types

// PointOfInterest is a stored point of interest. ID is unique within the
// owning city only.
type PointOfInterest struct {
	ID          int
	CityID      int
	Name        string
	Description string
}

type PointOfInterestDto struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PointOfInterestForCreation is the POST body.
type PointOfInterestForCreation struct {
	Name        string `json:"name" validate:"required,max=50" example:"Statue of Liberty"`
	Description string `json:"description" validate:"max=200,nefield=Name" example:"Copper lady on Liberty Island"`
}

// PointOfInterestForUpdate is the PUT body and also the detached snapshot a
// patch document is applied to.
type PointOfInterestForUpdate struct {
	Name        string `json:"name" validate:"required,max=50" example:"Central Park"`
	Description string `json:"description" validate:"max=200,nefield=Name" example:"Big park in the centre"`
}
