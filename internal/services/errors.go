package services

import "errors"

var (
	ErrEmptyDataset       = errors.New("dataset has no countries or years")
	ErrDuplicateCountry   = errors.New("country listed more than once")
	ErrInvalidCoordinates = errors.New("coordinates must be [longitude, latitude]")
	ErrInvalidYear        = errors.New("occurrence key is not a year")
	ErrInvalidCount       = errors.New("incident count must be a non-negative integer")
	ErrConflictingKeys    = errors.New("both occurrences and occurences are set")
	ErrYearMismatch       = errors.New("countries report different years")
	ErrNoIncidents        = errors.New("dataset has no positive incident count")
)
