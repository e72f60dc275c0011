package domain

// LinkVehicleResult is the closed outcome set of linking a vehicle to a part.
type LinkVehicleResult int

const (
	LinkSuccess LinkVehicleResult = iota
	LinkAutoPartNotFound
	LinkBrandNotFound
	LinkInvalidYearRange
	LinkAlreadyLinked
)

func (r LinkVehicleResult) String() string {
	switch r {
	case LinkSuccess:
		return "Success"
	case LinkAutoPartNotFound:
		return "AutoPartNotFound"
	case LinkBrandNotFound:
		return "BrandNotFound"
	case LinkInvalidYearRange:
		return "InvalidYearRange"
	case LinkAlreadyLinked:
		return "AlreadyLinked"
	}
	return "Unknown"
}

// UpdateUserResult is the closed outcome set of a user update.
type UpdateUserResult int

const (
	UpdateUserSuccess UpdateUserResult = iota
	UpdateUserNotFound
	UpdateUserEmailExists
)
