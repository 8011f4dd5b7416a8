package enums

import "fmt"

// CategoryID identifies a navigation category (the catalog tabs and home shortcuts).
type CategoryID string

const (
	CategoryIDAll          CategoryID = "all"
	CategoryIDGaming       CategoryID = "gaming"
	CategoryIDLaptop       CategoryID = "laptop"
	CategoryIDComponents   CategoryID = "components"
	CategoryIDPeripherals  CategoryID = "peripherals"
	CategoryIDServices     CategoryID = "services"
	CategoryIDConfigurator CategoryID = "configurateur"
)

var validCategoryIDs = []CategoryID{
	CategoryIDAll,
	CategoryIDGaming,
	CategoryIDLaptop,
	CategoryIDComponents,
	CategoryIDPeripherals,
	CategoryIDServices,
	CategoryIDConfigurator,
}

// String implements fmt.Stringer.
func (c CategoryID) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CategoryID.
func (c CategoryID) IsValid() bool {
	for _, candidate := range validCategoryIDs {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategoryID converts raw input into a CategoryID.
func ParseCategoryID(value string) (CategoryID, error) {
	for _, candidate := range validCategoryIDs {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category id %q", value)
}
