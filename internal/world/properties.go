package world

// File properties.go holds the fallback table for common numeric
// properties. Content authors rarely spell out size and weight on every
// entity, so reads of these names fall back here when an entity does not
// define them.

var propertyDefaults = map[string]interface{}{
	"size":     1,
	"weight":   1,
	"capacity": 10,
	"value":    0,
	"trust":    0,
}

// DefaultProperty returns the default value of the named property, or nil
// if the name has no default.
func DefaultProperty(name string) interface{} {
	return propertyDefaults[name]
}
