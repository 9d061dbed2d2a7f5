package validation

// Validator defines the interface that needs to be implemented by all validation strategies.
type Validator interface {
	// ValidateStruct returns field level messages keyed by json field name, or nil when s is valid.
	ValidateStruct(s any) map[string]string
}
