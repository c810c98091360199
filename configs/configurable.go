package configs

// Configurable is a setting type that knows where it lives in a configuration document.
type Configurable interface {
	ConfigExpr() string
}

// Get decodes the first value found at T's config path, or returns the zero T.
func Get[T Configurable](loader Loader) T {
	var zero T
	return First[T](loader, zero.ConfigExpr())
}
