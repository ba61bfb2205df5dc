package differ

// Option is a functional option for configuring a Differ.
type Option func(*differ)

// WithIgnoreTrailingColumns compares only the first columnCount fields of
// each row. Stores that carry an extra "last updated" column need this so
// that the column alone never makes a row look changed.
func WithIgnoreTrailingColumns(enabled bool) Option {
	return func(d *differ) {
		d.ignoreTrailing = enabled
	}
}
