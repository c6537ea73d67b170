package data

// Types names the numeric domain of a value column.
type Types string

// Value domains produced by evaluation.
const (
	REAL    Types = "real"
	COMPLEX Types = "complex"
)
