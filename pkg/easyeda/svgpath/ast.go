package svgpath

// pathData is the grammar root of a path string
type pathData struct {
	Commands []*command `parser:"@@*"`
}

// command is one command letter followed by its (possibly repeated) arguments
type command struct {
	Name string    `parser:"@Command"`
	Args []float64 `parser:"@Number*"`
}

// pointList is the grammar root of a "x1 y1 x2 y2 ..." list
type pointList struct {
	Values []float64 `parser:"@Number*"`
}
