package colortable

// builtin color tables, matching the defaults of the active selectors
var builtin = []struct {
	name     string
	discrete bool
	points   [][5]float32 // r, g, b, a, position
}{
	{
		name: "hot",
		points: [][5]float32{
			{0, 0, 255, 255, 0},
			{0, 255, 255, 255, 0.25},
			{0, 255, 0, 255, 0.5},
			{255, 255, 0, 255, 0.75},
			{255, 0, 0, 255, 1},
		},
	},
	{
		name: "gray",
		points: [][5]float32{
			{0, 0, 0, 255, 0},
			{255, 255, 255, 255, 1},
		},
	},
	{
		name:     "levels",
		discrete: true,
		points: [][5]float32{
			{255, 0, 0, 255, 0},
			{0, 255, 0, 255, 0.2},
			{0, 0, 255, 255, 0.4},
			{0, 255, 255, 255, 0.6},
			{255, 0, 255, 255, 0.8},
			{255, 255, 0, 255, 1},
		},
	},
}

// NewDefaultAttributes creates a registry that contains the builtin color tables
// "hot", "gray" and "levels" with "hot" and "levels" active
func NewDefaultAttributes() *Attributes {
	a := NewAttributes()
	for _, b := range builtin {
		table := NewControlPointList()
		for _, p := range b.points {
			table.AddControlPoint(NewControlPointRGBA(byte(p[0]), byte(p[1]), byte(p[2]), byte(p[3]), p[4]))
		}
		if b.discrete {
			table.SetDiscrete(true)
			table.SetEqualSpacing(true)
			table.SetSmoothing(SmoothingNone)
		}
		// names are unique
		_ = a.AddColorTable(b.name, table)
	}
	return a
}
