package color

// Blue is the default marker palette, light to dark.
var Blue = []string{
	"#B3D9FF", "#99CCFF", "#80BFFF", "#66B3FF", "#4DA6FF", "#3399FF", "#1A8CFF",
	"#0080FF", "#0073E6", "#0066CC", "#0059B3", "#004D99", "#004080", "#003366",
}

// Green runs from yellow-green to a deep green.
var Green = []string{
	"#F4F269", "#E7ED6A", "#DBE76A", "#CEE26B", "#C1DD6B", "#B5D76C", "#A8D26D",
	"#9BCD6D", "#8FC76E", "#82C26E", "#75BD6F", "#69B76F", "#5CB270", "#4DA562",
}

// Palette looks up a built-in palette by name.
func Palette(name string) ([]string, bool) {
	switch name {
	case "", "blue":
		return append([]string(nil), Blue...), true
	case "green":
		return append([]string(nil), Green...), true
	}
	return nil, false
}
