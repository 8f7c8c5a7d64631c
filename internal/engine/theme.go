package engine

type Theme string

const (
	ThemeBlue   Theme = "blue"
	ThemePurple Theme = "purple"
	ThemeCyan   Theme = "cyan"
)

var themeCycle = []Theme{ThemeBlue, ThemePurple, ThemeCyan}

// ParseTheme maps a stored name to a theme, falling back to blue.
func ParseTheme(name string) Theme {
	for _, t := range themeCycle {
		if string(t) == name {
			return t
		}
	}
	return ThemeBlue
}

// Next returns the following theme in the blue, purple, cyan cycle. Unknown
// themes restart at blue.
func (t Theme) Next() Theme {
	for i, candidate := range themeCycle {
		if candidate == t {
			return themeCycle[(i+1)%len(themeCycle)]
		}
	}
	return ThemeBlue
}
