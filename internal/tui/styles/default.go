package styles

// NewDefaultTheme creates the dark field-green theme.
func NewDefaultTheme() *Theme {
	return &Theme{
		Name:   "default",
		IsDark: true,

		Primary:   ParseHex("#7fb069"), // Leaf green
		Secondary: ParseHex("#e6aa68"), // Wheat
		Tertiary:  ParseHex("#3b4a3f"),
		Accent:    ParseHex("#c9e4ca"), // Young shoot

		BgBase:    ParseHex("#1b1f1c"),
		BgSubtle:  ParseHex("#232924"),
		BgOverlay: ParseHex("#2c342d"),

		FgBase:   ParseHex("#d8dfd5"),
		FgMuted:  ParseHex("#8a968b"),
		FgSubtle: ParseHex("#5e6a60"),

		Border:      ParseHex("#3b4a3f"),
		BorderFocus: ParseHex("#7fb069"),

		Success: ParseHex("#8cc084"),
		Error:   ParseHex("#e07a5f"), // Clay
		Warning: ParseHex("#f2cc8f"),
		Info:    ParseHex("#81b29a"),
	}
}

// NewLightTheme is for light terminal backgrounds.
func NewLightTheme() *Theme {
	return &Theme{
		Name: "light",

		Primary:   ParseHex("#3d7a2a"),
		Secondary: ParseHex("#a86b1d"),
		Tertiary:  ParseHex("#d9e3d2"),
		Accent:    ParseHex("#2a5c1f"),

		BgBase:    ParseHex("#fbfaf5"),
		BgSubtle:  ParseHex("#f0efe6"),
		BgOverlay: ParseHex("#e6e4d8"),

		FgBase:   ParseHex("#2b2f2a"),
		FgMuted:  ParseHex("#5f665d"),
		FgSubtle: ParseHex("#8d948b"),

		Border:      ParseHex("#c9d1c3"),
		BorderFocus: ParseHex("#3d7a2a"),

		Success: ParseHex("#3d7a2a"),
		Error:   ParseHex("#b23a2a"),
		Warning: ParseHex("#a86b1d"),
		Info:    ParseHex("#2d6a7a"),
	}
}
