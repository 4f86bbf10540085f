package profile

// builtins are the sites shipped with the tool. Hosts use the reserved
// .example TLD; real deployments override them with a profiles file.
var builtins = []Profile{
	{
		ID:               "clinic",
		Name:             "Clinic main site",
		Host:             "www.clinic.example",
		Aliases:          []string{"blog.clinic.example"},
		TrailingBlockRef: 1201,
		HeadingClass:     "article-heading",
		ListClass:        "article-list",
		CTAURL:           "https://www.clinic.example/appointment",
		ButtonColor:      "primary",
	},
	{
		ID:               "skin",
		Name:             "Skin care centre",
		Host:             "skin.clinic.example",
		TrailingBlockRef: 1202,
		HeadingClass:     "skin-heading",
		ListClass:        "skin-list",
		CTAURL:           "https://skin.clinic.example/contact",
		ButtonColor:      "rose",
	},
	{
		ID:               "dental",
		Name:             "Dental centre",
		Host:             "dental.example",
		TrailingBlockRef: 1203,
		CTAURL:           "https://dental.example/booking",
		ButtonColor:      "teal",
	},
	{
		ID:               "wellness",
		Name:             "Wellness magazine",
		Host:             "wellness.example",
		Aliases:          []string{"shop.wellness.example"},
		TrailingBlockRef: 1204,
		HeadingClass:     "wellness-heading",
		CTAURL:           "https://wellness.example/contact-us",
	},
}

// Builtin returns a fresh table holding the built-in profiles.
func Builtin() *Table {
	return NewTable(builtins...)
}
