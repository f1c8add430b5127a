// Package qa implements the pre-submission QA rule engine: a fixed battery of
// independent checks against an Android project tree whose findings are
// bucketed into passed, warnings and issues and reduced to a verdict.
package qa

import "fmt"

// Category groups related findings. The set is closed; report grouping
// iterates Categories in declaration order.
type Category uint8

const (
	CategoryMetadata Category = iota + 1
	CategoryPermissions
	CategoryIcons
	CategoryStoreMaterials
	CategoryBuild
	CategorySecurity
	CategoryCompliance
	CategorySystem
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryMetadata,
	CategoryPermissions,
	CategoryIcons,
	CategoryStoreMaterials,
	CategoryBuild,
	CategorySecurity,
	CategoryCompliance,
	CategorySystem,
}

var categoryNames = map[Category]string{
	CategoryMetadata:       "metadata",
	CategoryPermissions:    "permissions",
	CategoryIcons:          "icons",
	CategoryStoreMaterials: "store_materials",
	CategoryBuild:          "build",
	CategorySecurity:       "security",
	CategoryCompliance:     "compliance",
	CategorySystem:         "system",
}

var categoryTitles = map[Category]string{
	CategoryMetadata:       "Metadata",
	CategoryPermissions:    "Permissions",
	CategoryIcons:          "Icons",
	CategoryStoreMaterials: "Store Materials",
	CategoryBuild:          "Build",
	CategorySecurity:       "Security",
	CategoryCompliance:     "Compliance",
	CategorySystem:         "System",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Title returns the heading used for the category in reports.
func (c Category) Title() string {
	if title, ok := categoryTitles[c]; ok {
		return title
	}
	return c.String()
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory maps a category name back to its value.
func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
