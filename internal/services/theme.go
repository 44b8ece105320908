package services

import (
	"fmt"

	"alfredoptarigan/cv-architect/internal/models"
)

const DefaultTheme = "Indigo"

// SkillPillClass marks skill badges that can be deleted in edit mode.
const SkillPillClass = "skill-pill-deletable"

// ColorTheme describes one selectable palette. Main is the swatch fill class;
// Gradient is set only for gradient themes. Color is the Tailwind color family
// used when building per-element classes.
type ColorTheme struct {
	Name     string
	Main     string
	Gradient string
	Color    string
}

func (t ColorTheme) IsGradient() bool {
	return t.Gradient != ""
}

var themeOrder = []string{"Indigo", "Teal", "Crimson", "Slate", "Ocean", "Sunset", "Forest"}

var colorThemes = map[string]ColorTheme{
	"Indigo":  {Name: "Indigo", Main: "bg-indigo-500", Color: "indigo"},
	"Teal":    {Name: "Teal", Main: "bg-teal-500", Color: "teal"},
	"Crimson": {Name: "Crimson", Main: "bg-rose-600", Color: "rose"},
	"Slate":   {Name: "Slate", Main: "bg-slate-600", Color: "slate"},
	"Ocean":   {Name: "Ocean", Main: "bg-gradient-to-tr from-cyan-500 to-blue-500", Gradient: "from-cyan-500 to-blue-500", Color: "cyan"},
	"Sunset":  {Name: "Sunset", Main: "bg-gradient-to-tr from-amber-500 to-orange-600", Gradient: "from-amber-500 to-orange-600", Color: "amber"},
	"Forest":  {Name: "Forest", Main: "bg-gradient-to-tr from-green-500 to-emerald-600", Gradient: "from-green-500 to-emerald-600", Color: "green"},
}

// ResolveTheme looks up a theme by name, falling back to DefaultTheme so that
// generation is always possible.
func ResolveTheme(name string) ColorTheme {
	if theme, ok := colorThemes[name]; ok {
		return theme
	}
	return colorThemes[DefaultTheme]
}

// Themes returns the catalog in display order.
func Themes() []ColorTheme {
	out := make([]ColorTheme, 0, len(themeOrder))
	for _, name := range themeOrder {
		out = append(out, colorThemes[name])
	}
	return out
}

// themeClasses are the per-element classes derived from a theme.
type themeClasses struct {
	headline      string
	title         string
	border        string
	subtleBorder  string
	pillBg        string
	pillText      string
	sidebarBg     string
	accentHeading string
}

func classesFor(theme ColorTheme) themeClasses {
	c := theme.Color
	tc := themeClasses{
		headline:      fmt.Sprintf("text-%s-600", c),
		title:         fmt.Sprintf("text-%s-700", c),
		border:        fmt.Sprintf("border-%s-500", c),
		subtleBorder:  fmt.Sprintf("border-%s-200", c),
		pillBg:        fmt.Sprintf("bg-%s-100", c),
		pillText:      fmt.Sprintf("text-%s-800", c),
		sidebarBg:     "bg-slate-50",
		accentHeading: fmt.Sprintf("text-%s-600", c),
	}
	if theme.IsGradient() {
		tc.headline = "text-transparent bg-clip-text bg-gradient-to-r " + theme.Gradient
		tc.accentHeading = tc.headline
		tc.title = "text-cyan-700"
	}
	return tc
}

// DesignInstructions returns the styling directives for a style and theme.
// Unknown themes resolve to DefaultTheme.
func DesignInstructions(style models.CvStyle, themeName string) string {
	theme := ResolveTheme(themeName)
	tc := classesFor(theme)

	switch style {
	case models.StyleClassic:
		return fmt.Sprintf(`
DESIGN RULES (Classic, formal single column):
- Layout: one column with generous margins and whitespace. The root element MUST be <div class="max-w-4xl mx-auto bg-white p-12 md:p-16 font-serif text-slate-800">.
- Typography: serif throughout (font-serif).
  - Name: <h1 class="text-4xl text-center font-bold text-slate-800 tracking-wider">.
  - Contact line centered under the name, items separated by <span class="text-slate-400 mx-2">|</span>.
  - Section headings: <h2 class="text-xl font-semibold text-slate-700 tracking-widest uppercase mt-10 mb-4 pb-2 border-b %[2]s">.
- Color: almost entirely slate on white. The '%[1]s' theme appears only as the thin rule under section headings (%[2]s). No bright or loud color.
- Structure: centered header, then Summary, Experience, Education, Skills.
- Skills: a plain categorized text list, for example <p><strong class="font-semibold">Languages:</strong> Spanish, English</p>. No pills, badges or bars.
- Image: use the supplied image URL in an <img> tag. Without one, draw an elegant serif monogram SVG of the person's initials.
`, theme.Name, tc.subtleBorder)

	case models.StyleCreative:
		return fmt.Sprintf(`
DESIGN RULES (Creative, agency clean):
- Goal: memorable and stylish but professional; agency clean, never chaotic.
- Layout: a controlled asymmetric layout with a narrow info column and a wide content column. The root element MUST be <div class="max-w-5xl mx-auto bg-white shadow-xl font-sans flex flex-col md:flex-row text-slate-800">.
- Typography: modern sans-serif (font-sans) with hierarchy built from weight and size.
- Color: use the '%[1]s' theme deliberately. Apply %[2]s to major headings and key text. The page background MUST stay white with no large solid color blocks.
- Sidebar (w-1/3): circular profile image, contact details with icons, a short profile paragraph, skills.
- Main column (w-2/3): Experience, Education, Projects with accent-colored headings.
- Skill pills: every skill is a badge carrying the '%[5]s' class, exactly <span class="%[5]s inline-block %[3]s %[4]s rounded px-3 py-1 text-sm font-medium mr-2 mb-2">JavaScript</span>.
- Image: use the supplied image URL in an <img> tag, circular and integrated into the sidebar.
`, theme.Name, tc.accentHeading, tc.pillBg, tc.pillText, SkillPillClass)

	default:
		return fmt.Sprintf(`
DESIGN RULES (Modern, sidebar and main column):
- Layout: two columns, a w-1/3 sidebar and a w-2/3 main column. The root element MUST be <div class="max-w-5xl mx-auto bg-white shadow-xl font-sans flex text-slate-800">.
- Typography: sans-serif (font-sans); large bold name, smaller colored professional title, bold section headings.
- Color: the user picked the '%[1]s' theme.
  - Name header class: %[2]s
  - Professional title class: %[3]s
  - Main column section headings MUST be <h2 class="text-2xl font-bold text-slate-800 border-b-4 %[4]s pb-2 mb-6">.
  - Sidebar background class: %[5]s
- Skill pills (mandatory): every skill is a badge carrying the '%[8]s' class, exactly <span class="%[8]s inline-block %[6]s %[7]s rounded-md px-3 py-1 text-sm font-medium mr-2 mb-2">JavaScript</span>.
- Sidebar (w-1/3 %[5]s p-8): circular profile image, contact details with icons, skills as pills, education.
- Main column (w-2/3 p-10): name, professional title, summary, work experience in reverse chronological order, projects.
`, theme.Name, tc.headline, tc.title, tc.border, tc.sidebarBg, tc.pillBg, tc.pillText, SkillPillClass)
	}
}
