package background

// Style is the background animation id
type Style uint8

const (
	Off            Style = 0x00
	Static         Style = 0x01
	RevealLeft     Style = 0x10
	RevealRight    Style = 0x11
	RevealBoth     Style = 0x12
	RevealMiddle   Style = 0x13
	BrightnessRamp Style = 0x14
	FlowRight      Style = 0x20 // rainbow travelling left to right
	FlowRightSlow  Style = 0x21
	FlowLeft       Style = 0x22 // rainbow travelling right to left
	FlowLeftSlow   Style = 0x23
	Breath         Style = 0x24
	BreathSlow     Style = 0x25
)

// Styles lists the selectable animations in menu order
var Styles = []Style{
	Off, Static,
	RevealLeft, RevealRight, RevealBoth, RevealMiddle, BrightnessRamp,
	FlowRight, FlowRightSlow, FlowLeft, FlowLeftSlow, Breath, BreathSlow,
}

// Family groups styles that share a pixel rule
type Family uint8

const (
	FamilyBlank Family = iota
	FamilyStatic
	FamilyReveal
	FamilyRamp
	FamilyFlow
	FamilyBreath
)

// Family returns the rule family of s; unknown styles are blank
func (s Style) Family() Family {
	switch s {
	case Static:
		return FamilyStatic
	case RevealLeft, RevealRight, RevealBoth, RevealMiddle:
		return FamilyReveal
	case BrightnessRamp:
		return FamilyRamp
	case FlowRight, FlowRightSlow, FlowLeft, FlowLeftSlow:
		return FamilyFlow
	case Breath, BreathSlow:
		return FamilyBreath
	}
	return FamilyBlank
}

// HasActivated reports whether the activated colour is ever shown
func (s Style) HasActivated() bool {
	return s.Family() == FamilyReveal
}

// Valid reports whether s is one of Styles
func (s Style) Valid() bool {
	for _, v := range Styles {
		if v == s {
			return true
		}
	}
	return false
}

// Next returns the style after s, wrapping; unknown styles restart the list
func (s Style) Next() Style {
	for i, v := range Styles {
		if v == s && i+1 < len(Styles) {
			return Styles[i+1]
		}
	}
	return Styles[0]
}

// Prev returns the style before s, wrapping; unknown styles go to the end
func (s Style) Prev() Style {
	for i, v := range Styles {
		if v == s && i > 0 {
			return Styles[i-1]
		}
	}
	return Styles[len(Styles)-1]
}

var styleNames = map[Style]string{
	Off:            "off",
	Static:         "static",
	RevealLeft:     "reveal from left",
	RevealRight:    "reveal from right",
	RevealBoth:     "reveal from both sides",
	RevealMiddle:   "reveal from middle",
	BrightnessRamp: "brightness ramp",
	FlowRight:      "rainbow left to right",
	FlowRightSlow:  "rainbow left to right (slow)",
	FlowLeft:       "rainbow right to left",
	FlowLeftSlow:   "rainbow right to left (slow)",
	Breath:         "rainbow breath",
	BreathSlow:     "rainbow breath (slow)",
}

func (s Style) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return "unknown"
}
