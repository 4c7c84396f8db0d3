package trending

// Width breakpoints, in CSS pixels, at which the carousel shows one more card.
const (
	breakpointSmall  = 640
	breakpointMedium = 768
	breakpointLarge  = 1024
)

// ViewportForWidth returns how many cards fit a screen of the given width.
func ViewportForWidth(px int) int {
	switch {
	case px < breakpointSmall:
		return 1
	case px < breakpointMedium:
		return 2
	case px < breakpointLarge:
		return 3
	default:
		return 4
	}
}

// totalSlides is ceil(items / viewport).
func totalSlides(items, viewport int) int {
	if items == 0 || viewport < 1 {
		return 0
	}
	return (items + viewport - 1) / viewport
}

// wrap maps any index onto [0, total).
func wrap(index, total int) int {
	return ((index % total) + total) % total
}
