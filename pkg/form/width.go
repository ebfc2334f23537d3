package form

// WidthClass maps a declared width to the layout class of its column. Mobile
// layouts always span the full row.
func WidthClass(width int, mobile bool) string {
	if mobile {
		return "w-full"
	}
	switch width {
	case 25:
		return "w-full sm:w-1/4"
	case 50:
		return "w-full sm:w-1/2"
	case 75:
		return "w-full sm:w-3/4"
	default:
		return "w-full"
	}
}
