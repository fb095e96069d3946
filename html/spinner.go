package html

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Spinner that can be put inline, like in a button. It spins in the current text color.
func Spinner() Node {
	return Span(Class("spinner"), Aria("hidden", "true"))
}
