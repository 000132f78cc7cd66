package color

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
)

// ANSI palette indices
const (
	Red    = "1"
	Green  = "2"
	Yellow = "3"
	Blue   = "4"

	BrightRed = "9"
)

var profile = termenv.ANSI

func init() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal() {
		profile = termenv.Ascii
	}
}

func isTerminal() bool {
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

func EnableColor(enable bool) {
	if enable {
		profile = termenv.ANSI
	} else {
		profile = termenv.Ascii
	}
}

func IsColorEnabled() bool {
	return profile != termenv.Ascii
}

func Colorize(color, text string) string {
	return profile.String(text).Foreground(profile.Color(color)).String()
}

func RedText(text string) string {
	return Colorize(Red, text)
}

func BrightRedText(text string) string {
	return Colorize(BrightRed, text)
}

func GreenText(text string) string {
	return Colorize(Green, text)
}

func YellowText(text string) string {
	return Colorize(Yellow, text)
}

func BlueText(text string) string {
	return Colorize(Blue, text)
}

func Error(message string) string {
	return BrightRedText("Error: ") + message
}

// Position renders a source position as error messages show it.
func Position(line, col int) string {
	return YellowText(fmt.Sprintf("Line: %d, Column %d", line, col))
}
