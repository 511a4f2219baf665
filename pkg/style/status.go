package style

import (
	"github.com/jedib0t/go-pretty/v6/text"
)

var SuccessEmoji = "✅"
var FailureEmoji = "❌"
var PendingEmoji = "⏳"

// StatusString decorates the transaction status, colored is false when the output is not a terminal
func StatusString(status string, colored bool) string {
	var emoji string
	var color text.Colors
	switch status {
	case "SUCCESS":
		emoji, color = SuccessEmoji, text.Colors{text.FgGreen}
	case "FAILURE":
		emoji, color = FailureEmoji, text.Colors{text.FgRed}
	case "PENDING":
		emoji, color = PendingEmoji, text.Colors{text.FgYellow}
	default:
		return status
	}

	if !colored {
		return emoji + " " + status
	}

	return color.Sprint(emoji + " " + status)
}
