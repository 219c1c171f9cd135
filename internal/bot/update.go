package bot

import "strings"

// Update is one inbound event, independent of the chat transport.
type Update struct {
	ID     int
	UserID int64
	ChatID int64
	// Text is the raw message text including any command.
	Text string
	// Command is the bare command name without the leading slash ("start"), empty
	// for plain text.
	Command string

	CallbackID   string
	CallbackData string
}

// IsCallback reports whether the update is an inline button press.
func (u Update) IsCallback() bool {
	return u.CallbackID != ""
}

// Kind is the metrics label for the update.
func (u Update) Kind() string {
	switch {
	case u.IsCallback():
		return "callback"
	case u.Command != "":
		return "command"
	}
	return "message"
}

const reportCallbackPrefix = "report_"

// ReportCallbackData is the inline button payload for a report period.
func ReportCallbackData(period string) string {
	return reportCallbackPrefix + period
}

func parseReportCallback(data string) (string, bool) {
	return strings.CutPrefix(data, reportCallbackPrefix)
}
