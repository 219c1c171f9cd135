package flow

// Keyboard names the input affordance attached to a reply.
// Rendering is up to the transport.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardYesNo
	KeyboardRemove
	KeyboardReportPeriods
)

// Reply is what the bot sends back for one inbound message.
type Reply struct {
	Text     string
	Keyboard Keyboard
	HTML     bool
}

// IsEmpty reports whether there is nothing to send (silent drop).
func (r Reply) IsEmpty() bool {
	return r.Text == ""
}
