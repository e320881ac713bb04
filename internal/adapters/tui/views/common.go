package views

// ViewState is embedded by every view: the terminal size and the status
// line shown under the view's content.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize records the terminal size.
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetStatus replaces the status line.
func (s *ViewState) SetStatus(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// Apply shows the outcome of a store action.
func (s *ViewState) Apply(msg StoreChangedMsg) {
	s.SetStatus(msg.Message, msg.Err)
}

// ClearMessage empties the status line.
func (s *ViewState) ClearMessage() {
	s.SetStatus("", false)
}

// StatusLine returns the message cut to the terminal width. Backend
// errors can carry whole tracebacks.
func (s *ViewState) StatusLine() string {
	r := []rune(s.Message)
	if s.Width <= 1 || len(r) <= s.Width {
		return s.Message
	}
	return string(r[:s.Width-1]) + "…"
}
