package views

// Messages for view switching
type SwitchToBrowserMsg struct{}

type SwitchToWorkflowMsg struct{}

type SwitchToSettingsMsg struct{}

type SwitchToHelpMsg struct{}

// StoreChangedMsg is sent when a store operation finishes; views read
// fresh snapshots on receipt.
type StoreChangedMsg struct {
	Message string
	Err     bool
}

// OpenEditorMsg asks the app to open path in the local editor.
type OpenEditorMsg struct {
	Path string
}

// CopyMsg asks the app to put Text on the clipboard.
type CopyMsg struct {
	Text string
}

// PromptPathMsg asks the user to type a path. The typed text, or "" on
// cancel, is sent on Reply.
type PromptPathMsg struct {
	Message string
	Reply   chan<- string
}

// ConfirmMsg asks for a yes/no answer before running OnConfirm.
type ConfirmMsg struct {
	Question  string
	Target    string
	OnConfirm func() StoreChangedMsg
}
