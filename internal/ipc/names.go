package ipc

// Requests handled by the host.
const (
	MsgFileOpen         = "file.open"
	MsgFileOpenPath     = "file.open.path"
	MsgFileExportHTML   = "file.export.html"
	MsgFileSave         = "file.save"
	MsgFileSaveAs       = "file.save.as"
	MsgFileHasChanges   = "file.has.changes"
	MsgFileRevert       = "file.revert"
	MsgFileShowInFolder = "file.show.in.folder"
	MsgFileOpenDefault  = "file.open.default"
	MsgFileNew          = "file.new"

	MsgUnsavedCheckResponse = "unsaved.check.response"

	MsgWindowNew    = "window.new"
	MsgWindowClose  = "window.close"
	MsgWindowFocus  = "window.focus"
	MsgWindowStatus = "window.status"
	MsgWindowList   = "window.list"

	MsgRecentList  = "recent.list"
	MsgRecentClear = "recent.clear"
)

// Events pushed to surfaces.
const (
	EventWindowReady  = "window.ready"
	EventFileOpened   = "file.opened"
	EventFileSaved    = "file.saved"
	EventFileNew      = "file.new"
	EventFileChanged  = "file.changed"
	EventFileRemoved  = "file.removed"
	EventWindowTitle  = "window.title"
	EventWindowEdited = "window.edited"
)
