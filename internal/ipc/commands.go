package ipc

// Seek flags accepted by the seek command.
const (
	SeekRelative        = "relative"
	SeekAbsolute        = "absolute"
	SeekAbsolutePercent = "absolute-percent"
)

// Common event names.
const (
	EventPlaybackRestart = "playback-restart"
	EventPropertyChange  = "property-change"
	EventFileLoaded      = "file-loaded"
	EventEndFile         = "end-file"
	EventShutdown        = "shutdown"
)

// Command builds a request for an arbitrary input command.
// See https://mpv.io/manual/stable/#list-of-input-commands.
func Command(name string, args ...any) Request {
	command := make([]any, 0, len(args)+1)
	command = append(command, name)
	command = append(command, args...)
	return Request{Command: command}
}

// GetProperty reads a property. Convert the response with Into.
func GetProperty(property string) Request {
	return Command("get_property", property)
}

// SetProperty writes a property.
func SetProperty(property string, value any) Request {
	return Command("set_property", property, value)
}

// PlaybackTime reads the playback-time property.
func PlaybackTime() Request {
	return GetProperty("playback-time")
}

// Seek moves playback; flags is one of the Seek* constants.
func Seek(target float64, flags string) Request {
	return Command("seek", target, flags)
}

// ShowText displays text on the OSD.
func ShowText(text string) Request {
	return Command("show-text", text)
}

// ObserveProperty subscribes to property-change events tagged with id.
func ObserveProperty(id int64, property string) Request {
	return Command("observe_property", id, property)
}

// Screenshot writes a screenshot of the current frame to path.
func Screenshot(path string) Request {
	return Command("screenshot-to-file", path)
}
