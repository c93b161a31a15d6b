package motion

// Handle represents one in-flight animation run against one target.
//
// Finished resolves when the run ends, whether it ran to completion or was
// stopped. Stop never fails the run: it resolves Finished immediately so that
// anything waiting on it proceeds.
type Handle interface {
	Finished() *Signal
	Stop()
}

// Engine starts animations. Implementations must resolve a handle's Finished
// signal asynchronously with respect to Start, typically from their own
// per-frame update.
type Engine interface {
	Start(target Target, frames *KeyframeSet, transition *Transition) Handle
}

// InViewOptions configures visibility-triggered playback.
type InViewOptions struct {
	Margin string  `yaml:"margin,omitempty" toml:"margin,omitempty"`
	Amount float64 `yaml:"amount,omitempty" toml:"amount,omitempty"`
}

// ScrollOptions configures scroll-linked playback.
type ScrollOptions struct {
	Axis   string   `yaml:"axis,omitempty" toml:"axis,omitempty"`
	Offset []string `yaml:"offset,omitempty" toml:"offset,omitempty"`
}

// VisibilityRunner is implemented by engines that can defer a started run
// until its target becomes visible.
type VisibilityRunner interface {
	RunWhenVisible(target Target, h Handle, opts *InViewOptions)
}

// ScrollDriver is implemented by engines that can link a run's progress to a
// scroll position.
type ScrollDriver interface {
	DriveByScroll(h Handle, opts *ScrollOptions)
}
