package config

import "github.com/spf13/pflag"

// Flags holds the command-line overrides registered on one flag set.
// Only flags the user actually set override file values.
type Flags struct {
	fs *pflag.FlagSet

	Config     string
	Debug      bool
	Workers    int
	BestEffort bool

	Width      int
	Height     int
	Fullscreen bool
}

// RegisterFlags adds the decoding flags shared by every command to fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.Config, "config", "c", "", "path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	fs.IntVarP(&f.Workers, "workers", "j", 0, "primitives compiled in parallel (0 = one per CPU)")
	fs.BoolVar(&f.BestEffort, "best-effort", false, "skip primitives that fail to compile")
	return f
}

// RegisterViewerFlags adds the window flags to fs.
func (f *Flags) RegisterViewerFlags() {
	f.fs.IntVar(&f.Width, "width", 0, "window width")
	f.fs.IntVar(&f.Height, "height", 0, "window height")
	f.fs.BoolVar(&f.Fullscreen, "fullscreen", false, "run fullscreen")
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// apply copies the flags the user set onto cfg.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.changed("workers") {
		cfg.Decode.Workers = f.Workers
	}
	if f.changed("best-effort") {
		cfg.Decode.BestEffort = f.BestEffort
	}
	if f.changed("width") {
		cfg.Viewer.Width = f.Width
	}
	if f.changed("height") {
		cfg.Viewer.Height = f.Height
	}
	if f.changed("fullscreen") {
		cfg.Viewer.Fullscreen = f.Fullscreen
	}
}
