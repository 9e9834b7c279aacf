package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	yaml "github.com/goccy/go-yaml"

	"github.com/learngl/learngl/lib/rendering/shaders"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultTitle  = "Learn OpenGL"

	DefaultGLMajor = 3
	DefaultGLMinor = 3
)

var DefaultClearColour = Colour{0.2, 0.3, 0.3, 1.0}

type Config struct {
	Window       WindowCfg
	GL           GLCfg   `yaml:"gl"`
	ClearColour  *Colour `yaml:"clear_colour"`
	ShaderDir    CfgPath `yaml:"shader_dir"`
	WatchShaders bool    `yaml:"watch_shaders"`
	Draw         bool
	LogLevel     string `yaml:"log_level"`
	Api          *ApiCfg
}

type WindowCfg struct {
	Width     int
	Height    int
	Title     string
	Resizable *bool
}

// IsResizable reports whether the window may be resized, which it may unless
// resizable is set to false.
func (w WindowCfg) IsResizable() bool {
	return w.Resizable == nil || *w.Resizable
}

type GLCfg struct {
	Major int
	Minor int
}

type ApiCfg struct {
	Bind           string
	EnableProfiler bool `yaml:"enable_profiler"`
}

// Default is the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", filename, err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			slog.Warn(fmt.Sprintf("could not close %s: %s", filename, err), slog.String("module", "config"))
		}
	}(f)

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}

	m := yaml.NewDecoder(f, yaml.DisallowUnknownField())
	cfg := &Config{}
	err = m.Decode(cfg)
	if err != nil {
		return nil, err
	}
	cfg.ShaderDir = cfg.ShaderDir.Resolve(filepath.Dir(absFilename))
	cfg.applyDefaults()

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Window.Width == 0 {
		c.Window.Width = DefaultWidth
	}
	if c.Window.Height == 0 {
		c.Window.Height = DefaultHeight
	}
	if c.Window.Title == "" {
		c.Window.Title = DefaultTitle
	}
	if c.Window.Resizable == nil {
		resizable := true
		c.Window.Resizable = &resizable
	}
	if c.GL.Major == 0 && c.GL.Minor == 0 {
		c.GL.Major = DefaultGLMajor
		c.GL.Minor = DefaultGLMinor
	}
	if c.ClearColour == nil {
		colour := DefaultClearColour
		c.ClearColour = &colour
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.Title == "" {
		return fmt.Errorf("window title must not be empty")
	}

	// core profiles only exist from 3.2 on
	if c.GL.Major < 3 || (c.GL.Major == 3 && c.GL.Minor < 2) {
		return fmt.Errorf("OpenGL %d.%d has no core profile, need at least 3.2", c.GL.Major, c.GL.Minor)
	}
	if c.GL.Minor < 0 || c.GL.Minor > 9 {
		return fmt.Errorf("OpenGL minor version %d is out of range", c.GL.Minor)
	}

	if c.ClearColour != nil {
		if err := c.ClearColour.Validate(); err != nil {
			return fmt.Errorf("clear_colour is invalid: %w", err)
		}
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if c.ShaderDir != "" {
		for _, name := range []string{shaders.VertexShaderName, shaders.FragmentShaderName} {
			path := filepath.Join(string(c.ShaderDir), name)
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("shader_dir must contain %s: %w", name, err)
			}
		}
	} else if c.WatchShaders {
		return fmt.Errorf("watch_shaders needs shader_dir to be set")
	}

	if c.Api != nil {
		if err := c.Api.Validate(); err != nil {
			return fmt.Errorf("api is invalid: %w", err)
		}
	}
	return nil
}

func (a *ApiCfg) Validate() error {
	if a.Bind == "" {
		return fmt.Errorf("bind address must be specified")
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q is invalid: %w", c.LogLevel, err)
	}
	return level, nil
}

// GLSLVersion is the shading language version matching the requested
// context, e.g. 330 for OpenGL 3.3.
func (c *Config) GLSLVersion() int {
	if c.GL.Major == 3 && c.GL.Minor < 3 {
		// 3.2 pairs with GLSL 1.50
		return 150
	}
	return c.GL.Major*100 + c.GL.Minor*10
}

func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Window: %dx%d %q", c.Window.Width, c.Window.Height, c.Window.Title)
	if !c.Window.IsResizable() {
		b.WriteString(" (fixed size)")
	}
	fmt.Fprintf(&b, "\nOpenGL: %d.%d core (GLSL %d)\n", c.GL.Major, c.GL.Minor, c.GLSLVersion())
	if c.ClearColour != nil {
		fmt.Fprintf(&b, "Clear colour: %s\n", c.ClearColour)
	}

	if c.ShaderDir == "" {
		b.WriteString("Shaders: built-in\n")
	} else {
		fmt.Fprintf(&b, "Shaders: %s", c.ShaderDir)
		if c.WatchShaders {
			b.WriteString(" (watched)")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Draw triangle: %t\n", c.Draw)
	fmt.Fprintf(&b, "Log level: %s\n", c.LogLevel)

	if c.Api != nil {
		fmt.Fprintf(&b, "API: %s", c.Api.Bind)
		if c.Api.EnableProfiler {
			b.WriteString(" (profiler enabled)")
		}
		b.WriteString("\n")
	}
	return b.String()
}
