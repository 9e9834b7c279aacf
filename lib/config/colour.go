package config

import (
	"fmt"
	"regexp"

	"github.com/go-gl/mathgl/mgl32"
	yaml "github.com/goccy/go-yaml"
)

// Colour is an RGBA colour with components in [0, 1]. In YAML it is either a
// list of 3 or 4 floats or a "#RRGGBB" / "#RRGGBBAA" hex string.
type Colour mgl32.Vec4

var hexColour = regexp.MustCompile(`^#([0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)

func (c *Colour) UnmarshalYAML(b []byte) error {
	var components []float32
	if err := yaml.Unmarshal(b, &components); err == nil {
		switch len(components) {
		case 3:
			*c = Colour{components[0], components[1], components[2], 1}
		case 4:
			*c = Colour{components[0], components[1], components[2], components[3]}
		default:
			return fmt.Errorf("colour needs 3 or 4 components, got %d", len(components))
		}
		return nil
	}

	var s string
	if err := yaml.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("colour must be a list of floats or a hex string: %w", err)
	}
	parsed, err := ParseColour(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func ParseColour(s string) (Colour, error) {
	if !hexColour.MatchString(s) {
		return Colour{}, fmt.Errorf("%s is not a valid RGB or RGBA hex colour", s)
	}
	var r, g, b uint8
	a := uint8(0xff)
	if len(s) == 9 {
		fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a)
	} else {
		fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
	}
	return Colour{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}, nil
}

func (c Colour) Validate() error {
	for i, v := range c {
		if v < 0 || v > 1 {
			return fmt.Errorf("component %d is %v, must be within [0, 1]", i, v)
		}
	}
	return nil
}

func (c Colour) Vec4() mgl32.Vec4 {
	return mgl32.Vec4(c)
}

func (c Colour) String() string {
	return fmt.Sprintf("(%.3g, %.3g, %.3g, %.3g)", c[0], c[1], c[2], c[3])
}
