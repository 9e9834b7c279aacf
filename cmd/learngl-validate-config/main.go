package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/learngl/learngl/lib/config"
	"github.com/learngl/learngl/lib/rendering/shaders"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: learngl-validate-config <config file>...\n\n"+
			"Checks learngl YAML config files and renders the shaders they select.\n")
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	os.Exit(validate(os.Stdout, flag.Args()))
}

// validate checks every file and returns the exit code: 0 when all of them
// are valid, 1 otherwise.
func validate(out io.Writer, files []string) int {
	code := 0
	for _, file := range files {
		cfg, err := config.Parse(file)
		if err == nil {
			err = renderShaders(cfg)
		}
		if err != nil {
			fmt.Fprintf(out, "%s: config invalid: %s\n", file, err)
			code = 1
			continue
		}
		fmt.Fprintf(out, "%s: config valid!\n\n%s\n", file, cfg)
	}
	return code
}

func renderShaders(cfg *config.Config) error {
	s, err := shaders.NewShaderer(string(cfg.ShaderDir))
	if err != nil {
		return err
	}
	if _, _, err := s.Sources(&shaders.ShaderData{GLSLVersion: cfg.GLSLVersion()}); err != nil {
		return fmt.Errorf("%s shaders: %w", s.Origin(), err)
	}
	return nil
}
