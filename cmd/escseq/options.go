package main

import (
	"bytes"
	"fmt"
	"os"
	"reflect"

	"github.com/escseq/escseq/config"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

type cmdOptions struct {
	OptHelp          bool             `short:"h" long:"help" description:"show this help message and exit"`
	OptVersion       bool             `long:"version" description:"print the version and exit"`
	OptRcfile        string           `long:"rcfile" description:"path to the settings file"`
	OptMouse         config.MouseMode `long:"mouse" description:"mouse reporting to enable, 'sgr' (default) or 'none'"`
	OptQuery         []string         `long:"query" description:"terminal query to send at startup, may be repeated.\n'cursor-position', 'device-attributes' or 'window-size'"`
	OptClickInterval config.Duration  `long:"click-interval" description:"how long a click may wait for the next one (e.g. '300ms')"`
	OptEscapeTimeout config.Duration  `long:"escape-timeout" description:"how long a lone ESC waits for the rest of a sequence (e.g. '50ms')"`
}

func (options *cmdOptions) parse(s []string) ([]string, error) {
	p := flags.NewParser(options, flags.PrintErrors)
	args, err := p.ParseArgs(s)
	if err != nil {
		os.Stderr.Write(options.help())
		return nil, errors.Wrap(err, "invalid command line options")
	}
	return args, nil
}

// apply overrides cfg with the options given on the command line.
func (options cmdOptions) apply(cfg *config.Config) {
	if options.OptMouse != "" {
		cfg.Mouse = options.OptMouse
	}
	if len(options.OptQuery) > 0 {
		cfg.Queries = append(cfg.Queries, options.OptQuery...)
	}
	if options.OptClickInterval != 0 {
		cfg.ClickInterval = options.OptClickInterval
	}
	if options.OptEscapeTimeout != 0 {
		cfg.EscapeTimeout = options.OptEscapeTimeout
	}
}

func (options cmdOptions) help() []byte {
	buf := bytes.Buffer{}

	fmt.Fprintf(&buf, `
Usage: escseq [options]

Reads the terminal in raw mode and prints every key, mouse event and
query response it decodes. Press 'q' or Ctrl-C to quit.

Options:
`)

	t := reflect.TypeOf(options)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag

		var o string
		if s := tag.Get("short"); s != "" {
			o = fmt.Sprintf("-%s, --%s", tag.Get("short"), tag.Get("long"))
		} else {
			o = fmt.Sprintf("--%s", tag.Get("long"))
		}

		fmt.Fprintf(
			&buf,
			"  %-21s %s\n",
			o,
			tag.Get("description"),
		)
	}

	return buf.Bytes()
}
