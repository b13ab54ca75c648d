package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/itchyny/gojq"
	"github.com/tidwall/pretty"
)

// terminalNoColor is fatih/color's own decision, made once from NO_COLOR
// and whether stdout is a terminal. Invocations never write it back.
var terminalNoColor = color.NoColor

// printer writes command results to stdout and notices to stderr.
type printer struct {
	out     io.Writer
	errOut  io.Writer
	jq      string
	raw     bool
	noColor bool

	green  *color.Color
	yellow *color.Color
}

func newPrinter(out, errOut io.Writer, noColor bool) *printer {
	p := &printer{
		out:     out,
		errOut:  errOut,
		noColor: noColor,
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.green, p.yellow} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return p
}

// print writes v as indented JSON, filtered through the jq expression when
// one was given.
func (p *printer) print(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	if p.jq == "" {
		return p.write(data)
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("jq: parse error: %w", err)
	}
	query, err := gojq.Parse(p.jq)
	if err != nil {
		return fmt.Errorf("jq: filter parse error: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("jq: compile error: %w", err)
	}

	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := v.(error); ok {
			return fmt.Errorf("jq: execution error: %w", err)
		}
		out, err := gojq.Marshal(v)
		if err != nil {
			return fmt.Errorf("jq: marshal error: %w", err)
		}
		if err := p.write(out); err != nil {
			return err
		}
	}
}

func (p *printer) write(data []byte) error {
	if p.raw {
		var s string
		if json.Unmarshal(data, &s) == nil {
			_, err := fmt.Fprintln(p.out, s)
			return err
		}
	}
	out := pretty.Pretty(data)
	if !p.noColor {
		out = pretty.Color(out, nil)
	}
	_, err := p.out.Write(out)
	return err
}

func (p *printer) success(format string, args ...any) {
	fmt.Fprintln(p.errOut, p.green.Sprintf(format, args...))
}

func (p *printer) warn(format string, args ...any) {
	fmt.Fprintln(p.errOut, p.yellow.Sprintf("warning: "+format, args...))
}
