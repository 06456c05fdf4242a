package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"mila/frontend"
	"mila/ir"
)

// options mirrors the teacher's util.Options in miniature: the small set of
// command-line switches this compiler actually exposes.
type options struct {
	tokens bool // print the token stream instead of compiling
}

func parseArgs() options {
	var opt options
	flag.BoolVar(&opt.tokens, "tokens", false, "print the scanned token stream and exit")
	flag.Parse()
	return opt
}

// run reads source from stdin, compiles it, and writes the result to out.
// It mirrors the teacher's run(opt) error split so main stays a thin
// wrapper around argument parsing and exit-code handling.
func run(opt options, in io.Reader, out io.Writer) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("could not read source code: %s", err)
	}

	if opt.tokens {
		return printTokenStream(string(src), out)
	}

	prog, err := frontend.Parse(string(src))
	if err != nil {
		return fmt.Errorf("parse error: %s", err)
	}

	llctx, module, err := ir.Lower(prog)
	if err != nil {
		return fmt.Errorf("error during code generation: %s", err)
	}
	defer llctx.Dispose()
	defer module.Dispose()

	fmt.Fprintln(out, module.String())
	return nil
}

func printTokenStream(src string, out io.Writer) error {
	s := frontend.NewScanner(src)
	for {
		tok, err := s.Next()
		if err != nil {
			return fmt.Errorf("syntax error: %s", err)
		}
		fmt.Fprintln(out, tok.String())
		if tok.Kind == frontend.EOF {
			return nil
		}
	}
}

func main() {
	opt := parseArgs()
	if err := run(opt, os.Stdin, os.Stdout); err != nil {
		fmt.Println("Error during parsing:")
		fmt.Println(err)
		os.Exit(1)
	}
}
