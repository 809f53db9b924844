// Command lookup searches products by barcode from the terminal.
//
// With --barcode it runs one search; otherwise every line read from stdin
// is searched in turn.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/niksmo/pricecheck/config"
	"github.com/niksmo/pricecheck/internal/adapter/view"
	"github.com/niksmo/pricecheck/internal/app"
	"github.com/niksmo/pricecheck/internal/core/domain"
	"github.com/niksmo/pricecheck/internal/core/service"
	"github.com/niksmo/pricecheck/pkg/sigctx"
	"github.com/spf13/pflag"
)

const prompt = "barcode> "

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	barcode string
	format  string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	cmdLine := pflag.NewFlagSet("lookup", pflag.ContinueOnError)
	cmdLine.SetOutput(stderr)
	cmdLine.String("config", "config.yaml", "config file")
	cmdLine.StringVarP(&opts.barcode, "barcode", "b", "", "search once and exit")
	cmdLine.StringVarP(&opts.format, "format", "f", "text", "output format: text or json")

	if err := cmdLine.Parse(args); err != nil {
		return options{}, err
	}
	if opts.format != "text" && opts.format != "json" {
		return options{}, fmt.Errorf("unknown format %q", opts.format)
	}
	return opts, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	svc, closer, err := app.NewService(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer closer.Close()

	ctx, stop := sigctx.NotifyContext(context.Background())
	defer stop()

	sess := service.NewSession(svc)
	defer sess.Reset()

	render := renderer(opts.format, stdout)

	if opts.barcode != "" {
		state := sess.Search(ctx, opts.barcode)
		if err := render(state); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		if state.Phase != domain.PhaseFound {
			return 1
		}
		return 0
	}

	return interactive(ctx, sess, stdin, stdout, render)
}

func interactive(
	ctx context.Context,
	sess *service.Session,
	stdin io.Reader,
	stdout io.Writer,
	render func(domain.SearchState) error,
) int {
	sc := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, prompt)
		if !sc.Scan() {
			fmt.Fprintln(stdout)
			break
		}
		if err := render(sess.Search(ctx, sc.Text())); err != nil {
			return 2
		}
		if ctx.Err() != nil {
			break
		}
	}

	if err := sc.Err(); err != nil {
		return 2
	}
	return 0
}

func renderer(format string, w io.Writer) func(domain.SearchState) error {
	if format == "json" {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		return func(s domain.SearchState) error {
			return enc.Encode(view.NewPage(s))
		}
	}
	return func(s domain.SearchState) error {
		return view.WriteText(w, view.NewPage(s))
	}
}
