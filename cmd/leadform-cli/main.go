package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/doron007/realtechee-forms/internal/config"
	"github.com/doron007/realtechee-forms/internal/server"
	"github.com/doron007/realtechee-forms/pkg/forms"
	"github.com/doron007/realtechee-forms/pkg/formstate"
	"github.com/doron007/realtechee-forms/pkg/registry"
	"github.com/doron007/realtechee-forms/pkg/render"
	"github.com/doron007/realtechee-forms/pkg/renderers/tui"
	"github.com/doron007/realtechee-forms/pkg/renderers/vanilla"
	"github.com/doron007/realtechee-forms/pkg/upload"
)

const usage = `usage: leadform-cli <command> [flags]

commands:
  forms            list registered form ids
  render <form>    print a form's HTML page
  fill <form>      fill a form interactively and print the payload
  token            issue an admin bearer token
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	reg, err := registry.Default()
	if err != nil {
		log.Fatalf("load form definitions: %v", err)
	}

	switch os.Args[1] {
	case "forms":
		for _, id := range reg.Forms() {
			fmt.Println(id)
		}
	case "render":
		runRender(reg, os.Args[2:])
	case "fill":
		runFill(reg, os.Args[2:])
	case "token":
		runToken(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func formArg(fs *flag.FlagSet, reg *registry.Registry) (string, bool) {
	id := fs.Arg(0)
	if id == "" {
		fmt.Fprintln(os.Stderr, "a form id is required; run `leadform-cli forms` to list them")
		return "", false
	}
	if _, ok := reg.Form(id); !ok {
		fmt.Fprintf(os.Stderr, "unknown form %q; run `leadform-cli forms` to list them\n", id)
		return "", false
	}
	return id, true
}

func runRender(reg *registry.Registry, args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	output := fs.String("output", "", "output file (stdout if empty)")
	name := fs.String("renderer", "vanilla", "renderer to use")
	_ = fs.Parse(args)

	id, ok := formArg(fs, reg)
	if !ok {
		os.Exit(2)
	}
	def, _ := reg.Form(id)

	renderers := render.NewRegistry()
	html, err := vanilla.New()
	if err != nil {
		log.Fatalf("build renderer: %v", err)
	}
	if err := renderers.Register(html); err != nil {
		log.Fatalf("register renderer: %v", err)
	}

	renderer, err := renderers.Get(*name)
	if err != nil {
		log.Fatalf("%v (available: %v)", err, renderers.Names())
	}

	page, err := renderer.Render(context.Background(), def, render.RenderOptions{
		Hidden: render.MergeHiddenFields(nil, render.SessionField(upload.NewSessionID())),
	})
	if err != nil {
		log.Fatalf("render %s: %v", id, err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, page, 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
		return
	}
	fmt.Println(string(page))
}

func runFill(reg *registry.Registry, args []string) {
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	format := fs.String("format", "json", "output format: json, form, or pretty")
	_ = fs.Parse(args)

	id, ok := formArg(fs, reg)
	if !ok {
		os.Exit(2)
	}
	def, _ := reg.Form(id)

	renderer, err := tui.New(
		tui.WithOutputFormat(tui.OutputFormat(*format)),
		tui.WithSchema(forms.SchemaFor(def)),
		tui.WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			submission := forms.Normalize(def, values, nil, time.Now())
			payload := submission.Values
			formstate.Set(payload, "submissionTime", submission.SubmissionTime.Format(time.RFC3339))
			return payload, nil
		}),
	)
	if err != nil {
		log.Fatalf("build renderer: %v", err)
	}

	payload, err := renderer.Render(context.Background(), def, render.RenderOptions{})
	if errors.Is(err, tui.ErrAborted) {
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("fill %s: %v", id, err)
	}
	fmt.Println(string(payload))
}

func runToken(args []string) {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	subject := fs.String("subject", "", "token subject, usually an operator email")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	_ = fs.Parse(args)

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "a -subject is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	token, err := server.IssueToken(cfg.JWTSecret, *subject, *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}
