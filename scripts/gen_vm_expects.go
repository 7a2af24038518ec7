package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"text/template"
	"time"

	"golang.org/x/sync/errgroup"
)

type namedReader interface {
	io.ReadCloser
	Name() string
}

var (
	in  namedReader    = os.Stdin
	out io.WriteCloser = os.Stdout

	pkgName = flag.String("package", "intcode", "package name for the generated file")
)

func parseFlags() {
	flag.Parse()

	args := flag.Args()

	if len(args) > 0 {
		name := args[0]
		f, err := os.Open(name)
		if err != nil {
			log.Fatalf("failed to open %v: %v", name, err)
		}
		args = args[1:]
		in = f
	}

	if len(args) > 0 {
		name := args[0]
		f, err := os.Create(name)
		if err != nil {
			log.Fatalf("failed to create %v: %v", name, err)
		}
		args = args[1:]
		out = f
	}
}

func main() {
	ctx := context.Background()
	parseFlags()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	ready := make(chan struct{})

	eg.Go(func() error {
		gofmt := exec.CommandContext(ctx, "goimports")
		fmtPipe, err := gofmt.StdinPipe()
		if err != nil {
			return err
		}

		defer out.Close()
		gofmt.Stdout = out
		gofmt.Stderr = os.Stderr

		out = fmtPipe

		close(ready)
		if err := gofmt.Run(); err != nil {
			return fmt.Errorf("gofmt run failed: %w", err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		select {
		case <-ctx.Done():
		case <-ready:
		}

		defer func() {
			if cerr := in.Close(); rerr == nil {
				rerr = cerr
			}
			if cerr := out.Close(); rerr == nil {
				rerr = cerr
			}
		}()

		return run(ctx)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

// expectMethod matches builder methods that take at least one argument;
// each one gets a top-level helper usable with vmTestCase.apply.
var expectMethod = regexp.MustCompile(`func \(vmt vmTestCase\) (expect|with)(\w+)\((.+?)\) vmTestCase`)

type builderMethod struct {
	Base, What string
	Params     string
	Args       []string
}

func parseBuilderMethod(match [][]byte) (bm builderMethod, err error) {
	bm.Base = string(match[1])
	bm.What = string(match[2])
	bm.Params = string(match[3])
	for _, part := range strings.Split(bm.Params, ",") {
		fields := strings.Fields(part)
		if len(fields) != 2 {
			return bm, fmt.Errorf("unsupported parameter %q in %v%v", part, bm.Base, bm.What)
		}
		arg := fields[0]
		if strings.HasPrefix(fields[1], "...") {
			arg += "..."
		}
		bm.Args = append(bm.Args, arg)
	}
	return bm, nil
}

var helperTemplate = template.Must(template.New("helpers").Parse(`package {{ .Package }}

// @generated from {{ .Source }}
{{ with .Generate }}
//go:generate go run scripts/gen_vm_expects.go --{{ range . }} {{ . }}{{ end }}
{{ end }}
{{ range .Methods }}
func {{ .Base }}VM{{ .What }}({{ .Params }}) func(vmTestCase) vmTestCase {
	return func(vmt vmTestCase) vmTestCase {
		return vmt.{{ .Base }}{{ .What }}({{ range $i, $arg := .Args }}{{ if $i }}, {{ end }}{{ $arg }}{{ end }})
	}
}
{{ end }}`))

func run(ctx context.Context) error {
	data := struct {
		Package  string
		Source   string
		Generate []string
		Methods  []builderMethod
	}{
		Package: *pkgName,
		Source:  in.Name(),
	}
	if args := flag.Args(); len(args) >= 2 {
		data.Generate = args
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if match := expectMethod.FindSubmatch(sc.Bytes()); len(match) > 0 {
			bm, err := parseBuilderMethod(match)
			if err != nil {
				return err
			}
			data.Methods = append(data.Methods, bm)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := helperTemplate.Execute(&buf, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(out)
	return err
}
