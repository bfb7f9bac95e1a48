// Command htmltable extracts one table from each HTML file given on the
// command line, or from standard input, and prints it.
//
//	htmltable -table.id prices -format csv page.html
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/htmltable"
	"github.com/tsawler/htmltable/export"
	"github.com/tsawler/htmltable/model"
)

// config is the parsed command line.
type config struct {
	File    htmltable.FileConfig
	Format  string
	Inputs  []string
	Verbose bool
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("invalid arguments")
		os.Exit(2)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("extraction failed")
		os.Exit(1)
	}
}

// parseFlags reads the optional -config file first, then lets every flag
// that was given on the command line override it.
func parseFlags(args []string) (config, error) {
	fs := flag.NewFlagSet("htmltable", flag.ContinueOnError)

	var (
		configPath    string
		tableExpr     string
		tablePos      int
		tableID       string
		caption       string
		header        string
		noHeader      bool
		headerSection string
		headerOffset  int
		include       string
		exclude       string
		strict        bool
		cfg           config
	)

	fs.StringVar(&configPath, "config", "", "YAML configuration file")
	fs.StringVar(&tableExpr, "table.expr", "", "XPath expression selecting the table")
	fs.IntVar(&tablePos, "table.pos", 0, "Zero-based position of the table in the document")
	fs.StringVar(&tableID, "table.id", "", "id attribute of the table")
	fs.StringVar(&caption, "caption", "", "Caption used when the table has none")
	fs.StringVar(&header, "header", "", "Comma separated explicit header")
	fs.BoolVar(&noHeader, "no-header", false, "Do not derive a header; print positional rows")
	fs.StringVar(&headerSection, "header.section", "", "Section holding the header row (thead, tbody, tfoot, tr)")
	fs.IntVar(&headerOffset, "header.offset", 0, "Zero-based row offset of the header inside -header.section")
	fs.StringVar(&include, "include", "", "Comma separated sections to add to extraction")
	fs.StringVar(&exclude, "exclude", "", "Comma separated sections to remove from extraction")
	fs.BoolVar(&strict, "strict", false, "Fail when the markup has errors")
	fs.StringVar(&cfg.Format, "format", "grid", "Output format: "+strings.Join(export.Names(), ", "))
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.Inputs = fs.Args()

	if configPath != "" {
		fc, err := htmltable.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg.File = fc
	}

	fc := &cfg.File
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "table.expr", "table.pos", "table.id":
			fc.Table.Expression, fc.Table.Position, fc.Table.ID = "", nil, ""
		}
	})
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "table.expr":
			fc.Table.Expression = tableExpr
		case "table.pos":
			pos := tablePos
			fc.Table.Position = &pos
		case "table.id":
			fc.Table.ID = tableID
		case "caption":
			c := caption
			fc.Caption = &c
		case "header":
			fc.Header.Names = splitList(header)
		case "no-header":
			fc.Header.Ignore = noHeader
		case "header.section":
			fc.Header.Section = headerSection
		case "header.offset":
			fc.Header.Offset = headerOffset
		case "include":
			fc.Sections.Include = splitList(include)
		case "exclude":
			fc.Sections.Exclude = splitList(exclude)
		case "strict":
			fc.Strict = strict
		}
	})
	return cfg, nil
}

func splitList(s string) []string {
	var list []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}

// run extracts every input concurrently and prints the tables in argument
// order. With no inputs the table is read from stdin.
func run(ctx context.Context, cfg config, stdin io.Reader, stdout io.Writer) error {
	formatter, err := export.Lookup(cfg.Format)
	if err != nil {
		return err
	}
	p, err := cfg.File.Parser()
	if err != nil {
		return err
	}
	p = p.WithLogger(log.Logger)

	if len(cfg.Inputs) == 0 {
		tbl, err := p.ParseReader(ctx, stdin)
		if err != nil {
			return err
		}
		return formatter.Format(tbl, stdout)
	}

	tables := make([]*model.Table, len(cfg.Inputs))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range cfg.Inputs {
		i, name := i, name
		g.Go(func() error {
			tbl, err := p.ParseFile(gctx, name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			log.Debug().Str("file", name).Int("records", tbl.RowCount()).Msg("extracted")
			tables[i] = tbl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, tbl := range tables {
		var buf bytes.Buffer
		if len(tables) > 1 {
			if i > 0 {
				buf.WriteString("\n")
			}
			fmt.Fprintf(&buf, "==> %s <==\n", cfg.Inputs[i])
		}
		if err := formatter.Format(tbl, &buf); err != nil {
			return err
		}
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
