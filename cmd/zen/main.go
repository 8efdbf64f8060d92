package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Zentiph/Zen/pkg/driver"
	"github.com/Zentiph/Zen/pkg/lexer"
	"github.com/Zentiph/Zen/pkg/source"
	"github.com/alecthomas/kong"
	"github.com/dlclark/regexp2"
)

type CLI struct {
	Dialect    string `help:"Keyword dialect to tokenize with" enum:"default,typed" default:"default"`
	WindowSize int    `name:"window-size" placeholder:"BYTES" help:"Read buffer size in bytes (0 uses the built-in default)"`

	Tokens tokensCommand `cmd:"" default:"withargs" help:"Print the token stream of Zen source"`
	Check  checkCommand  `cmd:"" help:"Tokenize Zen source and report any errors"`
	Repl   replCommand   `cmd:"" help:"Tokenize lines interactively"`
}

type Context struct {
	session *driver.Zen
}

func (cli CLI) AfterApply(kongCtx *kong.Context) error {
	dialect := lexer.DefaultDialect
	if cli.Dialect == "typed" {
		dialect = lexer.TypedDialect
	}

	session := driver.NewZenWithDialect(dialect)
	if cli.WindowSize > 0 {
		var err error
		session, err = driver.NewZenWithGeometry(dialect, cli.WindowSize, 1)
		if err != nil {
			return fmt.Errorf("command line options: %w", err)
		}
	}

	kongCtx.Bind(Context{session: session})
	return nil
}

type tokensCommand struct {
	Paths      []string `arg:"" optional:"" name:"path" help:"Zen source files (stdin when omitted)"`
	Filter     string   `placeholder:"REGEX" help:"Only print tokens whose kind or lexeme matches REGEX"`
	NoComments bool     `help:"Skip comment tokens"`
}

func (c *tokensCommand) Run(cctx Context) error {
	filter, err := compileFilter(c.Filter)
	if err != nil {
		return err
	}

	if len(c.Paths) == 0 {
		return c.printStream(cctx.session.StreamReader(bufio.NewReader(os.Stdin)), filter)
	}

	for i, path := range c.Paths {
		src, err := source.Load(path)
		if err != nil {
			return fmt.Errorf("failed to read file '%s': %w", path, err)
		}
		if len(c.Paths) > 1 {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s:\n", src.DisplayPath())
		}
		if err := c.printStream(cctx.session.Stream(src), filter); err != nil {
			return err
		}
	}
	return nil
}

func (c *tokensCommand) printStream(s *driver.Stream, filter *regexp2.Regexp) error {
	for ; !s.CurIs(lexer.KindEOF); s.Next() {
		tok := s.Cur()
		if c.NoComments && tok.Kind == lexer.KindComment {
			continue
		}
		if filter != nil {
			match, err := matchToken(filter, tok)
			if err != nil {
				return err
			}
			if !match {
				continue
			}
		}
		fmt.Println(tok)
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	return nil
}

func matchToken(filter *regexp2.Regexp, tok lexer.Token) (bool, error) {
	if ok, err := filter.MatchString(tok.Kind.String()); err != nil || ok {
		return ok, err
	}
	return filter.MatchString(tok.Lexeme)
}

func compileFilter(expr string) (*regexp2.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	filter, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return filter, nil
}

type checkCommand struct {
	Paths   []string `arg:"" optional:"" name:"path" help:"Zen source files (stdin when omitted)"`
	Workers int      `help:"Concurrent workers for multiple files (0 means one per CPU)"`
}

func (c *checkCommand) Run(cctx Context) error {
	if len(c.Paths) == 0 {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading input: %w", err)
		}
		text, err := source.Decode(raw)
		if err != nil {
			return err
		}
		res := cctx.session.TokenizeSource(source.NewStdinSource(text))
		if !cctx.session.DisplayResult(res) {
			os.Exit(1)
		}
		return nil
	}

	results, err := cctx.session.TokenizeFiles(context.Background(), c.Paths, c.Workers)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if !cctx.session.DisplayResult(res) {
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d files had errors\n", failed, len(results))
		os.Exit(1)
	}
	return nil
}

type replCommand struct{}

func (*replCommand) Run(cctx Context) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Zen tokenizer (Ctrl+C to exit)")
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("error reading input: %w", err)
		}

		if line == "\n" { // Skip empty lines
			continue
		}

		res := cctx.session.TokenizeSource(source.NewReplSource(strings.TrimSuffix(line, "\n")))
		for _, tok := range res.Tokens {
			fmt.Println(tok)
		}
		_ = cctx.session.DisplayResult(res) // Ignore the bool return in the REPL
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("zen"),
		kong.Description("Tokenizer and token stream inspector for the Zen language."),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
