package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/walletbridge/internal/bridge"
	"github.com/dmitrijs2005/walletbridge/internal/buildinfo"
	"github.com/dmitrijs2005/walletbridge/internal/config"
	"github.com/dmitrijs2005/walletbridge/internal/cryptox"
	"github.com/dmitrijs2005/walletbridge/internal/flagx"
	"github.com/dmitrijs2005/walletbridge/internal/logging"
	"github.com/dmitrijs2005/walletbridge/internal/store"

	gs "github.com/dmitrijs2005/walletbridge/internal/server/grpc"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var errUsage = errors.New("usage")

// readPassword and isTerminal are test seams for x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

type App struct {
	config *config.Config
	logger logging.Logger
	stdin  *os.File
	stdout io.Writer
	stderr io.Writer

	// dial is replaced in tests.
	dial func(addr string) (Runner, io.Closer, error)
}

func NewApp(c *config.Config, stdin *os.File, stdout, stderr io.Writer) (*App, error) {
	logger, err := logging.New(c.LogLevel, c.LogFormat, stderr)
	if err != nil {
		return nil, err
	}
	return &App{
		config: c,
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		dial:   dialRemote,
	}, nil
}

func dialRemote(addr string) (Runner, io.Closer, error) {
	conn, err := gs.Dial(addr)
	if err != nil {
		return nil, nil, err
	}
	return gs.NewClient(conn), conn, nil
}

type options struct {
	path    string
	key     string
	name    string
	value   string
	file    string
	remote  string
	setName bool
	setVal  bool
}

// Run executes one command and returns the process exit code. args exclude
// the program name and may still contain config flags.
func (a *App) Run(ctx context.Context, args []string) int {
	args = flagx.StripArgs(args, append([]string{"-c", "-config", "--config"}, config.Flags...))
	if len(args) == 0 {
		a.usage()
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "genkey":
		fmt.Fprintln(a.stdout, cryptox.GenerateRawKey())
		return ExitOK
	case "version":
		buildinfo.PrintBuildData(a.stdout)
		return ExitOK
	case "help", "-h", "--help":
		a.usage()
		return ExitOK
	case "provision", "insert", "list", "import", "categories":
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n", cmd)
		a.usage()
		return ExitUsage
	}

	opts, err := a.parse(cmd, rest)
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(a.stderr, "error:", err)
		}
		return ExitUsage
	}

	out, err := a.execute(ctx, cmd, opts)
	if err != nil {
		fmt.Fprintln(a.stderr, "error:", err)
		return ExitFailure
	}

	fmt.Fprintln(a.stdout, out)
	if !succeeded(out) {
		return ExitFailure
	}
	return ExitOK
}

func (a *App) parse(cmd string, args []string) (*options, error) {
	o := &options{remote: a.config.RemoteAddr}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.StringVar(&o.path, "w", "", "wallet path or store URI")
	fs.StringVar(&o.key, "k", "", "wallet key (prompted when omitted)")
	fs.StringVar(&o.remote, "r", o.remote, "walletd address; empty runs locally")
	if cmd == "insert" {
		fs.StringVar(&o.name, "n", "", "entry name")
		fs.StringVar(&o.value, "v", "", "entry value, stored verbatim")
	}
	if cmd == "import" {
		fs.StringVar(&o.file, "f", "-", "payload file, - for stdin")
	}

	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			o.setName = true
		case "v":
			o.setVal = true
		}
	})

	if o.path == "" {
		return nil, errors.New("-w is required")
	}
	if cmd == "insert" && (!o.setName || !o.setVal) {
		return nil, errors.New("insert requires -n and -v")
	}
	if o.key == "" {
		key, err := a.promptKey()
		if err != nil {
			return nil, err
		}
		o.key = key
	}
	return o, nil
}

func (a *App) promptKey() (string, error) {
	fd := int(a.stdin.Fd())
	if !isTerminal(fd) {
		return "", errors.New("-k is required when stdin is not a terminal")
	}
	fmt.Fprint(a.stderr, "Enter wallet key: ")
	b, err := readPassword(fd)
	fmt.Fprintln(a.stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (a *App) execute(ctx context.Context, cmd string, o *options) (string, error) {
	r, closer, err := a.runner(o.remote)
	if err != nil {
		return "", err
	}
	if closer != nil {
		defer closer.Close()
	}

	switch cmd {
	case "provision":
		return r.Provision(ctx, o.path, o.key)
	case "insert":
		return r.InsertEntry(ctx, o.path, o.key, o.name, o.value)
	case "list":
		return r.ListEntries(ctx, o.path, o.key)
	case "categories":
		return r.ListCategories(ctx, o.path, o.key)
	case "import":
		payload, err := a.readPayload(o.file)
		if err != nil {
			return "", err
		}
		return r.ImportBulk(ctx, o.path, o.key, payload)
	}
	return "", fmt.Errorf("unknown command %q", cmd)
}

func (a *App) runner(remote string) (Runner, io.Closer, error) {
	if remote != "" {
		a.logger.Debug(context.Background(), "using remote walletd", "address", remote)
		return a.dial(remote)
	}
	method, err := store.ParseKeyMethod(a.config.KeyMethod)
	if err != nil {
		return nil, nil, err
	}
	b := bridge.New(bridge.Config{KeyMethod: method, Logger: a.logger})
	return localRunner{b: b}, nil, nil
}

func (a *App) readPayload(file string) (string, error) {
	var (
		data []byte
		err  error
	)
	if file == "" || file == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read payload: %w", err)
	}
	return string(data), nil
}

func succeeded(envelope string) bool {
	var e struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal([]byte(envelope), &e); err != nil {
		return false
	}
	return e.Success
}

func (a *App) usage() {
	fmt.Fprint(a.stderr, `usage: walletctl <command> [flags]

commands:
  genkey                           print a new raw key
  version                          print build information
  provision  -w PATH [-k KEY]      create a fresh wallet, replacing any file at PATH
  insert     -w PATH [-k KEY] -n NAME -v VALUE
  list       -w PATH [-k KEY]
  import     -w PATH [-k KEY] [-f FILE|-]
  categories -w PATH [-k KEY]

common flags:
  -r ADDR     send the call to walletd at ADDR
  -c FILE     config file (JSON or YAML)
`)
}
