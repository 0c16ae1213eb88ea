/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/cristianoliveira/nvr/internal/app"
	"github.com/cristianoliveira/nvr/internal/colors"
	nvrerrors "github.com/cristianoliveira/nvr/internal/errors"
	"github.com/cristianoliveira/nvr/internal/intent"
	"github.com/cristianoliveira/nvr/internal/ports"
	"github.com/cristianoliveira/nvr/internal/version"
	"github.com/spf13/cobra"
)

// EnvListenAddress names the environment variable holding the default endpoint.
const EnvListenAddress = "NVIM_LISTEN_ADDRESS"

// options mirrors the parsed flags of one invocation.
type options struct {
	serverName string

	remote              bool
	remoteWait          bool
	remoteSilent        bool
	remoteWaitSilent    bool
	remoteTab           bool
	remoteTabWait       bool
	remoteTabSilent     bool
	remoteTabWaitSilent bool

	send    string
	expr    string
	command string

	preCommands  []string
	postCommands []string

	split          bool
	vsplit         bool
	tab            bool
	previousWindow bool
	diff           bool
	silent         bool
	noStart        bool
	quickfix       string
	tag            string
	serverList     bool
}

func (o *options) wait() bool {
	return o.remoteWait || o.remoteWaitSilent || o.remoteTabWait || o.remoteTabWaitSilent
}

func (o *options) silentMode() bool {
	return o.silent || o.remoteSilent || o.remoteWaitSilent || o.remoteTabSilent || o.remoteTabWaitSilent
}

func (o *options) tabLayout() bool {
	return o.tab || o.remoteTab || o.remoteTabWait || o.remoteTabSilent || o.remoteTabWaitSilent
}

// NewRootCmd builds the nvr command around deps.
func NewRootCmd(deps Deps) *cobra.Command {
	if deps.Dialer == nil {
		panic("NewRootCmd: dialer dependency cannot be nil")
	}
	if deps.Spawner == nil {
		panic("NewRootCmd: spawner dependency cannot be nil")
	}

	opts := &options{}
	root := &cobra.Command{
		Use:           "nvr [flags] [files...]",
		Short:         "Remote control for Neovim.",
		Long:          `Open files in, send keys to and evaluate expressions in a running Neovim.`,
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, deps, opts, args)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate(versionTemplate)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return nvrerrors.Configf("%v", err)
	})
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		printHelpText(cmd)
	})

	flags := root.Flags()
	flags.SortFlags = false
	flags.StringVar(&opts.serverName, "servername", "", "address of the Neovim server (default $"+EnvListenAddress+")")

	flags.BoolVar(&opts.remote, "remote", false, "open files in the current window")
	flags.BoolVar(&opts.remoteWait, "remote-wait", false, "like --remote, then block until the buffers are closed")
	flags.BoolVar(&opts.remoteSilent, "remote-silent", false, "like --remote, without autostart notices")
	flags.BoolVar(&opts.remoteWaitSilent, "remote-wait-silent", false, "like --remote-wait, without autostart notices")
	flags.BoolVar(&opts.remoteTab, "remote-tab", false, "open files in new tabs")
	flags.BoolVar(&opts.remoteTabWait, "remote-tab-wait", false, "like --remote-tab, then block until the buffers are closed")
	flags.BoolVar(&opts.remoteTabSilent, "remote-tab-silent", false, "like --remote-tab, without autostart notices")
	flags.BoolVar(&opts.remoteTabWaitSilent, "remote-tab-wait-silent", false, "like --remote-tab-wait, without autostart notices")

	flags.StringVar(&opts.send, "remote-send", "", "send keys to the server")
	flags.StringVar(&opts.expr, "remote-expr", "", "evaluate an expression and print the result")
	flags.StringVar(&opts.command, "remote-command", "", "run an Ex command and print its output")

	flags.StringArrayVar(&opts.preCommands, "cc", nil, "run a command before opening files (repeatable)")
	flags.StringArrayVarP(&opts.postCommands, "post-command", "c", nil, "run a command after opening files (repeatable)")

	flags.BoolVarP(&opts.split, "split", "o", false, "open files in horizontal splits")
	flags.BoolVarP(&opts.vsplit, "vsplit", "O", false, "open files in vertical splits")
	flags.BoolVarP(&opts.tab, "tab", "p", false, "open files in tabs")
	flags.BoolVarP(&opts.previousWindow, "previous-window", "l", false, "go to the previous window before opening files")
	flags.BoolVarP(&opts.diff, "diff", "d", false, "open files in diff mode")
	flags.StringVarP(&opts.quickfix, "quickfix", "q", "", "load an error file into the quickfix list")
	flags.StringVarP(&opts.tag, "tag", "t", "", "jump to a tag")
	flags.BoolVarP(&opts.silent, "silent", "s", false, "suppress autostart notices")
	flags.BoolVar(&opts.noStart, "nostart", false, "never start a new server")
	flags.BoolVar(&opts.serverList, "serverlist", false, "print the addresses of known servers")

	return root
}

func runRoot(cmd *cobra.Command, deps Deps, opts *options, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if opts.serverList {
		return runServerList(ctx, deps, out)
	}

	params, err := buildParams(cmd, deps, opts, args)
	if err != nil {
		return err
	}
	in, err := intent.New(params)
	if err != nil {
		return err
	}
	if !hasWork(in) {
		printHelpText(cmd)
		return nil
	}

	registry, closeRegistry := openDepsRegistry(deps)
	defer func() {
		if err := closeRegistry(); err != nil {
			colors.Debug("closing registry: " + err.Error())
		}
	}()

	useCase := app.NewRemoteUseCase(deps.Dialer, deps.Spawner, registry, out)
	return useCase.Execute(ctx, app.RemoteInput{
		Intent:     in,
		ServerName: opts.serverName,
		EnvAddress: getenv(deps, EnvListenAddress),
		Autostart:  deps.Settings.Autostart,
	})
}

func buildParams(cmd *cobra.Command, deps Deps, opts *options, args []string) (intent.Params, error) {
	flags := cmd.Flags()
	params := intent.Params{
		Files:          args,
		Split:          opts.split,
		VSplit:         opts.vsplit,
		Tab:            opts.tabLayout(),
		DefaultLayout:  deps.Settings.DefaultLayout,
		PreCommands:    opts.preCommands,
		PostCommands:   opts.postCommands,
		Wait:           opts.wait(),
		Silent:         opts.silentMode() || deps.Settings.Silent,
		Autostart:      deps.Settings.AutostartEnabled && !opts.noStart,
		PreviousWindow: opts.previousWindow,
		Diff:           opts.diff,
		QuickfixFile:   opts.quickfix,
		Tag:            opts.tag,
	}
	if flags.Changed("remote-send") {
		params.Send = &opts.send
	}
	if flags.Changed("remote-expr") {
		params.Expr = &opts.expr
	}
	if flags.Changed("remote-command") {
		params.Command = &opts.command
	}

	if len(args) > 0 || opts.quickfix != "" {
		cwd, err := deps.Getwd()
		if err != nil {
			return params, nvrerrors.New(nvrerrors.KindInternal, "getwd", err)
		}
		params.Cwd = cwd
	}
	if containsStdin(args) {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return params, nvrerrors.New(nvrerrors.KindInternal, "read stdin", err)
		}
		params.Stdin = string(data)
	}
	return params, nil
}

func runServerList(ctx context.Context, deps Deps, out io.Writer) error {
	registry, closeRegistry := openDepsRegistry(deps)
	defer func() {
		if err := closeRegistry(); err != nil {
			colors.Debug("closing registry: " + err.Error())
		}
	}()

	var dirs []string
	if runtime := getenv(deps, "XDG_RUNTIME_DIR"); runtime != "" {
		dirs = append(dirs, runtime)
	}
	if deps.TempDir != nil {
		dirs = append(dirs, deps.TempDir())
	}
	return app.NewServerListUseCase(deps.Dialer, registry, out).Execute(ctx, app.ServerListInput{Dirs: dirs})
}

// hasWork reports whether in asks for anything beyond connecting.
func hasWork(in intent.Intent) bool {
	return in.HasFiles() ||
		in.Payload.Kind != intent.PayloadNone ||
		len(in.PreCommands) > 0 ||
		len(in.PostCommands) > 0 ||
		in.QuickfixFile != "" ||
		in.Tag != "" ||
		in.PreviousWindow
}

func containsStdin(args []string) bool {
	for _, arg := range args {
		if arg == intent.StdinFile {
			return true
		}
	}
	return false
}

func openDepsRegistry(deps Deps) (ports.ServerRegistry, func() error) {
	if deps.OpenRegistry == nil {
		return nil, func() error { return nil }
	}
	return deps.OpenRegistry()
}

func getenv(deps Deps, key string) string {
	if deps.Getenv == nil {
		return ""
	}
	return deps.Getenv(key)
}

// NormalizeArgs rewrites the single-dash long option -cc to --cc. Arguments
// after "--" are left untouched.
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		switch {
		case arg == "-cc":
			arg = "--cc"
		case strings.HasPrefix(arg, "-cc="):
			arg = "-" + arg
		}
		out = append(out, arg)
	}
	return out
}

// Execute parses args and runs the invocation with settings from the
// loaded configuration.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd(DefaultDeps(SettingsFromConfig()))
	root.SetArgs(NormalizeArgs(args))
	return root.ExecuteContext(ctx)
}
