package composable

import (
	"strings"

	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/logging"
	"github.com/dshills/ksreactive/internal/reactive"
)

// StatusBarItemOptions describes a status bar item. Unset fields leave the
// item's property alone; an unset Visible shows the item.
type StatusBarItemOptions struct {
	ID        string
	Alignment host.StatusBarAlignment
	Priority  int
	Text      reactive.Value[string]
	Tooltip   reactive.Value[string]
	Command   reactive.Value[string]
	Visible   reactive.Value[bool]
}

// UseStatusBarItem creates a status bar item whose properties follow opts.
// The item is disposed with s.
func UseStatusBarItem(s *reactive.Scope, win host.Window, opts StatusBarItemOptions) host.StatusBarItem {
	align := opts.Alignment
	if align == 0 {
		align = host.StatusBarLeft
	}
	item := UseDisposable(s, win.CreateStatusBarItem(opts.ID, align, opts.Priority))

	bind := func(v reactive.Value[string], set func(string)) {
		if !v.IsSet() {
			return
		}
		reactive.WatchEffect(s, func() {
			text := v.Get()
			untracked(func() { set(text) })
		})
	}
	bind(opts.Text, item.SetText)
	bind(opts.Tooltip, item.SetTooltip)
	bind(opts.Command, item.SetCommand)

	reactive.WatchEffect(s, func() {
		show := opts.Visible.GetOr(true)
		untracked(func() {
			if show {
				item.Show()
			} else {
				item.Hide()
			}
		})
	})

	return item
}

// UseOutputChannel creates an output channel that is disposed with s.
func UseOutputChannel(s *reactive.Scope, win host.Window, name string) host.OutputChannel {
	return UseDisposable(s, win.CreateOutputChannel(name))
}

// channelWriter adapts an output channel to io.Writer.
type channelWriter struct {
	ch host.OutputChannel
}

func (w channelWriter) Write(p []byte) (int, error) {
	w.ch.Append(string(p))
	return len(p), nil
}

// UseLogger returns a logger that writes to a new output channel named
// name. The channel is disposed with s.
func UseLogger(s *reactive.Scope, win host.Window, name string, level logging.Level) *logging.Logger {
	ch := UseOutputChannel(s, win, name)
	return logging.New(logging.Config{
		Level:  level,
		Output: channelWriter{ch: ch},
		Prefix: strings.ToLower(name),
	})
}
