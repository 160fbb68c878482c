package wm

import (
	"errors"

	"github.com/mj1618/tilewm/internal/command"
	"github.com/mj1618/tilewm/internal/config"
	"github.com/mj1618/tilewm/internal/container"
)

// runWindowRules applies every rule registered for ev whose match entries
// fit win, in config order. Rules stop once a command removes win from the
// tree.
func (w *WM) runWindowRules(win *container.Container, ev config.RuleEvent) {
	props := config.WindowProps{
		Process: win.Window.ProcessName,
		Class:   win.Window.ClassName,
		Title:   win.Window.Title,
	}
	id := win.ID()
	for i, rule := range w.cfg.WindowRules {
		if !w.tree.Contains(win) {
			return
		}
		if !rule.RunsOn(ev) || (rule.RunOnce && win.Window.RulesRun[i]) || !rule.Matches(props) {
			continue
		}
		if rule.RunOnce {
			win.Window.RulesRun[i] = true
		}
		w.logger.Debug("window rule matched", "rule", i, "event", ev, "window", win.Window.Handle)
		if err := w.runCommandStrings(rule.Commands, &id); err != nil {
			w.logger.Warn("window rule command failed", "rule", i, "err", err)
		}
	}
}

// runCommandStrings parses and invokes lines in order against subject (nil
// means the focused container). It stops quietly once subject has left
// the tree.
func (w *WM) runCommandStrings(lines []string, subject *container.ID) error {
	cmds, err := command.ParseAll(lines)
	if err != nil {
		return err
	}
	var errs []error
	for _, cmd := range cmds {
		if subject != nil {
			if _, err := w.tree.Get(*subject); err != nil {
				return nil
			}
		}
		if _, err := w.Invoke(cmd, subject); err != nil {
			if errors.Is(err, ErrExit) {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
