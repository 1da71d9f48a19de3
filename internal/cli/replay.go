package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdlive/internal/logging"
	"github.com/yaklabco/mdlive/pkg/config"
	"github.com/yaklabco/mdlive/pkg/edit"
	"github.com/yaklabco/mdlive/pkg/fsutil"
	"github.com/yaklabco/mdlive/pkg/inline"
	"github.com/yaklabco/mdlive/pkg/live"
	"github.com/yaklabco/mdlive/pkg/session"
	"github.com/yaklabco/mdlive/pkg/syntax"
	"github.com/yaklabco/mdlive/pkg/textpos"
	"github.com/yaklabco/mdlive/pkg/trigger"
)

// Reasons a replay frame was rendered.
const (
	frameInitial  = "initial"
	frameDebounce = "debounce"
	frameFlush    = "flush"
	frameFinal    = "final"
)

type replayFlags struct {
	script string
	json   bool
}

// replayScript is the YAML form of a scripted editing session.
type replayScript struct {
	Steps []replayStep `yaml:"steps"`
}

// replayStep holds exactly one action.
type replayStep struct {
	Move    *int          `yaml:"move"`
	Type    *string       `yaml:"type"`
	Delete  int           `yaml:"delete"`
	Replace *replaceStep  `yaml:"replace"`
	Space   bool          `yaml:"space"`
	Click   *int          `yaml:"click"`
	Mode    string        `yaml:"mode"`
	Wait    time.Duration `yaml:"wait"`
	Flush   bool          `yaml:"flush"`
}

type replaceStep struct {
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
	Text  string `yaml:"text"`
}

// action names the step's action. It fails unless exactly one is set.
func (s replayStep) action() (string, error) {
	var set []string
	add := func(name string, ok bool) {
		if ok {
			set = append(set, name)
		}
	}
	add("move", s.Move != nil)
	add("type", s.Type != nil)
	add("delete", s.Delete != 0)
	add("replace", s.Replace != nil)
	add("space", s.Space)
	add("click", s.Click != nil)
	add("mode", s.Mode != "")
	add("wait", s.Wait != 0)
	add("flush", s.Flush)

	switch len(set) {
	case 0:
		return "", errors.New("no action")
	case 1:
		return set[0], nil
	default:
		return "", fmt.Errorf("more than one action: %s", strings.Join(set, ", "))
	}
}

// replayFrame is one render produced while replaying.
type replayFrame struct {
	Step               int            `json:"step"`
	Action             string         `json:"action"`
	Reason             string         `json:"reason"`
	ElapsedMS          int64          `json:"elapsed_ms"`
	Mode               live.Mode      `json:"mode"`
	Cursor             textpos.Cursor `json:"cursor"`
	ActiveElementIndex int            `json:"active_element_index"`
	RenderedContent    string         `json:"rendered_content"`
}

// replayOutput is the --json form of a replay.
type replayOutput struct {
	Session  string        `json:"session"`
	Debounce string        `json:"debounce"`
	Content  string        `json:"content"`
	Frames   []replayFrame `json:"frames"`
}

// replayClock is the detector's clock. Only wait steps move it.
type replayClock struct {
	start time.Time
	now   time.Time
}

func newReplayClock() *replayClock {
	t := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return &replayClock{start: t, now: t}
}

func (c *replayClock) Now() time.Time          { return c.now }
func (c *replayClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
func (c *replayClock) Elapsed() time.Duration  { return c.now.Sub(c.start) }

func newReplayCommand() *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay FILE --script SCRIPT",
		Short: "Replay scripted edits through a live editing session",
		Long: `Open FILE in a live editing session and replay the editor actions in
SCRIPT, printing every render the session produces. Renders are debounced with
the trigger settings from the configuration; time only passes on wait steps.

Each step in SCRIPT has exactly one action:

  move: N             move the cursor to byte offset N
  type: TEXT          insert TEXT at the cursor
  delete: N           delete N bytes before the cursor
  replace: {start: S, end: E, text: TEXT}
  space: true         type a space and report the space key
  click: N            click the rendered element at raw offset N
  mode: raw|live|preview
  wait: DURATION      let time pass, e.g. 200ms
  flush: true         render now with whatever is pending`,
		Example: `  mdlive replay README.md --script edits.yaml
  mdlive replay README.md --script edits.yaml --json`,
		Args: exactlyOneFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.script, "script", "s", "", "YAML file with the editor actions to replay")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the frames as JSON")

	return cmd
}

func runReplay(cmd *cobra.Command, path string, flags *replayFlags) error {
	if flags.script == "" {
		return usageError(errors.New("--script is required"))
	}

	cfg, err := loadConfig(cmd, formatOverride(flags.json))
	if err != nil {
		return err
	}

	content, err := readDocument(cmd, path)
	if err != nil {
		return err
	}

	script, err := readReplayScript(cmd, flags.script)
	if err != nil {
		return err
	}

	logger := commandLogger(cmd)
	clock := newReplayClock()
	settings := cfg.TriggerSettings()

	sess := session.New(content,
		session.WithLogger(logger),
		session.WithDetector(trigger.New(settings, trigger.WithClock(clock.Now), trigger.WithLogger(logger))),
		session.WithIntegration(live.New(
			live.WithParser(syntax.New(append(cfg.ParserOptions(), syntax.WithLogger(logger))...)),
			live.WithRenderer(inline.New(cfg.RendererOptions()...)),
			live.WithLogger(logger),
		)),
	)

	frames, err := replay(sess, clock, script.Steps, logger)
	if err != nil {
		return err
	}

	if cfg.Format == config.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), replayOutput{
			Session:  sess.ID(),
			Debounce: settings.DebounceDelay.String(),
			Content:  sess.Content(),
			Frames:   frames,
		})
	}

	var buf bytes.Buffer
	writeFrames(&buf, frames, outputStyles(cmd).Dim)
	return writeOutput(cmd, "", buf.Bytes())
}

func readReplayScript(cmd *cobra.Command, path string) (*replayScript, error) {
	data, err := fsutil.ReadFile(commandContext(cmd), path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var script replayScript
	if err := dec.Decode(&script); err != nil && !errors.Is(err, io.EOF) {
		return nil, usageError(fmt.Errorf("parse script %s: %w", path, err))
	}
	for i, step := range script.Steps {
		if _, err := step.action(); err != nil {
			return nil, usageError(fmt.Errorf("script %s step %d: %w", path, i+1, err))
		}
	}
	return &script, nil
}

// replay runs steps against sess. After every step the session is polled,
// so a render appears in the frame of the step that closed its debounce
// window. Events still pending at the end are flushed into a final frame.
func replay(sess *session.Session, clock *replayClock, steps []replayStep, logger *log.Logger) ([]replayFrame, error) {
	snap := sess.Snapshot()
	frames := []replayFrame{newFrame(0, "", frameInitial, clock, snap, snap.Result)}

	for i, step := range steps {
		n := i + 1
		action, _ := step.action()

		if err := applyStep(sess, clock, step); err != nil {
			return nil, usageError(fmt.Errorf("step %d (%s): %w", n, action, err))
		}

		if step.Flush {
			res := sess.Flush()
			frames = append(frames, newFrame(n, action, frameFlush, clock, sess.Snapshot(), res))
			continue
		}
		if res, ok := sess.Poll(); ok {
			frames = append(frames, newFrame(n, action, frameDebounce, clock, sess.Snapshot(), res))
		}
	}

	if sess.Snapshot().Pending > 0 {
		res := sess.Flush()
		frames = append(frames, newFrame(len(steps), "", frameFinal, clock, sess.Snapshot(), res))
	}

	logger.Debug("replay finished",
		logging.FieldSession, sess.ID(),
		logging.FieldContentLen, len(sess.Content()))
	return frames, nil
}

func applyStep(sess *session.Session, clock *replayClock, step replayStep) error {
	cur := sess.Cursor().Absolute

	switch {
	case step.Move != nil:
		sess.MoveCursor(textpos.At(*step.Move))
	case step.Type != nil:
		return sess.ApplyEdit(edit.Replace(cur, cur, *step.Type))
	case step.Delete != 0:
		if step.Delete < 0 {
			return fmt.Errorf("delete count %d is negative", step.Delete)
		}
		return sess.ApplyEdit(edit.Replace(max(cur-step.Delete, 0), cur, ""))
	case step.Replace != nil:
		return sess.ApplyEdit(edit.Replace(step.Replace.Start, step.Replace.End, step.Replace.Text))
	case step.Space:
		if err := sess.ApplyEdit(edit.Replace(cur, cur, " ")); err != nil {
			return err
		}
		sess.PressSpace()
	case step.Click != nil:
		sess.Click(*step.Click)
	case step.Mode != "":
		mode, err := live.ParseMode(step.Mode)
		if err != nil {
			return err
		}
		sess.SwitchMode(mode)
	case step.Wait != 0:
		if step.Wait < 0 {
			return fmt.Errorf("wait %s is negative", step.Wait)
		}
		clock.Advance(step.Wait)
	}
	return nil
}

func newFrame(step int, action, reason string, clock *replayClock, snap session.Snapshot, res live.Result) replayFrame {
	return replayFrame{
		Step:               step,
		Action:             action,
		Reason:             reason,
		ElapsedMS:          clock.Elapsed().Milliseconds(),
		Mode:               snap.Mode,
		Cursor:             snap.Cursor,
		ActiveElementIndex: res.ActiveElementIndex,
		RenderedContent:    res.RenderedContent,
	}
}

func writeFrames(w io.Writer, frames []replayFrame, header lipgloss.Style) {
	for _, f := range frames {
		line := fmt.Sprintf("step %d +%dms %s", f.Step, f.ElapsedMS, f.Reason)
		if f.Action != "" {
			line += " after " + f.Action
		}
		if f.ActiveElementIndex != live.NoElement {
			line += fmt.Sprintf(" (active %d)", f.ActiveElementIndex)
		}
		fmt.Fprintln(w, header.Render(line))
		fmt.Fprintln(w, f.RenderedContent)
	}
}
