package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/photobooth-go/config"
	"github.com/soocke/photobooth-go/domain/filter"
	"github.com/soocke/photobooth-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// SettingsPanel edits the persisted booth defaults. Values written here take
// effect the next time the booth starts.
type SettingsPanel interface {
	Build(parent *FrameWidget, startRow int) (endRow int)
	ApplyChanges() error
}

type settingsPanel struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	result  *LabelWidget
	widgets map[string]*TextWidget // keyed by internal field id
}

func NewSettingsPanel(cfg *config.Config, cfgPath string, logger *slog.Logger) SettingsPanel {
	return &settingsPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget)}
}

func (v *settingsPanel) Build(parent *FrameWidget, startRow int) (row int) {
	c := v.cfg
	row = startRow
	title := parent.TLabel(Txt("Booth settings"), Style(theme.StyleTitleLabel))
	Grid(title, Row(row), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	row++
	makeRow := func(id, label, value string) {
		lbl := parent.Label(Txt(label), Anchor("w"), Background(theme.ColorBg), Foreground(theme.ColorText))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := parent.Text(Height(1), Width(24))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("outputDir", "Output folder", c.OutputDir)
	makeRow("interval", "Default timer (3 or 10 s)", strconv.Itoa(c.IntervalSeconds))
	makeRow("filter", "Default filter", c.Filter)
	makeRow("mirror", "Mirror (true/false)", fmt.Sprintf("%t", c.Mirror))
	makeRow("feedFPS", "Feed FPS", strconv.Itoa(c.FeedFPS))
	makeRow("jpegQuality", "Photo quality (1-100)", strconv.Itoa(c.JPEGQuality))
	apply := parent.TButton(Txt("Save Settings"), Style(theme.StylePrimaryButton), Command(func() { _ = v.ApplyChanges() }))
	Grid(apply, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	v.result = parent.Label(Txt(""), Background(theme.ColorBg), Foreground(theme.ColorTextMuted))
	Grid(v.result, Row(row), Column(1), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *settingsPanel) text(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

// ApplyChanges parses the form into a copy of the config, validates it and
// persists it. The live config is only replaced when saving succeeds.
func (v *settingsPanel) ApplyChanges() error {
	if v.cfg == nil {
		return nil
	}
	cfg := *v.cfg
	if s, ok := v.text("outputDir"); ok && s != "" {
		cfg.OutputDir = s
	}
	if s, ok := v.text("interval"); ok {
		if i, ok := parseIntField(s); ok {
			cfg.IntervalSeconds = i
		}
	}
	if s, ok := v.text("filter"); ok {
		if _, err := filter.Parse(s); err == nil {
			cfg.Filter = s
		}
	}
	if s, ok := v.text("mirror"); ok {
		if b, ok := parseBoolLoose(s); ok {
			cfg.Mirror = b
		}
	}
	if s, ok := v.text("feedFPS"); ok {
		if i, ok := parseIntField(s); ok {
			cfg.FeedFPS = i
		}
	}
	if s, ok := v.text("jpegQuality"); ok {
		if i, ok := parseIntField(s); ok {
			cfg.JPEGQuality = i
		}
	}
	if err := cfg.Validate(); err != nil {
		v.setResult("Invalid settings: " + err.Error())
		return err
	}
	if err := cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
		v.setResult("Saving failed: " + err.Error())
		return err
	}
	*v.cfg = cfg
	if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	v.setResult("Saved. Applies on next start.")
	return nil
}

func (v *settingsPanel) setResult(text string) {
	if v.result != nil {
		v.result.Configure(Txt(text))
	}
}

func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}

func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
