package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/username/goviet-ime/internal/engine"
)

const (
	serviceName = "com.github.goviet.ime"
	objectPath  = "/Engine"
)

// InputEngine is the D-Bus object that receives key events from the Fcitx5
// frontend and drives the Transformation Engine.
type InputEngine struct {
	eng         *engine.Engine
	macros      *engine.MacroStore
	smartSwitch *engine.SmartSwitchMemory
}

// NewInputEngine creates a new InputEngine, loading settings and macro/
// smart-switch state from their on-disk locations if present.
func NewInputEngine() *InputEngine {
	settings, err := engine.LoadSettings(engine.ConfigPath())
	if err != nil {
		log.Warn().Err(err).Msg("failed to load settings, using defaults")
		settings = engine.DefaultSettings()
	}

	macros := engine.NewMacroStore()
	smartSwitch := engine.NewSmartSwitchMemory()

	return &InputEngine{
		eng:         engine.NewEngine(settings, macros, smartSwitch),
		macros:      macros,
		smartSwitch: smartSwitch,
	}
}

// ProcessKey handles one key event from the frontend. It returns whether the
// key was consumed, how many characters to delete before the cursor, the
// replacement text (in reading order), and the raw HookState op code so the
// frontend can special-case macro expansion and restore.
func (e *InputEngine) ProcessKey(keysym uint32, modifiers uint32) (bool, int32, string, int32, *dbus.Error) {
	caps := modifiers&engine.ModShift != 0 || modifiers&engine.ModLock != 0
	hook := e.eng.HandleKey(uint16(keysym), caps)

	text := hookStateText(hook)
	handled := hook.Op != engine.OpIgnore && hook.Op != engine.OpDoNothing

	log.Debug().
		Uint32("keysym", keysym).
		Uint32("mods", modifiers).
		Int("op", int(hook.Op)).
		Int("backspaces", hook.BackspaceCount).
		Str("text", text).
		Msg("processed key")

	return handled, int32(hook.BackspaceCount), text, int32(hook.Op), nil
}

// hookStateText renders a HookState's replacement into reading-order text:
// CharData is reverse-order, REPLACE_MACRO carries its text directly in
// MacroData.
func hookStateText(hook engine.HookState) string {
	if hook.Op == engine.OpReplaceMacro {
		return hook.MacroData
	}
	runes := make([]rune, len(hook.CharData))
	for i, pc := range hook.CharData {
		r, err := engine.ToUnicode(pc)
		if err != nil {
			log.Warn().Err(err).Msg("unresolvable packed character")
			continue
		}
		runes[len(runes)-1-i] = r
	}
	return string(runes)
}

// Reset clears the current composition state.
func (e *InputEngine) Reset() *dbus.Error {
	e.eng.Reset()
	log.Info().Msg("engine reset")
	return nil
}

// SetEnabled toggles the engine entirely off (equivalent to TempOffEngine).
func (e *InputEngine) SetEnabled(enabled bool) *dbus.Error {
	settings := e.eng.GetSettings()
	settings.TempOffEngine = !enabled
	e.eng.SetSettings(settings)
	log.Info().Bool("enabled", enabled).Msg("engine enabled state changed")
	return nil
}

// SetLanguage switches between Vietnamese (1) and English (0) typing.
func (e *InputEngine) SetLanguage(lang int32) *dbus.Error {
	e.eng.SetLanguage(engine.Language(lang))
	log.Info().Int32("language", lang).Msg("language switched")
	return nil
}

// NotifyAppFocus implements Smart-Switch Memory's foreground-change hook;
// returns the language the engine adopted (-1 if no change was made).
func (e *InputEngine) NotifyAppFocus(appID string) (int32, *dbus.Error) {
	if lang := e.eng.HandleAppSwitch(appID); lang != nil {
		log.Info().Str("app_id", appID).Int("language", int(*lang)).Msg("app focus switched language")
		return int32(*lang), nil
	}
	log.Debug().Str("app_id", appID).Msg("app focus changed")
	return -1, nil
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logFile, err := os.OpenFile("goviet-ime.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Error().Err(err).Msg("failed to open log file, logging to stderr only")
	} else {
		defer logFile.Close()
		log.Logger = log.Output(zerolog.MultiLevelWriter(os.Stderr, logFile))
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to session bus")
	}
	defer conn.Close()

	reply, err := conn.RequestName(serviceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to request bus name")
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		log.Fatal().Msg("bus name already taken, another instance may be running")
	}

	inputEngine := NewInputEngine()
	if err := conn.Export(inputEngine, dbus.ObjectPath(objectPath), serviceName); err != nil {
		log.Fatal().Err(err).Msg("failed to export D-Bus object")
	}

	log.Info().
		Str("service", serviceName).
		Str("object_path", objectPath).
		Msg("goviet-ime backend running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("shutting down")
}
