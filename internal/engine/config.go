package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EngineSettings is the full set of user-configurable engine behaviors
// (spec §6). Every field defaults to its Vietnamese-typing-friendly value
// except the opt-in shortcuts, which default off.
type EngineSettings struct {
	InputMethod InputMethodKind `toml:"input_method"`
	CodeTable   CodeTableKind   `toml:"code_table"`

	ModernStyle            bool `toml:"modern_style"`
	SpellCheckEnabled      bool `toml:"spell_check_enabled"`
	FixAutocomplete        bool `toml:"fix_autocomplete"`
	FreeMarking            bool `toml:"free_marking"`
	QuickTelex             bool `toml:"quick_telex"`
	QuickStartConsonant    bool `toml:"quick_start_consonant"`
	QuickEndConsonant      bool `toml:"quick_end_consonant"`
	UpperCaseFirstChar     bool `toml:"upper_case_first_char"`
	RestoreIfWrongSpelling bool `toml:"restore_if_wrong_spelling"`
	AllowConsonantZFWJ     bool `toml:"allow_consonant_zfwj"`
	TempOffSpelling        bool `toml:"temp_off_spelling"`
	TempOffEngine          bool `toml:"temp_off_engine"`
	MacroEnabled           bool `toml:"macro_enabled"`
	MacroInEnglishMode     bool `toml:"macro_in_english_mode"`
	AutoCapsMacro          bool `toml:"auto_caps_macro"`
	SmartSwitchEnabled     bool `toml:"smart_switch_enabled"`
}

// DefaultSettings returns the out-of-the-box configuration: Telex, Unicode,
// modern style, spell-checking and restore on, shortcuts off.
func DefaultSettings() EngineSettings {
	return EngineSettings{
		InputMethod:            MethodTelex,
		CodeTable:              CodeTableUnicode,
		ModernStyle:            true,
		SpellCheckEnabled:      true,
		RestoreIfWrongSpelling: true,
		SmartSwitchEnabled:     true,
	}
}

// ConfigPath returns the settings file location, honoring XDG_CONFIG_HOME
// the way a well-behaved Linux daemon does.
func ConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "goviet-ime", "settings.toml")
}

// LoadSettings reads settings from path, falling back to DefaultSettings if
// the file does not exist.
func LoadSettings(path string) (EngineSettings, error) {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return EngineSettings{}, fmt.Errorf("engine: decode settings %s: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes settings to path, creating parent directories as
// needed.
func SaveSettings(path string, s EngineSettings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("engine: mkdir for settings %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("engine: create settings %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("engine: encode settings %s: %w", path, err)
	}
	return nil
}
