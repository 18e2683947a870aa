package engine

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
)

// SmartSwitchMemory remembers, per host-supplied application identifier,
// which language was last used there (spec §4.9).
type SmartSwitchMemory struct {
	byApp map[string]Language
}

// NewSmartSwitchMemory returns an empty memory.
func NewSmartSwitchMemory() *SmartSwitchMemory {
	return &SmartSwitchMemory{byApp: make(map[string]Language)}
}

// GetAppLanguage looks up appID. If a preference is on record it is
// returned with ok=true. Otherwise current is recorded as the app's
// preference and ok=false ("unset") is returned — the host keeps its
// current language rather than switching.
func (s *SmartSwitchMemory) GetAppLanguage(appID string, current Language) (Language, bool) {
	if lang, ok := s.byApp[appID]; ok {
		return lang, true
	}
	s.byApp[appID] = current
	return current, false
}

// Set records appID's language preference explicitly (e.g. after the user
// manually switches language while appID is foreground).
func (s *SmartSwitchMemory) Set(appID string, lang Language) {
	s.byApp[appID] = lang
}

// SaveJSON writes the memory as a JSON object mapping app-id to language
// (0 or 1).
func (s *SmartSwitchMemory) SaveJSON(path string) error {
	data, err := json.MarshalIndent(s.asIntMap(), "", "  ")
	if err != nil {
		return fmt.Errorf("engine: marshal smart-switch json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("engine: write smart-switch json %s: %w", path, err)
	}
	return nil
}

// LoadJSON replaces the memory's contents from a JSON file written by
// SaveJSON.
func (s *SmartSwitchMemory) LoadJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("engine: read smart-switch json %s: %w", path, err)
	}
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("engine: unmarshal smart-switch json %s: %w", path, err)
	}
	byApp := make(map[string]Language, len(raw))
	for k, v := range raw {
		byApp[k] = Language(v)
	}
	s.byApp = byApp
	return nil
}

func (s *SmartSwitchMemory) asIntMap() map[string]int {
	m := make(map[string]int, len(s.byApp))
	for k, v := range s.byApp {
		m[k] = int(v)
	}
	return m
}

// SaveBinary writes the compact binary form: u16 record count (little
// endian), followed by count records of {u8 id_len, id_len bytes, u8 lang}.
func (s *SmartSwitchMemory) SaveBinary(path string) error {
	var buf bytes.Buffer
	if len(s.byApp) > 0xFFFF {
		return fmt.Errorf("engine: smart-switch memory has %d apps, exceeds u16 capacity", len(s.byApp))
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint16(len(s.byApp))); err != nil {
		return err
	}
	for appID, lang := range s.byApp {
		idBytes := []byte(appID)
		if len(idBytes) > 0xFF {
			return fmt.Errorf("engine: app id %q exceeds 255 bytes", appID)
		}
		buf.WriteByte(byte(len(idBytes)))
		buf.Write(idBytes)
		buf.WriteByte(byte(lang))
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("engine: write smart-switch binary %s: %w", path, err)
	}
	return nil
}

// LoadBinary replaces the memory's contents from a file written by
// SaveBinary.
func (s *SmartSwitchMemory) LoadBinary(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("engine: read smart-switch binary %s: %w", path, err)
	}
	r := bytes.NewReader(data)
	var count uint16
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("engine: read smart-switch binary header %s: %w", path, err)
	}

	byApp := make(map[string]Language, count)
	for i := 0; i < int(count); i++ {
		idLen, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("engine: truncated smart-switch binary %s: %w", path, err)
		}
		idBytes := make([]byte, idLen)
		if _, err := r.Read(idBytes); err != nil {
			return fmt.Errorf("engine: truncated smart-switch binary %s: %w", path, err)
		}
		lang, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("engine: truncated smart-switch binary %s: %w", path, err)
		}
		byApp[string(idBytes)] = Language(lang)
	}
	s.byApp = byApp
	return nil
}
