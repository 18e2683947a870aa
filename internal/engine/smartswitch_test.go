package engine

import (
	"path/filepath"
	"testing"
)

func TestSmartSwitchMemory_GetAppLanguageFirstVisitRecordsCurrent(t *testing.T) {
	s := NewSmartSwitchMemory()
	lang, ok := s.GetAppLanguage("terminal", LanguageVietnamese)
	if ok {
		t.Fatal("first visit should report ok=false")
	}
	if lang != LanguageVietnamese {
		t.Errorf("first visit language = %v, want %v", lang, LanguageVietnamese)
	}

	// second visit returns the recorded preference.
	lang, ok = s.GetAppLanguage("terminal", LanguageEnglish)
	if !ok {
		t.Fatal("second visit should report ok=true")
	}
	if lang != LanguageVietnamese {
		t.Errorf("second visit language = %v, want recorded %v", lang, LanguageVietnamese)
	}
}

func TestSmartSwitchMemory_Set(t *testing.T) {
	s := NewSmartSwitchMemory()
	s.Set("browser", LanguageEnglish)
	lang, ok := s.GetAppLanguage("browser", LanguageVietnamese)
	if !ok || lang != LanguageEnglish {
		t.Errorf("GetAppLanguage after Set = (%v, %v), want (%v, true)", lang, ok, LanguageEnglish)
	}
}

func TestSmartSwitchMemory_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smartswitch.json")

	s := NewSmartSwitchMemory()
	s.Set("terminal", LanguageEnglish)
	s.Set("editor", LanguageVietnamese)
	if err := s.SaveJSON(path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	loaded := NewSmartSwitchMemory()
	if err := loaded.LoadJSON(path); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if lang, ok := loaded.GetAppLanguage("terminal", LanguageVietnamese); !ok || lang != LanguageEnglish {
		t.Errorf("loaded terminal = (%v, %v), want (%v, true)", lang, ok, LanguageEnglish)
	}
	if lang, ok := loaded.GetAppLanguage("editor", LanguageEnglish); !ok || lang != LanguageVietnamese {
		t.Errorf("loaded editor = (%v, %v), want (%v, true)", lang, ok, LanguageVietnamese)
	}
}

func TestSmartSwitchMemory_BinaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smartswitch.bin")

	s := NewSmartSwitchMemory()
	s.Set("terminal", LanguageEnglish)
	s.Set("editor", LanguageVietnamese)
	if err := s.SaveBinary(path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	loaded := NewSmartSwitchMemory()
	if err := loaded.LoadBinary(path); err != nil {
		t.Fatalf("LoadBinary: %v", err)
	}
	if lang, ok := loaded.GetAppLanguage("terminal", LanguageVietnamese); !ok || lang != LanguageEnglish {
		t.Errorf("loaded terminal = (%v, %v), want (%v, true)", lang, ok, LanguageEnglish)
	}
	if lang, ok := loaded.GetAppLanguage("editor", LanguageEnglish); !ok || lang != LanguageVietnamese {
		t.Errorf("loaded editor = (%v, %v), want (%v, true)", lang, ok, LanguageVietnamese)
	}
}
