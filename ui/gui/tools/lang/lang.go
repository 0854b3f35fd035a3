package lang

import (
	"embed"
	"encoding/json"
	"fmt"
)

type LangType int

const (
	EN LangType = iota
	RU
)

//go:embed dict/*.json
var dicts embed.FS

type GUILangWorker struct {
	lang LangType
	dict map[string]string
}

// create object LangWorker and set lang
func NewGUILangWorker(l LangType) (*GUILangWorker, error) {
	lw := &GUILangWorker{}
	if err := lw.SetLang(l); err != nil {
		return nil, err
	}
	return lw, nil
}

// FromCode maps a config language code, unknown codes are EN.
func FromCode(code string) LangType {
	if code == "ru" {
		return RU
	}
	return EN
}

func (l LangType) Code() string {
	if l == RU {
		return "ru"
	}
	return "en"
}

func (lw *GUILangWorker) GetLang() LangType {
	return lw.lang
}

func (lw *GUILangWorker) SetLang(l LangType) error {
	data, err := dicts.ReadFile("dict/" + l.Code() + ".json")
	if err != nil {
		return err
	}
	dict := make(map[string]string)
	if err := json.Unmarshal(data, &dict); err != nil {
		return fmt.Errorf("error decode %s dictionary: %w", l.Code(), err)
	}
	lw.lang = l
	lw.dict = dict
	return nil
}

// Toggle switches between the two languages.
func (lw *GUILangWorker) Toggle() error {
	if lw.lang == EN {
		return lw.SetLang(RU)
	}
	return lw.SetLang(EN)
}

func (lw *GUILangWorker) T(key string) string {
	if v, ok := lw.dict[key]; ok {
		return v
	}
	return key // if key is not found
}
