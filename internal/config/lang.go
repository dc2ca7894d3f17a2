package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/verte-zerg/cogtrain/internal/store"
)

// LangKey is the KV key of the interface language.
const LangKey = "reaction_trainer_lang"

// DefaultLang is used when no language was chosen.
const DefaultLang = "en"

// Langs lists the accepted language codes.
var Langs = []string{"en", "zh", "es", "ar", "ru"}

// ParseLang validates a language code.
func ParseLang(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range Langs {
		if l == code {
			return code, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q (want one of %s)", code, strings.Join(Langs, ", "))
}

// LoadLang returns the stored language, DefaultLang when unset or invalid.
func LoadLang(ctx context.Context, kv store.KV) string {
	raw, ok, err := kv.Get(ctx, LangKey)
	if err != nil || !ok {
		return DefaultLang
	}
	lang, err := ParseLang(raw)
	if err != nil {
		return DefaultLang
	}
	return lang
}

// SaveLang validates and stores code.
func SaveLang(ctx context.Context, kv store.KV, code string) error {
	lang, err := ParseLang(code)
	if err != nil {
		return err
	}
	if err := kv.Put(ctx, LangKey, lang); err != nil {
		return fmt.Errorf("save lang: %w", err)
	}
	return nil
}
