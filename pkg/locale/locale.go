// Package locale derives formula separator profiles from authoring locale tags.
//
// The language ties its three separators together: locales that write
// decimals with a comma use ';' to separate call arguments and ';;' to chain
// expressions; dot-decimal locales use ',' and ';'. Only these two profiles
// exist.
package locale

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Profile holds the separator set for one authoring locale.
type Profile struct {
	Decimal rune   // '.' or ','
	List    rune   // ',' or ';'
	Chain   string // ";" or ";;"
}

// The two valid profiles. The pairing is a fixed language rule, not a
// per-locale table: Decimal determines the other two separators.
var (
	// DotDecimal is the default profile: decimal '.', list ',', chain ";".
	DotDecimal = Profile{Decimal: '.', List: ',', Chain: ";"}
	// CommaDecimal is the profile for comma-decimal locales: list ';', chain ";;".
	CommaDecimal = Profile{Decimal: ',', List: ';', Chain: ";;"}
)

// ConfigError reports a malformed locale tag. It is the only fatal,
// pre-lex failure in the pipeline.
type ConfigError struct {
	Tag string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid locale tag %q: %v", e.Tag, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// commaDecimalLanguages lists base languages whose conventional number
// format uses a decimal comma. Region subtags do not flip the choice; the
// authoring locale's language decides.
var commaDecimalLanguages = map[string]bool{
	"af": true, "az": true, "be": true, "bg": true, "bs": true,
	"ca": true, "cs": true, "da": true, "de": true, "el": true,
	"es": true, "et": true, "eu": true, "fi": true, "fr": true,
	"gl": true, "hr": true, "hu": true, "hy": true, "id": true,
	"is": true, "it": true, "ka": true, "kk": true, "lt": true,
	"lv": true, "mk": true, "nb": true, "nl": true, "nn": true,
	"no": true, "pl": true, "pt": true, "ro": true, "ru": true,
	"sk": true, "sl": true, "sq": true, "sr": true, "sv": true,
	"tr": true, "uk": true, "vi": true,
}

// FromDecimal returns the profile implied by an explicit decimal separator
// override. Only '.' and ',' are valid.
func FromDecimal(dec rune) (Profile, error) {
	switch dec {
	case '.':
		return DotDecimal, nil
	case ',':
		return CommaDecimal, nil
	default:
		return Profile{}, &ConfigError{
			Tag: string(dec),
			Err: fmt.Errorf("decimal separator must be '.' or ','"),
		}
	}
}

// Resolve derives the separator profile for a BCP-47 locale tag.
//
// An empty tag and any well-formed tag outside the comma-decimal set fall
// back to the dot-decimal default. A malformed tag returns a *ConfigError.
func Resolve(tag string) (Profile, error) {
	if tag == "" {
		return DotDecimal, nil
	}

	t, err := language.Parse(tag)
	if err != nil {
		// ValueError means the tag is syntactically fine but carries an
		// unknown subtag; treat it as an unknown locale, not a config error.
		var verr language.ValueError
		if !errors.As(err, &verr) {
			return Profile{}, &ConfigError{Tag: tag, Err: err}
		}
	}

	base, _ := t.Base()
	if commaDecimalLanguages[base.String()] {
		return CommaDecimal, nil
	}
	return DotDecimal, nil
}
