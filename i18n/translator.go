package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "required":
			return "必須エントリが不足しています"
		case "unknown_key":
			return "未知のキーです"
		case "duplicate_key":
			return "キーが重複しています"
		case "out_of_range":
			return "値が範囲外です"
		case "unsupported_algorithm":
			return "未対応の暗号方式です"
		case "unknown_version":
			return "未知のバージョン値です"
		case "unknown_filter":
			return "未知のフィルタ名です"
		case "invalid_enum":
			return "許容されないトークンです"
		case "parse_error":
			return "解析エラー"
		case "depth_exceeded":
			return "入れ子が深すぎます"
		case "truncated":
			return "打ち切られました"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required entry missing"
		case "unknown_key":
			return "unknown key"
		case "duplicate_key":
			return "duplicate key"
		case "out_of_range":
			return "value out of range"
		case "unsupported_algorithm":
			return "unsupported crypt filter method"
		case "unknown_version":
			return "unknown version value"
		case "unknown_filter":
			return "unknown filter name"
		case "invalid_enum":
			return "token not in the allowed set"
		case "parse_error":
			return "parse error"
		case "depth_exceeded":
			return "nesting too deep"
		case "truncated":
			return "truncated"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
