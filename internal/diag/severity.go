package diag

// Severity: важность диагностики. Значения упорядочены, сравнение через >=
// (HasErrors, лимит ошибок парсера) на этом держится.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]struct{ upper, lower string }{
	SevInfo:    {"INFO", "info"},
	SevWarning: {"WARNING", "warning"},
	SevError:   {"ERROR", "error"},
}

// Valid reports whether s is one of the known severities. Записи кэша с
// другим значением считаются испорченными.
func (s Severity) Valid() bool {
	return int(s) < len(severityNames)
}

// IsError: диагностика делает результат разбора ошибочным.
func (s Severity) IsError() bool {
	return s >= SevError
}

// String is the upper-case form used by pretty and JSON output.
func (s Severity) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return severityNames[s].upper
}

// Label is the lower-case form of golden files ("error: ...").
func (s Severity) Label() string {
	if !s.Valid() {
		return "unknown"
	}
	return severityNames[s].lower
}
