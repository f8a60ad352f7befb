package gridscope

import (
	"strconv"
	"strings"

	"github.com/xuri/nfp"
)

// currencySymbols are the leading/trailing symbols that make displayed text
// currency-looking. Currency cells are excluded from both date detection
// and label candidates: a balance column full of "$1,234.00" is data, not
// text, and "1/2/2024"-shaped currency codes must not be read as dates.
var currencySymbols = []string{"$", "€", "£", "¥", "₩", "₹", "US$", "USD", "EUR", "kr"}

// isDateCell reports whether a non-formula cell is date-formatted: an
// explicit flag on the style, a date number format code, or displayed text
// matching the date grammar. Currency formats and currency-looking text are
// explicitly excluded.
func isDateCell(c *Cell) bool {
	if c == nil || c.isEmpty() || c.isFormula() {
		return false
	}
	if c.Style != nil {
		if c.Style.Date {
			return true
		}
		if c.Style.NumFmt != "" {
			isDate, isCurrency := classifyNumFmt(c.Style.NumFmt)
			if isCurrency {
				return false
			}
			if isDate {
				return true
			}
		}
	}
	text := c.content()
	if isCurrencyText(text) {
		return false
	}
	return isDateText(text)
}

// classifyNumFmt parses a number format code and reports whether it renders
// date/time parts and whether it carries a currency designation.
func classifyNumFmt(code string) (isDate, isCurrency bool) {
	ps := nfp.NumberFormatParser()
	for _, section := range ps.Parse(code) {
		for _, token := range section.Items {
			switch token.TType {
			case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
				isDate = true
			case nfp.TokenTypeCurrencyLanguage:
				isCurrency = true
			case nfp.TokenTypeLiteral:
				for _, sym := range currencySymbols {
					if strings.Contains(token.TValue, sym) {
						isCurrency = true
					}
				}
			}
		}
	}
	return isDate, isCurrency
}

// isCurrencyText reports whether displayed text looks like a money amount:
// a currency symbol directly before or after an otherwise numeric body.
func isCurrencyText(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	neg := strings.HasPrefix(text, "-") || (strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")"))
	if neg {
		text = strings.Trim(text, "-()")
		text = strings.TrimSpace(text)
	}
	for _, sym := range currencySymbols {
		var body string
		switch {
		case strings.HasPrefix(text, sym):
			body = text[len(sym):]
		case strings.HasSuffix(text, sym):
			body = text[:len(text)-len(sym)]
		default:
			continue
		}
		if isNumericText(strings.TrimSpace(body)) {
			return true
		}
	}
	return false
}

// isNumericText reports whether text is a plain or thousands-separated
// number, optionally with a percent suffix.
func isNumericText(text string) bool {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))
	if text == "" {
		return false
	}
	stripped := strings.ReplaceAll(text, ",", "")
	_, err := strconv.ParseFloat(stripped, 64)
	return err == nil
}

// isDateText matches displayed text against a strict date grammar:
// numeric triplets separated by "/", "-" or "." (2024-01-31, 31/1/2024),
// numeric pairs like 1/31, or day-month forms with a short month name
// (31-Jan, Jan 2024). Anything with a currency symbol never matches.
func isDateText(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || isNumericText(text) || isCurrencyText(text) {
		return false
	}
	// Strip a trailing time part such as " 12:30" or " 12:30:00".
	if i := strings.IndexByte(text, ' '); i > 0 && strings.Contains(text[i+1:], ":") {
		text = text[:i]
	}
	for _, sep := range []string{"/", "-", "."} {
		parts := strings.Split(text, sep)
		switch len(parts) {
		case 2:
			if monthPart(parts[0]) && yearOrDayPart(parts[1]) ||
				yearOrDayPart(parts[0]) && monthPart(parts[1]) {
				return true
			}
		case 3:
			if datePart(parts[0]) && monthPart(parts[1]) && datePart(parts[2]) {
				return true
			}
		}
	}
	// "Jan 2024" / "1 Jan 2024" style: exactly one month name, every other
	// field a numeric day or year. Words that merely start like a month
	// ("margin", "decrease") must not drag ordinary labels in here.
	fields := strings.Fields(text)
	if len(fields) == 2 || len(fields) == 3 {
		months, numbers := 0, 0
		for _, f := range fields {
			switch {
			case monthName(f):
				months++
			case datePart(strings.TrimRight(f, ".,")):
				numbers++
			}
		}
		if months == 1 && numbers == len(fields)-1 {
			return true
		}
	}
	return false
}

// datePart accepts a 1-4 digit day or year component.
func datePart(s string) bool {
	if len(s) == 0 || len(s) > 4 {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0
}

// monthPart accepts a numeric month (1-12) or a month name.
func monthPart(s string) bool {
	if monthName(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1 && n <= 12
}

// yearOrDayPart accepts a day (1-31) or a 4-digit year.
func yearOrDayPart(s string) bool {
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return (n >= 1 && n <= 31) || (n >= 1900 && n <= 9999)
}

var monthNames = map[string]bool{
	"jan": true, "feb": true, "mar": true, "apr": true, "may": true, "jun": true,
	"jul": true, "aug": true, "sep": true, "sept": true, "oct": true, "nov": true, "dec": true,
	"january": true, "february": true, "march": true, "april": true,
	"june": true, "july": true, "august": true, "september": true,
	"october": true, "november": true, "december": true,
}

// monthName matches whole tokens only, with an optional trailing "." or ",".
// Prefix matches would turn words like "margin" or "decrease" into months.
func monthName(s string) bool {
	return monthNames[strings.ToLower(strings.TrimRight(s, ".,"))]
}

// isLabelText reports whether displayed text qualifies as a label: present,
// not a number, not currency-looking and not a date.
func isLabelText(text string) bool {
	text = strings.TrimSpace(text)
	return text != "" && !isNumericText(text) && !isCurrencyText(text) && !isDateText(text)
}
