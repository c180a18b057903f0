package domain

import "strings"

// countryToTimezone maps upstream ISO country codes to a representative IANA
// display timezone. Countries spanning several zones get their most populous
// one; anything unlisted falls back to UTC.
var countryToTimezone = map[string]string{
	"ar": "America/Argentina/Buenos_Aires",
	"at": "Europe/Vienna",
	"au": "Australia/Sydney",
	"be": "Europe/Brussels",
	"bg": "Europe/Sofia",
	"br": "America/Sao_Paulo",
	"by": "Europe/Minsk",
	"ca": "America/Toronto",
	"ch": "Europe/Zurich",
	"cl": "America/Santiago",
	"cn": "Asia/Shanghai",
	"cz": "Europe/Prague",
	"de": "Europe/Berlin",
	"dk": "Europe/Copenhagen",
	"ee": "Europe/Tallinn",
	"es": "Europe/Madrid",
	"fi": "Europe/Helsinki",
	"fr": "Europe/Paris",
	"gb": "Europe/London",
	"gr": "Europe/Athens",
	"hr": "Europe/Zagreb",
	"hu": "Europe/Budapest",
	"il": "Asia/Jerusalem",
	"it": "Europe/Rome",
	"jp": "Asia/Tokyo",
	"kr": "Asia/Seoul",
	"kz": "Asia/Almaty",
	"lt": "Europe/Vilnius",
	"lv": "Europe/Riga",
	"mn": "Asia/Ulaanbaatar",
	"mx": "America/Mexico_City",
	"nl": "Europe/Amsterdam",
	"no": "Europe/Oslo",
	"nz": "Pacific/Auckland",
	"pl": "Europe/Warsaw",
	"pt": "Europe/Lisbon",
	"ro": "Europe/Bucharest",
	"rs": "Europe/Belgrade",
	"ru": "Europe/Moscow",
	"se": "Europe/Stockholm",
	"sk": "Europe/Bratislava",
	"tr": "Europe/Istanbul",
	"ua": "Europe/Kyiv",
	"us": "America/New_York",
}

func TimezoneForCountry(country string) string {
	if tz, ok := countryToTimezone[strings.ToLower(strings.TrimSpace(country))]; ok {
		return tz
	}
	return "UTC"
}
