package holidays

// timezoneToRegions maps common IANA timezone names to the ISO-3166-1
// alpha-2 country codes nager.date expects. It is consulted before
// falling back to the restcountries.com HTTP lookup, so the common
// case never makes a network call. Timezones shared by multiple
// countries list the most populous one first.
var timezoneToRegions = map[string][]string{
	"Europe/Paris":     {"FR"},
	"Europe/Berlin":    {"DE"},
	"Europe/Madrid":    {"ES"},
	"Europe/Rome":      {"IT"},
	"Europe/Lisbon":    {"PT"},
	"Europe/Amsterdam": {"NL"},
	"Europe/Brussels":  {"BE"},
	"Europe/Vienna":    {"AT"},
	"Europe/Zurich":    {"CH"},
	"Europe/Dublin":    {"IE"},
	"Europe/London":    {"GB"},
	"Europe/Warsaw":    {"PL"},
	"Europe/Prague":    {"CZ"},
	"Europe/Budapest":  {"HU"},
	"Europe/Athens":    {"GR"},
	"Europe/Helsinki":  {"FI"},
	"Europe/Stockholm": {"SE"},
	"Europe/Oslo":      {"NO"},
	"Europe/Copenhagen": {"DK"},
	"Europe/Moscow":    {"RU"},
	"Europe/Kyiv":      {"UA"},
	"Europe/Bucharest": {"RO"},

	"America/New_York":    {"US"},
	"America/Chicago":     {"US"},
	"America/Denver":      {"US"},
	"America/Los_Angeles": {"US"},
	"America/Anchorage":   {"US"},
	"America/Toronto":     {"CA"},
	"America/Vancouver":   {"CA"},
	"America/Mexico_City": {"MX"},
	"America/Sao_Paulo":   {"BR"},
	"America/Bogota":      {"CO"},
	"America/Argentina/Buenos_Aires": {"AR"},
	"America/Santiago":    {"CL"},

	"Asia/Tokyo":     {"JP"},
	"Asia/Shanghai":  {"CN"},
	"Asia/Hong_Kong": {"HK"},
	"Asia/Singapore": {"SG"},
	"Asia/Seoul":     {"KR"},
	"Asia/Kolkata":   {"IN"},
	"Asia/Dubai":     {"AE"},
	"Asia/Jakarta":   {"ID"},
	"Asia/Bangkok":   {"TH"},
	"Asia/Manila":    {"PH"},
	"Asia/Taipei":    {"TW"},
	"Asia/Istanbul":  {"TR"},
	"Asia/Jerusalem": {"IL"},

	"Australia/Sydney":    {"AU"},
	"Australia/Melbourne": {"AU"},
	"Australia/Perth":     {"AU"},
	"Pacific/Auckland":    {"NZ"},

	"Africa/Johannesburg": {"ZA"},
	"Africa/Cairo":        {"EG"},
	"Africa/Lagos":        {"NG"},
	"Africa/Nairobi":      {"KE"},

	"UTC": {"US"},
}
