package resolver

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/stwalsh4118/plotpilot/api/internal/models"
)

// MinBurialYear is the exclusive lower bound for a trusted burial year.
const MinBurialYear = 1800

var yearPattern = regexp.MustCompile(`[0-9]{4}`)

// ResolveStatus maps a plot's effective properties to its canonical status.
//
// Precedence: an explicit "status" naming one of the canonical statuses wins;
// otherwise LOTSTATUS "Has Burial" means Occupied and "Reserved" means
// Reserved; anything else is Available.
func ResolveStatus(props models.Properties) models.Status {
	if s, ok := ParseStatus(Text(props, models.PropStatus)); ok {
		return s
	}

	switch Text(props, models.PropLotStatus) {
	case models.LotStatusHasBurial:
		return models.StatusOccupied
	case models.LotStatusReserved:
		return models.StatusReserved
	default:
		return models.StatusAvailable
	}
}

// ParseStatus converts a status label to its canonical form. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseStatus(raw string) (models.Status, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range models.Statuses {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return "", false
}

// ResolveBurialYear extracts the first 4-digit run from the first present
// burial-date-like field. ok is false when no field is present or it holds
// no 4-digit run. The year is not range-checked; see ValidBurialYear.
func ResolveBurialYear(props models.Properties) (int, bool) {
	date := BurialDate(props)
	if date == "" {
		return 0, false
	}

	match := yearPattern.FindString(date)
	if match == "" {
		return 0, false
	}

	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

// ValidBurialYear reports whether year lies in (1800, now.Year()].
func ValidBurialYear(year int, now time.Time) bool {
	return year > MinBurialYear && year <= now.Year()
}

// TrustedBurialYear combines ResolveBurialYear and ValidBurialYear.
func TrustedBurialYear(props models.Properties, now time.Time) (int, bool) {
	year, ok := ResolveBurialYear(props)
	if !ok || !ValidBurialYear(year, now) {
		return 0, false
	}
	return year, true
}
