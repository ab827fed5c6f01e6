// Package resolver is the single place where legacy property names are
// interpreted. Every consumer that needs an identifier, a name, a section or
// a status goes through these helpers so fallback chains cannot drift apart.
package resolver

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stwalsh4118/plotpilot/api/internal/models"
)

// UnknownSection is the section name used when a plot carries none.
const UnknownSection = "Unknown"

// Text returns the property as a string. Numbers render without a trailing
// fraction when integral; missing and null values render as "".
func Text(props models.Properties, key string) string {
	switch v := props[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// firstText returns the first non-blank value among keys.
func firstText(props models.Properties, keys ...string) string {
	for _, key := range keys {
		if s := Text(props, key); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// PlotID returns the canonical plot identifier: "id" when present,
// otherwise the legacy OBJECTID.
func PlotID(props models.Properties) string {
	return firstText(props, models.PropID, models.PropObjectID)
}

// LegacyID returns the integer OBJECTID used to key stored overrides.
func LegacyID(props models.Properties) (int, bool) {
	switch v := props[models.PropObjectID].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// MatchesID reports whether id names the plot, either by its canonical id
// or by its OBJECTID.
func MatchesID(props models.Properties, id string) bool {
	if id == "" {
		return false
	}
	if PlotID(props) == id {
		return true
	}
	return Text(props, models.PropObjectID) == id
}

// SectionName returns the raw section label (Section, SECTION, Sec).
func SectionName(props models.Properties) string {
	if s := firstText(props, models.PropSection, models.PropSectionUC, models.PropSec); s != "" {
		return s
	}
	return UnknownSection
}

// FirstName returns the occupant's first name.
func FirstName(props models.Properties) string {
	return Text(props, models.PropFirstName)
}

// LastName returns the occupant's last name.
func LastName(props models.Properties) string {
	return Text(props, models.PropLastName)
}

// DisplayName returns the best human-readable occupant name, or "" when the
// plot names nobody.
func DisplayName(props models.Properties) string {
	if s := firstText(props, models.PropName, models.PropFullName); s != "" {
		return s
	}
	return strings.TrimSpace(FirstName(props) + " " + LastName(props))
}

// BurialDate returns the first present burial-date-like field.
func BurialDate(props models.Properties) string {
	return firstText(props, models.PropBurialDate, models.PropDOD, models.PropDateOfDeath)
}

// BurialType returns the burial type label.
func BurialType(props models.Properties) string {
	return strings.TrimSpace(firstText(props, models.PropBurialType, models.PropBurialTyp))
}

// Block returns the block label.
func Block(props models.Properties) string {
	return Text(props, models.PropBlock)
}

// Lot returns the lot label.
func Lot(props models.Properties) string {
	return Text(props, models.PropLot)
}

// PlotDetails is the detail card for a single plot.
type PlotDetails struct {
	BurialYear  *int          `json:"burialYear,omitempty"`
	ID          string        `json:"id"`
	Status      models.Status `json:"status"`
	Section     string        `json:"section"`
	Block       string        `json:"block,omitempty"`
	Lot         string        `json:"lot,omitempty"`
	FirstName   string        `json:"firstName,omitempty"`
	LastName    string        `json:"lastName,omitempty"`
	DisplayName string        `json:"displayName,omitempty"`
	DOD         string        `json:"dod,omitempty"`
	BurialDate  string        `json:"burialDate,omitempty"`
	Age         string        `json:"age,omitempty"`
	BurialType  string        `json:"burialType,omitempty"`
	FuneralHome string        `json:"funeralHome,omitempty"`
	Purchasers  string        `json:"purchasers,omitempty"`
	ReservedFor string        `json:"reservedFor,omitempty"`
	Book        string        `json:"book,omitempty"`
	Page        string        `json:"page,omitempty"`
	Remarks     string        `json:"remarks,omitempty"`
}

// Details builds the detail card for a plot's effective properties.
func Details(props models.Properties) PlotDetails {
	d := PlotDetails{
		ID:          PlotID(props),
		Status:      ResolveStatus(props),
		Section:     SectionName(props),
		Block:       Block(props),
		Lot:         Lot(props),
		FirstName:   FirstName(props),
		LastName:    LastName(props),
		DisplayName: DisplayName(props),
		DOD:         Text(props, models.PropDOD),
		BurialDate:  BurialDate(props),
		Age:         Text(props, models.PropAge),
		BurialType:  BurialType(props),
		FuneralHome: Text(props, models.PropFuneralHome),
		Purchasers:  Text(props, models.PropPurchasers),
		ReservedFor: Text(props, models.PropReservedFor),
		Book:        Text(props, models.PropBook),
		Page:        Text(props, models.PropPage),
		Remarks:     Text(props, models.PropRemarks),
	}
	if year, ok := ResolveBurialYear(props); ok {
		d.BurialYear = &year
	}
	return d
}
