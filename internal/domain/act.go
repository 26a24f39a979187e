package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ActType is the enumerated tag selecting an act calculator
type ActType string

const (
	ActVente               ActType = "vente"
	ActDonation            ActType = "donation"
	ActEchange             ActType = "echange"
	ActPartage             ActType = "partage"
	ActSuccession          ActType = "succession"
	ActPretHypothecaire    ActType = "pret_hypothecaire"
	ActBail                ActType = "bail"
	ActLotissement         ActType = "lotissement"
	ActConstitutionSociete ActType = "constitution_societe"
	ActAugmentationCapital ActType = "augmentation_capital"
	ActCessionParts        ActType = "cession_parts"
	ActDissolution         ActType = "dissolution"
	ActDepot               ActType = "depot"
	ActProcuration         ActType = "procuration"
	ActNotoriete           ActType = "notoriete"
)

// AllActTypes lists every recognized act tag in catalog order
var AllActTypes = []ActType{
	ActVente,
	ActDonation,
	ActEchange,
	ActPartage,
	ActSuccession,
	ActPretHypothecaire,
	ActBail,
	ActLotissement,
	ActConstitutionSociete,
	ActAugmentationCapital,
	ActCessionParts,
	ActDissolution,
	ActDepot,
	ActProcuration,
	ActNotoriete,
}

// Valid reports whether a is part of the recognized enumeration
func (a ActType) Valid() bool {
	for _, known := range AllActTypes {
		if a == known {
			return true
		}
	}
	return false
}

// ParseActType normalizes and checks an act tag. Dashes are accepted for underscores.
func ParseActType(s string) (ActType, error) {
	tag := ActType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !tag.Valid() {
		return "", NewCalcError(KindUnknownActType, "act", "unknown act type: "+s, nil)
	}
	return tag, nil
}

// DateLayout is the ISO calendar date layout used by every date input
const DateLayout = "2006-01-02"

// Date is a calendar date decoded from ISO "YYYY-MM-DD" text in JSON, YAML and TOML
type Date struct {
	time.Time
}

// NewDate builds a UTC calendar date
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return NewDate(t.Date()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.Format(DateLayout)), nil
}

// UnmarshalJSON reads a quoted ISO date; it shadows the RFC 3339 decoder of time.Time
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*d = Date{}
		return nil
	}
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("date must be a quoted YYYY-MM-DD string, got %s", s)
	}
	return d.UnmarshalText([]byte(unquoted))
}

// MarshalJSON writes the date as a quoted ISO string
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}
