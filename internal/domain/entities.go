package domain

import (
	"encoding/json"
	"strconv"
)

// Instrument is the central entity of the knowledge base.
type Instrument struct {
	ID           int64  `json:"id"`
	Name         string `json:"nomInstrument"`
	Description  string `json:"description,omitempty"`
	CreationYear *int   `json:"anneeCreation,omitempty"`
}

// FamilyName is the closed set of instrument families.
type FamilyName string

const (
	FamilyStrings       FamilyName = "Cordes"
	FamilyWinds         FamilyName = "Vents"
	FamilyPercussion    FamilyName = "Percussions"
	FamilyElectrophones FamilyName = "Electrophones"
)

// FamilyNames returns every family in display order.
func FamilyNames() []FamilyName {
	return []FamilyName{FamilyStrings, FamilyWinds, FamilyPercussion, FamilyElectrophones}
}

// Valid reports whether f is one of the four known families.
func (f FamilyName) Valid() bool {
	switch f {
	case FamilyStrings, FamilyWinds, FamilyPercussion, FamilyElectrophones:
		return true
	}
	return false
}

// Family groups instruments by sound production.
type Family struct {
	ID   int64      `json:"id"`
	Name FamilyName `json:"nomFamille"`
}

// EthnicGroup is a people associated with instruments and rhythms.
type EthnicGroup struct {
	ID       int64  `json:"id"`
	Name     string `json:"nomGroupe"`
	Language string `json:"langue,omitempty"`
}

// Locality is a geocoded point.
type Locality struct {
	ID        int64   `json:"id"`
	Name      string  `json:"nomLocalite"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Rhythm is a rhythmic pattern, optionally with a tempo.
type Rhythm struct {
	ID       int64  `json:"id"`
	Name     string `json:"nomRythme"`
	TempoBPM *int   `json:"tempoBPM,omitempty"`
}

// Material is something instruments are made of.
type Material struct {
	ID   int64  `json:"id"`
	Name string `json:"nomMateriau"`
	Type string `json:"typeMateriau,omitempty"`
}

type Timbre struct {
	ID          int64  `json:"id"`
	Description string `json:"descriptionTimbre"`
}

type Technique struct {
	ID          int64  `json:"id"`
	Name        string `json:"nomTechnique"`
	Description string `json:"descriptionTechnique,omitempty"`
}

type Artisan struct {
	ID              int64  `json:"id"`
	Name            string `json:"nomArtisan"`
	YearsExperience *int   `json:"anneesExperience,omitempty"`
}

// Heritage is a piece of cultural heritage (patrimoine culturel).
type Heritage struct {
	ID          int64  `json:"id"`
	Name        string `json:"nomPatrimoine"`
	Description string `json:"descriptionPatrimoine,omitempty"`
}

// InstrumentRelations groups an instrument's neighbours by kind.
type InstrumentRelations struct {
	Families     []Family      `json:"familles"`
	EthnicGroups []EthnicGroup `json:"groupesEthniques"`
	Rhythms      []Rhythm      `json:"rythmes"`
	Localities   []Locality    `json:"localites"`
	Materials    []Material    `json:"materiaux"`
	Techniques   []Technique   `json:"techniques"`
	Artisans     []Artisan     `json:"artisans"`
	Timbres      []Timbre      `json:"timbres"`
	Heritages    []Heritage    `json:"patrimoines"`
}

// Count returns the number of related entities across all kinds.
func (r InstrumentRelations) Count() int {
	return len(r.Families) + len(r.EthnicGroups) + len(r.Rhythms) +
		len(r.Localities) + len(r.Materials) + len(r.Techniques) +
		len(r.Artisans) + len(r.Timbres) + len(r.Heritages)
}

// InstrumentWithRelations is assembled server-side.
type InstrumentWithRelations struct {
	Instrument
	Relations InstrumentRelations `json:"relations"`
}

// nameFields lists the JSON name attribute of every entity kind, in lookup order.
var nameFields = []string{
	"nomInstrument", "nomFamille", "nomGroupe", "nomLocalite", "nomRythme",
	"nomMateriau", "nomTechnique", "nomArtisan", "nomPatrimoine", "descriptionTimbre",
}

// Entity is any node of the graph when the API does not say which kind.
// It keeps the raw attributes and exposes the common ones.
type Entity map[string]any

// ID returns the server-assigned identifier, or 0 when absent.
func (e Entity) ID() int64 {
	switch v := e["id"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

// Name returns the first populated name-like attribute.
func (e Entity) Name() string {
	for _, field := range nameFields {
		if s, ok := e[field].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
