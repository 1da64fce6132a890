package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// CreateInstrument is the body of POST /instruments.
type CreateInstrument struct {
	Name         string `json:"nomInstrument"`
	Description  string `json:"description,omitempty"`
	CreationYear *int   `json:"anneeCreation,omitempty"`
}

// UpdateInstrument is a partial update; nil fields are left untouched.
type UpdateInstrument struct {
	Name         *string `json:"nomInstrument,omitempty"`
	Description  *string `json:"description,omitempty"`
	CreationYear *int    `json:"anneeCreation,omitempty"`
}

type CreateFamily struct {
	Name FamilyName `json:"nomFamille"`
}

type CreateEthnicGroup struct {
	Name     string `json:"nomGroupe"`
	Language string `json:"langue,omitempty"`
}

type CreateLocality struct {
	Name      string  `json:"nomLocalite"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CreateRhythm struct {
	Name     string `json:"nomRythme"`
	TempoBPM *int   `json:"tempoBPM,omitempty"`
}

type CreateMaterial struct {
	Name string `json:"nomMateriau"`
	Type string `json:"typeMateriau,omitempty"`
}

// CreateRelation is the body of POST /relations and /relations/validate.
type CreateRelation struct {
	SourceID int64        `json:"sourceId"`
	TargetID int64        `json:"targetId"`
	Type     RelationType `json:"relationType"`
}

// SearchFilters narrows instrument lists. Zero values mean "no filter".
type SearchFilters struct {
	Family      string `json:"famille,omitempty"`
	EthnicGroup string `json:"groupeEthnique,omitempty"`
	Locality    string `json:"localite,omitempty"`
	Material    string `json:"materiau,omitempty"`
	Name        string `json:"nom,omitempty"`
	YearMin     int    `json:"anneeMin,omitempty"`
	YearMax     int    `json:"anneeMax,omitempty"`
}

// IsEmpty reports whether no filter is set.
func (f SearchFilters) IsEmpty() bool {
	return f == SearchFilters{}
}

// Encode adds the set filters to values. Empty filters are never sent.
func (f SearchFilters) Encode(values url.Values) {
	set := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			values.Set(key, v)
		}
	}
	set("famille", f.Family)
	set("groupeEthnique", f.EthnicGroup)
	set("localite", f.Locality)
	set("materiau", f.Material)
	set("nom", f.Name)
	if f.YearMin != 0 {
		values.Set("anneeMin", strconv.Itoa(f.YearMin))
	}
	if f.YearMax != 0 {
		values.Set("anneeMax", strconv.Itoa(f.YearMax))
	}
}

// ListOptions selects a page of instruments.
type ListOptions struct {
	Page    int           `json:"page,omitempty"`
	Limit   int           `json:"limit,omitempty"`
	Search  string        `json:"search,omitempty"`
	Filters SearchFilters `json:"filters,omitzero"`
}

// Encode returns the query string parameters for GET /instruments.
func (o ListOptions) Encode() url.Values {
	values := url.Values{}
	if o.Page > 0 {
		values.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		values.Set("limit", strconv.Itoa(o.Limit))
	}
	if s := strings.TrimSpace(o.Search); s != "" {
		values.Set("search", s)
	}
	o.Filters.Encode(values)
	return values
}

// GeographicParams centers a geographic search. Radius is in kilometres.
type GeographicParams struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Radius float64 `json:"radius,omitempty"`
}

// Defaults applied when a search parameter is left at zero.
const (
	DefaultGeographicRadius     = 100
	DefaultGlobalLimit          = 50
	DefaultCentralityLimit      = 20
	DefaultRecommendationsLimit = 5
	DefaultSimilarEntitiesLimit = 10
)

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (in CreateInstrument) Validate() error { return requireName(in.Name) }

func (in UpdateInstrument) Validate() error {
	if in.Name != nil {
		return requireName(*in.Name)
	}
	return nil
}

func (in CreateFamily) Validate() error {
	if err := requireName(string(in.Name)); err != nil {
		return err
	}
	if !in.Name.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFamily, in.Name)
	}
	return nil
}

func (in CreateEthnicGroup) Validate() error { return requireName(in.Name) }

func (in CreateLocality) Validate() error {
	if err := requireName(in.Name); err != nil {
		return err
	}
	if in.Latitude < -90 || in.Latitude > 90 || in.Longitude < -180 || in.Longitude > 180 {
		return fmt.Errorf("coordinates out of range: %g,%g", in.Latitude, in.Longitude)
	}
	return nil
}

func (in CreateRhythm) Validate() error { return requireName(in.Name) }

func (in CreateMaterial) Validate() error { return requireName(in.Name) }

// Validate checks what can be checked without the server: positive
// endpoints and a known relation type.
func (in CreateRelation) Validate() error {
	if in.SourceID <= 0 || in.TargetID <= 0 {
		return ErrInvalidID
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRelationType, in.Type)
	}
	return nil
}
