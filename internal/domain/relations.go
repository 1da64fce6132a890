package domain

// RelationType is the closed set of typed edges between entities.
type RelationType string

const (
	RelationBelongsTo      RelationType = "appartientA"
	RelationUsedBy         RelationType = "utilisePar"
	RelationProducesRhythm RelationType = "produitRythme"
	RelationLocatedAt      RelationType = "localiseA"
	RelationMadeOf         RelationType = "constitueDe"
	RelationPlayedWith     RelationType = "joueAvec"
	RelationCraftedBy      RelationType = "fabrique"
	RelationCharacterizes  RelationType = "caracterise"
	RelationAppliesTo      RelationType = "appliqueA"
	RelationEncompasses    RelationType = "englobe"
)

// RelationTypes returns all ten relation types.
func RelationTypes() []RelationType {
	return []RelationType{
		RelationBelongsTo, RelationUsedBy, RelationProducesRhythm, RelationLocatedAt,
		RelationMadeOf, RelationPlayedWith, RelationCraftedBy, RelationCharacterizes,
		RelationAppliesTo, RelationEncompasses,
	}
}

// Valid reports whether t is a known relation type.
func (t RelationType) Valid() bool {
	for _, known := range RelationTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Cardinality constrains how many edges of a type an endpoint may have.
type Cardinality string

const (
	OneToOne   Cardinality = "1:1"
	OneToMany  Cardinality = "1:N"
	ManyToOne  Cardinality = "N:1"
	ManyToMany Cardinality = "N:N"
)

// SourceUnique reports whether a source may have at most one outgoing edge.
func (c Cardinality) SourceUnique() bool {
	return c == OneToOne || c == ManyToOne
}

// TargetUnique reports whether a target may have at most one incoming edge.
func (c Cardinality) TargetUnique() bool {
	return c == OneToOne || c == OneToMany
}

// Entity labels as returned by the graph backend.
const (
	LabelInstrument  = "Instrument"
	LabelFamily      = "Famille"
	LabelEthnicGroup = "GroupeEthnique"
	LabelLocality    = "Localite"
	LabelRhythm      = "Rythme"
	LabelMaterial    = "Materiau"
	LabelTimbre      = "Timbre"
	LabelTechnique   = "TechniqueDeJeu"
	LabelArtisan     = "Artisan"
	LabelHeritage    = "PatrimoineCulturel"
)

// RelationConstraint says which labels an edge may connect and how often.
type RelationConstraint struct {
	From        []string    `json:"from"`
	To          []string    `json:"to"`
	Cardinality Cardinality `json:"cardinality"`
}

// RelationTypeInfo is one entry of GET /relations/types.
type RelationTypeInfo struct {
	Type        RelationType       `json:"type"`
	Constraints RelationConstraint `json:"constraints"`
}

// DefaultRelationConstraints is the constraint table used when the server's
// table has not been fetched. The server remains authoritative.
func DefaultRelationConstraints() map[RelationType]RelationConstraint {
	return map[RelationType]RelationConstraint{
		RelationBelongsTo:      {From: []string{LabelInstrument}, To: []string{LabelFamily}, Cardinality: ManyToOne},
		RelationUsedBy:         {From: []string{LabelInstrument}, To: []string{LabelEthnicGroup}, Cardinality: ManyToMany},
		RelationProducesRhythm: {From: []string{LabelInstrument}, To: []string{LabelRhythm}, Cardinality: ManyToMany},
		RelationLocatedAt:      {From: []string{LabelEthnicGroup}, To: []string{LabelLocality}, Cardinality: ManyToOne},
		RelationMadeOf:         {From: []string{LabelInstrument}, To: []string{LabelMaterial}, Cardinality: ManyToMany},
		RelationPlayedWith:     {From: []string{LabelInstrument}, To: []string{LabelTechnique}, Cardinality: ManyToMany},
		RelationCraftedBy:      {From: []string{LabelArtisan}, To: []string{LabelInstrument}, Cardinality: OneToMany},
		RelationCharacterizes:  {From: []string{LabelTimbre}, To: []string{LabelInstrument}, Cardinality: OneToOne},
		RelationAppliesTo:      {From: []string{LabelTechnique}, To: []string{LabelInstrument}, Cardinality: ManyToMany},
		RelationEncompasses:    {From: []string{LabelHeritage}, To: []string{LabelEthnicGroup}, Cardinality: OneToMany},
	}
}

// Relation is a directed, typed edge.
type Relation struct {
	Source Entity       `json:"source"`
	Target Entity       `json:"target"`
	Type   RelationType `json:"relationType"`
}

// Direction of a relation relative to the entity it was fetched for.
type Direction string

const (
	DirectionIn   Direction = "IN"
	DirectionOut  Direction = "OUT"
	DirectionBoth Direction = "BOTH"
)

// RelationInfo is one neighbour of an entity.
type RelationInfo struct {
	Type         RelationType `json:"type"`
	Direction    Direction    `json:"direction"`
	Entity       Entity       `json:"entity"`
	EntityLabels []string     `json:"entityLabels"`
}

// EntityRelations lists the edges around one entity.
type EntityRelations struct {
	Entity    Entity `json:"entity"`
	Relations struct {
		Outgoing []RelationInfo `json:"outgoing"`
		Incoming []RelationInfo `json:"incoming"`
	} `json:"relations"`
}

// RelationStatistics summarizes the relation graph.
type RelationStatistics struct {
	TotalRelations int `json:"totalRelations"`
	RelationTypes  []struct {
		Type  RelationType `json:"type"`
		Count int          `json:"count"`
	} `json:"relationTypes"`
	AvailableRelationTypes []RelationType `json:"availableRelationTypes"`
}

// ValidationResult is the body of POST /relations/validate.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}
