package models

// ColumnSpec describes one column of a proposed table.
type ColumnSpec struct {
	Name         string `json:"name"`
	SemanticType string `json:"semanticType"`
	PrimaryKey   bool   `json:"primaryKey,omitempty"`
	ForeignKey   bool   `json:"foreignKey,omitempty"`
}

// ProposedTable is one candidate table inferred from the uploaded files.
type ProposedTable struct {
	Name          string       `json:"name"`
	SourceFiles   []string     `json:"sourceFiles"`
	Columns       []ColumnSpec `json:"columns"`
	EstimatedRows int64        `json:"estimatedRows"`
	MasterData    bool         `json:"masterData,omitempty"`
	MergedFrom    []string     `json:"mergedFrom,omitempty"`
}

// DetectedRelationship is an inferred link between two table columns.
// Confidence is in [0,1].
type DetectedRelationship struct {
	FromTable  string  `json:"fromTable"`
	FromColumn string  `json:"fromColumn"`
	ToTable    string  `json:"toTable"`
	ToColumn   string  `json:"toColumn"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// DetectedTerm is a business term the backend extracted from the data.
type DetectedTerm struct {
	Term       string  `json:"term"`
	Meaning    string  `json:"meaning"`
	Provenance string  `json:"provenance,omitempty"`
	Confidence float64 `json:"confidence"`
}

// ModelSummary holds aggregate counts for a proposed model.
type ModelSummary struct {
	TableCount        int `json:"tableCount"`
	RelationshipCount int `json:"relationshipCount"`
	TermCount         int `json:"termCount"`
}

// ProposedModel is the candidate relational schema produced by the backend
// in response to an upload. It is held client-side only while the review
// step is pending and discarded after accept or reject.
type ProposedModel struct {
	Tables        []ProposedTable        `json:"tables"`
	Relationships []DetectedRelationship `json:"relationships,omitempty"`
	Terms         []DetectedTerm         `json:"terms,omitempty"`
	Warnings      []string               `json:"warnings,omitempty"`
	Summary       ModelSummary           `json:"summary"`
}

// StartProcessingResult is the success body of the upload endpoint.
type StartProcessingResult struct {
	Success bool           `json:"success"`
	StateID string         `json:"stateId"`
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Model   *ProposedModel `json:"model,omitempty"`
}

// ModelModifications carries user edits submitted alongside acceptance.
type ModelModifications struct {
	RenamedTables  map[string]string `json:"renamedTables,omitempty"`
	ExcludedTables []string          `json:"excludedTables,omitempty"`
}

// ConfirmModelResult is the success body of the confirm endpoint.
type ConfirmModelResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Status    string `json:"status"`
	StageInfo string `json:"stageInfo,omitempty"`
}
