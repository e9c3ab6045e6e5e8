package models

// DataSourcesSummary is the data-source rollup on the readiness report.
type DataSourcesSummary struct {
	Total  int `json:"total"`
	Ready  int `json:"ready"`
	Tables int `json:"tables"`
}

// ChatbotInfo reports chatbot availability once onboarding completes.
type ChatbotInfo struct {
	Available          bool     `json:"available"`
	Endpoint           string   `json:"endpoint,omitempty"`
	SuggestedQuestions []string `json:"suggestedQuestions,omitempty"`
}

// ReadyStatus is the success body of the onboarding readiness endpoint.
type ReadyStatus struct {
	Ready            bool               `json:"ready"`
	OrganizationName string             `json:"organizationName"`
	BusinessType     string             `json:"businessType,omitempty"`
	Industry         string             `json:"industry,omitempty"`
	QualityScore     *QualityScore      `json:"qualityScore,omitempty"`
	DataSources      DataSourcesSummary `json:"dataSources"`
	Chatbot          ChatbotInfo        `json:"chatbot"`
}

// QualityIssue is one remaining problem after a quality recalculation.
type QualityIssue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// QualityReport is the success body of the recalculate-quality endpoint.
type QualityReport struct {
	PreviousScore   QualityScore            `json:"previousScore"`
	NewScore        QualityScore            `json:"newScore"`
	Breakdown       map[string]QualityScore `json:"breakdown,omitempty"`
	RemainingIssues []QualityIssue          `json:"remainingIssues,omitempty"`
}
